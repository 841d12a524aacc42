package domain

import "time"

type MintUnitStatus string

const (
	MintUnitStatusMinted      MintUnitStatus = "MINTED"
	MintUnitStatusTransferred MintUnitStatus = "TRANSFERRED"
)

// MintUnit is one pre-minted, allocatable reward token held by a custodian
// wallet until a claim transfers it to a user. A unit never goes back from
// TRANSFERRED.
type MintUnit struct {
	ID                string
	DefinitionCode    string
	TokenID           int64
	Contract          string
	Network           string
	CustodianWalletID string
	Status            MintUnitStatus
	CreatedAt         time.Time
}
