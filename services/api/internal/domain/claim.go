package domain

import "time"

type ClaimStatus string

const (
	ClaimStatusPending   ClaimStatus = "PENDING"
	ClaimStatusCompleted ClaimStatus = "COMPLETED"
	ClaimStatusFailed    ClaimStatus = "FAILED"
)

// Claim records a user's reservation of a mint unit. PENDING is the only
// non-terminal state; a PENDING or COMPLETED claim is what marks its unit as
// reserved, FAILED claims release the unit back to the allocatable pool.
type Claim struct {
	ID         string
	UserID     string
	MintUnitID string
	ClaimType  string
	Status     ClaimStatus
	ClaimedAt  time.Time
}

// Terminal reports whether the claim has reached a final state.
func (c Claim) Terminal() bool {
	return c.Status != ClaimStatusPending
}
