package domain

import "errors"

var (
	ErrDefinitionNotFound      = errors.New("definition not found")
	ErrDefinitionAlreadyExists = errors.New("definition already exists")
	ErrNoUnitsAvailable        = errors.New("no available units")
	ErrUnitNotFound            = errors.New("mint unit not found")
	ErrUnitUnavailable         = errors.New("mint unit unavailable")
	ErrClaimNotFound           = errors.New("claim not found")
	ErrClaimAlreadyFinalized   = errors.New("claim already finalized")
	ErrDuplicateClaim          = errors.New("duplicate claim")
	ErrDuplicateTokenID        = errors.New("duplicate token id")
	ErrUserIDRequired          = errors.New("user id required")
	ErrDefinitionCodeRequired  = errors.New("definition code required")
	ErrDefinitionNameRequired  = errors.New("definition name required")
	ErrClaimTypeRequired       = errors.New("claim type required")
	ErrReasonRequired          = errors.New("reason required")
	ErrInvalidCount            = errors.New("invalid count")
	ErrInvalidTokenID          = errors.New("invalid token id")
	ErrInvalidOutcome          = errors.New("invalid outcome")
	ErrInvalidID               = errors.New("invalid id")
)
