package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/app"
	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/domain"
)

// userIDHeader carries the authenticated user identity. Resolving a real
// identity (sessions, wallets) belongs to the gateway in front of this
// service.
const userIDHeader = "X-User-ID"

// ClaimCreator is the minimal interface needed to create a claim.
type ClaimCreator interface {
	CreateClaim(ctx context.Context, in app.CreateClaimInput) (domain.Claim, error)
}

// HandleCreateClaim returns an HTTP handler for claiming a reward unit.
func HandleCreateClaim(svc ClaimCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		userID := r.Header.Get(userIDHeader)
		if userID == "" {
			writeError(w, http.StatusBadRequest, codeUserIDRequired, domain.ErrUserIDRequired.Error())
			return
		}

		var req createClaimRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		claim, err := svc.CreateClaim(r.Context(), app.CreateClaimInput{
			DefinitionCode: req.DefinitionCode,
			UserID:         userID,
			ClaimType:      req.ClaimType,
		})
		if err != nil {
			writeClaimError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, claimResponse{
			ClaimID:    claim.ID,
			UserID:     claim.UserID,
			MintUnitID: claim.MintUnitID,
			ClaimType:  claim.ClaimType,
			Status:     string(claim.Status),
			ClaimedAt:  claim.ClaimedAt,
		})
	}
}

func writeClaimError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrDefinitionCodeRequired):
		writeError(w, http.StatusBadRequest, codeDefinitionRequired, err.Error())
	case errors.Is(err, domain.ErrClaimTypeRequired):
		writeError(w, http.StatusBadRequest, codeClaimTypeRequired, err.Error())
	case errors.Is(err, domain.ErrUserIDRequired):
		writeError(w, http.StatusBadRequest, codeUserIDRequired, err.Error())
	case errors.Is(err, domain.ErrDefinitionNotFound):
		writeError(w, http.StatusNotFound, codeDefinitionNotFound, err.Error())
	case errors.Is(err, domain.ErrNoUnitsAvailable):
		writeError(w, http.StatusConflict, codeNoUnitsAvailable, err.Error())
	case errors.Is(err, domain.ErrDuplicateClaim):
		writeError(w, http.StatusConflict, codeDuplicateClaim, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

type createClaimRequest struct {
	DefinitionCode string `json:"definition_code"`
	ClaimType      string `json:"claim_type"`
}

type claimResponse struct {
	ClaimID    string    `json:"claim_id"`
	UserID     string    `json:"user_id"`
	MintUnitID string    `json:"mint_unit_id"`
	ClaimType  string    `json:"claim_type"`
	Status     string    `json:"status"`
	ClaimedAt  time.Time `json:"claimed_at"`
}
