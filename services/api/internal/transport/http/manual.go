package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/app"
	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/domain"
)

// ManualClaimer is the minimal interface needed for operator-driven claims.
type ManualClaimer interface {
	CreateManualClaim(ctx context.Context, in app.CreateManualClaimInput) (domain.Claim, error)
}

// HandleManualClaim returns an HTTP handler for the admin override path:
// an immediately COMPLETED claim for a specific unit.
func HandleManualClaim(svc ManualClaimer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req manualClaimRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		claim, err := svc.CreateManualClaim(r.Context(), app.CreateManualClaimInput{
			UserID:     req.UserID,
			MintUnitID: req.MintUnitID,
			ClaimType:  req.ClaimType,
			Reason:     req.Reason,
		})
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrUserIDRequired):
				writeError(w, http.StatusBadRequest, codeUserIDRequired, err.Error())
			case errors.Is(err, domain.ErrClaimTypeRequired):
				writeError(w, http.StatusBadRequest, codeClaimTypeRequired, err.Error())
			case errors.Is(err, domain.ErrReasonRequired):
				writeError(w, http.StatusBadRequest, codeReasonRequired, err.Error())
			case errors.Is(err, domain.ErrInvalidID):
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case errors.Is(err, domain.ErrUnitNotFound):
				writeError(w, http.StatusNotFound, codeUnitNotFound, err.Error())
			case errors.Is(err, domain.ErrUnitUnavailable):
				writeError(w, http.StatusConflict, codeUnitUnavailable, err.Error())
			case errors.Is(err, domain.ErrDuplicateClaim):
				writeError(w, http.StatusConflict, codeDuplicateClaim, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
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

type manualClaimRequest struct {
	UserID     string `json:"user_id"`
	MintUnitID string `json:"mint_unit_id"`
	ClaimType  string `json:"claim_type"`
	Reason     string `json:"reason"`
}
