package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/app"
	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/domain"
)

// ClaimFinalizer is the minimal interface needed to finalize a claim.
type ClaimFinalizer interface {
	Finalize(ctx context.Context, claimID string, out app.Outcome) (domain.Claim, error)
}

// HandleFinalizeClaim returns an HTTP handler for reporting a terminal
// settlement outcome, called by the settlement worker or an admin.
func HandleFinalizeClaim(svc ClaimFinalizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		claimID, ok := parseFinalizePath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		var req finalizeClaimRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		outcome, err := req.outcome()
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidOutcome, err.Error())
			return
		}

		claim, err := svc.Finalize(r.Context(), claimID, outcome)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidID):
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case errors.Is(err, domain.ErrClaimNotFound):
				writeError(w, http.StatusNotFound, codeClaimNotFound, err.Error())
			case errors.Is(err, domain.ErrClaimAlreadyFinalized):
				writeError(w, http.StatusConflict, codeAlreadyFinalized, err.Error())
			case errors.Is(err, domain.ErrInvalidOutcome):
				writeError(w, http.StatusBadRequest, codeInvalidOutcome, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusOK, claimResponse{
			ClaimID:    claim.ID,
			UserID:     claim.UserID,
			MintUnitID: claim.MintUnitID,
			ClaimType:  claim.ClaimType,
			Status:     string(claim.Status),
			ClaimedAt:  claim.ClaimedAt,
		})
	}
}

func parseFinalizePath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 {
		return "", false
	}
	if parts[0] != "claims" || parts[2] != "finalize" {
		return "", false
	}
	if parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

type finalizeClaimRequest struct {
	Status string `json:"status"`
	TxHash string `json:"tx_hash"`
	Error  string `json:"error"`
}

func (r finalizeClaimRequest) outcome() (app.Outcome, error) {
	switch r.Status {
	case string(domain.ClaimStatusCompleted):
		if r.TxHash == "" {
			return app.Outcome{}, errors.New("tx_hash is required for COMPLETED")
		}
		return app.Outcome{Kind: app.OutcomeSuccess, TxHash: r.TxHash}, nil
	case string(domain.ClaimStatusFailed):
		if r.Error == "" {
			return app.Outcome{}, errors.New("error is required for FAILED")
		}
		return app.Outcome{Kind: app.OutcomeFailure, Error: r.Error}, nil
	default:
		return app.Outcome{}, errors.New("status must be COMPLETED or FAILED")
	}
}
