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

// InventoryAdmin is the minimal interface for the admin inventory surface.
type InventoryAdmin interface {
	CreateDefinition(ctx context.Context, in app.CreateDefinitionInput) (domain.BadgeDefinition, error)
	ListDefinitions(ctx context.Context) ([]domain.BadgeDefinition, error)
	CreateBatch(ctx context.Context, in app.CreateBatchInput) ([]domain.MintUnit, error)
}

// HandleInventoryBatch returns an HTTP handler for registering a batch of
// pre-minted units.
func HandleInventoryBatch(svc InventoryAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req inventoryBatchRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		units, err := svc.CreateBatch(r.Context(), app.CreateBatchInput{
			DefinitionCode:    req.DefinitionCode,
			Count:             req.Count,
			StartTokenID:      req.StartTokenID,
			Contract:          req.Contract,
			Network:           req.Network,
			CustodianWalletID: req.CustodianWalletID,
		})
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrDefinitionCodeRequired):
				writeError(w, http.StatusBadRequest, codeDefinitionRequired, err.Error())
			case errors.Is(err, domain.ErrInvalidCount):
				writeError(w, http.StatusBadRequest, codeInvalidCount, err.Error())
			case errors.Is(err, domain.ErrInvalidTokenID):
				writeError(w, http.StatusBadRequest, codeInvalidTokenID, err.Error())
			case errors.Is(err, domain.ErrInvalidID):
				writeError(w, http.StatusBadRequest, codeMissingRequiredField, "contract, network and custodian_wallet_id are required")
			case errors.Is(err, domain.ErrDefinitionNotFound):
				writeError(w, http.StatusNotFound, codeDefinitionNotFound, err.Error())
			case errors.Is(err, domain.ErrDuplicateTokenID):
				writeError(w, http.StatusConflict, codeDuplicateTokenID, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		resp := inventoryBatchResponse{Created: len(units)}
		for _, unit := range units {
			resp.Units = append(resp.Units, mintUnitResponse{
				ID:      unit.ID,
				TokenID: unit.TokenID,
				Status:  string(unit.Status),
			})
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

// HandleDefinitions routes POST to definition creation and GET to listing.
func HandleDefinitions(svc InventoryAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			createDefinition(w, r, svc)
		case http.MethodGet:
			listDefinitions(w, r, svc)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

func createDefinition(w http.ResponseWriter, r *http.Request, svc InventoryAdmin) {
	var req createDefinitionRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	def, err := svc.CreateDefinition(r.Context(), app.CreateDefinitionInput{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDefinitionCodeRequired):
			writeError(w, http.StatusBadRequest, codeDefinitionRequired, err.Error())
		case errors.Is(err, domain.ErrDefinitionNameRequired):
			writeError(w, http.StatusBadRequest, codeMissingRequiredField, err.Error())
		case errors.Is(err, domain.ErrDefinitionAlreadyExists):
			writeError(w, http.StatusConflict, codeDefinitionExists, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, definitionResponse{
		Code:        def.Code,
		Name:        def.Name,
		Description: def.Description,
		CreatedAt:   def.CreatedAt,
	})
}

func listDefinitions(w http.ResponseWriter, r *http.Request, svc InventoryAdmin) {
	defs, err := svc.ListDefinitions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		return
	}

	resp := make([]definitionResponse, 0, len(defs))
	for _, def := range defs {
		resp = append(resp, definitionResponse{
			Code:        def.Code,
			Name:        def.Name,
			Description: def.Description,
			CreatedAt:   def.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type inventoryBatchRequest struct {
	DefinitionCode    string `json:"definition_code"`
	Count             int    `json:"count"`
	StartTokenID      int64  `json:"start_token_id"`
	Contract          string `json:"contract"`
	Network           string `json:"network"`
	CustodianWalletID string `json:"custodian_wallet_id"`
}

type inventoryBatchResponse struct {
	Created int                `json:"created"`
	Units   []mintUnitResponse `json:"units"`
}

type mintUnitResponse struct {
	ID      string `json:"id"`
	TokenID int64  `json:"token_id"`
	Status  string `json:"status"`
}

type createDefinitionRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type definitionResponse struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
