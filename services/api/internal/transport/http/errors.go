package http

import (
	"encoding/json"
	"net/http"
)

const (
	codeMethodNotAllowed     = "method_not_allowed"
	codeNotFound             = "not_found"
	codeInvalidRequestBody   = "invalid_request_body"
	codeMissingRequiredField = "missing_required_field"
	codeInvalidID            = "invalid_id"
	codeInvalidCount         = "invalid_count"
	codeInvalidTokenID       = "invalid_token_id"
	codeInvalidOutcome       = "invalid_outcome"
	codeUserIDRequired       = "user_id_required"
	codeDefinitionRequired   = "definition_code_required"
	codeClaimTypeRequired    = "claim_type_required"
	codeReasonRequired       = "reason_required"
	codeDefinitionNotFound   = "definition_not_found"
	codeDefinitionExists     = "definition_already_exists"
	codeNoUnitsAvailable     = "no_units_available"
	codeUnitNotFound         = "unit_not_found"
	codeUnitUnavailable      = "unit_unavailable"
	codeClaimNotFound        = "claim_not_found"
	codeAlreadyFinalized     = "claim_already_finalized"
	codeDuplicateClaim       = "duplicate_claim"
	codeDuplicateTokenID     = "duplicate_token_id"
	codeForbidden            = "forbidden"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
