package server

import (
	"encoding/json"
	"net/http"
)

// EvaluateRequest is the body of POST /v1/guardrails/evaluate.
type EvaluateRequest struct {
	AgentID   string         `json:"agent_id"`
	InputText string         `json:"input_text"`
	Context   map[string]any `json:"context,omitempty"`
}

// EvaluateResponse is the body returned by the evaluate endpoint.
type EvaluateResponse struct {
	Decision  string   `json:"decision"`
	Reason    string   `json:"reason"`
	ChecksRun []string `json:"checks_run"`
}

// ErrorResponse is the JSON error body for all endpoints.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the error message and machine-readable type.
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Message: message,
			Type:    errType,
		},
	})
}
