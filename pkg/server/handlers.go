package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"aegis-hq/aegis/pkg/audit/recorder"
	"aegis-hq/aegis/pkg/guardrails"
	"aegis-hq/aegis/pkg/guardrails/engine"
	"aegis-hq/aegis/pkg/policy"
)

// EvaluateHandler handles POST /v1/guardrails/evaluate.
type EvaluateHandler struct {
	engine   *engine.Engine
	recorder *recorder.Recorder
	logger   *slog.Logger
}

// NewEvaluateHandler creates the evaluation endpoint handler. The
// recorder may be nil when auditing is disabled entirely.
func NewEvaluateHandler(eng *engine.Engine, rec *recorder.Recorder) *EvaluateHandler {
	return &EvaluateHandler{
		engine:   eng,
		recorder: rec,
		logger:   slog.Default().With("component", "server.evaluate"),
	}
}

// ServeHTTP implements http.Handler.
func (h *EvaluateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "invalid_request", "Method not allowed")
		return
	}

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Request body is not valid JSON")
		return
	}
	if req.AgentID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "agent_id is required")
		return
	}

	outcome, err := h.engine.Evaluate(r.Context(), &guardrails.EvaluationRequest{
		AgentID:   req.AgentID,
		InputText: req.InputText,
		Context:   req.Context,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "evaluation_error", "Evaluation could not be completed")
		return
	}

	// An audit failure never blocks the response; the decision was
	// still validly computed.
	if h.recorder != nil {
		if err := h.recorder.Record(r.Context(), req.AgentID, outcome.AttributedPolicyID,
			string(outcome.Decision), req.InputText, outcome.EvaluationTime); err != nil {
			h.logger.Error("audit record failed",
				"agent_id", req.AgentID,
				"decision", outcome.Decision,
				"request_id", GetRequestID(r.Context()),
				"error", err,
			)
		}
	}

	checksRun := outcome.ChecksRun
	if checksRun == nil {
		checksRun = []string{}
	}

	writeJSON(w, http.StatusOK, EvaluateResponse{
		Decision:  string(outcome.Decision),
		Reason:    outcome.Reason,
		ChecksRun: checksRun,
	})
}

// PoliciesHandler handles GET and POST /v1/policies.
type PoliciesHandler struct {
	store  policy.Store
	logger *slog.Logger
}

// NewPoliciesHandler creates the policy management handler.
func NewPoliciesHandler(store policy.Store) *PoliciesHandler {
	return &PoliciesHandler{
		store:  store,
		logger: slog.Default().With("component", "server.policies"),
	}
}

// ServeHTTP implements http.Handler.
func (h *PoliciesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "invalid_request", "Method not allowed")
	}
}

func (h *PoliciesHandler) list(w http.ResponseWriter, r *http.Request) {
	policies, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("policy list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "store_error", "Failed to list policies")
		return
	}
	if policies == nil {
		policies = []*policy.Policy{}
	}
	writeJSON(w, http.StatusOK, policies)
}

func (h *PoliciesHandler) create(w http.ResponseWriter, r *http.Request) {
	var p policy.Policy
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Request body is not valid JSON")
		return
	}

	if err := h.store.Create(r.Context(), &p); err != nil {
		var valErr *policy.ValidationError
		if errors.As(err, &valErr) {
			writeError(w, http.StatusBadRequest, "validation_error", valErr.Error())
			return
		}
		h.logger.Error("policy create failed", "policy_name", p.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "store_error", "Failed to create policy")
		return
	}

	writeJSON(w, http.StatusCreated, &p)
}

// HealthHandler handles GET /healthz liveness probes.
type HealthHandler struct{}

// NewHealthHandler creates the liveness handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// ServeHTTP implements http.Handler.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "invalid_request", "Method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}
