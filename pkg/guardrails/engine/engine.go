package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"aegis-hq/aegis/pkg/guardrails"
	"aegis-hq/aegis/pkg/guardrails/checks"
	"aegis-hq/aegis/pkg/guardrails/rules"
	"aegis-hq/aegis/pkg/policy"
)

// ReasonStoreUnavailable is the outcome reason when a policy store
// failure forces a fail-closed denial.
const ReasonStoreUnavailable = "Policy store unavailable; failing closed."

// Metrics is the instrumentation hook for the engine. Implementations
// must be safe for concurrent use.
type Metrics interface {
	// RecordEvaluation records one completed evaluation.
	RecordEvaluation(decision string, duration time.Duration)

	// RecordFinding records one detector or custom policy finding.
	RecordFinding(checkID, severity string)

	// RecordCheckFault records one tolerated detector failure.
	RecordCheckFault(checkID string)
}

// Engine evaluates prompts against the built-in detectors and the
// customer policies in its store. It is safe for concurrent use.
type Engine struct {
	detectors []checks.Detector
	store     policy.Store
	config    *Config
	logger    *slog.Logger
	metrics   Metrics
}

// New creates a decision engine backed by the given policy store. The
// built-in detectors run in their fixed order: PII, content safety,
// prompt injection.
func New(store policy.Store, config *Config, logger *slog.Logger) (*Engine, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if store == nil {
		return nil, fmt.Errorf("policy store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		detectors: checks.BuiltIns(),
		store:     store,
		config:    config,
		logger:    logger.With("component", "guardrails.engine"),
	}, nil
}

// WithDetectors replaces the detector set. Detectors run in the given
// order.
func (e *Engine) WithDetectors(detectors []checks.Detector) *Engine {
	e.detectors = detectors
	return e
}

// WithMetrics attaches an instrumentation hook.
func (e *Engine) WithMetrics(m Metrics) *Engine {
	e.metrics = m
	return e
}

// Evaluate runs every applicable check and policy against the request
// and returns exactly one outcome. Detector failures are tolerated as
// "no finding" and noted on the outcome; a policy store failure
// degrades evaluation according to the configured fail mode. The
// returned error is non-nil only when the context is already cancelled.
func (e *Engine) Evaluate(ctx context.Context, req *guardrails.EvaluationRequest) (*guardrails.EvaluationOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()

	var (
		decision  = guardrails.DecisionAllowed
		reason    = guardrails.ReasonNoIssues
		checksRun []string
		faults    []string

		// triggered is the check that set the current decision and
		// reason; attribution of typed policies keys off it.
		triggered  string
		attributed string
	)

	for _, det := range e.detectors {
		finding, err := det.Detect(ctx, req.InputText, req.Context)
		if err != nil {
			fault := guardrails.NewCheckFault(det.ID(), err)
			faults = append(faults, fault.Error())
			e.logger.Warn("detector failed, treating as no finding",
				"check_id", det.ID(),
				"error", err,
			)
			if e.metrics != nil {
				e.metrics.RecordCheckFault(det.ID())
			}
			continue
		}
		if finding == nil {
			continue
		}

		checksRun = append(checksRun, finding.CheckID)
		if e.metrics != nil {
			e.metrics.RecordFinding(finding.CheckID, string(finding.Severity))
		}

		switch finding.Severity {
		case guardrails.SeverityDeny:
			decision = guardrails.Stronger(decision, guardrails.DecisionDenied)
			reason = finding.Reason
			triggered = finding.CheckID
		case guardrails.SeverityWarn:
			if decision == guardrails.DecisionAllowed {
				decision = guardrails.DecisionWarn
				reason = finding.Reason
				triggered = finding.CheckID
			}
		}

		if decision == guardrails.DecisionDenied {
			break
		}
	}

	policies, err := e.fetchPolicies(ctx, req.AgentID)
	if err != nil {
		faults = append(faults, err.Error())
		e.logger.Error("policy store fetch failed",
			"agent_id", req.AgentID,
			"fail_mode", e.config.FailMode,
			"error", err,
		)
		if e.config.FailMode == FailClosed && decision != guardrails.DecisionDenied {
			decision = guardrails.DecisionDenied
			reason = ReasonStoreUnavailable
		}
	}

	for _, p := range policies {
		if p.Type == policy.TypeCustom {
			keyword, ok := rules.FirstMatch(p.Rule.DenyKeywords, req.InputText)
			if !ok {
				continue
			}

			checksRun = append(checksRun, guardrails.CustomCheckID(p.Name))
			if e.metrics != nil {
				e.metrics.RecordFinding(guardrails.CustomCheckID(p.Name), string(guardrails.SeverityDeny))
			}

			// A firing custom policy always claims the outcome, even
			// when a built-in check already denied: the decision fold
			// stays monotonic and the audit record gets a concrete
			// policy id instead of the NULL marker.
			decision = guardrails.Stronger(decision, guardrails.DecisionDenied)
			reason = fmt.Sprintf("Custom policy %q triggered by keyword %q.", p.Name, keyword)
			attributed = p.ID
			break
		}

		// Typed policies never change the decision; the first one in
		// store order matching the triggering check claims attribution.
		if attributed == "" && triggered != "" && p.Type.CheckID() == triggered {
			attributed = p.ID
		}
	}

	outcome := &guardrails.EvaluationOutcome{
		Decision:           decision,
		Reason:             reason,
		ChecksRun:          checksRun,
		AttributedPolicyID: attributed,
		Faults:             faults,
		EvaluationTime:     time.Since(start),
	}

	if e.metrics != nil {
		e.metrics.RecordEvaluation(string(decision), outcome.EvaluationTime)
	}

	e.logger.Debug("evaluation completed",
		"agent_id", req.AgentID,
		"decision", decision,
		"checks_run", len(checksRun),
		"faults", len(faults),
		"duration_ms", outcome.EvaluationTime.Milliseconds(),
	)

	return outcome, nil
}

// fetchPolicies loads the enabled policies for the agent under the
// configured fetch timeout.
func (e *Engine) fetchPolicies(ctx context.Context, agentID string) ([]*policy.Policy, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, e.config.PolicyFetchTimeout)
	defer cancel()

	return e.store.FetchEnabled(fetchCtx, agentID)
}
