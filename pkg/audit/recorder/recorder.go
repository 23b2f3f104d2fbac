package recorder

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"aegis-hq/aegis/pkg/audit"
)

// Config contains configuration for the audit recorder.
type Config struct {
	// Enabled enables audit recording.
	Enabled bool

	// WriteTimeout is the timeout for one write attempt to storage.
	// Default: 5 seconds
	WriteTimeout time.Duration

	// MaxRetries is the number of additional write attempts after a
	// failed append. Default: 2
	MaxRetries int

	// RetryBackoff is the delay between write attempts.
	// Default: 100ms
	RetryBackoff time.Duration
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		WriteTimeout: 5 * time.Second,
		MaxRetries:   2,
		RetryBackoff: 100 * time.Millisecond,
	}
}

// Metrics is the hook the recorder reports write outcomes through.
// Implemented by telemetry/metrics.AuditMetrics; nil disables reporting.
type Metrics interface {
	RecordWrite(status string, duration time.Duration)
}

// Recorder persists exactly one audit record per evaluation.
type Recorder struct {
	storage audit.Storage
	config  *Config
	metrics Metrics
	logger  *slog.Logger
}

// NewRecorder creates a new audit recorder with the provided storage
// backend and configuration.
func NewRecorder(storage audit.Storage, config *Config) *Recorder {
	if config == nil {
		config = DefaultConfig()
	}

	return &Recorder{
		storage: storage,
		config:  config,
		logger:  slog.Default().With("component", "audit.recorder"),
	}
}

// WithMetrics attaches a metrics hook and returns the recorder.
func (r *Recorder) WithMetrics(m Metrics) *Recorder {
	r.metrics = m
	return r
}

// Record builds and persists the audit record for one evaluation.
// attributedPolicyID may be empty; the record then carries no policy
// reference (persisted as NULL). The input text is hashed, never stored.
//
// A returned error is always a *audit.RecorderError: the evaluation
// itself remains valid, only the audit write failed.
func (r *Recorder) Record(ctx context.Context, agentID, attributedPolicyID, decision, inputText string, latency time.Duration) error {
	if !r.config.Enabled {
		return nil
	}

	record := &audit.Record{
		ID:        uuid.New().String(),
		AgentID:   agentID,
		PolicyID:  attributedPolicyID,
		Timestamp: time.Now().UTC(),
		InputHash: HashInput(inputText),
		Decision:  decision,
		LatencyMS: latency.Milliseconds(),
	}

	start := time.Now()
	attempts := 0
	var lastErr error

	for attempts <= r.config.MaxRetries {
		attempts++

		writeCtx, cancel := context.WithTimeout(ctx, r.config.WriteTimeout)
		lastErr = r.storage.Append(writeCtx, record)
		cancel()

		if lastErr == nil {
			r.reportWrite("ok", time.Since(start))
			r.logger.Debug("audit record persisted",
				"record_id", record.ID,
				"agent_id", record.AgentID,
				"decision", record.Decision,
				"attempts", attempts,
			)
			return nil
		}

		if ctx.Err() != nil || attempts > r.config.MaxRetries {
			break
		}

		r.logger.Warn("audit append failed, retrying",
			"record_id", record.ID,
			"attempt", attempts,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			lastErr = ctx.Err()
		case <-time.After(r.config.RetryBackoff):
			continue
		}
		break
	}

	r.reportWrite("error", time.Since(start))
	r.logger.Error("failed to persist audit record",
		"record_id", record.ID,
		"agent_id", record.AgentID,
		"attempts", attempts,
		"error", lastErr,
	)

	return audit.NewRecorderError(record.ID, attempts, lastErr)
}

func (r *Recorder) reportWrite(status string, duration time.Duration) {
	if r.metrics != nil {
		r.metrics.RecordWrite(status, duration)
	}
}
