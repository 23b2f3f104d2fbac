package export

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"aegis-hq/aegis/pkg/audit"
)

// CSVExporter exports audit records to CSV format.
type CSVExporter struct {
	// IncludeHeader includes a header row with column names.
	IncludeHeader bool
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{
		IncludeHeader: includeHeader,
	}
}

// Export writes audit records to the provided writer in CSV format.
// Records with no attributed policy emit an empty policy_id column.
func (e *CSVExporter) Export(ctx context.Context, records []*audit.Record, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if e.IncludeHeader {
		if err := writer.Write(headerRow()); err != nil {
			return audit.NewExportError("csv", len(records), err)
		}
	}

	for _, record := range records {
		if err := writer.Write(recordToRow(record)); err != nil {
			return audit.NewExportError("csv", len(records), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return audit.NewExportError("csv", len(records), err)
	}

	return nil
}

func headerRow() []string {
	return []string{
		"id", "agent_id", "policy_id", "timestamp", "input_hash", "decision", "latency_ms",
	}
}

func recordToRow(record *audit.Record) []string {
	return []string{
		record.ID,
		record.AgentID,
		record.PolicyID,
		record.Timestamp.Format(time.RFC3339),
		record.InputHash,
		record.Decision,
		strconv.FormatInt(record.LatencyMS, 10),
	}
}
