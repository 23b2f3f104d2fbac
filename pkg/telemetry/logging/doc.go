// Package logging configures the process-wide structured logger built
// on log/slog, with selectable level and output format.
package logging
