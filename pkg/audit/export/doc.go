// Package export converts audit records to portable formats. JSON and
// CSV exporters are provided, both writing to an io.Writer so they can
// target files, HTTP responses, or stdout.
package export
