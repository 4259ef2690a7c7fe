// Package output persists masked conversations. It supports CSV (the default
// artifact) and JSON.
package output

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"
)

// Format represents an output format type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat converts a string to a Format, defaulting to CSV.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	default:
		return FormatCSV
	}
}

// Session is one output row: a session key and its fully masked transcript.
type Session struct {
	ID         string `json:"session_id"`
	Transcript string `json:"chat_history"`
}

// Writer handles writing formatted output.
type Writer struct {
	w      io.Writer
	format Format
}

// New creates a new output Writer.
func New(w io.Writer, format Format) *Writer {
	return &Writer{w: w, format: format}
}

// WriteSessions persists all sessions in the configured format.
func (wr *Writer) WriteSessions(sessions []Session) error {
	switch wr.format {
	case FormatJSON:
		return wr.writeJSON(sessions)
	default:
		return wr.writeCSV(sessions)
	}
}

// writeCSV emits a header row plus one row per session. Multi-line
// transcripts are handled by csv's standard quoting.
func (wr *Writer) writeCSV(sessions []Session) error {
	cw := csv.NewWriter(wr.w)

	if err := cw.Write([]string{"Session ID", "Chat History"}); err != nil {
		return err
	}
	for _, s := range sessions {
		if err := cw.Write([]string{s.ID, s.Transcript}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func (wr *Writer) writeJSON(sessions []Session) error {
	enc := json.NewEncoder(wr.w)
	enc.SetIndent("", "  ")
	return enc.Encode(sessions)
}
