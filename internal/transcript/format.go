// Package transcript renders an ordered message sequence into a
// human-readable conversation string.
package transcript

import (
	"fmt"
	"strings"
	"time"

	"github.com/bimmerbailey/chatscrub/internal/kore"
)

// noMessages is returned when no message in the sequence is renderable.
const noMessages = "No messages found"

// timestampLayouts are tried in order when parsing createdOn values.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Format renders messages as one line each:
//
//	[2025-01-05 14:03:22] User: I need to update my address
//
// Messages without renderable text are skipped. The caller is expected to
// pass an already-ordered sequence; Format does not sort.
func Format(msgs []kore.Message) string {
	var lines []string

	for _, m := range msgs {
		text := m.Text()
		if text == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("[%s] %s: %s", formatTimestamp(m.CreatedOn), m.Speaker(), text))
	}

	if len(lines) == 0 {
		return noMessages
	}
	return strings.Join(lines, "\n")
}

// formatTimestamp renders a createdOn value as "2006-01-02 15:04:05" in the
// timestamp's own zone. Values that parse under none of the known layouts are
// returned verbatim rather than failing the conversation.
func formatTimestamp(raw string) string {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02 15:04:05")
		}
	}
	return raw
}
