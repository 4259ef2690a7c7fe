// Package kore is a minimal client for the Kore.ai public bot API, covering
// the paginated getMessagesV2 chat-history endpoint.
package kore

import (
	"encoding/json"
	"strings"
)

// Message is a single chat message as returned by getMessagesV2.
// CreatedOn is kept as the raw ISO-8601 string; the fixed-width format makes
// lexicographic comparison sufficient for ordering.
type Message struct {
	SessionID  string      `json:"sessionId"`
	CreatedOn  string      `json:"createdOn"`
	Type       string      `json:"type"`
	Components []Component `json:"components"`
}

// Component is one content block of a message. Only the text payload is
// interesting here; rich components (cards, attachments) decode to an empty
// text and are skipped.
type Component struct {
	Data ComponentData `json:"data"`
}

// ComponentData holds the textual payload of a component.
type ComponentData struct {
	Text string `json:"text"`
}

// Text returns the message's renderable text: the first component carrying a
// non-empty text field. An empty return marks the message as non-renderable.
func (m Message) Text() string {
	for _, c := range m.Components {
		if c.Data.Text != "" {
			return c.Data.Text
		}
	}
	return ""
}

// Speaker maps the message type to a display name: incoming messages come
// from the user, outgoing from the bot, anything else is shown as the
// capitalized raw type.
func (m Message) Speaker() string {
	switch m.Type {
	case "incoming":
		return "User"
	case "outgoing":
		return "Bot"
	case "":
		return "Unknown"
	default:
		return strings.ToUpper(m.Type[:1]) + m.Type[1:]
	}
}

// messagesRequest is the POST body for getMessagesV2.
type messagesRequest struct {
	DateFrom string `json:"dateFrom"`
	DateTo   string `json:"dateTo"`
	Limit    int    `json:"limit"`
	Skip     int    `json:"skip"`
}

// MessagesPage is one page of the paginated history. Total and MoreAvailable
// are informational only; pagination decisions are driven by the length of
// Messages.
type MessagesPage struct {
	Messages      []Message       `json:"messages"`
	Total         int             `json:"total"`
	MoreAvailable bool            `json:"moreAvailable"`
	Error         json.RawMessage `json:"error,omitempty"`
}
