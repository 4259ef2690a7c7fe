// Package session folds pages of chat messages into per-session, time-ordered
// conversations.
package session

import (
	"sort"

	"github.com/bimmerbailey/chatscrub/internal/kore"
)

// fallbackID keys messages that arrive without a session ID.
const fallbackID = "unknown"

// Conversation is one finalized session: its key and the messages ordered by
// createdOn ascending.
type Conversation struct {
	ID       string
	Messages []kore.Message
}

// HasText reports whether at least one message in the conversation is
// renderable. Conversations without any text are dropped from output.
func (c Conversation) HasText() bool {
	for _, m := range c.Messages {
		if m.Text() != "" {
			return true
		}
	}
	return false
}

// Aggregator accumulates messages across pages, keyed by session ID.
// It is owned by a single goroutine for the duration of a run.
type Aggregator struct {
	sessions map[string][]kore.Message
	order    []string // session IDs in first-seen order, for stable output
	total    int
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		sessions: make(map[string][]kore.Message),
	}
}

// Fold appends one page of messages, preserving arrival order within each
// session. Messages without a session ID are grouped under "unknown".
func (a *Aggregator) Fold(msgs []kore.Message) {
	for _, m := range msgs {
		id := m.SessionID
		if id == "" {
			id = fallbackID
		}
		if _, seen := a.sessions[id]; !seen {
			a.order = append(a.order, id)
		}
		a.sessions[id] = append(a.sessions[id], m)
		a.total++
	}
}

// Finalize stable-sorts every session by createdOn and returns the
// conversations in first-seen order. The raw timestamp strings are fixed-width
// ISO-8601, so lexicographic comparison orders them correctly.
//
// Finalize is called once, after paging has terminated, so the ordering
// guarantee covers the complete session rather than any single page.
func (a *Aggregator) Finalize() []Conversation {
	out := make([]Conversation, 0, len(a.order))
	for _, id := range a.order {
		msgs := a.sessions[id]
		sort.SliceStable(msgs, func(i, j int) bool {
			return msgs[i].CreatedOn < msgs[j].CreatedOn
		})
		out = append(out, Conversation{ID: id, Messages: msgs})
	}
	return out
}

// Sessions returns the number of distinct sessions seen so far.
func (a *Aggregator) Sessions() int {
	return len(a.sessions)
}

// Messages returns the number of messages folded so far.
func (a *Aggregator) Messages() int {
	return a.total
}
