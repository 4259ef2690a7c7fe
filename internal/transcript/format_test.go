package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bimmerbailey/chatscrub/internal/kore"
)

func msg(typ, createdOn, text string) kore.Message {
	var components []kore.Component
	if text != "" {
		components = []kore.Component{{Data: kore.ComponentData{Text: text}}}
	}
	return kore.Message{CreatedOn: createdOn, Type: typ, Components: components}
}

func TestFormat(t *testing.T) {
	got := Format([]kore.Message{
		msg("incoming", "2025-01-05T14:03:22Z", "hi, I moved recently"),
		msg("outgoing", "2025-01-05T14:03:25Z", "Happy to help with that"),
	})

	want := "[2025-01-05 14:03:22] User: hi, I moved recently\n" +
		"[2025-01-05 14:03:25] Bot: Happy to help with that"
	assert.Equal(t, want, got)
}

func TestFormatSkipsNonRenderable(t *testing.T) {
	got := Format([]kore.Message{
		msg("incoming", "2025-01-05T14:03:22Z", "hello"),
		msg("outgoing", "2025-01-05T14:03:23Z", ""), // card-only message
	})

	assert.Equal(t, "[2025-01-05 14:03:22] User: hello", got)
}

func TestFormatEmpty(t *testing.T) {
	assert.Equal(t, "No messages found", Format(nil))
	assert.Equal(t, "No messages found", Format([]kore.Message{
		msg("incoming", "2025-01-05T14:03:22Z", ""),
	}))
}

func TestFormatOtherSpeaker(t *testing.T) {
	got := Format([]kore.Message{msg("system", "2025-01-05T14:03:22Z", "transferred")})
	assert.Contains(t, got, "System: transferred")
}

func TestFormatTimestampFallback(t *testing.T) {
	got := Format([]kore.Message{msg("incoming", "not-a-timestamp", "hello")})
	assert.Equal(t, "[not-a-timestamp] User: hello", got)
}

func TestFormatTimestampWithOffset(t *testing.T) {
	got := Format([]kore.Message{msg("incoming", "2025-01-05T14:03:22+05:30", "hello")})
	assert.Equal(t, "[2025-01-05 14:03:22] User: hello", got)
}
