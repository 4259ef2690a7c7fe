package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSessionsCSV(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf, FormatCSV)

	err := w.WriteSessions([]Session{
		{ID: "s1", Transcript: "[2025-01-01 10:00:00] User: hello\n[2025-01-01 10:00:01] Bot: hi"},
		{ID: "s2", Transcript: "[2025-01-01 11:00:00] User: quoted \"text\""},
	})
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, []string{"Session ID", "Chat History"}, records[0])
	assert.Equal(t, "s1", records[1][0])
	assert.Contains(t, records[1][1], "User: hello\n")
	assert.Contains(t, records[2][1], `quoted "text"`)
}

func TestWriteSessionsJSON(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf, FormatJSON)

	err := w.WriteSessions([]Session{{ID: "s1", Transcript: "hello"}})
	require.NoError(t, err)

	var got []Session
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].ID)
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatCSV, ParseFormat("csv"))
	assert.Equal(t, FormatCSV, ParseFormat(""))
	assert.Equal(t, FormatCSV, ParseFormat("bogus"))
}
