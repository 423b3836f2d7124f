package console

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLogger(ConsoleLoggerParams{Output: &buf})

	l.Debug("[RDF] hidden")
	l.Info("[RDF] Added entity nodes", "type", "company", "count", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[RDF] Added entity nodes")
	assert.Contains(t, out, "count=2")
}

func TestConsoleLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLogger(ConsoleLoggerParams{Output: &buf, JSON: true, Debug: true})

	l.Warn("[IDMap] Mapping file not found", "path", "officer2id.json")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "[IDMap] Mapping file not found", entry["msg"])
	assert.Equal(t, "officer2id.json", entry["path"])
}
