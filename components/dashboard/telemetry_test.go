package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogTelemetryWritesStructuredRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	tel := NewSlogTelemetry(logger)

	tel.Record(context.Background(), "dashboard.layout.drop", map[string]any{
		"canvas_id": "home",
		"moves":     2,
	})

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "dashboard.layout.drop", record["msg"])
	assert.Equal(t, "home", record["canvas_id"])
	assert.Equal(t, float64(2), record["moves"])
	assert.Equal(t, "INFO", record["level"])
}

func TestNormalizeTelemetry(t *testing.T) {
	assert.IsType(t, noopTelemetry{}, normalizeTelemetry(nil))
	tel := NewSlogTelemetry(nil)
	assert.Same(t, tel, normalizeTelemetry(tel))
}
