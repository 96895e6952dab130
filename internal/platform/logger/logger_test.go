package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "debug", Format: FormatJSON, App: "pet-care", Env: "test", Output: &buf})

	l.With(map[string]any{"request_id": "abc"}).Info("http request", map[string]any{"status": 200, "": "dropped"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "http request", line["message"])
	assert.Equal(t, "pet-care", line["app"])
	assert.Equal(t, "test", line["env"])
	assert.Equal(t, "abc", line["request_id"])
	assert.EqualValues(t, 200, line["status"])
	assert.NotContains(t, line, "")
}

func TestNew_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "warn", Output: &buf})

	l.Info("hidden", nil)
	assert.Zero(t, buf.Len())

	l.Warn("shown", nil)
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "loud", Output: &buf})

	l.Debug("hidden", nil)
	assert.Zero(t, buf.Len())
	l.Info("shown", nil)
	assert.Contains(t, buf.String(), "shown")
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatConsole, ParseFormat("console"))
	assert.Equal(t, FormatConsole, ParseFormat(" TEXT "))
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatJSON, ParseFormat(""))
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	var buf bytes.Buffer
	l := New(Options{Output: &buf})
	ctx := WithContext(context.Background(), l)
	FromContext(ctx).Info("from ctx", nil)
	assert.Contains(t, buf.String(), "from ctx")
}
