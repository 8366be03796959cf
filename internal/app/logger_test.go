package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJSONLoggerCarriesServiceAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&Config{LogFormat: "json", LogLevel: "warn", AppEnv: "staging"}, &buf)

	logger.Info("dropped")
	require.Zero(t, buf.Len())

	logger.Warn("kept")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "kept", line["msg"])
	require.Equal(t, "crafthouse", line["service"])
	require.Equal(t, "staging", line["env"])
}

func TestTextLoggerDefaults(t *testing.T) {
	var buf bytes.Buffer
	newLogger(nil, &buf).Debug("hidden")
	require.Zero(t, buf.Len())
}
