package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amr-summary/internal/domain"
)

func TestNew_Defaults(t *testing.T) {
	logger, closer, err := New(domain.LoggingConfig{})
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
	assert.Equal(t, os.Stderr, logger.Out)
}

func TestNew_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "amr-summary.log")

	logger, closer, err := New(domain.LoggingConfig{Level: "debug", Format: "json", Output: path})
	require.NoError(t, err)

	logger.WithFields(logrus.Fields{"sample": "S1", "rows": 3}).Debug("Collected gene report")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "Collected gene report", entry["message"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "S1", entry["sample"])
	assert.Contains(t, entry, "timestamp")
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  domain.LoggingConfig
	}{
		{"Level", domain.LoggingConfig{Level: "verbose"}},
		{"Format", domain.LoggingConfig{Format: "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := New(tt.cfg)
			assert.Error(t, err)
		})
	}
}
