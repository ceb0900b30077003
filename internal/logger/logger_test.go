package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_Level(t *testing.T) {
	t.Cleanup(func() { Setup("info", "") })

	Setup("debug", "")
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	Setup("warn", "")
	assert.Equal(t, log.WarnLevel, log.GetLevel())

	Setup("loud", "")
	assert.Equal(t, log.InfoLevel, log.GetLevel(), "unknown levels fall back to info")
}

func TestSetup_File(t *testing.T) {
	t.Cleanup(func() { Setup("info", "") })
	file := filepath.Join(t.TempDir(), "fleet.log")

	Setup("info", file)
	log.WithField("booking_id", "b1").Info("Booking created")
	log.Debug("hidden at info level")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "Booking created", entry["msg"])
	assert.Equal(t, "b1", entry["booking_id"])
	assert.Equal(t, "info", entry["level"])
}
