package logging_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/pr0game-go/internal/adapters/logging"
	"github.com/andrescamacho/pr0game-go/internal/application/common"
	"github.com/andrescamacho/pr0game-go/internal/domain/shared"
)

var logTime = time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestLogger_ConsoleFormat(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Console: &buf, Clock: shared.NewMockClock(logTime)})
	require.NoError(t, err)

	// Act
	logger.Log(common.LevelInfo, "  Next building added  ", map[string]interface{}{"queue": "buildings", "order": 3})

	// Assert
	assert.Equal(t, "info: Next building added order=3 queue=buildings at 2026-03-01 12:30:00\n", buf.String())
}

func TestLogger_ConsoleRespectsLevel(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Console: &buf, Clock: shared.NewMockClock(logTime)})
	require.NoError(t, err)

	// Act
	logger.Log(common.LevelDebug, "waiting for 1200ms", nil)
	logger.Log(common.LevelBuildingLevels, "Metallmine: 4", nil)
	logger.Log(common.LevelWarn, "notifier failed", nil)

	// Assert
	assert.Equal(t, "warn: notifier failed at 2026-03-01 12:30:00\n", buf.String())
}

func TestLogger_FileOutputSplitsBySeverity(t *testing.T) {
	// Arrange
	dir := filepath.Join(t.TempDir(), "logs")
	logger, err := logging.New(logging.Options{
		Level:   "debug",
		Output:  "file",
		Dir:     dir,
		Console: &bytes.Buffer{},
		Clock:   shared.NewMockClock(logTime),
	})
	require.NoError(t, err)

	// Act
	logger.Log(common.LevelError, "fatal", nil)
	logger.Log(common.LevelInfo, "queued", nil)
	logger.Log(common.LevelCurrentResources, "Met: 10", nil)
	logger.Log(common.LevelDebug, "tick", nil)
	require.NoError(t, logger.Close())

	// Assert
	assert.Equal(t, []string{"error: fatal at 2026-03-01 12:30:00"}, readLines(t, filepath.Join(dir, "error.log")))
	assert.Equal(t, []string{
		"error: fatal at 2026-03-01 12:30:00",
		"info: queued at 2026-03-01 12:30:00",
	}, readLines(t, filepath.Join(dir, "info.log")))
	assert.Equal(t, []string{
		"error: fatal at 2026-03-01 12:30:00",
		"info: queued at 2026-03-01 12:30:00",
		"currentResources: Met: 10 at 2026-03-01 12:30:00",
	}, readLines(t, filepath.Join(dir, "trace.log")))
}

func TestLogger_RejectsUnknownLevel(t *testing.T) {
	_, err := logging.New(logging.Options{Level: "silly"})
	assert.Error(t, err)
}
