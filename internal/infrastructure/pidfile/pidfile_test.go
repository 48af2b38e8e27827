package pidfile_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/pr0game-go/internal/infrastructure/pidfile"
)

func TestForAccount_SuffixesUser(t *testing.T) {
	assert.Equal(t, filepath.Join("/run", "pr0game-scheduler-alice.pid"), pidfile.ForAccount("/run", "alice").Path())
	assert.Equal(t, filepath.Join("/run", "pr0game-scheduler.pid"), pidfile.ForAccount("/run", "").Path())
}

func TestAcquire_WritesOwnPIDAndReleaseRemovesIt(t *testing.T) {
	// Arrange
	lock := pidfile.ForAccount(t.TempDir(), "alice")

	// Act
	require.NoError(t, lock.Acquire())

	// Assert
	data, err := os.ReadFile(lock.Path())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%d\n", os.Getpid()), string(data))

	require.NoError(t, lock.Release())
	_, err = os.Stat(lock.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestAcquire_FailsWhileOwnerIsAlive(t *testing.T) {
	// Arrange: the parent of the test process is alive
	lock := pidfile.ForAccount(t.TempDir(), "alice")
	require.NoError(t, os.WriteFile(lock.Path(), []byte(fmt.Sprintf("%d\n", os.Getppid())), 0o644))

	// Act
	err := lock.Acquire()

	// Assert
	var running *pidfile.AlreadyRunningError
	require.ErrorAs(t, err, &running)
	assert.Equal(t, os.Getppid(), running.PID)
}

func TestAcquire_ReplacesStaleFile(t *testing.T) {
	// Arrange
	lock := pidfile.ForAccount(t.TempDir(), "alice")
	require.NoError(t, os.WriteFile(lock.Path(), []byte("not-a-pid\n"), 0o644))

	// Act
	err := lock.Acquire()

	// Assert
	require.NoError(t, err)
}
