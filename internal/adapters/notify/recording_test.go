package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/pr0game-go/internal/adapters/notify"
	"github.com/andrescamacho/pr0game-go/internal/application/common"
	"github.com/andrescamacho/pr0game-go/test/helpers"
)

type logRow struct {
	player    string
	level     string
	message   string
	delivered bool
	metadata  map[string]interface{}
}

type fakeNotificationLog struct {
	rows []logRow
	err  error
}

func (f *fakeNotificationLog) Log(ctx context.Context, player, level, message string, delivered bool, metadata map[string]interface{}) error {
	f.rows = append(f.rows, logRow{player, level, message, delivered, metadata})
	return f.err
}

func TestFanout_DeliversToAllSinksDespiteFailure(t *testing.T) {
	// Arrange
	failing := helpers.NewMockNotifier()
	failing.Err = errors.New("bot down")
	healthy := helpers.NewMockNotifier()
	fanout := notify.NewFanout(failing, nil, healthy)

	// Act
	err := fanout.Notify(context.Background(), common.LevelInfo, "queued")

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bot down")
	assert.Equal(t, 2, fanout.Len())
	assert.Equal(t, []string{"queued"}, healthy.ByLevel(common.LevelInfo))
}

func TestRecording_RecordsDeliveredMessage(t *testing.T) {
	// Arrange
	sink := helpers.NewMockNotifier()
	log := &fakeNotificationLog{}
	recording := notify.NewRecording(sink, log, "alice")

	// Act
	err := recording.Notify(context.Background(), common.LevelCurrentResources, "Met: 100")

	// Assert
	require.NoError(t, err)
	require.Len(t, log.rows, 1)
	assert.Equal(t, logRow{player: "alice", level: common.LevelCurrentResources, message: "Met: 100", delivered: true}, log.rows[0])
	assert.Len(t, sink.Notifications, 1)
}

func TestRecording_RecordsFailedDelivery(t *testing.T) {
	// Arrange
	sink := helpers.NewMockNotifier()
	sink.Err = errors.New("timeout")
	log := &fakeNotificationLog{}
	recording := notify.NewRecording(sink, log, "alice")

	// Act
	err := recording.Notify(context.Background(), common.LevelError, "boom")

	// Assert
	assert.EqualError(t, err, "timeout")
	require.Len(t, log.rows, 1)
	assert.False(t, log.rows[0].delivered)
	assert.Equal(t, "timeout", log.rows[0].metadata["error"])
}

func TestRecording_LogFailureIsReported(t *testing.T) {
	// Arrange
	log := &fakeNotificationLog{err: errors.New("database is locked")}
	recording := notify.NewRecording(helpers.NewMockNotifier(), log, "alice")

	// Act
	err := recording.Notify(context.Background(), common.LevelInfo, "hi")

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
}
