package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/pr0game-go/internal/adapters/notify"
	"github.com/andrescamacho/pr0game-go/internal/application/common"
)

type botAPI struct {
	mu       sync.Mutex
	paths    []string
	messages []map[string]interface{}
	reject   bool
}

func (b *botAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var msg map[string]interface{}
	_ = json.NewDecoder(r.Body).Decode(&msg)

	b.mu.Lock()
	b.paths = append(b.paths, r.URL.Path)
	b.messages = append(b.messages, msg)
	reject := b.reject
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if reject {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
		return
	}
	_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
}

func newTelegram(t *testing.T) (*notify.TelegramNotifier, *botAPI) {
	t.Helper()
	api := &botAPI{}
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)
	return notify.NewTelegramNotifier(notify.TelegramConfig{
		BaseURL: server.URL,
		Token:   "123:abc",
		ChatID:  "42",
	}), api
}

func TestTelegram_InfoAndErrorCarryIcons(t *testing.T) {
	// Arrange
	bot, api := newTelegram(t)
	ctx := context.Background()

	// Act
	require.NoError(t, bot.Notify(ctx, common.LevelInfo, "Next building added"))
	require.NoError(t, bot.Notify(ctx, common.LevelError, "Not enough energy"))

	// Assert
	require.Len(t, api.messages, 2)
	assert.Equal(t, "/bot123:abc/sendMessage", api.paths[0])
	assert.Equal(t, "42", api.messages[0]["chat_id"])
	assert.Equal(t, "✅ Next building added", api.messages[0]["text"])
	assert.Equal(t, "HTML", api.messages[0]["parse_mode"])
	assert.Equal(t, "❌ Not enough energy", api.messages[1]["text"])
}

func TestTelegram_SnapshotsArePreformatted(t *testing.T) {
	// Arrange
	bot, api := newTelegram(t)
	snapshot := "Metallmine:              4\nKristallmine:             2"

	// Act
	err := bot.Notify(context.Background(), common.LevelBuildingLevels, snapshot)

	// Assert
	require.NoError(t, err)
	require.Len(t, api.messages, 1)
	assert.Equal(t, snapshot, api.messages[0]["text"])
	entities := api.messages[0]["entities"].([]interface{})
	require.Len(t, entities, 1)
	entity := entities[0].(map[string]interface{})
	assert.Equal(t, "pre", entity["type"])
	assert.Equal(t, "Building Levels", entity["language"])
	assert.Equal(t, float64(len(snapshot)), entity["length"])
}

func TestTelegram_OtherLevelsAreNotSent(t *testing.T) {
	// Arrange
	bot, api := newTelegram(t)

	// Act
	err := bot.Notify(context.Background(), common.LevelDebug, "waiting for 1200ms")

	// Assert
	require.NoError(t, err)
	assert.Empty(t, api.messages)
}

func TestTelegram_RejectedMessageReturnsError(t *testing.T) {
	// Arrange
	bot, api := newTelegram(t)
	api.reject = true

	// Act
	err := bot.Notify(context.Background(), common.LevelInfo, "hello")

	// Assert
	var tgErr *notify.TelegramError
	require.ErrorAs(t, err, &tgErr)
	assert.Equal(t, http.StatusBadRequest, tgErr.StatusCode)
	assert.Equal(t, "Bad Request: chat not found", tgErr.Description)
}
