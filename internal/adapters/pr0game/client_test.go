package pr0game_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/pr0game-go/internal/adapters/pr0game"
	"github.com/andrescamacho/pr0game-go/internal/application/common"
	"github.com/andrescamacho/pr0game-go/internal/domain/game"
	"github.com/andrescamacho/pr0game-go/internal/domain/shared"
	"github.com/andrescamacho/pr0game-go/test/helpers"
)

const (
	uniPath = "/uni4/game.php"
	session = "s3cr3t-session"
)

// fakeGame serves fixtures keyed by the page parameter and records requests
type fakeGame struct {
	mu       sync.Mutex
	pages    map[string]string
	requests []*http.Request
	forms    []map[string][]string
	status   []int
	hits     atomic.Int32
}

func newFakeGame() *fakeGame {
	return &fakeGame{pages: map[string]string{
		"":           "buildings.html",
		"Empire":     "buildings.html",
		"buildings":  "buildings.html",
		"research":   "research.html",
		"resources":  "resources.html",
		"overview":   "buildings.html",
		"statistics": "statistics.html",
	}}
}

func (f *fakeGame) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.hits.Add(1)
	if r.URL.Path == "/index.php" {
		http.ServeFile(w, r, filepath.Join("testdata", "login.html"))
		return
	}
	if cookie, err := r.Cookie("PHPSESSID"); err != nil || cookie.Value != session {
		http.Redirect(w, r, "/index.php", http.StatusFound)
		return
	}

	_ = r.ParseForm()
	f.mu.Lock()
	f.requests = append(f.requests, r)
	if r.Method == http.MethodPost {
		f.forms = append(f.forms, r.PostForm)
	}
	var status int
	if len(f.status) > 0 {
		status, f.status = f.status[0], f.status[1:]
	}
	fixture := f.pages[r.URL.Query().Get("page")]
	f.mu.Unlock()

	if status != 0 {
		if status == http.StatusTooManyRequests {
			w.Header().Set("Retry-After", "7")
		}
		w.WriteHeader(status)
		return
	}
	body, err := os.ReadFile(filepath.Join("testdata", fixture))
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(body)
}

func (f *fakeGame) failNext(statuses ...int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = append(f.status, statuses...)
}

func (f *fakeGame) lastRequest() *http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

type recordingMetrics struct {
	mu       sync.Mutex
	outcomes []string
	state    string
}

func (m *recordingMetrics) RecordRequest(page, outcome string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, page+":"+outcome)
}

func (m *recordingMetrics) SetCircuitState(state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
}

func newTestClient(t *testing.T, server *httptest.Server, mutate func(*pr0game.Config)) (*pr0game.Client, *shared.MockClock, *recordingMetrics) {
	t.Helper()
	cfg := pr0game.Config{
		BaseURL:           server.URL,
		UniPath:           uniPath,
		Username:          "alice",
		SessionCookieName: "PHPSESSID",
		SessionCookie:     session,
		ActionTimeout:     5 * time.Second,
		RequestsPerSecond: 1000,
		Burst:             100,
		MaxRetries:        2,
		BackoffBase:       time.Second,
		BreakerFailures:   5,
		BreakerTimeout:    time.Minute,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	clock := shared.NewMockClock(time.Date(2026, 10, 19, 14, 0, 0, 0, time.UTC))
	metrics := &recordingMetrics{}
	client, err := pr0game.NewClient(common.WithLogger(context.Background(), helpers.NewMockLogger()), cfg, clock, metrics)
	require.NoError(t, err)
	return client, clock, metrics
}

func startFakeGame(t *testing.T) (*fakeGame, *httptest.Server) {
	t.Helper()
	fake := newFakeGame()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	return fake, server
}

func TestClient_ResourceSnapshotReadsEmpirePage(t *testing.T) {
	// Arrange
	fake, server := startFakeGame(t)
	client, _, metrics := newTestClient(t, server, nil)

	// Act
	res, err := client.ResourceSnapshot(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, game.Resources{Met: 1234, Kris: 567, Deut: 89, Energy: -12}, res)
	assert.Equal(t, "Empire", fake.lastRequest().URL.Query().Get("page"))
	assert.Equal(t, uniPath, fake.lastRequest().URL.Path)
	assert.Equal(t, []string{"Empire:ok"}, metrics.outcomes)
	assert.Equal(t, "closed", metrics.state)
}

func TestClient_QueueQueries(t *testing.T) {
	// Arrange
	_, server := startFakeGame(t)
	client, _, _ := newTestClient(t, server, nil)
	ctx := context.Background()

	// Act
	buildingsActive, err := client.IsQueueActive(ctx, game.BuildingQueue)
	require.NoError(t, err)
	researchActive, err := client.IsQueueActive(ctx, game.ResearchQueue)
	require.NoError(t, err)
	remaining, err := client.ActiveQueueRemaining(ctx, game.BuildingQueue)
	require.NoError(t, err)
	entries, err := client.QueuedItems(ctx, game.BuildingQueue)
	require.NoError(t, err)

	// Assert
	assert.True(t, buildingsActive)
	assert.False(t, researchActive)
	assert.Equal(t, 125*time.Second, remaining)
	require.Len(t, entries, 2)
	assert.Equal(t, "Metallmine", entries[1].Name)
}

func TestClient_HourlyProductionAndLevels(t *testing.T) {
	// Arrange
	_, server := startFakeGame(t)
	client, _, _ := newTestClient(t, server, nil)

	// Act
	prod, err := client.HourlyProduction(context.Background())
	require.NoError(t, err)
	levels, err := client.BuildingLevels(context.Background())
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 1530.0, prod.Met)
	assert.Equal(t, 4, levels.Metallmine)
}

func TestClient_ResearchLabBusy(t *testing.T) {
	// Arrange
	fake, server := startFakeGame(t)
	fake.pages["research"] = "research_lab_busy.html"
	client, _, _ := newTestClient(t, server, nil)

	// Act
	busy, err := client.ResearchLabBusy(context.Background())

	// Assert
	require.NoError(t, err)
	assert.True(t, busy)
}

func TestClient_SubmitConstructionPostsBuildForm(t *testing.T) {
	// Arrange
	fake, server := startFakeGame(t)
	client, _, _ := newTestClient(t, server, nil)

	// Act
	err := client.SubmitConstruction(context.Background(), game.BuildingQueue, "Metallmine")

	// Assert
	require.NoError(t, err)
	require.Len(t, fake.forms, 1)
	assert.Equal(t, "insert", fake.forms[0]["cmd"][0])
	assert.Equal(t, "1", fake.forms[0]["building"][0])
	assert.Equal(t, http.MethodPost, fake.lastRequest().Method)
	assert.Equal(t, "buildings", fake.lastRequest().URL.Query().Get("page"))
}

func TestClient_SubmitConstructionWithoutButton(t *testing.T) {
	// Arrange
	fake, server := startFakeGame(t)
	client, _, _ := newTestClient(t, server, nil)

	// Act
	err := client.SubmitConstruction(context.Background(), game.BuildingQueue, "Forschungslabor")

	// Assert
	var notFound *pr0game.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Forschungslabor", notFound.Name)
	assert.Empty(t, fake.forms)
}

func TestClient_RetriesServerErrorsWithBackoff(t *testing.T) {
	// Arrange
	fake, server := startFakeGame(t)
	fake.failNext(http.StatusServiceUnavailable)
	client, clock, metrics := newTestClient(t, server, nil)

	// Act
	_, err := client.BuildingLevels(context.Background())

	// Assert
	require.NoError(t, err)
	sleeps := clock.Sleeps()
	require.Len(t, sleeps, 1)
	assert.GreaterOrEqual(t, sleeps[0], 500*time.Millisecond)
	assert.LessOrEqual(t, sleeps[0], 1500*time.Millisecond)
	assert.Equal(t, []string{"buildings:server_error", "buildings:ok"}, metrics.outcomes)
}

func TestClient_HonoursRetryAfter(t *testing.T) {
	// Arrange
	fake, server := startFakeGame(t)
	fake.failNext(http.StatusTooManyRequests)
	client, clock, _ := newTestClient(t, server, nil)

	// Act
	err := client.Browse(context.Background(), game.PageOverview)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{7 * time.Second}, clock.Sleeps())
}

func TestClient_ClientErrorsAreNotRetried(t *testing.T) {
	// Arrange
	fake, server := startFakeGame(t)
	fake.failNext(http.StatusForbidden)
	client, clock, _ := newTestClient(t, server, nil)

	// Act
	err := client.Browse(context.Background(), game.PageOverview)

	// Assert
	var httpErr *pr0game.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
	assert.Empty(t, clock.Sleeps())
}

func TestClient_GivesUpAfterMaxRetries(t *testing.T) {
	// Arrange
	fake, server := startFakeGame(t)
	fake.failNext(http.StatusBadGateway, http.StatusBadGateway, http.StatusBadGateway)
	client, clock, _ := newTestClient(t, server, nil)

	// Act
	err := client.Browse(context.Background(), game.PageOverview)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries exceeded")
	assert.Len(t, clock.Sleeps(), 2)
	assert.Equal(t, int32(3), fake.hits.Load())
}

func TestClient_CircuitOpensAfterRepeatedFailures(t *testing.T) {
	// Arrange
	fake, server := startFakeGame(t)
	fake.failNext(http.StatusInternalServerError, http.StatusInternalServerError)
	client, _, metrics := newTestClient(t, server, func(cfg *pr0game.Config) {
		cfg.MaxRetries = 0
		cfg.BreakerFailures = 2
	})
	ctx := context.Background()

	// Act
	first := client.Browse(ctx, game.PageOverview)
	second := client.Browse(ctx, game.PageOverview)
	third := client.Browse(ctx, game.PageOverview)

	// Assert
	require.Error(t, first)
	require.Error(t, second)
	assert.ErrorIs(t, third, pr0game.ErrCircuitOpen)
	assert.Equal(t, int32(2), fake.hits.Load())
	assert.Equal(t, "open", metrics.state)
}

func TestClient_ExpiredSessionRedirectsToLogin(t *testing.T) {
	// Arrange
	_, server := startFakeGame(t)
	client, _, _ := newTestClient(t, server, func(cfg *pr0game.Config) {
		cfg.SessionCookie = "expired"
	})

	// Act
	err := client.VerifySession(context.Background())

	// Assert
	assert.ErrorIs(t, err, pr0game.ErrSessionInvalid)
}

func TestClient_VerifySessionRequiresUserLink(t *testing.T) {
	// Arrange
	_, server := startFakeGame(t)
	loggedIn, _, _ := newTestClient(t, server, nil)
	stranger, _, _ := newTestClient(t, server, func(cfg *pr0game.Config) {
		cfg.Username = "mallory"
	})

	// Act & Assert
	assert.NoError(t, loggedIn.VerifySession(context.Background()))
	assert.ErrorIs(t, stranger.VerifySession(context.Background()), pr0game.ErrSessionInvalid)
}

func TestClient_BrowseCurrentReloadsLastPage(t *testing.T) {
	// Arrange
	fake, server := startFakeGame(t)
	client, _, _ := newTestClient(t, server, nil)
	require.NoError(t, client.Browse(context.Background(), game.PageResearch))

	// Act
	err := client.Browse(context.Background(), game.PageCurrent)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "research", fake.lastRequest().URL.Query().Get("page"))
}

func TestClient_PlayerStatisticsRequestsCategory(t *testing.T) {
	// Arrange
	fake, server := startFakeGame(t)
	client, clock, _ := newTestClient(t, server, nil)

	// Act
	stats, err := client.PlayerStatistics(context.Background(), game.StatisticsBuildings)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "4", fake.lastRequest().URL.Query().Get("type"))
	require.Len(t, stats, 3)
	assert.Equal(t, game.StatisticsBuildings, stats[0].Category)
	assert.Equal(t, clock.Now(), stats[0].CheckedAt)
}

func TestClient_ActionTimeoutBoundsSlowPages(t *testing.T) {
	// Arrange
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(slow.Close)
	client, _, _ := newTestClient(t, slow, func(cfg *pr0game.Config) {
		cfg.ActionTimeout = 50 * time.Millisecond
	})

	// Act
	err := client.Browse(context.Background(), game.PageOverview)

	// Assert
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}
