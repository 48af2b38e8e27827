package trigger

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/semaphore"

	"github.com/andrescamacho/pr0game-go/internal/application/common"
	"github.com/andrescamacho/pr0game-go/internal/domain/shared"
)

const (
	accessDenied = "ACCESS DENIED. please provide valid secret in API route /scheduler/start/:secret"
	writeTimeout = 5 * time.Second
)

// Metrics records trigger activity
type Metrics interface {
	RecordHTTPRequest(route string, statusCode int, duration time.Duration)
	RunStarted()
	RunFinished(exitCode int)
}

// Options configures the trigger server
type Options struct {
	Address string
	Secret  string
	// StreamBuffer is the number of output lines replayed to new stream subscribers
	StreamBuffer int
	// MetricsHandler is mounted at /metrics when set
	MetricsHandler http.Handler
}

// Server starts scheduler runs on request. At most one run is in progress.
type Server struct {
	address        string
	secret         string
	runner         Runner
	stream         *Stream
	admission      *semaphore.Weighted
	upgrader       websocket.Upgrader
	metricsHandler http.Handler
	logger         common.Logger
	metrics        Metrics
	clock          shared.Clock

	// runs outlive the request that started them and stop with the server
	runCtx    context.Context
	cancelRun context.CancelFunc
}

// NewServer creates a trigger server
func NewServer(opts Options, runner Runner, logger common.Logger, metrics Metrics, clock shared.Clock) *Server {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	runCtx, cancel := context.WithCancel(context.Background())
	return &Server{
		address:        opts.Address,
		secret:         opts.Secret,
		runner:         runner,
		stream:         NewStream(opts.StreamBuffer),
		admission:      semaphore.NewWeighted(1),
		metricsHandler: opts.MetricsHandler,
		logger:         logger,
		metrics:        metrics,
		clock:          clock,
		runCtx:         runCtx,
		cancelRun:      cancel,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the routes wrapped in request logging
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /scheduler/start/{secret}", s.handleStart)
	mux.HandleFunc("GET /scheduler/stream/{secret}", s.handleStream)
	if s.metricsHandler != nil {
		mux.Handle("GET /metrics", s.metricsHandler)
	}
	return s.requestLogger(mux)
}

// ListenAndServe serves until ctx is done, then stops the running scheduler
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Log(common.LevelInfo, fmt.Sprintf("Server is running at address: %s. Start a scheduler run with GET /scheduler/start/:secret", s.address), nil)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.cancelRun()
		return err
	case <-ctx.Done():
	}

	s.cancelRun()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("trigger server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close stops a scheduler run in progress
func (s *Server) Close() {
	s.cancelRun()
}

func (s *Server) authorized(r *http.Request) bool {
	given := r.PathValue("secret")
	return s.secret != "" && subtle.ConstantTimeCompare([]byte(given), []byte(s.secret)) == 1
}

// handleStart runs the scheduler and answers with its exit code once it exits
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		http.Error(w, accessDenied, http.StatusForbidden)
		return
	}
	if !s.admission.TryAcquire(1) {
		http.Error(w, "scheduler run already in progress", http.StatusConflict)
		return
	}
	defer s.admission.Release(1)

	stdout := &lineWriter{emit: func(line string) {
		s.logger.Log(common.LevelInfo, "stdout: "+line, nil)
		s.stream.Publish(line)
	}}
	stderr := &lineWriter{emit: func(line string) {
		s.logger.Log(common.LevelError, "stderr: "+line, nil)
		s.stream.Publish(line)
	}}

	if s.metrics != nil {
		s.metrics.RunStarted()
	}
	code, err := s.runner.Run(s.runCtx, stdout, stderr)
	stdout.Flush()
	stderr.Flush()
	if s.metrics != nil {
		s.metrics.RunFinished(code)
	}

	if err != nil {
		s.logger.Log(common.LevelError, fmt.Sprintf("failed to start scheduler: %v", err), nil)
		http.Error(w, fmt.Sprintf("failed to start scheduler: %v", err), http.StatusInternalServerError)
		return
	}
	message := fmt.Sprintf("scheduler process exited with code %d", code)
	s.logger.Log(common.LevelInfo, message, nil)
	s.stream.Publish(message)
	_, _ = fmt.Fprint(w, message)
}

// handleStream sends the output backlog and then live output lines as text
// messages until the client goes away
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		http.Error(w, accessDenied, http.StatusForbidden)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	backlog, lines, cancel := s.stream.Subscribe()
	defer cancel()

	// the reader notices a closed connection
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(line string) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		return conn.WriteMessage(websocket.TextMessage, []byte(line))
	}
	for _, line := range backlog {
		if err := send(line); err != nil {
			return
		}
	}
	for {
		select {
		case <-closed:
			return
		case <-s.runCtx.Done():
			_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server stopping"), time.Now().Add(time.Second))
			return
		case line := <-lines:
			if err := send(line); err != nil {
				return
			}
		}
	}
}
