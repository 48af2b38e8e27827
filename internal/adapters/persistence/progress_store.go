package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/andrescamacho/pr0game-go/internal/application/common"
	"github.com/andrescamacho/pr0game-go/internal/domain/game"
	"github.com/andrescamacho/pr0game-go/internal/domain/plan"
)

const writeQueueSize = 64

// PersistenceMetrics counts failed background writes
type PersistenceMetrics interface {
	RecordPersistenceFailure(queue string)
}

// writeRequest is either a snapshot to persist or, with steps nil, a flush marker
type writeRequest struct {
	queue game.QueueKind
	steps plan.Plan
	done  chan struct{}
}

// ProgressStore keeps plan progress in one JSON file per queue. Background
// writes go through a single goroutine so snapshots land in submission order.
type ProgressStore struct {
	dir     string
	user    string
	schema  *jsonschema.Schema
	logger  common.Logger
	metrics PersistenceMetrics

	writes    chan writeRequest
	done      chan struct{}
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
	failures  atomic.Int64
}

// NewProgressStore opens a store under dir, logging to the logger carried by
// ctx. A non-empty user suffixes the file names so several accounts can share
// one directory.
func NewProgressStore(ctx context.Context, dir, user string, metrics PersistenceMetrics) (*ProgressStore, error) {
	schema, err := jsonschema.CompileString("progress.schema.json", progressSchema)
	if err != nil {
		return nil, fmt.Errorf("compile progress schema: %w", err)
	}
	s := &ProgressStore{
		dir:     dir,
		user:    user,
		schema:  schema,
		logger:  common.LoggerFromContext(ctx),
		metrics: metrics,
		writes:  make(chan writeRequest, writeQueueSize),
		done:    make(chan struct{}),
	}
	go s.writer()
	return s, nil
}

// Path returns the progress file of a queue
func (s *ProgressStore) Path(queue game.QueueKind) string {
	base := "built-order"
	if queue == game.ResearchQueue {
		base = "researched-order"
	}
	if s.user != "" {
		base += "-" + s.user
	}
	return filepath.Join(s.dir, base+".json")
}

// Load reads persisted progress and merges it onto the static plan. A missing
// file is bootstrapped from the static plan.
func (s *ProgressStore) Load(ctx context.Context, queue game.QueueKind, static plan.Plan) (plan.Plan, error) {
	persisted, err := s.read(queue)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Log(common.LevelVerbose, fmt.Sprintf("No %s progress found, initializing %s", queue, s.Path(queue)), nil)
		if err := s.Save(ctx, queue, static); err != nil {
			return nil, err
		}
		persisted, err = s.read(queue)
	}
	if err != nil {
		return nil, err
	}
	return plan.Merge(static, persisted), nil
}

// Reset overwrites the progress of a queue with the unqueued static plan
func (s *ProgressStore) Reset(ctx context.Context, queue game.QueueKind, static plan.Plan) error {
	fresh := static.Clone()
	for i := range fresh {
		fresh[i].HasBeenQueued = false
		fresh[i].QueuedAt = nil
	}
	return s.Save(ctx, queue, fresh)
}

func (s *ProgressStore) read(queue game.QueueKind) (plan.Plan, error) {
	path := s.Path(queue)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, NewPersistenceError("read", path, err)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, NewPersistenceError("parse", path, err)
	}
	if err := s.schema.Validate(doc); err != nil {
		return nil, NewPersistenceError("validate", path, err)
	}

	var steps plan.Plan
	if err := json.Unmarshal(data, &steps); err != nil {
		return nil, NewPersistenceError("decode", path, err)
	}
	return steps, nil
}

// Save writes progress synchronously
func (s *ProgressStore) Save(ctx context.Context, queue game.QueueKind, steps plan.Plan) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.write(queue, steps)
}

func (s *ProgressStore) write(queue game.QueueKind, steps plan.Plan) error {
	path := s.Path(queue)
	data, err := json.MarshalIndent(steps, "", "  ")
	if err != nil {
		return NewPersistenceError("encode", path, err)
	}
	if err := writeFileAtomic(path, append(data, '\n')); err != nil {
		return NewPersistenceError("write", path, err)
	}
	return nil
}

// SaveAsync queues a snapshot for the background writer. After Close the
// snapshot is written synchronously.
func (s *ProgressStore) SaveAsync(queue game.QueueKind, steps plan.Plan) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.persist(writeRequest{queue: queue, steps: steps})
		return
	}
	s.writes <- writeRequest{queue: queue, steps: steps}
}

// Flush blocks until every snapshot queued before the call is written
func (s *ProgressStore) Flush() {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return
	}
	done := make(chan struct{})
	s.writes <- writeRequest{done: done}
	s.mu.RUnlock()
	<-done
}

// Close drains the write queue and stops the writer
func (s *ProgressStore) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.writes)
		s.mu.Unlock()
	})
	<-s.done
	return nil
}

// Failures returns how many background writes failed
func (s *ProgressStore) Failures() int64 {
	return s.failures.Load()
}

func (s *ProgressStore) writer() {
	defer close(s.done)
	for req := range s.writes {
		if req.done != nil {
			close(req.done)
			continue
		}
		s.persist(req)
	}
}

func (s *ProgressStore) persist(req writeRequest) {
	if err := s.write(req.queue, req.steps); err != nil {
		s.failures.Add(1)
		if s.metrics != nil {
			s.metrics.RecordPersistenceFailure(req.queue.String())
		}
		s.logger.Log(common.LevelError, fmt.Sprintf("Failed to persist %s progress: %v", req.queue, err), map[string]interface{}{
			"path": s.Path(req.queue),
		})
	}
}

func writeFileAtomic(path string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
