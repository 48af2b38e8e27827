package trigger

import (
	"bytes"
	"sync"
)

// Stream fans subprocess output lines out to websocket subscribers and keeps
// the most recent lines for late subscribers
type Stream struct {
	mu          sync.Mutex
	backlog     []string
	size        int
	subscribers map[chan string]struct{}
}

// NewStream creates a stream keeping up to size lines
func NewStream(size int) *Stream {
	return &Stream{size: size, subscribers: make(map[chan string]struct{})}
}

// Publish appends a line and delivers it to every subscriber. Slow
// subscribers miss lines instead of blocking the subprocess.
func (s *Stream) Publish(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.size > 0 {
		s.backlog = append(s.backlog, line)
		if len(s.backlog) > s.size {
			s.backlog = s.backlog[len(s.backlog)-s.size:]
		}
	}
	for ch := range s.subscribers {
		select {
		case ch <- line:
		default:
		}
	}
}

// Subscribe returns the current backlog and a channel of new lines. cancel
// must be called to release the subscription.
func (s *Stream) Subscribe() (backlog []string, lines <-chan string, cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan string, 256)
	s.subscribers[ch] = struct{}{}
	backlog = append([]string(nil), s.backlog...)

	var once sync.Once
	cancel = func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subscribers, ch)
		})
	}
	return backlog, ch, cancel
}

// lineWriter splits written bytes into lines and hands each to emit
type lineWriter struct {
	mu   sync.Mutex
	buf  bytes.Buffer
	emit func(line string)
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		i := bytes.IndexByte(w.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := string(bytes.TrimRight(w.buf.Next(i+1), "\r\n"))
		w.emit(line)
	}
	return len(p), nil
}

// Flush emits a trailing partial line
func (w *lineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}
