package trigger

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/andrescamacho/pr0game-go/internal/application/common"
)

// statusRecorder captures the status and size of a response
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack lets the websocket upgrader take over the connection
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// requestLogger logs every request as
// `GET request to "/path" with length [n] bytes and status [200] from [addr] - 12 ms`
// with the secret masked, and records request metrics by route pattern
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.clock.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		elapsed := s.clock.Now().Sub(start)
		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		s.logger.Log(common.LevelHTTP, fmt.Sprintf(
			"%s request to %q with length [%s] bytes and status [%d] from [%s] - %d ms",
			r.Method, s.maskSecret(r.URL.RequestURI()), contentLength(r), status, r.RemoteAddr, elapsed.Milliseconds(),
		), nil)

		if s.metrics != nil {
			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			s.metrics.RecordHTTPRequest(route, status, elapsed)
		}
	})
}

func (s *Server) maskSecret(uri string) string {
	if s.secret == "" {
		return uri
	}
	return strings.ReplaceAll(uri, s.secret, "********")
}

func contentLength(r *http.Request) string {
	if v := r.Header.Get("Content-Length"); v != "" {
		return v
	}
	return "-"
}

