package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/andrescamacho/pr0game-go/internal/application/common"
	"github.com/andrescamacho/pr0game-go/internal/domain/shared"
)

const timestampLayout = "2006-01-02 15:04:05"

// severities orders levels from most to least severe
var severities = map[string]int{
	common.LevelError:            0,
	common.LevelWarn:             1,
	common.LevelInfo:             2,
	common.LevelHTTP:             3,
	common.LevelBuildingLevels:   4,
	common.LevelCurrentResources: 5,
	common.LevelVerbose:          6,
	common.LevelDebug:            7,
}

var levelColors = map[string]*color.Color{
	common.LevelError:            color.New(color.FgRed, color.Bold),
	common.LevelWarn:             color.New(color.FgYellow, color.Italic),
	common.LevelInfo:             color.New(color.FgBlue, color.Bold),
	common.LevelHTTP:             color.New(color.FgHiBlack, color.Italic),
	common.LevelBuildingLevels:   color.New(color.FgCyan, color.Italic),
	common.LevelCurrentResources: color.New(color.FgCyan, color.Italic),
	common.LevelVerbose:          color.New(color.FgHiBlack, color.Faint),
	common.LevelDebug:            color.New(color.FgHiBlack, color.Faint),
}

var timestampColor = color.New(color.FgGreen, color.Faint)

// Options configures a Logger
type Options struct {
	// Level is the most verbose level written to the console
	Level string
	// Output is stdout, stderr or file
	Output string
	// Dir holds error.log, info.log and trace.log when Output is file
	Dir   string
	Clock shared.Clock
	// Console overrides the console writer
	Console io.Writer
}

// sink writes every line up to a maximum severity
type sink struct {
	logger      *log.Logger
	maxSeverity int
	colored     bool
}

// Logger is a levelled logger. It implements common.Logger.
type Logger struct {
	mu    sync.Mutex
	sinks []sink
	files []*os.File
	clock shared.Clock
}

// New creates a logger. With Output file it also writes error.log (errors
// only), info.log (info and above) and trace.log (verbose and above).
func New(opts Options) (*Logger, error) {
	clock := opts.Clock
	if clock == nil {
		clock = shared.NewRealClock()
	}
	level := opts.Level
	if level == "" {
		level = common.LevelInfo
	}
	maxSeverity, ok := severities[level]
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", level)
	}

	l := &Logger{clock: clock}

	console := opts.Console
	colored := false
	if console == nil {
		console = os.Stdout
		if opts.Output == "stderr" {
			console = os.Stderr
		}
		colored = !color.NoColor
	}
	l.sinks = append(l.sinks, sink{logger: log.New(console, "", 0), maxSeverity: maxSeverity, colored: colored})

	if opts.Output != "file" {
		return l, nil
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	for _, target := range []struct {
		name        string
		maxSeverity int
	}{
		{"error.log", severities[common.LevelError]},
		{"info.log", severities[common.LevelInfo]},
		{"trace.log", severities[common.LevelVerbose]},
	} {
		f, err := os.OpenFile(filepath.Join(opts.Dir, target.name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			_ = l.Close()
			return nil, fmt.Errorf("failed to open %s: %w", target.name, err)
		}
		l.files = append(l.files, f)
		l.sinks = append(l.sinks, sink{logger: log.New(f, "", 0), maxSeverity: target.maxSeverity})
	}
	return l, nil
}

// Log writes "level: message key=value at timestamp" to every sink whose
// threshold admits the level. Unknown levels are treated as info.
func (l *Logger) Log(level, message string, metadata map[string]interface{}) {
	severity, ok := severities[level]
	if !ok {
		severity = severities[common.LevelInfo]
	}
	message = strings.TrimSpace(message)
	if fields := formatMetadata(metadata); fields != "" {
		message += " " + fields
	}
	timestamp := l.clock.Now().Format(timestampLayout)

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.sinks {
		if severity > s.maxSeverity {
			continue
		}
		if s.colored {
			s.logger.Printf("%s: %s at %s", colorFor(level).Sprint(level), message, timestampColor.Sprint(timestamp))
			continue
		}
		s.logger.Printf("%s: %s at %s", level, message, timestamp)
	}
}

// Close closes the log files
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	var firstErr error
	for _, f := range l.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.files = nil
	return firstErr
}

func colorFor(level string) *color.Color {
	if c, ok := levelColors[level]; ok {
		return c
	}
	return levelColors[common.LevelInfo]
}

func formatMetadata(metadata map[string]interface{}) string {
	if len(metadata) == 0 {
		return ""
	}
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, metadata[k])
	}
	return strings.Join(parts, " ")
}
