package di_test

import (
	"context"
	"maps"
	"sync"
	"testing"

	"github.com/riguelni/go-docs/internal/di"
	"github.com/riguelni/go-docs/internal/runtimeconfig"
	"github.com/riguelni/go-docs/pkg/interfaces"
)

func TestContainerLogsThroughInjectedProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Server.Metrics = false

	sink := &logSink{}
	if _, err := di.NewContainer(context.Background(), cfg, di.WithLoggerProvider(sink)); err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	checks := []struct {
		msg, field string
		want       any
	}{
		{"catalog.loaded", "module", "docs.catalog"},
		{"container.ready", "content", "embedded"},
		{"container.ready", "module", "docs"},
	}
	for _, c := range checks {
		fields, ok := sink.first(c.msg)
		if !ok {
			t.Fatalf("no %q entry among %d lines", c.msg, sink.len())
		}
		if fields[c.field] != c.want {
			t.Errorf("%s %s = %v, want %v", c.msg, c.field, fields[c.field], c.want)
		}
	}
}

// logSink collects every line written by the loggers it hands out.
type logSink struct {
	mu    sync.Mutex
	lines []logLine
}

type logLine struct {
	msg    string
	fields map[string]any
}

func (s *logSink) GetLogger(name string) interfaces.Logger {
	return sinkLogger{sink: s, base: map[string]any{"logger": name}}
}

func (s *logSink) first(msg string) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, line := range s.lines {
		if line.msg == msg {
			return line.fields, true
		}
	}
	return nil, false
}

func (s *logSink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

type sinkLogger struct {
	sink *logSink
	base map[string]any
}

func (l sinkLogger) Trace(msg string, args ...any) { l.write(msg, args) }
func (l sinkLogger) Debug(msg string, args ...any) { l.write(msg, args) }
func (l sinkLogger) Info(msg string, args ...any)  { l.write(msg, args) }
func (l sinkLogger) Warn(msg string, args ...any)  { l.write(msg, args) }
func (l sinkLogger) Error(msg string, args ...any) { l.write(msg, args) }
func (l sinkLogger) Fatal(msg string, args ...any) { l.write(msg, args) }

func (l sinkLogger) WithContext(context.Context) interfaces.Logger { return l }

func (l sinkLogger) WithFields(fields map[string]any) interfaces.Logger {
	next := maps.Clone(l.base)
	maps.Copy(next, fields)
	return sinkLogger{sink: l.sink, base: next}
}

func (l sinkLogger) write(msg string, args []any) {
	fields := maps.Clone(l.base)
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			fields[key] = args[i+1]
		}
	}
	l.sink.mu.Lock()
	l.sink.lines = append(l.sink.lines, logLine{msg: msg, fields: fields})
	l.sink.mu.Unlock()
}
