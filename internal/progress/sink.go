package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Sink interface {
	Emit(Event)
}

type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) {
	f(e)
}

type NoopSink struct{}

func (NoopSink) Emit(Event) {}

type ChannelSink struct {
	ch chan<- Event
}

func NewChannelSink(ch chan<- Event) *ChannelSink {
	return &ChannelSink{ch: ch}
}

// Emit never blocks: when the channel is full the event is dropped, except
// for the final event, which the consumer needs to stop.
func (s *ChannelSink) Emit(e Event) {
	if s == nil || s.ch == nil {
		return
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	if e.Type == EventScanFinished {
		s.ch <- e
		return
	}
	select {
	case s.ch <- e:
	default:
	}
}

type PlainSink struct {
	w  io.Writer
	mu sync.Mutex
}

func NewPlainSink(w io.Writer) *PlainSink {
	return &PlainSink{w: w}
}

func (s *PlainSink) Emit(e Event) {
	if s == nil || s.w == nil {
		return
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	line := formatPlain(e)
	if line == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintln(s.w, line)
}

func formatPlain(e Event) string {
	ts := e.At.Format("15:04:05")
	switch e.Type {
	case EventScanStarted:
		return fmt.Sprintf("[%s] scanning %s", ts, e.Root)
	case EventDiscoveryFinished:
		return fmt.Sprintf("[%s] discovered %d file(s), skipped %d", ts, e.FileCount, e.Skipped)
	case EventScanWarning:
		msg := strings.TrimSpace(e.Message)
		if msg == "" {
			msg = strings.TrimSpace(e.Error)
		}
		return fmt.Sprintf("[%s] warning: %s", ts, msg)
	case EventScanFinished:
		line := fmt.Sprintf("[%s] scan finished status=%s files=%d issues=%d duration=%dms", ts, e.Status, e.FileCount, e.IssueCount, e.DurationMS)
		if strings.TrimSpace(e.Error) != "" {
			line += " error=" + strings.TrimSpace(e.Error)
		}
		return line
	default:
		// Per-file events are too chatty for plain output.
		return ""
	}
}

// LogSink writes events to a zap logger. Per-file events go to debug.
type LogSink struct {
	log *zap.SugaredLogger
}

func NewLogSink(log *zap.SugaredLogger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Emit(e Event) {
	if s == nil || s.log == nil {
		return
	}
	switch e.Type {
	case EventScanStarted:
		s.log.Debugw("scan started", "root", e.Root)
	case EventDiscoveryFinished:
		s.log.Debugw("discovery finished", "files", e.FileCount, "skipped", e.Skipped)
	case EventFileScanned:
		s.log.Debugw("file scanned", "path", e.Path, "issues", e.IssueCount)
	case EventScanWarning:
		s.log.Warnw("scan warning", "message", e.Message)
	case EventScanFinished:
		if e.Error != "" {
			s.log.Errorw("scan failed", "error", e.Error, "duration_ms", e.DurationMS)
			return
		}
		s.log.Infow("scan finished", "files", e.FileCount, "issues", e.IssueCount, "duration_ms", e.DurationMS)
	}
}

// Multi fans an event out to every non-nil sink in order.
func Multi(sinks ...Sink) Sink {
	var out []Sink
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return SinkFunc(func(e Event) {
		if e.At.IsZero() {
			e.At = time.Now().UTC()
		}
		for _, s := range out {
			s.Emit(e)
		}
	})
}
