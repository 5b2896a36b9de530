// Package testutil holds test doubles shared across PrazoCerto packages.
package testutil

import (
	"strings"
	"sync"

	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
)

// LogMessage is one entry captured by a RecordingLogger. Fields include
// those bound with With.
type LogMessage struct {
	Logger  string
	Level   string
	Message string
	Fields  []logging.Field
}

// Field returns the value of the first field named key.
func (m LogMessage) Field(key string) (interface{}, bool) {
	for _, f := range m.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

type sink struct {
	mu       sync.Mutex
	messages []LogMessage
}

// RecordingLogger implements logging.Logger and keeps every entry in memory.
// Children created by With and Named share the parent's sink.
type RecordingLogger struct {
	sink   *sink
	name   string
	fields []logging.Field
}

var _ logging.Logger = (*RecordingLogger)(nil)

// NewRecordingLogger returns an empty recorder.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{sink: &sink{}}
}

func (r *RecordingLogger) log(level, msg string, fields []logging.Field) {
	all := make([]logging.Field, 0, len(r.fields)+len(fields))
	all = append(all, r.fields...)
	all = append(all, fields...)

	r.sink.mu.Lock()
	defer r.sink.mu.Unlock()
	r.sink.messages = append(r.sink.messages, LogMessage{Logger: r.name, Level: level, Message: msg, Fields: all})
}

func (r *RecordingLogger) Debug(msg string, fields ...logging.Field) { r.log("debug", msg, fields) }
func (r *RecordingLogger) Info(msg string, fields ...logging.Field)  { r.log("info", msg, fields) }
func (r *RecordingLogger) Warn(msg string, fields ...logging.Field)  { r.log("warn", msg, fields) }
func (r *RecordingLogger) Error(msg string, fields ...logging.Field) { r.log("error", msg, fields) }

// Fatal records the entry without exiting.
func (r *RecordingLogger) Fatal(msg string, fields ...logging.Field) { r.log("fatal", msg, fields) }

func (r *RecordingLogger) With(fields ...logging.Field) logging.Logger {
	bound := make([]logging.Field, 0, len(r.fields)+len(fields))
	bound = append(bound, r.fields...)
	bound = append(bound, fields...)
	return &RecordingLogger{sink: r.sink, name: r.name, fields: bound}
}

func (r *RecordingLogger) Named(name string) logging.Logger {
	full := name
	if r.name != "" {
		full = r.name + "." + name
	}
	return &RecordingLogger{sink: r.sink, name: full, fields: r.fields}
}

// Messages returns a copy of every captured entry in order.
func (r *RecordingLogger) Messages() []LogMessage {
	r.sink.mu.Lock()
	defer r.sink.mu.Unlock()
	out := make([]LogMessage, len(r.sink.messages))
	copy(out, r.sink.messages)
	return out
}

// Find returns the entries at level whose message contains substr.
func (r *RecordingLogger) Find(level, substr string) []LogMessage {
	var out []LogMessage
	for _, m := range r.Messages() {
		if m.Level == level && strings.Contains(m.Message, substr) {
			out = append(out, m)
		}
	}
	return out
}

// HasMessage reports whether an entry with exactly this level and message
// was captured.
func (r *RecordingLogger) HasMessage(level, msg string) bool {
	for _, m := range r.Messages() {
		if m.Level == level && m.Message == msg {
			return true
		}
	}
	return false
}

// Clear drops every captured entry.
func (r *RecordingLogger) Clear() {
	r.sink.mu.Lock()
	defer r.sink.mu.Unlock()
	r.sink.messages = nil
}

//Personal.AI order the ending
