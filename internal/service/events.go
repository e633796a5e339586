package service

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

// EventLogger writes service events as one JSON object per line.
// A nil *EventLogger discards events.
type EventLogger struct {
	mu  sync.Mutex
	enc *json.Encoder
	loc *time.Location
}

// NewEventLogger returns a logger writing to w with timestamps in loc.
func NewEventLogger(w io.Writer, loc *time.Location) *EventLogger {
	if loc == nil {
		loc = time.UTC
	}
	return &EventLogger{enc: json.NewEncoder(w), loc: loc}
}

// Log emits a single event line. fields may be nil.
func (l *EventLogger) Log(level, event string, fields map[string]any) {
	if l == nil {
		return
	}
	entry := make(map[string]any, len(fields)+4)
	for k, v := range fields {
		entry[k] = v
	}
	entry["ts"] = time.Now().In(l.loc).Format(time.RFC3339Nano)
	entry["level"] = level
	entry["component"] = "service"
	entry["event"] = event

	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.enc.Encode(entry)
}
