package memory

import (
	"fmt"
	"sync"
)

// Entry is one recorded log call.
type Entry struct {
	Level   string
	Message string
	Keyvals []any
}

// MemoryLogger records log calls. It is used to assert on warnings.
type MemoryLogger struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (m *MemoryLogger) record(level, message string, keyvals []any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, Entry{Level: level, Message: message, Keyvals: keyvals})
}

// Entries returns a copy of the recorded entries, optionally filtered by level.
func (m *MemoryLogger) Entries(level string) []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		if level == "" || e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

func (m *MemoryLogger) Log(message string, keyvals ...any)   { m.record("log", message, keyvals) }
func (m *MemoryLogger) Debug(message string, keyvals ...any) { m.record("debug", message, keyvals) }
func (m *MemoryLogger) Info(message string, keyvals ...any)  { m.record("info", message, keyvals) }
func (m *MemoryLogger) Warn(message string, keyvals ...any)  { m.record("warn", message, keyvals) }
func (m *MemoryLogger) Error(message string, keyvals ...any) { m.record("error", message, keyvals) }

// Fatal records the entry and panics instead of exiting the process.
func (m *MemoryLogger) Fatal(message string, keyvals ...any) {
	m.record("fatal", message, keyvals)
	panic(fmt.Sprintf("fatal: %s", message))
}
