package logsvc

import (
	"io"
	"log"
	"sync"

	"github.com/hometuition/portal/core"
)

// StdLogger writes to a standard log.Logger only; used by the admin CLI and in tests.
type StdLogger struct {
	std *log.Logger
}

var _ core.Logger = (*StdLogger)(nil)

func NewStdLogger(std *log.Logger) *StdLogger {
	return &StdLogger{std: std}
}

// NewDiscardLogger returns a logger that drops every entry.
func NewDiscardLogger() *StdLogger {
	return &StdLogger{std: log.New(io.Discard, "", 0)}
}

func (l StdLogger) print(level, msg string, args []interface{}) {
	l.std.Println(level + " " + msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l StdLogger) Debug(msg string, args ...interface{}) { l.print("DEBUG", msg, args) }
func (l StdLogger) Info(msg string, args ...interface{})  { l.print("INFO", msg, args) }
func (l StdLogger) Warn(msg string, args ...interface{})  { l.print("WARN", msg, args) }
func (l StdLogger) Error(msg string, args ...interface{}) { l.print("ERROR", msg, args) }

func (l StdLogger) Fatal(msg string, args ...interface{}) {
	l.print("FATAL", msg, args)
	l.std.Fatal(msg)
}

// Entry is a log line recorded by a RecorderLogger.
type Entry struct {
	Level string
	Msg   string
	Args  []interface{}
}

// RecorderLogger keeps every entry in memory so tests can assert on them.
type RecorderLogger struct {
	mu      sync.Mutex
	entries []Entry
}

var _ core.Logger = (*RecorderLogger)(nil)

func NewRecorderLogger() *RecorderLogger {
	return &RecorderLogger{}
}

func (l *RecorderLogger) record(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Level: level, Msg: msg, Args: args})
}

func (l *RecorderLogger) Entries(level ...string) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		if len(level) == 0 || e.Level == level[0] {
			entries = append(entries, e)
		}
	}
	return entries
}

func (l *RecorderLogger) Debug(msg string, args ...interface{}) { l.record("DEBUG", msg, args) }
func (l *RecorderLogger) Info(msg string, args ...interface{})  { l.record("INFO", msg, args) }
func (l *RecorderLogger) Warn(msg string, args ...interface{})  { l.record("WARN", msg, args) }
func (l *RecorderLogger) Error(msg string, args ...interface{}) { l.record("ERROR", msg, args) }
func (l *RecorderLogger) Fatal(msg string, args ...interface{}) { l.record("FATAL", msg, args) }
