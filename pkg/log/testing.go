package log

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// lockedBuffer lets learners log from several goroutines while a test reads.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// TestLogger is a ZerologLogger writing JSON lines to memory, with helpers to
// assert on what was logged.
type TestLogger struct {
	*ZerologLogger
	out *lockedBuffer
}

// NewTestLogger captures records at or above level.
func NewTestLogger(level Level) *TestLogger {
	out := &lockedBuffer{}
	return &TestLogger{
		ZerologLogger: NewZerologLogger(zerolog.New(out).Level(toZerologLevel(level))),
		out:           out,
	}
}

// Entries decodes every captured record.
func (t *TestLogger) Entries() ([]map[string]interface{}, error) {
	var entries []map[string]interface{}
	sc := bufio.NewScanner(strings.NewReader(t.out.String()))
	for sc.Scan() {
		var entry map[string]interface{}
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, sc.Err()
}

// ContainsMessage reports whether any captured output contains message.
func (t *TestLogger) ContainsMessage(message string) bool {
	return strings.Contains(t.out.String(), message)
}

// ContainsField reports whether a record has key set to value. JSON numbers
// decode as float64.
func (t *TestLogger) ContainsField(key string, value interface{}) bool {
	return t.count(func(e map[string]interface{}) bool {
		v, ok := e[key]
		return ok && v == value
	}) > 0
}

// CountMessage は message が一致するレコード数
func (t *TestLogger) CountMessage(msg string) int {
	return t.count(func(e map[string]interface{}) bool {
		return e[zerolog.MessageFieldName] == msg
	})
}

func (t *TestLogger) count(match func(map[string]interface{}) bool) int {
	entries, err := t.Entries()
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		if match(e) {
			n++
		}
	}
	return n
}

// TestLoggerProvider is a ZerologProvider whose loggers all write into one
// TestLogger.
type TestLoggerProvider struct {
	*ZerologProvider
	logger *TestLogger
}

// NewTestLoggerProvider creates a provider capturing records at or above level.
func NewTestLoggerProvider(level Level) *TestLoggerProvider {
	tl := NewTestLogger(level)
	return &TestLoggerProvider{
		ZerologProvider: &ZerologProvider{base: tl.zl},
		logger:          tl,
	}
}

// Logger returns the TestLogger holding the captured output.
func (p *TestLoggerProvider) Logger() *TestLogger {
	return p.logger
}
