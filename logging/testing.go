// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// LogEntry represents a parsed log entry for testing.
type LogEntry struct {
	Level   string
	Message string
	Attrs   map[string]any
}

// ParseJSONLogEntries parses JSON log lines from buf. The buffer is not
// consumed.
func ParseJSONLogEntries(buf *bytes.Buffer) ([]LogEntry, error) {
	var entries []LogEntry

	scanner := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var raw map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &raw); err != nil {
			return nil, fmt.Errorf("parse log line: %w", err)
		}

		entry := LogEntry{Attrs: make(map[string]any)}
		entry.Message, _ = raw["msg"].(string)
		entry.Level, _ = raw["level"].(string)
		for k, v := range raw {
			if k != "time" && k != "level" && k != "msg" {
				entry.Attrs[k] = v
			}
		}

		entries = append(entries, entry)
	}

	return entries, scanner.Err()
}

// TestHelper provides utilities for testing with the logging package.
type TestHelper struct {
	Logger *Logger
	Buffer *bytes.Buffer
}

// NewTestHelper creates a [TestHelper] that logs JSON at debug level into
// memory. Additional options are applied after the defaults.
//
// Example:
//
//	th := logging.NewTestHelper(t)
//	renderer := errors.NewRenderer(errors.WithLogger(th.Logger))
//	// ... render an error
//	th.AssertLog(t, "ERROR", "", map[string]any{"error_id": id})
func NewTestHelper(t *testing.T, opts ...Option) *TestHelper {
	t.Helper()

	buf := &bytes.Buffer{}
	all := append([]Option{
		WithJSONHandler(),
		WithOutput(&lockedWriter{buf: buf}),
		WithLevel(LevelDebug),
	}, opts...)

	return &TestHelper{
		Logger: MustNew(all...),
		Buffer: buf,
	}
}

// Logs returns all parsed log entries.
func (th *TestHelper) Logs() ([]LogEntry, error) {
	return ParseJSONLogEntries(th.Buffer)
}

// LastLog returns the most recent log entry.
func (th *TestHelper) LastLog() (*LogEntry, error) {
	entries, err := th.Logs()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no log entries found")
	}

	return &entries[len(entries)-1], nil
}

// ContainsAttr reports whether any entry has key with a value printing as
// value.
func (th *TestHelper) ContainsAttr(key string, value any) bool {
	entries, err := th.Logs()
	if err != nil {
		return false
	}

	for _, entry := range entries {
		if v, ok := entry.Attrs[key]; ok && attrMatches(v, value) {
			return true
		}
	}

	return false
}

// CountLevel returns the number of log entries at the given level.
func (th *TestHelper) CountLevel(level string) int {
	entries, err := th.Logs()
	if err != nil {
		return 0
	}

	count := 0
	for _, entry := range entries {
		if entry.Level == level {
			count++
		}
	}

	return count
}

// Reset clears the buffer for fresh testing.
func (th *TestHelper) Reset() {
	th.Buffer.Reset()
}

// AssertLog fails t unless an entry exists with the given level, message and
// attributes. An empty msg matches any message.
func (th *TestHelper) AssertLog(t *testing.T, level, msg string, attrs map[string]any) {
	t.Helper()

	entries, err := th.Logs()
	require.NoError(t, err, "failed to parse logs")

	for _, entry := range entries {
		if entry.Level != level || (msg != "" && entry.Message != msg) {
			continue
		}

		match := true
		for k, want := range attrs {
			got, ok := entry.Attrs[k]
			if !ok || !attrMatches(got, want) {
				match = false
				break
			}
		}
		if match {
			return
		}
	}

	require.Fail(t, "log entry not found", "level=%s msg=%s attrs=%v", level, msg, attrs)
}

// attrMatches compares a decoded JSON value with an expected Go value.
// JSON numbers decode as float64.
func attrMatches(got, want any) bool {
	if f, ok := got.(float64); ok {
		switch w := want.(type) {
		case int:
			return int(f) == w
		case int64:
			return int64(f) == w
		case float64:
			return f == w
		}
	}

	return fmt.Sprint(got) == fmt.Sprint(want)
}

// lockedWriter serializes writes into a shared buffer.
type lockedWriter struct {
	mu  sync.Mutex
	buf *bytes.Buffer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.buf.Write(p)
}

// HandlerSpy implements [slog.Handler] and records all Handle calls.
//
// Example:
//
//	spy := &logging.HandlerSpy{}
//	renderer := errors.NewRenderer(errors.WithLogger(slog.New(spy)))
//	// ... render an error
//	if spy.RecordCount() != 1 {
//	    t.Error("expected one record")
//	}
type HandlerSpy struct {
	records []slog.Record
	mu      sync.Mutex
}

// Enabled implements [slog.Handler.Enabled].
func (hs *HandlerSpy) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

// Handle implements [slog.Handler.Handle].
func (hs *HandlerSpy) Handle(_ context.Context, r slog.Record) error {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	hs.records = append(hs.records, r.Clone())

	return nil
}

// WithAttrs implements [slog.Handler.WithAttrs].
func (hs *HandlerSpy) WithAttrs(_ []slog.Attr) slog.Handler {
	return hs
}

// WithGroup implements [slog.Handler.WithGroup].
func (hs *HandlerSpy) WithGroup(_ string) slog.Handler {
	return hs
}

// Records returns all captured records.
func (hs *HandlerSpy) Records() []slog.Record {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	return append([]slog.Record(nil), hs.records...)
}

// RecordCount returns the number of captured records.
func (hs *HandlerSpy) RecordCount() int {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	return len(hs.records)
}
