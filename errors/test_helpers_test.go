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

package errors

import (
	"sync"
)

// Test helpers for all renderer tests

type testError struct {
	message string
}

func (e *testError) Error() string {
	return e.message
}

type testErrorWithCode struct {
	message string
	code    int
}

func (e *testErrorWithCode) Error() string {
	return e.message
}

func (e *testErrorWithCode) Code() int {
	return e.code
}

type testErrorLocated struct {
	message string
	file    string
	line    int
	trace   string
	cause   error
}

func (e *testErrorLocated) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

func (e *testErrorLocated) Unwrap() error {
	return e.cause
}

func (e *testErrorLocated) File() string {
	return e.file
}

func (e *testErrorLocated) Line() int {
	return e.line
}

func (e *testErrorLocated) StackTrace() string {
	return e.trace
}

type logEntry struct {
	msg  string
	args []any
}

// recordingLogger captures Error calls.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) Error(msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{msg: msg, args: args})
}

func (l *recordingLogger) all() []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]logEntry(nil), l.entries...)
}

type observation struct {
	kind        string
	status      int
	contentType ContentType
}

// recordingObserver captures ObserveRender calls.
type recordingObserver struct {
	mu   sync.Mutex
	seen []observation
}

func (o *recordingObserver) ObserveRender(kind string, status int, contentType ContentType) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, observation{kind: kind, status: status, contentType: contentType})
}

func (o *recordingObserver) all() []observation {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]observation(nil), o.seen...)
}
