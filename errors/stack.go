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
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// maxStackDepth is the number of frames captured per error.
const maxStackDepth = 64

// Error is an error that records where it was created.
// It implements [Coder], [Locator] and [StackTracer].
type Error struct {
	msg   string
	cause error
	code  int
	stack []uintptr
}

// New returns an error with the given message and the caller's stack.
func New(msg string) error {
	return &Error{msg: msg, stack: callers(3)}
}

// Errorf formats like [fmt.Errorf], including %w wrapping, and records the
// caller's stack.
func Errorf(format string, args ...any) error {
	err := fmt.Errorf(format, args...)

	return &Error{msg: err.Error(), cause: errors.Unwrap(err), stack: callers(3)}
}

// WithStack annotates err with the caller's stack. It returns nil if err is nil.
// The annotation is transparent: Error returns err's message unchanged.
func WithStack(err error) error {
	if err == nil {
		return nil
	}

	return &Error{cause: err, stack: callers(3)}
}

// WithCode annotates err with a numeric code and the caller's stack.
// It returns nil if err is nil.
//
// Example:
//
//	return errors.WithCode(err, 4201)
func WithCode(err error, code int) error {
	if err == nil {
		return nil
	}

	return &Error{cause: err, code: code, stack: callers(3)}
}

func (e *Error) Error() string {
	if e.msg == "" && e.cause != nil {
		return e.cause.Error()
	}

	return e.msg
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Code returns the numeric code, zero if none was set.
func (e *Error) Code() int {
	return e.code
}

// File returns the file of the innermost recorded frame.
func (e *Error) File() string {
	frame, ok := e.firstFrame()
	if !ok {
		return ""
	}

	return frame.File
}

// Line returns the line of the innermost recorded frame.
func (e *Error) Line() int {
	frame, ok := e.firstFrame()
	if !ok {
		return 0
	}

	return frame.Line
}

// StackTrace formats the recorded frames, one per line:
//
//	#0 /srv/app/handlers.go:42 main.loadUser
func (e *Error) StackTrace() string {
	return formatFrames(e.stack)
}

// transparent reports whether e only annotates its cause.
func (e *Error) transparent() bool {
	return e.msg == "" && e.cause != nil
}

func (e *Error) firstFrame() (runtime.Frame, bool) {
	if len(e.stack) == 0 {
		return runtime.Frame{}, false
	}

	frame, _ := runtime.CallersFrames(e.stack).Next()

	return frame, frame.File != ""
}

// PanicError carries a value recovered from a panic.
// It implements [Locator], [StackTracer] and [Typer].
type PanicError struct {
	// Value is the value passed to panic.
	Value any

	stack []uintptr
}

// FromPanic converts a recovered panic value into an error. It must be called
// from the deferred function that called recover, so that the captured stack
// starts at the statement that panicked.
//
// Example:
//
//	defer func() {
//		if v := recover(); v != nil {
//			renderer.ServeError(w, r, errors.FromPanic(v))
//		}
//	}()
func FromPanic(v any) error {
	if v == nil {
		return nil
	}

	return &PanicError{Value: v, stack: panicFrames(callers(3))}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}

	return nil
}

// TypeName reports "panic" followed by the panic value's type.
func (e *PanicError) TypeName() string {
	return fmt.Sprintf("panic(%T)", e.Value)
}

// File returns the file of the statement that panicked.
func (e *PanicError) File() string {
	if len(e.stack) == 0 {
		return ""
	}
	frame, _ := runtime.CallersFrames(e.stack).Next()

	return frame.File
}

// Line returns the line of the statement that panicked.
func (e *PanicError) Line() int {
	if len(e.stack) == 0 {
		return 0
	}
	frame, _ := runtime.CallersFrames(e.stack).Next()

	return frame.Line
}

// StackTrace formats the panicking goroutine's frames.
func (e *PanicError) StackTrace() string {
	return formatFrames(e.stack)
}

// callers captures program counters, skipping skip frames
// (runtime.Callers and callers itself count as two).
func callers(skip int) []uintptr {
	var pcs [maxStackDepth]uintptr
	n := runtime.Callers(skip, pcs[:])

	out := make([]uintptr, n)
	copy(out, pcs[:n])

	return out
}

// panicFrames drops the frames above the panic site: the recovering
// functions, runtime.gopanic and any runtime helpers it called through.
// The stack is returned unchanged when no gopanic frame is present.
func panicFrames(pcs []uintptr) []uintptr {
	cut := -1
	for i, pc := range pcs {
		fn := runtime.FuncForPC(pc - 1)
		if fn == nil {
			continue
		}
		name := fn.Name()
		if name == "runtime.gopanic" || (cut == i && isRuntimeFunc(name)) {
			cut = i + 1
		}
	}

	if cut < 0 || cut >= len(pcs) {
		return pcs
	}

	return pcs[cut:]
}

// isRuntimeFunc reports whether name belongs to the Go runtime.
func isRuntimeFunc(name string) bool {
	return strings.HasPrefix(name, "runtime.") || strings.HasPrefix(name, "internal/runtime/")
}

// formatFrames renders program counters as "#N file:line function" lines.
func formatFrames(pcs []uintptr) string {
	if len(pcs) == 0 {
		return ""
	}

	var b strings.Builder
	frames := runtime.CallersFrames(pcs)
	for i := 0; ; i++ {
		frame, more := frames.Next()
		if frame.File != "" {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteByte('#')
			b.WriteString(strconv.Itoa(i))
			b.WriteByte(' ')
			b.WriteString(frame.File)
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(frame.Line))
			b.WriteByte(' ')
			b.WriteString(frame.Function)
		}
		if !more {
			break
		}
	}

	return b.String()
}
