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
	"strings"
)

// maxChainDepth bounds chain walking. Longer chains are truncated.
const maxChainDepth = 64

// Coder allows errors to expose a numeric code.
//
// Example:
//
//	type QuotaError struct{}
//
//	func (QuotaError) Error() string { return "quota exceeded" }
//	func (QuotaError) Code() int     { return 4201 }
type Coder interface {
	error
	// Code returns the numeric error code. Zero means "no code".
	Code() int
}

// Locator allows errors to expose where they originated.
type Locator interface {
	error
	// File returns the source file path.
	File() string
	// Line returns the line number within File.
	Line() int
}

// StackTracer allows errors to expose a formatted stack trace.
type StackTracer interface {
	error
	// StackTrace returns one frame per line.
	StackTrace() string
}

// Typer allows errors to override the type name shown in rendered output.
// Without it the dynamic Go type (for example "*fs.PathError") is used.
type Typer interface {
	error
	TypeName() string
}

// Record is one flattened link of an error chain.
type Record struct {
	Type    string
	Code    int
	Message string
	File    string
	Line    int
	Trace   string
}

// TraceLines returns Trace split into lines. An empty trace yields an empty,
// non-nil slice so it encodes as [] in JSON.
func (r Record) TraceLines() []string {
	if r.Trace == "" {
		return []string{}
	}

	return strings.Split(r.Trace, "\n")
}

// Chain flattens err and its causes into records, outermost error first.
// Causes are followed through single-error Unwrap methods; errors joined with
// [errors.Join] end the chain.
//
// Annotations created by [WithStack] and [WithCode] do not produce records of
// their own. Their location, trace and code are attached to the next record
// that lacks them.
func Chain(err error) []Record {
	var (
		records []Record
		pending Record
	)

	for depth := 0; err != nil && depth < maxChainDepth; depth++ {
		cause := errors.Unwrap(err)

		if annotation, ok := err.(*Error); ok && annotation.transparent() {
			pending = mergeRecord(pending, recordOf(annotation, cause))
			err = cause
			continue
		}

		records = append(records, mergeRecord(recordOf(err, cause), pending))
		pending = Record{}
		err = cause
	}

	return records
}

// recordOf captures a single chain link.
func recordOf(err, cause error) Record {
	r := Record{
		Type:    typeName(err),
		Message: ownMessage(err, cause),
	}

	if coded, ok := err.(Coder); ok {
		r.Code = coded.Code()
	}
	if located, ok := err.(Locator); ok {
		r.File = located.File()
		r.Line = located.Line()
	}
	if traced, ok := err.(StackTracer); ok {
		r.Trace = traced.StackTrace()
	}

	return r
}

// mergeRecord fills the empty location, trace and code fields of dst from src.
func mergeRecord(dst, src Record) Record {
	if dst.Code == 0 {
		dst.Code = src.Code
	}
	if dst.File == "" {
		dst.File = src.File
		dst.Line = src.Line
	}
	if dst.Trace == "" {
		dst.Trace = src.Trace
	}

	return dst
}

// typeName returns the display type of err.
func typeName(err error) string {
	if typed, ok := err.(Typer); ok {
		if name := typed.TypeName(); name != "" {
			return name
		}
	}

	return fmt.Sprintf("%T", err)
}

// ownMessage strips the cause's text from a wrapping error's message, so
// "load config: open app.yaml: no such file" becomes "load config" when the
// cause reads "open app.yaml: no such file".
func ownMessage(err, cause error) string {
	msg := err.Error()
	if cause == nil {
		return msg
	}

	suffix := ": " + cause.Error()
	if trimmed, ok := strings.CutSuffix(msg, suffix); ok && trimmed != "" {
		return trimmed
	}

	return msg
}
