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
	"strconv"
	"strings"
)

// Logger receives rendered error chains at error level.
// [*slog.Logger] satisfies it, as do the loggers of rivaas.dev/errorpages/logging.
type Logger interface {
	Error(msg string, args ...any)
}

const (
	logHeader   = "Application Error:"
	logPrevious = "Previous error:"
	logTrailer  = `View in rendered output by enabling the "displayErrorDetails" setting.`
)

// RenderText renders err and its causes as a plain-text block:
//
//	Application Error:
//	Type: *fs.PathError
//	Message: open app.yaml: no such file or directory
//	...
//	Previous error:
//	Type: syscall.Errno
//	...
//	View in rendered output by enabling the "displayErrorDetails" setting.
//
// Empty or zero fields are omitted.
func RenderText(err error) string {
	var b strings.Builder

	b.WriteString(logHeader)
	b.WriteByte('\n')
	for i, rec := range Chain(err) {
		if i > 0 {
			b.WriteByte('\n')
			b.WriteString(logPrevious)
			b.WriteByte('\n')
		}
		writeRecordText(&b, rec)
	}
	b.WriteByte('\n')
	b.WriteString(logTrailer)
	b.WriteByte('\n')

	return b.String()
}

// writeRecordText writes one record; the trace is the last line and carries
// no trailing newline.
func writeRecordText(b *strings.Builder, rec Record) {
	b.WriteString("Type: ")
	b.WriteString(rec.Type)
	b.WriteByte('\n')

	if rec.Code != 0 {
		b.WriteString("Code: ")
		b.WriteString(strconv.Itoa(rec.Code))
		b.WriteByte('\n')
	}
	if rec.Message != "" {
		b.WriteString("Message: ")
		b.WriteString(rec.Message)
		b.WriteByte('\n')
	}
	if rec.File != "" {
		b.WriteString("File: ")
		b.WriteString(rec.File)
		b.WriteByte('\n')
	}
	if rec.Line != 0 {
		b.WriteString("Line: ")
		b.WriteString(strconv.Itoa(rec.Line))
		b.WriteByte('\n')
	}
	if rec.Trace != "" {
		b.WriteString("Trace: ")
		b.WriteString(rec.Trace)
	}
}

// writeToErrorLog logs the redacted text rendering of err. Logging is best
// effort; the logger reports no failures.
func (cfg *config) writeToErrorLog(err error, errorID string) {
	text := cfg.redact(RenderText(err))
	if errorID != "" {
		cfg.logger.Error(text, "error_id", errorID)
		return
	}
	cfg.logger.Error(text)
}

// redact replaces the root path with its placeholder when hiding is enabled.
func (cfg *config) redact(s string) string {
	if !cfg.hideRootPath || cfg.rootPath == "" {
		return s
	}

	return strings.ReplaceAll(s, cfg.rootPath, cfg.rootPathPlaceholder)
}

// redactRecord redacts the path-bearing fields of rec.
func (cfg *config) redactRecord(rec Record) Record {
	rec.Message = cfg.redact(rec.Message)
	rec.File = cfg.redact(rec.File)
	rec.Trace = cfg.redact(rec.Trace)

	return rec
}
