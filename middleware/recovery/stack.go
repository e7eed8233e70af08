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

package recovery

import (
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"rivaas.dev/errorpages/errors"
)

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// stackFrame is one parsed "#N file:line function" line.
type stackFrame struct {
	Function string
	File     string
	Line     int
}

// parseFrames extracts at most limit frames from the first error in err's
// chain that carries a stack trace.
func parseFrames(err error, limit int) []stackFrame {
	var traced errors.StackTracer
	if !stderrors.As(err, &traced) {
		return nil
	}

	var frames []stackFrame
	for line := range strings.SplitSeq(traced.StackTrace(), "\n") {
		if len(frames) == limit {
			break
		}
		if frame, ok := parseFrame(line); ok {
			frames = append(frames, frame)
		}
	}

	return frames
}

func parseFrame(line string) (stackFrame, bool) {
	_, rest, ok := strings.Cut(line, " ")
	if !ok || !strings.HasPrefix(line, "#") {
		return stackFrame{}, false
	}
	location, function, ok := strings.Cut(rest, " ")
	if !ok {
		return stackFrame{}, false
	}
	idx := strings.LastIndexByte(location, ':')
	if idx < 0 {
		return stackFrame{}, false
	}
	lineNo, err := strconv.Atoi(location[idx+1:])
	if err != nil {
		return stackFrame{}, false
	}

	return stackFrame{Function: function, File: location[:idx], Line: lineNo}, true
}

// compactFrames formats frames as "function (file:line)" for structured logs.
func compactFrames(frames []stackFrame) []string {
	out := make([]string, len(frames))
	for i, f := range frames {
		out[i] = fmt.Sprintf("%s (%s:%d)", f.Function, f.File, f.Line)
	}

	return out
}

// printColorizedStack writes a readable stack for terminals.
func printColorizedStack(w io.Writer, message string, frames []stackFrame) {
	var b strings.Builder
	b.WriteString(colorBold + colorRed + message + colorReset + "\n")
	for i, f := range frames {
		fmt.Fprintf(&b, "  %s%2d%s %s%s%s\n", colorGray, i, colorReset, colorCyan, f.Function, colorReset)
		fmt.Fprintf(&b, "     %s%s:%d%s\n", colorGray, f.File, f.Line, colorReset)
	}

	_, _ = io.WriteString(w, b.String())
}
