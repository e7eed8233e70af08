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
	"fmt"
	"strings"
)

// ParseLevel converts a level name from configuration into a [Level].
// Names are case-insensitive; "warning" is accepted for warn.
//
// Errors:
//   - [ErrInvalidLevel]: the name is not debug, info, warn or error
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, name)
	}
}

// ParseHandlerType converts a handler name from configuration into a
// [HandlerType]. An empty name selects JSON.
//
// Errors:
//   - [ErrInvalidHandler]: the name is not json, text or console
func ParseHandlerType(name string) (HandlerType, error) {
	switch t := HandlerType(strings.ToLower(strings.TrimSpace(name))); t {
	case "":
		return JSONHandler, nil
	case JSONHandler, TextHandler, ConsoleHandler:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidHandler, name)
	}
}
