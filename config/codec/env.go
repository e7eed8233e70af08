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

package codec

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// TypeEnvVar decodes KEY=value lines.
const TypeEnvVar Type = "env_var"

func init() {
	RegisterDecoder(TypeEnvVar, EnvVarCodec{})
}

// EnvVarCodec decodes newline separated KEY=value pairs into a nested map.
// Keys are lowercased and split on underscores, so DISPLAY_DETAILS=true
// becomes {"display": {"details": "true"}}. Values stay strings; binding
// converts them. When a key is both a value and a parent, the parent wins.
type EnvVarCodec struct{}

// Decode implements [Decoder]. v must be a *map[string]any.
func (EnvVarCodec) Decode(data []byte, v any) error {
	ptr, ok := v.(*map[string]any)
	if !ok {
		return fmt.Errorf("env decoder: expected *map[string]any, got %T", v)
	}

	out := make(map[string]any)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		key, value, found := strings.Cut(scanner.Text(), "=")
		if !found {
			continue
		}
		path := envPath(key)
		if len(path) == 0 {
			continue
		}
		setPath(out, path, strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("env decoder: %w", err)
	}

	*ptr = out

	return nil
}

// Encode is not supported.
func (EnvVarCodec) Encode(any) ([]byte, error) {
	return nil, errors.New("env decoder: encoding is not supported")
}

func envPath(key string) []string {
	var path []string
	for _, part := range strings.Split(strings.ToLower(strings.TrimSpace(key)), "_") {
		if part != "" {
			path = append(path, part)
		}
	}

	return path
}

func setPath(m map[string]any, path []string, value string) {
	for _, segment := range path[:len(path)-1] {
		next, ok := m[segment].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[segment] = next
		}
		m = next
	}

	last := path[len(path)-1]
	if _, isParent := m[last].(map[string]any); isParent {
		return
	}
	m[last] = value
}
