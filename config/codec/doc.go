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

// Package codec converts raw configuration bytes into the nested maps the
// config loader merges, and back again for display.
//
// # Built-in Codecs
//
//   - [TypeJSON]: encoding/json
//   - [TypeYAML]: github.com/goccy/go-yaml
//   - [TypeTOML]: github.com/BurntSushi/toml
//   - [TypeEnvVar]: KEY=value lines, underscores create nesting (decode only)
//
// Single values read from a key/value store are converted with a [Scalar]
// decoder:
//
//	dec := codec.NewScalar(codec.KindBool)
//	var v any
//	_ = dec.Decode([]byte("true"), &v) // v is true
//
// Additional formats are registered with [RegisterDecoder] and
// [RegisterEncoder] and looked up with [GetDecoder] and [GetEncoder].
package codec
