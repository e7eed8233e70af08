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

// Package config loads the error page settings.
//
// Sources are merged in order, later sources overriding earlier ones, with
// case-insensitive keys:
//
//	cfg := config.MustNew(
//	    config.WithOptionalFile("errorpages.yaml"),
//	    config.WithEnv("ERRORPAGES_"),
//	    config.WithConsul("errorpages/settings.json"), // only with CONSUL_HTTP_ADDR
//	)
//	if err := cfg.Load(ctx); err != nil {
//	    return err
//	}
//	root := cfg.String("root.path")
//
// # Sources
//
//   - [WithFile], [WithOptionalFile], [WithFileAs]: yaml, json or toml files
//   - [WithContent]: in-memory documents
//   - [WithEnv]: prefixed environment variables, underscores create nesting
//   - [WithConsul], [WithConsulAs]: consul KV documents or single values
//   - [WithSource]: anything implementing [Source]
//
// # Binding
//
// [WithBinding] decodes the merged values into a struct using `config` tags.
// Fields tagged `default:"..."` are set when their key is absent, and a bound
// type implementing [Validator] is checked after decoding. [WithJSONSchema]
// and [WithValidator] check the raw values before binding. A failed Load
// leaves the previous values and binding untouched.
//
// # Settings
//
// [LoadSettings] binds the [Settings] shape, validated against the embedded
// schema, and [Settings.RendererOptions] and [Settings.LoggerOptions] turn it
// into options for the errors and logging packages.
//
// Errors are reported as [*Error] values naming the failing source and
// operation.
package config
