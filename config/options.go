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

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"reflect"
	"sync/atomic"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"rivaas.dev/errorpages/config/codec"
	"rivaas.dev/errorpages/config/source"
)

// Option configures a [Config].
type Option func(c *Config) error

// consulAddrEnv gates the consul options.
const consulAddrEnv = "CONSUL_HTTP_ADDR"

var schemaSeq atomic.Uint64

// WithSource appends a custom source.
func WithSource(src Source) Option {
	return func(c *Config) error {
		if src == nil {
			return errors.New("source cannot be nil")
		}
		c.sources = append(c.sources, src)
		return nil
	}
}

// WithFile reads a file whose format is detected from its extension
// (.yaml, .yml, .json, .toml). Environment variables in path are expanded.
//
// Example:
//
//	cfg := config.MustNew(config.WithFile("${CONFIG_DIR}/errorpages.yaml"))
func WithFile(path string) Option {
	return func(c *Config) error {
		path = os.ExpandEnv(path)

		format, err := detectFormat(path)
		if err != nil {
			return NewError("file-source", "detect-format", err)
		}

		return c.addFile(path, format, false)
	}
}

// WithOptionalFile is like [WithFile] but a missing file contributes no values.
func WithOptionalFile(path string) Option {
	return func(c *Config) error {
		path = os.ExpandEnv(path)

		format, err := detectFormat(path)
		if err != nil {
			return NewError("file-source", "detect-format", err)
		}

		return c.addFile(path, format, true)
	}
}

// WithFileAs reads a file with an explicit format.
func WithFileAs(path string, codecType codec.Type) Option {
	return func(c *Config) error {
		return c.addFile(os.ExpandEnv(path), codecType, false)
	}
}

func (c *Config) addFile(path string, format codec.Type, optional bool) error {
	decoder, err := codec.GetDecoder(format)
	if err != nil {
		return NewError("file-source", "get-decoder", err)
	}

	if optional {
		c.sources = append(c.sources, source.NewOptionalFile(path, decoder))
	} else {
		c.sources = append(c.sources, source.NewFile(path, decoder))
	}

	return nil
}

// WithContent decodes data in the given format.
//
// Example:
//
//	cfg := config.MustNew(config.WithContent([]byte("errorid: true"), codec.TypeYAML))
func WithContent(data []byte, codecType codec.Type) Option {
	return func(c *Config) error {
		decoder, err := codec.GetDecoder(codecType)
		if err != nil {
			return NewError("content-source", "get-decoder", err)
		}
		c.sources = append(c.sources, source.NewFileContent(data, decoder))
		return nil
	}
}

// WithEnv reads environment variables starting with prefix. Underscores in
// the remainder create nesting: with prefix "ERRORPAGES_",
// ERRORPAGES_DISPLAY_DETAILS sets display.details.
func WithEnv(prefix string) Option {
	return func(c *Config) error {
		c.sources = append(c.sources, source.NewOSEnvVar(prefix))
		return nil
	}
}

// WithConsul reads a consul key whose format is detected from its extension.
// The option does nothing unless CONSUL_HTTP_ADDR is set, so local runs work
// without consul.
func WithConsul(path string) Option {
	return func(c *Config) error {
		if os.Getenv(consulAddrEnv) == "" {
			return nil
		}
		path = os.ExpandEnv(path)

		format, err := detectFormat(path)
		if err != nil {
			return NewError("consul-source", "detect-format", err)
		}
		decoder, err := codec.GetDecoder(format)
		if err != nil {
			return NewError("consul-source", "get-decoder", err)
		}

		return c.addConsul(path, decoder)
	}
}

// WithConsulAs reads a consul key with an explicit decoder, typically a
// [codec.Scalar] for a single setting. Like [WithConsul] it requires
// CONSUL_HTTP_ADDR.
func WithConsulAs(path string, decoder codec.Decoder) Option {
	return func(c *Config) error {
		if os.Getenv(consulAddrEnv) == "" {
			return nil
		}
		if decoder == nil {
			return NewError("consul-source", "get-decoder", errors.New("decoder cannot be nil"))
		}

		return c.addConsul(os.ExpandEnv(path), decoder)
	}
}

func (c *Config) addConsul(path string, decoder codec.Decoder) error {
	src, err := source.NewConsul(path, decoder, nil)
	if err != nil {
		return NewError("consul-source", "create-client", err)
	}
	c.sources = append(c.sources, src)

	return nil
}

// WithBinding decodes the merged values into v on every Load. v must be a
// non-nil pointer to a struct.
func WithBinding(v any) Option {
	return func(c *Config) error {
		if v == nil {
			return errors.New("binding target cannot be nil")
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
			return errors.New("binding target must be a non-nil pointer to a struct")
		}
		c.binding = v
		return nil
	}
}

// WithJSONSchema validates the merged values against a JSON schema document.
func WithJSONSchema(schema []byte) Option {
	return func(c *Config) error {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schema))
		if err != nil {
			return NewError("json-schema", "parse", err)
		}

		name := fmt.Sprintf("inline_%d.json", schemaSeq.Add(1))
		compiler := jsonschema.NewCompiler()
		if err = compiler.AddResource(name, doc); err != nil {
			return NewError("json-schema", "compile", err)
		}
		compiled, err := compiler.Compile(name)
		if err != nil {
			return NewError("json-schema", "compile", err)
		}
		c.schema = compiled

		return nil
	}
}

// WithValidator adds a function run against the merged values on Load.
func WithValidator(fn func(map[string]any) error) Option {
	return func(c *Config) error {
		c.customValidators = append(c.customValidators, fn)
		return nil
	}
}
