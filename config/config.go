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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/cast"
)

// tagName is the struct tag read when binding.
const tagName = "config"

// Config loads configuration data from multiple sources, merges it and binds
// it to a struct.
//
// Config is safe for concurrent use by multiple goroutines.
type Config struct {
	values           map[string]any
	sources          []Source
	binding          any
	schema           *jsonschema.Schema
	customValidators []func(map[string]any) error
	mu               sync.RWMutex
}

// Validator is implemented by bound structs that validate themselves after
// decoding and defaulting.
type Validator interface {
	Validate() error
}

// New creates a new Config instance with the provided options.
// Option errors are joined; the partially configured Config is returned with
// them.
func New(options ...Option) (*Config, error) {
	var errs error
	c := &Config{values: map[string]any{}}

	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(c); err != nil {
			errs = errors.Join(errs, err)
		}
	}

	return c, errs
}

// MustNew creates a new Config instance or panics if any option fails.
func MustNew(options ...Option) *Config {
	cfg, err := New(options...)
	if err != nil {
		panic(fmt.Sprintf("config: failed to create config: %v", err))
	}

	return cfg
}

// Load reads every source in order, later sources overriding earlier ones,
// validates the merged values and binds them. The stored values and the
// binding only change when every step succeeds.
//
// Errors:
//   - [Error] with Source "source[i]" if a source fails to load or merge
//   - [Error] with Source "json-schema" if schema validation fails
//   - [Error] with Source "custom-validator[i]" if a validator fails
//   - [Error] with Source "binding" if decoding or [Validator] fails
func (c *Config) Load(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context cannot be nil")
	}

	values, err := c.loadSources(ctx)
	if err != nil {
		return err
	}

	if c.schema != nil {
		if err = c.schema.Validate(toSchemaValue(values)); err != nil {
			return NewError("json-schema", "validate", err)
		}
	}

	for i, fn := range c.customValidators {
		if fn == nil {
			continue
		}
		if err = runValidator(fn, values); err != nil {
			return NewError(fmt.Sprintf("custom-validator[%d]", i), "validate", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.binding != nil {
		if err = c.bind(values); err != nil {
			return NewError("binding", "bind", err)
		}
	}
	c.values = values

	return nil
}

// MustLoad loads configuration or panics on error.
func (c *Config) MustLoad(ctx context.Context) {
	if err := c.Load(ctx); err != nil {
		panic(err)
	}
}

func (c *Config) loadSources(ctx context.Context) (map[string]any, error) {
	merged := make(map[string]any)

	for i, src := range c.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		conf, err := src.Load(ctx)
		if err != nil {
			return nil, NewError(fmt.Sprintf("source[%d]", i), "load", err)
		}
		if conf == nil {
			continue
		}

		if err = mergo.Map(&merged, normalizeMapKeys(conf), mergo.WithOverride); err != nil {
			return nil, NewError(fmt.Sprintf("source[%d]", i), "merge", err)
		}
	}

	return merged, nil
}

// runValidator calls fn, turning a panic into an error.
func runValidator(fn func(map[string]any) error, values map[string]any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("validator panic: %v", r)
		}
	}()

	return fn(values)
}

// bind decodes values into a fresh copy of the binding, applies defaults and
// validates it, then copies the result into the binding.
func (c *Config) bind(values map[string]any) error {
	target := reflect.New(reflect.TypeOf(c.binding).Elem())

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          tagName,
		Squash:           true,
		WeaklyTypedInput: true,
		Result:           target.Interface(),
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err = decoder.Decode(values); err != nil {
		return fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err = applyDefaults(target.Interface(), values); err != nil {
		return fmt.Errorf("failed to apply defaults: %w", err)
	}

	if v, ok := target.Interface().(Validator); ok {
		if err = v.Validate(); err != nil {
			return err
		}
	}

	reflect.ValueOf(c.binding).Elem().Set(target.Elem())

	return nil
}

// normalizeMapKeys lowercases keys recursively so sources merge
// case-insensitively.
func normalizeMapKeys(m map[string]any) map[string]any {
	normalized := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = normalizeMapKeys(nested)
		}
		normalized[strings.ToLower(k)] = v
	}

	return normalized
}

// toSchemaValue converts decoded values into the JSON data model the schema
// validator uses, where numbers are json.Number.
func toSchemaValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = toSchemaValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = toSchemaValue(val)
		}
		return out
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return json.Number(cast.ToString(t))
	default:
		return v
	}
}

// Values returns a copy of the merged top-level values.
func (c *Config) Values() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]any, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}

	return out
}

// Get returns the value at a dot-separated, case-insensitive path, or nil.
func (c *Config) Get(key string) any {
	if c == nil || key == "" {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return lookup(c.values, strings.ToLower(key))
}

func lookup(values map[string]any, path string) any {
	if v, ok := values[path]; ok {
		return v
	}

	current := values
	segments := strings.Split(path, ".")
	for i, segment := range segments {
		v, ok := current[segment]
		if !ok {
			return nil
		}
		if i == len(segments)-1 {
			return v
		}
		if current, ok = v.(map[string]any); !ok {
			return nil
		}
	}

	return nil
}

// String returns the value at key as a string, or "" when missing.
//
// Example:
//
//	root := cfg.String("root.path")
func (c *Config) String(key string) string {
	return cast.ToString(c.Get(key))
}

// Bool returns the value at key as a bool, or false when missing or not
// convertible.
func (c *Config) Bool(key string) bool {
	return cast.ToBool(c.Get(key))
}

// Int returns the value at key as an int, or 0 when missing or not
// convertible.
func (c *Config) Int(key string) int {
	return cast.ToInt(c.Get(key))
}

// StringOr returns the value at key as a string, or defaultVal when missing.
func (c *Config) StringOr(key, defaultVal string) string {
	v := c.Get(key)
	if v == nil {
		return defaultVal
	}

	return cast.ToString(v)
}

// BoolOr returns the value at key as a bool, or defaultVal when missing.
func (c *Config) BoolOr(key string, defaultVal bool) bool {
	v := c.Get(key)
	if v == nil {
		return defaultVal
	}

	return cast.ToBool(v)
}
