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
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/errorpages/config/codec"
)

type funcSource func(ctx context.Context) (map[string]any, error)

func (f funcSource) Load(ctx context.Context) (map[string]any, error) { return f(ctx) }

func TestConfig_MergeOrder(t *testing.T) {
	t.Parallel()

	cfg := MustNew(
		WithContent([]byte("display:\n  details: false\nroot:\n  path: /srv/app\n  placeholder: \"{ROOT}\"\n"), codec.TypeYAML),
		WithContent([]byte(`{"Display": {"Details": true}, "ROOT": {"Placeholder": "<app>"}}`), codec.TypeJSON),
		WithContent([]byte("[log]\nmaxsize = 5\n"), codec.TypeTOML),
	)
	require.NoError(t, cfg.Load(context.Background()))

	assert.True(t, cfg.Bool("display.details"))
	assert.Equal(t, "/srv/app", cfg.String("root.path"), "untouched keys survive the merge")
	assert.Equal(t, "<app>", cfg.String("ROOT.placeholder"))
	assert.Equal(t, 5, cfg.Int("log.maxsize"))
}

func TestConfig_Getters(t *testing.T) {
	t.Parallel()

	cfg := MustNew(WithContent([]byte(`{"errorid": "true", "title": "Oops", "log": {"maxage": "7"}}`), codec.TypeJSON))
	require.NoError(t, cfg.Load(context.Background()))

	tests := []struct {
		name string
		got  any
		want any
	}{
		{name: "bool from string", got: cfg.Bool("errorid"), want: true},
		{name: "string", got: cfg.String("title"), want: "Oops"},
		{name: "int from string", got: cfg.Int("log.maxage"), want: 7},
		{name: "missing string", got: cfg.String("root.path"), want: ""},
		{name: "missing int", got: cfg.Int("log.maxsize"), want: 0},
		{name: "string or present", got: cfg.StringOr("title", "x"), want: "Oops"},
		{name: "string or missing", got: cfg.StringOr("root.placeholder", "{ROOT}"), want: "{ROOT}"},
		{name: "bool or present", got: cfg.BoolOr("errorid", false), want: true},
		{name: "bool or missing", got: cfg.BoolOr("root.hide", true), want: true},
		{name: "path through a scalar", got: cfg.Get("title.sub"), want: nil},
		{name: "empty key", got: cfg.Get(""), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestConfig_NilReceiverGet(t *testing.T) {
	t.Parallel()

	var cfg *Config
	assert.Nil(t, cfg.Get("title"))
	assert.Equal(t, "fallback", cfg.StringOr("title", "fallback"))
}

func TestConfig_ValuesIsACopy(t *testing.T) {
	t.Parallel()

	cfg := MustNew(WithContent([]byte(`{"title": "Oops"}`), codec.TypeJSON))
	require.NoError(t, cfg.Load(context.Background()))

	values := cfg.Values()
	values["title"] = "changed"
	assert.Equal(t, "Oops", cfg.String("title"))
}

func TestConfig_LoadErrors(t *testing.T) {
	t.Parallel()

	schema := []byte(`{"type": "object", "properties": {"title": {"type": "string"}}}`)

	tests := []struct {
		name       string
		opts       []Option
		wantSource string
	}{
		{
			name: "source failure",
			opts: []Option{WithSource(funcSource(func(context.Context) (map[string]any, error) {
				return nil, errors.New("unreachable")
			}))},
			wantSource: "source[0]",
		},
		{
			name:       "decode failure in second source",
			opts:       []Option{WithContent([]byte(`{}`), codec.TypeJSON), WithContent([]byte(`{`), codec.TypeJSON)},
			wantSource: "source[1]",
		},
		{
			name:       "schema",
			opts:       []Option{WithContent([]byte(`{"title": 3}`), codec.TypeJSON), WithJSONSchema(schema)},
			wantSource: "json-schema",
		},
		{
			name: "validator",
			opts: []Option{WithValidator(func(map[string]any) error {
				return errors.New("rejected")
			})},
			wantSource: "custom-validator[0]",
		},
		{
			name: "validator panic",
			opts: []Option{WithValidator(nil), WithValidator(func(map[string]any) error {
				panic("boom")
			})},
			wantSource: "custom-validator[1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := New(tt.opts...)
			require.NoError(t, err)

			err = cfg.Load(context.Background())
			require.Error(t, err)

			var cfgErr *Error
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantSource, cfgErr.Source)
		})
	}
}

func TestConfig_LoadContext(t *testing.T) {
	t.Parallel()

	cfg := MustNew(WithContent([]byte(`{}`), codec.TypeJSON))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, cfg.Load(ctx), context.Canceled)

	//nolint:staticcheck // Exercises the nil context guard
	require.Error(t, cfg.Load(nil))
}

func TestNew_OptionErrors(t *testing.T) {
	t.Parallel()

	var notStruct int

	tests := []struct {
		name string
		opt  Option
	}{
		{name: "unknown extension", opt: WithFile("errorpages.ini")},
		{name: "unknown optional extension", opt: WithOptionalFile("errorpages")},
		{name: "unknown codec", opt: WithFileAs("errorpages.conf", "ini")},
		{name: "unknown content codec", opt: WithContent(nil, "ini")},
		{name: "nil source", opt: WithSource(nil)},
		{name: "nil binding", opt: WithBinding(nil)},
		{name: "binding not a pointer", opt: WithBinding(Settings{})},
		{name: "binding to non struct", opt: WithBinding(&notStruct)},
		{name: "invalid schema json", opt: WithJSONSchema([]byte(`{`))},
		{name: "invalid schema", opt: WithJSONSchema([]byte(`{"type": 12}`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(tt.opt)
			require.Error(t, err)
		})
	}
}

func TestNew_JoinsOptionErrors(t *testing.T) {
	t.Parallel()

	_, err := New(WithFile("a.ini"), nil, WithSource(nil))
	require.Error(t, err)

	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "detect-format", cfgErr.Operation)
	assert.Contains(t, err.Error(), "source cannot be nil")
}

func TestMustNew_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { MustNew(WithFile("errorpages.ini")) })
}

func TestMustLoad_Panics(t *testing.T) {
	t.Parallel()

	cfg := MustNew(WithContent([]byte(`{`), codec.TypeJSON))
	assert.Panics(t, func() { cfg.MustLoad(context.Background()) })
}

func TestWithConsul_RequiresAddress(t *testing.T) { //nolint:paralleltest // Uses t.Setenv
	t.Setenv(consulAddrEnv, "")

	cfg, err := New(
		WithConsul("errorpages/settings.yaml"),
		WithConsulAs("errorpages/display/details", codec.NewScalar(codec.KindBool)),
	)
	require.NoError(t, err)
	assert.Empty(t, cfg.sources)

	t.Setenv(consulAddrEnv, "127.0.0.1:8500")

	cfg, err = New(
		WithConsul("errorpages/settings.yaml"),
		WithConsulAs("errorpages/display/details", codec.NewScalar(codec.KindBool)),
	)
	require.NoError(t, err)
	assert.Len(t, cfg.sources, 2)

	_, err = New(WithConsul("errorpages/settings"))
	require.Error(t, err)
	_, err = New(WithConsulAs("errorpages/settings", nil))
	require.Error(t, err)
}

type bound struct {
	Name    string `config:"name" default:"anonymous"`
	Enabled bool   `config:"enabled" default:"true"`
	Nested  struct {
		Retries int `config:"retries" default:"3"`
	} `config:"nested"`
}

func (b *bound) Validate() error {
	if b.Name == "invalid" {
		return errors.New("name is invalid")
	}
	return nil
}

func TestConfig_Binding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bound
	}{
		{
			name:  "defaults",
			input: `{}`,
			want: func() bound {
				b := bound{Name: "anonymous", Enabled: true}
				b.Nested.Retries = 3
				return b
			}(),
		},
		{
			name:  "explicit zero values are kept",
			input: `{"name": "", "enabled": false, "nested": {"retries": 0}}`,
			want:  bound{},
		},
		{
			name:  "weakly typed input",
			input: `{"Name": "svc", "enabled": "1", "nested": {"retries": "5"}}`,
			want: func() bound {
				b := bound{Name: "svc", Enabled: true}
				b.Nested.Retries = 5
				return b
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got bound
			cfg := MustNew(WithContent([]byte(tt.input), codec.TypeJSON), WithBinding(&got))
			require.NoError(t, cfg.Load(context.Background()))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_FailedLoadKeepsPreviousState(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	src := funcSource(func(context.Context) (map[string]any, error) {
		if calls.Add(1) == 1 {
			return map[string]any{"name": "first"}, nil
		}
		return map[string]any{"name": "invalid"}, nil
	})

	var got bound
	cfg := MustNew(WithSource(src), WithBinding(&got))
	require.NoError(t, cfg.Load(context.Background()))
	assert.Equal(t, "first", got.Name)

	err := cfg.Load(context.Background())
	require.Error(t, err)

	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "binding", cfgErr.Source)
	assert.Equal(t, "first", got.Name)
	assert.Equal(t, "first", cfg.String("name"))
}

func TestApplyDefaults_Errors(t *testing.T) {
	t.Parallel()

	var notStruct string
	require.Error(t, applyDefaults(notStruct, nil))
	require.Error(t, applyDefaults(&notStruct, nil))

	var unsupported struct {
		Tags []string `config:"tags" default:"a,b"`
	}
	require.Error(t, applyDefaults(&unsupported, nil))

	var badBool struct {
		On bool `config:"on" default:"perhaps"`
	}
	require.Error(t, applyDefaults(&badBool, nil))
}

func TestError_Format(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")

	err := NewError("source[0]", "load", cause)
	assert.Equal(t, "config error in source[0] during load: boom", err.Error())
	assert.ErrorIs(t, err, cause)

	err = NewFieldError("settings", "root.hide", "validate", cause)
	assert.Equal(t, "config error in settings.root.hide during validate: boom", err.Error())
}

func TestFormatOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		want    codec.Type
		wantErr bool
	}{
		{path: "errorpages.yaml", want: codec.TypeYAML},
		{path: "errorpages.YML", want: codec.TypeYAML},
		{path: "/etc/errorpages.json", want: codec.TypeJSON},
		{path: "errorpages.toml", want: codec.TypeTOML},
		{path: "errorpages", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			got, err := FormatOf(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
