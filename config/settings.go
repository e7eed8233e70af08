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
	_ "embed"
	"errors"

	rerrors "rivaas.dev/errorpages/errors"
	"rivaas.dev/errorpages/logging"
)

// EnvPrefix is the environment variable prefix read by [LoadSettings] when
// [WithEnv] is not given explicitly.
const EnvPrefix = "ERRORPAGES_"

//go:embed settings.schema.json
var settingsSchema []byte

// SettingsSchema returns the JSON schema the settings are validated against.
func SettingsSchema() []byte {
	return append([]byte(nil), settingsSchema...)
}

// Settings is the file shape of the error page configuration.
//
//	display:
//	  details: false
//	root:
//	  path: /srv/app
//	  hide: true
//	  placeholder: "{ROOT}"
//	errorid: false
//	idformat: uuid
//	title: Application Runtime Error
//	log:
//	  handler: text
//	  level: info
//	  file: ""
type Settings struct {
	Display  DisplaySettings `config:"display" json:"display" yaml:"display" toml:"display"`
	Root     RootSettings    `config:"root" json:"root" yaml:"root" toml:"root"`
	ErrorID  bool            `config:"errorid" json:"errorid" yaml:"errorid" toml:"errorid"`
	IDFormat string          `config:"idformat" json:"idformat" yaml:"idformat" toml:"idformat" default:"uuid"`
	Title    string          `config:"title" json:"title" yaml:"title" toml:"title" default:"Application Runtime Error"`
	Log      LogSettings     `config:"log" json:"log" yaml:"log" toml:"log"`
}

// DisplaySettings controls what the rendered bodies reveal.
type DisplaySettings struct {
	Details bool `config:"details" json:"details" yaml:"details" toml:"details"`
}

// RootSettings controls path redaction.
type RootSettings struct {
	Path        string `config:"path" json:"path" yaml:"path" toml:"path"`
	Hide        bool   `config:"hide" json:"hide" yaml:"hide" toml:"hide"`
	Placeholder string `config:"placeholder" json:"placeholder" yaml:"placeholder" toml:"placeholder" default:"{ROOT}"`
}

// LogSettings configures the error log. File enables a rotating log file next
// to the primary output.
type LogSettings struct {
	Handler    string `config:"handler" json:"handler" yaml:"handler" toml:"handler" default:"text"`
	Level      string `config:"level" json:"level" yaml:"level" toml:"level" default:"info"`
	File       string `config:"file" json:"file" yaml:"file" toml:"file"`
	MaxSize    int    `config:"maxsize" json:"maxsize" yaml:"maxsize" toml:"maxsize" default:"100"`
	MaxBackups int    `config:"maxbackups" json:"maxbackups" yaml:"maxbackups" toml:"maxbackups" default:"3"`
	MaxAge     int    `config:"maxage" json:"maxage" yaml:"maxage" toml:"maxage" default:"28"`
	Compress   bool   `config:"compress" json:"compress" yaml:"compress" toml:"compress"`
}

// ErrHideWithoutRoot is returned when root.hide is set without root.path.
var ErrHideWithoutRoot = errors.New("root.hide requires root.path")

// Validate implements [Validator].
func (s *Settings) Validate() error {
	if s.Root.Hide && s.Root.Path == "" {
		return NewFieldError("settings", "root.hide", "validate", ErrHideWithoutRoot)
	}
	if _, err := rerrors.ParseIDFormat(s.IDFormat); err != nil {
		return NewFieldError("settings", "idformat", "validate", err)
	}
	if _, err := logging.ParseLevel(s.Log.Level); err != nil {
		return NewFieldError("settings", "log.level", "validate", err)
	}
	if _, err := logging.ParseHandlerType(s.Log.Handler); err != nil {
		return NewFieldError("settings", "log.handler", "validate", err)
	}

	return nil
}

// DefaultSettings returns the settings used when no source sets a value.
func DefaultSettings() Settings {
	var s Settings
	// Only fails for unsupported field kinds.
	_ = applyDefaults(&s, nil)

	return s
}

// LoadSettings loads [Settings] from the given sources, validated against
// the embedded schema. Without options it reads ERRORPAGES_* variables.
//
// Example:
//
//	s, err := config.LoadSettings(ctx,
//	    config.WithOptionalFile("errorpages.yaml"),
//	    config.WithEnv(config.EnvPrefix),
//	)
func LoadSettings(ctx context.Context, opts ...Option) (Settings, error) {
	if len(opts) == 0 {
		opts = []Option{WithEnv(EnvPrefix)}
	}

	var s Settings
	all := make([]Option, 0, len(opts)+2)
	all = append(all, WithJSONSchema(settingsSchema))
	all = append(all, opts...)
	all = append(all, WithBinding(&s))

	cfg, err := New(all...)
	if err != nil {
		return Settings{}, err
	}
	if err = cfg.Load(ctx); err != nil {
		return Settings{}, err
	}

	return s, nil
}

// RendererSettings returns the rendering part of the settings.
func (s Settings) RendererSettings() rerrors.Settings {
	// Validate has already rejected unknown formats.
	format, _ := rerrors.ParseIDFormat(s.IDFormat)

	return rerrors.Settings{
		DisplayErrorDetails: s.Display.Details,
		RootPath:            s.Root.Path,
		HideRootPath:        s.Root.Hide,
		RootPathPlaceholder: s.Root.Placeholder,
		ErrorID:             s.ErrorID,
		IDFormat:            format,
	}
}

// RendererOptions converts the settings into renderer options. Extra options
// are appended and win over the settings.
func (s Settings) RendererOptions(extra ...rerrors.Option) []rerrors.Option {
	opts := []rerrors.Option{rerrors.WithSettings(s.RendererSettings())}
	if s.Title != "" {
		opts = append(opts, rerrors.WithTitle(s.Title))
	}

	return append(opts, extra...)
}

// LoggerOptions converts the log settings into logging options.
func (s Settings) LoggerOptions() ([]logging.Option, error) {
	level, err := logging.ParseLevel(s.Log.Level)
	if err != nil {
		return nil, NewFieldError("settings", "log.level", "convert", err)
	}
	handler, err := logging.ParseHandlerType(s.Log.Handler)
	if err != nil {
		return nil, NewFieldError("settings", "log.handler", "convert", err)
	}

	opts := []logging.Option{
		logging.WithHandlerType(handler),
		logging.WithLevel(level),
	}
	if s.Log.File != "" {
		opts = append(opts, logging.WithRotatingFile(logging.RotationConfig{
			Filename:   s.Log.File,
			MaxSizeMB:  s.Log.MaxSize,
			MaxBackups: s.Log.MaxBackups,
			MaxAgeDays: s.Log.MaxAge,
			Compress:   s.Log.Compress,
		}))
	}

	return opts, nil
}
