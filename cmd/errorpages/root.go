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

package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"rivaas.dev/errorpages/config"
	"rivaas.dev/errorpages/errors"
	"rivaas.dev/errorpages/logging"
)

const defaultEnvFile = ".env"

// app carries the state shared by all commands.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configFile string
	envFile    string
	consulKey  string
	logFormat  string
	details    bool

	settings config.Settings
	logger   *logging.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:          "errorpages",
		Short:        "Preview and serve negotiated HTTP error pages",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.logger.Shutdown(commandContext(cmd))
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "settings file (yaml, json or toml)")
	flags.StringVar(&a.envFile, "env-file", defaultEnvFile, "dotenv file with ERRORPAGES_* variables")
	flags.StringVar(&a.consulKey, "consul-key", "", "consul KV key with settings (needs CONSUL_HTTP_ADDR)")
	flags.StringVar(&a.logFormat, "log-format", "auto", "log handler: auto|json|text|console")
	flags.BoolVar(&a.details, "details", false, "display error details (overrides display.details)")

	root.AddCommand(newRenderCmd(a), newServeCmd(a), newConfigCmd(a))

	return root
}

// setup loads the env file and settings, then builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	if err := a.loadEnvFile(cmd.Flags().Changed("env-file")); err != nil {
		return err
	}

	settings, err := config.LoadSettings(commandContext(cmd), a.configOptions()...)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("details") {
		settings.Display.Details = a.details
	}
	a.settings = settings

	logger, err := a.newLogger()
	if err != nil {
		return err
	}
	a.logger = logger

	return nil
}

// loadEnvFile loads a dotenv file without overriding the environment. A
// missing default file is ignored.
func (a *app) loadEnvFile(explicit bool) error {
	if a.envFile == "" {
		return nil
	}
	err := godotenv.Load(a.envFile)
	if err != nil && !explicit && stderrors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load env file %s: %w", a.envFile, err)
	}

	return nil
}

func (a *app) configOptions() []config.Option {
	var opts []config.Option
	if a.configFile != "" {
		opts = append(opts, config.WithFile(a.configFile))
	}
	if a.consulKey != "" {
		opts = append(opts, config.WithConsul(a.consulKey))
	}

	return append(opts, config.WithEnv(config.EnvPrefix))
}

func (a *app) newLogger() (*logging.Logger, error) {
	opts, err := a.settings.LoggerOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts, logging.WithOutput(a.stderr))

	switch format := strings.ToLower(a.logFormat); format {
	case "auto":
		if isTerminal(a.stderr) {
			opts = append(opts, logging.WithConsoleHandler())
		}
	default:
		handler, parseErr := logging.ParseHandlerType(format)
		if parseErr != nil {
			return nil, parseErr
		}
		opts = append(opts, logging.WithHandlerType(handler))
	}

	return logging.New(opts...)
}

// rendererOptions returns the renderer options for the loaded settings.
func (a *app) rendererOptions(extra ...errors.Option) []errors.Option {
	return a.settings.RendererOptions(append([]errors.Option{errors.WithLogger(a.logger)}, extra...)...)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// commandContext returns the command context, or a background context for
// commands executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
