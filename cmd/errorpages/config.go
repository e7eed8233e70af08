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
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rivaas.dev/errorpages/config"
	"rivaas.dev/errorpages/config/codec"
)

func newConfigCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc, err := codec.GetEncoder(codec.Type(format))
			if err != nil {
				return fmt.Errorf("%w (available: %s)", err, encoderNames())
			}
			out, err := enc.Encode(a.settings)
			if err != nil {
				return fmt.Errorf("encode settings: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(out), "\n"))

			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", string(codec.TypeYAML), "output format")

	cmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema settings are validated against",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write(config.SettingsSchema())
			return err
		},
	})

	return cmd
}

func encoderNames() string {
	types := codec.EncoderTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}

	return strings.Join(names, ", ")
}
