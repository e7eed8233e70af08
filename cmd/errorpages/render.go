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
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"rivaas.dev/errorpages/errors"
)

type renderFlags struct {
	accept     string
	method     string
	message    string
	wraps      []string
	code       int
	notAllowed []string
	headers    bool
}

func newRenderCmd(a *app) *cobra.Command {
	f := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render an example error for an Accept header",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.render(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.accept, "accept", "", "Accept header of the simulated request")
	flags.StringVar(&f.method, "method", http.MethodGet, "method of the simulated request")
	flags.StringVar(&f.message, "message", "example failure", "message of the innermost error")
	flags.StringSliceVar(&f.wraps, "wrap", nil, "messages wrapping the error, innermost first")
	flags.IntVar(&f.code, "code", 0, "code of the innermost error")
	flags.StringSliceVar(&f.notAllowed, "not-allowed", nil, "render a 405 for these allowed methods instead")
	flags.BoolVar(&f.headers, "headers", false, "print the status line and headers before the body")

	return cmd
}

func (a *app) render(cmd *cobra.Command, f *renderFlags) error {
	req, err := http.NewRequestWithContext(commandContext(cmd), strings.ToUpper(f.method), "/", http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if f.accept != "" {
		req.Header.Set("Accept", f.accept)
	}

	renderer := errors.NewRenderer(a.rendererOptions()...)

	var response errors.Response
	if len(f.notAllowed) > 0 {
		response, err = renderer.NotAllowed().Render(req, f.notAllowed)
	} else {
		response, err = renderer.Render(req, exampleError(f))
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if f.headers {
		printHeaders(out, response)
	}
	_, err = fmt.Fprintln(out, string(response.Body))

	return err
}

// exampleError builds a stack-carrying error wrapped by f.wraps.
func exampleError(f *renderFlags) error {
	err := errors.New(f.message)
	if f.code != 0 {
		err = errors.WithCode(err, f.code)
	}
	for _, msg := range f.wraps {
		err = fmt.Errorf("%s: %w", msg, err)
	}

	return err
}

func printHeaders(w io.Writer, response errors.Response) {
	_, _ = fmt.Fprintf(w, "HTTP/1.1 %d %s\n", response.Status, http.StatusText(response.Status))
	_, _ = fmt.Fprintf(w, "Content-Type: %s\n", response.ContentType)

	keys := make([]string, 0, len(response.Headers))
	for k := range response.Headers {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		for _, v := range response.Headers[k] {
			_, _ = fmt.Fprintf(w, "%s: %s\n", k, v)
		}
	}
	_, _ = fmt.Fprintln(w)
}
