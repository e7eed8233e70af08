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

package logging

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/errorpages/errors"
)

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{name: "nil output", opts: []Option{WithOutput(nil)}},
		{name: "nil custom logger", opts: []Option{WithCustomLogger(nil)}, wantErr: ErrNilLogger},
		{name: "unknown handler", opts: []Option{WithHandlerType("xml")}, wantErr: ErrInvalidHandler},
		{name: "rotation without filename", opts: []Option{WithRotatingFile(RotationConfig{})}, wantErr: ErrMissingFilename},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, err := New(tt.opts...)
			require.Error(t, err)
			assert.Nil(t, logger)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestMustNew_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		MustNew(WithHandlerType("xml"))
	})
}

func TestLogger_ServiceAttributes(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t,
		WithServiceName("checkout"),
		WithServiceVersion("1.2.3"),
		WithEnvironment("staging"),
	)

	th.Logger.Info("started")

	th.AssertLog(t, "INFO", "started", map[string]any{
		"service": "checkout",
		"version": "1.2.3",
		"env":     "staging",
	})
}

func TestLogger_RedactsSensitiveKeys(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t)
	th.Logger.Warn("login", "password", "hunter2", "user", "bob")

	entry, err := th.LastLog()
	require.NoError(t, err)
	assert.Equal(t, "***REDACTED***", entry.Attrs["password"])
	assert.Equal(t, "bob", entry.Attrs["user"])
}

func TestLogger_SetLevel(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t, WithLevel(LevelWarn))

	th.Logger.Info("dropped")
	require.NoError(t, th.Logger.SetLevel(LevelInfo))
	th.Logger.Info("kept")

	entries, err := th.Logs()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Message)
	assert.Equal(t, LevelInfo, th.Logger.Level())
}

func TestLogger_SetLevelOnCustomLogger(t *testing.T) {
	t.Parallel()

	logger := MustNew(WithCustomLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	assert.ErrorIs(t, logger.SetLevel(LevelDebug), ErrCannotChangeLevel)
}

func TestLogger_CustomLoggerReceivesEntries(t *testing.T) {
	t.Parallel()

	spy := &HandlerSpy{}
	logger := MustNew(WithCustomLogger(slog.New(spy)))

	logger.Error("boom", "k", "v")

	require.Equal(t, 1, spy.RecordCount())
	assert.Equal(t, "boom", spy.Records()[0].Message)
}

func TestLogger_Shutdown(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t)
	require.NoError(t, th.Logger.Shutdown(context.Background()))
	require.NoError(t, th.Logger.Shutdown(context.Background()), "second shutdown is a no-op")

	th.Logger.Error("after shutdown")

	assert.False(t, th.Logger.IsEnabled())
	assert.Empty(t, th.Buffer.String())
}

func TestLogger_RotatingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "errors.log")
	var out bytes.Buffer

	logger := MustNew(
		WithOutput(&out),
		WithRotatingFile(RotationConfig{Filename: path, MaxSizeMB: 1, MaxBackups: 1}),
	)
	logger.Error("written twice")
	require.NoError(t, logger.Shutdown(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written twice")
	assert.Contains(t, out.String(), "written twice")
}

func TestLogger_GlobalRegistration(t *testing.T) { //nolint:paralleltest // Replaces the slog default
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	MustNew(WithOutput(&buf), WithGlobalLogger())

	slog.Info("via default")
	assert.Contains(t, buf.String(), "via default")
}

func TestLogger_ReceivesRenderedErrors(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t)
	renderer := errors.NewRenderer(
		errors.WithLogger(th.Logger),
		errors.WithErrorIDGenerator(func() string { return "e-1" }),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := renderer.Render(req, stderrors.New("disk full"))
	require.NoError(t, err)

	th.AssertLog(t, "ERROR", "", map[string]any{"error_id": "e-1"})

	entry, err := th.LastLog()
	require.NoError(t, err)
	assert.Contains(t, entry.Message, "Application Error:")
	assert.Contains(t, entry.Message, "Message: disk full")
}
