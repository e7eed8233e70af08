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
	"context"
	"errors"
	"log/slog"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
)

// newZapHandler returns a zapslog handler for logger, filtered by opts.Level
// and with opts.ReplaceAttr applied to every attribute.
func newZapHandler(logger *zap.Logger, opts *slog.HandlerOptions) slog.Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	inner := zapslog.NewHandler(logger.Core(), zapslog.WithCaller(opts.AddSource))

	return &replaceAttrHandler{inner: inner, opts: opts}
}

// replaceAttrHandler adds the level and ReplaceAttr handler options to a
// handler that has no options of its own.
type replaceAttrHandler struct {
	inner  slog.Handler
	opts   *slog.HandlerOptions
	groups []string
}

// Enabled implements [slog.Handler.Enabled].
func (h *replaceAttrHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if h.opts.Level != nil && level < h.opts.Level.Level() {
		return false
	}

	return h.inner.Enabled(ctx, level)
}

// Handle implements [slog.Handler.Handle].
func (h *replaceAttrHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.opts.ReplaceAttr == nil {
		return h.inner.Handle(ctx, r)
	}

	replaced := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		if a = h.replace(h.groups, a); !a.Equal(slog.Attr{}) {
			replaced.AddAttrs(a)
		}
		return true
	})

	return h.inner.Handle(ctx, replaced)
}

// WithAttrs implements [slog.Handler.WithAttrs].
func (h *replaceAttrHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if h.opts.ReplaceAttr != nil {
		kept := make([]slog.Attr, 0, len(attrs))
		for _, a := range attrs {
			if a = h.replace(h.groups, a); !a.Equal(slog.Attr{}) {
				kept = append(kept, a)
			}
		}
		attrs = kept
	}

	return &replaceAttrHandler{inner: h.inner.WithAttrs(attrs), opts: h.opts, groups: h.groups}
}

// WithGroup implements [slog.Handler.WithGroup].
func (h *replaceAttrHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	groups := make([]string, len(h.groups), len(h.groups)+1)
	copy(groups, h.groups)

	return &replaceAttrHandler{inner: h.inner.WithGroup(name), opts: h.opts, groups: append(groups, name)}
}

// replace applies ReplaceAttr to a and, for groups, to each member.
func (h *replaceAttrHandler) replace(groups []string, a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() != slog.KindGroup {
		return h.opts.ReplaceAttr(groups, a)
	}

	inner := groups
	if a.Key != "" {
		inner = append(append([]string(nil), groups...), a.Key)
	}
	members := make([]slog.Attr, 0, len(a.Value.Group()))
	for _, ga := range a.Value.Group() {
		if ga = h.replace(inner, ga); !ga.Equal(slog.Attr{}) {
			members = append(members, ga)
		}
	}

	return slog.Attr{Key: a.Key, Value: slog.GroupValue(members...)}
}

// isIgnorableSyncError reports whether err comes from syncing a terminal or
// pipe, which zap reports although nothing was lost.
func isIgnorableSyncError(err error) bool {
	return errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY)
}
