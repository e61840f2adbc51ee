// SPDX-FileCopyrightText: Copyright 2026 Plugpack Authors
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// ActionsHandler is a [log/slog.Handler] that writes GitHub Actions workflow
// commands. Records at WARN become ::warning:: lines, records at ERROR become
// ::error:: lines, and records at DEBUG become ::debug:: lines; INFO records
// are written verbatim. The runner turns warning and error commands into
// annotations on the workflow run.
//
// Workflow command values must not contain raw newlines or percent signs, so
// messages are escaped per the runner's escaping rules.
type ActionsHandler struct {
	mu    *sync.Mutex
	out   io.Writer
	level slog.Leveler
	attrs []slog.Attr
}

var _ slog.Handler = (*ActionsHandler)(nil)

// NewActionsHandler creates a handler writing workflow commands to out.
// A nil level defaults to [log/slog.LevelInfo].
func NewActionsHandler(out io.Writer, level slog.Leveler) *ActionsHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &ActionsHandler{
		mu:    &sync.Mutex{},
		out:   out,
		level: level,
	}
}

// Enabled implements [log/slog.Handler].
func (h *ActionsHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements [log/slog.Handler].
func (h *ActionsHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(r.Message)

	writeAttr := func(a slog.Attr) bool {
		if a.Key != "" {
			fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
		}
		return true
	}
	for _, a := range h.attrs {
		writeAttr(a)
	}
	r.Attrs(writeAttr)

	line := escapeCommandValue(sb.String())

	var prefix string
	switch {
	case r.Level >= slog.LevelError:
		prefix = "::error::"
	case r.Level >= slog.LevelWarn:
		prefix = "::warning::"
	case r.Level < slog.LevelInfo:
		prefix = "::debug::"
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintf(h.out, "%s%s\n", prefix, line)
	return err
}

// WithAttrs implements [log/slog.Handler].
func (h *ActionsHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

// WithGroup implements [log/slog.Handler]. Groups are not meaningful in the
// flat workflow-command format, so the group name is ignored.
func (h *ActionsHandler) WithGroup(string) slog.Handler {
	return h
}

// escapeCommandValue escapes a workflow command data value.
// See the runner's toCommandValue escaping rules.
func escapeCommandValue(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}
