// Copyright 2026 The gpukit Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package profiler provides span-based frame timing.
package profiler

import (
	"log/slog"
	"time"
)

// Group is a span in a hierarchy of timed scopes. Implementations must
// tolerate Start after End; the frame loop reuses the root group across
// frames.
type Group interface {
	Start(label string) Group
	End()
}

type nopGroup struct{}

func (nopGroup) Start(string) Group { return nopGroup{} }
func (nopGroup) End()               {}

// Nop returns a group that measures nothing.
func Nop() Group { return nopGroup{} }

type logGroup struct {
	logger *slog.Logger
	label  string
	start  time.Time
}

// Logged returns a group that logs every span's wall-clock duration at
// debug level. Spans are timed on the host; GPU work submitted during a
// span is not waited for.
func Logged(logger *slog.Logger) Group {
	return &logGroup{logger: logger}
}

func (g *logGroup) Start(label string) Group {
	full := label
	if g.label != "" {
		full = g.label + "/" + label
	}
	return &logGroup{logger: g.logger, label: full, start: time.Now()}
}

func (g *logGroup) End() {
	if g.start.IsZero() {
		return
	}
	g.logger.Debug("span", "label", g.label, "duration", time.Since(g.start))
}
