package logging

import (
	"context"
	"log/slog"
	"maps"

	"github.com/fluxwars/engine/internal/match"
)

// ContextProvider returns attributes evaluated at the time of each record.
type ContextProvider func() []slog.Attr

// ContextHandler adds provider attributes to every record. A provided key
// that the logger already bound with With, or that the record carries
// itself, is skipped so that the explicit value wins.
type ContextHandler struct {
	inner    slog.Handler
	provider ContextProvider
	bound    map[string]struct{}
}

// NewContextHandler wraps inner.
func NewContextHandler(inner slog.Handler, provider ContextProvider) *ContextHandler {
	return &ContextHandler{inner: inner, provider: provider}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.provider == nil {
		return h.inner.Handle(ctx, r)
	}
	own := make(map[string]struct{}, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		own[a.Key] = struct{}{}
		return true
	})
	for _, a := range h.provider() {
		if _, ok := h.bound[a.Key]; ok {
			continue
		}
		if _, ok := own[a.Key]; ok {
			continue
		}
		r.AddAttrs(a)
	}
	return h.inner.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	bound := maps.Clone(h.bound)
	if bound == nil {
		bound = make(map[string]struct{}, len(attrs))
	}
	for _, a := range attrs {
		bound[a.Key] = struct{}{}
	}
	return &ContextHandler{
		inner:    h.inner.WithAttrs(attrs),
		provider: h.provider,
		bound:    bound,
	}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &ContextHandler{
		inner:    h.inner.WithGroup(name),
		provider: h.provider,
		bound:    h.bound,
	}
}

// MatchAttrs reports the loaded match and, once play starts, the round.
func MatchAttrs(mc *match.Context) ContextProvider {
	return func() []slog.Attr {
		info := mc.GetMatch()
		round := mc.Round()
		if round < 0 {
			return []slog.Attr{slog.String("match", info.Name)}
		}
		return []slog.Attr{slog.String("match", info.Name), slog.Int("round", round)}
	}
}
