package logging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// sink 是一个带名称的日志输出端，名称只用于错误信息。
type sink struct {
	name    string
	handler slog.Handler
}

// fanoutHandler 把每条记录写到所有输出端（标准输出与滚动文件）。
// 某个输出端写入失败时其余输出端照常写入，错误合并后返回。
type fanoutHandler struct {
	sinks []sink
}

func newFanoutHandler(sinks ...sink) *fanoutHandler {
	return &fanoutHandler{sinks: sinks}
}

// Enabled 只要有一个输出端接受该级别即返回 true。
func (h *fanoutHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	for _, s := range h.sinks {
		if s.handler.Enabled(ctx, lvl) {
			return true
		}
	}
	return false
}

// Handle 按输出端各自的级别过滤后写入；记录在每次写入前复制，避免输出端之间共享属性。
func (h *fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, s := range h.sinks {
		if !s.handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := s.handler.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, fmt.Errorf("log sink %s: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(inner slog.Handler) slog.Handler { return inner.WithAttrs(attrs) })
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	return h.derive(func(inner slog.Handler) slog.Handler { return inner.WithGroup(name) })
}

// derive 对每个输出端应用同一变换，生成新的 fanoutHandler。
func (h *fanoutHandler) derive(fn func(slog.Handler) slog.Handler) *fanoutHandler {
	sinks := make([]sink, len(h.sinks))
	for i, s := range h.sinks {
		sinks[i] = sink{name: s.name, handler: fn(s.handler)}
	}
	return &fanoutHandler{sinks: sinks}
}
