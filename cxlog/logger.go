// Package cxlog provides the package-level structured logger used across
// cx for drop-forward diagnostics: shader compile failures, missing
// buffers, and other anomalies that are logged and skipped rather than
// propagated as errors, per the runtime's error philosophy.
package cxlog

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler silently discards all log records. It is the default handler
// so that importing cx never prints to stderr unless the host opts in.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger installs l as the logger used by every cx subpackage. Passing
// nil restores the silent default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the currently installed logger.
func Logger() *slog.Logger { return loggerPtr.Load() }

// ShaderCompileError logs a target-SL compilation failure for shaderID.
func ShaderCompileError(shaderID uint64, name string, err error) {
	Logger().Error("shader compile failed", "shader_id", shaderID, "name", name, "err", err)
}

// MissingBuffer logs a draw-call skipped because an expected GPU buffer
// was absent at draw time.
func MissingBuffer(shaderID uint64, what string) {
	Logger().Warn("missing buffer, skipping draw call", "shader_id", shaderID, "buffer", what)
}
