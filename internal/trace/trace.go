// Package trace adapts a logx logger into the leveled network trace sink used
// by the transport layer.
//
// Trace output is purely observational and never affects control flow. Three
// verbosity levels are recognized:
//
//   - LevelLifecycle (1): socket open, close, and peer association events
//   - LevelControl (2): bind attempts and shutdown coordination
//   - LevelData (3): per-datagram byte counts (the highest verbosity)
//
// Warnings (buffer-size adjustments, datagram-limit events) bypass the
// verbosity level: they are emitted whenever a logger is configured.
//
// Trace lines never gate I/O; a slow logger slows the caller but cannot fail
// an operation.
package trace

import "github.com/PurpleSec/logx"

// Network trace verbosity levels.
const (
	LevelLifecycle = 1
	LevelControl   = 2
	LevelData      = 3
)

// Tracer writes leveled network trace lines to a logx logger. The zero value
// discards everything.
type Tracer struct {
	log   logx.Log
	level int
}

// New returns a Tracer writing to l at the given network verbosity. A nil
// logger or a verbosity of zero disables tracing (warnings still require a
// non-nil logger).
func New(l logx.Log, level int) Tracer {
	return Tracer{log: l, level: level}
}

// Enabled reports whether trace lines at the given level would be emitted.
// Callers can use it to avoid building expensive trace arguments.
func (t Tracer) Enabled(level int) bool {
	return t.log != nil && t.level >= level
}

// Network emits one trace line at the given verbosity level. Lifecycle lines
// map to the logger's Info level, control lines to Debug, and per-datagram
// lines to Trace, so a console logger can be tuned independently of the
// network trace level.
func (t Tracer) Network(level int, format string, v ...interface{}) {
	if !t.Enabled(level) {
		return
	}
	switch level {
	case LevelLifecycle:
		t.log.Info(format, v...)
	case LevelControl:
		t.log.Debug(format, v...)
	default:
		t.log.Trace(format, v...)
	}
}

// Warning emits a warning line regardless of the configured trace level.
func (t Tracer) Warning(format string, v ...interface{}) {
	if t.log == nil {
		return
	}
	t.log.Warning(format, v...)
}
