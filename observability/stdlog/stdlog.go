// Package stdlog is the smallest observability.Logger that backs onto
// the standard library: cmd/hovacui and cmd/pdftoroff run on a
// terminal or framebuffer device with nothing else listening for
// structured logs, so a *log.Logger writer is all either binary needs
// (see DESIGN.md "Standard-library justifications" for why no
// ecosystem logging library is wired in here).
package stdlog

import (
	"fmt"
	"log"
	"strings"

	"github.com/wudi/hovacui/observability"
)

// Logger adapts a *log.Logger to observability.Logger, formatting
// fields as trailing "key=value" pairs.
type Logger struct {
	out    *log.Logger
	fields []observability.Field
}

// New wraps out. A nil out uses log.Default().
func New(out *log.Logger) *Logger {
	if out == nil {
		out = log.Default()
	}
	return &Logger{out: out}
}

func (l *Logger) Debug(msg string, fields ...observability.Field) { l.log("DEBUG", msg, fields) }
func (l *Logger) Info(msg string, fields ...observability.Field)  { l.log("INFO", msg, fields) }
func (l *Logger) Warn(msg string, fields ...observability.Field)  { l.log("WARN", msg, fields) }
func (l *Logger) Error(msg string, fields ...observability.Field) { l.log("ERROR", msg, fields) }

// With returns a Logger that prepends fields to every subsequent call,
// per observability.Logger's contextual-logger contract.
func (l *Logger) With(fields ...observability.Field) observability.Logger {
	combined := make([]observability.Field, 0, len(l.fields)+len(fields))
	combined = append(combined, l.fields...)
	combined = append(combined, fields...)
	return &Logger{out: l.out, fields: combined}
}

func (l *Logger) log(level, msg string, fields []observability.Field) {
	var b strings.Builder
	b.WriteString(level)
	b.WriteString(" ")
	b.WriteString(msg)
	for _, f := range l.fields {
		fmt.Fprintf(&b, " %s=%v", f.Key(), f.Value())
	}
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key(), f.Value())
	}
	l.out.Print(b.String())
}
