// Package log provides context-aware logging for themestore.
package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

type ctxKey struct{}

// Logger provides diagnostic output with verbose and quiet modes.
// It is safe for concurrent use.
type Logger struct {
	out     io.Writer
	verbose bool
	quiet   bool
	mu      *sync.Mutex
}

// New creates a new logger. Quiet suppresses everything, including
// verbose output.
func New(out io.Writer, verbose, quiet bool) *Logger {
	return &Logger{out: out, verbose: verbose, quiet: quiet, mu: &sync.Mutex{}}
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	return New(io.Discard, false, false)
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context.
// Returns a no-op logger if none is attached.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return Discard()
}

func (l *Logger) write(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.out, s)
}

// Printf writes formatted output.
func (l *Logger) Printf(format string, args ...any) {
	if l.quiet {
		return
	}
	l.write(fmt.Sprintf(format, args...))
}

// Println writes a line of output.
func (l *Logger) Println(args ...any) {
	if l.quiet {
		return
	}
	l.write(fmt.Sprintln(args...))
}

// Debug writes msg followed by key=value pairs when verbose.
// A trailing key without a value is dropped.
func (l *Logger) Debug(msg string, keyvals ...any) {
	if !l.IsVerbose() {
		return
	}
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(keyvals); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keyvals[i], keyvals[i+1])
	}
	b.WriteByte('\n')
	l.write(b.String())
}

// Request logs an HTTP request once it completes. Only prints when
// verbose mode is enabled.
func (l *Logger) Request(method, path string) func(status int, elapsed time.Duration) {
	if !l.IsVerbose() {
		return func(int, time.Duration) {}
	}
	return func(status int, elapsed time.Duration) {
		l.write(fmt.Sprintf("%s %s %d (%s)\n", method, path, status, elapsed.Round(time.Millisecond)))
	}
}

// IsVerbose returns true if verbose output is enabled and not silenced.
func (l *Logger) IsVerbose() bool {
	return l.verbose && !l.quiet
}

// Writer returns the underlying writer.
func (l *Logger) Writer() io.Writer {
	return l.out
}
