package ui

import (
	"fmt"
	"io"
	"os"
)

// OutputSink abstracts where user-facing messages go.
type OutputSink interface {
	Print(text string)
	Printf(format string, args ...any)
}

// StdoutSink writes directly to standard output.
type StdoutSink struct{}

func (StdoutSink) Print(text string)                 { fmt.Print(text) }
func (StdoutSink) Printf(format string, args ...any) { fmt.Printf(format, args...) }

// WriterSink writes to an arbitrary writer; used by tests to capture output.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Print(text string)                 { fmt.Fprint(s.W, text) }
func (s WriterSink) Printf(format string, args ...any) { fmt.Fprintf(s.W, format, args...) }

var defaultSink OutputSink = StdoutSink{}

// SetDefaultSink sets the global default OutputSink.
func SetDefaultSink(s OutputSink) {
	if s == nil {
		defaultSink = StdoutSink{}
		return
	}
	defaultSink = s
}

// Out returns the current default output sink.
func Out() OutputSink { return defaultSink }

// UseStdoutSink switches default output back to stdout.
func UseStdoutSink() { defaultSink = StdoutSink{} }

// Errf writes a formatted message to standard error, bypassing the sink.
func Errf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}
