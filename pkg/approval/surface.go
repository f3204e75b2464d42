package approval

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/WeSpitfire/flux-cli-sub002/pkg/ui"
	"golang.org/x/term"
)

// TerminalSurface collects decisions from a terminal. Construction fails in
// non-interactive environments (pipes, CI) so the gate can fail closed
// instead of blocking on input that will never come.
type TerminalSurface struct {
	in io.Reader
}

// NewTerminalSurface returns a surface bound to stdin, or an error when
// stdin is not a terminal.
func NewTerminalSurface() (*TerminalSurface, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, fmt.Errorf("standard input is not a terminal")
	}
	return &TerminalSurface{in: os.Stdin}, nil
}

// NewReaderSurface returns a surface reading decisions from r; used by tests
// and scripted runs.
func NewReaderSurface(r io.Reader) *TerminalSurface {
	return &TerminalSurface{in: r}
}

// Confirm shows the diff summary and blocks until a y/n answer or until the
// context is cancelled. Cancellation returns an error so the gate treats it
// as a rejection.
func (s *TerminalSurface) Confirm(ctx context.Context, target, diffSummary, note string) (bool, error) {
	if diffSummary != "" {
		ui.Out().Print(diffSummary)
	}
	if note != "" {
		ui.Out().Printf("\n%s\n", note)
	}
	ui.Out().Printf("Apply changes to %s? (y/n): ", target)

	type answer struct {
		yes bool
		err error
	}
	ch := make(chan answer, 1)
	go func() {
		scanner := bufio.NewScanner(s.in)
		if !scanner.Scan() {
			ch <- answer{err: fmt.Errorf("input closed before a decision was made")}
			return
		}
		input := strings.ToLower(strings.TrimSpace(scanner.Text()))
		ch <- answer{yes: strings.HasPrefix(input, "y")}
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case a := <-ch:
		return a.yes, a.err
	}
}
