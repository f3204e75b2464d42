package approval

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/WeSpitfire/flux-cli-sub002/pkg/ui"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{input: "auto", want: ModeAuto},
		{input: "interactive", want: ModeInteractive},
		{input: "", want: ModeInteractive},
		{input: "yolo", want: ModeInteractive, wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestAutoModeApprovesWithoutSurface(t *testing.T) {
	g := NewGate(ModeAuto, nil)
	if !g.Confirm(context.Background(), "a.go", "+1 line", "") {
		t.Fatalf("auto mode must approve")
	}
	approved, rejected := g.Stats()
	if approved != 1 || rejected != 0 {
		t.Errorf("unexpected tally: %d approved, %d rejected", approved, rejected)
	}
}

func TestInteractiveFailsClosedWithoutSurface(t *testing.T) {
	g := NewGate(ModeInteractive, nil)
	if g.Confirm(context.Background(), "a.go", "", "") {
		t.Fatalf("interactive mode with no surface must reject")
	}
	approved, rejected := g.Stats()
	if approved != 0 || rejected != 1 {
		t.Errorf("unexpected tally: %d approved, %d rejected", approved, rejected)
	}
}

func TestReaderSurfaceDecisions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "yes word", input: "yes\n", want: true},
		{name: "uppercase", input: "Y\n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "anything else", input: "maybe\n", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGate(ModeInteractive, NewReaderSurface(strings.NewReader(tt.input)))
			if got := g.Confirm(context.Background(), "a.go", "diff", ""); got != tt.want {
				t.Errorf("Confirm() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSurfaceShowsDiffAndTarget(t *testing.T) {
	var buf bytes.Buffer
	ui.SetDefaultSink(ui.WriterSink{W: &buf})
	defer ui.UseStdoutSink()

	g := NewGate(ModeInteractive, NewReaderSurface(strings.NewReader("y\n")))
	g.Confirm(context.Background(), "a.go", "+1 -0 lines", "tighten the loop")

	shown := buf.String()
	for _, want := range []string{"a.go", "+1 -0 lines", "tighten the loop"} {
		if !strings.Contains(shown, want) {
			t.Errorf("prompt output missing %q:\n%s", want, shown)
		}
	}
}

func TestClosedInputRejects(t *testing.T) {
	g := NewGate(ModeInteractive, NewReaderSurface(strings.NewReader("")))
	if g.Confirm(context.Background(), "a.go", "", "") {
		t.Fatalf("closed input must fail closed")
	}
}

func TestCancelledContextRejects(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A reader that never produces input; cancellation must unblock.
	g := NewGate(ModeInteractive, NewReaderSurface(blockedReader{}))
	if g.Confirm(ctx, "a.go", "", "") {
		t.Fatalf("cancelled context must reject")
	}
}

type blockedReader struct{}

func (blockedReader) Read(p []byte) (int, error) {
	select {} // never returns
}
