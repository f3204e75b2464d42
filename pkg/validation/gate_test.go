package validation

import (
	"strings"
	"testing"
)

func TestValidateGo(t *testing.T) {
	tests := []struct {
		name    string
		content string
		valid   bool
	}{
		{
			name:    "valid file",
			content: "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n",
			valid:   true,
		},
		{
			name:    "missing brace",
			content: "package main\n\nfunc main() {\n",
			valid:   false,
		},
		{
			name:    "not go at all",
			content: "this is prose, not a program",
			valid:   false,
		},
	}

	g := NewGate()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := g.Validate("main.go", "", tt.content, "go")
			if res.Valid != tt.valid {
				t.Errorf("Validate() valid = %v, want %v (err: %v)", res.Valid, tt.valid, res.Err)
			}
			if !tt.valid {
				if res.Err == nil {
					t.Fatalf("invalid content must carry a parse error")
				}
				if !res.ShouldRollback {
					t.Errorf("invalid content must set ShouldRollback")
				}
				if res.Err.Line < 1 {
					t.Errorf("expected 1-based line, got %d", res.Err.Line)
				}
			}
		})
	}
}

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		valid   bool
	}{
		{name: "valid object", content: `{"a": 1, "b": [true, null]}`, valid: true},
		{name: "trailing comma", content: `{"a": 1,}`, valid: false},
		{name: "bare word", content: `hello`, valid: false},
		{name: "empty array", content: `[]`, valid: true},
	}

	g := NewGate()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := g.Validate("data.json", "", tt.content, "json")
			if res.Valid != tt.valid {
				t.Errorf("Validate() valid = %v, want %v (err: %v)", res.Valid, tt.valid, res.Err)
			}
		})
	}
}

func TestValidateYAML(t *testing.T) {
	tests := []struct {
		name    string
		content string
		valid   bool
	}{
		{name: "valid mapping", content: "a: 1\nb:\n  - x\n  - y\n", valid: true},
		{name: "tab indentation", content: "a:\n\tb: 1\n", valid: false},
		{name: "unclosed flow", content: "a: [1, 2\n", valid: false},
	}

	g := NewGate()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := g.Validate("config.yaml", "", tt.content, "yaml")
			if res.Valid != tt.valid {
				t.Errorf("Validate() valid = %v, want %v (err: %v)", res.Valid, tt.valid, res.Err)
			}
		})
	}
}

func TestValidatePython(t *testing.T) {
	tests := []struct {
		name    string
		content string
		valid   bool
	}{
		{name: "simple function", content: "def f(x):\n    return x + 1\n", valid: true},
		{name: "unclosed paren", content: "def f(:\n    pass\n", valid: false},
		{name: "missing colon", content: "def f(x)\n    return x\n", valid: false},
		{name: "brackets in string", content: "s = '(['\nprint(s)\n", valid: true},
		{name: "brackets in comment", content: "x = 1  # never closed (\n", valid: true},
	}

	g := NewGate()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := g.Validate("script.py", "", tt.content, "python")
			if res.Valid != tt.valid {
				t.Errorf("Validate() valid = %v, want %v (err: %v)", res.Valid, tt.valid, res.Err)
			}
		})
	}
}

func TestPythonTagAliases(t *testing.T) {
	g := NewGate()
	for _, tag := range []string{"python", "py", "python-like"} {
		if !g.Supports(tag) {
			t.Errorf("expected %q to select the structural checker", tag)
		}
	}
}

func TestUnknownTagPasses(t *testing.T) {
	g := NewGate()
	res := g.Validate("notes.md", "", "# anything { goes", "markdown")
	if !res.Valid {
		t.Fatalf("unknown language tag must pass unconditionally")
	}
	if res.ShouldRollback {
		t.Fatalf("passing result must not request rollback")
	}
}

func TestRegisterCustomParser(t *testing.T) {
	g := NewGate()
	g.Register("CSV", func(content string) *ParseError {
		if strings.Contains(content, ";") {
			return &ParseError{Message: "semicolon delimiter not allowed", Line: 1, Column: 1}
		}
		return nil
	})

	if !g.Supports("csv") {
		t.Fatalf("tag matching should be case-insensitive")
	}
	if res := g.Validate("t.csv", "", "a,b,c", "csv"); !res.Valid {
		t.Errorf("expected valid result, got %v", res.Err)
	}
	if res := g.Validate("t.csv", "", "a;b;c", "csv"); res.Valid {
		t.Errorf("expected custom parser to reject content")
	}
}

func TestSignature(t *testing.T) {
	tests := []struct {
		name string
		err  *ParseError
		want string
	}{
		{
			name: "nil error",
			err:  nil,
			want: "",
		},
		{
			name: "basic",
			err:  &ParseError{Message: "unexpected EOF", Line: 12, Column: 3},
			want: "syntax:12:3:unexpected eof",
		},
		{
			name: "quoted detail stripped",
			err:  &ParseError{Message: "expected ';', found 'x'", Line: 4, Column: 9},
			want: "syntax:4:9:expected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Signature(tt.err); got != tt.want {
				t.Errorf("Signature() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSignatureStableForSameFailure(t *testing.T) {
	a := &ParseError{Message: "expected '}', found 'EOF'", Line: 30, Column: 1}
	b := &ParseError{Message: "expected '}', found 'EOF'", Line: 30, Column: 1}
	if Signature(a) != Signature(b) {
		t.Fatalf("identical failures must produce identical signatures")
	}
}
