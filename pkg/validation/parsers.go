package validation

import (
	"encoding/json"
	"fmt"
	"go/parser"
	"go/scanner"
	"go/token"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// parseGo validates Go source using the standard library parser.
func parseGo(content string) *ParseError {
	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "proposed.go", content, parser.AllErrors)
	if err == nil {
		return nil
	}
	if list, ok := err.(scanner.ErrorList); ok && len(list) > 0 {
		first := list[0]
		return &ParseError{
			Message: first.Msg,
			Line:    first.Pos.Line,
			Column:  first.Pos.Column,
		}
	}
	return &ParseError{Message: err.Error()}
}

// parseJSON validates JSON, converting the decoder's byte offset into a
// line/column position.
func parseJSON(content string) *ParseError {
	var v interface{}
	err := json.Unmarshal([]byte(content), &v)
	if err == nil {
		return nil
	}
	var offset int64
	var msg string
	switch e := err.(type) {
	case *json.SyntaxError:
		offset = e.Offset
		msg = e.Error()
	case *json.UnmarshalTypeError:
		offset = e.Offset
		msg = e.Error()
	default:
		return &ParseError{Message: err.Error()}
	}
	line, col := offsetToPosition(content, offset)
	return &ParseError{Message: msg, Line: line, Column: col}
}

var yamlLineRegex = regexp.MustCompile(`line (\d+):`)

// parseYAML validates YAML; yaml.v3 reports positions inside the error text,
// so the line number is recovered from there.
func parseYAML(content string) *ParseError {
	var v interface{}
	err := yaml.Unmarshal([]byte(content), &v)
	if err == nil {
		return nil
	}
	perr := &ParseError{Message: err.Error()}
	if m := yamlLineRegex.FindStringSubmatch(err.Error()); len(m) == 2 {
		if line, convErr := strconv.Atoi(m[1]); convErr == nil {
			perr.Line = line
		}
	}
	return perr
}

// parsePython is a lightweight structural check for Python-like sources:
// balanced brackets outside strings and comments, and block headers ending
// with a colon. It is intentionally conservative; it exists to reject
// obviously truncated or malformed generations, not to be a full parser.
func parsePython(content string) *ParseError {
	type open struct {
		ch   byte
		line int
		col  int
	}
	var stack []open
	closers := map[byte]byte{')': '(', ']': '[', '}': '{'}

	line, col := 1, 0
	var inString byte
	escaped := false
	inComment := false

	for i := 0; i < len(content); i++ {
		c := content[i]
		col++
		if c == '\n' {
			line++
			col = 0
			inComment = false
			// Single-quoted strings do not span lines; triple quotes are
			// not tracked, so unterminated short strings just reset here.
			inString = 0
			escaped = false
			continue
		}
		if inComment {
			continue
		}
		if inString != 0 {
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == inString {
				inString = 0
			}
			continue
		}
		switch c {
		case '#':
			inComment = true
		case '\'', '"':
			inString = c
		case '(', '[', '{':
			stack = append(stack, open{ch: c, line: line, col: col})
		case ')', ']', '}':
			want := closers[c]
			if len(stack) == 0 || stack[len(stack)-1].ch != want {
				return &ParseError{
					Message: fmt.Sprintf("unmatched '%c'", c),
					Line:    line,
					Column:  col,
				}
			}
			stack = stack[:len(stack)-1]
		}
	}

	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return &ParseError{
			Message: fmt.Sprintf("unclosed '%c'", top.ch),
			Line:    top.line,
			Column:  top.col,
		}
	}

	// Block headers (def/class/if/...) must end with a colon.
	for idx, raw := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(raw)
		if commentAt := strings.Index(trimmed, "#"); commentAt >= 0 {
			trimmed = strings.TrimSpace(trimmed[:commentAt])
		}
		if trimmed == "" {
			continue
		}
		first := strings.SplitN(trimmed, " ", 2)[0]
		switch first {
		case "def", "class", "if", "elif", "else", "for", "while", "try", "except", "finally", "with":
			if !strings.HasSuffix(trimmed, ":") && !strings.Contains(trimmed, ":") {
				return &ParseError{
					Message: fmt.Sprintf("expected ':' at end of %s statement", first),
					Line:    idx + 1,
					Column:  len(raw),
				}
			}
		}
	}

	return nil
}

func offsetToPosition(content string, offset int64) (line, col int) {
	line, col = 1, 1
	if offset <= 0 {
		return line, col
	}
	if offset > int64(len(content)) {
		offset = int64(len(content))
	}
	for _, c := range content[:offset] {
		if c == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
