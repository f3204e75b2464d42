package validation

import (
	"fmt"
	"strings"
	"sync"
)

// ParseError is the structured payload a language parser returns on failure.
// Line and Column are 1-based; zero means the parser could not locate the
// problem.
type ParseError struct {
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
	}
	return e.Message
}

// ParserFunc parses content for one language, returning nil when valid.
type ParserFunc func(content string) *ParseError

// Result is a validation verdict. ShouldRollback means "do not write"; when
// there was no prior content it does not imply restoring anything.
type Result struct {
	Valid          bool
	Err            *ParseError
	ShouldRollback bool
}

// Gate decides whether proposed content is syntactically safe to land.
// It is purely functional: no I/O, safe to call repeatedly.
type Gate struct {
	mu      sync.RWMutex
	parsers map[string]ParserFunc
}

// NewGate returns a gate with the built-in language parsers registered.
func NewGate() *Gate {
	g := &Gate{parsers: make(map[string]ParserFunc)}
	g.Register("go", parseGo)
	g.Register("json", parseJSON)
	g.Register("yaml", parseYAML)
	g.Register("yml", parseYAML)
	g.Register("python", parsePython)
	g.Register("py", parsePython)
	// The structural checker is deliberately not a full Python parser, so
	// it also serves tags that only claim Python-like syntax.
	g.Register("python-like", parsePython)
	return g
}

// Register adds or replaces the parser for a language tag.
func (g *Gate) Register(languageTag string, fn ParserFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.parsers[normalizeTag(languageTag)] = fn
}

// Supports reports whether a parser is registered for the tag.
func (g *Gate) Supports(languageTag string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.parsers[normalizeTag(languageTag)]
	return ok
}

// Validate checks the proposed content for the target. Validation is opt-in
// per language: an unknown tag passes unconditionally rather than blocking
// unsupported file types.
func (g *Gate) Validate(target, priorContent, proposedContent, languageTag string) Result {
	g.mu.RLock()
	parse, ok := g.parsers[normalizeTag(languageTag)]
	g.mu.RUnlock()

	if !ok {
		return Result{Valid: true}
	}

	if perr := parse(proposedContent); perr != nil {
		return Result{Valid: false, Err: perr, ShouldRollback: true}
	}

	return Result{Valid: true}
}

// Signature produces a normalized fingerprint of a parse failure, used by
// the retry policy to detect the same failure repeating. Validation
// signatures live in the "syntax" namespace, distinct from I/O failures.
func Signature(err *ParseError) string {
	if err == nil {
		return ""
	}
	msg := err.Message
	if idx := strings.IndexAny(msg, "'\""); idx > 0 {
		msg = msg[:idx]
	}
	msg = strings.ToLower(strings.TrimSpace(msg))
	return fmt.Sprintf("syntax:%d:%d:%s", err.Line, err.Column, msg)
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
