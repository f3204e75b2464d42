package ledger

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	redColor    = "\x1b[31m"
	greenColor  = "\x1b[32m"
	yellowColor = "\x1b[33m"
	boldStyle   = "\x1b[1m"
	resetColor  = "\x1b[0m"
)

// GetDiff renders a colored, line-oriented diff between two content
// snapshots, prefixed with a per-file add/delete stats header. This is the
// summary shown to the approval gate and in history views.
func GetDiff(filename, originalCode, newCode string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(originalCode, newCode, true)
	diffs = dmp.DiffCleanupSemantic(diffs)
	pretty := dmp.DiffPrettyText(diffs)

	var result strings.Builder
	result.WriteString(getStatsFromDiff(diffs, filename))

	normalized := normalizeDiffText(pretty)
	lines := strings.Split(normalized, "\n")

	inChangeBlock := false
	for i, line := range lines {
		if !containsColorChange(line) {
			if inChangeBlock {
				// One line of trailing context after a change block.
				result.WriteString(fmt.Sprintf("  %s\n", line))
			}
			inChangeBlock = false
			continue
		}

		// Context line ahead of a new change block.
		if !inChangeBlock && i > 0 {
			result.WriteString(fmt.Sprintf("  %s\n", stripAllColor(lines[i-1])))
		}

		beforeLine := stripAllColor(removeColoredPart(line, greenColor, resetColor))
		afterLine := stripAllColor(removeColoredPart(line, redColor, resetColor))

		if beforeLine != afterLine {
			if strings.Contains(line, redColor) {
				result.WriteString(fmt.Sprintf("%s- %s%s\n", redColor, beforeLine, resetColor))
			}
			if strings.Contains(line, greenColor) {
				result.WriteString(fmt.Sprintf("%s+ %s%s\n", greenColor, afterLine, resetColor))
			}
		} else {
			result.WriteString(fmt.Sprintf("  %s\n", stripAllColor(line)))
		}
		inChangeBlock = true
	}

	return result.String()
}

// normalizeDiffText ensures every colored line carries its own color start
// and end codes. DiffPrettyText can emit color blocks that span lines;
// rewriting them per line lets each line be classified independently.
func normalizeDiffText(text string) string {
	lines := strings.Split(text, "\n")
	newLines := make([]string, 0, len(lines))
	currentColor := ""

	for _, line := range lines {
		var processed strings.Builder
		rest := line

		if currentColor != "" {
			processed.WriteString(currentColor)
		}

		for len(rest) > 0 {
			first := -1
			var code string
			for _, c := range []string{redColor, greenColor, resetColor} {
				if idx := strings.Index(rest, c); idx != -1 && (first == -1 || idx < first) {
					first = idx
					code = c
				}
			}
			if first == -1 {
				processed.WriteString(rest)
				break
			}

			processed.WriteString(rest[:first])
			processed.WriteString(code)
			if code == resetColor {
				currentColor = ""
			} else {
				currentColor = code
			}
			rest = rest[first+len(code):]
		}

		if currentColor != "" {
			processed.WriteString(resetColor)
		}
		newLines = append(newLines, processed.String())
	}

	return strings.Join(newLines, "\n")
}

func getStatsFromDiff(diffs []diffmatchpatch.Diff, filename string) string {
	var result strings.Builder
	additions, deletions := calculateChanges(diffs)
	result.WriteString(fmt.Sprintf("%s%s%s%s ", boldStyle, yellowColor, filename, resetColor))
	if additions > 0 {
		result.WriteString(fmt.Sprintf("%s%s+++%d%s ", boldStyle, greenColor, additions, resetColor))
	}
	if deletions > 0 {
		result.WriteString(fmt.Sprintf("%s%s---%d%s", boldStyle, redColor, deletions, resetColor))
	}
	result.WriteString("\n")
	return result.String()
}

// removeColoredPart removes the text between the given start and end color codes.
func removeColoredPart(line, startColor, endColor string) string {
	re := regexp.MustCompile(regexp.QuoteMeta(startColor) + `.*?` + regexp.QuoteMeta(endColor))
	return re.ReplaceAllString(line, "")
}

var stripColorRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripAllColor(s string) string {
	return stripColorRegex.ReplaceAllString(s, "")
}

func containsColorChange(line string) bool {
	return strings.Contains(line, redColor) || strings.Contains(line, greenColor)
}

func calculateChanges(diffs []diffmatchpatch.Diff) (additions, deletions int) {
	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			additions += len(diff.Text)
		case diffmatchpatch.DiffDelete:
			deletions += len(diff.Text)
		}
	}
	return
}
