package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
)

// FormatHistory renders the most recent ledger entries for display,
// most recent first, each with a wrapped description and a truncated
// diff preview.
func FormatHistory(l *Ledger, limit int) (string, error) {
	entries, err := l.List(limit)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "No changes recorded.\n", nil
	}

	var buffer strings.Builder
	for i, entry := range entries {
		if i > 0 {
			buffer.WriteString("\n" + strings.Repeat("-", 80) + "\n\n")
		}
		buffer.WriteString(formatEntry(l, entry))
	}
	return buffer.String(), nil
}

func formatEntry(l *Ledger, entry Entry) string {
	var buffer strings.Builder

	buffer.WriteString(color.New(color.FgYellow).Sprintf("(%s)", entry.Target))
	buffer.WriteString(fmt.Sprintf(" -- %sentry %d%s", "\033[1m", entry.ID, "\033[0m"))
	buffer.WriteString(color.New(color.FgGreen).Sprintf(" - %s\n", entry.OperationKind))
	buffer.WriteString(fmt.Sprintf("\033[1mTime:\033[0m %s\n\n", entry.Timestamp.Format(time.RFC1123)))

	if entry.Description != "" {
		buffer.WriteString(wrapAndIndent(entry.Description, 72, 4))
		buffer.WriteString("\n\n")
	}

	prior, applied, err := l.Snapshots(entry.ID)
	if err != nil {
		buffer.WriteString(fmt.Sprintf("(diff unavailable: %v)\n", err))
		return buffer.String()
	}

	diff := GetDiff(entry.Target, prior, applied)
	diffLines := strings.Split(diff, "\n")
	if len(diffLines) > 5 {
		for _, line := range diffLines[:5] {
			buffer.WriteString(line + "\n")
		}
		buffer.WriteString("...\n")
	} else {
		for _, line := range diffLines {
			buffer.WriteString(line + "\n")
		}
	}
	return buffer.String()
}
