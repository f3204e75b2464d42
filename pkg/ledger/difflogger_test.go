package ledger

import (
	"strings"
	"testing"
)

func TestGetDiffShowsChangedLines(t *testing.T) {
	original := "line one\nline two\nline three\n"
	updated := "line one\nline 2\nline three\n"

	out := GetDiff("notes.txt", original, updated)
	plain := stripAllColor(out)

	if !strings.Contains(plain, "notes.txt") {
		t.Errorf("diff header should name the file, got:\n%s", plain)
	}
	if !strings.Contains(plain, "- line two") {
		t.Errorf("expected removed line in diff, got:\n%s", plain)
	}
	if !strings.Contains(plain, "+ line 2") {
		t.Errorf("expected added line in diff, got:\n%s", plain)
	}
}

func TestGetDiffStatsHeader(t *testing.T) {
	out := GetDiff("a.txt", "", "new content\n")
	plain := stripAllColor(out)

	if !strings.Contains(plain, "+++") {
		t.Errorf("pure addition should report added characters, got:\n%s", plain)
	}
	if strings.Contains(plain, "---") {
		t.Errorf("pure addition should not report deletions, got:\n%s", plain)
	}
}

func TestStripAllColor(t *testing.T) {
	colored := redColor + "gone" + resetColor + " kept"
	if got := stripAllColor(colored); got != "gone kept" {
		t.Errorf("stripAllColor() = %q", got)
	}
}

func TestNormalizeDiffTextClosesColorsPerLine(t *testing.T) {
	// A green block spanning two lines must be re-opened and re-closed on
	// each line so classification can work line by line.
	input := greenColor + "first\nsecond" + resetColor
	out := normalizeDiffText(input)
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, greenColor) && !strings.HasSuffix(line, resetColor) {
			t.Errorf("colored line must end with a reset: %q", line)
		}
	}
}
