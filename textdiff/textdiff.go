// Package textdiff renders readable diffs between two text documents,
// used by tests to report emission mismatches.
package textdiff

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Strings returns a line-oriented diff from want to got, with "-" lines
// present only in want and "+" lines present only in got. The empty
// string means the inputs are equal.
func Strings(want, got string) string {
	if want == got {
		return ""
	}
	diffCfg := diffpatch.New()
	fromRunes, toRunes, lines := diffCfg.DiffLinesToRunes(want, got)
	diffs := diffCfg.DiffCharsToLines(diffCfg.DiffMainRunes(fromRunes, toRunes, false), lines)

	var sb strings.Builder
	for i := range diffs {
		diff := &diffs[i]
		var mark string
		switch diff.Type {
		case diffpatch.DiffDelete:
			mark = "-"
		case diffpatch.DiffInsert:
			mark = "+"
		case diffpatch.DiffEqual:
			mark = " "
		}
		for _, line := range splitKeepNonEmpty(diff.Text) {
			sb.WriteString(mark)
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func splitKeepNonEmpty(text string) []string {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" && text != "\n" {
		return nil
	}
	return lines
}
