package pipeconf

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// idAssignPattern matches `id => value` where value is double-quoted, single-quoted
// or a bare run without quotes, whitespace or a closing brace.
var idAssignPattern = regexp.MustCompile(`\bid\s*=>\s*(?:"([^"'\s}]+)"|'([^"'\s}]+)'|([^"'\s}]+))`)

// Validate runs the structural checks over config text. Checks are independent:
// every check runs regardless of what earlier checks found.
func Validate(text string) Result {
	res := newResult()
	checkDuplicateIDs(&res, text)
	checkBraceBalance(&res, text)
	return res
}

// ValidateFile loads path and validates its content. A load failure yields a single
// file-level error and no other findings.
func ValidateFile(path string) Result {
	// #nosec G304 -- linting reads a user-specified path by design.
	b, err := os.ReadFile(path)
	if err != nil {
		res := newResult()
		res.addError(0, "Failed to load config file: %v", err)
		return res
	}
	return Validate(string(b))
}

func collectIDOccurrences(text string) *OccurrenceIndex {
	idx := NewOccurrenceIndex()
	line, pos := 1, 0
	for _, m := range idAssignPattern.FindAllStringSubmatchIndex(text, -1) {
		start := m[0]
		line += strings.Count(text[pos:start], "\n")
		pos = start

		var id string
		for g := 1; g <= 3; g++ {
			if m[2*g] >= 0 {
				id = text[m[2*g]:m[2*g+1]]
				break
			}
		}
		idx.Add(IdentifierOccurrence{ID: id, Line: line, Text: lineAt(text, start)})
	}
	return idx
}

func lineAt(text string, offset int) string {
	begin := strings.LastIndexByte(text[:offset], '\n') + 1
	end := len(text)
	if i := strings.IndexByte(text[offset:], '\n'); i >= 0 {
		end = offset + i
	}
	return strings.TrimSpace(text[begin:end])
}

func checkDuplicateIDs(res *Result, text string) {
	idx := collectIDOccurrences(text)
	for _, id := range idx.Duplicates() {
		occs := idx.Occurrences(id)
		var b strings.Builder
		fmt.Fprintf(&b, "Duplicate ID '%s' found at:", id)
		for _, o := range occs {
			fmt.Fprintf(&b, "\n    Line %d: %s", o.Line, o.Text)
		}
		res.addError(occs[0].Line, "%s", b.String())
	}
}

// checkBraceBalance compares raw character counts. Braces inside strings and
// comments are counted too.
func checkBraceBalance(res *Result, text string) {
	open := strings.Count(text, "{")
	closing := strings.Count(text, "}")
	if open != closing {
		res.addError(0, "Unbalanced braces: %d open, %d close", open, closing)
	}
}
