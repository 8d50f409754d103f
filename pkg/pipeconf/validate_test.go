package pipeconf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const cleanPipeline = `input {
  beats { port => 5044 id => "beats_in" }
}
filter {
  mutate { id => "mutate_1" add_field => { "a" => "b" } }
  grok { id => 'grok_1' }
}
output {
  stdout { id => stdout_out }
}
`

func TestValidate_CleanConfigHasNoFindings(t *testing.T) {
	res := Validate(cleanPipeline)
	require.Empty(t, res.Errors)
	require.Empty(t, res.Warnings)
	require.True(t, res.OK())
	require.False(t, res.HasIssues())
}

func TestValidate_EmptyText(t *testing.T) {
	res := Validate("")
	require.Empty(t, res.Errors)
	require.Empty(t, res.Warnings)
}

func TestValidate_DuplicateIDReportedOnceAtFirstLine(t *testing.T) {
	text := "filter {\n  mutate { id => \"a\" }\n}\nfilter {\n  mutate { id => \"a\" }\n}\n"
	res := Validate(text)
	require.Len(t, res.Errors, 1)

	f := res.Errors[0]
	require.Equal(t, 2, f.Line)
	require.Equal(t, SeverityError, f.Severity)
	require.Equal(t,
		"Duplicate ID 'a' found at:\n    Line 2: mutate { id => \"a\" }\n    Line 5: mutate { id => \"a\" }",
		f.Message)
}

func TestValidate_ScenarioDuplicateAcrossFilters(t *testing.T) {
	text := "input { a => 1 }\nfilter { id => \"x\" }\nfilter { id => \"x\" }\noutput { stdout {} }"
	res := Validate(text)
	require.Len(t, res.Errors, 1)
	require.Equal(t, 2, res.Errors[0].Line)
	require.Contains(t, res.Errors[0].Message, "'x'")
	require.Contains(t, res.Errors[0].Message, "Line 2: filter { id => \"x\" }")
	require.Contains(t, res.Errors[0].Message, "Line 3: filter { id => \"x\" }")
	require.NotContains(t, res.Errors[0].Message, "Unbalanced")
}

func TestValidate_QuoteStylesShareIdentifier(t *testing.T) {
	text := "a { id => \"same\" }\nb { id => 'same' }\nc { id => same }\n"
	res := Validate(text)
	require.Len(t, res.Errors, 1)
	require.Equal(t, 1, res.Errors[0].Line)
	require.Equal(t, 3, strings.Count(res.Errors[0].Message, "\n    Line "))
}

func TestValidate_DuplicatesReportedInFirstSeenOrder(t *testing.T) {
	text := "id => b\nid => a\nid => b\nid => a\nid => c\n"
	res := Validate(text)
	require.Len(t, res.Errors, 2)
	require.Contains(t, res.Errors[0].Message, "'b'")
	require.Equal(t, 1, res.Errors[0].Line)
	require.Contains(t, res.Errors[1].Message, "'a'")
	require.Equal(t, 2, res.Errors[1].Line)
}

func TestValidate_IDPatternEdges(t *testing.T) {
	cases := []struct {
		name string
		text string
		dup  bool
	}{
		{name: "no spaces", text: "id=>x\nid=>x\n", dup: true},
		{name: "bare value stops at brace", text: "f { id => x}\ng { id => x}\n", dup: true},
		{name: "different values", text: "id => x\nid => y\n", dup: false},
		{name: "suffix of another word", text: "document_id => x\ndocument_id => x\n", dup: false},
		{name: "quoted with space", text: "id => \"a b\"\nid => \"a b\"\n", dup: false},
		{name: "unterminated quote", text: "id => \"abc\nid => \"abc\n", dup: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Validate(tc.text)
			require.Equal(t, tc.dup, len(res.Errors) == 1, "errors=%v", res.Errors)
		})
	}
}

func TestValidate_UnbalancedBraces(t *testing.T) {
	res := Validate("input { a { }\n} }\n")
	require.Len(t, res.Errors, 1)
	require.Equal(t, 0, res.Errors[0].Line)
	require.Equal(t, "Unbalanced braces: 2 open, 3 close", res.Errors[0].Message)
}

func TestValidate_BracesInsideStringsAreCounted(t *testing.T) {
	res := Validate("filter { mutate { add_field => { \"x\" => \"{\" } } }\n")
	require.Len(t, res.Errors, 1)
	require.Equal(t, "Unbalanced braces: 4 open, 3 close", res.Errors[0].Message)
}

func TestValidate_ChecksAreIndependent(t *testing.T) {
	res := Validate("filter { id => \"x\" }\nfilter { id => \"x\" }\n{")
	require.Len(t, res.Errors, 2)
	require.Contains(t, res.Errors[0].Message, "Duplicate ID 'x'")
	require.Equal(t, "Unbalanced braces: 3 open, 2 close", res.Errors[1].Message)
}

func TestValidateFile_LoadFailureShortCircuits(t *testing.T) {
	res := ValidateFile(filepath.Join(t.TempDir(), "missing.conf"))
	require.Len(t, res.Errors, 1)
	require.Equal(t, 0, res.Errors[0].Line)
	require.True(t, strings.HasPrefix(res.Errors[0].Message, "Failed to load config file: "))
	require.Empty(t, res.Warnings)
}

func TestValidateFile_ReadsContent(t *testing.T) {
	p := filepath.Join(t.TempDir(), "pipeline.conf")
	require.NoError(t, os.WriteFile(p, []byte("input {\n"), 0o600))
	res := ValidateFile(p)
	require.Len(t, res.Errors, 1)
	require.Equal(t, "Unbalanced braces: 1 open, 0 close", res.Errors[0].Message)
}

func TestFindingString(t *testing.T) {
	require.Equal(t, "Line 3: boom", Finding{Message: "boom", Line: 3}.String())
	require.Equal(t, "boom", Finding{Message: "boom"}.String())
}

func TestOccurrenceIndex(t *testing.T) {
	idx := NewOccurrenceIndex()
	idx.Add(IdentifierOccurrence{ID: "a", Line: 1})
	idx.Add(IdentifierOccurrence{ID: "b", Line: 2})
	idx.Add(IdentifierOccurrence{ID: "a", Line: 7})

	require.Equal(t, 2, idx.Len())
	require.Equal(t, []string{"a"}, idx.Duplicates())
	occ := idx.Occurrences("a")
	require.Len(t, occ, 2)
	require.Equal(t, 1, occ[0].Line)
	require.Equal(t, 7, occ[1].Line)
	require.Empty(t, idx.Occurrences("missing"))
}
