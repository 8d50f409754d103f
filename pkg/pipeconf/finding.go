package pipeconf

import (
	"fmt"
	"strings"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is a single lint result. Line 0 marks a file-level finding.
type Finding struct {
	Message  string   `json:"message"`
	Line     int      `json:"line"`
	Severity Severity `json:"severity"`
}

func (f Finding) String() string {
	msg := strings.TrimSpace(f.Message)
	if f.Line > 0 {
		return fmt.Sprintf("Line %d: %s", f.Line, msg)
	}
	return msg
}

// Result holds the findings of one validation run in discovery order.
type Result struct {
	Errors   []Finding `json:"errors"`
	Warnings []Finding `json:"warnings"`
}

func (r Result) OK() bool {
	return len(r.Errors) == 0
}

func (r Result) HasIssues() bool {
	return len(r.Errors) > 0 || len(r.Warnings) > 0
}

func (r *Result) addError(line int, format string, args ...any) {
	r.Errors = append(r.Errors, Finding{
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Severity: SeverityError,
	})
}

func newResult() Result {
	return Result{Errors: []Finding{}, Warnings: []Finding{}}
}
