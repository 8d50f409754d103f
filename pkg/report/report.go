// Package report renders validation results for people and tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/r9s-ai/pipelint/pkg/pipeconf"
)

const (
	FormatText = "text"
	FormatJSON = "json"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

const noIssues = "No issues found"

type Options struct {
	Format string
	Color  bool
	// File is only used by the JSON format.
	File string
}

// Print writes the plain two-section report. Findings keep their discovery order.
func Print(w io.Writer, res pipeconf.Result) error {
	return printText(w, res, plainStyles())
}

// Render writes res in the requested format.
func Render(w io.Writer, res pipeconf.Result, opts Options) error {
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", FormatText:
		if opts.Color {
			return printText(w, res, colorStyles(w))
		}
		return Print(w, res)
	case FormatJSON:
		return printJSON(w, res, opts.File)
	default:
		return fmt.Errorf("unsupported report format %q", opts.Format)
	}
}

// ColorEnabled resolves a color mode against the destination writer.
func ColorEnabled(mode string, w io.Writer) bool {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type styles struct {
	errHeader  lipgloss.Style
	warnHeader lipgloss.Style
	linePrefix lipgloss.Style
	ok         lipgloss.Style
}

func plainStyles() styles {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	s := r.NewStyle()
	return styles{errHeader: s, warnHeader: s, linePrefix: s, ok: s}
}

func colorStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.ANSI)
	return styles{
		errHeader:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		warnHeader: r.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		linePrefix: r.NewStyle().Faint(true),
		ok:         r.NewStyle().Foreground(lipgloss.Color("2")),
	}
}

func printText(w io.Writer, res pipeconf.Result, st styles) error {
	var b strings.Builder
	writeSection(&b, "Errors:", st.errHeader, st.linePrefix, res.Errors)
	writeSection(&b, "Warnings:", st.warnHeader, st.linePrefix, res.Warnings)
	if !res.HasIssues() {
		b.WriteString(st.ok.Render(noIssues))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeSection(b *strings.Builder, header string, hs, ps lipgloss.Style, findings []pipeconf.Finding) {
	if len(findings) == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(hs.Render(header))
	b.WriteString("\n")
	for _, f := range findings {
		if f.Line > 0 {
			b.WriteString(ps.Render(fmt.Sprintf("Line %d:", f.Line)))
			b.WriteString(" ")
		}
		b.WriteString(f.Message)
		b.WriteString("\n")
	}
}

type jsonReport struct {
	File     string             `json:"file,omitempty"`
	OK       bool               `json:"ok"`
	Errors   []pipeconf.Finding `json:"errors"`
	Warnings []pipeconf.Finding `json:"warnings"`
}

func printJSON(w io.Writer, res pipeconf.Result, file string) error {
	out := jsonReport{
		File:     file,
		OK:       res.OK(),
		Errors:   res.Errors,
		Warnings: res.Warnings,
	}
	if out.Errors == nil {
		out.Errors = []pipeconf.Finding{}
	}
	if out.Warnings == nil {
		out.Warnings = []pipeconf.Finding{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
