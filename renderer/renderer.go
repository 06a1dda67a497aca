// Package renderer renders valuations and ledgers as console text or markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/fundfolio"
)

//go:embed *.md
var templates embed.FS

// ReportMarkdown renders a valuation as a markdown document: totals,
// positions and diagnostics.
func ReportMarkdown(v *fundfolio.Valuation) string {
	partials := map[string]string{
		"report_positions": "report_positions.md",
		"diagnostics":      "diagnostics.md",
	}
	return renderTemplate("report", "report.md", partials, newReport(v))
}

// HoldingsMarkdown renders the open lots and the sales of every position of a ledger.
func HoldingsMarkdown(l *fundfolio.Ledger) string {
	partials := map[string]string{
		"holdings_lots":  "holdings_lots.md",
		"holdings_sales": "holdings_sales.md",
		"diagnostics":    "diagnostics.md",
	}
	return renderTemplate("holdings", "holdings.md", partials, newHoldings(l))
}

// DiagnosticsMarkdown renders a list of diagnostics, or nothing if there is none.
func DiagnosticsMarkdown(ds []fundfolio.Diagnostic) string {
	return renderTemplate("diagnostics", "diagnostics.md", nil, struct{ Diagnostics []Diagnostic }{newDiagnostics(ds)})
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

// cell escapes text for a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
