package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/apimgr/hostscout/src/model"
)

// Styles for terminal output
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	unknownStyle = lipgloss.NewStyle().Faint(true)
	vulnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	cveStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// TextRenderer writes the per-host text block. Color enables lipgloss
// styling; the plain form is used for files and pipes.
type TextRenderer struct {
	Color bool
}

// Render writes one record
func (t TextRenderer) Render(w io.Writer, rec model.EnrichedRecord) error {
	_, err := io.WriteString(w, t.Format(rec))
	return err
}

// Format returns the text block for one record
func (t TextRenderer) Format(rec model.EnrichedRecord) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s:\n", t.style(headerStyle, fmt.Sprintf("%s (%s)", rec.Match.IP(), rec.DisplayOrg())))
	t.line(&sb, "OS", rec.Host.OSOrUnknown())
	t.line(&sb, "SSL", rec.Host.SSLOrUnknown())
	t.line(&sb, "Banner", rec.Host.ProductOrUnknown())

	if len(rec.Exploits) > 0 {
		fmt.Fprintf(&sb, "\t%s\n", t.style(vulnStyle, "Vulnerabilities:"))
		for _, e := range rec.Exploits {
			if e.CVE == "" {
				fmt.Fprintf(&sb, "\t\t%s\n", e.Title)
				continue
			}
			fmt.Fprintf(&sb, "\t\t%s (%s)\n", e.Title, t.style(cveStyle, e.CVE))
		}
	}

	return sb.String()
}

func (t TextRenderer) line(sb *strings.Builder, label, value string) {
	if value == model.Unknown {
		value = t.style(unknownStyle, value)
	}
	fmt.Fprintf(sb, "\t%s %s\n", t.style(labelStyle, label+":"), value)
}

func (t TextRenderer) style(s lipgloss.Style, text string) string {
	if !t.Color {
		return text
	}
	return s.Render(text)
}

// RenderAll writes every record in order
func (t TextRenderer) RenderAll(w io.Writer, records []model.EnrichedRecord) error {
	for _, rec := range records {
		if err := t.Render(w, rec); err != nil {
			return err
		}
	}
	return nil
}
