// Package banner prints the startup logo sized to the terminal.
package banner

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Config holds banner configuration
type Config struct {
	AppName string
	Version string
	Tagline string
	Width   int  // terminal columns; 0 means 80
	Color   bool // style with lipgloss
}

var (
	artStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	taglineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Print writes the banner to w: the logo when it fits, otherwise a
// single line.
func Print(w io.Writer, cfg Config) {
	width := cfg.Width
	if width <= 0 {
		width = 80
	}

	style := func(s lipgloss.Style, text string) string {
		if !cfg.Color {
			return text
		}
		return s.Render(text)
	}

	if width < ArtWidth(Art)+2 {
		fmt.Fprintf(w, "%s %s\n", style(artStyle, cfg.AppName), cfg.Version)
		return
	}

	fmt.Fprintln(w)
	for _, line := range CenterArt(Art, width) {
		fmt.Fprintln(w, style(artStyle, line))
	}
	sub := fmt.Sprintf("%s %s", cfg.AppName, cfg.Version)
	if cfg.Tagline != "" {
		sub += " - " + cfg.Tagline
	}
	fmt.Fprintln(w, CenterArt([]string{style(taglineStyle, sub)}, width)[0])
	fmt.Fprintln(w)
}

// TerminalWidth reports f's column count and whether f is a terminal
func TerminalWidth(f *os.File) (int, bool) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 0, false
	}
	cols, _, err := term.GetSize(fd)
	if err != nil || cols == 0 {
		cols = 80
	}
	return cols, true
}
