// Package tui is the interactive search screen: a query box over a
// scrollable list of enriched hosts.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/apimgr/hostscout/src/model"
	"github.com/apimgr/hostscout/src/output"
	"github.com/apimgr/hostscout/src/pipeline"
)

// Dracula palette
var (
	foreground = lipgloss.Color("#f8f8f2")
	comment    = lipgloss.Color("#6272a4")
	cyan       = lipgloss.Color("#8be9fd")
	green      = lipgloss.Color("#50fa7b")
	purple     = lipgloss.Color("#bd93f9")
	red        = lipgloss.Color("#ff5555")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(purple).
			Bold(true).
			Padding(0, 1)

	inputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(comment).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(green)

	helpStyle = lipgloss.NewStyle().
			Foreground(comment)

	errorStyle = lipgloss.NewStyle().
			Foreground(red)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(cyan)

	resultStyle = lipgloss.NewStyle().
			Foreground(foreground)
)

// Collector runs the search pipeline without output
type Collector interface {
	Collect(ctx context.Context, opts pipeline.Options) ([]model.EnrichedRecord, *pipeline.Report, error)
}

type app struct {
	ctx       context.Context
	collector Collector
	base      pipeline.Options
	renderer  output.TextRenderer

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	records   []model.EnrichedRecord
	report    *pipeline.Report
	err       error
	searching bool
	width     int
	height    int
}

type searchResultMsg struct {
	records []model.EnrichedRecord
	report  *pipeline.Report
	err     error
}

func newApp(ctx context.Context, c Collector, base pipeline.Options) app {
	ti := textinput.New()
	ti.Placeholder = "Shodan query, e.g. apache country:DE"
	ti.Focus()
	ti.Width = 60
	ti.SetValue(base.Query.Text)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return app{
		ctx:       ctx,
		collector: c,
		base:      base,
		renderer:  output.TextRenderer{Color: true},
		input:     ti,
		viewport:  viewport.New(80, 18),
		spinner:   sp,
	}
}

func (a app) Init() tea.Cmd {
	return textinput.Blink
}

func (a app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "enter":
			if strings.TrimSpace(a.input.Value()) != "" && !a.searching {
				a.searching = true
				a.err = nil
				return a, tea.Batch(a.spinner.Tick, a.doSearch(a.input.Value()))
			}
		case "esc":
			if a.input.Value() == "" {
				return a, tea.Quit
			}
			a.input.SetValue("")
			a.records = nil
			a.report = nil
			a.err = nil
			a.viewport.SetContent("")
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.viewport.Width = msg.Width
		a.viewport.Height = max(msg.Height-8, 3)
		a.viewport.SetContent(a.renderResults())

	case spinner.TickMsg:
		if a.searching {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case searchResultMsg:
		a.searching = false
		a.records = msg.records
		a.report = msg.report
		a.err = msg.err
		a.viewport.SetContent(a.renderResults())
		a.viewport.GotoTop()
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)

	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

func (a app) doSearch(text string) tea.Cmd {
	opts := a.base
	opts.Query.Text = strings.TrimSpace(text)
	return func() tea.Msg {
		records, report, err := a.collector.Collect(a.ctx, opts)
		return searchResultMsg{records: records, report: report, err: err}
	}
}

func (a app) renderResults() string {
	if a.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", a.err))
	}
	if a.report == nil {
		return helpStyle.Render("Type a query and press Enter")
	}
	if len(a.records) == 0 {
		return helpStyle.Render("No hosts matched")
	}

	var sb strings.Builder
	for _, rec := range a.records {
		sb.WriteString(resultStyle.Render(a.renderer.Format(rec)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (a app) status() string {
	if a.report == nil {
		return ""
	}
	r := a.report
	s := fmt.Sprintf("%d of %d total · %d after filters · %d shown", r.Searched, r.Total, r.Filtered, r.Rendered)
	if r.Failed > 0 {
		s += fmt.Sprintf(" · %d lookups failed", r.Failed)
	}
	return statusStyle.Render(s)
}

func (a app) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("hostscout"))
	sb.WriteString("\n\n")

	sb.WriteString(inputStyle.Render(a.input.View()))
	sb.WriteString("\n")

	if a.searching {
		sb.WriteString(a.spinner.View() + helpStyle.Render(" Searching and enriching..."))
	} else {
		sb.WriteString(a.status())
	}
	sb.WriteString("\n\n")

	if !a.searching {
		sb.WriteString(a.viewport.View())
	}

	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("Enter: search • ↑/↓: scroll • Esc: clear/quit • Ctrl+C: quit"))

	return sb.String()
}

// Run starts the TUI. base supplies every option except the query text.
func Run(ctx context.Context, c Collector, base pipeline.Options) error {
	p := tea.NewProgram(newApp(ctx, c, base), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
