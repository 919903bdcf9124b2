package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/vankampen/pkg/pipeline"
)

// =============================================================================
// GenerateModel - Live generation progress
// =============================================================================

// progressMsg carries one update from the generator.
type progressMsg struct{ done, total int }

// resultMsg ends the program with the pipeline outcome.
type resultMsg struct {
	result *pipeline.Result
	err    error
}

// GenerateModel is the bubbletea model that shows binding progress while a
// pipeline run is in flight.
type GenerateModel struct {
	Algorithm string
	Done      int
	Total     int
	Result    *pipeline.Result
	Err       error
	Aborted   bool

	bar   progress.Model
	start time.Time
}

// NewGenerateModel creates a progress model for one run.
func NewGenerateModel(algorithm string) GenerateModel {
	return GenerateModel{
		Algorithm: algorithm,
		bar:       progress.New(progress.WithSolidFill(string(colorCyan)), progress.WithoutPercentage()),
		start:     time.Now(),
	}
}

func (m GenerateModel) Init() tea.Cmd {
	return nil
}

func (m GenerateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Aborted = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.bar.Width = max(10, min(60, msg.Width-30))
	case progressMsg:
		m.Done, m.Total = msg.done, msg.total
	case resultMsg:
		m.Result, m.Err = msg.result, msg.err
		return m, tea.Quit
	}
	return m, nil
}

// Percent returns the bound fraction in [0, 1].
func (m GenerateModel) Percent() float64 {
	if m.Total <= 0 {
		return 0
	}
	return min(1, float64(m.Done)/float64(m.Total))
}

func (m GenerateModel) View() string {
	if m.Result != nil || m.Err != nil || m.Aborted {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Generating"))
	b.WriteString(" ")
	b.WriteString(StyleDim.Render(m.Algorithm))
	b.WriteString("\n\n  ")
	b.WriteString(m.bar.ViewAs(m.Percent()))
	b.WriteString(" ")
	b.WriteString(StyleNumber.Render(fmt.Sprintf("%d/%d", m.Done, m.Total)))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %s", time.Since(m.start).Round(time.Second))))
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render("q quit"))
	b.WriteString("\n")
	return b.String()
}

// runWithTUI executes the pipeline behind a live progress display. Pipeline
// logging is silenced for the duration so it does not tear the display.
func runWithTUI(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	algo := opts.Algorithm
	if algo == "" {
		algo = string(pipeline.DefaultAlgorithm)
	}
	p := tea.NewProgram(NewGenerateModel(algo), tea.WithContext(ctx), tea.WithOutput(os.Stderr))

	opts.Logger = log.New(io.Discard)
	opts.Progress = func(done, total int) { p.Send(progressMsg{done, total}) }

	go func() {
		res, err := runner.Execute(ctx, opts)
		p.Send(resultMsg{res, err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m := final.(GenerateModel)
	if m.Aborted {
		return nil, context.Canceled
	}
	return m.Result, m.Err
}

// =============================================================================
// Component Table
// =============================================================================

// componentTable renders the split parts as a bordered table.
func componentTable(parts []pipeline.Part, files map[int][]string) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(parts))
	for _, p := range parts {
		out := "—"
		if names := files[p.Index]; len(names) > 0 {
			out = strings.Join(names, ", ")
		}
		rows = append(rows, []string{
			strconv.Itoa(p.Index),
			strconv.Itoa(p.Nodes),
			strconv.Itoa(p.Edges),
			out,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Part", "Nodes", "Edges", "Files").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 1 || col == 2:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case col == 3:
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	return t.Render()
}
