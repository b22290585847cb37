package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"healthscore/internal/analysis"
	"healthscore/internal/ingest"
	"healthscore/internal/service"
)

// StressModel is the stress timeline screen model
type StressModel struct {
	query    *service.QueryService
	day      time.Time
	data     *service.StressTimeline
	viewport viewport.Model
	loading  bool
	err      error
	width    int
	height   int
	ready    bool
}

// NewStressModel creates a new stress model
func NewStressModel(qs *service.QueryService, day time.Time, width, height int) StressModel {
	m := StressModel{
		query:   qs,
		day:     day,
		loading: true,
		width:   width,
		height:  height,
	}

	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6)
		m.ready = true
	}

	return m
}

// Init initializes the stress screen
func (m StressModel) Init() tea.Cmd {
	return m.loadTimeline
}

type stressLoadedMsg struct {
	data *service.StressTimeline
	err  error
}

func (m StressModel) loadTimeline() tea.Msg {
	data, err := m.query.StressTimeline(context.Background(), m.day)
	return stressLoadedMsg{data: data, err: err}
}

// Update handles messages
func (m StressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stressLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.data = msg.data
		if m.ready {
			m.viewport.SetContent(m.renderContent())
			m.viewport.GotoTop()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		if m.data != nil {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadTimeline
		case "left", "h":
			m.day = m.day.AddDate(0, 0, -1)
			m.loading = true
			return m, m.loadTimeline
		case "right", "l":
			m.day = m.day.AddDate(0, 0, 1)
			m.loading = true
			return m, m.loadTimeline
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the stress screen
func (m StressModel) View() string {
	if m.loading {
		return "\n  Computing stress timeline..."
	}

	if errors.Is(m.err, ingest.ErrNoSamples) {
		return fmt.Sprintf("\n  No samples for %s.\n%s", m.day.Format("Mon Jan 2"),
			statusStyle.Render("  ←/→ change day"))
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	footer := statusStyle.Render("  j/k or arrows: scroll  ←/→ change day  r: refresh")

	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m StressModel) renderContent() string {
	if m.data == nil {
		return ""
	}
	var sections []string
	sections = append(sections, cardTitleStyle.Render("Stress · "+m.day.Format("Monday, January 2")))

	if len(m.data.Points) == 0 {
		sections = append(sections, "  No heart rate readings outside workouts.")
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	sections = append(sections, m.renderChart(), m.renderSummary(), m.renderPeriods())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m StressModel) renderChart() string {
	levels := make([]float64, len(m.data.Points))
	for i, p := range m.data.Points {
		levels[i] = p.Level
	}
	width := min(max(m.width-12, 20), 90)

	first := m.data.Points[0].Time.Format("15:04")
	last := m.data.Points[len(m.data.Points)-1].Time.Format("15:04")
	graph := asciigraph.Plot(levels,
		asciigraph.Height(8),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(analysis.MaxStress),
		asciigraph.Precision(1),
		asciigraph.Caption(fmt.Sprintf("%s to %s, %d readings", first, last, m.data.Raw)),
	)
	return cardStyle.Render(graph)
}

func (m StressModel) renderSummary() string {
	s := m.data.Summary
	lines := []string{
		"",
		sectionStyle.Render("Summary"),
		"  " + RenderMetric("Average", stressStyle(s.Average).Render(fmt.Sprintf("%.2f", s.Average)), ""),
		"  " + RenderMetric("Peak", stressStyle(s.Max).Render(fmt.Sprintf("%.2f", s.Max)), ""),
		"  " + RenderMetric("Low", fmt.Sprintf("%.0f min", s.LowMinutes), ""),
		"  " + RenderMetric("Moderate", fmt.Sprintf("%.0f min", s.ModerateMinutes), ""),
		"  " + RenderMetric("High", fmt.Sprintf("%.0f min", s.HighMinutes), ""),
		"  " + mutedStyle.Render(analysis.StressDescription(analysis.StressCategoryFor(s.Average))),
	}
	return strings.Join(lines, "\n")
}

func (m StressModel) renderPeriods() string {
	lines := []string{"", sectionStyle.Render(fmt.Sprintf("Elevated periods (%d)", len(m.data.Periods)))}
	if len(m.data.Periods) == 0 {
		lines = append(lines, "  "+mutedStyle.Render("None"))
		return strings.Join(lines, "\n")
	}

	lines = append(lines, tableHeaderStyle.Render(fmt.Sprintf("%-13s  %8s  %6s  %6s", "Time", "Length", "Avg", "Peak")))
	for _, p := range m.data.Periods {
		lines = append(lines, tableRowStyle.Render(fmt.Sprintf("%s-%s  %8s  %6.2f  %6s",
			p.Start.Format("15:04"),
			p.End.Format("15:04"),
			fmt.Sprintf("%.0f min", p.Duration().Minutes()),
			p.Average,
			stressStyle(p.Peak).Render(fmt.Sprintf("%6.2f", p.Peak)),
		)))
	}
	return strings.Join(lines, "\n")
}
