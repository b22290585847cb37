package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"healthscore/internal/analysis"
	"healthscore/internal/service"
)

// FeaturesModel lists the derived feature vector for a day
type FeaturesModel struct {
	query    *service.QueryService
	day      time.Time
	vector   analysis.FeatureVector
	viewport viewport.Model
	loading  bool
	err      error
	ready    bool
}

// NewFeaturesModel creates a new features model
func NewFeaturesModel(qs *service.QueryService, day time.Time, width, height int) FeaturesModel {
	m := FeaturesModel{query: qs, day: day, loading: true}
	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6)
		m.ready = true
	}
	return m
}

// Init initializes the features screen
func (m FeaturesModel) Init() tea.Cmd {
	return m.loadFeatures
}

type featuresLoadedMsg struct {
	vector analysis.FeatureVector
	err    error
}

func (m FeaturesModel) loadFeatures() tea.Msg {
	v, err := m.query.Features(m.day)
	return featuresLoadedMsg{vector: v, err: err}
}

// Update handles messages
func (m FeaturesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case featuresLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.vector = msg.vector
		if m.ready {
			m.viewport.SetContent(m.renderContent())
			m.viewport.GotoTop()
		}

	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		if !m.loading {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadFeatures
		case "left", "h":
			m.day = m.day.AddDate(0, 0, -1)
			m.loading = true
			return m, m.loadFeatures
		case "right", "l":
			m.day = m.day.AddDate(0, 0, 1)
			m.loading = true
			return m, m.loadFeatures
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the features screen
func (m FeaturesModel) View() string {
	if m.loading {
		return "\n  Deriving features..."
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	footer := statusStyle.Render(fmt.Sprintf("  %d of %d present  j/k: scroll  ←/→ change day  r: refresh",
		m.vector.Present(), len(analysis.FeatureNames)))
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m FeaturesModel) renderContent() string {
	lines := []string{cardTitleStyle.Render("Features · " + m.day.Format("Monday, January 2"))}
	for _, f := range m.vector.Features() {
		value := mutedStyle.Render("absent")
		if f.Value != nil {
			value = metricValueStyle.Render(fmt.Sprintf("%.3f", *f.Value))
		}
		lines = append(lines, "  "+lipgloss.NewStyle().Width(28).Render(f.Name)+value)
	}
	return strings.Join(lines, "\n")
}
