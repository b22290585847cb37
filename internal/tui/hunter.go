package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"healthscore/internal/hunter"
	"healthscore/internal/service"
)

// HunterModel is the Hunter stats screen model
type HunterModel struct {
	hunter  *service.HunterService
	day     time.Time
	snap    *hunter.Snapshot
	loading bool
	err     error
}

// NewHunterModel creates a new hunter model
func NewHunterModel(hs *service.HunterService, day time.Time) HunterModel {
	return HunterModel{hunter: hs, day: day, loading: true}
}

// Init initializes the hunter screen
func (m HunterModel) Init() tea.Cmd {
	return m.loadSnapshot
}

type hunterLoadedMsg struct {
	snap *hunter.Snapshot
	err  error
}

func (m HunterModel) loadSnapshot() tea.Msg {
	snap, err := m.hunter.Snapshot(m.day)
	return hunterLoadedMsg{snap: snap, err: err}
}

// Update handles messages
func (m HunterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case hunterLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.snap = msg.snap
	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = true
			return m, m.loadSnapshot
		}
	}
	return m, nil
}

// View renders the hunter screen
func (m HunterModel) View() string {
	if m.loading {
		return "\n  Loading hunter stats..."
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	s := m.snap
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderLevelCard(), "  ", m.renderStatsCard())

	sections := []string{header}
	if len(s.Modifiers) > 0 {
		sections = append(sections, m.renderModifiers())
	}
	if len(s.SwimEvents) > 0 {
		sections = append(sections, m.renderSwims())
	}
	sections = append(sections, statusStyle.Render("  r: refresh"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m HunterModel) renderLevelCard() string {
	s := m.snap
	xp := s.XP
	lines := []string{
		rankStyle(s.OverallRank).Render(fmt.Sprintf("Rank %s", s.OverallRank)) +
			mutedStyle.Render(fmt.Sprintf("  overall %.0f", s.Overall)),
		"",
		RenderMetric("Level", fmt.Sprintf("%d", xp.Level), ""),
		RenderProgressBar(hunter.Progress(xp), 26),
		mutedStyle.Render(fmt.Sprintf("%d / %d XP", xp.CurrentXP, xp.XPToNextLevel)),
		"",
		RenderMetric("Total XP", fmt.Sprintf("%d", xp.TotalXP), ""),
		RenderMetric("Streak", fmt.Sprintf("%d days", xp.Streak), ""),
	}
	if s.EarnedXP > 0 {
		lines = append(lines, "", successStyle.Render(fmt.Sprintf("+%d XP today", s.EarnedXP)))
	}
	if s.LevelsGained > 0 {
		lines = append(lines, warningStyle.Render(fmt.Sprintf("Level up! (+%d)", s.LevelsGained)))
	}

	title := cardTitleStyle.Render("Hunter")
	return cardStyle.Width(34).Render(lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, lines...)))
}

func (m HunterModel) renderStatsCard() string {
	var rows []string
	for _, c := range hunter.Categories {
		score := m.snap.Score(c)
		rank := m.snap.Ranks[c]
		rows = append(rows, fmt.Sprintf("%-16s %s %s %s",
			c.Label(),
			RenderProgressBar(score/100, 24),
			metricValueStyle.Render(fmt.Sprintf("%3.0f", score)),
			rankStyle(rank).Render(string(rank)),
		))
	}
	title := cardTitleStyle.Render("Stats")
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(rows, "\n")))
}

func (m HunterModel) renderModifiers() string {
	lines := []string{"", sectionStyle.Render("Active modifiers")}
	for _, mod := range m.snap.Modifiers {
		style := errorStyle
		if mod.IsBuff() {
			style = successStyle
		}
		lines = append(lines, fmt.Sprintf("  %-20s %s %s",
			mod.Name,
			style.Render(fmt.Sprintf("%+.0f", mod.Delta)),
			mutedStyle.Render(mod.Category.Label()),
		))
	}
	return strings.Join(lines, "\n")
}

func (m HunterModel) renderSwims() string {
	lines := []string{
		"",
		sectionStyle.Render("Swim events"),
		tableHeaderStyle.Render(fmt.Sprintf("%-12s  %9s  %9s  %6s", "Event", "Best", "WR", "Index")),
	}
	for _, e := range m.snap.SwimEvents {
		row := fmt.Sprintf("%-12s  %9s  %9s  %6.1f",
			e.Event, formatSwimTime(e.Seconds), formatSwimTime(e.WorldRecord), e.Index)
		if e.Seed {
			row += mutedStyle.Render("  (seed)")
		}
		lines = append(lines, tableRowStyle.Render(row))
	}
	return strings.Join(lines, "\n")
}
