package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the help screen
func (m HelpModel) View() string {
	sections := []string{
		cardTitleStyle.Render("Keyboard Shortcuts"),
		m.renderSection("Navigation", []keyHelp{
			{"1", "Today"},
			{"2", "Stress timeline"},
			{"3", "Hunter stats"},
			{"4", "Features"},
			{"5 or s", "Sync screen"},
			{"?", "Help (this screen)"},
			{"q", "Quit"},
			{"esc", "Back / close help"},
		}),
		m.renderSection("Day screens", []keyHelp{
			{"← / →", "Previous / next day"},
			{"j / k", "Scroll"},
			{"r", "Refresh"},
		}),
		m.renderSection("Sync Screen", []keyHelp{
			{"s / enter", "Start sync"},
		}),
		m.renderMetricsHelp(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	lines := []string{"", sectionStyle.Render(title)}
	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}
	return strings.Join(lines, "\n")
}

func (m HelpModel) renderMetricsHelp() string {
	lines := []string{"", sectionStyle.Render("Scores Explained"), ""}

	metrics := []struct {
		name string
		desc string
	}{
		{"Strain (0-21)", "Cardiovascular load of the day's workouts, heart-rate weighted."},
		{"Recovery (0-100%)", "HRV, resting HR, sleep and respiratory rate against your baseline."},
		{"Stress (0-3)", "Heart rate and HRV away from baseline, outside workouts."},
		{"Load ratio", "7-day vs 28-day average strain. 0.8-1.3 is the sweet spot."},
		{"Baseline", "Needs 5 days of HRV and resting HR before recovery is scored."},
		{"Hunter ranks", "E to S per stat, from readiness, body composition and swim times."},
	}

	for _, metric := range metrics {
		lines = append(lines, "  "+helpKeyStyle.Render(metric.name))
		lines = append(lines, "  "+mutedStyle.Render(metric.desc))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
