package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"healthscore/internal/analysis"
	"healthscore/internal/hunter"
)

// Colors
var (
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#10B981") // Green
	warningColor   = lipgloss.Color("#F59E0B") // Amber
	errorColor     = lipgloss.Color("#EF4444") // Red
	mutedColor     = lipgloss.Color("#6B7280") // Gray
	accentColor    = lipgloss.Color("#38BDF8") // Sky
	textColor      = lipgloss.Color("#F9FAFB") // Light gray
)

// Styles
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor).
			Background(primaryColor).
			Padding(0, 1).
			MarginBottom(1)

	// Navigation
	navStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginBottom(1)

	navActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	navInactiveStyle = lipgloss.NewStyle().
				Foreground(mutedColor)

	// Cards
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(1, 2)

	cardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(secondaryColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	// Metrics
	metricLabelStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Width(20)

	metricValueStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(textColor)

	bigValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor).
			MarginBottom(1)

	// Table
	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(primaryColor).
				Padding(0, 1)

	tableRowStyle = lipgloss.NewStyle().
			Padding(0, 1)

	// Status
	statusStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	successStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	// Help
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	// Progress bar
	progressFullStyle = lipgloss.NewStyle().
				Foreground(secondaryColor)

	progressEmptyStyle = lipgloss.NewStyle().
				Foreground(mutedColor)
)

// RenderMetric renders a label/value pair with an optional note
func RenderMetric(label, value, note string) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		metricLabelStyle.Render(label),
		metricValueStyle.Render(value),
		mutedStyle.Render(" "+note),
	)
}

// RenderProgressBar renders an ASCII progress bar for a 0-1 fraction
func RenderProgressBar(fraction float64, width int) string {
	filled := min(max(int(fraction*float64(width)), 0), width)

	var b strings.Builder
	b.WriteString(progressFullStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(progressEmptyStyle.Render(strings.Repeat("░", width-filled)))
	return b.String()
}

// RenderKeyHelp renders a key binding help item
func RenderKeyHelp(key, desc string) string {
	return helpKeyStyle.Render(key) + " " + helpDescStyle.Render(desc)
}

func recoveryStyle(zone analysis.RecoveryZone) lipgloss.Style {
	switch zone {
	case analysis.ZoneGreen:
		return successStyle
	case analysis.ZoneYellow:
		return warningStyle
	case analysis.ZoneRed:
		return errorStyle
	default:
		return mutedStyle
	}
}

func strainStyle(level analysis.StrainLevel) lipgloss.Style {
	switch level {
	case analysis.StrainAllOut:
		return errorStyle
	case analysis.StrainHigh:
		return warningStyle
	case analysis.StrainModerate:
		return lipgloss.NewStyle().Foreground(accentColor)
	default:
		return mutedStyle
	}
}

func stressStyle(level float64) lipgloss.Style {
	switch analysis.StressCategoryFor(level) {
	case analysis.StressHigh:
		return errorStyle
	case analysis.StressModerate:
		return warningStyle
	default:
		return successStyle
	}
}

func riskStyle(risk analysis.LoadRisk) lipgloss.Style {
	switch risk {
	case analysis.RiskOptimal:
		return successStyle
	case analysis.RiskCaution:
		return warningStyle
	case analysis.RiskHigh:
		return errorStyle
	default:
		return mutedStyle
	}
}

func rankStyle(r hunter.Rank) lipgloss.Style {
	switch r {
	case hunter.RankS:
		return lipgloss.NewStyle().Bold(true).Foreground(warningColor)
	case hunter.RankA:
		return lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	case hunter.RankB:
		return lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	case hunter.RankC:
		return successStyle
	default:
		return mutedStyle
	}
}
