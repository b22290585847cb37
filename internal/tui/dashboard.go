package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"healthscore/internal/service"
	"healthscore/internal/store"
)

// DashboardModel is the Today screen model
type DashboardModel struct {
	query    *service.QueryService
	scoring  *service.ScoringService
	day      time.Time
	data     *service.DashboardData
	lastSync time.Time
	loading  bool
	err      error
}

// NewDashboardModel creates a new dashboard model for day
func NewDashboardModel(qs *service.QueryService, ss *service.ScoringService, day time.Time) DashboardModel {
	return DashboardModel{
		query:   qs,
		scoring: ss,
		day:     day,
		loading: true,
	}
}

// Init initializes the dashboard
func (m DashboardModel) Init() tea.Cmd {
	return m.loadData
}

func (m DashboardModel) loadData() tea.Msg {
	data, err := m.query.Dashboard(m.day)
	if err != nil {
		return dashboardDataMsg{err: err}
	}
	return dashboardDataMsg{data: data, lastSync: m.scoring.LastSync()}
}

type dashboardDataMsg struct {
	data     *service.DashboardData
	lastSync time.Time
	err      error
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		m.data = msg.data
		m.lastSync = msg.lastSync
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadData
		case "left", "h":
			m.day = m.day.AddDate(0, 0, -1)
			m.loading = true
			return m, m.loadData
		case "right", "l":
			m.day = m.day.AddDate(0, 0, 1)
			m.loading = true
			return m, m.loadData
		}
	}
	return m, nil
}

// View renders the dashboard
func (m DashboardModel) View() string {
	if m.loading {
		return "\n  Loading..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	var sections []string
	sections = append(sections, cardTitleStyle.Render(m.day.Format("Monday, January 2")))

	if m.data.Record == nil {
		sections = append(sections, "  No scored data for this day. Press 's' to sync.")
		sections = append(sections, statusStyle.Render("  Last sync: "+formatLastSync(m.lastSync, time.Now())))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	topRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderRecoveryCard(), "  ", m.renderStrainCard(), "  ", m.renderSleepCard())
	sections = append(sections, topRow)
	sections = append(sections, m.renderVitalsCard())

	if len(m.data.StrainHistory) > 2 {
		sections = append(sections, m.renderChart())
	}

	help := statusStyle.Render(fmt.Sprintf("  ←/→ change day  r refresh  s sync  ·  %s  ·  last sync %s",
		m.data.DataQuality, formatLastSync(m.lastSync, time.Now())))
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderRecoveryCard() string {
	title := cardTitleStyle.Render("Recovery")
	rec := m.data.Record

	value := mutedStyle.Render("--")
	if rec.Recovery != nil {
		value = recoveryStyle(m.data.RecoveryZone).Bold(true).Render(fmt.Sprintf("%.0f%%", *rec.Recovery))
	}

	lines := []string{
		bigValueStyle.Render(value),
		RenderMetric("HRV", formatOpt(rec.HRV, "%.0f ms"), ""),
		RenderMetric("Resting HR", formatOpt(rec.RestingHR, "%.0f bpm"), ""),
		"",
		mutedStyle.Width(32).Render(m.data.RecoveryText),
	}
	return cardStyle.Width(38).Render(lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, lines...)))
}

func (m DashboardModel) renderStrainCard() string {
	title := cardTitleStyle.Render("Strain")
	rec := m.data.Record

	lines := []string{
		bigValueStyle.Render(strainStyle(m.data.StrainLevel).Bold(true).Render(fmt.Sprintf("%.1f", rec.Strain))),
		RenderMetric("Workouts", fmt.Sprintf("%d", len(rec.Workouts)), ""),
		RenderMetric("7-day avg", formatOpt(m.data.AvgStrain7, "%.1f"), ""),
	}
	if m.data.ACWR != nil {
		lines = append(lines, RenderMetric("Load ratio", riskStyle(m.data.LoadRisk).Render(fmt.Sprintf("%.2f", *m.data.ACWR)), ""))
	}
	lines = append(lines, "", mutedStyle.Width(28).Render(m.data.StrainText))
	return cardStyle.Width(34).Render(lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, lines...)))
}

func (m DashboardModel) renderSleepCard() string {
	title := cardTitleStyle.Render("Sleep")
	rec := m.data.Record

	lines := []string{
		bigValueStyle.Render(metricValueStyle.Render(formatHours(rec.SleepHours))),
		RenderMetric("Efficiency", formatOpt(rec.SleepEfficiency, "%.0f%%"), ""),
		RenderMetric("Consistency", formatOpt(rec.SleepConsistency, "%.0f"), ""),
		RenderMetric("Deep", formatHours(rec.DeepSleepHours), ""),
		RenderMetric("Debt", formatOpt(rec.SleepDebt, "%.1f h"), ""),
	}
	return cardStyle.Width(34).Render(lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, lines...)))
}

func (m DashboardModel) renderVitalsCard() string {
	title := cardTitleStyle.Render("Vitals & Stress")
	rec := m.data.Record

	stress := "-"
	if s := rec.Stress; s != nil && s.ValidSamples > 0 {
		stress = stressStyle(s.Average).Render(fmt.Sprintf("%.1f avg / %.1f peak", s.Average, s.Max))
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		RenderMetric("Steps", formatSteps(rec.Steps), ""),
		RenderMetric("Active energy", formatOpt(rec.ActiveCalories, "%.0f kcal"), ""),
		RenderMetric("Respiratory rate", formatOpt(rec.RespiratoryRate, "%.1f /min"), ""),
		RenderMetric("VO2 max", formatOpt(rec.VO2Max, "%.1f"), ""),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		RenderMetric("Stress", stress, ""),
		mutedStyle.Render(m.data.StressText),
	)
	if b := rec.Baseline; b != nil {
		right = lipgloss.JoinVertical(lipgloss.Left, right, "",
			RenderMetric("Baseline HRV", fmt.Sprintf("%.0f ms", b.HRVMean), ""),
			RenderMetric("Baseline RHR", fmt.Sprintf("%.0f bpm", b.RHRMean), fmt.Sprintf("(%d days)", b.DaysOfData)),
		)
	}
	return cardStyle.Width(110).Render(lipgloss.JoinVertical(lipgloss.Left, title,
		lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)))
}

func (m DashboardModel) renderChart() string {
	title := cardTitleStyle.Render(fmt.Sprintf("Last %d days", len(m.data.StrainHistory)))

	strain := asciigraph.Plot(m.data.StrainHistory,
		asciigraph.Height(6),
		asciigraph.Width(60),
		asciigraph.Precision(1),
		asciigraph.Caption("Strain"),
	)
	parts := []string{title, strain}

	if recovery := trimSeries(m.data.RecoveryHistory); len(recovery) > 2 {
		parts = append(parts, "", asciigraph.Plot(recovery,
			asciigraph.Height(6),
			asciigraph.Width(60),
			asciigraph.Precision(0),
			asciigraph.Caption("Recovery %"),
		))
	}

	if n := len(m.data.HistoryDates); n > 0 {
		span := fmt.Sprintf("%s - %s",
			m.data.HistoryDates[0].Format("Jan 02"),
			m.data.HistoryDates[n-1].Format("Jan 02"))
		parts = append(parts, mutedStyle.Render(span))
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// initialDay is the day screens open on: the latest scored day, or today
func initialDay(qs *service.QueryService) time.Time {
	if d := qs.LatestDay(); !d.IsZero() {
		return d
	}
	return store.StartOfDay(time.Now())
}
