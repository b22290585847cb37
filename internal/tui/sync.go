package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"healthscore/internal/service"
)

// SyncModel is the sync screen model
type SyncModel struct {
	scoring  *service.ScoringService
	hunter   *service.HunterService
	query    *service.QueryService
	syncing  bool
	progress chan service.SyncProgress
	last     service.SyncProgress
	result   *service.SyncResult
	err      error
	done     bool
}

// NewSyncModel creates a new sync model
func NewSyncModel(ss *service.ScoringService, hs *service.HunterService, qs *service.QueryService) SyncModel {
	return SyncModel{scoring: ss, hunter: hs, query: qs}
}

// Init initializes the sync screen
func (m SyncModel) Init() tea.Cmd {
	return nil
}

// SyncDoneMsg is sent when sync finishes
type SyncDoneMsg struct {
	Result *service.SyncResult
	Err    error
}

type syncProgressMsg service.SyncProgress

// Update handles messages
func (m SyncModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case syncProgressMsg:
		m.last = service.SyncProgress(msg)
		return m, waitForProgress(m.progress)

	case SyncDoneMsg:
		m.syncing = false
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		m.progress = nil
		if m.err != nil {
			return m, nil
		}
		return m, func() tea.Msg { return SyncCompleteMsg{} }

	case tea.KeyMsg:
		if !m.syncing {
			switch msg.String() {
			case "enter", "s":
				m.syncing = true
				m.done = false
				m.err = nil
				m.result = nil
				m.last = service.SyncProgress{}
				m.progress = make(chan service.SyncProgress, 16)
				return m, tea.Batch(m.runSync(m.progress), waitForProgress(m.progress))
			}
		}
	}
	return m, nil
}

func (m SyncModel) runSync(progress chan service.SyncProgress) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		result, err := m.scoring.SyncAll(ctx, progress)
		if err != nil {
			return SyncDoneMsg{Result: result, Err: err}
		}
		if day := m.query.LatestDay(); !day.IsZero() {
			if _, err := m.hunter.Snapshot(day); err != nil {
				return SyncDoneMsg{Result: result, Err: fmt.Errorf("hunter snapshot: %w", err)}
			}
		}
		return SyncDoneMsg{Result: result}
	}
}

// waitForProgress reads one update; a closed channel yields no message
func waitForProgress(progress <-chan service.SyncProgress) tea.Cmd {
	if progress == nil {
		return nil
	}
	return func() tea.Msg {
		p, ok := <-progress
		if !ok {
			return nil
		}
		return syncProgressMsg(p)
	}
}

// View renders the sync screen
func (m SyncModel) View() string {
	var sections []string

	sections = append(sections, cardTitleStyle.Render("Sync & Score"))

	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err)))
		sections = append(sections, m.renderSummary())
		sections = append(sections, "\n"+statusStyle.Render("  Press 's' or Enter to retry"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.done && !m.syncing {
		sections = append(sections, successStyle.Render("\n  Sync complete!"))
		sections = append(sections, m.renderSummary())
		sections = append(sections, "\n"+statusStyle.Render("  Press '1' to go to today"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.syncing {
		sections = append(sections, m.renderProgress())
	} else {
		sections = append(sections, m.renderStartPrompt())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m SyncModel) renderStartPrompt() string {
	lines := []string{
		"",
		"  This will read your health export and:",
		"",
		"  1. Score every new day for strain, recovery and stress",
		"  2. Update your personal baselines",
		"  3. Award Hunter XP for the latest day",
		"",
		statusStyle.Render("  Last sync: " + formatLastSync(m.scoring.LastSync(), time.Now())),
		"",
		statusStyle.Render("  Press 's' or Enter to start sync"),
	}
	return strings.Join(lines, "\n")
}

func (m SyncModel) renderProgress() string {
	lines := []string{"", "  Scoring days..."}
	if p := m.last; p.Total > 0 {
		lines = append(lines, "")
		lines = append(lines, "  "+RenderProgressBar(float64(p.Completed)/float64(p.Total), 40)+
			fmt.Sprintf("  %d/%d", p.Completed, p.Total))
		if !p.CurrentDay.IsZero() {
			lines = append(lines, statusStyle.Render("  "+p.CurrentDay.Format("Mon Jan 2, 2006")))
		}
	}
	return strings.Join(lines, "\n")
}

func (m SyncModel) renderSummary() string {
	if m.result == nil {
		return ""
	}

	r := m.result
	lines := []string{""}

	if r.DaysScored > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d days scored", r.DaysScored)))
	} else {
		lines = append(lines, statusStyle.Render("  No new days"))
	}
	if r.DaysSkipped > 0 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("  %d days without samples", r.DaysSkipped)))
	}
	if r.ColdStart > 0 {
		lines = append(lines, warningStyle.Render(fmt.Sprintf("  %d days scored before a baseline existed", r.ColdStart)))
	}
	if r.SwimPRs > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d new swim personal bests", r.SwimPRs)))
	}
	if len(r.Errors) > 0 {
		lines = append(lines, "")
		lines = append(lines, warningStyle.Render(fmt.Sprintf("  %d errors occurred", len(r.Errors))))
	}

	return strings.Join(lines, "\n")
}
