// Package tui is the terminal dashboard
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"healthscore/internal/service"
)

// Screen identifiers
type Screen int

const (
	ScreenToday Screen = iota
	ScreenStress
	ScreenHunter
	ScreenFeatures
	ScreenSync
	ScreenHelp
)

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	today      DashboardModel
	stress     StressModel
	hunter     HunterModel
	features   FeaturesModel
	syncScreen SyncModel
	help       HelpModel

	// Services
	query   *service.QueryService
	scoring *service.ScoringService
	hunters *service.HunterService

	// Window dimensions
	width  int
	height int
}

// NewApp creates a new App with all dependencies
func NewApp(query *service.QueryService, scoring *service.ScoringService, hunters *service.HunterService) *App {
	day := initialDay(query)
	return &App{
		screen:     ScreenToday,
		query:      query,
		scoring:    scoring,
		hunters:    hunters,
		today:      NewDashboardModel(query, scoring, day),
		syncScreen: NewSyncModel(scoring, hunters, query),
		help:       NewHelpModel(),
	}
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.today.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global keybindings (unless a sync is running)
		if a.screen != ScreenSync || !a.syncScreen.syncing {
			switch msg.String() {
			case "q", "ctrl+c":
				return a, tea.Quit
			case "1":
				a.screen = ScreenToday
				a.today = NewDashboardModel(a.query, a.scoring, initialDay(a.query))
				return a, a.today.Init()
			case "2":
				a.screen = ScreenStress
				a.stress = NewStressModel(a.query, a.today.day, a.width, a.height)
				return a, a.stress.Init()
			case "3":
				a.screen = ScreenHunter
				a.hunter = NewHunterModel(a.hunters, a.today.day)
				return a, a.hunter.Init()
			case "4":
				a.screen = ScreenFeatures
				a.features = NewFeaturesModel(a.query, a.today.day, a.width, a.height)
				return a, a.features.Init()
			case "5", "s":
				if a.screen != ScreenSync {
					a.screen = ScreenSync
					return a, a.syncScreen.Init()
				}
				// Let 's' fall through to the sync screen when already there
			case "?":
				a.prevScreen = a.screen
				a.screen = ScreenHelp
				return a, nil
			case "esc":
				if a.screen == ScreenHelp {
					a.screen = a.prevScreen
					return a, nil
				}
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case SyncCompleteMsg:
		a.screen = ScreenToday
		a.today = NewDashboardModel(a.query, a.scoring, initialDay(a.query))
		return a, a.today.Init()
	}

	// Delegate to current screen
	var cmd tea.Cmd
	var m tea.Model
	switch a.screen {
	case ScreenToday:
		m, cmd = a.today.Update(msg)
		a.today = m.(DashboardModel)
	case ScreenStress:
		m, cmd = a.stress.Update(msg)
		a.stress = m.(StressModel)
	case ScreenHunter:
		m, cmd = a.hunter.Update(msg)
		a.hunter = m.(HunterModel)
	case ScreenFeatures:
		m, cmd = a.features.Update(msg)
		a.features = m.(FeaturesModel)
	case ScreenSync:
		m, cmd = a.syncScreen.Update(msg)
		a.syncScreen = m.(SyncModel)
	case ScreenHelp:
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	return a, cmd
}

// View renders the app
func (a *App) View() string {
	var content string
	switch a.screen {
	case ScreenToday:
		content = a.today.View()
	case ScreenStress:
		content = a.stress.View()
	case ScreenHunter:
		content = a.hunter.View()
	case ScreenFeatures:
		content = a.features.View()
	case ScreenSync:
		content = a.syncScreen.View()
	case ScreenHelp:
		content = a.help.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, a.renderHeader(), a.renderNav(), content)
}

func (a *App) renderHeader() string {
	return headerStyle.Render("healthscore · strain, recovery & stress")
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Today", ScreenToday},
		{"2", "Stress", ScreenStress},
		{"3", "Hunter", ScreenHunter},
		{"4", "Features", ScreenFeatures},
		{"5", "Sync", ScreenSync},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		if a.screen == item.screen {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}

// SyncCompleteMsg is sent when sync finishes
type SyncCompleteMsg struct{}
