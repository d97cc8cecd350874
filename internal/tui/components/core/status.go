package core

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/sst/multipick/internal/pubsub"
	"github.com/sst/multipick/internal/status"
	"github.com/sst/multipick/internal/tui/components/multiautocomplete"
	"github.com/sst/multipick/internal/tui/styles"
	"github.com/sst/multipick/internal/tui/theme"
)

type StatusCmp interface {
	tea.Model
	SetHelpWidgetMsg(string)
}

type statusCmp struct {
	statusMessages []status.StatusMessage
	width          int
	selected       int
	maxCount       int
	freeText       bool
	helpText       string
}

// clearMessageCmd is a command that clears status messages after a timeout
func (m *statusCmp) clearMessageCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return statusCleanupMsg{time: t}
	})
}

// statusCleanupMsg is a message that triggers cleanup of expired status messages
type statusCleanupMsg struct {
	time time.Time
}

func (m *statusCmp) Init() tea.Cmd {
	return m.clearMessageCmd()
}

func (m *statusCmp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case multiautocomplete.ValueChangedMsg:
		m.selected = len(msg.Value)
	case pubsub.Event[status.StatusMessage]:
		if msg.Type == pubsub.EventCreated {
			m.statusMessages = append(m.statusMessages, msg.Payload)
		}
	case statusCleanupMsg:
		var active []status.StatusMessage
		for _, sm := range m.statusMessages {
			if !sm.Expired(msg.time) {
				active = append(active, sm)
			}
		}
		m.statusMessages = active
		return m, m.clearMessageCmd()
	}
	return m, nil
}

// getHelpWidget returns the help widget with current theme colors
func getHelpWidget(helpText string) string {
	t := theme.CurrentTheme()
	if helpText == "" {
		helpText = "ctrl+? help"
	}

	return styles.Padded().
		Background(t.TextMuted()).
		Foreground(t.BackgroundPanel()).
		Bold(true).
		Render(helpText)
}

// formatCount renders the number of selected values against the limit.
func formatCount(selected, maxCount int) string {
	if maxCount <= 0 {
		return fmt.Sprintf("%d selected", selected)
	}
	return fmt.Sprintf("%d/%d selected", selected, maxCount)
}

func (m *statusCmp) View() string {
	t := theme.CurrentTheme()

	status := getHelpWidget(m.helpText)

	countStyle := styles.Padded().
		Background(t.Text()).
		Foreground(t.BackgroundPanel())
	if m.maxCount > 0 && m.selected >= m.maxCount {
		countStyle = countStyle.Background(t.Warning())
	}
	status += countStyle.Render(formatCount(m.selected, m.maxCount))

	mode := "pool only"
	if m.freeText {
		mode = "free text"
	}
	modeView := styles.Padded().
		Background(t.BackgroundElement()).
		Foreground(t.TextMuted()).
		Render(mode)

	themeName := styles.Padded().
		Background(t.Secondary()).
		Foreground(t.Background()).
		Render(theme.CurrentThemeName())

	statusWidth := max(
		0,
		m.width-
			lipgloss.Width(status)-
			lipgloss.Width(modeView)-
			lipgloss.Width(themeName),
	)

	// Display the first status message if available
	if len(m.statusMessages) > 0 {
		sm := m.statusMessages[0]
		infoStyle := styles.Padded().
			Foreground(t.Background()).
			Width(statusWidth)

		switch sm.Level {
		case "info":
			infoStyle = infoStyle.Background(t.Info())
		case "warn":
			infoStyle = infoStyle.Background(t.Warning())
		case "error":
			infoStyle = infoStyle.Background(t.Error())
		case "debug":
			infoStyle = infoStyle.Background(t.TextMuted())
		}

		msg := truncate.StringWithTail(sm.Message, uint(max(statusWidth-2, 0)), "...")
		status += infoStyle.Render(msg)
	} else {
		status += styles.Padded().
			Foreground(t.Text()).
			Background(t.BackgroundPanel()).
			Width(statusWidth).
			Render("")
	}

	status += modeView
	status += themeName
	return status
}

func (m *statusCmp) SetHelpWidgetMsg(s string) {
	m.helpText = s
}

func NewStatusCmp(selected, maxCount int, freeText bool) StatusCmp {
	return &statusCmp{
		selected: selected,
		maxCount: maxCount,
		freeText: freeText,
	}
}
