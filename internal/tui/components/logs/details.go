package logs

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sst/multipick/internal/logging"
	"github.com/sst/multipick/internal/tui/layout"
	"github.com/sst/multipick/internal/tui/styles"
	"github.com/sst/multipick/internal/tui/theme"
)

type DetailComponent interface {
	tea.Model
	layout.Sizeable
	layout.Bindings
}

type detailCmp struct {
	width, height int
	currentLog    logging.Log
	viewport      viewport.Model
}

func (i *detailCmp) Init() tea.Cmd {
	return nil
}

func (i *detailCmp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SelectedLogMsg:
		if msg.ID != i.currentLog.ID {
			i.currentLog = logging.Log(msg)
			i.updateContent()
		}
	}
	return i, nil
}

func (i *detailCmp) updateContent() {
	t := theme.CurrentTheme()
	var content strings.Builder

	levelStyle := lipgloss.NewStyle().Bold(true)
	switch i.currentLog.Level {
	case "error":
		levelStyle = levelStyle.Foreground(t.Error())
	case "warn":
		levelStyle = levelStyle.Foreground(t.Warning())
	case "debug":
		levelStyle = levelStyle.Foreground(t.TextMuted())
	default:
		levelStyle = levelStyle.Foreground(t.Info())
	}

	content.WriteString(levelStyle.Render(strings.ToUpper(i.currentLog.Level)))
	content.WriteString(styles.Muted().Render(" " + i.currentLog.Timestamp.Local().Format("2006-01-02 15:04:05.000")))
	content.WriteString("\n\n")
	content.WriteString(lipgloss.NewStyle().Width(max(i.width-2, 1)).Render(i.currentLog.Message))
	content.WriteString("\n")

	if len(i.currentLog.Attributes) > 0 {
		content.WriteString("\n")
		keys := make([]string, 0, len(i.currentLog.Attributes))
		for k := range i.currentLog.Attributes {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			content.WriteString(fmt.Sprintf("%s %s\n",
				lipgloss.NewStyle().Foreground(t.Primary()).Render(k+":"),
				i.currentLog.Attributes[k],
			))
		}
	}

	i.viewport.SetContent(content.String())
}

func (i *detailCmp) View() string {
	return i.viewport.View()
}

func (i *detailCmp) GetSize() (int, int) {
	return i.width, i.height
}

func (i *detailCmp) SetSize(width int, height int) tea.Cmd {
	i.width = width
	i.height = height
	i.viewport.Width = width
	i.viewport.Height = height
	i.updateContent()
	return nil
}

func (i *detailCmp) BindingKeys() []key.Binding {
	return layout.KeyMapToSlice(i.viewport.KeyMap)
}

func NewLogsDetails() DetailComponent {
	return &detailCmp{
		viewport: viewport.New(0, 0),
	}
}
