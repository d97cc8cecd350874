package tui

import (
	"log/slog"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/sst/multipick/internal/app"
	"github.com/sst/multipick/internal/config"
	"github.com/sst/multipick/internal/logging"
	"github.com/sst/multipick/internal/pubsub"
	"github.com/sst/multipick/internal/selection"
	"github.com/sst/multipick/internal/status"
	"github.com/sst/multipick/internal/tui/components/core"
	"github.com/sst/multipick/internal/tui/components/logs"
	"github.com/sst/multipick/internal/tui/components/multiautocomplete"
	"github.com/sst/multipick/internal/tui/layout"
	"github.com/sst/multipick/internal/tui/page"
	"github.com/sst/multipick/internal/tui/styles"
	"github.com/sst/multipick/internal/tui/theme"
)

type keyMap struct {
	Logs        key.Binding
	Quit        key.Binding
	Help        key.Binding
	SwitchTheme key.Binding
}

var keys = keyMap{
	Logs: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "logs"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("ctrl+_"),
		key.WithHelp("ctrl+?", "toggle help"),
	),
	SwitchTheme: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("ctrl+t", "switch theme"),
	),
}

var logsKeyReturnKey = key.NewBinding(
	key.WithKeys("esc", "q"),
	key.WithHelp("esc/q", "go back"),
)

// Model is the root program model. Result reports the selection once the
// user confirmed it.
type Model interface {
	tea.Model
	Result() ([]selection.Suggestion, bool)
}

type appModel struct {
	width, height int
	currentPage   page.PageID
	previousPage  page.PageID
	pages         map[page.PageID]tea.Model
	loadedPages   map[page.PageID]bool
	form          page.Form
	status        core.StatusCmp
	app           *app.App
	zones         *zone.Manager

	showHelp bool
	help     help.Model

	done bool
}

func (a *appModel) Init() tea.Cmd {
	var cmds []tea.Cmd
	cmds = append(cmds, a.pages[a.currentPage].Init())
	a.loadedPages[a.currentPage] = true
	cmds = append(cmds, a.status.Init())
	return tea.Batch(cmds...)
}

func (a *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.help.Width = msg.Width
		s, _ := a.status.Update(msg)
		a.status = s.(core.StatusCmp)

		msg.Height -= 2 // Make space for the status bar
		a.width, a.height = msg.Width, msg.Height
		a.pages[a.currentPage], cmd = a.pages[a.currentPage].Update(msg)
		return a, cmd

	case page.PageChangeMsg:
		return a, a.moveToPage(msg.ID)

	case pubsub.Event[logging.Log]:
		a.pages[page.LogsPage], cmd = a.pages[page.LogsPage].Update(msg)
		return a, cmd

	case logs.SelectedLogMsg:
		a.pages[page.LogsPage], cmd = a.pages[page.LogsPage].Update(msg)
		return a, cmd

	case pubsub.Event[status.StatusMessage]:
		s, cmd := a.status.Update(msg)
		a.status = s.(core.StatusCmp)
		return a, cmd

	case pubsub.Event[[]selection.Suggestion]:
		if msg.Type != pubsub.EventPoolReloaded {
			return a, nil
		}
		_, cmd = a.form.Update(multiautocomplete.PoolReloadedMsg{Pool: msg.Payload})
		return a, cmd

	case multiautocomplete.ValueChangedMsg:
		s, cmd := a.status.Update(msg)
		a.status = s.(core.StatusCmp)
		cmds = append(cmds, cmd)
		_, cmd = a.form.Update(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case multiautocomplete.DoneMsg:
		a.done = true
		return a, tea.Quit

	case tea.MouseMsg:
		if a.currentPage != page.FormPage {
			return a, nil
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			return a, nil
		case key.Matches(msg, keys.SwitchTheme):
			return a, a.switchTheme()
		case key.Matches(msg, keys.Logs):
			if a.currentPage == page.LogsPage {
				return a, a.moveToPage(a.previousPage)
			}
			return a, a.moveToPage(page.LogsPage)
		case a.currentPage == page.LogsPage && key.Matches(msg, logsKeyReturnKey):
			if a.showHelp {
				a.showHelp = false
				return a, nil
			}
			return a, a.moveToPage(page.FormPage)
		}
	}

	s, cmd := a.status.Update(msg)
	a.status = s.(core.StatusCmp)
	cmds = append(cmds, cmd)
	a.pages[a.currentPage], cmd = a.pages[a.currentPage].Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a *appModel) moveToPage(pageID page.PageID) tea.Cmd {
	if pageID == "" || pageID == a.currentPage {
		return nil
	}
	var cmds []tea.Cmd
	if _, ok := a.loadedPages[pageID]; !ok {
		cmd := a.pages[pageID].Init()
		cmds = append(cmds, cmd)
		a.loadedPages[pageID] = true
	}
	a.previousPage = a.currentPage
	a.currentPage = pageID
	if sizable, ok := a.pages[a.currentPage].(layout.Sizeable); ok {
		cmd := sizable.SetSize(a.width, a.height)
		cmds = append(cmds, cmd)
	}

	return tea.Batch(cmds...)
}

// switchTheme activates the next registered theme and saves it to the
// user configuration.
func (a *appModel) switchTheme() tea.Cmd {
	names := theme.AvailableThemes()
	if len(names) == 0 {
		return nil
	}
	next := names[(slices.Index(names, theme.CurrentThemeName())+1)%len(names)]
	if err := theme.SetTheme(next); err != nil {
		status.Error(err.Error())
		return nil
	}
	a.app.Config.TUI.Theme = next
	return func() tea.Msg {
		if err := config.UpdateTheme(next); err != nil {
			slog.Warn("Failed to save theme", "theme", next, "error", err)
			status.Warn("Theme not saved: " + err.Error())
			return nil
		}
		status.Info("Theme changed to: " + next)
		return nil
	}
}

func (a *appModel) bindings() []key.Binding {
	bindings := layout.KeyMapToSlice(keys)
	if p, ok := a.pages[a.currentPage].(layout.Bindings); ok {
		bindings = append(bindings, p.BindingKeys()...)
	}
	if a.currentPage == page.LogsPage {
		bindings = append(bindings, logsKeyReturnKey)
	}
	return bindings
}

func (a *appModel) View() string {
	components := []string{
		a.pages[a.currentPage].View(),
	}

	if a.showHelp {
		overlay := styles.Border().
			Padding(0, 1).
			Render(a.help.FullHelpView(chunk(a.bindings(), 6)))
		components = append(components, overlay)
	}

	a.status.SetHelpWidgetMsg("ctrl+? help")
	components = append(components, a.status.View())

	appView := lipgloss.JoinVertical(lipgloss.Top, components...)
	if a.zones == nil {
		return appView
	}
	return a.zones.Scan(appView)
}

func (a *appModel) Result() ([]selection.Suggestion, bool) {
	return a.form.Value(), a.done
}

// chunk splits bindings into help columns.
func chunk(bindings []key.Binding, size int) [][]key.Binding {
	var groups [][]key.Binding
	for len(bindings) > size {
		groups = append(groups, bindings[:size])
		bindings = bindings[size:]
	}
	if len(bindings) > 0 {
		groups = append(groups, bindings)
	}
	return groups
}

// New builds the root model. zones may be nil, in which case mouse gestures
// on chips are not recognised.
func New(a *app.App, zones *zone.Manager) Model {
	form := page.NewFormPage(a, zones)
	model := &appModel{
		currentPage:  page.FormPage,
		previousPage: page.FormPage,
		loadedPages:  make(map[page.PageID]bool),
		form:         form,
		status:       core.NewStatusCmp(len(form.Value()), a.Config.Picker.MaxOptions, a.Config.Picker.FreeText),
		app:          a,
		zones:        zones,
		help:         help.New(),
		pages: map[page.PageID]tea.Model{
			page.FormPage: form,
			page.LogsPage: page.NewLogsPage(a.Logs),
		},
	}
	return model
}
