package page

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/sst/multipick/internal/app"
	"github.com/sst/multipick/internal/format"
	"github.com/sst/multipick/internal/picker"
	"github.com/sst/multipick/internal/selection"
	"github.com/sst/multipick/internal/status"
	"github.com/sst/multipick/internal/tui/components/multiautocomplete"
	"github.com/sst/multipick/internal/tui/layout"
	"github.com/sst/multipick/internal/tui/styles"
	"github.com/sst/multipick/internal/tui/theme"
)

var FormPage PageID = "form"

type Form interface {
	tea.Model
	layout.Sizeable
	layout.Bindings
	Value() []selection.Suggestion
}

type formKeyMap struct {
	multiautocomplete.KeyMap
	Copy key.Binding
}

func (k formKeyMap) ShortHelp() []key.Binding {
	return append(k.KeyMap.ShortHelp(), k.Copy)
}

func (k formKeyMap) FullHelp() [][]key.Binding {
	return append(k.KeyMap.FullHelp(), []key.Binding{k.Copy})
}

type formPage struct {
	width, height int
	app           *app.App
	picker        *multiautocomplete.Model
	help          help.Model
	keys          formKeyMap
}

// copiedMsg reports the outcome of a clipboard write.
type copiedMsg struct {
	count int
	err   error
}

func (p *formPage) Init() tea.Cmd {
	return tea.Batch(p.picker.Init(), p.picker.Focus())
}

func (p *formPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return p, p.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if key.Matches(msg, p.keys.Copy) {
			return p, p.copyValue()
		}
	case copiedMsg:
		if msg.err != nil {
			status.Error("Failed to copy to clipboard: " + msg.err.Error())
		} else {
			status.Info(fmt.Sprintf("Copied %d values to clipboard", msg.count))
		}
		return p, nil
	case multiautocomplete.ValueChangedMsg:
		if p.app.Config.Picker.MaxOptions > 0 && len(msg.Value) == p.app.Config.Picker.MaxOptions {
			status.Warn(fmt.Sprintf("Limit of %d values reached", p.app.Config.Picker.MaxOptions))
		}
	}

	_, cmd := p.picker.Update(msg)
	return p, cmd
}

func (p *formPage) copyValue() tea.Cmd {
	values := p.picker.Value()
	return func() tea.Msg {
		text, err := format.FormatOutput(values, format.TextFormat)
		if err == nil {
			err = clipboard.WriteAll(text)
		}
		return copiedMsg{count: len(values), err: err}
	}
}

func (p *formPage) View() string {
	t := theme.CurrentTheme()

	title := lipgloss.NewStyle().
		Foreground(t.Primary()).
		Bold(true).
		Render(styles.AppIcon + " multipick")
	p.help.Width = p.width

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		p.picker.View(),
		"",
		p.help.View(p.keys),
	)
}

func (p *formPage) BindingKeys() []key.Binding {
	return append(layout.KeyMapToSlice(p.keys.KeyMap), p.keys.Copy)
}

func (p *formPage) GetSize() (int, int) {
	return p.width, p.height
}

func (p *formPage) SetSize(width, height int) tea.Cmd {
	p.width = width
	p.height = height
	p.picker.SetSize(width, height)
	return nil
}

func (p *formPage) Value() []selection.Suggestion {
	return p.picker.Value()
}

// NewFormPage builds the picker from the loaded configuration.
func NewFormPage(a *app.App, zones *zone.Manager) Form {
	cfg := a.Config
	pickerModel := multiautocomplete.New(
		a.Completions,
		zones,
		multiautocomplete.Options{
			Placeholder:  cfg.Picker.Placeholder,
			Value:        cfg.InitialValue(),
			ExpandButton: cfg.Picker.ExpandButton,
			Ellipsis:     cfg.Picker.Ellipsis,
			MinHeight:    cfg.Picker.MinHeight,
			MaxHeight:    cfg.Picker.MaxHeight,
		},
		picker.WithMaxOptions(cfg.Picker.MaxOptions),
		picker.WithFreeText(cfg.Picker.FreeText),
		picker.WithPublisher(a.Values),
	)

	keys := formKeyMap{
		KeyMap: pickerModel.Keys(),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy values"),
		),
	}

	return &formPage{
		app:    a,
		picker: pickerModel,
		help:   help.New(),
		keys:   keys,
	}
}
