package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sst/multipick/internal/app"
	"github.com/sst/multipick/internal/config"
	"github.com/sst/multipick/internal/pubsub"
	"github.com/sst/multipick/internal/selection"
	"github.com/sst/multipick/internal/tui/components/multiautocomplete"
	"github.com/sst/multipick/internal/tui/page"
	"github.com/sst/multipick/internal/tui/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) (*appModel, *app.App) {
	t.Helper()
	cfg := &config.Config{
		Picker: config.PickerConfig{
			MaxOptions: 2,
			Value:      []any{"Paris"},
			MinHeight:  3,
			MaxHeight:  10,
		},
		Suggestions: []any{"Paris", "Rome"},
	}
	a, err := app.New(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(a.Shutdown)

	m := New(a, nil).(*appModel)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, a
}

func TestDoneQuitsWithResult(t *testing.T) {
	m, _ := newTestModel(t)

	values, done := m.Result()
	assert.False(t, done)
	assert.Equal(t, []string{"Paris"}, selection.Labels(values))

	_, cmd := m.Update(multiautocomplete.DoneMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, done = m.Result()
	assert.True(t, done)
}

func TestQuitKeyLeavesResultUnconfirmed(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, done := m.Result()
	assert.False(t, done)
}

func TestPoolReloadReachesCompletions(t *testing.T) {
	m, a := newTestModel(t)

	pool := []selection.Suggestion{selection.Text("Oslo"), selection.Text("Bern")}
	m.Update(pubsub.Event[[]selection.Suggestion]{Type: pubsub.EventPoolReloaded, Payload: pool})
	assert.Equal(t, []string{"Oslo", "Bern"}, selection.Labels(a.Completions.Pool()))

	// Value events are not pool reloads.
	m.Update(pubsub.Event[[]selection.Suggestion]{Type: pubsub.EventValueChanged, Payload: nil})
	assert.Equal(t, []string{"Oslo", "Bern"}, selection.Labels(a.Completions.Pool()))
}

func TestLogsPageToggle(t *testing.T) {
	m, _ := newTestModel(t)
	require.Equal(t, page.FormPage, m.currentPage)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Equal(t, page.LogsPage, m.currentPage)
	assert.Contains(t, m.View(), "to go back")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, page.FormPage, m.currentPage)
}

func TestHelpListsPageBindings(t *testing.T) {
	m, _ := newTestModel(t)

	assert.NotContains(t, m.View(), "toggle help")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlUnderscore})
	view := m.View()
	assert.Contains(t, view, "toggle help")
	assert.Contains(t, view, "logs")
}

func TestSwitchThemeCycles(t *testing.T) {
	m, a := newTestModel(t)
	before := theme.CurrentThemeName()
	t.Cleanup(func() { theme.SetTheme(before) })

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.NotNil(t, cmd)
	assert.NotEqual(t, before, theme.CurrentThemeName())
	assert.Equal(t, theme.CurrentThemeName(), a.Config.TUI.Theme)
}
