package page

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sst/multipick/internal/app"
	"github.com/sst/multipick/internal/config"
	"github.com/sst/multipick/internal/pubsub"
	"github.com/sst/multipick/internal/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	cfg := &config.Config{
		Picker: config.PickerConfig{
			FreeText:  true,
			Value:     []any{"Rome"},
			MinHeight: 3,
			MaxHeight: 10,
		},
		Suggestions: []any{"Paris", "Rome", "Madrid"},
	}
	a, err := app.New(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(a.Shutdown)
	return a
}

func TestFormPageStartsWithConfiguredValue(t *testing.T) {
	a := newTestApp(t)
	form := NewFormPage(a, nil)
	form.SetSize(80, 20)

	assert.Equal(t, []selection.Suggestion{selection.Text("Rome")}, form.Value())
	assert.Contains(t, form.View(), "Rome")
}

func TestFormPagePublishesValueChanges(t *testing.T) {
	a := newTestApp(t)
	form := NewFormPage(a, nil)
	form.Init()
	form.SetSize(80, 20)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := a.Values.Subscribe(ctx)

	for _, r := range "Lyon" {
		form.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	form.Update(tea.KeyMsg{Type: tea.KeyTab})

	want := []selection.Suggestion{selection.Text("Rome"), selection.Text("Lyon")}
	assert.Equal(t, want, form.Value())

	select {
	case event := <-events:
		assert.Equal(t, pubsub.EventValueChanged, event.Type)
		assert.Equal(t, want, event.Payload)
	case <-time.After(time.Second):
		t.Fatal("no value change published")
	}
}

func TestFormPageBindingsIncludeCopy(t *testing.T) {
	a := newTestApp(t)
	form := NewFormPage(a, nil)

	var helps []string
	for _, b := range form.BindingKeys() {
		helps = append(helps, b.Help().Key)
	}
	assert.Contains(t, helps, "ctrl+y")
	assert.Contains(t, helps, "tab")
}
