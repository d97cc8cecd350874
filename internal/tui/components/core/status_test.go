package core

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sst/multipick/internal/pubsub"
	"github.com/sst/multipick/internal/selection"
	"github.com/sst/multipick/internal/status"
	"github.com/sst/multipick/internal/tui/components/multiautocomplete"
	"github.com/stretchr/testify/assert"
)

func TestFormatCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2 selected", formatCount(2, 0))
	assert.Equal(t, "2/3 selected", formatCount(2, 3))
}

func TestStatusBar(t *testing.T) {
	t.Parallel()

	bar := NewStatusCmp(0, 3, true)
	bar.Update(tea.WindowSizeMsg{Width: 120, Height: 1})
	bar.Update(multiautocomplete.ValueChangedMsg{
		Value: []selection.Suggestion{selection.Text("Lyon"), selection.Text("Oslo")},
	})

	at := time.Now()
	bar.Update(pubsub.Event[status.StatusMessage]{
		Type:    pubsub.EventCreated,
		Payload: status.StatusMessage{Level: status.LevelInfo, Message: "Copied 2 values", Timestamp: at},
	})

	view := bar.View()
	assert.Contains(t, view, "2/3 selected")
	assert.Contains(t, view, "free text")
	assert.Contains(t, view, "Copied 2 values")

	bar.Update(statusCleanupMsg{time: at.Add(status.DefaultTTL + time.Second)})
	assert.NotContains(t, bar.View(), "Copied 2 values")
}
