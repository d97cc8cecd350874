package layout

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
)

func TestKeyMapToSlice(t *testing.T) {
	t.Parallel()

	km := struct {
		Up    key.Binding
		Down  key.Binding
		label string
	}{
		Up:    key.NewBinding(key.WithKeys("up")),
		Down:  key.NewBinding(key.WithKeys("down")),
		label: "ignored",
	}

	bindings := KeyMapToSlice(km)
	assert.Len(t, bindings, 2)
	assert.Equal(t, []string{"up"}, bindings[0].Keys())
	assert.Nil(t, KeyMapToSlice("not a struct"))
}
