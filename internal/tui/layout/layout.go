package layout

import (
	"reflect"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type Focusable interface {
	Focus() tea.Cmd
	Blur() tea.Cmd
	IsFocused() bool
}

type Sizeable interface {
	SetSize(width, height int) tea.Cmd
	GetSize() (int, int)
}

type Bindings interface {
	BindingKeys() []key.Binding
}

// KeyMapToSlice collects the key.Binding fields of a keymap struct.
func KeyMapToSlice(t any) (bindings []key.Binding) {
	typ := reflect.TypeOf(t)
	if typ.Kind() != reflect.Struct {
		return nil
	}
	for i := range typ.NumField() {
		if !typ.Field(i).IsExported() {
			continue
		}
		v := reflect.ValueOf(t).Field(i)
		if b, ok := v.Interface().(key.Binding); ok {
			bindings = append(bindings, b)
		}
	}
	return
}
