// Package multiautocomplete is a text entry that collects several values as
// chips, backed by an autocomplete pool and a dropdown.
package multiautocomplete

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/sst/multipick/internal/chip"
	"github.com/sst/multipick/internal/completions"
	"github.com/sst/multipick/internal/picker"
	"github.com/sst/multipick/internal/selection"
	"github.com/sst/multipick/internal/tui/components/list"
	"github.com/sst/multipick/internal/tui/util"
)

const doubleClickInterval = 400 * time.Millisecond

// Suggester is the autocomplete the component drives.
type Suggester interface {
	picker.Autocomplete
	Suggest(query string, limit int) []selection.Suggestion
	SetPool(pool []selection.Suggestion)
	EmptyMessage() string
}

type Options struct {
	Placeholder string
	// Value is replayed through the accept path once the picker is built.
	Value        any
	ExpandButton bool
	Ellipsis     bool
	MinHeight    int
	MaxHeight    int
	// SuggestionLimit caps the single-select dropdown. 0 shows every match.
	SuggestionLimit int
	Logger          *slog.Logger
}

type dropdownMode int

const (
	dropdownClosed dropdownMode = iota
	dropdownSingle
	dropdownExpanded
)

type click struct {
	index int
	at    time.Time
}

type Model struct {
	picker   *picker.Controller
	ac       Suggester
	input    textinput.Model
	chips    *chip.Renderer
	single   list.List[suggestionItem]
	expanded list.List[suggestionItem]
	zones    *zone.Manager
	geometry Geometry
	keys     KeyMap
	opts     Options
	logger   *slog.Logger

	width     int
	focused   bool
	mode      dropdownMode
	revision  int
	lastClick click
	now       func() time.Time

	frameID  string
	expandID string
}

// New builds the component. zones may be nil, which disables mouse support
// and dropdown placement.
func New(ac Suggester, zones *zone.Manager, opts Options, pickerOpts ...picker.Option) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	prefix := ""
	if zones != nil {
		prefix = zones.NewPrefix()
	}
	pickerOpts = append([]picker.Option{
		picker.WithAnchor(prefix + "entry"),
		picker.WithLogger(logger),
	}, pickerOpts...)

	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = opts.Placeholder

	chips := chip.NewRenderer(zones, ChipStyles())
	chips.SetEllipsis(opts.Ellipsis)

	m := &Model{
		picker: picker.New(ac, pickerOpts...),
		ac:     ac,
		input:  input,
		chips:  chips,
		single: list.NewListComponent(
			list.WithZones[suggestionItem](zones),
			list.WithFallbackMessage[suggestionItem](ac.EmptyMessage()),
		),
		expanded: list.NewListComponent(
			list.WithZones[suggestionItem](zones),
			list.WithMultiSelect[suggestionItem](true),
			list.WithFallbackMessage[suggestionItem]("no suggestions"),
		),
		zones:    zones,
		geometry: NewZoneGeometry(zones),
		keys:     DefaultKeyMap(),
		opts:     opts,
		logger:   logger.With("component", "multiautocomplete"),
		now:      time.Now,
		frameID:  prefix + "frame",
		expandID: prefix + "expand",
	}
	m.picker.Init(opts.Value)
	m.revision = m.picker.Revision()
	m.syncInput()
	return m
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case PoolReloadedMsg:
		m.ac.SetPool(msg.Pool)
		switch m.mode {
		case dropdownSingle:
			m.openSingle(true)
		case dropdownExpanded:
			m.openExpanded()
		}
	case ItemClickedMsg:
		m.picker.ClickItem(msg.Suggestion)
		cmds = append(cmds, m.closeDropdown())
	case SelectionChangedMsg:
		m.picker.ChangeItems(msg.Checked)
		cmds = append(cmds, m.closeDropdown())
	case tea.MouseMsg:
		cmds = append(cmds, m.handleMouse(msg))
	case tea.KeyMsg:
		if m.focused {
			cmds = append(cmds, m.handleKey(msg))
		}
	default:
		if m.focused {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}
	cmds = append(cmds, m.sync())
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.mode != dropdownClosed {
		if cmd, ok := m.handleDropdownKey(msg); ok {
			return cmd
		}
	}

	entryEmpty := m.input.Value() == ""
	entryBlank := strings.TrimSpace(m.input.Value()) == ""
	switch {
	case m.opts.ExpandButton && key.Matches(msg, m.keys.Expand):
		return m.toggleExpanded()
	case key.Matches(msg, m.keys.Down):
		m.openSingle(true)
		return nil
	case key.Matches(msg, m.keys.Tab):
		if m.picker.Tab() {
			return m.closeDropdown()
		}
		return util.CmdHandler(TabOutMsg{})
	case key.Matches(msg, m.keys.Enter):
		if strings.TrimSpace(m.input.Value()) == "" {
			return util.CmdHandler(DoneMsg{})
		}
		m.picker.Submit()
		return m.closeDropdown()
	case entryBlank && key.Matches(msg, m.keys.Backspace):
		m.picker.Backspace()
		return nil
	case entryBlank && key.Matches(msg, m.keys.Delete):
		m.picker.Delete()
		return nil
	case entryEmpty && key.Matches(msg, m.keys.Left):
		m.picker.Left()
		return nil
	case entryEmpty && key.Matches(msg, m.keys.Right):
		m.picker.Right()
		return nil
	case key.Matches(msg, m.keys.Escape):
		m.picker.Escape()
		return nil
	}
	return m.typeKey(msg)
}

// handleDropdownKey reports whether the open dropdown consumed the key.
func (m *Model) handleDropdownKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	expanded := m.mode == dropdownExpanded
	switch {
	case key.Matches(msg, m.keys.Escape):
		return m.closeDropdown(), true
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		m.active().Update(msg)
		return nil, true
	case expanded && key.Matches(msg, m.keys.Toggle):
		m.expanded.Update(msg)
		return nil, true
	case expanded && key.Matches(msg, m.keys.SelectAll):
		m.expanded.CheckAll()
		return m.confirmChecked(), true
	case expanded && key.Matches(msg, m.keys.DeselectAll):
		m.expanded.UncheckAll()
		return m.confirmChecked(), true
	case expanded && key.Matches(msg, m.keys.Enter):
		return m.confirmChecked(), true
	case key.Matches(msg, m.keys.Enter):
		item, idx := m.single.GetSelectedItem()
		if idx < 0 {
			return nil, false
		}
		return util.CmdHandler(ItemClickedMsg{Suggestion: item.Suggestion.Clone()}), true
	}
	return nil, false
}

func (m *Model) typeKey(msg tea.KeyMsg) tea.Cmd {
	if e := m.picker.Entry(); e.SelEnd > e.SelStart && replacesSelection(msg) {
		m.input.SetValue("")
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	text := m.picker.SetText(m.input.Value())
	if text != m.input.Value() {
		m.input.SetValue(text)
	}
	if strings.TrimSpace(text) == "" {
		if m.mode == dropdownSingle {
			return tea.Batch(cmd, m.closeDropdown())
		}
		return cmd
	}
	m.openSingle(false)
	return cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	if m.mode != dropdownClosed {
		if idx, ok := m.active().ItemAt(msg); ok {
			return m.clickItem(idx)
		}
	}
	if m.zones != nil && m.opts.ExpandButton && m.zones.Get(m.expandID).InBounds(msg) {
		return tea.Batch(m.Focus(), m.toggleExpanded())
	}
	if index, part, ok := m.chips.HitTest(msg); ok {
		return tea.Batch(m.Focus(), m.clickChip(index, part))
	}
	if m.zones != nil && m.zones.Get(m.frameID).InBounds(msg) {
		return m.Focus()
	}
	if m.focused || m.mode != dropdownClosed {
		return m.Blur()
	}
	return nil
}

func (m *Model) clickItem(idx int) tea.Cmd {
	if m.mode == dropdownExpanded {
		m.expanded.Toggle(idx)
		return m.confirmChecked()
	}
	m.single.SetSelectedIndex(idx)
	item, i := m.single.GetSelectedItem()
	if i < 0 {
		return nil
	}
	return util.CmdHandler(ItemClickedMsg{Suggestion: item.Suggestion.Clone()})
}

// clickChip applies a click on the chip at the 1-based index. Two clicks
// on the same label within doubleClickInterval are a double click.
func (m *Model) clickChip(index int, part chip.Part) tea.Cmd {
	switch part {
	case chip.PartClose:
		m.picker.ClickClose(index)
		m.lastClick = click{}
	case chip.PartLabel:
		now := m.now()
		if m.lastClick.index == index && now.Sub(m.lastClick.at) <= doubleClickInterval {
			m.picker.DoubleClickLabel(index)
			m.lastClick = click{}
			break
		}
		m.picker.ClickLabel(index)
		m.lastClick = click{index: index, at: now}
		if m.picker.EditMode() {
			m.lastClick = click{}
		}
	}
	return m.closeDropdown()
}

func (m *Model) confirmChecked() tea.Cmd {
	return util.CmdHandler(SelectionChangedMsg{Checked: fromItems(m.expanded.CheckedItems())})
}

func (m *Model) active() list.List[suggestionItem] {
	if m.mode == dropdownExpanded {
		return m.expanded
	}
	return m.single
}

// openSingle lists the candidates matching the entry that are not selected
// yet. With force the dropdown opens even for an empty entry.
func (m *Model) openSingle(force bool) {
	if m.picker.Full() {
		return
	}
	query := m.input.Value()
	if !force && strings.TrimSpace(query) == "" {
		return
	}
	matches := completions.Without(m.ac.Suggest(query, m.opts.SuggestionLimit), m.picker.Labels())
	m.single.SetItems(toItems(matches))
	m.single.SetEmptyMessage(m.ac.EmptyMessage())
	m.mode = dropdownSingle
}

// openExpanded lists the whole pool with the selected candidates checked.
func (m *Model) openExpanded() {
	m.picker.Blur()
	pool := m.ac.Pool()
	labels := m.picker.Labels()

	m.expanded.SetItems(toItems(pool))
	m.expanded.SetMaxChecked(0)
	var checked []int
	for i, s := range pool {
		if slices.ContainsFunc(labels, func(l string) bool { return strings.EqualFold(l, s.Label) }) {
			checked = append(checked, i)
		}
	}
	m.expanded.SetChecked(checked...)
	m.expanded.SetMaxChecked(m.picker.DropdownMaxOptions())
	m.mode = dropdownExpanded
}

func (m *Model) toggleExpanded() tea.Cmd {
	if m.mode == dropdownExpanded {
		return m.closeDropdown()
	}
	m.openExpanded()
	return nil
}

func (m *Model) closeDropdown() tea.Cmd {
	if m.mode == dropdownClosed {
		return nil
	}
	m.mode = dropdownClosed
	return util.CmdHandler(DropdownClosedMsg{})
}

// sync copies the entry state into the text input and reports a changed value.
func (m *Model) sync() tea.Cmd {
	m.syncInput()
	if rev := m.picker.Revision(); rev != m.revision {
		m.revision = rev
		return util.CmdHandler(ValueChangedMsg{Value: m.picker.Value(), Revision: rev})
	}
	return nil
}

func (m *Model) syncInput() {
	entry := m.picker.Entry()
	if entry.Text != m.input.Value() {
		m.input.SetValue(entry.Text)
		m.input.CursorEnd()
	}
	if m.picker.Count() == 0 {
		m.input.Placeholder = m.opts.Placeholder
	} else {
		m.input.Placeholder = ""
	}
}

func (m *Model) Focus() tea.Cmd {
	m.focused = true
	return m.input.Focus()
}

// Blur commits a pending edit and closes the dropdown.
func (m *Model) Blur() tea.Cmd {
	m.focused = false
	m.picker.Blur()
	m.input.Blur()
	return m.closeDropdown()
}

func (m *Model) Focused() bool {
	return m.focused
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	if g, ok := m.geometry.(*ZoneGeometry); ok {
		g.SetViewport(width, height)
	}
}

// SetGeometry replaces the bubblezone based geometry.
func (m *Model) SetGeometry(g Geometry) {
	m.geometry = g
}

func (m *Model) Keys() KeyMap {
	return m.keys
}

// Picker exposes the gesture interpreter for hosts that drive it directly.
func (m *Model) Picker() *picker.Controller {
	return m.picker
}

func (m *Model) Value() []selection.Suggestion {
	return m.picker.Value()
}

func (m *Model) DropdownOpen() bool {
	return m.mode != dropdownClosed
}

// replacesSelection reports whether msg overwrites selected entry text.
func replacesSelection(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace, tea.KeyBackspace, tea.KeyDelete:
		return true
	}
	return false
}
