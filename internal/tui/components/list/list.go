package list

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/truncate"
	"github.com/sst/multipick/internal/tui/layout"
	"github.com/sst/multipick/internal/tui/styles"
	"github.com/sst/multipick/internal/tui/theme"
)

type ListItem interface {
	Render(selected, checked bool, width int) string
}

type List[T ListItem] interface {
	tea.Model
	layout.Bindings
	SetMaxWidth(maxWidth int)
	SetMaxVisibleItems(n int)
	GetSelectedItem() (item T, idx int)
	SetItems(items []T)
	GetItems() []T
	SetSelectedIndex(idx int)
	SetEmptyMessage(msg string)
	IsEmpty() bool

	// Multi-select
	IsMultiSelect() bool
	Toggle(idx int) bool
	SetChecked(indices ...int)
	CheckAll()
	UncheckAll()
	CheckedItems() []T
	CheckedIndices() []int
	SetMaxChecked(n int)

	// ItemAt resolves a mouse event to the index of the item under it.
	ItemAt(msg tea.MouseMsg) (int, bool)
}

type listComponent[T ListItem] struct {
	fallbackMsg         string
	items               []T
	selectedIdx         int
	offset              int
	maxWidth            int
	maxVisibleItems     int
	useAlphaNumericKeys bool
	multiSelect         bool
	checked             map[int]bool
	maxChecked          int
	zones               *zone.Manager
	zonePrefix          string
}

type listKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	UpAlpha   key.Binding
	DownAlpha key.Binding
	Toggle    key.Binding
}

var simpleListKeys = listKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "previous list item"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "next list item"),
	),
	UpAlpha: key.NewBinding(
		key.WithKeys("k"),
		key.WithHelp("k", "previous list item"),
	),
	DownAlpha: key.NewBinding(
		key.WithKeys("j"),
		key.WithHelp("j", "next list item"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "space"),
		key.WithHelp("space", "check item"),
	),
}

type Option[T ListItem] func(*listComponent[T])

func WithItems[T ListItem](items []T) Option[T] {
	return func(c *listComponent[T]) {
		c.items = items
	}
}

func WithMaxVisibleItems[T ListItem](n int) Option[T] {
	return func(c *listComponent[T]) {
		c.maxVisibleItems = n
	}
}

func WithFallbackMessage[T ListItem](msg string) Option[T] {
	return func(c *listComponent[T]) {
		c.fallbackMsg = msg
	}
}

func WithAlphaNumericKeys[T ListItem](enabled bool) Option[T] {
	return func(c *listComponent[T]) {
		c.useAlphaNumericKeys = enabled
	}
}

// WithMultiSelect renders a checkbox in front of every item.
func WithMultiSelect[T ListItem](enabled bool) Option[T] {
	return func(c *listComponent[T]) {
		c.multiSelect = enabled
	}
}

// WithZones marks every rendered item as a clickable zone.
func WithZones[T ListItem](m *zone.Manager) Option[T] {
	return func(c *listComponent[T]) {
		c.zones = m
		if m != nil {
			c.zonePrefix = m.NewPrefix()
		}
	}
}

func NewListComponent[T ListItem](opts ...Option[T]) List[T] {
	c := &listComponent[T]{
		maxVisibleItems: 10,
		checked:         make(map[int]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *listComponent[T]) Init() tea.Cmd {
	return nil
}

func (c *listComponent[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, simpleListKeys.Up) || (c.useAlphaNumericKeys && key.Matches(msg, simpleListKeys.UpAlpha)):
			if c.selectedIdx > 0 {
				c.selectedIdx--
			}
			return c, nil
		case key.Matches(msg, simpleListKeys.Down) || (c.useAlphaNumericKeys && key.Matches(msg, simpleListKeys.DownAlpha)):
			if c.selectedIdx < len(c.items)-1 {
				c.selectedIdx++
			}
			return c, nil
		case c.multiSelect && key.Matches(msg, simpleListKeys.Toggle):
			c.Toggle(c.selectedIdx)
			return c, nil
		}
	}

	return c, nil
}

func (c *listComponent[T]) BindingKeys() []key.Binding {
	return layout.KeyMapToSlice(simpleListKeys)
}

func (c *listComponent[T]) GetSelectedItem() (T, int) {
	if len(c.items) > 0 {
		return c.items[c.selectedIdx], c.selectedIdx
	}

	var zero T
	return zero, -1
}

// SetItems replaces the items and clears the checked state.
func (c *listComponent[T]) SetItems(items []T) {
	c.selectedIdx = 0
	c.offset = 0
	c.items = items
	clear(c.checked)
}

func (c *listComponent[T]) GetItems() []T {
	return c.items
}

func (c *listComponent[T]) SetEmptyMessage(msg string) {
	c.fallbackMsg = msg
}

func (c *listComponent[T]) IsEmpty() bool {
	return len(c.items) == 0
}

func (c *listComponent[T]) SetMaxWidth(width int) {
	c.maxWidth = width
}

func (c *listComponent[T]) SetMaxVisibleItems(n int) {
	c.maxVisibleItems = max(n, 1)
}

func (c *listComponent[T]) SetSelectedIndex(idx int) {
	if idx >= 0 && idx < len(c.items) {
		c.selectedIdx = idx
	}
}

func (c *listComponent[T]) IsMultiSelect() bool {
	return c.multiSelect
}

// SetMaxChecked limits how many items can be checked. 0 means unbounded.
func (c *listComponent[T]) SetMaxChecked(n int) {
	c.maxChecked = max(n, 0)
}

func (c *listComponent[T]) canCheck() bool {
	return c.maxChecked == 0 || len(c.checked) < c.maxChecked
}

// Toggle flips the checked state of the item at idx. Checking fails once
// the limit is reached.
func (c *listComponent[T]) Toggle(idx int) bool {
	if idx < 0 || idx >= len(c.items) {
		return false
	}
	if c.checked[idx] {
		delete(c.checked, idx)
		return true
	}
	if !c.canCheck() {
		return false
	}
	c.checked[idx] = true
	return true
}

func (c *listComponent[T]) SetChecked(indices ...int) {
	clear(c.checked)
	for _, idx := range indices {
		if idx >= 0 && idx < len(c.items) && c.canCheck() {
			c.checked[idx] = true
		}
	}
}

// CheckAll checks items in order until the limit is reached.
func (c *listComponent[T]) CheckAll() {
	for idx := range c.items {
		if c.checked[idx] {
			continue
		}
		if !c.canCheck() {
			return
		}
		c.checked[idx] = true
	}
}

func (c *listComponent[T]) UncheckAll() {
	clear(c.checked)
}

func (c *listComponent[T]) CheckedIndices() []int {
	indices := make([]int, 0, len(c.checked))
	for idx := range c.items {
		if c.checked[idx] {
			indices = append(indices, idx)
		}
	}
	return indices
}

// CheckedItems returns the checked items in list order.
func (c *listComponent[T]) CheckedItems() []T {
	var items []T
	for _, idx := range c.CheckedIndices() {
		items = append(items, c.items[idx])
	}
	return items
}

func (c *listComponent[T]) zoneID(idx int) string {
	return fmt.Sprintf("%sitem-%d", c.zonePrefix, idx)
}

func (c *listComponent[T]) ItemAt(msg tea.MouseMsg) (int, bool) {
	if c.zones == nil {
		return 0, false
	}
	end := min(c.offset+c.maxVisibleItems, len(c.items))
	for idx := c.offset; idx < end; idx++ {
		if c.zones.Get(c.zoneID(idx)).InBounds(msg) {
			return idx, true
		}
	}
	return 0, false
}

func (c *listComponent[T]) View() string {
	items := c.items
	maxWidth := c.maxWidth
	if maxWidth == 0 {
		maxWidth = 80 // Default width if not set
	}
	maxVisibleItems := min(c.maxVisibleItems, len(items))
	startIdx := 0

	if len(items) <= 0 {
		return c.fallbackMsg
	}

	if len(items) > maxVisibleItems {
		halfVisible := maxVisibleItems / 2
		if c.selectedIdx >= halfVisible && c.selectedIdx < len(items)-halfVisible {
			startIdx = c.selectedIdx - halfVisible
		} else if c.selectedIdx >= len(items)-halfVisible {
			startIdx = len(items) - maxVisibleItems
		}
	}
	c.offset = startIdx

	endIdx := min(startIdx+maxVisibleItems, len(items))

	listItems := make([]string, 0, maxVisibleItems)

	for i := startIdx; i < endIdx; i++ {
		item := items[i]
		row := item.Render(i == c.selectedIdx, c.checked[i], maxWidth)
		if c.multiSelect {
			box := styles.UncheckedIcon
			if c.checked[i] {
				box = styles.CheckedIcon
			}
			row = box + " " + row
		}
		if c.zones != nil {
			row = c.zones.Mark(c.zoneID(i), row)
		}
		listItems = append(listItems, row)
	}

	return strings.Join(listItems, "\n")
}

// StringItem is a simple implementation of ListItem for string values
type StringItem string

func (s StringItem) Render(selected, checked bool, width int) string {
	t := theme.CurrentTheme()
	baseStyle := styles.Regular()

	truncatedStr := truncate.StringWithTail(string(s), uint(max(width-1, 0)), "...")

	itemStyle := baseStyle.Foreground(t.TextMuted()).PaddingLeft(1)
	if selected {
		itemStyle = baseStyle.
			Background(t.Primary()).
			Foreground(t.BackgroundElement()).
			Width(width).
			PaddingLeft(1)
	} else if checked {
		itemStyle = itemStyle.Foreground(t.Text())
	}

	return itemStyle.Render(truncatedStr)
}

// NewStringList creates a new list component with string items
func NewStringList(items []string, opts ...Option[StringItem]) List[StringItem] {
	stringItems := make([]StringItem, len(items))
	for i, item := range items {
		stringItems[i] = StringItem(item)
	}
	return NewListComponent(append([]Option[StringItem]{WithItems(stringItems)}, opts...)...)
}
