package picker

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/sst/multipick/internal/highlight"
	"github.com/sst/multipick/internal/pubsub"
	"github.com/sst/multipick/internal/selection"
)

// Controller interprets gestures on a multi-value picker. It is not safe
// for concurrent use; a bubbletea model drives it from Update.
type Controller struct {
	state    State
	ac       Autocomplete
	pub      pubsub.Publisher[[]selection.Suggestion]
	logger   *slog.Logger
	anchor   string
	revision int
	busy     bool
}

type Option func(*Controller)

// WithMaxOptions limits the number of selected values. 0 means unbounded.
func WithMaxOptions(n int) Option {
	return func(c *Controller) {
		c.state.Store = selection.NewStore(n)
	}
}

// WithFreeText allows values that are not part of the candidate pool.
func WithFreeText(enabled bool) Option {
	return func(c *Controller) {
		c.state.FreeText = enabled
	}
}

// WithPublisher receives a value_changed event after every change of the selection.
func WithPublisher(p pubsub.Publisher[[]selection.Suggestion]) Option {
	return func(c *Controller) {
		c.pub = p
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithAnchor sets the zone id of the text entry.
func WithAnchor(id string) Option {
	return func(c *Controller) {
		c.anchor = id
	}
}

func New(ac Autocomplete, opts ...Option) *Controller {
	c := &Controller{
		state: State{
			Store:     selection.NewStore(0),
			Highlight: highlight.New(),
		},
		ac:     ac,
		logger: slog.Default(),
		anchor: "multipick-entry",
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "picker")
	return c
}

// Init replays a configured initial value through the accept path.
func (c *Controller) Init(initial any) {
	if initial == nil {
		return
	}
	c.run("init", func() {
		if err := c.reactToReport(c.ac.CheckValue(initial, true)); err != nil {
			c.logger.Debug("Initial value rejected", "error", err)
		}
	})
}

// ReactToReport applies an autocomplete report: the entry text and caret
// first, then the values it carries.
func (c *Controller) ReactToReport(r *Report) error {
	var err error
	c.run("report", func() {
		err = c.reactToReport(r)
	})
	return err
}

func (c *Controller) reactToReport(r *Report) error {
	if r == nil {
		return nil
	}
	c.applyEntry(r)
	if r.Value == nil {
		return nil
	}
	return c.addValues(r)
}

func (c *Controller) applyEntry(r *Report) {
	e := &c.state.Entry
	if r.Text != nil {
		e.Text = *r.Text
	}
	if r.CaretPosStart != nil {
		e.SelStart = *r.CaretPosStart
	}
	if r.CaretPosEnd != nil {
		e.SelEnd = *r.CaretPosEnd
	}
}

func (c *Controller) addValues(r *Report) error {
	st := &c.state
	values, isSlice, err := toSuggestions(r.SuggestionsToAdd)

	valid := false
	if st.EditMode {
		_, valid = r.SuggestionsToAdd.(string)
	} else {
		switch r.SuggestionsToAdd.(type) {
		case selection.Suggestion, []selection.Suggestion:
			valid = true
		}
	}
	if st.FreeText && err == nil && len(values) > 0 {
		valid = true
	}
	if st.Store.Full() {
		st.Entry.Text = ""
	}
	if !valid || err != nil || len(values) == 0 {
		if err == nil {
			err = fmt.Errorf("%w: %T", selection.ErrInvalidSuggestionShape, r.SuggestionsToAdd)
		}
		c.logger.Debug("Report not accepted", "edit_mode", st.EditMode, "error", err)
		return err
	}

	if isSlice {
		if rem := st.Store.Remaining(); rem >= 0 {
			values = values[:min(rem, len(values))]
		}
	} else if st.Store.Full() {
		values = nil
	}

	if st.EditMode && st.Edited != nil && len(values) == 1 && values[0].Label == st.Edited.Label {
		values[0] = *st.Edited
	}

	added := 0
	for _, v := range values {
		at := st.Entry.Slot + added
		before := st.Store.Count()
		if err := st.Store.Insert(at, v); err != nil {
			c.logger.Debug("Value not added", "label", v.Label, "error", err)
			continue
		}
		if st.Store.Count() > before {
			st.Highlight.Set(highlight.AfterInsertion(st.Highlight.Current(), at+1)...)
			added++
		}
	}

	st.EditMode = false
	st.Edited = nil
	st.Entry = Entry{Slot: st.Store.Count()}
	if added > 0 {
		c.changed()
	}
	return nil
}

// toSuggestions normalizes the shapes an autocomplete may hand over.
func toSuggestions(v any) ([]selection.Suggestion, bool, error) {
	switch v := v.(type) {
	case nil:
		return nil, false, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, false, nil
		}
		return []selection.Suggestion{selection.Text(v)}, false, nil
	case selection.Suggestion:
		return []selection.Suggestion{v}, false, nil
	case []selection.Suggestion:
		return v, true, nil
	case []string:
		out := make([]selection.Suggestion, len(v))
		for i, s := range v {
			out[i] = selection.Text(s)
		}
		return out, true, nil
	case []any:
		out, err := selection.FromAnySlice(v)
		return out, true, err
	default:
		return nil, false, fmt.Errorf("%w: %T", selection.ErrInvalidSuggestionShape, v)
	}
}

// removeAt removes the chip at the 0-based index i and re-derives the
// highlight and slot positions.
func (c *Controller) removeAt(i int) bool {
	st := &c.state
	v, ok := st.Store.At(i)
	if !ok {
		return false
	}
	if _, err := st.Store.RemoveByLabel(v.Label); err != nil {
		c.logger.Debug("Remove failed", "index", i, "error", err)
		return false
	}

	positions := highlight.AfterRemoval(st.Highlight.Current(), i+1)
	st.Highlight.Clear()
	for _, p := range positions {
		if p <= st.Store.Count() {
			st.Highlight.Add(p)
		}
	}
	if i < st.Entry.Slot {
		st.Entry.Slot--
	}
	c.changed()
	return true
}

// resolvePendingEdit commits (or discards, when the entry is blank) an
// edit in progress. index is a 0-based chip index which is returned
// adjusted for a chip the commit re-inserted before it.
func (c *Controller) resolvePendingEdit(index int) int {
	st := &c.state
	if !st.EditMode {
		return index
	}

	slot := st.Entry.Slot
	before := st.Store.Count()
	if strings.TrimSpace(st.Entry.Text) != "" {
		if err := c.reactToReport(c.ac.CheckText(st.Entry.Text, false)); err != nil {
			c.logger.Debug("Pending edit not committed", "error", err)
		}
	}
	if st.EditMode {
		st.EditMode = false
		st.Edited = nil
		st.Entry = Entry{Slot: st.Store.Count()}
	}
	if inserted := st.Store.Count() - before; inserted > 0 && index >= slot {
		index += inserted
	}
	return index
}

func (c *Controller) enterEdit(i int) {
	st := &c.state
	v, ok := st.Store.At(i)
	if !ok {
		return
	}
	if !c.removeAt(i) {
		return
	}
	st.Edited = &v
	st.EditMode = true
	st.Entry = Entry{Text: v.Label, Slot: i}
	st.Highlight.Clear()

	r := c.ac.CheckValue(v.Label, false)
	if r == nil {
		r = &Report{}
	}
	if r.Text == nil {
		r.Text = ptr(v.Label)
	}
	r.CaretPosStart = ptr(0)
	r.CaretPosEnd = ptr(len([]rune(v.Label)))
	c.applyEntry(r)
}

func (c *Controller) changed() {
	c.revision++
	if c.pub != nil {
		c.pub.Publish(pubsub.EventValueChanged, c.state.Store.Snapshot())
	}
}

// run executes one gesture. A gesture fired while another one is still
// mutating state is dropped.
func (c *Controller) run(name string, fn func()) bool {
	if c.busy {
		c.logger.Debug("Dropping nested gesture", "gesture", name)
		return false
	}
	c.busy = true
	defer func() { c.busy = false }()
	fn()
	return true
}

// Value returns a copy of the selected values in chip order.
func (c *Controller) Value() []selection.Suggestion {
	return c.state.Store.Snapshot()
}

// Revision increases on every change of the selection.
func (c *Controller) Revision() int {
	return c.revision
}

func (c *Controller) Labels() []string {
	return c.state.Store.Labels()
}

func (c *Controller) Count() int {
	return c.state.Store.Count()
}

func (c *Controller) MaxCount() int {
	return c.state.Store.MaxCount()
}

func (c *Controller) Full() bool {
	return c.state.Store.Full()
}

func (c *Controller) FreeText() bool {
	return c.state.FreeText
}

func (c *Controller) EditMode() bool {
	return c.state.EditMode
}

func (c *Controller) Entry() Entry {
	return c.state.Entry
}

// ValidationAnchor is the zone id popups are positioned against.
func (c *Controller) ValidationAnchor() string {
	return c.anchor
}

// Pool returns the candidate pool of the autocomplete.
func (c *Controller) Pool() []selection.Suggestion {
	return c.ac.Pool()
}

// AddHighlight marks chips. Positions outside 1..Count() are ignored.
func (c *Controller) AddHighlight(positions ...int) {
	for _, p := range positions {
		if p >= 1 && p <= c.state.Store.Count() {
			c.state.Highlight.Add(p)
		}
	}
}

// RemoveHighlight unmarks chips; with no positions it unmarks all of them.
func (c *Controller) RemoveHighlight(positions ...int) {
	c.state.Highlight.Remove(positions...)
}

func (c *Controller) Highlight() []int {
	return c.state.Highlight.Current()
}

// DropdownMaxOptions is how many items the expanded dropdown lets the user
// check: the limit while it is not reached, then the number of selected
// pool records. 0 means unbounded.
func (c *Controller) DropdownMaxOptions() int {
	st := c.state.Store
	if st.MaxCount() == 0 {
		return 0
	}
	if st.Count() < st.MaxCount() {
		return st.MaxCount()
	}
	n := 0
	for _, v := range st.Snapshot() {
		if v.Structured {
			n++
		}
	}
	return n
}
