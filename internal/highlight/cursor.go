// Package highlight tracks which chips are marked for keyboard deletion
// and navigation.
package highlight

import (
	"maps"
	"slices"
)

// Cursor is a set of 1-based chip positions. Positions are snapshots taken
// at call time; the cursor never follows structural changes on its own.
type Cursor struct {
	positions map[int]struct{}
}

func New() *Cursor {
	return &Cursor{positions: make(map[int]struct{})}
}

// Add marks positions. Non-positive positions are ignored.
func (c *Cursor) Add(positions ...int) {
	for _, p := range positions {
		if p > 0 {
			c.positions[p] = struct{}{}
		}
	}
}

// Remove unmarks positions. With no arguments every position is cleared.
func (c *Cursor) Remove(positions ...int) {
	if len(positions) == 0 {
		c.Clear()
		return
	}
	for _, p := range positions {
		delete(c.positions, p)
	}
}

func (c *Cursor) Clear() {
	clear(c.positions)
}

// Current returns the marked positions in ascending order.
func (c *Cursor) Current() []int {
	return slices.Sorted(maps.Keys(c.positions))
}

func (c *Cursor) Contains(p int) bool {
	_, ok := c.positions[p]
	return ok
}

// Only reports whether p is the single marked position.
func (c *Cursor) Only(p int) bool {
	return len(c.positions) == 1 && c.Contains(p)
}

func (c *Cursor) Empty() bool {
	return len(c.positions) == 0
}

// First returns the smallest marked position.
func (c *Cursor) First() (int, bool) {
	cur := c.Current()
	if len(cur) == 0 {
		return 0, false
	}
	return cur[0], true
}

// Set replaces the marked positions.
func (c *Cursor) Set(positions ...int) {
	c.Clear()
	c.Add(positions...)
}

// AfterRemoval maps positions onto the chip sequence left after the chip at
// removed was taken out: later chips move down by one and removed itself is dropped.
func AfterRemoval(positions []int, removed int) []int {
	out := make([]int, 0, len(positions))
	for _, p := range positions {
		switch {
		case p < removed:
			out = append(out, p)
		case p > removed:
			out = append(out, p-1)
		}
	}
	return out
}

// AfterInsertion maps positions onto the chip sequence after a chip was
// inserted at the 1-based position inserted.
func AfterInsertion(positions []int, inserted int) []int {
	out := make([]int, 0, len(positions))
	for _, p := range positions {
		if p >= inserted {
			p++
		}
		out = append(out, p)
	}
	return out
}
