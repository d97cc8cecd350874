package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursor(t *testing.T) {
	t.Parallel()

	c := New()
	assert.True(t, c.Empty())
	assert.Empty(t, c.Current())

	c.Add(3, 1, 0, -2)
	assert.Equal(t, []int{1, 3}, c.Current())
	assert.False(t, c.Only(1))

	first, ok := c.First()
	assert.True(t, ok)
	assert.Equal(t, 1, first)

	c.Remove(1)
	assert.True(t, c.Only(3))

	c.Add(5)
	c.Remove()
	assert.True(t, c.Empty())

	c.Set(2)
	assert.Equal(t, []int{2}, c.Current())
}

func TestAfterRemoval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		positions []int
		removed   int
		want      []int
	}{
		{name: "later positions shift", positions: []int{1, 3, 4}, removed: 2, want: []int{1, 2, 3}},
		{name: "removed position dropped", positions: []int{2}, removed: 2, want: []int{}},
		{name: "earlier positions stay", positions: []int{1}, removed: 3, want: []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, AfterRemoval(tt.positions, tt.removed))
		})
	}
}

func TestAfterInsertion(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int{1, 3, 4}, AfterInsertion([]int{1, 2, 3}, 2))
	assert.Equal(t, []int{1}, AfterInsertion([]int{1}, 2))
}
