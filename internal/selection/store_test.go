package selection

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAdd(t *testing.T) {
	t.Parallel()

	t.Run("keeps insertion order", func(t *testing.T) {
		t.Parallel()
		s := NewStore(0)
		require.NoError(t, s.Add(Text("Paris")))
		require.NoError(t, s.Add(Record("London", "LON")))
		require.NoError(t, s.Add(Text("Rome")))

		assert.Equal(t, []string{"Paris", "London", "Rome"}, s.Labels())
		assert.Equal(t, 3, s.Count())
	})

	t.Run("duplicate label is ignored", func(t *testing.T) {
		t.Parallel()
		s := NewStore(0)
		require.NoError(t, s.Add(Text("Paris")))
		require.NoError(t, s.Add(Text("Paris")))

		assert.Equal(t, []string{"Paris"}, s.Labels())
	})

	t.Run("duplicate check is case sensitive", func(t *testing.T) {
		t.Parallel()
		s := NewStore(0)
		require.NoError(t, s.Add(Text("Paris")))
		require.NoError(t, s.Add(Text("paris")))

		assert.Equal(t, 2, s.Count())
	})

	t.Run("rejects past max count", func(t *testing.T) {
		t.Parallel()
		s := NewStore(2)
		require.NoError(t, s.Add(Text("a")))
		require.NoError(t, s.Add(Text("b")))

		err := s.Add(Text("c"))
		assert.True(t, errors.Is(err, ErrMaxCountExceeded))
		assert.Equal(t, 2, s.Count())
		assert.True(t, s.Full())
		assert.Equal(t, 0, s.Remaining())
	})

	t.Run("insert clamps position", func(t *testing.T) {
		t.Parallel()
		s := NewStore(0)
		require.NoError(t, s.Add(Text("b")))
		require.NoError(t, s.Insert(-4, Text("a")))
		require.NoError(t, s.Insert(99, Text("c")))

		assert.Equal(t, []string{"a", "b", "c"}, s.Labels())
	})
}

func TestStoreRemoveByLabel(t *testing.T) {
	t.Parallel()

	s := NewStore(0)
	require.NoError(t, s.Add(Text("a")))
	require.NoError(t, s.Add(Text("b")))

	removed, err := s.RemoveByLabel("a")
	require.NoError(t, err)
	assert.Equal(t, "a", removed.Label)
	assert.Equal(t, []string{"b"}, s.Labels())

	_, err = s.RemoveByLabel("a")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.RemoveByLabel("B")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, s.Count())
}

func TestStoreSnapshotIsACopy(t *testing.T) {
	t.Parallel()

	s := NewStore(0)
	rec := Record("Paris", "PAR")
	rec.Extra = map[string]string{"country": "FR"}
	require.NoError(t, s.Add(rec))
	require.NoError(t, s.Add(Text("free")))

	snap := s.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "Paris", snap[0].Label)
	assert.Equal(t, "free", snap[1].Label)

	snap[0].Label = "changed"
	snap[0].Extra["country"] = "XX"
	snap[1] = Text("extra")

	again := s.Snapshot()
	assert.Equal(t, "Paris", again[0].Label)
	assert.Equal(t, "FR", again[0].Extra["country"])
	assert.Equal(t, "free", again[1].Label)
}

func TestStoreInvariantsUnderRandomOperations(t *testing.T) {
	t.Parallel()

	labels := []string{"a", "b", "c", "d", "e", "f"}
	rng := rand.New(rand.NewSource(42))
	for _, limit := range []int{0, 1, 3} {
		s := NewStore(limit)
		for range 500 {
			label := labels[rng.Intn(len(labels))]
			if rng.Intn(2) == 0 {
				_ = s.Add(Text(label))
			} else {
				_, _ = s.RemoveByLabel(label)
			}
			require.Equal(t, len(s.suggestions), len(s.labels))
			for i := range s.suggestions {
				require.Equal(t, s.suggestions[i].Label, s.labels[i])
			}
			if limit > 0 {
				require.LessOrEqual(t, s.Count(), limit)
			}
		}
	}
}

func TestSuggestionJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal([]Suggestion{Text("free"), Record("Paris", "PAR")})
	require.NoError(t, err)
	assert.JSONEq(t, `["free", {"label": "Paris", "code": "PAR"}]`, string(data))

	var decoded []Suggestion
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []Suggestion{Text("free"), Record("Paris", "PAR")}, decoded)
}

func TestFromAny(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      any
		want    Suggestion
		wantErr bool
	}{
		{name: "string", in: "Paris", want: Text("Paris")},
		{
			name: "record",
			in:   map[string]any{"label": "Paris", "code": "PAR", "country": "FR"},
			want: Suggestion{Label: "Paris", Code: "PAR", Extra: map[string]string{"country": "FR"}, Structured: true},
		},
		{name: "record without label", in: map[string]any{"code": "PAR"}, wantErr: true},
		{name: "number", in: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := FromAny(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSuggestionShape)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	values, err := FromAnySlice([]any{"a", 3, "b"})
	assert.ErrorIs(t, err, ErrInvalidSuggestionShape)
	assert.Equal(t, []string{"a", "b"}, Labels(values))
}
