package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/sst/multipick/internal/config"
	"github.com/sst/multipick/internal/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckStdinPipe(t *testing.T) {
	// Save original stdin
	origStdin := os.Stdin

	// Restore original stdin when test completes
	defer func() {
		os.Stdin = origStdin
	}()

	t.Run("WithPipedData", func(t *testing.T) {
		r, w, err := os.Pipe()
		require.NoError(t, err)
		os.Stdin = r

		testData := "Paris\nRome\n"
		go func() {
			defer w.Close()
			w.Write([]byte(testData))
		}()

		data, hasPiped := checkStdinPipe()
		assert.True(t, hasPiped)
		assert.Equal(t, testData, data)
	})

	t.Run("WithoutPipedData", func(t *testing.T) {
		tmpFile, err := os.CreateTemp(t.TempDir(), "terminal-sim")
		require.NoError(t, err)
		defer tmpFile.Close()

		f, err := os.Open(tmpFile.Name())
		require.NoError(t, err)
		defer f.Close()
		os.Stdin = f

		data, hasPiped := checkStdinPipe()
		assert.False(t, hasPiped)
		assert.Empty(t, data)
	})
}

func TestParsePool(t *testing.T) {
	t.Parallel()

	pool := parsePool("Paris\tPAR\r\n\n  Rome  \nMadrid\t \n")
	assert.Equal(t, []selection.Suggestion{
		selection.Record("Paris", "PAR"),
		selection.Text("Rome"),
		selection.Text("Madrid"),
	}, pool)

	assert.Empty(t, parsePool("\n \n"))
}

func newFlagCommand() *cobra.Command {
	c := &cobra.Command{Use: "test"}
	c.Flags().IntP("max", "m", 0, "")
	c.Flags().Bool("free-text", false, "")
	c.Flags().Bool("expand", false, "")
	c.Flags().StringSlice("value", nil, "")
	c.Flags().StringP("pool", "p", "", "")
	c.Flags().String("theme", "", "")
	return c
}

func TestApplyFlags(t *testing.T) {
	t.Parallel()

	t.Run("overrides changed flags only", func(t *testing.T) {
		t.Parallel()
		c := newFlagCommand()
		require.NoError(t, c.ParseFlags([]string{"--max", "3", "--free-text", "--value", "Paris,Rome", "--pool", "pool.jsonc"}))

		cfg := &config.Config{
			WorkingDir: "/work",
			Picker:     config.PickerConfig{ExpandButton: true},
			TUI:        config.TUIConfig{Theme: "catppuccin"},
		}
		require.NoError(t, applyFlags(c, cfg))

		assert.Equal(t, 3, cfg.Picker.MaxOptions)
		assert.True(t, cfg.Picker.FreeText)
		assert.True(t, cfg.Picker.ExpandButton)
		assert.Equal(t, []any{"Paris", "Rome"}, cfg.Picker.Value)
		assert.Equal(t, filepath.Join("/work", "pool.jsonc"), cfg.SuggestionsFile)
		assert.Equal(t, "catppuccin", cfg.TUI.Theme)
	})

	t.Run("rejects a negative limit", func(t *testing.T) {
		t.Parallel()
		c := newFlagCommand()
		require.NoError(t, c.ParseFlags([]string{"--max=-1"}))
		assert.Error(t, applyFlags(c, &config.Config{}))
	})
}
