package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	charmlog "github.com/charmbracelet/log"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/sst/multipick/internal/app"
	"github.com/sst/multipick/internal/config"
	"github.com/sst/multipick/internal/format"
	"github.com/sst/multipick/internal/logging"
	"github.com/sst/multipick/internal/pubsub"
	"github.com/sst/multipick/internal/selection"
	"github.com/sst/multipick/internal/tui"
	"github.com/sst/multipick/internal/version"
	"golang.org/x/sync/errgroup"
)

var rootCmd = &cobra.Command{
	Use:   "multipick",
	Short: "Pick several values from a list of suggestions in the terminal",
	Long: `multipick shows a field of removable chips with an autocomplete dropdown.
Candidates come from the configuration, a suggestions file or lines piped on stdin.
The chosen values are printed when you press enter on an empty field.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// If the help flag is set, show the help message
		if cmd.Flag("help").Changed {
			cmd.Help()
			return nil
		}
		if cmd.Flag("version").Changed {
			fmt.Fprintln(cmd.OutOrStdout(), version.Version)
			return nil
		}

		outputFormatStr, _ := cmd.Flags().GetString("output-format")
		outputFormat, err := format.Parse(outputFormatStr)
		if err != nil {
			return err
		}

		// Setup logging
		lvl := new(slog.LevelVar)
		logFile, _ := cmd.Flags().GetString("log-file")
		closeLog, err := setupLogging(logFile, lvl)
		if err != nil {
			return err
		}
		defer closeLog()

		// Load the config
		debug, _ := cmd.Flags().GetBool("debug")
		cwd, _ := cmd.Flags().GetString("cwd")
		if cwd != "" {
			err := os.Chdir(cwd)
			if err != nil {
				return fmt.Errorf("failed to change directory: %v", err)
			}
		}
		if cwd == "" {
			c, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current working directory: %v", err)
			}
			cwd = c
		}
		cfg, err := config.Load(cwd, debug)
		if err != nil {
			return err
		}
		if err := applyFlags(cmd, cfg); err != nil {
			return err
		}
		if cfg.Debug {
			lvl.Set(slog.LevelDebug)
		}

		var extraPool []selection.Suggestion
		programOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
		if data, ok := checkStdinPipe(); ok {
			extraPool = parsePool(data)
			// stdin is spent, keys come from the terminal
			programOpts = append(programOpts, tea.WithInputTTY())
			slog.Debug("Read candidates from stdin", "count", len(extraPool))
		}

		// Create main context for the application
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
		defer cancel()

		app, err := app.New(ctx, cfg, extraPool)
		if err != nil {
			slog.Error("Failed to create app", "error", err)
			return err
		}
		app.WatchConfig(ctx)

		zones := zone.New()
		defer zones.Close()
		programOpts = append(programOpts, tea.WithContext(ctx))
		program := tea.NewProgram(tui.New(app, zones), programOpts...)

		// Forward service events to the TUI
		subCtx, cancelSubs := context.WithCancel(ctx)
		g, gctx := errgroup.WithContext(subCtx)
		forward(gctx, g, "logging", app.Logs.Subscribe, program)
		forward(gctx, g, "status", app.Status.Subscribe, program)
		forward(gctx, g, "pools", app.Pools.Subscribe, program)
		g.Go(func() error {
			defer logging.RecoverPanic("subscription-values", nil)
			for event := range app.Values.Subscribe(gctx) {
				slog.Debug("Value changed", "values", strings.Join(selection.Labels(event.Payload), ","))
			}
			return nil
		})

		result, err := program.Run()

		cancelSubs()
		app.Shutdown()
		if waitErr := g.Wait(); waitErr != nil {
			slog.Warn("Subscription forwarder failed", "error", waitErr)
		}

		if err != nil {
			slog.Error("TUI error", "error", err)
			return fmt.Errorf("TUI error: %v", err)
		}

		model, ok := result.(tui.Model)
		if !ok {
			return fmt.Errorf("unexpected model type %T", result)
		}
		values, done := model.Result()
		if !done {
			slog.Info("Selection cancelled")
			return nil
		}
		out, err := format.FormatOutput(values, outputFormat)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

// syncWriter is a thread-safe writer that prevents interleaved output
type syncWriter struct {
	w  io.Writer
	mu sync.Mutex
}

func (sw *syncWriter) Write(p []byte) (n int, err error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.w.Write(p)
}

// setupLogging routes slog into the in-app log pane, or into logFile when
// one is given. The returned func closes the file.
func setupLogging(logFile string, lvl *slog.LevelVar) (func(), error) {
	if logFile == "" {
		textHandler := slog.NewTextHandler(logging.NewSlogWriter(), &slog.HandlerOptions{Level: lvl})
		slog.SetDefault(slog.New(textHandler))
		return func() {}, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	charmLogger := charmlog.NewWithOptions(&syncWriter{w: f}, charmlog.Options{
		Level:           charmlog.DebugLevel,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "multipick",
	})
	charmlog.SetDefault(charmLogger)
	slog.SetDefault(slog.New(charmLogger))
	return func() { f.Close() }, nil
}

// applyFlags lets command line flags override the loaded configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("max") {
		n, _ := flags.GetInt("max")
		if n < 0 {
			return fmt.Errorf("--max must not be negative, got %d", n)
		}
		cfg.Picker.MaxOptions = n
	}
	if flags.Changed("free-text") {
		cfg.Picker.FreeText, _ = flags.GetBool("free-text")
	}
	if flags.Changed("expand") {
		cfg.Picker.ExpandButton, _ = flags.GetBool("expand")
	}
	if flags.Changed("value") {
		values, _ := flags.GetStringSlice("value")
		cfg.Picker.Value = make([]any, len(values))
		for i, v := range values {
			cfg.Picker.Value[i] = v
		}
	}
	if flags.Changed("pool") {
		pool, _ := flags.GetString("pool")
		if pool != "" && !filepath.IsAbs(pool) {
			pool = filepath.Join(cfg.WorkingDir, pool)
		}
		cfg.SuggestionsFile = pool
	}
	if flags.Changed("theme") {
		cfg.TUI.Theme, _ = flags.GetString("theme")
	}
	return nil
}

// checkStdinPipe reads stdin when it is not a terminal.
func checkStdinPipe() (string, bool) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return "", false
	}
	if stat.Mode()&os.ModeCharDevice != 0 {
		return "", false
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", false
	}
	if len(data) > 0 {
		return string(data), true
	}
	return "", false
}

// parsePool turns piped lines into candidates. A tab separates the label
// from an optional code.
func parsePool(data string) []selection.Suggestion {
	var pool []selection.Suggestion
	scanner := bufio.NewScanner(strings.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		label, code, hasCode := strings.Cut(line, "\t")
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		if hasCode && strings.TrimSpace(code) != "" {
			pool = append(pool, selection.Record(label, strings.TrimSpace(code)))
			continue
		}
		pool = append(pool, selection.Text(label))
	}
	return pool
}

// forward sends every event from a service subscription to the program
// until ctx is done.
func forward[T any](
	ctx context.Context,
	g *errgroup.Group,
	name string,
	subscribe func(context.Context) <-chan pubsub.Event[T],
	program *tea.Program,
) {
	g.Go(func() error {
		defer logging.RecoverPanic(fmt.Sprintf("subscription-%s", name), nil)

		subCh := subscribe(ctx)
		for {
			select {
			case event, ok := <-subCh:
				if !ok {
					slog.Debug("subscription channel closed", "name", name)
					return nil
				}
				program.Send(event)
			case <-ctx.Done():
				return nil
			}
		}
	})
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().BoolP("version", "v", false, "Version")
	rootCmd.Flags().BoolP("debug", "d", false, "Debug")
	rootCmd.Flags().StringP("cwd", "c", "", "Current working directory")
	rootCmd.Flags().IntP("max", "m", 0, "Maximum number of values, 0 for no limit")
	rootCmd.Flags().Bool("free-text", false, "Accept values that are not in the suggestions")
	rootCmd.Flags().Bool("expand", false, "Show the button that opens the multi-select dropdown")
	rootCmd.Flags().StringSlice("value", nil, "Initial values (comma-separated list)")
	rootCmd.Flags().StringP("pool", "p", "", "JSON file with suggestions, comments allowed")
	rootCmd.Flags().String("theme", "", "Color theme")
	rootCmd.Flags().StringP("output-format", "f", "text", "Output format for the selection (text, json)")
	rootCmd.Flags().String("log-file", "", "Write logs to this file instead of the logs page")
}
