// Package config manages application configuration from various sources.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/marcozac/go-jsonc"
	"github.com/spf13/viper"
	"github.com/sst/multipick/internal/pubsub"
	"github.com/sst/multipick/internal/selection"
)

// PickerConfig defines how the picker behaves.
type PickerConfig struct {
	MaxOptions   int    `json:"maxOptions,omitempty"`
	FreeText     bool   `json:"freeText,omitempty"`
	ExpandButton bool   `json:"expandButton,omitempty"`
	Value        []any  `json:"value,omitempty"`
	Placeholder  string `json:"placeholder,omitempty"`
	Ellipsis     bool   `json:"ellipsis"`
	MaxHeight    int    `json:"maxHeight,omitempty"`
	MinHeight    int    `json:"minHeight,omitempty"`
}

// TUIConfig defines the configuration for the Terminal User Interface.
type TUIConfig struct {
	Theme string `json:"theme,omitempty"`
}

// Config is the main configuration structure for the application.
type Config struct {
	WorkingDir      string       `json:"wd,omitempty"`
	Debug           bool         `json:"debug,omitempty"`
	Picker          PickerConfig `json:"picker"`
	Suggestions     []any        `json:"suggestions,omitempty"`
	SuggestionsFile string       `json:"suggestionsFile,omitempty"`
	TUI             TUIConfig    `json:"tui"`
}

// Application constants
const (
	appName = "multipick"

	defaultPlaceholder = "type to search, tab adds as typed"
	defaultMinHeight   = 3
	defaultMaxHeight   = 10
)

var (
	mu  sync.RWMutex
	cfg *Config
)

// Load initializes the configuration from environment variables and config files.
// If debug is true, debug mode is enabled and log level is set to debug.
// It returns an error if configuration loading fails.
func Load(workingDir string, debug bool) (*Config, error) {
	mu.Lock()
	defer mu.Unlock()
	if cfg != nil {
		return cfg, nil
	}

	configureViper()
	setDefaults(debug)

	// Read global config
	if err := readConfig(viper.ReadInConfig()); err != nil {
		return nil, err
	}

	// Load and merge local config
	if err := mergeLocalConfig(workingDir); err != nil {
		return nil, err
	}

	loaded, err := decode(workingDir)
	if err != nil {
		return nil, err
	}

	defaultLevel := slog.LevelInfo
	if loaded.Debug {
		defaultLevel = slog.LevelDebug
	}
	slog.SetLogLoggerLevel(defaultLevel)

	if err := validate(loaded); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	cfg = loaded
	return cfg, nil
}

// configureViper sets up viper's configuration paths and environment variables.
func configureViper() {
	viper.SetConfigName(fmt.Sprintf(".%s", appName))
	viper.SetConfigType("json")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath(fmt.Sprintf("$XDG_CONFIG_HOME/%s", appName))
	viper.AddConfigPath(fmt.Sprintf("$HOME/.config/%s", appName))
	viper.SetEnvPrefix(strings.ToUpper(appName))
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// setDefaults configures default values for configuration options.
func setDefaults(debug bool) {
	viper.SetDefault("tui.theme", "opencode")
	viper.SetDefault("picker.placeholder", defaultPlaceholder)
	viper.SetDefault("picker.ellipsis", true)
	viper.SetDefault("picker.minHeight", defaultMinHeight)
	viper.SetDefault("picker.maxHeight", defaultMaxHeight)

	if debug {
		viper.SetDefault("debug", true)
	} else {
		viper.SetDefault("debug", false)
	}
}

// readConfig handles the result of reading a configuration file.
func readConfig(err error) error {
	if err == nil {
		return nil
	}

	// It's okay if the config file doesn't exist
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return nil
	}

	return fmt.Errorf("failed to read config: %w", err)
}

// mergeLocalConfig loads and merges configuration from the local directory.
func mergeLocalConfig(workingDir string) error {
	local := viper.New()
	local.SetConfigName(fmt.Sprintf(".%s", appName))
	local.SetConfigType("json")
	local.AddConfigPath(workingDir)

	if err := local.ReadInConfig(); err != nil {
		return readConfig(err)
	}
	if err := viper.MergeConfigMap(local.AllSettings()); err != nil {
		return fmt.Errorf("failed to merge local config: %w", err)
	}
	return nil
}

func decode(workingDir string) (*Config, error) {
	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	c.WorkingDir = workingDir
	if c.SuggestionsFile != "" && !filepath.IsAbs(c.SuggestionsFile) {
		c.SuggestionsFile = filepath.Join(workingDir, c.SuggestionsFile)
	}
	return c, nil
}

func validate(c *Config) error {
	if c.Picker.MaxOptions < 0 {
		return fmt.Errorf("picker.maxOptions must not be negative, got %d", c.Picker.MaxOptions)
	}
	if c.Picker.MinHeight < 1 {
		c.Picker.MinHeight = defaultMinHeight
	}
	if c.Picker.MaxHeight < c.Picker.MinHeight {
		slog.Warn("picker.maxHeight below picker.minHeight, using minHeight", "maxHeight", c.Picker.MaxHeight, "minHeight", c.Picker.MinHeight)
		c.Picker.MaxHeight = c.Picker.MinHeight
	}
	return nil
}

// Get returns the current configuration.
// It's safe to call this function multiple times.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// WorkingDirectory returns the current working directory from the configuration.
func WorkingDirectory() string {
	c := Get()
	if c == nil {
		panic("config not loaded")
	}
	return c.WorkingDir
}

// Pool returns the candidates configured inline followed by the ones from
// the suggestions file.
func (c *Config) Pool() ([]selection.Suggestion, error) {
	pool, err := selection.FromAnySlice(c.Suggestions)
	if err != nil {
		slog.Warn("Skipping invalid suggestions", "error", err)
	}
	if c.SuggestionsFile == "" {
		return pool, nil
	}
	fromFile, err := ReadSuggestionsFile(c.SuggestionsFile)
	if err != nil {
		return pool, err
	}
	return append(pool, fromFile...), nil
}

// InitialValue is the configured picker value in the shape the picker accepts.
func (c *Config) InitialValue() any {
	if len(c.Picker.Value) == 0 {
		return nil
	}
	return c.Picker.Value
}

// ReadSuggestionsFile reads a JSON array of labels or records. Comments are
// allowed.
func ReadSuggestionsFile(path string) ([]selection.Suggestion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suggestions file: %w", err)
	}
	var values []selection.Suggestion
	if err := jsonc.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions file %s: %w", path, err)
	}
	return values, nil
}

// Watch publishes the candidate pool again whenever the config file or the
// suggestions file changes. It returns once ctx is done.
func Watch(ctx context.Context, pub pubsub.Publisher[[]selection.Suggestion]) error {
	c := Get()
	if c == nil {
		return fmt.Errorf("config not loaded")
	}

	reload := func(reason string) {
		mu.Lock()
		err := mergeLocalConfig(c.WorkingDir)
		var next *Config
		if err == nil {
			next, err = decode(c.WorkingDir)
		}
		if err == nil {
			err = validate(next)
		}
		if err != nil {
			mu.Unlock()
			slog.Error("Failed to reload config", "reason", reason, "error", err)
			return
		}
		next.Debug = cfg.Debug
		cfg = next
		mu.Unlock()

		pool, err := next.Pool()
		if err != nil {
			slog.Error("Failed to reload suggestions", "reason", reason, "error", err)
			return
		}
		slog.Debug("Suggestions reloaded", "reason", reason, "count", len(pool))
		pub.Publish(pubsub.EventPoolReloaded, pool)
	}

	if viper.ConfigFileUsed() != "" {
		viper.OnConfigChange(func(e fsnotify.Event) {
			reload(e.Name)
		})
		viper.WatchConfig()
	}

	if c.SuggestionsFile == "" {
		<-ctx.Done()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to watch suggestions file: %w", err)
	}
	defer watcher.Close()
	// Editors replace files on save, so the directory is watched.
	if err := watcher.Add(filepath.Dir(c.SuggestionsFile)); err != nil {
		return fmt.Errorf("failed to watch suggestions file: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(c.SuggestionsFile) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				reload(event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Debug("Suggestions watcher error", "error", err)
		}
	}
}

func updateCfgFile(updateCfg func(config map[string]any)) error {
	configFile := viper.ConfigFileUsed()
	var configData []byte
	if configFile == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		configFile = filepath.Join(homeDir, fmt.Sprintf(".%s.json", appName))
		slog.Info("config file not found, creating new one", "path", configFile)
		configData = []byte(`{}`)
	} else {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		configData = data
	}

	userCfg := map[string]any{}
	if err := json.Unmarshal(configData, &userCfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	updateCfg(userCfg)

	updatedData, err := json.MarshalIndent(userCfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFile, updatedData, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// UpdateTheme updates the theme in the configuration and writes it to the config file.
func UpdateTheme(themeName string) error {
	mu.Lock()
	if cfg == nil {
		mu.Unlock()
		return fmt.Errorf("config not loaded")
	}
	cfg.TUI.Theme = themeName
	mu.Unlock()

	return updateCfgFile(func(config map[string]any) {
		tui, _ := config["tui"].(map[string]any)
		if tui == nil {
			tui = map[string]any{}
		}
		tui["theme"] = themeName
		config["tui"] = tui
	})
}

// reset drops the loaded configuration. Tests only.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	cfg = nil
	viper.Reset()
}
