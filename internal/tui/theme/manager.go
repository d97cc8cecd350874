package theme

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Manager keeps the registered themes and the active one.
type Manager struct {
	themes      map[string]Theme
	currentName string
	mu          sync.RWMutex
}

var globalManager = &Manager{
	themes: make(map[string]Theme),
}

func init() {
	RegisterTheme("opencode", NewOpenCodeTheme())
	RegisterTheme("catppuccin", NewCatppuccinTheme())
}

// RegisterTheme adds a theme. The first registered theme becomes the default.
func RegisterTheme(name string, theme Theme) {
	globalManager.mu.Lock()
	defer globalManager.mu.Unlock()

	globalManager.themes[name] = theme
	if globalManager.currentName == "" {
		globalManager.currentName = name
	}
}

// SetTheme activates the named theme.
func SetTheme(name string) error {
	globalManager.mu.Lock()
	defer globalManager.mu.Unlock()

	if _, exists := globalManager.themes[name]; !exists {
		return fmt.Errorf("theme '%s' not found", name)
	}
	globalManager.currentName = name
	return nil
}

func CurrentTheme() Theme {
	globalManager.mu.RLock()
	defer globalManager.mu.RUnlock()

	return globalManager.themes[globalManager.currentName]
}

func CurrentThemeName() string {
	globalManager.mu.RLock()
	defer globalManager.mu.RUnlock()

	return globalManager.currentName
}

// AvailableThemes returns the registered names, the default theme first.
func AvailableThemes() []string {
	globalManager.mu.RLock()
	defer globalManager.mu.RUnlock()

	names := make([]string, 0, len(globalManager.themes))
	for name := range globalManager.themes {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if a == "opencode" {
			return -1
		} else if b == "opencode" {
			return 1
		}
		return strings.Compare(a, b)
	})
	return names
}
