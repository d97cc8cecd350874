package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sst/multipick/internal/completions"
	"github.com/sst/multipick/internal/config"
	"github.com/sst/multipick/internal/logging"
	"github.com/sst/multipick/internal/pubsub"
	"github.com/sst/multipick/internal/selection"
	"github.com/sst/multipick/internal/status"
	"github.com/sst/multipick/internal/tui/theme"
)

// App holds the services shared by the TUI and the command line.
type App struct {
	Logs        logging.Service
	Status      status.Service
	Config      *config.Config
	Completions *completions.Controller

	// Values receives the selection after every change.
	Values *pubsub.Broker[[]selection.Suggestion]
	// Pools receives the candidate pool whenever the configuration is reloaded.
	Pools *pubsub.Broker[[]selection.Suggestion]

	watcherCancelFuncs []context.CancelFunc
	cancelFuncsMutex   sync.Mutex
	watcherWG          sync.WaitGroup
}

// New wires the services. extraPool is appended to the configured
// candidates, e.g. labels piped on stdin.
func New(ctx context.Context, cfg *config.Config, extraPool []selection.Suggestion) (*App, error) {
	if err := logging.InitService(logging.DefaultCapacity); err != nil {
		slog.Debug("Logging service already initialized", "error", err)
	}
	statusService := status.NewService()
	status.InitManager(statusService)

	pool, err := cfg.Pool()
	if err != nil {
		slog.Error("Failed to load suggestions", "error", err)
		status.Error("Failed to load suggestions: " + err.Error())
	}
	pool = append(pool, extraPool...)

	app := &App{
		Logs:        logging.GetService(),
		Status:      statusService,
		Config:      cfg,
		Completions: completions.NewController(pool, cfg.Picker.FreeText),
		Values:      pubsub.NewBroker[[]selection.Suggestion](),
		Pools:       pubsub.NewBroker[[]selection.Suggestion](),
	}

	app.initTheme()
	return app, nil
}

// initTheme sets the application theme based on the configuration
func (app *App) initTheme() {
	if app.Config.TUI.Theme == "" {
		return // Use default theme
	}

	err := theme.SetTheme(app.Config.TUI.Theme)
	if err != nil {
		slog.Warn("Failed to set theme from config, using default theme", "theme", app.Config.TUI.Theme, "error", err)
	} else {
		slog.Debug("Set theme from config", "theme", app.Config.TUI.Theme)
	}
}

// WatchConfig republishes the candidate pool on Pools when the
// configuration files change, until Shutdown.
func (app *App) WatchConfig(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	app.cancelFuncsMutex.Lock()
	app.watcherCancelFuncs = append(app.watcherCancelFuncs, cancel)
	app.cancelFuncsMutex.Unlock()

	app.watcherWG.Add(1)
	go func() {
		defer app.watcherWG.Done()
		defer logging.RecoverPanic("config-watcher", nil)
		if err := config.Watch(ctx, app.Pools); err != nil {
			slog.Error("Config watcher stopped", "error", err)
		}
	}()
}

// Shutdown performs a clean shutdown of the application
func (app *App) Shutdown() {
	app.cancelFuncsMutex.Lock()
	for _, cancel := range app.watcherCancelFuncs {
		cancel()
	}
	app.cancelFuncsMutex.Unlock()
	app.watcherWG.Wait()

	app.Values.Shutdown()
	app.Pools.Shutdown()
}
