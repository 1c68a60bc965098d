// Package app wires configuration, logging, themes and the editor
// together and keeps them current when the configuration file changes.
package app

import (
	"errors"
	"io"
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/treedit/internal/config"
	"github.com/dshills/treedit/internal/config/watcher"
	"github.com/dshills/treedit/internal/editor"
	"github.com/dshills/treedit/internal/logging"
	"github.com/dshills/treedit/internal/renderer/highlight"
	"github.com/dshills/treedit/internal/syntax"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the path to a TOML or YAML configuration file. Empty
	// means built-in defaults.
	ConfigPath string

	// LogLevel overrides the configured log level when set.
	LogLevel string

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// Watch reloads the configuration when ConfigPath changes.
	Watch bool

	// WatchDebounce overrides the watcher's debounce period.
	WatchDebounce time.Duration

	// LookupEnv reads environment overrides. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Application owns the long-lived editor components.
type Application struct {
	mu     sync.RWMutex
	opts   Options
	config *config.Config
	theme  *highlight.Theme

	logger  *logging.Logger
	themes  *highlight.ThemeRegistry
	editor  *editor.Editor
	watcher *watcher.Watcher

	reloads atomic.Uint64
	closed  atomic.Bool
}

// New loads the configuration and builds the editor. Configuration
// errors are fatal here; after startup a bad reload keeps the previous
// settings.
func New(opts Options) (*Application, error) {
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.LookupEnv
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}

	a := &Application{opts: opts, themes: highlight.NewThemeRegistry()}

	cfg, err := a.loadConfig()
	if err != nil {
		return nil, NewComponentError("config", "load", err)
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Level()
	logCfg.Output = opts.LogOutput
	a.logger = logging.New(logCfg)

	theme, err := cfg.BuildTheme(a.themes)
	if err != nil {
		return nil, NewComponentError("theme", "build", err)
	}

	grammars := syntax.DefaultRegistry()
	if err := cfg.ApplyTo(grammars); err != nil {
		return nil, NewComponentError("syntax", "configure", err)
	}

	a.config = cfg
	a.theme = theme
	a.editor = editor.New(grammars,
		editor.WithLogger(a.logger),
		editor.WithTabWidth(cfg.TabWidth),
	)

	if opts.Watch && opts.ConfigPath != "" {
		wopts := []watcher.Option{watcher.WithLogger(a.logger)}
		if opts.WatchDebounce > 0 {
			wopts = append(wopts, watcher.WithDebounce(opts.WatchDebounce))
		}
		w, err := watcher.New(opts.ConfigPath, a.onConfigChange, wopts...)
		if err != nil {
			return nil, NewComponentError("config", "watch", err)
		}
		a.watcher = w
	}

	a.logger.WithComponent("app").Debug("started with theme %s, tab width %d", theme.Name, cfg.TabWidth)
	return a, nil
}

// loadConfig reads the file, then the environment, then the explicit
// log level, and validates the result.
func (a *Application) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if a.opts.ConfigPath != "" {
		var err error
		if cfg, err = config.LoadFile(a.opts.ConfigPath); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(a.opts.LookupEnv); err != nil {
		return nil, err
	}
	if a.opts.LogLevel != "" {
		cfg.LogLevel = a.opts.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Config returns the active configuration. Callers must not modify it.
func (a *Application) Config() *config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.config
}

// Theme returns the active theme.
func (a *Application) Theme() *highlight.Theme {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.theme
}

// Logger returns the root logger.
func (a *Application) Logger() *logging.Logger {
	return a.logger
}

// Editor returns the buffer registry.
func (a *Application) Editor() *editor.Editor {
	return a.editor
}

// Reloads returns how many configuration reloads have been applied.
func (a *Application) Reloads() uint64 {
	return a.reloads.Load()
}

// Reload re-reads the configuration and applies it: the log level, the
// theme, and the grammars of open buffers. The tab width only affects
// buffers opened afterwards. On error nothing changes.
func (a *Application) Reload() error {
	if a.closed.Load() {
		return ErrClosed
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return NewComponentError("config", "reload", err)
	}
	theme, err := cfg.BuildTheme(a.themes)
	if err != nil {
		return NewComponentError("theme", "build", err)
	}
	fresh := syntax.DefaultRegistry()
	if err := cfg.ApplyTo(fresh); err != nil {
		return NewComponentError("syntax", "configure", err)
	}

	a.mu.Lock()
	a.config = cfg
	a.theme = theme
	a.mu.Unlock()

	a.logger.SetLevel(cfg.Level())

	grammars := a.editor.Grammars()
	grammars.ReplaceAll(fresh)
	var errs []error
	for _, name := range grammars.Names() {
		if err := a.editor.ApplyLanguage(name); err != nil {
			errs = append(errs, err)
		}
	}

	a.reloads.Add(1)
	a.logger.WithComponent("app").Info("configuration reloaded")
	if len(errs) > 0 {
		return NewComponentError("editor", "apply languages", errors.Join(errs...))
	}
	return nil
}

// onConfigChange runs on the watcher's timer goroutine.
func (a *Application) onConfigChange(ev watcher.Event) {
	log := a.logger.WithComponent("app")
	defer func() {
		if r := recover(); r != nil {
			log.Error("%v", NewRecoveredPanicError(r, string(debug.Stack())))
		}
	}()

	if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
		log.Warn("config file %s: %s, keeping current settings", ev.Path, ev.Op)
		return
	}
	if err := a.Reload(); err != nil {
		log.Warn("%v", err)
	}
}

// Shutdown stops the watcher and closes every buffer. It is safe to call
// more than once.
func (a *Application) Shutdown() {
	if !a.closed.CompareAndSwap(false, true) {
		return
	}
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.logger.Warn("closing watcher: %v", err)
		}
	}
	for _, b := range a.editor.All() {
		b.Doc.Close()
	}
	a.logger.WithComponent("app").Debug("shut down")
}
