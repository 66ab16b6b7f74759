package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/taskgridgo/internal/ctxlog"
	"github.com/vk/taskgridgo/internal/plugin"
	"github.com/vk/taskgridgo/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	registry   registry.Registry
	dispatcher plugin.Dispatcher
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger, a cached registry
// when one is configured, and the builtin task dispatcher.
func NewApp(outW io.Writer, appConfig *Config) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	var reg registry.Registry
	if appConfig.RegistryPath != "" {
		static, err := registry.LoadStatic(ctx, appConfig.RegistryPath)
		if err != nil {
			// A failure to load the registry is a fatal startup error.
			panic(fmt.Errorf("failed to load registry: %w", err))
		}
		cached, err := registry.NewCached(static)
		if err != nil {
			panic(fmt.Errorf("failed to wrap registry: %w", err))
		}
		reg = cached
		logger.Debug("Registry loaded and cached.")
	}

	dispatcher := plugin.NewGoDispatcher()
	plugin.RegisterBuiltins(dispatcher)
	logger.Debug("Builtin tasks registered.")

	return &App{
		outW:       outW,
		logger:     logger,
		config:     appConfig,
		registry:   reg,
		dispatcher: dispatcher,
	}
}

// Dispatcher returns the application's dispatcher. This is primarily for
// tests that register extra tasks.
func (a *App) Dispatcher() *plugin.GoDispatcher {
	return a.dispatcher.(*plugin.GoDispatcher)
}
