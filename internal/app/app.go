// Package app wires the pieces of the easel CLI together: state document
// loading, graph building, and optional submission to the inference
// service.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/easelai/easel/internal/backend"
	"github.com/easelai/easel/internal/builder"
	"github.com/easelai/easel/internal/ctxlog"
	"github.com/easelai/easel/internal/state"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	errW   io.Writer
	logger *slog.Logger
	config *Config
}

// NewApp constructs a fully initialized App with its own isolated logger.
// Logs go to errW so graph JSON on outW stays pipeable.
func NewApp(outW, errW io.Writer, config *Config) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, errW)
	logger.Debug("logger configured")

	return &App{
		outW:   outW,
		errW:   errW,
		logger: logger,
		config: config,
	}
}

// Run loads the state document, builds the generation graph, and either
// prints it as wire-format JSON or submits it for execution.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	snap, err := state.LoadFile(a.config.StatePath)
	if err != nil {
		return fmt.Errorf("loading state document: %w", err)
	}
	a.logger.Debug("state document loaded", "path", a.config.StatePath, "mode", snap.Mode)

	var opts []builder.Option
	var client *backend.Client
	if a.config.BackendURL != "" {
		client = backend.NewClient(a.config.BackendURL)
		defer func() {
			if cerr := client.Close(); cerr != nil {
				a.logger.Warn("closing backend client", "error", cerr)
			}
		}()
		opts = append(opts, builder.WithImagePreparer(backend.NewPreparer(client)))
	}

	res, err := builder.Build(ctx, snap, opts...)
	if err != nil {
		return fmt.Errorf("building graph: %w", err)
	}
	a.logger.Info("graph built",
		"nodes", res.Graph.NodeCount(),
		"edges", res.Graph.EdgeCount(),
		"output", res.OutputNodeID)

	if a.config.Submit {
		item, err := client.Enqueue(ctx, res.Graph)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.outW, "enqueued: %s\n", item.ItemID)
		return nil
	}

	enc := json.NewEncoder(a.outW)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res.Graph); err != nil {
		return fmt.Errorf("encoding graph: %w", err)
	}
	return nil
}
