package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/rmrobinson/openweather/config"
	"github.com/rmrobinson/openweather/query"
	"go.uber.org/zap"
)

// Store loads and persists the user config.
type Store interface {
	Path() (string, error)
	Load() (*config.Config, error)
	Save(cfg *config.Config) error
}

// Resolver finds the caller's geometry.
type Resolver interface {
	Resolve(ctx context.Context, mode config.GeometryMode) (query.Geometry, error)
}

// Fetcher retrieves the weather for a geometry.
type Fetcher interface {
	Fetch(ctx context.Context, cfg *config.Config, geo query.Geometry) (*query.Weather, error)
}

// Editor opens a file for interactive editing and returns once the user is done.
type Editor interface {
	Edit(ctx context.Context, path string) error
}

// Dispatcher runs a parsed command against its collaborators.
type Dispatcher struct {
	logger *zap.Logger

	store    Store
	resolver Resolver
	fetcher  Fetcher
	editor   Editor

	out     io.Writer
	version string
}

// NewDispatcher creates a new dispatcher writing command output to out.
func NewDispatcher(logger *zap.Logger, store Store, resolver Resolver, fetcher Fetcher, editor Editor, out io.Writer, version string) *Dispatcher {
	return &Dispatcher{
		logger:   logger,
		store:    store,
		resolver: resolver,
		fetcher:  fetcher,
		editor:   editor,
		out:      out,
		version:  version,
	}
}

// Run executes the command. Any error aborts the run.
func (d *Dispatcher) Run(ctx context.Context, cmd *Command) error {
	switch cmd.Mode {
	case ModeQuery:
		return d.query(ctx, cmd.Overrides)
	case ModeEditConfig:
		return d.editConfig(ctx)
	case ModeHelp:
		_, err := fmt.Fprint(d.out, Usage())
		return err
	case ModeVersion:
		_, err := fmt.Fprintf(d.out, "openweather %s\n", d.version)
		return err
	}
	return errors.Wrapf(ErrUsage, "unsupported mode %d", cmd.Mode)
}

func (d *Dispatcher) query(ctx context.Context, overrides config.Overrides) error {
	cfg, err := d.store.Load()
	if err != nil {
		return err
	}

	cfg.Merge(d.logger, overrides)
	if err := cfg.Validate(); err != nil {
		return err
	}

	geo, err := d.resolver.Resolve(ctx, cfg.GeometryMode)
	if err != nil {
		return err
	}
	d.logger.Info("resolved geometry",
		zap.Stringer("geometry", geo),
	)

	weather, err := d.fetcher.Fetch(ctx, cfg, geo)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(d.out, weather.Body)
	return err
}

func (d *Dispatcher) editConfig(ctx context.Context) error {
	_, err := d.store.Load()
	switch {
	case errors.Is(err, config.ErrNotFound):
		d.logger.Info("initializing config file")
		if err := d.store.Save(config.Default()); err != nil {
			return err
		}
	case errors.Is(err, config.ErrEmptyKey), errors.Is(err, config.ErrMalformed):
		// The user is about to fix it.
		d.logger.Info("opening invalid config file",
			zap.Error(err),
		)
	case err != nil:
		return err
	}

	path, err := d.store.Path()
	if err != nil {
		return err
	}
	return d.editor.Edit(ctx, path)
}
