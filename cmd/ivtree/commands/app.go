package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ivtree/internal/config"
	"github.com/Sumatoshi-tech/ivtree/internal/dataset"
	"github.com/Sumatoshi-tech/ivtree/internal/index"
	"github.com/Sumatoshi-tech/ivtree/internal/observability"
	"github.com/Sumatoshi-tech/ivtree/internal/render"
	"github.com/Sumatoshi-tech/ivtree/pkg/version"
)

// ErrNoDataset is returned when neither --dataset nor dataset.path is set.
var ErrNoDataset = errors.New("no dataset: pass --dataset or set dataset.path")

// app is the per-invocation runtime: resolved config plus telemetry.
type app struct {
	cfg       *config.Config
	providers observability.Providers
	logger    *slog.Logger
}

// start loads configuration, applies flag overrides and initializes telemetry.
// The caller must call close.
func (o *Options) start(mode observability.AppMode) (*app, error) {
	cfg, err := config.LoadConfig(o.ConfigPath)
	if err != nil {
		return nil, err
	}

	if o.DatasetPath != "" {
		cfg.Dataset.Path = o.DatasetPath
	}

	if o.Output != "" {
		cfg.Output.Format = o.Output
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	obsCfg := cfg.ObservabilityFor(mode, version.Version)

	switch {
	case o.Verbose:
		obsCfg.LogLevel = slog.LevelDebug
	case o.Quiet:
		obsCfg.LogLevel = slog.LevelError
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	return &app{cfg: cfg, providers: providers, logger: providers.Logger}, nil
}

func (a *app) close(ctx context.Context) {
	err := a.providers.Shutdown(context.WithoutCancel(ctx))
	if err != nil {
		a.logger.WarnContext(ctx, "observability shutdown failed", "error", err)
	}
}

func (a *app) renderer(cmd *cobra.Command) *render.Renderer {
	return render.New(cmd.OutOrStdout(), a.cfg.Output.Format, a.cfg.Output.Color)
}

func (a *app) loadOptions() (dataset.LoadOptions, error) {
	maxSize, err := a.cfg.MaxSizeBytes()
	if err != nil {
		return dataset.LoadOptions{}, err
	}

	return dataset.LoadOptions{MaxSize: maxSize, ValidateSchema: a.cfg.Dataset.ValidateSchema}, nil
}

// loadIndex reads the configured dataset and builds its index.
func (a *app) loadIndex(ctx context.Context) (*index.Index, error) {
	if a.cfg.Dataset.Path == "" {
		return nil, ErrNoDataset
	}

	opts, err := a.loadOptions()
	if err != nil {
		return nil, err
	}

	set, err := dataset.Load(a.cfg.Dataset.Path, opts)
	if err != nil {
		return nil, err
	}

	metrics, err := observability.NewIndexMetrics(a.providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("index metrics: %w", err)
	}

	return index.Build(ctx, set, index.Deps{
		Logger:       a.logger,
		Tracer:       a.providers.Tracer,
		Metrics:      metrics,
		CacheEntries: a.cfg.Dataset.CacheEntries,
	})
}

// withIndex runs fn with a freshly built index inside a CLI-mode app.
func (o *Options) withIndex(cmd *cobra.Command, fn func(*app, *index.Index) error) error {
	a, err := o.start(observability.ModeCLI)
	if err != nil {
		return err
	}
	defer a.close(cmd.Context())

	ix, err := a.loadIndex(cmd.Context())
	if err != nil {
		return err
	}

	return fn(a, ix)
}
