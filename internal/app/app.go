package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/five82/jokefinder/internal/config"
	"github.com/five82/jokefinder/internal/favorites"
	"github.com/five82/jokefinder/internal/joke"
	"github.com/five82/jokefinder/internal/jokeapi"
	"github.com/five82/jokefinder/internal/logging"
	"github.com/five82/jokefinder/internal/manager"
	"github.com/five82/jokefinder/internal/prefs"
	"github.com/five82/jokefinder/internal/ui"
)

// Options configure the jokefinder application.
type Options struct {
	ConfigPath  string
	PrefsPath   string // empty uses ~/.config/jokefinder/prefs.toml
	SeedExample bool   // show the example joke until the first fetch lands
	Endpoint    string // overrides config and environment when set
}

// Run boots the jokefinder TUI until the context is cancelled or the user
// quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.Endpoint != "" {
		cfg.Endpoint = opts.Endpoint
	}

	logger, closeLog, err := logging.New(logging.Options{Path: cfg.LogPath(), Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closeLog()

	notifier := &ui.Notifier{}
	jokes := Build(ctx, cfg, logger, opts.SeedExample, manager.WithOnChange(notifier.Notify))

	logger.Info().Str("endpoint", cfg.Endpoint).Str("favorites", cfg.FavoritesPath()).Msg("jokefinder started")
	defer func() { logger.Info().Msg("jokefinder stopped") }()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath)
	theme := cfg.Theme
	if userPrefs.Theme != "" {
		theme = userPrefs.Theme
	}

	return ui.Run(ui.Options{
		Context:   ctx,
		Jokes:     jokes,
		Notifier:  notifier,
		LogPath:   cfg.LogPath(),
		ThemeName: theme,
		View:      userPrefs.View,
		PrefsPath: prefsPath,
		Logger:    logger,
	})
}

// Build wires the fetcher, favorites store and manager from cfg.
func Build(ctx context.Context, cfg config.Config, logger zerolog.Logger, seedExample bool, extra ...manager.Option) *manager.Manager {
	client := jokeapi.NewClient(cfg.Endpoint)
	store := favorites.New(cfg.FavoritesPath(), favorites.WithLogger(logger))

	opts := []manager.Option{manager.WithLogger(logger)}
	if seedExample {
		seed := joke.Example()
		opts = append(opts, manager.WithSeed(&seed))
	}
	opts = append(opts, extra...)

	return manager.New(ctx, client, store, opts...)
}
