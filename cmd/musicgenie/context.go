package main

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"musicgenie/internal/acquire"
	"musicgenie/internal/config"
	"musicgenie/internal/identify"
	"musicgenie/internal/logging"
	"musicgenie/internal/metadata"
	"musicgenie/internal/registry"
	"musicgenie/internal/snippet"
	"musicgenie/internal/tag"
	"musicgenie/internal/ui"
	"musicgenie/internal/youtube"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) openStore() (*snippet.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return snippet.Open(cfg.SnippetsDir(), logger)
}

// newReconciler builds the registry-backed reconciler, attaching the
// SQLite lookup cache when enabled. The returned closer releases the cache
// database and is safe to call when caching is off.
func (c *commandContext) newReconciler() (*metadata.Reconciler, func() error, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}

	client := registry.Client(registry.NewHTTPClient(cfg, logger))
	closer := func() error { return nil }

	if cfg.MusicBrainz.CacheEnabled {
		cache, err := registry.OpenCache(cfg.MusicBrainz.CachePath, logger)
		if err != nil {
			// Lookups still work without the cache.
			logger.Warn("lookup cache unavailable", "path", cfg.MusicBrainz.CachePath, "error", err)
		} else {
			client = registry.NewCachedClient(client, cache, logger)
			closer = cache.Close
		}
	}

	return metadata.NewReconciler(client, logger), closer, nil
}

// newWorkflow assembles the acquisition workflow behind search, listen and
// process.
func (c *commandContext) newWorkflow(out io.Writer) (*acquire.Workflow, func() error, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}

	reconciler, closer, err := c.newReconciler()
	if err != nil {
		return nil, nil, err
	}

	workflow := acquire.NewWorkflow(acquire.Options{
		Searcher:   youtube.NewSearcher(cfg, logger),
		Downloader: youtube.NewDownloader(cfg, true, logger),
		Prompter:   ui.NewSurveyPrompter(),
		Reconciler: reconciler,
		Covers:     metadata.NewCoverFetcher(logger),
		Tagger:     tag.NewID3Embedder(logger),
		Config:     cfg,
		Out:        out,
		Logger:     logger,
	})
	return workflow, closer, nil
}

func (c *commandContext) newIdentifier() (identify.Identifier, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return identify.NewAcoustIDClient(cfg, logger), nil
}
