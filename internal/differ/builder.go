package differ

import (
	"github.com/aleister1102/visualreg/internal/config"
	"github.com/rs/zerolog"
)

// EngineBuilder provides a fluent interface for creating a diff Engine
type EngineBuilder struct {
	config config.DifferConfig
	logger zerolog.Logger
}

// NewEngineBuilder creates a new EngineBuilder
func NewEngineBuilder(logger zerolog.Logger) *EngineBuilder {
	return &EngineBuilder{
		config: config.NewDefaultDifferConfig(),
		logger: logger.With().Str("component", "DiffEngine").Logger(),
	}
}

// WithConfig sets the differ configuration
func (b *EngineBuilder) WithConfig(cfg config.DifferConfig) *EngineBuilder {
	b.config = cfg
	return b
}

// Build creates a new Engine instance. The chunk executor strategy is
// selected here, at construction time, not inside the algorithm.
func (b *EngineBuilder) Build() (*Engine, error) {
	cfg := b.config
	if cfg.ChunkRows <= 0 {
		cfg.ChunkRows = config.DefaultDifferChunkRows
	}
	if cfg.DefaultThreshold <= 0 {
		cfg.DefaultThreshold = config.DefaultDifferThreshold
	}
	if cfg.ThumbnailMaxWidth <= 0 {
		cfg.ThumbnailMaxWidth = config.DefaultDifferThumbnailMaxWidth
	}

	fallback := sequentialExecutor{}

	var executor chunkExecutor = fallback
	if cfg.EnableParallel {
		executor = newParallelExecutor(cfg.MaxWorkers)
	}

	return &Engine{
		config:   cfg,
		logger:   b.logger,
		executor: executor,
		fallback: fallback,
	}, nil
}

// NewEngine creates a diff engine with the given configuration
func NewEngine(cfg config.DifferConfig, logger zerolog.Logger) (*Engine, error) {
	return NewEngineBuilder(logger).
		WithConfig(cfg).
		Build()
}
