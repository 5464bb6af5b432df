package capture

import (
	"github.com/aleister1102/visualreg/internal/common/errorwrapper"
	"github.com/aleister1102/visualreg/internal/config"
	"github.com/rs/zerolog"
)

// EngineBuilder provides a fluent interface for creating a capture Engine
type EngineBuilder struct {
	backend Backend
	config  config.CaptureConfig
	logger  zerolog.Logger
}

// NewEngineBuilder creates a new EngineBuilder
func NewEngineBuilder(logger zerolog.Logger) *EngineBuilder {
	return &EngineBuilder{
		config: config.NewDefaultCaptureConfig(),
		logger: logger.With().Str("component", "CaptureEngine").Logger(),
	}
}

// WithBackend sets the capture backend
func (b *EngineBuilder) WithBackend(backend Backend) *EngineBuilder {
	b.backend = backend
	return b
}

// WithConfig sets the capture configuration
func (b *EngineBuilder) WithConfig(cfg config.CaptureConfig) *EngineBuilder {
	b.config = cfg
	return b
}

// Build creates a new Engine instance
func (b *EngineBuilder) Build() (*Engine, error) {
	if b.backend == nil {
		return nil, errorwrapper.NewValidationError("backend", b.backend, "capture backend cannot be nil")
	}

	return &Engine{
		backend: b.backend,
		config:  b.config,
		logger:  b.logger,
		retry:   b.config.RetryConfig,
	}, nil
}

// NewEngine creates a capture engine with the given backend and configuration
func NewEngine(backend Backend, cfg config.CaptureConfig, logger zerolog.Logger) (*Engine, error) {
	return NewEngineBuilder(logger).
		WithBackend(backend).
		WithConfig(cfg).
		Build()
}
