package datastore

import (
	"os"

	"github.com/aleister1102/visualreg/internal/common/errorwrapper"
	"github.com/aleister1102/visualreg/internal/config"
	"github.com/rs/zerolog"
)

// fileWriter abstracts the final byte write so tests can inject write
// failures without touching the filesystem.
type fileWriter func(path string, data []byte) error

// StoreBuilder provides a fluent interface for creating a Store
type StoreBuilder struct {
	config config.StorageConfig
	logger zerolog.Logger
	writer fileWriter
}

// NewStoreBuilder creates a new StoreBuilder
func NewStoreBuilder(logger zerolog.Logger) *StoreBuilder {
	return &StoreBuilder{
		config: config.NewDefaultStorageConfig(),
		logger: logger.With().Str("component", "Store").Logger(),
		writer: defaultFileWriter,
	}
}

// WithConfig sets the storage configuration
func (b *StoreBuilder) WithConfig(cfg config.StorageConfig) *StoreBuilder {
	b.config = cfg
	return b
}

// WithFileWriter overrides the file write primitive
func (b *StoreBuilder) WithFileWriter(writer fileWriter) *StoreBuilder {
	b.writer = writer
	return b
}

// Build creates a new Store instance
func (b *StoreBuilder) Build() (*Store, error) {
	cfg := b.config
	if cfg.BasePath == "" {
		return nil, errorwrapper.NewValidationError("base_path", cfg.BasePath, "storage base path cannot be empty")
	}
	if cfg.MaxScreenshots <= 0 {
		cfg.MaxScreenshots = config.DefaultStorageMaxScreenshots
	}
	if cfg.MaxDiffs <= 0 {
		cfg.MaxDiffs = config.DefaultStorageMaxDiffs
	}
	if cfg.CapacityBytes <= 0 {
		cfg.CapacityBytes = config.DefaultStorageCapacityBytes
	}
	if cfg.CompressionLevel <= 0 {
		cfg.CompressionLevel = config.DefaultStorageCompressionLevel
	}

	if err := os.MkdirAll(cfg.BasePath, 0755); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to create storage base path")
	}

	codec, err := newCollectionCodec(cfg.CompressionLevel)
	if err != nil {
		return nil, err
	}

	return &Store{
		config: cfg,
		logger: b.logger,
		codec:  codec,
		writer: b.writer,
	}, nil
}

// NewStore creates a store with the given configuration
func NewStore(cfg config.StorageConfig, logger zerolog.Logger) (*Store, error) {
	return NewStoreBuilder(logger).
		WithConfig(cfg).
		Build()
}

// defaultFileWriter writes through a temp file then renames, so a partial
// write never corrupts an existing collection.
func defaultFileWriter(path string, data []byte) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
