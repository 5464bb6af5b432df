package config

// StorageConfig defines configuration for data storage
type StorageConfig struct {
	// Directory the compressed collections live under
	BasePath string `json:"base_path,omitempty" yaml:"base_path,omitempty"`
	// Retention cap on stored screenshots (newest kept)
	MaxScreenshots int `json:"max_screenshots,omitempty" yaml:"max_screenshots,omitempty" validate:"omitempty,min=1,max=10000"`
	// Retention cap on stored diffs (newest kept)
	MaxDiffs int `json:"max_diffs,omitempty" yaml:"max_diffs,omitempty" validate:"omitempty,min=1,max=10000"`
	// Capacity ceiling reported by storage info, in bytes
	CapacityBytes int64 `json:"capacity_bytes,omitempty" yaml:"capacity_bytes,omitempty" validate:"omitempty,min=1"`
	// zstd compression level for persisted collections
	CompressionLevel int `json:"compression_level,omitempty" yaml:"compression_level,omitempty" validate:"omitempty,min=1,max=11"`
}

// NewDefaultStorageConfig creates default storage configuration
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		BasePath:         DefaultStorageBasePath,
		MaxScreenshots:   DefaultStorageMaxScreenshots,
		MaxDiffs:         DefaultStorageMaxDiffs,
		CapacityBytes:    DefaultStorageCapacityBytes,
		CompressionLevel: DefaultStorageCompressionLevel,
	}
}
