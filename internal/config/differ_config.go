package config

// DifferConfig defines configuration for the visual diff engine
type DifferConfig struct {
	// Rows per chunk when partitioning a pixel buffer for comparison
	ChunkRows int `json:"chunk_rows,omitempty" yaml:"chunk_rows,omitempty" validate:"omitempty,min=1,max=4096"`
	// Worker pool size for parallel chunk comparison; 0 means hardware concurrency
	MaxWorkers int `json:"max_workers,omitempty" yaml:"max_workers,omitempty" validate:"omitempty,min=0,max=256"`
	// Use the parallel chunk executor; the sequential executor is used otherwise
	EnableParallel bool `json:"enable_parallel" yaml:"enable_parallel"`
	// Default pass/fail threshold on the changed-pixel ratio
	DefaultThreshold float64 `json:"default_threshold,omitempty" yaml:"default_threshold,omitempty" validate:"omitempty,min=0,max=1"`
	// Normalized color delta above which a pixel counts as changed
	PixelTolerance float64 `json:"pixel_tolerance,omitempty" yaml:"pixel_tolerance,omitempty" validate:"omitempty,min=0,max=1"`
	// Render the highlighted diff artifact alongside the numeric result
	RenderDiffImage bool `json:"render_diff_image" yaml:"render_diff_image"`
	// Maximum width of the diff artifact thumbnail
	ThumbnailMaxWidth int `json:"thumbnail_max_width,omitempty" yaml:"thumbnail_max_width,omitempty" validate:"omitempty,min=16,max=4096"`
}

// NewDefaultDifferConfig creates default differ configuration
func NewDefaultDifferConfig() DifferConfig {
	return DifferConfig{
		ChunkRows:         DefaultDifferChunkRows,
		MaxWorkers:        DefaultDifferMaxWorkers,
		EnableParallel:    true,
		DefaultThreshold:  DefaultDifferThreshold,
		PixelTolerance:    DefaultDifferPixelTolerance,
		RenderDiffImage:   true,
		ThumbnailMaxWidth: DefaultDifferThumbnailMaxWidth,
	}
}
