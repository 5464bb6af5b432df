package config

const (
	// Capture Defaults
	DefaultCaptureUserAgent         = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultCaptureBrowserEngine     = "chromium"
	DefaultCaptureViewportWidth     = 1280
	DefaultCaptureViewportHeight    = 800
	DefaultCaptureDeviceScaleFactor = 1.0
	DefaultCapturePoolSize          = 2
	DefaultCapturePageTimeoutSecs   = 30
	DefaultCaptureWaitAfterLoadMs   = 250

	// Retry Defaults
	DefaultRetryMaxRetries    = 3
	DefaultRetryDelayMs       = 500
	DefaultRetryBackoffFactor = 2.0

	// Differ Defaults
	DefaultDifferChunkRows         = 64
	DefaultDifferMaxWorkers        = 0 // 0 means runtime.NumCPU()
	DefaultDifferThreshold         = 0.01
	DefaultDifferPixelTolerance    = 0.0
	DefaultDifferThumbnailMaxWidth = 320

	// Storage Defaults
	DefaultStorageBasePath         = "database"
	DefaultStorageMaxScreenshots   = 100
	DefaultStorageMaxDiffs         = 50
	DefaultStorageCapacityBytes    = 512 * 1024 * 1024
	DefaultStorageCompressionLevel = 3

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3
)
