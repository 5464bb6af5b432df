package config

// CaptureConfig defines configuration for the screenshot capture engine
type CaptureConfig struct {
	// Path to a Chromium binary; empty means auto-detect
	ChromePath string `json:"chrome_path,omitempty" yaml:"chrome_path,omitempty" validate:"omitempty,fileexists"`
	// Browser user data directory; empty means a temporary profile
	UserDataDir string `json:"user_data_dir,omitempty" yaml:"user_data_dir,omitempty"`
	// Number of pooled browser instances
	PoolSize int `json:"pool_size,omitempty" yaml:"pool_size,omitempty" validate:"omitempty,min=1,max=16"`
	// Per-page navigation timeout in seconds
	PageLoadTimeoutSecs int `json:"page_load_timeout_secs,omitempty" yaml:"page_load_timeout_secs,omitempty" validate:"omitempty,min=1,max=300"`
	// Extra settle time after load before capturing, in milliseconds
	WaitAfterLoadMs int `json:"wait_after_load_ms,omitempty" yaml:"wait_after_load_ms,omitempty" validate:"omitempty,min=0,max=30000"`
	// User agent presented to captured pages
	UserAgent string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	// Browser engine recorded on screenshots when the request does not name one
	DefaultBrowserEngine string `json:"default_browser_engine,omitempty" yaml:"default_browser_engine,omitempty"`
	// Viewport applied when the request does not carry one
	DefaultViewportWidth     int     `json:"default_viewport_width,omitempty" yaml:"default_viewport_width,omitempty" validate:"omitempty,min=1,max=7680"`
	DefaultViewportHeight    int     `json:"default_viewport_height,omitempty" yaml:"default_viewport_height,omitempty" validate:"omitempty,min=1,max=4320"`
	DefaultDeviceScaleFactor float64 `json:"default_device_scale_factor,omitempty" yaml:"default_device_scale_factor,omitempty" validate:"omitempty,min=0.1,max=4"`
	DefaultViewportIsMobile  bool    `json:"default_viewport_is_mobile" yaml:"default_viewport_is_mobile"`
	// Retry policy applied to backend failures
	RetryConfig RetryConfig `json:"retry_config,omitempty" yaml:"retry_config,omitempty"`
}

// NewDefaultCaptureConfig creates default capture configuration
func NewDefaultCaptureConfig() CaptureConfig {
	return CaptureConfig{
		PoolSize:                 DefaultCapturePoolSize,
		PageLoadTimeoutSecs:      DefaultCapturePageTimeoutSecs,
		WaitAfterLoadMs:          DefaultCaptureWaitAfterLoadMs,
		UserAgent:                DefaultCaptureUserAgent,
		DefaultBrowserEngine:     DefaultCaptureBrowserEngine,
		DefaultViewportWidth:     DefaultCaptureViewportWidth,
		DefaultViewportHeight:    DefaultCaptureViewportHeight,
		DefaultDeviceScaleFactor: DefaultCaptureDeviceScaleFactor,
		RetryConfig:              NewDefaultRetryConfig(),
	}
}
