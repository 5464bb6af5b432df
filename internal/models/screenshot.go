package models

// Viewport describes the rendering surface a screenshot was captured with.
type Viewport struct {
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	DeviceScaleFactor float64 `json:"device_scale_factor"`
	IsMobile          bool    `json:"is_mobile"`
}

// Dimensions holds pixel dimensions of a captured buffer.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ScreenshotMetadata holds derived information about a captured pixel buffer.
type ScreenshotMetadata struct {
	UserAgent  string     `json:"user_agent"`
	PixelRatio float64    `json:"pixel_ratio"`
	ColorDepth int        `json:"color_depth"`
	FileSize   int64      `json:"file_size"`
	Dimensions Dimensions `json:"dimensions"`
	Hash       string     `json:"hash"`
}

// Screenshot is an immutable captured pixel buffer plus viewport and browser metadata.
// PixelData is raw RGBA, row-major, 4 bytes per pixel; its dimensions always equal
// Metadata.Dimensions. Screenshots are created only by the capture engine and are
// never mutated afterwards, only evicted by storage retention.
type Screenshot struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	URL           string             `json:"url"`
	Viewport      Viewport           `json:"viewport"`
	BrowserEngine string             `json:"browser_engine"`
	Timestamp     int64              `json:"timestamp"` // unix milliseconds
	PixelData     []byte             `json:"pixel_data"`
	Metadata      ScreenshotMetadata `json:"metadata"`
	Tags          []string           `json:"tags,omitempty"`
}

// CaptureRequest is the transient input to the capture engine. It is never persisted.
type CaptureRequest struct {
	URL           string    `json:"url"`
	Name          string    `json:"name,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	Viewport      *Viewport `json:"viewport,omitempty"`
	BrowserEngine string    `json:"browser_engine,omitempty"`
}

// CaptureResult holds the per-item outcome of a batch capture. Either Screenshot
// or Err is set, never both.
type CaptureResult struct {
	Request    CaptureRequest
	Screenshot *Screenshot
	Err        error
}
