package models

// DiffStatus is the pass/fail verdict of a visual comparison.
type DiffStatus string

const (
	// DiffStatusPassed indicates the changed-pixel ratio stayed within the threshold.
	DiffStatusPassed DiffStatus = "passed"
	// DiffStatusFailed indicates the changed-pixel ratio exceeded the threshold.
	DiffStatusFailed DiffStatus = "failed"
)

// DiffRegion is the bounding box of one contiguous cluster of differing pixels.
// PixelCount is the number of changed pixels inside the box; summing PixelCount
// over all regions yields DiffMetrics.ChangedPixels. Delta is the maximum
// normalized color delta observed inside the region.
type DiffRegion struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	PixelCount int     `json:"pixel_count"`
	Delta      float64 `json:"delta"`
}

// DiffMetrics aggregates the numeric outcome of a comparison. All fields are
// finite; ratio fields resolve to 0 when their denominator is 0.
type DiffMetrics struct {
	TotalPixels       int64   `json:"total_pixels"`
	ChangedPixels     int64   `json:"changed_pixels"`
	PercentageChanged float64 `json:"percentage_changed"`
	Similarity        float64 `json:"similarity"`
	MeanColorDelta    float64 `json:"mean_color_delta"`
	MaxColorDelta     float64 `json:"max_color_delta"`
	Regions           int     `json:"regions"`
}

// VisualDiff is the computed comparison artifact between two screenshots.
// BaselineID and ComparisonID are weak references: a diff may outlive the
// screenshots it was computed from, since both kinds are evicted independently.
type VisualDiff struct {
	ID           string       `json:"id"`
	BaselineID   string       `json:"baseline_id"`
	ComparisonID string       `json:"comparison_id"`
	Timestamp    int64        `json:"timestamp"` // unix milliseconds
	Status       DiffStatus   `json:"status"`
	Differences  []DiffRegion `json:"differences"`
	Metrics      DiffMetrics  `json:"metrics"`
	Threshold    float64      `json:"threshold"`
}

// DiffRequest is the transient input to the diff engine. Threshold 0 means
// "use the engine default".
type DiffRequest struct {
	Baseline   *Screenshot
	Comparison *Screenshot
	Threshold  float64
}
