package models

// ExportVersion is the semantic version stamped on export bundles. Importers
// tolerate mismatched versions by importing field-by-field instead of
// rejecting the whole bundle.
const ExportVersion = "1.0.0"

// TestSuite is a named grouping of screenshots carried inside export bundles.
type TestSuite struct {
	Name          string   `json:"name"`
	ScreenshotIDs []string `json:"screenshot_ids"`
	CreatedAt     int64    `json:"created_at"`
}

// Settings holds the user-tunable defaults persisted alongside captures.
type Settings struct {
	DefaultThreshold     float64  `json:"default_threshold"`
	DefaultViewport      Viewport `json:"default_viewport"`
	DefaultBrowserEngine string   `json:"default_browser_engine"`
}

// ExportData is the one versioned bundle produced by export and consumed by
// import. Collections are keyed by record ID.
type ExportData struct {
	Version     string                `json:"version"`
	ExportedAt  int64                 `json:"exported_at"`
	Screenshots map[string]Screenshot `json:"screenshots"`
	Diffs       map[string]VisualDiff `json:"diffs"`
	TestSuites  map[string]TestSuite  `json:"test_suites"`
	Settings    Settings              `json:"settings"`
}
