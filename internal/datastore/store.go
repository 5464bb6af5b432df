package datastore

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/aleister1102/visualreg/internal/common/errorwrapper"
	"github.com/aleister1102/visualreg/internal/config"
	"github.com/aleister1102/visualreg/internal/models"
	"github.com/rs/zerolog"
)

// Collection file names under the storage base path.
const (
	screenshotsFile = "screenshots.json.zst"
	diffsFile       = "diffs.json.zst"
	settingsFile    = "settings.json.zst"
	suitesFile      = "suites.json.zst"
)

// Store persists screenshots, diffs, settings and test suites as versioned
// zstd-compressed JSON collections. Each collection is guarded by its own
// mutex; a load-mutate-save cycle is one critical section per collection.
// Screenshots and diffs are evicted independently by the retention policy.
type Store struct {
	config config.StorageConfig
	logger zerolog.Logger
	codec  *collectionCodec
	writer fileWriter

	screenshotsMu sync.Mutex
	diffsMu       sync.Mutex
	settingsMu    sync.Mutex
	suitesMu      sync.Mutex
}

// SaveScreenshots merges the given screenshots into the stored collection
// and re-applies the retention cap before writing.
func (s *Store) SaveScreenshots(screenshots []models.Screenshot) error {
	s.screenshotsMu.Lock()
	defer s.screenshotsMu.Unlock()

	stored := s.loadScreenshotMap()
	for _, screenshot := range screenshots {
		stored[screenshot.ID] = screenshot
	}
	evictScreenshots(stored, s.config.MaxScreenshots)

	return s.persistCollection("screenshots", screenshotsFile, stored)
}

// LoadScreenshots returns all stored screenshots, newest first. Corrupt
// persisted data degrades to an empty collection.
func (s *Store) LoadScreenshots() ([]models.Screenshot, error) {
	s.screenshotsMu.Lock()
	defer s.screenshotsMu.Unlock()

	stored := s.loadScreenshotMap()
	out := make([]models.Screenshot, 0, len(stored))
	for _, screenshot := range stored {
		out = append(out, screenshot)
	}
	sortScreenshotsNewestFirst(out)

	return out, nil
}

// SaveDiffs merges the given diffs into the stored collection and re-applies
// the retention cap before writing.
func (s *Store) SaveDiffs(diffs []models.VisualDiff) error {
	s.diffsMu.Lock()
	defer s.diffsMu.Unlock()

	stored := s.loadDiffMap()
	for _, diff := range diffs {
		stored[diff.ID] = diff
	}
	evictDiffs(stored, s.config.MaxDiffs)

	return s.persistCollection("diffs", diffsFile, stored)
}

// LoadDiffs returns all stored diffs, newest first. Corrupt persisted data
// degrades to an empty collection.
func (s *Store) LoadDiffs() ([]models.VisualDiff, error) {
	s.diffsMu.Lock()
	defer s.diffsMu.Unlock()

	stored := s.loadDiffMap()
	out := make([]models.VisualDiff, 0, len(stored))
	for _, diff := range stored {
		out = append(out, diff)
	}
	sortDiffsNewestFirst(out)

	return out, nil
}

// SaveSettings persists the settings collection
func (s *Store) SaveSettings(settings models.Settings) error {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()

	return s.persistCollection("settings", settingsFile, settings)
}

// LoadSettings returns the stored settings or defaults when none exist
func (s *Store) LoadSettings() (models.Settings, error) {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()

	settings := defaultSettings()
	s.loadCollection(settingsFile, &settings)
	return settings, nil
}

// SaveTestSuite merges one named suite into the suites collection
func (s *Store) SaveTestSuite(suite models.TestSuite) error {
	s.suitesMu.Lock()
	defer s.suitesMu.Unlock()

	if suite.Name == "" {
		return errorwrapper.NewValidationError("name", suite.Name, "test suite name cannot be empty")
	}

	stored := s.loadSuiteMap()
	stored[suite.Name] = suite

	return s.persistCollection("suites", suitesFile, stored)
}

// LoadTestSuites returns all stored test suites keyed by name
func (s *Store) LoadTestSuites() (map[string]models.TestSuite, error) {
	s.suitesMu.Lock()
	defer s.suitesMu.Unlock()

	return s.loadSuiteMap(), nil
}

// Cleanup re-applies the retention caps to both record collections. Inputs
// exactly at capacity are preserved unchanged.
func (s *Store) Cleanup() error {
	if err := s.cleanupScreenshots(true); err != nil {
		return err
	}
	return s.cleanupDiffs(true)
}

func (s *Store) cleanupScreenshots(allowRecovery bool) error {
	s.screenshotsMu.Lock()
	defer s.screenshotsMu.Unlock()

	stored := s.loadScreenshotMap()
	if evictScreenshots(stored, s.config.MaxScreenshots) == 0 {
		return nil
	}
	return s.persist("screenshots", screenshotsFile, stored, allowRecovery)
}

func (s *Store) cleanupDiffs(allowRecovery bool) error {
	s.diffsMu.Lock()
	defer s.diffsMu.Unlock()

	stored := s.loadDiffMap()
	if evictDiffs(stored, s.config.MaxDiffs) == 0 {
		return nil
	}
	return s.persist("diffs", diffsFile, stored, allowRecovery)
}

// loadScreenshotMap reads the screenshot collection, degrading to empty on
// missing or corrupt data. Callers must hold screenshotsMu.
func (s *Store) loadScreenshotMap() map[string]models.Screenshot {
	stored := make(map[string]models.Screenshot)
	s.loadCollection(screenshotsFile, &stored)
	return stored
}

// loadDiffMap reads the diff collection. Callers must hold diffsMu.
func (s *Store) loadDiffMap() map[string]models.VisualDiff {
	stored := make(map[string]models.VisualDiff)
	s.loadCollection(diffsFile, &stored)
	return stored
}

// loadSuiteMap reads the suites collection. Callers must hold suitesMu.
func (s *Store) loadSuiteMap() map[string]models.TestSuite {
	stored := make(map[string]models.TestSuite)
	s.loadCollection(suitesFile, &stored)
	return stored
}

// loadCollection fills records from a collection file. A missing file leaves
// records untouched; corrupt data is logged and likewise degrades to the
// zero state instead of failing the load path.
func (s *Store) loadCollection(fileName string, records any) {
	path := filepath.Join(s.config.BasePath, fileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("file", fileName).Msg("Failed to read collection file")
		}
		return
	}

	if err := s.codec.decode(data, records); err != nil {
		s.logger.Warn().Err(err).Str("file", fileName).Msg("Collection is corrupt, starting empty")
	}
}

// persistCollection writes one collection with write-failure recovery: a
// failed write triggers one retention cleanup of the other record collection
// and exactly one retry before the failure is surfaced.
func (s *Store) persistCollection(collection, fileName string, records any) error {
	return s.persist(collection, fileName, records, true)
}

// persist writes one collection. Recovery is single-level: a cleanup running
// inside the recovery path persists with allowRecovery false, so its own
// write failure surfaces immediately instead of recursing into another
// cleanup while this call still holds a collection mutex.
func (s *Store) persist(collection, fileName string, records any, allowRecovery bool) error {
	payload, err := s.codec.encode(records)
	if err != nil {
		return errorwrapper.NewStorageError(collection, "encode", err)
	}

	path := filepath.Join(s.config.BasePath, fileName)
	err = s.writer(path, payload)
	if err == nil {
		return nil
	}
	if !allowRecovery {
		return errorwrapper.NewStorageError(collection, "write", err)
	}

	s.logger.Warn().Err(err).Str("collection", collection).Msg("Write failed, running cleanup and retrying once")
	s.cleanupOther(collection)

	if err := s.writer(path, payload); err != nil {
		return errorwrapper.NewStorageError(collection, "write", err)
	}
	return nil
}

// cleanupOther evicts the record collection that persist is not currently
// holding a lock on, to release backing-store space. The cleanups run
// without recovery of their own.
func (s *Store) cleanupOther(collection string) {
	switch collection {
	case "screenshots":
		if err := s.cleanupDiffs(false); err != nil {
			s.logger.Warn().Err(err).Msg("Cleanup of diffs during write recovery failed")
		}
	case "diffs":
		if err := s.cleanupScreenshots(false); err != nil {
			s.logger.Warn().Err(err).Msg("Cleanup of screenshots during write recovery failed")
		}
	default:
		if err := s.cleanupScreenshots(false); err != nil {
			s.logger.Warn().Err(err).Msg("Cleanup of screenshots during write recovery failed")
		}
		if err := s.cleanupDiffs(false); err != nil {
			s.logger.Warn().Err(err).Msg("Cleanup of diffs during write recovery failed")
		}
	}
}

// defaultSettings mirrors the engine defaults
func defaultSettings() models.Settings {
	return models.Settings{
		DefaultThreshold: config.DefaultDifferThreshold,
		DefaultViewport: models.Viewport{
			Width:             config.DefaultCaptureViewportWidth,
			Height:            config.DefaultCaptureViewportHeight,
			DeviceScaleFactor: config.DefaultCaptureDeviceScaleFactor,
		},
		DefaultBrowserEngine: config.DefaultCaptureBrowserEngine,
	}
}

func sortScreenshotsNewestFirst(screenshots []models.Screenshot) {
	sort.Slice(screenshots, func(i, j int) bool {
		if screenshots[i].Timestamp != screenshots[j].Timestamp {
			return screenshots[i].Timestamp > screenshots[j].Timestamp
		}
		return screenshots[i].ID < screenshots[j].ID
	})
}

func sortDiffsNewestFirst(diffs []models.VisualDiff) {
	sort.Slice(diffs, func(i, j int) bool {
		if diffs[i].Timestamp != diffs[j].Timestamp {
			return diffs[i].Timestamp > diffs[j].Timestamp
		}
		return diffs[i].ID < diffs[j].ID
	})
}
