package datastore

import (
	"time"

	"github.com/aleister1102/visualreg/internal/common/errorwrapper"
	"github.com/aleister1102/visualreg/internal/models"
)

// ExportData assembles every collection into one versioned bundle.
func (s *Store) ExportData() (*models.ExportData, error) {
	screenshots := func() map[string]models.Screenshot {
		s.screenshotsMu.Lock()
		defer s.screenshotsMu.Unlock()
		return s.loadScreenshotMap()
	}()

	diffs := func() map[string]models.VisualDiff {
		s.diffsMu.Lock()
		defer s.diffsMu.Unlock()
		return s.loadDiffMap()
	}()

	suites, err := s.LoadTestSuites()
	if err != nil {
		return nil, err
	}

	settings, err := s.LoadSettings()
	if err != nil {
		return nil, err
	}

	return &models.ExportData{
		Version:     models.ExportVersion,
		ExportedAt:  time.Now().UnixMilli(),
		Screenshots: screenshots,
		Diffs:       diffs,
		TestSuites:  suites,
		Settings:    settings,
	}, nil
}

// ImportData merges a bundle into existing storage. Existing records always
// win on ID collision, so an import never silently overwrites local state.
// A mismatched bundle version is tolerated: each collection is imported
// best-effort instead of rejecting the whole bundle.
func (s *Store) ImportData(data *models.ExportData) (bool, error) {
	if data == nil {
		return false, errorwrapper.NewValidationError("data", nil, "import bundle cannot be nil")
	}

	if data.Version != models.ExportVersion {
		s.logger.Warn().
			Str("bundle_version", data.Version).
			Str("supported_version", models.ExportVersion).
			Msg("Import bundle version mismatch, importing field by field")
	}

	if err := s.importScreenshots(data.Screenshots); err != nil {
		return false, err
	}
	if err := s.importDiffs(data.Diffs); err != nil {
		return false, err
	}
	if err := s.importSuites(data.TestSuites); err != nil {
		return false, err
	}

	s.logger.Info().
		Int("screenshots", len(data.Screenshots)).
		Int("diffs", len(data.Diffs)).
		Int("test_suites", len(data.TestSuites)).
		Msg("Import completed")

	return true, nil
}

func (s *Store) importScreenshots(incoming map[string]models.Screenshot) error {
	if len(incoming) == 0 {
		return nil
	}

	s.screenshotsMu.Lock()
	defer s.screenshotsMu.Unlock()

	stored := s.loadScreenshotMap()
	for id, screenshot := range incoming {
		if _, exists := stored[id]; exists {
			continue // existing record wins
		}
		stored[id] = screenshot
	}
	evictScreenshots(stored, s.config.MaxScreenshots)

	return s.persistCollection("screenshots", screenshotsFile, stored)
}

func (s *Store) importDiffs(incoming map[string]models.VisualDiff) error {
	if len(incoming) == 0 {
		return nil
	}

	s.diffsMu.Lock()
	defer s.diffsMu.Unlock()

	stored := s.loadDiffMap()
	for id, diff := range incoming {
		if _, exists := stored[id]; exists {
			continue // existing record wins
		}
		stored[id] = diff
	}
	evictDiffs(stored, s.config.MaxDiffs)

	return s.persistCollection("diffs", diffsFile, stored)
}

func (s *Store) importSuites(incoming map[string]models.TestSuite) error {
	if len(incoming) == 0 {
		return nil
	}

	s.suitesMu.Lock()
	defer s.suitesMu.Unlock()

	stored := s.loadSuiteMap()
	for name, suite := range incoming {
		if _, exists := stored[name]; exists {
			continue // existing record wins
		}
		stored[name] = suite
	}

	return s.persistCollection("suites", suitesFile, stored)
}
