package datastore

import "github.com/aleister1102/visualreg/internal/models"

// evictScreenshots trims a screenshot map down to the newest maxRecords by
// timestamp and returns the number of evicted entries. Maps at or under
// capacity are left unchanged.
func evictScreenshots(stored map[string]models.Screenshot, maxRecords int) int {
	if len(stored) <= maxRecords {
		return 0
	}

	ordered := make([]models.Screenshot, 0, len(stored))
	for _, screenshot := range stored {
		ordered = append(ordered, screenshot)
	}
	sortScreenshotsNewestFirst(ordered)

	evicted := 0
	for _, screenshot := range ordered[maxRecords:] {
		delete(stored, screenshot.ID)
		evicted++
	}
	return evicted
}

// evictDiffs trims a diff map down to the newest maxRecords by timestamp and
// returns the number of evicted entries. Diffs are evicted independently of
// the screenshots they reference.
func evictDiffs(stored map[string]models.VisualDiff, maxRecords int) int {
	if len(stored) <= maxRecords {
		return 0
	}

	ordered := make([]models.VisualDiff, 0, len(stored))
	for _, diff := range stored {
		ordered = append(ordered, diff)
	}
	sortDiffsNewestFirst(ordered)

	evicted := 0
	for _, diff := range ordered[maxRecords:] {
		delete(stored, diff.ID)
		evicted++
	}
	return evicted
}
