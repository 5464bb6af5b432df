package datastore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aleister1102/visualreg/internal/common/errorwrapper"
	"github.com/aleister1102/visualreg/internal/config"
	"github.com/aleister1102/visualreg/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	cfg := config.NewDefaultStorageConfig()
	cfg.BasePath = t.TempDir()

	store, err := NewStoreBuilder(zerolog.Nop()).WithConfig(cfg).Build()
	require.NoError(t, err)
	return store
}

func makeScreenshots(start, count int) []models.Screenshot {
	out := make([]models.Screenshot, 0, count)
	for i := start; i < start+count; i++ {
		out = append(out, models.Screenshot{
			ID:        fmt.Sprintf("shot-%04d", i),
			Name:      fmt.Sprintf("page %d", i),
			URL:       "https://example.com",
			Timestamp: int64(1000 + i),
			PixelData: []byte{1, 2, 3, 4},
			Metadata:  models.ScreenshotMetadata{Dimensions: models.Dimensions{Width: 1, Height: 1}},
		})
	}
	return out
}

func makeDiffs(start, count int) []models.VisualDiff {
	out := make([]models.VisualDiff, 0, count)
	for i := start; i < start+count; i++ {
		out = append(out, models.VisualDiff{
			ID:        fmt.Sprintf("diff-%04d", i),
			Timestamp: int64(1000 + i),
			Status:    models.DiffStatusPassed,
		})
	}
	return out
}

func TestStore_ScreenshotRoundTrip(t *testing.T) {
	store := newTestStore(t)

	saved := makeScreenshots(0, 3)
	require.NoError(t, store.SaveScreenshots(saved))

	loaded, err := store.LoadScreenshots()
	require.NoError(t, err)
	require.Len(t, loaded, 3)

	// Newest first
	assert.Equal(t, "shot-0002", loaded[0].ID)
	assert.Equal(t, "shot-0000", loaded[2].ID)
	assert.Equal(t, saved[2].PixelData, loaded[0].PixelData)

	// Saving the same IDs again replaces, not duplicates
	require.NoError(t, store.SaveScreenshots(saved))
	loaded, err = store.LoadScreenshots()
	require.NoError(t, err)
	assert.Len(t, loaded, 3)
}

func TestStore_ScreenshotRetention(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveScreenshots(makeScreenshots(0, 130)))

	loaded, err := store.LoadScreenshots()
	require.NoError(t, err)
	require.Len(t, loaded, 100)

	// The newest 100 survive, oldest 30 are evicted
	assert.Equal(t, "shot-0129", loaded[0].ID)
	assert.Equal(t, "shot-0030", loaded[99].ID)
}

func TestStore_RetentionAtExactCapacity(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveScreenshots(makeScreenshots(0, 100)))
	require.NoError(t, store.SaveDiffs(makeDiffs(0, 50)))
	require.NoError(t, store.Cleanup())

	screenshots, err := store.LoadScreenshots()
	require.NoError(t, err)
	assert.Len(t, screenshots, 100)

	diffs, err := store.LoadDiffs()
	require.NoError(t, err)
	assert.Len(t, diffs, 50)
}

func TestStore_DiffRetention(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveDiffs(makeDiffs(0, 75)))

	loaded, err := store.LoadDiffs()
	require.NoError(t, err)
	require.Len(t, loaded, 50)
	assert.Equal(t, "diff-0074", loaded[0].ID)
	assert.Equal(t, "diff-0025", loaded[49].ID)
}

func TestStore_CorruptCollectionDegradesToEmpty(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveScreenshots(makeScreenshots(0, 2)))

	path := filepath.Join(store.config.BasePath, screenshotsFile)
	require.NoError(t, os.WriteFile(path, []byte("not a compressed collection"), 0644))

	loaded, err := store.LoadScreenshots()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestStore_SettingsDefaultsAndRoundTrip(t *testing.T) {
	store := newTestStore(t)

	settings, err := store.LoadSettings()
	require.NoError(t, err)
	assert.InDelta(t, config.DefaultDifferThreshold, settings.DefaultThreshold, 1e-12)
	assert.Equal(t, config.DefaultCaptureViewportWidth, settings.DefaultViewport.Width)

	settings.DefaultThreshold = 0.25
	settings.DefaultBrowserEngine = "firefox"
	require.NoError(t, store.SaveSettings(settings))

	reloaded, err := store.LoadSettings()
	require.NoError(t, err)
	assert.InDelta(t, 0.25, reloaded.DefaultThreshold, 1e-12)
	assert.Equal(t, "firefox", reloaded.DefaultBrowserEngine)
}

func TestStore_TestSuites(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveTestSuite(models.TestSuite{
		Name:          "homepage",
		ScreenshotIDs: []string{"shot-0001", "shot-0002"},
		CreatedAt:     1234,
	}))

	err := store.SaveTestSuite(models.TestSuite{Name: ""})
	require.Error(t, err)
	assert.ErrorIs(t, err, errorwrapper.ErrInvalidInput)

	suites, err := store.LoadTestSuites()
	require.NoError(t, err)
	require.Len(t, suites, 1)
	assert.Equal(t, []string{"shot-0001", "shot-0002"}, suites["homepage"].ScreenshotIDs)
}

func TestStore_ExportImportRoundTrip(t *testing.T) {
	source := newTestStore(t)
	require.NoError(t, source.SaveScreenshots(makeScreenshots(0, 5)))
	require.NoError(t, source.SaveDiffs(makeDiffs(0, 3)))
	require.NoError(t, source.SaveTestSuite(models.TestSuite{Name: "suite-a", CreatedAt: 1}))

	bundle, err := source.ExportData()
	require.NoError(t, err)
	assert.Equal(t, models.ExportVersion, bundle.Version)
	assert.Len(t, bundle.Screenshots, 5)
	assert.Len(t, bundle.Diffs, 3)
	assert.Len(t, bundle.TestSuites, 1)

	target := newTestStore(t)
	ok, err := target.ImportData(bundle)
	require.NoError(t, err)
	assert.True(t, ok)

	screenshots, err := target.LoadScreenshots()
	require.NoError(t, err)
	assert.Len(t, screenshots, 5)

	diffs, err := target.LoadDiffs()
	require.NoError(t, err)
	assert.Len(t, diffs, 3)

	suites, err := target.LoadTestSuites()
	require.NoError(t, err)
	assert.Contains(t, suites, "suite-a")
}

func TestStore_ImportKeepsExistingOnCollision(t *testing.T) {
	store := newTestStore(t)

	existing := makeScreenshots(0, 1)
	existing[0].Name = "local copy"
	require.NoError(t, store.SaveScreenshots(existing))

	incoming := makeScreenshots(0, 2)
	incoming[0].Name = "imported copy" // same ID as the local record
	bundle := &models.ExportData{
		Version: models.ExportVersion,
		Screenshots: map[string]models.Screenshot{
			incoming[0].ID: incoming[0],
			incoming[1].ID: incoming[1],
		},
	}

	ok, err := store.ImportData(bundle)
	require.NoError(t, err)
	assert.True(t, ok)

	loaded, err := store.LoadScreenshots()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	for _, screenshot := range loaded {
		if screenshot.ID == existing[0].ID {
			assert.Equal(t, "local copy", screenshot.Name)
		}
	}
}

func TestStore_ImportNilBundle(t *testing.T) {
	store := newTestStore(t)

	ok, err := store.ImportData(nil)
	assert.False(t, ok)
	assert.ErrorIs(t, err, errorwrapper.ErrInvalidInput)
}

func TestStore_ImportVersionMismatchStillImports(t *testing.T) {
	store := newTestStore(t)

	shot := makeScreenshots(0, 1)[0]
	bundle := &models.ExportData{
		Version:     "0.9.0",
		Screenshots: map[string]models.Screenshot{shot.ID: shot},
	}

	ok, err := store.ImportData(bundle)
	require.NoError(t, err)
	assert.True(t, ok)

	loaded, err := store.LoadScreenshots()
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestStore_WriteFailureCleansUpAndRetries(t *testing.T) {
	cfg := config.NewDefaultStorageConfig()
	cfg.BasePath = t.TempDir()

	var writes int
	flaky := func(path string, data []byte) error {
		writes++
		if writes == 1 {
			return errors.New("disk full")
		}
		return defaultFileWriter(path, data)
	}

	store, err := NewStoreBuilder(zerolog.Nop()).
		WithConfig(cfg).
		WithFileWriter(flaky).
		Build()
	require.NoError(t, err)

	require.NoError(t, store.SaveScreenshots(makeScreenshots(0, 1)))
	assert.Equal(t, 2, writes, "exactly one retry after the failed write")

	loaded, err := store.LoadScreenshots()
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestStore_WriteFailurePersistsAfterRetry(t *testing.T) {
	cfg := config.NewDefaultStorageConfig()
	cfg.BasePath = t.TempDir()

	var writes int
	broken := func(string, []byte) error {
		writes++
		return errors.New("disk full")
	}

	store, err := NewStoreBuilder(zerolog.Nop()).
		WithConfig(cfg).
		WithFileWriter(broken).
		Build()
	require.NoError(t, err)

	err = store.SaveScreenshots(makeScreenshots(0, 1))
	require.Error(t, err)

	var storageErr *errorwrapper.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "screenshots", storageErr.Collection)
	assert.Equal(t, "write", storageErr.Operation)
	assert.Equal(t, 2, writes)
}

func TestStore_RecoveryCleanupFailureSurfacesError(t *testing.T) {
	basePath := t.TempDir()

	// Seed more diffs than the retention cap the store will reopen with, so
	// the recovery cleanup has evictions to persist.
	seedCfg := config.NewDefaultStorageConfig()
	seedCfg.BasePath = basePath
	seedCfg.MaxDiffs = 100

	seedStore, err := NewStoreBuilder(zerolog.Nop()).WithConfig(seedCfg).Build()
	require.NoError(t, err)
	require.NoError(t, seedStore.SaveDiffs(makeDiffs(0, 60)))

	cfg := config.NewDefaultStorageConfig()
	cfg.BasePath = basePath

	broken := func(string, []byte) error {
		return errors.New("disk full")
	}
	store, err := NewStoreBuilder(zerolog.Nop()).
		WithConfig(cfg).
		WithFileWriter(broken).
		Build()
	require.NoError(t, err)

	// The failed screenshot write triggers a diff cleanup whose own write
	// also fails; that second failure must surface, not block.
	done := make(chan error, 1)
	go func() {
		done <- store.SaveScreenshots(makeScreenshots(0, 1))
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		var storageErr *errorwrapper.StorageError
		require.ErrorAs(t, err, &storageErr)
		assert.Equal(t, "screenshots", storageErr.Collection)
	case <-time.After(5 * time.Second):
		t.Fatal("SaveScreenshots never returned; write-failure recovery must not block")
	}
}

func TestStore_StorageInfo(t *testing.T) {
	store := newTestStore(t)

	info, err := store.StorageInfo()
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.UsedBytes)
	assert.Equal(t, store.config.CapacityBytes, info.TotalBytes)

	require.NoError(t, store.SaveScreenshots(makeScreenshots(0, 3)))

	info, err = store.StorageInfo()
	require.NoError(t, err)
	assert.Greater(t, info.UsedBytes, int64(0))
	assert.LessOrEqual(t, info.AvailableBytes, info.TotalBytes-info.UsedBytes)
}

func TestStore_BuilderValidation(t *testing.T) {
	_, err := NewStoreBuilder(zerolog.Nop()).
		WithConfig(config.StorageConfig{}).
		Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, errorwrapper.ErrInvalidInput)
}

func TestEvictScreenshots(t *testing.T) {
	stored := make(map[string]models.Screenshot)
	for _, s := range makeScreenshots(0, 10) {
		stored[s.ID] = s
	}

	assert.Equal(t, 0, evictScreenshots(stored, 10))
	assert.Len(t, stored, 10)

	assert.Equal(t, 4, evictScreenshots(stored, 6))
	assert.Len(t, stored, 6)
	_, oldestSurvivor := stored["shot-0004"]
	assert.True(t, oldestSurvivor)
	_, evicted := stored["shot-0003"]
	assert.False(t, evicted)
}
