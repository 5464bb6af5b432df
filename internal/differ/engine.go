package differ

import (
	"context"
	"image"
	"time"

	"github.com/aleister1102/visualreg/internal/common/errorwrapper"
	"github.com/aleister1102/visualreg/internal/config"
	"github.com/aleister1102/visualreg/internal/imageutil"
	"github.com/aleister1102/visualreg/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CompareOutput bundles the numeric diff record with its renderable artifact.
// DiffImage and Thumbnail are PNG data URIs; both are empty when artifact
// rendering is disabled or the images are zero-sized.
type CompareOutput struct {
	Diff      *models.VisualDiff
	DiffImage string
	Thumbnail string
}

// CompareResult holds the per-item outcome of a batch comparison.
type CompareResult struct {
	Comparison *models.Screenshot
	Output     *CompareOutput
	Err        error
}

// Engine computes perceptual differences between screenshot pairs. Chunked
// comparison runs on the configured executor; if the parallel executor fails
// the engine falls back to the sequential one transparently, with identical
// results either way.
type Engine struct {
	config   config.DifferConfig
	logger   zerolog.Logger
	executor chunkExecutor
	fallback chunkExecutor
	perf     performanceTracker
}

// Compare computes the visual diff between a baseline and a comparison
// screenshot. Dimension mismatch and undecodable pixel data are reported as
// errors; no partial diff is ever returned.
func (e *Engine) Compare(ctx context.Context, request models.DiffRequest) (*CompareOutput, error) {
	startTime := time.Now()

	baseline, comparison, err := e.decodeInputs(request)
	if err != nil {
		return nil, err
	}

	threshold := request.Threshold
	if threshold <= 0 {
		threshold = e.config.DefaultThreshold
	}

	width := baseline.Bounds().Dx()
	height := baseline.Bounds().Dy()

	job := chunkJob{
		baseline:   baseline,
		comparison: comparison,
		width:      width,
		tolerance:  e.config.PixelTolerance,
	}
	chunks := partitionChunks(height, e.config.ChunkRows)

	results, err := e.runChunks(ctx, job, chunks)
	if err != nil {
		return nil, err
	}

	// Merge in chunk-index order; results arrive index-addressed so this is
	// a fixed scan regardless of worker scheduling.
	var pixels []changedPixel
	var sumDelta, maxDelta float64
	for _, result := range results {
		pixels = append(pixels, result.pixels...)
		sumDelta += result.sumDelta
		if result.maxDelta > maxDelta {
			maxDelta = result.maxDelta
		}
	}

	regions := clusterRegions(pixels)
	metrics := buildMetrics(width, height, int64(len(pixels)), sumDelta, maxDelta, len(regions))
	metrics.Similarity = structuralSimilarity(baseline, comparison)

	status := models.DiffStatusPassed
	if metrics.PercentageChanged > threshold {
		status = models.DiffStatusFailed
	}

	diff := &models.VisualDiff{
		ID:           uuid.NewString(),
		BaselineID:   request.Baseline.ID,
		ComparisonID: request.Comparison.ID,
		Timestamp:    time.Now().UnixMilli(),
		Status:       status,
		Differences:  regions,
		Metrics:      metrics,
		Threshold:    threshold,
	}

	output := &CompareOutput{Diff: diff}
	if e.config.RenderDiffImage {
		full, thumb, err := renderDiffArtifact(baseline, pixels, e.config.ThumbnailMaxWidth)
		if err != nil {
			return nil, err
		}
		output.DiffImage = full
		output.Thumbnail = thumb
	}

	e.perf.record(time.Since(startTime))

	e.logger.Debug().
		Str("diff_id", diff.ID).
		Str("status", string(diff.Status)).
		Int64("changed_pixels", metrics.ChangedPixels).
		Float64("similarity", metrics.Similarity).
		Msg("Comparison completed")

	return output, nil
}

// BatchCompare compares one baseline against many comparisons with per-pair
// semantics identical to Compare. One failing pair never aborts the rest.
func (e *Engine) BatchCompare(
	ctx context.Context,
	baseline *models.Screenshot,
	comparisons []*models.Screenshot,
	threshold float64,
) []CompareResult {
	results := make([]CompareResult, len(comparisons))

	for i, comparison := range comparisons {
		output, err := e.Compare(ctx, models.DiffRequest{
			Baseline:   baseline,
			Comparison: comparison,
			Threshold:  threshold,
		})
		results[i] = CompareResult{
			Comparison: comparison,
			Output:     output,
			Err:        err,
		}
	}

	return results
}

// PerformanceMetrics returns the running comparison statistics
func (e *Engine) PerformanceMetrics() PerformanceMetrics {
	return e.perf.snapshot()
}

// runChunks executes the chunk comparison on the configured executor and
// falls back to the sequential executor when the parallel one fails. The
// fallback is invisible to the caller beyond the performance counters.
func (e *Engine) runChunks(ctx context.Context, job chunkJob, chunks []chunk) ([]chunkResult, error) {
	results, err := e.executor.run(ctx, job, chunks)
	if err == nil {
		return results, nil
	}

	if ctx.Err() != nil || e.executor == e.fallback {
		return nil, err
	}

	e.logger.Warn().
		Err(err).
		Str("executor", e.executor.name()).
		Msg("Chunk executor failed, falling back to sequential processing")
	e.perf.recordFallback()

	return e.fallback.run(ctx, job, chunks)
}

// decodeInputs reconstructs both pixel buffers and enforces the
// identical-dimensions invariant
func (e *Engine) decodeInputs(request models.DiffRequest) (baseline, comparison *image.RGBA, err error) {
	if request.Baseline == nil {
		return nil, nil, errorwrapper.NewValidationError("baseline", nil, "baseline screenshot cannot be nil")
	}
	if request.Comparison == nil {
		return nil, nil, errorwrapper.NewValidationError("comparison", nil, "comparison screenshot cannot be nil")
	}

	baseline, err = imageutil.RGBAFromRaw(request.Baseline.PixelData, request.Baseline.Metadata.Dimensions)
	if err != nil {
		return nil, nil, errorwrapper.WrapError(err, "baseline pixel data is corrupt")
	}

	comparison, err = imageutil.RGBAFromRaw(request.Comparison.PixelData, request.Comparison.Metadata.Dimensions)
	if err != nil {
		return nil, nil, errorwrapper.WrapError(err, "comparison pixel data is corrupt")
	}

	bb := baseline.Bounds()
	cb := comparison.Bounds()
	if bb.Dx() != cb.Dx() || bb.Dy() != cb.Dy() {
		return nil, nil, errorwrapper.NewDimensionMismatchError(bb.Dx(), bb.Dy(), cb.Dx(), cb.Dy())
	}

	return baseline, comparison, nil
}

// buildMetrics assembles the aggregate metrics with the degenerate-input
// guard: every ratio resolves to 0 when its denominator is 0.
func buildMetrics(width, height int, changedPixels int64, sumDelta, maxDelta float64, regions int) models.DiffMetrics {
	totalPixels := int64(width) * int64(height)

	metrics := models.DiffMetrics{
		TotalPixels:   totalPixels,
		ChangedPixels: changedPixels,
		MaxColorDelta: maxDelta,
		Regions:       regions,
	}

	if totalPixels > 0 {
		metrics.PercentageChanged = float64(changedPixels) / float64(totalPixels)
		metrics.MeanColorDelta = sumDelta / float64(totalPixels)
	}

	return metrics
}
