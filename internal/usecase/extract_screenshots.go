package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/celtic0827/FrameScout/internal/domain/entity"
	"github.com/celtic0827/FrameScout/internal/domain/port"
	"github.com/celtic0827/FrameScout/internal/infra/metrics"
	"github.com/celtic0827/FrameScout/internal/planner"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ProgressFunc receives the rounded percentage of attempted captures after
// every timestamp, successful or skipped. Values are non-decreasing and the
// final call is always 100.
type ProgressFunc func(percent int)

type BatchOptions struct {
	Count  int
	Jitter bool
	// Scale is the fraction of native dimensions in (0, 1].
	Scale float64
}

// ExtractScreenshotsUseCase drives one extraction run: load a fresh handle,
// plan timestamps, then capture and encode each one strictly in sequence.
// The media handle is a single shared mutable resource (one current playback
// position), so captures are never parallelized; interleaved seeks would
// leave no defined mapping from a completed seek to the timestamp that
// requested it.
type ExtractScreenshotsUseCase struct {
	loader  port.MediaLoader
	encoder port.FrameEncoder
	planner *planner.Planner
	logger  *zap.Logger
}

func NewExtractScreenshotsUseCase(
	loader port.MediaLoader,
	encoder port.FrameEncoder,
	pl *planner.Planner,
	logger *zap.Logger,
) *ExtractScreenshotsUseCase {
	return &ExtractScreenshotsUseCase{
		loader:  loader,
		encoder: encoder,
		planner: pl,
		logger:  logger,
	}
}

// ExtractBatch captures opts.Count screenshots spread over the video. A frame
// whose encode is refused is silently omitted; the run still completes and
// progress still reaches 100. Capture or load failures are fatal to the run.
func (uc *ExtractScreenshotsUseCase) ExtractBatch(
	ctx context.Context,
	sourcePath string,
	opts BatchOptions,
	onProgress ProgressFunc,
) (*entity.ExtractionRun, []entity.Screenshot, error) {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "ExtractScreenshots.Batch")
	defer span.End()

	totalTimer := time.Now()
	run := entity.NewExtractionRun(sourcePath, opts.Count)
	log := uc.logger.With(zap.String("run_id", run.ID.String()), zap.String("source", sourcePath))

	span.SetAttributes(
		attribute.String("run.id", run.ID.String()),
		attribute.Int("run.requested_count", opts.Count),
		attribute.Bool("run.jitter", opts.Jitter),
	)

	metrics.ActiveExtractions.Inc()
	defer metrics.ActiveExtractions.Dec()

	media, meta, err := uc.loadMedia(ctx, run, sourcePath, log)
	if err != nil {
		return run, nil, err
	}
	defer media.Close()

	run.MarkExtracting(meta.Duration)
	timestamps := uc.planner.Plan(meta.Duration, opts.Count, opts.Jitter)

	ctx2, spanCap := tracer.Start(ctx, "capture_frames")
	capTimer := time.Now()
	screenshots := make([]entity.Screenshot, 0, len(timestamps))

	for i, ts := range timestamps {
		shot, err := uc.captureOne(ctx2, media, entity.CaptureRequest{Timestamp: ts, Scale: opts.Scale})
		if err != nil {
			spanCap.End()
			run.MarkError(err.Error())
			metrics.RunsTotal.WithLabelValues("error").Inc()
			log.Error("capture failed", zap.Float64("timestamp", ts), zap.Error(err))
			return run, nil, err
		}
		if shot != nil {
			screenshots = append(screenshots, entity.NewScreenshot(shot, ts))
			metrics.ScreenshotsExtractedTotal.Inc()
		} else {
			metrics.EncodeFailuresTotal.Inc()
			log.Warn("encode refused, skipping frame", zap.Float64("timestamp", ts))
		}

		if onProgress != nil {
			onProgress(progressPercent(i+1, len(timestamps)))
		}
	}
	spanCap.End()
	metrics.StageDuration.WithLabelValues("capture").Observe(time.Since(capTimer).Seconds())

	run.MarkCompleted(len(screenshots))
	metrics.RunsTotal.WithLabelValues("completed").Inc()
	metrics.StageDuration.WithLabelValues("total").Observe(time.Since(totalTimer).Seconds())

	log.Info("batch extraction completed",
		zap.Int("requested", len(timestamps)),
		zap.Int("produced", len(screenshots)),
		zap.Float64("duration_secs", meta.Duration),
	)

	return run, screenshots, nil
}

// ExtractLast grabs the single frame at max(0, duration-0.1) without
// consulting the planner. A refused encode yields a nil screenshot, which the
// caller surfaces as a user-visible failure distinct from an empty batch.
func (uc *ExtractScreenshotsUseCase) ExtractLast(
	ctx context.Context,
	sourcePath string,
	scale float64,
) (*entity.ExtractionRun, *entity.Screenshot, error) {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "ExtractScreenshots.Last")
	defer span.End()

	run := entity.NewExtractionRun(sourcePath, 1)
	log := uc.logger.With(zap.String("run_id", run.ID.String()), zap.String("source", sourcePath))
	span.SetAttributes(attribute.String("run.id", run.ID.String()))

	metrics.ActiveExtractions.Inc()
	defer metrics.ActiveExtractions.Dec()

	media, meta, err := uc.loadMedia(ctx, run, sourcePath, log)
	if err != nil {
		return run, nil, err
	}
	defer media.Close()

	run.MarkCapturingOne(meta.Duration)
	ts := math.Max(0, meta.Duration-0.1)

	blob, err := uc.captureOne(ctx, media, entity.CaptureRequest{Timestamp: ts, Scale: scale})
	if err != nil {
		run.MarkError(err.Error())
		metrics.RunsTotal.WithLabelValues("error").Inc()
		log.Error("last-frame capture failed", zap.Float64("timestamp", ts), zap.Error(err))
		return run, nil, err
	}

	if blob == nil {
		run.MarkCompleted(0)
		metrics.RunsTotal.WithLabelValues("completed").Inc()
		metrics.EncodeFailuresTotal.Inc()
		log.Warn("last-frame encode refused", zap.Float64("timestamp", ts))
		return run, nil, nil
	}

	shot := entity.NewLastFrameScreenshot(blob, ts)
	run.MarkCompleted(1)
	metrics.RunsTotal.WithLabelValues("completed").Inc()
	metrics.ScreenshotsExtractedTotal.Inc()

	log.Info("last-frame extraction completed", zap.Float64("timestamp", ts))
	return run, &shot, nil
}

func (uc *ExtractScreenshotsUseCase) loadMedia(
	ctx context.Context,
	run *entity.ExtractionRun,
	sourcePath string,
	log *zap.Logger,
) (port.SeekableMedia, entity.VideoMetadata, error) {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "load_media")
	defer span.End()

	loadTimer := time.Now()
	run.MarkLoadingMedia()

	media, meta, err := uc.loader.Load(ctx, sourcePath)
	if err != nil {
		run.MarkError(err.Error())
		metrics.RunsTotal.WithLabelValues("error").Inc()
		log.Error("media load failed", zap.Error(err))
		return nil, entity.VideoMetadata{}, fmt.Errorf("load media: %w", err)
	}

	metrics.StageDuration.WithLabelValues("load").Observe(time.Since(loadTimer).Seconds())
	return media, meta, nil
}

// captureOne seeks and rasterizes a single frame, then encodes it. The nil
// blob with nil error is the per-frame refusal path; everything else fatal.
func (uc *ExtractScreenshotsUseCase) captureOne(
	ctx context.Context,
	media port.SeekableMedia,
	req entity.CaptureRequest,
) ([]byte, error) {
	if err := media.Seek(ctx, req.Timestamp); err != nil {
		return nil, fmt.Errorf("seek to %.3fs: %w", req.Timestamp, err)
	}

	buf, err := media.Frame(ctx, req.Scale)
	if err != nil {
		return nil, fmt.Errorf("rasterize at %.3fs: %w", req.Timestamp, err)
	}

	blob, err := uc.encoder.Encode(ctx, buf)
	if err != nil {
		return nil, fmt.Errorf("encode at %.3fs: %w", req.Timestamp, err)
	}
	return blob, nil
}

func progressPercent(done, total int) int {
	return int(math.Round(float64(done) / float64(total) * 100))
}
