package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/celtic0827/FrameScout/internal/domain/entity"
	"github.com/celtic0827/FrameScout/internal/domain/port"
	"github.com/celtic0827/FrameScout/internal/infra/metrics"
	"go.uber.org/zap"
)

// DeliverResultsUseCase writes extraction results to their final location:
// one screenshot saves directly under its own file name, several are bundled
// into a single zip named after the source video.
type DeliverResultsUseCase struct {
	bundler port.Bundler
	logger  *zap.Logger
}

func NewDeliverResultsUseCase(bundler port.Bundler, logger *zap.Logger) *DeliverResultsUseCase {
	return &DeliverResultsUseCase{bundler: bundler, logger: logger}
}

// Deliver returns the path written. sourceFilename is the original video's
// base name; lastFrame selects the `_last_frame` archive suffix over
// `_previews`. A bundling failure leaves the screenshots untouched so the
// caller can retry delivery without re-extracting.
func (uc *DeliverResultsUseCase) Deliver(
	ctx context.Context,
	screenshots []entity.Screenshot,
	sourceFilename string,
	outputDir string,
	lastFrame bool,
) (string, error) {
	if len(screenshots) == 0 {
		return "", entity.ErrNoResults
	}

	deliverTimer := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("deliver").Observe(time.Since(deliverTimer).Seconds())
	}()

	if len(screenshots) == 1 {
		outPath := filepath.Join(outputDir, screenshots[0].FileName)
		if err := os.WriteFile(outPath, screenshots[0].ImageBytes, 0o644); err != nil {
			return "", fmt.Errorf("save screenshot: %w", err)
		}
		uc.logger.Info("screenshot saved", zap.String("path", outPath))
		return outPath, nil
	}

	suffix := "previews"
	if lastFrame {
		suffix = "last_frame"
	}
	stem := strings.TrimSuffix(sourceFilename, filepath.Ext(sourceFilename))
	outPath := filepath.Join(outputDir, fmt.Sprintf("%s_%s.zip", stem, suffix))

	entries := make([]port.ArchiveEntry, 0, len(screenshots))
	for _, s := range screenshots {
		entries = append(entries, port.ArchiveEntry{Name: s.FileName, Data: s.ImageBytes})
	}

	if err := uc.bundler.CreateArchive(ctx, entries, outPath); err != nil {
		uc.logger.Error("bundle failed", zap.String("path", outPath), zap.Error(err))
		return "", err
	}

	uc.logger.Info("archive saved",
		zap.String("path", outPath),
		zap.Int("entries", len(entries)),
	)
	return outPath, nil
}
