package port

import (
	"context"

	"github.com/celtic0827/FrameScout/internal/domain/entity"
)

// FrameEncoder compresses a rasterized frame into an image blob.
// A (nil, nil) return means the encoder refused the buffer (zero area);
// callers skip that timestamp instead of aborting the batch.
type FrameEncoder interface {
	Encode(ctx context.Context, buf *entity.PixelBuffer) ([]byte, error)
}
