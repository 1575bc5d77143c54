package port

import (
	"context"

	"github.com/celtic0827/FrameScout/internal/domain/entity"
)

// SeekableMedia is an open decoder session positioned at a current playback
// time. Seek and Frame must not be called concurrently: the handle is a single
// shared mutable resource and implementations serialize access internally, but
// callers are expected to drive it sequentially.
type SeekableMedia interface {
	Metadata() entity.VideoMetadata

	// Seek repositions the decoder and blocks until it confirms completion.
	Seek(ctx context.Context, timestamp float64) error

	// Frame rasterizes the frame at the current position into a pixel buffer
	// of floor(nativeW*scale) x floor(nativeH*scale). Scale is clamped to
	// [0.1, 1.0]. A failure here is entity.ErrSurfaceAcquisition: fatal to
	// the run, never skipped.
	Frame(ctx context.Context, scale float64) (*entity.PixelBuffer, error)

	// Close releases the underlying decoder resources. Safe to call more
	// than once; only the first call releases.
	Close() error
}

// MediaLoader opens a video file and resolves its metadata. On failure the
// loader releases whatever it allocated before returning entity.ErrMediaLoad.
type MediaLoader interface {
	Load(ctx context.Context, path string) (SeekableMedia, entity.VideoMetadata, error)
}
