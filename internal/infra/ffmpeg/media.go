package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/celtic0827/FrameScout/internal/domain/entity"
	"go.uber.org/zap"
)

const (
	minScale = 0.1
	maxScale = 1.0
)

var errClosed = errors.New("media handle is closed")

// Media is a seekable handle over one local video file. The decoder positions
// lazily: Seek records the requested timestamp and the decode that confirms
// it happens during Frame. A mutex serializes Seek/Frame/Close because the
// handle has a single current position and concurrent seeks would have no
// defined ordering of completion against their requests.
type Media struct {
	path        string
	meta        entity.VideoMetadata
	seekTimeout time.Duration
	logger      *zap.Logger

	mu       sync.Mutex
	position float64
	closed   bool
}

func (m *Media) Metadata() entity.VideoMetadata {
	return m.meta
}

// Seek repositions the handle. The timestamp is kept as requested, without
// clamping; callers plan within [0, duration] already.
func (m *Media) Seek(ctx context.Context, timestamp float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if timestamp < 0 {
		timestamp = 0
	}
	m.position = timestamp
	return nil
}

// Frame decodes and rasterizes the frame at the current position into an
// RGBA buffer of floor(nativeW*scale) x floor(nativeH*scale). Scale is
// clamped to [0.1, 1.0]. Decode failures map to ErrSurfaceAcquisition and
// abort the run; a zero-area target returns an empty buffer so the encoder
// can refuse it per frame instead.
func (m *Media) Frame(ctx context.Context, scale float64) (*entity.PixelBuffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, errClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if scale < minScale {
		scale = minScale
	}
	if scale > maxScale {
		scale = maxScale
	}

	width := int(float64(m.meta.Width) * scale)
	height := int(float64(m.meta.Height) * scale)
	if width <= 0 || height <= 0 {
		return &entity.PixelBuffer{Width: width, Height: height}, nil
	}

	raster, err := m.rasterize(ctx, width, height)
	if err != nil {
		return nil, fmt.Errorf("%w: rasterize at %.3fs: %s", entity.ErrSurfaceAcquisition, m.position, err)
	}

	want := width * height * 4
	if len(raster) < want {
		return nil, fmt.Errorf("%w: short raster at %.3fs: got %d of %d bytes",
			entity.ErrSurfaceAcquisition, m.position, len(raster), want)
	}

	m.logger.Debug("frame rasterized",
		zap.Float64("timestamp", m.position),
		zap.Int("width", width),
		zap.Int("height", height),
	)

	return &entity.PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    raster[:want],
	}, nil
}

// rasterize decodes exactly one frame at the current position and pipes it
// out as raw RGBA. Audio is never decoded, so the grab has no audible side
// effect. The optional seek timeout bounds the whole decode; zero means
// suspend indefinitely like the original pipeline.
func (m *Media) rasterize(ctx context.Context, width, height int) ([]byte, error) {
	if m.seekTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.seekTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", fmt.Sprintf("%.6f", m.position),
		"-i", m.path,
		"-frames:v", "1",
		"-an",
		"-vf", fmt.Sprintf("scale=%d:%d", width, height),
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg: %w, output: %s", err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// Close releases the handle exactly once; further calls are no-ops so scoped
// deferred releases cannot double-free.
func (m *Media) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
