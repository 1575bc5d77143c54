// Package jpegenc compresses rasterized frames into JPEG blobs.
package jpegenc

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/celtic0827/FrameScout/internal/domain/entity"
)

// DefaultQuality matches the fixed 0.85 quality factor of the capture
// pipeline.
const DefaultQuality = 85

type Encoder struct {
	quality int
}

func New(quality int) *Encoder {
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &Encoder{quality: quality}
}

// Encode returns the JPEG bytes for buf. A zero-area buffer makes the
// encoder refuse with (nil, nil): the caller skips that frame rather than
// aborting the batch.
func (e *Encoder) Encode(ctx context.Context, buf *entity.PixelBuffer) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if buf.Area() <= 0 {
		return nil, nil
	}
	if len(buf.Pix) < buf.Width*buf.Height*4 {
		return nil, fmt.Errorf("pixel buffer truncated: %d bytes for %dx%d", len(buf.Pix), buf.Width, buf.Height)
	}

	img := &image.RGBA{
		Pix:    buf.Pix,
		Stride: buf.Width * 4,
		Rect:   image.Rect(0, 0, buf.Width, buf.Height),
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: e.quality}); err != nil {
		return nil, fmt.Errorf("jpeg encode: %w", err)
	}
	return out.Bytes(), nil
}
