package entity

import (
	"fmt"

	"github.com/google/uuid"
)

// VideoMetadata is an immutable snapshot of the decoder-reported properties
// of a loaded video, captured once per load.
type VideoMetadata struct {
	Duration float64
	Width    int
	Height   int
	Filename string
}

// PixelBuffer is a rasterized frame in RGBA order, 4 bytes per pixel,
// row-major, no padding.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []byte
}

// Area returns the pixel count of the buffer.
func (b *PixelBuffer) Area() int {
	if b == nil {
		return 0
	}
	return b.Width * b.Height
}

// CaptureRequest describes a single frame grab. Transient, never persisted.
type CaptureRequest struct {
	Timestamp float64
	Scale     float64
}

// Screenshot is one successfully captured and encoded frame. It is immutable
// after creation and owned by the caller once returned.
type Screenshot struct {
	ID         uuid.UUID
	ImageBytes []byte
	Timestamp  float64
	FileName   string
}

// NewScreenshot builds a screenshot for a batch capture. The file name is
// derived from the timestamp only, so two timestamps inside the same whole
// second collide deliberately.
func NewScreenshot(imageBytes []byte, timestamp float64) Screenshot {
	return Screenshot{
		ID:         uuid.New(),
		ImageBytes: imageBytes,
		Timestamp:  timestamp,
		FileName:   fmt.Sprintf("frame_%s.jpg", TimestampLabel(timestamp)),
	}
}

// NewLastFrameScreenshot builds the single-shot variant with its own prefix so
// a last-frame grab never overwrites a batch capture of the same second.
func NewLastFrameScreenshot(imageBytes []byte, timestamp float64) Screenshot {
	return Screenshot{
		ID:         uuid.New(),
		ImageBytes: imageBytes,
		Timestamp:  timestamp,
		FileName:   fmt.Sprintf("frame_last_%s.jpg", TimestampLabel(timestamp)),
	}
}

// TimestampLabel renders a timestamp as HH-MM-SS, truncating fractional
// seconds (2.5s -> "00-00-02").
func TimestampLabel(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d-%02d-%02d", h, m, s)
}
