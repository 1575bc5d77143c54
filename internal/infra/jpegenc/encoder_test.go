package jpegenc

import (
	"bytes"
	"context"
	"image/jpeg"
	"testing"

	"github.com/celtic0827/FrameScout/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidBuffer(w, h int) *entity.PixelBuffer {
	pix := make([]byte, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i] = 0x20
		pix[i+1] = 0x80
		pix[i+2] = 0xd0
		pix[i+3] = 0xff
	}
	return &entity.PixelBuffer{Width: w, Height: h, Pix: pix}
}

func TestEncodeRoundTripDimensions(t *testing.T) {
	enc := New(DefaultQuality)

	for _, dims := range [][2]int{{320, 240}, {160, 120}, {1, 1}} {
		blob, err := enc.Encode(context.Background(), solidBuffer(dims[0], dims[1]))
		require.NoError(t, err)
		require.NotNil(t, blob)

		cfg, err := jpeg.DecodeConfig(bytes.NewReader(blob))
		require.NoError(t, err)
		assert.Equal(t, dims[0], cfg.Width)
		assert.Equal(t, dims[1], cfg.Height)
	}
}

func TestEncodeRefusesZeroArea(t *testing.T) {
	enc := New(DefaultQuality)

	blob, err := enc.Encode(context.Background(), &entity.PixelBuffer{Width: 0, Height: 240})
	require.NoError(t, err)
	assert.Nil(t, blob)
}

func TestEncodeRejectsTruncatedBuffer(t *testing.T) {
	enc := New(DefaultQuality)

	_, err := enc.Encode(context.Background(), &entity.PixelBuffer{
		Width:  10,
		Height: 10,
		Pix:    make([]byte, 8),
	})
	assert.Error(t, err)
}

func TestEncodeHonorsCancelledContext(t *testing.T) {
	enc := New(DefaultQuality)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := enc.Encode(ctx, solidBuffer(4, 4))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClampsQuality(t *testing.T) {
	assert.Equal(t, DefaultQuality, New(0).quality)
	assert.Equal(t, DefaultQuality, New(250).quality)
	assert.Equal(t, 70, New(70).quality)
}
