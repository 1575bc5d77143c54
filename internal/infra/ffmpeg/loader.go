package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/celtic0827/FrameScout/internal/domain/entity"
	"github.com/celtic0827/FrameScout/internal/domain/port"
	ffmpeggo "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"
)

// Loader opens local video files through ffprobe/ffmpeg. It is the host
// decoding primitive behind port.MediaLoader; nothing else in the pipeline
// touches ffmpeg directly.
type Loader struct {
	seekTimeout time.Duration
	logger      *zap.Logger
}

func NewLoader(seekTimeout time.Duration, logger *zap.Logger) *Loader {
	return &Loader{seekTimeout: seekTimeout, logger: logger}
}

type probeResult struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Load validates the file's reported media type, probes the container and
// returns a positioned handle. All failure paths release internal state
// before returning, so a failed Load leaves nothing for the caller to close.
func (l *Loader) Load(ctx context.Context, path string) (port.SeekableMedia, entity.VideoMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, entity.VideoMetadata{}, err
	}

	// Type check mirrors the upload boundary: reported media type must be
	// video/*. Extension-based, not content-sniffed.
	if mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); !strings.HasPrefix(mt, "video/") {
		return nil, entity.VideoMetadata{}, fmt.Errorf("%w: %s is not a video media type", entity.ErrMediaLoad, path)
	}

	if _, err := os.Stat(path); err != nil {
		return nil, entity.VideoMetadata{}, fmt.Errorf("%w: stat %s: %s", entity.ErrMediaLoad, path, err)
	}

	raw, err := ffmpeggo.Probe(path)
	if err != nil {
		return nil, entity.VideoMetadata{}, fmt.Errorf("%w: probe %s: %s", entity.ErrMediaLoad, path, err)
	}

	var probed probeResult
	if err := json.Unmarshal([]byte(raw), &probed); err != nil {
		return nil, entity.VideoMetadata{}, fmt.Errorf("%w: parse probe output: %s", entity.ErrMediaLoad, err)
	}

	meta := entity.VideoMetadata{Filename: filepath.Base(path)}
	for _, s := range probed.Streams {
		if s.CodecType == "video" {
			meta.Width = s.Width
			meta.Height = s.Height
			break
		}
	}
	meta.Duration, _ = strconv.ParseFloat(probed.Format.Duration, 64)

	if meta.Width <= 0 || meta.Height <= 0 {
		return nil, entity.VideoMetadata{}, fmt.Errorf("%w: %s has no video stream", entity.ErrMediaLoad, path)
	}
	if meta.Duration <= 0 {
		return nil, entity.VideoMetadata{}, fmt.Errorf("%w: %s reports no duration", entity.ErrMediaLoad, path)
	}

	l.logger.Debug("media loaded",
		zap.String("file", meta.Filename),
		zap.Float64("duration", meta.Duration),
		zap.Int("width", meta.Width),
		zap.Int("height", meta.Height),
	)

	return &Media{
		path:        path,
		meta:        meta,
		seekTimeout: l.seekTimeout,
		logger:      l.logger,
	}, meta, nil
}
