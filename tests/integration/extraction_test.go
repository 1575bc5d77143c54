package integration

import (
	"archive/zip"
	"bytes"
	"context"
	"image/jpeg"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/celtic0827/FrameScout/internal/domain/entity"
	"github.com/celtic0827/FrameScout/internal/infra/archive"
	"github.com/celtic0827/FrameScout/internal/infra/ffmpeg"
	"github.com/celtic0827/FrameScout/internal/infra/jpegenc"
	"github.com/celtic0827/FrameScout/internal/planner"
	"github.com/celtic0827/FrameScout/internal/usecase"
	"github.com/celtic0827/FrameScout/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeTestVideo renders a 10s 320x240 synthetic clip with ffmpeg's testsrc.
func makeTestVideo(t *testing.T, dir string) string {
	t.Helper()

	videoPath := filepath.Join(dir, "test.mp4")
	cmd := exec.Command("ffmpeg",
		"-f", "lavfi",
		"-i", "testsrc=duration=10:size=320x240:rate=5",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-y",
		videoPath,
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "generate test video: %s", string(out))
	return videoPath
}

func requireFFmpeg(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not found in PATH", bin)
		}
	}
}

func TestExtractBatchEndToEnd(t *testing.T) {
	requireFFmpeg(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dir := t.TempDir()
	videoPath := makeTestVideo(t, dir)

	log, err := logger.New("debug")
	require.NoError(t, err)

	loader := ffmpeg.NewLoader(30*time.Second, log)
	extract := usecase.NewExtractScreenshotsUseCase(loader, jpegenc.New(jpegenc.DefaultQuality), planner.New(), log)
	deliver := usecase.NewDeliverResultsUseCase(archive.NewZipBundler(), log)

	var progress []int
	run, shots, err := extract.ExtractBatch(ctx, videoPath,
		usecase.BatchOptions{Count: 3, Jitter: false, Scale: 0.5},
		func(p int) { progress = append(progress, p) },
	)
	require.NoError(t, err)
	require.Len(t, shots, 3)
	assert.Equal(t, entity.RunStatusCompleted, run.Status)
	assert.Equal(t, []int{33, 67, 100}, progress)

	// testsrc reports duration 10, so unjittered capture points are 2.5/5/7.5.
	assert.Equal(t, "frame_00-00-02.jpg", shots[0].FileName)
	assert.Equal(t, "frame_00-00-05.jpg", shots[1].FileName)
	assert.Equal(t, "frame_00-00-07.jpg", shots[2].FileName)

	// scale=0.5 halves the native 320x240.
	for _, s := range shots {
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(s.ImageBytes))
		require.NoError(t, err)
		assert.Equal(t, 160, cfg.Width)
		assert.Equal(t, 120, cfg.Height)
	}

	outPath, err := deliver.Deliver(ctx, shots, filepath.Base(videoPath), dir, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "test_previews.zip"), outPath)

	r, err := zip.OpenReader(outPath)
	require.NoError(t, err)
	defer r.Close()

	jpgCount := 0
	for _, f := range r.File {
		if strings.HasSuffix(f.Name, ".jpg") {
			jpgCount++
		}
	}
	assert.Equal(t, 3, jpgCount, "archive should contain one entry per screenshot")
}

func TestExtractAtNativeScaleEndToEnd(t *testing.T) {
	requireFFmpeg(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dir := t.TempDir()
	videoPath := makeTestVideo(t, dir)

	log, err := logger.New("info")
	require.NoError(t, err)

	loader := ffmpeg.NewLoader(30*time.Second, log)
	extract := usecase.NewExtractScreenshotsUseCase(loader, jpegenc.New(jpegenc.DefaultQuality), planner.New(), log)

	_, shots, err := extract.ExtractBatch(ctx, videoPath,
		usecase.BatchOptions{Count: 1, Scale: 1.0}, nil)
	require.NoError(t, err)
	require.Len(t, shots, 1)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(shots[0].ImageBytes))
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 240, cfg.Height)
}

func TestExtractLastEndToEnd(t *testing.T) {
	requireFFmpeg(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dir := t.TempDir()
	videoPath := makeTestVideo(t, dir)

	log, err := logger.New("info")
	require.NoError(t, err)

	loader := ffmpeg.NewLoader(30*time.Second, log)
	extract := usecase.NewExtractScreenshotsUseCase(loader, jpegenc.New(jpegenc.DefaultQuality), planner.New(), log)

	run, shot, err := extract.ExtractLast(ctx, videoPath, 1.0)
	require.NoError(t, err)
	require.NotNil(t, shot)
	assert.Equal(t, entity.RunStatusCompleted, run.Status)
	assert.True(t, strings.HasPrefix(shot.FileName, "frame_last_"), "got %s", shot.FileName)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(shot.ImageBytes))
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 240, cfg.Height)
}

func TestLoadRejectsNonVideo(t *testing.T) {
	requireFFmpeg(t)

	log, err := logger.New("info")
	require.NoError(t, err)

	loader := ffmpeg.NewLoader(0, log)
	_, _, err = loader.Load(context.Background(), filepath.Join(t.TempDir(), "notes.txt"))
	assert.ErrorIs(t, err, entity.ErrMediaLoad)
}
