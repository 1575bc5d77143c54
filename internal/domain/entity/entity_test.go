package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimestampLabel(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00-00-00"},
		{2.5, "00-00-02"},
		{5.0, "00-00-05"},
		{7.5, "00-00-07"},
		{59.999, "00-00-59"},
		{61, "00-01-01"},
		{3661.4, "01-01-01"},
		{-3, "00-00-00"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, TimestampLabel(c.seconds), "seconds=%v", c.seconds)
	}
}

func TestScreenshotNaming(t *testing.T) {
	s := NewScreenshot([]byte("x"), 125.7)
	assert.Equal(t, "frame_00-02-05.jpg", s.FileName)
	assert.NotEqual(t, s.ID.String(), "00000000-0000-0000-0000-000000000000")

	last := NewLastFrameScreenshot([]byte("x"), 125.7)
	assert.Equal(t, "frame_last_00-02-05.jpg", last.FileName)
}

func TestRunLifecycle(t *testing.T) {
	run := NewExtractionRun("clip.mp4", 12)
	assert.Equal(t, RunStatusIdle, run.Status)

	run.MarkLoadingMedia()
	assert.Equal(t, RunStatusLoadingMedia, run.Status)

	run.MarkExtracting(33.5)
	assert.Equal(t, RunStatusExtracting, run.Status)
	assert.Equal(t, 33.5, run.VideoDuration)

	run.MarkCompleted(10)
	assert.Equal(t, RunStatusCompleted, run.Status)
	assert.Equal(t, 10, run.ScreenshotCount)
	assert.NotNil(t, run.CompletedAt)
}

func TestRunTerminalStatesAreSticky(t *testing.T) {
	run := NewExtractionRun("clip.mp4", 1)
	run.MarkError("decoder gave up")
	assert.Equal(t, RunStatusError, run.Status)

	run.MarkExtracting(5)
	assert.Equal(t, RunStatusError, run.Status, "terminal run refuses transitions")

	run.MarkCompleted(3)
	assert.Equal(t, RunStatusError, run.Status)
	assert.Equal(t, "decoder gave up", run.ErrorMessage)
}
