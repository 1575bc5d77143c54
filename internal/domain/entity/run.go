package entity

import (
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	RunStatusIdle         RunStatus = "IDLE"
	RunStatusLoadingMedia RunStatus = "LOADING_MEDIA"
	RunStatusExtracting   RunStatus = "EXTRACTING"
	RunStatusCapturingOne RunStatus = "CAPTURING_ONE"
	RunStatusCompleted    RunStatus = "COMPLETED"
	RunStatusError        RunStatus = "ERROR"
)

// ExtractionRun tracks one extraction pass over a freshly loaded video.
// Runs are stateless across passes; a new run is created per invocation.
type ExtractionRun struct {
	ID              uuid.UUID
	SourcePath      string
	Status          RunStatus
	RequestedCount  int
	ScreenshotCount int
	VideoDuration   float64
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CompletedAt     *time.Time
}

func NewExtractionRun(sourcePath string, requestedCount int) *ExtractionRun {
	now := time.Now().UTC()
	return &ExtractionRun{
		ID:             uuid.New(),
		SourcePath:     sourcePath,
		Status:         RunStatusIdle,
		RequestedCount: requestedCount,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsTerminal reports whether the run reached a final state. Terminal runs
// refuse further transitions.
func (r *ExtractionRun) IsTerminal() bool {
	return r.Status == RunStatusCompleted || r.Status == RunStatusError
}

func (r *ExtractionRun) MarkLoadingMedia() {
	r.transition(RunStatusLoadingMedia)
}

func (r *ExtractionRun) MarkExtracting(duration float64) {
	r.VideoDuration = duration
	r.transition(RunStatusExtracting)
}

func (r *ExtractionRun) MarkCapturingOne(duration float64) {
	r.VideoDuration = duration
	r.transition(RunStatusCapturingOne)
}

func (r *ExtractionRun) MarkCompleted(screenshotCount int) {
	if r.IsTerminal() {
		return
	}
	now := time.Now().UTC()
	r.Status = RunStatusCompleted
	r.ScreenshotCount = screenshotCount
	r.UpdatedAt = now
	r.CompletedAt = &now
}

func (r *ExtractionRun) MarkError(errMsg string) {
	if r.IsTerminal() {
		return
	}
	now := time.Now().UTC()
	r.Status = RunStatusError
	r.ErrorMessage = errMsg
	r.UpdatedAt = now
	r.CompletedAt = &now
}

func (r *ExtractionRun) transition(next RunStatus) {
	if r.IsTerminal() {
		return
	}
	r.Status = next
	r.UpdatedAt = time.Now().UTC()
}
