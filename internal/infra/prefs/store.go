// Package prefs persists user capture preferences between launches.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/celtic0827/FrameScout/internal/domain/port"
	"github.com/celtic0827/FrameScout/internal/planner"
)

const (
	DefaultFrameCount   = 12
	DefaultScalePercent = 100

	minScalePercent  = 10
	maxScalePercent  = 100
	scalePercentStep = 10
)

// FileStore keeps preferences in a JSON file. Values are normalized on every
// load so a hand-edited or stale file can never push the pipeline out of its
// supported ranges.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath resolves <user config dir>/framescout/prefs.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "framescout", "prefs.json"), nil
}

func Defaults() port.Preferences {
	return port.Preferences{
		FrameCount:    DefaultFrameCount,
		JitterEnabled: false,
		ScalePercent:  DefaultScalePercent,
	}
}

func (s *FileStore) Load() (port.Preferences, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return Defaults(), fmt.Errorf("read preferences: %w", err)
	}

	p := Defaults()
	if err := json.Unmarshal(data, &p); err != nil {
		return Defaults(), fmt.Errorf("parse preferences: %w", err)
	}
	return Normalize(p), nil
}

func (s *FileStore) Save(p port.Preferences) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}

	data, err := json.MarshalIndent(Normalize(p), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}

// Normalize clamps the frame count to [1, 50] and snaps the scale percent
// down to the nearest multiple of 10 inside [10, 100].
func Normalize(p port.Preferences) port.Preferences {
	if p.FrameCount < planner.MinFrameCount {
		p.FrameCount = planner.MinFrameCount
	}
	if p.FrameCount > planner.MaxFrameCount {
		p.FrameCount = planner.MaxFrameCount
	}

	if p.ScalePercent < minScalePercent {
		p.ScalePercent = minScalePercent
	}
	if p.ScalePercent > maxScalePercent {
		p.ScalePercent = maxScalePercent
	}
	p.ScalePercent -= p.ScalePercent % scalePercentStep

	return p
}
