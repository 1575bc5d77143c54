package port

// Preferences is the user-tunable capture configuration persisted across
// sessions and applied at next launch.
type Preferences struct {
	FrameCount    int  `json:"frame_count"`
	JitterEnabled bool `json:"jitter_enabled"`
	ScalePercent  int  `json:"scale_percent"`
}

// PreferenceStore loads and saves preferences. Load returns defaults when
// nothing has been persisted yet.
type PreferenceStore interface {
	Load() (Preferences, error)
	Save(p Preferences) error
}
