package entity

import "errors"

// Failure taxonomy for an extraction run. Fatal errors abort the run and
// surface to the user without retry; per-frame encode refusals are not errors
// at all (they degrade the result count silently).
var (
	// ErrMediaLoad: the decoder could not open the video. The user must pick
	// another file; never retried automatically.
	ErrMediaLoad = errors.New("media load failed")

	// ErrSurfaceAcquisition: the rendering surface for rasterization could not
	// be acquired. Environment failure, fatal to the whole run.
	ErrSurfaceAcquisition = errors.New("render surface unavailable")

	// ErrArchiveBuild: bundling the results failed. Fatal to the delivery
	// only; the extracted screenshots remain valid for a retry.
	ErrArchiveBuild = errors.New("archive build failed")

	// ErrNoResults: an extraction produced zero screenshots.
	ErrNoResults = errors.New("no screenshots produced")
)
