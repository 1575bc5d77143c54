package port

import "context"

// ArchiveEntry is one named payload inside a result bundle. Duplicate names
// are allowed; the last entry written wins.
type ArchiveEntry struct {
	Name string
	Data []byte
}

// Bundler packs entries into a single archive file on disk.
type Bundler interface {
	CreateArchive(ctx context.Context, entries []ArchiveEntry, outputPath string) error
}
