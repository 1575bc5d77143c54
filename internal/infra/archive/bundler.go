// Package archive bundles extraction results into a single zip file.
package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"os"

	"github.com/celtic0827/FrameScout/internal/domain/entity"
	"github.com/celtic0827/FrameScout/internal/domain/port"
)

type ZipBundler struct{}

func NewZipBundler() *ZipBundler {
	return &ZipBundler{}
}

// CreateArchive writes entries into a zip at outputPath. Duplicate entry
// names are written as-is; readers that extract by name see the last one.
// Any failure maps to entity.ErrArchiveBuild and removes the partial file.
func (z *ZipBundler) CreateArchive(ctx context.Context, entries []port.ArchiveEntry, outputPath string) error {
	zipFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("%w: create %s: %s", entity.ErrArchiveBuild, outputPath, err)
	}

	if err := writeEntries(ctx, zipFile, entries); err != nil {
		zipFile.Close()
		os.Remove(outputPath)
		return fmt.Errorf("%w: %s", entity.ErrArchiveBuild, err)
	}

	if err := zipFile.Close(); err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("%w: close %s: %s", entity.ErrArchiveBuild, outputPath, err)
	}
	return nil
}

func writeEntries(ctx context.Context, zipFile *os.File, entries []port.ArchiveEntry) error {
	zw := zip.NewWriter(zipFile)

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			zw.Close()
			return ctx.Err()
		default:
		}

		header := &zip.FileHeader{
			Name:   entry.Name,
			Method: zip.Deflate,
		}
		w, err := zw.CreateHeader(header)
		if err != nil {
			zw.Close()
			return fmt.Errorf("add %s: %s", entry.Name, err)
		}
		if _, err := w.Write(entry.Data); err != nil {
			zw.Close()
			return fmt.Errorf("write %s: %s", entry.Name, err)
		}
	}

	return zw.Close()
}
