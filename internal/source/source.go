// Package source acquires index records, either from a snapshot file or from
// a cluster's cat API over a trailing window of days.
package source

import (
	"context"
	"fmt"
	"os"

	"github.com/billie-coop/indexrank/internal/index"
)

// Source yields the records to rank.
type Source interface {
	Records(ctx context.Context) ([]index.Record, error)
}

// File reads records from a local JSON snapshot.
type File struct {
	Path string
}

var _ Source = (*File)(nil)

// NewFile creates a snapshot source for path.
func NewFile(path string) *File {
	return &File{Path: path}
}

// Records decodes the snapshot.
func (f *File) Records(ctx context.Context) ([]index.Record, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer fh.Close()

	records, err := index.DecodeRecords(fh)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", f.Path, err)
	}
	return records, nil
}
