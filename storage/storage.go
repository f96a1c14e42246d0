package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

/*
The storage provider interface describes where reports come from. A report is
an object holding the output of a disk usage scan, possibly compressed, named
by an id such as "du-2024-06-01.txt.gz". ModTime reports when an object was
last written, which is how a changed report is noticed. Providers exist for a local
directory, S3-compatible object storage, and memory.
*/

////////////////////////////////////////////////////////////////////////////////

// ErrObjectNotFound is returned when an object is not found.
var ErrObjectNotFound = errors.New("object not found")

// ErrInvalidID is returned when a report id cannot name an object.
var ErrInvalidID = errors.New("invalid report id")

// Provider is the interface for a report storage provider.
type Provider interface {
	Put(ctx context.Context, id string, r io.Reader) error
	Get(ctx context.Context, id string) (io.ReadCloser, error)
	List(ctx context.Context) ([]string, error)
	ModTime(ctx context.Context, id string) (time.Time, error)
}
