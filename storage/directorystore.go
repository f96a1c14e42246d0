package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

/*
DirectoryStore serves reports from a local directory. Report ids are file names
relative to the root; ids that would escape the root are rejected.
*/

////////////////////////////////////////////////////////////////////////////////

// DirectoryStore is a storage provider backed by a local directory.
type DirectoryStore struct {
	root string
}

// NewDirectoryStore creates a new DirectoryStore, creating the root directory
// if necessary.
func NewDirectoryStore(root string) (*DirectoryStore, error) {
	if err := os.MkdirAll(root, 0750); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", root, err)
	}
	return &DirectoryStore{root: root}, nil
}

func (d *DirectoryStore) path(id string) (string, error) {
	if id == "" || !filepath.IsLocal(id) || strings.ContainsRune(id, os.PathSeparator) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return filepath.Join(d.root, id), nil
}

// Put stores an object in the directory.
func (d *DirectoryStore) Put(_ context.Context, id string, r io.Reader) error {
	p, err := d.path(id)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(d.root, "."+id+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("write failure: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write failure: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("failed to rename report: %w", err)
	}
	return nil
}

// Get opens an object in the directory.
func (d *DirectoryStore) Get(_ context.Context, id string) (io.ReadCloser, error) {
	p, err := d.path(id)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to open report: %w", err)
	}
	return f, nil
}

// ModTime returns the modification time of the report file.
func (d *DirectoryStore) ModTime(_ context.Context, id string) (time.Time, error) {
	p, err := d.path(id)
	if err != nil {
		return time.Time{}, err
	}
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return time.Time{}, ErrObjectNotFound
		}
		return time.Time{}, fmt.Errorf("failed to stat report: %w", err)
	}
	return info.ModTime(), nil
}

// List returns the names of the regular, non-hidden files in the directory.
func (d *DirectoryStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", d.root, err)
	}
	ids := []string{}
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		ids = append(ids, e.Name())
	}
	slices.Sort(ids)
	return ids, nil
}

func (d *DirectoryStore) String() string {
	return fmt.Sprintf("directory(%s)", d.root)
}
