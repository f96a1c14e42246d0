package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// NewReader wraps rc with a decompressor chosen by the extension of the
// report name. Reports without a recognized extension are returned as-is.
// Closing the result closes rc.
func NewReader(name string, rc io.ReadCloser) (io.ReadCloser, error) {
	switch {
	case strings.HasSuffix(name, ".gz"):
		zr, err := gzip.NewReader(rc)
		if err != nil {
			rc.Close()
			return nil, fmt.Errorf("%w: gzip report %s: %w", ErrCorrupt, name, err)
		}
		return &decompressor{r: zr, close: zr.Close, underlying: rc}, nil
	case strings.HasSuffix(name, ".zst"):
		zr, err := zstd.NewReader(rc)
		if err != nil {
			rc.Close()
			return nil, fmt.Errorf("%w: zstd report %s: %w", ErrCorrupt, name, err)
		}
		return &decompressor{r: zr, close: func() error { zr.Close(); return nil }, underlying: rc}, nil
	default:
		return rc, nil
	}
}

type decompressor struct {
	r          io.Reader
	close      func() error
	underlying io.Closer
}

func (d *decompressor) Read(p []byte) (int, error) {
	return d.r.Read(p)
}

func (d *decompressor) Close() error {
	err := d.close()
	if cerr := d.underlying.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
