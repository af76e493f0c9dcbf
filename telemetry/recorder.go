package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// Recorder appends FrameStats rows to a CSV stream.
type Recorder struct {
	w             io.Writer
	closer        io.Closer
	headerWritten bool
	rows          int
}

// NewRecorder writes to w. The caller keeps ownership of w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w}
}

// CreateRecorder creates the file at path, and its directory if needed.
// An empty path returns a nil recorder, which ignores writes.
func CreateRecorder(path string) (*Recorder, error) {
	if path == "" {
		return nil, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating telemetry directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return &Recorder{w: f, closer: f}, nil
}

func (r *Recorder) Write(row FrameStats) error {
	if r == nil {
		return nil
	}
	records := []FrameStats{row}
	if !r.headerWritten {
		if err := gocsv.Marshal(records, r.w); err != nil {
			return fmt.Errorf("writing frame stats: %w", err)
		}
		r.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, r.w); err != nil {
			return fmt.Errorf("writing frame stats: %w", err)
		}
	}
	r.rows++
	return nil
}

func (r *Recorder) Rows() int {
	if r == nil {
		return 0
	}
	return r.rows
}

func (r *Recorder) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	c := r.closer
	r.closer = nil
	return c.Close()
}
