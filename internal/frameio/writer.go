package frameio

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
)

// Writer persists frames as numbered image files in one directory.
type Writer struct {
	dir     string
	prefix  string
	format  Format
	quality int
	pad     int
}

// NewWriter creates dir if needed. File names are prefix followed by the
// zero-padded frame index; the padding is wide enough for frames-1 and
// never narrower than three digits.
func NewWriter(dir, prefix string, f Format, quality, frames int) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("frameio: create output dir: %w", err)
	}
	return &Writer{
		dir:     dir,
		prefix:  prefix,
		format:  f,
		quality: quality,
		pad:     max(3, len(strconv.Itoa(max(frames-1, 0)))),
	}, nil
}

// Path returns the file path of frame.
func (w *Writer) Path(frame int) string {
	name := fmt.Sprintf("%s%0*d%s", w.prefix, w.pad, frame, w.format.Ext())
	return filepath.Join(w.dir, name)
}

// WriteFrame encodes img to the file of frame. The file is written under a
// temporary name and renamed once complete, so a failed write never leaves a
// truncated image behind.
func (w *Writer) WriteFrame(frame int, img image.Image) error {
	path := w.Path(frame)
	tmp, err := os.CreateTemp(w.dir, ".frame-*")
	if err != nil {
		return fmt.Errorf("frameio: create file: %w", err)
	}
	if err := Encode(tmp, img, w.format, w.quality); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("frameio: close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("frameio: rename %s: %w", filepath.Base(path), err)
	}
	return nil
}
