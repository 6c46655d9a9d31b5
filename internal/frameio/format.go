// Package frameio encodes rendered frames and manages their pixel buffers.
package frameio

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned for an unknown image format name.
var ErrUnsupportedFormat = errors.New("frameio: unsupported format")

// Format is an output image format.
type Format uint8

const (
	// PNG is lossless and the default.
	PNG Format = iota

	// JPEG is lossy; quality is configurable.
	JPEG

	// BMP is uncompressed.
	BMP

	// TIFF is deflate-compressed.
	TIFF
)

var formatInfo = [...]struct {
	name string
	ext  string
}{
	PNG:  {"png", ".png"},
	JPEG: {"jpeg", ".jpg"},
	BMP:  {"bmp", ".bmp"},
	TIFF: {"tiff", ".tif"},
}

// ParseFormat parses a format name. "jpg" and "tif" are accepted aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	case "bmp":
		return BMP, nil
	case "tiff", "tif":
		return TIFF, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

func (f Format) String() string {
	if int(f) < len(formatInfo) {
		return formatInfo[f].name
	}
	return fmt.Sprintf("Format(%d)", f)
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	if int(f) < len(formatInfo) {
		return formatInfo[f].ext
	}
	return ""
}

// DefaultQuality is used for JPEG when no quality is configured.
const DefaultQuality = 90

// Encode writes img to w. quality only applies to JPEG; values outside
// [1, 100] select DefaultQuality.
func Encode(w io.Writer, img image.Image, f Format, quality int) error {
	var err error
	switch f {
	case PNG:
		err = png.Encode(w, img)
	case JPEG:
		if quality < 1 || quality > 100 {
			quality = DefaultQuality
		}
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case BMP:
		err = bmp.Encode(w, img)
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return fmt.Errorf("frameio: encode %v: %w", f, err)
	}
	return nil
}
