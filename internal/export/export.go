// Package export encodes the surface image into the formats offered for
// download, and into the data URL used for snapshots.
package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var ErrUnknownFormat = errors.New("export: unknown format")

type Format string

const (
	PNG  Format = "png"
	TIFF Format = "tiff"
	BMP  Format = "bmp"
	PDF  Format = "pdf"
)

// Formats lists every supported format, default first.
var Formats = []Format{PNG, TIFF, BMP, PDF}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	switch f {
	case PNG, TIFF, BMP, PDF:
		return f, nil
	case "tif":
		return TIFF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) Ext() string { return "." + string(f) }

// FileName is the download name for base in format f, e.g. "drawing.png".
func FileName(base string, f Format) string {
	return base + f.Ext()
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case BMP:
		return bmp.Encode(w, img)
	case PDF:
		return encodePDF(w, img)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

const dataURLPrefix = "data:image/png;base64,"

// DataURL encodes img as a base64 PNG data URL.
func DataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("could not encode snapshot: %w", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeDataURL is the inverse of DataURL.
func DecodeDataURL(s string) (image.Image, error) {
	if !strings.HasPrefix(s, dataURLPrefix) {
		return nil, errors.New("snapshot is not a PNG data URL")
	}
	data, err := base64.StdEncoding.DecodeString(s[len(dataURLPrefix):])
	if err != nil {
		return nil, fmt.Errorf("could not decode snapshot: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("could not decode snapshot: %w", err)
	}
	return img, nil
}
