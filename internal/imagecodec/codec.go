package imagecodec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat reports an encode target this codec cannot produce.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Codec decodes any registered image format and encodes a fixed set of
// output formats.
type Codec struct {
	jpegQuality int
}

// Option configures Codec.
type Option func(*Codec)

// WithJPEGQuality overrides the JPEG encoder quality (1-100).
func WithJPEGQuality(quality int) Option {
	return func(c *Codec) {
		if quality >= 1 && quality <= 100 {
			c.jpegQuality = quality
		}
	}
}

// New constructs a Codec.
func New(opts ...Option) *Codec {
	c := &Codec{jpegQuality: jpeg.DefaultQuality}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EncodeFormats lists the formats Encode accepts.
func EncodeFormats() []string {
	return []string{"png", "jpg", "gif", "bmp", "tiff"}
}

// NormalizeFormat maps extension aliases onto canonical format names.
func NormalizeFormat(format string) string {
	format = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	switch format {
	case "jpeg":
		return "jpg"
	case "tif":
		return "tiff"
	default:
		return format
	}
}

// Decode sniffs and decodes data, returning the detected format name.
func (c *Codec) Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", errors.New("decode image: empty input")
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// Encode renders img in the requested format.
func (c *Codec) Encode(img image.Image, format string) ([]byte, error) {
	if img == nil {
		return nil, errors.New("encode image: nil image")
	}
	var buf bytes.Buffer
	var err error
	switch NormalizeFormat(format) {
	case "png":
		err = png.Encode(&buf, img)
	case "jpg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: c.jpegQuality})
	case "gif":
		err = gif.Encode(&buf, img, nil)
	case "bmp":
		err = bmp.Encode(&buf, img)
	case "tiff":
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", NormalizeFormat(format), err)
	}
	return buf.Bytes(), nil
}
