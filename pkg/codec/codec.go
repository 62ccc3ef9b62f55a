// Package codec decodes uploaded photos and encodes rendered designs.
package codec

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/patio-designer/pkg/errors"
	"github.com/menta2k/patio-designer/pkg/types"
)

// Config holds decode limits and output encoding options
type Config struct {
	Format       types.OutputFormat
	Quality      int  // JPEG/WebP quality (1-100)
	Lossless     bool // WebP lossless mode
	MinImageSize int
	MaxBytes     int64
}

// DefaultConfig returns lossless PNG output
func DefaultConfig() Config {
	return Config{
		Format:       types.FormatPNG,
		Quality:      90,
		Lossless:     true,
		MinImageSize: 16,
		MaxBytes:     32 << 20,
	}
}

// Codec handles image decoding and encoding
type Codec struct {
	config Config
	client *http.Client
}

// New creates a Codec with default options
func New() *Codec {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a Codec with custom options
func NewWithConfig(config Config) *Codec {
	if config.Format == "" {
		config.Format = types.DefaultFormat
	}
	return &Codec{
		config: config,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Format returns the configured output format
func (c *Codec) Format() types.OutputFormat {
	return c.config.Format
}

// Decode reads an image from r. JPEG orientation tags are applied.
func (c *Codec) Decode(r io.Reader) (image.Image, error) {
	if r == nil {
		return nil, errors.New(errors.ErrCodeCodec, "no image provided")
	}

	if c.config.MaxBytes > 0 {
		r = io.LimitReader(r, c.config.MaxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCodec, err, "failed to read image data")
	}
	if c.config.MaxBytes > 0 && int64(len(data)) > c.config.MaxBytes {
		return nil, errors.New(errors.ErrCodeCodec, "image exceeds %d bytes", c.config.MaxBytes)
	}
	return decodeBytes(data)
}

// decodeBytes tries the registered decoders first, then libwebp.
func decodeBytes(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err == nil {
		return img, nil
	}

	if wimg, werr := webp.Decode(bytes.NewReader(data)); werr == nil {
		return wimg, nil
	}

	return nil, errors.Wrap(errors.ErrCodeCodec, err, "unknown or unsupported image format")
}

// LoadImage loads an image from a file path
func (c *Codec) LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCodec, err, "failed to open %s", path)
	}
	defer f.Close()

	return c.Decode(f)
}

// LoadImageFromURL downloads and decodes an image
func (c *Codec) LoadImageFromURL(ctx context.Context, imageURL string) (image.Image, error) {
	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid URL")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported URL scheme: %s (only http and https are supported)", parsedURL.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to create request")
	}
	req.Header.Set("User-Agent", "Patio-Designer/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCodec, err, "failed to download image")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.ErrCodeCodec, "failed to download image: HTTP %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		return nil, errors.New(errors.ErrCodeCodec, "URL does not point to an image (Content-Type: %s)", ct)
	}

	return c.Decode(resp.Body)
}

// LoadImageSmart loads an image from either a file path or URL
func (c *Codec) LoadImageSmart(ctx context.Context, source string) (image.Image, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return c.LoadImageFromURL(ctx, source)
	}
	return c.LoadImage(source)
}

// Validate checks the image against the minimum size
func (c *Codec) Validate(img image.Image) error {
	b := img.Bounds()
	if b.Dx() < c.config.MinImageSize || b.Dy() < c.config.MinImageSize {
		return errors.New(errors.ErrCodeInvalidDimensions,
			"image too small: %dx%d (minimum: %d)", b.Dx(), b.Dy(), c.config.MinImageSize)
	}
	return nil
}

// Encode writes img to w in the given format.
func (c *Codec) Encode(w io.Writer, img image.Image, format types.OutputFormat) error {
	var err error
	switch format {
	case types.FormatWebP:
		err = webp.Encode(w, img, &webp.Options{Lossless: c.config.Lossless, Quality: float32(c.config.Quality)})
	case types.FormatJPEG:
		err = imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(c.config.Quality))
	case types.FormatPNG, "":
		err = imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.DefaultCompression))
	default:
		return errors.New(errors.ErrCodeUnsupportedOption, "unsupported output format: %s", format)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeCodec, err, "failed to encode %s", format)
	}
	return nil
}

// FormatFromPath derives the output format from a file extension
func FormatFromPath(path string) (types.OutputFormat, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", errors.New(errors.ErrCodeUnsupportedOption, "output path %q has no extension", path)
	}
	return types.ParseOutputFormat(ext)
}
