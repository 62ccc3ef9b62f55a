// Package patiodesigner renders a patio or porch photo with a procedurally
// generated enclosure frame and prices the enclosure.
//
// A single reference measurement, the pixel height of a door in the photo,
// calibrates the whole drawing: the door is taken to be 80 inches tall, and
// posts, chair rail and door markers are laid out in real-world units and
// converted to pixels with that scale.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//		"log"
//		"os"
//
//		patiodesigner "github.com/menta2k/patio-designer"
//		"github.com/menta2k/patio-designer/pkg/types"
//	)
//
//	func main() {
//		photo, err := os.Open("patio.jpg")
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer photo.Close()
//
//		result, err := patiodesigner.New().Render(context.Background(), types.DesignRequest{
//			Image:           photo,
//			FrameColor:      types.FrameWhite,
//			DoorCount:       2,
//			Enclosure:       types.Sunroom,
//			DoorPixelHeight: 200,
//			WidthFt:         12,
//			DepthFt:         10,
//		})
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		fmt.Println(result.PriceText)
//		os.WriteFile("design.png", result.Image, 0o644)
//	}
//
// The pipeline consists of:
//
// 1. Calibration (pkg/calibration): pixel-per-inch scale from the door measurement
// 2. Pricing (pkg/pricing): area × rate estimate, computed alongside the drawing
// 3. Layout (pkg/layout): post, chair rail and door positions in pixels
// 4. Texture (pkg/texture): translucent screen mesh on a separate layer
// 5. Compositor (pkg/compositor): alpha-over blend and frame drawing
// 6. Codec (pkg/codec): decoding the photo and encoding the design
//
// Every request allocates its own buffers and nothing is retained between
// requests, so a Designer may be shared by concurrent callers.
package patiodesigner

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/menta2k/patio-designer/pkg/calibration"
	"github.com/menta2k/patio-designer/pkg/codec"
	"github.com/menta2k/patio-designer/pkg/compositor"
	"github.com/menta2k/patio-designer/pkg/errors"
	"github.com/menta2k/patio-designer/pkg/layout"
	"github.com/menta2k/patio-designer/pkg/pricing"
	"github.com/menta2k/patio-designer/pkg/texture"
	"github.com/menta2k/patio-designer/pkg/types"
)

// Version of the patio designer library
const Version = "1.0.0"

// Config aggregates the configuration of every pipeline stage
type Config struct {
	Calibration calibration.Config
	Pricing     pricing.Config
	Layout      layout.Config
	Texture     texture.Config
	Compositor  compositor.Config
	Codec       codec.Config

	// StrictOptions rejects unknown enclosure types, frame colors and roof
	// styles with UNSUPPORTED_OPTION instead of resolving them to defaults.
	StrictOptions bool
}

// DefaultConfig returns the standard configuration of every stage
func DefaultConfig() Config {
	return Config{
		Calibration: calibration.DefaultConfig(),
		Pricing:     pricing.DefaultConfig(),
		Layout:      layout.DefaultConfig(),
		Texture:     texture.DefaultConfig(),
		Compositor:  compositor.DefaultConfig(),
		Codec:       codec.DefaultConfig(),
	}
}

// Designer runs the render pipeline
type Designer struct {
	config     Config
	pricing    *pricing.Calculator
	planner    *layout.Planner
	texture    *texture.Synthesizer
	compositor *compositor.Compositor
	codec      *codec.Codec
}

// New creates a Designer with default configuration
func New() *Designer {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a Designer with custom configuration
func NewWithConfig(config Config) *Designer {
	return &Designer{
		config:     config,
		pricing:    pricing.NewWithConfig(config.Pricing),
		planner:    layout.NewWithConfig(config.Layout),
		texture:    texture.NewWithConfig(config.Texture),
		compositor: compositor.NewWithConfig(config.Compositor),
		codec:      codec.NewWithConfig(config.Codec),
	}
}

// Codec returns the image codec used by the designer
func (d *Designer) Codec() *codec.Codec {
	return d.codec
}

// Result is the output of one render
type Result struct {
	Image     []byte                   `json:"-"`
	Format    types.OutputFormat       `json:"format"`
	PriceText string                   `json:"price_text"`
	Estimate  pricing.Estimate         `json:"estimate"`
	Scale     calibration.ScaleFactors `json:"scale"`
	Layout    layout.Layout            `json:"layout"`
	Frame     types.FrameColor         `json:"frame_color"`
	RoofStyle types.RoofStyle          `json:"roof_style"`
}

// plan holds the validated, resolved inputs of a request
type plan struct {
	req   types.DesignRequest
	scale calibration.ScaleFactors
}

// Render decodes the request image, draws the design and prices it. Any
// failure aborts the whole request and no partial output is returned.
func (d *Designer) Render(ctx context.Context, req types.DesignRequest) (*Result, error) {
	p, err := d.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	return d.run(ctx, p, d.codec.Format(), func() (image.Image, error) {
		return d.codec.Decode(req.Image)
	})
}

// RenderImage renders an already decoded image.
func (d *Designer) RenderImage(ctx context.Context, img image.Image, req types.DesignRequest) (*Result, error) {
	p, err := d.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return d.run(ctx, p, d.codec.Format(), func() (image.Image, error) { return img, nil })
}

// Estimate prices a request without drawing it. Image and door fields are ignored.
func (d *Designer) Estimate(ctx context.Context, req types.DesignRequest) (pricing.Estimate, string, error) {
	enclosure, err := d.resolveEnclosure(ctx, req.Enclosure)
	if err != nil {
		return pricing.Estimate{}, "", err
	}
	est, err := d.pricing.Estimate(req.WidthFt, req.DepthFt, enclosure)
	if err != nil {
		return pricing.Estimate{}, "", err
	}
	return est, d.pricing.Text(est), nil
}

// RenderFile loads inputPath (a file or http(s) URL), renders it and writes
// the design to outputPath in the format implied by its extension.
func (d *Designer) RenderFile(ctx context.Context, inputPath, outputPath string, req types.DesignRequest) (*Result, error) {
	format, err := codec.FormatFromPath(outputPath)
	if err != nil {
		return nil, err
	}

	p, err := d.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := d.run(ctx, p, format, func() (image.Image, error) {
		return d.codec.LoadImageSmart(ctx, inputPath)
	})
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(outputPath, result.Image, 0o644); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCodec, err, "failed to write %s", outputPath)
	}
	return result, nil
}

// prepare validates everything that can be checked before the image is
// touched: options, calibration, patio dimensions and door count.
func (d *Designer) prepare(ctx context.Context, req types.DesignRequest) (plan, error) {
	enclosure, err := d.resolveEnclosure(ctx, req.Enclosure)
	if err != nil {
		return plan{}, err
	}
	req.Enclosure = enclosure

	if req.FrameColor, err = d.resolveFrameColor(ctx, req.FrameColor); err != nil {
		return plan{}, err
	}
	if !req.RoofStyle.Known() {
		if d.config.StrictOptions {
			return plan{}, errors.New(errors.ErrCodeUnsupportedOption, "unsupported roof style %q", req.RoofStyle)
		}
		LoggerFromContext(ctx).Warn("unknown roof style ignored", "roof", req.RoofStyle)
	}

	scale, err := d.config.Calibration.Calibrate(req.DoorPixelHeight)
	if err != nil {
		return plan{}, err
	}
	if err := pricing.ValidateDimensions(req.WidthFt, req.DepthFt); err != nil {
		return plan{}, err
	}
	if err := d.planner.ValidateDoorCount(req.DoorCount); err != nil {
		return plan{}, err
	}

	return plan{req: req, scale: scale}, nil
}

// run prices the request and draws the design concurrently.
func (d *Designer) run(ctx context.Context, p plan, format types.OutputFormat, load func() (image.Image, error)) (*Result, error) {
	logger := LoggerFromContext(ctx)
	start := time.Now()

	result := &Result{
		Format:    format,
		Scale:     p.scale,
		Frame:     p.req.FrameColor,
		RoofStyle: p.req.RoofStyle,
	}

	var g errgroup.Group
	g.Go(func() error {
		est, err := d.pricing.Estimate(p.req.WidthFt, p.req.DepthFt, p.req.Enclosure)
		if err != nil {
			return err
		}
		result.Estimate = est
		result.PriceText = d.pricing.Text(est)
		return nil
	})
	g.Go(func() error {
		img, err := load()
		if err != nil {
			return err
		}
		data, l, err := d.draw(img, p, format)
		if err != nil {
			return err
		}
		result.Image = data
		result.Layout = l
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug("rendered design",
		"px_per_in", fmt.Sprintf("%.3f", p.scale.PixelsPerInch),
		"posts", len(result.Layout.Posts),
		"doors", len(result.Layout.Doors),
		"bytes", len(result.Image),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return result, nil
}

// draw lays out, textures, composites and encodes one image.
func (d *Designer) draw(img image.Image, p plan, format types.OutputFormat) ([]byte, layout.Layout, error) {
	if err := d.codec.Validate(img); err != nil {
		return nil, layout.Layout{}, err
	}

	b := img.Bounds()
	l, err := d.planner.Plan(b.Dx(), b.Dy(), p.scale, p.req.DoorCount)
	if err != nil {
		return nil, layout.Layout{}, err
	}

	layer := d.texture.Synthesize(l.Width, l.Height, l.Panels())
	out := d.compositor.Composite(img, layer, l, d.compositor.FrameColor(p.req.FrameColor))

	var buf bytes.Buffer
	if err := d.codec.Encode(&buf, out, format); err != nil {
		return nil, layout.Layout{}, err
	}
	return buf.Bytes(), l, nil
}

func (d *Designer) resolveEnclosure(ctx context.Context, e types.EnclosureType) (types.EnclosureType, error) {
	if e.Known() {
		return e, nil
	}
	if d.config.StrictOptions {
		return "", errors.New(errors.ErrCodeUnsupportedOption, "unsupported enclosure type %q", e)
	}
	LoggerFromContext(ctx).Warn("unknown enclosure type, using default", "enclosure", e, "default", types.DefaultEnclosure)
	return types.DefaultEnclosure, nil
}

func (d *Designer) resolveFrameColor(ctx context.Context, c types.FrameColor) (types.FrameColor, error) {
	if c.Known() {
		return c, nil
	}
	if d.config.StrictOptions {
		return "", errors.New(errors.ErrCodeUnsupportedOption, "unsupported frame color %q", c)
	}
	LoggerFromContext(ctx).Warn("unknown frame color, using default", "frame", c, "default", types.DefaultFrameColor)
	return types.DefaultFrameColor, nil
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
