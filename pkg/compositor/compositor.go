// Package compositor blends the mesh layer onto the photo and draws the
// structural frame and door markers described by a layout.
package compositor

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/menta2k/patio-designer/pkg/canvas"
	"github.com/menta2k/patio-designer/pkg/layout"
	"github.com/menta2k/patio-designer/pkg/types"
)

// Config holds line widths and colors of the frame
type Config struct {
	PostWidth         float64
	BorderWidth       float64
	BottomBorderInset float64 // distance of the bottom border's center line from the bottom edge
	ChairRailWidth    float64
	DoorOutlineWidth  float64
	DoorColor         color.NRGBA
	White             color.NRGBA
	Bronze            color.NRGBA
}

// DefaultConfig returns the standard frame styling
func DefaultConfig() Config {
	return Config{
		PostWidth:         8,
		BorderWidth:       10,
		BottomBorderInset: 5,
		ChairRailWidth:    8,
		DoorOutlineWidth:  6,
		DoorColor:         color.NRGBA{0, 255, 0, 200},
		White:             color.NRGBA{255, 255, 255, 230},
		Bronze:            color.NRGBA{90, 50, 20, 230},
	}
}

// Compositor renders the final design image
type Compositor struct {
	config Config
}

// New creates a Compositor with the standard frame styling
func New() *Compositor {
	return &Compositor{config: DefaultConfig()}
}

// NewWithConfig creates a Compositor with custom styling
func NewWithConfig(config Config) *Compositor {
	return &Compositor{config: config}
}

// FrameColor maps a frame finish to its RGBA value. Anything other than
// white is drawn in bronze.
func (c *Compositor) FrameColor(fc types.FrameColor) color.NRGBA {
	if fc.Resolve() == types.FrameWhite {
		return c.config.White
	}
	return c.config.Bronze
}

// Composite returns a new image: base with the texture layer blended over it
// and the frame drawn on top. base and texture are not modified.
func (c *Compositor) Composite(base image.Image, texture image.Image, l layout.Layout, frame color.NRGBA) *image.NRGBA {
	work := imaging.Clone(base)
	if texture != nil {
		work = imaging.Overlay(work, texture, image.Pt(0, 0), 1.0)
	}

	c.DrawFrame(canvas.New(work), l, frame)
	return work
}

// DrawFrame draws posts, borders, chair rail and door outlines, in that order.
func (c *Compositor) DrawFrame(cv *canvas.Canvas, l layout.Layout, frame color.NRGBA) {
	w, h := float64(l.Width), float64(l.Height)
	cfg := c.config

	for _, x := range l.Posts {
		cv.VLine(x, 0, h, cfg.PostWidth, frame)
	}

	cv.HLine(0, 0, w, cfg.BorderWidth, frame)
	cv.HLine(h-cfg.BottomBorderInset, 0, w, cfg.BorderWidth, frame)
	cv.HLine(l.ChairRailY, 0, w, cfg.ChairRailWidth, frame)

	for _, d := range l.Doors {
		cv.StrokeRect(d.MinX, d.MinY, d.MaxX, d.MaxY, cfg.DoorOutlineWidth, cfg.DoorColor)
	}
}
