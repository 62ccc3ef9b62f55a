// Package canvas draws translucent axis-aligned shapes onto an image using
// the rasterx scanline rasterizer. Every shape is blended "over" the
// destination and clipped to its bounds.
package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/srwiley/rasterx"
)

// Canvas wraps a destination image with a reusable rasterizer
type Canvas struct {
	dst    draw.Image
	bounds image.Rectangle
	filler *rasterx.Filler
}

// New creates a Canvas drawing onto dst
func New(dst draw.Image) *Canvas {
	bounds := dst.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	scanner := rasterx.NewScannerGV(w, h, dst, bounds)
	scanner.SetClip(bounds)

	return &Canvas{
		dst:    dst,
		bounds: bounds,
		filler: rasterx.NewFiller(w, h, scanner),
	}
}

// Image returns the destination image
func (c *Canvas) Image() draw.Image {
	return c.dst
}

// FillRect fills [x0,x1) × [y0,y1) with col. Coordinates are relative to
// the top-left corner of the destination.
func (c *Canvas) FillRect(x0, y0, x1, y1 float64, col color.Color) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}

	w, h := float64(c.bounds.Dx()), float64(c.bounds.Dy())
	x0, x1 = math.Max(x0, 0), math.Min(x1, w)
	y0, y1 = math.Max(y0, 0), math.Min(y1, h)
	if x1 <= x0 || y1 <= y0 {
		return
	}

	c.filler.Clear()
	c.filler.SetColor(col)
	rasterx.AddRect(x0, y0, x1, y1, 0, c.filler)
	c.filler.Draw()
}

// HLine draws a horizontal band of the given width centred on y.
func (c *Canvas) HLine(y, x0, x1, width float64, col color.Color) {
	c.FillRect(x0, y-width/2, x1, y+width/2, col)
}

// VLine draws a vertical band of the given width centred on x.
func (c *Canvas) VLine(x, y0, y1, width float64, col color.Color) {
	c.FillRect(x-width/2, y0, x+width/2, y1, col)
}

// StrokeRect outlines the rectangle with a border of the given width drawn
// inside its edges. The four sides do not overlap, so translucent colors
// keep a uniform opacity at the corners.
func (c *Canvas) StrokeRect(x0, y0, x1, y1, width float64, col color.Color) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if 2*width >= x1-x0 || 2*width >= y1-y0 {
		c.FillRect(x0, y0, x1, y1, col)
		return
	}

	c.FillRect(x0, y0, x1, y0+width, col)             // top
	c.FillRect(x0, y1-width, x1, y1, col)             // bottom
	c.FillRect(x0, y0+width, x0+width, y1-width, col) // left
	c.FillRect(x1-width, y0+width, x1, y1-width, col) // right
}
