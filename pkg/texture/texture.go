// Package texture synthesizes the translucent screen mesh drawn over each
// panel of the enclosure.
package texture

import (
	"image"
	"image/color"

	"github.com/menta2k/patio-designer/pkg/canvas"
	"github.com/menta2k/patio-designer/pkg/layout"
)

// Config holds mesh colors and spacing
type Config struct {
	PanelFill    color.NRGBA
	GuideColor   color.NRGBA
	GuideSpacing int
	GuideWidth   float64
}

// DefaultConfig returns a light gray fill at ~12% opacity with ~8% guides every 20px
func DefaultConfig() Config {
	return Config{
		PanelFill:    color.NRGBA{180, 180, 180, 30},
		GuideColor:   color.NRGBA{120, 120, 120, 20},
		GuideSpacing: 20,
		GuideWidth:   1,
	}
}

// Synthesizer draws the mesh layer
type Synthesizer struct {
	config Config
}

// New creates a Synthesizer with the default mesh
func New() *Synthesizer {
	return &Synthesizer{config: DefaultConfig()}
}

// NewWithConfig creates a Synthesizer with a custom mesh
func NewWithConfig(config Config) *Synthesizer {
	if config.GuideSpacing <= 0 {
		config.GuideSpacing = DefaultConfig().GuideSpacing
	}
	return &Synthesizer{config: config}
}

// Synthesize returns a new fully transparent width × height layer with the
// mesh drawn on every panel. The last panel gets the same treatment even
// when it is narrower than the others.
func (s *Synthesizer) Synthesize(width, height int, panels []layout.Panel) *image.RGBA {
	layer := image.NewRGBA(image.Rect(0, 0, width, height))
	cv := canvas.New(layer)

	for _, p := range panels {
		s.drawPanel(cv, p, height)
	}
	return layer
}

func (s *Synthesizer) drawPanel(cv *canvas.Canvas, p layout.Panel, height int) {
	h := float64(height)
	step := s.config.GuideSpacing
	gw := s.config.GuideWidth

	cv.FillRect(p.X0, 0, p.X1, h, s.config.PanelFill)

	for y := 0; y < height; y += step {
		cv.FillRect(p.X0, float64(y), p.X1, float64(y)+gw, s.config.GuideColor)
	}
	for x := int(p.X0); x < int(p.X1); x += step {
		cv.FillRect(float64(x), 0, float64(x)+gw, h, s.config.GuideColor)
	}
}
