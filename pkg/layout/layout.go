package layout

import (
	"math"

	"github.com/menta2k/patio-designer/pkg/calibration"
	"github.com/menta2k/patio-designer/pkg/errors"
)

// MaxDoors is the largest supported door count
const MaxDoors = 3

// MaxPosts bounds the post count of one layout. Only a door measured at a
// tiny fraction of a pixel reaches it.
const MaxPosts = 1 << 16

// Config holds the real-world measurements of the frame
type Config struct {
	PostSpacingFt float64
	ChairRailIn   float64
	DoorWidthFt   float64
	MaxDoors      int
}

// DefaultConfig returns 6 ft post spacing, a 36 in chair rail and 3 ft doors
func DefaultConfig() Config {
	return Config{
		PostSpacingFt: 6,
		ChairRailIn:   36,
		DoorWidthFt:   3,
		MaxDoors:      MaxDoors,
	}
}

// Rect is an axis-aligned rectangle in pixel space
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Width returns the horizontal extent of the rectangle
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent of the rectangle
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// CenterX returns the horizontal center of the rectangle
func (r Rect) CenterX() float64 { return (r.MinX + r.MaxX) / 2 }

// Overlaps reports whether r and o share any interior area
func (r Rect) Overlaps(o Rect) bool {
	return r.MinX < o.MaxX && o.MinX < r.MaxX && r.MinY < o.MaxY && o.MinY < r.MaxY
}

// Panel is the region between two adjacent posts, spanning the full image height
type Panel struct {
	X0 float64
	X1 float64
}

// Width returns the horizontal extent of the panel
func (p Panel) Width() float64 { return p.X1 - p.X0 }

// Layout is the pixel-space placement of posts, chair rail and doors
type Layout struct {
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Posts      []float64 `json:"posts"`
	ChairRailY float64   `json:"chair_rail_y"`
	Doors      []Rect    `json:"doors"`
}

// Panels returns the regions between adjacent posts, left to right.
func (l Layout) Panels() []Panel {
	if len(l.Posts) < 2 {
		return nil
	}
	panels := make([]Panel, 0, len(l.Posts)-1)
	for i := 0; i < len(l.Posts)-1; i++ {
		panels = append(panels, Panel{X0: l.Posts[i], X1: l.Posts[i+1]})
	}
	return panels
}

// Planner lays out frame elements from a calibrated scale
type Planner struct {
	config Config
}

// New creates a Planner with default measurements
func New() *Planner {
	return &Planner{config: DefaultConfig()}
}

// NewWithConfig creates a Planner with custom measurements
func NewWithConfig(config Config) *Planner {
	return &Planner{config: config}
}

// ValidateDoorCount checks that n is within the supported range.
func (p *Planner) ValidateDoorCount(n int) error {
	if n < 0 || n > p.config.MaxDoors {
		return errors.New(errors.ErrCodeInvalidDoorCount,
			"door count must be between 0 and %d, got %d", p.config.MaxDoors, n)
	}
	return nil
}

// Plan computes the layout for a width × height image.
func (p *Planner) Plan(width, height int, scale calibration.ScaleFactors, doorCount int) (Layout, error) {
	if width <= 0 || height <= 0 {
		return Layout{}, errors.New(errors.ErrCodeInvalidDimensions, "invalid image dimensions %dx%d", width, height)
	}
	if err := p.ValidateDoorCount(doorCount); err != nil {
		return Layout{}, err
	}

	spacing := scale.Feet(p.config.PostSpacingFt)
	if !(spacing > 0) || math.IsInf(spacing, 0) || float64(width)/spacing > MaxPosts {
		return Layout{}, errors.New(errors.ErrCodeInvalidCalibration,
			"post spacing of %v px would need more than %d posts; check the door pixel height", spacing, MaxPosts)
	}

	return Layout{
		Width:      width,
		Height:     height,
		Posts:      PostPositions(width, spacing),
		ChairRailY: scale.Inches(p.config.ChairRailIn),
		Doors:      p.doorRects(width, height, scale, doorCount),
	}, nil
}

// PostPositions returns post x-coordinates: every spacing pixels from 0 while
// below width, then width itself as the right boundary. The final gap may be
// narrower than spacing.
func PostPositions(width int, spacing float64) []float64 {
	w := float64(width)
	posts := make([]float64, 0, int(w/spacing)+2)
	for i := 0; ; i++ {
		x := float64(i) * spacing
		if x >= w {
			break
		}
		posts = append(posts, x)
	}
	return append(posts, w)
}

// doorRects places doorCount doors at evenly spaced centers along the bottom
// edge. Door height is the calibration reference converted through the same
// scale, so a door always reaches the bottom of the image.
func (p *Planner) doorRects(width, height int, scale calibration.ScaleFactors, doorCount int) []Rect {
	if doorCount == 0 {
		return []Rect{}
	}

	doorWidth := scale.Feet(p.config.DoorWidthFt)
	spacing := width / (doorCount + 1)
	top := float64(height) - scale.ReferenceHeight()

	doors := make([]Rect, 0, doorCount)
	for i := 1; i <= doorCount; i++ {
		center := float64(spacing * i)
		doors = append(doors, Rect{
			MinX: center - doorWidth/2,
			MinY: top,
			MaxX: center + doorWidth/2,
			MaxY: float64(height),
		})
	}
	return doors
}
