// Package calibration derives a pixel-to-real-world scale from a single
// measurement: the pixel height of a door whose real height is known.
//
// The measured segment is assumed to be vertical and undistorted in the
// photo. No lens or perspective correction is performed.
package calibration

import (
	"math"

	"github.com/menta2k/patio-designer/pkg/errors"
)

// DefaultReferenceHeightIn is the real height of a standard door in inches.
// It is both the calibration reference and the drawn door height.
const DefaultReferenceHeightIn = 80.0

// Config holds the calibration reference
type Config struct {
	ReferenceHeightIn float64
}

// DefaultConfig returns the standard 80 inch door reference
func DefaultConfig() Config {
	return Config{ReferenceHeightIn: DefaultReferenceHeightIn}
}

// ScaleFactors converts real-world lengths to pixels. Values are immutable
// once computed.
type ScaleFactors struct {
	PixelsPerInch     float64 `json:"pixels_per_inch"`
	PixelsPerFoot     float64 `json:"pixels_per_foot"`
	ReferenceHeightIn float64 `json:"reference_height_in"`
}

// Calibrate derives the scale using the standard door reference.
func Calibrate(doorPixelHeight float64) (ScaleFactors, error) {
	return DefaultConfig().Calibrate(doorPixelHeight)
}

// Calibrate derives pixelsPerInch = h / reference and pixelsPerFoot = 12 × pixelsPerInch.
func (c Config) Calibrate(doorPixelHeight float64) (ScaleFactors, error) {
	if math.IsNaN(doorPixelHeight) || math.IsInf(doorPixelHeight, 0) || doorPixelHeight <= 0 {
		return ScaleFactors{}, errors.New(errors.ErrCodeInvalidCalibration,
			"reference door pixel height must be a positive number, got %v", doorPixelHeight)
	}
	if c.ReferenceHeightIn <= 0 {
		return ScaleFactors{}, errors.New(errors.ErrCodeInvalidCalibration,
			"reference door height must be positive, got %v", c.ReferenceHeightIn)
	}

	ppi := doorPixelHeight / c.ReferenceHeightIn
	return ScaleFactors{
		PixelsPerInch:     ppi,
		PixelsPerFoot:     ppi * 12,
		ReferenceHeightIn: c.ReferenceHeightIn,
	}, nil
}

// Inches converts a length in inches to pixels
func (s ScaleFactors) Inches(in float64) float64 {
	return s.PixelsPerInch * in
}

// Feet converts a length in feet to pixels
func (s ScaleFactors) Feet(ft float64) float64 {
	return s.PixelsPerFoot * ft
}

// ReferenceHeight is the reference door height in pixels.
func (s ScaleFactors) ReferenceHeight() float64 {
	return s.Inches(s.ReferenceHeightIn)
}
