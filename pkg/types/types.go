package types

import (
	"io"
	"strings"

	"github.com/menta2k/patio-designer/pkg/errors"
)

// FrameColor is the finish of the structural frame
type FrameColor string

const (
	FrameWhite  FrameColor = "white"
	FrameBronze FrameColor = "bronze"

	// DefaultFrameColor is used for any value outside the enumeration
	DefaultFrameColor = FrameBronze
)

// EnclosureType selects the rate class of the estimate
type EnclosureType string

const (
	ScreenPorch EnclosureType = "screen-porch"
	Sunroom     EnclosureType = "sunroom"
	PatioCover  EnclosureType = "patio-cover"

	// DefaultEnclosure is used for any value outside the enumeration
	DefaultEnclosure = PatioCover
)

// RoofStyle is recorded with the request but does not affect rendering
type RoofStyle string

const (
	RoofShed      RoofStyle = "shed"
	RoofOpenGable RoofStyle = "open-gable"
	RoofFlat      RoofStyle = "flat"
)

// OutputFormat is the encoding of the composited image
type OutputFormat string

const (
	FormatPNG  OutputFormat = "png"
	FormatWebP OutputFormat = "webp"
	FormatJPEG OutputFormat = "jpg"

	DefaultFormat = FormatPNG
)

// DesignRequest holds everything a single render needs. It is built per
// invocation and never stored.
type DesignRequest struct {
	Image           io.Reader
	FrameColor      FrameColor
	RoofStyle       RoofStyle
	DoorCount       int
	Enclosure       EnclosureType
	DoorPixelHeight float64 // measured floor-to-top height of a door in the photo
	WidthFt         float64
	DepthFt         float64
}

// Known reports whether c is one of the declared frame colors.
func (c FrameColor) Known() bool {
	return c == FrameWhite || c == FrameBronze
}

// Resolve returns c, or DefaultFrameColor when c is unknown.
func (c FrameColor) Resolve() FrameColor {
	if c.Known() {
		return c
	}
	return DefaultFrameColor
}

// Known reports whether e is one of the declared enclosure types.
func (e EnclosureType) Known() bool {
	switch e {
	case ScreenPorch, Sunroom, PatioCover:
		return true
	}
	return false
}

// Resolve returns e, or DefaultEnclosure when e is unknown.
func (e EnclosureType) Resolve() EnclosureType {
	if e.Known() {
		return e
	}
	return DefaultEnclosure
}

// Known reports whether r is one of the declared roof styles. The empty
// value is accepted since roof style is optional.
func (r RoofStyle) Known() bool {
	switch r {
	case "", RoofShed, RoofOpenGable, RoofFlat:
		return true
	}
	return false
}

// Known reports whether f is a supported output encoding.
func (f OutputFormat) Known() bool {
	switch f {
	case FormatPNG, FormatWebP, FormatJPEG:
		return true
	}
	return false
}

// EnclosureTypes lists the rate classes in display order
func EnclosureTypes() []EnclosureType {
	return []EnclosureType{ScreenPorch, Sunroom, PatioCover}
}

// ParseFrameColor accepts "White", "bronze" and similar spellings.
func ParseFrameColor(s string) (FrameColor, error) {
	c := FrameColor(normalize(s))
	if !c.Known() {
		return "", errors.New(errors.ErrCodeUnsupportedOption, "unsupported frame color %q", s)
	}
	return c, nil
}

// ParseEnclosureType accepts the form labels ("Screen Porch", "Patio Cover")
// as well as slugs ("screen-porch", "screen_porch").
func ParseEnclosureType(s string) (EnclosureType, error) {
	e := EnclosureType(normalize(s))
	if !e.Known() {
		return "", errors.New(errors.ErrCodeUnsupportedOption, "unsupported enclosure type %q", s)
	}
	return e, nil
}

// ParseRoofStyle accepts "Shed / Lean-to", "Open Gable", "Flat" and slugs.
func ParseRoofStyle(s string) (RoofStyle, error) {
	switch n := normalize(s); n {
	case "shed", "shed-lean-to", "lean-to":
		return RoofShed, nil
	case "", "open-gable", "flat":
		return RoofStyle(n), nil
	}
	return "", errors.New(errors.ErrCodeUnsupportedOption, "unsupported roof style %q", s)
}

// EnclosureTypeOf is the lenient form of ParseEnclosureType used for user
// input: an empty string selects the default and an unrecognized one is kept
// verbatim so the designer can apply its option policy to it.
func EnclosureTypeOf(s string) EnclosureType {
	if strings.TrimSpace(s) == "" {
		return DefaultEnclosure
	}
	if e, err := ParseEnclosureType(s); err == nil {
		return e
	}
	return EnclosureType(s)
}

// FrameColorOf is the lenient form of ParseFrameColor, see EnclosureTypeOf.
func FrameColorOf(s string) FrameColor {
	if strings.TrimSpace(s) == "" {
		return DefaultFrameColor
	}
	if c, err := ParseFrameColor(s); err == nil {
		return c
	}
	return FrameColor(s)
}

// RoofStyleOf is the lenient form of ParseRoofStyle.
func RoofStyleOf(s string) RoofStyle {
	if r, err := ParseRoofStyle(s); err == nil {
		return r
	}
	return RoofStyle(s)
}

// ParseOutputFormat maps a format name or file extension to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "", "png":
		return FormatPNG, nil
	case "webp":
		return FormatWebP, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	}
	return "", errors.New(errors.ErrCodeUnsupportedOption, "unsupported output format %q", s)
}

// ContentType returns the MIME type of the encoding
func (f OutputFormat) ContentType() string {
	switch f {
	case FormatWebP:
		return "image/webp"
	case FormatJPEG:
		return "image/jpeg"
	default:
		return "image/png"
	}
}

func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("/", " ", "_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), "-")
}
