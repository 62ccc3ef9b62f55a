package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	patiodesigner "github.com/menta2k/patio-designer"
	"github.com/menta2k/patio-designer/pkg/calibration"
	"github.com/menta2k/patio-designer/pkg/codec"
	"github.com/menta2k/patio-designer/pkg/compositor"
	"github.com/menta2k/patio-designer/pkg/layout"
	"github.com/menta2k/patio-designer/pkg/pricing"
	"github.com/menta2k/patio-designer/pkg/texture"
	"github.com/menta2k/patio-designer/pkg/types"
)

// Config holds the application configuration
type Config struct {
	Calibration CalibrationConfig `json:"calibration" toml:"calibration"`
	Pricing     PricingConfig     `json:"pricing" toml:"pricing"`
	Layout      LayoutConfig      `json:"layout" toml:"layout"`
	Texture     TextureConfig     `json:"texture" toml:"texture"`
	Compositor  CompositorConfig  `json:"compositor" toml:"compositor"`
	Output      OutputConfig      `json:"output" toml:"output"`
	Server      ServerConfig      `json:"server" toml:"server"`
}

// CalibrationConfig holds the reference measurement
type CalibrationConfig struct {
	ReferenceHeightIn float64 `json:"reference_height_in" toml:"reference_height_in"`
}

// PricingConfig holds per-square-foot rates keyed by enclosure type
type PricingConfig struct {
	Market string             `json:"market" toml:"market"`
	Rates  map[string]float64 `json:"rates" toml:"rates"`
}

// LayoutConfig holds structural spacing in real-world units
type LayoutConfig struct {
	PostSpacingFt float64 `json:"post_spacing_ft" toml:"post_spacing_ft"`
	ChairRailIn   float64 `json:"chair_rail_in" toml:"chair_rail_in"`
	DoorWidthFt   float64 `json:"door_width_ft" toml:"door_width_ft"`
	MaxDoors      int     `json:"max_doors" toml:"max_doors"`
}

// TextureConfig holds the screen mesh appearance. Colors are #rrggbbaa.
type TextureConfig struct {
	PanelFill    string  `json:"panel_fill" toml:"panel_fill"`
	GuideColor   string  `json:"guide_color" toml:"guide_color"`
	GuideSpacing int     `json:"guide_spacing" toml:"guide_spacing"`
	GuideWidth   float64 `json:"guide_width" toml:"guide_width"`
}

// CompositorConfig holds frame stroke widths and colors
type CompositorConfig struct {
	PostWidth         float64 `json:"post_width" toml:"post_width"`
	BorderWidth       float64 `json:"border_width" toml:"border_width"`
	BottomBorderInset float64 `json:"bottom_border_inset" toml:"bottom_border_inset"`
	ChairRailWidth    float64 `json:"chair_rail_width" toml:"chair_rail_width"`
	DoorOutlineWidth  float64 `json:"door_outline_width" toml:"door_outline_width"`
	DoorColor         string  `json:"door_color" toml:"door_color"`
	White             string  `json:"white" toml:"white"`
	Bronze            string  `json:"bronze" toml:"bronze"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	DefaultFormat string `json:"default_format" toml:"default_format"`
	Quality       int    `json:"quality" toml:"quality"`
	Lossless      bool   `json:"lossless" toml:"lossless"`
	MinImageSize  int    `json:"min_image_size" toml:"min_image_size"`
	MaxUploadMB   int    `json:"max_upload_mb" toml:"max_upload_mb"`
	OutputDir     string `json:"output_dir" toml:"output_dir"`
	Suffix        string `json:"suffix" toml:"suffix"`
	StrictOptions bool   `json:"strict_options" toml:"strict_options"`
}

// ServerConfig holds the HTTP shell settings
type ServerConfig struct {
	Addr         string   `json:"addr" toml:"addr"`
	ReadTimeout  int      `json:"read_timeout" toml:"read_timeout"`   // seconds
	WriteTimeout int      `json:"write_timeout" toml:"write_timeout"` // seconds
	AllowOrigins []string `json:"allow_origins" toml:"allow_origins"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Calibration: CalibrationConfig{
			ReferenceHeightIn: calibration.DefaultReferenceHeightIn,
		},
		Pricing: PricingConfig{
			Market: pricing.DefaultMarket,
			Rates: map[string]float64{
				string(types.ScreenPorch): 18,
				string(types.Sunroom):     95,
				string(types.PatioCover):  45,
			},
		},
		Layout: LayoutConfig{
			PostSpacingFt: 6,
			ChairRailIn:   36,
			DoorWidthFt:   3,
			MaxDoors:      layout.MaxDoors,
		},
		Texture: TextureConfig{
			PanelFill:    "#b4b4b41e",
			GuideColor:   "#78787814",
			GuideSpacing: 20,
			GuideWidth:   1,
		},
		Compositor: CompositorConfig{
			PostWidth:         8,
			BorderWidth:       10,
			BottomBorderInset: 5,
			ChairRailWidth:    8,
			DoorOutlineWidth:  6,
			DoorColor:         "#00ff00c8",
			White:             "#ffffffe6",
			Bronze:            "#5a3214e6",
		},
		Output: OutputConfig{
			DefaultFormat: string(types.FormatPNG),
			Quality:       90,
			Lossless:      true,
			MinImageSize:  16,
			MaxUploadMB:   32,
			OutputDir:     "./output",
			Suffix:        "_design",
		},
		Server: ServerConfig{
			Addr:         ":3000",
			ReadTimeout:  30,
			WriteTimeout: 60,
			AllowOrigins: []string{"*"},
		},
	}
}

// LoadFromFile loads configuration from a JSON or TOML file. Missing keys keep
// their default values. PORT in the environment overrides the server port.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	defaultRates := config.Pricing.Rates
	config.Pricing.Rates = nil
	if isTOML(filename) {
		if _, err := toml.Decode(string(data), config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	rates, err := mergeRates(defaultRates, config.Pricing.Rates)
	if err != nil {
		return nil, err
	}
	config.Pricing.Rates = rates

	config.ApplyEnv()
	return config, nil
}

// mergeRates overlays file rates on the defaults under canonical keys, so
// "Screen Porch" replaces "screen-porch" instead of sitting next to it.
// Unrecognized keys are kept for Validate to report.
func mergeRates(defaults, file map[string]float64) (map[string]float64, error) {
	merged := make(map[string]float64, len(defaults)+len(file))
	for name, rate := range defaults {
		merged[name] = rate
	}

	names := sortedKeys(file)
	seen := make(map[types.EnclosureType]string, len(names))
	for _, name := range names {
		e, err := types.ParseEnclosureType(name)
		if err != nil {
			merged[name] = file[name]
			continue
		}
		if prev, ok := seen[e]; ok {
			return nil, fmt.Errorf("pricing.rates: %q and %q both set the %s rate", prev, name, e)
		}
		seen[e] = name
		merged[string(e)] = file[name]
	}
	return merged, nil
}

// ApplyEnv applies environment overrides
func (c *Config) ApplyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + strings.TrimPrefix(port, ":")
	}
}

// SaveToFile saves configuration as TOML when the file ends in .toml and as JSON otherwise
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal(isTOML(filename))
	if err != nil {
		return err
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal renders the configuration as indented JSON or TOML
func (c *Config) Marshal(asTOML bool) ([]byte, error) {
	if asTOML {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return nil, fmt.Errorf("failed to marshal config: %w", err)
		}
		return buf.Bytes(), nil
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return append(data, '\n'), nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !positive(c.Calibration.ReferenceHeightIn) {
		return fmt.Errorf("calibration.reference_height_in must be positive")
	}

	if len(c.Pricing.Rates) == 0 {
		return fmt.Errorf("pricing.rates cannot be empty")
	}
	seen := make(map[types.EnclosureType]string, len(c.Pricing.Rates))
	for _, name := range sortedKeys(c.Pricing.Rates) {
		e, err := types.ParseEnclosureType(name)
		if err != nil {
			return fmt.Errorf("pricing.rates: %w", err)
		}
		if prev, ok := seen[e]; ok {
			return fmt.Errorf("pricing.rates: %q and %q both set the %s rate", prev, name, e)
		}
		seen[e] = name
		if !positive(c.Pricing.Rates[name]) {
			return fmt.Errorf("pricing.rates.%s must be positive", name)
		}
	}
	if _, ok := seen[types.DefaultEnclosure]; !ok {
		return fmt.Errorf("pricing.rates must include %s", types.DefaultEnclosure)
	}

	if !positive(c.Layout.PostSpacingFt) || !positive(c.Layout.DoorWidthFt) {
		return fmt.Errorf("layout.post_spacing_ft and layout.door_width_ft must be positive")
	}
	if c.Layout.ChairRailIn < 0 {
		return fmt.Errorf("layout.chair_rail_in cannot be negative")
	}
	if c.Layout.MaxDoors < 0 {
		return fmt.Errorf("layout.max_doors cannot be negative")
	}

	if c.Texture.GuideSpacing < 1 {
		return fmt.Errorf("texture.guide_spacing must be positive")
	}
	if !positive(c.Texture.GuideWidth) {
		return fmt.Errorf("texture.guide_width must be positive")
	}

	for name, hex := range map[string]string{
		"texture.panel_fill":    c.Texture.PanelFill,
		"texture.guide_color":   c.Texture.GuideColor,
		"compositor.door_color": c.Compositor.DoorColor,
		"compositor.white":      c.Compositor.White,
		"compositor.bronze":     c.Compositor.Bronze,
	} {
		if _, err := ParseColor(hex); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	if _, err := types.ParseOutputFormat(c.Output.DefaultFormat); err != nil {
		return fmt.Errorf("output.default_format: %w", err)
	}
	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}
	if c.Output.MinImageSize < 1 {
		return fmt.Errorf("output.min_image_size must be positive")
	}
	if c.Output.MaxUploadMB < 1 {
		return fmt.Errorf("output.max_upload_mb must be positive")
	}

	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return fmt.Errorf("server timeouts cannot be negative")
	}

	return nil
}

// Designer validates the configuration and converts it into pipeline configuration
func (c *Config) Designer() (patiodesigner.Config, error) {
	if err := c.Validate(); err != nil {
		return patiodesigner.Config{}, err
	}

	rates := make(map[types.EnclosureType]float64, len(c.Pricing.Rates))
	for name, rate := range c.Pricing.Rates {
		// Validate guarantees one key per enclosure type
		e, _ := types.ParseEnclosureType(name)
		rates[e] = rate
	}
	format, _ := types.ParseOutputFormat(c.Output.DefaultFormat)

	return patiodesigner.Config{
		Calibration: calibration.Config{ReferenceHeightIn: c.Calibration.ReferenceHeightIn},
		Pricing:     pricing.Config{Rates: rates, Market: c.Pricing.Market},
		Layout: layout.Config{
			PostSpacingFt: c.Layout.PostSpacingFt,
			ChairRailIn:   c.Layout.ChairRailIn,
			DoorWidthFt:   c.Layout.DoorWidthFt,
			MaxDoors:      c.Layout.MaxDoors,
		},
		Texture: texture.Config{
			PanelFill:    mustColor(c.Texture.PanelFill),
			GuideColor:   mustColor(c.Texture.GuideColor),
			GuideSpacing: c.Texture.GuideSpacing,
			GuideWidth:   c.Texture.GuideWidth,
		},
		Compositor: compositor.Config{
			PostWidth:         c.Compositor.PostWidth,
			BorderWidth:       c.Compositor.BorderWidth,
			BottomBorderInset: c.Compositor.BottomBorderInset,
			ChairRailWidth:    c.Compositor.ChairRailWidth,
			DoorOutlineWidth:  c.Compositor.DoorOutlineWidth,
			DoorColor:         mustColor(c.Compositor.DoorColor),
			White:             mustColor(c.Compositor.White),
			Bronze:            mustColor(c.Compositor.Bronze),
		},
		Codec: codec.Config{
			Format:       format,
			Quality:      c.Output.Quality,
			Lossless:     c.Output.Lossless,
			MinImageSize: c.Output.MinImageSize,
			MaxBytes:     int64(c.Output.MaxUploadMB) << 20,
		},
		StrictOptions: c.Output.StrictOptions,
	}, nil
}

// ParseColor parses #rrggbb or #rrggbbaa into a non-premultiplied color
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: want #rrggbb or #rrggbbaa", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func mustColor(s string) color.NRGBA {
	c, _ := ParseColor(s)
	return c
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func isTOML(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".toml")
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.toml"
	}
	return filepath.Join(home, ".config", "patio-designer", "config.toml")
}
