package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/menta2k/patio-designer/pkg/types"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default config should be valid: %v", err)
	}
}

func TestDesignerConversion(t *testing.T) {
	cfg, err := Default().Designer()
	if err != nil {
		t.Fatalf("Designer() failed: %v", err)
	}

	if cfg.Calibration.ReferenceHeightIn != 80 {
		t.Errorf("Expected reference height 80, got %f", cfg.Calibration.ReferenceHeightIn)
	}
	if cfg.Pricing.Rates[types.Sunroom] != 95 {
		t.Errorf("Expected sunroom rate 95, got %f", cfg.Pricing.Rates[types.Sunroom])
	}
	if cfg.Texture.PanelFill != (color.NRGBA{180, 180, 180, 30}) {
		t.Errorf("Unexpected panel fill %v", cfg.Texture.PanelFill)
	}
	if cfg.Compositor.Bronze != (color.NRGBA{90, 50, 20, 230}) {
		t.Errorf("Unexpected bronze %v", cfg.Compositor.Bronze)
	}
	if cfg.Codec.Format != types.FormatPNG || cfg.Codec.MaxBytes != 32<<20 {
		t.Errorf("Unexpected codec config %+v", cfg.Codec)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero reference height", func(c *Config) { c.Calibration.ReferenceHeightIn = 0 }},
		{"empty rates", func(c *Config) { c.Pricing.Rates = map[string]float64{} }},
		{"unknown enclosure rate", func(c *Config) { c.Pricing.Rates["gazebo"] = 10 }},
		{"negative rate", func(c *Config) { c.Pricing.Rates["sunroom"] = -1 }},
		{"missing default rate", func(c *Config) { delete(c.Pricing.Rates, "patio-cover") }},
		{"zero post spacing", func(c *Config) { c.Layout.PostSpacingFt = 0 }},
		{"zero guide spacing", func(c *Config) { c.Texture.GuideSpacing = 0 }},
		{"zero guide width", func(c *Config) { c.Texture.GuideWidth = 0 }},
		{"negative guide width", func(c *Config) { c.Texture.GuideWidth = -1 }},
		{"duplicate rate keys", func(c *Config) { c.Pricing.Rates["Screen Porch"] = 20 }},
		{"bad color", func(c *Config) { c.Compositor.White = "white" }},
		{"bad format", func(c *Config) { c.Output.DefaultFormat = "bmp" }},
		{"quality too high", func(c *Config) { c.Output.Quality = 101 }},
		{"zero upload size", func(c *Config) { c.Output.MaxUploadMB = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
			if _, err := cfg.Designer(); err == nil {
				t.Error("Expected Designer() to reject invalid config")
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"#00ff00c8", color.NRGBA{0, 255, 0, 200}, true},
		{"ffffff", color.NRGBA{255, 255, 255, 255}, true},
		{" #5A3214E6 ", color.NRGBA{90, 50, 20, 230}, true},
		{"#fff", color.NRGBA{}, false},
		{"#gggggggg", color.NRGBA{}, false},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseColor(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, expected %v", tt.in, got, tt.want)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	for _, name := range []string{"config.json", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			t.Setenv("PORT", "")
			path := filepath.Join(t.TempDir(), "nested", name)

			cfg := Default()
			cfg.Pricing.Market = "Florida"
			cfg.Pricing.Rates["sunroom"] = 120
			cfg.Output.StrictOptions = true

			if err := cfg.SaveToFile(path); err != nil {
				t.Fatalf("SaveToFile failed: %v", err)
			}

			loaded, err := LoadFromFile(path)
			if err != nil {
				t.Fatalf("LoadFromFile failed: %v", err)
			}
			if loaded.Pricing.Market != "Florida" || loaded.Pricing.Rates["sunroom"] != 120 {
				t.Errorf("Pricing not round-tripped: %+v", loaded.Pricing)
			}
			if !loaded.Output.StrictOptions {
				t.Error("StrictOptions not round-tripped")
			}
			if loaded.Compositor.DoorColor != "#00ff00c8" {
				t.Errorf("Unexpected door color %q", loaded.Compositor.DoorColor)
			}
		})
	}
}

func TestLoadPartialTOML(t *testing.T) {
	t.Setenv("PORT", "")
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[pricing]\nmarket = \"Alabama\"\n\n[layout]\npost_spacing_ft = 8.0\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.Pricing.Market != "Alabama" || cfg.Layout.PostSpacingFt != 8 {
		t.Errorf("Overrides not applied: %+v %+v", cfg.Pricing, cfg.Layout)
	}
	if cfg.Layout.ChairRailIn != 36 || cfg.Compositor.PostWidth != 8 {
		t.Error("Missing keys should keep default values")
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadFromFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(bad); err == nil {
		t.Error("Expected error for malformed file")
	}
}

func TestPortOverride(t *testing.T) {
	t.Setenv("PORT", "8080")
	path := filepath.Join(t.TempDir(), "config.json")
	if err := Default().SaveToFile(path); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Expected :8080, got %s", cfg.Server.Addr)
	}
}

func TestGetConfigPath(t *testing.T) {
	if filepath.Base(GetConfigPath()) != "config.toml" {
		t.Errorf("Unexpected config path %s", GetConfigPath())
	}
}

func TestLoadRateLabels(t *testing.T) {
	t.Setenv("PORT", "")
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"pricing":{"rates":{"Screen Porch":20}}}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 50; i++ {
		cfg, err := LoadFromFile(path)
		if err != nil {
			t.Fatalf("LoadFromFile failed: %v", err)
		}
		if _, ok := cfg.Pricing.Rates["Screen Porch"]; ok {
			t.Fatal("Label key should be stored under its canonical name")
		}

		designerCfg, err := cfg.Designer()
		if err != nil {
			t.Fatalf("Designer() failed: %v", err)
		}
		if got := designerCfg.Pricing.Rates[types.ScreenPorch]; got != 20 {
			t.Fatalf("Expected screen porch rate 20, got %f", got)
		}
		if got := designerCfg.Pricing.Rates[types.Sunroom]; got != 95 {
			t.Fatalf("Expected default sunroom rate 95, got %f", got)
		}
	}
}

func TestLoadConflictingRateKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[pricing.rates]\n\"Screen Porch\" = 20.0\nscreen_porch = 25.0\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromFile(path); err == nil {
		t.Error("Expected error when two keys set the same rate")
	}
}
