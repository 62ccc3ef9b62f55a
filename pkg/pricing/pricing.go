// Package pricing estimates the cost of an enclosure from its footprint.
package pricing

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/menta2k/patio-designer/pkg/errors"
	"github.com/menta2k/patio-designer/pkg/types"
)

// DefaultMarket names the market the rates apply to
const DefaultMarket = "Georgia"

// Config holds per-square-foot rates and the market they apply to
type Config struct {
	Rates  map[types.EnclosureType]float64
	Market string
}

// DefaultConfig returns the standard rate table
func DefaultConfig() Config {
	return Config{
		Rates: map[types.EnclosureType]float64{
			types.ScreenPorch: 18,
			types.Sunroom:     95,
			types.PatioCover:  45,
		},
		Market: DefaultMarket,
	}
}

// Estimate is the derived price of one request
type Estimate struct {
	Enclosure types.EnclosureType `json:"enclosure"`
	Area      float64             `json:"area"`
	Rate      float64             `json:"rate"`
	Price     float64             `json:"price"`
}

// Calculator computes estimates from a rate table
type Calculator struct {
	config Config
}

// New creates a Calculator with the standard rate table
func New() *Calculator {
	return &Calculator{config: DefaultConfig()}
}

// NewWithConfig creates a Calculator with a custom rate table
func NewWithConfig(config Config) *Calculator {
	return &Calculator{config: config}
}

// Market returns the configured market name
func (c *Calculator) Market() string {
	return c.config.Market
}

// Rate returns the per-square-foot rate of the enclosure type. Unknown types,
// and known types missing from the rate table, are billed at the rate of
// types.DefaultEnclosure. Zero means no usable rate is configured.
func (c *Calculator) Rate(enclosure types.EnclosureType) float64 {
	if rate, ok := c.config.Rates[enclosure.Resolve()]; ok && positive(rate) {
		return rate
	}
	if rate, ok := c.config.Rates[types.DefaultEnclosure]; ok && positive(rate) {
		return rate
	}
	return 0
}

// Estimate prices a width × depth footprint in feet.
func (c *Calculator) Estimate(widthFt, depthFt float64, enclosure types.EnclosureType) (Estimate, error) {
	if err := ValidateDimensions(widthFt, depthFt); err != nil {
		return Estimate{}, err
	}

	resolved := enclosure.Resolve()
	rate := c.Rate(resolved)
	if rate == 0 {
		return Estimate{}, errors.New(errors.ErrCodeUnsupportedOption,
			"no rate configured for %s or %s", resolved, types.DefaultEnclosure)
	}
	area := widthFt * depthFt
	return Estimate{
		Enclosure: resolved,
		Area:      area,
		Rate:      rate,
		Price:     area * rate,
	}, nil
}

// Text renders the estimate as the customer-facing message.
func (c *Calculator) Text(e Estimate) string {
	return e.Text(c.config.Market)
}

// Text renders the estimate as
// "Estimated Price: $11,400.00 (Approximate for Georgia Market)".
func (e Estimate) Text(market string) string {
	return fmt.Sprintf("Estimated Price: $%s (Approximate for %s Market)", FormatAmount(e.Price), market)
}

// FormatAmount formats a dollar amount with two decimals and thousands separators.
func FormatAmount(amount float64) string {
	return message.NewPrinter(language.English).Sprintf("%.2f", amount)
}

// ValidateDimensions checks that both patio dimensions are positive and finite.
func ValidateDimensions(widthFt, depthFt float64) error {
	if !positive(widthFt) || !positive(depthFt) {
		return errors.New(errors.ErrCodeInvalidDimensions,
			"patio width and depth must be positive numbers, got %v × %v", widthFt, depthFt)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
