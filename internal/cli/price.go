package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	patiodesigner "github.com/menta2k/patio-designer"
)

func newPriceCmd(configPath *string) *cobra.Command {
	var opts requestOpts
	var asJSON, strict bool

	cmd := &cobra.Command{
		Use:     "price",
		Short:   "Print the price estimate without drawing",
		Example: `  patio-designer price --width 12 --depth 10 --enclosure "Screen Porch"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if strict {
				cfg.Output.StrictOptions = true
			}
			designerCfg, err := cfg.Designer()
			if err != nil {
				return err
			}

			est, text, err := patiodesigner.NewWithConfig(designerCfg).Estimate(cmd.Context(), opts.request())
			if err != nil {
				return err
			}

			if !asJSON {
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Enclosure string  `json:"enclosure"`
				Area      float64 `json:"area"`
				Rate      float64 `json:"rate"`
				Price     float64 `json:"price"`
				Text      string  `json:"text"`
			}{string(est.Enclosure), est.Area, est.Rate, est.Price, text})
		},
	}

	opts.addPricingFlags(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the estimate as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "reject unknown enclosure types")

	return cmd
}
