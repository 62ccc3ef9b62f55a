package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	patiodesigner "github.com/menta2k/patio-designer"
	"github.com/menta2k/patio-designer/internal/config"
	"github.com/menta2k/patio-designer/internal/utils"
	"github.com/menta2k/patio-designer/pkg/errors"
	"github.com/menta2k/patio-designer/pkg/types"
)

// requestOpts holds the flags describing one design request
type requestOpts struct {
	doorHeight float64 // measured door height in pixels
	doors      int
	width      float64 // feet
	depth      float64 // feet
	enclosure  string
	frame      string
	roof       string
}

func (o *requestOpts) addPricingFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&o.width, "width", 0, "patio width in feet")
	cmd.Flags().Float64Var(&o.depth, "depth", 0, "patio depth in feet")
	cmd.Flags().StringVar(&o.enclosure, "enclosure", string(types.DefaultEnclosure), "enclosure type: screen-porch|sunroom|patio-cover")
	cmd.MarkFlagRequired("width")
	cmd.MarkFlagRequired("depth")
}

func (o *requestOpts) addDrawingFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&o.doorHeight, "door-height", 0, "pixel height of a door in the photo (taken as 80 in)")
	cmd.Flags().IntVar(&o.doors, "doors", 0, "number of door markers (0-3)")
	cmd.Flags().StringVar(&o.frame, "frame", string(types.DefaultFrameColor), "frame color: white|bronze")
	cmd.Flags().StringVar(&o.roof, "roof", "", "roof style: shed|open-gable|flat (recorded only)")
	cmd.MarkFlagRequired("door-height")
}

func (o *requestOpts) request() types.DesignRequest {
	return types.DesignRequest{
		FrameColor:      types.FrameColorOf(o.frame),
		RoofStyle:       types.RoofStyleOf(o.roof),
		DoorCount:       o.doors,
		Enclosure:       types.EnclosureTypeOf(o.enclosure),
		DoorPixelHeight: o.doorHeight,
		WidthFt:         o.width,
		DepthFt:         o.depth,
	}
}

type renderOpts struct {
	requestOpts
	input  string // file, URL or directory
	output string // file, or directory when input is a directory
	format string
	strict bool
}

func newRenderCmd(configPath *string) *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw the enclosure frame onto a photo",
		Long: `Render draws posts, chair rail, screen texture and door markers onto a
patio photo and prints the price estimate. When --in is a directory every photo
in it is rendered with the same measurements into --out.`,
		Example: `  patio-designer render --in patio.jpg --out design.png --door-height 200 \
      --width 12 --depth 10 --enclosure sunroom --frame white --doors 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return runRender(cmd, cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "in", "i", "", "input photo path, URL or directory")
	cmd.Flags().StringVarP(&opts.output, "out", "o", "", "output file or directory (default from config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format when --out is not a file: png|webp|jpg")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "reject unknown enclosure, frame and roof values")
	cmd.MarkFlagRequired("in")
	opts.addPricingFlags(cmd)
	opts.addDrawingFlags(cmd)

	return cmd
}

func runRender(cmd *cobra.Command, cfg *config.Config, opts renderOpts) error {
	if opts.strict {
		cfg.Output.StrictOptions = true
	}
	if opts.format != "" {
		cfg.Output.DefaultFormat = opts.format
	}

	designerCfg, err := cfg.Designer()
	if err != nil {
		return err
	}
	d := patiodesigner.NewWithConfig(designerCfg)
	format := designerCfg.Codec.Format

	if !utils.IsURL(opts.input) && utils.DirExists(opts.input) {
		outDir := opts.output
		if outDir == "" {
			outDir = cfg.Output.OutputDir
		}
		return renderDir(cmd, d, opts, outDir, cfg.Output.Suffix, format)
	}

	out := opts.output
	if out == "" || utils.DirExists(out) {
		dir := out
		if dir == "" {
			dir = cfg.Output.OutputDir
		}
		out = utils.GenerateOutputFilename(opts.input, dir, cfg.Output.Suffix, string(format))
	}

	result, err := renderOne(cmd.Context(), d, opts, out)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), result.PriceText)
	return nil
}

func renderOne(ctx context.Context, d *patiodesigner.Designer, opts renderOpts, out string) (*patiodesigner.Result, error) {
	logger := patiodesigner.LoggerFromContext(ctx)
	prog := newProgress(logger)

	if err := utils.EnsureDir(filepath.Dir(out)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to create output directory")
	}

	result, err := d.RenderFile(ctx, opts.input, out, opts.request())
	if err != nil {
		return nil, err
	}

	prog.done(fmt.Sprintf("Wrote %s (%s)", out, utils.FormatFileSize(int64(len(result.Image)))))
	return result, nil
}

// renderDir renders every photo under dir. A failed photo is logged and the
// remaining ones are still rendered; the first failure is returned.
func renderDir(cmd *cobra.Command, d *patiodesigner.Designer, opts renderOpts, outDir, suffix string, format types.OutputFormat) error {
	ctx := cmd.Context()
	logger := patiodesigner.LoggerFromContext(ctx)

	files, err := utils.ListImageFiles(opts.input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to list %s", opts.input)
	}
	if len(files) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no photos found in %s", opts.input)
	}

	var firstErr error
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		one := opts
		one.input = file
		out := utils.GenerateOutputFilename(file, outDir, suffix, string(format))
		result, err := renderOne(ctx, d, one, out)
		if err != nil {
			logger.Error("render failed", "file", file, "err", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", filepath.Base(file), result.PriceText)
	}
	return firstErr
}
