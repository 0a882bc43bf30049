package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"gifbake/internal/transcode"
	"gifbake/internal/ui"
)

type formFlags struct {
	frameRate string
	width     string
	compress  bool
	start     string
	duration  string
}

func (f *formFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.frameRate, "fps", "", "Frames per second (defaults to convert.frame_rate)")
	cmd.Flags().StringVar(&f.width, "width", "", "Output width in pixels; height keeps the aspect ratio (defaults to convert.width)")
	cmd.Flags().BoolVar(&f.compress, "compress", false, "Use a 128 color palette with ordered dithering")
	cmd.Flags().StringVar(&f.start, "start", "", "Start offset in seconds")
	cmd.Flags().StringVar(&f.duration, "duration", "", "Clip length in seconds (empty converts to the end)")
}

func (f *formFlags) form(cmd *cobra.Command, defaultCompress bool) transcode.Form {
	compress := f.compress
	if !cmd.Flags().Changed("compress") {
		compress = defaultCompress
	}
	return transcode.Form{
		FrameRate: f.frameRate,
		Width:     f.width,
		Compress:  compress,
		Start:     f.start,
		Duration:  f.duration,
	}
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var flags formFlags
	var outputDir string

	cmd := &cobra.Command{
		Use:   "convert <video>",
		Short: "Convert a video file to an animated GIF",
		Long: `Convert a video file to an animated GIF.

Numeric flags that are empty or do not parse fall back to the configured
defaults. The GIF is written to --output (or paths.output_dir, or the current
directory) as <name>[_compressed]_animated.gif. Press Ctrl-C to cancel.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			view := ui.NewTerminalView(cmd.OutOrStdout(), cmd.ErrOrStderr())
			a, err := ctx.newApp(view)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.binding.OnFileSelected(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			if _, err := a.binding.OnConvert(cmd.Context(), flags.form(cmd, cfg.Convert.Compress)); err != nil {
				return fmt.Errorf("convert %s: %w", filepath.Base(args[0]), err)
			}

			target := strings.TrimSpace(outputDir)
			if target == "" {
				target = cfg.Paths.OutputDir
			}
			dst, err := a.publisher.SaveAs(target)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", dst)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory to write the GIF into")
	return cmd
}
