package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"gifbake/internal/config"
	"gifbake/internal/media/ffprobe"
	"gifbake/internal/transcode"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var flags formFlags
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "inspect <video>",
		Short: "Probe a video and estimate the GIF it would produce",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			result, err := ffprobe.Inspect(cmd.Context(), cfg.FFprobeBinary(), path)
			if err != nil {
				return err
			}

			form := flags.form(cmd, cfg.Convert.Compress)
			params := transcode.Parse(form, formDefaults(cfg))
			estimate, ok := result.EstimateGIF(params.FrameRate, params.Width, params.Start, params.Duration)

			if jsonOutput {
				payload := map[string]any{
					"probe":    json.RawMessage(result.RawJSON()),
					"filter":   transcode.FilterExpr(params),
					"output":   transcode.DownloadName(path, params.Compress),
					"estimate": nil,
				}
				if ok {
					payload["estimate"] = map[string]int{
						"frames": estimate.Frames,
						"width":  estimate.Width,
						"height": estimate.Height,
					}
				}
				return writeJSON(cmd, payload)
			}

			fmt.Fprint(cmd.OutOrStdout(), renderInspect(result, params, path, estimate, ok))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the probe and estimate as JSON")
	return cmd
}

func renderInspect(result ffprobe.Result, params transcode.Params, path string, estimate ffprobe.Estimate, ok bool) string {
	rows := [][]string{
		{"Container", result.Format.FormatName},
		{"Duration", formatSeconds(result.DurationSeconds())},
		{"Size", humanize.Bytes(uint64(max(result.SizeBytes(), 0)))},
	}
	if video, found := result.PrimaryVideo(); found {
		rows = append(rows,
			[]string{"Video codec", video.CodecName},
			[]string{"Resolution", fmt.Sprintf("%dx%d", video.Width, video.Height)},
			[]string{"Frame rate", strconv.FormatFloat(video.FrameRate(), 'f', 2, 64) + " fps"},
		)
	} else {
		rows = append(rows, []string{"Video", "no video stream"})
	}
	rows = append(rows, []string{"Output name", transcode.DownloadName(path, params.Compress)})
	if ok {
		rows = append(rows,
			[]string{"GIF dimensions", fmt.Sprintf("%dx%d", estimate.Width, estimate.Height)},
			[]string{"GIF frames", fmt.Sprintf("%d at %d fps", estimate.Frames, params.FrameRate)},
		)
	}
	return renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignLeft})
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", encoded)
	return err
}

func formatSeconds(seconds float64) string {
	if seconds <= 0 {
		return "unknown"
	}
	return strconv.FormatFloat(seconds, 'f', 2, 64) + "s"
}
