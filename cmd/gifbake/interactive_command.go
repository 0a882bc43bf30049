package main

import (
	"errors"

	"github.com/spf13/cobra"

	"gifbake/internal/ui"
)

func newInteractiveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Pick videos and convert them one after another",
		Long: `Start an interactive session.

The engine begins loading as soon as a video is picked, so it is usually
ready by the time the conversion settings are filled in. Each GIF can be
saved to paths.output_dir (or the current directory) before moving on.`,
		Args: cobra.NoArgs,
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

			a.orch.Start()
			session := ui.NewSession(a.binding, view, ui.NewSurveyDriver(), a.publisher, ui.SessionOptions{
				Defaults:  formDefaults(cfg),
				Compress:  cfg.Convert.Compress,
				OutputDir: cfg.Paths.OutputDir,
			})
			if err := session.Run(cmd.Context()); err != nil && !errors.Is(err, ui.ErrAborted) {
				return err
			}
			return nil
		},
	}
}
