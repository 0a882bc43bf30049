package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gifbake/internal/deps"
	"gifbake/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check directories and the ffmpeg installation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			lines := renderSectionHeader("Configuration", colorize)
			configDetail := ctx.configPath
			if !ctx.configExists {
				configDetail += " (not found, using defaults)"
			}
			lines = append(lines, renderStatusLine("Config file", statusInfo, configDetail, colorize))

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Preflight", colorize)...)
			results := preflight.RunAll(cmd.Context(), cfg)
			failed := 0
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
					failed++
				}
				lines = append(lines, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
			statuses := preflight.CheckSystemDeps(cfg)
			depLines, missing := dependencyLines(statuses, colorize)
			lines = append(lines, depLines...)
			failed += missing

			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			if failed > 0 {
				return errors.New("doctor: one or more checks failed")
			}
			return nil
		},
	}
}

// dependencyLines renders one status line per binary and returns the number
// of required binaries that are missing.
func dependencyLines(statuses []deps.Status, colorize bool) ([]string, int) {
	lines := make([]string, 0, len(statuses)+1)
	var missing []string
	required := 0
	for _, dep := range statuses {
		if dep.Available {
			message := "Ready"
			if dep.Path != "" {
				message = fmt.Sprintf("Ready (%s)", dep.Path)
			}
			lines = append(lines, renderStatusLine(dep.Name, statusOK, message, colorize))
			continue
		}
		detail := strings.TrimSpace(dep.Detail)
		if detail == "" {
			detail = "not available"
		}
		kind := statusError
		if dep.Optional {
			kind = statusWarn
		} else {
			required++
		}
		lines = append(lines, renderStatusLine(dep.Name, kind, detail, colorize))
		missing = append(missing, dep.Name)
	}
	if len(missing) > 0 {
		lines = append(lines, renderStatusLine("Missing dependencies", statusWarn, strings.Join(missing, ", "), colorize))
	}
	return lines, required
}
