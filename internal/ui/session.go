package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gifbake/internal/config"
	"gifbake/internal/convert"
	"gifbake/internal/transcode"
)

// Saver copies the current artifact to a directory.
type Saver interface {
	SaveAs(dir string) (string, error)
}

// SessionOptions configures the interactive flow.
type SessionOptions struct {
	Defaults  transcode.Defaults
	Compress  bool
	OutputDir string
}

// Session runs the interactive select, fill in, convert, save loop.
type Session struct {
	binding *Binding
	view    View
	prompts PromptDriver
	saver   Saver
	opts    SessionOptions
}

// NewSession constructs an interactive session.
func NewSession(binding *Binding, view View, prompts PromptDriver, saver Saver, opts SessionOptions) *Session {
	return &Session{binding: binding, view: view, prompts: prompts, saver: saver, opts: opts}
}

// Run loops until the user declines another conversion. Interrupting a
// prompt returns ErrAborted.
func (s *Session) Run(ctx context.Context) error {
	for {
		path, err := s.prompts.Input(ctx, InputConfig{
			Message:   "Video file:",
			Help:      "Path to the video to turn into a GIF. Leave empty to clear the selection.",
			Validator: validateVideoPath,
		})
		if err != nil {
			return err
		}
		if err := s.binding.OnFileSelected(ctx, path); err != nil || strings.TrimSpace(path) == "" {
			continue
		}

		form, err := s.askForm(ctx)
		if err != nil {
			return err
		}
		art, err := s.binding.OnConvert(ctx, form)
		switch {
		case err == nil:
			if err := s.offerSave(ctx, art.DownloadName); err != nil {
				return err
			}
		case errors.Is(err, context.Canceled):
			return err
		}

		again, err := s.askAgain(ctx)
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

func (s *Session) askForm(ctx context.Context) (transcode.Form, error) {
	var form transcode.Form
	var err error
	if form.FrameRate, err = s.prompts.Input(ctx, InputConfig{
		Message: "Frame rate (fps):",
		Default: strconv.Itoa(s.opts.Defaults.FrameRate),
	}); err != nil {
		return form, err
	}
	if form.Width, err = s.prompts.Input(ctx, InputConfig{
		Message: "Output width (px):",
		Default: strconv.Itoa(s.opts.Defaults.Width),
		Help:    "Height follows the source aspect ratio.",
	}); err != nil {
		return form, err
	}
	if form.Compress, err = s.prompts.Confirm(ctx, ConfirmConfig{
		Message: "Compress palette?",
		Default: s.opts.Compress,
		Help:    "Limits the palette to 128 colors with ordered dithering for smaller files.",
	}); err != nil {
		return form, err
	}
	if form.Start, err = s.prompts.Input(ctx, InputConfig{
		Message: "Start at (seconds):",
		Default: "0",
	}); err != nil {
		return form, err
	}
	if form.Duration, err = s.prompts.Input(ctx, InputConfig{
		Message: "Duration (seconds):",
		Help:    "Leave empty to use the rest of the video.",
	}); err != nil {
		return form, err
	}
	return form, nil
}

func (s *Session) offerSave(ctx context.Context, name string) error {
	if s.saver == nil {
		return nil
	}
	dir := s.opts.OutputDir
	if dir == "" {
		dir = "."
	}
	save, err := s.prompts.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("Save %s to %s?", name, dir),
		Default: true,
	})
	if err != nil || !save {
		return err
	}
	dst, err := s.saver.SaveAs(s.opts.OutputDir)
	if err != nil {
		s.view.Alert("Could not save GIF: " + err.Error())
		return nil
	}
	s.view.ShowStatus(convert.StateDone, "Saved "+dst)
	return nil
}

func (s *Session) askAgain(ctx context.Context) (bool, error) {
	return s.prompts.Confirm(ctx, ConfirmConfig{Message: "Convert another video?", Default: true})
}

func validateVideoPath(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	expanded, err := config.ExpandPath(value)
	if err != nil {
		return err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		return fmt.Errorf("cannot read %s", value)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", value)
	}
	return nil
}
