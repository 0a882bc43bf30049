package ui

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"gifbake/internal/artifact"
	"gifbake/internal/convert"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiCyan  = "\x1b[36m"

	statusLabelWidth = 16
	progressWidth    = 30
)

// TerminalView renders orchestrator state as terminal lines. On a TTY it
// colorizes labels and draws a progress bar; elsewhere it prints plain
// lines so output stays readable in logs and pipes.
type TerminalView struct {
	mu    sync.Mutex
	out   io.Writer
	err   io.Writer
	color bool
	title cases.Caser

	bar        *progressbar.ProgressBar
	lastLine   string
	lastStatus string
	enabled    bool
	shown      *artifact.Artifact
}

var _ View = (*TerminalView)(nil)

// NewTerminalView renders status to out and alerts to errOut.
func NewTerminalView(out, errOut io.Writer) *TerminalView {
	return &TerminalView{
		out:   out,
		err:   errOut,
		color: shouldColorize(out),
		title: cases.Title(language.English),
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ShowStatus prints a status line. While the progress bar is visible,
// in-flight updates become the bar's description instead.
func (v *TerminalView) ShowStatus(state convert.State, message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lastStatus = message
	if v.bar != nil && transient(state) {
		v.bar.Describe(message)
		return
	}
	v.println(v.renderStatus(state, message))
}

func transient(state convert.State) bool {
	return state == convert.StateConverting || state == convert.StateLoadingEngine
}

func (v *TerminalView) renderStatus(state convert.State, message string) string {
	label := "[" + v.title.String(strings.ReplaceAll(string(state), "-", " ")) + "]"
	line := fmt.Sprintf("%-*s %s", statusLabelWidth, label, message)
	if !v.color {
		return line
	}
	return stateColor(state) + label + ansiReset + line[len(label):]
}

func stateColor(state convert.State) string {
	switch state {
	case convert.StateDone, convert.StateReady:
		return ansiGreen
	case convert.StateError, convert.StateEngineFailed:
		return ansiRed
	default:
		return ansiCyan
	}
}

// ShowProgress drives the progress bar on a TTY. Plain output ignores it;
// the status lines already carry the percentage.
func (v *TerminalView) ShowProgress(visible bool, percent float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.color {
		return
	}
	if !visible {
		if v.bar != nil {
			_ = v.bar.Clear()
			v.bar = nil
		}
		return
	}
	if v.bar == nil {
		v.bar = progressbar.NewOptions(100,
			progressbar.OptionSetWriter(v.out),
			progressbar.OptionSetDescription(v.lastStatus),
			progressbar.OptionSetWidth(progressWidth),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "█",
				SaucerHead:    "█",
				SaucerPadding: "░",
				BarStart:      "▐",
				BarEnd:        "▌",
			}),
		)
	}
	_ = v.bar.Set(int(percent))
}

// SetConvertEnabled records the control state; a terminal has no button to
// grey out.
func (v *TerminalView) SetConvertEnabled(enabled bool) {
	v.mu.Lock()
	v.enabled = enabled
	v.mu.Unlock()
}

// ShowArtifact prints the artifact summary table.
func (v *TerminalView) ShowArtifact(art artifact.Artifact) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.shown = &art
	v.println(RenderArtifact(art))
}

// HideArtifact forgets the displayed artifact.
func (v *TerminalView) HideArtifact() {
	v.mu.Lock()
	v.shown = nil
	v.mu.Unlock()
}

// Alert prints message to the error stream.
func (v *TerminalView) Alert(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.bar != nil {
		_ = v.bar.Clear()
	}
	line := "! " + message
	if v.color {
		line = ansiRed + line + ansiReset
	}
	fmt.Fprintln(v.err, line)
}

// Artifact returns the artifact currently on screen.
func (v *TerminalView) Artifact() (artifact.Artifact, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.shown == nil {
		return artifact.Artifact{}, false
	}
	return *v.shown, true
}

// println writes line unless it repeats the previous one.
func (v *TerminalView) println(line string) {
	if line == v.lastLine {
		return
	}
	v.lastLine = line
	if v.bar != nil {
		_ = v.bar.Clear()
	}
	fmt.Fprintln(v.out, line)
}

// RenderArtifact formats an artifact summary table.
func RenderArtifact(art artifact.Artifact) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Field", "Value"})
	tw.AppendRows([]table.Row{
		{"Download", art.DownloadName},
		{"Location", art.URL},
		{"Preview", art.PreviewPath},
		{"Size", humanize.Bytes(uint64(max(art.Size, 0)))},
		{"Frames", strconv.Itoa(art.Frames)},
		{"Dimensions", fmt.Sprintf("%dx%d", art.Width, art.Height)},
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
