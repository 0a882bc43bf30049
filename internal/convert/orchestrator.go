package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"gifbake/internal/artifact"
	"gifbake/internal/engine"
	"gifbake/internal/logging"
	"gifbake/internal/transcode"
)

const (
	msgInitial        = "Ready. Select a video or the engine will load on first conversion."
	msgNoSelection    = "Select a video to begin."
	msgLoading        = "Loading engine..."
	msgLoaded         = "Engine loaded. Ready to convert."
	msgNotLoaded      = "Engine not loaded. Please wait or retry."
	msgStarting       = "Starting conversion..."
	msgStaged         = "Video loaded into memory. Preparing command..."
	msgRunning        = "Running engine... This may take a while."
	msgCompressing    = " (Compression enabled)"
	msgFinalizing     = "Processing complete. Finalizing GIF..."
	msgReading        = "Conversion successful! Reading GIF..."
	msgSuccess        = "GIF generated successfully!"
	msgPickFirst      = "Please select a video file first."
	msgFailedFallback = "Conversion failed. Check logs."
	msgUnknownError   = "Unknown error"
)

const (
	phaseIdle int32 = iota
	phaseLoading
	phaseConverting
)

// Publisher exposes output bytes as the current artifact.
type Publisher interface {
	Publish(data []byte, downloadName string) (artifact.Artifact, error)
	Release()
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithObserver registers the observer notified of state changes.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithEngineLog forwards engine diagnostics to the log.
func WithEngineLog(enabled bool) Option {
	return func(o *Orchestrator) {
		o.engineLog = enabled
	}
}

// WithLoadTimeout bounds every engine load. Zero disables the bound.
func WithLoadTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) {
		o.loadTimeout = timeout
	}
}

// Orchestrator owns the engine handle, the selected input and the
// conversion pipeline.
type Orchestrator struct {
	engine      engine.Engine
	publisher   Publisher
	observer    Observer
	logger      *slog.Logger
	engineLog   bool
	loadTimeout time.Duration

	loads singleflight.Group
	phase atomic.Int32
	bg    sync.WaitGroup

	mu    sync.Mutex
	input *Input
	busy  bool
}

// New constructs an orchestrator around an unloaded (or loaded) engine.
func New(eng engine.Engine, pub Publisher, logger *slog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		engine:    eng,
		publisher: pub,
		observer:  nopObserver{},
		logger:    logging.NewComponentLogger(logger, "convert"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Start reports the initial idle state.
func (o *Orchestrator) Start() {
	o.observer.ConvertEnabled(false)
	o.observer.ProgressChanged(false, 0)
	o.observer.StatusChanged(StateIdle, msgInitial)
}

// InitEngine loads the engine if it is not loaded yet. Concurrent callers
// share a single load. On failure the convert control is disabled and the
// error is returned; a later call retries.
func (o *Orchestrator) InitEngine(ctx context.Context) error {
	if o.engine.Loaded() {
		return nil
	}
	_, err, _ := o.loads.Do("engine", func() (any, error) {
		if o.engine.Loaded() {
			return nil, nil
		}
		return nil, o.loadEngine(ctx)
	})
	return err
}

func (o *Orchestrator) loadEngine(ctx context.Context) error {
	o.observer.StatusChanged(StateLoadingEngine, msgLoading)
	o.observer.ProgressChanged(true, 0)
	previous := o.phase.Swap(phaseLoading)

	loadCtx := ctx
	if o.loadTimeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, o.loadTimeout)
		defer cancel()
	}
	started := time.Now()
	err := o.engine.Load(loadCtx, engine.LoadOptions{Log: o.engineLog, Progress: o.onEngineProgress})
	o.phase.CompareAndSwap(phaseLoading, previous)
	o.observer.ProgressChanged(false, 0)

	if err != nil {
		o.logger.Error("engine load failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "engine_load_failed"),
			logging.String(logging.FieldErrorHint, "run gifbake doctor to check the ffmpeg binary"),
		)
		o.observer.StatusChanged(StateEngineFailed, "Engine failed to load: "+err.Error())
		o.observer.ConvertEnabled(false)
		return err
	}
	o.logger.Info("engine ready", logging.Duration("elapsed", time.Since(started)))
	o.observer.StatusChanged(StateReady, msgLoaded)
	return nil
}

// SelectFile records input as the selected file and starts loading the
// engine in the background. A nil input clears the selection.
func (o *Orchestrator) SelectFile(ctx context.Context, input *Input) {
	o.mu.Lock()
	o.input = input
	o.mu.Unlock()

	if input == nil {
		o.observer.ConvertEnabled(false)
		o.observer.StatusChanged(StateIdle, msgNoSelection)
		return
	}

	o.logger.Info("input selected",
		logging.String("name", input.Name),
		logging.Int64("bytes", input.Size),
	)
	o.observer.ConvertEnabled(true)
	o.observer.StatusChanged(StateSelected, fmt.Sprintf("Selected: %s (%s). Click convert!", input.Name, humanize.Bytes(uint64(max(input.Size, 0)))))
	o.observer.ArtifactChanged(nil)

	loadCtx := context.WithoutCancel(ctx)
	o.bg.Add(1)
	go func() {
		defer o.bg.Done()
		_ = o.InitEngine(loadCtx)
	}()
}

// Selected returns the current selection, if any.
func (o *Orchestrator) Selected() (*Input, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.input, o.input != nil
}

// Wait blocks until background engine loads started by SelectFile finish.
func (o *Orchestrator) Wait() {
	o.bg.Wait()
}

// Convert runs the full pipeline for the selected input.
func (o *Orchestrator) Convert(ctx context.Context, params transcode.Params) (artifact.Artifact, error) {
	o.mu.Lock()
	input := o.input
	if input == nil {
		o.mu.Unlock()
		o.observer.Alert(msgPickFirst)
		return artifact.Artifact{}, ErrNoInput
	}
	if o.busy {
		o.mu.Unlock()
		return artifact.Artifact{}, ErrBusy
	}
	o.busy = true
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.busy = false
		o.mu.Unlock()
	}()

	if !o.engine.Loaded() {
		o.observer.StatusChanged(StateLoadingEngine, msgNotLoaded)
		if err := o.InitEngine(ctx); err != nil || !o.engine.Loaded() {
			if err == nil {
				return artifact.Artifact{}, ErrEngineNotReady
			}
			return artifact.Artifact{}, fmt.Errorf("%w: %w", ErrEngineNotReady, err)
		}
	}

	id := uuid.NewString()
	ctx = logging.WithConversionID(ctx, id)
	slot := newSlot(id, input.Name)

	o.observer.ConvertEnabled(false)
	o.observer.StatusChanged(StateConverting, msgStarting)
	o.observer.ProgressChanged(true, 0)
	o.observer.ArtifactChanged(nil)
	o.phase.Store(phaseConverting)

	defer func() {
		o.phase.Store(phaseIdle)
		o.releaseSlot(ctx, slot)
		o.observer.ProgressChanged(false, 0)
		o.observer.ConvertEnabled(true)
	}()

	started := time.Now()
	art, err := o.run(ctx, input, params, slot)
	logger := logging.WithContext(ctx, o.logger)
	if err != nil {
		msg := userMessage(err)
		status, alert := msg, msg
		if status == "" {
			status, alert = msgFailedFallback, msgUnknownError
		}
		if errors.Is(err, context.Canceled) {
			logger.Warn("conversion canceled", logging.Error(err))
		} else {
			logger.Error("conversion failed",
				logging.Error(err),
				logging.String(logging.FieldEventType, "conversion_failed"),
				logging.String(logging.FieldErrorHint, "check the input file or enable engine.log"),
			)
		}
		o.observer.StatusChanged(StateError, "Error: "+status)
		o.observer.Alert("An error occurred: " + alert)
		return artifact.Artifact{}, err
	}

	logger.Info("conversion finished",
		logging.String("artifact_id", art.ID),
		logging.String("download_name", art.DownloadName),
		logging.Int64("bytes", art.Size),
		logging.Duration("elapsed", time.Since(started)),
	)
	o.observer.ArtifactChanged(&art)
	o.observer.StatusChanged(StateDone, msgSuccess)
	return art, nil
}

func (o *Orchestrator) run(ctx context.Context, input *Input, params transcode.Params, s slot) (artifact.Artifact, error) {
	stageCtx := logging.WithStep(ctx, "stage")
	rc, err := input.Open()
	if err != nil {
		return artifact.Artifact{}, wrap("stage", err)
	}
	written, err := o.engine.WriteFile(stageCtx, s.input, rc)
	_ = rc.Close()
	if err != nil {
		return artifact.Artifact{}, wrap("stage", err)
	}
	logging.WithContext(stageCtx, o.logger).Info("input staged",
		logging.String("name", s.input),
		logging.Int64("bytes", written),
	)
	o.observer.StatusChanged(StateConverting, msgStaged)

	args := transcode.Args(s.input, s.output, params)
	running := msgRunning
	if params.Compress {
		running += msgCompressing
	}
	o.observer.StatusChanged(StateConverting, running)

	runCtx := logging.WithStep(ctx, "run")
	logging.WithContext(runCtx, o.logger).Debug("engine command",
		logging.String("command", "ffmpeg "+strings.Join(args, " ")),
	)
	if err := o.engine.Run(runCtx, args...); err != nil {
		return artifact.Artifact{}, wrap("run", err)
	}
	o.observer.StatusChanged(StateConverting, msgReading)

	data, err := o.engine.ReadFile(s.output)
	if err != nil {
		return artifact.Artifact{}, wrap("read", err)
	}

	art, err := o.publisher.Publish(data, transcode.DownloadName(input.Name, params.Compress))
	if err != nil {
		return artifact.Artifact{}, wrap("publish", err)
	}
	return art, nil
}

func (o *Orchestrator) onEngineProgress(ratio float64) {
	percent := math.Max(0, math.Min(ratio, 1)) * 100
	switch o.phase.Load() {
	case phaseLoading:
		o.observer.ProgressChanged(true, percent)
	case phaseConverting:
		o.observer.ProgressChanged(true, percent)
		if ratio >= 1 {
			o.observer.StatusChanged(StateConverting, msgFinalizing)
		} else if ratio > 0 {
			o.observer.StatusChanged(StateConverting, fmt.Sprintf("Processing... %d%%", int(math.Round(percent))))
		}
	}
}

// Close waits for background loads, then releases the published artifact
// and the engine.
func (o *Orchestrator) Close() error {
	o.bg.Wait()
	if o.publisher != nil {
		o.publisher.Release()
	}
	return o.engine.Close()
}

// slot holds the per-conversion names in the engine filesystem.
type slot struct {
	id     string
	input  string
	output string
}

func newSlot(id, inputName string) slot {
	return slot{
		id:     id,
		input:  "input-" + id + safeExt(inputName),
		output: "output-" + id + ".gif",
	}
}

func (o *Orchestrator) releaseSlot(ctx context.Context, s slot) {
	for _, name := range []string{s.input, s.output} {
		if err := o.engine.Remove(name); err != nil && !errors.Is(err, engine.ErrNotLoaded) {
			logging.WithContext(ctx, o.logger).Warn("failed to release staging slot",
				logging.String("name", name),
				logging.Error(err),
				logging.String(logging.FieldEventType, "slot_release_failed"),
			)
		}
	}
}

// safeExt keeps a short alphanumeric extension so the engine can use it as
// a container hint.
func safeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if len(ext) < 2 || len(ext) > 6 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
