package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"gifbake/internal/logging"
	"gifbake/internal/staging"
)

const stderrTailLines = 20

// housekeepingArgs precede every Run argument list.
var housekeepingArgs = []string{"-hide_banner", "-nostdin", "-y", "-progress", "pipe:1", "-nostats"}

// Option configures the FFmpeg engine.
type Option func(*FFmpeg)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(f *FFmpeg) {
		if exec != nil {
			f.exec = exec
		}
	}
}

// WithLoadTimeout bounds the version check performed by Load.
func WithLoadTimeout(timeout time.Duration) Option {
	return func(f *FFmpeg) {
		f.loadTimeout = timeout
	}
}

// WithLookPath replaces binary resolution (primarily for tests).
func WithLookPath(lookPath func(string) (string, error)) Option {
	return func(f *FFmpeg) {
		if lookPath != nil {
			f.lookPath = lookPath
		}
	}
}

// FFmpeg runs the ffmpeg binary inside a private staging workspace.
type FFmpeg struct {
	binary      string
	stagingDir  string
	loadTimeout time.Duration
	logger      *slog.Logger
	exec        Executor
	lookPath    func(string) (string, error)

	mu       sync.Mutex
	runMu    sync.Mutex
	resolved string
	version  string
	ws       *staging.Workspace
	opts     LoadOptions
}

var _ Engine = (*FFmpeg)(nil)

// NewFFmpeg constructs an unloaded engine.
func NewFFmpeg(binary, stagingDir string, logger *slog.Logger, opts ...Option) (*FFmpeg, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	if strings.TrimSpace(stagingDir) == "" {
		return nil, errors.New("staging directory required")
	}
	f := &FFmpeg{
		binary:     binary,
		stagingDir: stagingDir,
		logger:     logging.NewComponentLogger(logger, "engine"),
		exec:       commandExecutor{},
		lookPath:   exec.LookPath,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Load resolves the binary, acquires a workspace and verifies the binary
// answers `-version`. Calling Load on a loaded engine is a no-op.
func (f *FFmpeg) Load(ctx context.Context, opts LoadOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ws != nil {
		return nil
	}

	report := func(ratio float64) {
		if opts.Progress != nil {
			opts.Progress(ratio)
		}
	}
	report(0)

	resolved, err := f.lookPath(f.binary)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", f.binary, err)
	}
	report(0.25)

	ws, err := staging.Open(f.stagingDir, f.logger)
	if err != nil {
		return fmt.Errorf("open workspace: %w", err)
	}
	report(0.5)

	checkCtx := ctx
	if f.loadTimeout > 0 {
		var cancel context.CancelFunc
		checkCtx, cancel = context.WithTimeout(ctx, f.loadTimeout)
		defer cancel()
	}
	var banner string
	err = f.exec.Run(checkCtx, Command{
		Binary: resolved,
		Args:   []string{"-version"},
		Dir:    ws.Path,
		Stdout: func(line string) {
			if banner == "" {
				banner = strings.TrimSpace(line)
			}
		},
	})
	if err != nil {
		_ = ws.Release()
		return fmt.Errorf("%s -version: %w", f.binary, err)
	}
	if !strings.HasPrefix(banner, "ffmpeg version") {
		_ = ws.Release()
		return fmt.Errorf("%s does not look like ffmpeg (got %q)", f.binary, banner)
	}
	report(0.9)

	f.resolved = resolved
	f.version = banner
	f.ws = ws
	f.opts = opts
	f.logger.Info("engine loaded",
		logging.String("binary", resolved),
		logging.String("version", banner),
		logging.String("workspace_id", ws.ID),
	)
	report(1)
	return nil
}

// Loaded reports whether Load has succeeded and Close has not been called.
func (f *FFmpeg) Loaded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ws != nil
}

// Version returns the banner line reported during Load.
func (f *FFmpeg) Version() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.version
}

func (f *FFmpeg) workspace() (*staging.Workspace, LoadOptions, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ws == nil {
		return nil, LoadOptions{}, ErrNotLoaded
	}
	return f.ws, f.opts, nil
}

// WriteFile stages r under name in the engine filesystem.
func (f *FFmpeg) WriteFile(ctx context.Context, name string, r io.Reader) (int64, error) {
	if err := ValidateName(name); err != nil {
		return 0, err
	}
	ws, _, err := f.workspace()
	if err != nil {
		return 0, err
	}
	out, err := os.OpenFile(ws.Join(name), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", name, err)
	}
	written, err := io.Copy(out, readerWithContext(ctx, r))
	if err != nil {
		_ = out.Close()
		_ = os.Remove(ws.Join(name))
		return 0, fmt.Errorf("write %s: %w", name, err)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", name, err)
	}
	return written, nil
}

// ReadFile returns the bytes stored under name.
func (f *FFmpeg) ReadFile(name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	ws, _, err := f.workspace()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(ws.Join(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// Remove deletes name. Removing a missing name is not an error.
func (f *FFmpeg) Remove(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	ws, _, err := f.workspace()
	if err != nil {
		return err
	}
	if err := os.Remove(ws.Join(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

// Run executes the engine with args inside the workspace. Runs are serialized.
func (f *FFmpeg) Run(ctx context.Context, args ...string) error {
	ws, opts, err := f.workspace()
	if err != nil {
		return err
	}
	f.runMu.Lock()
	defer f.runMu.Unlock()

	full := make([]string, 0, len(housekeepingArgs)+len(args))
	full = append(full, housekeepingArgs...)
	full = append(full, args...)

	tracker := newProgressTracker(args)
	var trackerMu sync.Mutex
	tail := make([]string, 0, stderrTailLines)
	sampler := logging.NewProgressSampler(5)
	logger := logging.WithContext(ctx, f.logger)

	logger.Debug("engine run", logging.Strings("args", full))
	started := time.Now()
	err = f.exec.Run(ctx, Command{
		Binary: f.resolved,
		Args:   full,
		Dir:    ws.Path,
		Stdout: func(line string) {
			trackerMu.Lock()
			ratio, ok := tracker.observeStdout(line)
			trackerMu.Unlock()
			if !ok {
				return
			}
			if sampler.ShouldLog(ratio*100, "run") {
				logger.Debug("engine progress", logging.Float64("percent", ratio*100))
			}
			if opts.Progress != nil {
				opts.Progress(ratio)
			}
		},
		Stderr: func(line string) {
			trackerMu.Lock()
			tracker.observeStderr(line)
			if len(tail) == stderrTailLines {
				tail = tail[1:]
			}
			tail = append(tail, line)
			trackerMu.Unlock()
			if opts.Log {
				logger.Debug(line, logging.String(logging.FieldEventType, "engine_log"))
			}
		},
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		trackerMu.Lock()
		runErr := &RunError{Err: err, Stderr: append([]string(nil), tail...)}
		trackerMu.Unlock()
		logger.Warn("engine run failed",
			logging.Error(runErr),
			logging.String(logging.FieldEventType, "engine_run_failed"),
			logging.String(logging.FieldErrorHint, "set engine.log = true to capture full engine output"),
		)
		return runErr
	}
	logger.Debug("engine run finished", logging.Duration("elapsed", time.Since(started)))
	return nil
}

// Close releases the workspace. The engine can be loaded again afterwards.
func (f *FFmpeg) Close() error {
	f.mu.Lock()
	ws := f.ws
	f.ws = nil
	f.mu.Unlock()
	if ws == nil {
		return nil
	}
	return ws.Release()
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	if ctx == nil {
		return r
	}
	return contextReader{ctx: ctx, r: r}
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
