package staging

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"gifbake/internal/logging"
)

const (
	workspacePrefix = "ws-"
	// LockFileName is the advisory lock held inside every live workspace.
	LockFileName = ".lock"
)

// ErrLocked reports that a workspace is held by another process.
var ErrLocked = errors.New("workspace is locked by another process")

// Workspace is a lock-protected directory owned by a single engine instance.
type Workspace struct {
	ID   string
	Path string

	logger *slog.Logger
	lock   *flock.Flock
	once   sync.Once
	err    error
}

// Open creates a new uniquely named workspace under stagingDir and takes its
// lock. The caller owns the workspace until Release.
func Open(stagingDir string, logger *slog.Logger) (*Workspace, error) {
	stagingDir = strings.TrimSpace(stagingDir)
	if stagingDir == "" {
		return nil, errors.New("staging directory not configured")
	}
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}

	id := uuid.NewString()
	path := filepath.Join(stagingDir, workspacePrefix+id)
	if err := os.Mkdir(path, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	lock := flock.New(filepath.Join(path, LockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		_ = os.RemoveAll(path)
		return nil, fmt.Errorf("lock workspace: %w", err)
	}
	if !locked {
		_ = os.RemoveAll(path)
		return nil, ErrLocked
	}

	if logger == nil {
		logger = logging.NewNop()
	}
	logger.Debug("workspace acquired",
		logging.String("workspace_id", id),
		logging.String("path", path),
	)
	return &Workspace{ID: id, Path: path, logger: logger, lock: lock}, nil
}

// Join resolves name inside the workspace.
func (w *Workspace) Join(name string) string {
	return filepath.Join(w.Path, name)
}

// Release removes the workspace directory and drops its lock. It is safe to
// call more than once; later calls return the first call's result.
func (w *Workspace) Release() error {
	if w == nil {
		return nil
	}
	w.once.Do(func() {
		removeErr := os.RemoveAll(w.Path)
		unlockErr := w.lock.Unlock()
		w.err = errors.Join(removeErr, unlockErr)
		if w.err != nil {
			w.logger.Warn("workspace release incomplete",
				logging.String("workspace_id", w.ID),
				logging.Error(w.err),
				logging.String(logging.FieldEventType, "workspace_release_failed"),
				logging.String(logging.FieldErrorHint, "run gifbake staging clean"),
			)
			return
		}
		w.logger.Debug("workspace released", logging.String("workspace_id", w.ID))
	})
	return w.err
}

// isLocked reports whether another holder owns the lock inside dir. A missing
// lock file counts as unlocked. When the lock could be taken, the returned
// unlock func must be called once the caller is done with dir.
func isLocked(dir string) (bool, func(), error) {
	lockPath := filepath.Join(dir, LockFileName)
	if _, err := os.Stat(lockPath); err != nil {
		if os.IsNotExist(err) {
			return false, func() {}, nil
		}
		return false, nil, err
	}
	lock := flock.New(lockPath)
	acquired, err := lock.TryLock()
	if err != nil {
		return false, nil, err
	}
	if !acquired {
		return true, nil, nil
	}
	return false, func() { _ = lock.Unlock() }, nil
}
