package artifact

import (
	"bytes"
	"errors"
	"fmt"
	"image/gif"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"gifbake/internal/fileutil"
	"gifbake/internal/logging"
)

// ErrNoArtifact is returned when no artifact is currently published.
var ErrNoArtifact = errors.New("no artifact published")

// Artifact describes a published GIF.
type Artifact struct {
	ID           string
	Path         string
	URL          string
	PreviewPath  string
	DownloadName string
	Size         int64
	Frames       int
	Width        int
	Height       int
	CreatedAt    time.Time
}

// Publisher tracks the single currently published artifact.
type Publisher struct {
	dir          string
	previewWidth int
	logger       *slog.Logger

	mu      sync.Mutex
	current *Artifact
}

// NewPublisher constructs a publisher writing into dir.
func NewPublisher(dir string, previewWidth int, logger *slog.Logger) *Publisher {
	return &Publisher{
		dir:          dir,
		previewWidth: previewWidth,
		logger:       logging.NewComponentLogger(logger, "artifact"),
	}
}

// Publish validates data as a GIF, writes it and its preview into the
// artifact directory, then releases the previously published artifact.
func (p *Publisher) Publish(data []byte, downloadName string) (Artifact, error) {
	anim, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return Artifact{}, fmt.Errorf("decode output gif: %w", err)
	}
	if len(anim.Image) == 0 {
		return Artifact{}, errors.New("decode output gif: no frames")
	}
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return Artifact{}, fmt.Errorf("create artifact directory: %w", err)
	}

	id := uuid.NewString()
	art := Artifact{
		ID:           id,
		Path:         filepath.Join(p.dir, id+".gif"),
		PreviewPath:  filepath.Join(p.dir, id+"-preview.png"),
		DownloadName: downloadName,
		Size:         int64(len(data)),
		Frames:       len(anim.Image),
		Width:        anim.Config.Width,
		Height:       anim.Config.Height,
		CreatedAt:    time.Now(),
	}
	if art.Width == 0 || art.Height == 0 {
		bounds := anim.Image[0].Bounds()
		art.Width, art.Height = bounds.Dx(), bounds.Dy()
	}
	art.URL = FileURL(art.Path)

	if err := fileutil.WriteFileAtomic(art.Path, data, 0o644); err != nil {
		return Artifact{}, fmt.Errorf("write artifact: %w", err)
	}
	width := p.previewWidth
	if width <= 0 || width > art.Width {
		width = art.Width
	}
	preview := imaging.Resize(anim.Image[0], width, 0, imaging.Lanczos)
	if err := imaging.Save(preview, art.PreviewPath); err != nil {
		_ = os.Remove(art.Path)
		return Artifact{}, fmt.Errorf("write preview: %w", err)
	}

	p.mu.Lock()
	previous := p.current
	p.current = &art
	p.mu.Unlock()

	if previous != nil {
		p.remove(*previous)
	}
	p.logger.Info("artifact published",
		logging.String("artifact_id", art.ID),
		logging.String("path", art.Path),
		logging.Int64("bytes", art.Size),
		logging.Int("frames", art.Frames),
	)
	return art, nil
}

// Current returns the published artifact, if any.
func (p *Publisher) Current() (Artifact, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return Artifact{}, false
	}
	return *p.current, true
}

// Release deletes the published artifact's files. It is a no-op when
// nothing is published.
func (p *Publisher) Release() {
	p.mu.Lock()
	previous := p.current
	p.current = nil
	p.mu.Unlock()
	if previous != nil {
		p.remove(*previous)
	}
}

// SaveAs copies the published artifact into dir under its download name and
// returns the destination path. An empty dir means the working directory.
func (p *Publisher) SaveAs(dir string) (string, error) {
	art, ok := p.Current()
	if !ok {
		return "", ErrNoArtifact
	}
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	dst := filepath.Join(dir, art.DownloadName)
	if err := fileutil.CopyFileVerified(art.Path, dst); err != nil {
		return "", fmt.Errorf("save %s: %w", art.DownloadName, err)
	}
	p.logger.Info("artifact saved",
		logging.String("artifact_id", art.ID),
		logging.String("destination", dst),
	)
	return dst, nil
}

func (p *Publisher) remove(art Artifact) {
	for _, path := range []string{art.Path, art.PreviewPath} {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			p.logger.Warn("failed to release artifact file",
				logging.String("artifact_id", art.ID),
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldEventType, "artifact_release_failed"),
				logging.String(logging.FieldErrorHint, "check artifact_dir permissions"),
			)
		}
	}
	p.logger.Debug("artifact released", logging.String("artifact_id", art.ID))
}

// FileURL returns the file:// URL for an absolute path.
func FileURL(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}
