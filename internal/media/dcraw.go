package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os/exec"
	"path/filepath"
	"time"

	"photo-culler/internal/filesystem"
	"photo-culler/internal/logging"

	"golang.org/x/image/tiff"
)

// DefaultRawTimeout bounds a single dcraw invocation.
const DefaultRawTimeout = 60 * time.Second

// DcrawLibrary implements RawLibrary by running a dcraw-compatible binary.
type DcrawLibrary struct {
	binary  string
	timeout time.Duration
	retry   filesystem.RetryConfig
}

// NewDcrawLibrary locates the dcraw binary named in cfg, or "dcraw" on PATH.
func NewDcrawLibrary(cfg RawConfig) (*DcrawLibrary, error) {
	name := cfg.Binary
	if name == "" {
		name = "dcraw"
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%s not found: %w", name, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRawTimeout
	}

	return &DcrawLibrary{
		binary:  path,
		timeout: timeout,
		retry:   filesystem.DefaultRetryConfig(),
	}, nil
}

// Binary returns the resolved executable path.
func (l *DcrawLibrary) Binary() string {
	return l.binary
}

// Open checks that dcraw recognises the file as RAW data.
func (l *DcrawLibrary) Open(path string) (RawHandle, error) {
	if _, err := filesystem.StatWithRetry(path, l.retry); err != nil {
		return nil, err
	}
	if _, err := l.run("-i", path); err != nil {
		return nil, fmt.Errorf("not a recognised RAW file: %w", err)
	}
	return &dcrawHandle{lib: l, path: path}, nil
}

func (l *DcrawLibrary) run(args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, l.binary, args...)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("dcraw timed out after %v", l.timeout)
		}
		return nil, fmt.Errorf("dcraw failed: %w, stderr: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}
	return stdout.Bytes(), nil
}

type dcrawHandle struct {
	lib  *DcrawLibrary
	path string
}

// ExtractThumbnail writes the embedded preview to stdout with dcraw -e -c.
func (h *dcrawHandle) ExtractThumbnail() (Thumbnail, error) {
	out, err := h.lib.run("-e", "-c", h.path)
	if err != nil {
		return Thumbnail{}, fmt.Errorf("%w: %w", ErrNoPreview, err)
	}
	if len(out) == 0 {
		return Thumbnail{}, ErrNoPreview
	}

	logging.Debug("dcraw preview for %s: %d bytes", filepath.Base(h.path), len(out))

	switch {
	case bytes.HasPrefix(out, []byte{0xFF, 0xD8}):
		return Thumbnail{Format: ThumbJPEG, Data: out}, nil
	case bytes.HasPrefix(out, []byte("P6")):
		w, hgt, samples, err := parsePPM(out)
		if err != nil {
			return Thumbnail{}, err
		}
		return Thumbnail{Format: ThumbBitmap, Data: samples, Width: w, Height: hgt}, nil
	default:
		return Thumbnail{}, errors.New("unrecognised preview encoding")
	}
}

// Postprocess demosaics the file and decodes dcraw's TIFF output.
func (h *dcrawHandle) Postprocess(opts PostprocessOptions) (image.Image, error) {
	args := []string{"-c", "-T"}
	if opts.UseAutoWB {
		args = append(args, "-a")
	}
	if opts.NoAutoBright {
		args = append(args, "-W")
	}
	if opts.HalfSize {
		args = append(args, "-h")
	}
	if opts.OutputBPS == 16 {
		args = append(args, "-6")
	}
	args = append(args, h.path)

	out, err := h.lib.run(args...)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("dcraw produced no output for %s", h.path)
	}

	img, err := tiff.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("failed to decode dcraw output: %w", err)
	}
	return img, nil
}

func (h *dcrawHandle) Close() error {
	return nil
}
