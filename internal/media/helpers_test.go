package media

import (
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func solidImage(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func writeJPEG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, solidImage(w, h, color.NRGBA{R: 200, G: 100, B: 50, A: 255}), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode %s: %v", name, err)
	}
	return path
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	defer f.Close()
	if err := png.Encode(f, solidImage(w, h, color.NRGBA{R: 10, G: 20, B: 30, A: 255})); err != nil {
		t.Fatalf("encode %s: %v", name, err)
	}
	return path
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// fakeRawLibrary serves canned previews and postprocess results per path.
type fakeRawLibrary struct {
	previews    map[string]Thumbnail
	full        map[string]image.Image
	openErr     error
	opens       int
	postprocess int
	closes      int
	lastOpts    PostprocessOptions
}

func newFakeRawLibrary() *fakeRawLibrary {
	return &fakeRawLibrary{
		previews: map[string]Thumbnail{},
		full:     map[string]image.Image{},
	}
}

func (l *fakeRawLibrary) Open(path string) (RawHandle, error) {
	l.opens++
	if l.openErr != nil {
		return nil, l.openErr
	}
	return &fakeRawHandle{lib: l, path: path}, nil
}

type fakeRawHandle struct {
	lib  *fakeRawLibrary
	path string
}

func (h *fakeRawHandle) ExtractThumbnail() (Thumbnail, error) {
	thumb, ok := h.lib.previews[h.path]
	if !ok {
		return Thumbnail{}, ErrNoPreview
	}
	return thumb, nil
}

func (h *fakeRawHandle) Postprocess(opts PostprocessOptions) (image.Image, error) {
	h.lib.postprocess++
	h.lib.lastOpts = opts
	img, ok := h.lib.full[h.path]
	if !ok {
		return nil, errors.New("corrupt raw data")
	}
	return img, nil
}

func (h *fakeRawHandle) Close() error {
	h.lib.closes++
	return nil
}

// countingLoader counts LoadFull calls.
type countingLoader struct {
	images map[string]image.Image
	calls  int
}

func (l *countingLoader) LoadFull(path string) (image.Image, error) {
	l.calls++
	img, ok := l.images[path]
	if !ok {
		return nil, &DecodeError{Path: path, Cause: errors.New("missing")}
	}
	return img, nil
}
