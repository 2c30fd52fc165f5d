package media

import (
	"errors"
	"image/color"
	"path/filepath"
	"testing"

	"photo-culler/internal/mediatypes"
)

func TestLoader_UnsupportedFormat(t *testing.T) {
	loader := NewLoader(nil, nil)

	tests := []struct {
		path string
		want mediatypes.Category
	}{
		{path: "/photos/a.xmp", want: mediatypes.CategorySidecar},
		{path: "/photos/notes.txt", want: mediatypes.CategoryUnsupported},
		{path: "/photos/._a.jpg", want: mediatypes.CategoryUnsupported},
	}

	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			_, err := loader.LoadThumbnail(tt.path)
			var ue *UnsupportedFormatError
			if !errors.As(err, &ue) {
				t.Fatalf("LoadThumbnail() error = %v, want *UnsupportedFormatError", err)
			}
			if ue.Category != tt.want {
				t.Errorf("Category = %q, want %q", ue.Category, tt.want)
			}

			if _, err := loader.LoadFull(tt.path); !errors.As(err, &ue) {
				t.Errorf("LoadFull() error = %v, want *UnsupportedFormatError", err)
			}
		})
	}
}

func TestLoader_Raster(t *testing.T) {
	dir := t.TempDir()
	jpg := writeJPEG(t, dir, "a.jpg", 800, 400)
	png := writePNG(t, dir, "b.PNG", 30, 60)
	broken := writeFile(t, dir, "c.jpg", []byte("truncated"))

	loader := NewLoader(nil, nil)
	if loader.RawAvailable() {
		t.Error("RawAvailable() = true with no RAW decoder")
	}

	img, err := loader.LoadFull(jpg)
	if err != nil {
		t.Fatalf("LoadFull(a.jpg) error = %v", err)
	}
	if img.Bounds().Dx() != 800 || img.Bounds().Dy() != 400 {
		t.Errorf("LoadFull(a.jpg) = %v, want 800x400", img.Bounds())
	}

	fitted := Fit(img, 400, 300)
	if fitted.Bounds().Dx() != 400 || fitted.Bounds().Dy() != 200 {
		t.Errorf("Fit(a.jpg, 400, 300) = %v, want 400x200", fitted.Bounds())
	}

	if img, err := loader.LoadThumbnail(png); err != nil || img.Bounds().Dy() != 60 {
		t.Errorf("LoadThumbnail(b.PNG) = %v, %v", img, err)
	}

	_, err = loader.LoadThumbnail(broken)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("LoadThumbnail(c.jpg) error = %v, want *DecodeError", err)
	}
	if de.Path != broken {
		t.Errorf("DecodeError.Path = %q, want %q", de.Path, broken)
	}

	_, err = loader.LoadFull(filepath.Join(dir, "missing.jpg"))
	if !errors.As(err, &de) {
		t.Errorf("LoadFull(missing) error = %v, want *DecodeError", err)
	}
}

func TestLoader_RawDispatch(t *testing.T) {
	lib := newFakeRawLibrary()
	lib.full["/photos/b.cr2"] = solidImage(900, 600, color.Gray{Y: 128})

	loader := NewLoader(NewAvailableRawDecoder(lib, NewRasterDecoder()), NewRasterDecoder())
	if !loader.RawAvailable() {
		t.Fatal("RawAvailable() = false")
	}

	thumb, err := loader.LoadThumbnail("/photos/b.cr2")
	if err != nil {
		t.Fatalf("LoadThumbnail() error = %v", err)
	}
	if thumb.Bounds().Dx() != 900 {
		t.Errorf("LoadThumbnail() = %v, want postprocessed 900x600", thumb.Bounds())
	}

	full, err := loader.LoadFull("/photos/b.CR2")
	if err == nil {
		t.Errorf("LoadFull(b.CR2) = %v, want error for unknown path", full.Bounds())
	}
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Errorf("LoadFull() error = %v, want *DecodeError", err)
	}
}
