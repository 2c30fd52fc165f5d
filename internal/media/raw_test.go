package media

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

func TestDefaultPostprocessOptions(t *testing.T) {
	opts := DefaultPostprocessOptions()
	want := PostprocessOptions{UseAutoWB: true, NoAutoBright: true, OutputBPS: 8, HalfSize: true}
	if opts != want {
		t.Errorf("DefaultPostprocessOptions() = %+v, want %+v", opts, want)
	}
}

func TestAvailableRawDecoder_ExtractThumbnail(t *testing.T) {
	var jpegPreview bytes.Buffer
	if err := jpeg.Encode(&jpegPreview, solidImage(160, 120, color.White), nil); err != nil {
		t.Fatal(err)
	}

	lib := newFakeRawLibrary()
	lib.previews["/p/jpeg.nef"] = Thumbnail{Format: ThumbJPEG, Data: jpegPreview.Bytes()}
	lib.previews["/p/bitmap.cr2"] = Thumbnail{Format: ThumbBitmap, Width: 4, Height: 2, Data: bytes.Repeat([]byte{1, 2, 3}, 8)}
	lib.previews["/p/garbage.arw"] = Thumbnail{Format: ThumbJPEG, Data: []byte("not a jpeg")}
	lib.full["/p/garbage.arw"] = solidImage(300, 200, color.Black)
	lib.full["/p/nopreview.dng"] = solidImage(600, 400, color.Black)

	dec := NewAvailableRawDecoder(lib, NewRasterDecoder())
	if !dec.Available() {
		t.Fatal("Available() = false")
	}

	tests := []struct {
		name            string
		path            string
		wantW, wantH    int
		wantPostprocess int
	}{
		{name: "jpeg preview", path: "/p/jpeg.nef", wantW: 160, wantH: 120},
		{name: "bitmap preview", path: "/p/bitmap.cr2", wantW: 4, wantH: 2},
		{name: "undecodable preview falls back", path: "/p/garbage.arw", wantW: 300, wantH: 200, wantPostprocess: 1},
		{name: "no preview falls back", path: "/p/nopreview.dng", wantW: 600, wantH: 400, wantPostprocess: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib.postprocess = 0
			img, err := dec.ExtractThumbnail(tt.path)
			if err != nil {
				t.Fatalf("ExtractThumbnail() error = %v", err)
			}
			if img.Bounds().Dx() != tt.wantW || img.Bounds().Dy() != tt.wantH {
				t.Errorf("ExtractThumbnail() = %v, want %dx%d", img.Bounds(), tt.wantW, tt.wantH)
			}
			if lib.postprocess != tt.wantPostprocess {
				t.Errorf("postprocess calls = %d, want %d", lib.postprocess, tt.wantPostprocess)
			}
		})
	}

	if lib.closes != lib.opens {
		t.Errorf("closes = %d, opens = %d, want equal", lib.closes, lib.opens)
	}
	if lib.lastOpts != DefaultPostprocessOptions() {
		t.Errorf("postprocess options = %+v, want defaults", lib.lastOpts)
	}
}

func TestAvailableRawDecoder_Failures(t *testing.T) {
	lib := newFakeRawLibrary()
	dec := NewAvailableRawDecoder(lib, NewRasterDecoder())

	_, err := dec.ExtractThumbnail("/p/broken.nef")
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("ExtractThumbnail() error = %v, want *DecodeError", err)
	}
	if de.Path != "/p/broken.nef" {
		t.Errorf("DecodeError.Path = %q", de.Path)
	}

	if _, err := dec.DecodeFull("/p/broken.nef"); !errors.As(err, &de) {
		t.Errorf("DecodeFull() error = %v, want *DecodeError", err)
	}

	openErr := errors.New("cannot open")
	lib.openErr = openErr
	_, err = dec.ExtractThumbnail("/p/x.nef")
	if !errors.Is(err, openErr) {
		t.Errorf("ExtractThumbnail() error = %v, want wrapped open error", err)
	}
}

func TestAvailableRawDecoder_OpenFailureUsesGenericDecoder(t *testing.T) {
	dir := t.TempDir()
	// dcraw cannot open CR3; a file the generic chain understands still decodes
	readable := writeJPEG(t, dir, "unsupported.cr3", 80, 60)

	lib := newFakeRawLibrary()
	lib.openErr = errors.New("unsupported file format")
	dec := NewAvailableRawDecoder(lib, NewRasterDecoder())

	for name, decode := range map[string]func(string) (image.Image, error){
		"ExtractThumbnail": dec.ExtractThumbnail,
		"DecodeFull":       dec.DecodeFull,
	} {
		t.Run(name, func(t *testing.T) {
			img, err := decode(readable)
			if err != nil {
				t.Fatalf("%s() error = %v", name, err)
			}
			if img.Bounds().Dx() != 80 || img.Bounds().Dy() != 60 {
				t.Errorf("%s() = %v, want 80x60", name, img.Bounds())
			}
		})
	}

	if lib.postprocess != 0 {
		t.Errorf("postprocess calls = %d, want 0", lib.postprocess)
	}
}

func TestAvailableRawDecoder_DecodeFull(t *testing.T) {
	lib := newFakeRawLibrary()
	lib.previews["/p/a.nef"] = Thumbnail{Format: ThumbBitmap, Width: 1, Height: 1, Data: []byte{0, 0, 0}}
	lib.full["/p/a.nef"] = solidImage(3000, 2000, color.White)

	img, err := NewAvailableRawDecoder(lib, NewRasterDecoder()).DecodeFull("/p/a.nef")
	if err != nil {
		t.Fatalf("DecodeFull() error = %v", err)
	}
	if img.Bounds().Dx() != 3000 {
		t.Errorf("DecodeFull() used the preview, got %v", img.Bounds())
	}
}

func TestUnavailableRawDecoder(t *testing.T) {
	dir := t.TempDir()
	// a JPEG with a RAW extension decodes through the generic chain
	path := writeJPEG(t, dir, "disguised.nef", 64, 48)
	bad := writeFile(t, dir, "bad.cr2", []byte("not an image"))

	dec := NewUnavailableRawDecoder(NewRasterDecoder())
	if dec.Available() {
		t.Fatal("Available() = true")
	}

	img, err := dec.ExtractThumbnail(path)
	if err != nil {
		t.Fatalf("ExtractThumbnail() error = %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 48 {
		t.Errorf("ExtractThumbnail() = %v, want 64x48", img.Bounds())
	}

	var de *DecodeError
	if _, err := dec.DecodeFull(bad); !errors.As(err, &de) {
		t.Errorf("DecodeFull() error = %v, want *DecodeError", err)
	}
}

func TestResolveRawDecoder_MissingBinary(t *testing.T) {
	dec := ResolveRawDecoder(RawConfig{Binary: "/nonexistent/dcraw-missing"}, NewRasterDecoder())
	if dec.Available() {
		t.Error("ResolveRawDecoder() with a missing binary returned an available decoder")
	}
}
