package media

import (
	"errors"
	"fmt"
	"path/filepath"

	"photo-culler/internal/mediatypes"
)

// ErrRawUnavailable reports that no RAW decoding library was found. It is
// logged once at startup; RAW files then use the generic decoder.
var ErrRawUnavailable = errors.New("RAW decoding library not available")

// ErrNoPreview is returned by a RawHandle whose file carries no embedded preview.
var ErrNoPreview = errors.New("no embedded preview")

// UnsupportedFormatError is returned when a loader is asked to decode a path
// that is not an image, such as a sidecar.
type UnsupportedFormatError struct {
	Path     string
	Category mediatypes.Category
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format for %s (%s)", filepath.Base(e.Path), e.Category)
}

// DecodeError wraps any failure to produce a raster for an image file.
type DecodeError struct {
	Path  string
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", filepath.Base(e.Path), e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// asDecodeError returns err unchanged if it already is a *DecodeError,
// otherwise wraps it.
func asDecodeError(path string, err error) error {
	if err == nil {
		return nil
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	return &DecodeError{Path: path, Cause: err}
}
