package media

import (
	"errors"
	"fmt"
	"image"
	"strconv"
)

// parsePPM reads a binary (P6) portable pixmap and returns packed 8-bit RGB
// samples. 16-bit files are reduced to their high byte.
func parsePPM(data []byte) (width, height int, samples []byte, err error) {
	pos := 0
	var fields [4]int

	next := func() (string, error) {
		for pos < len(data) {
			c := data[pos]
			if c == '#' {
				for pos < len(data) && data[pos] != '\n' {
					pos++
				}
				continue
			}
			if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
				pos++
				continue
			}
			break
		}
		start := pos
		for pos < len(data) {
			c := data[pos]
			if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '#' {
				break
			}
			pos++
		}
		if start == pos {
			return "", errors.New("truncated PPM header")
		}
		return string(data[start:pos]), nil
	}

	magic, err := next()
	if err != nil {
		return 0, 0, nil, err
	}
	if magic != "P6" {
		return 0, 0, nil, fmt.Errorf("unsupported PPM magic %q", magic)
	}

	for i := 1; i < 4; i++ {
		tok, err := next()
		if err != nil {
			return 0, 0, nil, err
		}
		n, err := strconv.Atoi(tok)
		if err != nil || n <= 0 {
			return 0, 0, nil, fmt.Errorf("invalid PPM header value %q", tok)
		}
		fields[i] = n
	}
	width, height, maxval := fields[1], fields[2], fields[3]
	if maxval > 65535 {
		return 0, 0, nil, fmt.Errorf("invalid PPM maxval %d", maxval)
	}

	// exactly one whitespace byte separates the header from the raster
	pos++

	pixels := width * height * 3
	bytesPerSample := 1
	if maxval > 255 {
		bytesPerSample = 2
	}
	if len(data)-pos < pixels*bytesPerSample {
		return 0, 0, nil, fmt.Errorf("PPM raster truncated: have %d bytes, want %d", len(data)-pos, pixels*bytesPerSample)
	}

	raster := data[pos:]
	samples = make([]byte, pixels)
	for i := 0; i < pixels; i++ {
		var v int
		if bytesPerSample == 2 {
			v = int(raster[2*i])<<8 | int(raster[2*i+1])
		} else {
			v = int(raster[i])
		}
		if maxval != 255 {
			v = v * 255 / maxval
		}
		samples[i] = byte(v)
	}
	return width, height, samples, nil
}

// rgbToNRGBA wraps packed RGB samples as an opaque image.
func rgbToNRGBA(width, height int, samples []byte) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid bitmap size %dx%d", width, height)
	}
	if len(samples) < width*height*3 {
		return nil, fmt.Errorf("bitmap too short: have %d bytes, want %d", len(samples), width*height*3)
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i, j := 0, 0; i < width*height; i, j = i+1, j+3 {
		img.Pix[4*i] = samples[j]
		img.Pix[4*i+1] = samples[j+1]
		img.Pix[4*i+2] = samples[j+2]
		img.Pix[4*i+3] = 0xFF
	}
	return img, nil
}
