// Package pixelate obscures poster images by downscaling and
// re-upscaling with nearest-neighbor sampling.
package pixelate

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

var ErrInvalidLevel = errors.New("pixelate: level must be in [0,100]")

// Obscure pixelates src at the given intensity level (0..100) and
// returns the encoded result with its content type. Level 0 means no
// obfuscation: the source bytes are returned untouched rather than run
// through a degenerate scale, so the rendering path never divides an
// image down to nothing.
func Obscure(src []byte, level int) ([]byte, string, error) {
	if level < 0 || level > 100 {
		return nil, "", ErrInvalidLevel
	}
	if level == 0 {
		_, format, err := image.DecodeConfig(bytes.NewReader(src))
		if err != nil {
			return nil, "", fmt.Errorf("pixelate: decode image: %w", err)
		}
		return src, contentType(format), nil
	}

	img, format, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, "", fmt.Errorf("pixelate: decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, "", errors.New("pixelate: empty image")
	}

	// Block size grows with the level; floor of 2 keeps a visible effect
	// even at low intensities.
	blockSize := level * 40 / 100
	if blockSize < 2 {
		blockSize = 2
	}

	smallW := width / blockSize
	if smallW < 1 {
		smallW = 1
	}
	smallH := height / blockSize
	if smallH < 1 {
		smallH = 1
	}

	small := image.NewRGBA(image.Rect(0, 0, smallW, smallH))
	draw.NearestNeighbor.Scale(small, small.Bounds(), img, bounds, draw.Src, nil)

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(out, out.Bounds(), small, small.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if format == "jpeg" {
		if err := jpeg.Encode(&buf, out, nil); err != nil {
			return nil, "", fmt.Errorf("pixelate: encode jpeg: %w", err)
		}
		return buf.Bytes(), "image/jpeg", nil
	}
	if err := png.Encode(&buf, out); err != nil {
		return nil, "", fmt.Errorf("pixelate: encode png: %w", err)
	}
	return buf.Bytes(), "image/png", nil
}

func contentType(format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	default:
		return "image/png"
	}
}
