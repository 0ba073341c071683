// Package preprocess normalizes incoming meal photos before estimation:
// decode, scale the long edge down to a configured maximum, and export a
// WebP main image plus a small thumbnail. Identical input and config always
// produce identical output.
package preprocess

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

type Config struct {
	MaxLongEdge   int
	ThumbLongEdge int
	Quality       float32
	ThumbQuality  float32
}

func DefaultConfig() Config {
	return Config{
		MaxLongEdge:   1536,
		ThumbLongEdge: 512,
		Quality:       80,
		ThumbQuality:  70,
	}
}

type Result struct {
	Normalized []byte // image/webp
	Thumb      []byte // image/webp
	Width      int
	Height     int
}

// Preprocess decodes raw photo bytes (JPEG, PNG or WebP) and produces the
// normalized image and thumbnail. Images already within bounds are re-encoded
// but never upscaled.
func Preprocess(raw []byte, cfg Config) (Result, error) {
	if len(raw) == 0 {
		return Result{}, fmt.Errorf("no image data")
	}
	if cfg.MaxLongEdge <= 0 {
		cfg = DefaultConfig()
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return Result{}, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := scaleDims(bounds.Dx(), bounds.Dy(), cfg.MaxLongEdge)
	normalized := imaging.Resize(img, w, h, imaging.Lanczos)

	tw, th := scaleDims(w, h, cfg.ThumbLongEdge)
	thumb := imaging.Resize(normalized, tw, th, imaging.Lanczos)

	normalizedBytes, err := encodeWebP(normalized, cfg.Quality)
	if err != nil {
		return Result{}, fmt.Errorf("encode normalized: %w", err)
	}
	thumbBytes, err := encodeWebP(thumb, cfg.ThumbQuality)
	if err != nil {
		return Result{}, fmt.Errorf("encode thumbnail: %w", err)
	}

	return Result{
		Normalized: normalizedBytes,
		Thumb:      thumbBytes,
		Width:      w,
		Height:     h,
	}, nil
}

// scaleDims shrinks dimensions so the longest edge fits target, preserving
// aspect ratio. Never upscales.
func scaleDims(width, height, target int) (int, int) {
	longest := width
	if height > longest {
		longest = height
	}
	if longest <= target {
		return width, height
	}
	scale := float64(target) / float64(longest)
	w := int(float64(width)*scale + 0.5)
	h := int(float64(height)*scale + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func encodeWebP(img image.Image, quality float32) ([]byte, error) {
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
