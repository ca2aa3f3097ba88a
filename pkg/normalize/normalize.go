package normalize

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/disintegration/imaging"
)

// Software is written to the EXIF software tag of every produced JPEG.
const Software = "img-dater"

// Options bounds the output raster and controls JPEG encoding.
type Options struct {
	// MaxDimension caps the larger output dimension in pixels. Images
	// already within bounds are never upscaled.
	MaxDimension int

	// Quality is the JPEG quality, 1-100. Higher is better and larger.
	Quality int
}

// Normalize decodes src (PNG or JPEG), corrects embedded orientation,
// flattens transparency onto white, downscales to fit opts.MaxDimension, and
// encodes a JPEG whose EXIF datetime fields are all set to takenAt.
//
// A source that cannot be decoded is an error. An unreadable orientation tag
// is not: it degrades to "no correction applied".
func Normalize(src []byte, takenAt time.Time, opts Options) ([]byte, error) {
	if opts.MaxDimension <= 0 {
		return nil, fmt.Errorf("max dimension must be positive, got %d", opts.MaxDimension)
	}
	if opts.Quality < 1 || opts.Quality > 100 {
		return nil, fmt.Errorf("quality must be in [1,100], got %d", opts.Quality)
	}

	img, err := imaging.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	upright := applyOrientation(img, readOrientation(src))
	raster := fit(flatten(upright), opts.MaxDimension)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, raster, imaging.JPEG, imaging.JPEGQuality(opts.Quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	out, err := withDateTags(buf.Bytes(), takenAt)
	if err != nil {
		return nil, fmt.Errorf("write exif: %w", err)
	}
	return out, nil
}

// flatten returns img as an opaque raster. Images with transparency (alpha
// channels, or palettes with transparent entries) are composited onto a white
// background of the same dimensions.
func flatten(img image.Image) *image.NRGBA {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return imaging.Clone(img)
	}
	bg := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White)
	return imaging.Overlay(bg, img, image.Point{}, 1.0)
}

// fit downscales img so its larger dimension equals maxDim, preserving aspect
// ratio with the smaller dimension truncated to whole pixels. Images already
// within bounds are returned unchanged.
func fit(img *image.NRGBA, maxDim int) *image.NRGBA {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	var nw, nh int
	if w > h {
		nw = maxDim
		nh = h * maxDim / w
	} else {
		nh = maxDim
		nw = w * maxDim / h
	}
	return imaging.Resize(img, nw, nh, imaging.Lanczos)
}
