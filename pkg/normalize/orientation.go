package normalize

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// orientationOps maps the standard EXIF orientation values 2-8 to the ordered
// primitive transforms that bring the raster upright. Value 1, and anything
// unrecognized, means no transform. Rotations are counter-clockwise, matching
// the imaging package.
var orientationOps = map[int][]func(image.Image) *image.NRGBA{
	2: {imaging.FlipH},
	3: {imaging.Rotate180},
	4: {imaging.FlipV},
	5: {imaging.FlipH, imaging.Rotate90},
	6: {imaging.Rotate270},
	7: {imaging.FlipH, imaging.Rotate270},
	8: {imaging.Rotate90},
}

// readOrientation extracts the EXIF orientation value from raw image bytes.
// Missing or unreadable metadata degrades to 1.
func readOrientation(src []byte) int {
	x, err := exif.Decode(bytes.NewReader(src))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil || v < 1 || v > 8 {
		return 1
	}
	return v
}

// applyOrientation runs the transform sequence for the given orientation
// value. The result is display-correct and needs no residual orientation
// metadata.
func applyOrientation(img image.Image, orientation int) image.Image {
	for _, op := range orientationOps[orientation] {
		img = op(img)
	}
	return img
}
