// Package normalize turns PNG and JPEG bytes into display-correct, opaque,
// bounded-size JPEG bytes carrying a capture datetime in their EXIF block.
//
// The transformation is a fixed sequence: orientation correction, alpha and
// palette flattening onto white, proportional downscale, JPEG encode with
// synthesized EXIF datetime fields.
package normalize
