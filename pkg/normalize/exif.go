package normalize

import (
	"bytes"
	"time"

	exif "github.com/dsoprea/go-exif/v3"
	jpegstructure "github.com/dsoprea/go-jpeg-image-structure/v2"
)

// EXIF datetime fields carry no timezone and use colons in the date part.
const exifTimeLayout = "2006:01:02 15:04:05"

// withDateTags returns jpegData with an EXIF block whose datetime fields
// (IFD0 DateTime, Exif DateTimeOriginal and DateTimeDigitized) are all set
// to takenAt, and whose software tag identifies this tool.
func withDateTags(jpegData []byte, takenAt time.Time) ([]byte, error) {
	jmp := jpegstructure.NewJpegMediaParser()
	intfc, err := jmp.ParseBytes(jpegData)
	if err != nil {
		return nil, err
	}
	sl := intfc.(*jpegstructure.SegmentList)

	rootIb, err := sl.ConstructExifBuilder()
	if err != nil {
		return nil, err
	}

	stamp := takenAt.Format(exifTimeLayout)

	ifd0, err := exif.GetOrCreateIbFromRootIb(rootIb, "IFD0")
	if err != nil {
		return nil, err
	}
	if err := ifd0.SetStandardWithName("DateTime", stamp); err != nil {
		return nil, err
	}
	if err := ifd0.SetStandardWithName("Software", Software); err != nil {
		return nil, err
	}

	exifIfd, err := exif.GetOrCreateIbFromRootIb(rootIb, "IFD/Exif")
	if err != nil {
		return nil, err
	}
	if err := exifIfd.SetStandardWithName("DateTimeOriginal", stamp); err != nil {
		return nil, err
	}
	if err := exifIfd.SetStandardWithName("DateTimeDigitized", stamp); err != nil {
		return nil, err
	}

	if err := sl.SetExif(rootIb); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := sl.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
