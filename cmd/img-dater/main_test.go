package main

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

func TestRootCommand_PrintsVersion(t *testing.T) {
	cmd := newRootCmd()

	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "img-dater CLI") {
		t.Fatalf("expected output to include CLI header, got %q", output)
	}
	if !strings.Contains(output, "Version: "+version) {
		t.Fatalf("expected output to include version, got %q", output)
	}
}

func TestConvertCommand_RequiresTwoArgs(t *testing.T) {
	cmd := newRootCmd()

	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"convert", "only-source"})

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestConvertCommand_ValidatesFlags(t *testing.T) {
	tmp := t.TempDir()

	testCases := []struct {
		name string
		args []string
	}{
		{name: "zero max-dimension", args: []string{"convert", tmp, tmp, "--max-dimension", "0"}},
		{name: "quality below range", args: []string{"convert", tmp, tmp, "--quality", "0"}},
		{name: "quality above range", args: []string{"convert", tmp, tmp, "--quality", "101"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := newRootCmd()
			out := new(bytes.Buffer)
			cmd.SetOut(out)
			cmd.SetErr(out)
			cmd.SetArgs(tc.args)

			if err := cmd.Execute(); err == nil {
				t.Fatalf("expected error, got nil")
			}
		})
	}
}

func TestConvertCommand_EndToEnd(t *testing.T) {
	tmpSrc := t.TempDir()
	tmpDst := t.TempDir()

	writeTestPNG(t, tmpSrc, "2023.07.04_bbq.png", 400, 300)
	writeTestJPEG(t, tmpSrc, "IMG_2022.jpg", 30, 20)
	writeTestPNG(t, tmpSrc, "photo.png", 10, 10) // no date: skipped

	cmd := newRootCmd()

	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"convert", tmpSrc, tmpDst, "--max-dimension", "120", "--quality", "85"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "skipped (no date in filename): photo.png") {
		t.Fatalf("expected skip line for photo.png, got %q", output)
	}
	if !strings.Contains(output, "converted 2 of 3 images") {
		t.Fatalf("expected summary line, got %q", output)
	}

	// The dated PNG is converted, resized, and stamped.
	bbqPath := filepath.Join(tmpDst, "2023.07.04_bbq.jpg")
	data, err := os.ReadFile(bbqPath)
	if err != nil {
		t.Fatalf("read converted file: %v", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode converted file: %v", err)
	}
	if format != "jpeg" {
		t.Fatalf("converted format = %q, want jpeg", format)
	}
	if cfg.Width != 120 || cfg.Height != 90 {
		t.Fatalf("converted size = %dx%d, want 120x90", cfg.Width, cfg.Height)
	}

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode exif: %v", err)
	}
	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		t.Fatalf("get DateTimeOriginal: %v", err)
	}
	if got, _ := tag.StringVal(); got != "2023:07:04 00:00:00" {
		t.Fatalf("DateTimeOriginal = %q, want 2023:07:04 00:00:00", got)
	}

	info, err := os.Stat(bbqPath)
	if err != nil {
		t.Fatalf("stat converted file: %v", err)
	}
	want := time.Date(2023, 7, 4, 0, 0, 0, 0, time.Local)
	if !info.ModTime().Equal(want) {
		t.Fatalf("mod time = %v, want %v", info.ModTime(), want)
	}

	// The bare-year JPEG lands on January 1st.
	info, err = os.Stat(filepath.Join(tmpDst, "IMG_2022.jpg"))
	if err != nil {
		t.Fatalf("stat bare-year file: %v", err)
	}
	want = time.Date(2022, 1, 1, 0, 0, 0, 0, time.Local)
	if !info.ModTime().Equal(want) {
		t.Fatalf("mod time = %v, want %v", info.ModTime(), want)
	}

	// The undated file produced no output.
	if _, err := os.Stat(filepath.Join(tmpDst, "photo.jpg")); !os.IsNotExist(err) {
		t.Fatalf("expected no output for undated file, stat err = %v", err)
	}
}

func TestConvertCommand_EmptySourceIsSuccess(t *testing.T) {
	tmpSrc := t.TempDir()
	tmpDst := t.TempDir()

	cmd := newRootCmd()

	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"convert", tmpSrc, tmpDst})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(out.String(), "no PNG or JPG files found") {
		t.Fatalf("expected no-files message, got %q", out.String())
	}
}

func TestConvertCommand_MissingSourceIsError(t *testing.T) {
	cmd := newRootCmd()

	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"convert", filepath.Join(t.TempDir(), "nope"), t.TempDir()})

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func writeTestPNG(t *testing.T, dir, name string, width, height int) {
	t.Helper()

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, testImage(width, height)); err != nil {
		t.Fatalf("encode png: %v", err)
	}
}

func writeTestJPEG(t *testing.T, dir, name string, width, height int) {
	t.Helper()

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, testImage(width, height), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
}

func testImage(width, height int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	return img
}
