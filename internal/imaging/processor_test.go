package imaging

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
)

func encodeTestImage(t *testing.T, w, h int, asPNG bool) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	var err error
	if asPNG {
		err = png.Encode(&buf, img)
	} else {
		err = jpeg.Encode(&buf, img, nil)
	}
	if err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return &buf
}

func TestProcess_ResizesLargeImage(t *testing.T) {
	p, err := NewProcessor(t.TempDir())
	if err != nil {
		t.Fatalf("NewProcessor: %v", err)
	}

	res, err := p.Process(encodeTestImage(t, 3200, 1600, false), "big.jpg")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Width != maxDimension {
		t.Errorf("Width = %d, want %d", res.Width, maxDimension)
	}
	if res.Height != 800 {
		t.Errorf("Height = %d, want 800 (aspect preserved)", res.Height)
	}
	if !strings.HasSuffix(res.Filename, ".jpg") {
		t.Errorf("Filename = %q, want .jpg suffix", res.Filename)
	}
	if !strings.HasPrefix(res.URL, "/uploads/") {
		t.Errorf("URL = %q, want /uploads/ prefix", res.URL)
	}
}

func TestProcess_SmallImageKeepsSize(t *testing.T) {
	dir := t.TempDir()
	p, _ := NewProcessor(dir)

	res, err := p.Process(encodeTestImage(t, 400, 300, false), "small.jpeg")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Width != 400 || res.Height != 300 {
		t.Errorf("dimensions = %dx%d, want 400x300", res.Width, res.Height)
	}
	if _, err := os.Stat(filepath.Join(dir, res.Filename)); err != nil {
		t.Errorf("saved file missing: %v", err)
	}
}

func TestProcess_PNGStaysPNG(t *testing.T) {
	p, _ := NewProcessor(t.TempDir())

	res, err := p.Process(encodeTestImage(t, 100, 100, true), "logo.png")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !strings.HasSuffix(res.Filename, ".png") {
		t.Errorf("Filename = %q, want .png suffix", res.Filename)
	}
}

func TestProcess_RejectsBadInput(t *testing.T) {
	p, _ := NewProcessor(t.TempDir())

	if _, err := p.Process(bytes.NewBufferString("not an image"), "fake.jpg"); err == nil {
		t.Error("garbage bytes accepted")
	}
	if _, err := p.Process(encodeTestImage(t, 10, 10, false), "script.svg"); err == nil {
		t.Error("unsupported extension accepted")
	}
	if _, err := p.Process(encodeTestImage(t, 10, 10, false), "../escape.jpg"); err != nil {
		t.Errorf("sanitized traversal name rejected: %v", err)
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	p, _ := NewProcessor(dir)

	res, err := p.Process(encodeTestImage(t, 50, 50, false), "gone.jpg")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if err := p.Remove(res.Filename); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, res.Filename)); !os.IsNotExist(err) {
		t.Error("file still exists after Remove")
	}
	// Missing files are not an error.
	if err := p.Remove("already-gone.jpg"); err != nil {
		t.Errorf("Remove missing file: %v", err)
	}
}
