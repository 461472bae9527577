// Package imaging processes uploaded images for articles and projects:
// EXIF orientation fixes, downscaling and re-encoding into the uploads
// directory.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp"

	"github.com/davrbek/folio/internal/util"
)

// MaxUploadSize limits the accepted upload body.
const MaxUploadSize = 10 << 20 // 10 MB

// maxDimension is the longest edge of a stored image.
const maxDimension = 1600

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Result describes a processed and stored image.
type Result struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Size     int64  `json:"size"`
}

// Processor stores processed images under a single uploads directory.
type Processor struct {
	uploadsDir string
}

// NewProcessor creates the uploads directory if needed.
func NewProcessor(uploadsDir string) (*Processor, error) {
	if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads directory: %w", err)
	}
	return &Processor{uploadsDir: uploadsDir}, nil
}

// Process reads an uploaded image, corrects its EXIF orientation, scales it
// down to fit within maxDimension and writes it to the uploads directory.
// WebP and GIF inputs are re-encoded as JPEG; PNG stays PNG to preserve
// transparency.
func (p *Processor) Process(r io.Reader, originalName string) (*Result, error) {
	name, err := util.SanitizeFilename(originalName)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] {
		return nil, fmt.Errorf("unsupported image type %q", ext)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) > MaxUploadSize {
		return nil, fmt.Errorf("image exceeds %d bytes", MaxUploadSize)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	img = applyOrientation(img, data)

	if b := img.Bounds(); b.Dx() > maxDimension || b.Dy() > maxDimension {
		img = imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
	}

	outExt := ".jpg"
	if ext == ".png" {
		outExt = ".png"
	}
	filename := fmt.Sprintf("%s-%s%s",
		time.Now().UTC().Format("20060102"),
		uuid.NewString()[:8],
		outExt,
	)

	path := filepath.Join(p.uploadsDir, filename)
	if err := util.ValidatePathWithinBase(p.uploadsDir, path); err != nil {
		return nil, err
	}
	// Save infers the encoder from the extension; the quality option only
	// affects JPEG output.
	if err := imaging.Save(img, path, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("saving image: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat saved image: %w", err)
	}

	bounds := img.Bounds()
	return &Result{
		Filename: filename,
		URL:      "/uploads/" + filename,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Size:     info.Size(),
	}, nil
}

// Remove deletes a previously stored image. A missing file is not an error.
func (p *Processor) Remove(filename string) error {
	name, err := util.SanitizeFilename(filename)
	if err != nil {
		return err
	}
	path := filepath.Join(p.uploadsDir, name)
	if err := util.ValidatePathWithinBase(p.uploadsDir, path); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// applyOrientation rotates the image according to its EXIF orientation tag.
// Images without EXIF data pass through unchanged.
func applyOrientation(img image.Image, data []byte) image.Image {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return img
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return img
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return img
	}

	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
