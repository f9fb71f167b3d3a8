package convert

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"

	// Registers the WEBP decoder; imaging handles the other formats itself.
	_ "golang.org/x/image/webp"
)

// Request describes a single image conversion. If both Width and Height
// are zero no resize occurs; if exactly one is set the other is derived
// from the source aspect ratio.
type Request struct {
	Source    string
	Dest      string
	Format    Format
	Quality   int
	Width     int
	Height    int
	Grayscale bool
}

type Converter struct {
	logger *zap.Logger
}

func NewConverter(logger *zap.Logger) *Converter {
	return &Converter{logger: logger}
}

// Convert decodes the source image, applies the requested transforms and
// writes the result to the destination path, creating intermediate
// directories as needed. The destination file either fully exists after
// a successful return or is not produced at all.
func (c *Converter) Convert(req Request) error {
	img, err := imaging.Open(req.Source)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	if req.Grayscale {
		img = toGray(img)
	} else if req.Format == JPEG && !isOpaque(img) {
		// JPEG cannot encode transparency; composite onto opaque white.
		// This is lossy and one-way: semi-transparent pixels lose alpha.
		img = flattenWhite(img)
	}

	if req.Width > 0 || req.Height > 0 {
		// A zero axis is derived from the aspect ratio, rounded to
		// nearest with a minimum of 1.
		img = imaging.Resize(img, req.Width, req.Height, imaging.Lanczos)
		if req.Grayscale {
			// Resize yields NRGBA; restore single-channel output.
			img = toGray(img)
		}
	}

	if err := c.save(img, req); err != nil {
		return err
	}
	return nil
}

// save encodes to a uuid-suffixed temp file next to the destination and
// renames it into place, so a failed encode leaves nothing behind.
func (c *Converter) save(img image.Image, req Request) error {
	dir := filepath.Dir(req.Dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(req.Dest), uuid.New().String()[:8]))
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := Encode(f, img, req.Format, req.Quality); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to encode image: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write output file: %w", err)
	}

	if err := os.Rename(tmp, req.Dest); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to finalize output file: %w", err)
	}
	return nil
}

// toGray converts any image to a single-channel luminance image of the
// same size.
func toGray(src image.Image) *image.Gray {
	if dst, ok := src.(*image.Gray); ok {
		return dst
	}

	bounds := src.Bounds()
	dst := image.NewGray(bounds)
	model := dst.ColorModel()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dst.Set(x, y, model.Convert(src.At(x, y)))
		}
	}
	return dst
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return true
}

func flattenWhite(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	bg := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
