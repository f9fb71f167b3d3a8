package convert

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// DefaultQuality is used when a request carries no usable quality value.
const DefaultQuality = 90

// Encode writes img to w in the given format. Quality (1-100) is honored
// for JPEG and WEBP; PNG is written with maximum lossless compression;
// the remaining formats ignore quality.
func Encode(w io.Writer, img image.Image, format Format, quality int) error {
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}

	switch format {
	case JPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case WEBP:
		return webp.Encode(w, img, &webp.Options{Quality: float32(quality)})
	case PNG:
		return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	case BMP:
		return imaging.Encode(w, img, imaging.BMP)
	case TIFF:
		return imaging.Encode(w, img, imaging.TIFF)
	case GIF:
		return imaging.Encode(w, img, imaging.GIF)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
