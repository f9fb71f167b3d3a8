// Package fixtures generates synthetic images for exercising the
// converter: solid backgrounds, simple shapes and a line of text,
// written across every supported format plus a nested subfolder for
// recursive-mode runs.
package fixtures

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/phambaophuc/image-convert/internal/convert"
)

var treeFormats = []convert.Format{
	convert.JPEG,
	convert.PNG,
	convert.WEBP,
	convert.BMP,
	convert.TIFF,
}

// TestImage draws a sample picture: blue background, white rectangle
// with a red border, green ellipse with a blue border, and a centered
// caption.
func TestImage(width, height int, caption string) *image.NRGBA {
	img := imaging.New(width, height, color.NRGBA{R: 73, G: 109, B: 137, A: 255})

	drawRect(img,
		image.Rect(width/4, height/4, width*3/4, height*3/4),
		color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		color.NRGBA{R: 255, A: 255},
		5,
	)
	drawEllipse(img,
		image.Rect(width/3, height/3, width*2/3, height*2/3),
		color.NRGBA{G: 255, A: 255},
		color.NRGBA{B: 255, A: 255},
		5,
	)
	drawCaption(img, caption, width/2, height/5)

	return img
}

// WriteTree creates count images per format under dir, plus a
// "subfolder" with a couple of JPEG/PNG images for recursive-mode
// testing, and returns the created paths.
func WriteTree(dir string, count int) ([]string, error) {
	sub := filepath.Join(dir, "subfolder")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create fixture directory: %w", err)
	}

	var created []string
	for i := 1; i <= count; i++ {
		for _, format := range treeFormats {
			name := fmt.Sprintf("test_image_%d.%s", i, format.Extension())
			path := filepath.Join(dir, name)
			caption := fmt.Sprintf("Test Image %d - %s", i, format)
			if err := write(path, format, TestImage(400, 300, caption)); err != nil {
				return created, err
			}
			created = append(created, path)
		}
	}

	for i := 1; i <= 2; i++ {
		for _, format := range treeFormats[:2] {
			name := fmt.Sprintf("subtest_image_%d.%s", i, format.Extension())
			path := filepath.Join(sub, name)
			caption := fmt.Sprintf("Subfolder Test %d - %s", i, format)
			if err := write(path, format, TestImage(400, 300, caption)); err != nil {
				return created, err
			}
			created = append(created, path)
		}
	}

	return created, nil
}

func write(path string, format convert.Format, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create fixture file: %w", err)
	}
	defer f.Close()

	if err := convert.Encode(f, img, format, convert.DefaultQuality); err != nil {
		return fmt.Errorf("failed to encode fixture %s: %w", path, err)
	}
	return nil
}

func drawRect(img *image.NRGBA, r image.Rectangle, fill, outline color.NRGBA, border int) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := fill
			if x < r.Min.X+border || x >= r.Max.X-border ||
				y < r.Min.Y+border || y >= r.Max.Y-border {
				c = outline
			}
			img.SetNRGBA(x, y, c)
		}
	}
}

func drawEllipse(img *image.NRGBA, r image.Rectangle, fill, outline color.NRGBA, border int) {
	cx := float64(r.Min.X+r.Max.X) / 2
	cy := float64(r.Min.Y+r.Max.Y) / 2
	rx := float64(r.Dx()) / 2
	ry := float64(r.Dy()) / 2
	if rx <= 0 || ry <= 0 {
		return
	}
	irx := rx - float64(border)
	iry := ry - float64(border)

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dx := (float64(x) + 0.5 - cx) / rx
			dy := (float64(y) + 0.5 - cy) / ry
			if dx*dx+dy*dy > 1 {
				continue
			}
			c := outline
			if irx > 0 && iry > 0 {
				ix := (float64(x) + 0.5 - cx) / irx
				iy := (float64(y) + 0.5 - cy) / iry
				if ix*ix+iy*iy <= 1 {
					c = fill
				}
			}
			img.SetNRGBA(x, y, c)
		}
	}
}

func drawCaption(img *image.NRGBA, text string, cx, cy int) {
	if text == "" {
		return
	}

	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, A: 255}),
		Face: face,
	}
	w := d.MeasureString(text).Ceil()
	d.Dot = fixed.P(cx-w/2, cy+face.Metrics().Ascent.Ceil()/2)
	d.DrawString(text)
}
