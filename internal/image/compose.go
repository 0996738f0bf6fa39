package imagepkg

import (
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// LoadImage decodes the image at path.
func LoadImage(path string) (image.Image, error) {
	return imaging.Open(path)
}

// NewCanvas returns a drawing context over an opaque copy of bg. Any alpha in
// the background is discarded, the way an RGB conversion would.
func NewCanvas(bg image.Image) *gg.Context {
	b := bg.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	src := imaging.Clone(bg)
	for i := 3; i < len(src.Pix); i += 4 {
		src.Pix[i] = 255
	}
	draw.Draw(rgba, rgba.Bounds(), src, image.Point{}, draw.Src)
	return gg.NewContextForRGBA(rgba)
}

// Scale resizes img by factor with bicubic resampling; each side is at least 1px.
func Scale(img image.Image, factor float64) image.Image {
	if factor == 1 {
		return img
	}
	b := img.Bounds()
	w := max(int(float64(b.Dx())*factor), 1)
	h := max(int(float64(b.Dy())*factor), 1)
	return imaging.Resize(img, w, h, imaging.CatmullRom)
}

// PasteOverlay composites img, scaled by factor, with its top-left at (x, y).
func PasteOverlay(dc *gg.Context, img image.Image, x, y int, factor float64) {
	dc.DrawImage(Scale(img, factor), x, y)
}

// PasteCentered composites img centered on (x, y).
func PasteCentered(dc *gg.Context, img image.Image, x, y int) {
	b := img.Bounds()
	dc.DrawImage(img, x-b.Dx()/2, y-b.Dy()/2)
}
