package imagepkg

import (
	"image"
	"image/color"
	"image/draw"
	"math/rand"

	"github.com/cespare/xxhash/v2"
	"github.com/disintegration/imaging"
)

// DefaultBarcodeData is drawn when the user supplies no barcode source.
const DefaultBarcodeData = "demo"

// BarcodePlaceholder draws a decorative, non-decodable stripe pattern. The
// pattern depends only on data: stripes are 2–7px wide and each is opaque
// black with probability 0.55, otherwise transparent.
func BarcodePlaceholder(data string, width, height int) *image.NRGBA {
	im := imaging.New(width, height, color.NRGBA{255, 255, 255, 0})
	rng := rand.New(rand.NewSource(int64(xxhash.Sum64String(data))))
	black := image.NewUniform(color.NRGBA{0, 0, 0, 255})
	for x := 0; x < width; {
		w := 2 + rng.Intn(6)
		if rng.Float64() < 0.55 {
			draw.Draw(im, image.Rect(x, 0, x+w, height), black, image.Point{}, draw.Src)
		}
		x += w
	}
	return im
}
