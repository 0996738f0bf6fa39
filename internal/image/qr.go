package imagepkg

import (
	"image"

	"github.com/disintegration/imaging"
	qrcode "github.com/skip2/go-qrcode"
)

// QRModulePixels is the native size of one QR module.
const QRModulePixels = 6

// DefaultQRSize is the rendered QR size when a template gives none.
const DefaultQRSize = 280

// GenerateQRImage encodes text at low error correction, black on white with no
// quiet zone, clears the light pixels and scales the result to size×size.
func GenerateQRImage(text string, size int) (*image.NRGBA, error) {
	q, err := qrcode.New(text, qrcode.Low)
	if err != nil {
		return nil, err
	}
	q.DisableBorder = true
	img := ClearLightPixels(q.Image(-QRModulePixels))
	if size > 0 && (img.Bounds().Dx() != size || img.Bounds().Dy() != size) {
		img = imaging.Resize(img, size, size, imaging.NearestNeighbor)
	}
	return img, nil
}

// ClearLightPixels returns a copy of img in which every pixel whose red, green
// and blue are all above 200 is fully transparent white. All other pixels are
// kept as they are, so the code sits on a textured background without a halo.
func ClearLightPixels(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 0; i+3 < len(out.Pix); i += 4 {
		p := out.Pix[i : i+4 : i+4]
		if p[0] > 200 && p[1] > 200 && p[2] > 200 {
			p[0], p[1], p[2], p[3] = 255, 255, 255, 0
		}
	}
	return out
}
