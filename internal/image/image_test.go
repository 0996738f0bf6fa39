package imagepkg

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/fogleman/gg"

	"github.com/youruser/ticketapp/internal/fonts"
)

func alphaAt(img image.Image, x, y int) uint32 {
	_, _, _, a := img.At(x, y).RGBA()
	return a
}

func TestGenerateQRImage(t *testing.T) {
	img, err := GenerateQRImage("26123456202405012627", 280)
	if err != nil {
		t.Fatalf("GenerateQRImage() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 280 || b.Dy() != 280 {
		t.Fatalf("size = %v, want 280x280", b.Size())
	}

	var clear, opaque int
	for i := 0; i < len(img.Pix); i += 4 {
		switch img.Pix[i+3] {
		case 0:
			clear++
		case 255:
			opaque++
			if img.Pix[i] > 200 {
				t.Fatalf("opaque pixel is light: %v", img.Pix[i:i+4])
			}
		default:
			t.Fatalf("partially transparent pixel %v", img.Pix[i:i+4])
		}
	}
	if clear == 0 || opaque == 0 {
		t.Errorf("clear=%d opaque=%d, want both present", clear, opaque)
	}
}

func TestGenerateQRImageNativeSize(t *testing.T) {
	img, err := GenerateQRImage("x", 0)
	if err != nil {
		t.Fatal(err)
	}
	// Version 1 is 21 modules wide and no border is added.
	if got := img.Bounds().Dx(); got != 21*QRModulePixels {
		t.Errorf("native width = %d, want %d", got, 21*QRModulePixels)
	}
}

func TestClearLightPixels(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 5, 1))
	px := []color.NRGBA{
		{255, 255, 255, 255}, // white
		{201, 201, 201, 255}, // just above threshold
		{200, 255, 255, 255}, // one channel at threshold
		{0, 0, 0, 255},       // black
		{128, 128, 128, 255}, // anti-aliased edge
	}
	for x, c := range px {
		src.SetNRGBA(x, 0, c)
	}

	out := ClearLightPixels(src)
	wantAlpha := []uint8{0, 0, 255, 255, 255}
	for x, want := range wantAlpha {
		got := out.NRGBAAt(x, 0)
		if got.A != want {
			t.Errorf("pixel %d alpha = %d, want %d", x, got.A, want)
		}
		if want == 255 && got != px[x] {
			t.Errorf("pixel %d changed: %v -> %v", x, px[x], got)
		}
	}
	if src.NRGBAAt(0, 0).A != 255 {
		t.Error("source image was modified")
	}
}

func TestBarcodePlaceholderDeterministic(t *testing.T) {
	a := BarcodePlaceholder("E12345678", 300, 60)
	b := BarcodePlaceholder("E12345678", 300, 60)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("same data should give identical stripes")
	}
	c := BarcodePlaceholder("E12345679", 300, 60)
	if bytes.Equal(a.Pix, c.Pix) {
		t.Error("different data should give different stripes")
	}
}

func TestBarcodePlaceholderPixels(t *testing.T) {
	img := BarcodePlaceholder(DefaultBarcodeData, 400, 10)
	var black, clear int
	for x := 0; x < 400; x++ {
		top, bottom := img.NRGBAAt(x, 0), img.NRGBAAt(x, 9)
		if top != bottom {
			t.Fatalf("column %d is not a full-height stripe", x)
		}
		switch top {
		case color.NRGBA{0, 0, 0, 255}:
			black++
		case color.NRGBA{255, 255, 255, 0}:
			clear++
		default:
			t.Fatalf("unexpected pixel %v", top)
		}
	}
	if black == 0 || clear == 0 {
		t.Errorf("black=%d clear=%d, want both", black, clear)
	}
}

func TestBarcodePlaceholderEmpty(t *testing.T) {
	if img := BarcodePlaceholder("x", 0, 10); img.Bounds().Dx() != 0 {
		t.Error("zero width should give an empty image")
	}
}

func TestDashedRect(t *testing.T) {
	dc := gg.NewContext(100, 100)
	DashedRect(dc, [4]float64{10, 10, 90, 90}, 10, color.Black, 2)
	img := dc.Image()

	tests := []struct {
		name  string
		x, y  int
		inked bool
	}{
		{"top first dash", 15, 10, true},
		{"top first gap", 25, 10, false},
		{"top second dash", 35, 10, true},
		{"bottom first dash", 15, 90, true},
		{"left first dash", 10, 15, true},
		{"left first gap", 10, 25, false},
		{"right first dash", 90, 15, true},
		{"interior", 50, 50, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := alphaAt(img, tt.x, tt.y) > 0; got != tt.inked {
				t.Errorf("pixel (%d,%d) inked = %v, want %v", tt.x, tt.y, got, tt.inked)
			}
		})
	}
}

func TestHalfArrow(t *testing.T) {
	tests := []struct {
		dir     Direction
		origin  gg.Point
		inside  image.Point
		outside image.Point
	}{
		{Right, gg.Point{X: 40, Y: 50}, image.Pt(45, 50), image.Pt(35, 50)},
		{Left, gg.Point{X: 40, Y: 50}, image.Pt(45, 50), image.Pt(65, 50)},
		{Up, gg.Point{X: 50, Y: 40}, image.Pt(50, 45), image.Pt(50, 65)},
		{Down, gg.Point{X: 50, Y: 40}, image.Pt(50, 55), image.Pt(50, 35)},
	}
	for _, tt := range tests {
		t.Run(string(tt.dir), func(t *testing.T) {
			dc := gg.NewContext(100, 100)
			HalfArrow(dc, tt.origin.X, tt.origin.Y, 20, 10, tt.dir, color.Black)
			img := dc.Image()
			if alphaAt(img, tt.inside.X, tt.inside.Y) == 0 {
				t.Errorf("pixel %v should be inside the arrow", tt.inside)
			}
			if alphaAt(img, tt.outside.X, tt.outside.Y) != 0 {
				t.Errorf("pixel %v should be outside the arrow", tt.outside)
			}
		})
	}

	t.Run("unknown direction", func(t *testing.T) {
		dc := gg.NewContext(20, 20)
		HalfArrow(dc, 0, 10, 20, 10, "diagonal", color.Black)
		if alphaAt(dc.Image(), 15, 10) != 0 {
			t.Error("unknown direction should draw nothing")
		}
	})
}

func TestLine(t *testing.T) {
	dc := gg.NewContext(50, 50)
	Line(dc, [2]float64{5, 20}, [2]float64{45, 20}, color.Black, 3)
	img := dc.Image()
	if alphaAt(img, 25, 20) == 0 {
		t.Error("line should cover its midpoint")
	}
	if alphaAt(img, 25, 30) != 0 {
		t.Error("line should not cover pixels far from it")
	}
}

func TestCircleRadius(t *testing.T) {
	face := fonts.Builtin(40)
	adv := face.Advance('W')
	want := float64(int(max(adv, 40)/2 + DefaultCirclePadding))
	if got := CircleRadius(face, 'W', 0); got != want {
		t.Errorf("CircleRadius() = %v, want %v", got, want)
	}
	if got := CircleRadius(face, 'W', 12); got != 12 {
		t.Errorf("explicit radius = %v, want 12", got)
	}
}

func TestCircleCluster(t *testing.T) {
	face := fonts.Builtin(20)
	style := CircleStyle{Fill: color.Black, Spacing: 10, Width: 2, Anchor: "ma"}

	dc := gg.NewContext(200, 60)
	total := CircleCluster(dc, 100, 30, "AB", face, style)

	ra := CircleRadius(face, 'A', 0)
	rb := CircleRadius(face, 'B', 0)
	if want := 2*ra + 2*rb + 10; total != want {
		t.Fatalf("total = %v, want %v", total, want)
	}
	img := dc.Image()
	left := int(100 - total/2)
	// The leftmost outline touches the group's left edge.
	if alphaAt(img, left+1, 30) == 0 {
		t.Errorf("expected outline near x=%d", left+1)
	}
	// The gap between the circles stays empty.
	gap := int(100 - total/2 + 2*ra + 5)
	if alphaAt(img, gap, 30) != 0 {
		t.Errorf("expected empty gap at x=%d", gap)
	}

	if got := CircleCluster(gg.NewContext(10, 10), 5, 5, "", face, style); got != 0 {
		t.Errorf("empty text width = %v, want 0", got)
	}
}

func TestNewCanvasDropsAlpha(t *testing.T) {
	bg := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	bg.SetNRGBA(1, 1, color.NRGBA{10, 20, 30, 0})

	dc := NewCanvas(bg)
	if dc.Width() != 4 || dc.Height() != 3 {
		t.Fatalf("canvas = %dx%d, want 4x3", dc.Width(), dc.Height())
	}
	r, g, b, a := dc.Image().At(1, 1).RGBA()
	if a != 0xffff {
		t.Errorf("alpha = %d, want opaque", a)
	}
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("color = (%d,%d,%d), want (10,20,30)", r>>8, g>>8, b>>8)
	}
}

func TestScale(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 4))
	if got := Scale(img, 1); got != image.Image(img) {
		t.Error("factor 1 should return the image unchanged")
	}
	if got := Scale(img, 0.5).Bounds().Size(); got != image.Pt(5, 2) {
		t.Errorf("Scale(0.5) = %v, want 5x2", got)
	}
	if got := Scale(img, 0.01).Bounds().Size(); got != image.Pt(1, 1) {
		t.Errorf("Scale(0.01) = %v, want 1x1", got)
	}
}

func TestPasteCentered(t *testing.T) {
	dc := gg.NewContext(20, 20)
	sq := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range sq.Pix {
		sq.Pix[i] = 255
	}
	PasteCentered(dc, sq, 10, 10)
	img := dc.Image()
	if alphaAt(img, 8, 8) == 0 || alphaAt(img, 11, 11) == 0 {
		t.Error("square should cover (8,8)..(11,11)")
	}
	if alphaAt(img, 7, 7) != 0 || alphaAt(img, 12, 12) != 0 {
		t.Error("square should not extend beyond its 4x4 box")
	}
}
