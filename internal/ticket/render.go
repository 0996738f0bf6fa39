// Package ticket composes ticket images from a JSON template, a background
// image and user data.
//
// Rendering is a pure function of the template file, the asset directory and
// the user data. Every call owns its canvas and faces, so a Renderer may be
// shared between goroutines.
package ticket

import (
	"image"
	"image/color"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fogleman/gg"

	"github.com/youruser/ticketapp/internal/codec"
	"github.com/youruser/ticketapp/internal/config"
	"github.com/youruser/ticketapp/internal/errors"
	"github.com/youruser/ticketapp/internal/fonts"
	imagepkg "github.com/youruser/ticketapp/internal/image"
	"github.com/youruser/ticketapp/internal/layout"
)

// Options configures a Renderer. A nil Decode.CircleTextKeys selects
// DefaultDecodeOptions; pass an empty slice to turn key routing off.
type Options struct {
	Overlays config.Overlays
	Decode   DecodeOptions
	Logger   *log.Logger
}

// Renderer draws tickets. It holds only read-only configuration.
type Renderer struct {
	fonts    *fonts.Resolver
	overlays config.Overlays
	decode   DecodeOptions
	logger   *log.Logger
}

// NewRenderer returns a renderer that resolves fonts through resolver.
func NewRenderer(resolver *fonts.Resolver, opts Options) *Renderer {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Decode.CircleTextKeys == nil {
		opts.Decode = DefaultDecodeOptions
	}
	return &Renderer{
		fonts:    resolver,
		overlays: opts.Overlays,
		decode:   opts.Decode,
		logger:   logger,
	}
}

// Render loads the template at templatePath and draws it with raw user data.
// The background and overlays are resolved against assetDir. Missing or
// malformed templates and assets are returned as errors; problems with a
// single field's data only blank that field.
func (r *Renderer) Render(templatePath, assetDir string, raw map[string]any) (image.Image, error) {
	data := Flatten(raw)
	t, err := LoadTemplate(templatePath, r.decode)
	if err != nil {
		return nil, err
	}
	return r.RenderTemplate(t, assetDir, data)
}

// RenderTemplate draws an already decoded template.
func (r *Renderer) RenderTemplate(t *Template, assetDir string, data UserData) (image.Image, error) {
	bgPath := filepath.Join(assetDir, t.Background)
	bg, err := imagepkg.LoadImage(bgPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAssetNotFound, err, "loading background %s", bgPath)
	}
	dc := imagepkg.NewCanvas(bg)

	if t.ApplyStamp {
		if err := r.overlay(dc, assetDir, r.overlays.Stamp, r.overlays.StampX, r.overlays.StampY, t.StampScale); err != nil {
			return nil, err
		}
	}
	if t.ApplyArrow {
		if err := r.overlay(dc, assetDir, r.overlays.Arrow, t.ArrowX, t.ArrowY, t.ArrowScale); err != nil {
			return nil, err
		}
	}

	s := &renderState{
		Renderer: r,
		dc:       dc,
		faces:    fonts.NewFaceSet(r.fonts),
		data:     data,
	}
	for _, f := range t.Fields {
		if err := s.draw(f); err != nil {
			return nil, err
		}
	}
	return dc.Image(), nil
}

func (r *Renderer) overlay(dc *gg.Context, assetDir, name string, x, y int, scale float64) error {
	p := filepath.Join(assetDir, name)
	img, err := imagepkg.LoadImage(p)
	if err != nil {
		return errors.Wrap(errors.ErrCodeAssetNotFound, err, "loading overlay %s", p)
	}
	imagepkg.PasteOverlay(dc, img, x, y, scale)
	return nil
}

// renderState is the per-call state of one render.
type renderState struct {
	*Renderer
	dc    *gg.Context
	faces *fonts.FaceSet
	data  UserData
}

func (s *renderState) draw(f Field) error {
	s.logger.Debug("drawing field", "key", f.Name())
	switch f := f.(type) {
	case *DashedRect:
		imagepkg.DashedRect(s.dc, f.Rect, f.DashLength, s.color(f.Name(), f.Fill), f.Width)
	case *Arrow:
		imagepkg.HalfArrow(s.dc, f.X, f.Y, f.Length, f.Height, f.Direction, s.color(f.Name(), f.Fill))
	case *Line:
		imagepkg.Line(s.dc, f.Start, f.End, s.color(f.Name(), f.Fill), f.Width)
	case *CircleText:
		s.drawCircleText(f)
	case *QRCode:
		s.drawQRCode(f)
	case *Barcode:
		src, ok := s.data.Lookup(KeyBarcodeData)
		if !ok {
			src = imagepkg.DefaultBarcodeData
		}
		s.dc.DrawImage(imagepkg.BarcodePlaceholder(src, f.Width, f.Height), int(f.X), int(f.Y))
	case *SegmentedText:
		runs, _ := layout.LayoutSegments(f.Segments, s.data, s.faces, f.X, f.Y, f.Anchor)
		layout.DrawRuns(s.dc, runs)
	case *PlainText:
		text := s.data.Get(f.Name())
		if text == "" {
			return nil
		}
		face := s.faces.Face(f.FontPath, f.Size)
		layout.DrawText(s.dc, text, f.X, f.Y, face, s.color(f.Name(), f.Fill), f.Anchor, f.LetterSpacing, 1)
	default:
		return errors.New(errors.ErrCodeInternal, "field %q has unsupported type %T", f.Name(), f)
	}
	return nil
}

func (s *renderState) drawCircleText(f *CircleText) {
	text := s.data.Get(KeyTicketKind)
	if text == "" {
		return
	}
	var circleFill color.Color
	if f.CircleFill != "" {
		circleFill = s.color(f.Name(), f.CircleFill)
	}
	if f.InheritedStyle {
		s.logger.Debug("circle text style inherited from first segment", "key", f.Name())
	}
	imagepkg.CircleCluster(s.dc, f.X, f.Y, text, s.faces.Face(f.FontPath, f.Size), imagepkg.CircleStyle{
		Fill:       s.color(f.Name(), f.Fill),
		CircleFill: circleFill,
		Spacing:    f.Spacing,
		Radius:     f.Radius,
		Width:      f.Width,
		Anchor:     f.Anchor,
	})
}

func (s *renderState) drawQRCode(f *QRCode) {
	payload := codec.EncodeTicketData(s.data)
	img, err := imagepkg.GenerateQRImage(payload, f.Size)
	if err != nil {
		s.logger.Warn("skipping QR code", "key", f.Name(), "err", err)
		return
	}
	imagepkg.PasteCentered(s.dc, img, int(f.X), int(f.Y))
}

// color parses a field color, falling back to black.
func (s *renderState) color(key, c string) color.Color {
	if v, ok := layout.ParseColor(c); ok {
		return v
	}
	s.logger.Warn("invalid color, using black", "key", key, "color", c)
	return color.Black
}
