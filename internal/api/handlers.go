package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"

	"github.com/youruser/ticketapp/internal/errors"
	"github.com/youruser/ticketapp/internal/layout"
	"github.com/youruser/ticketapp/internal/ticket"
)

// DefaultStyle is rendered when a generate request names no style.
const DefaultStyle = "red15"

// Handler serves the ticket API from a template catalog.
type Handler struct {
	catalog  *ticket.Catalog
	renderer *ticket.Renderer
	logger   *log.Logger
}

// NewHandler returns a handler rendering catalog styles with renderer.
func NewHandler(catalog *ticket.Catalog, renderer *ticket.Renderer, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Handler{catalog: catalog, renderer: renderer, logger: logger}
}

func (h *Handler) health(c *gin.Context) {
	styles, err := h.catalog.Styles()
	if err != nil {
		h.logger.Warn("listing styles", "err", err)
		styles = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "available_styles": styles})
}

func (h *Handler) styles(c *gin.Context) {
	styles, err := h.catalog.Styles()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "styles": styles, "count": len(styles)})
}

type fieldInfo struct {
	Key      string           `json:"key"`
	Type     string           `json:"type"`
	X        *float64         `json:"x"`
	Y        *float64         `json:"y"`
	Anchor   string           `json:"anchor,omitempty"`
	Segments []layout.Segment `json:"segments"`
}

// template describes a style's canvas and fields in drawing order, with the
// positions and segments a client needs to lay out an input form.
func (h *Handler) template(c *gin.Context) {
	style := c.Param("style")
	t, err := h.catalog.Load(style)
	if err != nil {
		h.fail(c, err)
		return
	}
	fields := make([]fieldInfo, 0, len(t.Fields))
	for _, f := range t.Fields {
		fields = append(fields, describeField(f))
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"style":   style,
		"canvas":  gin.H{"background": t.Background},
		"fields":  fields,
	})
}

// fields lists the user data keys a style reads.
func (h *Handler) fields(c *gin.Context) {
	style := c.Param("style")
	keys, err := h.catalog.Fields(style)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "style": style, "fields": keys, "field_count": len(keys)})
}

// MaxBatchSize caps the tickets in one batch request.
const MaxBatchSize = 10

type generateRequest struct {
	UserData map[string]any `json:"user_data"`
	Style    string         `json:"style"`
	Format   string         `json:"format"`
}

type batchRequest struct {
	Tickets []map[string]any `json:"tickets"`
	Style   string           `json:"style"`
	Format  string           `json:"format"`
}

type batchResult struct {
	Index   int    `json:"index"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    gin.H  `json:"data,omitempty"`
}

// bindJSON decodes the request body keeping numbers in their literal form,
// the same way the CLI reads user data files.
func bindJSON(c *gin.Context, v any) error {
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding request")
	}
	return nil
}

func (h *Handler) generate(c *gin.Context) {
	var req generateRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if req.Style == "" {
		req.Style = DefaultStyle
	}
	if req.Format == "" {
		req.Format = "base64"
	}
	if req.Format != "base64" && req.Format != "file" {
		h.fail(c, errors.New(errors.ErrCodeInvalidInput, "unknown format %q", req.Format))
		return
	}
	path, err := h.catalog.TemplatePath(req.Style)
	if err != nil {
		h.fail(c, err)
		return
	}
	png, data, err := h.renderPNG(path, req.Style, req.UserData)
	if err != nil {
		h.fail(c, err)
		return
	}

	if req.Format == "file" {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="ticket_%s.png"`, req.Style))
		c.Data(http.StatusOK, "image/png", png)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": pngData(png, req.Style, data)})
}

// batchGenerate renders up to MaxBatchSize tickets of one style. Each ticket
// succeeds or fails on its own; only base64 output is supported.
func (h *Handler) batchGenerate(c *gin.Context) {
	var req batchRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if len(req.Tickets) == 0 {
		h.fail(c, errors.New(errors.ErrCodeInvalidInput, "tickets must be a non-empty array"))
		return
	}
	if len(req.Tickets) > MaxBatchSize {
		h.fail(c, errors.New(errors.ErrCodeInvalidInput, "at most %d tickets per batch, got %d", MaxBatchSize, len(req.Tickets)))
		return
	}
	if req.Style == "" {
		req.Style = DefaultStyle
	}
	if req.Format == "" {
		req.Format = "base64"
	}
	path, err := h.catalog.TemplatePath(req.Style)
	if err != nil {
		h.fail(c, err)
		return
	}

	results := make([]batchResult, 0, len(req.Tickets))
	for i, raw := range req.Tickets {
		res := batchResult{Index: i}
		if req.Format != "base64" {
			res.Error = "batch generation supports base64 output only"
			results = append(results, res)
			continue
		}
		png, data, err := h.renderPNG(path, req.Style, raw)
		if err != nil {
			h.logger.Debug("batch ticket failed", "index", i, "err", err)
			res.Error = err.Error()
		} else {
			res.Success = true
			res.Data = pngData(png, req.Style, data)
		}
		results = append(results, res)
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("processed %d tickets", len(req.Tickets)),
		"results": results,
	})
}

// renderPNG validates raw user data, renders the template at path and encodes
// it as PNG. It returns the flattened data alongside the image.
func (h *Handler) renderPNG(path, style string, raw map[string]any) ([]byte, ticket.UserData, error) {
	data := ticket.Flatten(raw)
	if !data.HasContent() {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "at least one field must be filled in")
	}
	start := time.Now()
	img, err := h.renderer.Render(path, h.catalog.Dir(), raw)
	if err != nil {
		return nil, nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "encoding png")
	}
	h.logger.Info("rendered ticket", "style", style, "bytes", buf.Len(), "took", time.Since(start))
	return buf.Bytes(), data, nil
}

func pngData(png []byte, style string, data ticket.UserData) gin.H {
	return gin.H{
		"image_base64": base64.StdEncoding.EncodeToString(png),
		"format":       "PNG",
		"style":        style,
		"user_data":    data,
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "path", c.FullPath(), "err", err)
	} else {
		h.logger.Debug("request rejected", "path", c.FullPath(), "err", err)
	}
	c.JSON(status, gin.H{"success": false, "code": errors.GetCode(err), "error": err.Error()})
}

func describeField(f ticket.Field) fieldInfo {
	info := fieldInfo{Key: f.Name(), Segments: []layout.Segment{}}
	at := func(x, y float64) { info.X, info.Y = &x, &y }
	switch f := f.(type) {
	case *ticket.PlainText:
		info.Type = "text"
		at(f.X, f.Y)
		info.Anchor = string(f.Anchor)
	case *ticket.SegmentedText:
		info.Type = "segments"
		at(f.X, f.Y)
		info.Anchor = string(f.Anchor)
		info.Segments = f.Segments
	case *ticket.DashedRect:
		info.Type = "dashed_rect"
		at(f.Rect[0], f.Rect[1])
	case *ticket.Arrow:
		info.Type = "arrow"
		at(f.X, f.Y)
	case *ticket.Line:
		info.Type = "line"
		at(f.Start[0], f.Start[1])
	case *ticket.CircleText:
		info.Type = "circle_text"
		at(f.X, f.Y)
		info.Anchor = string(f.Anchor)
	case *ticket.QRCode:
		info.Type = "qrcode"
		at(f.X, f.Y)
	case *ticket.Barcode:
		info.Type = "barcode"
		at(f.X, f.Y)
	default:
		info.Type = "unknown"
	}
	return info
}
