package ticket

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/youruser/ticketapp/internal/errors"
	"github.com/youruser/ticketapp/internal/layout"
)

const (
	templatePrefix = "ticket_template_"
	templateExt    = ".json"
)

// Catalog lists the ticket styles available in a template directory. A style
// "red15" is stored as ticket_template_red15.json.
type Catalog struct {
	dir    string
	decode DecodeOptions
}

// NewCatalog returns a catalog over dir.
func NewCatalog(dir string, opts DecodeOptions) *Catalog {
	return &Catalog{dir: dir, decode: opts}
}

// Dir is the template directory; it is also the asset directory templates
// resolve their images against.
func (c *Catalog) Dir() string { return c.dir }

// Styles returns the available style names, sorted.
func (c *Catalog) Styles() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAssetNotFound, err, "reading template dir %s", c.dir)
	}
	styles := []string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, templatePrefix) || !strings.HasSuffix(name, templateExt) {
			continue
		}
		if s := strings.TrimSuffix(strings.TrimPrefix(name, templatePrefix), templateExt); s != "" {
			styles = append(styles, s)
		}
	}
	sort.Strings(styles)
	return styles, nil
}

// TemplatePath returns the template file for style.
func (c *Catalog) TemplatePath(style string) (string, error) {
	if style == "" || strings.ContainsAny(style, `/\`) || strings.Contains(style, "..") {
		return "", errors.New(errors.ErrCodeInvalidInput, "invalid style %q", style)
	}
	p := filepath.Join(c.dir, templatePrefix+style+templateExt)
	if _, err := os.Stat(p); err != nil {
		return "", errors.Wrap(errors.ErrCodeStyleNotFound, err, "style %q", style)
	}
	return p, nil
}

// Load decodes the template for style.
func (c *Catalog) Load(style string) (*Template, error) {
	p, err := c.TemplatePath(style)
	if err != nil {
		return nil, err
	}
	return LoadTemplate(p, c.decode)
}

// Fields returns the user data keys a style reads, sorted: plain text keys,
// segment placeholders and repeat counts, the ticket kind for circle text and
// the barcode source.
func (c *Catalog) Fields(style string) ([]string, error) {
	t, err := c.Load(style)
	if err != nil {
		return nil, err
	}
	return UserKeys(t), nil
}

// UserKeys returns the user data keys t reads, sorted and without duplicates.
func UserKeys(t *Template) []string {
	set := make(map[string]bool)
	for _, f := range t.Fields {
		switch f := f.(type) {
		case *PlainText:
			set[f.Name()] = true
		case *SegmentedText:
			for _, seg := range f.Segments {
				if seg.RepeatChar != nil && seg.RepeatCountKey != "" {
					set[seg.RepeatCountKey] = true
					continue
				}
				for _, k := range layout.Placeholders(seg.Text) {
					set[k] = true
				}
			}
		case *CircleText:
			set[KeyTicketKind] = true
		case *Barcode:
			set[KeyBarcodeData] = true
		}
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
