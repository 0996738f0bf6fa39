// Package fonts resolves font faces through an ordered fallback chain.
//
// Resolution never fails: an explicit path is tried first, then the bundled
// fonts, then fonts found in the operating system's font directories, and
// finally the Go Regular face compiled into the binary.
package fonts

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/flopp/go-findfont"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// BuiltinSource is the Source of faces backed by the embedded default font.
const BuiltinSource = "builtin:goregular"

// Chain is the ordered fallback list. It is immutable once built and may be
// shared by any number of resolvers.
type Chain struct {
	baseDir string
	bundled []string
	system  []string
}

// NewChain builds a chain. Bundled paths are relative to baseDir; system
// entries are font file names looked up in the platform font directories.
func NewChain(baseDir string, bundled, system []string) *Chain {
	return &Chain{
		baseDir: baseDir,
		bundled: append([]string(nil), bundled...),
		system:  append([]string(nil), system...),
	}
}

// BaseDir returns the directory explicit and bundled paths are joined to.
func (c *Chain) BaseDir() string { return c.baseDir }

func (c *Chain) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.baseDir, p)
}

// Face is a font face at a fixed pixel size together with the metrics the
// layout engine needs.
type Face struct {
	face   font.Face
	size   float64
	source string
}

// Face returns the underlying x/image face for drawing.
func (f *Face) Face() font.Face { return f.face }

// Size returns the nominal pixel size.
func (f *Face) Size() float64 { return f.size }

// Source returns the path the face was loaded from, or BuiltinSource.
func (f *Face) Source() string { return f.source }

// Advance returns the horizontal advance of r in pixels.
func (f *Face) Advance(r rune) float64 {
	adv, _ := f.face.GlyphAdvance(r)
	return toFloat(adv)
}

// Ascent returns the distance from the top of the line to the baseline.
func (f *Face) Ascent() float64 {
	return toFloat(f.face.Metrics().Ascent)
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// Resolver loads faces using a Chain.
type Resolver struct {
	chain  *Chain
	logger *log.Logger
}

// NewResolver returns a resolver over chain. A nil logger discards output.
func NewResolver(chain *Chain, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{chain: chain, logger: logger}
}

// Resolve returns a face for path at size pixels. It always returns a usable
// face; identical inputs and filesystem state give the same choice.
func (r *Resolver) Resolve(path string, size float64) *Face {
	if size < 1 {
		size = 1
	}
	if path != "" {
		if f := r.try(r.chain.resolve(path), "explicit", size); f != nil {
			return f
		}
	}
	for _, p := range r.chain.bundled {
		full := r.chain.resolve(p)
		if _, err := os.Stat(full); err != nil {
			continue
		}
		if f := r.try(full, "bundled", size); f != nil {
			return f
		}
	}
	for _, name := range r.chain.system {
		full, err := findfont.Find(name)
		if err != nil {
			continue
		}
		if f := r.try(full, "system", size); f != nil {
			return f
		}
	}
	return Builtin(size)
}

func (r *Resolver) try(path, stage string, size float64) *Face {
	f, err := loadFile(path, size)
	if err != nil {
		r.logger.Debug("font unusable", "stage", stage, "path", path, "err", err)
		return nil
	}
	return f
}

// Builtin returns the embedded Go Regular face at size.
func Builtin(size float64) *Face {
	if f, err := parse(goregular.TTF, size, BuiltinSource); err == nil {
		return f
	}
	return &Face{face: basicfont.Face7x13, size: 13, source: "builtin:basic"}
}

func loadFile(path string, size float64) (*Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(data, size, path)
}

// parse accepts single fonts as well as TTC/OTC collections, in which case the
// first face is used.
func parse(data []byte, size float64, source string) (*Face, error) {
	coll, err := sfnt.ParseCollection(data)
	if err != nil {
		return nil, err
	}
	fnt, err := coll.Font(0)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	return &Face{face: face, size: size, source: source}, nil
}

type faceKey struct {
	path string
	size float64
}

// FaceSet memoizes faces for the lifetime of one render so that measuring and
// drawing a field use the very same face. It is not safe for concurrent use.
type FaceSet struct {
	resolver *Resolver
	faces    map[faceKey]*Face
}

// NewFaceSet returns an empty set backed by r.
func NewFaceSet(r *Resolver) *FaceSet {
	return &FaceSet{resolver: r, faces: make(map[faceKey]*Face)}
}

// Face returns the face for path at size, resolving it on first use.
func (s *FaceSet) Face(path string, size float64) *Face {
	k := faceKey{path, size}
	if f, ok := s.faces[k]; ok {
		return f
	}
	f := s.resolver.Resolve(path, size)
	s.faces[k] = f
	return f
}
