package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

func writeFont(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestResolveExplicitPath(t *testing.T) {
	dir := t.TempDir()
	want := writeFont(t, dir, "fonts/mono.ttf", gomono.TTF)
	r := NewResolver(NewChain(dir, nil, nil), nil)

	f := r.Resolve("fonts/mono.ttf", 24)
	if f.Source() != want {
		t.Errorf("Source() = %q, want %q", f.Source(), want)
	}
	if f.Size() != 24 {
		t.Errorf("Size() = %v, want 24", f.Size())
	}
	if f.Advance('M') <= 0 {
		t.Error("Advance('M') should be positive")
	}
}

func TestResolveFallbackChain(t *testing.T) {
	dir := t.TempDir()
	writeFont(t, dir, "fonts/broken.ttf", []byte("not a font"))
	bundled := writeFont(t, dir, "fonts/regular.ttf", goregular.TTF)

	chain := NewChain(dir, []string{"fonts/missing.ttf", "fonts/broken.ttf", "fonts/regular.ttf"}, nil)
	r := NewResolver(chain, nil)

	tests := []struct {
		name string
		path string
	}{
		{"empty path", ""},
		{"missing explicit", "fonts/nope.ttf"},
		{"corrupt explicit", "fonts/broken.ttf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Resolve(tt.path, 20).Source(); got != bundled {
				t.Errorf("Source() = %q, want %q", got, bundled)
			}
		})
	}
}

func TestResolveBuiltinWhenChainExhausted(t *testing.T) {
	chain := NewChain(t.TempDir(), []string{"fonts/missing.ttf"}, []string{"definitely-not-installed-font.ttf"})
	r := NewResolver(chain, nil)

	f := r.Resolve("missing.ttf", 18)
	if f.Source() != BuiltinSource {
		t.Fatalf("Source() = %q, want %q", f.Source(), BuiltinSource)
	}
	if f.Ascent() <= 0 || f.Ascent() > 18 {
		t.Errorf("Ascent() = %v, want in (0,18]", f.Ascent())
	}
}

func TestResolveDeterministic(t *testing.T) {
	dir := t.TempDir()
	writeFont(t, dir, "a.ttf", goregular.TTF)
	r := NewResolver(NewChain(dir, []string{"a.ttf"}, nil), nil)

	a := r.Resolve("", 30)
	b := r.Resolve("", 30)
	if a.Source() != b.Source() {
		t.Errorf("sources differ: %q vs %q", a.Source(), b.Source())
	}
	for _, c := range "Ab9*" {
		if a.Advance(c) != b.Advance(c) {
			t.Errorf("Advance(%q) differs", c)
		}
	}
}

func TestNewChainCopiesLists(t *testing.T) {
	bundled := []string{"x.ttf"}
	c := NewChain(".", bundled, nil)
	bundled[0] = "y.ttf"
	if c.bundled[0] != "x.ttf" {
		t.Error("chain should not alias the caller's slice")
	}
}

func TestFaceSetReusesFaces(t *testing.T) {
	s := NewFaceSet(NewResolver(NewChain(t.TempDir(), nil, nil), nil))
	a := s.Face("", 24)
	if b := s.Face("", 24); a != b {
		t.Error("same path and size should return the same face")
	}
	if c := s.Face("", 25); a == c {
		t.Error("different sizes should not share a face")
	}
}
