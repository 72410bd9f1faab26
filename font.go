package bramble

import (
	"bytes"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Font is a parsed TrueType/OpenType face source. Fonts are immutable and
// shared by reference; sized faces are created on demand and cached.
type Font struct {
	source *text.GoTextFaceSource
	path   string
	family string
	faces  map[float64]*text.GoTextFace
}

// NewFontFromBytes parses TTF/OTF data. name is recorded as the font's source.
func NewFontFromBytes(data []byte, name string) (*Font, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("bramble: failed to parse font %q: %w", name, err)
	}
	return &Font{
		source: src,
		path:   name,
		family: src.Metadata().Family,
		faces:  make(map[float64]*text.GoTextFace),
	}, nil
}

// LoadFont reads and parses a font file.
func LoadFont(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bramble: failed to read font: %w", err)
	}
	return NewFontFromBytes(data, path)
}

var defaultFont *Font

// DefaultFont returns the built-in Go Regular font.
func DefaultFont() *Font {
	if defaultFont == nil {
		f, err := NewFontFromBytes(goregular.TTF, "goregular")
		if err != nil {
			panic("bramble: embedded font failed to parse: " + err.Error())
		}
		defaultFont = f
	}
	return defaultFont
}

// Family returns the font family name from the font's metadata.
func (f *Font) Family() string { return f.family }

// Source returns the path or name the font was loaded from.
func (f *Font) Source() string { return f.path }

// Face returns a face at the given pixel size.
func (f *Font) Face(size float64) *text.GoTextFace {
	if face, ok := f.faces[size]; ok {
		return face
	}
	face := &text.GoTextFace{Source: f.source, Size: size}
	f.faces[size] = face
	return face
}

// LineHeight returns the distance between baselines at size.
func (f *Font) LineHeight(size float64) float64 {
	m := f.Face(size).Metrics()
	return m.HAscent + m.HDescent + m.HLineGap
}

// Measure returns the width and height of s rendered at size.
func (f *Font) Measure(s string, size float64) (w, h float64) {
	if s == "" {
		return 0, 0
	}
	return text.Measure(s, f.Face(size), f.LineHeight(size))
}
