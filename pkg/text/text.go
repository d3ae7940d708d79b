package text

import (
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Font styles understood by the GraphML writer.
const (
	StylePlain      = "plain"
	StyleBold       = "bold"
	StyleItalic     = "italic"
	StyleBoldItalic = "bolditalic"
)

// Font describes how a label is rendered. Size is in pixels.
type Font struct {
	// Family is written to the GraphML label as given. [Face] measures every
	// family with the Go fonts: monospace and courier families use Go Mono,
	// all others Go Regular in the requested style.
	Family string `toml:"family" json:"family"`
	Size   int    `toml:"size" json:"size"`
	Style  string `toml:"style" json:"style,omitempty"`
}

// StyleOrPlain returns the font style, defaulting to plain.
func (f Font) StyleOrPlain() string {
	if f.Style == "" {
		return StylePlain
	}
	return f.Style
}

// Measurer maps a string and a font to a pixel width and a line height.
// Implementations must be pure: the same input always yields the same output.
type Measurer interface {
	Measure(s string, f Font) (width, height float64)
}

// Fallback estimates used when a face cannot be built.
const (
	charWidthRatio  = 0.55
	lineHeightRatio = 1.2
	dpi             = 72
)

type faceKey struct {
	file string
	size int
}

// Face measures strings with the embedded Go fonts. Families containing
// "mono" or "courier" use Go Mono, everything else uses the proportional Go
// font in the requested style. Safe for concurrent use.
type Face struct {
	mu    sync.Mutex
	fonts map[string]*opentype.Font
	faces map[faceKey]font.Face
}

// NewFace creates a measurer backed by the embedded Go fonts.
func NewFace() *Face {
	return &Face{
		fonts: make(map[string]*opentype.Font),
		faces: make(map[faceKey]font.Face),
	}
}

// Measure implements [Measurer].
func (m *Face) Measure(s string, f Font) (float64, float64) {
	face := m.face(f)
	if face == nil {
		return estimate(s, f)
	}
	width := fixedToFloat(font.MeasureString(face, s))
	height := fixedToFloat(face.Metrics().Height)
	return width, height
}

func (m *Face) face(f Font) font.Face {
	if f.Size <= 0 {
		return nil
	}
	file := fontFile(f)

	m.mu.Lock()
	defer m.mu.Unlock()

	key := faceKey{file: file, size: f.Size}
	if face, ok := m.faces[key]; ok {
		return face
	}

	fnt, ok := m.fonts[file]
	if !ok {
		var err error
		fnt, err = opentype.Parse(ttf[file])
		if err != nil {
			return nil
		}
		m.fonts[file] = fnt
	}

	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(f.Size),
		DPI:     dpi,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil
	}
	m.faces[key] = face
	return face
}

var ttf = map[string][]byte{
	"regular":    goregular.TTF,
	"bold":       gobold.TTF,
	"italic":     goitalic.TTF,
	"bolditalic": gobolditalic.TTF,
	"mono":       gomono.TTF,
}

func fontFile(f Font) string {
	family := strings.ToLower(f.Family)
	if strings.Contains(family, "mono") || strings.Contains(family, "courier") {
		return "mono"
	}
	switch strings.ToLower(f.Style) {
	case StyleBold:
		return "bold"
	case StyleItalic:
		return "italic"
	case StyleBoldItalic:
		return "bolditalic"
	default:
		return "regular"
	}
}

func fixedToFloat[T ~int32](v T) float64 { return float64(v) / 64 }

func estimate(s string, f Font) (float64, float64) {
	size := float64(max(f.Size, 1))
	return float64(utf8.RuneCountInString(s)) * size * charWidthRatio, size * lineHeightRatio
}

// Fixed is a deterministic measurer for tests. Strings found in Widths get
// that exact width; any other string is PerRune wide per rune. Every string
// has the same LineHeight regardless of font.
type Fixed struct {
	Widths     map[string]float64
	PerRune    float64
	LineHeight float64
}

// Measure implements [Measurer].
func (m Fixed) Measure(s string, _ Font) (float64, float64) {
	if w, ok := m.Widths[s]; ok {
		return w, m.LineHeight
	}
	return float64(utf8.RuneCountInString(s)) * m.PerRune, m.LineHeight
}

var (
	_ Measurer = (*Face)(nil)
	_ Measurer = Fixed{}
)
