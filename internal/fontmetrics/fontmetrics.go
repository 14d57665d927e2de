// Package fontmetrics implements the font-metrics collaborator used by
// layout and the display-list consumer: text advance widths and line
// heights over the embedded Go fonts, with a bitmap-font fallback when
// a face cannot be constructed.
//
// Spec references:
// - CSS 2.1 §15 Fonts: https://www.w3.org/TR/CSS21/fonts.html
// - CSS 2.1 §10.8 Line height calculations
package fontmetrics

import (
	"strconv"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// lineHeightFactor is the 'normal' line-height multiplier
// (CSS 2.1 §10.8.1 recommends a value between 1.0 and 1.2).
const lineHeightFactor = 1.2

// basicFaceHeight is the pixel height basicfont.Face7x13 was designed
// at, used to scale its fixed advance to other font sizes.
const basicFaceHeight = 13.0

var (
	parsedFonts struct {
		regular, bold, italic, boldItalic, mono *opentype.Font
	}
	parseOnce sync.Once
	parseErr  error
)

// loadFonts parses the embedded Go fonts once; they ship in the binary
// so this can only fail on a corrupted build.
func loadFonts() error {
	parseOnce.Do(func() {
		parse := func(ttf []byte) *opentype.Font {
			if parseErr != nil {
				return nil
			}
			f, err := opentype.Parse(ttf)
			if err != nil {
				parseErr = err
				return nil
			}
			return f
		}
		parsedFonts.regular = parse(goregular.TTF)
		parsedFonts.bold = parse(gobold.TTF)
		parsedFonts.italic = parse(goitalic.TTF)
		parsedFonts.boldItalic = parse(gobolditalic.TTF)
		parsedFonts.mono = parse(gomono.TTF)
	})
	return parseErr
}

// Metrics measures text with cached opentype faces. The zero value is
// not usable; construct with New.
type Metrics struct {
	mu    sync.Mutex
	faces map[string]font.Face
}

// New creates a Metrics with an empty face cache.
func New() *Metrics {
	return &Metrics{faces: make(map[string]font.Face)}
}

// selectFont picks the embedded font for a family/weight/style triple:
// monospace families map to Go Mono, everything else to the Go
// sans-serif in the requested weight and slant.
func selectFont(family string, weight int, style string) *opentype.Font {
	if err := loadFonts(); err != nil {
		return nil
	}
	switch family {
	case "monospace", "courier", "courier new":
		return parsedFonts.mono
	}
	bold := weight >= 600
	italic := style == "italic" || style == "oblique"
	switch {
	case bold && italic:
		return parsedFonts.boldItalic
	case bold:
		return parsedFonts.bold
	case italic:
		return parsedFonts.italic
	default:
		return parsedFonts.regular
	}
}

// Face returns a cached font.Face for the triple at the given pixel
// size, or nil when no face can be built (callers fall back to
// basicfont advances).
func (m *Metrics) Face(family string, weight int, style string, sizePx float64) font.Face {
	key := family + ":" + strconv.Itoa(weight) + ":" + style + ":" + strconv.FormatFloat(sizePx, 'f', 1, 64)
	m.mu.Lock()
	face, ok := m.faces[key]
	m.mu.Unlock()
	if ok {
		return face
	}

	f := selectFont(family, weight, style)
	if f == nil {
		return nil
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil
	}

	m.mu.Lock()
	m.faces[key] = face
	m.mu.Unlock()
	return face
}

// TextWidth implements the collaborator's text_width operation: the sum
// of per-glyph advance widths at the given font size, ignoring control
// characters.
func (m *Metrics) TextWidth(text string, fontSizePx float64) float64 {
	face := m.Face("sans-serif", 400, "normal", fontSizePx)
	if face == nil {
		scale := fontSizePx / basicFaceHeight
		n := 0
		for _, r := range text {
			if r >= 0x20 {
				n++
			}
		}
		return float64(n*basicfont.Face7x13.Advance) * scale
	}

	var width fixed.Int26_6
	for _, r := range text {
		if r < 0x20 || r == 0x7f {
			continue
		}
		advance, ok := face.GlyphAdvance(r)
		if !ok {
			advance = face.Metrics().Height / 2
		}
		width += advance
	}
	return float64(width) / 64
}

// LineHeight implements the collaborator's line_height operation:
// 1.2 times the font size.
func (m *Metrics) LineHeight(fontSizePx float64) float64 {
	return lineHeightFactor * fontSizePx
}
