// Package imagedecode implements the image-decoder collaborator: given
// raw bytes plus the image's URL, detect the format (SVG or raster),
// dispatch to the matching decoder, and return RGBA pixels. Decode
// failures carry a cause classification so the image-element handler
// can report them and render the element empty.
package imagedecode

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/wren-browser/wren/svg"
	xdraw "golang.org/x/image/draw"
)

// Kind classifies a decode failure by cause.
type Kind int

const (
	// KindFetch is a failure obtaining the bytes.
	KindFetch Kind = iota
	// KindParse is a malformed or undecodable image payload.
	KindParse
	// KindZeroSize is an image with a zero-area natural size.
	KindZeroSize
	// KindAllocation is a pixel buffer too large to allocate.
	KindAllocation
	// KindUnsupported is a recognized but unsupported format.
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindFetch:
		return "fetch"
	case KindParse:
		return "parse"
	case KindZeroSize:
		return "zero-size"
	case KindAllocation:
		return "allocation"
	case KindUnsupported:
		return "unsupported format"
	default:
		return "unknown"
	}
}

// Error is a classified decode failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("image decode (%s): %v", e.Kind, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// maxPixels bounds the decoded buffer so a hostile image cannot
// exhaust memory (16k x 16k RGBA is already 1 GiB).
const maxPixels = 16384 * 16384

// Decoded is a decoded image: natural size plus tightly packed RGBA
// bytes, row-major, 4 bytes per pixel.
type Decoded struct {
	Width  int
	Height int
	Pixels []byte
}

// Decode sniffs the format and dispatches. strippedURL is the URL with
// query and fragment removed (for extension sniffing); fullURL is the
// original (for data:image/* detection).
func Decode(data []byte, strippedURL, fullURL string) (*Decoded, error) {
	if IsSVG(data, strippedURL, fullURL) {
		return decodeSVG(data)
	}
	return decodeRaster(data)
}

// IsSVG reports whether the payload should go to the SVG decoder: the
// URL extension is .svg, the URL is a data:image/svg resource, or the
// first 256 non-whitespace bytes begin with an XML declaration or an
// <svg root element.
func IsSVG(data []byte, strippedURL, fullURL string) bool {
	if strings.HasSuffix(strings.ToLower(strippedURL), ".svg") {
		return true
	}
	if strings.HasPrefix(fullURL, "data:image/svg") {
		return true
	}
	head := data
	if len(head) > 256 {
		head = head[:256]
	}
	trimmed := strings.TrimLeftFunc(string(head), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	return strings.HasPrefix(trimmed, "<?xml") || strings.HasPrefix(trimmed, "<svg")
}

// decodeRaster decodes PNG/JPEG/GIF via the registered stdlib decoders
// and converts to RGBA.
func decodeRaster(data []byte) (*Decoded, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &Error{Kind: KindParse, Err: err}
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, &Error{Kind: KindZeroSize, Err: fmt.Errorf("natural size %dx%d", w, h)}
	}
	if w*h > maxPixels {
		return nil, &Error{Kind: KindAllocation, Err: fmt.Errorf("%dx%d exceeds pixel budget", w, h)}
	}

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(rgba, rgba.Bounds(), img, b.Min, xdraw.Src)
	return &Decoded{Width: w, Height: h, Pixels: rgba.Pix}, nil
}

// decodeSVG parses and rasterizes an SVG at its viewBox size.
func decodeSVG(data []byte) (*Decoded, error) {
	parsed, err := svg.Parse(data)
	if err != nil {
		return nil, &Error{Kind: KindParse, Err: err}
	}
	if parsed == nil {
		return nil, &Error{Kind: KindUnsupported, Err: fmt.Errorf("no renderable SVG content")}
	}

	w, h := 0, 0
	if len(parsed.ViewBox) == 4 {
		w = int(parsed.ViewBox[2])
		h = int(parsed.ViewBox[3])
	}
	if w <= 0 || h <= 0 {
		return nil, &Error{Kind: KindZeroSize, Err: fmt.Errorf("SVG without a positive viewBox")}
	}
	if w*h > maxPixels {
		return nil, &Error{Kind: KindAllocation, Err: fmt.Errorf("%dx%d exceeds pixel budget", w, h)}
	}

	raster, err := svg.Render(data, w, h)
	if err != nil {
		return nil, &Error{Kind: KindParse, Err: err}
	}
	// The raster's packed RGBA layout is exactly the Decoded contract;
	// no conversion pass is needed.
	return &Decoded{Width: w, Height: h, Pixels: raster.Pix}, nil
}
