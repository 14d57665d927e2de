// Scanline rasterization onto a packed RGBA surface.
package svg

import (
	"image/color"
	"math"
	"sort"
)

// Raster is the surface the scanline filler draws into: tightly packed
// RGBA bytes, row-major, 4 bytes per pixel — the same pixel layout the
// image-decoder collaborator returns, so a rendered SVG can be handed
// over without a conversion pass.
type Raster struct {
	Width  int
	Height int
	Pix    []byte
}

// NewRaster creates a fully transparent raster of the given size.
func NewRaster(width, height int) *Raster {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Raster{Width: width, Height: height, Pix: make([]byte, width*height*4)}
}

// SetRGBA writes one pixel; out-of-bounds coordinates are ignored.
func (r *Raster) SetRGBA(x, y int, c color.RGBA) {
	if x < 0 || x >= r.Width || y < 0 || y >= r.Height {
		return
	}
	i := (y*r.Width + x) * 4
	r.Pix[i] = c.R
	r.Pix[i+1] = c.G
	r.Pix[i+2] = c.B
	r.Pix[i+3] = c.A
}

// At reads one pixel back; out-of-bounds coordinates read as transparent.
func (r *Raster) At(x, y int) color.RGBA {
	if x < 0 || x >= r.Width || y < 0 || y >= r.Height {
		return color.RGBA{}
	}
	i := (y*r.Width + x) * 4
	return color.RGBA{R: r.Pix[i], G: r.Pix[i+1], B: r.Pix[i+2], A: r.Pix[i+3]}
}

// polyEdge is one non-horizontal polygon edge, normalized top-down so
// the scanline test is a single half-open range check.
type polyEdge struct {
	topY    float64
	bottomY float64
	topX    float64
	slope   float64 // dx/dy
}

func buildEdges(points [][2]float64) (edges []polyEdge, minY, maxY float64) {
	minY, maxY = points[0][1], points[0][1]
	for i, p := range points {
		q := points[(i+1)%len(points)]
		if p[1] < minY {
			minY = p[1]
		}
		if p[1] > maxY {
			maxY = p[1]
		}
		if p[1] == q[1] {
			// Horizontal edges never cross a scanline.
			continue
		}
		top, bottom := p, q
		if bottom[1] < top[1] {
			top, bottom = bottom, top
		}
		edges = append(edges, polyEdge{
			topY:    top[1],
			bottomY: bottom[1],
			topX:    top[0],
			slope:   (bottom[0] - top[0]) / (bottom[1] - top[1]),
		})
	}
	return edges, minY, maxY
}

// FillPolygon rasterizes a closed polygon with the even-odd scanline
// rule: each row is sampled at its pixel center, the x crossings of the
// edges active at that height are sorted, and the pixels whose centers
// fall between alternating crossing pairs are filled.
//
// Reference: Computer Graphics: Principles and Practice (Foley et al.),
// polygon fill algorithms.
func (r *Raster) FillPolygon(points [][2]float64, c color.RGBA) {
	if len(points) < 3 {
		return
	}
	edges, minY, maxY := buildEdges(points)
	if len(edges) == 0 {
		return
	}

	yStart := int(math.Floor(minY))
	if yStart < 0 {
		yStart = 0
	}
	yEnd := int(math.Ceil(maxY))
	if yEnd > r.Height {
		yEnd = r.Height
	}

	var crossings []float64
	for y := yStart; y < yEnd; y++ {
		sy := float64(y) + 0.5
		crossings = crossings[:0]
		for _, e := range edges {
			if sy < e.topY || sy >= e.bottomY {
				continue
			}
			crossings = append(crossings, e.topX+(sy-e.topY)*e.slope)
		}
		sort.Float64s(crossings)
		for i := 0; i+1 < len(crossings); i += 2 {
			// Fill the pixels whose centers lie inside the span.
			x0 := int(math.Ceil(crossings[i] - 0.5))
			x1 := int(math.Floor(crossings[i+1] - 0.5))
			for x := x0; x <= x1; x++ {
				r.SetRGBA(x, y, c)
			}
		}
	}
}

// TransformPoints maps points from viewBox coordinates into a target
// raster using uniform scaling with the aspect ratio preserved (the
// default preserveAspectRatio="xMidYMid meet" of SVG 1.1 §7.8): the
// content is scaled by the smaller axis factor and centered on the
// other axis.
func TransformPoints(points [][2]float64, viewBox []float64, targetWidth, targetHeight int) [][2]float64 {
	if len(viewBox) != 4 || viewBox[2] <= 0 || viewBox[3] <= 0 {
		return points
	}
	scaleX := float64(targetWidth) / viewBox[2]
	scaleY := float64(targetHeight) / viewBox[3]
	scale := math.Min(scaleX, scaleY)
	offsetX := (float64(targetWidth) - viewBox[2]*scale) / 2
	offsetY := (float64(targetHeight) - viewBox[3]*scale) / 2

	transformed := make([][2]float64, len(points))
	for i, p := range points {
		transformed[i] = [2]float64{
			(p[0]-viewBox[0])*scale + offsetX,
			(p[1]-viewBox[1])*scale + offsetY,
		}
	}
	return transformed
}
