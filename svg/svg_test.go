// Package svg provides tests for SVG parsing and rasterization.
package svg

import (
	"image/color"
	"testing"
)

// TestParseTriangleSVG tests parsing the HN vote arrow triangle.svg
func TestParseTriangleSVG(t *testing.T) {
	// HN's triangle.svg for vote arrows
	svgData := []byte(`<svg height="32" viewBox="0 0 32 16" width="32" xmlns="http://www.w3.org/2000/svg"><path d="m2 27 14-29 14 29z" fill="#999"/></svg>`)

	parsed, err := Parse(svgData)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed == nil {
		t.Fatal("Parse returned nil")
	}

	// Check viewBox
	if parsed.ViewBox == nil || len(parsed.ViewBox) != 4 {
		t.Fatal("ViewBox not parsed correctly")
	}
	if parsed.ViewBox[0] != 0 || parsed.ViewBox[1] != 0 || parsed.ViewBox[2] != 32 || parsed.ViewBox[3] != 16 {
		t.Errorf("ViewBox = %v, want [0 0 32 16]", parsed.ViewBox)
	}

	// Check that we have exactly one path
	if len(parsed.Paths) != 1 {
		t.Errorf("len(Paths) = %d, want 1", len(parsed.Paths))
	}

	// Check fill color (#999 = RGB 153,153,153)
	if parsed.Paths[0].FillColor != (color.RGBA{153, 153, 153, 255}) {
		t.Errorf("FillColor = %v, want {153, 153, 153, 255}", parsed.Paths[0].FillColor)
	}

	// Check that we have 4 points (triangle + close point)
	if len(parsed.Paths[0].Points) != 4 {
		t.Errorf("len(Points) = %d, want 4", len(parsed.Paths[0].Points))
	}

	// Check the triangle vertices
	// m2 27 = moveto (2, 27)
	// 14 -29 = relative lineto (16, -2)
	// 14 29 = relative lineto (30, 27)
	// z = closepath back to (2, 27)
	expectedPoints := [][2]float64{{2, 27}, {16, -2}, {30, 27}, {2, 27}}
	for i, expected := range expectedPoints {
		if i >= len(parsed.Paths[0].Points) {
			break
		}
		got := parsed.Paths[0].Points[i]
		if got[0] != expected[0] || got[1] != expected[1] {
			t.Errorf("Point[%d] = %v, want %v", i, got, expected)
		}
	}
}

// TestParseY18SVG tests parsing the HN y18.svg logo
func TestParseY18SVG(t *testing.T) {
	// HN's y18.svg logo
	svgData := []byte(`<svg height="18" viewBox="4 4 188 188" width="18" xmlns="http://www.w3.org/2000/svg"><path d="m4 4h188v188h-188z" fill="#f60"/><path d="m73.2521756 45.01 22.7478244 47.39130083 22.7478244-47.39130083h19.56569631l-34.32352071 64.48661468v41.49338532h-15.98v-41.49338532l-34.32352071-64.48661468z" fill="#fff"/></svg>`)

	parsed, err := Parse(svgData)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed == nil {
		t.Fatal("Parse returned nil")
	}

	// Check viewBox
	if parsed.ViewBox == nil || len(parsed.ViewBox) != 4 {
		t.Fatal("ViewBox not parsed correctly")
	}
	if parsed.ViewBox[0] != 4 || parsed.ViewBox[1] != 4 || parsed.ViewBox[2] != 188 || parsed.ViewBox[3] != 188 {
		t.Errorf("ViewBox = %v, want [4 4 188 188]", parsed.ViewBox)
	}

	// Check that we have exactly two paths (orange background + white Y)
	if len(parsed.Paths) != 2 {
		t.Errorf("len(Paths) = %d, want 2", len(parsed.Paths))
	}

	// Check first path (orange background square)
	orangePath := parsed.Paths[0]
	// #f60 = RGB 255,102,0
	if orangePath.FillColor != (color.RGBA{255, 102, 0, 255}) {
		t.Errorf("Path[0].FillColor = %v, want {255, 102, 0, 255}", orangePath.FillColor)
	}
	// Should have 5 points for the square (4 corners + close)
	if len(orangePath.Points) != 5 {
		t.Errorf("Path[0] len(Points) = %d, want 5", len(orangePath.Points))
	}

	// Check second path (white Y letter)
	whitePath := parsed.Paths[1]
	// #fff = RGB 255,255,255
	if whitePath.FillColor != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("Path[1].FillColor = %v, want {255, 255, 255, 255}", whitePath.FillColor)
	}
	// Y letter path should have 10 points
	if len(whitePath.Points) != 10 {
		t.Errorf("Path[1] len(Points) = %d, want 10", len(whitePath.Points))
	}
}

// countPixels returns how many raster pixels exactly match c inside the
// rectangle [x0,x1) x [y0,y1).
func countPixels(r *Raster, x0, y0, x1, y1 int, c color.RGBA) int {
	n := 0
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if r.At(x, y) == c {
				n++
			}
		}
	}
	return n
}

// TestRenderTriangle tests that the triangle renders correctly
func TestRenderTriangle(t *testing.T) {
	// HN's triangle.svg
	svgData := []byte(`<svg height="32" viewBox="0 0 32 16" width="32" xmlns="http://www.w3.org/2000/svg"><path d="m2 27 14-29 14 29z" fill="#999"/></svg>`)

	// Render to 10x10 (typical vote arrow size)
	raster, err := Render(svgData, 10, 10)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	gray := color.RGBA{153, 153, 153, 255}
	if countPixels(raster, 0, 0, 10, 10, gray) == 0 {
		t.Error("Triangle was not rendered - no gray pixels found")
	}

	// The triangle apex sits in the middle-top area.
	if countPixels(raster, 10/4, 0, 3*10/4, 10/2, gray) == 0 {
		t.Error("Triangle not centered properly - no gray pixels in center-top area")
	}
}

// TestRenderY18 tests that the Y18 logo renders correctly with both paths
func TestRenderY18(t *testing.T) {
	// HN's y18.svg
	svgData := []byte(`<svg height="18" viewBox="4 4 188 188" width="18" xmlns="http://www.w3.org/2000/svg"><path d="m4 4h188v188h-188z" fill="#f60"/><path d="m73.2521756 45.01 22.7478244 47.39130083 22.7478244-47.39130083h19.56569631l-34.32352071 64.48661468v41.49338532h-15.98v-41.49338532l-34.32352071-64.48661468z" fill="#fff"/></svg>`)

	// Render to 36x36 for better visibility
	raster, err := Render(svgData, 36, 36)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// The orange background square should dominate the raster.
	orange := color.RGBA{255, 102, 0, 255}
	if countPixels(raster, 0, 0, 36, 36, orange) < 36*36/2 {
		t.Error("Y18 background not rendered - too few orange pixels")
	}

	// The white Y paints on top of it.
	white := color.RGBA{255, 255, 255, 255}
	if countPixels(raster, 0, 0, 36, 36, white) == 0 {
		t.Error("Y letter not rendered - no white pixels found")
	}
}

// TestRasterFillPolygon tests the scanline filler directly on a small
// surface: inside pixels fill, outside pixels stay transparent, and
// out-of-bounds writes are ignored.
func TestRasterFillPolygon(t *testing.T) {
	r := NewRaster(8, 8)
	red := color.RGBA{255, 0, 0, 255}
	r.FillPolygon([][2]float64{{1, 1}, {7, 1}, {7, 7}, {1, 7}}, red)

	if r.At(4, 4) != red {
		t.Errorf("At(4,4) = %v, want %v", r.At(4, 4), red)
	}
	if r.At(0, 0) != (color.RGBA{}) {
		t.Errorf("At(0,0) = %v, want transparent", r.At(0, 0))
	}
	if len(r.Pix) != 8*8*4 {
		t.Errorf("len(Pix) = %d, want %d", len(r.Pix), 8*8*4)
	}

	// Spilling past the raster must not panic or wrap.
	r.FillPolygon([][2]float64{{-5, -5}, {20, -5}, {20, 3}, {-5, 3}}, red)
	if r.At(7, 0) != red {
		t.Errorf("At(7,0) = %v, want %v after oversized fill", r.At(7, 0), red)
	}
}

// TestTransformPointsUniformScale tests that uniform scaling is applied
func TestTransformPointsUniformScale(t *testing.T) {
	// A square in viewBox coordinates
	points := [][2]float64{{0, 0}, {100, 0}, {100, 100}, {0, 100}}
	viewBox := []float64{0, 0, 100, 100}

	// Transform to a non-square target (wider than tall)
	transformed := TransformPoints(points, viewBox, 200, 100)

	// With uniform scaling (meet), the shape should be centered and maintain aspect ratio
	// Scale = min(200/100, 100/100) = 1.0
	// OffsetX = (200 - 100*1) / 2 = 50
	// OffsetY = (100 - 100*1) / 2 = 0

	expected := [][2]float64{{50, 0}, {150, 0}, {150, 100}, {50, 100}}
	for i, exp := range expected {
		got := transformed[i]
		if got[0] != exp[0] || got[1] != exp[1] {
			t.Errorf("Point[%d] = %v, want %v", i, got, exp)
		}
	}
}

// TestPathCommandH tests horizontal lineto command
func TestPathCommandH(t *testing.T) {
	svgData := []byte(`<svg viewBox="0 0 100 100"><path d="M0 0 h50 v50 h-50 z" fill="#000"/></svg>`)

	parsed, err := Parse(svgData)
	if err != nil || parsed == nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(parsed.Paths) != 1 {
		t.Fatalf("Expected 1 path, got %d", len(parsed.Paths))
	}

	// Should create a 50x50 square
	// M0 0 = (0, 0)
	// h50 = (50, 0)
	// v50 = (50, 50)
	// h-50 = (0, 50)
	// z = back to (0, 0)
	expected := [][2]float64{{0, 0}, {50, 0}, {50, 50}, {0, 50}, {0, 0}}

	if len(parsed.Paths[0].Points) != len(expected) {
		t.Fatalf("Expected %d points, got %d", len(expected), len(parsed.Paths[0].Points))
	}

	for i, exp := range expected {
		got := parsed.Paths[0].Points[i]
		if got[0] != exp[0] || got[1] != exp[1] {
			t.Errorf("Point[%d] = %v, want %v", i, got, exp)
		}
	}
}

// TestPathCommandV tests vertical lineto command
func TestPathCommandV(t *testing.T) {
	svgData := []byte(`<svg viewBox="0 0 100 100"><path d="M10 10 V60 H60 V10 z" fill="#000"/></svg>`)

	parsed, err := Parse(svgData)
	if err != nil || parsed == nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(parsed.Paths) != 1 {
		t.Fatalf("Expected 1 path, got %d", len(parsed.Paths))
	}

	// M10 10 = (10, 10)
	// V60 = (10, 60)
	// H60 = (60, 60)
	// V10 = (60, 10)
	// z = back to (10, 10)
	expected := [][2]float64{{10, 10}, {10, 60}, {60, 60}, {60, 10}, {10, 10}}

	if len(parsed.Paths[0].Points) != len(expected) {
		t.Fatalf("Expected %d points, got %d", len(expected), len(parsed.Paths[0].Points))
	}

	for i, exp := range expected {
		got := parsed.Paths[0].Points[i]
		if got[0] != exp[0] || got[1] != exp[1] {
			t.Errorf("Point[%d] = %v, want %v", i, got, exp)
		}
	}
}

// TestMultiplePaths tests parsing SVG with multiple path elements
func TestMultiplePaths(t *testing.T) {
	svgData := []byte(`<svg viewBox="0 0 100 100"><path d="M0 0 L50 0 L50 50 L0 50 z" fill="#f00"/><path d="M50 50 L100 50 L100 100 L50 100 z" fill="#00f"/></svg>`)

	parsed, err := Parse(svgData)
	if err != nil || parsed == nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(parsed.Paths) != 2 {
		t.Fatalf("Expected 2 paths, got %d", len(parsed.Paths))
	}

	// First path should be red
	if parsed.Paths[0].FillColor != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("Path[0].FillColor = %v, want red", parsed.Paths[0].FillColor)
	}

	// Second path should be blue
	if parsed.Paths[1].FillColor != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("Path[1].FillColor = %v, want blue", parsed.Paths[1].FillColor)
	}
}
