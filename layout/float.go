package layout

import (
	"math"

	"github.com/wren-browser/wren/cascade"
)

// floatContext tracks the floats placed inside one block formatting
// context as absolute margin-box rectangles (CSS 2.1 §9.5).
type floatContext struct {
	placed []placedFloat
}

type placedFloat struct {
	rect Rect
	side cascade.FloatKind
}

func newFloatContext() *floatContext {
	return &floatContext{}
}

// availableSpan returns the horizontal span left free by active floats
// over the vertical band [y, y+h), clipped to the containing block span
// [cbX, cbX+cbW).
func (fc *floatContext) availableSpan(y, h, cbX, cbW float64) (left, right float64) {
	left = cbX
	right = cbX + cbW
	for _, f := range fc.placed {
		if f.rect.Y >= y+h || f.rect.Y+f.rect.Height <= y {
			continue
		}
		if f.side == cascade.FloatLeft {
			if edge := f.rect.X + f.rect.Width; edge > left {
				left = edge
			}
		} else {
			if f.rect.X < right {
				right = f.rect.X
			}
		}
	}
	return left, right
}

// nextBottom returns the lowest float bottom strictly below y, used to
// step the placement scan downward past the floats currently in the way.
func (fc *floatContext) nextBottom(y float64) (float64, bool) {
	next := math.Inf(1)
	for _, f := range fc.placed {
		bottom := f.rect.Y + f.rect.Height
		if bottom > y && bottom < next {
			next = bottom
		}
	}
	if math.IsInf(next, 1) {
		return 0, false
	}
	return next, true
}

// place finds the position for a float with the given outer (margin
// box) size: start at the requested y, scan down to successive float
// bottoms until the available span fits the float's outer width (or the
// float is wider than the containing block, the degenerate case), then
// place as far left or right as possible. Returns the margin-box
// origin, and records the placement.
func (fc *floatContext) place(side cascade.FloatKind, w, h, y, cbX, cbW float64) (float64, float64) {
	for {
		left, right := fc.availableSpan(y, h, cbX, cbW)
		if right-left >= w || w >= cbW {
			var x float64
			if side == cascade.FloatLeft {
				x = left
			} else {
				x = right - w
			}
			fc.placed = append(fc.placed, placedFloat{rect: Rect{X: x, Y: y, Width: w, Height: h}, side: side})
			return x, y
		}
		next, ok := fc.nextBottom(y)
		if !ok {
			// No float below to scan past; take the full span.
			var x float64
			if side == cascade.FloatLeft {
				x = cbX
			} else {
				x = cbX + cbW - w
			}
			fc.placed = append(fc.placed, placedFloat{rect: Rect{X: x, Y: y, Width: w, Height: h}, side: side})
			return x, y
		}
		y = next
	}
}

// clearance returns the y at or below which a box with the given clear
// value may be placed: the maximum bottom edge of the cleared floats
// (CSS 2.1 §9.5.2).
func (fc *floatContext) clearance(kind cascade.ClearKind) float64 {
	y := math.Inf(-1)
	for _, f := range fc.placed {
		match := kind == cascade.ClearBoth ||
			(kind == cascade.ClearLeft && f.side == cascade.FloatLeft) ||
			(kind == cascade.ClearRight && f.side == cascade.FloatRight)
		if match {
			if bottom := f.rect.Y + f.rect.Height; bottom > y {
				y = bottom
			}
		}
	}
	if math.IsInf(y, -1) {
		return -math.MaxFloat64
	}
	return y
}

// bottom returns the lowest bottom edge among all placed floats, or 0
// when none are placed.
func (fc *floatContext) bottom() float64 {
	b := 0.0
	for _, f := range fc.placed {
		if bottom := f.rect.Y + f.rect.Height; bottom > b {
			b = bottom
		}
	}
	return b
}

// layoutFloat lays out a floated child and places its margin box in the
// float context. A float with width:auto shrinks to fit its content
// (CSS 2.1 §10.3.5), approximated by the preferred content width.
func (box *LayoutBox) layoutFloat(ctx *layoutContext, fc *floatContext, child *LayoutBox, startY float64) {
	contentX := box.Dimensions.Content.X
	contentW := box.Dimensions.Content.Width

	cb := Dimensions{Content: Rect{X: contentX, Y: startY, Width: contentW}}
	if child.Style.Width.Auto {
		pref := math.Min(child.preferredWidth(ctx), contentW)
		// preferredWidth is a border-box estimate; border-box sizing lets
		// the width calculation strip the edges back off.
		shrunk := *child.Style
		shrunk.BoxSizing = "border-box"
		shrunk.Width = cascade.AutoLength{Length: cascade.Length{Value: pref, Unit: cascade.UnitPx}}
		orig := child.Style
		child.Style = &shrunk
		child.layout(ctx, cb)
		child.Style = orig
	} else {
		child.layout(ctx, cb)
	}

	// A float's margin box hugs its border box: undo the block width
	// rule's underflow absorption so the outer width reflects only the
	// specified margins (auto computes to zero on floats).
	fs := child.fontSizePx()
	child.Dimensions.Margin.Left, _ = resolveAutoZero(ctx, child.Style.MarginLeft, fs, contentW)
	child.Dimensions.Margin.Right, _ = resolveAutoZero(ctx, child.Style.MarginRight, fs, contentW)

	outer := child.Dimensions.MarginBox()
	x, y := fc.place(child.Style.Float, outer.Width, outer.Height, startY, contentX, contentW)
	child.shiftX(x - outer.X)
	child.shiftY(y - outer.Y)
}

// preferredWidth estimates the content-box width the box would take if
// laid out on one line: the widest text run among inline content, or
// the widest child for block content, plus the box's own horizontal
// edges.
func (box *LayoutBox) preferredWidth(ctx *layoutContext) float64 {
	cs := box.Style
	fs := box.fontSizePx()
	edges := 0.0
	if cs != nil && box.BoxType != AnonymousBlockBox {
		edges = ctx.resolveLength(cs.PaddingLeft, fs, 0) + ctx.resolveLength(cs.PaddingRight, fs, 0) +
			ctx.borderWidth(cs.BorderLeft, fs) + ctx.borderWidth(cs.BorderRight, fs)
		if w, auto := ctx.resolveAuto(cs.Width, fs, 0); !auto {
			return w + edges
		}
	}
	if box.BoxType == TextBox {
		return ctx.metrics.TextWidth(box.Text, fs)
	}
	inner := 0.0
	inline := 0.0
	for _, child := range box.Children {
		w := child.preferredWidth(ctx)
		if child.isInlineLevel() {
			inline += w
		} else if w > inner {
			inner = w
		}
	}
	if inline > inner {
		inner = inline
	}
	return inner + edges
}
