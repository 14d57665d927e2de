package layout

import (
	"strconv"

	"github.com/wren-browser/wren/cascade"
	"github.com/wren-browser/wren/dom"
)

// layoutBlock lays out a block-level box: resolve width and horizontal
// margins, position against the flow cursor handed down in cb, lay out
// children (block flow or inline content), then resolve height.
// CSS 2.1 §10.3.3, §10.6.3.
func (box *LayoutBox) layoutBlock(ctx *layoutContext, cb Dimensions) {
	box.calculateBlockWidth(ctx, cb)
	box.calculateBlockPosition(ctx, cb)
	box.layoutBlockChildren(ctx)
	box.calculateBlockHeight(ctx, cb)
}

// calculateBlockWidth resolves the used content width and horizontal
// margins per CSS 2.1 §10.3.3: auto width fills the containing block,
// two auto lateral margins split the underflow (centering), and an
// over-constrained box dumps the excess into margin-right.
func (box *LayoutBox) calculateBlockWidth(ctx *layoutContext, cb Dimensions) {
	cbW := cb.Content.Width
	if box.BoxType == AnonymousBlockBox {
		box.Dimensions.Content.Width = cbW
		return
	}
	cs := box.Style
	fs := box.fontSizePx()

	width, widthAuto := ctx.resolveAuto(cs.Width, fs, cbW)
	if widthAuto {
		if w, ok := box.replacedAttrSize(ctx, "width"); ok {
			width, widthAuto = w, false
		}
	}
	mL, mLAuto := ctx.resolveAuto(cs.MarginLeft, fs, cbW)
	mR, mRAuto := ctx.resolveAuto(cs.MarginRight, fs, cbW)
	pL := ctx.resolveLength(cs.PaddingLeft, fs, cbW)
	pR := ctx.resolveLength(cs.PaddingRight, fs, cbW)
	bL := ctx.borderWidth(cs.BorderLeft, fs)
	bR := ctx.borderWidth(cs.BorderRight, fs)

	if !widthAuto && cs.BoxSizing == "border-box" {
		width -= pL + pR + bL + bR
		if width < 0 {
			width = 0
		}
	}
	if !widthAuto {
		if maxW, maxAuto := ctx.resolveAuto(cs.MaxWidth, fs, cbW); !maxAuto && width > maxW {
			width = maxW
		}
		if minW, minAuto := ctx.resolveAuto(cs.MinWidth, fs, cbW); !minAuto && width < minW {
			width = minW
		}
	}

	total := width + mL + mR + pL + pR + bL + bR

	// Over-constrained: auto margins become zero before solving.
	if !widthAuto && total > cbW {
		mLAuto, mRAuto = false, false
	}

	underflow := cbW - total
	switch {
	case widthAuto:
		// Auto width absorbs the underflow; auto margins become zero.
		if underflow >= 0 {
			width = underflow
		} else {
			width = 0
			mR += underflow
		}
	case mLAuto && mRAuto:
		mL = underflow / 2
		mR = underflow / 2
	case mLAuto:
		mL = underflow
	case mRAuto:
		mR = underflow
	default:
		mR += underflow
	}

	box.Dimensions.Content.Width = width
	box.Dimensions.Padding.Left = pL
	box.Dimensions.Padding.Right = pR
	box.Dimensions.Border.Left = bL
	box.Dimensions.Border.Right = bR
	box.Dimensions.Margin.Left = mL
	box.Dimensions.Margin.Right = mR
}

// calculateBlockPosition resolves the vertical edges and places the
// content rect below the flow cursor carried in cb.Content.Y
// (CSS 2.1 §10.6.3). Vertical auto margins compute to zero.
func (box *LayoutBox) calculateBlockPosition(ctx *layoutContext, cb Dimensions) {
	if box.BoxType != AnonymousBlockBox {
		cs := box.Style
		fs := box.fontSizePx()
		cbW := cb.Content.Width
		box.Dimensions.Margin.Top, _ = resolveAutoZero(ctx, cs.MarginTop, fs, cbW)
		box.Dimensions.Margin.Bottom, _ = resolveAutoZero(ctx, cs.MarginBottom, fs, cbW)
		box.Dimensions.Padding.Top = ctx.resolveLength(cs.PaddingTop, fs, cbW)
		box.Dimensions.Padding.Bottom = ctx.resolveLength(cs.PaddingBottom, fs, cbW)
		box.Dimensions.Border.Top = ctx.borderWidth(cs.BorderTop, fs)
		box.Dimensions.Border.Bottom = ctx.borderWidth(cs.BorderBottom, fs)
	}

	box.Dimensions.Content.X = cb.Content.X +
		box.Dimensions.Margin.Left + box.Dimensions.Border.Left + box.Dimensions.Padding.Left
	box.Dimensions.Content.Y = cb.Content.Y +
		box.Dimensions.Margin.Top + box.Dimensions.Border.Top + box.Dimensions.Padding.Top
}

func resolveAutoZero(ctx *layoutContext, al cascade.AutoLength, fs, cbW float64) (float64, bool) {
	v, auto := ctx.resolveAuto(al, fs, cbW)
	if auto {
		return 0, true
	}
	return v, false
}

// establishesBFC reports whether the box starts a new block formatting
// context: the layout root, floats, flow-root containers, table cells,
// and flex containers (CSS 2.1 §9.4.1).
func (box *LayoutBox) establishesBFC(ctx *layoutContext) bool {
	if box == ctx.root {
		return true
	}
	switch box.BoxType {
	case TableCellBox, FlexBox:
		return true
	}
	if box.Style != nil {
		if box.Style.Float != cascade.FloatNone {
			return true
		}
		if box.Style.Display.Inner == cascade.InnerFlowRoot {
			return true
		}
	}
	return false
}

// layoutBlockChildren drives the flow inside a block container. After
// anonymous-block wrapping the children are homogeneous: either one
// inline formatting context, or a sequence of block-level boxes laid
// out with §8.3.1 margin collapsing, float placement, and clearance.
func (box *LayoutBox) layoutBlockChildren(ctx *layoutContext) {
	fc := ctx.floats
	if box.establishesBFC(ctx) {
		fc = newFloatContext()
		prev := ctx.floats
		ctx.floats = fc
		defer func() { ctx.floats = prev }()
	}

	contentX := box.Dimensions.Content.X
	contentY := box.Dimensions.Content.Y
	contentW := box.Dimensions.Content.Width

	if len(box.Children) > 0 && box.Children[0].isInlineLevel() {
		box.Dimensions.Content.Height = box.layoutInlineContent(ctx, fc, box.Children, 0)
		if box.establishesBFC(ctx) {
			box.containFloats(fc)
		}
		return
	}

	canEscapeTop := !box.establishesBFC(ctx) &&
		box.Dimensions.Border.Top == 0 && box.Dimensions.Padding.Top == 0
	canEscapeBottom := !box.establishesBFC(ctx) &&
		box.Dimensions.Border.Bottom == 0 && box.Dimensions.Padding.Bottom == 0 &&
		box.Style != nil && box.Style.Height.Auto

	cursor := 0.0
	prevBottom := 0.0
	havePrev := false
	firstInFlow := true

	for _, child := range box.Children {
		cs := child.Style

		// Anonymous boxes carry their parent's style; only principal
		// boxes float.
		if cs != nil && cs.Float != cascade.FloatNone &&
			child.BoxType != TableCellBox && child.BoxType != AnonymousBlockBox {
			child.OutOfFlow = true
			box.layoutFloat(ctx, fc, child, contentY+cursor)
			continue
		}

		if cs != nil && cs.Clear != cascade.ClearNone && child.BoxType != AnonymousBlockBox {
			if cy := fc.clearance(cs.Clear); cy > contentY+cursor {
				cursor = cy - contentY
				// Clearance suppresses collapsing with the previous
				// sibling's bottom margin (CSS 2.1 §9.5.2).
				prevBottom = 0
				havePrev = true
				firstInFlow = false
			}
		}

		childCB := Dimensions{Content: Rect{X: contentX, Y: contentY + cursor, Width: contentW}}
		child.layout(ctx, childCB)

		mt := child.Dimensions.Margin.Top
		mb := child.Dimensions.Margin.Bottom
		// A margin that collapsed through the child adjoins the child's
		// own margin; with nothing escaped the margin stands alone
		// (collapsing with zero would clamp a negative margin).
		effTop := mt
		if child.CollapsedMarginTop != 0 {
			effTop = collapseMargins(mt, child.CollapsedMarginTop)
		}
		effBottom := mb
		if child.CollapsedMarginBottom != 0 {
			effBottom = collapseMargins(mb, child.CollapsedMarginBottom)
		}

		var gap float64
		switch {
		case firstInFlow && canEscapeTop && cursor == 0:
			// The first child's top margin collapses through this box's
			// top edge; the ancestor flow applies it instead.
			box.CollapsedMarginTop = effTop
			gap = 0
		case !havePrev:
			gap = effTop
		default:
			gap = collapseMargins(prevBottom, effTop)
		}

		child.shiftY(gap - mt)
		cursor += gap + child.borderBoxHeight()
		prevBottom = effBottom
		havePrev = true
		firstInFlow = false
	}

	height := cursor
	if havePrev {
		if canEscapeBottom {
			box.CollapsedMarginBottom = prevBottom
		} else {
			height += prevBottom
		}
	}
	box.Dimensions.Content.Height = height
	if box.establishesBFC(ctx) {
		box.containFloats(fc)
	}
}

// containFloats grows the box's auto height to include floats placed in
// the formatting context it establishes (CSS 2.1 §10.6.7).
func (box *LayoutBox) containFloats(fc *floatContext) {
	bottom := fc.bottom()
	if bottom > box.Dimensions.Content.Y+box.Dimensions.Content.Height {
		box.Dimensions.Content.Height = bottom - box.Dimensions.Content.Y
	}
}

// borderBoxHeight is the height of the border box, excluding margins.
func (box *LayoutBox) borderBoxHeight() float64 {
	return box.Dimensions.BorderBox().Height
}

// calculateBlockHeight replaces the flowed auto height with an explicit
// height when one is set (CSS 2.1 §10.6.3); replaced elements fall back
// to their height attribute.
func (box *LayoutBox) calculateBlockHeight(ctx *layoutContext, cb Dimensions) {
	if box.BoxType == AnonymousBlockBox {
		return
	}
	cs := box.Style
	fs := box.fontSizePx()
	if h, auto := ctx.resolveAuto(cs.Height, fs, cb.Content.Width); !auto && h >= 0 {
		box.Dimensions.Content.Height = h
		return
	}
	if h, ok := box.replacedAttrSize(ctx, "height"); ok {
		box.Dimensions.Content.Height = h
	}
}

// replacedAttrSize reads the HTML width/height presentational attribute
// of a replaced element (only <img> here), in CSS pixels.
func (box *LayoutBox) replacedAttrSize(ctx *layoutContext, attr string) (float64, bool) {
	if box.Node == dom.NoNode {
		return 0, false
	}
	n := ctx.arena.Node(box.Node)
	if n.Kind != dom.ElementNode || n.LocalName != "img" {
		return 0, false
	}
	v, ok := n.Attrs.Get(attr)
	if !ok {
		return 0, false
	}
	px, err := strconv.ParseFloat(v, 64)
	if err != nil || px < 0 {
		return 0, false
	}
	return px, true
}

// shiftX moves the box and its whole subtree, including placed line
// fragments, horizontally.
func (box *LayoutBox) shiftX(offset float64) {
	box.Dimensions.Content.X += offset
	for i := range box.Lines {
		box.Lines[i].Rect.X += offset
		for j := range box.Lines[i].Fragments {
			box.Lines[i].Fragments[j].Rect.X += offset
		}
	}
	for _, child := range box.Children {
		child.shiftX(offset)
	}
}

// shiftY moves the box and its whole subtree, including placed line
// fragments, vertically.
func (box *LayoutBox) shiftY(offset float64) {
	box.Dimensions.Content.Y += offset
	for i := range box.Lines {
		box.Lines[i].Rect.Y += offset
		for j := range box.Lines[i].Fragments {
			box.Lines[i].Fragments[j].Rect.Y += offset
		}
	}
	for _, child := range box.Children {
		child.shiftY(offset)
	}
}
