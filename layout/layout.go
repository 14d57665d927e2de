// Package layout implements the CSS 2.1 visual formatting model over a
// cascade-styled arena DOM: block formatting contexts with margin
// collapsing and floats, inline formatting contexts with line boxes
// and soft wrapping, an auto-width table layout, and a row-direction
// flexbox.
//
// Spec references:
// - CSS 2.1 §8 Box model: https://www.w3.org/TR/CSS21/box.html
// - CSS 2.1 §9 Visual formatting model: https://www.w3.org/TR/CSS21/visuren.html
// - CSS 2.1 §10 Visual formatting model details: https://www.w3.org/TR/CSS21/visudet.html
// - CSS 2.1 §17 Tables: https://www.w3.org/TR/CSS21/tables.html
// - CSS Flexible Box Layout Module Level 1: https://www.w3.org/TR/css-flexbox-1/
package layout

import (
	"github.com/wren-browser/wren/cascade"
	"github.com/wren-browser/wren/dom"
)

// FontMetrics is the font-metrics collaborator this package depends on
// to measure and wrap text: total advance width of a run, and the line
// height for a given font size.
type FontMetrics interface {
	TextWidth(text string, fontSizePx float64) float64
	LineHeight(fontSizePx float64) float64
}

// BoxType is the variant tag of a LayoutBox.
type BoxType int

const (
	BlockBox BoxType = iota
	InlineBox
	AnonymousBlockBox
	TextBox
	TableBox
	TableRowBox
	TableCellBox
	FlexBox
)

// Rect is an axis-aligned rectangle in pixel space.
type Rect struct {
	X, Y, Width, Height float64
}

// EdgeSizes is the four edge widths of a box (margin, border, or
// padding edge).
type EdgeSizes struct {
	Top, Right, Bottom, Left float64
}

// Dimensions is the CSS 2.1 §8.1 box model: content rect plus the
// three surrounding edges.
type Dimensions struct {
	Content Rect
	Padding EdgeSizes
	Border  EdgeSizes
	Margin  EdgeSizes
}

func expandRect(r Rect, e EdgeSizes) Rect {
	return Rect{
		X:      r.X - e.Left,
		Y:      r.Y - e.Top,
		Width:  r.Width + e.Left + e.Right,
		Height: r.Height + e.Top + e.Bottom,
	}
}

// MarginBox, BorderBox, and PaddingBox return the box at successive
// edges outward from the content rect (§8.1).
func (d Dimensions) MarginBox() Rect  { return expandRect(d.BorderBox(), d.Margin) }
func (d Dimensions) BorderBox() Rect  { return expandRect(d.PaddingBox(), d.Border) }
func (d Dimensions) PaddingBox() Rect { return expandRect(d.Content, d.Padding) }

// LayoutBox is one node of the layout tree. Node is dom.NoNode for
// anonymous boxes (anonymous block wrappers); Style is still populated
// for anonymous boxes (inherited from whichever element introduced the
// anonymization) so the display-list builder always has font/color
// context to paint with.
type LayoutBox struct {
	BoxType BoxType
	Node    dom.NodeID
	Style   *cascade.ComputedStyle
	Text    string // TextBox only, already whitespace-collapsed

	Dimensions Dimensions
	Children   []*LayoutBox

	// Lines is populated when this box establishes an inline formatting
	// context: one entry per line box, each carrying the positioned text
	// fragments placed on that line (CSS 2.1 §9.4.2).
	Lines []LineBox

	// CollapsedMarginTop/Bottom record a child's margin that collapsed
	// through this box into its own margin (§8.3.1), so an ancestor
	// computing this box's margin-box height does not double count
	// space the child's margin already accounted for.
	CollapsedMarginTop    float64
	CollapsedMarginBottom float64

	// OutOfFlow is true for floated boxes: they do not contribute to
	// their containing block's automatic height or to sibling flow
	// position (§9.5). Positioned boxes are not marked.
	OutOfFlow bool
}

// isInlineLevel reports whether box participates in an inline
// formatting context as a sibling-level box (§9.2.2).
func (box *LayoutBox) isInlineLevel() bool {
	return box.BoxType == InlineBox || box.BoxType == TextBox
}

// isBlockContainer reports whether box lays out its children as block
// or anonymous-block-wrapped content (as opposed to a table/flex
// container with its own algorithm).
func (box *LayoutBox) isBlockContainer() bool {
	switch box.BoxType {
	case BlockBox, AnonymousBlockBox, TableCellBox:
		return true
	}
	return false
}

// BuildAndLayout constructs the layout tree for the subtree rooted at
// root and resolves every box's dimensions against a viewport of the
// given size.
func BuildAndLayout(arena *dom.Arena, styles map[dom.NodeID]*cascade.ComputedStyle, root dom.NodeID, metrics FontMetrics, viewportWidth, viewportHeight float64) *LayoutBox {
	box := buildBox(arena, styles, root, nil)
	if box == nil {
		return nil
	}
	cb := Dimensions{Content: Rect{X: 0, Y: 0, Width: viewportWidth, Height: viewportHeight}}
	ctx := &layoutContext{
		arena:     arena,
		metrics:   metrics,
		viewportW: viewportWidth,
		viewportH: viewportHeight,
		root:      box,
		floats:    newFloatContext(),
	}
	box.layout(ctx, cb)
	return box
}

// layoutContext carries the collaborators and viewport size that every
// layout step needs, so box.layout methods don't have to thread them
// through individually. floats is the float context of the innermost
// block formatting context currently being laid out.
type layoutContext struct {
	arena     *dom.Arena
	metrics   FontMetrics
	viewportW float64
	viewportH float64
	root      *LayoutBox
	floats    *floatContext
}

// layout dispatches to the algorithm for box's type.
func (box *LayoutBox) layout(ctx *layoutContext, cb Dimensions) {
	switch box.BoxType {
	case BlockBox, AnonymousBlockBox:
		box.layoutBlock(ctx, cb)
	case TableBox:
		box.layoutTable(ctx, cb)
	case TableRowBox:
		box.layoutTableRow(ctx, cb)
	case TableCellBox:
		box.layoutTableCell(ctx, cb)
	case FlexBox:
		box.layoutFlex(ctx, cb)
	case TextBox, InlineBox:
		// Reached only when an inline-level box is the sole content of
		// its containing block without having been wrapped into an
		// AnonymousBlockBox (shouldn't happen post-wrapAnonymousBlocks,
		// but degrade gracefully to a zero-size box rather than panic).
	}
}
