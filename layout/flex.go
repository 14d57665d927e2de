package layout

import (
	"github.com/wren-browser/wren/cascade"
	"github.com/wren-browser/wren/internal/browserlog"
)

// layoutFlex lays out a flex container: row direction with main-axis
// justification. Column direction, wrapping, and the cross-axis
// alignment properties degrade to the row defaults with a warning
// (CSS Flexible Box Layout Module Level 1).
func (box *LayoutBox) layoutFlex(ctx *layoutContext, cb Dimensions) {
	cs := box.Style

	if cs.FlexDirection != "" && cs.FlexDirection != "row" {
		browserlog.Global.Once("layout", "flex-direction:"+cs.FlexDirection+" not implemented, using row")
	}
	justify := cs.JustifyContent
	switch justify {
	case "", "flex-start", "center", "flex-end", "space-between":
	default:
		browserlog.Global.Once("layout", "justify-content:"+justify+" not implemented, using flex-start")
		justify = "flex-start"
	}

	box.calculateBlockWidth(ctx, cb)
	box.calculateBlockPosition(ctx, cb)
	box.layoutFlexRow(ctx, justify)
	box.calculateBlockHeight(ctx, cb)
}

// layoutFlexRow lays out the flex items left to right, then distributes
// any free main-axis space per justify-content.
func (box *LayoutBox) layoutFlexRow(ctx *layoutContext, justify string) {
	if len(box.Children) == 0 {
		return
	}

	totalWidth := 0.0
	maxHeight := 0.0
	for _, child := range box.Children {
		itemCB := Dimensions{Content: Rect{
			X:     box.Dimensions.Content.X,
			Y:     box.Dimensions.Content.Y,
			Width: box.Dimensions.Content.Width,
		}}
		switch {
		case child.BoxType == AnonymousBlockBox:
			// Anonymous items have no width of their own; size the item
			// to its content.
			if pref := child.preferredWidth(ctx); pref < itemCB.Content.Width {
				itemCB.Content.Width = pref
			}
			child.layout(ctx, itemCB)
		case child.Style != nil && child.Style.Width.Auto:
			child.layoutAsShrinkToFit(ctx, itemCB)
		default:
			child.layout(ctx, itemCB)
		}
		// Undo the block width rule's underflow absorption: a flex item
		// keeps its specified lateral margins, and the container
		// distributes the free space instead.
		if child.Style != nil && child.BoxType != AnonymousBlockBox {
			fs := child.fontSizePx()
			child.Dimensions.Margin.Left, _ = resolveAutoZero(ctx, child.Style.MarginLeft, fs, box.Dimensions.Content.Width)
			child.Dimensions.Margin.Right, _ = resolveAutoZero(ctx, child.Style.MarginRight, fs, box.Dimensions.Content.Width)
		}
		totalWidth += child.Dimensions.MarginBox().Width
		if h := child.Dimensions.MarginBox().Height; h > maxHeight {
			maxHeight = h
		}
	}

	currentX := box.Dimensions.Content.X
	gap := 0.0
	available := box.Dimensions.Content.Width - totalWidth
	switch justify {
	case "center":
		currentX += available / 2
	case "flex-end":
		currentX += available
	case "space-between":
		if len(box.Children) > 1 {
			gap = available / float64(len(box.Children)-1)
		}
	}

	for _, child := range box.Children {
		outer := child.Dimensions.MarginBox()
		child.shiftX(currentX - outer.X)
		currentX += outer.Width + gap
	}

	box.Dimensions.Content.Height = maxHeight
}

// layoutAsShrinkToFit lays a box out with its preferred width instead
// of filling the containing block, for flex items with width:auto.
func (box *LayoutBox) layoutAsShrinkToFit(ctx *layoutContext, cb Dimensions) {
	pref := box.preferredWidth(ctx)
	if pref > cb.Content.Width {
		pref = cb.Content.Width
	}
	shrunk := *box.Style
	shrunk.BoxSizing = "border-box"
	shrunk.Width = cascade.AutoLength{Length: cascade.Length{Value: pref, Unit: cascade.UnitPx}}
	orig := box.Style
	box.Style = &shrunk
	box.layout(ctx, cb)
	box.Style = orig
}
