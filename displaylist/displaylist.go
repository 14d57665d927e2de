// Package displaylist flattens a laid-out box tree into an ordered
// sequence of paint commands, the interface handed to the external
// rasterizer. Commands are emitted in the painting order of CSS 2.1
// Appendix E: a box's own background and borders, then in-flow
// block-level descendants, then floats, then inline content, then
// positioned descendants by ascending z-index.
package displaylist

import (
	"sort"

	"github.com/wren-browser/wren/cascade"
	"github.com/wren-browser/wren/dom"
	"github.com/wren-browser/wren/layout"
)

// Op is the paint command variant tag.
type Op int

const (
	// OpFillRect fills an axis-aligned rectangle with a solid color.
	OpFillRect Op = iota
	// OpDrawImage draws the image fetched from Src into Rect.
	OpDrawImage
	// OpDrawText draws one text run; Rect.X and Baseline give the pen
	// position, Rect the fragment extent.
	OpDrawText
	// OpPushClip pushes Rect as the active clip.
	OpPushClip
	// OpPopClip pops the most recent clip.
	OpPopClip
	// OpDrawBoxShadow draws a shadow for the border box in Rect.
	OpDrawBoxShadow
)

func (op Op) String() string {
	switch op {
	case OpFillRect:
		return "FillRect"
	case OpDrawImage:
		return "DrawImage"
	case OpDrawText:
		return "DrawText"
	case OpPushClip:
		return "PushClip"
	case OpPopClip:
		return "PopClip"
	case OpDrawBoxShadow:
		return "DrawBoxShadow"
	default:
		return "Unknown"
	}
}

// Shadow carries the geometry of a box-shadow command.
type Shadow struct {
	OffsetX, OffsetY float64
	Blur, Spread     float64
	Color            cascade.Color
	Inset            bool
}

// Command is a single paint primitive, in pixel-space coordinates. Only
// the fields relevant to Op are populated.
type Command struct {
	Op   Op
	Rect layout.Rect

	// OpFillRect, OpDrawText
	Color       cascade.Color
	CornerRadii [4]float64

	// OpDrawImage
	Src     string
	Opacity float64

	// OpDrawText
	Text       string
	Baseline   float64 // y of the text baseline, absolute
	FontSize   float64
	FontWeight int
	FontStyle  string
	Decoration string

	// OpDrawBoxShadow
	Shadow Shadow
}

// List is the ordered paint-command sequence for one document.
type List struct {
	Commands []Command
}

// Build walks the layout tree and emits the flat display list for a
// canvas of the given size.
func Build(arena *dom.Arena, root *layout.LayoutBox, viewportWidth, viewportHeight float64) *List {
	b := &builder{arena: arena}
	if root != nil {
		b.paintCanvasBackground(root, viewportWidth, viewportHeight)
		b.paintBox(root)
	}
	return &List{Commands: b.cmds}
}

type builder struct {
	arena *dom.Arena
	cmds  []Command

	// canvasDonor is the box whose background became the canvas
	// background; the used value of its own background is then
	// transparent (css-backgrounds-3 §2.11.2).
	canvasDonor *layout.LayoutBox
}

func (b *builder) emit(c Command) {
	b.cmds = append(b.cmds, c)
}

// paintCanvasBackground implements css-backgrounds-3 §2.11.2: the root
// element's background becomes the canvas background, its painting area
// extended to cover the entire canvas. When the root is an <html>
// element with no background of its own, the background of its first
// <body> child propagates to the canvas instead, and that body paints
// no background itself.
func (b *builder) paintCanvasBackground(root *layout.LayoutBox, vw, vh float64) {
	donor := root
	if !hasBackground(donor) {
		if b.elementName(root) != "html" {
			return
		}
		donor = b.findBodyBox(root)
		if donor == nil || !hasBackground(donor) {
			return
		}
	}
	b.canvasDonor = donor
	b.emit(Command{
		Op:    OpFillRect,
		Rect:  layout.Rect{X: 0, Y: 0, Width: vw, Height: vh},
		Color: donor.Style.BackgroundColor,
	})
}

func hasBackground(box *layout.LayoutBox) bool {
	return box != nil && box.Style != nil &&
		box.Style.HasBackground && box.Style.BackgroundColor.A > 0
}

func (b *builder) elementName(box *layout.LayoutBox) string {
	if box == nil || box.Node == dom.NoNode {
		return ""
	}
	n := b.arena.Node(box.Node)
	if n.Kind != dom.ElementNode {
		return ""
	}
	return n.LocalName
}

// findBodyBox returns the principal box of the root's first <body>
// child, looking through anonymous wrappers.
func (b *builder) findBodyBox(root *layout.LayoutBox) *layout.LayoutBox {
	for _, child := range root.Children {
		if b.elementName(child) == "body" {
			return child
		}
		if child.BoxType == layout.AnonymousBlockBox {
			if body := b.findBodyBox(child); body != nil {
				return body
			}
		}
	}
	return nil
}

// paintBox paints one box and its subtree in Appendix E layer order:
// the box's own background and border first, then negative z-index
// positioned descendants, then the backgrounds and borders of in-flow
// block-level descendants, then floats (painted atomically), then all
// inline content, then the remaining positioned descendants by
// ascending z-index.
func (b *builder) paintBox(box *layout.LayoutBox) {
	b.paintChrome(box)

	var flow, floats, positioned []*layout.LayoutBox
	collectDescendants(box, &flow, &floats, &positioned)
	sort.SliceStable(positioned, func(i, j int) bool {
		return zIndex(positioned[i]) < zIndex(positioned[j])
	})

	for _, p := range positioned {
		if zIndex(p) < 0 {
			b.paintBox(p)
		}
	}
	for _, c := range flow {
		b.paintChrome(c)
	}
	for _, f := range floats {
		b.paintBox(f)
	}
	b.paintLines(box)
	for _, c := range flow {
		b.paintLines(c)
	}
	for _, p := range positioned {
		if zIndex(p) >= 0 {
			b.paintBox(p)
		}
	}
}

// paintChrome emits a box's own background, borders, and image.
func (b *builder) paintChrome(box *layout.LayoutBox) {
	b.paintBackground(box)
	b.paintBorders(box)
	b.paintImage(box)
}

// collectDescendants partitions box's subtree into in-flow block-level
// descendants (document order), floats, and positioned boxes. The walk
// does not descend into floats or positioned boxes: each is painted
// atomically in its own layer.
func collectDescendants(box *layout.LayoutBox, flow, floats, positioned *[]*layout.LayoutBox) {
	for _, child := range box.Children {
		switch {
		case child.Style != nil && child.Style.Float != cascade.FloatNone && child.OutOfFlow:
			*floats = append(*floats, child)
		// Anonymous and text boxes carry their parent's style; only a
		// principal element box can itself be positioned.
		case child.Style != nil && child.Style.Position != cascade.PositionStatic &&
			child.BoxType != layout.TextBox && child.BoxType != layout.AnonymousBlockBox:
			*positioned = append(*positioned, child)
		case child.BoxType == layout.TextBox || child.BoxType == layout.InlineBox:
			// Inline-level content is painted through line boxes.
		default:
			*flow = append(*flow, child)
			collectDescendants(child, flow, floats, positioned)
		}
	}
}

func zIndex(box *layout.LayoutBox) int {
	if box.Style == nil || box.Style.ZIndexAuto {
		return 0
	}
	return box.Style.ZIndex
}

// paintBackground fills the border box with the background color
// (background-clip's initial value is border-box).
func (b *builder) paintBackground(box *layout.LayoutBox) {
	cs := box.Style
	if cs == nil || box.BoxType == layout.AnonymousBlockBox || box.BoxType == layout.TextBox {
		return
	}
	if !cs.HasBackground || cs.BackgroundColor.A == 0 {
		return
	}
	// The canvas already painted this box's background across the whole
	// viewport; its own background's used value is transparent.
	if box == b.canvasDonor {
		return
	}
	b.emit(Command{Op: OpFillRect, Rect: box.Dimensions.BorderBox(), Color: cs.BackgroundColor})
}

// paintBorders draws the four border sides as filled rectangles: top
// and bottom span the corners, left and right fit between them.
func (b *builder) paintBorders(box *layout.LayoutBox) {
	cs := box.Style
	if cs == nil || box.BoxType == layout.AnonymousBlockBox || box.BoxType == layout.TextBox {
		return
	}
	border := box.Dimensions.Border
	bb := box.Dimensions.BorderBox()

	if border.Top > 0 {
		b.emit(Command{Op: OpFillRect, Color: borderColor(cs.BorderTop, cs.Color),
			Rect: layout.Rect{X: bb.X, Y: bb.Y, Width: bb.Width, Height: border.Top}})
	}
	if border.Bottom > 0 {
		b.emit(Command{Op: OpFillRect, Color: borderColor(cs.BorderBottom, cs.Color),
			Rect: layout.Rect{X: bb.X, Y: bb.Y + bb.Height - border.Bottom, Width: bb.Width, Height: border.Bottom}})
	}
	if border.Left > 0 {
		b.emit(Command{Op: OpFillRect, Color: borderColor(cs.BorderLeft, cs.Color),
			Rect: layout.Rect{X: bb.X, Y: bb.Y + border.Top, Width: border.Left, Height: bb.Height - border.Top - border.Bottom}})
	}
	if border.Right > 0 {
		b.emit(Command{Op: OpFillRect, Color: borderColor(cs.BorderRight, cs.Color),
			Rect: layout.Rect{X: bb.X + bb.Width - border.Right, Y: bb.Y + border.Top, Width: border.Right, Height: bb.Height - border.Top - border.Bottom}})
	}
}

// borderColor falls back to the element's color when the border color
// was never set (the border-color initial value is currentColor).
func borderColor(side cascade.BorderSide, current cascade.Color) cascade.Color {
	if side.Color.A == 0 {
		return current
	}
	return side.Color
}

// paintImage emits a draw command for a replaced <img> element.
func (b *builder) paintImage(box *layout.LayoutBox) {
	if box.Node == dom.NoNode {
		return
	}
	n := b.arena.Node(box.Node)
	if n.Kind != dom.ElementNode || n.LocalName != "img" {
		return
	}
	src, ok := n.Attrs.Get("src")
	if !ok || src == "" {
		return
	}
	b.emit(Command{Op: OpDrawImage, Rect: box.Dimensions.Content, Src: src, Opacity: 1})
}

// paintLines emits the text commands for a box's inline formatting
// context, one per placed fragment.
func (b *builder) paintLines(box *layout.LayoutBox) {
	for _, line := range box.Lines {
		for _, frag := range line.Fragments {
			cs := frag.Style
			if cs == nil {
				continue
			}
			b.emit(Command{
				Op:         OpDrawText,
				Rect:       frag.Rect,
				Baseline:   frag.Rect.Y + frag.Baseline,
				Text:       frag.Text,
				Color:      cs.Color,
				FontSize:   cs.FontSize.Value,
				FontWeight: cs.FontWeight,
				FontStyle:  cs.FontStyle,
				Decoration: "none",
			})
		}
	}
}
