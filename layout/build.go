package layout

import (
	"strings"

	"github.com/wren-browser/wren/cascade"
	"github.com/wren-browser/wren/dom"
	"github.com/wren-browser/wren/internal/browserlog"
)

// buildBox constructs the layout subtree for the DOM node at id.
// Returns nil for nodes that generate no box: display:none subtrees,
// comments, and whitespace-only text (CSS 2.1 §9.2.1.1, §16.6.1).
func buildBox(arena *dom.Arena, styles map[dom.NodeID]*cascade.ComputedStyle, id dom.NodeID, parentStyle *cascade.ComputedStyle) *LayoutBox {
	n := arena.Node(id)
	switch n.Kind {
	case dom.DocumentNode:
		// The document itself has no box; the root element's box is the
		// root of the layout tree.
		for c := n.FirstChild; c != dom.NoNode; c = arena.Node(c).NextSibling {
			if arena.Node(c).Kind == dom.ElementNode {
				return buildBox(arena, styles, c, nil)
			}
		}
		return nil
	case dom.CommentNode:
		return nil
	case dom.TextNode:
		text := collapseWhitespace(n.Data)
		if strings.TrimSpace(text) == "" {
			return nil
		}
		style := parentStyle
		if style == nil {
			style = cascade.DefaultComputedStyle()
		}
		return &LayoutBox{BoxType: TextBox, Node: id, Style: style, Text: text}
	}

	cs := styles[id]
	if cs == nil {
		cs = cascade.DefaultComputedStyle()
	}
	if cs.Display.None {
		return nil
	}

	box := &LayoutBox{BoxType: boxTypeFor(arena, id, cs), Node: id, Style: cs}
	for c := n.FirstChild; c != dom.NoNode; c = arena.Node(c).NextSibling {
		if child := buildBox(arena, styles, c, cs); child != nil {
			box.Children = append(box.Children, child)
		}
	}
	wrapAnonymousBlocks(box)
	return box
}

// boxTypeFor maps a computed display value to the principal box type.
// Replaced elements are always laid out block-level here; the inline
// replaced model is not implemented.
func boxTypeFor(arena *dom.Arena, id dom.NodeID, cs *cascade.ComputedStyle) BoxType {
	if arena.Node(id).LocalName == "img" {
		return BlockBox
	}
	switch cs.Display.Inner {
	case cascade.InnerTable:
		return TableBox
	case cascade.InnerTableRow:
		return TableRowBox
	case cascade.InnerTableCell:
		return TableCellBox
	case cascade.InnerFlex:
		return FlexBox
	case cascade.InnerGrid:
		browserlog.Global.Once("layout", "display:grid not implemented, using block layout")
		return BlockBox
	}
	if cs.Display.Outer == cascade.OuterInline {
		return InlineBox
	}
	return BlockBox
}

// wrapAnonymousBlocks enforces the box-tree homogeneity rule for block
// containers (CSS 2.1 §9.2.1.1): when a block box holds both
// block-level and inline-level children, each run of consecutive
// inline-level children is wrapped in an anonymous block box, so every
// block container's children are either all block-level or all
// inline-level.
func wrapAnonymousBlocks(box *LayoutBox) {
	if !box.isBlockContainer() && box.BoxType != FlexBox {
		return
	}
	hasBlock, hasInline := false, false
	for _, c := range box.Children {
		if c.isInlineLevel() {
			hasInline = true
		} else {
			hasBlock = true
		}
	}
	// Flex items are blockified (css-flexbox-1 §4): every inline run in
	// a flex container gets wrapped, not just mixed-content runs.
	if box.BoxType == FlexBox {
		if !hasInline {
			return
		}
	} else if !hasBlock || !hasInline {
		return
	}
	var wrapped []*LayoutBox
	i := 0
	for i < len(box.Children) {
		c := box.Children[i]
		if !c.isInlineLevel() {
			wrapped = append(wrapped, c)
			i++
			continue
		}
		anon := &LayoutBox{BoxType: AnonymousBlockBox, Node: dom.NoNode, Style: box.Style}
		for i < len(box.Children) && box.Children[i].isInlineLevel() {
			anon.Children = append(anon.Children, box.Children[i])
			i++
		}
		wrapped = append(wrapped, anon)
	}
	box.Children = wrapped
}

// collapseWhitespace folds every run of ASCII whitespace into a single
// space, preserving a single leading/trailing space so word boundaries
// between adjacent inline siblings survive (CSS 2.1 §16.6.1). Line
// assembly trims spaces at line edges.
func collapseWhitespace(text string) string {
	if text == "" {
		return text
	}
	var sb strings.Builder
	lastWasSpace := false
	for _, ch := range text {
		isSpace := ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
		if isSpace {
			if !lastWasSpace {
				sb.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			sb.WriteRune(ch)
			lastWasSpace = false
		}
	}
	return sb.String()
}
