package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/wren-browser/wren/cascade"
	"github.com/wren-browser/wren/dom"
	"github.com/wren-browser/wren/htmltree"
)

// fixedMetrics is a deterministic font-metrics collaborator: every
// glyph advances half the font size, lines are 1.2x the font size.
type fixedMetrics struct{}

func (fixedMetrics) TextWidth(text string, fontSizePx float64) float64 {
	return float64(len(text)) * fontSizePx / 2
}

func (fixedMetrics) LineHeight(fontSizePx float64) float64 {
	return 1.2 * fontSizePx
}

func layoutHTML(t *testing.T, html string) (*dom.Arena, *LayoutBox) {
	t.Helper()
	arena, root, _ := htmltree.Parse(html)
	css := dom.CollectEmbeddedStyle(arena, root)
	styles := cascade.StyleTree(arena, root, css)
	box := BuildAndLayout(arena, styles, root, fixedMetrics{}, 800, 600)
	require.NotNil(t, box)
	return arena, box
}

func findByTag(arena *dom.Arena, box *LayoutBox, tag string) *LayoutBox {
	if box == nil {
		return nil
	}
	if box.Node != dom.NoNode && arena.Node(box.Node).Kind == dom.ElementNode &&
		arena.Node(box.Node).LocalName == tag && box.BoxType != TextBox {
		return box
	}
	for _, child := range box.Children {
		if found := findByTag(arena, child, tag); found != nil {
			return found
		}
	}
	return nil
}

func findAllByTag(arena *dom.Arena, box *LayoutBox, tag string, out []*LayoutBox) []*LayoutBox {
	if box == nil {
		return out
	}
	if box.Node != dom.NoNode && arena.Node(box.Node).Kind == dom.ElementNode &&
		arena.Node(box.Node).LocalName == tag && box.BoxType != TextBox {
		out = append(out, box)
	}
	for _, child := range box.Children {
		out = findAllByTag(arena, child, tag, out)
	}
	return out
}

func TestParagraphProducesLineBoxWithFragment(t *testing.T) {
	arena, root := layoutHTML(t, "<p>Hi</p>")
	p := findByTag(arena, root, "p")
	require.NotNil(t, p)
	require.Equal(t, BlockBox, p.BoxType)
	require.Len(t, p.Lines, 1)
	require.Len(t, p.Lines[0].Fragments, 1)
	require.Equal(t, "Hi", p.Lines[0].Fragments[0].Text)
	// 2 glyphs at 16px, 8px advance each.
	require.InDelta(t, 16.0, p.Lines[0].Fragments[0].Rect.Width, 0.01)
}

func TestAutoWidthFillsContainingBlock(t *testing.T) {
	arena, root := layoutHTML(t, "<body><div></div></body>")
	div := findByTag(arena, root, "div")
	require.NotNil(t, div)
	// body has the 8px UA margin on each side.
	require.InDelta(t, 800-16, div.Dimensions.Content.Width, 0.01)
}

func TestAutoMarginsCenterFixedWidthBlock(t *testing.T) {
	arena, root := layoutHTML(t,
		`<style>div{width:100px;margin-left:auto;margin-right:auto}</style><div></div>`)
	div := findByTag(arena, root, "div")
	require.NotNil(t, div)
	require.InDelta(t, 100.0, div.Dimensions.Content.Width, 0.01)
	require.InDelta(t, (800-16-100)/2.0, div.Dimensions.Margin.Left, 0.01)
	require.InDelta(t, div.Dimensions.Margin.Left, div.Dimensions.Margin.Right, 0.01)
	// Centered: content starts at body content X plus the solved margin.
	require.InDelta(t, 8+(800-16-100)/2.0, div.Dimensions.Content.X, 0.01)
}

func TestSiblingMarginsCollapseToMaximum(t *testing.T) {
	arena, root := layoutHTML(t, "<body><p>A</p><p>B</p></body>")
	ps := findAllByTag(arena, root, "p", nil)
	require.Len(t, ps, 2)
	// UA gives <p> 1em (16px) vertical margins; the gap between border
	// edges must be max(16,16)=16, not 32.
	gap := ps[1].Dimensions.BorderBox().Y - (ps[0].Dimensions.BorderBox().Y + ps[0].Dimensions.BorderBox().Height)
	require.InDelta(t, 16.0, gap, 0.01)
}

func TestUnequalSiblingMarginsCollapse(t *testing.T) {
	arena, root := layoutHTML(t,
		`<style>
			.a{margin-bottom:30px;height:10px}
			.b{margin-top:10px;height:10px}
		</style><div class="a"></div><div class="b"></div>`)
	divs := findAllByTag(arena, root, "div", nil)
	require.Len(t, divs, 2)
	gap := divs[1].Dimensions.BorderBox().Y - (divs[0].Dimensions.BorderBox().Y + divs[0].Dimensions.BorderBox().Height)
	require.InDelta(t, 30.0, gap, 0.01)
}

func TestPaddingBlocksParentChildMarginCollapse(t *testing.T) {
	arena, root := layoutHTML(t,
		`<style>
			.outer{padding-top:5px}
			.inner{margin-top:20px;height:10px}
		</style><div class="outer"><div class="inner"></div></div>`)
	var outer, inner *LayoutBox
	for _, d := range findAllByTag(arena, root, "div", nil) {
		if arena.Node(d.Node).HasClass("outer") {
			outer = d
		}
		if arena.Node(d.Node).HasClass("inner") {
			inner = d
		}
	}
	require.NotNil(t, outer)
	require.NotNil(t, inner)
	// The 5px padding separates the margins, so the child's 20px margin
	// stays inside the parent.
	require.InDelta(t, outer.Dimensions.Content.Y+20, inner.Dimensions.BorderBox().Y, 0.01)
	require.InDelta(t, 30.0, outer.Dimensions.Content.Height, 0.01)
	require.Zero(t, outer.CollapsedMarginTop)
}

func TestFirstChildMarginCollapsesThroughParent(t *testing.T) {
	arena, root := layoutHTML(t,
		`<style>
			.outer{height:40px}
			.inner{margin-top:20px;height:10px}
		</style><div class="outer"><div class="inner"></div></div>`)
	var outer *LayoutBox
	for _, d := range findAllByTag(arena, root, "div", nil) {
		if arena.Node(d.Node).HasClass("outer") {
			outer = d
		}
	}
	require.NotNil(t, outer)
	require.InDelta(t, 20.0, outer.CollapsedMarginTop, 0.01)
}

func TestFloatsPlaceAtOppositeEdgesAndClearDropsBelow(t *testing.T) {
	arena, root := layoutHTML(t,
		`<style>
			.l{float:left;width:100px;height:50px}
			.r{float:right;width:100px;height:50px}
			.c{clear:both;height:10px}
		</style><body><div class="l"></div><div class="r"></div><div class="c"></div></body>`)
	var l, r, c *LayoutBox
	for _, d := range findAllByTag(arena, root, "div", nil) {
		n := arena.Node(d.Node)
		switch {
		case n.HasClass("l"):
			l = d
		case n.HasClass("r"):
			r = d
		case n.HasClass("c"):
			c = d
		}
	}
	require.NotNil(t, l)
	require.NotNil(t, r)
	require.NotNil(t, c)
	require.True(t, l.OutOfFlow)
	require.True(t, r.OutOfFlow)
	require.InDelta(t, 8.0, l.Dimensions.MarginBox().X, 0.01)
	require.InDelta(t, 8+784-100, r.Dimensions.MarginBox().X, 0.01)
	// clear:both puts the cleared box's border top at or below every
	// preceding float's bottom edge.
	floatBottom := l.Dimensions.MarginBox().Y + 50
	require.GreaterOrEqual(t, c.Dimensions.BorderBox().Y+0.01, floatBottom)
}

func TestSecondLeftFloatStacksBeside(t *testing.T) {
	arena, root := layoutHTML(t,
		`<style>div{float:left;width:100px;height:50px}</style><body><div></div><div></div></body>`)
	divs := findAllByTag(arena, root, "div", nil)
	require.Len(t, divs, 2)
	require.InDelta(t, 8.0, divs[0].Dimensions.MarginBox().X, 0.01)
	require.InDelta(t, 108.0, divs[1].Dimensions.MarginBox().X, 0.01)
	require.InDelta(t, divs[0].Dimensions.MarginBox().Y, divs[1].Dimensions.MarginBox().Y, 0.01)
}

func TestFloatWiderThanRemainingSpaceDropsDown(t *testing.T) {
	arena, root := layoutHTML(t,
		`<style>
			.a{float:left;width:700px;height:50px}
			.b{float:left;width:200px;height:50px}
		</style><body><div class="a"></div><div class="b"></div></body>`)
	divs := findAllByTag(arena, root, "div", nil)
	require.Len(t, divs, 2)
	require.InDelta(t, divs[0].Dimensions.MarginBox().Y+50, divs[1].Dimensions.MarginBox().Y, 0.01)
	require.InDelta(t, 8.0, divs[1].Dimensions.MarginBox().X, 0.01)
}

func TestLineWrappingBreaksAtWhitespace(t *testing.T) {
	// 160px wide paragraph at a 16px font with 8px glyphs: the full
	// text needs far more than 160px and must wrap at spaces.
	arena, root := layoutHTML(t,
		`<style>p{width:160px}</style><p>aaaa bbbb cccc dddd eeee</p>`)
	p := findByTag(arena, root, "p")
	require.NotNil(t, p)
	require.Greater(t, len(p.Lines), 1)
	for _, line := range p.Lines {
		require.LessOrEqual(t, line.Rect.Width, 160.0+0.01)
		require.NotEmpty(t, line.Fragments)
	}
	// Successive lines stack by the line height.
	require.InDelta(t, p.Lines[0].Rect.Y+19.2, p.Lines[1].Rect.Y, 0.01)
}

func TestTextAlignCenterShiftsFragments(t *testing.T) {
	arena, root := layoutHTML(t,
		`<style>p{width:200px;text-align:center}</style><p>Hi</p>`)
	p := findByTag(arena, root, "p")
	require.NotNil(t, p)
	require.Len(t, p.Lines, 1)
	frag := p.Lines[0].Fragments[0]
	// "Hi" is 16px wide; centering in 200px leaves 92px on the left.
	require.InDelta(t, p.Dimensions.Content.X+92, frag.Rect.X, 0.01)
}

func TestMixedContentGetsAnonymousBlockWrappers(t *testing.T) {
	arena, root := layoutHTML(t, "<body>before<div>block</div>after</body>")
	body := findByTag(arena, root, "body")
	require.NotNil(t, body)
	require.Len(t, body.Children, 3)
	require.Equal(t, AnonymousBlockBox, body.Children[0].BoxType)
	require.Equal(t, BlockBox, body.Children[1].BoxType)
	require.Equal(t, AnonymousBlockBox, body.Children[2].BoxType)
	require.Len(t, body.Children[0].Lines, 1)
	require.Equal(t, "before", body.Children[0].Lines[0].Fragments[0].Text)
}

func TestDisplayNoneSubtreeProducesNoBox(t *testing.T) {
	arena, root := layoutHTML(t,
		`<style>.hidden{display:none}</style><body><div class="hidden"><p>gone</p></div><p>kept</p></body>`)
	require.Nil(t, findByTag(arena, root, "div"))
	p := findByTag(arena, root, "p")
	require.NotNil(t, p)
	require.Equal(t, "kept", p.Lines[0].Fragments[0].Text)
}

func TestInlineStyleHeightWins(t *testing.T) {
	arena, root := layoutHTML(t, `<div style="height:123px">x</div>`)
	div := findByTag(arena, root, "div")
	require.NotNil(t, div)
	require.InDelta(t, 123.0, div.Dimensions.Content.Height, 0.01)
}

func TestTableDistributesColumnWidths(t *testing.T) {
	arena, root := layoutHTML(t, "<table><tr><td>aa</td><td>bb</td></tr></table>")
	table := findByTag(arena, root, "table")
	require.NotNil(t, table)
	require.Equal(t, TableBox, table.BoxType)
	cells := findAllByTag(arena, root, "td", nil)
	require.Len(t, cells, 2)
	// Equal content, so the two columns split the table width evenly.
	require.InDelta(t, cells[0].Dimensions.Content.Width, cells[1].Dimensions.Content.Width, 0.5)
	require.Greater(t, cells[1].Dimensions.Content.X, cells[0].Dimensions.Content.X)
}

func TestTableColspanSpansColumns(t *testing.T) {
	arena, root := layoutHTML(t,
		`<table cellspacing="0"><tr><td>a</td><td>b</td></tr><tr><td colspan="2">wide</td></tr></table>`)
	rows := findAllByTag(arena, root, "tr", nil)
	require.Len(t, rows, 2)
	wide := rows[1].Children[0]
	narrow := rows[0].Children[0]
	require.Greater(t, wide.Dimensions.MarginBox().Width, narrow.Dimensions.MarginBox().Width)
}

func TestFlexRowSpaceBetween(t *testing.T) {
	arena, root := layoutHTML(t,
		`<style>
			.row{display:flex;justify-content:space-between}
			.item{width:100px;height:20px}
		</style><div class="row"><div class="item"></div><div class="item"></div></div>`)
	var row *LayoutBox
	for _, d := range findAllByTag(arena, root, "div", nil) {
		if arena.Node(d.Node).HasClass("row") {
			row = d
		}
	}
	require.NotNil(t, row)
	require.Equal(t, FlexBox, row.BoxType)
	require.Len(t, row.Children, 2)
	first := row.Children[0].Dimensions.MarginBox()
	second := row.Children[1].Dimensions.MarginBox()
	require.InDelta(t, row.Dimensions.Content.X, first.X, 0.01)
	require.InDelta(t, row.Dimensions.Content.X+row.Dimensions.Content.Width, second.X+second.Width, 0.01)
	require.InDelta(t, first.Y, second.Y, 0.01)
}

func TestFlexRowCenter(t *testing.T) {
	arena, root := layoutHTML(t,
		`<style>
			.row{display:flex;justify-content:center}
			.item{width:100px;height:20px}
		</style><div class="row"><div class="item"></div></div>`)
	var row *LayoutBox
	for _, d := range findAllByTag(arena, root, "div", nil) {
		if arena.Node(d.Node).HasClass("row") {
			row = d
		}
	}
	require.NotNil(t, row)
	item := row.Children[0].Dimensions.MarginBox()
	want := row.Dimensions.Content.X + (row.Dimensions.Content.Width-100)/2
	require.InDelta(t, want, item.X, 0.01)
}

func TestCollapseMargins(t *testing.T) {
	require.Equal(t, 20.0, collapseMargins(20, 10))
	require.Equal(t, 20.0, collapseMargins(10, 20))
	require.Equal(t, -20.0, collapseMargins(-20, -10))
	require.Equal(t, 10.0, collapseMargins(20, -10))
	require.Equal(t, 0.0, collapseMargins(0, 0))
}

func TestBoxModelEdges(t *testing.T) {
	d := Dimensions{
		Content: Rect{X: 100, Y: 100, Width: 50, Height: 20},
		Padding: EdgeSizes{Top: 1, Right: 2, Bottom: 3, Left: 4},
		Border:  EdgeSizes{Top: 5, Right: 6, Bottom: 7, Left: 8},
		Margin:  EdgeSizes{Top: 9, Right: 10, Bottom: 11, Left: 12},
	}
	require.Equal(t, Rect{X: 96, Y: 99, Width: 56, Height: 24}, d.PaddingBox())
	require.Equal(t, Rect{X: 88, Y: 94, Width: 70, Height: 36}, d.BorderBox())
	require.Equal(t, Rect{X: 76, Y: 85, Width: 92, Height: 56}, d.MarginBox())
}

func TestFixedBlockDimensions(t *testing.T) {
	arena, root := layoutHTML(t,
		`<style>
			body{margin:0}
			div{width:100px;height:40px;margin:10px;padding:5px;border:2px solid #000}
		</style><div></div>`)
	div := findByTag(arena, root, "div")
	require.NotNil(t, div)
	want := Dimensions{
		Content: Rect{X: 17, Y: 17, Width: 100, Height: 40},
		Padding: EdgeSizes{Top: 5, Right: 5, Bottom: 5, Left: 5},
		Border:  EdgeSizes{Top: 2, Right: 2, Bottom: 2, Left: 2},
		// The width rule dumps the 666px underflow into margin-right.
		Margin: EdgeSizes{Top: 10, Right: 676, Bottom: 10, Left: 10},
	}
	if diff := cmp.Diff(want, div.Dimensions, cmpopts.EquateApprox(0, 0.01)); diff != "" {
		t.Fatalf("dimensions mismatch (-want +got):\n%s", diff)
	}
}

func TestEmRelativeMarginUsesFontSize(t *testing.T) {
	arena, root := layoutHTML(t,
		`<style>div{font-size:20px;margin-top:2em;height:10px}</style><body><p>x</p><div></div></body>`)
	div := findByTag(arena, root, "div")
	require.NotNil(t, div)
	require.InDelta(t, 40.0, div.Dimensions.Margin.Top, 0.01)
}

func TestImgSizedFromAttributes(t *testing.T) {
	arena, root := layoutHTML(t, `<img src="x.png" width="120" height="80">`)
	img := findByTag(arena, root, "img")
	require.NotNil(t, img)
	require.InDelta(t, 120.0, img.Dimensions.Content.Width, 0.01)
	require.InDelta(t, 80.0, img.Dimensions.Content.Height, 0.01)
}
