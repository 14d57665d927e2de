package selector

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wren-browser/wren/dom"
)

func buildTree() (*dom.Arena, dom.NodeID, dom.NodeID, dom.NodeID) {
	a := dom.NewArena()
	html := a.NewElement("html")
	body := a.NewElement("body")
	div := a.NewElement("div")
	a.Node(div).Attrs.Set("class", "container main")
	a.Node(div).Attrs.Set("id", "root-div")
	p := a.NewElement("p")
	a.Node(p).Attrs.Set("class", "x")
	a.AppendChild(dom.DocumentID, html)
	a.AppendChild(html, body)
	a.AppendChild(body, div)
	a.AppendChild(div, p)
	return a, body, div, p
}

func TestParseAndMatchType(t *testing.T) {
	sels := ParseList("p")
	require.Len(t, sels, 1)
	a, _, _, p := buildTree()
	require.True(t, Matches(a, p, sels[0]))
}

func TestParseAndMatchClassCaseSensitivity(t *testing.T) {
	// Input `<DIV CLASS="X">t</DIV>` normalizes local name to lowercase
	// but preserves attribute value case; `.X` must match it literally.
	a := dom.NewArena()
	div := a.NewElement("div")
	a.Node(div).Attrs.Set("class", "X")
	a.AppendChild(dom.DocumentID, div)

	sels := ParseList(".X")
	require.Len(t, sels, 1)
	require.True(t, Matches(a, div, sels[0]))
}

func TestParseAndMatchID(t *testing.T) {
	sels := ParseList("#root-div")
	require.Len(t, sels, 1)
	a, _, div, _ := buildTree()
	require.True(t, Matches(a, div, sels[0]))
}

func TestDescendantCombinator(t *testing.T) {
	sels := ParseList("body p")
	require.Len(t, sels, 1)
	a, _, _, p := buildTree()
	require.True(t, Matches(a, p, sels[0]))
}

func TestChildCombinatorMatchesDirectParentOnly(t *testing.T) {
	a, _, div, p := buildTree()
	sels := ParseList("div > p")
	require.True(t, Matches(a, p, sels[0]))

	sels2 := ParseList("body > p")
	require.False(t, Matches(a, p, sels2[0]))
	_ = div
}

func TestAdjacentSiblingCombinator(t *testing.T) {
	a := dom.NewArena()
	parent := a.NewElement("div")
	h1 := a.NewElement("h1")
	p := a.NewElement("p")
	a.AppendChild(dom.DocumentID, parent)
	a.AppendChild(parent, h1)
	a.AppendChild(parent, p)

	sels := ParseList("h1 + p")
	require.True(t, Matches(a, p, sels[0]))
}

func TestGeneralSiblingCombinator(t *testing.T) {
	a := dom.NewArena()
	parent := a.NewElement("div")
	h1 := a.NewElement("h1")
	span := a.NewElement("span")
	p := a.NewElement("p")
	a.AppendChild(dom.DocumentID, parent)
	a.AppendChild(parent, h1)
	a.AppendChild(parent, span)
	a.AppendChild(parent, p)

	sels := ParseList("h1 ~ p")
	require.True(t, Matches(a, p, sels[0]))
}

func TestAttributeSelector(t *testing.T) {
	a := dom.NewArena()
	img := a.NewElement("img")
	a.Node(img).Attrs.Set("alt", "a photo")
	a.AppendChild(dom.DocumentID, img)

	sels := ParseList(`img[alt]`)
	require.True(t, Matches(a, img, sels[0]))

	sels2 := ParseList(`img[alt="a photo"]`)
	require.True(t, Matches(a, img, sels2[0]))

	sels3 := ParseList(`img[alt^="a "]`)
	require.True(t, Matches(a, img, sels3[0]))

	sels4 := ParseList(`img[alt$="photo"]`)
	require.True(t, Matches(a, img, sels4[0]))
}

func TestUnsupportedPseudoClassNeverMatches(t *testing.T) {
	a, _, _, p := buildTree()
	sels := ParseList("p:hover")
	require.True(t, len(sels) == 1)
	require.False(t, Matches(a, p, sels[0]))
}

func TestSpecificityOrdering(t *testing.T) {
	idSel := ParseList("#root-div")[0]
	classSel := ParseList(".container")[0]
	typeSel := ParseList("div")[0]

	require.True(t, classSel.Specificity().Less(idSel.Specificity()))
	require.True(t, typeSel.Specificity().Less(classSel.Specificity()))
}

func TestInvalidSelectorFailsToParse(t *testing.T) {
	sels := ParseList(">")
	require.Nil(t, sels)
	sels2 := ParseList("div >")
	require.Nil(t, sels2)
}

func TestMultipleSelectorList(t *testing.T) {
	sels := ParseList("h1, h2, .x")
	require.Len(t, sels, 3)
}

func TestStructuralPseudoClasses(t *testing.T) {
	a := dom.NewArena()
	html := a.NewElement("html")
	body := a.NewElement("body")
	first := a.NewElement("p")
	last := a.NewElement("p")
	a.AppendChild(dom.DocumentID, html)
	a.AppendChild(html, body)
	a.AppendChild(body, first)
	a.AppendChild(body, last)

	firstSel := ParseList("p:first-child")[0]
	lastSel := ParseList("p:last-child")[0]
	onlySel := ParseList("p:only-child")[0]

	require.True(t, Matches(a, first, firstSel))
	require.False(t, Matches(a, last, firstSel))
	require.True(t, Matches(a, last, lastSel))
	require.False(t, Matches(a, first, lastSel))
	require.False(t, Matches(a, first, onlySel))
	require.False(t, Matches(a, last, onlySel))

	// body is its parent's only element child.
	require.True(t, Matches(a, body, ParseList("body:only-child")[0]))
}
