package cascade

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wren-browser/wren/dom"
)

func buildPTree(t *testing.T, class string) (*dom.Arena, dom.NodeID) {
	t.Helper()
	a := dom.NewArena()
	html := a.NewElement("html")
	body := a.NewElement("body")
	p := a.NewElement("p")
	if class != "" {
		a.Node(p).Attrs.Set("class", class)
	}
	a.AppendChild(dom.DocumentID, html)
	a.AppendChild(html, body)
	a.AppendChild(body, p)
	return a, p
}

func TestSpecificityWithinSameOriginPicksMoreSpecificRule(t *testing.T) {
	a, p := buildPTree(t, "x")
	styles := StyleTree(a, dom.DocumentID, "p{color:#f00} .x{color:#0f0}")
	cs := styles[p]
	require.NotNil(t, cs)
	require.Equal(t, Color{0, 255, 0, 255}, cs.Color)
}

func TestAuthorOriginDominatesUAOriginRegardlessOfSpecificity(t *testing.T) {
	a, p := buildPTree(t, "")
	// UA stylesheet declares `p { display: block }`; a low-specificity
	// author type selector must still win over it.
	styles := StyleTree(a, dom.DocumentID, "p{display:inline}")
	cs := styles[p]
	require.NotNil(t, cs)
	require.Equal(t, OuterInline, cs.Display.Outer)
}

func TestSourceOrderBreaksSpecificityTie(t *testing.T) {
	a, p := buildPTree(t, "x")
	styles := StyleTree(a, dom.DocumentID, ".x{color:#f00} .x{color:#00f}")
	cs := styles[p]
	require.Equal(t, Color{0, 0, 255, 255}, cs.Color)
}

func TestImportantOverridesNormalDeclaration(t *testing.T) {
	a, p := buildPTree(t, "x")
	styles := StyleTree(a, dom.DocumentID, "#no-match{color:#f00} .x{color:#00f !important} .x{color:#0f0}")
	cs := styles[p]
	require.Equal(t, Color{0, 0, 255, 255}, cs.Color)
}

func TestInlineStyleBeatsStylesheetRules(t *testing.T) {
	a, p := buildPTree(t, "x")
	a.Node(p).Attrs.Set("style", "color: #123456")
	styles := StyleTree(a, dom.DocumentID, ".x{color:#0f0 !important}")
	cs := styles[p]
	c, ok := parseHexColor("123456")
	require.True(t, ok)
	require.Equal(t, c, cs.Color)
}

func TestInheritanceCopiesInheritedPropertiesOnly(t *testing.T) {
	a := dom.NewArena()
	html := a.NewElement("html")
	body := a.NewElement("body")
	div := a.NewElement("div")
	span := a.NewElement("span")
	a.AppendChild(dom.DocumentID, html)
	a.AppendChild(html, body)
	a.AppendChild(body, div)
	a.AppendChild(div, span)

	styles := StyleTree(a, dom.DocumentID, "div{color:#ff0000; margin: 10px}")
	divStyle := styles[div]
	spanStyle := styles[span]
	require.Equal(t, divStyle.Color, spanStyle.Color, "color inherits")
	require.False(t, spanStyle.MarginTop.Auto, "margin does not inherit")
	require.Zero(t, spanStyle.MarginTop.Length.Value, "margin resets to its initial zero")
}

func TestMarginShorthandExpandsTwoValueForm(t *testing.T) {
	a, p := buildPTree(t, "")
	styles := StyleTree(a, dom.DocumentID, "p{margin: 10px 20px}")
	cs := styles[p]
	require.Equal(t, Length{10, UnitPx}, cs.MarginTop.Length)
	require.Equal(t, Length{20, UnitPx}, cs.MarginRight.Length)
	require.Equal(t, Length{10, UnitPx}, cs.MarginBottom.Length)
	require.Equal(t, Length{20, UnitPx}, cs.MarginLeft.Length)
}

func TestBorderShorthandAppliesToAllFourSides(t *testing.T) {
	a, p := buildPTree(t, "")
	styles := StyleTree(a, dom.DocumentID, "p{border: 2px solid #000000}")
	cs := styles[p]
	for _, side := range []BorderSide{cs.BorderTop, cs.BorderRight, cs.BorderBottom, cs.BorderLeft} {
		require.Equal(t, Length{2, UnitPx}, side.Width)
		require.Equal(t, "solid", side.Style)
		require.Equal(t, Color{0, 0, 0, 255}, side.Color)
	}
}

func TestVarSubstitutionResolvesThroughCascade(t *testing.T) {
	a, p := buildPTree(t, "")
	styles := StyleTree(a, dom.DocumentID, "p{--c: #00ff00; color: var(--c)}")
	cs := styles[p]
	require.Equal(t, Color{0, 255, 0, 255}, cs.Color)
}

func TestVarSubstitutionFallbackUsedWhenPropertyUnset(t *testing.T) {
	a, p := buildPTree(t, "")
	styles := StyleTree(a, dom.DocumentID, "p{color: var(--missing, #00ff00)}")
	cs := styles[p]
	require.Equal(t, Color{0, 255, 0, 255}, cs.Color)
}

func TestUnsupportedPropertyValueLeavesPropertyUnset(t *testing.T) {
	a, p := buildPTree(t, "")
	styles := StyleTree(a, dom.DocumentID, "p{color: not-a-color}")
	cs := styles[p]
	// Falls back to the inherited/initial value (black) rather than
	// panicking or storing garbage.
	require.Equal(t, Color{0, 0, 0, 255}, cs.Color)
}

func TestFontSizeEmResolvesAgainstParentComputedFontSize(t *testing.T) {
	a := dom.NewArena()
	html := a.NewElement("html")
	body := a.NewElement("body")
	div := a.NewElement("div")
	span := a.NewElement("span")
	a.AppendChild(dom.DocumentID, html)
	a.AppendChild(html, body)
	a.AppendChild(body, div)
	a.AppendChild(div, span)

	styles := StyleTree(a, dom.DocumentID, "div{font-size: 20px} span{font-size: 2em}")
	require.Equal(t, Length{20, UnitPx}, styles[div].FontSize)
	require.Equal(t, Length{40, UnitPx}, styles[span].FontSize)
}
