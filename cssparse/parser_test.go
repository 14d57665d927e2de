package cssparse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBasicRule(t *testing.T) {
	sheet := Parse(`p { color: red; margin: 1px 2px; }`)
	require.Len(t, sheet.Rules, 1)
	rule := sheet.Rules[0]
	require.Equal(t, "p", rule.SelectorText)
	require.Len(t, rule.Declarations, 2)
	require.Equal(t, "color", rule.Declarations[0].Property)
	require.Equal(t, "margin", rule.Declarations[1].Property)
}

func TestParseMultipleSelectorsAndRules(t *testing.T) {
	sheet := Parse(`h1, h2 { font-weight: bold; } .x { color: #0f0; }`)
	require.Len(t, sheet.Rules, 2)
	require.Equal(t, "h1, h2", sheet.Rules[0].SelectorText)
	require.Equal(t, ".x", sheet.Rules[1].SelectorText)
}

func TestImportantDetection(t *testing.T) {
	sheet := Parse(`p { color: red !important; width: 10px; }`)
	require.Len(t, sheet.Rules, 1)
	decls := sheet.Rules[0].Declarations
	require.True(t, decls[0].Important)
	require.False(t, decls[1].Important)
}

func TestAtRulesSkipped(t *testing.T) {
	sheet := Parse(`@media screen { p { color: red; } } .y { color: blue; }`)
	// No at-rules are recognized, so @media and its contents are
	// dropped entirely, including the nested rule.
	require.Len(t, sheet.Rules, 1)
	require.Equal(t, ".y", sheet.Rules[0].SelectorText)
}

func TestUnterminatedAtRule(t *testing.T) {
	sheet := Parse(`@import "foo.css"; .z { color: green; }`)
	require.Len(t, sheet.Rules, 1)
	require.Equal(t, ".z", sheet.Rules[0].SelectorText)
}

func TestMalformedRuleDoesNotBlockLaterRules(t *testing.T) {
	sheet := Parse(`{ color: red; } .ok { color: blue; }`)
	// A rule with an empty prelude (no selector text) is dropped, but
	// parsing continues and later rules still apply.
	require.Len(t, sheet.Rules, 1)
	require.Equal(t, ".ok", sheet.Rules[0].SelectorText)
}

func TestParseInlineDeclarations(t *testing.T) {
	decls := ParseInlineDeclarations(`color: red; font-size:12px`)
	require.Len(t, decls, 2)
	require.Equal(t, "color", decls[0].Property)
	require.Equal(t, "font-size", decls[1].Property)
}

func TestResolveVarSimple(t *testing.T) {
	decls := ParseInlineDeclarations(`color: var(--main)`)
	customProps := map[string][]ComponentValue{
		"--main": ParseInlineDeclarations(`x: red`)[0].Value,
	}
	resolved, ok := ResolveVar(decls[0].Value, customProps)
	require.True(t, ok)
	require.Equal(t, "red", Serialize(resolved))
}

func TestResolveVarFallback(t *testing.T) {
	decls := ParseInlineDeclarations(`color: var(--missing, blue)`)
	resolved, ok := ResolveVar(decls[0].Value, map[string][]ComponentValue{})
	require.True(t, ok)
	require.Equal(t, "blue", Serialize(resolved))
}

func TestResolveVarMissingNoFallbackInvalid(t *testing.T) {
	decls := ParseInlineDeclarations(`color: var(--missing)`)
	_, ok := ResolveVar(decls[0].Value, map[string][]ComponentValue{})
	require.False(t, ok)
}

func TestResolveVarCycleExceedsDepthBudget(t *testing.T) {
	customProps := map[string][]ComponentValue{}
	decls := ParseInlineDeclarations(`x: var(--a)`)
	customProps["--a"] = decls[0].Value // --a refers to itself
	_, ok := ResolveVar(customProps["--a"], customProps)
	require.False(t, ok)
}

func TestSerializeRoundTrip(t *testing.T) {
	src := `p { color: red; margin: 1px 2px 3px 4px; }`
	sheet := Parse(src)
	reSerialized := sheet.Rules[0].SelectorText + " { " + declsToCSS(sheet.Rules[0].Declarations) + " }"
	sheet2 := Parse(reSerialized)
	require.Equal(t, len(sheet.Rules), len(sheet2.Rules))
	require.Equal(t, sheet.Rules[0].SelectorText, sheet2.Rules[0].SelectorText)
	require.Equal(t, len(sheet.Rules[0].Declarations), len(sheet2.Rules[0].Declarations))
}

func declsToCSS(decls []Declaration) string {
	out := ""
	for _, d := range decls {
		out += d.Property + ": " + Serialize(d.Value) + "; "
	}
	return out
}
