package cascade

import (
	"sort"

	"github.com/wren-browser/wren/cssparse"
	"github.com/wren-browser/wren/dom"
	"github.com/wren-browser/wren/internal/browserlog"
	"github.com/wren-browser/wren/selector"
)

// origin is the cascade origin of a matched rule: author always
// dominates user-agent, regardless of specificity.
type origin int

const (
	originUA origin = iota
	originAuthor
)

// compiledRule pairs a parsed stylesheet rule with its pre-parsed
// selector list and its position in that stylesheet's source order, so
// matching never re-parses selector text per element.
type compiledRule struct {
	origin    origin
	order     int
	selectors []*selector.ComplexSelector
	decls     []cssparse.Declaration
}

func compileSheet(sheet *cssparse.Stylesheet, o origin, orderBase int) []compiledRule {
	var out []compiledRule
	for i, rule := range sheet.Rules {
		sels := selector.ParseList(rule.SelectorText)
		if sels == nil {
			cssparse.WarnOnEmptySelector(rule.SelectorText)
			continue
		}
		out = append(out, compiledRule{origin: o, order: orderBase + i, selectors: sels, decls: rule.Declarations})
	}
	return out
}

// matchedDecl is one declaration contributed by a matching rule, tagged
// with enough cascade-sort keys to order it against every other
// matched declaration on the same element.
type matchedDecl struct {
	origin      origin
	specificity selector.Specificity
	order       int
	decl        cssparse.Declaration
}

// StyleTree computes a per-node ComputedStyle table for the subtree
// rooted at root, by matching every rule of the UA stylesheet and the
// given author stylesheet against each element and applying the
// cascade and inheritance algorithm top-down.
func StyleTree(arena *dom.Arena, root dom.NodeID, authorCSS string) map[dom.NodeID]*ComputedStyle {
	uaRules := compileSheet(UAStylesheet(), originUA, 0)
	authorSheet := cssparse.Parse(authorCSS)
	authorRules := compileSheet(authorSheet, originAuthor, len(uaRules))
	allRules := append(uaRules, authorRules...)

	result := make(map[dom.NodeID]*ComputedStyle)
	var walk func(id dom.NodeID, parent *ComputedStyle)
	walk = func(id dom.NodeID, parent *ComputedStyle) {
		n := arena.Node(id)
		// Non-element nodes store no style; their children (the root
		// element under the Document) still cascade.
		cs := parent
		if n.Kind == dom.ElementNode {
			cs = inheritedFrom(parent)
			applyMatchedRules(arena, id, allRules, cs)
			applyInlineStyle(arena, id, cs)
			result[id] = cs
		}
		for c := n.FirstChild; c != dom.NoNode; c = arena.Node(c).NextSibling {
			walk(c, cs)
		}
	}
	walk(root, nil)
	return result
}

// applyMatchedRules finds every rule matching id, sorts the resulting
// declarations by (origin, specificity, source order) so normal
// declarations apply least-specific-first, then does the same again
// for !important declarations so they always win over normal ones
// within the applying element.
func applyMatchedRules(arena *dom.Arena, id dom.NodeID, rules []compiledRule, cs *ComputedStyle) {
	var normal, important []matchedDecl
	for _, r := range rules {
		spec, ok := bestMatch(arena, id, r.selectors)
		if !ok {
			continue
		}
		for _, d := range r.decls {
			md := matchedDecl{origin: r.origin, specificity: spec, order: r.order, decl: d}
			if d.Important {
				important = append(important, md)
			} else {
				normal = append(normal, md)
			}
		}
	}
	sortMatched(normal)
	sortMatched(important)
	applyDecls(cs, normal)
	applyDecls(cs, important)
}

// bestMatch reports whether any selector in sels matches id, and if so
// the highest specificity among the matching selectors — a selector
// list is shorthand for one rule per selector sharing the same
// declarations sharing one declaration block.
func bestMatch(arena *dom.Arena, id dom.NodeID, sels []*selector.ComplexSelector) (selector.Specificity, bool) {
	var best selector.Specificity
	found := false
	for _, s := range sels {
		if !selector.Matches(arena, id, s) {
			continue
		}
		spec := s.Specificity()
		if !found || best.Less(spec) {
			best = spec
			found = true
		}
	}
	return best, found
}

func sortMatched(decls []matchedDecl) {
	sort.SliceStable(decls, func(i, j int) bool {
		a, b := decls[i], decls[j]
		if a.origin != b.origin {
			return a.origin < b.origin
		}
		if a.specificity != b.specificity {
			return a.specificity.Less(b.specificity)
		}
		return a.order < b.order
	})
}

func applyDecls(cs *ComputedStyle, decls []matchedDecl) {
	for i, md := range decls {
		applyOneDeclaration(cs, md.decl.Property, md.decl.Value, i)
	}
}

// applyInlineStyle applies a style="" attribute's declarations last,
// above both UA and author stylesheet rules regardless of specificity
// (CSS 2.1 §6.4.3's "style attribute is considered to have specificity
// higher than any selector").
func applyInlineStyle(arena *dom.Arena, id dom.NodeID, cs *ComputedStyle) {
	styleAttr, ok := arena.Node(id).Attrs.Get("style")
	if !ok || styleAttr == "" {
		return
	}
	decls := cssparse.ParseInlineDeclarations(styleAttr)
	for i, d := range decls {
		applyOneDeclaration(cs, d.Property, d.Value, i)
	}
}

// applyOneDeclaration resolves var() against the element's
// accumulated custom properties, then expands shorthands and applies
// each resulting longhand.
func applyOneDeclaration(cs *ComputedStyle, property string, value []cssparse.ComponentValue, order int) {
	resolved, ok := cssparse.ResolveVar(value, cs.CustomProps)
	if !ok {
		browserlog.Global.Once("cascade", "var() resolution failed for "+property+", declaration ignored")
		return
	}
	if len(property) > 2 && property[:2] == "--" {
		cs.CustomProps[property] = resolved
		return
	}
	for longhand, lv := range expandShorthand(property, resolved) {
		applyDeclaration(cs, longhand, lv, order)
	}
}
