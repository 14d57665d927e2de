package selector

import (
	"strings"

	"github.com/wren-browser/wren/dom"
	"github.com/wren-browser/wren/internal/browserlog"
)

// Matches reports whether sel matches the element at id. Matching runs
// right-to-left from the candidate (left-to-right would walk the whole
// descendant subtree): the rightmost compound must match the
// candidate itself, then each combinator walks outward (ancestor,
// parent, previous sibling, or preceding siblings) to find a node
// satisfying the next compound to the left.
func Matches(arena *dom.Arena, id dom.NodeID, sel *ComplexSelector) bool {
	n := len(sel.Compounds)
	if n == 0 {
		return false
	}
	if !matchesCompound(arena, id, sel.Compounds[n-1]) {
		return false
	}
	current := id
	for i := n - 2; i >= 0; i-- {
		switch sel.Combinators[i] {
		case Descendant:
			found := dom.NoNode
			for anc := arena.Node(current).Parent; anc != dom.NoNode; anc = arena.Node(anc).Parent {
				if matchesCompound(arena, anc, sel.Compounds[i]) {
					found = anc
					break
				}
			}
			if found == dom.NoNode {
				return false
			}
			current = found
		case Child:
			parent := arena.Node(current).Parent
			if parent == dom.NoNode || !matchesCompound(arena, parent, sel.Compounds[i]) {
				return false
			}
			current = parent
		case Adjacent:
			prev := prevElementSibling(arena, current)
			if prev == dom.NoNode || !matchesCompound(arena, prev, sel.Compounds[i]) {
				return false
			}
			current = prev
		case GeneralSibling:
			found := dom.NoNode
			for s := arena.Node(current).PrevSibling; s != dom.NoNode; s = arena.Node(s).PrevSibling {
				if arena.Node(s).Kind == dom.ElementNode && matchesCompound(arena, s, sel.Compounds[i]) {
					found = s
					break
				}
			}
			if found == dom.NoNode {
				return false
			}
			current = found
		}
	}
	return true
}

func prevElementSibling(arena *dom.Arena, id dom.NodeID) dom.NodeID {
	for s := arena.Node(id).PrevSibling; s != dom.NoNode; s = arena.Node(s).PrevSibling {
		if arena.Node(s).Kind == dom.ElementNode {
			return s
		}
	}
	return dom.NoNode
}

func nextElementSibling(arena *dom.Arena, id dom.NodeID) dom.NodeID {
	for s := arena.Node(id).NextSibling; s != dom.NoNode; s = arena.Node(s).NextSibling {
		if arena.Node(s).Kind == dom.ElementNode {
			return s
		}
	}
	return dom.NoNode
}

func firstElementChild(arena *dom.Arena, parent dom.NodeID) dom.NodeID {
	if parent == dom.NoNode {
		return dom.NoNode
	}
	for c := arena.Node(parent).FirstChild; c != dom.NoNode; c = arena.Node(c).NextSibling {
		if arena.Node(c).Kind == dom.ElementNode {
			return c
		}
	}
	return dom.NoNode
}

func matchesCompound(arena *dom.Arena, id dom.NodeID, c CompoundSelector) bool {
	n := arena.Node(id)
	if n.Kind != dom.ElementNode {
		return false
	}
	if c.Type != "" && !strings.EqualFold(c.Type, n.LocalName) {
		return false
	}
	if c.ID != "" && c.ID != n.ID() {
		return false
	}
	for _, class := range c.Classes {
		if !n.HasClass(class) {
			return false
		}
	}
	for _, attr := range c.Attrs {
		if !matchesAttr(n, attr) {
			return false
		}
	}
	for _, pc := range c.PseudoClasses {
		if !matchesPseudoClass(arena, id, pc) {
			return false
		}
	}
	if c.PseudoElement != "" {
		browserlog.Global.Once("selector", "unsupported pseudo-element, never matches: ::"+c.PseudoElement)
		return false
	}
	return true
}

func matchesAttr(n *dom.Node, a AttrSelector) bool {
	value, ok := n.Attrs.Get(a.Name)
	if !ok {
		return false
	}
	switch a.Op {
	case AttrExists:
		return true
	case AttrEquals:
		return value == a.Value
	case AttrIncludes:
		for _, tok := range strings.Fields(value) {
			if tok == a.Value {
				return true
			}
		}
		return false
	case AttrDashMatch:
		return value == a.Value || strings.HasPrefix(value, a.Value+"-")
	case AttrPrefix:
		return a.Value != "" && strings.HasPrefix(value, a.Value)
	case AttrSuffix:
		return a.Value != "" && strings.HasSuffix(value, a.Value)
	case AttrSubstring:
		return a.Value != "" && strings.Contains(value, a.Value)
	}
	return false
}

// matchesPseudoClass supports the small, purely-structural pseudo-class
// set that needs no scripting/interaction state; unsupported
// pseudo-classes never match and record a warning. Interaction
// pseudo-classes (:hover, :focus, :active) and anything else fall
// through to the warning path.
func matchesPseudoClass(arena *dom.Arena, id dom.NodeID, name string) bool {
	switch strings.ToLower(name) {
	case "root":
		return arena.Node(id).Parent == dom.DocumentID
	case "first-child":
		return firstElementChild(arena, arena.Node(id).Parent) == id
	case "last-child":
		// Last child iff no element sibling follows.
		if arena.Node(id).Parent == dom.NoNode {
			return false
		}
		return nextElementSibling(arena, id) == dom.NoNode
	case "only-child":
		if arena.Node(id).Parent == dom.NoNode {
			return false
		}
		return prevElementSibling(arena, id) == dom.NoNode &&
			nextElementSibling(arena, id) == dom.NoNode
	case "empty":
		return arena.Node(id).FirstChild == dom.NoNode
	default:
		browserlog.Global.Once("selector", "unsupported pseudo-class, never matches: :"+name)
		return false
	}
}
