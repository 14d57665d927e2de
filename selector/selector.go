// Package selector parses CSS selector text into a right-to-left
// matchable form and evaluates it against nodes of an arena DOM.
//
// Spec references:
// - Selectors Level 3/4: https://www.w3.org/TR/selectors-4/
// - CSS 2.1 §5 Selectors: https://www.w3.org/TR/CSS21/selector.html
package selector

import (
	"github.com/wren-browser/wren/csstok"
)

// Combinator is the relation between two adjacent compound selectors in
// a complex selector.
type Combinator int

const (
	Descendant Combinator = iota
	Child
	Adjacent
	GeneralSibling
)

// AttrOp is a CSS attribute-selector comparison operator.
type AttrOp int

const (
	AttrExists AttrOp = iota // [attr]
	AttrEquals                // [attr=value]
	AttrIncludes              // [attr~=value]
	AttrDashMatch             // [attr|=value]
	AttrPrefix                // [attr^=value]
	AttrSuffix                // [attr$=value]
	AttrSubstring             // [attr*=value]
)

// AttrSelector is a single [name op value] attribute selector.
type AttrSelector struct {
	Name  string
	Op    AttrOp
	Value string
}

// CompoundSelector is an unordered set of simple selectors with no
// combinators: an optional type or universal selector,
// zero-or-more classes, an optional id, zero-or-more attribute
// selectors, and zero-or-more pseudo-classes.
type CompoundSelector struct {
	Type          string // "" if absent
	Universal     bool
	ID            string
	Classes       []string
	Attrs         []AttrSelector
	PseudoClasses []string
	PseudoElement string // "" if absent; unsupported, never matches
}

// ComplexSelector is a sequence of compound selectors joined by
// combinators, left to right in source order. len(Combinators) ==
// len(Compounds)-1; Combinators[i] joins Compounds[i] and Compounds[i+1].
type ComplexSelector struct {
	Compounds   []CompoundSelector
	Combinators []Combinator
}

// Specificity is the (id, class, type) triple used to compare selector
// priority within one cascade origin, compared lexicographically.
type Specificity struct {
	ID    int
	Class int
	Type  int
}

// Less reports whether s has strictly lower specificity than other,
// compared lexicographically (id, then class, then type).
func (s Specificity) Less(other Specificity) bool {
	if s.ID != other.ID {
		return s.ID < other.ID
	}
	if s.Class != other.Class {
		return s.Class < other.Class
	}
	return s.Type < other.Type
}

// Specificity sums (id-count, class+attribute+pseudo-class-count,
// type+pseudo-element-count) over every compound in the complex
// selector. The universal selector contributes nothing.
func (cs *ComplexSelector) Specificity() Specificity {
	var s Specificity
	for _, c := range cs.Compounds {
		if c.ID != "" {
			s.ID++
		}
		s.Class += len(c.Classes) + len(c.Attrs) + len(c.PseudoClasses)
		if c.Type != "" {
			s.Type++
		}
		if c.PseudoElement != "" {
			s.Type++
		}
	}
	return s
}

// parser walks a selector text's token stream with a one-token lookahead.
type parser struct {
	tokens []csstok.Token
	pos    int
}

func newParser(text string) *parser {
	var toks []csstok.Token
	tok := csstok.NewTokenizer(text)
	for {
		t := tok.Next()
		toks = append(toks, t)
		if t.Type == csstok.EOFToken {
			break
		}
	}
	return &parser{tokens: toks}
}

func (p *parser) peek() csstok.Token {
	if p.pos >= len(p.tokens) {
		return csstok.Token{Type: csstok.EOFToken}
	}
	return p.tokens[p.pos]
}

func (p *parser) next() csstok.Token {
	t := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *parser) skipWhitespace() bool {
	any := false
	for p.peek().Type == csstok.WhitespaceToken {
		p.next()
		any = true
	}
	return any
}

// ParseList parses a comma-separated selector list (Selectors Level 3
// grouping). It returns nil if any selector in the list fails to
// parse - the caller is responsible for
// keeping the owning rule with an empty selector list and reporting the
// warning.
func ParseList(text string) []*ComplexSelector {
	p := newParser(text)
	var out []*ComplexSelector
	for {
		p.skipWhitespace()
		sel, ok := p.parseComplexSelector()
		if !ok {
			return nil
		}
		out = append(out, sel)
		p.skipWhitespace()
		switch p.peek().Type {
		case csstok.CommaToken:
			p.next()
			continue
		case csstok.EOFToken:
			return out
		default:
			return nil
		}
	}
}

func (p *parser) parseComplexSelector() (*ComplexSelector, bool) {
	first, ok := p.parseCompound()
	if !ok {
		return nil, false
	}
	sel := &ComplexSelector{Compounds: []CompoundSelector{first}}
	for {
		hadWS := p.skipWhitespace()
		comb := Descendant
		explicit := false
		if p.peek().Type == csstok.DelimToken {
			switch p.peek().Delim {
			case '>':
				comb, explicit = Child, true
			case '+':
				comb, explicit = Adjacent, true
			case '~':
				comb, explicit = GeneralSibling, true
			}
			if explicit {
				p.next()
				p.skipWhitespace()
			}
		}
		if !p.startsCompound() {
			if explicit {
				return nil, false
			}
			break
		}
		if !explicit && !hadWS {
			return nil, false
		}
		next, ok := p.parseCompound()
		if !ok {
			return nil, false
		}
		sel.Compounds = append(sel.Compounds, next)
		sel.Combinators = append(sel.Combinators, comb)
	}
	return sel, true
}

func (p *parser) startsCompound() bool {
	tok := p.peek()
	switch tok.Type {
	case csstok.IdentToken, csstok.HashToken, csstok.LeftBracketToken, csstok.ColonToken, csstok.FunctionToken:
		return true
	case csstok.DelimToken:
		return tok.Delim == '*' || tok.Delim == '.'
	}
	return false
}

func (p *parser) parseCompound() (CompoundSelector, bool) {
	var c CompoundSelector
	matched := false
	tok := p.peek()
	switch {
	case tok.Type == csstok.IdentToken:
		c.Type = tok.Value
		p.next()
		matched = true
	case tok.Type == csstok.DelimToken && tok.Delim == '*':
		c.Universal = true
		p.next()
		matched = true
	}
loop:
	for {
		tok = p.peek()
		switch {
		case tok.Type == csstok.HashToken:
			c.ID = tok.Value
			p.next()
			matched = true
		case tok.Type == csstok.DelimToken && tok.Delim == '.':
			p.next()
			id := p.peek()
			if id.Type != csstok.IdentToken {
				return CompoundSelector{}, false
			}
			c.Classes = append(c.Classes, id.Value)
			p.next()
			matched = true
		case tok.Type == csstok.LeftBracketToken:
			attr, ok := p.parseAttrSelector()
			if !ok {
				return CompoundSelector{}, false
			}
			c.Attrs = append(c.Attrs, attr)
			matched = true
		case tok.Type == csstok.ColonToken:
			if !p.parsePseudo(&c) {
				return CompoundSelector{}, false
			}
			matched = true
		default:
			break loop
		}
	}
	if !matched {
		return CompoundSelector{}, false
	}
	return c, true
}

func (p *parser) parsePseudo(c *CompoundSelector) bool {
	p.next() // ':'
	element := false
	if p.peek().Type == csstok.ColonToken {
		p.next()
		element = true
	}
	tok := p.peek()
	var name string
	switch tok.Type {
	case csstok.IdentToken:
		name = tok.Value
		p.next()
	case csstok.FunctionToken:
		name = tok.Value
		p.next()
		depth := 1
		for depth > 0 {
			t := p.next()
			if t.Type == csstok.EOFToken {
				break
			}
			if t.Type == csstok.LeftParenToken || t.Type == csstok.FunctionToken {
				depth++
			}
			if t.Type == csstok.RightParenToken {
				depth--
			}
		}
	default:
		return false
	}
	if element {
		c.PseudoElement = name
	} else {
		c.PseudoClasses = append(c.PseudoClasses, name)
	}
	return true
}

func (p *parser) parseAttrSelector() (AttrSelector, bool) {
	p.next() // '['
	p.skipWhitespace()
	nameTok := p.next()
	if nameTok.Type != csstok.IdentToken {
		return AttrSelector{}, false
	}
	attr := AttrSelector{Name: nameTok.Value, Op: AttrExists}
	p.skipWhitespace()
	op, hasOp := p.consumeAttrOp()
	if hasOp {
		p.skipWhitespace()
		valTok := p.next()
		var value string
		switch valTok.Type {
		case csstok.StringToken:
			value = valTok.Value
		case csstok.IdentToken:
			value = valTok.Value
		default:
			return AttrSelector{}, false
		}
		attr.Op = op
		attr.Value = value
		p.skipWhitespace()
	}
	if p.peek().Type != csstok.RightBracketToken {
		return AttrSelector{}, false
	}
	p.next()
	return attr, true
}

// consumeAttrOp consumes one of the attribute-selector operators. CSS
// Syntax has no dedicated "~=" style tokens, so a two-character
// operator is two adjacent Delim tokens; a bare '=' is the
// single-character equality operator.
func (p *parser) consumeAttrOp() (AttrOp, bool) {
	tok := p.peek()
	if tok.Type != csstok.DelimToken {
		return 0, false
	}
	switch tok.Delim {
	case '=':
		p.next()
		return AttrEquals, true
	case '~', '|', '^', '$', '*':
		second := p.peekAt(1)
		if second.Type != csstok.DelimToken || second.Delim != '=' {
			return 0, false
		}
		p.next()
		p.next()
		switch tok.Delim {
		case '~':
			return AttrIncludes, true
		case '|':
			return AttrDashMatch, true
		case '^':
			return AttrPrefix, true
		case '$':
			return AttrSuffix, true
		case '*':
			return AttrSubstring, true
		}
	}
	return 0, false
}

func (p *parser) peekAt(n int) csstok.Token {
	i := p.pos + n
	if i >= len(p.tokens) {
		return csstok.Token{Type: csstok.EOFToken}
	}
	return p.tokens[i]
}
