package cssparse

import (
	"strings"

	"github.com/wren-browser/wren/csstok"
	"github.com/wren-browser/wren/internal/browserlog"
)

// Stylesheet is an ordered list of style rules. No at-rules are
// recognized by this engine, so only qualified (style) rules survive
// parsing; at-rules are consumed and skipped.
type Stylesheet struct {
	Rules []*StyleRule
}

// StyleRule is a style rule: a selector list (possibly empty, on a
// selector-parse failure — the rule is retained with zero selectors and
// a warning so later rules still apply) plus an ordered declaration list.
type StyleRule struct {
	SelectorText string
	Declarations []Declaration
}

// Declaration is a single property: value pair, carrying its raw
// component values (for var() substitution and shorthand expansion by
// the cascade) and its !important flag.
type Declaration struct {
	Property  string
	Value     []ComponentValue
	Important bool
}

// parser walks a flat token stream with a single read cursor, per the
// Syntax spec's token-stream model (§5.2).
type parser struct {
	tokens []csstok.Token
	pos    int
}

func newParser(input string) *parser {
	return &parser{tokens: csstok.NewTokenizer(input).Tokenize()}
}

func (p *parser) peek() csstok.Token {
	if p.pos >= len(p.tokens) {
		return csstok.Token{Type: csstok.EOFToken}
	}
	return p.tokens[p.pos]
}

func (p *parser) next() csstok.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// Parse runs "parse a stylesheet" (§5.3.3): top-level CDO/CDC tokens are
// discarded, at-rules are consumed and dropped (none are recognized),
// and qualified rules are parsed into StyleRules.
func Parse(input string) *Stylesheet {
	p := newParser(input)
	sheet := &Stylesheet{}
	for {
		tok := p.peek()
		switch tok.Type {
		case csstok.EOFToken:
			return sheet
		case csstok.WhitespaceToken, csstok.CDOToken, csstok.CDCToken:
			p.next()
		case csstok.AtKeywordToken:
			p.consumeAtRule() // recognized at-rules: none; parse past and discard
		default:
			if rule := p.consumeQualifiedRule(); rule != nil {
				sheet.Rules = append(sheet.Rules, rule)
			}
		}
	}
}

// ParseInlineDeclarations parses the contents of a style="" attribute as
// a list of declarations (§5.3.8's "parse a list of declarations"),
// without the surrounding rule/selector machinery.
func ParseInlineDeclarations(input string) []Declaration {
	p := newParser(input)
	var values []ComponentValue
	for p.peek().Type != csstok.EOFToken {
		values = append(values, p.consumeComponentValue())
	}
	return consumeListOfDeclarations(values)
}

// consumeAtRule implements §5.4.2: consume the prelude (component
// values) until ';' or a block, then the block itself if present. The
// result is discarded since no at-rule is recognized by this core.
func (p *parser) consumeAtRule() {
	p.next() // AtKeyword
	for {
		tok := p.peek()
		switch tok.Type {
		case csstok.EOFToken, csstok.SemicolonToken:
			p.next()
			return
		case csstok.LeftBraceToken:
			p.next()
			p.consumeSimpleBlockBody(csstok.LeftBraceToken)
			return
		default:
			p.consumeComponentValue()
		}
	}
}

// consumeQualifiedRule implements §5.4.3: prelude component values up to
// the rule's <{ ... }> body. Reaching EOF before the body is a parse
// error; the rule is discarded (per the Standard).
func (p *parser) consumeQualifiedRule() *StyleRule {
	var prelude []ComponentValue
	for {
		tok := p.peek()
		switch tok.Type {
		case csstok.EOFToken:
			return nil
		case csstok.LeftBraceToken:
			p.next()
			block := p.consumeSimpleBlockBody(csstok.LeftBraceToken)
			selText := strings.TrimSpace(Serialize(trimComponentValues(prelude)))
			if selText == "" {
				return nil
			}
			return &StyleRule{
				SelectorText: selText,
				Declarations: consumeListOfDeclarations(block.Values),
			}
		default:
			prelude = append(prelude, p.consumeComponentValue())
		}
	}
}

var closingToken = map[csstok.TokenType]csstok.TokenType{
	csstok.LeftBraceToken:   csstok.RightBraceToken,
	csstok.LeftParenToken:   csstok.RightParenToken,
	csstok.LeftBracketToken: csstok.RightBracketToken,
}

// consumeSimpleBlockBody implements §5.4.8, having already consumed the
// opening bracket of type open.
func (p *parser) consumeSimpleBlockBody(open csstok.TokenType) ComponentValue {
	close := closingToken[open]
	var values []ComponentValue
	for {
		tok := p.peek()
		if tok.Type == csstok.EOFToken || tok.Type == close {
			p.next()
			return ComponentValue{Kind: BlockValue, Open: open, Values: values}
		}
		values = append(values, p.consumeComponentValue())
	}
}

// consumeComponentValue implements §5.4.7: a simple block, a function,
// or a single preserved token.
func (p *parser) consumeComponentValue() ComponentValue {
	tok := p.next()
	switch tok.Type {
	case csstok.LeftBraceToken, csstok.LeftParenToken, csstok.LeftBracketToken:
		return p.consumeSimpleBlockBody(tok.Type)
	case csstok.FunctionToken:
		return p.consumeFunction(tok.Value)
	default:
		return ComponentValue{Kind: TokenValue, Token: tok}
	}
}

// consumeFunction implements §5.4.9, having already consumed the
// <function-token>.
func (p *parser) consumeFunction(name string) ComponentValue {
	var values []ComponentValue
	for {
		tok := p.peek()
		if tok.Type == csstok.EOFToken || tok.Type == csstok.RightParenToken {
			p.next()
			return ComponentValue{Kind: FunctionValue, Name: name, Values: values}
		}
		values = append(values, p.consumeComponentValue())
	}
}

// consumeListOfDeclarations implements §5.4.4 over an already-collected
// flat component-value list (the contents of a rule's `{ }` block, or a
// style="" attribute's contents): declarations are separated by top-level
// semicolons; stray at-rules inside a declaration block are skipped.
func consumeListOfDeclarations(values []ComponentValue) []Declaration {
	var decls []Declaration
	i := 0
	for i < len(values) {
		cv := values[i]
		switch {
		case cv.IsWhitespace() || (cv.Kind == TokenValue && cv.Token.Type == csstok.SemicolonToken):
			i++
		case cv.Kind == TokenValue && cv.Token.Type == csstok.AtKeywordToken:
			i++ // at-rules nested in a declaration block are not recognized; skip
			for i < len(values) && !(values[i].Kind == TokenValue && values[i].Token.Type == csstok.SemicolonToken) {
				i++
			}
		default:
			end := i
			for end < len(values) && !(values[end].Kind == TokenValue && values[end].Token.Type == csstok.SemicolonToken) {
				end++
			}
			if decl, ok := consumeDeclaration(values[i:end]); ok {
				decls = append(decls, decl)
			}
			i = end
		}
	}
	return decls
}

// consumeDeclaration implements §5.4.6 over one semicolon-delimited
// span: <ident-token> <whitespace>* ':' <value>*, with a trailing
// "!important" detected and stripped.
func consumeDeclaration(values []ComponentValue) (Declaration, bool) {
	values = trimComponentValues(values)
	if len(values) == 0 || values[0].Kind != TokenValue || values[0].Token.Type != csstok.IdentToken {
		return Declaration{}, false
	}
	property := strings.ToLower(values[0].Token.Value)
	rest := trimComponentValues(values[1:])
	if len(rest) == 0 || rest[0].Kind != TokenValue || rest[0].Token.Type != csstok.ColonToken {
		return Declaration{}, false
	}
	rest = trimComponentValues(rest[1:])

	important := false
	if bang, stripped := stripImportant(rest); bang {
		important = true
		rest = stripped
	}

	return Declaration{Property: property, Value: rest, Important: important}, true
}

// stripImportant detects "!important": strip trailing whitespace, an
// "important" ident (case-insensitive), more whitespace, and a '!'
// delim.
func stripImportant(value []ComponentValue) (bool, []ComponentValue) {
	v := trimComponentValues(value)
	if len(v) == 0 {
		return false, value
	}
	last := v[len(v)-1]
	if last.Kind != TokenValue || last.Token.Type != csstok.IdentToken || !strings.EqualFold(last.Token.Value, "important") {
		return false, value
	}
	v = trimComponentValues(v[:len(v)-1])
	if len(v) == 0 {
		return false, value
	}
	bang := v[len(v)-1]
	if bang.Kind != TokenValue || bang.Token.Type != csstok.DelimToken || bang.Token.Delim != '!' {
		return false, value
	}
	return true, trimComponentValues(v[:len(v)-1])
}

// WarnOnEmptySelector reports (once per unique selector text) that a
// rule's selector failed to parse and was retained with zero
// selectors, so later rules still apply.
func WarnOnEmptySelector(selectorText string) {
	browserlog.Global.Once("cssparse", "selector parse failure, rule dropped: "+selectorText)
}
