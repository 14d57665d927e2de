// Package cssparse implements the CSS Syntax Level 3 "parse a stylesheet"
// and "parse a list of declarations" algorithms over csstok's token
// stream, producing rules built from component values (preserved tokens,
// functions, and simple blocks).
//
// Spec references:
// - CSS Syntax Module Level 3 §5 Parsing: https://www.w3.org/TR/css-syntax-3/#parsing
// - CSS Custom Properties for Cascading Variables Level 1 §4 (var()):
//   https://www.w3.org/TR/css-variables-1/#using-variables
package cssparse

import (
	"strconv"
	"strings"

	"github.com/wren-browser/wren/csstok"
)

// ComponentValueKind is the variant tag of a ComponentValue: a
// preserved Token, a Function, or a Block.
type ComponentValueKind int

const (
	TokenValue ComponentValueKind = iota
	FunctionValue
	BlockValue
)

// ComponentValue is one entry of a declaration's value or a rule's
// prelude: either a single preserved token, a function (name + argument
// component values), or a simple block (an open-bracket type plus its
// contents).
type ComponentValue struct {
	Kind  ComponentValueKind
	Token csstok.Token // TokenValue

	Name   string           // FunctionValue
	Open   csstok.TokenType // BlockValue: the bracket that opened it
	Values []ComponentValue // FunctionValue args, or BlockValue contents
}

// IsWhitespace reports whether cv is a single whitespace token.
func (cv ComponentValue) IsWhitespace() bool {
	return cv.Kind == TokenValue && cv.Token.Type == csstok.WhitespaceToken
}

// trimComponentValues strips leading/trailing whitespace component
// values, per the Syntax spec's habit of trimming before inspecting a
// value (used for !important detection and declaration-value trimming).
func trimComponentValues(cvs []ComponentValue) []ComponentValue {
	start := 0
	for start < len(cvs) && cvs[start].IsWhitespace() {
		start++
	}
	end := len(cvs)
	for end > start && cvs[end-1].IsWhitespace() {
		end--
	}
	return cvs[start:end]
}

// Serialize reconstructs CSS text from component values. It round-trips
// well enough that re-tokenizing the result reproduces the same token
// stream modulo exact whitespace width.
func Serialize(cvs []ComponentValue) string {
	var sb strings.Builder
	for _, cv := range cvs {
		serializeOne(&sb, cv)
	}
	return sb.String()
}

func serializeOne(sb *strings.Builder, cv ComponentValue) {
	switch cv.Kind {
	case FunctionValue:
		sb.WriteString(cv.Name)
		sb.WriteByte('(')
		sb.WriteString(Serialize(cv.Values))
		sb.WriteByte(')')
	case BlockValue:
		open, close := bracketChars(cv.Open)
		sb.WriteByte(open)
		sb.WriteString(Serialize(cv.Values))
		sb.WriteByte(close)
	default:
		serializeToken(sb, cv.Token)
	}
}

func bracketChars(open csstok.TokenType) (byte, byte) {
	switch open {
	case csstok.LeftParenToken:
		return '(', ')'
	case csstok.LeftBracketToken:
		return '[', ']'
	default:
		return '{', '}'
	}
}

func serializeToken(sb *strings.Builder, tok csstok.Token) {
	switch tok.Type {
	case csstok.IdentToken:
		sb.WriteString(tok.Value)
	case csstok.FunctionToken:
		sb.WriteString(tok.Value)
		sb.WriteByte('(')
	case csstok.AtKeywordToken:
		sb.WriteByte('@')
		sb.WriteString(tok.Value)
	case csstok.HashToken:
		sb.WriteByte('#')
		sb.WriteString(tok.Value)
	case csstok.StringToken:
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(tok.Value, `"`, `\"`))
		sb.WriteByte('"')
	case csstok.BadStringToken:
		sb.WriteString(tok.Value)
	case csstok.UrlToken:
		sb.WriteString("url(")
		sb.WriteString(tok.Value)
		sb.WriteByte(')')
	case csstok.BadUrlToken:
		sb.WriteString("url(")
		sb.WriteString(tok.Value)
	case csstok.DelimToken:
		sb.WriteRune(tok.Delim)
	case csstok.NumberToken:
		sb.WriteString(tok.Repr)
	case csstok.PercentageToken:
		sb.WriteString(tok.Repr)
		sb.WriteByte('%')
	case csstok.DimensionToken:
		sb.WriteString(tok.Repr)
		sb.WriteString(tok.Unit)
	case csstok.WhitespaceToken:
		sb.WriteByte(' ')
	case csstok.CDOToken:
		sb.WriteString("<!--")
	case csstok.CDCToken:
		sb.WriteString("-->")
	case csstok.ColonToken:
		sb.WriteByte(':')
	case csstok.SemicolonToken:
		sb.WriteByte(';')
	case csstok.CommaToken:
		sb.WriteByte(',')
	case csstok.LeftBracketToken:
		sb.WriteByte('[')
	case csstok.RightBracketToken:
		sb.WriteByte(']')
	case csstok.LeftParenToken:
		sb.WriteByte('(')
	case csstok.RightParenToken:
		sb.WriteByte(')')
	case csstok.LeftBraceToken:
		sb.WriteByte('{')
	case csstok.RightBraceToken:
		sb.WriteByte('}')
	}
}

// maxVarDepth bounds var() substitution recursion, defending against
// reference cycles.
const maxVarDepth = 32

// ResolveVar substitutes every var(--name[, fallback]) in value with the
// resolved custom-property value (recursively, in case the custom
// property's own value contains var()) or, if unset, the fallback's
// further-resolved form. It returns the substituted value and false if
// substitution failed — a referenced custom property was unset with no
// fallback, or the depth budget was exceeded — in which case the whole
// declaration is invalid at computed-value time.
func ResolveVar(value []ComponentValue, customProps map[string][]ComponentValue) ([]ComponentValue, bool) {
	return resolveVarDepth(value, customProps, 0)
}

func resolveVarDepth(value []ComponentValue, customProps map[string][]ComponentValue, depth int) ([]ComponentValue, bool) {
	if depth > maxVarDepth {
		return nil, false
	}
	out := make([]ComponentValue, 0, len(value))
	for _, cv := range value {
		switch cv.Kind {
		case FunctionValue:
			if strings.EqualFold(cv.Name, "var") {
				substituted, ok := resolveVarCall(cv.Values, customProps, depth)
				if !ok {
					return nil, false
				}
				out = append(out, substituted...)
				continue
			}
			children, ok := resolveVarDepth(cv.Values, customProps, depth+1)
			if !ok {
				return nil, false
			}
			out = append(out, ComponentValue{Kind: FunctionValue, Name: cv.Name, Values: children})
		case BlockValue:
			children, ok := resolveVarDepth(cv.Values, customProps, depth+1)
			if !ok {
				return nil, false
			}
			out = append(out, ComponentValue{Kind: BlockValue, Open: cv.Open, Values: children})
		default:
			out = append(out, cv)
		}
	}
	return out, true
}

func resolveVarCall(args []ComponentValue, customProps map[string][]ComponentValue, depth int) ([]ComponentValue, bool) {
	args = trimComponentValues(args)
	if len(args) == 0 || args[0].Kind != TokenValue || args[0].Token.Type != csstok.IdentToken {
		return nil, false
	}
	name := args[0].Token.Value
	rest := trimComponentValues(args[1:])
	var fallback []ComponentValue
	hasFallback := false
	if len(rest) > 0 && rest[0].Kind == TokenValue && rest[0].Token.Type == csstok.CommaToken {
		fallback = trimComponentValues(rest[1:])
		hasFallback = true
	}

	if resolved, ok := customProps[name]; ok {
		return resolveVarDepth(resolved, customProps, depth+1)
	}
	if hasFallback {
		return resolveVarDepth(fallback, customProps, depth+1)
	}
	return nil, false
}

// NumericValue turns a Number/Dimension/Percentage token into a float,
// returning ok=false for any other token kind. Declaration value parsers
// in the cascade package use it when only the magnitude matters.
func NumericValue(tok csstok.Token) (float64, bool) {
	switch tok.Type {
	case csstok.NumberToken, csstok.DimensionToken, csstok.PercentageToken:
		return tok.NumValue, true
	}
	return 0, false
}

// ParseFloat is a convenience wrapper over strconv for callers that
// already hold a Repr string (e.g. after Serialize).
func ParseFloat(s string) (float64, error) { return strconv.ParseFloat(s, 64) }
