package csstok

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func tokenize(input string) []Token {
	return NewTokenizer(input).Tokenize()
}

func types(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, t := range tokens {
		out[i] = t.Type
	}
	return out
}

func TestSimpleRuleTokenSequence(t *testing.T) {
	tokens := tokenize("p{color:red}")
	require.Equal(t, []TokenType{
		IdentToken, LeftBraceToken, IdentToken, ColonToken,
		IdentToken, RightBraceToken, EOFToken,
	}, types(tokens))
	require.Equal(t, "p", tokens[0].Value)
	require.Equal(t, "color", tokens[2].Value)
	require.Equal(t, "red", tokens[4].Value)
}

func TestStreamEndsWithExactlyOneEOF(t *testing.T) {
	for _, input := range []string{"", "a", "a{b:c}", "/* comment */", "\"unterminated"} {
		tokens := tokenize(input)
		require.NotEmpty(t, tokens, input)
		require.Equal(t, EOFToken, tokens[len(tokens)-1].Type, input)
		for _, tok := range tokens[:len(tokens)-1] {
			require.NotEqual(t, EOFToken, tok.Type, input)
		}
	}
}

func TestNumberPercentageDimension(t *testing.T) {
	tokens := tokenize("12 3.5% 16px -2.5em")
	var numeric []Token
	for _, tok := range tokens {
		switch tok.Type {
		case NumberToken, PercentageToken, DimensionToken:
			numeric = append(numeric, tok)
		}
	}
	require.Len(t, numeric, 4)

	require.Equal(t, NumberToken, numeric[0].Type)
	require.InDelta(t, 12.0, numeric[0].NumValue, 0.001)
	require.True(t, numeric[0].IsInteger)

	require.Equal(t, PercentageToken, numeric[1].Type)
	require.InDelta(t, 3.5, numeric[1].NumValue, 0.001)
	require.False(t, numeric[1].IsInteger)

	require.Equal(t, DimensionToken, numeric[2].Type)
	require.Equal(t, "px", numeric[2].Unit)
	require.InDelta(t, 16.0, numeric[2].NumValue, 0.001)

	require.Equal(t, DimensionToken, numeric[3].Type)
	require.Equal(t, "em", numeric[3].Unit)
	require.InDelta(t, -2.5, numeric[3].NumValue, 0.001)
}

func TestHashSubtypes(t *testing.T) {
	tokens := tokenize("#main #fff #0a1")
	var hashes []Token
	for _, tok := range tokens {
		if tok.Type == HashToken {
			hashes = append(hashes, tok)
		}
	}
	require.Len(t, hashes, 3)
	require.Equal(t, HashID, hashes[0].HashSubtype)
	require.Equal(t, "main", hashes[0].Value)
	// Hex colors starting with a digit-only/odd body are unrestricted.
	require.Equal(t, "fff", hashes[1].Value)
	require.Equal(t, HashUnrestricted, hashes[2].HashSubtype)
}

func TestFunctionVersusURL(t *testing.T) {
	tokens := tokenize(`url(foo.png) url("bar.png") calc(1px)`)
	require.Equal(t, UrlToken, tokens[0].Type)
	require.Equal(t, "foo.png", tokens[0].Value)

	// url( followed by a string is a function token.
	var rest []Token
	for _, tok := range tokens[1:] {
		if tok.Type != WhitespaceToken {
			rest = append(rest, tok)
		}
	}
	require.Equal(t, FunctionToken, rest[0].Type)
	require.Equal(t, "url", rest[0].Value)
	require.Equal(t, StringToken, rest[1].Type)
	require.Equal(t, "bar.png", rest[1].Value)
	require.Equal(t, FunctionToken, rest[3].Type)
	require.Equal(t, "calc", rest[3].Value)
}

func TestStringsAndBadString(t *testing.T) {
	tokens := tokenize(`"double" 'single'`)
	require.Equal(t, StringToken, tokens[0].Type)
	require.Equal(t, "double", tokens[0].Value)
	require.Equal(t, StringToken, tokens[2].Type)
	require.Equal(t, "single", tokens[2].Value)

	bad := tokenize("\"broken\nx")
	require.Equal(t, BadStringToken, bad[0].Type)
}

func TestCDOAndCDCPreserved(t *testing.T) {
	tokens := tokenize("<!-- p{} -->")
	require.Equal(t, CDOToken, tokens[0].Type)
	require.Equal(t, CDCToken, tokens[len(tokens)-2].Type)
}

func TestAtKeywordAndDelim(t *testing.T) {
	tokens := tokenize("@media .x > y")
	require.Equal(t, AtKeywordToken, tokens[0].Type)
	require.Equal(t, "media", tokens[0].Value)

	var delims []rune
	for _, tok := range tokens {
		if tok.Type == DelimToken {
			delims = append(delims, tok.Delim)
		}
	}
	require.Equal(t, []rune{'.', '>'}, delims)
}

func TestEscapesInNames(t *testing.T) {
	tokens := tokenize(`\66 oo`)
	require.Equal(t, IdentToken, tokens[0].Type)
	require.Equal(t, "foo", tokens[0].Value)
}

func TestCommentsAreNotTokens(t *testing.T) {
	tokens := tokenize("a/* hidden */b")
	require.Equal(t, []TokenType{IdentToken, IdentToken, EOFToken}, types(tokens))
}
