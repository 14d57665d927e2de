// Package htmltok tokenizes HTML source text into the token stream
// consumed by htmltree's tree builder.
//
// Spec references:
// - HTML5 §12.2.5 Tokenization: https://html.spec.whatwg.org/multipage/parsing.html#tokenization
package htmltok

// TokenType is the variant tag of a Token.
type TokenType int

const (
	// DoctypeToken carries a DOCTYPE declaration.
	DoctypeToken TokenType = iota
	// StartTagToken is an opening tag, e.g. <div>.
	StartTagToken
	// EndTagToken is a closing tag, e.g. </div>.
	EndTagToken
	// CommentToken carries comment data.
	CommentToken
	// CharacterToken carries a single decoded scalar value.
	CharacterToken
	// EOFToken is the synthetic terminator; exactly one is emitted per stream.
	EOFToken
)

// Attr is a single source-order attribute as emitted by the tokenizer,
// before the tree builder copies it into the DOM's AttributeList.
type Attr struct {
	Name  string
	Value string
}

// Token is one emitted tokenization result. Not every field is populated
// for every Type; see the per-field comments.
type Token struct {
	Type TokenType

	// StartTagToken / EndTagToken
	TagName     string
	Attrs       []Attr
	SelfClosing bool

	// CommentToken
	CommentData string

	// CharacterToken: exactly one scalar value, as a string to hold
	// multi-byte runes without a separate rune/byte distinction.
	Char string

	// DoctypeToken
	DoctypeName   string
	PublicID      string
	SystemID      string
	HasPublicID   bool
	HasSystemID   bool
	ForceQuirks   bool
}
