package htmltok

import (
	"strings"
)

// state is one of the tokenization states of the HTML Standard. The full
// algorithm names ~70 states; this machine keeps every state that changes
// observable behavior (data/RCDATA/RAWTEXT/plaintext, tag and attribute
// parsing, comments, DOCTYPE, character references) and folds the
// remainder (e.g. the distinct "before"/"after" micro-states that only
// differ in whitespace handling) into the states below plus inline
// lookahead, to keep the state enum readable while preserving behavior.
type state int

const (
	stateData state = iota
	stateRCDATA
	stateRAWTEXT
	statePlaintext
	stateTagOpen
	stateEndTagOpen
	stateTagName
	stateRCDATALessThanSign
	stateRCDATAEndTagOpen
	stateRCDATAEndTagName
	stateRAWTEXTLessThanSign
	stateRAWTEXTEndTagOpen
	stateRAWTEXTEndTagName
	stateBeforeAttributeName
	stateAttributeName
	stateAfterAttributeName
	stateBeforeAttributeValue
	stateAttributeValueDoubleQuoted
	stateAttributeValueSingleQuoted
	stateAttributeValueUnquoted
	stateAfterAttributeValueQuoted
	stateSelfClosingStartTag
	stateBogusComment
	stateMarkupDeclarationOpen
	stateCommentStart
	stateCommentStartDash
	stateComment
	stateCommentEndDash
	stateCommentEnd
	stateDoctype
	stateBeforeDoctypeName
	stateDoctypeName
	stateAfterDoctypeName
	stateAfterDoctypePublicKeyword
	stateBeforeDoctypeIdentifier
	stateDoctypeIdentifierDoubleQuoted
	stateDoctypeIdentifierSingleQuoted
	stateAfterDoctypePublicIdentifier
	stateBetweenDoctypePublicAndSystemIdentifiers
	stateAfterDoctypeSystemKeyword
	stateAfterDoctypeSystemIdentifier
	stateBogusDoctype
	stateCharacterReference
)

// identKind disambiguates which DOCTYPE identifier (public or system) the
// quoted-string states are currently filling in, since both share the
// same quoted-string reading logic.
type identKind int

const (
	identNone identKind = iota
	identPublic
	identSystem
)

const eof = -1

// Tokenizer runs the HTML5 tokenization algorithm over a full input
// string and accumulates the resulting token stream; the tokenizer
// never speaks to the tree builder directly.
type Tokenizer struct {
	input []rune
	pos   int

	state       state
	returnState state
	tempBuffer  strings.Builder

	tok Token // in-flight current token (tag, comment, or doctype)

	lastStartTagName string
	pendingIdentKind identKind

	charRefCode int64
	charRefHex  bool

	// attrName/attrValue accumulate the attribute currently being
	// tokenized before it is appended to tok.Attrs; duplicate detection
	// happens once the name is complete.
	attrName  strings.Builder
	attrValue strings.Builder
	attrSeen  map[string]bool

	tokens      []Token
	diagnostics []string
}

// NewTokenizer creates a tokenizer over input, starting in the Data state.
func NewTokenizer(input string) *Tokenizer {
	return &Tokenizer{
		input: []rune(input),
		state: stateData,
	}
}

// Tokenize runs the tokenizer to completion, returning the full token
// stream (always ending in exactly one EOFToken) and
// the accumulated parse-error diagnostics.
func (t *Tokenizer) Tokenize() ([]Token, []string) {
	t.run()
	return t.tokens, t.diagnostics
}

func (t *Tokenizer) error(msg string) {
	t.diagnostics = append(t.diagnostics, "html parse error: "+msg)
}

func (t *Tokenizer) peek() rune {
	if t.pos >= len(t.input) {
		return eof
	}
	return t.input[t.pos]
}

func (t *Tokenizer) peekAt(offset int) rune {
	i := t.pos + offset
	if i >= len(t.input) {
		return eof
	}
	return t.input[i]
}

func (t *Tokenizer) advance() rune {
	c := t.peek()
	if c != eof {
		t.pos++
	}
	return c
}

func (t *Tokenizer) emitChar(r rune) {
	t.tokens = append(t.tokens, Token{Type: CharacterToken, Char: string(r)})
}

func (t *Tokenizer) emitText(s string) {
	for _, r := range s {
		t.emitChar(r)
	}
}

func (t *Tokenizer) startTag() {
	t.tok = Token{Type: StartTagToken}
	t.attrSeen = nil
}

func (t *Tokenizer) startEndTag() {
	t.tok = Token{Type: EndTagToken}
	t.attrSeen = nil
}

// rcdataElements and rawtextElements name the start tags that switch the
// tokenizer out of Data immediately on emission: the tree builder
// never drives this transition, it is purely tag-name-triggered here.
var rcdataElements = map[string]bool{"title": true, "textarea": true}
var rawtextElements = map[string]bool{
	"style": true, "xmp": true, "iframe": true,
	"noembed": true, "noframes": true, "script": true,
}

func (t *Tokenizer) emitTag() {
	t.state = stateData
	if t.tok.Type == StartTagToken {
		t.lastStartTagName = t.tok.TagName
		if !t.tok.SelfClosing {
			switch {
			case rcdataElements[t.tok.TagName]:
				t.state = stateRCDATA
			case rawtextElements[t.tok.TagName]:
				t.state = stateRAWTEXT
			}
		}
	}
	t.tokens = append(t.tokens, t.tok)
	t.tok = Token{}
}

func (t *Tokenizer) startAttr() {
	t.attrName.Reset()
	t.attrValue.Reset()
}

func (t *Tokenizer) finishAttrName() {
	name := t.attrName.String()
	if t.attrSeen == nil {
		t.attrSeen = make(map[string]bool)
	}
	if t.attrSeen[name] {
		t.error("duplicate-attribute")
	}
}

func (t *Tokenizer) finishAttr() {
	name := t.attrName.String()
	if t.attrSeen == nil {
		t.attrSeen = make(map[string]bool)
	}
	if t.attrSeen[name] {
		return // duplicate: discard, error already reported in finishAttrName
	}
	t.attrSeen[name] = true
	t.tok.Attrs = append(t.tok.Attrs, Attr{Name: name, Value: t.attrValue.String()})
}

func isAsciiUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func toAsciiLower(r rune) rune  { return r + ('a' - 'A') }
func isAsciiAlnum(r rune) bool  { return r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' }
func isAsciiWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
}

// run executes state transitions until the whole input has been consumed
// and EOF has been processed by every relevant state.
func (t *Tokenizer) run() {
	for {
		if t.step() {
			break
		}
	}
	t.tokens = append(t.tokens, Token{Type: EOFToken})
}

// step processes exactly one state transition, returning true once EOF
// has produced its terminal behavior in stateData (the outermost loop).
func (t *Tokenizer) step() bool {
	switch t.state {
	case stateData:
		return t.stepData()
	case stateRCDATA:
		t.stepRCDATAlike(stateRCDATALessThanSign)
	case stateRAWTEXT:
		t.stepRCDATAlike(stateRAWTEXTLessThanSign)
	case statePlaintext:
		c := t.advance()
		if c == eof {
			return true
		}
		t.emitChar(c)
	case stateTagOpen:
		t.stepTagOpen()
	case stateEndTagOpen:
		t.stepEndTagOpen()
	case stateTagName:
		t.stepTagName()
	case stateRCDATALessThanSign:
		t.stepRawLikeLessThanSign(stateRCDATA, stateRCDATAEndTagOpen)
	case stateRCDATAEndTagOpen:
		t.stepRawLikeEndTagOpen(stateRCDATA, stateRCDATAEndTagName)
	case stateRCDATAEndTagName:
		t.stepRawLikeEndTagName(stateRCDATA)
	case stateRAWTEXTLessThanSign:
		t.stepRawLikeLessThanSign(stateRAWTEXT, stateRAWTEXTEndTagOpen)
	case stateRAWTEXTEndTagOpen:
		t.stepRawLikeEndTagOpen(stateRAWTEXT, stateRAWTEXTEndTagName)
	case stateRAWTEXTEndTagName:
		t.stepRawLikeEndTagName(stateRAWTEXT)
	case stateBeforeAttributeName:
		t.stepBeforeAttributeName()
	case stateAttributeName:
		t.stepAttributeName()
	case stateAfterAttributeName:
		t.stepAfterAttributeName()
	case stateBeforeAttributeValue:
		t.stepBeforeAttributeValue()
	case stateAttributeValueDoubleQuoted:
		t.stepAttributeValueQuoted('"')
	case stateAttributeValueSingleQuoted:
		t.stepAttributeValueQuoted('\'')
	case stateAttributeValueUnquoted:
		t.stepAttributeValueUnquoted()
	case stateAfterAttributeValueQuoted:
		t.stepAfterAttributeValueQuoted()
	case stateSelfClosingStartTag:
		t.stepSelfClosingStartTag()
	case stateBogusComment:
		t.stepBogusComment()
	case stateMarkupDeclarationOpen:
		t.stepMarkupDeclarationOpen()
	case stateCommentStart:
		t.stepCommentStart()
	case stateCommentStartDash:
		t.stepCommentStartDash()
	case stateComment:
		t.stepComment()
	case stateCommentEndDash:
		t.stepCommentEndDash()
	case stateCommentEnd:
		t.stepCommentEnd()
	case stateDoctype:
		t.stepDoctype()
	case stateBeforeDoctypeName:
		t.stepBeforeDoctypeName()
	case stateDoctypeName:
		t.stepDoctypeName()
	case stateAfterDoctypeName:
		t.stepAfterDoctypeName()
	case stateAfterDoctypePublicKeyword:
		t.stepAfterDoctypeKeyword(identPublic)
	case stateBeforeDoctypeIdentifier:
		t.stepBeforeDoctypeIdentifier()
	case stateDoctypeIdentifierDoubleQuoted:
		t.stepDoctypeIdentifierQuoted('"')
	case stateDoctypeIdentifierSingleQuoted:
		t.stepDoctypeIdentifierQuoted('\'')
	case stateAfterDoctypePublicIdentifier:
		t.stepAfterDoctypePublicIdentifier()
	case stateBetweenDoctypePublicAndSystemIdentifiers:
		t.stepBetweenDoctypePublicAndSystemIdentifiers()
	case stateAfterDoctypeSystemKeyword:
		t.stepAfterDoctypeKeyword(identSystem)
	case stateAfterDoctypeSystemIdentifier:
		t.stepAfterDoctypeSystemIdentifier()
	case stateBogusDoctype:
		t.stepBogusDoctype()
	case stateCharacterReference:
		t.stepCharacterReference()
	default:
		return true
	}
	return false
}

func (t *Tokenizer) stepData() bool {
	c := t.advance()
	switch c {
	case eof:
		return true
	case '&':
		t.returnState = stateData
		t.state = stateCharacterReference
	case '<':
		t.state = stateTagOpen
	case 0:
		t.error("unexpected-null-character")
		t.emitChar(0xFFFD)
	default:
		t.emitChar(c)
	}
	return false
}

// stepRCDATAlike handles RCDATA/RAWTEXT bodies: only "&" differs between
// the two (RCDATA resolves entities via the Data-like detour; RAWTEXT
// treats it literally), everything else routes through lessThanSign.
func (t *Tokenizer) stepRCDATAlike(lessThan state) {
	c := t.advance()
	switch c {
	case eof:
		t.state = stateData // content ran to end of input; loop exits via stepData's eof check next cycle
	case '&':
		if lessThan == stateRCDATALessThanSign {
			t.returnState = stateRCDATA
			t.state = stateCharacterReference
		} else {
			t.emitChar('&')
		}
	case '<':
		t.state = lessThan
	case 0:
		t.error("unexpected-null-character")
		t.emitChar(0xFFFD)
	default:
		t.emitChar(c)
	}
}

func (t *Tokenizer) stepRawLikeLessThanSign(body, endTagOpen state) {
	if t.peek() == '/' {
		t.advance()
		t.tempBuffer.Reset()
		t.state = endTagOpen
		return
	}
	t.emitChar('<')
	t.state = body
}

func (t *Tokenizer) stepRawLikeEndTagOpen(body, endTagName state) {
	c := t.peek()
	if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
		t.startEndTag()
		t.state = endTagName
		return
	}
	t.emitChar('<')
	t.emitChar('/')
	t.state = body
}

// stepRawLikeEndTagName implements the "appropriate end tag" rule: the
// name must case-insensitively equal the last emitted start-tag name and
// be followed by a valid terminator, or the whole run is literal text.
func (t *Tokenizer) stepRawLikeEndTagName(body state) {
	c := t.peek()
	switch {
	case isAsciiWhitespace(c) && t.isAppropriateEndTag():
		t.advance()
		t.state = stateBeforeAttributeName
		return
	case c == '/' && t.isAppropriateEndTag():
		t.advance()
		t.state = stateSelfClosingStartTag
		return
	case c == '>' && t.isAppropriateEndTag():
		t.advance()
		t.emitTag()
		return
	case isAsciiUpper(c):
		t.advance()
		t.tok.TagName += string(toAsciiLower(c))
		t.tempBuffer.WriteRune(c)
		return
	case c >= 'a' && c <= 'z':
		t.advance()
		t.tok.TagName += string(c)
		t.tempBuffer.WriteRune(c)
		return
	}
	// Anything else: not a valid close, flush the buffered text literally.
	t.emitChar('<')
	t.emitChar('/')
	t.emitText(t.tempBuffer.String())
	t.tok = Token{}
	t.state = body
}

func (t *Tokenizer) isAppropriateEndTag() bool {
	return t.tok.Type == EndTagToken && t.lastStartTagName != "" &&
		strings.EqualFold(t.tok.TagName, t.lastStartTagName)
}

func (t *Tokenizer) stepTagOpen() {
	c := t.peek()
	switch {
	case c == '!':
		t.advance()
		t.state = stateMarkupDeclarationOpen
	case c == '/':
		t.advance()
		t.state = stateEndTagOpen
	case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
		t.startTag()
		t.state = stateTagName
	case c == '?':
		t.error("unexpected-question-mark-instead-of-tag-name")
		t.tok = Token{Type: CommentToken}
		t.state = stateBogusComment
	case c == eof:
		t.emitChar('<')
		t.state = stateData
	default:
		t.error("invalid-first-character-of-tag-name")
		t.emitChar('<')
		t.state = stateData
	}
}

func (t *Tokenizer) stepEndTagOpen() {
	c := t.peek()
	switch {
	case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
		t.startEndTag()
		t.state = stateTagName
	case c == '>':
		t.advance()
		t.error("missing-end-tag-name")
		t.state = stateData
	case c == eof:
		t.emitChar('<')
		t.emitChar('/')
		t.state = stateData
	default:
		t.error("invalid-first-character-of-tag-name")
		t.tok = Token{Type: CommentToken}
		t.state = stateBogusComment
	}
}

func (t *Tokenizer) stepTagName() {
	c := t.advance()
	switch {
	case isAsciiWhitespace(c):
		t.state = stateBeforeAttributeName
	case c == '/':
		t.state = stateSelfClosingStartTag
	case c == '>':
		t.emitTag()
	case isAsciiUpper(c):
		t.tok.TagName += string(toAsciiLower(c))
	case c == 0:
		t.error("unexpected-null-character")
		t.tok.TagName += "�"
	case c == eof:
		t.error("eof-in-tag")
		t.tok = Token{}
		t.state = stateData
	default:
		t.tok.TagName += string(c)
	}
}

func (t *Tokenizer) stepBeforeAttributeName() {
	c := t.peek()
	switch {
	case isAsciiWhitespace(c):
		t.advance()
	case c == '/' || c == '>' || c == eof:
		t.state = stateAfterAttributeName
	case c == '=':
		t.advance()
		t.error("unexpected-equals-sign-before-attribute-name")
		t.startAttr()
		t.attrName.WriteRune(c)
		t.state = stateAttributeName
	default:
		t.startAttr()
		t.state = stateAttributeName
	}
}

func (t *Tokenizer) stepAttributeName() {
	c := t.peek()
	switch {
	case isAsciiWhitespace(c) || c == '/' || c == '>' || c == eof:
		t.finishAttrName()
		t.state = stateAfterAttributeName
	case c == '=':
		t.advance()
		t.finishAttrName()
		t.state = stateBeforeAttributeValue
	case isAsciiUpper(c):
		t.advance()
		t.attrName.WriteRune(toAsciiLower(c))
	case c == 0:
		t.advance()
		t.error("unexpected-null-character")
		t.attrName.WriteRune(0xFFFD)
	default:
		t.advance()
		t.attrName.WriteRune(c)
	}
}

func (t *Tokenizer) stepAfterAttributeName() {
	c := t.peek()
	switch {
	case isAsciiWhitespace(c):
		t.advance()
	case c == '/':
		t.advance()
		t.finishAttr()
		t.state = stateSelfClosingStartTag
	case c == '=':
		t.advance()
		t.state = stateBeforeAttributeValue
	case c == '>':
		t.advance()
		t.finishAttr()
		t.emitTag()
	case c == eof:
		t.error("eof-in-tag")
		t.tok = Token{}
		t.state = stateData
	default:
		t.finishAttr()
		t.startAttr()
		t.state = stateAttributeName
	}
}

func (t *Tokenizer) stepBeforeAttributeValue() {
	c := t.peek()
	switch {
	case isAsciiWhitespace(c):
		t.advance()
	case c == '"':
		t.advance()
		t.state = stateAttributeValueDoubleQuoted
	case c == '\'':
		t.advance()
		t.state = stateAttributeValueSingleQuoted
	case c == '>':
		t.advance()
		t.error("missing-attribute-value")
		t.finishAttr()
		t.emitTag()
	default:
		t.state = stateAttributeValueUnquoted
	}
}

func (t *Tokenizer) stepAttributeValueQuoted(quote rune) {
	c := t.advance()
	switch c {
	case quote:
		t.finishAttr()
		t.state = stateAfterAttributeValueQuoted
	case '&':
		t.returnState = t.state
		t.state = stateCharacterReference
	case 0:
		t.error("unexpected-null-character")
		t.attrValue.WriteRune(0xFFFD)
	case eof:
		t.error("eof-in-tag")
		t.tok = Token{}
		t.state = stateData
	default:
		t.attrValue.WriteRune(c)
	}
}

func (t *Tokenizer) stepAttributeValueUnquoted() {
	c := t.advance()
	switch {
	case isAsciiWhitespace(c):
		t.finishAttr()
		t.state = stateBeforeAttributeName
	case c == '&':
		t.returnState = stateAttributeValueUnquoted
		t.state = stateCharacterReference
	case c == '>':
		t.finishAttr()
		t.emitTag()
	case c == 0:
		t.error("unexpected-null-character")
		t.attrValue.WriteRune(0xFFFD)
	case c == eof:
		t.error("eof-in-tag")
		t.tok = Token{}
		t.state = stateData
	default:
		t.attrValue.WriteRune(c)
	}
}

func (t *Tokenizer) stepAfterAttributeValueQuoted() {
	c := t.peek()
	switch {
	case isAsciiWhitespace(c):
		t.advance()
		t.state = stateBeforeAttributeName
	case c == '/':
		t.advance()
		t.state = stateSelfClosingStartTag
	case c == '>':
		t.advance()
		t.emitTag()
	case c == eof:
		t.error("eof-in-tag")
		t.tok = Token{}
		t.state = stateData
	default:
		t.error("missing-whitespace-between-attributes")
		t.state = stateBeforeAttributeName
	}
}

func (t *Tokenizer) stepSelfClosingStartTag() {
	c := t.peek()
	switch c {
	case '>':
		t.advance()
		t.tok.SelfClosing = true
		t.emitTag()
	case eof:
		t.error("eof-in-tag")
		t.tok = Token{}
		t.state = stateData
	default:
		t.error("unexpected-solidus-in-tag")
		t.state = stateBeforeAttributeName
	}
}

func (t *Tokenizer) stepBogusComment() {
	c := t.advance()
	switch c {
	case '>':
		t.tokens = append(t.tokens, Token{Type: CommentToken, CommentData: t.tok.CommentData})
		t.tok = Token{}
		t.state = stateData
	case eof:
		t.tokens = append(t.tokens, Token{Type: CommentToken, CommentData: t.tok.CommentData})
		t.tok = Token{}
		t.state = stateData
	case 0:
		t.tok.CommentData += "�"
	default:
		t.tok.CommentData += string(c)
	}
}

func (t *Tokenizer) stepMarkupDeclarationOpen() {
	rest := string(t.input[t.pos:])
	switch {
	case strings.HasPrefix(rest, "--"):
		t.pos += 2
		t.tok = Token{Type: CommentToken}
		t.state = stateCommentStart
	case len(rest) >= 7 && strings.EqualFold(rest[:7], "DOCTYPE"):
		t.pos += 7
		t.state = stateDoctype
	case strings.HasPrefix(rest, "[CDATA["):
		// Only valid in foreign content; this core treats it as a bogus
		// comment outside foreign content (htmltree owns the foreign-
		// content CDATA path via raw attribute inspection upstream).
		t.pos += 7
		t.error("cdata-in-html-content")
		t.tok = Token{Type: CommentToken, CommentData: "[CDATA["}
		t.state = stateBogusComment
	default:
		t.error("incorrectly-opened-comment")
		t.tok = Token{Type: CommentToken}
		t.state = stateBogusComment
	}
}

func (t *Tokenizer) stepCommentStart() {
	c := t.peek()
	switch c {
	case '-':
		t.advance()
		t.state = stateCommentStartDash
	case '>':
		t.advance()
		t.error("abrupt-closing-of-empty-comment")
		t.tokens = append(t.tokens, t.tok)
		t.tok = Token{}
		t.state = stateData
	default:
		t.state = stateComment
	}
}

func (t *Tokenizer) stepCommentStartDash() {
	c := t.peek()
	switch c {
	case '-':
		t.advance()
		t.state = stateCommentEnd
	case '>':
		t.advance()
		t.error("abrupt-closing-of-empty-comment")
		t.tokens = append(t.tokens, t.tok)
		t.tok = Token{}
		t.state = stateData
	case eof:
		t.error("eof-in-comment")
		t.tokens = append(t.tokens, t.tok)
		t.tok = Token{}
		t.state = stateData
	default:
		t.tok.CommentData += "-"
		t.state = stateComment
	}
}

func (t *Tokenizer) stepComment() {
	c := t.advance()
	switch c {
	case '<':
		t.tok.CommentData += "<"
	case '-':
		t.state = stateCommentEndDash
	case 0:
		t.error("unexpected-null-character")
		t.tok.CommentData += "�"
	case eof:
		t.error("eof-in-comment")
		t.tokens = append(t.tokens, t.tok)
		t.tok = Token{}
		t.state = stateData
	default:
		t.tok.CommentData += string(c)
	}
}

func (t *Tokenizer) stepCommentEndDash() {
	c := t.advance()
	switch c {
	case '-':
		t.state = stateCommentEnd
	case eof:
		t.error("eof-in-comment")
		t.tokens = append(t.tokens, t.tok)
		t.tok = Token{}
		t.state = stateData
	default:
		t.tok.CommentData += "-" + string(c)
		t.state = stateComment
	}
}

func (t *Tokenizer) stepCommentEnd() {
	c := t.peek()
	switch c {
	case '>':
		t.advance()
		t.tokens = append(t.tokens, t.tok)
		t.tok = Token{}
		t.state = stateData
	case '!':
		t.advance()
		t.error("nested-comment")
		t.tok.CommentData += "--!"
		t.state = stateComment
	case '-':
		t.advance()
		t.tok.CommentData += "-"
	case eof:
		t.error("eof-in-comment")
		t.tokens = append(t.tokens, t.tok)
		t.tok = Token{}
		t.state = stateData
	default:
		t.tok.CommentData += "--"
		t.state = stateComment
	}
}

func (t *Tokenizer) emitDoctype() {
	t.tokens = append(t.tokens, t.tok)
	t.tok = Token{}
	t.state = stateData
}

func (t *Tokenizer) stepDoctype() {
	c := t.peek()
	switch {
	case isAsciiWhitespace(c):
		t.advance()
		t.state = stateBeforeDoctypeName
	case c == '>':
		t.state = stateBeforeDoctypeName
	case c == eof:
		t.error("eof-in-doctype")
		t.tok = Token{Type: DoctypeToken, ForceQuirks: true}
		t.emitDoctype()
	default:
		t.error("missing-whitespace-before-doctype-name")
		t.state = stateBeforeDoctypeName
	}
}

func (t *Tokenizer) stepBeforeDoctypeName() {
	c := t.peek()
	switch {
	case isAsciiWhitespace(c):
		t.advance()
	case isAsciiUpper(c):
		t.advance()
		t.tok = Token{Type: DoctypeToken, DoctypeName: string(toAsciiLower(c))}
		t.state = stateDoctypeName
	case c == 0:
		t.advance()
		t.error("unexpected-null-character")
		t.tok = Token{Type: DoctypeToken, DoctypeName: "�"}
		t.state = stateDoctypeName
	case c == '>':
		t.advance()
		t.error("missing-doctype-name")
		t.tok = Token{Type: DoctypeToken, ForceQuirks: true}
		t.emitDoctype()
		t.state = stateData
	case c == eof:
		t.error("eof-in-doctype")
		t.tok = Token{Type: DoctypeToken, ForceQuirks: true}
		t.emitDoctype()
	default:
		t.tok = Token{Type: DoctypeToken, DoctypeName: string(c)}
		t.advance()
		t.state = stateDoctypeName
	}
}

func (t *Tokenizer) stepDoctypeName() {
	c := t.peek()
	switch {
	case isAsciiWhitespace(c):
		t.advance()
		t.state = stateAfterDoctypeName
	case c == '>':
		t.advance()
		t.emitDoctype()
		t.state = stateData
	case isAsciiUpper(c):
		t.advance()
		t.tok.DoctypeName += string(toAsciiLower(c))
	case c == 0:
		t.advance()
		t.error("unexpected-null-character")
		t.tok.DoctypeName += "�"
	case c == eof:
		t.error("eof-in-doctype")
		t.tok.ForceQuirks = true
		t.emitDoctype()
	default:
		t.advance()
		t.tok.DoctypeName += string(c)
	}
}

func (t *Tokenizer) stepAfterDoctypeName() {
	rest := string(t.input[t.pos:])
	c := t.peek()
	switch {
	case isAsciiWhitespace(c):
		t.advance()
	case c == '>':
		t.advance()
		t.emitDoctype()
		t.state = stateData
	case c == eof:
		t.error("eof-in-doctype")
		t.tok.ForceQuirks = true
		t.emitDoctype()
	case len(rest) >= 6 && strings.EqualFold(rest[:6], "PUBLIC"):
		t.pos += 6
		t.state = stateAfterDoctypePublicKeyword
	case len(rest) >= 6 && strings.EqualFold(rest[:6], "SYSTEM"):
		t.pos += 6
		t.state = stateAfterDoctypeSystemKeyword
	default:
		t.error("invalid-character-sequence-after-doctype-name")
		t.tok.ForceQuirks = true
		t.state = stateBogusDoctype
	}
}

func (t *Tokenizer) stepAfterDoctypeKeyword(kind identKind) {
	c := t.peek()
	switch {
	case isAsciiWhitespace(c):
		t.advance()
		t.pendingIdentKind = kind
		t.state = stateBeforeDoctypeIdentifier
	case c == '"' || c == '\'':
		t.error("missing-whitespace-after-doctype-public-keyword")
		t.pendingIdentKind = kind
		t.state = stateBeforeDoctypeIdentifier
	case c == '>':
		t.advance()
		t.error("missing-doctype-public-identifier")
		t.tok.ForceQuirks = true
		t.emitDoctype()
		t.state = stateData
	case c == eof:
		t.error("eof-in-doctype")
		t.tok.ForceQuirks = true
		t.emitDoctype()
	default:
		t.error("missing-quote-before-doctype-public-identifier")
		t.tok.ForceQuirks = true
		t.state = stateBogusDoctype
	}
}

func (t *Tokenizer) stepBeforeDoctypeIdentifier() {
	c := t.peek()
	switch {
	case isAsciiWhitespace(c):
		t.advance()
	case c == '"':
		t.advance()
		t.setIdentHasFlag()
		t.state = stateDoctypeIdentifierDoubleQuoted
	case c == '\'':
		t.advance()
		t.setIdentHasFlag()
		t.state = stateDoctypeIdentifierSingleQuoted
	case c == '>':
		t.advance()
		t.error("missing-doctype-public-identifier")
		t.tok.ForceQuirks = true
		t.emitDoctype()
		t.state = stateData
	case c == eof:
		t.error("eof-in-doctype")
		t.tok.ForceQuirks = true
		t.emitDoctype()
	default:
		t.error("missing-quote-before-doctype-identifier")
		t.tok.ForceQuirks = true
		t.state = stateBogusDoctype
	}
}

func (t *Tokenizer) setIdentHasFlag() {
	if t.pendingIdentKind == identPublic {
		t.tok.HasPublicID = true
	} else {
		t.tok.HasSystemID = true
	}
}

func (t *Tokenizer) stepDoctypeIdentifierQuoted(quote rune) {
	c := t.advance()
	switch c {
	case quote:
		if t.pendingIdentKind == identPublic {
			t.state = stateAfterDoctypePublicIdentifier
		} else {
			t.state = stateAfterDoctypeSystemIdentifier
		}
	case 0:
		t.error("unexpected-null-character")
		t.appendIdent("�")
	case '>':
		t.error("abrupt-doctype-public-identifier")
		t.tok.ForceQuirks = true
		t.emitDoctype()
		t.state = stateData
	case eof:
		t.error("eof-in-doctype")
		t.tok.ForceQuirks = true
		t.emitDoctype()
	default:
		t.appendIdent(string(c))
	}
}

func (t *Tokenizer) appendIdent(s string) {
	if t.pendingIdentKind == identPublic {
		t.tok.PublicID += s
	} else {
		t.tok.SystemID += s
	}
}

func (t *Tokenizer) stepAfterDoctypePublicIdentifier() {
	c := t.peek()
	switch {
	case isAsciiWhitespace(c):
		t.advance()
		t.state = stateBetweenDoctypePublicAndSystemIdentifiers
	case c == '>':
		t.advance()
		t.emitDoctype()
		t.state = stateData
	case c == '"' || c == '\'':
		t.error("missing-whitespace-between-doctype-public-and-system-identifiers")
		t.pendingIdentKind = identSystem
		t.advance()
		t.setIdentHasFlag()
		if c == '"' {
			t.state = stateDoctypeIdentifierDoubleQuoted
		} else {
			t.state = stateDoctypeIdentifierSingleQuoted
		}
	case c == eof:
		t.error("eof-in-doctype")
		t.tok.ForceQuirks = true
		t.emitDoctype()
	default:
		t.error("missing-quote-before-doctype-system-identifier")
		t.tok.ForceQuirks = true
		t.state = stateBogusDoctype
	}
}

func (t *Tokenizer) stepBetweenDoctypePublicAndSystemIdentifiers() {
	c := t.peek()
	switch {
	case isAsciiWhitespace(c):
		t.advance()
	case c == '>':
		t.advance()
		t.emitDoctype()
		t.state = stateData
	case c == '"' || c == '\'':
		t.pendingIdentKind = identSystem
		t.advance()
		t.setIdentHasFlag()
		if c == '"' {
			t.state = stateDoctypeIdentifierDoubleQuoted
		} else {
			t.state = stateDoctypeIdentifierSingleQuoted
		}
	case c == eof:
		t.error("eof-in-doctype")
		t.tok.ForceQuirks = true
		t.emitDoctype()
	default:
		t.error("missing-quote-before-doctype-system-identifier")
		t.tok.ForceQuirks = true
		t.state = stateBogusDoctype
	}
}

func (t *Tokenizer) stepAfterDoctypeSystemIdentifier() {
	c := t.peek()
	switch {
	case isAsciiWhitespace(c):
		t.advance()
	case c == '>':
		t.advance()
		t.emitDoctype()
		t.state = stateData
	case c == eof:
		t.error("eof-in-doctype")
		t.tok.ForceQuirks = true
		t.emitDoctype()
	default:
		t.error("unexpected-character-after-doctype-system-identifier")
		t.state = stateBogusDoctype
	}
}

func (t *Tokenizer) stepBogusDoctype() {
	c := t.advance()
	switch c {
	case '>':
		t.emitDoctype()
		t.state = stateData
	case eof:
		t.emitDoctype()
	}
}

// stepCharacterReference implements the character-reference detour:
// numeric and named references, with the ambiguous-ampersand rule for
// the attribute-value return states.
func (t *Tokenizer) stepCharacterReference() {
	t.tempBuffer.Reset()
	t.tempBuffer.WriteByte('&')

	if t.peek() == '#' {
		t.advance()
		t.tempBuffer.WriteByte('#')
		t.consumeNumericCharacterReference()
		return
	}

	name, value, ok := t.matchLongestNamedReference()
	if !ok {
		t.flushTempBufferToReturnState()
		return
	}

	t.pos += len([]rune(name))
	hasSemicolon := t.peek() == ';'
	if hasSemicolon {
		t.advance()
	}
	next := t.peek()
	inAttr := t.isAttributeReturnState()
	if inAttr && !hasSemicolon && (isAsciiAlnum(next) || next == '=') {
		// Ambiguous ampersand: flush literally instead of substituting.
		t.tempBuffer.WriteString(name)
		t.flushTempBufferToReturnState()
		return
	}
	if !hasSemicolon {
		t.error("missing-semicolon-after-character-reference")
	}
	t.flushStringToReturnState(value)
}

func (t *Tokenizer) matchLongestNamedReference() (name, value string, ok bool) {
	rest := t.input[t.pos:]
	limit := maxEntityNameLen + 1
	if len(rest) < limit {
		limit = len(rest)
	}
	for l := limit; l > 0; l-- {
		candidate := string(rest[:l])
		if v, found := namedEntities[candidate]; found {
			return candidate, v, true
		}
	}
	return "", "", false
}

func (t *Tokenizer) isAttributeReturnState() bool {
	switch t.returnState {
	case stateAttributeValueDoubleQuoted, stateAttributeValueSingleQuoted, stateAttributeValueUnquoted:
		return true
	}
	return false
}

func (t *Tokenizer) flushTempBufferToReturnState() {
	t.flushStringToReturnState(t.tempBuffer.String())
}

func (t *Tokenizer) flushStringToReturnState(s string) {
	if t.isAttributeReturnState() {
		t.attrValue.WriteString(s)
	} else {
		t.emitText(s)
	}
	t.state = t.returnState
}

func (t *Tokenizer) consumeNumericCharacterReference() {
	t.charRefCode = 0
	if t.peek() == 'x' || t.peek() == 'X' {
		t.charRefHex = true
		t.tempBuffer.WriteRune(t.advance())
	} else {
		t.charRefHex = false
	}

	digitsSeen := false
	for {
		c := t.peek()
		if t.charRefHex && isHexDigit(c) {
			t.charRefCode = t.charRefCode*16 + int64(hexDigitValue(c))
			digitsSeen = true
			t.advance()
			continue
		}
		if !t.charRefHex && c >= '0' && c <= '9' {
			t.charRefCode = t.charRefCode*10 + int64(c-'0')
			digitsSeen = true
			t.advance()
			continue
		}
		break
	}

	if !digitsSeen {
		t.error("absence-of-digits-in-numeric-character-reference")
		t.flushTempBufferToReturnState()
		return
	}

	if t.peek() == ';' {
		t.advance()
	} else {
		t.error("missing-semicolon-after-character-reference")
	}

	t.finishNumericCharacterReference()
}

func isHexDigit(c rune) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func hexDigitValue(c rune) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}

// finishNumericCharacterReference applies the Standard's replacement
// table for the null character, out-of-range values, surrogates, and the
// fixed C1-control remapping (numericReplacements).
func (t *Tokenizer) finishNumericCharacterReference() {
	code := t.charRefCode
	switch {
	case code == 0:
		t.error("null-character-reference")
		code = 0xFFFD
	case code > 0x10FFFF:
		t.error("character-reference-outside-unicode-range")
		code = 0xFFFD
	case code >= 0xD800 && code <= 0xDFFF:
		t.error("surrogate-character-reference")
		code = 0xFFFD
	default:
		if r, ok := numericReplacements[code]; ok {
			t.error("control-character-reference")
			code = int64(r)
		} else if isNoncharacterOrControl(code) {
			t.error("control-character-reference")
		}
	}
	t.flushStringToReturnState(string(rune(code)))
}

func isNoncharacterOrControl(code int64) bool {
	if code >= 0xFDD0 && code <= 0xFDEF {
		return true
	}
	if code&0xFFFE == 0xFFFE {
		return true
	}
	if code >= 0x01 && code <= 0x1F && code != 0x09 && code != 0x0A && code != 0x0C && code != 0x0D {
		return true
	}
	return code >= 0x7F && code <= 0x9F
}
