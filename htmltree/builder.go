// Package htmltree builds an arena DOM from an htmltok token stream
// using an insertion-mode state machine, following HTML5 §12.2.6 tree
// construction.
//
// Spec references:
// - HTML5 §12.2.6 Tree construction: https://html.spec.whatwg.org/multipage/parsing.html#tree-construction
package htmltree

import (
	"strings"

	"github.com/wren-browser/wren/dom"
	"github.com/wren-browser/wren/htmltok"
)

// insertionMode is the tree builder's current mode, driving how the next
// token is dispatched. Only the modes required for a sensible
// tree from real-world markup are implemented; more obscure modes (e.g.
// InTable, InSelect) are folded into InBody's generic handling, which is
// documented as a known simplification alongside the adoption-agency gap.
type insertionMode int

const (
	modeInitial insertionMode = iota
	modeBeforeHTML
	modeBeforeHead
	modeInHead
	modeAfterHead
	modeInBody
	modeText
	modeAfterBody
	modeAfterAfterBody
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true,
	"embed": true, "hr": true, "img": true, "input": true,
	"link": true, "meta": true, "param": true, "source": true,
	"track": true, "wbr": true,
}

// rawTextOrRCDATATags switch the tree builder into the Text mode until
// their matching end tag, mirroring the tokenizer's own RCDATA/RAWTEXT
// states.
var rawTextOrRCDATATags = map[string]bool{
	"title": true, "textarea": true, "style": true, "xmp": true,
	"iframe": true, "noembed": true, "noframes": true, "script": true,
}

// Builder drives the insertion-mode state machine over a token stream,
// producing a populated dom.Arena.
type Builder struct {
	arena *dom.Arena
	mode  insertionMode
	// originalMode is restored after a raw-text/RCDATA run completes,
	// per the Standard's "Text" insertion mode.
	originalMode insertionMode

	openElements []dom.NodeID
	headElement  dom.NodeID
	formElement  dom.NodeID

	diagnostics []string
}

// NewBuilder creates a tree builder starting in the Initial insertion
// mode with an empty open-elements stack.
func NewBuilder() *Builder {
	return &Builder{
		arena:       dom.NewArena(),
		mode:        modeInitial,
		headElement: dom.NoNode,
		formElement: dom.NoNode,
	}
}

// Parse tokenizes and parses html in one call, returning the populated
// arena, its document root, and the combined tokenizer + tree-builder
// diagnostics.
func Parse(html string) (*dom.Arena, dom.NodeID, []string) {
	stream, tokDiags := htmltok.Tokenize(html)
	b := NewBuilder()
	for {
		tok := stream.Next()
		b.dispatch(tok)
		if tok.Type == htmltok.EOFToken {
			break
		}
	}
	diags := append(append([]string{}, tokDiags...), b.diagnostics...)
	return b.arena, dom.DocumentID, diags
}

func (b *Builder) error(msg string) {
	b.diagnostics = append(b.diagnostics, "html tree error: "+msg)
}

func (b *Builder) current() dom.NodeID {
	if len(b.openElements) == 0 {
		return dom.DocumentID
	}
	return b.openElements[len(b.openElements)-1]
}

func (b *Builder) push(id dom.NodeID) { b.openElements = append(b.openElements, id) }

func (b *Builder) pop() {
	if len(b.openElements) > 0 {
		b.openElements = b.openElements[:len(b.openElements)-1]
	}
}

// popThrough pops the stack until an element with localName has been
// popped (inclusive): a mismatched end tag is ignored unless it matches
// a lower element, in which case everything above it pops too. Reports
// whether a match was found at all.
func (b *Builder) popThrough(localName string) bool {
	for i := len(b.openElements) - 1; i >= 0; i-- {
		if b.arena.Node(b.openElements[i]).LocalName == localName {
			b.openElements = b.openElements[:i]
			return true
		}
	}
	return false
}

func (b *Builder) insertElement(tagName string, attrs []htmltok.Attr) dom.NodeID {
	id := b.arena.NewElement(tagName)
	node := b.arena.Node(id)
	for _, a := range attrs {
		node.Attrs.Add(a.Name, a.Value)
	}
	b.arena.AppendChild(b.current(), id)
	b.push(id)
	return id
}

func (b *Builder) insertForeignElement(tagName, namespace string, attrs []htmltok.Attr) dom.NodeID {
	id := b.arena.NewElementNS(tagName, namespace)
	node := b.arena.Node(id)
	for _, a := range attrs {
		name, ns := correctForeignAttribute(namespace, a.Name)
		node.Attrs.SetNS(name, a.Value, ns)
	}
	b.arena.AppendChild(b.current(), id)
	b.push(id)
	return id
}

func (b *Builder) insertText(s string) {
	if s == "" {
		return
	}
	parent := b.current()
	// Merge consecutive character tokens into one Text node.
	if last := b.arena.Node(parent).LastChild; last != dom.NoNode && b.arena.Node(last).Kind == dom.TextNode {
		b.arena.Node(last).Data += s
		return
	}
	id := b.arena.NewText(s)
	b.arena.AppendChild(parent, id)
}

func (b *Builder) insertComment(data string) {
	id := b.arena.NewComment(data)
	b.arena.AppendChild(b.current(), id)
}

func isWhitespaceOnly(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' && r != '\f' {
			return false
		}
	}
	return true
}

func (b *Builder) dispatch(tok htmltok.Token) {
	switch b.mode {
	case modeInitial:
		b.inInitial(tok)
	case modeBeforeHTML:
		b.inBeforeHTML(tok)
	case modeBeforeHead:
		b.inBeforeHead(tok)
	case modeInHead:
		b.inHead(tok)
	case modeAfterHead:
		b.inAfterHead(tok)
	case modeInBody:
		b.inBody(tok)
	case modeText:
		b.inText(tok)
	case modeAfterBody:
		b.inAfterBody(tok)
	case modeAfterAfterBody:
		b.inAfterAfterBody(tok)
	}
}

func (b *Builder) inInitial(tok htmltok.Token) {
	switch tok.Type {
	case htmltok.CharacterToken:
		if isWhitespaceOnly(tok.Char) {
			return
		}
		b.mode = modeBeforeHTML
		b.inBeforeHTML(tok)
	case htmltok.CommentToken:
		b.insertComment(tok.CommentData)
	case htmltok.DoctypeToken:
		doc := b.arena.Node(dom.DocumentID)
		doc.DoctypeName = tok.DoctypeName
		doc.PublicID = tok.PublicID
		doc.SystemID = tok.SystemID
		doc.ForceQuirks = tok.ForceQuirks || doctypeImpliesQuirks(tok)
		b.mode = modeBeforeHTML
	default:
		b.mode = modeBeforeHTML
		b.inBeforeHTML(tok)
	}
}

// doctypeImpliesQuirks applies the Standard's short table of known
// quirks-triggering public/system identifiers, the one piece of
// quirks-mode detection this engine does: the flag is recorded on the
// Document and nothing else changes behavior.
func doctypeImpliesQuirks(tok htmltok.Token) bool {
	if tok.DoctypeName != "html" {
		return true
	}
	if tok.HasPublicID && strings.HasPrefix(strings.ToLower(tok.PublicID), "-//w3c//dtd html 3") {
		return true
	}
	return false
}

func (b *Builder) inBeforeHTML(tok htmltok.Token) {
	switch {
	case tok.Type == htmltok.CommentToken:
		b.insertComment(tok.CommentData)
		return
	case tok.Type == htmltok.CharacterToken && isWhitespaceOnly(tok.Char):
		return
	case tok.Type == htmltok.StartTagToken && tok.TagName == "html":
		b.insertElement("html", tok.Attrs)
		b.mode = modeBeforeHead
		return
	case tok.Type == htmltok.EndTagToken && !isOneOf(tok.TagName, "head", "body", "html", "br"):
		return
	}
	b.insertElement("html", nil)
	b.mode = modeBeforeHead
	b.inBeforeHead(tok)
}

func isOneOf(s string, options ...string) bool {
	for _, o := range options {
		if s == o {
			return true
		}
	}
	return false
}

func (b *Builder) inBeforeHead(tok htmltok.Token) {
	switch {
	case tok.Type == htmltok.CharacterToken && isWhitespaceOnly(tok.Char):
		return
	case tok.Type == htmltok.CommentToken:
		b.insertComment(tok.CommentData)
		return
	case tok.Type == htmltok.StartTagToken && tok.TagName == "html":
		b.reprocessInBody(tok)
		return
	case tok.Type == htmltok.StartTagToken && tok.TagName == "head":
		b.headElement = b.insertElement("head", tok.Attrs)
		b.mode = modeInHead
		return
	case tok.Type == htmltok.EndTagToken && !isOneOf(tok.TagName, "head", "body", "html", "br"):
		return
	}
	b.headElement = b.insertElement("head", nil)
	b.mode = modeInHead
	b.inHead(tok)
}

func (b *Builder) inHead(tok htmltok.Token) {
	switch {
	case tok.Type == htmltok.CharacterToken && isWhitespaceOnly(tok.Char):
		b.insertText(tok.Char)
		return
	case tok.Type == htmltok.CommentToken:
		b.insertComment(tok.CommentData)
		return
	case tok.Type == htmltok.DoctypeToken:
		b.error("doctype-in-head")
		return
	case tok.Type == htmltok.StartTagToken && isOneOf(tok.TagName, "base", "basefont", "bgsound", "link", "meta"):
		b.insertElement(tok.TagName, tok.Attrs)
		b.pop()
		return
	case tok.Type == htmltok.StartTagToken && tok.TagName == "title":
		b.insertElement(tok.TagName, tok.Attrs)
		b.switchToText(modeAfterHeadForTextReturn())
		return
	case tok.Type == htmltok.StartTagToken && isOneOf(tok.TagName, "noframes", "style"):
		b.insertElement(tok.TagName, tok.Attrs)
		b.switchToText(modeInHead)
		return
	case tok.Type == htmltok.StartTagToken && tok.TagName == "script":
		b.insertElement(tok.TagName, tok.Attrs)
		b.switchToText(modeInHead)
		return
	case tok.Type == htmltok.EndTagToken && tok.TagName == "head":
		b.pop()
		b.mode = modeAfterHead
		return
	case tok.Type == htmltok.StartTagToken && tok.TagName == "html":
		b.reprocessInBody(tok)
		return
	case tok.Type == htmltok.EndTagToken && !isOneOf(tok.TagName, "body", "html", "br"):
		b.error("unexpected-end-tag-in-head")
		return
	}
	b.pop()
	b.mode = modeAfterHead
	b.inAfterHead(tok)
}

// modeAfterHeadForTextReturn exists only to name the return-mode for
// <title>, which always resumes InHead just like <style>/<script>.
func modeAfterHeadForTextReturn() insertionMode { return modeInHead }

func (b *Builder) switchToText(returnMode insertionMode) {
	b.originalMode = returnMode
	b.mode = modeText
}

func (b *Builder) inText(tok htmltok.Token) {
	switch tok.Type {
	case htmltok.CharacterToken:
		b.insertText(tok.Char)
	case htmltok.EOFToken:
		b.pop()
		b.mode = b.originalMode
		b.dispatch(tok)
	case htmltok.EndTagToken:
		b.pop()
		b.mode = b.originalMode
	default:
		// htmltok's RAWTEXT/RCDATA states only ever emit Character and
		// the matching EndTag, so other token types cannot occur here.
	}
}

func (b *Builder) inAfterHead(tok htmltok.Token) {
	switch {
	case tok.Type == htmltok.CharacterToken && isWhitespaceOnly(tok.Char):
		b.insertText(tok.Char)
		return
	case tok.Type == htmltok.CommentToken:
		b.insertComment(tok.CommentData)
		return
	case tok.Type == htmltok.StartTagToken && tok.TagName == "html":
		b.reprocessInBody(tok)
		return
	case tok.Type == htmltok.StartTagToken && tok.TagName == "body":
		b.insertElement("body", tok.Attrs)
		b.mode = modeInBody
		return
	case tok.Type == htmltok.StartTagToken && tok.TagName == "head":
		b.error("unexpected-start-tag-head")
		return
	case tok.Type == htmltok.EndTagToken && !isOneOf(tok.TagName, "body", "html", "br"):
		return
	}
	b.insertElement("body", nil)
	b.mode = modeInBody
	b.inBody(tok)
}

func (b *Builder) reprocessInBody(tok htmltok.Token) {
	prev := b.mode
	b.mode = modeInBody
	b.inBody(tok)
	if b.mode == modeInBody {
		b.mode = prev
	}
}

func (b *Builder) inBody(tok htmltok.Token) {
	switch tok.Type {
	case htmltok.CharacterToken:
		b.insertText(tok.Char)
		return
	case htmltok.CommentToken:
		b.insertComment(tok.CommentData)
		return
	case htmltok.EOFToken:
		return
	case htmltok.StartTagToken:
		b.startTagInBody(tok)
		return
	case htmltok.EndTagToken:
		b.endTagInBody(tok)
		return
	}
}

func (b *Builder) startTagInBody(tok htmltok.Token) {
	// Inside an <svg>/<math> subtree every descendant start tag stays in
	// the foreign namespace, with the SVG tag-name fixups applied.
	if curNS := b.arena.Node(b.current()).Namespace; curNS != "" {
		name := tok.TagName
		if curNS == "svg" {
			name = AdjustSVGTagName(name)
		}
		b.insertForeignElement(name, curNS, tok.Attrs)
		if tok.SelfClosing {
			b.pop()
		}
		return
	}

	if ns, ok := foreignRootNamespace(tok.TagName); ok {
		name := tok.TagName
		if ns == "svg" {
			name = AdjustSVGTagName(name)
		}
		b.insertForeignElement(name, ns, tok.Attrs)
		if tok.SelfClosing {
			b.pop()
		}
		return
	}

	switch tok.TagName {
	case "html":
		b.error("unexpected-start-tag-html")
		return
	case "body":
		b.error("unexpected-start-tag-body")
		return
	}

	if voidElements[tok.TagName] {
		b.insertElement(tok.TagName, tok.Attrs)
		b.pop()
		return
	}

	b.insertElement(tok.TagName, tok.Attrs)
	if rawTextOrRCDATATags[tok.TagName] {
		// These only reach InBody for <script>/<style> appearing in the
		// body (<title>/<textarea> follow the same rule); htmltok has
		// already switched to the matching RCDATA/RAWTEXT state.
		b.switchToText(modeInBody)
	}
}

func (b *Builder) endTagInBody(tok htmltok.Token) {
	if tok.TagName == "body" || tok.TagName == "html" {
		b.mode = modeAfterBody
		return
	}
	if !b.popThrough(tok.TagName) {
		// A mismatched end tag with no matching open element is a
		// parse error and is otherwise ignored (no adoption agency).
		b.error("unexpected-end-tag: " + tok.TagName)
	}
}

func (b *Builder) inAfterBody(tok htmltok.Token) {
	switch {
	case tok.Type == htmltok.CharacterToken && isWhitespaceOnly(tok.Char):
		b.reprocessInBody(tok)
		return
	case tok.Type == htmltok.CommentToken:
		b.insertComment(tok.CommentData)
		return
	case tok.Type == htmltok.EndTagToken && tok.TagName == "html":
		b.mode = modeAfterAfterBody
		return
	case tok.Type == htmltok.EOFToken:
		return
	}
	b.mode = modeInBody
	b.inBody(tok)
}

func (b *Builder) inAfterAfterBody(tok htmltok.Token) {
	switch {
	case tok.Type == htmltok.CommentToken:
		id := b.arena.NewComment(tok.CommentData)
		b.arena.AppendChild(dom.DocumentID, id)
		return
	case tok.Type == htmltok.CharacterToken && isWhitespaceOnly(tok.Char):
		b.reprocessInBody(tok)
		return
	case tok.Type == htmltok.EOFToken:
		return
	}
	b.mode = modeInBody
	b.inBody(tok)
}
