package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wren-browser/wren/cascade"
	"github.com/wren-browser/wren/displaylist"
	"github.com/wren-browser/wren/dom"
)

func TestLoadDocumentFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>Hi</p>"), 0o644))

	doc, err := LoadDocument(path)
	require.NoError(t, err)
	require.Equal(t, "<p>Hi</p>", doc.Source)
	require.Equal(t, path, doc.Path)

	// Document -> html -> body -> p -> Text("Hi").
	arena := doc.Arena
	html := arena.Node(dom.DocumentID).FirstChild
	require.Equal(t, "html", arena.Node(html).LocalName)
	var body dom.NodeID = dom.NoNode
	for c := arena.Node(html).FirstChild; c != dom.NoNode; c = arena.Node(c).NextSibling {
		if arena.Node(c).LocalName == "body" {
			body = c
		}
	}
	require.NotEqual(t, dom.NoNode, body)
	p := arena.Node(body).FirstChild
	require.Equal(t, "p", arena.Node(p).LocalName)
	text := arena.Node(p).FirstChild
	require.Equal(t, dom.TextNode, arena.Node(text).Kind)
	require.Equal(t, "Hi", arena.Node(text).Data)

	require.NotNil(t, doc.Layout)
	require.NotNil(t, doc.Display)

	found := false
	for _, cmd := range doc.Display.Commands {
		if cmd.Op == displaylist.OpDrawText && cmd.Text == "Hi" {
			found = true
		}
	}
	require.True(t, found)
}

func TestLoadDocumentMissingFileFails(t *testing.T) {
	_, err := LoadDocument(filepath.Join(t.TempDir(), "absent.html"))
	require.Error(t, err)
	var fe *dom.FetchError
	require.ErrorAs(t, err, &fe)
}

func TestExternalStylesheetJoinsAuthorSheet(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "site.css"),
		[]byte("p { color: #00ff00 }"), 0o644))
	path := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(path,
		[]byte(`<link rel="stylesheet" href="site.css"><p>x</p>`), 0o644))

	doc, err := LoadDocument(path)
	require.NoError(t, err)

	var p dom.NodeID = dom.NoNode
	doc.Arena.Walk(doc.Root, func(id dom.NodeID) {
		if doc.Arena.Node(id).LocalName == "p" {
			p = id
		}
	})
	require.NotEqual(t, dom.NoNode, p)
	require.Equal(t, cascade.Color{0, 255, 0, 255}, doc.Styles[p].Color)
}

func TestEmbeddedStyleCascades(t *testing.T) {
	doc := ProcessHTML(
		`<style>p{color:#f00}.x{color:#0f0}</style><p class="x"></p>`, "", nil, Options{})
	var p dom.NodeID = dom.NoNode
	doc.Arena.Walk(doc.Root, func(id dom.NodeID) {
		if doc.Arena.Node(id).LocalName == "p" {
			p = id
		}
	})
	require.NotEqual(t, dom.NoNode, p)
	require.Equal(t, cascade.Color{0, 255, 0, 255}, doc.Styles[p].Color)
}

func TestDuplicateAttributeReported(t *testing.T) {
	doc := ProcessHTML(`<img src="a" src="b">`, "", nil, Options{})
	var img dom.NodeID = dom.NoNode
	doc.Arena.Walk(doc.Root, func(id dom.NodeID) {
		if doc.Arena.Node(id).LocalName == "img" {
			img = id
		}
	})
	require.NotEqual(t, dom.NoNode, img)
	src, _ := doc.Arena.Node(img).Attrs.Get("src")
	require.Equal(t, "a", src)
	joined := strings.Join(doc.Diagnostics, "\n")
	require.Contains(t, joined, "duplicate-attribute")
}

func TestRawTextStyleStaysText(t *testing.T) {
	doc := ProcessHTML(`<style><div>x</div></style>`, "", nil, Options{})
	styleCount := 0
	doc.Arena.Walk(doc.Root, func(id dom.NodeID) {
		n := doc.Arena.Node(id)
		if n.LocalName == "style" {
			styleCount++
			child := n.FirstChild
			require.NotEqual(t, dom.NoNode, child)
			require.Equal(t, dom.TextNode, doc.Arena.Node(child).Kind)
			require.Equal(t, "<div>x</div>", doc.Arena.Node(child).Data)
		}
		require.NotEqual(t, "div", n.LocalName)
	})
	require.Equal(t, 1, styleCount)
}

func TestDOMStaysCoherent(t *testing.T) {
	doc := ProcessHTML(
		`<div><p>one</p><p>two</p><span>three</span></div><!-- c --><ul><li>a<li>b</ul>`,
		"", nil, Options{})
	require.True(t, doc.Arena.Coherent())
}
