// Package dom also provides URL resolution over the arena tree.
// HTML5 §2.5 URLs: relative URLs are resolved against a base URL.
package dom

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/wren-browser/wren/internal/browserlog"
)

// ResolveURLs walks root's subtree and rewrites the URL-bearing
// attributes of <img> and <link> elements to be absolute against base.
// HTML5 §2.5.1: the document's base URL is used to resolve relative URLs.
func ResolveURLs(arena *Arena, root NodeID, base string) {
	arena.Walk(root, func(id NodeID) {
		n := arena.Node(id)
		if n.Kind != ElementNode {
			return
		}
		switch n.LocalName {
		case "img":
			if src, ok := n.Attrs.Get("src"); ok && src != "" {
				n.Attrs.Set("src", ResolveURLString(base, src))
			}
		case "link":
			if href, ok := n.Attrs.Get("href"); ok && href != "" {
				n.Attrs.Set("href", ResolveURLString(base, href))
			}
		}
	})
}

// ResolveURLString resolves relativeURL against baseURL. HTTP(S) bases
// use net/url reference resolution; anything else is treated as a
// filesystem path. A filesystem base with a file extension names a
// document and is replaced by its directory; the relative path is then
// joined onto the base with filepath.Join.
func ResolveURLString(baseURL, relativeURL string) string {
	if strings.HasPrefix(relativeURL, "http://") || strings.HasPrefix(relativeURL, "https://") || strings.HasPrefix(relativeURL, "data:") {
		return relativeURL
	}

	if strings.HasPrefix(baseURL, "http://") || strings.HasPrefix(baseURL, "https://") {
		base, err := url.Parse(baseURL)
		if err != nil {
			browserlog.Warnf("failed to parse base URL %q: %v", baseURL, err)
			return relativeURL
		}
		rel, err := url.Parse(relativeURL)
		if err != nil {
			browserlog.Warnf("failed to parse relative URL %q: %v", relativeURL, err)
			return relativeURL
		}
		return base.ResolveReference(rel).String()
	}

	if filepath.Ext(baseURL) != "" {
		baseURL = filepath.Dir(baseURL)
	}
	return filepath.Join(baseURL, relativeURL)
}

// FetchExternalStylesheets collects the text of every
// <link rel="stylesheet" href="..."> reachable from root, concatenated
// in document order, using loader to fetch each href. Failed fetches are
// skipped (non-blocking, per HTML5 §4.2.4) and logged.
func FetchExternalStylesheets(arena *Arena, root NodeID, loader *ResourceLoader) string {
	var out strings.Builder
	arena.Walk(root, func(id NodeID) {
		n := arena.Node(id)
		if n.Kind != ElementNode || n.LocalName != "link" {
			return
		}
		rel, _ := n.Attrs.Get("rel")
		href, _ := n.Attrs.Get("href")
		if rel != "stylesheet" || href == "" {
			return
		}
		css, err := loader.LoadResourceAsString(href)
		if err != nil {
			browserlog.Warnf("failed to load external stylesheet %q: %v", href, err)
			return
		}
		out.WriteString(css)
		out.WriteString("\n")
	})
	return out.String()
}

// CollectEmbeddedStyle concatenates the text content of every <style>
// element reachable from root, in document order, used to assemble the
// inline half of the author stylesheet.
func CollectEmbeddedStyle(arena *Arena, root NodeID) string {
	var out strings.Builder
	arena.Walk(root, func(id NodeID) {
		n := arena.Node(id)
		if n.Kind != ElementNode || n.LocalName != "style" {
			return
		}
		for c := n.FirstChild; c != NoNode; c = arena.Node(c).NextSibling {
			if arena.Node(c).Kind == TextNode {
				out.WriteString(arena.Node(c).Data)
			}
		}
		out.WriteString("\n")
	})
	return out.String()
}
