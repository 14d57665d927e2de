// Package engine wires the pipeline end to end: fetch the source,
// tokenize and parse the HTML into the arena DOM, assemble the author
// stylesheet from <style> elements and <link rel="stylesheet"> hrefs,
// run the cascade, build and resolve the layout tree, and flatten it
// into a display list. Each phase consumes its entire input and
// produces its entire output before the next begins; the only errors
// surfaced to the caller are fetch and file-read failures — everything
// else lands in the document's diagnostics.
package engine

import (
	"path/filepath"
	"strings"

	"github.com/wren-browser/wren/cascade"
	"github.com/wren-browser/wren/cssparse"
	"github.com/wren-browser/wren/displaylist"
	"github.com/wren-browser/wren/dom"
	"github.com/wren-browser/wren/htmltree"
	"github.com/wren-browser/wren/internal/fontmetrics"
	"github.com/wren-browser/wren/layout"
)

// Default viewport used when the caller does not size the document.
const (
	DefaultViewportWidth  = 800.0
	DefaultViewportHeight = 600.0
)

// Document is the result of loading and processing one page.
type Document struct {
	Source string
	Path   string

	Arena      *dom.Arena
	Root       dom.NodeID
	Stylesheet *cssparse.Stylesheet
	Styles     map[dom.NodeID]*cascade.ComputedStyle
	Layout     *layout.LayoutBox
	Display    *displaylist.List

	// Diagnostics collects the HTML parse issues; CSS and cascade
	// warnings go through the deduplicated warning log.
	Diagnostics []string
}

// Options tunes document processing. The zero value selects the
// default viewport and a fresh font-metrics collaborator.
type Options struct {
	ViewportWidth  float64
	ViewportHeight float64
	Metrics        layout.FontMetrics
}

func (o *Options) fill() {
	if o.ViewportWidth <= 0 {
		o.ViewportWidth = DefaultViewportWidth
	}
	if o.ViewportHeight <= 0 {
		o.ViewportHeight = DefaultViewportHeight
	}
	if o.Metrics == nil {
		o.Metrics = fontmetrics.New()
	}
}

// LoadDocument fetches path (a file path or http(s) URL), runs the full
// pipeline, and returns the processed document. It fails only when the
// source itself cannot be fetched or read.
func LoadDocument(path string) (*Document, error) {
	return LoadDocumentWith(path, Options{})
}

// LoadDocumentWith is LoadDocument with explicit options.
func LoadDocumentWith(path string, opts Options) (*Document, error) {
	loader := dom.NewResourceLoader(baseOf(path))
	source, err := loader.FetchText(path)
	if err != nil {
		return nil, err
	}
	doc := ProcessHTML(source, path, loader, opts)
	return doc, nil
}

// ProcessHTML runs the pipeline over already-fetched HTML source.
// loader may be nil, in which case external stylesheets are skipped.
func ProcessHTML(source, path string, loader *dom.ResourceLoader, opts Options) *Document {
	opts.fill()

	arena, root, issues := htmltree.Parse(source)
	if base := baseOf(path); base != "" {
		dom.ResolveURLs(arena, root, base)
	}

	var authorCSS strings.Builder
	authorCSS.WriteString(dom.CollectEmbeddedStyle(arena, root))
	if loader != nil {
		authorCSS.WriteString(dom.FetchExternalStylesheets(arena, root, loader))
	}

	cssText := authorCSS.String()
	sheet := cssparse.Parse(cssText)
	styles := cascade.StyleTree(arena, root, cssText)
	box := layout.BuildAndLayout(arena, styles, root, opts.Metrics, opts.ViewportWidth, opts.ViewportHeight)

	return &Document{
		Source:      source,
		Path:        path,
		Arena:       arena,
		Root:        root,
		Stylesheet:  sheet,
		Styles:      styles,
		Layout:      box,
		Display:     displaylist.Build(arena, box, opts.ViewportWidth, opts.ViewportHeight),
		Diagnostics: issues,
	}
}

// baseOf derives the base URL for resolving relative references: the
// URL itself for http(s) sources (reference resolution strips the
// leaf), the containing directory for filesystem paths.
func baseOf(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return filepath.Dir(path)
}
