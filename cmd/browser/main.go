// Command browser loads a page from a file path or http(s) URL (or
// literal markup via --html), runs the tokenize/parse/cascade/layout
// pipeline, and dumps the DOM tree, a stylesheet summary, the layout
// tree, and the display list to stdout. Diagnostics go to stderr. Exit code is 0 on
// success and 1 on a fetch or file error.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/wren-browser/wren/displaylist"
	"github.com/wren-browser/wren/dom"
	"github.com/wren-browser/wren/engine"
	"github.com/wren-browser/wren/layout"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("browser", flag.ContinueOnError)
	htmlArg := fs.String("html", "", "parse this HTML string instead of loading a path or URL")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	var doc *engine.Document
	switch {
	case *htmlArg != "":
		doc = engine.ProcessHTML(*htmlArg, "", nil, engine.Options{})
	case fs.NArg() == 1:
		var err error
		doc, err = engine.LoadDocument(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "browser: %v\n", err)
			return 1
		}
	default:
		fmt.Fprintln(os.Stderr, "Usage: browser <path-or-url>")
		fmt.Fprintln(os.Stderr, "       browser --html '<markup>'")
		return 1
	}

	dump(os.Stdout, doc)
	for _, d := range doc.Diagnostics {
		fmt.Fprintf(os.Stderr, "parse issue: %s\n", d)
	}
	return 0
}

func dump(w *os.File, doc *engine.Document) {
	fmt.Fprintln(w, "=== DOM Tree ===")
	printDOMTree(w, doc.Arena, doc.Root, 0)

	fmt.Fprintf(w, "\n=== Stylesheet ===\n")
	fmt.Fprintf(w, "%d author rules, %d styled elements\n", len(doc.Stylesheet.Rules), len(doc.Styles))

	fmt.Fprintf(w, "\n=== Layout Tree ===\n")
	printLayoutTree(w, doc.Arena, doc.Layout, 0)

	fmt.Fprintf(w, "\n=== Display List ===\n")
	printDisplayList(w, doc.Display)
}

// printDOMTree prints the arena tree with indentation.
func printDOMTree(w *os.File, arena *dom.Arena, id dom.NodeID, indent int) {
	prefix := strings.Repeat("  ", indent)
	n := arena.Node(id)

	switch n.Kind {
	case dom.DocumentNode:
		fmt.Fprintf(w, "%s[Document]\n", prefix)
	case dom.ElementNode:
		attrs := ""
		if v, ok := n.Attrs.Get("id"); ok && v != "" {
			attrs += fmt.Sprintf(" id=%q", v)
		}
		if v, ok := n.Attrs.Get("class"); ok && v != "" {
			attrs += fmt.Sprintf(" class=%q", v)
		}
		fmt.Fprintf(w, "%s<%s%s>\n", prefix, n.LocalName, attrs)
	case dom.TextNode:
		text := strings.TrimSpace(n.Data)
		if text != "" {
			if len(text) > 50 {
				text = text[:47] + "..."
			}
			fmt.Fprintf(w, "%s%q\n", prefix, text)
		}
	case dom.CommentNode:
		fmt.Fprintf(w, "%s<!-- -->\n", prefix)
	}

	for c := n.FirstChild; c != dom.NoNode; c = arena.Node(c).NextSibling {
		printDOMTree(w, arena, c, indent+1)
	}
}

// printLayoutTree prints the box tree with content-box geometry.
func printLayoutTree(w *os.File, arena *dom.Arena, box *layout.LayoutBox, indent int) {
	if box == nil {
		return
	}
	prefix := strings.Repeat("  ", indent)

	name := "anonymous"
	if box.Node != dom.NoNode {
		n := arena.Node(box.Node)
		if n.Kind == dom.ElementNode {
			name = n.LocalName
		} else if n.Kind == dom.TextNode {
			name = "#text"
		}
	}

	fmt.Fprintf(w, "%s[%s] <%s> x=%.0f y=%.0f w=%.0f h=%.0f\n",
		prefix, boxTypeName(box.BoxType), name,
		box.Dimensions.Content.X,
		box.Dimensions.Content.Y,
		box.Dimensions.Content.Width,
		box.Dimensions.Content.Height)
	for _, line := range box.Lines {
		for _, frag := range line.Fragments {
			fmt.Fprintf(w, "%s  text %q x=%.0f y=%.0f w=%.0f\n",
				prefix, frag.Text, frag.Rect.X, frag.Rect.Y, frag.Rect.Width)
		}
	}

	for _, child := range box.Children {
		printLayoutTree(w, arena, child, indent+1)
	}
}

func boxTypeName(t layout.BoxType) string {
	switch t {
	case layout.InlineBox:
		return "inline"
	case layout.AnonymousBlockBox:
		return "anonymous"
	case layout.TextBox:
		return "text"
	case layout.TableBox:
		return "table"
	case layout.TableRowBox:
		return "table-row"
	case layout.TableCellBox:
		return "table-cell"
	case layout.FlexBox:
		return "flex"
	default:
		return "block"
	}
}

// printDisplayList prints one paint command per line, in paint order.
func printDisplayList(w *os.File, list *displaylist.List) {
	for _, cmd := range list.Commands {
		switch cmd.Op {
		case displaylist.OpFillRect:
			fmt.Fprintf(w, "FillRect x=%.0f y=%.0f w=%.0f h=%.0f rgba(%d,%d,%d,%d)\n",
				cmd.Rect.X, cmd.Rect.Y, cmd.Rect.Width, cmd.Rect.Height,
				cmd.Color.R, cmd.Color.G, cmd.Color.B, cmd.Color.A)
		case displaylist.OpDrawText:
			fmt.Fprintf(w, "DrawText %q x=%.0f baseline=%.0f size=%.0f rgba(%d,%d,%d,%d)\n",
				cmd.Text, cmd.Rect.X, cmd.Baseline, cmd.FontSize,
				cmd.Color.R, cmd.Color.G, cmd.Color.B, cmd.Color.A)
		case displaylist.OpDrawImage:
			fmt.Fprintf(w, "DrawImage %s x=%.0f y=%.0f w=%.0f h=%.0f\n",
				cmd.Src, cmd.Rect.X, cmd.Rect.Y, cmd.Rect.Width, cmd.Rect.Height)
		default:
			fmt.Fprintf(w, "%s\n", cmd.Op)
		}
	}
}
