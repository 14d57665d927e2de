package cascade

import (
	"sync"

	"github.com/wren-browser/wren/cssparse"
)

// uaStylesheetSource is the user-agent stylesheet: a constant, parsed
// once on first demand and shared process-wide.
// It covers exactly the rules this core's layout and display-list
// stages depend on: hiding non-rendered metadata elements, establishing
// block/inline/list-item display for the flow elements this core lays
// out, and a handful of default typographic rules.
const uaStylesheetSource = `
html, body, div, p, ul, ol, li, h1, h2, h3, h4, h5, h6,
header, footer, main, section, article, nav, aside, figure, figcaption,
blockquote, pre, form, fieldset, table, address, hr {
  display: block;
}
head, style, script, title, meta, link, base, noscript, template {
  display: none;
}
li {
  display: list-item;
}
body {
  margin: 8px;
}
p, blockquote, ul, ol, dl, pre, fieldset {
  margin-top: 1em;
  margin-bottom: 1em;
}
ul, ol {
  padding-left: 40px;
}
h1 { font-size: 2em; font-weight: bold; margin-top: 0.67em; margin-bottom: 0.67em; }
h2 { font-size: 1.5em; font-weight: bold; margin-top: 0.83em; margin-bottom: 0.83em; }
h3 { font-size: 1.17em; font-weight: bold; margin-top: 1em; margin-bottom: 1em; }
h4 { font-size: 1em; font-weight: bold; margin-top: 1.33em; margin-bottom: 1.33em; }
h5 { font-size: 0.83em; font-weight: bold; margin-top: 1.67em; margin-bottom: 1.67em; }
h6 { font-size: 0.67em; font-weight: bold; margin-top: 2.33em; margin-bottom: 2.33em; }
b, strong { font-weight: bold; }
em, i, cite, dfn, var, address { font-style: italic; }
small { font-size: 0.83em; }
a { color: #0000ee; }
table { display: table; }
tr { display: table-row; }
td, th { display: table-cell; }
pre, code { font-family: monospace; }
`

var (
	uaOnce       sync.Once
	uaStylesheet *cssparse.Stylesheet
)

// UAStylesheet returns the process-wide user-agent stylesheet, parsing
// it on first use.
func UAStylesheet() *cssparse.Stylesheet {
	uaOnce.Do(func() {
		uaStylesheet = cssparse.Parse(uaStylesheetSource)
	})
	return uaStylesheet
}
