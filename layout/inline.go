package layout

import (
	"strings"

	"github.com/wren-browser/wren/cascade"
	"github.com/wren-browser/wren/dom"
	"github.com/wren-browser/wren/internal/browserlog"
)

// baselineEm is the baseline position as a fraction of the font size:
// for most Latin faces the baseline sits about 80% down the em box
// (CSS 2.1 §10.8.1).
const baselineEm = 0.8

// Fragment is the portion of an inline-level run placed on one line,
// with its font and color context resolved.
type Fragment struct {
	Node     dom.NodeID
	Text     string
	Rect     Rect
	Baseline float64 // offset from the fragment top to its baseline
	Style    *cascade.ComputedStyle
}

// LineBox is one horizontal line of an inline formatting context.
type LineBox struct {
	Rect      Rect
	Baseline  float64 // offset from the line top to the shared baseline
	Fragments []Fragment
}

// textRun is a maximal run of text sharing one resolved style, produced
// by flattening the inline box tree in document order.
type textRun struct {
	node  dom.NodeID
	text  string
	style *cascade.ComputedStyle
}

// collectTextRuns flattens an inline-level subtree into styled text
// runs. Block-level boxes nested inside inline content are not
// supported by this model and contribute nothing.
func collectTextRuns(box *LayoutBox, out []textRun) []textRun {
	switch box.BoxType {
	case TextBox:
		if box.Text != "" {
			out = append(out, textRun{node: box.Node, text: box.Text, style: box.Style})
		}
	case InlineBox:
		for _, child := range box.Children {
			if !child.isInlineLevel() {
				browserlog.Global.Once("layout", "block box inside inline box is not supported, content skipped")
				continue
			}
			out = collectTextRuns(child, out)
		}
	}
	return out
}

// lineAssembler accumulates fragments into the current line box and
// flushes completed lines onto the establishing box.
type lineAssembler struct {
	ctx *layoutContext
	fc  *floatContext
	box *LayoutBox

	contentX, contentW float64
	y                  float64 // current line top, absolute

	frags      []Fragment
	left, right float64 // available span of the current line
	x           float64 // cursor within the line
	maxAscent  float64
	maxDescent float64
	totalH     float64
}

func (la *lineAssembler) startLine() {
	probe := la.box.lineHeightPx(la.ctx)
	la.left, la.right = la.fc.availableSpan(la.y, probe, la.contentX, la.contentW)
	la.x = la.left
	la.frags = nil
	la.maxAscent = 0
	la.maxDescent = 0
}

// flushLine finalizes the current line: fragments drop onto the shared
// baseline of the tallest run, the line is aligned horizontally per
// text-align, and the cursor moves below the line.
func (la *lineAssembler) flushLine() {
	if len(la.frags) == 0 {
		return
	}
	lineH := la.maxAscent + la.maxDescent
	for i := range la.frags {
		la.frags[i].Rect.Y = la.y + la.maxAscent - la.frags[i].Baseline
	}

	var offset float64
	if extra := la.right - la.x; extra > 0 && la.box.Style != nil {
		switch la.box.Style.TextAlign {
		case "right":
			offset = extra
		case "center":
			offset = extra / 2
		}
	}
	if offset != 0 {
		for i := range la.frags {
			la.frags[i].Rect.X += offset
		}
	}

	la.box.Lines = append(la.box.Lines, LineBox{
		Rect:      Rect{X: la.left, Y: la.y, Width: la.x - la.left, Height: lineH},
		Baseline:  la.maxAscent,
		Fragments: la.frags,
	})
	la.y += lineH
	la.totalH += lineH
	la.startLine()
}

// placeWord appends one word (with an optional preceding space) to the
// current line, breaking to a new line first when it does not fit at
// the cursor (soft wrap at whitespace).
func (la *lineAssembler) placeWord(run textRun, word string, needSpace bool) {
	fs := run.style.FontSize.Value
	lineH := lineHeightFor(la.ctx, run.style)
	ascent := fs * baselineEm
	if descent := lineH - ascent; descent < 0 {
		ascent = lineH
	}
	wordW := la.ctx.metrics.TextWidth(word, fs)
	spaceW := 0.0
	if needSpace && len(la.frags) > 0 {
		spaceW = la.ctx.metrics.TextWidth(" ", fs)
	}

	if len(la.frags) > 0 && la.x+spaceW+wordW > la.right {
		la.flushLine()
		spaceW = 0
	}

	text := word
	if spaceW > 0 {
		text = " " + word
	}

	// Merge into the previous fragment when it continues the same run.
	if n := len(la.frags); n > 0 {
		last := &la.frags[n-1]
		if last.Node == run.node && last.Rect.X+last.Rect.Width == la.x {
			last.Text += text
			last.Rect.Width += spaceW + wordW
			la.x += spaceW + wordW
			la.bumpMetrics(ascent, lineH)
			return
		}
	}

	la.frags = append(la.frags, Fragment{
		Node:     run.node,
		Text:     word,
		Rect:     Rect{X: la.x + spaceW, Y: la.y, Width: wordW, Height: lineH},
		Baseline: ascent,
		Style:    run.style,
	})
	la.x += spaceW + wordW
	la.bumpMetrics(ascent, lineH)
}

func (la *lineAssembler) bumpMetrics(ascent, lineH float64) {
	if ascent > la.maxAscent {
		la.maxAscent = ascent
	}
	if descent := lineH - ascent; descent > la.maxDescent {
		la.maxDescent = descent
	}
}

func lineHeightFor(ctx *layoutContext, cs *cascade.ComputedStyle) float64 {
	fs := cs.FontSize.Value
	if !cs.LineHeight.Auto {
		return ctx.resolveLength(cs.LineHeight.Length, fs, 0)
	}
	return ctx.metrics.LineHeight(fs)
}

// layoutInlineContent lays out a run of inline-level children as this
// box's inline formatting context, starting startOffset below the
// content top, and returns the total height of the produced line boxes
// (CSS 2.1 §9.4.2).
func (box *LayoutBox) layoutInlineContent(ctx *layoutContext, fc *floatContext, children []*LayoutBox, startOffset float64) float64 {
	var runs []textRun
	for _, child := range children {
		runs = collectTextRuns(child, runs)
	}
	if len(runs) == 0 {
		return 0
	}

	la := &lineAssembler{
		ctx:      ctx,
		fc:       fc,
		box:      box,
		contentX: box.Dimensions.Content.X,
		contentW: box.Dimensions.Content.Width,
		y:        box.Dimensions.Content.Y + startOffset,
	}
	la.startLine()

	pendingSpace := false
	for _, run := range runs {
		if strings.HasPrefix(run.text, " ") {
			pendingSpace = true
		}
		for _, word := range strings.Fields(run.text) {
			la.placeWord(run, word, pendingSpace)
			pendingSpace = true
		}
		if !strings.HasSuffix(run.text, " ") {
			pendingSpace = false
		}
	}
	la.flushLine()
	return la.totalH
}
