package layout

import "github.com/wren-browser/wren/cascade"

// resolveLength turns a computed Length into a used pixel value.
// em resolves against the box's own font size, vw/vh against the
// viewport, and percentages against the containing block width
// (CSS 2.1 §4.3.2; percentage bases per §8.3, §8.4, §10.2).
func (ctx *layoutContext) resolveLength(l cascade.Length, fontSizePx, cbWidth float64) float64 {
	switch l.Unit {
	case cascade.UnitPx:
		return l.Value
	case cascade.UnitEm:
		return l.Value * fontSizePx
	case cascade.UnitVW:
		return l.Value / 100 * ctx.viewportW
	case cascade.UnitVH:
		return l.Value / 100 * ctx.viewportH
	case cascade.UnitPercent:
		return l.Value / 100 * cbWidth
	}
	return 0
}

// resolveAuto resolves an auto-or-length value; auto reports 0 plus
// isAuto=true so the caller can apply its own auto rule.
func (ctx *layoutContext) resolveAuto(al cascade.AutoLength, fontSizePx, cbWidth float64) (px float64, isAuto bool) {
	if al.Auto {
		return 0, true
	}
	return ctx.resolveLength(al.Length, fontSizePx, cbWidth), false
}

// borderWidth returns the used width of one border side: zero unless
// the side has a rendered border style (CSS 2.1 §8.5.3).
func (ctx *layoutContext) borderWidth(side cascade.BorderSide, fontSizePx float64) float64 {
	if side.Style == "" || side.Style == "none" || side.Style == "hidden" {
		return 0
	}
	return ctx.resolveLength(side.Width, fontSizePx, 0)
}

// fontSizePx returns the box's used font size. The cascade resolves
// font-size to absolute pixels during inheritance, so the stored unit
// is always px in practice; fall back to the value as-is otherwise.
func (box *LayoutBox) fontSizePx() float64 {
	if box.Style == nil {
		return 16
	}
	return box.Style.FontSize.Value
}

// lineHeightPx returns the used line height for the box's style: the
// line-height property when set, otherwise the font collaborator's
// default of 1.2 times the font size (CSS 2.1 §10.8.1).
func (box *LayoutBox) lineHeightPx(ctx *layoutContext) float64 {
	fs := box.fontSizePx()
	if box.Style != nil && !box.Style.LineHeight.Auto {
		return ctx.resolveLength(box.Style.LineHeight.Length, fs, 0)
	}
	return ctx.metrics.LineHeight(fs)
}

// collapseMargins combines two adjoining vertical margins per
// CSS 2.1 §8.3.1: the maximum of the positive margins plus the minimum
// (most negative) of the negative margins.
func collapseMargins(a, b float64) float64 {
	switch {
	case a >= 0 && b >= 0:
		if a > b {
			return a
		}
		return b
	case a < 0 && b < 0:
		if a < b {
			return a
		}
		return b
	default:
		return a + b
	}
}
