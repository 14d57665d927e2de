package cascade

import (
	"strconv"
	"strings"

	"github.com/wren-browser/wren/cssparse"
	"github.com/wren-browser/wren/csstok"
	"github.com/wren-browser/wren/internal/browserlog"
)

// splitOnWhitespace splits a component-value list on top-level
// whitespace tokens, used by the margin/padding/border shorthand
// expansion rules.
func splitOnWhitespace(value []cssparse.ComponentValue) [][]cssparse.ComponentValue {
	var groups [][]cssparse.ComponentValue
	var cur []cssparse.ComponentValue
	for _, cv := range value {
		if cv.IsWhitespace() {
			if len(cur) > 0 {
				groups = append(groups, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, cv)
	}
	if len(cur) > 0 {
		groups = append(groups, cur)
	}
	return groups
}

// expandFourSides implements the CSS 2.1 1/2/3/4-value shorthand rule:
// 1 value -> all sides; 2 -> vertical, horizontal; 3 -> top, horizontal,
// bottom; 4 -> top, right, bottom, left.
func expandFourSides(groups [][]cssparse.ComponentValue) (top, right, bottom, left []cssparse.ComponentValue, ok bool) {
	switch len(groups) {
	case 1:
		return groups[0], groups[0], groups[0], groups[0], true
	case 2:
		return groups[0], groups[1], groups[0], groups[1], true
	case 3:
		return groups[0], groups[1], groups[2], groups[1], true
	case 4:
		return groups[0], groups[1], groups[2], groups[3], true
	}
	return nil, nil, nil, nil, false
}

// expandShorthand expands a shorthand declaration into its longhand
// property:value pairs. Properties with no shorthand
// expansion pass through unchanged.
func expandShorthand(property string, value []cssparse.ComponentValue) map[string][]cssparse.ComponentValue {
	switch property {
	case "margin", "padding":
		top, right, bottom, left, ok := expandFourSides(splitOnWhitespace(value))
		if !ok {
			return nil
		}
		return map[string][]cssparse.ComponentValue{
			property + "-top": top, property + "-right": right,
			property + "-bottom": bottom, property + "-left": left,
		}
	case "border-width", "border-style", "border-color":
		attr := strings.TrimPrefix(property, "border-")
		top, right, bottom, left, ok := expandFourSides(splitOnWhitespace(value))
		if !ok {
			return nil
		}
		return map[string][]cssparse.ComponentValue{
			"border-top-" + attr: top, "border-right-" + attr: right,
			"border-bottom-" + attr: bottom, "border-left-" + attr: left,
		}
	case "background":
		// Only the color component of the background shorthand is
		// honored; images, positions, and repeats are not painted.
		return map[string][]cssparse.ComponentValue{"background-color": value}
	case "border":
		out := map[string][]cssparse.ComponentValue{}
		for _, side := range []string{"top", "right", "bottom", "left"} {
			out["border-"+side] = value
		}
		return out
	case "border-top", "border-right", "border-bottom", "border-left":
		return map[string][]cssparse.ComponentValue{property: value}
	default:
		return map[string][]cssparse.ComponentValue{property: value}
	}
}

func singleToken(value []cssparse.ComponentValue) (csstok.Token, bool) {
	v := trimWS(value)
	if len(v) != 1 || v[0].Kind != cssparse.TokenValue {
		return csstok.Token{}, false
	}
	return v[0].Token, true
}

func trimWS(value []cssparse.ComponentValue) []cssparse.ComponentValue {
	start, end := 0, len(value)
	for start < end && value[start].IsWhitespace() {
		start++
	}
	for end > start && value[end-1].IsWhitespace() {
		end--
	}
	return value[start:end]
}

func identValue(value []cssparse.ComponentValue) (string, bool) {
	tok, ok := singleToken(value)
	if !ok || tok.Type != csstok.IdentToken {
		return "", false
	}
	return strings.ToLower(tok.Value), true
}

func parseLength(value []cssparse.ComponentValue) (Length, bool) {
	tok, ok := singleToken(value)
	if !ok {
		return Length{}, false
	}
	switch tok.Type {
	case csstok.PercentageToken:
		return Length{Value: tok.NumValue, Unit: UnitPercent}, true
	case csstok.NumberToken:
		if tok.NumValue == 0 {
			return Length{Value: 0, Unit: UnitPx}, true
		}
		return Length{}, false
	case csstok.DimensionToken:
		switch strings.ToLower(tok.Unit) {
		case "px":
			return Length{Value: tok.NumValue, Unit: UnitPx}, true
		case "em", "rem":
			return Length{Value: tok.NumValue, Unit: UnitEm}, true
		case "vw":
			return Length{Value: tok.NumValue, Unit: UnitVW}, true
		case "vh":
			return Length{Value: tok.NumValue, Unit: UnitVH}, true
		case "pt":
			return Length{Value: tok.NumValue * 96 / 72, Unit: UnitPx}, true
		}
	}
	return Length{}, false
}

func parseAutoLength(value []cssparse.ComponentValue) (AutoLength, bool) {
	if ident, ok := identValue(value); ok && ident == "auto" {
		return AutoLength{Auto: true}, true
	}
	l, ok := parseLength(value)
	if !ok {
		return AutoLength{}, false
	}
	return AutoLength{Length: l}, true
}

var namedColors = map[string]Color{
	"black": {0, 0, 0, 255}, "white": {255, 255, 255, 255},
	"red": {255, 0, 0, 255}, "green": {0, 128, 0, 255},
	"blue": {0, 0, 255, 255}, "yellow": {255, 255, 0, 255},
	"gray": {128, 128, 128, 255}, "grey": {128, 128, 128, 255},
	"silver": {192, 192, 192, 255}, "maroon": {128, 0, 0, 255},
	"purple": {128, 0, 128, 255}, "fuchsia": {255, 0, 255, 255},
	"lime": {0, 255, 0, 255}, "olive": {128, 128, 0, 255},
	"navy": {0, 0, 128, 255}, "teal": {0, 128, 128, 255},
	"aqua": {0, 255, 255, 255}, "cyan": {0, 255, 255, 255},
	"orange": {255, 165, 0, 255}, "pink": {255, 192, 203, 255},
	"brown": {165, 42, 42, 255}, "magenta": {255, 0, 255, 255},
	"transparent": {0, 0, 0, 0},
}

func parseColor(value []cssparse.ComponentValue, current Color) (Color, bool) {
	v := trimWS(value)
	if len(v) == 1 && v[0].Kind == cssparse.TokenValue {
		tok := v[0].Token
		switch tok.Type {
		case csstok.HashToken:
			return parseHexColor(tok.Value)
		case csstok.IdentToken:
			lower := strings.ToLower(tok.Value)
			if lower == "currentcolor" {
				return current, true
			}
			if c, ok := namedColors[lower]; ok {
				return c, true
			}
		}
	}
	if len(v) == 1 && v[0].Kind == cssparse.FunctionValue {
		name := strings.ToLower(v[0].Name)
		if name == "rgb" || name == "rgba" {
			return parseRGBFunction(v[0].Values)
		}
	}
	return Color{}, false
}

func parseHexColor(hex string) (Color, bool) {
	parse := func(s string) (uint8, bool) {
		v, err := strconv.ParseUint(s, 16, 8)
		if err != nil {
			return 0, false
		}
		return uint8(v), true
	}
	dup := func(r byte) string { return string([]byte{r, r}) }
	switch len(hex) {
	case 3:
		r, ok1 := parse(dup(hex[0]))
		g, ok2 := parse(dup(hex[1]))
		b, ok3 := parse(dup(hex[2]))
		if ok1 && ok2 && ok3 {
			return Color{r, g, b, 255}, true
		}
	case 4:
		r, ok1 := parse(dup(hex[0]))
		g, ok2 := parse(dup(hex[1]))
		b, ok3 := parse(dup(hex[2]))
		a, ok4 := parse(dup(hex[3]))
		if ok1 && ok2 && ok3 && ok4 {
			return Color{r, g, b, a}, true
		}
	case 6:
		r, ok1 := parse(hex[0:2])
		g, ok2 := parse(hex[2:4])
		b, ok3 := parse(hex[4:6])
		if ok1 && ok2 && ok3 {
			return Color{r, g, b, 255}, true
		}
	case 8:
		r, ok1 := parse(hex[0:2])
		g, ok2 := parse(hex[2:4])
		b, ok3 := parse(hex[4:6])
		a, ok4 := parse(hex[6:8])
		if ok1 && ok2 && ok3 && ok4 {
			return Color{r, g, b, a}, true
		}
	}
	return Color{}, false
}

func parseRGBFunction(args []cssparse.ComponentValue) (Color, bool) {
	var nums []float64
	for _, cv := range args {
		if cv.IsWhitespace() || (cv.Kind == cssparse.TokenValue && cv.Token.Type == csstok.CommaToken) {
			continue
		}
		if cv.Kind != cssparse.TokenValue {
			return Color{}, false
		}
		switch cv.Token.Type {
		case csstok.NumberToken:
			nums = append(nums, cv.Token.NumValue)
		case csstok.PercentageToken:
			nums = append(nums, cv.Token.NumValue*255/100)
		default:
			return Color{}, false
		}
	}
	if len(nums) != 3 && len(nums) != 4 {
		return Color{}, false
	}
	clamp := func(v float64) uint8 {
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return uint8(v)
	}
	a := uint8(255)
	if len(nums) == 4 {
		av := nums[3]
		if av <= 1 {
			av *= 255
		}
		a = clamp(av)
	}
	return Color{clamp(nums[0]), clamp(nums[1]), clamp(nums[2]), a}, true
}

func parseDisplay(value []cssparse.ComponentValue) (Display, bool) {
	ident, ok := identValue(value)
	if !ok {
		return Display{}, false
	}
	switch ident {
	case "none":
		return Display{None: true}, true
	case "block":
		return Display{Outer: OuterBlock, Inner: InnerFlow}, true
	case "inline":
		return Display{Outer: OuterInline, Inner: InnerFlow}, true
	case "inline-block":
		return Display{Outer: OuterInline, Inner: InnerFlowRoot}, true
	case "flow-root":
		return Display{Outer: OuterBlock, Inner: InnerFlowRoot}, true
	case "run-in":
		return Display{Outer: OuterRunIn, Inner: InnerFlow}, true
	case "flex":
		return Display{Outer: OuterBlock, Inner: InnerFlex}, true
	case "inline-flex":
		return Display{Outer: OuterInline, Inner: InnerFlex}, true
	case "grid":
		return Display{Outer: OuterBlock, Inner: InnerGrid}, true
	case "inline-grid":
		return Display{Outer: OuterInline, Inner: InnerGrid}, true
	case "table":
		return Display{Outer: OuterBlock, Inner: InnerTable}, true
	case "table-row":
		return Display{Outer: OuterBlock, Inner: InnerTableRow}, true
	case "table-cell":
		return Display{Outer: OuterBlock, Inner: InnerTableCell}, true
	case "list-item":
		return Display{Outer: OuterBlock, Inner: InnerFlow, ListItem: true}, true
	}
	return Display{}, false
}

func parseFontWeight(value []cssparse.ComponentValue, current int) (int, bool) {
	tok, ok := singleToken(value)
	if !ok {
		return 0, false
	}
	switch tok.Type {
	case csstok.NumberToken:
		if tok.IsInteger && tok.NumValue >= 1 && tok.NumValue <= 1000 {
			return int(tok.NumValue), true
		}
	case csstok.IdentToken:
		switch strings.ToLower(tok.Value) {
		case "normal":
			return 400, true
		case "bold":
			return 700, true
		case "bolder":
			if current < 600 {
				return 700, true
			}
			return 900, true
		case "lighter":
			if current > 700 {
				return 400, true
			}
			return 100, true
		}
	}
	return 0, false
}

func parseBorderSide(value []cssparse.ComponentValue, current Color) (BorderSide, bool) {
	groups := splitOnWhitespace(value)
	// Omitted border-color defaults to currentColor.
	side := BorderSide{Style: "none", Color: current}
	matched := false
	for _, g := range groups {
		if ident, ok := identValue(g); ok {
			switch ident {
			case "none", "solid", "dashed", "dotted", "double", "groove", "ridge", "inset", "outset", "hidden":
				side.Style = ident
				matched = true
				continue
			case "thin":
				side.Width = Length{1, UnitPx}
				matched = true
				continue
			case "medium":
				side.Width = Length{3, UnitPx}
				matched = true
				continue
			case "thick":
				side.Width = Length{5, UnitPx}
				matched = true
				continue
			}
		}
		if l, ok := parseLength(g); ok {
			side.Width = l
			matched = true
			continue
		}
		if c, ok := parseColor(g, current); ok {
			side.Color = c
			matched = true
			continue
		}
		return BorderSide{}, false
	}
	return side, matched
}

func parsePosition(value []cssparse.ComponentValue) (PositionKind, bool) {
	ident, ok := identValue(value)
	if !ok {
		return 0, false
	}
	switch ident {
	case "static":
		return PositionStatic, true
	case "relative":
		return PositionRelative, true
	case "absolute":
		return PositionAbsolute, true
	case "fixed":
		return PositionFixed, true
	case "sticky":
		return PositionSticky, true
	}
	return 0, false
}

func parseFloat(value []cssparse.ComponentValue) (FloatKind, bool) {
	ident, ok := identValue(value)
	if !ok {
		return 0, false
	}
	switch ident {
	case "none":
		return FloatNone, true
	case "left":
		return FloatLeft, true
	case "right":
		return FloatRight, true
	}
	return 0, false
}

func parseClear(value []cssparse.ComponentValue) (ClearKind, bool) {
	ident, ok := identValue(value)
	if !ok {
		return 0, false
	}
	switch ident {
	case "none":
		return ClearNone, true
	case "left":
		return ClearLeft, true
	case "right":
		return ClearRight, true
	case "both":
		return ClearBoth, true
	}
	return 0, false
}

func parseNumber(value []cssparse.ComponentValue) (float64, bool) {
	tok, ok := singleToken(value)
	if !ok || tok.Type != csstok.NumberToken {
		return 0, false
	}
	return tok.NumValue, true
}

// applyDeclaration applies one already var()-resolved, already
// shorthand-expanded longhand declaration onto cs, in source order. An
// unrecognized value for a known property logs a warning once and
// leaves the property unset.
func applyDeclaration(cs *ComputedStyle, property string, value []cssparse.ComponentValue, order int) {
	tag := func() { cs.SourceOrder[property] = order }
	warn := func() {
		browserlog.Global.Once("cascade", "unsupported value for "+property+": "+cssparse.Serialize(value))
	}
	switch property {
	case "color":
		if c, ok := parseColor(value, cs.Color); ok {
			cs.Color = c
			tag()
		} else {
			warn()
		}
	case "background-color":
		if c, ok := parseColor(value, cs.Color); ok {
			cs.BackgroundColor = c
			cs.HasBackground = true
			tag()
		} else {
			warn()
		}
	case "font-family":
		cs.FontFamily = strings.TrimSpace(cssparse.Serialize(trimWS(value)))
		tag()
	case "font-size":
		if l, ok := parseLength(value); ok {
			cs.FontSize = resolveFontSize(l, cs.FontSize)
			tag()
		} else {
			warn()
		}
	case "font-weight":
		if w, ok := parseFontWeight(value, cs.FontWeight); ok {
			cs.FontWeight = w
			tag()
		} else {
			warn()
		}
	case "font-style":
		if ident, ok := identValue(value); ok && (ident == "normal" || ident == "italic" || ident == "oblique") {
			cs.FontStyle = ident
			tag()
		} else {
			warn()
		}
	case "line-height":
		if al, ok := parseAutoLength(value); ok {
			cs.LineHeight = al
			tag()
		} else if n, ok := parseNumber(value); ok {
			cs.LineHeight = AutoLength{Length: Length{Value: n, Unit: UnitEm}}
			tag()
		} else {
			warn()
		}
	case "writing-mode":
		if ident, ok := identValue(value); ok {
			cs.WritingMode = ident
			tag()
		} else {
			warn()
		}
	case "text-align":
		if ident, ok := identValue(value); ok {
			cs.TextAlign = ident
			tag()
		} else {
			warn()
		}
	case "display":
		if d, ok := parseDisplay(value); ok {
			cs.Display = d
			tag()
		} else {
			warn()
		}
	case "width":
		setAutoLen(&cs.Width, value, tag, warn)
	case "height":
		setAutoLen(&cs.Height, value, tag, warn)
	case "min-width":
		setAutoLen(&cs.MinWidth, value, tag, warn)
	case "max-width":
		setAutoLen(&cs.MaxWidth, value, tag, warn)
	case "min-height":
		setAutoLen(&cs.MinHeight, value, tag, warn)
	case "max-height":
		setAutoLen(&cs.MaxHeight, value, tag, warn)
	case "margin-top":
		setAutoLen(&cs.MarginTop, value, tag, warn)
	case "margin-right":
		setAutoLen(&cs.MarginRight, value, tag, warn)
	case "margin-bottom":
		setAutoLen(&cs.MarginBottom, value, tag, warn)
	case "margin-left":
		setAutoLen(&cs.MarginLeft, value, tag, warn)
	case "padding-top":
		setLen(&cs.PaddingTop, value, tag, warn)
	case "padding-right":
		setLen(&cs.PaddingRight, value, tag, warn)
	case "padding-bottom":
		setLen(&cs.PaddingBottom, value, tag, warn)
	case "padding-left":
		setLen(&cs.PaddingLeft, value, tag, warn)
	case "top":
		setAutoLen(&cs.Top, value, tag, warn)
	case "right":
		setAutoLen(&cs.Right, value, tag, warn)
	case "bottom":
		setAutoLen(&cs.Bottom, value, tag, warn)
	case "left":
		setAutoLen(&cs.Left, value, tag, warn)
	case "position":
		if p, ok := parsePosition(value); ok {
			cs.Position = p
			tag()
		} else {
			warn()
		}
	case "float":
		if f, ok := parseFloat(value); ok {
			cs.Float = f
			tag()
		} else {
			warn()
		}
	case "clear":
		if cl, ok := parseClear(value); ok {
			cs.Clear = cl
			tag()
		} else {
			warn()
		}
	case "box-sizing":
		if ident, ok := identValue(value); ok && (ident == "content-box" || ident == "border-box") {
			cs.BoxSizing = ident
			tag()
		} else {
			warn()
		}
	case "z-index":
		if ident, ok := identValue(value); ok && ident == "auto" {
			cs.ZIndexAuto = true
			tag()
		} else if n, ok := parseNumber(value); ok {
			cs.ZIndexAuto = false
			cs.ZIndex = int(n)
			tag()
		} else {
			warn()
		}
	case "flex-direction":
		if ident, ok := identValue(value); ok {
			cs.FlexDirection = ident
			tag()
		} else {
			warn()
		}
	case "justify-content":
		if ident, ok := identValue(value); ok {
			cs.JustifyContent = ident
			tag()
		} else {
			warn()
		}
	case "flex-grow":
		if n, ok := parseNumber(value); ok {
			cs.FlexGrow = n
			tag()
		} else {
			warn()
		}
	case "flex-shrink":
		if n, ok := parseNumber(value); ok {
			cs.FlexShrink = n
			tag()
		} else {
			warn()
		}
	case "flex-basis":
		setAutoLen(&cs.FlexBasis, value, tag, warn)
	case "border-top", "border-right", "border-bottom", "border-left":
		if side, ok := parseBorderSide(value, cs.Color); ok {
			setBorderSide(cs, property, side)
			tag()
		} else {
			warn()
		}
	case "border-top-width", "border-right-width", "border-bottom-width", "border-left-width":
		if l, ok := parseLength(value); ok {
			setBorderWidth(cs, property, l)
			tag()
		} else {
			warn()
		}
	case "border-top-style", "border-right-style", "border-bottom-style", "border-left-style":
		if ident, ok := identValue(value); ok {
			setBorderStyle(cs, property, ident)
			tag()
		} else {
			warn()
		}
	case "border-top-color", "border-right-color", "border-bottom-color", "border-left-color":
		if c, ok := parseColor(value, cs.Color); ok {
			setBorderColor(cs, property, c)
			tag()
		} else {
			warn()
		}
	default:
		if strings.HasPrefix(property, "--") {
			cs.CustomProps[property] = value
			return
		}
		// Unknown property: warned once, left unset.
		browserlog.Global.Once("cascade", "unrecognized property: "+property)
	}
}

func setAutoLen(dst *AutoLength, value []cssparse.ComponentValue, tag, warn func()) {
	if al, ok := parseAutoLength(value); ok {
		*dst = al
		tag()
	} else {
		warn()
	}
}

func setLen(dst *Length, value []cssparse.ComponentValue, tag, warn func()) {
	if l, ok := parseLength(value); ok {
		*dst = l
		tag()
	} else {
		warn()
	}
}

func setBorderSide(cs *ComputedStyle, property string, side BorderSide) {
	switch property {
	case "border-top":
		cs.BorderTop = side
	case "border-right":
		cs.BorderRight = side
	case "border-bottom":
		cs.BorderBottom = side
	case "border-left":
		cs.BorderLeft = side
	}
}

func setBorderWidth(cs *ComputedStyle, property string, l Length) {
	switch property {
	case "border-top-width":
		cs.BorderTop.Width = l
	case "border-right-width":
		cs.BorderRight.Width = l
	case "border-bottom-width":
		cs.BorderBottom.Width = l
	case "border-left-width":
		cs.BorderLeft.Width = l
	}
}

func setBorderStyle(cs *ComputedStyle, property, style string) {
	switch property {
	case "border-top-style":
		cs.BorderTop.Style = style
	case "border-right-style":
		cs.BorderRight.Style = style
	case "border-bottom-style":
		cs.BorderBottom.Style = style
	case "border-left-style":
		cs.BorderLeft.Style = style
	}
}

func setBorderColor(cs *ComputedStyle, property string, c Color) {
	switch property {
	case "border-top-color":
		cs.BorderTop.Color = c
	case "border-right-color":
		cs.BorderRight.Color = c
	case "border-bottom-color":
		cs.BorderBottom.Color = c
	case "border-left-color":
		cs.BorderLeft.Color = c
	}
}

// resolveFontSize resolves em and percent font sizes to an absolute px
// "used value" immediately (rather than carrying the unit forward like
// other length-valued properties), since every descendant's own
// em-relative lengths need a concrete parent font size to resolve
// against during inheritance. Other units (px, vw, vh) are returned
// unchanged.
func resolveFontSize(l Length, parentPx Length) Length {
	switch l.Unit {
	case UnitEm:
		return Length{Value: l.Value * parentPx.Value, Unit: UnitPx}
	case UnitPercent:
		return Length{Value: l.Value / 100 * parentPx.Value, Unit: UnitPx}
	default:
		return l
	}
}
