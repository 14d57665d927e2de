// Package cascade computes per-node styles from a UA stylesheet and an
// author stylesheet, implementing CSS 2.1's cascade and inheritance
// algorithm over a side-table keyed by DOM node id.
//
// Spec references:
// - CSS 2.1 §6 Assigning property values, Cascading, and Inheritance
// - CSS Cascading and Inheritance Level 3/4 (origin ordering)
package cascade

import "github.com/wren-browser/wren/cssparse"

// LengthUnit is the unit of a resolved Length value.
type LengthUnit int

const (
	UnitPx LengthUnit = iota
	UnitEm
	UnitVW
	UnitVH
	UnitPercent
)

// Length is a single dimension with its unit still attached; layout
// resolves it against the current font size / viewport / containing
// block as appropriate.
type Length struct {
	Value float64
	Unit  LengthUnit
}

// AutoLength is "auto" or a concrete Length, used for margins, width,
// height, and inset offsets.
type AutoLength struct {
	Auto   bool
	Length Length
}

// Color is an RGBA byte quad.
type Color struct {
	R, G, B, A uint8
}

// Opaque reports whether the color is fully opaque.
func (c Color) Opaque() bool { return c.A == 255 }

// DisplayOuter is the outer display type.
type DisplayOuter int

const (
	OuterBlock DisplayOuter = iota
	OuterInline
	OuterRunIn
)

// DisplayInner is the inner display type. ListItem is carried as a
// UA-stylesheet concept (HTML5 §4.4.8 <li>) layered on top of
// OuterBlock/InnerFlow via the ListItem flag.
type DisplayInner int

const (
	InnerFlow DisplayInner = iota
	InnerFlowRoot
	InnerFlex
	InnerGrid
	InnerTable
	InnerTableRow
	InnerTableCell
)

// Display is the full computed display value: outer × inner, a
// display:none flag, and the list-item marker.
type Display struct {
	None     bool
	Outer    DisplayOuter
	Inner    DisplayInner
	ListItem bool
}

// PositionKind is the CSS 2.1 §9.3 positioning scheme.
type PositionKind int

const (
	PositionStatic PositionKind = iota
	PositionRelative
	PositionAbsolute
	PositionFixed
	PositionSticky
)

// FloatKind is CSS 2.1 §9.5's float property.
type FloatKind int

const (
	FloatNone FloatKind = iota
	FloatLeft
	FloatRight
)

// ClearKind is CSS 2.1 §9.5.2's clear property.
type ClearKind int

const (
	ClearNone ClearKind = iota
	ClearLeft
	ClearRight
	ClearBoth
)

// BorderSide is one edge's border width/style/color.
type BorderSide struct {
	Width Length
	Style string // "none", "solid", "dashed", ...
	Color Color
}

// ComputedStyle is the per-property value side-table entry for one
// element. Properties not classified as inherited reset to their
// initial value at the start of every element.
type ComputedStyle struct {
	Color           Color
	BackgroundColor Color
	HasBackground   bool

	FontFamily string
	FontSize   Length
	FontWeight int    // 100-900
	FontStyle  string // normal, italic, oblique
	LineHeight AutoLength
	WritingMode string
	TextAlign   string

	Display Display

	Width, Height             AutoLength
	MinWidth, MaxWidth        AutoLength
	MinHeight, MaxHeight      AutoLength
	MarginTop, MarginRight    AutoLength
	MarginBottom, MarginLeft  AutoLength
	PaddingTop, PaddingRight  Length
	PaddingBottom, PaddingLeft Length

	BorderTop, BorderRight    BorderSide
	BorderBottom, BorderLeft  BorderSide

	Top, Right, Bottom, Left AutoLength
	Position                 PositionKind
	Float                    FloatKind
	Clear                    ClearKind
	BoxSizing                string // content-box, border-box

	ZIndexAuto bool
	ZIndex     int

	FlexDirection  string
	JustifyContent string
	FlexGrow       float64
	FlexShrink     float64
	FlexBasis      AutoLength

	// CustomProps holds this element's resolved custom-property
	// (--name) values, inherited from the parent and overridden by any
	// the element itself declares, for var() substitution.
	CustomProps map[string][]cssparse.ComponentValue

	// SourceOrder records, for the subset of properties where source
	// order breaks a cascade tie even across our simplified matching,
	// the index of the declaration that set each property.
	SourceOrder map[string]int
}

// DefaultComputedStyle returns the initial computed style: black text,
// transparent background, 16px normal-weight sans-serif, static
// in-flow inline display. Used as the root's inherited base.
func DefaultComputedStyle() *ComputedStyle {
	return &ComputedStyle{
		Color:      Color{0, 0, 0, 255},
		FontFamily: "sans-serif",
		FontSize:   Length{16, UnitPx},
		FontWeight: 400,
		FontStyle:  "normal",
		LineHeight: AutoLength{Auto: true},
		WritingMode: "horizontal-tb",
		TextAlign:   "left",
		Display:     Display{Outer: OuterInline, Inner: InnerFlow},
		Width:       AutoLength{Auto: true},
		Height:      AutoLength{Auto: true},
		MinWidth:    AutoLength{Auto: true},
		MaxWidth:    AutoLength{Auto: true},
		MinHeight:   AutoLength{Auto: true},
		MaxHeight:   AutoLength{Auto: true},
		BoxSizing:   "content-box",
		ZIndexAuto:  true,
		FlexDirection:  "row",
		JustifyContent: "flex-start",
		FlexGrow:       0,
		FlexShrink:     1,
		FlexBasis:      AutoLength{Auto: true},
		CustomProps: map[string][]cssparse.ComponentValue{},
		SourceOrder: map[string]int{},
	}
}

// inheritedProperties lists the properties copied from the parent's computed
// style at the start of cascading an element; every other
// property resets to its initial value.
var inheritedProperties = map[string]bool{
	"color": true, "font-family": true, "font-size": true,
	"font-weight": true, "font-style": true, "line-height": true,
	"writing-mode": true, "text-align": true,
}

// inheritedFrom copies the inherited subset of parent into a fresh
// ComputedStyle seeded otherwise with initial values.
func inheritedFrom(parent *ComputedStyle) *ComputedStyle {
	cs := DefaultComputedStyle()
	if parent == nil {
		return cs
	}
	cs.Color = parent.Color
	cs.FontFamily = parent.FontFamily
	cs.FontSize = parent.FontSize
	cs.FontWeight = parent.FontWeight
	cs.FontStyle = parent.FontStyle
	cs.LineHeight = parent.LineHeight
	cs.WritingMode = parent.WritingMode
	cs.TextAlign = parent.TextAlign
	for k, v := range parent.CustomProps {
		cs.CustomProps[k] = v
	}
	return cs
}
