package layout

import (
	"strconv"
	"strings"

	"github.com/wren-browser/wren/dom"
)

// Table layout constants.
const (
	// Cap on estimated column width so pathological content cannot
	// produce an unusable layout (CSS 2.1 §17.5.2.2 leaves the auto
	// algorithm to the UA).
	maxColumnWidth = 400.0

	// HTML5 §4.9.11 caps colspan at 1000.
	maxColspan = 1000

	// Default border-spacing from the HTML rendering section.
	defaultBorderSpacing = 2.0

	// Minimum width granted to a column even when empty.
	minColumnWidth = 30.0
)

// layoutTable lays out a table box: resolve the table's own width and
// position like a block, derive per-column widths from cell content,
// then stack the rows (CSS 2.1 §17.5).
func (box *LayoutBox) layoutTable(ctx *layoutContext, cb Dimensions) {
	box.calculateBlockWidth(ctx, cb)
	box.calculateBlockPosition(ctx, cb)

	spacing := box.borderSpacing(ctx)
	numColumns := box.countTableColumns(ctx)
	columnWidths := box.tableColumnWidths(ctx, numColumns, box.Dimensions.Content.Width)

	cursor := 0.0
	for _, row := range box.Children {
		if row.BoxType != TableRowBox {
			continue
		}
		rowCB := Dimensions{Content: Rect{
			X:     box.Dimensions.Content.X,
			Y:     box.Dimensions.Content.Y + cursor,
			Width: box.Dimensions.Content.Width,
		}}
		row.layoutRowWithColumns(ctx, rowCB, columnWidths, spacing)
		cursor += row.Dimensions.MarginBox().Height
	}
	box.Dimensions.Content.Height = cursor
	box.calculateBlockHeight(ctx, cb)
}

// borderSpacing reads the cellspacing presentational attribute, falling
// back to the rendering default (CSS 2.1 §17.6.1).
func (box *LayoutBox) borderSpacing(ctx *layoutContext) float64 {
	if box.Node == dom.NoNode {
		return defaultBorderSpacing
	}
	if v, ok := ctx.arena.Node(box.Node).Attrs.Get("cellspacing"); ok {
		if s, err := strconv.ParseFloat(v, 64); err == nil && s >= 0 {
			return s
		}
	}
	return defaultBorderSpacing
}

// countTableColumns determines the table's column count from the widest
// row, counting colspan (CSS 2.1 §17.2.1).
func (box *LayoutBox) countTableColumns(ctx *layoutContext) int {
	maxColumns := 0
	for _, row := range box.Children {
		if row.BoxType != TableRowBox {
			continue
		}
		count := 0
		for _, cell := range row.Children {
			if cell.BoxType == TableCellBox {
				count += cellColspan(ctx, cell)
			}
		}
		if count > maxColumns {
			maxColumns = count
		}
	}
	if maxColumns == 0 {
		maxColumns = 1
	}
	return maxColumns
}

// cellColspan reads a cell's colspan attribute, clamped to the HTML cap.
func cellColspan(ctx *layoutContext, cell *LayoutBox) int {
	if cell.Node == dom.NoNode {
		return 1
	}
	v, ok := ctx.arena.Node(cell.Node).Attrs.Get("colspan")
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 1
	}
	if n > maxColspan {
		return maxColspan
	}
	return n
}

// tableColumnWidths estimates each column's minimum content width from
// single-column cells, then scales the columns up to fill the table
// width; when the estimates already exceed the table width they are
// used unscaled (an auto table layout in the spirit of CSS 2.1
// §17.5.2.2).
func (box *LayoutBox) tableColumnWidths(ctx *layoutContext, numColumns int, tableWidth float64) []float64 {
	minWidths := make([]float64, numColumns)
	for _, row := range box.Children {
		if row.BoxType != TableRowBox {
			continue
		}
		col := 0
		for _, cell := range row.Children {
			if cell.BoxType != TableCellBox {
				continue
			}
			span := cellColspan(ctx, cell)
			if span == 1 && col < numColumns {
				w := cell.preferredWidth(ctx)
				if w < minColumnWidth {
					w = minColumnWidth
				}
				if w > maxColumnWidth {
					w = maxColumnWidth
				}
				if w > minWidths[col] {
					minWidths[col] = w
				}
			}
			col += span
		}
	}

	total := 0.0
	for _, w := range minWidths {
		total += w
	}

	widths := make([]float64, numColumns)
	switch {
	case total == 0:
		for i := range widths {
			widths[i] = tableWidth / float64(numColumns)
		}
	case total <= tableWidth:
		scale := tableWidth / total
		for i, w := range minWidths {
			widths[i] = w * scale
		}
	default:
		copy(widths, minWidths)
	}
	return widths
}

// layoutTableRow lays out a row reached outside a table (a stray
// display:table-row); columns are derived from the row alone.
func (box *LayoutBox) layoutTableRow(ctx *layoutContext, cb Dimensions) {
	numColumns := 0
	for _, cell := range box.Children {
		if cell.BoxType == TableCellBox {
			numColumns += cellColspan(ctx, cell)
		}
	}
	if numColumns == 0 {
		numColumns = 1
	}
	widths := make([]float64, numColumns)
	for i := range widths {
		widths[i] = cb.Content.Width / float64(numColumns)
	}
	box.layoutRowWithColumns(ctx, cb, widths, 0)
}

// layoutRowWithColumns positions a row's cells left to right on the
// given column grid, separated by border-spacing, and sets the row
// height to the tallest cell (CSS 2.1 §17.5.3).
func (box *LayoutBox) layoutRowWithColumns(ctx *layoutContext, cb Dimensions, columnWidths []float64, spacing float64) {
	cs := box.Style
	fs := box.fontSizePx()
	box.Dimensions.Margin.Top, _ = resolveAutoZero(ctx, cs.MarginTop, fs, cb.Content.Width)
	box.Dimensions.Margin.Bottom, _ = resolveAutoZero(ctx, cs.MarginBottom, fs, cb.Content.Width)
	box.Dimensions.Padding.Top = ctx.resolveLength(cs.PaddingTop, fs, cb.Content.Width)
	box.Dimensions.Padding.Bottom = ctx.resolveLength(cs.PaddingBottom, fs, cb.Content.Width)
	box.Dimensions.Border.Top = ctx.borderWidth(cs.BorderTop, fs)
	box.Dimensions.Border.Bottom = ctx.borderWidth(cs.BorderBottom, fs)

	box.Dimensions.Content.X = cb.Content.X
	box.Dimensions.Content.Y = cb.Content.Y +
		box.Dimensions.Margin.Top + box.Dimensions.Border.Top + box.Dimensions.Padding.Top
	box.Dimensions.Content.Width = cb.Content.Width

	currentX := box.Dimensions.Content.X + spacing
	col := 0
	maxHeight := 0.0

	for _, cell := range box.Children {
		if cell.BoxType != TableCellBox {
			continue
		}
		span := cellColspan(ctx, cell)
		cellWidth := 0.0
		for i := 0; i < span && col+i < len(columnWidths); i++ {
			cellWidth += columnWidths[col+i]
		}
		cellCB := Dimensions{Content: Rect{
			X:     currentX,
			Y:     box.Dimensions.Content.Y,
			Width: cellWidth,
		}}
		cell.layoutTableCell(ctx, cellCB)
		currentX += cell.Dimensions.MarginBox().Width + spacing
		col += span
		if h := cell.Dimensions.MarginBox().Height; h > maxHeight {
			maxHeight = h
		}
	}

	box.Dimensions.Content.Height = maxHeight
	if h, auto := ctx.resolveAuto(cs.Height, fs, 0); !auto && h >= 0 {
		box.Dimensions.Content.Height = h
	}
}

// layoutTableCell lays out a cell as a block container sized to its
// column span, then applies the HTML align/valign presentational
// attributes to its content.
func (box *LayoutBox) layoutTableCell(ctx *layoutContext, cb Dimensions) {
	cs := box.Style
	fs := box.fontSizePx()
	cbW := cb.Content.Width

	pL := ctx.resolveLength(cs.PaddingLeft, fs, cbW)
	pR := ctx.resolveLength(cs.PaddingRight, fs, cbW)
	bL := ctx.borderWidth(cs.BorderLeft, fs)
	bR := ctx.borderWidth(cs.BorderRight, fs)

	width, auto := ctx.resolveAuto(cs.Width, fs, cbW)
	if auto {
		width = cbW
	}
	content := width - pL - pR - bL - bR
	if content < 0 {
		content = 0
	}

	box.Dimensions.Content.Width = content
	box.Dimensions.Padding.Left = pL
	box.Dimensions.Padding.Right = pR
	box.Dimensions.Border.Left = bL
	box.Dimensions.Border.Right = bR
	box.Dimensions.Margin.Top, _ = resolveAutoZero(ctx, cs.MarginTop, fs, cbW)
	box.Dimensions.Margin.Bottom, _ = resolveAutoZero(ctx, cs.MarginBottom, fs, cbW)
	box.Dimensions.Padding.Top = ctx.resolveLength(cs.PaddingTop, fs, cbW)
	box.Dimensions.Padding.Bottom = ctx.resolveLength(cs.PaddingBottom, fs, cbW)
	box.Dimensions.Border.Top = ctx.borderWidth(cs.BorderTop, fs)
	box.Dimensions.Border.Bottom = ctx.borderWidth(cs.BorderBottom, fs)

	box.Dimensions.Content.X = cb.Content.X + bL + pL
	box.Dimensions.Content.Y = cb.Content.Y +
		box.Dimensions.Margin.Top + box.Dimensions.Border.Top + box.Dimensions.Padding.Top

	box.layoutBlockChildren(ctx)

	if h, heightAuto := ctx.resolveAuto(cs.Height, fs, 0); !heightAuto && h >= 0 {
		box.Dimensions.Content.Height = h
	}

	if box.Node != dom.NoNode {
		n := ctx.arena.Node(box.Node)
		if align, ok := n.Attrs.Get("align"); ok {
			box.applyCellAlign(align)
		}
		if valign, ok := n.Attrs.Get("valign"); ok {
			box.applyCellValign(valign)
		}
	}
}

// applyCellAlign shifts the cell's children horizontally per the HTML
// align attribute (HTML 4.01 §11.3.2).
func (box *LayoutBox) applyCellAlign(align string) {
	if len(box.Children) == 0 && len(box.Lines) == 0 {
		return
	}
	used := 0.0
	for _, child := range box.Children {
		if w := child.Dimensions.MarginBox().Width; w > used {
			used = w
		}
	}
	for _, line := range box.Lines {
		if line.Rect.Width > used {
			used = line.Rect.Width
		}
	}
	available := box.Dimensions.Content.Width - used
	if available <= 0 {
		return
	}
	var offset float64
	switch strings.ToLower(strings.TrimSpace(align)) {
	case "right":
		offset = available
	case "center":
		offset = available / 2
	default:
		return
	}
	box.shiftContentX(offset)
}

// applyCellValign shifts the cell's children vertically per the HTML
// valign attribute (HTML 4.01 §11.3.2).
func (box *LayoutBox) applyCellValign(valign string) {
	used := 0.0
	for _, child := range box.Children {
		used += child.Dimensions.MarginBox().Height
	}
	for _, line := range box.Lines {
		used += line.Rect.Height
	}
	available := box.Dimensions.Content.Height - used
	if available <= 0 {
		return
	}
	var offset float64
	switch strings.ToLower(strings.TrimSpace(valign)) {
	case "bottom":
		offset = available
	case "middle":
		offset = available / 2
	default:
		return
	}
	box.shiftContentY(offset)
}

// shiftContentX moves the cell's children and lines without moving the
// cell box itself.
func (box *LayoutBox) shiftContentX(offset float64) {
	for _, child := range box.Children {
		child.shiftX(offset)
	}
	for i := range box.Lines {
		box.Lines[i].Rect.X += offset
		for j := range box.Lines[i].Fragments {
			box.Lines[i].Fragments[j].Rect.X += offset
		}
	}
}

// shiftContentY moves the cell's children and lines without moving the
// cell box itself.
func (box *LayoutBox) shiftContentY(offset float64) {
	for _, child := range box.Children {
		child.shiftY(offset)
	}
	for i := range box.Lines {
		box.Lines[i].Rect.Y += offset
		for j := range box.Lines[i].Fragments {
			box.Lines[i].Fragments[j].Rect.Y += offset
		}
	}
}
