package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/esuji5/uchiwa-generator/internal/render"
	"github.com/esuji5/uchiwa-generator/internal/scene"
)

// cell is one terminal cell of the canvas view.
type cell struct {
	r         rune
	fg, bg    string
	bold      bool
	reverse   bool
	underline bool
	// tail marks the right half of a double-width rune.
	tail bool
}

// grid maps the 360×360 canvas onto a block of terminal cells. A cell is
// about twice as tall as it is wide, so the block has twice as many columns
// as rows.
type grid struct {
	originX, originY int
	cols, rows       int
}

func layoutGrid(width, height, reserved int) grid {
	rows := max(1, min(height-reserved, width/2))
	cols := rows * 2
	return grid{originX: max(0, (width-cols)/2), cols: cols, rows: rows}
}

// toUnits converts a screen position to canvas units, reporting whether it
// falls on the canvas.
func (g grid) toUnits(x, y int) (float64, float64, bool) {
	cx, cy := x-g.originX, y-g.originY
	ux := (float64(cx) + 0.5) * render.Size / float64(g.cols)
	uy := (float64(cy) + 0.5) * render.Size / float64(g.rows)
	return ux, uy, cx >= 0 && cx < g.cols && cy >= 0 && cy < g.rows
}

// toCell converts canvas units to a cell position, which may lie outside
// the grid.
func (g grid) toCell(ux, uy float64) (int, int) {
	return int(math.Floor(ux * float64(g.cols) / render.Size)), int(math.Floor(uy * float64(g.rows) / render.Size))
}

func (g grid) inside(x, y int) bool { return x >= 0 && x < g.cols && y >= 0 && y < g.rows }

// termColor turns an item color into a hex string lipgloss understands.
// Transparent and unparsable colors come back empty.
func termColor(s string) string {
	c, err := scene.ParseColor(s)
	if err != nil || c.A == 0 {
		return ""
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return ""
	}
	return cc.Hex()
}

func rotateAbout(x, y, cx, cy, deg float64) (float64, float64) {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	dx, dy := x-cx, y-cy
	return cx + dx*cos - dy*sin, cy + dx*sin + dy*cos
}

var shapeGlyphs = map[scene.Shape]rune{
	scene.ShapeHeart:   '♥',
	scene.ShapeStar:    '★',
	scene.ShapeNote:    '♪',
	scene.ShapeSparkle: '✦',
	scene.ShapeCircle:  '●',
}

// canvasPainter paints a display list into cells. Text is drawn upright at
// its rotated anchor; the terminal cannot rotate glyphs.
type canvasPainter struct {
	g        grid
	cells    [][]cell
	selected string
	stroke   string
}

func paintCanvas(g grid, ops []render.Op, selectedID string) [][]cell {
	p := &canvasPainter{g: g, selected: selectedID}
	p.cells = make([][]cell, g.rows)
	for y := range p.cells {
		p.cells[y] = make([]cell, g.cols)
		for x := range p.cells[y] {
			p.cells[y][x] = cell{r: ' '}
		}
	}
	for _, op := range ops {
		switch op := op.(type) {
		case render.BackgroundOp:
			p.background(op)
		case render.TextOp:
			p.text(op)
		case render.ShapeOp:
			p.shape(op)
		case render.HandleOp:
			p.handle(op)
		case render.DeleteButtonOp:
			p.deleteButton(op)
		}
	}
	return p.cells
}

func insideRounded(x, y float64) bool {
	const r = render.CornerRadius
	cx := max(r, min(x, render.Size-r))
	cy := max(r, min(y, render.Size-r))
	return x >= 0 && y >= 0 && x <= render.Size && y <= render.Size && math.Hypot(x-cx, y-cy) <= r
}

func (p *canvasPainter) background(op render.BackgroundOp) {
	bg := termColor(op.Color)
	for y, row := range p.cells {
		for x := range row {
			ux, uy, _ := p.g.toUnits(x+p.g.originX, y+p.g.originY)
			switch {
			case op.Mode == scene.FillAll, op.Mode == scene.FillRounded && insideRounded(ux, uy):
				row[x].bg = bg
			case op.Mode == scene.FillNone:
				row[x] = cell{r: '·', fg: "#444444"}
			}
		}
	}
}

// set writes r at (x, y), clearing any double-width rune it cuts in half.
func (p *canvasPainter) set(x, y int, c cell) {
	if !p.g.inside(x, y) {
		return
	}
	row := p.cells[y]
	if row[x].tail && x > 0 {
		row[x-1].r = ' '
	}
	if x+1 < len(row) && row[x+1].tail {
		row[x+1] = cell{r: ' ', bg: row[x+1].bg}
	}
	row[x] = c
	if runewidth.RuneWidth(c.r) == 2 && x+1 < len(row) {
		if x+2 < len(row) && row[x+2].tail {
			row[x+2] = cell{r: ' ', bg: row[x+2].bg}
		}
		row[x+1] = cell{tail: true, bg: c.bg}
	}
}

func (p *canvasPainter) text(op render.TextOp) {
	if op.Fill == "" {
		// Outline passes come first; the last one sits right behind the
		// glyphs and becomes their cell background.
		p.stroke = termColor(op.Stroke)
		return
	}
	stroke := p.stroke
	p.stroke = ""

	ax, ay := rotateAbout(op.X, op.Y, op.CX, op.CY, op.Rotate)
	cx, cy := p.g.toCell(ax, ay)
	x := cx - runewidth.StringWidth(op.Line)/2
	fg := termColor(op.Fill)
	for _, r := range op.Line {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if p.g.inside(x, cy) {
			bg := stroke
			if bg == "" {
				bg = p.cells[cy][x].bg
			}
			p.set(x, cy, cell{r: r, fg: fg, bg: bg, bold: true, reverse: op.ItemID == p.selected})
		}
		x += w
	}
}

func (p *canvasPainter) shape(op render.ShapeOp) {
	color := termColor(op.Color)
	cx, cy := p.g.toCell(op.X, op.Y)
	rx := op.Size / 2 * float64(p.g.cols) / render.Size
	ry := op.Size / 2 * float64(p.g.rows) / render.Size
	if rx >= 1 && ry >= 1 {
		for y := max(0, cy-int(ry)); y <= min(p.g.rows-1, cy+int(ry)); y++ {
			for x := max(0, cx-int(rx)); x <= min(p.g.cols-1, cx+int(rx)); x++ {
				dx, dy := float64(x-cx)/rx, float64(y-cy)/ry
				if dx*dx+dy*dy <= 1 {
					p.set(x, y, cell{r: ' ', bg: color})
				}
			}
		}
	}
	glyph, ok := shapeGlyphs[op.Shape]
	if !ok {
		glyph = '♥'
	}
	c := cell{r: glyph, fg: color, bold: true, reverse: op.ItemID == p.selected}
	if rx >= 1 && ry >= 1 {
		c.fg, c.bg = "#ffffff", color
	}
	p.set(cx, cy, c)
}

func (p *canvasPainter) handle(op render.HandleOp) {
	ax, ay := rotateAbout(op.X, op.Y, op.CX, op.CY, op.Rotate)
	x, y := p.g.toCell(ax, ay)
	if !p.g.inside(x, y) {
		return
	}
	c := &p.cells[y][x]
	if c.tail && x > 0 {
		c = &p.cells[y][x-1]
	}
	if c.r == ' ' || c.r == '·' {
		c.r, c.fg = '+', "#ff0000"
	}
	c.underline = true
}

func (p *canvasPainter) deleteButton(op render.DeleteButtonOp) {
	x, y := p.g.toCell(op.X, op.Y)
	p.set(x, y, cell{r: []rune(render.DeleteGlyph)[0], fg: termColor(render.DeleteColor), bg: termColor(render.DeleteFill), bold: true})
}

func (c cell) style() lipgloss.Style {
	s := lipgloss.NewStyle().Bold(c.bold).Reverse(c.reverse).Underline(c.underline)
	if c.fg != "" {
		s = s.Foreground(lipgloss.Color(c.fg))
	}
	if c.bg != "" {
		s = s.Background(lipgloss.Color(c.bg))
	}
	return s
}

func sameStyle(a, b cell) bool {
	return a.fg == b.fg && a.bg == b.bg && a.bold == b.bold && a.reverse == b.reverse && a.underline == b.underline
}

// rowText returns the characters of a row, one column per cell.
func rowText(row []cell) string {
	var b strings.Builder
	for x := 0; x < len(row); x++ {
		c := row[x]
		switch {
		case c.tail:
			b.WriteByte(' ')
		case runewidth.RuneWidth(c.r) == 2:
			if x+1 < len(row) && row[x+1].tail {
				b.WriteRune(c.r)
				x++
			} else {
				b.WriteByte(' ')
			}
		default:
			b.WriteRune(c.r)
		}
	}
	return b.String()
}

// renderCells styles each row, grouping runs of cells that share a style.
func renderCells(cells [][]cell, indent int) []string {
	pad := strings.Repeat(" ", indent)
	lines := make([]string, len(cells))
	for y, row := range cells {
		var b strings.Builder
		b.WriteString(pad)
		for start := 0; start < len(row); {
			end := start + 1
			for end < len(row) && (row[end].tail || sameStyle(row[start], row[end])) {
				end++
			}
			// keep a wide rune together with its tail
			for end < len(row) && row[end].tail {
				end++
			}
			b.WriteString(row[start].style().Render(rowText(row[start:end])))
			start = end
		}
		lines[y] = b.String()
	}
	return lines
}
