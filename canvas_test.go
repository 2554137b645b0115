package main

import (
	"strings"
	"testing"

	"github.com/esuji5/uchiwa-generator/internal/render"
	"github.com/esuji5/uchiwa-generator/internal/scene"
)

func TestLayoutGrid(t *testing.T) {
	tests := []struct {
		name                   string
		width, height, reserve int
		want                   grid
	}{
		{"height bound", 100, 41, 1, grid{originX: 10, cols: 80, rows: 40}},
		{"width bound", 40, 60, 1, grid{originX: 0, cols: 40, rows: 20}},
		{"tiny", 0, 0, 1, grid{originX: 0, cols: 2, rows: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := layoutGrid(tt.width, tt.height, tt.reserve); got != tt.want {
				t.Errorf("layoutGrid() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGridMapping(t *testing.T) {
	g := layoutGrid(100, 41, 1)
	ux, uy, ok := g.toUnits(10, 0)
	if !ok || ux != 2.25 || uy != 4.5 {
		t.Errorf("toUnits(10, 0) = %v, %v, %v; want 2.25, 4.5, true", ux, uy, ok)
	}
	if _, _, ok := g.toUnits(9, 0); ok {
		t.Error("toUnits left of the canvas reported on-canvas")
	}
	if _, _, ok := g.toUnits(50, 40); ok {
		t.Error("toUnits below the canvas reported on-canvas")
	}
	if x, y := g.toCell(180, 180); x != 40 || y != 20 {
		t.Errorf("toCell(180, 180) = %d, %d; want 40, 20", x, y)
	}
	for _, p := range [][2]int{{10, 0}, {50, 20}, {89, 39}} {
		ux, uy, _ := g.toUnits(p[0], p[1])
		if x, y := g.toCell(ux, uy); x+g.originX != p[0] || y != p[1] {
			t.Errorf("cell %v maps back to %d, %d", p, x+g.originX, y)
		}
	}
}

func testScene() scene.Scene {
	return scene.Scene{
		Texts: []scene.TextItem{{
			ID: "t", Text: "AB", X: 180, Y: 180, Color: "#ffffff",
			FontSize: 40, OutlineType: scene.OutlineNone,
		}},
		Decorations: []scene.Decoration{{
			ID: "d", X: 90, Y: 90, Size: 32, Color: "#FFD600", Shape: scene.ShapeStar,
		}},
		Settings: scene.Settings{BackgroundColor: "#000000", FillMode: scene.FillRounded},
	}
}

func TestPaintCanvas(t *testing.T) {
	g := grid{cols: 80, rows: 40}
	cells := paintCanvas(g, render.Build(testScene(), false), "t")

	if c := cells[0][0]; c.bg != "" {
		t.Errorf("corner cell bg = %q, want none outside the rounded background", c.bg)
	}
	if c := cells[20][10]; c.bg != "#000000" {
		t.Errorf("interior cell bg = %q, want #000000", c.bg)
	}

	a, b := cells[20][39], cells[20][40]
	if a.r != 'A' || b.r != 'B' {
		t.Fatalf("text cells = %q%q, want AB centered on column 40", a.r, b.r)
	}
	if a.fg != "#ffffff" || !a.reverse {
		t.Errorf("text cell = %+v, want white and highlighted", a)
	}
	if !b.underline {
		t.Error("anchor handle not marked")
	}

	star := cells[10][20]
	if star.r != '★' || star.bg != "#ffd600" {
		t.Errorf("shape center = %+v, want ★ on #ffd600", star)
	}
	if c := cells[10][22]; c.bg != "#ffd600" {
		t.Errorf("shape body bg = %q, want #ffd600", c.bg)
	}
	if c := cells[9][21]; c.r != '×' {
		t.Errorf("delete button cell = %q, want ×", c.r)
	}

	exported := paintCanvas(g, render.Build(testScene(), true), "")
	if c := exported[9][21]; c.r == '×' {
		t.Error("delete button painted while exporting")
	}
	if exported[20][40].underline {
		t.Error("anchor handle painted while exporting")
	}
}

func TestPaintWideText(t *testing.T) {
	s := scene.Scene{
		Texts:    []scene.TextItem{{ID: "t", Text: "テキ", X: 180, Y: 180, Color: "#FF69B4", FontSize: 40, OutlineType: scene.OutlineBlackOverWhite}},
		Settings: scene.Settings{BackgroundColor: "#000000", FillMode: scene.FillNone},
	}
	cells := paintCanvas(grid{cols: 80, rows: 40}, render.Build(s, true), "")
	row := rowText(cells[20])
	if len([]rune(row)) != 78 || !strings.Contains(row, "テキ") {
		t.Errorf("row = %q, want テキ in 80 columns", row)
	}
	if c := cells[20][38]; c.r != 'テ' || c.bg != "#000000" {
		t.Errorf("glyph cell = %+v, want テ on the inner outline color", c)
	}
	if !cells[20][39].tail {
		t.Error("right half of a wide rune not marked")
	}
	if c := cells[0][0]; c.r != '·' {
		t.Errorf("fill none cell = %q, want ·", c.r)
	}
}

func TestSetSplitsWideRune(t *testing.T) {
	g := grid{cols: 6, rows: 1}
	p := &canvasPainter{g: g, cells: [][]cell{make([]cell, 6)}}
	for x := range p.cells[0] {
		p.cells[0][x] = cell{r: ' '}
	}
	p.set(1, 0, cell{r: 'テ'})
	p.set(2, 0, cell{r: 'x'})
	if got := rowText(p.cells[0]); got != "  x   " {
		t.Errorf("row = %q, want the cut rune blanked", got)
	}
}

func TestRenderCellsWidth(t *testing.T) {
	g := grid{cols: 20, rows: 10}
	lines := renderCells(paintCanvas(g, render.Build(testScene(), false), ""), 3)
	if len(lines) != 10 {
		t.Fatalf("got %d lines, want 10", len(lines))
	}
	for i, l := range lines {
		if !strings.HasPrefix(l, "   ") {
			t.Errorf("line %d not indented: %q", i, l)
		}
	}
}

func TestPaintOversizedShape(t *testing.T) {
	tests := []struct {
		name string
		op   render.ShapeOp
	}{
		{"huge", render.ShapeOp{ItemID: "d", Shape: scene.ShapeHeart, X: 180, Y: 180, Size: 2e9, Color: "#FF4081"}},
		{"off canvas", render.ShapeOp{ItemID: "d", Shape: scene.ShapeStar, X: -5000, Y: 9000, Size: 20000, Color: "#FFD600"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := grid{cols: 80, rows: 40}
			cells := paintCanvas(g, []render.Op{tt.op}, "")
			if len(cells) != g.rows || len(cells[0]) != g.cols {
				t.Fatalf("grid = %dx%d, want %dx%d", len(cells[0]), len(cells), g.cols, g.rows)
			}
		})
	}
	cells := paintCanvas(grid{cols: 80, rows: 40}, []render.Op{render.ShapeOp{Shape: scene.ShapeHeart, X: 180, Y: 180, Size: 2e9, Color: "#FF4081"}}, "")
	for _, p := range [][2]int{{0, 0}, {79, 39}, {40, 20}} {
		if c := cells[p[1]][p[0]]; c.bg != "#ff4081" {
			t.Errorf("cell %v bg = %q, want the shape color", p, c.bg)
		}
	}
}
