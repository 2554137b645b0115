// Package render draws a scene on the fixed 360×360 canvas.
//
// Build turns a scene into a display list, back to front: background, text
// passes, decorations, and the edit-only overlays. The SVG and raster
// backends both consume that list, so composition rules live in one place.
package render

import (
	"math"
	"regexp"

	"github.com/esuji5/uchiwa-generator/internal/scene"
)

const (
	Size = scene.CanvasSize

	CornerRadius = 40
	BorderColor  = "#333"
	BorderWidth  = 2

	OutlineWhite = "#fff"
	OutlineBlack = "#000"

	HandleRadius = 4
	HandleFill   = "rgba(255,0,0,0.5)"
	HandleStroke = "#fff"

	DeleteRadius = 10
	DeleteInset  = 8
	DeleteFill   = "#fff"
	DeleteStroke = "#888"
	DeleteGlyph  = "×"
	DeleteColor  = "#d00"
)

type Op interface{ op() }

// BackgroundOp fills the canvas according to the fill mode.
type BackgroundOp struct {
	Mode  scene.FillMode
	Color string
}

// TextOp is one pass of one line of a text item. A pass either strokes the
// glyph outlines or fills them.
type TextOp struct {
	ItemID      string
	Line        string
	X, Y        float64
	Font        string
	FontSize    float64
	Fill        string
	Stroke      string
	StrokeWidth float64
	// Rotate is in degrees about the item's anchor (CX, CY).
	Rotate, CX, CY float64
}

// ShapeOp draws one decoration glyph centered on (X, Y).
type ShapeOp struct {
	ItemID string
	Shape  scene.Shape
	X, Y   float64
	Size   float64
	Rotate float64
	Color  string
}

// HandleOp marks a text item's anchor. Edit-only.
type HandleOp struct {
	ItemID         string
	X, Y           float64
	Rotate, CX, CY float64
}

// DeleteButtonOp is a decoration's delete affordance. Edit-only.
type DeleteButtonOp struct {
	ItemID string
	X, Y   float64
}

func (BackgroundOp) op()   {}
func (TextOp) op()         {}
func (ShapeOp) op()        {}
func (HandleOp) op()       {}
func (DeleteButtonOp) op() {}

// OuterStrokeWidth and InnerStrokeWidth size the two outline passes.
func OuterStrokeWidth(fontSize float64) float64 { return math.Max(16, fontSize/3.5) }

func InnerStrokeWidth(fontSize float64) float64 { return math.Max(10, fontSize/6) }

var lineBreak = regexp.MustCompile(`\r?\n`)

// Lines splits item text into its rendered lines.
func Lines(text string) []string { return lineBreak.Split(text, -1) }

// LineY returns the baseline-middle of line i of n, centering the block on y.
func LineY(y, fontSize float64, i, n int) float64 {
	return y + (float64(i)-float64(n-1)/2)*fontSize
}

type strokePass struct {
	color string
	width float64
}

// outlinePasses returns the stroke passes, outer first, for an outline type.
func outlinePasses(o scene.OutlineType, fontSize float64) []strokePass {
	outer, inner := OuterStrokeWidth(fontSize), InnerStrokeWidth(fontSize)
	switch o {
	case scene.OutlineBlackOverWhite:
		return []strokePass{{OutlineWhite, outer}, {OutlineBlack, inner}}
	case scene.OutlineWhiteOverBlack:
		return []strokePass{{OutlineBlack, outer}, {OutlineWhite, inner}}
	}
	return nil
}

func textOps(t scene.TextItem) []Op {
	lines := Lines(t.Text)
	var ops []Op
	for i, line := range lines {
		base := TextOp{
			ItemID:   t.ID,
			Line:     line,
			X:        t.X,
			Y:        LineY(t.Y, t.FontSize, i, len(lines)),
			Font:     t.Font,
			FontSize: t.FontSize,
			Rotate:   t.Rotate,
			CX:       t.X,
			CY:       t.Y,
		}
		for _, p := range outlinePasses(t.OutlineType, t.FontSize) {
			pass := base
			pass.Stroke = p.color
			pass.StrokeWidth = p.width
			ops = append(ops, pass)
		}
		body := base
		body.Fill = t.Color
		ops = append(ops, body)
	}
	return ops
}

// Build returns the display list for s. While exporting, the anchor handles
// and delete buttons are left out.
func Build(s scene.Scene, exporting bool) []Op {
	ops := []Op{BackgroundOp{Mode: s.Settings.FillMode, Color: s.Settings.BackgroundColor}}
	for _, t := range s.Texts {
		ops = append(ops, textOps(t)...)
		if !exporting {
			ops = append(ops, HandleOp{ItemID: t.ID, X: t.X, Y: t.Y, Rotate: t.Rotate, CX: t.X, CY: t.Y})
		}
	}
	for _, d := range s.Decorations {
		ops = append(ops, ShapeOp{ItemID: d.ID, Shape: d.Shape, X: d.X, Y: d.Y, Size: d.Size, Rotate: d.Rotate, Color: d.Color})
		if !exporting {
			ops = append(ops, DeleteButtonOp{
				ItemID: d.ID,
				X:      d.X + d.Size/2 - DeleteInset,
				Y:      d.Y - d.Size/2 + DeleteInset,
			})
		}
	}
	return ops
}
