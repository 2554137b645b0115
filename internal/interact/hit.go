package interact

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/esuji5/uchiwa-generator/internal/scene"
)

// HitRect is an axis-aligned rectangle centered on (CX, CY).
type HitRect struct {
	CX, CY, HalfW, HalfH float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return math.Abs(x-r.CX) <= r.HalfW && math.Abs(y-r.CY) <= r.HalfH
}

// HitCircle is a circular hit area.
type HitCircle struct {
	CX, CY, R float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx, dy := x-c.CX, y-c.CY
	return dx*dx+dy*dy <= c.R*c.R
}

const (
	deleteButtonRadius = 10
	deleteButtonInset  = 8
	minTextHalfExtent  = 8
)

// DeleteButton is the hit area of a decoration's delete affordance, near its
// top-right corner.
func DeleteButton(d scene.Decoration) HitCircle {
	return HitCircle{
		CX: d.X + d.Size/2 - deleteButtonInset,
		CY: d.Y - d.Size/2 + deleteButtonInset,
		R:  deleteButtonRadius,
	}
}

// TextBounds estimates the unrotated box of a text item around its anchor.
// A full-width glyph is taken as one em, a half-width glyph as half.
func TextBounds(t scene.TextItem) HitRect {
	lines := strings.Split(strings.ReplaceAll(t.Text, "\r\n", "\n"), "\n")
	cells := 0
	for _, l := range lines {
		cells = max(cells, runewidth.StringWidth(l))
	}
	return HitRect{
		CX:    t.X,
		CY:    t.Y,
		HalfW: max(float64(cells)*t.FontSize/4, minTextHalfExtent),
		HalfH: max(float64(len(lines))*t.FontSize/2, minTextHalfExtent),
	}
}

// rotateAbout rotates (x, y) by deg degrees around (cx, cy).
func rotateAbout(x, y, cx, cy, deg float64) (float64, float64) {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	dx, dy := x-cx, y-cy
	return cx + dx*cos - dy*sin, cy + dx*sin + dy*cos
}

type HitKind int

const (
	HitNone HitKind = iota
	HitText
	HitDecoration
	HitDeleteButton
)

type Hit struct {
	Kind HitKind
	ID   string
}

// Target converts a text or decoration hit into a drag target.
func (h Hit) Target() (Target, bool) {
	switch h.Kind {
	case HitText:
		return Target{Kind: KindText, ID: h.ID}, true
	case HitDecoration:
		return Target{Kind: KindDecoration, ID: h.ID}, true
	}
	return Target{}, false
}

// HitTest finds the topmost item under (x, y). Decorations are drawn above
// text and the last item of a collection above the earlier ones. Delete
// affordances only exist while not exporting.
func HitTest(s scene.Scene, x, y float64, exporting bool) Hit {
	for i := len(s.Decorations) - 1; i >= 0; i-- {
		d := s.Decorations[i]
		if !exporting && DeleteButton(d).Contains(x, y) {
			return Hit{Kind: HitDeleteButton, ID: d.ID}
		}
		if (HitCircle{CX: d.X, CY: d.Y, R: d.Size / 2}).Contains(x, y) {
			return Hit{Kind: HitDecoration, ID: d.ID}
		}
	}
	for i := len(s.Texts) - 1; i >= 0; i-- {
		t := s.Texts[i]
		lx, ly := rotateAbout(x, y, t.X, t.Y, -t.Rotate)
		if TextBounds(t).Contains(lx, ly) {
			return Hit{Kind: HitText, ID: t.ID}
		}
	}
	return Hit{}
}
