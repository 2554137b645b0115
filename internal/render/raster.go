package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/esuji5/uchiwa-generator/internal/scene"
)

// Faces resolves a font-family list to a face of the given pixel size.
type Faces interface {
	Face(family string, size float64) font.Face
}

type RasterOptions struct {
	Width, Height int
	// Background is composited before anything else when set.
	Background color.Color
}

// Rasterizer draws display lists into bitmaps.
type Rasterizer struct {
	faces Faces
}

// NewRasterizer returns a rasterizer drawing text with faces. With nil faces
// every string is drawn in a fixed bitmap face.
func NewRasterizer(faces Faces) *Rasterizer {
	return &Rasterizer{faces: faces}
}

func (r *Rasterizer) face(family string, size float64) font.Face {
	if r.faces != nil {
		if f := r.faces.Face(family, size); f != nil {
			return f
		}
	}
	return basicfont.Face7x13
}

// Rasterize draws ops into a new bitmap. The 360-unit canvas is scaled to
// the requested size.
func (r *Rasterizer) Rasterize(ops []Op, opt RasterOptions) (img *image.RGBA, err error) {
	defer func() {
		if p := recover(); p != nil {
			img, err = nil, fmt.Errorf("rasterize: %v", p)
		}
	}()
	w, h := opt.Width, opt.Height
	if w <= 0 || h <= 0 {
		w, h = Size, Size
	}
	dc := gg.NewContext(w, h)
	if opt.Background != nil {
		dc.SetColor(opt.Background)
		dc.Clear()
	}
	sx, sy := float64(w)/Size, float64(h)/Size
	dc.Scale(sx, sy)
	for _, op := range ops {
		switch o := op.(type) {
		case BackgroundOp:
			drawBackground(dc, o)
		case TextOp:
			r.drawText(dc, o, sx, sy)
		case ShapeOp:
			drawShape(dc, o)
		case HandleOp:
			dc.Push()
			dc.RotateAbout(gg.Radians(o.Rotate), o.CX, o.CY)
			dc.DrawCircle(o.X, o.Y, HandleRadius)
			dc.SetColor(MustColor(HandleFill))
			dc.FillPreserve()
			dc.SetColor(MustColor(HandleStroke))
			dc.SetLineWidth(1)
			dc.Stroke()
			dc.Pop()
		case DeleteButtonOp:
			dc.DrawCircle(o.X, o.Y, DeleteRadius)
			dc.SetColor(MustColor(DeleteFill))
			dc.FillPreserve()
			dc.SetColor(MustColor(DeleteStroke))
			dc.SetLineWidth(1)
			dc.Stroke()
			dc.SetFontFace(r.face("sans-serif", 14))
			dc.SetColor(MustColor(DeleteColor))
			dc.DrawStringAnchored(DeleteGlyph, o.X, o.Y, 0.5, 0.35)
		}
	}
	return dc.Image().(*image.RGBA), nil
}

func drawBackground(dc *gg.Context, o BackgroundOp) {
	c, err := scene.ParseColor(o.Color)
	if err != nil {
		return
	}
	switch o.Mode {
	case scene.FillAll:
		dc.DrawRectangle(0, 0, Size, Size)
		dc.SetColor(c)
		dc.Fill()
	case scene.FillRounded:
		dc.DrawRoundedRectangle(0, 0, Size, Size, CornerRadius)
		dc.SetColor(c)
		dc.Fill()
		dc.DrawRoundedRectangle(1, 1, Size-2, Size-2, CornerRadius)
		dc.SetColor(MustColor(BorderColor))
		dc.SetLineWidth(BorderWidth)
		dc.Stroke()
	}
}

func drawShape(dc *gg.Context, o ShapeOp) {
	c, err := scene.ParseColor(o.Color)
	if err != nil {
		return
	}
	dc.Push()
	defer dc.Pop()
	dc.RotateAbout(gg.Radians(o.Rotate), o.X, o.Y)
	dc.Translate(o.X-o.Size/2, o.Y-o.Size/2)
	dc.Scale(o.Size/ShapeBox, o.Size/ShapeBox)
	if segs := ShapeSegments(o.Shape); segs != nil {
		tracePath(dc, segs)
	} else {
		dc.DrawCircle(ShapeBox/2, ShapeBox/2, ShapeBox/2)
	}
	dc.SetColor(c)
	dc.Fill()
}

func tracePath(dc *gg.Context, segs []Segment) {
	for _, s := range segs {
		switch s.Kind {
		case SegMove:
			dc.MoveTo(s.P[0][0], s.P[0][1])
		case SegLine:
			dc.LineTo(s.P[0][0], s.P[0][1])
		case SegCubic:
			dc.CubicTo(s.P[0][0], s.P[0][1], s.P[1][0], s.P[1][1], s.P[2][0], s.P[2][1])
		case SegClose:
			dc.ClosePath()
		}
	}
}

// placeText applies a text op's transform and face to dc.
func (r *Rasterizer) placeText(dc *gg.Context, o TextOp) {
	dc.RotateAbout(gg.Radians(o.Rotate), o.CX, o.CY)
	dc.SetFontFace(r.face(o.Font, o.FontSize))
}

func (r *Rasterizer) drawText(dc *gg.Context, o TextOp, sx, sy float64) {
	if o.Line == "" {
		return
	}
	if o.Stroke == "" {
		c, err := scene.ParseColor(o.Fill)
		if err != nil {
			return
		}
		dc.Push()
		r.placeText(dc, o)
		dc.SetColor(c)
		dc.DrawStringAnchored(o.Line, o.X, o.Y, 0.5, 0.5)
		dc.Pop()
		return
	}
	c, err := scene.ParseColor(o.Stroke)
	if err != nil {
		return
	}
	// gg cannot stroke glyphs, so the outline is the glyph mask grown by half
	// the stroke width.
	glyphs := gg.NewContext(dc.Width(), dc.Height())
	glyphs.Scale(sx, sy)
	r.placeText(glyphs, o)
	glyphs.SetColor(color.White)
	glyphs.DrawStringAnchored(o.Line, o.X, o.Y, 0.5, 0.5)
	cover := dilate(glyphs.Image().(*image.RGBA), o.StrokeWidth/2*max(sx, sy))
	dst := dc.Image().(*image.RGBA)
	draw.DrawMask(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, cover, image.Point{}, draw.Over)
}
