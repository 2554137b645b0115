package render

import (
	"fmt"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/esuji5/uchiwa-generator/internal/scene"
)

const clipID = "rounded-corners"

// WriteSVG writes the display list as a standalone 360×360 SVG document.
func WriteSVG(w io.Writer, ops []Op) {
	canvas := svg.New(w)
	canvas.Startview(Size, Size, 0, 0, Size, Size)
	for _, op := range ops {
		switch o := op.(type) {
		case BackgroundOp:
			svgBackground(canvas, o)
		case TextOp:
			svgText(canvas, o)
		case ShapeOp:
			svgShape(canvas, o)
		case HandleOp:
			canvas.Gtransform(rotate(o.Rotate, o.CX, o.CY))
			canvas.Gtransform(translate(o.X, o.Y))
			canvas.Circle(0, 0, HandleRadius, "fill:"+HandleFill+";stroke:"+HandleStroke+";stroke-width:1")
			canvas.Gend()
			canvas.Gend()
		case DeleteButtonOp:
			canvas.Gtransform(translate(o.X, o.Y))
			canvas.Circle(0, 0, DeleteRadius, "fill:"+DeleteFill+";stroke:"+DeleteStroke+";stroke-width:1")
			canvas.Text(0, 0, DeleteGlyph, "text-anchor:middle;dominant-baseline:central;font-size:14px;font-weight:bold;fill:"+DeleteColor)
			canvas.Gend()
		}
	}
	canvas.End()
}

func svgBackground(canvas *svg.SVG, o BackgroundOp) {
	switch o.Mode {
	case scene.FillAll:
		canvas.Rect(0, 0, Size, Size, "fill:"+styleValue.Replace(o.Color))
	case scene.FillRounded:
		canvas.Def()
		canvas.ClipPath(`id="` + clipID + `"`)
		canvas.Roundrect(0, 0, Size, Size, CornerRadius, CornerRadius)
		canvas.ClipEnd()
		canvas.DefEnd()
		canvas.Rect(0, 0, Size, Size, "fill:"+styleValue.Replace(o.Color), `clip-path="url(#`+clipID+`)"`)
		canvas.Roundrect(1, 1, Size-2, Size-2, CornerRadius, CornerRadius,
			fmt.Sprintf("fill:none;stroke:%s;stroke-width:%d", BorderColor, BorderWidth))
	}
}

// styleValue escapes a value for a double-quoted style attribute. Font
// families switch to single quotes; svgo writes any string holding "=" as a
// raw attribute, so that is escaped too.
var styleValue = strings.NewReplacer(`"`, "'", "&", "&amp;", "<", "&lt;", ">", "&gt;", "=", "&#61;")

func svgText(canvas *svg.SVG, o TextOp) {
	style := fmt.Sprintf("text-anchor:middle;dominant-baseline:middle;font-family:%s;font-size:%spx;font-weight:bold",
		styleValue.Replace(o.Font), num(o.FontSize))
	if o.Stroke != "" {
		style += fmt.Sprintf(";fill:none;stroke:%s;stroke-width:%s;stroke-linejoin:round;paint-order:stroke", styleValue.Replace(o.Stroke), num(o.StrokeWidth))
	} else {
		style += ";fill:" + styleValue.Replace(o.Fill)
	}
	canvas.Gtransform(rotate(o.Rotate, o.CX, o.CY))
	canvas.Gtransform(translate(o.X, o.Y))
	canvas.Text(0, 0, o.Line, style)
	canvas.Gend()
	canvas.Gend()
}

func svgShape(canvas *svg.SVG, o ShapeOp) {
	canvas.Gtransform(rotate(o.Rotate, o.X, o.Y))
	canvas.Gtransform(ShapeTransform(o.X, o.Y, o.Size))
	if d, ok := ShapePath(o.Shape); ok {
		canvas.Path(d, "fill:"+styleValue.Replace(o.Color))
	} else {
		canvas.Circle(ShapeBox/2, ShapeBox/2, ShapeBox/2, "fill:"+styleValue.Replace(o.Color))
	}
	canvas.Gend()
	canvas.Gend()
}

func rotate(deg, cx, cy float64) string {
	return fmt.Sprintf("rotate(%s,%s,%s)", num(deg), num(cx), num(cy))
}

func translate(x, y float64) string {
	return fmt.Sprintf("translate(%s,%s)", num(x), num(y))
}
