package render

import (
	"fmt"
	"strconv"

	"github.com/esuji5/uchiwa-generator/internal/scene"
)

// ShapeBox is the side of the square the shape paths are drawn in.
const ShapeBox = 24

var shapePaths = map[scene.Shape]string{
	scene.ShapeHeart:   "M12 21.35l-1.45-1.32C5.4 15.36 2 12.28 2 8.5 2 5.42 4.42 3 7.5 3c1.74 0 3.41 0.81 4.5 2.09C13.09 3.81 14.76 3 16.5 3 19.58 3 22 5.42 22 8.5c0 3.78-3.4 6.86-8.55 11.54L12 21.35z",
	scene.ShapeStar:    "M12 2l3.09 6.26L22 9.27l-5 4.87L18.18 22 12 18.27 5.82 22 7 14.14l-5-4.87 6.91-1.01z",
	scene.ShapeNote:    "M12 3v10.55A4 4 0 1 0 14 17V7h4V3h-6z",
	scene.ShapeSparkle: "M12 2l2 7h7l-5.5 4 2 7-5.5-4-5.5 4 2-7L3 9h7z",
}

// ShapePath returns the SVG path data of a shape. Circles have no path and
// are drawn as a circle of diameter Size.
func ShapePath(s scene.Shape) (string, bool) {
	d, ok := shapePaths[s]
	return d, ok
}

// ShapeTransform is the SVG transform placing a ShapeBox path centered on
// (x, y) at the given size.
func ShapeTransform(x, y, size float64) string {
	return fmt.Sprintf("translate(%s,%s) scale(%s)", num(x-size/2), num(y-size/2), num(size/ShapeBox))
}

type SegKind int

const (
	SegMove SegKind = iota
	SegLine
	SegCubic
	SegClose
)

// Segment is one absolute path command. Lines and moves use P[0]; cubics use
// P[0] and P[1] as control points and P[2] as the end point.
type Segment struct {
	Kind SegKind
	P    [3][2]float64
}

// shapeOutlines are the shapePaths in absolute form, with the note's arc
// as cubics, for the rasterizer.
var shapeOutlines = map[scene.Shape][]Segment{
	scene.ShapeHeart: {
		{Kind: SegMove, P: [3][2]float64{{12, 21.35}}},
		{Kind: SegLine, P: [3][2]float64{{10.55, 20.03}}},
		{Kind: SegCubic, P: [3][2]float64{{5.4, 15.36}, {2, 12.28}, {2, 8.5}}},
		{Kind: SegCubic, P: [3][2]float64{{2, 5.42}, {4.42, 3}, {7.5, 3}}},
		{Kind: SegCubic, P: [3][2]float64{{9.24, 3}, {10.91, 3.81}, {12, 5.09}}},
		{Kind: SegCubic, P: [3][2]float64{{13.09, 3.81}, {14.76, 3}, {16.5, 3}}},
		{Kind: SegCubic, P: [3][2]float64{{19.58, 3}, {22, 5.42}, {22, 8.5}}},
		{Kind: SegCubic, P: [3][2]float64{{22, 12.28}, {18.6, 15.36}, {13.45, 20.04}}},
		{Kind: SegLine, P: [3][2]float64{{12, 21.35}}},
		{Kind: SegClose},
	},
	scene.ShapeStar: {
		{Kind: SegMove, P: [3][2]float64{{12, 2}}},
		{Kind: SegLine, P: [3][2]float64{{15.09, 8.26}}},
		{Kind: SegLine, P: [3][2]float64{{22, 9.27}}},
		{Kind: SegLine, P: [3][2]float64{{17, 14.14}}},
		{Kind: SegLine, P: [3][2]float64{{18.18, 22}}},
		{Kind: SegLine, P: [3][2]float64{{12, 18.27}}},
		{Kind: SegLine, P: [3][2]float64{{5.82, 22}}},
		{Kind: SegLine, P: [3][2]float64{{7, 14.14}}},
		{Kind: SegLine, P: [3][2]float64{{2, 9.27}}},
		{Kind: SegLine, P: [3][2]float64{{8.91, 8.26}}},
		{Kind: SegClose},
	},
	scene.ShapeNote: {
		{Kind: SegMove, P: [3][2]float64{{12, 3}}},
		{Kind: SegLine, P: [3][2]float64{{12, 13.55}}},
		{Kind: SegCubic, P: [3][2]float64{{10.431, 12.6441}, {8.449, 12.906}, {7.1691, 14.1882}}},
		{Kind: SegCubic, P: [3][2]float64{{5.8891, 15.4704}, {5.6308, 17.4528}, {6.5395, 19.0202}}},
		{Kind: SegCubic, P: [3][2]float64{{7.4481, 20.5876}, {9.2968, 21.3486}, {11.0455, 20.8751}}},
		{Kind: SegCubic, P: [3][2]float64{{12.7943, 20.4015}, {14.0064, 18.8117}, {14, 17}}},
		{Kind: SegLine, P: [3][2]float64{{14, 7}}},
		{Kind: SegLine, P: [3][2]float64{{18, 7}}},
		{Kind: SegLine, P: [3][2]float64{{18, 3}}},
		{Kind: SegLine, P: [3][2]float64{{12, 3}}},
		{Kind: SegClose},
	},
	scene.ShapeSparkle: {
		{Kind: SegMove, P: [3][2]float64{{12, 2}}},
		{Kind: SegLine, P: [3][2]float64{{14, 9}}},
		{Kind: SegLine, P: [3][2]float64{{21, 9}}},
		{Kind: SegLine, P: [3][2]float64{{15.5, 13}}},
		{Kind: SegLine, P: [3][2]float64{{17.5, 20}}},
		{Kind: SegLine, P: [3][2]float64{{12, 16}}},
		{Kind: SegLine, P: [3][2]float64{{6.5, 20}}},
		{Kind: SegLine, P: [3][2]float64{{8.5, 13}}},
		{Kind: SegLine, P: [3][2]float64{{3, 9}}},
		{Kind: SegLine, P: [3][2]float64{{10, 9}}},
		{Kind: SegClose},
	},

}

// ShapeSegments returns the outline of a shape in ShapeBox units, or nil for
// circles.
func ShapeSegments(s scene.Shape) []Segment { return shapeOutlines[s] }

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
