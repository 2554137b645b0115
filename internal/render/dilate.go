package render

import (
	"image"
	"math"
)

// far stands in for infinity in squared distances; real infinities would
// turn the parabola intersections into NaN.
const far = 1e20

// dilate returns the coverage of every pixel within r of an inked pixel of
// src, with a one-pixel antialiased rim. Distances come from an exact
// Euclidean distance transform, so the result matches a round-joined stroke
// of width 2r around the glyph outlines.
func dilate(src *image.RGBA, r float64) *image.Alpha {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dist := make([]float64, w*h)
	for y := range h {
		for x := range w {
			if src.Pix[src.PixOffset(b.Min.X+x, b.Min.Y+y)+3] >= 0x80 {
				dist[y*w+x] = 0
			} else {
				dist[y*w+x] = far
			}
		}
	}

	n := max(w, h)
	f, d := make([]float64, n), make([]float64, n)
	v, z := make([]int, n), make([]float64, n+1)
	for x := range w {
		for y := range h {
			f[y] = dist[y*w+x]
		}
		transform1D(f[:h], d[:h], v, z)
		for y := range h {
			dist[y*w+x] = d[y]
		}
	}
	for y := range h {
		row := dist[y*w : (y+1)*w]
		copy(f, row)
		transform1D(f[:w], d[:w], v, z)
		copy(row, d[:w])
	}

	out := image.NewAlpha(b)
	for y := range h {
		for x := range w {
			cov := math.Min(math.Max(r+0.5-math.Sqrt(dist[y*w+x]), 0), 1)
			a := max(uint8(cov*0xff), src.Pix[src.PixOffset(b.Min.X+x, b.Min.Y+y)+3])
			out.Pix[out.PixOffset(b.Min.X+x, b.Min.Y+y)] = a
		}
	}
	return out
}

// transform1D is the lower envelope of parabolas rooted at f, after
// Felzenszwalb and Huttenlocher. d receives the squared distances.
func transform1D(f, d []float64, v []int, z []float64) {
	n := len(f)
	if n == 0 {
		return
	}
	k := 0
	v[0] = 0
	z[0], z[1] = -far, far
	meet := func(q, p int) float64 {
		return ((f[q] + float64(q*q)) - (f[p] + float64(p*p))) / float64(2*q-2*p)
	}
	for q := 1; q < n; q++ {
		s := meet(q, v[k])
		for s <= z[k] {
			k--
			s = meet(q, v[k])
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = far
	}
	k = 0
	for q := range n {
		for z[k+1] < float64(q) {
			k++
		}
		dq := q - v[k]
		d[q] = float64(dq*dq) + f[v[k]]
	}
}
