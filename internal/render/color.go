package render

import (
	"image/color"

	"github.com/esuji5/uchiwa-generator/internal/scene"
)

// MustColor is scene.ParseColor for colors that have already been validated;
// bad input renders transparent.
func MustColor(s string) color.NRGBA {
	c, _ := scene.ParseColor(s)
	return c
}
