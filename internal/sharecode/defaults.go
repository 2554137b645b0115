package sharecode

import (
	"github.com/google/uuid"

	"github.com/esuji5/uchiwa-generator/internal/scene"
)

// FieldDefaults holds the fallback for every optional field of a token.
// Decoding applies it to each item; no other code path invents defaults.
type FieldDefaults struct {
	Text        string
	TextX       float64
	TextY       float64
	TextColor   string
	FontSize    float64
	Font        string
	TextRotate  float64
	OutlineType scene.OutlineType

	DecoX      float64
	DecoY      float64
	DecoColor  string
	DecoSize   float64
	DecoRotate float64
	Shape      scene.Shape

	Background string
	FillMode   scene.FillMode

	// MaxDecorations caps the decoded decoration list.
	MaxDecorations int
}

// Defaults is the table used by Decode.
var Defaults = FieldDefaults{
	TextX:       scene.CenterX,
	TextY:       scene.CenterY,
	TextColor:   scene.DefaultTextColor,
	FontSize:    scene.DefaultFontSize,
	Font:        scene.DefaultFont,
	OutlineType: scene.OutlineBlackOverWhite,

	DecoX:     scene.CenterX,
	DecoY:     scene.CenterY,
	DecoColor: scene.DefaultDecoColor,
	DecoSize:  scene.DefaultDecoSize,
	Shape:     scene.ShapeHeart,

	Background: scene.DefaultBackground,
	FillMode:   scene.DefaultFillMode,

	MaxDecorations: scene.MaxDecorations,
}

func or[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

// color is or for color fields: values that do not parse fall back to def.
func color(p *string, def string) string {
	if p == nil {
		return def
	}
	if _, err := scene.ParseColor(*p); err != nil {
		return def
	}
	return *p
}

func (d FieldDefaults) text(w wireText) scene.TextItem {
	outline := scene.OutlineType(or(w.O, string(d.OutlineType)))
	if !outline.Valid() {
		outline = d.OutlineType
	}
	return scene.TextItem{
		ID:          uuid.NewString(),
		Text:        or(w.Text, d.Text),
		X:           or(w.X, d.TextX),
		Y:           or(w.Y, d.TextY),
		Color:       color(w.C, d.TextColor),
		FontSize:    or(w.S, d.FontSize),
		Font:        or(w.F, d.Font),
		Rotate:      or(w.R, d.TextRotate),
		OutlineType: outline,
	}
}

func (d FieldDefaults) decoration(w wireDeco) scene.Decoration {
	shape := scene.Shape(or(w.T, string(d.Shape)))
	if !shape.Valid() {
		shape = d.Shape
	}
	return scene.Decoration{
		ID:     uuid.NewString(),
		X:      or(w.X, d.DecoX),
		Y:      or(w.Y, d.DecoY),
		Color:  color(w.C, d.DecoColor),
		Size:   scene.SnapSize(or(w.S, d.DecoSize)),
		Rotate: or(w.R, d.DecoRotate),
		Shape:  shape,
	}
}

func (d FieldDefaults) settings(w wireScene) scene.Settings {
	mode := scene.FillMode(or(w.FM, string(d.FillMode)))
	if !mode.Valid() {
		mode = d.FillMode
	}
	return scene.Settings{
		BackgroundColor: color(w.BG, d.Background),
		FillMode:        mode,
	}
}

func (d FieldDefaults) build(w wireScene) scene.Scene {
	s := scene.Scene{
		Texts:       make([]scene.TextItem, 0, len(w.T)),
		Decorations: make([]scene.Decoration, 0, min(len(w.D), d.MaxDecorations)),
		Settings:    d.settings(w),
	}
	for _, t := range w.T {
		s.Texts = append(s.Texts, d.text(t))
	}
	for _, deco := range w.D[:min(len(w.D), d.MaxDecorations)] {
		s.Decorations = append(s.Decorations, d.decoration(deco))
	}
	return s
}
