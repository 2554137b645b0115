// Package scene holds the composition edited by the uchiwa program: the text
// items, the decorations drawn over them, and the canvas settings.
package scene

import (
	"math"
	"slices"
)

// Canvas geometry in logical units.
const (
	CanvasSize = 360
	CenterX    = 180
	CenterY    = 180
)

const (
	MaxTextItems   = 5
	MaxDecorations = 5

	MinFontSize   = 20
	MaxFontSize   = 200
	MinTextRotate = -45
	MaxTextRotate = 45
)

const (
	DefaultText       = "テキスト"
	DefaultTextColor  = "#FF69B4"
	DefaultFont       = `"M PLUS Rounded 1c", sans-serif`
	DefaultFontSize   = 40
	InitialFontSize   = 60
	DefaultBackground = "#000000"
	DefaultDecoSize   = 48
	DefaultDecoColor  = "#FF69B4"

	// presetRadius is the distance of the compass placements from the center.
	presetRadius = 70

	decoDefaultX = 180
	decoDefaultY = 200
)

// OutlineType selects how a text item's outline passes are stacked.
type OutlineType string

const (
	OutlineNone           OutlineType = "none"
	OutlineBlackOverWhite OutlineType = "black-over-white"
	OutlineWhiteOverBlack OutlineType = "white-over-black"
)

var outlineTypes = []OutlineType{OutlineBlackOverWhite, OutlineWhiteOverBlack, OutlineNone}

// Valid reports whether o is one of the known outline types.
func (o OutlineType) Valid() bool { return slices.Contains(outlineTypes, o) }

// Next cycles through the outline types.
func (o OutlineType) Next() OutlineType {
	i := slices.Index(outlineTypes, o)
	return outlineTypes[(i+1)%len(outlineTypes)]
}

// Shape is the tag of a decoration glyph.
type Shape string

const (
	ShapeHeart   Shape = "heart"
	ShapeStar    Shape = "star"
	ShapeNote    Shape = "note"
	ShapeSparkle Shape = "sparkle"
	ShapeCircle  Shape = "circle"
)

// ShapeStyle pairs a shape with its canonical color.
type ShapeStyle struct {
	Shape Shape
	Color string
}

// Palette is the decoration palette in display order.
var Palette = []ShapeStyle{
	{ShapeHeart, "#FF4081"},
	{ShapeStar, "#FFD600"},
	{ShapeNote, "#00B0FF"},
	{ShapeSparkle, "#E040FB"},
	{ShapeCircle, "#00E676"},
}

// SizePresets is the fixed decoration size scale.
var SizePresets = []float64{32, 48, 80, 120, 160}

// Valid reports whether s is in the palette.
func (s Shape) Valid() bool {
	for _, p := range Palette {
		if p.Shape == s {
			return true
		}
	}
	return false
}

// Color returns the canonical color of the shape, falling back to the heart color.
func (s Shape) Color() string {
	for _, p := range Palette {
		if p.Shape == s {
			return p.Color
		}
	}
	return Palette[0].Color
}

// FillMode is the background rendering strategy.
type FillMode string

const (
	FillNone    FillMode = "none"
	FillRounded FillMode = "rounded"
	FillAll     FillMode = "all"

	DefaultFillMode = FillRounded
)

var fillModes = []FillMode{FillNone, FillRounded, FillAll}

func (m FillMode) Valid() bool { return slices.Contains(fillModes, m) }

func (m FillMode) Next() FillMode {
	i := slices.Index(fillModes, m)
	return fillModes[(i+1)%len(fillModes)]
}

type TextItem struct {
	ID          string      `json:"id"`
	Text        string      `json:"text"`
	X           float64     `json:"x"`
	Y           float64     `json:"y"`
	Color       string      `json:"color"`
	FontSize    float64     `json:"fontSize"`
	Font        string      `json:"font"`
	Rotate      float64     `json:"rotate"`
	OutlineType OutlineType `json:"outlineType,omitempty"`
}

type Decoration struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Color  string  `json:"color"`
	Size   float64 `json:"size"`
	Rotate float64 `json:"rotate"`
	Shape  Shape   `json:"shape"`
}

type Settings struct {
	BackgroundColor string
	FillMode        FillMode
}

// Scene is a value snapshot of the whole composition.
type Scene struct {
	Texts       []TextItem
	Decorations []Decoration
	Settings    Settings
}

// Clone returns a deep copy of s.
func (s Scene) Clone() Scene {
	return Scene{
		Texts:       slices.Clone(s.Texts),
		Decorations: slices.Clone(s.Decorations),
		Settings:    s.Settings,
	}
}

// SameContent compares two scenes field by field, ignoring item ids.
func (s Scene) SameContent(o Scene) bool {
	if s.Settings != o.Settings || len(s.Texts) != len(o.Texts) || len(s.Decorations) != len(o.Decorations) {
		return false
	}
	for i := range s.Texts {
		a, b := s.Texts[i], o.Texts[i]
		a.ID, b.ID = "", ""
		if a != b {
			return false
		}
	}
	for i := range s.Decorations {
		a, b := s.Decorations[i], o.Decorations[i]
		a.ID, b.ID = "", ""
		if a != b {
			return false
		}
	}
	return true
}

// DefaultSettings returns the factory canvas settings.
func DefaultSettings() Settings {
	return Settings{BackgroundColor: DefaultBackground, FillMode: DefaultFillMode}
}

// initialText is the single item a fresh or reset scene starts with.
func initialText(id string) TextItem {
	return TextItem{
		ID:          id,
		Text:        DefaultText,
		X:           CenterX,
		Y:           CenterY,
		Color:       DefaultTextColor,
		FontSize:    InitialFontSize,
		Font:        DefaultFont,
		OutlineType: OutlineBlackOverWhite,
	}
}

// presetPosition returns the placement of the n-th text item: the center, then
// top, right, bottom and left of it.
func presetPosition(n int) (float64, float64) {
	switch n {
	case 1:
		return CenterX, CenterY - presetRadius
	case 2:
		return CenterX + presetRadius, CenterY
	case 3:
		return CenterX, CenterY + presetRadius
	case 4:
		return CenterX - presetRadius, CenterY
	default:
		return CenterX, CenterY
	}
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}

// normalizeText brings an item back inside its invariants.
func normalizeText(t TextItem) TextItem {
	if t.FontSize == 0 {
		t.FontSize = DefaultFontSize
	}
	t.FontSize = clamp(t.FontSize, MinFontSize, MaxFontSize)
	t.Rotate = clamp(t.Rotate, MinTextRotate, MaxTextRotate)
	if !t.OutlineType.Valid() {
		t.OutlineType = OutlineBlackOverWhite
	}
	t.Color = validColor(t.Color, DefaultTextColor)
	if t.Font == "" {
		t.Font = DefaultFont
	}
	return t
}

func normalizeDecoration(d Decoration) Decoration {
	if !d.Shape.Valid() {
		d.Shape = ShapeHeart
	}
	d.Size = SnapSize(d.Size)
	d.Color = validColor(d.Color, d.Shape.Color())
	return d
}

// SnapSize returns the size preset nearest to v. Non-positive sizes get the
// default.
func SnapSize(v float64) float64 {
	if !(v > 0) {
		return DefaultDecoSize
	}
	v = min(v, SizePresets[len(SizePresets)-1])
	best := SizePresets[0]
	for _, p := range SizePresets[1:] {
		if math.Abs(v-p) < math.Abs(v-best) {
			best = p
		}
	}
	return best
}

func normalizeSettings(s Settings) Settings {
	s.BackgroundColor = validColor(s.BackgroundColor, DefaultBackground)
	if !s.FillMode.Valid() {
		s.FillMode = DefaultFillMode
	}
	return s
}
