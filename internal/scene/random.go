package scene

// Safe interior rectangle for random placement, keeping glyphs off the edges.
const (
	randMinX = 50
	randMaxX = 310
	randMinY = 60
	randMaxY = 320
)

var randomRotations = []float64{-15, 0, 15}

// AddRandomDecorations scatters up to count decorations over the canvas,
// limited by the room left under MaxDecorations. A zero shape draws each
// shape from the palette; any other shape fixes it. Nothing is added and
// ErrCapacity is returned when there is no room.
func (m *Model) AddRandomDecorations(count int, shape Shape) ([]Decoration, error) {
	n := min(count, MaxDecorations-len(m.scene.Decorations))
	if n <= 0 {
		m.notify(CapacityNotice)
		return nil, ErrCapacity
	}
	added := make([]Decoration, 0, n)
	for range n {
		style := Palette[m.rand.IntN(len(Palette))]
		if shape != "" {
			style = ShapeStyle{Shape: shape, Color: shape.Color()}
		}
		added = append(added, normalizeDecoration(Decoration{
			ID:     m.newID(),
			X:      randMinX + m.rand.Float64()*(randMaxX-randMinX),
			Y:      randMinY + m.rand.Float64()*(randMaxY-randMinY),
			Color:  style.Color,
			Size:   SizePresets[m.rand.IntN(len(SizePresets))],
			Rotate: randomRotations[m.rand.IntN(len(randomRotations))],
			Shape:  style.Shape,
		}))
	}
	m.scene.Decorations = append(m.scene.Decorations, added...)
	m.decorationsChanged()
	return added, nil
}
