package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/esuji5/uchiwa-generator/internal/interact"
	"github.com/esuji5/uchiwa-generator/internal/scene"
)

// mutate records an undo step around fn and pushes the result to the
// surface. Steps that changed nothing are not kept.
func (m *model) mutate(fn func()) {
	m.pushUndo()
	fn()
	m.dropUndo()
	m.syncSelection()
	m.syncSurface()
}

func nextIn[T comparable](list []T, cur T, dir int) T {
	i := slices.Index(list, cur)
	if i < 0 {
		if dir < 0 {
			i = 0
		} else {
			i = -1
		}
	}
	return list[((i+dir)%len(list)+len(list))%len(list)]
}

func (m *model) addText() {
	m.mutate(func() {
		if item, ok := m.scene.AddTextItem(); ok {
			m.selectTarget(interact.Target{Kind: interact.KindText, ID: item.ID})
		}
	})
}

func (m *model) deleteSelected() {
	if !m.hasSelection {
		return
	}
	switch m.selected.Kind {
	case interact.KindText:
		if len(m.scene.Texts()) <= 1 {
			m.status.Notify("The last text item cannot be deleted")
			return
		}
		m.mutate(func() { m.scene.RemoveTextItem(m.selected.ID) })
	case interact.KindDecoration:
		m.mutate(func() { m.scene.RemoveDecoration(m.selected.ID) })
	}
}

func (m *model) rotateSelected(dir int) {
	if t, ok := m.selectedText(); ok {
		r := max(scene.MinTextRotate, min(t.Rotate+float64(dir*rotateStep), scene.MaxTextRotate))
		m.mutate(func() { m.scene.UpdateTextItem(t.ID, scene.TextPatch{Rotate: &r}) })
		return
	}
	if d, ok := m.selectedDecoration(); ok {
		r := d.Rotate + float64(dir*15)
		m.mutate(func() { m.scene.UpdateDecoration(d.ID, scene.DecorationPatch{Rotate: &r}) })
	}
}

// resizeSelected steps a text item's font size, or moves a decoration along
// the size presets.
func (m *model) resizeSelected(dir int) {
	if t, ok := m.selectedText(); ok {
		size := max(scene.MinFontSize, min(t.FontSize+float64(dir*fontSizeStep), scene.MaxFontSize))
		m.mutate(func() { m.scene.UpdateTextItem(t.ID, scene.TextPatch{FontSize: &size}) })
		return
	}
	if d, ok := m.selectedDecoration(); ok {
		i, found := slices.BinarySearch(scene.SizePresets, d.Size)
		switch {
		case dir > 0 && found:
			i++
		case dir < 0:
			i--
		}
		size := scene.SizePresets[max(0, min(i, len(scene.SizePresets)-1))]
		m.mutate(func() { m.scene.UpdateDecoration(d.ID, scene.DecorationPatch{Size: &size}) })
	}
}

func (m *model) cycleOutline() {
	t, ok := m.selectedText()
	if !ok {
		return
	}
	o := t.OutlineType.Next()
	m.mutate(func() { m.scene.UpdateTextItem(t.ID, scene.TextPatch{OutlineType: &o}) })
}

func decorationColors() []string {
	colors := make([]string, len(scene.Palette))
	for i, p := range scene.Palette {
		colors[i] = p.Color
	}
	return colors
}

func (m *model) cycleColor() {
	if t, ok := m.selectedText(); ok {
		c := nextIn(textColors, t.Color, 1)
		m.mutate(func() { m.scene.UpdateTextItem(t.ID, scene.TextPatch{Color: &c}) })
		return
	}
	if d, ok := m.selectedDecoration(); ok {
		c := nextIn(decorationColors(), d.Color, 1)
		m.mutate(func() { m.scene.UpdateDecoration(d.ID, scene.DecorationPatch{Color: &c}) })
	}
}

func (m *model) cycleFont() {
	t, ok := m.selectedText()
	if !ok {
		return
	}
	values := make([]string, len(fontChoices))
	for i, f := range fontChoices {
		values[i] = f.value
	}
	font := nextIn(values, t.Font, 1)
	m.mutate(func() { m.scene.UpdateTextItem(t.ID, scene.TextPatch{Font: &font}) })
	m.status.success(fmt.Sprintf("Font: %s (%s)", fontLabel(font), m.fonts.Resolve(font)))
}

func fontLabel(value string) string {
	for _, f := range fontChoices {
		if f.value == value {
			return f.label
		}
	}
	return value
}

// addShape adds the n-th palette shape in its own color.
func (m *model) addShape(n int) {
	if n < 0 || n >= len(scene.Palette) {
		return
	}
	style := scene.Palette[n]
	m.mutate(func() {
		d, err := m.scene.AddDecoration(style.Shape, style.Color, 0)
		if err == nil {
			m.selectTarget(interact.Target{Kind: interact.KindDecoration, ID: d.ID})
		}
	})
}

// scatter adds random decorations, of the given shape or of mixed shapes
// when shape is empty.
func (m *model) scatter(shape scene.Shape) {
	m.mutate(func() {
		added, err := m.scene.AddRandomDecorations(randomDecoCap, shape)
		if errors.Is(err, scene.ErrCapacity) {
			return
		}
		m.status.success(fmt.Sprintf("Added %d shapes", len(added)))
	})
}

func (m *model) scatterSelectedShape() {
	shape := scene.ShapeHeart
	if d, ok := m.selectedDecoration(); ok {
		shape = d.Shape
	}
	m.scatter(shape)
}

func (m *model) cycleDecorationSize() {
	size := nextIn(scene.SizePresets, m.scene.DecorationSize(), 1)
	if err := m.scene.SetDecorationSize(size); err != nil {
		m.status.Notify(err.Error())
		return
	}
	m.status.success(fmt.Sprintf("New shape size: %v", size))
}

func (m *model) cycleBackground() {
	c := nextIn(backgroundColors, m.scene.Settings().BackgroundColor, 1)
	m.mutate(func() { m.scene.SetBackgroundColor(c) })
}

func (m *model) cycleFillMode() {
	f := m.scene.Settings().FillMode.Next()
	m.mutate(func() { m.scene.SetFillMode(f) })
	m.status.success(fmt.Sprintf("Fill mode: %s", f))
}

func (m *model) clearDecorations() {
	m.mutate(m.scene.ClearDecorations)
}

func (m *model) resetAll(confirmed bool) {
	m.pushUndo()
	if err := m.scene.ResetAll(answer(confirmed)); err != nil {
		m.dropUndo()
		return
	}
	m.syncSelection()
	m.syncSurface()
	m.status.success("Reset to defaults")
}
