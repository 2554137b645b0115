package main

import (
	"github.com/esuji5/uchiwa-generator/internal/interact"
	"github.com/esuji5/uchiwa-generator/internal/scene"
)

// handleNudge moves the selected item by speed steps in the key's
// direction, keeping its anchor on the canvas.
func (m *model) handleNudge(key string, speed int) {
	if !m.hasSelection {
		return
	}
	dx, dy := 0.0, 0.0
	step := float64(nudgeStep * speed)
	switch key {
	case "h", "left", "H", "shift+left":
		dx = -step
	case "l", "right", "L", "shift+right":
		dx = step
	case "k", "up", "K", "shift+up":
		dy = -step
	case "j", "down", "J", "shift+down":
		dy = step
	}
	x, y, ok := m.selectedPosition()
	if !ok {
		return
	}
	x = clampUnit(x + dx)
	y = clampUnit(y + dy)

	m.pushUndo()
	switch m.selected.Kind {
	case interact.KindText:
		m.scene.UpdateTextItem(m.selected.ID, scene.TextPatch{X: &x, Y: &y})
	case interact.KindDecoration:
		m.scene.UpdateDecoration(m.selected.ID, scene.DecorationPatch{X: &x, Y: &y})
	}
	m.dropUndo()
	m.syncSurface()
}

func (m *model) selectedPosition() (float64, float64, bool) {
	switch m.selected.Kind {
	case interact.KindText:
		if t, ok := m.scene.TextItem(m.selected.ID); ok {
			return t.X, t.Y, true
		}
	case interact.KindDecoration:
		if d, ok := m.scene.Decoration(m.selected.ID); ok {
			return d.X, d.Y, true
		}
	}
	return 0, 0, false
}

func clampUnit(v float64) float64 {
	return max(0, min(v, scene.CanvasSize))
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}
