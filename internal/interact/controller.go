// Package interact turns pointer input into item moves on a scene.
package interact

import "github.com/esuji5/uchiwa-generator/internal/scene"

type Kind int

const (
	KindText Kind = iota
	KindDecoration
)

// Target identifies a draggable item.
type Target struct {
	Kind Kind
	ID   string
}

// Items is the part of the scene model a drag needs.
type Items interface {
	TextItem(id string) (scene.TextItem, bool)
	Decoration(id string) (scene.Decoration, bool)
	UpdateTextItem(id string, p scene.TextPatch) bool
	UpdateDecoration(id string, p scene.DecorationPatch) bool
}

type drag struct {
	target           Target
	offsetX, offsetY float64
	move, up         Handle
}

// Controller runs at most one drag session at a time. It is created when the
// canvas is mounted and Close must be called when it goes away.
type Controller struct {
	doc    *Document
	items  Items
	active *drag
}

func NewController(doc *Document, items Items) *Controller {
	return &Controller{doc: doc, items: items}
}

// PointerDown starts dragging t. The offset between the pointer and the
// item's position is captured once and kept for the whole drag. It returns
// false when a drag is already running or the item does not exist.
func (c *Controller) PointerDown(t Target, ev PointerEvent) bool {
	if c.active != nil {
		return false
	}
	x, y, ok := c.position(t)
	if !ok {
		return false
	}
	d := &drag{target: t, offsetX: ev.X - x, offsetY: ev.Y - y}
	d.move = c.doc.OnPointerMove(c.onMove)
	d.up = c.doc.OnPointerUp(c.onUp)
	c.active = d
	return true
}

func (c *Controller) position(t Target) (float64, float64, bool) {
	switch t.Kind {
	case KindText:
		item, ok := c.items.TextItem(t.ID)
		return item.X, item.Y, ok
	case KindDecoration:
		d, ok := c.items.Decoration(t.ID)
		return d.X, d.Y, ok
	}
	return 0, 0, false
}

func (c *Controller) onMove(ev PointerEvent) {
	d := c.active
	if d == nil {
		return
	}
	x, y := ev.X-d.offsetX, ev.Y-d.offsetY
	switch d.target.Kind {
	case KindText:
		c.items.UpdateTextItem(d.target.ID, scene.TextPatch{X: &x, Y: &y})
	case KindDecoration:
		c.items.UpdateDecoration(d.target.ID, scene.DecorationPatch{X: &x, Y: &y})
	}
}

func (c *Controller) onUp(PointerEvent) { c.end() }

func (c *Controller) end() {
	if c.active == nil {
		return
	}
	c.active.move.Remove()
	c.active.up.Remove()
	c.active = nil
}

// Active returns the item being dragged, if any.
func (c *Controller) Active() (Target, bool) {
	if c.active == nil {
		return Target{}, false
	}
	return c.active.target, true
}

// Close ends any running drag and releases its listeners.
func (c *Controller) Close() { c.end() }
