package interact

// PointerEvent is a pointer position in canvas units.
type PointerEvent struct {
	X, Y float64
}

type eventKind int

const (
	eventMove eventKind = iota
	eventUp
)

type listener struct {
	id uint32
	fn func(PointerEvent)
}

// Document is the document-level listener slot that drag sessions register
// their transient move and up handlers on.
type Document struct {
	move   []listener
	up     []listener
	nextID uint32
}

func NewDocument() *Document { return &Document{} }

// Handle removes a registered listener.
type Handle struct {
	id   uint32
	doc  *Document
	kind eventKind
}

// Remove unregisters the listener. Removing twice is harmless.
func (h Handle) Remove() {
	if h.doc == nil {
		return
	}
	switch h.kind {
	case eventMove:
		h.doc.move = removeListener(h.doc.move, h.id)
	case eventUp:
		h.doc.up = removeListener(h.doc.up, h.id)
	}
}

func removeListener(s []listener, id uint32) []listener {
	for i, l := range s {
		if l.id == id {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

func (d *Document) add(kind eventKind, fn func(PointerEvent)) Handle {
	d.nextID++
	l := listener{id: d.nextID, fn: fn}
	switch kind {
	case eventMove:
		d.move = append(d.move, l)
	case eventUp:
		d.up = append(d.up, l)
	}
	return Handle{id: l.id, doc: d, kind: kind}
}

func (d *Document) OnPointerMove(fn func(PointerEvent)) Handle { return d.add(eventMove, fn) }

func (d *Document) OnPointerUp(fn func(PointerEvent)) Handle { return d.add(eventUp, fn) }

// DispatchMove delivers a pointer move to every move listener.
func (d *Document) DispatchMove(ev PointerEvent) { dispatch(d.move, ev) }

// DispatchUp delivers a pointer release to every up listener.
func (d *Document) DispatchUp(ev PointerEvent) { dispatch(d.up, ev) }

// dispatch works on a copy so listeners may remove themselves.
func dispatch(ls []listener, ev PointerEvent) {
	for _, l := range append([]listener(nil), ls...) {
		l.fn(ev)
	}
}

// Listeners reports how many listeners are registered.
func (d *Document) Listeners() int { return len(d.move) + len(d.up) }
