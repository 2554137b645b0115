package scene

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
)

var (
	// ErrCapacity is returned when an add would exceed a collection cap.
	ErrCapacity = errors.New("scene: capacity exceeded")
	// ErrNotConfirmed is returned by ResetAll when the user declines.
	ErrNotConfirmed = errors.New("scene: reset not confirmed")
)

// CapacityNotice is the message shown when the decoration cap is hit.
var CapacityNotice = fmt.Sprintf("You can add up to %d shapes", MaxDecorations)

// ResetPrompt is the question put to the Confirmer before ResetAll.
const ResetPrompt = "Reset all settings? Your changes will be lost."

// Observer is told about every change to one of the two item collections.
// It is called synchronously, after the change has been applied.
type Observer interface {
	TextsChanged(items []TextItem)
	DecorationsChanged(items []Decoration)
}

// Notifier shows a message to the user.
type Notifier interface {
	Notify(msg string)
}

// Confirmer gates destructive actions behind a user decision.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Address is the navigable address that may carry a scene token.
type Address interface {
	ClearState()
}

type Option func(*Model)

func WithObserver(o Observer) Option { return func(m *Model) { m.observers = append(m.observers, o) } }

func WithNotifier(n Notifier) Option { return func(m *Model) { m.notifier = n } }

func WithAddress(a Address) Option { return func(m *Model) { m.address = a } }

// WithRand replaces the random source used for random decoration placement.
func WithRand(r *rand.Rand) Option { return func(m *Model) { m.rand = r } }

// WithIDs replaces the id generator.
func WithIDs(fn func() string) Option { return func(m *Model) { m.newID = fn } }

// Model owns the scene for the lifetime of a session. It is not safe for
// concurrent use; callers mutate it from a single event loop and hand
// Snapshot values to other goroutines.
type Model struct {
	scene     Scene
	decoSize  float64
	observers []Observer
	notifier  Notifier
	address   Address
	rand      *rand.Rand
	newID     func() string
}

// New returns a model holding the factory default scene.
func New(opts ...Option) *Model {
	m := &Model{
		decoSize: DefaultDecoSize,
		rand:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.scene = m.defaultScene()
	return m
}

func (m *Model) defaultScene() Scene {
	return Scene{
		Texts:       []TextItem{initialText(m.newID())},
		Decorations: []Decoration{},
		Settings:    DefaultSettings(),
	}
}

// Snapshot returns a deep copy of the current scene.
func (m *Model) Snapshot() Scene { return m.scene.Clone() }

func (m *Model) Texts() []TextItem { return slices.Clone(m.scene.Texts) }

func (m *Model) Decorations() []Decoration { return slices.Clone(m.scene.Decorations) }

func (m *Model) Settings() Settings { return m.scene.Settings }

// DecorationSize is the size class used by AddDecoration.
func (m *Model) DecorationSize() float64 { return m.decoSize }

func (m *Model) TextItem(id string) (TextItem, bool) {
	i := m.textIndex(id)
	if i < 0 {
		return TextItem{}, false
	}
	return m.scene.Texts[i], true
}

func (m *Model) Decoration(id string) (Decoration, bool) {
	i := m.decoIndex(id)
	if i < 0 {
		return Decoration{}, false
	}
	return m.scene.Decorations[i], true
}

func (m *Model) textIndex(id string) int {
	return slices.IndexFunc(m.scene.Texts, func(t TextItem) bool { return t.ID == id })
}

func (m *Model) decoIndex(id string) int {
	return slices.IndexFunc(m.scene.Decorations, func(d Decoration) bool { return d.ID == id })
}

func (m *Model) textsChanged() {
	for _, o := range m.observers {
		o.TextsChanged(slices.Clone(m.scene.Texts))
	}
}

func (m *Model) decorationsChanged() {
	for _, o := range m.observers {
		o.DecorationsChanged(slices.Clone(m.scene.Decorations))
	}
}

func (m *Model) notify(msg string) {
	if m.notifier != nil {
		m.notifier.Notify(msg)
	}
}

// AddTextItem appends an empty item at the next preset position. It does
// nothing and returns false once MaxTextItems is reached.
func (m *Model) AddTextItem() (TextItem, bool) {
	n := len(m.scene.Texts)
	if n >= MaxTextItems {
		return TextItem{}, false
	}
	x, y := presetPosition(n)
	item := TextItem{
		ID:          m.newID(),
		X:           x,
		Y:           y,
		Color:       DefaultTextColor,
		FontSize:    DefaultFontSize,
		Font:        DefaultFont,
		OutlineType: OutlineBlackOverWhite,
	}
	m.scene.Texts = append(m.scene.Texts, item)
	m.textsChanged()
	return item, true
}

// TextPatch carries the fields to change on a text item; nil fields are kept.
type TextPatch struct {
	Text        *string
	X, Y        *float64
	Color       *string
	FontSize    *float64
	Font        *string
	Rotate      *float64
	OutlineType *OutlineType
}

func (p TextPatch) apply(t TextItem) TextItem {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.X != nil {
		t.X = *p.X
	}
	if p.Y != nil {
		t.Y = *p.Y
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	if p.FontSize != nil {
		t.FontSize = *p.FontSize
	}
	if p.Font != nil {
		t.Font = *p.Font
	}
	if p.Rotate != nil {
		t.Rotate = *p.Rotate
	}
	if p.OutlineType != nil {
		t.OutlineType = *p.OutlineType
	}
	return normalizeText(t)
}

// UpdateTextItem merges p into the item with the given id. Unknown ids are
// ignored and false is returned.
func (m *Model) UpdateTextItem(id string, p TextPatch) bool {
	i := m.textIndex(id)
	if i < 0 {
		return false
	}
	m.scene.Texts[i] = p.apply(m.scene.Texts[i])
	m.textsChanged()
	return true
}

func (m *Model) RemoveTextItem(id string) bool {
	i := m.textIndex(id)
	if i < 0 {
		return false
	}
	m.scene.Texts = slices.Delete(m.scene.Texts, i, i+1)
	m.textsChanged()
	return true
}

// AddDecoration appends a decoration at the default position using the
// current size class.
func (m *Model) AddDecoration(shape Shape, color string, rotate float64) (Decoration, error) {
	if len(m.scene.Decorations) >= MaxDecorations {
		m.notify(CapacityNotice)
		return Decoration{}, ErrCapacity
	}
	d := normalizeDecoration(Decoration{
		ID:     m.newID(),
		X:      decoDefaultX,
		Y:      decoDefaultY,
		Color:  color,
		Size:   m.decoSize,
		Rotate: rotate,
		Shape:  shape,
	})
	m.scene.Decorations = append(m.scene.Decorations, d)
	m.decorationsChanged()
	return d, nil
}

// DecorationPatch carries the fields to change on a decoration; nil fields are kept.
type DecorationPatch struct {
	X, Y   *float64
	Color  *string
	Size   *float64
	Rotate *float64
	Shape  *Shape
}

func (p DecorationPatch) apply(d Decoration) Decoration {
	if p.X != nil {
		d.X = *p.X
	}
	if p.Y != nil {
		d.Y = *p.Y
	}
	if p.Color != nil {
		d.Color = *p.Color
	}
	if p.Size != nil {
		d.Size = *p.Size
	}
	if p.Rotate != nil {
		d.Rotate = *p.Rotate
	}
	if p.Shape != nil {
		d.Shape = *p.Shape
	}
	return normalizeDecoration(d)
}

func (m *Model) UpdateDecoration(id string, p DecorationPatch) bool {
	i := m.decoIndex(id)
	if i < 0 {
		return false
	}
	m.scene.Decorations[i] = p.apply(m.scene.Decorations[i])
	m.decorationsChanged()
	return true
}

func (m *Model) RemoveDecoration(id string) bool {
	i := m.decoIndex(id)
	if i < 0 {
		return false
	}
	m.scene.Decorations = slices.Delete(m.scene.Decorations, i, i+1)
	m.decorationsChanged()
	return true
}

// ClearDecorations empties the decoration collection.
func (m *Model) ClearDecorations() {
	m.scene.Decorations = []Decoration{}
	m.decorationsChanged()
}

func (m *Model) SetBackgroundColor(c string) {
	m.scene.Settings.BackgroundColor = validColor(c, DefaultBackground)
}

func (m *Model) SetFillMode(f FillMode) {
	if !f.Valid() {
		f = DefaultFillMode
	}
	m.scene.Settings.FillMode = f
}

// SetDecorationSize selects the size class for AddDecoration. Sizes outside
// SizePresets are rejected.
func (m *Model) SetDecorationSize(size float64) error {
	if !slices.Contains(SizePresets, size) {
		return fmt.Errorf("scene: size %v is not a preset", size)
	}
	m.decoSize = size
	return nil
}

// ResetAll restores the factory scene after c confirms, and clears the scene
// token from the address so a reload does not bring the old state back. A nil
// Confirmer never confirms.
func (m *Model) ResetAll(c Confirmer) error {
	if c == nil || !c.Confirm(ResetPrompt) {
		return ErrNotConfirmed
	}
	m.scene = m.defaultScene()
	m.textsChanged()
	m.decorationsChanged()
	if m.address != nil {
		m.address.ClearState()
	}
	return nil
}

// Replace swaps in a whole scene, normalizing it and applying the caps.
// Items without an id get a fresh one.
func (m *Model) Replace(s Scene) {
	texts := make([]TextItem, 0, min(len(s.Texts), MaxTextItems))
	for _, t := range s.Texts[:min(len(s.Texts), MaxTextItems)] {
		if t.ID == "" || slices.ContainsFunc(texts, func(o TextItem) bool { return o.ID == t.ID }) {
			t.ID = m.newID()
		}
		texts = append(texts, normalizeText(t))
	}
	decos := make([]Decoration, 0, min(len(s.Decorations), MaxDecorations))
	for _, d := range s.Decorations[:min(len(s.Decorations), MaxDecorations)] {
		if d.ID == "" || slices.ContainsFunc(decos, func(o Decoration) bool { return o.ID == d.ID }) {
			d.ID = m.newID()
		}
		decos = append(decos, normalizeDecoration(d))
	}
	m.scene = Scene{Texts: texts, Decorations: decos, Settings: normalizeSettings(s.Settings)}
	m.textsChanged()
	m.decorationsChanged()
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T { return &v }
