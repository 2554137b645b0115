package render

import (
	"sync"

	"github.com/esuji5/uchiwa-generator/internal/scene"
)

// Presentation is the on-screen box the canvas is currently shown in. The
// editor scales it to fit the terminal; export forces Canonical.
type Presentation struct {
	Width, Height int
}

var Canonical = Presentation{Width: Size, Height: Size}

// Scale is the factor from canvas units to presentation units.
func (p Presentation) Scale() (float64, float64) {
	return float64(p.Width) / Size, float64(p.Height) / Size
}

// Surface is the mounted render target: the scene last handed to it, the
// exporting flag that hides edit-only overlays, and the presentation box.
// It is safe for use from the UI loop and an export goroutine at once.
type Surface struct {
	mu        sync.Mutex
	scene     scene.Scene
	exporting bool
	pres      Presentation
}

func NewSurface() *Surface {
	return &Surface{pres: Canonical}
}

// SetScene replaces the scene drawn by the surface.
func (s *Surface) SetScene(sc scene.Scene) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scene = sc.Clone()
}

func (s *Surface) Scene() scene.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene.Clone()
}

// SetExporting toggles the export flag and returns the previous value.
func (s *Surface) SetExporting(on bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.exporting
	s.exporting = on
	return prev
}

func (s *Surface) Exporting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exporting
}

// SetPresentation sets the presentation box and returns the previous one.
func (s *Surface) SetPresentation(p Presentation) Presentation {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.pres
	s.pres = p
	return prev
}

func (s *Surface) Presentation() Presentation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pres
}

// DisplayList builds the ops for the current scene and export flag.
func (s *Surface) DisplayList() []Op {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Build(s.scene, s.exporting)
}
