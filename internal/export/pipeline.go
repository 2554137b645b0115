// Package export turns the mounted render surface into a PNG file.
//
// An export runs Idle → Preparing → Rendering → Finalizing → Idle, or drops
// to Failed and back to Idle on the first error. Whatever happens, the
// surface gets its overlays and presentation box back.
package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"sync"
	"time"

	"github.com/esuji5/uchiwa-generator/internal/render"
	"github.com/esuji5/uchiwa-generator/internal/scene"
)

var (
	ErrSurfaceMissing = errors.New("export: render surface not mounted")
	ErrBusy           = errors.New("export: already running")
	ErrFontsFailed    = errors.New("export: fonts failed to load")
	ErrRasterize      = errors.New("export: rasterization failed")
	ErrSave           = errors.New("export: could not save image")
)

const (
	DefaultFilename    = "uchiwa.png"
	DefaultFontTimeout = 3 * time.Second
)

type State int

const (
	Idle State = iota
	Preparing
	Rendering
	Finalizing
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Preparing:
		return "preparing"
	case Rendering:
		return "rendering"
	case Finalizing:
		return "finalizing"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Surface is what the pipeline needs from the mounted canvas.
type Surface interface {
	SetExporting(on bool) bool
	SetPresentation(p render.Presentation) render.Presentation
	Scene() scene.Scene
	DisplayList() []render.Op
}

// Locator finds the mounted surface. It returns nil when nothing is mounted.
type Locator func() Surface

// FontWaiter reports when the fonts text items use are available.
type FontWaiter interface {
	Ready(ctx context.Context) error
}

type Rasterizer interface {
	Rasterize(ops []render.Op, opt render.RasterOptions) (*image.RGBA, error)
}

// Sink stores the finished bitmap under name and returns where it went.
type Sink interface {
	Save(name string, img image.Image) (string, error)
}

type Notifier interface {
	Notify(msg string)
}

type Option func(*Pipeline)

func WithFontTimeout(d time.Duration) Option { return func(p *Pipeline) { p.fontTimeout = d } }

func WithFilename(name string) Option { return func(p *Pipeline) { p.filename = name } }

func WithNotifier(n Notifier) Option { return func(p *Pipeline) { p.notifier = n } }

func WithLogger(l *log.Logger) Option { return func(p *Pipeline) { p.log = l } }

// WithStateFunc registers fn to observe every state change.
func WithStateFunc(fn func(State)) Option { return func(p *Pipeline) { p.onState = fn } }

// WithOverlays sets what hides the edit-only overlays. By default it is the
// surface itself, once located.
func WithOverlays(o Overlays) Option { return func(p *Pipeline) { p.overlays = o } }

// Overlays toggles the exporting flag that hides anchor handles and delete
// buttons.
type Overlays interface {
	SetExporting(on bool) bool
}

type Pipeline struct {
	locate   Locator
	fonts    FontWaiter
	raster   Rasterizer
	sink     Sink
	overlays Overlays

	filename    string
	fontTimeout time.Duration
	notifier    Notifier
	onState     func(State)
	log         *log.Logger

	mu    sync.Mutex
	state State
	busy  bool
}

func New(locate Locator, fonts FontWaiter, raster Rasterizer, sink Sink, opts ...Option) *Pipeline {
	p := &Pipeline{
		locate:      locate,
		fonts:       fonts,
		raster:      raster,
		sink:        sink,
		filename:    DefaultFilename,
		fontTimeout: DefaultFontTimeout,
		log:         log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Busy reports whether an export is running. The UI uses it to disable the
// export trigger.
func (p *Pipeline) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.busy
}

func (p *Pipeline) setState(s State) {
	p.mu.Lock()
	p.state = s
	fn := p.onState
	p.mu.Unlock()
	p.log.Printf("state %s", s)
	if fn != nil {
		fn(s)
	}
}

func (p *Pipeline) notify(msg string) {
	if p.notifier != nil {
		p.notifier.Notify(msg)
	}
}

// Export renders the surface and saves it, returning the saved path. A
// second call while one is running returns ErrBusy without side effects.
func (p *Pipeline) Export(ctx context.Context) (string, error) {
	p.mu.Lock()
	if p.busy {
		p.mu.Unlock()
		return "", ErrBusy
	}
	p.busy = true
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.busy = false
		p.mu.Unlock()
	}()

	path, err := p.run(ctx)
	if err != nil {
		p.setState(Failed)
		p.log.Printf("failed: %v", err)
		p.notify("Image export failed: " + err.Error())
		p.setState(Idle)
		return "", err
	}
	p.setState(Idle)
	return path, nil
}

func (p *Pipeline) run(ctx context.Context) (string, error) {
	p.setState(Preparing)
	overlays := p.overlays
	if overlays != nil {
		overlays.SetExporting(true)
		defer overlays.SetExporting(false)
	}

	surf := p.locate()
	if surf == nil {
		return "", ErrSurfaceMissing
	}
	if overlays == nil {
		surf.SetExporting(true)
		defer surf.SetExporting(false)
	}
	prev := surf.SetPresentation(render.Canonical)
	defer surf.SetPresentation(prev)

	if err := p.waitFonts(ctx); err != nil {
		return "", err
	}

	p.setState(Rendering)
	opt := render.RasterOptions{Width: render.Canonical.Width, Height: render.Canonical.Height}
	if surf.Scene().Settings.FillMode == scene.FillNone {
		opt.Background = color.White
	}
	img, err := p.raster.Rasterize(surf.DisplayList(), opt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRasterize, err)
	}

	p.setState(Finalizing)
	path, err := p.sink.Save(p.filename, img)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSave, err)
	}
	p.log.Printf("saved %s", path)
	return path, nil
}

// waitFonts gives the fonts a bounded time to load. Running out of time is
// not an error: the export goes ahead with whatever faces exist.
func (p *Pipeline) waitFonts(ctx context.Context) error {
	if p.fonts == nil {
		return nil
	}
	wctx, cancel := context.WithTimeout(ctx, p.fontTimeout)
	defer cancel()
	err := p.fonts.Ready(wctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		p.log.Printf("fonts not ready after %v, continuing", p.fontTimeout)
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	}
	return fmt.Errorf("%w: %w", ErrFontsFailed, err)
}
