// Package fonts loads the font files text items may name and hands out faces
// for them. Loading runs in the background; Ready reports when it is done.
package fonts

import (
	"context"
	"fmt"
	"io"
	"log"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/sync/errgroup"
)

type family struct {
	name string
	tt   *truetype.Font
	ot   *opentype.Font
}

type faceKey struct {
	family string
	size   float64
}

// Registry maps CSS font-family names to parsed fonts. Names that match no
// loaded family use the bundled Go Bold face.
type Registry struct {
	log *log.Logger

	mu       sync.Mutex
	families map[string]*family
	failed   map[string]error
	faces    map[faceKey]font.Face
	fallback *truetype.Font

	ready chan struct{}
	err   error
}

// NewRegistry starts loading every .ttf and .otf file directly under dir.
// An empty dir loads nothing and is ready at once.
func NewRegistry(ctx context.Context, dir string, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	fallback, err := truetype.Parse(gobold.TTF)
	if err != nil {
		panic(fmt.Sprintf("fonts: bundled face: %v", err))
	}
	r := &Registry{
		log:      logger,
		families: make(map[string]*family),
		failed:   make(map[string]error),
		faces:    make(map[faceKey]font.Face),
		fallback: fallback,
		ready:    make(chan struct{}),
	}
	if dir == "" {
		close(r.ready)
		return r
	}
	go func() {
		defer close(r.ready)
		r.err = r.load(ctx, dir)
	}()
	return r
}

func (r *Registry) load(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("fonts: read %s: %w", dir, err)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".ttf" && ext != ".otf") {
			continue
		}
		name := e.Name()
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := parseFile(filepath.Join(dir, name))
			r.mu.Lock()
			defer r.mu.Unlock()
			if err != nil {
				r.failed[name] = err
				r.log.Printf("skipping %s: %v", name, err)
				return nil
			}
			r.families[strings.ToLower(f.name)] = f
			r.log.Printf("loaded %q from %s", f.name, name)
			return nil
		})
	}
	return g.Wait()
}

// parseFile reads TrueType files with freetype and everything else with the
// sfnt parser, which also handles CFF outlines.
func parseFile(path string) (*family, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".ttf") {
		tt, err := truetype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
		name := tt.Name(truetype.NameIDFontFamily)
		if name == "" {
			return nil, fmt.Errorf("parse: no family name")
		}
		return &family{name: name, tt: tt}, nil
	}
	ot, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	name, err := ot.Name(nil, sfnt.NameIDFamily)
	if err != nil {
		return nil, fmt.Errorf("family name: %w", err)
	}
	return &family{name: name, ot: ot}, nil
}

// Ready blocks until loading finishes or ctx is done. It returns the load
// error, if the font directory could not be read, or ctx's error.
func (r *Registry) Ready(ctx context.Context) error {
	select {
	case <-r.ready:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ParseFamilies splits a CSS font-family list into unquoted names.
func ParseFamilies(desc string) []string {
	var out []string
	for _, part := range strings.Split(desc, ",") {
		name := strings.Trim(strings.TrimSpace(part), `"'`)
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

// Resolve returns the loaded family the descriptor selects, or "" when only
// the fallback applies.
func (r *Registry) Resolve(desc string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f := r.lookup(desc); f != nil {
		return f.name
	}
	return ""
}

func (r *Registry) lookup(desc string) *family {
	for _, name := range ParseFamilies(desc) {
		if f, ok := r.families[strings.ToLower(name)]; ok {
			return f
		}
	}
	return nil
}

// Face returns a face for the descriptor at size pixels. Faces are cached
// and, like all font.Face values, not safe for concurrent use.
func (r *Registry) Face(desc string, size float64) font.Face {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := r.lookup(desc)
	key := faceKey{size: size}
	if f != nil {
		key.family = f.name
	}
	if face, ok := r.faces[key]; ok {
		return face
	}
	var face font.Face
	switch {
	case f != nil && f.tt != nil:
		face = truetype.NewFace(f.tt, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone})
	case f != nil:
		ot, err := opentype.NewFace(f.ot, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
		if err != nil {
			r.log.Printf("face %q at %v: %v", f.name, size, err)
			return r.fallbackFace(size)
		}
		face = ot
	default:
		return r.fallbackFace(size)
	}
	r.faces[key] = face
	return face
}

func (r *Registry) fallbackFace(size float64) font.Face {
	key := faceKey{size: size}
	if face, ok := r.faces[key]; ok {
		return face
	}
	face := truetype.NewFace(r.fallback, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone})
	r.faces[key] = face
	return face
}

// Families lists the loaded family names, sorted.
func (r *Registry) Families() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var names []string
	for _, f := range r.families {
		names = append(names, f.name)
	}
	slices.Sort(names)
	return names
}

// Failed returns the files that could not be parsed and why.
func (r *Registry) Failed() map[string]error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.failed)
}
