package export

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"

	"github.com/esuji5/uchiwa-generator/internal/render"
)

// FileSink writes PNGs into Dir, creating it when needed.
type FileSink struct {
	Dir string
}

func (s FileSink) Save(name string, img image.Image) (string, error) {
	path, err := s.path(name)
	if err != nil {
		return "", err
	}
	if err := gg.SavePNG(path, img); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func (s FileSink) path(name string) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	return filepath.Join(dir, name), nil
}

// DefaultSVGFilename is the vector counterpart of DefaultFilename.
const DefaultSVGFilename = "uchiwa.svg"

// SaveSVG writes the surface as SVG next to the PNG exports. It shares the
// overlay hiding of a PNG export but needs no fonts or rasterizer.
func (s FileSink) SaveSVG(name string, surf Surface) (string, error) {
	path, err := s.path(name)
	if err != nil {
		return "", err
	}
	prev := surf.SetExporting(true)
	defer surf.SetExporting(prev)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	render.WriteSVG(f, surf.DisplayList())
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
