package printing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/hidenkeys/receipt/internal/domain/receipt"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// fontDirs are searched for <Name>.ttf when no file is configured for a face
var fontDirs = []string{
	"/usr/share/fonts/truetype/msttcorefonts",
	"/usr/share/fonts/TTF",
	"/Library/Fonts",
	"/System/Library/Fonts/Supplemental",
	`C:\Windows\Fonts`,
}

// FontResolver maps receipt fonts to loaded faces. A face name resolves to
// the configured TTF file, then to <Name>.ttf in the system font
// directories, and finally to the embedded Go font of the same size.
type FontResolver struct {
	files  map[string]string
	search bool

	mu    sync.Mutex
	faces map[receipt.Font]font.Face
}

// NewFontResolver creates a resolver. files maps face names (case-insensitive)
// to TTF paths; searchSystem enables the system font directory lookup.
func NewFontResolver(files map[string]string, searchSystem bool) *FontResolver {
	normalized := make(map[string]string, len(files))
	for name, path := range files {
		normalized[strings.ToLower(name)] = path
	}
	return &FontResolver{
		files:  normalized,
		search: searchSystem,
		faces:  make(map[receipt.Font]font.Face),
	}
}

// Face returns the face for f, loading it on first use
func (r *FontResolver) Face(f receipt.Font) (font.Face, error) {
	if f.Height <= 0 {
		return nil, fmt.Errorf("invalid font height %d", f.Height)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if face, ok := r.faces[f]; ok {
		return face, nil
	}

	var face font.Face
	if path := r.lookup(f.Name); path != "" {
		loaded, err := gg.LoadFontFace(path, float64(f.Height))
		if err != nil {
			return nil, fmt.Errorf("failed to load font %s from %s: %w", f.Name, path, err)
		}
		face = loaded
	} else {
		embedded, err := embeddedFace(f)
		if err != nil {
			return nil, err
		}
		face = embedded
	}

	r.faces[f] = face
	return face, nil
}

func (r *FontResolver) lookup(name string) string {
	if name == "" {
		return ""
	}
	if path, ok := r.files[strings.ToLower(name)]; ok {
		return path
	}
	if !r.search {
		return ""
	}
	for _, dir := range fontDirs {
		for _, file := range []string{name + ".ttf", strings.ToLower(name) + ".ttf"} {
			path := filepath.Join(dir, file)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

func embeddedFace(f receipt.Font) (font.Face, error) {
	ttf := goregular.TTF
	if f.Weight >= 600 {
		ttf = gobold.TTF
	}
	parsed, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded font: %w", err)
	}
	return truetype.NewFace(parsed, &truetype.Options{Size: float64(f.Height)}), nil
}
