package printing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hidenkeys/receipt/internal/domain/receipt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"
)

func TestFontResolver_EmbeddedFallback(t *testing.T) {
	r := NewFontResolver(nil, false)
	arial := receipt.Font{Name: "Arial", Height: 24, Weight: 400}

	face, err := r.Face(arial)
	require.NoError(t, err)
	assert.Greater(t, face.Metrics().Height.Ceil(), 0)

	again, err := r.Face(arial)
	require.NoError(t, err)
	assert.Same(t, face, again)

	bold, err := r.Face(receipt.Font{Name: "Arial", Height: 24, Weight: 700})
	require.NoError(t, err)
	assert.NotSame(t, face, bold)
}

func TestFontResolver_InvalidHeight(t *testing.T) {
	r := NewFontResolver(nil, false)
	_, err := r.Face(receipt.Font{Name: "Arial"})
	assert.Error(t, err)
}

func TestFontResolver_ConfiguredFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mono.ttf")
	require.NoError(t, os.WriteFile(path, gomono.TTF, 0644))

	r := NewFontResolver(map[string]string{"Courier": path}, false)

	face, err := r.Face(receipt.Font{Name: "courier", Height: 20, Weight: 400})
	require.NoError(t, err)
	assert.NotNil(t, face)
}

func TestFontResolver_MissingConfiguredFile(t *testing.T) {
	r := NewFontResolver(map[string]string{"Arial": filepath.Join(t.TempDir(), "missing.ttf")}, false)

	_, err := r.Face(receipt.Font{Name: "Arial", Height: 24, Weight: 400})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load font")
}
