package printing

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/hidenkeys/receipt/internal/domain/receipt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func printTestPage(t *testing.T, s Surface) {
	t.Helper()
	require.NoError(t, s.StartDoc(receipt.DocumentTitle))
	require.NoError(t, s.StartPage())
	require.NoError(t, s.DrawImage(solidImage(30, 10, color.Black), image.Rect(100, 100, 400, 200)))
	require.NoError(t, s.SetFont(receipt.DefaultLayout().Font))
	require.NoError(t, s.TextOut(100, 220, "Thank you for staying with us!"))
	require.NoError(t, s.EndPage())
	require.NoError(t, s.EndDoc())
}

func TestNewPNGDriver(t *testing.T) {
	t.Run("requires output dir", func(t *testing.T) {
		_, err := NewPNGDriver(nil)
		require.Error(t, err)
		assert.True(t, receipt.IsCode(err, receipt.ErrCodePrinter))

		_, err = NewPNGDriver(&PNGDriverConfig{})
		assert.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		d, err := NewPNGDriver(&PNGDriverConfig{OutputDir: t.TempDir()})
		require.NoError(t, err)
		assert.Equal(t, DriverPNG, d.Name())
		assert.NotNil(t, d.config.Rasterizer)
		assert.NoError(t, d.Close())
	})
}

func TestPNGDriver_Print(t *testing.T) {
	base := t.TempDir()
	d, err := NewPNGDriver(&PNGDriverConfig{OutputDir: base})
	require.NoError(t, err)

	s, err := d.Open(context.Background(), "POS-80-test1")
	require.NoError(t, err)
	printTestPage(t, s)
	require.NoError(t, s.Close())

	files, err := filepath.Glob(filepath.Join(base, "POS-80-test1", "*-p1.png"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	f, err := os.Open(files[0])
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, img.Bounds().Dx(), defaultMinPageWidth)
	assert.Greater(t, img.Bounds().Dy(), 220)
}

func TestPNGDriver_AbortWritesNothing(t *testing.T) {
	base := t.TempDir()
	d, err := NewPNGDriver(&PNGDriverConfig{OutputDir: base})
	require.NoError(t, err)

	s, err := d.Open(context.Background(), "POS-80")
	require.NoError(t, err)
	require.NoError(t, s.StartDoc(receipt.DocumentTitle))
	require.NoError(t, s.StartPage())
	require.NoError(t, s.TextOut(100, 100, "partial"))
	require.NoError(t, s.AbortDoc())
	require.NoError(t, s.Close())

	entries, err := os.ReadDir(filepath.Join(base, "POS-80"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPrinterDir(t *testing.T) {
	tests := []struct {
		name    string
		printer string
		wantErr bool
	}{
		{"plain", "POS-80", false},
		{"spaces", "Front Desk", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"dot", ".", true},
		{"parent", "..", true},
		{"slash", "a/b", true},
		{"backslash", `\\server\printer`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, err := printerDir("/out", tt.printer)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, receipt.IsCode(err, receipt.ErrCodePrinter))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Join("/out", tt.printer), dir)
		})
	}
}
