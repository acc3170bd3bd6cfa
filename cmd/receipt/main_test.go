package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var receiptArgs = []string{"POS-80", "Jane Doe", "Deluxe", "01/10/2026", "01/12/2026", "150000.50"}

// writePNGConfig points the png virtual printer at a temp directory and the
// logo at logoURL. Logs go to a file so test output stays clean.
func writePNGConfig(t *testing.T, logoURL string) (configPath, outputDir string) {
	t.Helper()
	dir := t.TempDir()
	outputDir = filepath.Join(dir, "receipts")
	content := fmt.Sprintf(`[log]
output = %q

[printer]
driver = "png"
output_dir = %q

[logo]
url = %q
timeout = "5s"
`, filepath.Join(dir, "receipt.log"), outputDir, logoURL)

	configPath = filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
	return configPath, outputDir
}

func logoPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func writtenPages(t *testing.T, outputDir string) []string {
	t.Helper()
	pages, err := filepath.Glob(filepath.Join(outputDir, "*", "*.png"))
	require.NoError(t, err)
	return pages
}

func TestRun_PrintsToPNGPrinter(t *testing.T) {
	logo := logoPNG(t)
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantCode int
		wantPNGs int
	}{
		{
			name: "logo served",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "image/png")
				_, _ = w.Write(logo)
			},
			wantCode: 0,
			wantPNGs: 1,
		},
		{
			name: "logo missing",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
			wantCode: 1,
			wantPNGs: 0,
		},
		{
			name: "logo is not an image",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("definitely not a png"))
			},
			wantCode: 1,
			wantPNGs: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			configPath, outputDir := writePNGConfig(t, srv.URL+"/logo.png")
			args := append([]string{"-config", configPath}, receiptArgs...)

			var stderr bytes.Buffer
			code := run(args, &stderr)

			assert.Equal(t, tt.wantCode, code, stderr.String())
			pages := writtenPages(t, outputDir)
			require.Len(t, pages, tt.wantPNGs)
			for _, page := range pages {
				assert.Equal(t, "POS-80", filepath.Base(filepath.Dir(page)))
				f, err := os.Open(page)
				require.NoError(t, err)
				_, err = png.Decode(f)
				_ = f.Close()
				assert.NoError(t, err)
			}
		})
	}
}

func TestRun_DoubleDashAllowsHyphenatedPrinter(t *testing.T) {
	var stderr bytes.Buffer
	code := run([]string{"--", "-POS-80", "Jane", "Deluxe", "01/10/2026", "01/12/2026", "abc"}, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Error:")
	assert.NotContains(t, stderr.String(), "Usage:")
}

func TestRun_UsageMentionsDoubleDash(t *testing.T) {
	var stderr bytes.Buffer
	code := run(nil, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "[--]")
	assert.Contains(t, stderr.String(), "Put -- before the arguments")
}

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no arguments", args: nil},
		{name: "too few", args: []string{"POS-80", "Jane", "Deluxe", "01/10/2026", "01/12/2026"}},
		{name: "too many", args: []string{"POS-80", "Jane", "Deluxe", "01/10/2026", "01/12/2026", "10", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			code := run(tt.args, &stderr)

			assert.Equal(t, 1, code)
			assert.Contains(t, stderr.String(), "Usage: receipt")
		})
	}
}

func TestRun_InvalidAmount(t *testing.T) {
	var stderr bytes.Buffer
	code := run([]string{"POS-80", "Jane", "Deluxe", "01/10/2026", "01/12/2026", "abc"}, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Error:")
	assert.NotContains(t, stderr.String(), "Usage:")
}

func TestRun_UnknownFlag(t *testing.T) {
	var stderr bytes.Buffer
	code := run([]string{"-bogus"}, &stderr)

	assert.Equal(t, 1, code)
}

func TestRun_MissingConfigFile(t *testing.T) {
	var stderr bytes.Buffer
	code := run([]string{"-config", "/nonexistent/receipt.toml", "POS-80", "Jane", "Deluxe", "01/10/2026", "01/12/2026", "10"}, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Failed to load configuration")
}
