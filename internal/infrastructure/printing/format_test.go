package printing

import (
	"go/format"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The windows driver is not compiled on other platforms, so a formatting
// slip there would otherwise go unnoticed.
func TestPlatformSourcesAreFormatted(t *testing.T) {
	files, err := filepath.Glob("gdi*.go")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			src, err := os.ReadFile(file)
			require.NoError(t, err)

			formatted, err := format.Source(src)
			require.NoError(t, err)
			assert.Equal(t, string(formatted), string(src), "%s is not gofmt-formatted", file)
		})
	}
}
