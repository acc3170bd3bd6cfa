package printing

import (
	"image"

	"go.uber.org/zap"
)

// GDIDriverConfig contains configuration for the Windows GDI driver
type GDIDriverConfig struct {
	// Logger for operations
	Logger *zap.Logger
}

// toDIB converts img to the pixel layout of a top-down 24-bit DIB:
// BGR triples, each row padded to a multiple of four bytes.
func toDIB(img image.Image) (data []byte, width, height int) {
	b := img.Bounds()
	width, height = b.Dx(), b.Dy()
	stride := dibStride(width)
	data = make([]byte, stride*height)
	for y := 0; y < height; y++ {
		row := data[y*stride:]
		for x := 0; x < width; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			row[x*3] = byte(bl >> 8)
			row[x*3+1] = byte(g >> 8)
			row[x*3+2] = byte(r >> 8)
		}
	}
	return data, width, height
}

// dibStride returns the padded row size of a 24-bit DIB
func dibStride(width int) int {
	return (width*3 + 3) &^ 3
}
