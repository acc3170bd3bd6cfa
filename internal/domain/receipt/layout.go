package receipt

import (
	"image"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DocumentTitle is the spooler document name of every receipt
const DocumentTitle = "Hotel Booking Receipt"

const (
	dateLayout = "01/02/2006"
	timeLayout = "03:04 PM"
)

// Font describes the single text face a receipt is printed with
type Font struct {
	Name   string `json:"name"`
	Height int    `json:"height"` // Cell height in device units
	Weight int    `json:"weight"` // 400 is normal, 700 is bold
}

// Business is the static header printed under the logo
type Business struct {
	Name    string
	Address []string
}

// DefaultBusiness returns the hotel header printed on every receipt
func DefaultBusiness() Business {
	return Business{
		Name: "TIMELESS APARTMENTS AND BAR",
		Address: []string{
			"62 LANDBRIDGE AVENUE",
			"ONIRU, LAGOS STATE",
		},
	}
}

// Layout holds the fixed placement constants of the receipt page
type Layout struct {
	Origin         image.Point // Top-left corner of the logo; text shares its X
	ImageWidth     int         // Logo width after scaling
	ImageMargin    int         // Gap between the logo and the first text line
	LineHeight     int         // Vertical advance per text line
	SeparatorWidth int         // Number of dashes above the total
	Font           Font
}

// DefaultLayout returns the receipt layout
func DefaultLayout() Layout {
	return Layout{
		Origin:         image.Pt(100, 100),
		ImageWidth:     300,
		ImageMargin:    20,
		LineHeight:     30,
		SeparatorWidth: 30,
		Font: Font{
			Name:   "Arial",
			Height: 24,
			Weight: 400,
		},
	}
}

// ScaledHeight returns the logo height that keeps the source aspect ratio at
// ImageWidth. The result is truncated toward zero.
func (l Layout) ScaledHeight(srcWidth, srcHeight int) int {
	if srcWidth <= 0 || srcHeight <= 0 {
		return 0
	}
	return int(float64(srcHeight) * (float64(l.ImageWidth) / float64(srcWidth)))
}

// ImageRect returns where a logo of the given scaled height is drawn
func (l Layout) ImageRect(imageHeight int) image.Rectangle {
	return image.Rect(l.Origin.X, l.Origin.Y, l.Origin.X+l.ImageWidth, l.Origin.Y+imageHeight)
}

// Line is one text line placed at a device position
type Line struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Text string `json:"text"`
}

// Page is the complete content of a receipt: one image then text lines
type Page struct {
	ImageRect image.Rectangle
	Font      Font
	Lines     []Line
}

// Compose lays out the receipt for req printed at now under a logo of the
// given scaled height.
func (l Layout) Compose(req *Request, business Business, now time.Time, imageHeight int) *Page {
	texts := make([]string, 0, 10+len(business.Address))
	texts = append(texts, business.Name)
	texts = append(texts, business.Address...)
	texts = append(texts,
		"Date: "+FormatDate(now),
		"Time: "+FormatTime(now),
		"Guest Name: "+req.GuestName,
		"Room Type: "+req.RoomType,
		"Check-in Date: "+req.CheckInDate,
		"Check-out Date: "+req.CheckOutDate,
		strings.Repeat("-", l.SeparatorWidth),
		"Total Amount: $"+FormatAmount(req.TotalAmount),
		"Thank you for staying with us!",
	)

	rect := l.ImageRect(imageHeight)
	y := rect.Max.Y + l.ImageMargin
	lines := make([]Line, 0, len(texts))
	for _, text := range texts {
		lines = append(lines, Line{X: l.Origin.X, Y: y, Text: text})
		y += l.LineHeight
	}

	return &Page{
		ImageRect: rect,
		Font:      l.Font,
		Lines:     lines,
	}
}

// FormatAmount renders an amount with exactly two decimal places, rounding
// half away from zero (99.999 -> "100.00").
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// FormatDate renders the print date as MM/DD/YYYY
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// FormatTime renders the print time as hh:mm AM/PM
func FormatTime(t time.Time) string {
	return t.Format(timeLayout)
}
