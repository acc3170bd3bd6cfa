// Package printing provides printer drivers for receipts.
//
// A Driver acquires a named printer and hands back a Surface, a device
// context with the spooler call order (StartDoc, StartPage, drawing,
// EndPage, EndDoc). Drivers:
//
//   - gdi: the Windows spooler through winspool and gdi32
//   - cups: pages are rasterized to PNG and submitted with lp
//   - png: virtual printer writing one PNG per page
//   - pdf: virtual printer rendering through headless Chrome
//
// The cups, png and pdf drivers share a recording surface that keeps pages
// in memory and delivers them when the document ends, so an aborted
// document never reaches the device.
//
// Example usage:
//
//	driver, err := NewDriver(&DriverConfig{Driver: DriverPNG, OutputDir: "out"}, logger)
//	if err != nil {
//	    return err
//	}
//	surface, err := driver.Open(ctx, "POS-80")
//	if err != nil {
//	    return err
//	}
//	defer surface.Close()
package printing
