// Package logo downloads the receipt logo and prepares it for printing:
// it resolves the logo URL (plain or Cloudinary asset), fetches the bytes
// over HTTP, decodes them into an opaque RGB raster and scales the raster
// to the receipt's logo width.
package logo
