package escpos

import (
	"bytes"
	_ "embed"
)

// The logo is rasterized once, offline, into a monochrome bitmap laid
// out row by row at 8 dots per byte. The encoder treats it as opaque.
//
//go:embed assets/logo.bin
var logoBitmap []byte

const logoWidthBytes = 40

// LogoCommands emits a center-alignment escape followed by the GS v 0
// raster command carrying the embedded logo bitmap verbatim.
func LogoCommands() []byte {
	height := len(logoBitmap) / logoWidthBytes

	var buf bytes.Buffer
	buf.Write(alignCenter)
	buf.Write([]byte{GS, 'v', '0', 0})
	buf.WriteByte(byte(logoWidthBytes % 256))
	buf.WriteByte(byte(logoWidthBytes / 256))
	buf.WriteByte(byte(height % 256))
	buf.WriteByte(byte(height / 256))
	buf.Write(logoBitmap)
	return buf.Bytes()
}
