package escpos

import (
	"bytes"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// qrMaxPayload is the model 2 symbol capacity. Longer payloads would
// produce a command the printer silently mangles, so they are rejected
// up front.
const qrMaxPayload = 7089

// QRCommands builds the native GS ( k command block that stores and
// prints a QR symbol for the given URL: model selection, module size,
// error correction, length-prefixed data store and the print order,
// preceded by a center-alignment escape.
func QRCommands(url string, p Profile) ([]byte, error) {
	data := []byte(url)
	if len(data) > qrMaxPayload {
		return nil, fmt.Errorf("qr payload is %d bytes, printer limit is %d", len(data), qrMaxPayload)
	}

	storeLen := len(data) + 3
	pL := byte(storeLen % 256)
	pH := byte(storeLen / 256)

	var buf bytes.Buffer
	buf.Write(alignCenter)
	// Select model 2
	buf.Write([]byte{GS, '(', 'k', 4, 0, 0x31, 0x41, 0x32, 0x00})
	// Module size in dots
	buf.Write([]byte{GS, '(', 'k', 3, 0, 0x31, 0x43, p.QRModuleSize})
	// Error correction level
	buf.Write([]byte{GS, '(', 'k', 3, 0, 0x31, 0x45, p.QRCorrection})
	// Store symbol data
	buf.Write([]byte{GS, '(', 'k', pL, pH, 0x31, 0x50, 0x30})
	buf.Write(data)
	// Print the stored symbol
	buf.Write([]byte{GS, '(', 'k', 3, 0, 0x31, 0x51, 0x30})
	return buf.Bytes(), nil
}

// RasterQRCommands renders the QR symbol in software and emits it as a
// GS v 0 raster block, for printer firmware without GS ( k support.
func RasterQRCommands(url string, p Profile) ([]byte, error) {
	qr, err := qrcode.New(url, qrcode.Low)
	if err != nil {
		return nil, fmt.Errorf("failed to generate qr code: %w", err)
	}

	modules := qr.Bitmap()
	scale := int(p.QRModuleSize)
	if scale < 1 {
		scale = 1
	}
	side := len(modules) * scale
	widthBytes := (side + 7) / 8

	var buf bytes.Buffer
	buf.Write(alignCenter)
	buf.Write([]byte{GS, 'v', '0', 0})
	buf.WriteByte(byte(widthBytes % 256))
	buf.WriteByte(byte(widthBytes / 256))
	buf.WriteByte(byte(side % 256))
	buf.WriteByte(byte(side / 256))

	row := make([]byte, widthBytes)
	for my := 0; my < len(modules); my++ {
		for i := range row {
			row[i] = 0
		}
		for mx := 0; mx < len(modules[my]); mx++ {
			if !modules[my][mx] {
				continue
			}
			for s := 0; s < scale; s++ {
				x := mx*scale + s
				row[x/8] |= 1 << uint(7-x%8)
			}
		}
		for s := 0; s < scale; s++ {
			buf.Write(row)
		}
	}
	buf.WriteByte(NL)
	return buf.Bytes(), nil
}
