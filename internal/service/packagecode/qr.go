package packagecode

import qrcode "github.com/skip2/go-qrcode"

// qrSize is the pixel size of the generated PNG.
const qrSize = 256

// QREncoder encodes package codes as QR PNG images.
type QREncoder struct{}

// NewQREncoder returns the production Encoder.
func NewQREncoder() Encoder { return QREncoder{} }

// Encode renders the code as a PNG-encoded QR image.
func (QREncoder) Encode(text string) ([]byte, error) {
	return qrcode.Encode(text, qrcode.Medium, qrSize)
}
