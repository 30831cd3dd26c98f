package escpos

// ESC/POS control bytes
const (
	ESC byte = 0x1B
	GS  byte = 0x1D
	NL  byte = 0x0A
)

var (
	boldOn          = []byte{ESC, 'E', 1}
	boldOff         = []byte{ESC, 'E', 0}
	doubleHeightOn  = []byte{ESC, '!', 0x10}
	doubleHeightOff = []byte{ESC, '!', 0x00}
	alignCenter     = []byte{ESC, 'a', 1}
	alignLeft       = []byte{ESC, 'a', 0}
	cutPaper        = []byte{ESC, 'i'}
)

// QRCorrectionL is the error-correction level byte sent with
// GS ( k function 169 on the supported printer family.
const QRCorrectionL byte = 0x31

// Profile describes the target printer's capabilities. All layout and
// command generation is parameterized on it so alternate paper widths
// or printer models are a configuration change.
type Profile struct {
	Columns      int  // character grid width
	PaperWidth   int  // mm
	QRModuleSize byte // QR module size in dots
	QRCorrection byte // one of the QRCorrection* constants
	NativeQR     bool // firmware supports the GS ( k family
	PrintLogo    bool
}

// DefaultProfile is the profile for the supported 80mm printers
func DefaultProfile() Profile {
	return Profile{
		Columns:      42,
		PaperWidth:   80,
		QRModuleSize: 4,
		QRCorrection: QRCorrectionL,
		NativeQR:     true,
		PrintLogo:    true,
	}
}
