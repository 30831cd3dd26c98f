package escpos

import (
	"strings"

	"github.com/shopspring/decimal"
)

// asciiReplacements maps characters outside the printer's 7-bit code page
// to their closest printable ASCII equivalent. The table is never mutated.
var asciiReplacements = map[rune]string{
	'á': "a", 'Á': "A",
	'é': "e", 'É': "E",
	'í': "i", 'Í': "I",
	'ó': "o", 'Ó': "O",
	'ú': "u", 'Ú': "U",
	'ü': "u", 'Ü': "U",
	'ñ': "n", 'Ñ': "N",
	'à': "a", 'À': "A",
	'è': "e", 'È': "E",
	'ì': "i", 'Ì': "I",
	'ò': "o", 'Ò': "O",
	'ù': "u", 'Ù': "U",
	'â': "a", 'ê': "e", 'î': "i", 'ô': "o", 'û': "u",
	'ä': "a", 'ë': "e", 'ï': "i", 'ö': "o",
	'ç': "c", 'Ç': "C",
	'¿': "?", '¡': "!",
	'‘': "'", '’': "'",
	'“': `"`, '”': `"`,
	'–': "-", '—': "-",
	'…': "...",
	'°': "o", 'º': "o", 'ª': "a",
	'€': "E",
	' ': " ",
}

// Sanitize reduces text to the printable ASCII range 0x20-0x7E. Mapped
// characters are transliterated; everything else is dropped. The printer
// firmware only supports a narrow code page, so silently dropping beats
// emitting garbled bytes.
func Sanitize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r >= 0x20 && r <= 0x7E {
			b.WriteRune(r)
			continue
		}
		if replacement, ok := asciiReplacements[r]; ok {
			b.WriteString(replacement)
		}
	}
	return b.String()
}

// PadRight truncates text to width, then pads it with trailing spaces
func PadRight(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if len(text) >= width {
		return text[:width]
	}
	return text + strings.Repeat(" ", width-len(text))
}

// PadLeft truncates text to width, then pads it with leading spaces
func PadLeft(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if len(text) >= width {
		return text[:width]
	}
	return strings.Repeat(" ", width-len(text)) + text
}

// FormatPrice renders an amount in the es-AR convention with a currency
// sign and exactly two decimals: 1234.5 -> "$1.234,50". Negative amounts
// render as "-$...".
func FormatPrice(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		grouped.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if grouped.Len() > 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteString(intPart[i : i+3])
	}

	out := "$" + grouped.String() + "," + fracPart
	if amount.IsNegative() {
		return "-" + out
	}
	return out
}
