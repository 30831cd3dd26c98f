package escpos

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"CourtPrint/app/models"
)

func textProfile() Profile {
	p := DefaultProfile()
	p.PrintLogo = false
	return p
}

func bookingTicket() *models.TicketData {
	return &models.TicketData{
		EstablishmentName: "Club Demo",
		OrderNumber:       "A-0042",
		CashierName:       "Lucia",
		CreatedAt:         time.Date(2026, 8, 15, 19, 30, 0, 0, time.UTC),
		CourtName:         "Cancha 3",
		Sport:             "Padel",
		BookingDate:       "15/08/2026",
		BookingTime:       "20:00 - 21:30",
		ClientName:        "Juan Perez",
		Items: []models.TicketItem{
			{Name: "Agua mineral", Quantity: 2, UnitPrice: decimal.NewFromInt(800), TotalPrice: decimal.NewFromInt(1600)},
		},
		CourtPrice:        decimal.NewFromInt(8400),
		ConsumptionsTotal: decimal.NewFromInt(1600),
		TotalAmount:       decimal.NewFromInt(10000),
		PaidAmount:        decimal.NewFromInt(10000),
		Payments: []models.TicketPayment{
			{PlayerName: "Juan", Method: models.PaymentCash, Amount: decimal.NewFromInt(10000)},
		},
		ReviewURL: "https://courtprint.app/r/club-demo",
	}
}

func TestGenerateTicketRejectsInvalidData(t *testing.T) {
	data := bookingTicket()
	data.TotalAmount = decimal.NewFromInt(-1)
	if _, err := GenerateTicketData(data, textProfile()); err == nil {
		t.Fatal("expected validation error for negative total")
	}

	data = bookingTicket()
	data.EstablishmentName = ""
	if _, err := GenerateTicketData(data, textProfile()); err == nil {
		t.Fatal("expected validation error for missing establishment name")
	}
}

func TestGenerateTicketPendingRow(t *testing.T) {
	data := bookingTicket()
	out, err := GenerateTicketData(data, textProfile())
	if err != nil {
		t.Fatalf("GenerateTicketData failed: %v", err)
	}
	if bytes.Contains(out, []byte("PENDIENTE")) {
		t.Error("fully paid ticket must not print a pending row")
	}

	data = bookingTicket()
	data.PaidAmount = decimal.NewFromInt(6000)
	data.PendingAmount = decimal.NewFromInt(4000)
	out, err = GenerateTicketData(data, textProfile())
	if err != nil {
		t.Fatalf("GenerateTicketData failed: %v", err)
	}
	pending := PadRight("PENDIENTE:", 42-len("$4.000,00")) + "$4.000,00"
	if !bytes.Contains(out, []byte(pending)) {
		t.Errorf("pending row %q missing", pending)
	}
}

func TestGenerateTicketFooterSelection(t *testing.T) {
	data := bookingTicket()
	out, err := GenerateTicketData(data, textProfile())
	if err != nil {
		t.Fatalf("GenerateTicketData failed: %v", err)
	}
	if !bytes.Contains(out, []byte("Como estuvo tu partido?")) {
		t.Error("booking ticket must carry the review footer")
	}
	if bytes.Contains(out, []byte("Reserva tu proximo partido")) {
		t.Error("booking ticket must not carry the direct-sale footer")
	}

	data = bookingTicket()
	data.IsDirectSale = true
	out, err = GenerateTicketData(data, textProfile())
	if err != nil {
		t.Fatalf("GenerateTicketData failed: %v", err)
	}
	if !bytes.Contains(out, []byte("Gracias por tu compra!")) {
		t.Error("direct sale must thank for the purchase")
	}
	if !bytes.Contains(out, []byte("Reserva tu proximo partido")) {
		t.Error("direct sale must carry the booking prompt footer")
	}
	if bytes.Contains(out, []byte("Como estuvo tu partido?")) {
		t.Error("direct sale must not ask for a review")
	}
}

func TestGenerateTicketQRPayloadSelection(t *testing.T) {
	storePrefix := []byte{0x31, 0x50, 0x30}
	stored := func(url string) []byte {
		return append(append([]byte{}, storePrefix...), []byte(url)...)
	}

	tests := []struct {
		name        string
		direct      bool
		review      string
		establ      string
		expectedURL string
	}{
		{"booking with review url", false, "https://r.test/review", "https://e.test", "https://r.test/review"},
		{"booking without review url", false, "", "https://e.test", "https://e.test"},
		{"booking with nothing", false, "", "", DefaultQRURL},
		{"direct sale ignores review url", true, "https://r.test/review", "https://e.test", "https://e.test"},
		{"direct sale with nothing", true, "", "", DefaultQRURL},
	}
	for _, tt := range tests {
		data := bookingTicket()
		data.IsDirectSale = tt.direct
		data.ReviewURL = tt.review
		data.EstablishmentURL = tt.establ
		out, err := GenerateTicketData(data, textProfile())
		if err != nil {
			t.Fatalf("%s: GenerateTicketData failed: %v", tt.name, err)
		}
		if !bytes.Contains(out, stored(tt.expectedURL)) {
			t.Errorf("%s: QR store block should carry %q", tt.name, tt.expectedURL)
		}
	}
}

func TestGenerateTicketSoftwareQRFallback(t *testing.T) {
	p := textProfile()
	p.NativeQR = false
	out, err := GenerateTicketData(bookingTicket(), p)
	if err != nil {
		t.Fatalf("GenerateTicketData failed: %v", err)
	}
	if bytes.Contains(out, []byte{GS, '(', 'k'}) {
		t.Error("raster fallback must not emit GS ( k commands")
	}
	if !bytes.Contains(out, []byte{GS, 'v', '0', 0}) {
		t.Error("raster fallback must emit a GS v 0 block")
	}
}

func TestGenerateTicketEndToEnd(t *testing.T) {
	out, err := GenerateTicketData(bookingTicket(), DefaultProfile())
	if err != nil {
		t.Fatalf("GenerateTicketData failed: %v", err)
	}

	if !bytes.HasSuffix(out, []byte{ESC, 'i'}) {
		t.Fatalf("cut command must be the final two bytes, got % X", out[len(out)-2:])
	}

	headerPrefix := []byte{ESC, 'a', 1, ESC, '!', 0x10, ESC, 'E', 1}
	if !bytes.HasPrefix(out, headerPrefix) {
		t.Errorf("header must open centered, double height, bold: % X", out[:9])
	}

	totalRow := PadRight("TOTAL:", 42-len("$10.000,00")) + "$10.000,00"
	if len(totalRow) != 42 {
		t.Fatalf("test expectation broken, total row is %d chars", len(totalRow))
	}

	required := []string{
		"Club Demo",
		"15/08/2026 19:30",
		"Atendido por: Lucia",
		"Orden: A-0042",
		"RESERVA",
		"Agua mineral",
		totalRow,
		"Juan (Efectivo):",
		strings.Repeat("-", 42),
	}
	last := -1
	for _, want := range required {
		idx := bytes.Index(out, []byte(want))
		if idx == -1 {
			t.Errorf("output missing %q", want)
			continue
		}
		if want == "Club Demo" || want == totalRow || want == "Juan (Efectivo):" {
			if idx < last {
				t.Errorf("%q printed out of order", want)
			}
			last = idx
		}
	}

	// Item quantity line right-aligns the line total
	itemRow := PadRight("  2 x $800,00", 42-len("$1.600,00")) + "$1.600,00"
	if !bytes.Contains(out, []byte(itemRow)) {
		t.Errorf("item row %q missing", itemRow)
	}

	if !bytes.Contains(out, []byte{GS, 'v', '0', 0}) {
		t.Error("default profile must include the logo raster block")
	}
}

func TestGenerateTicketDepositRendersNegative(t *testing.T) {
	data := bookingTicket()
	data.DepositPaid = decimal.NewFromInt(2000)
	out, err := GenerateTicketData(data, textProfile())
	if err != nil {
		t.Fatalf("GenerateTicketData failed: %v", err)
	}
	row := PadRight("Sena:", 42-len("-$2.000,00")) + "-$2.000,00"
	if !bytes.Contains(out, []byte(row)) {
		t.Errorf("deposit row %q missing", row)
	}
}

func TestGenerateTicketNarrowPaper(t *testing.T) {
	p := textProfile()
	p.Columns = 32
	p.PaperWidth = 58
	out, err := GenerateTicketData(bookingTicket(), p)
	if err != nil {
		t.Fatalf("GenerateTicketData failed: %v", err)
	}
	if !bytes.Contains(out, []byte(strings.Repeat("-", 32)+"\n")) {
		t.Error("separators must match the 32 column grid")
	}
	if bytes.Contains(out, []byte(strings.Repeat("-", 42))) {
		t.Error("58mm ticket must not contain 42 column separators")
	}
	totalRow := PadRight("TOTAL:", 32-len("$10.000,00")) + "$10.000,00"
	if !bytes.Contains(out, []byte(totalRow)) {
		t.Errorf("total row %q missing", totalRow)
	}
}
