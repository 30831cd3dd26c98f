package escpos

import (
	"fmt"
	"time"

	"CourtPrint/app/models"
)

// DefaultQRURL is encoded when the ticket carries no establishment or
// review URL of its own.
const DefaultQRURL = "https://www.courtprint.app"

// GenerateTicketData renders a sale/booking receipt into a complete
// ESC/POS byte stream: formatted text, QR block, logo block and the
// trailing feed-and-cut. The cut command is always the final two bytes.
func GenerateTicketData(data *models.TicketData, p Profile) ([]byte, error) {
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ticket data: %w", err)
	}

	b := newBuilder(p)

	// Header
	b.raw(alignCenter)
	b.raw(doubleHeightOn)
	b.bold(true)
	b.line(data.EstablishmentName)
	b.bold(false)
	b.raw(doubleHeightOff)

	created := data.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	b.line(created.Format("02/01/2006 15:04"))
	if data.CashierName != "" {
		b.line("Atendido por: " + data.CashierName)
	}
	if data.OrderNumber != "" {
		b.line("Orden: " + data.OrderNumber)
	}
	b.raw(alignLeft)

	// Reservation block
	if data.HasBooking() {
		b.separator()
		b.boldLine("RESERVA")
		if data.CourtName != "" {
			b.twoColumns("Cancha:", data.CourtName)
		}
		if data.Sport != "" {
			b.twoColumns("Deporte:", data.Sport)
		}
		if data.BookingDate != "" {
			b.twoColumns("Fecha:", data.BookingDate)
		}
		if data.BookingTime != "" {
			b.twoColumns("Hora:", data.BookingTime)
		}
	}

	if data.ClientName != "" {
		b.separator()
		b.twoColumns("Cliente:", data.ClientName)
	}

	// Consumptions
	if len(data.Items) > 0 {
		b.separator()
		b.boldLine("CONSUMOS")
		for _, item := range data.Items {
			b.boldLine(item.Name)
			qty := fmt.Sprintf("  %d x %s", item.Quantity, FormatPrice(item.UnitPrice))
			b.twoColumns(qty, FormatPrice(item.TotalPrice))
		}
	}

	// Financial breakdown: only the non-zero optional components
	b.separator()
	if !data.CourtPrice.IsZero() {
		b.twoColumns("Alquiler de cancha:", FormatPrice(data.CourtPrice))
	}
	if !data.ConsumptionsTotal.IsZero() {
		b.twoColumns("Consumos:", FormatPrice(data.ConsumptionsTotal))
	}
	if !data.DepositPaid.IsZero() {
		b.twoColumns("Seña:", FormatPrice(data.DepositPaid.Neg()))
	}
	if !data.PaymentsDeclared.IsZero() {
		b.twoColumns("Pagos registrados:", FormatPrice(data.PaymentsDeclared.Neg()))
	}
	b.separator()
	b.bold(true)
	b.twoColumns("TOTAL:", FormatPrice(data.TotalAmount))
	b.bold(false)
	b.twoColumns("Pagado:", FormatPrice(data.PaidAmount))
	if data.PendingAmount.IsPositive() {
		b.bold(true)
		b.twoColumns("PENDIENTE:", FormatPrice(data.PendingAmount))
		b.bold(false)
	}

	// Payments
	if len(data.Payments) > 0 {
		b.separator()
		b.boldLine("PAGOS")
		for _, payment := range data.Payments {
			name := payment.PlayerName
			if name == "" {
				name = "Pago"
			}
			label := fmt.Sprintf("%s (%s):", name, payment.Method.Label())
			b.twoColumns(label, FormatPrice(payment.Amount))
		}
	}

	// Promotional footer
	b.feed(1)
	b.raw(alignCenter)
	if data.IsDirectSale {
		b.line("Gracias por tu compra!")
		b.boldLine("Reserva tu proximo partido")
		b.line("escaneando el codigo QR")
	} else {
		b.boldLine("Como estuvo tu partido?")
		b.line("Escanea el QR y dejanos tu opinion")
	}
	b.feed(1)

	qr, err := qrBlock(data.QRTarget(DefaultQRURL), p)
	if err != nil {
		return nil, err
	}
	b.raw(qr)
	b.feed(1)

	if p.PrintLogo {
		b.raw(LogoCommands())
	}

	b.feed(3)
	b.raw(cutPaper)
	return b.bytes(), nil
}

// qrBlock picks the native GS ( k generator or the software raster
// fallback depending on the printer profile.
func qrBlock(url string, p Profile) ([]byte, error) {
	if p.NativeQR {
		return QRCommands(url, p)
	}
	return RasterQRCommands(url, p)
}
