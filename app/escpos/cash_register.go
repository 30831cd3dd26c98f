package escpos

import (
	"fmt"
	"strings"

	"CourtPrint/app/models"

	"github.com/shopspring/decimal"
)

const registerIDLength = 8

// GenerateCashRegisterTicketData renders the end-of-shift closing report.
// No QR code is emitted: there is no review or booking driver for this
// document type.
func GenerateCashRegisterTicketData(data *models.CashRegisterTicketData, p Profile) ([]byte, error) {
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cash register data: %w", err)
	}

	b := newBuilder(p)

	// Header
	b.raw(alignCenter)
	b.raw(doubleHeightOn)
	b.bold(true)
	b.line(data.EstablishmentName)
	b.bold(false)
	b.raw(doubleHeightOff)
	b.boldLine("CIERRE DE CAJA")
	if data.RegisterID != "" {
		id := data.RegisterID
		if len(id) > registerIDLength {
			id = id[:registerIDLength]
		}
		b.line("Caja #" + strings.ToUpper(id))
	}
	b.raw(alignLeft)

	if data.CashierName != "" {
		b.twoColumns("Cajero:", data.CashierName)
	}
	if !data.OpenedAt.IsZero() {
		b.twoColumns("Apertura:", data.OpenedAt.Format("02/01/2006 15:04"))
	}
	if !data.ClosedAt.IsZero() {
		b.twoColumns("Cierre:", data.ClosedAt.Format("02/01/2006 15:04"))
	}

	// Sales by payment method, zero-amount entries suppressed
	b.separator()
	b.boldLine("VENTAS POR METODO")
	for _, pm := range data.PaymentMethods {
		if !pm.Amount.IsPositive() {
			continue
		}
		label := fmt.Sprintf("%s (%d):", pm.Name, pm.Count)
		b.twoColumns(label, FormatPrice(pm.Amount))
	}

	if len(data.Products) > 0 {
		b.separator()
		b.boldLine("PRODUCTOS VENDIDOS")
		for _, product := range data.Products {
			value := fmt.Sprintf("x%d %s", product.Quantity, FormatPrice(product.Total))
			b.twoColumns(product.Name, value)
		}
	}

	if len(data.Expenses) > 0 {
		b.separator()
		b.boldLine("GASTOS")
		for _, expense := range data.Expenses {
			b.twoColumns(expense.Description, FormatPrice(expense.Amount.Neg()))
			b.line("  " + expense.PaymentMethod.Label())
		}
	}

	// Reconciliation summary
	b.separator()
	b.twoColumns("Caja inicial:", FormatPrice(data.InitialCash))
	b.bold(true)
	b.twoColumns("Ventas totales:", FormatPrice(data.TotalSales))
	b.bold(false)
	b.twoColumns("Gastos:", FormatPrice(data.TotalExpenses.Neg()))
	b.separator()
	b.bold(true)
	b.twoColumns("Efectivo esperado:", FormatPrice(data.ExpectedCash))
	b.bold(false)
	b.twoColumns("Efectivo contado:", FormatPrice(data.ActualCash))
	b.bold(true)
	difference := FormatPrice(data.CashDifference)
	if !data.CashDifference.IsNegative() {
		difference = "+" + difference
	}
	b.twoColumns("Diferencia:", difference)
	b.bold(false)

	// Bill denomination breakdown, empty denominations suppressed
	if hasBillCounts(data.BillCounts) {
		b.separator()
		b.boldLine("BILLETES")
		for _, bill := range data.BillCounts {
			if bill.Count <= 0 {
				continue
			}
			total := decimal.NewFromInt(bill.Denomination).Mul(decimal.NewFromInt(int64(bill.Count)))
			label := fmt.Sprintf("$%d  x%d", bill.Denomination, bill.Count)
			b.twoColumns(label, FormatPrice(total))
		}
	}

	b.separator()
	b.separator()
	b.twoColumns("Ordenes del turno:", fmt.Sprintf("%d", data.TotalOrders))

	b.feed(1)
	b.raw(alignCenter)
	b.line("Turno cerrado correctamente")
	b.feed(1)

	if p.PrintLogo {
		b.raw(LogoCommands())
	}

	b.feed(3)
	b.raw(cutPaper)
	return b.bytes(), nil
}

func hasBillCounts(bills []models.BillCount) bool {
	for _, bill := range bills {
		if bill.Count > 0 {
			return true
		}
	}
	return false
}
