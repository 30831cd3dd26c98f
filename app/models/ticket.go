package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethodCode identifies how a payment was settled
type PaymentMethodCode string

const (
	PaymentCash        PaymentMethodCode = "cash"
	PaymentCard        PaymentMethodCode = "card"
	PaymentTransfer    PaymentMethodCode = "transfer"
	PaymentCreditCard  PaymentMethodCode = "credit_card"
	PaymentDebitCard   PaymentMethodCode = "debit_card"
	PaymentMercadoPago PaymentMethodCode = "mercadopago"
)

// Label returns the printable Spanish label for the payment method.
// Unknown codes pass through as their own label.
func (c PaymentMethodCode) Label() string {
	switch c {
	case PaymentCash:
		return "Efectivo"
	case PaymentCard:
		return "Tarjeta"
	case PaymentTransfer:
		return "Transferencia"
	case PaymentCreditCard:
		return "Tarjeta de Credito"
	case PaymentDebitCard:
		return "Tarjeta de Debito"
	case PaymentMercadoPago:
		return "MercadoPago"
	default:
		return string(c)
	}
}

// TicketItem is a single consumed product line on a receipt.
// TotalPrice is computed by the caller and printed as-is.
type TicketItem struct {
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// Validate rejects malformed item lines
func (i TicketItem) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("item name is required")
	}
	if i.Quantity < 0 {
		return fmt.Errorf("item %q: quantity must not be negative", i.Name)
	}
	if i.UnitPrice.IsNegative() {
		return fmt.Errorf("item %q: unit price must not be negative", i.Name)
	}
	if i.TotalPrice.IsNegative() {
		return fmt.Errorf("item %q: total price must not be negative", i.Name)
	}
	return nil
}

// TicketPayment is one settlement record on a receipt
type TicketPayment struct {
	PlayerName string            `json:"player_name,omitempty"`
	Method     PaymentMethodCode `json:"method"`
	Amount     decimal.Decimal   `json:"amount"`
}

// Validate rejects malformed payment records
func (p TicketPayment) Validate() error {
	if p.Amount.IsNegative() {
		return fmt.Errorf("payment amount must not be negative")
	}
	return nil
}

// TicketData is the full payload for a sale/booking receipt.
// Zero-valued optional amounts are treated as absent and not printed.
type TicketData struct {
	EstablishmentName string    `json:"establishment_name"`
	OrderNumber       string    `json:"order_number,omitempty"`
	CashierName       string    `json:"cashier_name,omitempty"`
	CreatedAt         time.Time `json:"created_at,omitempty"`

	// Reservation block, printed when any field is present
	CourtName   string `json:"court_name,omitempty"`
	Sport       string `json:"sport,omitempty"`
	BookingDate string `json:"booking_date,omitempty"`
	BookingTime string `json:"booking_time,omitempty"`

	ClientName string       `json:"client_name,omitempty"`
	Items      []TicketItem `json:"items,omitempty"`

	CourtPrice        decimal.Decimal `json:"court_price,omitempty"`
	ConsumptionsTotal decimal.Decimal `json:"consumptions_total,omitempty"`
	DepositPaid       decimal.Decimal `json:"deposit_paid,omitempty"`
	PaymentsDeclared  decimal.Decimal `json:"payments_declared,omitempty"`

	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PendingAmount decimal.Decimal `json:"pending_amount"`

	Payments []TicketPayment `json:"payments,omitempty"`

	// IsDirectSale selects the footer narrative and the QR payload
	IsDirectSale     bool   `json:"is_direct_sale"`
	EstablishmentURL string `json:"establishment_url,omitempty"`
	ReviewURL        string `json:"review_url,omitempty"`
}

// HasBooking reports whether any reservation field is present
func (t *TicketData) HasBooking() bool {
	return t.CourtName != "" || t.Sport != "" || t.BookingDate != "" || t.BookingTime != ""
}

// QRTarget returns the URL encoded into the receipt's QR code.
// Only completed bookings get review prompts; direct sales always
// point at the establishment page.
func (t *TicketData) QRTarget(fallback string) string {
	if !t.IsDirectSale && t.ReviewURL != "" {
		return t.ReviewURL
	}
	if t.EstablishmentURL != "" {
		return t.EstablishmentURL
	}
	return fallback
}

// Validate rejects malformed receipt payloads before encoding
func (t *TicketData) Validate() error {
	if t.EstablishmentName == "" {
		return fmt.Errorf("establishment name is required")
	}
	if t.TotalAmount.IsNegative() {
		return fmt.Errorf("total amount must not be negative")
	}
	if t.PaidAmount.IsNegative() {
		return fmt.Errorf("paid amount must not be negative")
	}
	if t.PendingAmount.IsNegative() {
		return fmt.Errorf("pending amount must not be negative")
	}
	for _, amount := range []decimal.Decimal{t.CourtPrice, t.ConsumptionsTotal, t.DepositPaid, t.PaymentsDeclared} {
		if amount.IsNegative() {
			return fmt.Errorf("financial breakdown amounts must not be negative")
		}
	}
	for _, item := range t.Items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	for _, payment := range t.Payments {
		if err := payment.Validate(); err != nil {
			return err
		}
	}
	return nil
}
