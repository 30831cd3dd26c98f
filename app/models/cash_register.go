package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CashRegisterTicketPaymentMethod sums one payment method over a register session
type CashRegisterTicketPaymentMethod struct {
	Name   string            `json:"name"`
	Code   PaymentMethodCode `json:"code"`
	Amount decimal.Decimal   `json:"amount"`
	Count  int               `json:"count"`
}

// CashRegisterTicketProduct sums one product sold over a register session
type CashRegisterTicketProduct struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

// CashRegisterTicketExpense is a cash outflow registered during the session
type CashRegisterTicketExpense struct {
	Description   string            `json:"description"`
	Amount        decimal.Decimal   `json:"amount"`
	PaymentMethod PaymentMethodCode `json:"payment_method"`
}

// BillCount is the tally of one bill denomination in the closing cash count
type BillCount struct {
	Denomination int64 `json:"denomination"`
	Count        int   `json:"count"`
}

// CashRegisterTicketData is the end-of-shift closing report payload.
// CashDifference is signed: positive means surplus.
type CashRegisterTicketData struct {
	EstablishmentName string    `json:"establishment_name"`
	RegisterID        string    `json:"register_id"`
	CashierName       string    `json:"cashier_name"`
	OpenedAt          time.Time `json:"opened_at"`
	ClosedAt          time.Time `json:"closed_at"`

	InitialCash    decimal.Decimal `json:"initial_cash"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalExpenses  decimal.Decimal `json:"total_expenses"`
	ExpectedCash   decimal.Decimal `json:"expected_cash"`
	ActualCash     decimal.Decimal `json:"actual_cash"`
	CashDifference decimal.Decimal `json:"cash_difference"`
	TotalOrders    int             `json:"total_orders"`

	PaymentMethods []CashRegisterTicketPaymentMethod `json:"payment_methods"`
	Products       []CashRegisterTicketProduct       `json:"products,omitempty"`
	Expenses       []CashRegisterTicketExpense       `json:"expenses,omitempty"`
	BillCounts     []BillCount                       `json:"bill_counts,omitempty"`
}

// Validate rejects malformed closing reports before encoding
func (c *CashRegisterTicketData) Validate() error {
	if c.EstablishmentName == "" {
		return fmt.Errorf("establishment name is required")
	}
	if c.InitialCash.IsNegative() {
		return fmt.Errorf("initial cash must not be negative")
	}
	if c.TotalSales.IsNegative() {
		return fmt.Errorf("total sales must not be negative")
	}
	if c.TotalExpenses.IsNegative() {
		return fmt.Errorf("total expenses must not be negative")
	}
	if c.TotalOrders < 0 {
		return fmt.Errorf("order count must not be negative")
	}
	for _, pm := range c.PaymentMethods {
		if pm.Amount.IsNegative() {
			return fmt.Errorf("payment method %q: amount must not be negative", pm.Name)
		}
		if pm.Count < 0 {
			return fmt.Errorf("payment method %q: count must not be negative", pm.Name)
		}
	}
	for _, p := range c.Products {
		if p.Quantity < 0 {
			return fmt.Errorf("product %q: quantity must not be negative", p.Name)
		}
		if p.Total.IsNegative() {
			return fmt.Errorf("product %q: total must not be negative", p.Name)
		}
	}
	for _, e := range c.Expenses {
		if e.Amount.IsNegative() {
			return fmt.Errorf("expense %q: amount must not be negative", e.Description)
		}
	}
	for _, b := range c.BillCounts {
		if b.Denomination <= 0 {
			return fmt.Errorf("bill denomination must be positive")
		}
		if b.Count < 0 {
			return fmt.Errorf("bill count must not be negative")
		}
	}
	return nil
}
