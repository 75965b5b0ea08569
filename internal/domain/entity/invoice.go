package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/faarish/invoicing-api/pkg/money"
)

// Invoice is the persisted billing document: header fields, a discount
// and an ordered list of line items.
type Invoice struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	InvoiceNumber  string       `gorm:"size:100;uniqueIndex;not null" json:"invoiceNumber"`
	Date           string       `gorm:"size:32;index" json:"date"`
	DueDate        string       `gorm:"size:32" json:"dueDate"`
	CompanyName    string       `gorm:"size:255" json:"companyName"`
	CompanyAddress string       `gorm:"type:text" json:"companyAddress"`
	BillTo         string       `gorm:"type:text" json:"billTo"`
	DeliverTo      string       `gorm:"type:text" json:"deliverTo"`
	Notes          string       `gorm:"type:text" json:"notes"`
	BankDetails    string       `gorm:"type:text" json:"bankDetails"`
	Discount       money.Amount `gorm:"type:numeric(15,2);default:0" json:"discount"`
	Subtotal       money.Amount `gorm:"type:numeric(15,2);default:0" json:"subtotal"`
	Total          money.Amount `gorm:"type:numeric(15,2);default:0" json:"total"`
	Items          LineItems    `gorm:"type:jsonb" json:"items"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// Recalculate derives subtotal and total from the line items and the
// discount. The stored total is never negative.
func (inv *Invoice) Recalculate() {
	inv.Subtotal = Subtotal(inv.Items)
	inv.Total = GrandTotal(inv.Subtotal, inv.Discount)
}

// LineItem is one billable row. Qty and Rate coerce unparseable input
// to zero when decoded, so a malformed row contributes nothing to the
// subtotal instead of rejecting the invoice.
type LineItem struct {
	Type string       `json:"type"`
	Qty  money.Amount `json:"qty"`
	Rate money.Amount `json:"rate"`
}

// LineItems is stored inside the invoice row as a JSON blob, keeping
// insertion order.
type LineItems []LineItem

// Value implements driver.Valuer for the embedded JSON column.
func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		l = LineItems{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *LineItems) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type %T for line items", value)
	}
}

// Subtotal sums qty*rate over all line items.
func Subtotal(items LineItems) money.Amount {
	sum := money.Zero()
	for _, item := range items {
		sum = sum.Add(item.Qty.Mul(item.Rate))
	}
	return sum
}

// GrandTotal applies the discount to the subtotal, clamped at zero so a
// discount larger than the subtotal never yields a negative total.
func GrandTotal(subtotal, discount money.Amount) money.Amount {
	total := subtotal.Sub(discount)
	if total.IsNegative() {
		return money.Zero()
	}
	return total
}

// InvoiceSummary is the projection returned by the list endpoint. Item
// detail stays out of it to keep the payload small.
type InvoiceSummary struct {
	ID            uint         `json:"id"`
	InvoiceNumber string       `json:"invoiceNumber"`
	Date          string       `json:"date"`
	Total         money.Amount `json:"total"`
}
