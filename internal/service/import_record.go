package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"flowinvoice/internal/model"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// ImportRequest is the root of a bulk import document.
type ImportRequest struct {
	Invoices []InvoiceImportRecord `json:"invoices"`
}

// InvoiceImportRecord is one invoice as it appears in the import file.
// InvoiceStatus, DaysToDue and PaymentStatus are accepted but ignored; the
// service derives its own state.
type InvoiceImportRecord struct {
	InvoiceNumber      int64                    `json:"invoice_number"`
	InvoiceDate        ImportDate               `json:"invoice_date"`
	InvoiceStatus      string                   `json:"invoice_status,omitempty"`
	TotalAmount        decimal.Decimal          `json:"total_amount"`
	DaysToDue          int                      `json:"days_to_due,omitempty"`
	PaymentDueDate     ImportDate               `json:"payment_due_date"`
	PaymentStatus      string                   `json:"payment_status,omitempty"`
	InvoiceDetail      []ItemImportRecord       `json:"invoice_detail"`
	InvoicePayment     *PaymentImportRecord     `json:"invoice_payment,omitempty"`
	InvoiceCreditNotes []CreditNoteImportRecord `json:"invoice_credit_note,omitempty"`
	Customer           CustomerImportRecord     `json:"customer"`
}

type ItemImportRecord struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type PaymentImportRecord struct {
	PaymentMethod *string     `json:"payment_method"`
	PaymentDate   *ImportDate `json:"payment_date"`
}

type CreditNoteImportRecord struct {
	CreditNoteNumber int64           `json:"credit_note_number"`
	CreditNoteAmount decimal.Decimal `json:"credit_note_amount"`
	CreditNoteDate   ImportDate      `json:"credit_note_date"`
}

type CustomerImportRecord struct {
	CustomerRun   string `json:"customer_run"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
}

// Number is the invoice number used for storage and duplicate checks.
func (r InvoiceImportRecord) Number() string {
	return strconv.FormatInt(r.InvoiceNumber, 10)
}

func (r InvoiceImportRecord) paymentDate() *time.Time {
	if r.InvoicePayment == nil || r.InvoicePayment.PaymentDate == nil || r.InvoicePayment.PaymentDate.IsZero() {
		return nil
	}
	t := r.InvoicePayment.PaymentDate.UTC()
	return &t
}

func (r InvoiceImportRecord) statusInput() StatusInput {
	return StatusInput{
		DeclaredTotal: r.TotalAmount,
		ItemSubtotals: lo.Map(r.InvoiceDetail, func(it ItemImportRecord, _ int) decimal.Decimal {
			return it.Subtotal
		}),
		CreditNoteAmounts: lo.Map(r.InvoiceCreditNotes, func(cn CreditNoteImportRecord, _ int) decimal.Decimal {
			return cn.CreditNoteAmount
		}),
		DueDate:     r.PaymentDueDate.UTC(),
		PaymentDate: r.paymentDate(),
	}
}

// amountProblem describes the first money value that cannot be stored as is,
// or returns "" when every amount is usable.
func (r InvoiceImportRecord) amountProblem() string {
	if !model.FitsMoneyScale(r.TotalAmount) {
		return "total_amount has more than two decimal places"
	}
	for i, it := range r.InvoiceDetail {
		if !model.FitsMoneyScale(it.UnitPrice) || !model.FitsMoneyScale(it.Subtotal) {
			return fmt.Sprintf("invoice_detail[%d] has more than two decimal places", i)
		}
	}
	for i, cn := range r.InvoiceCreditNotes {
		if !cn.CreditNoteAmount.IsPositive() {
			return fmt.Sprintf("invoice_credit_note[%d] amount must be greater than zero", i)
		}
		if !model.FitsMoneyScale(cn.CreditNoteAmount) {
			return fmt.Sprintf("invoice_credit_note[%d] has more than two decimal places", i)
		}
	}
	return ""
}

// toInvoice maps the record 1:1 and stamps the derived state.
func (r InvoiceImportRecord) toInvoice(state model.DerivedState) *model.Invoice {
	var method *string
	if r.InvoicePayment != nil {
		method = r.InvoicePayment.PaymentMethod
	}

	return model.NewInvoice(model.InvoiceParams{
		InvoiceNumber: r.Number(),
		InvoiceDate:   r.InvoiceDate.UTC(),
		DueDate:       r.PaymentDueDate.UTC(),
		TotalAmount:   r.TotalAmount,
		CustomerRun:   r.Customer.CustomerRun,
		CustomerName:  r.Customer.CustomerName,
		CustomerEmail: r.Customer.CustomerEmail,
		PaymentMethod: method,
		PaymentDate:   r.paymentDate(),
		Items: lo.Map(r.InvoiceDetail, func(it ItemImportRecord, _ int) model.InvoiceItem {
			return model.InvoiceItem{
				ProductName: it.ProductName,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
				Subtotal:    it.Subtotal,
			}
		}),
		CreditNotes: lo.Map(r.InvoiceCreditNotes, func(cn CreditNoteImportRecord, _ int) model.CreditNote {
			return model.CreditNote{
				CreditNoteNumber: strconv.FormatInt(cn.CreditNoteNumber, 10),
				Amount:           cn.CreditNoteAmount,
				CreatedDate:      cn.CreditNoteDate.UTC(),
			}
		}),
	}, state)
}

// serialize renders the record for the import error log.
func (r InvoiceImportRecord) serialize() string {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf("%+v", r)
	}
	return string(raw)
}

// ImportDate accepts RFC3339 timestamps, zone-less timestamps and plain dates.
// Values without a zone are read as UTC.
type ImportDate struct {
	time.Time
}

var importDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (d *ImportDate) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}

	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized date %q", s)
}

func (d ImportDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.UTC().Format(time.RFC3339))
}

// NewImportDate wraps t for building records in code.
func NewImportDate(t time.Time) ImportDate {
	return ImportDate{Time: t.UTC()}
}
