package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MoneyScale is the number of decimal places every money column keeps.
const MoneyScale = 2

// FitsMoneyScale reports whether d is stored without rounding.
func FitsMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyScale))
}

// InvoiceStatus reflects cumulative credit notes against the declared total.
type InvoiceStatus string

const (
	InvoiceIssued    InvoiceStatus = "Issued"
	InvoicePartial   InvoiceStatus = "Partial"
	InvoiceCancelled InvoiceStatus = "Cancelled"
)

// PaymentStatus reflects outstanding balance, due date and payment date.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentOverdue PaymentStatus = "Overdue"
	PaymentPaid    PaymentStatus = "Paid"
)

// Invoice is a customer invoice loaded from a bulk import.
// Status, PaymentStatus and IsConsistent are derived values and are only
// assigned through NewInvoice or the credit note workflow.
type Invoice struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceNumber string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"invoice_number"`
	InvoiceDate   time.Time       `gorm:"not null" json:"invoice_date"`
	DueDate       time.Time       `gorm:"not null;index" json:"due_date"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_amount"`

	CustomerRun   string `gorm:"type:varchar(20)" json:"customer_run"`
	CustomerName  string `gorm:"type:varchar(100)" json:"customer_name"`
	CustomerEmail string `gorm:"type:varchar(100)" json:"customer_email"`

	PaymentMethod *string    `gorm:"type:varchar(50)" json:"payment_method"`
	PaymentDate   *time.Time `json:"payment_date"`

	Status        InvoiceStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;index" json:"payment_status"`
	IsConsistent  bool          `gorm:"not null;index" json:"is_consistent"`

	// Version is bumped on every credit note so concurrent writers cannot
	// both apply against the same pending balance.
	Version int64 `gorm:"not null" json:"-"`

	Items       []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreditNotes []CreditNote  `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"credit_notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InvoiceItem is a product line. Subtotal is the declared value from the
// source document and is never recomputed from quantity and unit price.
type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	ProductName string          `gorm:"type:varchar(255);not null" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"subtotal"`
}

// CreditNote reduces the amount owed on exactly one invoice.
type CreditNote struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	CreditNoteNumber string          `gorm:"type:varchar(80);not null;index" json:"credit_note_number"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"credit_note_amount"`
	CreatedDate      time.Time       `gorm:"not null" json:"created_date"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (it *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return nil
}

func (cn *CreditNote) BeforeCreate(tx *gorm.DB) error {
	if cn.ID == uuid.Nil {
		cn.ID = uuid.New()
	}
	return nil
}

// InvoiceParams carries the caller-supplied fields of a new invoice.
type InvoiceParams struct {
	InvoiceNumber string
	InvoiceDate   time.Time
	DueDate       time.Time
	TotalAmount   decimal.Decimal
	CustomerRun   string
	CustomerName  string
	CustomerEmail string
	PaymentMethod *string
	PaymentDate   *time.Time
	Items         []InvoiceItem
	CreditNotes   []CreditNote
}

// DerivedState is the output of status derivation for an invoice.
type DerivedState struct {
	Status        InvoiceStatus
	PaymentStatus PaymentStatus
	IsConsistent  bool
}

// NewInvoice builds an invoice with its derived state supplied explicitly.
func NewInvoice(p InvoiceParams, state DerivedState) *Invoice {
	items := p.Items
	if items == nil {
		items = []InvoiceItem{}
	}
	notes := p.CreditNotes
	if notes == nil {
		notes = []CreditNote{}
	}

	return &Invoice{
		InvoiceNumber: p.InvoiceNumber,
		InvoiceDate:   p.InvoiceDate,
		DueDate:       p.DueDate,
		TotalAmount:   p.TotalAmount,
		CustomerRun:   p.CustomerRun,
		CustomerName:  p.CustomerName,
		CustomerEmail: p.CustomerEmail,
		PaymentMethod: p.PaymentMethod,
		PaymentDate:   p.PaymentDate,
		Status:        state.Status,
		PaymentStatus: state.PaymentStatus,
		IsConsistent:  state.IsConsistent,
		Version:       1,
		Items:         items,
		CreditNotes:   notes,
	}
}

// TotalCredited sums the amounts of all attached credit notes.
func (i *Invoice) TotalCredited() decimal.Decimal {
	total := decimal.Zero
	for _, cn := range i.CreditNotes {
		total = total.Add(cn.Amount)
	}
	return total
}

// ItemsSubtotal sums the declared item subtotals.
func (i *Invoice) ItemsSubtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range i.Items {
		total = total.Add(it.Subtotal)
	}
	return total
}

// PendingBalance is the declared total minus applied credit notes.
func (i *Invoice) PendingBalance() decimal.Decimal {
	return i.TotalAmount.Sub(i.TotalCredited())
}
