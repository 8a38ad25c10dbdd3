package service

import (
	"time"

	"flowinvoice/internal/model"

	"github.com/shopspring/decimal"
)

// StatusInput is the raw data the derived invoice state depends on.
type StatusInput struct {
	DeclaredTotal     decimal.Decimal
	ItemSubtotals     []decimal.Decimal
	CreditNoteAmounts []decimal.Decimal
	DueDate           time.Time
	PaymentDate       *time.Time
}

// CalculateStatus derives invoice status, payment status and the consistency
// flag. It has no side effects; today is only compared by calendar date (UTC).
func CalculateStatus(in StatusInput, today time.Time) model.DerivedState {
	itemsTotal := sumDecimals(in.ItemSubtotals)
	credited := sumDecimals(in.CreditNoteAmounts)

	state := model.DerivedState{
		IsConsistent: itemsTotal.Equal(in.DeclaredTotal),
		Status:       DeriveInvoiceStatus(credited, in.DeclaredTotal),
	}

	outstanding := in.DeclaredTotal.Sub(credited)
	switch {
	case !outstanding.IsPositive():
		state.PaymentStatus = model.PaymentPaid
	case in.PaymentDate != nil:
		state.PaymentStatus = model.PaymentPaid
	case dateOnly(in.DueDate).Before(dateOnly(today)):
		state.PaymentStatus = model.PaymentOverdue
	default:
		state.PaymentStatus = model.PaymentPending
	}

	return state
}

// DeriveInvoiceStatus maps total credited against the declared total to
// Issued, Partial or Cancelled.
func DeriveInvoiceStatus(credited, declaredTotal decimal.Decimal) model.InvoiceStatus {
	switch {
	case credited.IsZero():
		return model.InvoiceIssued
	case credited.GreaterThanOrEqual(declaredTotal):
		return model.InvoiceCancelled
	default:
		return model.InvoicePartial
	}
}

func sumDecimals(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
