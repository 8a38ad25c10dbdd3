package service_test

import (
	"testing"
	"time"

	"flowinvoice/internal/model"
	"flowinvoice/internal/service"
	"flowinvoice/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var today = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func decs(t *testing.T, values ...string) []decimal.Decimal {
	t.Helper()
	out := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		out = append(out, testutil.Dec(t, v))
	}
	return out
}

func TestCalculateStatus(t *testing.T) {
	paid := today.AddDate(0, 0, -3)

	tests := []struct {
		name string
		in   service.StatusInput
		want model.DerivedState
	}{
		{
			name: "no credits, due in future",
			in: service.StatusInput{
				DeclaredTotal: testutil.Dec(t, "100.00"),
				ItemSubtotals: decs(t, "60.00", "40.00"),
				DueDate:       today.AddDate(0, 0, 10),
			},
			want: model.DerivedState{Status: model.InvoiceIssued, PaymentStatus: model.PaymentPending, IsConsistent: true},
		},
		{
			name: "partial credit, past due",
			in: service.StatusInput{
				DeclaredTotal:     testutil.Dec(t, "100.00"),
				ItemSubtotals:     decs(t, "100.00"),
				CreditNoteAmounts: decs(t, "30.00"),
				DueDate:           today.AddDate(0, 0, -1),
			},
			want: model.DerivedState{Status: model.InvoicePartial, PaymentStatus: model.PaymentOverdue, IsConsistent: true},
		},
		{
			name: "fully credited in several notes",
			in: service.StatusInput{
				DeclaredTotal:     testutil.Dec(t, "100.00"),
				ItemSubtotals:     decs(t, "100.00"),
				CreditNoteAmounts: decs(t, "40.00", "60.00"),
				DueDate:           today.AddDate(0, 0, -40),
			},
			want: model.DerivedState{Status: model.InvoiceCancelled, PaymentStatus: model.PaymentPaid, IsConsistent: true},
		},
		{
			name: "over credited still cancelled",
			in: service.StatusInput{
				DeclaredTotal:     testutil.Dec(t, "50.00"),
				ItemSubtotals:     decs(t, "50.00"),
				CreditNoteAmounts: decs(t, "75.00"),
				DueDate:           today.AddDate(0, 0, 5),
			},
			want: model.DerivedState{Status: model.InvoiceCancelled, PaymentStatus: model.PaymentPaid, IsConsistent: true},
		},
		{
			name: "payment date wins over overdue",
			in: service.StatusInput{
				DeclaredTotal: testutil.Dec(t, "80.00"),
				ItemSubtotals: decs(t, "80.00"),
				DueDate:       today.AddDate(0, 0, -20),
				PaymentDate:   &paid,
			},
			want: model.DerivedState{Status: model.InvoiceIssued, PaymentStatus: model.PaymentPaid, IsConsistent: true},
		},
		{
			name: "due today is not overdue",
			in: service.StatusInput{
				DeclaredTotal: testutil.Dec(t, "10.00"),
				ItemSubtotals: decs(t, "10.00"),
				DueDate:       time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			},
			want: model.DerivedState{Status: model.InvoiceIssued, PaymentStatus: model.PaymentPending, IsConsistent: true},
		},
		{
			name: "subtotals off by one cent",
			in: service.StatusInput{
				DeclaredTotal: testutil.Dec(t, "100.00"),
				ItemSubtotals: decs(t, "50.00", "49.99"),
				DueDate:       today.AddDate(0, 0, 1),
			},
			want: model.DerivedState{Status: model.InvoiceIssued, PaymentStatus: model.PaymentPending, IsConsistent: false},
		},
		{
			name: "no items against non-zero total",
			in: service.StatusInput{
				DeclaredTotal: testutil.Dec(t, "10.00"),
				DueDate:       today.AddDate(0, 0, 1),
			},
			want: model.DerivedState{Status: model.InvoiceIssued, PaymentStatus: model.PaymentPending, IsConsistent: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.CalculateStatus(tt.in, today))
		})
	}
}

func TestCalculateStatus_IsDeterministic(t *testing.T) {
	in := service.StatusInput{
		DeclaredTotal:     testutil.Dec(t, "250.75"),
		ItemSubtotals:     decs(t, "200.00", "50.75"),
		CreditNoteAmounts: decs(t, "0.75"),
		DueDate:           today.AddDate(0, 0, -2),
	}
	first := service.CalculateStatus(in, today)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, service.CalculateStatus(in, today))
	}
}

func TestDeriveInvoiceStatus(t *testing.T) {
	total := testutil.Dec(t, "100.00")

	assert.Equal(t, model.InvoiceIssued, service.DeriveInvoiceStatus(decimal.Zero, total))
	assert.Equal(t, model.InvoicePartial, service.DeriveInvoiceStatus(testutil.Dec(t, "99.99"), total))
	assert.Equal(t, model.InvoiceCancelled, service.DeriveInvoiceStatus(testutil.Dec(t, "100.00"), total))
	assert.Equal(t, model.InvoiceCancelled, service.DeriveInvoiceStatus(testutil.Dec(t, "100.01"), total))
}
