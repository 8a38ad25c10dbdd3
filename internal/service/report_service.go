package service

import (
	"context"
	"fmt"
	"time"

	"flowinvoice/internal/model"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type OverdueInvoiceReport struct {
	InvoiceNumber string `json:"invoice_number"`
	CustomerName  string `json:"customer_name"`
	TotalAmount   string `json:"total_amount"`
	DueDate       string `json:"due_date"`
	DaysOverdue   int    `json:"days_overdue"`
}

type PaymentStatusSummary struct {
	Status     string `json:"status"`
	TotalCount int    `json:"total_count"`
	Percentage string `json:"percentage"`
}

type PaymentStatusReport struct {
	TotalInvoices int                    `json:"total_invoices"`
	Summaries     []PaymentStatusSummary `json:"summaries"`
}

type InconsistentInvoiceReport struct {
	InvoiceNumber         string `json:"invoice_number"`
	DeclaredTotalAmount   string `json:"declared_total_amount"`
	CalculatedSubtotalSum string `json:"calculated_subtotal_sum"`
	DiscrepancyDetails    string `json:"discrepancy_details"`
}

// --- Interface ---

type ReportService interface {
	OverdueWithoutCreditNotes(ctx context.Context) ([]OverdueInvoiceReport, error)
	PaymentStatusSummary(ctx context.Context) (PaymentStatusReport, error)
	InconsistentInvoices(ctx context.Context) ([]InconsistentInvoiceReport, error)
}

type reportService struct {
	Deps
	overdueThresholdDays int
}

// NewReportService builds the read-only reports. overdueThresholdDays is how
// many days past due an invoice must be to appear in the overdue report.
func NewReportService(deps Deps, overdueThresholdDays int) ReportService {
	return &reportService{
		Deps:                 deps.withDefaults(),
		overdueThresholdDays: overdueThresholdDays,
	}
}

// paymentStatusOrder fixes the order of summary rows.
var paymentStatusOrder = []model.PaymentStatus{model.PaymentPending, model.PaymentOverdue, model.PaymentPaid}

// --- Implementation ---

func (s *reportService) OverdueWithoutCreditNotes(ctx context.Context) ([]OverdueInvoiceReport, error) {
	now := s.now()
	invoices, err := s.InvoiceRepo.ListOverdueWithoutCreditNotes(ctx, now.AddDate(0, 0, -s.overdueThresholdDays))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch overdue invoices: %w", err)
	}

	return lo.Map(invoices, func(inv model.Invoice, _ int) OverdueInvoiceReport {
		return OverdueInvoiceReport{
			InvoiceNumber: inv.InvoiceNumber,
			CustomerName:  inv.CustomerName,
			TotalAmount:   inv.TotalAmount.StringFixed(2),
			DueDate:       inv.DueDate.UTC().Format(time.RFC3339),
			DaysOverdue:   int(now.Sub(inv.DueDate).Hours() / 24),
		}
	}), nil
}

// PaymentStatusSummary groups consistent invoices by payment status. Only
// statuses that occur are listed; percentages are rounded to two places.
func (s *reportService) PaymentStatusSummary(ctx context.Context) (PaymentStatusReport, error) {
	rows, err := s.ReportRepo.CountByPaymentStatus(ctx)
	if err != nil {
		return PaymentStatusReport{}, err
	}

	counts := lo.SliceToMap(rows, func(row model.PaymentStatusCount) (model.PaymentStatus, int64) {
		return row.PaymentStatus, row.Count
	})
	var total int64
	for _, c := range counts {
		total += c
	}

	report := PaymentStatusReport{
		TotalInvoices: int(total),
		Summaries:     []PaymentStatusSummary{},
	}
	if total == 0 {
		return report, nil
	}

	hundred := decimal.NewFromInt(100)
	for _, status := range paymentStatusOrder {
		count, ok := counts[status]
		if !ok || count == 0 {
			continue
		}
		report.Summaries = append(report.Summaries, PaymentStatusSummary{
			Status:     string(status),
			TotalCount: int(count),
			Percentage: decimal.NewFromInt(count).Mul(hundred).DivRound(decimal.NewFromInt(total), 2).StringFixed(2),
		})
	}

	return report, nil
}

func (s *reportService) InconsistentInvoices(ctx context.Context) ([]InconsistentInvoiceReport, error) {
	invoices, err := s.InvoiceRepo.ListInconsistent(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inconsistent invoices: %w", err)
	}

	return lo.Map(invoices, func(inv model.Invoice, _ int) InconsistentInvoiceReport {
		calculated := inv.ItemsSubtotal()
		return InconsistentInvoiceReport{
			InvoiceNumber:         inv.InvoiceNumber,
			DeclaredTotalAmount:   inv.TotalAmount.StringFixed(2),
			CalculatedSubtotalSum: calculated.StringFixed(2),
			DiscrepancyDetails: fmt.Sprintf("Declared: %s, calculated: %s, difference: %s",
				inv.TotalAmount.StringFixed(2), calculated.StringFixed(2), inv.TotalAmount.Sub(calculated).StringFixed(2)),
		}
	}), nil
}
