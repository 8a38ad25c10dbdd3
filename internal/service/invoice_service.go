package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flowinvoice/internal/logger"
	"flowinvoice/internal/model"
	"flowinvoice/internal/repository"
	"flowinvoice/internal/telemetry"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Credit note rejection messages.
const (
	MsgAmountNotPositive      = "amount must be greater than zero"
	MsgAmountTooPrecise       = "amount cannot have more than two decimal places"
	MsgInvoiceNotFound        = "invoice not found"
	MsgInvoiceCancelled       = "cannot add credit notes to cancelled invoices"
	MsgAmountExceedsRemaining = "amount exceeds pending balance"
)

// RejectReason classifies an unsuccessful credit note application.
type RejectReason string

const (
	RejectAmountNotPositive RejectReason = "AMOUNT_NOT_POSITIVE"
	RejectAmountTooPrecise  RejectReason = "AMOUNT_TOO_PRECISE"
	RejectInvoiceNotFound   RejectReason = "INVOICE_NOT_FOUND"
	RejectInvoiceCancelled  RejectReason = "INVOICE_CANCELLED"
	RejectExceedsBalance    RejectReason = "EXCEEDS_PENDING_BALANCE"
)

// --- DTOs ---

type AddCreditNoteRequest struct {
	CreditNoteAmount decimal.Decimal `json:"credit_note_amount"`
}

// AddCreditNoteResult reports the outcome of a credit note application.
// On success MaxAllowedAmount is the balance left after the note; when the
// amount was too large it is the balance that could have been credited.
type AddCreditNoteResult struct {
	Success          bool                `json:"success"`
	Reason           RejectReason        `json:"reason,omitempty"`
	ErrorMessage     string              `json:"error_message,omitempty"`
	MaxAllowedAmount decimal.Decimal     `json:"max_allowed_amount"`
	NewInvoiceStatus model.InvoiceStatus `json:"new_invoice_status,omitempty"`
	NewPaymentStatus model.PaymentStatus `json:"new_payment_status,omitempty"`
	CreditNoteNumber string              `json:"credit_note_number,omitempty"`
}

type InvoiceFilter struct {
	InvoiceNumber string
	Status        string
	PaymentStatus string
	Page          int
	Limit         int
}

type InvoiceListItem struct {
	InvoiceNumber string `json:"invoice_number"`
	CustomerName  string `json:"customer_name"`
	TotalAmount   string `json:"total_amount"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

type CustomerDetail struct {
	CustomerRun   string `json:"customer_run"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
}

type PaymentDetail struct {
	PaymentMethod *string `json:"payment_method"`
	PaymentDate   *string `json:"payment_date"`
}

type InvoiceItemDetail struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
}

type CreditNoteDetail struct {
	CreditNoteNumber string `json:"credit_note_number"`
	CreditNoteAmount string `json:"credit_note_amount"`
	CreatedDate      string `json:"created_date"`
}

type InvoiceDetailResponse struct {
	InvoiceNumber  string              `json:"invoice_number"`
	InvoiceDate    string              `json:"invoice_date"`
	DueDate        string              `json:"due_date"`
	TotalAmount    string              `json:"total_amount"`
	PendingBalance string              `json:"pending_balance"`
	Status         string              `json:"status"`
	PaymentStatus  string              `json:"payment_status"`
	IsConsistent   bool                `json:"is_consistent"`
	Customer       CustomerDetail      `json:"customer"`
	InvoicePayment PaymentDetail       `json:"invoice_payment"`
	Items          []InvoiceItemDetail `json:"items"`
	CreditNotes    []CreditNoteDetail  `json:"credit_notes"`
}

// --- Interface ---

type InvoiceService interface {
	AddCreditNote(ctx context.Context, invoiceNumber string, amount decimal.Decimal) (AddCreditNoteResult, error)
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceListItem, int64, error)
	GetInvoiceDetails(ctx context.Context, invoiceNumber string) (InvoiceDetailResponse, error)
}

type invoiceService struct {
	Deps
	log zerolog.Logger
}

func NewInvoiceService(deps Deps) InvoiceService {
	return &invoiceService{
		Deps: deps.withDefaults(),
		log:  logger.WithComponent("invoice"),
	}
}

// --- Implementation ---

// AddCreditNote applies a credit note to an invoice. Business rule violations
// come back as an unsuccessful result; errors are storage failures or
// ErrConcurrentUpdate.
func (s *invoiceService) AddCreditNote(ctx context.Context, invoiceNumber string, amount decimal.Decimal) (AddCreditNoteResult, error) {
	if !amount.IsPositive() {
		s.Metrics.ObserveCreditNote(telemetry.CreditNoteRejected)
		return rejected(RejectAmountNotPositive, MsgAmountNotPositive), nil
	}
	if !model.FitsMoneyScale(amount) {
		s.Metrics.ObserveCreditNote(telemetry.CreditNoteRejected)
		return rejected(RejectAmountTooPrecise, MsgAmountTooPrecise), nil
	}

	var result AddCreditNoteResult
	err := s.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, err := s.InvoiceRepo.FindByNumber(txCtx, invoiceNumber, repository.FindOptions{WithCreditNotes: true})
		if errors.Is(err, repository.ErrNotFound) {
			result = rejected(RejectInvoiceNotFound, MsgInvoiceNotFound)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load invoice %s: %w", invoiceNumber, err)
		}

		if invoice.Status == model.InvoiceCancelled {
			result = rejected(RejectInvoiceCancelled, MsgInvoiceCancelled)
			return nil
		}

		pending := invoice.PendingBalance()
		if amount.GreaterThan(pending) {
			result = rejected(RejectExceedsBalance, fmt.Sprintf("%s (available: %s)", MsgAmountExceedsRemaining, pending.StringFixed(2)))
			result.MaxAllowedAmount = pending
			return nil
		}

		now := s.now()
		note := &model.CreditNote{
			CreditNoteNumber: GenerateCreditNoteNumber(invoiceNumber, now),
			Amount:           amount,
			CreatedDate:      now,
		}

		invoice.Status = DeriveInvoiceStatus(invoice.TotalCredited().Add(amount), invoice.TotalAmount)
		if invoice.Status == model.InvoiceCancelled {
			invoice.PaymentStatus = model.PaymentPaid
		}

		if err := s.InvoiceRepo.AddCreditNote(txCtx, invoice, note); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				return ErrConcurrentUpdate
			}
			return fmt.Errorf("failed to save credit note: %w", err)
		}

		result = AddCreditNoteResult{
			Success:          true,
			MaxAllowedAmount: pending.Sub(amount),
			NewInvoiceStatus: invoice.Status,
			NewPaymentStatus: invoice.PaymentStatus,
			CreditNoteNumber: note.CreditNoteNumber,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrConcurrentUpdate) {
			s.Metrics.ObserveCreditNote(telemetry.CreditNoteConflict)
		}
		return AddCreditNoteResult{}, err
	}

	if !result.Success {
		s.Metrics.ObserveCreditNote(telemetry.CreditNoteRejected)
		s.log.Debug().Str("invoice_number", invoiceNumber).Str("reason", string(result.Reason)).Msg("credit note rejected")
		return result, nil
	}

	s.Metrics.ObserveCreditNote(telemetry.CreditNoteApplied)
	s.log.Info().
		Str("invoice_number", invoiceNumber).
		Str("credit_note_number", result.CreditNoteNumber).
		Str("amount", amount.StringFixed(2)).
		Str("status", string(result.NewInvoiceStatus)).
		Msg("credit note applied")
	s.Events.Publish(EventCreditNoteAdded, map[string]interface{}{
		"invoice_number": invoiceNumber,
		"result":         result,
	})

	return result, nil
}

// GenerateCreditNoteNumber embeds the invoice number and UTC timestamp, plus a
// random suffix so two notes created within the same second do not collide.
func GenerateCreditNoteNumber(invoiceNumber string, at time.Time) string {
	return fmt.Sprintf("NC-%s-%s-%s", invoiceNumber, at.UTC().Format("20060102150405"), uuid.NewString()[:8])
}

func rejected(reason RejectReason, msg string) AddCreditNoteResult {
	return AddCreditNoteResult{Success: false, Reason: reason, ErrorMessage: msg, MaxAllowedAmount: decimal.Zero}
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceListItem, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	invoices, total, err := s.InvoiceRepo.List(ctx, repository.InvoiceListFilter{
		InvoiceNumber: filter.InvoiceNumber,
		Status:        filter.Status,
		PaymentStatus: filter.PaymentStatus,
		Page:          filter.Page,
		Limit:         filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	return lo.Map(invoices, func(inv model.Invoice, _ int) InvoiceListItem {
		return InvoiceListItem{
			InvoiceNumber: inv.InvoiceNumber,
			CustomerName:  inv.CustomerName,
			TotalAmount:   inv.TotalAmount.StringFixed(2),
			Status:        string(inv.Status),
			PaymentStatus: string(inv.PaymentStatus),
		}
	}), total, nil
}

func (s *invoiceService) GetInvoiceDetails(ctx context.Context, invoiceNumber string) (InvoiceDetailResponse, error) {
	invoice, err := s.InvoiceRepo.FindByNumber(ctx, invoiceNumber, repository.FindOptions{WithItems: true, WithCreditNotes: true})
	if errors.Is(err, repository.ErrNotFound) {
		return InvoiceDetailResponse{}, ErrInvoiceNotFound
	}
	if err != nil {
		return InvoiceDetailResponse{}, fmt.Errorf("failed to load invoice %s: %w", invoiceNumber, err)
	}
	return toInvoiceDetail(*invoice), nil
}

// --- Mapping ---

func toInvoiceDetail(inv model.Invoice) InvoiceDetailResponse {
	resp := InvoiceDetailResponse{
		InvoiceNumber:  inv.InvoiceNumber,
		InvoiceDate:    inv.InvoiceDate.UTC().Format(time.RFC3339),
		DueDate:        inv.DueDate.UTC().Format(time.RFC3339),
		TotalAmount:    inv.TotalAmount.StringFixed(2),
		PendingBalance: inv.PendingBalance().StringFixed(2),
		Status:         string(inv.Status),
		PaymentStatus:  string(inv.PaymentStatus),
		IsConsistent:   inv.IsConsistent,
		Customer: CustomerDetail{
			CustomerRun:   inv.CustomerRun,
			CustomerName:  inv.CustomerName,
			CustomerEmail: inv.CustomerEmail,
		},
		InvoicePayment: PaymentDetail{PaymentMethod: inv.PaymentMethod},
		Items: lo.Map(inv.Items, func(it model.InvoiceItem, _ int) InvoiceItemDetail {
			return InvoiceItemDetail{
				ProductName: it.ProductName,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice.StringFixed(2),
				Subtotal:    it.Subtotal.StringFixed(2),
			}
		}),
		CreditNotes: lo.Map(inv.CreditNotes, func(cn model.CreditNote, _ int) CreditNoteDetail {
			return CreditNoteDetail{
				CreditNoteNumber: cn.CreditNoteNumber,
				CreditNoteAmount: cn.Amount.StringFixed(2),
				CreatedDate:      cn.CreatedDate.UTC().Format(time.RFC3339),
			}
		}),
	}

	if inv.PaymentDate != nil {
		s := inv.PaymentDate.UTC().Format(time.RFC3339)
		resp.InvoicePayment.PaymentDate = &s
	}
	return resp
}
