package service

import (
	"context"
	"fmt"
	"time"

	"flowinvoice/internal/logger"
	"flowinvoice/internal/model"

	"github.com/rs/zerolog"
)

// --- DTOs ---

// ImportResult summarises one import batch.
type ImportResult struct {
	TotalInvoicesProcessed        int      `json:"total_invoices_processed"`
	InvoicesImportedSuccessfully  int      `json:"invoices_imported_successfully"`
	InvoicesSkippedDueToDuplicate int      `json:"invoices_skipped_due_to_duplicate"`
	InvoicesMarkedInconsistent    int      `json:"invoices_marked_inconsistent"`
	InvoicesRejectedInvalidAmount int      `json:"invoices_rejected_invalid_amount"`
	DuplicateErrors               []string `json:"duplicate_errors"`
	InconsistentErrors            []string `json:"inconsistent_errors"`
	InvalidAmountErrors           []string `json:"invalid_amount_errors"`
	Message                       string   `json:"message"`
}

type ImportErrorResponse struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	ErrorType string `json:"error_type"`
	Details   string `json:"details"`
}

// --- Interface ---

type ImportService interface {
	ImportBatch(ctx context.Context, records []InvoiceImportRecord) (ImportResult, error)
	ListImportErrors(ctx context.Context, errorType string, page, limit int) ([]ImportErrorResponse, int64, error)
}

type importService struct {
	Deps
	log zerolog.Logger
}

func NewImportService(deps Deps) ImportService {
	return &importService{
		Deps: deps.withDefaults(),
		log:  logger.WithComponent("import"),
	}
}

// --- Implementation ---

// ImportBatch validates and stores a batch of invoice records. Row-level
// problems are reported in the result; only storage failures return an error,
// in which case nothing from the batch is persisted.
func (s *importService) ImportBatch(ctx context.Context, records []InvoiceImportRecord) (ImportResult, error) {
	result := ImportResult{
		DuplicateErrors:     []string{},
		InconsistentErrors:  []string{},
		InvalidAmountErrors: []string{},
	}
	if len(records) == 0 {
		result.Message = "No invoices to import: the payload is empty or invalid."
		return result, nil
	}

	started := time.Now()
	today := s.now()
	result.TotalInvoicesProcessed = len(records)

	detector := NewDuplicateDetector(s.InvoiceRepo.ExistsByNumber)
	batch := make([]*model.Invoice, 0, len(records))
	var importErrors []model.ImportError

	for _, rec := range records {
		number := rec.Number()

		dup, err := detector.IsDuplicate(ctx, number)
		if err != nil {
			return ImportResult{}, err
		}
		if dup {
			result.InvoicesSkippedDueToDuplicate++
			msg := fmt.Sprintf("Invoice %s already exists.", number)
			result.DuplicateErrors = append(result.DuplicateErrors, msg)
			importErrors = append(importErrors, model.NewImportError(
				model.ErrTypeDuplicateInvoiceNumber, msg+" JSON: "+rec.serialize(), today))
			continue
		}

		// Invalid records are not stored, so a later copy is not a duplicate.
		if problem := rec.amountProblem(); problem != "" {
			result.InvoicesRejectedInvalidAmount++
			msg := fmt.Sprintf("Invoice %s: %s.", number, problem)
			result.InvalidAmountErrors = append(result.InvalidAmountErrors, msg)
			importErrors = append(importErrors, model.NewImportError(
				model.ErrTypeInconsistentAmount, msg+" JSON: "+rec.serialize(), today))
			continue
		}
		detector.MarkSeen(number)

		invoice := rec.toInvoice(CalculateStatus(rec.statusInput(), today))
		if !invoice.IsConsistent {
			result.InvoicesMarkedInconsistent++
			msg := fmt.Sprintf("Invoice %s: declared total does not match the sum of item subtotals.", number)
			result.InconsistentErrors = append(result.InconsistentErrors, msg)
			importErrors = append(importErrors, model.NewImportError(
				model.ErrTypeInconsistentAmount, msg+" JSON: "+rec.serialize(), today))
		} else {
			result.InvoicesImportedSuccessfully++
		}
		batch = append(batch, invoice)
	}

	err := s.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.InvoiceRepo.CreateBatch(txCtx, batch); err != nil {
			return fmt.Errorf("failed to save invoices: %w", err)
		}
		if err := s.ImportErrorRepo.CreateBatch(txCtx, importErrors); err != nil {
			return fmt.Errorf("failed to save import errors: %w", err)
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}

	result.Message = fmt.Sprintf(
		"Import finished. Processed: %d, imported: %d, duplicates skipped: %d, inconsistent: %d, invalid amounts rejected: %d.",
		result.TotalInvoicesProcessed,
		result.InvoicesImportedSuccessfully,
		result.InvoicesSkippedDueToDuplicate,
		result.InvoicesMarkedInconsistent,
		result.InvoicesRejectedInvalidAmount,
	)

	s.Metrics.ObserveImport(
		result.InvoicesImportedSuccessfully,
		result.InvoicesSkippedDueToDuplicate,
		result.InvoicesMarkedInconsistent,
		result.InvoicesRejectedInvalidAmount,
		time.Since(started),
	)
	s.log.Info().
		Int("processed", result.TotalInvoicesProcessed).
		Int("imported", result.InvoicesImportedSuccessfully).
		Int("duplicates", result.InvoicesSkippedDueToDuplicate).
		Int("inconsistent", result.InvoicesMarkedInconsistent).
		Int("invalid", result.InvoicesRejectedInvalidAmount).
		Msg("invoice import finished")
	s.Events.Publish(EventInvoicesImported, result)

	return result, nil
}

func (s *importService) ListImportErrors(ctx context.Context, errorType string, page, limit int) ([]ImportErrorResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	entries, total, err := s.ImportErrorRepo.List(ctx, errorType, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch import errors: %w", err)
	}

	res := make([]ImportErrorResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, ImportErrorResponse{
			ID:        e.ID.String(),
			Timestamp: e.Timestamp.UTC().Format(time.RFC3339),
			ErrorType: e.ErrorType,
			Details:   e.Details,
		})
	}
	return res, total, nil
}
