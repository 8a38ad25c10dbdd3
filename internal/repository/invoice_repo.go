package repository

import (
	"context"
	"strings"
	"time"

	"flowinvoice/internal/model"

	"gorm.io/gorm"
)

// InvoiceListFilter narrows the consistent-invoice listing.
type InvoiceListFilter struct {
	InvoiceNumber string // partial match
	Status        string
	PaymentStatus string
	Page          int
	Limit         int
}

// FindOptions selects which associations FindByNumber preloads.
type FindOptions struct {
	WithItems       bool
	WithCreditNotes bool
}

type InvoiceRepository interface {
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	CreateBatch(ctx context.Context, invoices []*model.Invoice) error
	FindByNumber(ctx context.Context, number string, opts FindOptions) (*model.Invoice, error)
	AddCreditNote(ctx context.Context, invoice *model.Invoice, note *model.CreditNote) error
	List(ctx context.Context, filter InvoiceListFilter) ([]model.Invoice, int64, error)
	ListOverdueWithoutCreditNotes(ctx context.Context, dueBefore time.Time) ([]model.Invoice, error)
	ListInconsistent(ctx context.Context) ([]model.Invoice, error)
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

const createBatchSize = 100

func (r *invoiceRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Invoice{}).Where("invoice_number = ?", number).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateBatch inserts invoices together with their items and credit notes.
func (r *invoiceRepository) CreateBatch(ctx context.Context, invoices []*model.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).CreateInBatches(invoices, createBatchSize).Error
}

func (r *invoiceRepository) FindByNumber(ctx context.Context, number string, opts FindOptions) (*model.Invoice, error) {
	query := GetDB(ctx, r.db)
	if opts.WithItems {
		query = query.Preload("Items")
	}
	if opts.WithCreditNotes {
		query = query.Preload("CreditNotes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_date asc")
		})
	}

	var invoice model.Invoice
	if err := query.First(&invoice, "invoice_number = ?", number).Error; err != nil {
		return nil, translate(err)
	}
	return &invoice, nil
}

// AddCreditNote persists a credit note and the invoice's new derived state.
// The invoice row is only updated if its version still matches the one that
// was read, otherwise ErrVersionConflict is returned and nothing is written.
// Callers should run it inside a transaction.
func (r *invoiceRepository) AddCreditNote(ctx context.Context, invoice *model.Invoice, note *model.CreditNote) error {
	db := GetDB(ctx, r.db)

	res := db.Model(&model.Invoice{}).
		Where("id = ? AND version = ?", invoice.ID, invoice.Version).
		Updates(map[string]interface{}{
			"status":         invoice.Status,
			"payment_status": invoice.PaymentStatus,
			"version":        invoice.Version + 1,
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}

	note.InvoiceID = invoice.ID
	if err := db.Create(note).Error; err != nil {
		return err
	}

	invoice.Version++
	return nil
}

// likeEscaper makes user input match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func consistentOnly(filter InvoiceListFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("is_consistent = ?", true)
		if filter.InvoiceNumber != "" {
			db = db.Where(`invoice_number LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(filter.InvoiceNumber)+"%")
		}
		if filter.Status != "" {
			db = db.Where("status = ?", filter.Status)
		}
		if filter.PaymentStatus != "" {
			db = db.Where("payment_status = ?", filter.PaymentStatus)
		}
		return db
	}
}

func (r *invoiceRepository) List(ctx context.Context, filter InvoiceListFilter) ([]model.Invoice, int64, error) {
	var invoices []model.Invoice
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Invoice{}).Scopes(consistentOnly(filter)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := db.Scopes(consistentOnly(filter)).
		Order("invoice_number asc").
		Offset(offset).
		Limit(filter.Limit).
		Find(&invoices).Error; err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

// ListOverdueWithoutCreditNotes returns consistent Overdue invoices that have
// no credit notes and fell due before dueBefore.
func (r *invoiceRepository) ListOverdueWithoutCreditNotes(ctx context.Context, dueBefore time.Time) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := GetDB(ctx, r.db).
		Where("is_consistent = ? AND payment_status = ? AND due_date < ?", true, model.PaymentOverdue, dueBefore).
		Where("NOT EXISTS (SELECT 1 FROM credit_notes WHERE credit_notes.invoice_id = invoices.id)").
		Order("due_date asc").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) ListInconsistent(ctx context.Context) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := GetDB(ctx, r.db).
		Preload("Items").
		Where("is_consistent = ?", false).
		Order("invoice_number asc").
		Find(&invoices).Error
	return invoices, err
}
