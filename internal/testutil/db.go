// Package testutil provides an isolated in-memory database for tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"flowinvoice/internal/database"
	"flowinvoice/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// Dec parses a decimal literal and fails the test on bad input.
func Dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// SeedInvoice stores an invoice with one item and the given credit notes.
func SeedInvoice(t *testing.T, db *gorm.DB, number string, total string, state model.DerivedState, dueDate time.Time, credits ...string) *model.Invoice {
	t.Helper()

	notes := make([]model.CreditNote, 0, len(credits))
	for i, c := range credits {
		notes = append(notes, model.CreditNote{
			CreditNoteNumber: fmt.Sprintf("%s-%d", number, i+1),
			Amount:           Dec(t, c),
			CreatedDate:      dueDate,
		})
	}

	inv := model.NewInvoice(model.InvoiceParams{
		InvoiceNumber: number,
		InvoiceDate:   dueDate.AddDate(0, 0, -30),
		DueDate:       dueDate,
		TotalAmount:   Dec(t, total),
		CustomerName:  "Customer " + number,
		Items: []model.InvoiceItem{
			{ProductName: "Widget", Quantity: 1, UnitPrice: Dec(t, total), Subtotal: Dec(t, total)},
		},
		CreditNotes: notes,
	}, state)

	require.NoError(t, db.Create(inv).Error)
	return inv
}
