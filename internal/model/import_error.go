package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImportErrorType enum constants
const (
	ErrTypeDuplicateInvoiceNumber = "DuplicateInvoiceNumber"
	ErrTypeInconsistentAmount     = "InconsistentAmount"
)

// ImportError records a row-level problem found while importing invoices.
// Details carries the serialized source record for later review.
type ImportError struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Timestamp time.Time `gorm:"column:logged_at;not null;index" json:"timestamp"`
	ErrorType string    `gorm:"type:varchar(50);not null;index" json:"error_type"`
	Details   string    `gorm:"type:text;not null" json:"details"`
}

func (e *ImportError) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// NewImportError stamps an error entry with the given time.
func NewImportError(errType, details string, at time.Time) ImportError {
	return ImportError{
		Timestamp: at.UTC(),
		ErrorType: errType,
		Details:   details,
	}
}
