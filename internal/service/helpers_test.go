package service_test

import (
	"context"
	"errors"
	"sync"

	"flowinvoice/internal/model"
	"flowinvoice/internal/repository"

	"gorm.io/gorm"
)

type publishedEvent struct {
	Type    string
	Payload interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(eventType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: eventType, Payload: payload})
}

func (p *recordingPublisher) Events() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

var errStorageDown = errors.New("storage unavailable")

// failingExistsRepo fails lookups for one invoice number.
type failingExistsRepo struct {
	repository.InvoiceRepository
	failOn string
}

func (r failingExistsRepo) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	if number == r.failOn {
		return false, errStorageDown
	}
	return r.InvoiceRepository.ExistsByNumber(ctx, number)
}

// racingRepo bumps the invoice version between the read and the write, as a
// concurrent credit note would.
type racingRepo struct {
	repository.InvoiceRepository
	db *gorm.DB
}

func (r racingRepo) AddCreditNote(ctx context.Context, invoice *model.Invoice, note *model.CreditNote) error {
	err := repository.GetDB(ctx, r.db).Model(&model.Invoice{}).
		Where("id = ?", invoice.ID).
		Update("version", gorm.Expr("version + 1")).Error
	if err != nil {
		return err
	}
	return r.InvoiceRepository.AddCreditNote(ctx, invoice, note)
}
