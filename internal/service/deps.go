package service

import (
	"time"

	"flowinvoice/internal/repository"
	"flowinvoice/internal/telemetry"
)

// Deps bundles what the invoice services need. Events, Metrics and Now are
// optional.
type Deps struct {
	InvoiceRepo     repository.InvoiceRepository
	ImportErrorRepo repository.ImportErrorRepository
	ReportRepo      repository.ReportRepository
	TxManager       repository.TransactionManager
	Events          EventPublisher
	Metrics         *telemetry.Metrics
	Now             func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Events == nil {
		d.Events = noopPublisher{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

func (d Deps) now() time.Time {
	return d.Now().UTC()
}
