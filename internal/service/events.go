package service

// Event types pushed to live subscribers.
const (
	EventInvoicesImported = "invoices.imported"
	EventCreditNoteAdded  = "credit_note.added"
)

// EventPublisher fans out domain events to live subscribers.
type EventPublisher interface {
	Publish(eventType string, payload interface{})
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, interface{}) {}
