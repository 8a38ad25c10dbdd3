package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"flowinvoice/internal/model"
	"flowinvoice/internal/repository"
	"flowinvoice/internal/service"
	"flowinvoice/internal/telemetry"
	"flowinvoice/internal/testutil"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

var (
	pendingState = model.DerivedState{Status: model.InvoiceIssued, PaymentStatus: model.PaymentPending, IsConsistent: true}
	overdueState = model.DerivedState{Status: model.InvoiceIssued, PaymentStatus: model.PaymentOverdue, IsConsistent: true}
)

type InvoiceServiceSuite struct {
	suite.Suite
	ctx      context.Context
	db       *gorm.DB
	invoices repository.InvoiceRepository
	events   *recordingPublisher
	metrics  *telemetry.Metrics
	svc      service.InvoiceService
}

func TestInvoiceServiceSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutil.NewDB(s.T())
	s.invoices = repository.NewInvoiceRepository(s.db)
	s.events = &recordingPublisher{}
	s.metrics = telemetry.NewMetrics(prometheus.NewRegistry())
	s.svc = service.NewInvoiceService(s.deps(s.invoices))
}

func (s *InvoiceServiceSuite) deps(invoices repository.InvoiceRepository) service.Deps {
	return service.Deps{
		InvoiceRepo:     invoices,
		ImportErrorRepo: repository.NewImportErrorRepository(s.db),
		TxManager:       repository.NewTransactionManager(s.db),
		Events:          s.events,
		Metrics:         s.metrics,
		Now:             func() time.Time { return today },
	}
}

func (s *InvoiceServiceSuite) reload(number string) *model.Invoice {
	inv, err := s.invoices.FindByNumber(s.ctx, number, repository.FindOptions{WithCreditNotes: true})
	s.Require().NoError(err)
	return inv
}

func (s *InvoiceServiceSuite) dec(v string) decimal.Decimal {
	return testutil.Dec(s.T(), v)
}

func (s *InvoiceServiceSuite) TestAddCreditNote_Partial() {
	testutil.SeedInvoice(s.T(), s.db, "1", "100.00", pendingState, today.AddDate(0, 0, 10))

	res, err := s.svc.AddCreditNote(s.ctx, "1", s.dec("30.00"))
	s.Require().NoError(err)

	s.True(res.Success)
	s.Equal(model.InvoicePartial, res.NewInvoiceStatus)
	s.Equal(model.PaymentPending, res.NewPaymentStatus)
	s.True(res.MaxAllowedAmount.Equal(s.dec("70.00")))
	s.True(strings.HasPrefix(res.CreditNoteNumber, "NC-1-20250615103000-"))

	stored := s.reload("1")
	s.Equal(model.InvoicePartial, stored.Status)
	s.Len(stored.CreditNotes, 1)
	s.Equal(int64(2), stored.Version)

	events := s.events.Events()
	s.Require().Len(events, 1)
	s.Equal(service.EventCreditNoteAdded, events[0].Type)
	s.Equal(float64(1), promtest.ToFloat64(s.metrics.CreditNotes.WithLabelValues(telemetry.CreditNoteApplied)))
}

func (s *InvoiceServiceSuite) TestAddCreditNote_ExactBalanceCancels() {
	testutil.SeedInvoice(s.T(), s.db, "2", "100.00", overdueState, today.AddDate(0, 0, -10), "40.00")

	res, err := s.svc.AddCreditNote(s.ctx, "2", s.dec("60.00"))
	s.Require().NoError(err)

	s.True(res.Success)
	s.Equal(model.InvoiceCancelled, res.NewInvoiceStatus)
	s.Equal(model.PaymentPaid, res.NewPaymentStatus)
	s.True(res.MaxAllowedAmount.IsZero())

	stored := s.reload("2")
	s.Equal(model.InvoiceCancelled, stored.Status)
	s.Equal(model.PaymentPaid, stored.PaymentStatus)
	s.True(stored.PendingBalance().IsZero())
}

func (s *InvoiceServiceSuite) TestAddCreditNote_ExceedsBalance() {
	testutil.SeedInvoice(s.T(), s.db, "3", "100.00", pendingState, today.AddDate(0, 0, 10), "40.00")

	res, err := s.svc.AddCreditNote(s.ctx, "3", s.dec("60.01"))
	s.Require().NoError(err)

	s.False(res.Success)
	s.Equal(service.RejectExceedsBalance, res.Reason)
	s.Contains(res.ErrorMessage, service.MsgAmountExceedsRemaining)
	s.Contains(res.ErrorMessage, "60.00")
	s.True(res.MaxAllowedAmount.Equal(s.dec("60.00")))

	stored := s.reload("3")
	s.Equal(model.InvoiceIssued, stored.Status, "seeded state is kept")
	s.Len(stored.CreditNotes, 1)
	s.Equal(int64(1), stored.Version)
	s.Empty(s.events.Events())
}

func (s *InvoiceServiceSuite) TestAddCreditNote_Cancelled() {
	testutil.SeedInvoice(s.T(), s.db, "4", "10.00",
		model.DerivedState{Status: model.InvoiceCancelled, PaymentStatus: model.PaymentPaid, IsConsistent: true},
		today, "10.00")

	res, err := s.svc.AddCreditNote(s.ctx, "4", s.dec("1.00"))
	s.Require().NoError(err)
	s.False(res.Success)
	s.Equal(service.RejectInvoiceCancelled, res.Reason)
	s.Equal(service.MsgInvoiceCancelled, res.ErrorMessage)
}

func (s *InvoiceServiceSuite) TestAddCreditNote_NotFound() {
	res, err := s.svc.AddCreditNote(s.ctx, "404", s.dec("1.00"))
	s.Require().NoError(err)
	s.False(res.Success)
	s.Equal(service.RejectInvoiceNotFound, res.Reason)
	s.Equal(service.MsgInvoiceNotFound, res.ErrorMessage)
}

func (s *InvoiceServiceSuite) TestAddCreditNote_NonPositiveAmount() {
	testutil.SeedInvoice(s.T(), s.db, "5", "10.00", pendingState, today)

	for _, amount := range []string{"0", "-5.00"} {
		res, err := s.svc.AddCreditNote(s.ctx, "5", s.dec(amount))
		s.Require().NoError(err)
		s.False(res.Success)
		s.Equal(service.RejectAmountNotPositive, res.Reason)
		s.Equal(service.MsgAmountNotPositive, res.ErrorMessage)
	}
	s.Empty(s.reload("5").CreditNotes)
	s.Equal(float64(2), promtest.ToFloat64(s.metrics.CreditNotes.WithLabelValues(telemetry.CreditNoteRejected)))
}

func (s *InvoiceServiceSuite) TestAddCreditNote_SubCentAmount() {
	testutil.SeedInvoice(s.T(), s.db, "900", "100.00", pendingState, today.AddDate(0, 0, 10))

	for _, amount := range []string{"99.999", "0.001", "100.005"} {
		res, err := s.svc.AddCreditNote(s.ctx, "900", s.dec(amount))
		s.Require().NoError(err)
		s.False(res.Success, amount)
		s.Equal(service.RejectAmountTooPrecise, res.Reason, amount)
		s.Equal(service.MsgAmountTooPrecise, res.ErrorMessage, amount)
	}

	stored := s.reload("900")
	s.Empty(stored.CreditNotes)
	s.Equal(model.InvoiceIssued, stored.Status)
	s.Equal(int64(1), stored.Version)
	s.Empty(s.events.Events())

	// trailing zeros are still whole cents
	res, err := s.svc.AddCreditNote(s.ctx, "900", s.dec("100.000"))
	s.Require().NoError(err)
	s.True(res.Success)
	s.Equal(model.InvoiceCancelled, res.NewInvoiceStatus)
	s.Equal(model.PaymentPaid, res.NewPaymentStatus)
	s.True(res.MaxAllowedAmount.IsZero())
}

func (s *InvoiceServiceSuite) TestAddCreditNote_ConcurrentUpdate() {
	testutil.SeedInvoice(s.T(), s.db, "6", "100.00", pendingState, today.AddDate(0, 0, 10))
	svc := service.NewInvoiceService(s.deps(racingRepo{InvoiceRepository: s.invoices, db: s.db}))

	_, err := svc.AddCreditNote(s.ctx, "6", s.dec("10.00"))
	s.Require().ErrorIs(err, service.ErrConcurrentUpdate)

	stored := s.reload("6")
	s.Empty(stored.CreditNotes)
	s.Equal(int64(1), stored.Version, "rolled back")
	s.Equal(float64(1), promtest.ToFloat64(s.metrics.CreditNotes.WithLabelValues(telemetry.CreditNoteConflict)))
}

func (s *InvoiceServiceSuite) TestAddCreditNote_SequentialNotesStayWithinTotal() {
	testutil.SeedInvoice(s.T(), s.db, "7", "50.00", pendingState, today.AddDate(0, 0, 10))

	for i := 0; i < 5; i++ {
		_, err := s.svc.AddCreditNote(s.ctx, "7", s.dec("15.00"))
		s.Require().NoError(err)
	}

	stored := s.reload("7")
	s.Len(stored.CreditNotes, 3)
	s.True(stored.TotalCredited().LessThanOrEqual(stored.TotalAmount))
	s.Equal(model.InvoicePartial, stored.Status)
}

func (s *InvoiceServiceSuite) TestListInvoices() {
	testutil.SeedInvoice(s.T(), s.db, "1001", "10.00", pendingState, today)
	testutil.SeedInvoice(s.T(), s.db, "1002", "20.00", overdueState, today.AddDate(0, 0, -5))
	testutil.SeedInvoice(s.T(), s.db, "2001", "30.00",
		model.DerivedState{Status: model.InvoiceIssued, PaymentStatus: model.PaymentPending, IsConsistent: false}, today)

	items, total, err := s.svc.ListInvoices(s.ctx, service.InvoiceFilter{})
	s.Require().NoError(err)
	s.Equal(int64(2), total, "inconsistent invoices are hidden")
	s.Require().Len(items, 2)
	s.Equal("1001", items[0].InvoiceNumber)
	s.Equal("10.00", items[0].TotalAmount)

	items, total, err = s.svc.ListInvoices(s.ctx, service.InvoiceFilter{PaymentStatus: "Overdue"})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal("1002", items[0].InvoiceNumber)

	items, _, err = s.svc.ListInvoices(s.ctx, service.InvoiceFilter{InvoiceNumber: "100", Limit: 1, Page: 2})
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal("1002", items[0].InvoiceNumber)
}

func (s *InvoiceServiceSuite) TestGetInvoiceDetails() {
	testutil.SeedInvoice(s.T(), s.db, "8", "100.00", pendingState, today.AddDate(0, 0, 10), "25.00")

	detail, err := s.svc.GetInvoiceDetails(s.ctx, "8")
	s.Require().NoError(err)
	s.Equal("100.00", detail.TotalAmount)
	s.Equal("75.00", detail.PendingBalance)
	s.Len(detail.Items, 1)
	s.Len(detail.CreditNotes, 1)
	s.Equal("25.00", detail.CreditNotes[0].CreditNoteAmount)
	s.Nil(detail.InvoicePayment.PaymentDate)

	_, err = s.svc.GetInvoiceDetails(s.ctx, "missing")
	s.ErrorIs(err, service.ErrInvoiceNotFound)
}

func TestGenerateCreditNoteNumber(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	a := service.GenerateCreditNoteNumber("99", at)
	b := service.GenerateCreditNoteNumber("99", at)

	assert.True(t, strings.HasPrefix(a, "NC-99-20250102030405-"))
	assert.Len(t, a, len("NC-99-20250102030405-")+8)
	assert.NotEqual(t, a, b)
}

func (s *InvoiceServiceSuite) TestImportThenFullCredit() {
	importSvc := service.NewImportService(s.deps(s.invoices))

	_, err := importSvc.ImportBatch(s.ctx, []service.InvoiceImportRecord{{
		InvoiceNumber:  500,
		InvoiceDate:    service.NewImportDate(today.AddDate(0, 0, -31)),
		TotalAmount:    s.dec("100.00"),
		PaymentDueDate: service.NewImportDate(today.AddDate(0, 0, -1)),
		InvoiceDetail: []service.ItemImportRecord{
			{ProductName: "Consulting", Quantity: 1, UnitPrice: s.dec("100.00"), Subtotal: s.dec("100.00")},
		},
	}})
	s.Require().NoError(err)

	stored := s.reload("500")
	s.True(stored.IsConsistent)
	s.Equal(model.InvoiceIssued, stored.Status)
	s.Equal(model.PaymentOverdue, stored.PaymentStatus)

	res, err := s.svc.AddCreditNote(s.ctx, "500", s.dec("100.00"))
	s.Require().NoError(err)
	s.True(res.Success)
	s.Equal(model.InvoiceCancelled, res.NewInvoiceStatus)
	s.Equal(model.PaymentPaid, res.NewPaymentStatus)
	s.True(res.MaxAllowedAmount.IsZero())
}
