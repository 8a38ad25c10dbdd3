package handler

import (
	"errors"
	"net/http"

	"flowinvoice/internal/service"
	"flowinvoice/pkg/pagination"
	"flowinvoice/pkg/response"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
	reportService  service.ReportService
}

func NewInvoiceHandler(invoiceService service.InvoiceService, reportService service.ReportService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		reportService:  reportService,
	}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/api/invoices")
	{
		invoices.GET("", h.ListInvoices)
		invoices.GET("/:invoiceNumber", h.GetInvoice)
		invoices.POST("/:invoiceNumber/credit-note", h.AddCreditNote)
	}

	reports := invoices.Group("/reports")
	{
		reports.GET("/overdue-without-creditnotes", h.OverdueWithoutCreditNotes)
		reports.GET("/payment-status-summary", h.PaymentStatusSummary)
		reports.GET("/inconsistent-invoices", h.InconsistentInvoices)
	}
}

// ListInvoices returns a paginated list of consistent invoices
// @Summary      List invoices
// @Description  Retrieves consistent invoices, optionally filtered by number, status and payment status
// @Tags         invoices
// @Produce      json
// @Param        invoiceNumber  query     string  false  "Invoice number (partial match)"
// @Param        status         query     string  false  "Invoice status (Issued, Partial, Cancelled)"
// @Param        paymentStatus  query     string  false  "Payment status (Pending, Overdue, Paid)"
// @Param        page           query     int     false  "Page number (default 1)"
// @Param        limit          query     int     false  "Number of items per page (default 20)"
// @Success      200            {object}  response.Response{data=[]service.InvoiceListItem,meta=pagination.Meta}
// @Failure      500            {object}  response.Response
// @Router       /api/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	params := pagination.Parse(c)

	filter := service.InvoiceFilter{
		InvoiceNumber: c.Query("invoiceNumber"),
		Status:        c.Query("status"),
		PaymentStatus: c.Query("paymentStatus"),
		Page:          params.Page,
		Limit:         params.Limit,
	}

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paged(http.StatusOK, invoices, params.Meta(total)))
}

// GetInvoice returns one invoice with items and credit notes
// @Summary      Get invoice
// @Description  Retrieves an invoice by its number, including customer, payment, items and credit notes
// @Tags         invoices
// @Produce      json
// @Param        invoiceNumber  path      string  true  "Invoice number"
// @Success      200            {object}  response.Response{data=service.InvoiceDetailResponse}
// @Failure      404            {object}  response.Response
// @Failure      500            {object}  response.Response
// @Router       /api/invoices/{invoiceNumber} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	detail, err := h.invoiceService.GetInvoiceDetails(c.Request.Context(), c.Param("invoiceNumber"))
	if errors.Is(err, service.ErrInvoiceNotFound) {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, detail))
}

// AddCreditNote applies a credit note to an invoice
// @Summary      Add credit note
// @Description  Credits part or all of the pending balance. Crediting the full balance cancels the invoice and marks it paid.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        invoiceNumber  path      string                        true  "Invoice number"
// @Param        payload        body      service.AddCreditNoteRequest  true  "Credit note amount"
// @Success      200            {object}  response.Response{data=service.AddCreditNoteResult}
// @Failure      400            {object}  response.Response{data=service.AddCreditNoteResult}
// @Failure      404            {object}  response.Response{data=service.AddCreditNoteResult}
// @Failure      409            {object}  response.Response
// @Failure      500            {object}  response.Response
// @Router       /api/invoices/{invoiceNumber}/credit-note [post]
func (h *InvoiceHandler) AddCreditNote(c *gin.Context) {
	var req service.AddCreditNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.invoiceService.AddCreditNote(c.Request.Context(), c.Param("invoiceNumber"), req.CreditNoteAmount)
	if errors.Is(err, service.ErrConcurrentUpdate) {
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}

	if !result.Success {
		status := http.StatusBadRequest
		if result.Reason == service.RejectInvoiceNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, response.ErrorWithData(status, result.ErrorMessage, result))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// OverdueWithoutCreditNotes lists long-overdue invoices nobody has credited
// @Summary      Overdue invoices without credit notes
// @Description  Consistent invoices overdue beyond the configured threshold that have no credit notes
// @Tags         reports
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.OverdueInvoiceReport}
// @Failure      500  {object}  response.Response
// @Router       /api/invoices/reports/overdue-without-creditnotes [get]
func (h *InvoiceHandler) OverdueWithoutCreditNotes(c *gin.Context) {
	report, err := h.reportService.OverdueWithoutCreditNotes(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// PaymentStatusSummary counts consistent invoices per payment status
// @Summary      Payment status summary
// @Description  Totals and percentages of consistent invoices per payment status
// @Tags         reports
// @Produce      json
// @Success      200  {object}  response.Response{data=service.PaymentStatusReport}
// @Failure      500  {object}  response.Response
// @Router       /api/invoices/reports/payment-status-summary [get]
func (h *InvoiceHandler) PaymentStatusSummary(c *gin.Context) {
	report, err := h.reportService.PaymentStatusSummary(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// InconsistentInvoices lists invoices whose declared total differs from their items
// @Summary      Inconsistent invoices
// @Description  Declared total against the sum of item subtotals for every inconsistent invoice
// @Tags         reports
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.InconsistentInvoiceReport}
// @Failure      500  {object}  response.Response
// @Router       /api/invoices/reports/inconsistent-invoices [get]
func (h *InvoiceHandler) InconsistentInvoices(c *gin.Context) {
	report, err := h.reportService.InconsistentInvoices(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}
