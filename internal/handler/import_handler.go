package handler

import (
	"net/http"

	"flowinvoice/internal/service"
	"flowinvoice/pkg/pagination"
	"flowinvoice/pkg/response"

	"github.com/gin-gonic/gin"
)

type ImportHandler struct {
	importService service.ImportService
}

func NewImportHandler(importService service.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

func (h *ImportHandler) RegisterRoutes(router *gin.RouterGroup) {
	imports := router.Group("/api/import")
	{
		imports.POST("/json", h.ImportJSON)
		imports.GET("/errors", h.ListImportErrors)
	}
}

// ImportJSON imports a batch of invoices
// @Summary      Import invoices
// @Description  Imports invoices from a JSON document. Duplicates are skipped, inconsistent invoices are stored but flagged. Answers 400 when no invoice was imported cleanly.
// @Tags         import
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ImportRequest  true  "Invoices to import"
// @Success      200      {object}  response.Response{data=service.ImportResult}
// @Failure      400      {object}  response.Response{data=service.ImportResult}
// @Failure      500      {object}  response.Response
// @Router       /api/import/json [post]
func (h *ImportHandler) ImportJSON(c *gin.Context) {
	var req service.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.importService.ImportBatch(c.Request.Context(), req.Invoices)
	if err != nil {
		internalError(c, err)
		return
	}

	if result.InvoicesImportedSuccessfully == 0 {
		c.JSON(http.StatusBadRequest, response.ErrorWithData(http.StatusBadRequest, result.Message, result))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ListImportErrors returns the import error log
// @Summary      List import errors
// @Description  Retrieves logged import problems, newest first
// @Tags         import
// @Produce      json
// @Param        errorType  query     string  false  "DuplicateInvoiceNumber or InconsistentAmount"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Number of items per page (default 20)"
// @Success      200        {object}  response.Response{data=[]service.ImportErrorResponse,meta=pagination.Meta}
// @Failure      500        {object}  response.Response
// @Router       /api/import/errors [get]
func (h *ImportHandler) ListImportErrors(c *gin.Context) {
	params := pagination.Parse(c)

	entries, total, err := h.importService.ListImportErrors(c.Request.Context(), c.Query("errorType"), params.Page, params.Limit)
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paged(http.StatusOK, entries, params.Meta(total)))
}
