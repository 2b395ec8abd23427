package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/validation"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvestmentService is the investment API the investment handler depends on
type InvestmentService interface {
	Invest(ctx context.Context, investor entities.InvestorPrincipal, form validation.InvestmentForm) (*entities.Investment, error)
	List(ctx context.Context, p entities.Principal, filter entities.InvestmentFilter) ([]*entities.Investment, error)
	Get(ctx context.Context, p entities.Principal, id uuid.UUID) (*entities.Investment, error)
	WriteReceipt(ctx context.Context, investor entities.InvestorPrincipal, id uuid.UUID, w io.Writer) error
	UpdateStatus(ctx context.Context, admin entities.AdminPrincipal, id uuid.UUID, form validation.InvestmentStatusForm) (*entities.Investment, error)
	Delete(ctx context.Context, admin entities.AdminPrincipal, id uuid.UUID) error
}

// InvestmentHandler handles investment endpoints
type InvestmentHandler struct {
	investmentService InvestmentService
}

// NewInvestmentHandler creates a new investment handler
func NewInvestmentHandler(investmentService InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{investmentService: investmentService}
}

// Create places an investment
// POST /api/v1/investments
func (h *InvestmentHandler) Create(c *gin.Context) {
	inv, ok := investor(c)
	if !ok {
		return
	}
	var form validation.InvestmentForm
	if !bindJSON(c, &form) {
		return
	}

	investment, err := h.investmentService.Invest(c.Request.Context(), inv, form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, investment)
}

// List lists the investments visible to the caller
// GET /api/v1/investments?project_id=&status=
func (h *InvestmentHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	filter, ok := investmentFilter(c)
	if !ok {
		return
	}

	investments, err := h.investmentService.List(c.Request.Context(), p, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, investments, len(investments))
}

// Get returns an investment
// GET /api/v1/investments/:id
func (h *InvestmentHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	investment, err := h.investmentService.Get(c.Request.Context(), p, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, investment)
}

// Receipt downloads the PDF receipt of an investment
// GET /api/v1/investments/:id/receipt
func (h *InvestmentHandler) Receipt(c *gin.Context) {
	inv, ok := investor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.investmentService.WriteReceipt(c.Request.Context(), inv, id, &buf); err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="receipt-`+id.String()+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// UpdateStatus moves an investment through its lifecycle
// PATCH /api/v1/admin/investments/:id/status
func (h *InvestmentHandler) UpdateStatus(c *gin.Context) {
	a, ok := admin(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var form validation.InvestmentStatusForm
	if !bindJSON(c, &form) {
		return
	}

	investment, err := h.investmentService.UpdateStatus(c.Request.Context(), a, id, form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, investment)
}

// Delete removes an investment
// DELETE /api/v1/admin/investments/:id
func (h *InvestmentHandler) Delete(c *gin.Context) {
	a, ok := admin(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.investmentService.Delete(c.Request.Context(), a, id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func investmentFilter(c *gin.Context) (entities.InvestmentFilter, bool) {
	projectID, ok := queryID(c, "project_id")
	if !ok {
		return entities.InvestmentFilter{}, false
	}
	filter := entities.InvestmentFilter{
		ProjectID: projectID,
		Status:    entities.InvestmentStatus(c.Query("status")),
		Order:     parseSort(c.Query("sort")),
	}
	filter.Limit, filter.Offset = page(c)
	return filter, true
}
