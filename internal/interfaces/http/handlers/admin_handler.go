package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminService is the oversight API the admin handler depends on
type AdminService interface {
	ListUsers(ctx context.Context, admin entities.AdminPrincipal, filter entities.UserFilter) ([]*entities.User, error)
	ExportInvestments(ctx context.Context, admin entities.AdminPrincipal, filter entities.InvestmentFilter, w io.Writer) error
	Reconcile(ctx context.Context, admin entities.AdminPrincipal) ([]entities.FundingMismatch, error)
}

// AdminHandler handles admin endpoints
type AdminHandler struct {
	adminService AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListUsers lists users
// GET /api/v1/admin/users?role=&search=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	a, ok := admin(c)
	if !ok {
		return
	}
	filter := entities.UserFilter{
		Role:   entities.UserRole(c.Query("role")),
		Search: strings.TrimSpace(c.Query("search")),
	}
	filter.Limit, filter.Offset = page(c)

	users, err := h.adminService.ListUsers(c.Request.Context(), a, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, users, len(users))
}

// ExportInvestments downloads the investment ledger as a workbook
// GET /api/v1/admin/reports/investments.xlsx?project_id=&status=
func (h *AdminHandler) ExportInvestments(c *gin.Context) {
	a, ok := admin(c)
	if !ok {
		return
	}
	filter, ok := investmentFilter(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.adminService.ExportInvestments(c.Request.Context(), a, filter, &buf); err != nil {
		response.Error(c, err)
		return
	}
	name := "investments-" + time.Now().UTC().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Reconcile runs a funding reconciliation pass
// POST /api/v1/admin/reconcile
func (h *AdminHandler) Reconcile(c *gin.Context) {
	a, ok := admin(c)
	if !ok {
		return
	}

	mismatches, err := h.adminService.Reconcile(c.Request.Context(), a)
	if err != nil {
		response.Error(c, err)
		return
	}
	if mismatches == nil {
		mismatches = []entities.FundingMismatch{}
	}
	response.Success(c, http.StatusOK, gin.H{"mismatches": mismatches, "count": len(mismatches)})
}
