package handlers

import (
	"strconv"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	domainerrors "github.com/TRAPZZY/AGRO--007-sub000/internal/domain/errors"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/interfaces/http/middleware"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/interfaces/http/response"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/usecases"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func principal(c *gin.Context) (entities.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
	}
	return p, ok
}

func farmer(c *gin.Context) (entities.FarmerPrincipal, bool) {
	p, ok := principal(c)
	if !ok {
		return entities.FarmerPrincipal{}, false
	}
	f, ok := p.(entities.FarmerPrincipal)
	if !ok {
		response.Error(c, domainerrors.Forbidden("Only farmers can perform this action"))
	}
	return f, ok
}

func investor(c *gin.Context) (entities.InvestorPrincipal, bool) {
	p, ok := principal(c)
	if !ok {
		return entities.InvestorPrincipal{}, false
	}
	i, ok := p.(entities.InvestorPrincipal)
	if !ok {
		response.Error(c, domainerrors.Forbidden("Only investors can perform this action"))
	}
	return i, ok
}

func admin(c *gin.Context) (entities.AdminPrincipal, bool) {
	p, ok := principal(c)
	if !ok {
		return entities.AdminPrincipal{}, false
	}
	a, ok := p.(entities.AdminPrincipal)
	if !ok {
		response.Error(c, domainerrors.Forbidden("Insufficient permissions"))
	}
	return a, ok
}

// pathID parses the :id path parameter
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid ID format"))
		return uuid.Nil, false
	}
	return id, true
}

// queryID parses an optional uuid query parameter
func queryID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid "+name))
		return nil, false
	}
	return &id, true
}

// page reads page/limit paging. An explicit offset overrides the page.
func page(c *gin.Context) (limit, offset int) {
	n, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("limit"))
	p := utils.GetPaginationParams(n, size)

	offset = p.CalculateOffset()
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return p.Limit, offset
}

// formUpload opens the multipart file in field. The caller closes the body.
func formUpload(c *gin.Context, field string) (usecases.Upload, func(), bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		response.Error(c, domainerrors.Validation(map[string]string{field: "Please choose a file to upload"}))
		return usecases.Upload{}, nil, false
	}
	f, err := fh.Open()
	if err != nil {
		response.Error(c, domainerrors.BadRequest("The uploaded file could not be read"))
		return usecases.Upload{}, nil, false
	}
	return usecases.Upload{FileName: fh.Filename, Size: fh.Size, Body: f}, func() { _ = f.Close() }, true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid request body"))
		return false
	}
	return true
}
