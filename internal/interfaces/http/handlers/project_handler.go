package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/validation"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/interfaces/http/response"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/usecases"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProjectService is the project API the project handler depends on
type ProjectService interface {
	Create(ctx context.Context, farmer entities.FarmerPrincipal, form validation.ProjectForm) (*entities.Project, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.Project, error)
	List(ctx context.Context, filter entities.ProjectFilter) ([]*entities.Project, error)
	Update(ctx context.Context, farmer entities.FarmerPrincipal, id uuid.UUID, form validation.ProjectPatchForm) (*entities.Project, error)
	Delete(ctx context.Context, p entities.Principal, id uuid.UUID) error
	UploadImage(ctx context.Context, farmer entities.FarmerPrincipal, id uuid.UUID, up usecases.Upload) (*entities.Project, error)
}

// ProjectHandler handles project endpoints
type ProjectHandler struct {
	projectService ProjectService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// List lists projects
// GET /api/v1/projects?farmer_id=&status=&category=&risk_level=&search=&sort=created_at.desc
func (h *ProjectHandler) List(c *gin.Context) {
	farmerID, ok := queryID(c, "farmer_id")
	if !ok {
		return
	}
	filter := entities.ProjectFilter{
		FarmerID:  farmerID,
		Status:    entities.ProjectStatus(c.Query("status")),
		Category:  entities.ProjectCategory(c.Query("category")),
		RiskLevel: entities.RiskLevel(c.Query("risk_level")),
		Search:    strings.TrimSpace(c.Query("search")),
		Order:     parseSort(c.Query("sort")),
	}
	// farmers see their own projects with mine=true
	if c.Query("mine") == "true" {
		if p, ok := principal(c); ok {
			id := p.UserID()
			filter.FarmerID = &id
		} else {
			return
		}
	}
	filter.Limit, filter.Offset = page(c)

	projects, err := h.projectService.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, projects, len(projects))
}

// Get returns a project
// GET /api/v1/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	project, err := h.projectService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, project)
}

// Create creates a project for the calling farmer
// POST /api/v1/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	f, ok := farmer(c)
	if !ok {
		return
	}
	var form validation.ProjectForm
	if !bindJSON(c, &form) {
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), f, form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, project)
}

// Update partially updates the farmer's project
// PATCH /api/v1/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	f, ok := farmer(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var form validation.ProjectPatchForm
	if !bindJSON(c, &form) {
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), f, id, form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, project)
}

// Delete removes a project
// DELETE /api/v1/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), p, id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadImage attaches an image to the farmer's project
// POST /api/v1/projects/:id/images (multipart, field "image")
func (h *ProjectHandler) UploadImage(c *gin.Context) {
	f, ok := farmer(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	up, closeFn, ok := formUpload(c, "image")
	if !ok {
		return
	}
	defer closeFn()

	project, err := h.projectService.UploadImage(c.Request.Context(), f, id, up)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, project)
}

// parseSort reads "column.asc" or "column.desc"; the repository checks the column
func parseSort(s string) *entities.Order {
	if s == "" {
		return nil
	}
	col, dir, _ := strings.Cut(s, ".")
	return &entities.Order{Column: col, Descending: dir == "desc"}
}
