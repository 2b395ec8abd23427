package handlers

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	domainerrors "github.com/TRAPZZY/AGRO--007-sub000/internal/domain/errors"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/validation"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/usecases"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type projectServiceStub struct {
	createFn func(ctx context.Context, farmer entities.FarmerPrincipal, form validation.ProjectForm) (*entities.Project, error)
	getFn    func(ctx context.Context, id uuid.UUID) (*entities.Project, error)
	listFn   func(ctx context.Context, filter entities.ProjectFilter) ([]*entities.Project, error)
	updateFn func(ctx context.Context, farmer entities.FarmerPrincipal, id uuid.UUID, form validation.ProjectPatchForm) (*entities.Project, error)
	deleteFn func(ctx context.Context, p entities.Principal, id uuid.UUID) error
	uploadFn func(ctx context.Context, farmer entities.FarmerPrincipal, id uuid.UUID, up usecases.Upload) (*entities.Project, error)
}

func (s projectServiceStub) Create(ctx context.Context, farmer entities.FarmerPrincipal, form validation.ProjectForm) (*entities.Project, error) {
	return s.createFn(ctx, farmer, form)
}
func (s projectServiceStub) Get(ctx context.Context, id uuid.UUID) (*entities.Project, error) {
	return s.getFn(ctx, id)
}
func (s projectServiceStub) List(ctx context.Context, filter entities.ProjectFilter) ([]*entities.Project, error) {
	return s.listFn(ctx, filter)
}
func (s projectServiceStub) Update(ctx context.Context, farmer entities.FarmerPrincipal, id uuid.UUID, form validation.ProjectPatchForm) (*entities.Project, error) {
	return s.updateFn(ctx, farmer, id, form)
}
func (s projectServiceStub) Delete(ctx context.Context, p entities.Principal, id uuid.UUID) error {
	return s.deleteFn(ctx, p, id)
}
func (s projectServiceStub) UploadImage(ctx context.Context, farmer entities.FarmerPrincipal, id uuid.UUID, up usecases.Upload) (*entities.Project, error) {
	return s.uploadFn(ctx, farmer, id, up)
}

func projectRouter(p entities.Principal, stub projectServiceStub) *gin.Engine {
	h := NewProjectHandler(stub)
	r := newRouter(p)
	r.GET("/projects", h.List)
	r.GET("/projects/:id", h.Get)
	r.POST("/projects", h.Create)
	r.PATCH("/projects/:id", h.Update)
	r.DELETE("/projects/:id", h.Delete)
	r.POST("/projects/:id/images", h.UploadImage)
	return r
}

func TestProjectHandler_List(t *testing.T) {
	var got entities.ProjectFilter
	stub := projectServiceStub{
		listFn: func(_ context.Context, filter entities.ProjectFilter) ([]*entities.Project, error) {
			got = filter
			return []*entities.Project{{ID: uuid.New(), Title: "Maize irrigation"}}, nil
		},
	}
	r := projectRouter(farmerP, stub)

	w := doJSON(r, http.MethodGet, "/projects?status=active&category=crops&risk_level=low&search=+maize+&sort=funding_goal.desc&limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
	assert.Equal(t, entities.ProjectStatusActive, got.Status)
	assert.Equal(t, entities.CategoryCrops, got.Category)
	assert.Equal(t, entities.RiskLow, got.RiskLevel)
	assert.Equal(t, "maize", got.Search)
	assert.Equal(t, 5, got.Limit)
	require.NotNil(t, got.Order)
	assert.True(t, got.Order.Descending)
	assert.Nil(t, got.FarmerID)

	w = doJSON(r, http.MethodGet, "/projects?mine=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got.FarmerID)
	assert.Equal(t, farmerP.ID, *got.FarmerID)

	w = doJSON(r, http.MethodGet, "/projects?farmer_id=nope", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjectHandler_Get(t *testing.T) {
	known := uuid.New()
	stub := projectServiceStub{
		getFn: func(_ context.Context, id uuid.UUID) (*entities.Project, error) {
			if id != known {
				return nil, domainerrors.ErrNotFound
			}
			return &entities.Project{ID: id, Title: "Maize irrigation"}, nil
		},
	}
	r := projectRouter(nil, stub)

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/projects/"+known.String(), "").Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodGet, "/projects/"+uuid.NewString(), "").Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/projects/not-a-uuid", "").Code)
}

func TestProjectHandler_CreateRequiresFarmer(t *testing.T) {
	stub := projectServiceStub{
		createFn: func(_ context.Context, farmer entities.FarmerPrincipal, form validation.ProjectForm) (*entities.Project, error) {
			return &entities.Project{ID: uuid.New(), FarmerID: farmer.ID, Title: form.Title}, nil
		},
	}
	body := `{"title":"Maize irrigation","funding_goal":"50000","minimum_investment":100}`

	w := doJSON(projectRouter(farmerP, stub), http.MethodPost, "/projects", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), farmerP.ID.String())

	w = doJSON(projectRouter(investorP, stub), http.MethodPost, "/projects", body)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProjectHandler_UpdateAndDelete(t *testing.T) {
	id := uuid.New()
	var deletedBy entities.Principal
	stub := projectServiceStub{
		updateFn: func(_ context.Context, _ entities.FarmerPrincipal, _ uuid.UUID, form validation.ProjectPatchForm) (*entities.Project, error) {
			if form.Status != nil && *form.Status == "completed" {
				return nil, domainerrors.ErrInvalidTransition
			}
			return &entities.Project{ID: id, Status: entities.ProjectStatusActive}, nil
		},
		deleteFn: func(_ context.Context, p entities.Principal, _ uuid.UUID) error {
			deletedBy = p
			return nil
		},
	}
	r := projectRouter(farmerP, stub)

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodPatch, "/projects/"+id.String(), `{"status":"active"}`).Code)
	assert.Equal(t, http.StatusConflict, doJSON(r, http.MethodPatch, "/projects/"+id.String(), `{"status":"completed"}`).Code)

	w := doJSON(projectRouter(adminP, stub), http.MethodDelete, "/projects/"+id.String(), "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, adminP, deletedBy)
}

func TestProjectHandler_UploadImage(t *testing.T) {
	id := uuid.New()
	var received []byte
	stub := projectServiceStub{
		uploadFn: func(_ context.Context, _ entities.FarmerPrincipal, _ uuid.UUID, up usecases.Upload) (*entities.Project, error) {
			received, _ = io.ReadAll(up.Body)
			assert.Equal(t, "field.png", up.FileName)
			assert.Equal(t, int64(len(received)), up.Size)
			return &entities.Project{ID: id, ImageURLs: []string{"https://files.example.test/project-images/x.png"}}, nil
		},
	}
	r := projectRouter(farmerP, stub)

	body, contentType := multipartBody(t, nil, "image", "field.png", []byte("\x89PNG\r\n\x1a\nrest"))
	w := do(r, http.MethodPost, "/projects/"+id.String()+"/images", body, contentType)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\nrest"), received)
	assert.Contains(t, w.Body.String(), "x.png")
}
