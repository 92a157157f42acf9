package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencampus/registrar-api/internal/models"
	"github.com/opencampus/registrar-api/internal/repository"
	"github.com/opencampus/registrar-api/internal/service"
)

type stubDepartmentStore struct {
	byID  map[int64]*models.Department
	inUse bool
}

func (s *stubDepartmentStore) List(ctx context.Context) ([]models.Department, error) {
	var departments []models.Department
	for _, d := range s.byID {
		departments = append(departments, *d)
	}
	return departments, nil
}

func (s *stubDepartmentStore) FindByID(ctx context.Context, id int64) (*models.Department, error) {
	department, ok := s.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return department, nil
}

func (s *stubDepartmentStore) Create(ctx context.Context, department *models.Department) error {
	department.ID = 1
	return nil
}

func (s *stubDepartmentStore) Update(ctx context.Context, id int64, params repository.UpdateDepartmentParams) error {
	return nil
}

func (s *stubDepartmentStore) InUse(ctx context.Context, id int64) (bool, error) {
	return s.inUse, nil
}

func (s *stubDepartmentStore) Delete(ctx context.Context, id int64) error {
	delete(s.byID, id)
	return nil
}

func departmentRouter(store *stubDepartmentStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewDepartmentHandler(service.NewDepartmentService(store))
	router := gin.New()
	router.GET("/departments/:id", h.Get)
	router.POST("/departments", h.Create)
	router.DELETE("/departments/:id", h.Delete)
	return router
}

func TestDepartmentCreate(t *testing.T) {
	router := departmentRouter(&stubDepartmentStore{byID: map[int64]*models.Department{}})

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/departments", strings.NewReader(`{"code":"CS","name":"Computer Science"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Computer Science")
}

func TestDepartmentCreateInvalidPayload(t *testing.T) {
	router := departmentRouter(&stubDepartmentStore{})

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/departments", strings.NewReader(`{"code":""}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestDepartmentGetNotFound(t *testing.T) {
	router := departmentRouter(&stubDepartmentStore{})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/departments/99", nil))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestDepartmentDeleteInUse(t *testing.T) {
	router := departmentRouter(&stubDepartmentStore{
		byID:  map[int64]*models.Department{1: {ID: 1, Code: "CS", Name: "Computer Science"}},
		inUse: true,
	})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/departments/1", nil))

	assert.Equal(t, http.StatusConflict, recorder.Code)
}
