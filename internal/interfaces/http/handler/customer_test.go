package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	partnerapp "github.com/sfa/backend/internal/application/partner"
	"github.com/sfa/backend/internal/domain/partner"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/sfa/backend/internal/interfaces/http/dto"
)

// MockCustomerRepository implements partner.CustomerRepository for testing
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByCode(ctx context.Context, code string) (*partner.Customer, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) CountByStatus(ctx context.Context, status partner.CustomerStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupCustomerRouter(repo *MockCustomerRepository) *gin.Engine {
	service := partnerapp.NewCustomerService(repo)
	h := NewCustomerHandler(service)

	router := gin.New()
	router.POST("/customers", h.Create)
	router.GET("/customers", h.List)
	router.GET("/customers/:id", h.GetByID)
	router.GET("/customers/code/:code", h.GetByCode)
	router.POST("/customers/:id/suspend", h.Suspend)
	router.DELETE("/customers/:id", h.Delete)
	return router
}

func TestCustomerHandler_Create(t *testing.T) {
	t.Run("creates customer", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		router := setupCustomerRouter(repo)

		repo.On("ExistsByCode", mock.Anything, "CUST001").Return(false, nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)

		body, _ := json.Marshal(map[string]interface{}{
			"code":    "CUST001",
			"name":    "Acme Traders",
			"channel": "GT",
		})
		req := httptest.NewRequest("POST", "/customers", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		repo.AssertExpectations(t)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		router := setupCustomerRouter(repo)

		req := httptest.NewRequest("POST", "/customers", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate code returns conflict", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		router := setupCustomerRouter(repo)

		repo.On("ExistsByCode", mock.Anything, "CUST001").Return(true, nil)

		body, _ := json.Marshal(map[string]interface{}{
			"code":    "CUST001",
			"name":    "Acme Traders",
			"channel": "GT",
		})
		req := httptest.NewRequest("POST", "/customers", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeAlreadyExists)
	})
}

func TestCustomerHandler_GetByID(t *testing.T) {
	t.Run("returns customer", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		router := setupCustomerRouter(repo)

		customer, err := partner.NewCustomer("CUST002", "Metro Mart", partner.ChannelModernTrade)
		require.NoError(t, err)

		repo.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)

		req := httptest.NewRequest("GET", "/customers/"+customer.ID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "CUST002")
	})

	t.Run("missing customer returns 404", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		router := setupCustomerRouter(repo)

		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		req := httptest.NewRequest("GET", "/customers/"+id.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id returns 400", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		router := setupCustomerRouter(repo)

		req := httptest.NewRequest("GET", "/customers/not-a-uuid", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCustomerHandler_List(t *testing.T) {
	repo := new(MockCustomerRepository)
	router := setupCustomerRouter(repo)

	customer, err := partner.NewCustomer("CUST003", "Corner Store", partner.ChannelGeneralTrade)
	require.NoError(t, err)

	repo.On("FindAll", mock.Anything, mock.Anything).Return([]partner.Customer{*customer}, nil)
	repo.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

	req := httptest.NewRequest("GET", "/customers?status=ACTIVE&page=1&page_size=10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
	assert.Equal(t, 10, resp.Meta.PageSize)
}

func TestCustomerHandler_Suspend(t *testing.T) {
	repo := new(MockCustomerRepository)
	router := setupCustomerRouter(repo)

	customer, err := partner.NewCustomer("CUST004", "Suspended Shop", partner.ChannelGeneralTrade)
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
	repo.On("Save", mock.Anything, customer).Return(nil)

	req := httptest.NewRequest("POST", "/customers/"+customer.ID.String()+"/suspend", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, partner.CustomerStatusSuspended, customer.Status)
}

func TestCustomerHandler_Delete(t *testing.T) {
	repo := new(MockCustomerRepository)
	router := setupCustomerRouter(repo)

	customer, err := partner.NewCustomer("CUST005", "Closed Shop", partner.ChannelGeneralTrade)
	require.NoError(t, err)
	id := customer.ID

	repo.On("FindByID", mock.Anything, id).Return(customer, nil)
	repo.On("Delete", mock.Anything, id).Return(nil)

	req := httptest.NewRequest("DELETE", "/customers/"+id.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	repo.AssertExpectations(t)
}
