package partner

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sfa/backend/internal/domain/partner"
	"github.com/sfa/backend/internal/domain/shared"
)

// MockCustomerRepository is a mock implementation of CustomerRepository
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

func TestCustomerService_Create(t *testing.T) {
	t.Run("creates customer with valid request", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo)

		repo.On("ExistsByCode", mock.Anything, "CUST001").Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Customer")).Return(nil)

		resp, err := service.Create(context.Background(), CreateCustomerRequest{
			Code:    "CUST001",
			Name:    "Corner Store",
			Channel: "GT",
		})

		assert.NoError(t, err)
		assert.NotNil(t, resp)
		assert.Equal(t, "CUST001", resp.Code)
		assert.Equal(t, string(partner.CustomerStatusActive), resp.Status)
		repo.AssertExpectations(t)
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo)

		repo.On("ExistsByCode", mock.Anything, "CUST001").Return(true, nil)

		resp, err := service.Create(context.Background(), CreateCustomerRequest{
			Code:    "CUST001",
			Name:    "Corner Store",
			Channel: "GT",
		})

		assert.Nil(t, resp)
		assert.Equal(t, shared.ErrAlreadyExists, err)
		repo.AssertNotCalled(t, "Save")
	})

	t.Run("rejects unknown channel", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo)

		repo.On("ExistsByCode", mock.Anything, "CUST001").Return(false, nil)

		resp, err := service.Create(context.Background(), CreateCustomerRequest{
			Code:    "CUST001",
			Name:    "Corner Store",
			Channel: "BOGUS",
		})

		assert.Nil(t, resp)
		assert.Error(t, err)
		repo.AssertNotCalled(t, "Save")
	})
}

func TestCustomerService_GetByCode(t *testing.T) {
	repo := new(MockCustomerRepository)
	service := NewCustomerService(repo)

	customer, err := partner.NewCustomer("CUST001", "Corner Store", partner.ChannelGeneralTrade)
	assert.NoError(t, err)

	repo.On("FindByCode", mock.Anything, "CUST001").Return(customer, nil)

	resp, err := service.GetByCode(context.Background(), "CUST001")

	assert.NoError(t, err)
	assert.Equal(t, "Corner Store", resp.Name)
	repo.AssertExpectations(t)
}

func TestCustomerService_CountByStatus(t *testing.T) {
	repo := new(MockCustomerRepository)
	service := NewCustomerService(repo)

	repo.On("CountByStatus", mock.Anything, partner.CustomerStatusActive).Return(int64(10), nil)
	repo.On("CountByStatus", mock.Anything, partner.CustomerStatusInactive).Return(int64(3), nil)
	repo.On("CountByStatus", mock.Anything, partner.CustomerStatusSuspended).Return(int64(1), nil)

	counts, err := service.CountByStatus(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(10), counts["ACTIVE"])
	assert.Equal(t, int64(3), counts["INACTIVE"])
	assert.Equal(t, int64(1), counts["SUSPENDED"])
	repo.AssertExpectations(t)
}

func TestCustomerService_List(t *testing.T) {
	t.Run("applies defaults and maps filters", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo)

		status := "ACTIVE"
		var captured shared.Filter
		repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
			captured = f
			return true
		})).Return([]partner.Customer{}, nil)
		repo.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)

		_, total, err := service.List(context.Background(), CustomerListFilter{Status: &status})

		assert.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.Equal(t, 1, captured.Page)
		assert.Equal(t, 20, captured.PageSize)
		assert.Equal(t, "ACTIVE", captured.Filters["status"])
		repo.AssertExpectations(t)
	})
}

func TestCustomerService_Suspend(t *testing.T) {
	t.Run("suspends and persists", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo)

		customer, err := partner.NewCustomer("CUST001", "Corner Store", partner.ChannelGeneralTrade)
		assert.NoError(t, err)

		repo.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
		repo.On("Save", mock.Anything, customer).Return(nil)

		err = service.Suspend(context.Background(), customer.ID)

		assert.NoError(t, err)
		assert.Equal(t, partner.CustomerStatusSuspended, customer.Status)
		repo.AssertExpectations(t)
	})

	t.Run("propagates lookup failure", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo)

		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		err := service.Suspend(context.Background(), id)

		assert.True(t, errors.Is(err, shared.ErrNotFound))
		repo.AssertNotCalled(t, "Save")
	})
}
