package customer

import (
	"testing"

	"cardbank/internal/models"
	"cardbank/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockCustomerRepo struct {
	mock.Mock
}

func (m *MockCustomerRepo) Create(customer *models.Customer) error {
	args := m.Called(customer)
	return args.Error(0)
}

func (m *MockCustomerRepo) GetByID(id uint) (*models.Customer, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerRepo) GetByEmail(email string) (*models.Customer, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func TestRegister(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		repo := new(MockCustomerRepo)
		repo.On("GetByEmail", "alice@example.com").Return(nil, repositories.ErrCustomerNotFound)
		repo.On("Create", mock.Anything).Return(nil)

		svc := NewService(repo)
		created, err := svc.Register(RegisterRequest{
			Email:    "alice@example.com",
			Password: "hunter22",
			Name:     "Alice",
		})

		require.NoError(t, err)
		assert.Equal(t, models.RoleCustomer, created.Role)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("hunter22")))
		repo.AssertExpectations(t)
	})

	t.Run("email already registered", func(t *testing.T) {
		repo := new(MockCustomerRepo)
		repo.On("GetByEmail", "alice@example.com").Return(&models.Customer{Email: "alice@example.com"}, nil)

		svc := NewService(repo)
		_, err := svc.Register(RegisterRequest{Email: "alice@example.com", Password: "hunter22"})
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("blank credentials", func(t *testing.T) {
		svc := NewService(new(MockCustomerRepo))
		_, err := svc.Register(RegisterRequest{Email: "", Password: ""})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	hashed, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &models.Customer{
		Email:    "alice@example.com",
		Password: string(hashed),
		Role:     models.RoleCustomer,
	}

	t.Run("successful login", func(t *testing.T) {
		repo := new(MockCustomerRepo)
		repo.On("GetByEmail", "alice@example.com").Return(stored, nil)

		svc := NewService(repo)
		c, token, err := svc.Login("alice@example.com", "hunter22")
		require.NoError(t, err)
		assert.Equal(t, stored.Email, c.Email)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockCustomerRepo)
		repo.On("GetByEmail", "alice@example.com").Return(stored, nil)

		svc := NewService(repo)
		_, _, err := svc.Login("alice@example.com", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := new(MockCustomerRepo)
		repo.On("GetByEmail", "nobody@example.com").Return(nil, repositories.ErrCustomerNotFound)

		svc := NewService(repo)
		_, _, err := svc.Login("nobody@example.com", "hunter22")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
