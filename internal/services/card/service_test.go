package card

import (
	"context"
	"testing"
	"time"

	"cardbank/internal/models"
	"cardbank/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCardRepo struct {
	mock.Mock
}

type MockCustomerRepo struct {
	mock.Mock
}

type MockIdemStore struct {
	mock.Mock
}

func TestCreateCard(t *testing.T) {
	owner := &models.Customer{Email: "alice@example.com"}
	owner.ID = 7

	tests := []struct {
		name      string
		req       CreateCardRequest
		setupMock func(*MockCardRepo, *MockCustomerRepo, *MockIdemStore)
		wantErr   error
	}{
		{
			name: "successful issuance",
			req: CreateCardRequest{
				Number:     "4000000000000001",
				OwnerEmail: "alice@example.com",
				Currency:   "EUR",
			},
			setupMock: func(cards *MockCardRepo, customers *MockCustomerRepo, idem *MockIdemStore) {
				customers.On("GetByEmail", "alice@example.com").Return(owner, nil)
				cards.On("Create", mock.Anything).Return(nil)
				idem.On("Complete", mock.Anything, "key-1", mock.Anything).Return(nil)
			},
		},
		{
			name: "owner does not exist",
			req: CreateCardRequest{
				Number:     "4000000000000001",
				OwnerEmail: "nobody@example.com",
			},
			setupMock: func(cards *MockCardRepo, customers *MockCustomerRepo, idem *MockIdemStore) {
				customers.On("GetByEmail", "nobody@example.com").Return(nil, repositories.ErrCustomerNotFound)
			},
			wantErr: ErrOwnerNotFound,
		},
		{
			name: "duplicate card number",
			req: CreateCardRequest{
				Number:     "4000000000000001",
				OwnerEmail: "alice@example.com",
			},
			setupMock: func(cards *MockCardRepo, customers *MockCustomerRepo, idem *MockIdemStore) {
				customers.On("GetByEmail", "alice@example.com").Return(owner, nil)
				cards.On("Create", mock.Anything).Return(repositories.ErrCardNumberTaken)
			},
			wantErr: ErrCardNumberTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards := new(MockCardRepo)
			customers := new(MockCustomerRepo)
			idem := new(MockIdemStore)
			tt.setupMock(cards, customers, idem)

			svc := NewService(cards, customers, idem)
			created, err := svc.CreateCard(context.Background(), tt.req, "key-1")

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, created)
			} else {
				require.NoError(t, err)
				require.NotNil(t, created)
				assert.Equal(t, owner.ID, created.CustomerID)
				assert.Equal(t, models.CardStatusActive, created.Status)
				assert.Equal(t, "EUR", created.Currency)
				assert.True(t, created.Balance.Equal(decimal.Zero))
			}

			cards.AssertExpectations(t)
			customers.AssertExpectations(t)
			idem.AssertExpectations(t)
		})
	}
}

func TestCreateCard_DefaultsCurrency(t *testing.T) {
	owner := &models.Customer{Email: "alice@example.com"}
	cards := new(MockCardRepo)
	customers := new(MockCustomerRepo)
	idem := new(MockIdemStore)

	customers.On("GetByEmail", "alice@example.com").Return(owner, nil)
	cards.On("Create", mock.Anything).Return(nil)

	svc := NewService(cards, customers, idem)
	created, err := svc.CreateCard(context.Background(), CreateCardRequest{
		Number:     "4000000000000001",
		OwnerEmail: "alice@example.com",
	}, "")

	require.NoError(t, err)
	assert.Equal(t, "USD", created.Currency)
	// A blank idempotency key skips memoization entirely.
	idem.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestBlock(t *testing.T) {
	ownedActive := func() *models.Card {
		return &models.Card{
			ID:       1,
			Number:   "4000000000000001",
			Customer: &models.Customer{Email: "alice@example.com"},
			Status:   models.CardStatusActive,
		}
	}

	tests := []struct {
		name      string
		email     string
		setupMock func(*MockCardRepo, *MockIdemStore)
		wantErr   error
	}{
		{
			name:  "owner blocks an active card",
			email: "alice@example.com",
			setupMock: func(cards *MockCardRepo, idem *MockIdemStore) {
				cards.On("GetByNumber", "4000000000000001").Return(ownedActive(), nil)
				cards.On("UpdateDetails", mock.MatchedBy(func(c *models.Card) bool {
					return c.Status == models.CardStatusBlocked
				})).Return(nil)
				idem.On("Complete", mock.Anything, "key-1", mock.Anything).Return(nil)
			},
		},
		{
			name:  "card belongs to another customer",
			email: "bob@example.com",
			setupMock: func(cards *MockCardRepo, idem *MockIdemStore) {
				cards.On("GetByNumber", "4000000000000001").Return(ownedActive(), nil)
			},
			wantErr: ErrAccessDenied,
		},
		{
			name:  "card is already blocked",
			email: "alice@example.com",
			setupMock: func(cards *MockCardRepo, idem *MockIdemStore) {
				blocked := ownedActive()
				blocked.Status = models.CardStatusBlocked
				cards.On("GetByNumber", "4000000000000001").Return(blocked, nil)
			},
			wantErr: ErrAlreadyBlocked,
		},
		{
			name:  "card does not exist",
			email: "alice@example.com",
			setupMock: func(cards *MockCardRepo, idem *MockIdemStore) {
				cards.On("GetByNumber", "4000000000000001").Return(nil, repositories.ErrCardNotFound)
			},
			wantErr: ErrCardNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards := new(MockCardRepo)
			idem := new(MockIdemStore)
			tt.setupMock(cards, idem)

			svc := NewService(cards, new(MockCustomerRepo), idem)
			err := svc.RequestBlock(context.Background(), "4000000000000001", tt.email, "key-1")

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			cards.AssertExpectations(t)
			idem.AssertExpectations(t)
		})
	}
}

func TestCustomerCard(t *testing.T) {
	card := &models.Card{
		ID:       1,
		Number:   "4000000000000001",
		Customer: &models.Customer{Email: "alice@example.com"},
		Status:   models.CardStatusActive,
	}

	cards := new(MockCardRepo)
	cards.On("GetByNumber", "4000000000000001").Return(card, nil)

	svc := NewService(cards, new(MockCustomerRepo), new(MockIdemStore))

	got, err := svc.CustomerCard(context.Background(), "4000000000000001", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, card.ID, got.ID)

	_, err = svc.CustomerCard(context.Background(), "4000000000000001", "bob@example.com")
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestTransaction(t *testing.T) {
	rec := &models.Transaction{ID: "tx-1", SourceCardID: 1}
	source := &models.Card{
		ID:       1,
		Number:   "4000000000000001",
		Customer: &models.Customer{Email: "alice@example.com"},
	}

	t.Run("owner reads own record", func(t *testing.T) {
		cards := new(MockCardRepo)
		cards.On("GetTransactionByID", "tx-1").Return(rec, nil)
		cards.On("GetByID", uint(1)).Return(source, nil)

		svc := NewService(cards, new(MockCustomerRepo), new(MockIdemStore))
		got, err := svc.Transaction(context.Background(), "tx-1", "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, "tx-1", got.ID)
	})

	t.Run("record belongs to another customer", func(t *testing.T) {
		cards := new(MockCardRepo)
		cards.On("GetTransactionByID", "tx-1").Return(rec, nil)
		cards.On("GetByID", uint(1)).Return(source, nil)

		svc := NewService(cards, new(MockCustomerRepo), new(MockIdemStore))
		_, err := svc.Transaction(context.Background(), "tx-1", "bob@example.com")
		require.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("unknown record", func(t *testing.T) {
		cards := new(MockCardRepo)
		cards.On("GetTransactionByID", "tx-9").Return(nil, repositories.ErrTransactionNotFound)

		svc := NewService(cards, new(MockCustomerRepo), new(MockIdemStore))
		_, err := svc.Transaction(context.Background(), "tx-9", "alice@example.com")
		require.ErrorIs(t, err, ErrTransactionNotFound)
	})
}

func TestBlockAndActivateCard(t *testing.T) {
	cards := new(MockCardRepo)
	idem := new(MockIdemStore)

	card := &models.Card{ID: 1, Number: "4000000000000001", Status: models.CardStatusActive}
	cards.On("GetByNumber", "4000000000000001").Return(card, nil)
	cards.On("UpdateDetails", mock.Anything).Return(nil)
	idem.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := NewService(cards, new(MockCustomerRepo), idem)

	require.NoError(t, svc.BlockCard(context.Background(), "4000000000000001", "key-1"))
	assert.Equal(t, models.CardStatusBlocked, card.Status)

	require.NoError(t, svc.ActivateCard(context.Background(), "4000000000000001", "key-2"))
	assert.Equal(t, models.CardStatusActive, card.Status)
}

func TestUpdateCard(t *testing.T) {
	t.Run("renumber and re-expiry", func(t *testing.T) {
		cards := new(MockCardRepo)
		card := &models.Card{ID: 1, Number: "4000000000000001"}
		cards.On("GetByNumber", "4000000000000001").Return(card, nil)
		cards.On("GetByNumber", "4000000000000099").Return(nil, repositories.ErrCardNotFound)
		// Lifecycle writes go through the column-limited update; a full
		// Save here would stomp a balance committed by a concurrent
		// funds operation.
		cards.On("UpdateDetails", mock.Anything).Return(nil)

		svc := NewService(cards, new(MockCustomerRepo), new(MockIdemStore))

		expiry := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		updated, err := svc.UpdateCard(context.Background(), UpdateCardRequest{
			Number:       "4000000000000001",
			NewNumber:    "4000000000000099",
			NewExpiresAt: expiry,
		})

		require.NoError(t, err)
		assert.Equal(t, "4000000000000099", updated.Number)
		assert.Equal(t, expiry, updated.ExpiresAt)
		cards.AssertNotCalled(t, "Save", mock.Anything)
	})

	t.Run("new number already taken", func(t *testing.T) {
		cards := new(MockCardRepo)
		card := &models.Card{ID: 1, Number: "4000000000000001"}
		other := &models.Card{ID: 2, Number: "4000000000000099"}
		cards.On("GetByNumber", "4000000000000001").Return(card, nil)
		cards.On("GetByNumber", "4000000000000099").Return(other, nil)

		svc := NewService(cards, new(MockCustomerRepo), new(MockIdemStore))

		_, err := svc.UpdateCard(context.Background(), UpdateCardRequest{
			Number:    "4000000000000001",
			NewNumber: "4000000000000099",
		})

		require.ErrorIs(t, err, ErrCardNumberTaken)
		cards.AssertNotCalled(t, "UpdateDetails", mock.Anything)
	})
}

// Mock implementations

func (m *MockCardRepo) Create(card *models.Card) error {
	args := m.Called(card)
	return args.Error(0)
}

func (m *MockCardRepo) GetByID(id uint) (*models.Card, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardRepo) GetTransactionByID(id string) (*models.Transaction, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockCardRepo) GetByNumber(number string) (*models.Card, error) {
	args := m.Called(number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardRepo) GetByNumberForUpdate(number string) (*models.Card, error) {
	args := m.Called(number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardRepo) Save(card *models.Card) error {
	args := m.Called(card)
	return args.Error(0)
}

func (m *MockCardRepo) UpdateDetails(card *models.Card) error {
	args := m.Called(card)
	return args.Error(0)
}

func (m *MockCardRepo) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCardRepo) GetByCustomerID(customerID uint, status string, limit, offset int) ([]models.Card, int64, error) {
	args := m.Called(customerID, status, limit, offset)
	return args.Get(0).([]models.Card), args.Get(1).(int64), args.Error(2)
}

func (m *MockCardRepo) GetAllPaginated(limit, offset int) ([]models.Card, int64, error) {
	args := m.Called(limit, offset)
	return args.Get(0).([]models.Card), args.Get(1).(int64), args.Error(2)
}

func (m *MockCardRepo) CreateTransaction(rec *models.Transaction) error {
	args := m.Called(rec)
	return args.Error(0)
}

func (m *MockCardRepo) GetTransactionsBySourceCard(cardID uint, limit, offset int) ([]models.Transaction, error) {
	args := m.Called(cardID, limit, offset)
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func (m *MockCardRepo) ExecuteInTransaction(fn func(repositories.CardRepository) error) error {
	args := m.Called(fn)
	return args.Error(0)
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

func (m *MockIdemStore) Complete(ctx context.Context, key string, result interface{}) error {
	args := m.Called(ctx, key, result)
	return args.Error(0)
}
