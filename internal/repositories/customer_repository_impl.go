package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cardbank/internal/models"
	"cardbank/internal/repositories/cache"

	"gorm.io/gorm"
)

// customerCacheEntry is the envelope stored in redis. The Customer model
// strips Password from JSON for API responses, so the hash must travel in
// its own field or cached logins would compare against an empty string.
type customerCacheEntry struct {
	Customer     models.Customer `json:"customer"`
	PasswordHash string          `json:"password_hash"`
}

func newCustomerCacheEntry(c *models.Customer) customerCacheEntry {
	return customerCacheEntry{Customer: *c, PasswordHash: c.Password}
}

func (e *customerCacheEntry) customer() *models.Customer {
	c := e.Customer
	c.Password = e.PasswordHash
	return &c
}

type customerRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

func NewCustomerRepository(db *gorm.DB, cacheService *cache.CacheService) CustomerRepository {
	return &customerRepository{
		db:    db,
		cache: cacheService,
	}
}

func (r *customerRepository) Create(customer *models.Customer) error {
	if err := r.db.Create(customer).Error; err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *customerRepository) GetByID(id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &customer, nil
}

func (r *customerRepository) GetByEmail(email string) (*models.Customer, error) {
	key := r.cache.GenerateKey("customer", "email", email)
	var cached customerCacheEntry
	if found, err := r.cache.Get(context.Background(), key, &cached); found && err == nil {
		return cached.customer(), nil
	}

	var customer models.Customer
	if err := r.db.Where("email = ?", email).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	if err := r.cache.Set(context.Background(), key, newCustomerCacheEntry(&customer)); err != nil {
		log.Printf("Failed to cache customer %s: %v", email, err)
	}
	return &customer, nil
}
