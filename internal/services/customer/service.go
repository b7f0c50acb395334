// Package customer handles registration and login for card owners.
package customer

import (
	"errors"
	"log"

	"cardbank/internal/models"
	"cardbank/internal/repositories"
	"cardbank/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

// Service errors
var (
	ErrEmailTaken         = errors.New("customer with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// RegisterRequest creates a new customer account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type Service interface {
	Register(req RegisterRequest) (*models.Customer, error)
	Login(email, password string) (*models.Customer, string, error)
}

type service struct {
	repo repositories.CustomerRepository
}

func NewService(repo repositories.CustomerRepository) Service {
	if repo == nil {
		panic("customer repository is required")
	}
	return &service{repo: repo}
}

func (s *service) Register(req RegisterRequest) (*models.Customer, error) {
	if req.Email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	if existing, _ := s.repo.GetByEmail(req.Email); existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	c := &models.Customer{
		Email:    req.Email,
		Password: string(hashed),
		Name:     req.Name,
		Role:     models.RoleCustomer,
		Status:   "active",
	}
	if err := s.repo.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Login(email, password string) (*models.Customer, string, error) {
	c, err := s.repo.GetByEmail(email)
	if err != nil {
		log.Printf("Login failed: customer not found for %s", email)
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(c.Password), []byte(password)); err != nil {
		log.Printf("Login failed: wrong password for customer %d", c.ID)
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(&models.CustomerClaims{
		CustomerID: c.ID,
		Email:      c.Email,
		Role:       c.Role,
	})
	if err != nil {
		return nil, "", errors.New("failed to generate token")
	}

	return c, token, nil
}
