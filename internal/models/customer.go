package models

import "gorm.io/gorm"

// Customer roles
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type Customer struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Name     string `gorm:"not null" json:"name"`
	Role     string `gorm:"default:'customer'" json:"role"`
	Status   string `gorm:"default:'active'" json:"status"`
}
