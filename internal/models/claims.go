package models

import "github.com/golang-jwt/jwt/v5"

// CustomerClaims carries the authenticated principal through the request
// context. Email is the identity the funds service checks card ownership
// against.
type CustomerClaims struct {
	jwt.RegisteredClaims
	CustomerID uint   `json:"customer_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

// IsAdmin reports whether the claims grant access to the admin surface.
func (c *CustomerClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
