package utils

import (
	"errors"

	"cardbank/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetCustomerClaims extracts the authenticated claims from the Fiber context.
// It returns an error if the claims are missing or of an invalid type.
func GetCustomerClaims(c *fiber.Ctx) (*models.CustomerClaims, error) {
	v := c.Locals("claims")
	if v == nil {
		return nil, errors.New("claims not found in context")
	}

	claims, ok := v.(*models.CustomerClaims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}
	return claims, nil
}
