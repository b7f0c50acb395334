// Package middleware provides HTTP middleware for the application,
// including JWT authentication and role gating for the fiber web framework.
package middleware

import (
	"log"
	"strings"

	"cardbank/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// Auth validates the Bearer token and stores the customer claims in the
// request context. The claims' email is the principal the funds service
// checks card ownership against.
func Auth(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := utils.ParseToken(tokenString)
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	c.Locals("claims", claims)
	c.Locals("email", claims.Email)

	return c.Next()
}

// AdminOnly rejects requests whose claims lack the admin role. Must run
// after Auth.
func AdminOnly(c *fiber.Ctx) error {
	claims, err := utils.GetCustomerClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid claims"})
	}

	if !claims.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "insufficient permissions"})
	}

	return c.Next()
}
