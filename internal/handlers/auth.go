package handlers

import (
	"errors"

	"cardbank/internal/services/customer"
	"cardbank/internal/utils"
	"cardbank/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	customerService customer.Service
}

func NewAuthHandler(customerService customer.Service) *AuthHandler {
	return &AuthHandler{
		customerService: customerService,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req customer.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	v := validation.New()
	v.Email("email", req.Email)
	v.Password("password", req.Password)
	v.MaxLength("name", req.Name, validation.MaxNameLength)
	if !v.Valid() {
		return utils.Respond(c, fiber.StatusBadRequest, fiber.Map{"errors": v.Errors})
	}

	created, err := h.customerService.Register(req)
	if err != nil {
		if errors.Is(err, customer.ErrEmailTaken) {
			return utils.Error(c, fiber.StatusConflict, "email_taken", err.Error())
		}
		if errors.Is(err, customer.ErrInvalidCredentials) {
			return utils.BadRequest(c, "email and password are required")
		}
		return utils.InternalError(c, "failed to register customer")
	}

	return utils.Respond(c, fiber.StatusCreated, fiber.Map{"customer": created})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	v := validation.New()
	v.Required("email", req.Email)
	v.Required("password", req.Password)
	if !v.Valid() {
		return utils.Respond(c, fiber.StatusBadRequest, fiber.Map{"errors": v.Errors})
	}

	loggedIn, token, err := h.customerService.Login(req.Email, req.Password)
	if err != nil {
		return utils.Unauthorized(c, "invalid credentials")
	}

	return utils.Success(c, fiber.Map{
		"customer": loggedIn,
		"token":    token,
	})
}
