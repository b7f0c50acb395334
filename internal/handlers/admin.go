package handlers

import (
	"cardbank/internal/services/card"
	"cardbank/internal/utils"
	"cardbank/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	cardService card.Service
}

func NewAdminHandler(cardService card.Service) *AdminHandler {
	return &AdminHandler{
		cardService: cardService,
	}
}

func (h *AdminHandler) CreateCard(c *fiber.Ctx) error {
	var req card.CreateCardRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	v := validation.New()
	v.CardNumber("number", req.Number)
	v.Email("owner_email", req.OwnerEmail)
	v.Future("expires_at", req.ExpiresAt)
	if !v.Valid() {
		return utils.Respond(c, fiber.StatusBadRequest, fiber.Map{"errors": v.Errors})
	}

	created, err := h.cardService.CreateCard(c.Context(), req, c.Get(IdempotencyKeyHeader))
	if err != nil {
		return respondCardError(c, err)
	}

	return utils.Respond(c, fiber.StatusCreated, fiber.Map{"card": created})
}

func (h *AdminHandler) UpdateCard(c *fiber.Ctx) error {
	var req card.UpdateCardRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	req.Number = c.Params("number")

	updated, err := h.cardService.UpdateCard(c.Context(), req)
	if err != nil {
		return respondCardError(c, err)
	}

	return utils.Success(c, fiber.Map{"card": updated})
}

func (h *AdminHandler) BlockCard(c *fiber.Ctx) error {
	err := h.cardService.BlockCard(c.Context(), c.Params("number"), c.Get(IdempotencyKeyHeader))
	if err != nil {
		return respondCardError(c, err)
	}
	return utils.Success(c, fiber.Map{"message": "card has been blocked"})
}

func (h *AdminHandler) ActivateCard(c *fiber.Ctx) error {
	err := h.cardService.ActivateCard(c.Context(), c.Params("number"), c.Get(IdempotencyKeyHeader))
	if err != nil {
		return respondCardError(c, err)
	}
	return utils.Success(c, fiber.Map{"message": "card has been activated"})
}

func (h *AdminHandler) DeleteCard(c *fiber.Ctx) error {
	err := h.cardService.DeleteCard(c.Context(), c.Params("number"), c.Get(IdempotencyKeyHeader))
	if err != nil {
		return respondCardError(c, err)
	}
	return utils.Success(c, fiber.Map{"message": "card has been deleted"})
}

func (h *AdminHandler) ListCards(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	offset := c.QueryInt("offset", 0)

	cards, total, err := h.cardService.ListCards(c.Context(), limit, offset)
	if err != nil {
		return respondCardError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"cards": cards,
		"total": total,
	})
}
