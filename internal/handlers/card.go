package handlers

import (
	"errors"

	"cardbank/internal/models"
	"cardbank/internal/services/card"
	"cardbank/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type CardHandler struct {
	cardService card.Service
}

func NewCardHandler(cardService card.Service) *CardHandler {
	return &CardHandler{
		cardService: cardService,
	}
}

// cardView shapes a card for responses, masking the card number.
func cardView(c models.Card) fiber.Map {
	return fiber.Map{
		"id":         c.ID,
		"number":     utils.MaskCardNumber(c.Number),
		"balance":    c.Balance,
		"currency":   c.Currency,
		"status":     c.Status,
		"expires_at": c.ExpiresAt,
	}
}

func cardViews(cards []models.Card) []fiber.Map {
	views := make([]fiber.Map, len(cards))
	for i, c := range cards {
		views[i] = cardView(c)
	}
	return views
}

func (h *CardHandler) ListCards(c *fiber.Ctx) error {
	claims, err := utils.GetCustomerClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	limit := c.QueryInt("limit", 10)
	offset := c.QueryInt("offset", 0)
	status := c.Query("status")

	cards, total, err := h.cardService.CustomerCards(c.Context(), claims.Email, status, limit, offset)
	if err != nil {
		return respondCardError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"cards": cardViews(cards),
		"total": total,
	})
}

func (h *CardHandler) GetCard(c *fiber.Ctx) error {
	claims, err := utils.GetCustomerClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	found, err := h.cardService.CustomerCard(c.Context(), c.Params("number"), claims.Email)
	if err != nil {
		return respondCardError(c, err)
	}

	return utils.Success(c, fiber.Map{"card": cardView(*found)})
}

func (h *CardHandler) RequestBlock(c *fiber.Ctx) error {
	claims, err := utils.GetCustomerClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	err = h.cardService.RequestBlock(c.Context(), c.Params("number"), claims.Email, c.Get(IdempotencyKeyHeader))
	if err != nil {
		return respondCardError(c, err)
	}

	return utils.Success(c, fiber.Map{"message": "card has been blocked"})
}

func (h *CardHandler) CardTransactions(c *fiber.Ctx) error {
	claims, err := utils.GetCustomerClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	limit := c.QueryInt("limit", 10)
	offset := c.QueryInt("offset", 0)

	records, err := h.cardService.CardTransactions(c.Context(), c.Params("number"), claims.Email, limit, offset)
	if err != nil {
		return respondCardError(c, err)
	}

	return utils.Success(c, fiber.Map{"transactions": records})
}

func (h *CardHandler) GetTransaction(c *fiber.Ctx) error {
	claims, err := utils.GetCustomerClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	rec, err := h.cardService.Transaction(c.Context(), c.Params("id"), claims.Email)
	if err != nil {
		return respondCardError(c, err)
	}

	return utils.Success(c, fiber.Map{"transaction": rec})
}

func respondCardError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, card.ErrTransactionNotFound):
		return utils.Error(c, fiber.StatusNotFound, "transaction_not_found", err.Error())
	case errors.Is(err, card.ErrCardNotFound):
		return utils.Error(c, fiber.StatusNotFound, "card_not_found", err.Error())
	case errors.Is(err, card.ErrAccessDenied):
		return utils.Error(c, fiber.StatusForbidden, "access_denied", err.Error())
	case errors.Is(err, card.ErrAlreadyBlocked):
		return utils.Error(c, fiber.StatusConflict, "card_blocked", err.Error())
	case errors.Is(err, card.ErrCardNumberTaken):
		return utils.Error(c, fiber.StatusConflict, "card_number_taken", err.Error())
	case errors.Is(err, card.ErrOwnerNotFound):
		return utils.Error(c, fiber.StatusNotFound, "customer_not_found", err.Error())
	default:
		return utils.InternalError(c, "failed to process card operation")
	}
}
