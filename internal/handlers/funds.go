package handlers

import (
	"errors"

	"cardbank/internal/services/funds"
	"cardbank/internal/services/idempotency"
	"cardbank/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// IdempotencyKeyHeader carries the caller-supplied deduplication token on
// money-moving requests.
const IdempotencyKeyHeader = "Idempotency-Key"

type FundsHandler struct {
	fundsService funds.Service
}

func NewFundsHandler(fundsService funds.Service) *FundsHandler {
	return &FundsHandler{
		fundsService: fundsService,
	}
}

func (h *FundsHandler) Transfer(c *fiber.Ctx) error {
	claims, err := utils.GetCustomerClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var req funds.TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	record, err := h.fundsService.Transfer(c.Context(), req, claims.Email, c.Get(IdempotencyKeyHeader))
	if err != nil {
		return respondFundsError(c, err)
	}

	return utils.Success(c, fiber.Map{"transaction": record})
}

func (h *FundsHandler) Withdraw(c *fiber.Ctx) error {
	claims, err := utils.GetCustomerClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var req funds.WithdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	record, err := h.fundsService.Withdraw(c.Context(), req, claims.Email, c.Get(IdempotencyKeyHeader))
	if err != nil {
		return respondFundsError(c, err)
	}

	return utils.Success(c, fiber.Map{"transaction": record})
}

func (h *FundsHandler) Deposit(c *fiber.Ctx) error {
	claims, err := utils.GetCustomerClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var req funds.DepositRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	record, err := h.fundsService.Deposit(c.Context(), req, claims.Email, c.Get(IdempotencyKeyHeader))
	if err != nil {
		return respondFundsError(c, err)
	}

	return utils.Success(c, fiber.Map{"transaction": record})
}

// respondFundsError maps the funds error taxonomy to stable machine codes.
// lock_timeout and persistence_failure are the only codes a caller may
// retry with the same idempotency key.
func respondFundsError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, funds.ErrInvalidAmount):
		return utils.Error(c, fiber.StatusBadRequest, "invalid_amount", err.Error())
	case errors.Is(err, funds.ErrSelfTransfer):
		return utils.Error(c, fiber.StatusBadRequest, "self_transfer", err.Error())
	case errors.Is(err, funds.ErrCurrencyMismatch):
		return utils.Error(c, fiber.StatusBadRequest, "currency_mismatch", err.Error())
	case errors.Is(err, idempotency.ErrInvalidKey):
		return utils.Error(c, fiber.StatusBadRequest, "invalid_idempotency_key", err.Error())
	case errors.Is(err, idempotency.ErrInProgress):
		return utils.Error(c, fiber.StatusConflict, "operation_in_progress", err.Error())
	case errors.Is(err, funds.ErrCardNotFound):
		return utils.Error(c, fiber.StatusNotFound, "card_not_found", err.Error())
	case errors.Is(err, funds.ErrAccessDenied):
		return utils.Error(c, fiber.StatusForbidden, "access_denied", err.Error())
	case errors.Is(err, funds.ErrCardBlocked):
		return utils.Error(c, fiber.StatusConflict, "card_blocked", err.Error())
	case errors.Is(err, funds.ErrInsufficientFunds):
		return utils.Error(c, fiber.StatusUnprocessableEntity, "insufficient_funds", err.Error())
	case errors.Is(err, funds.ErrLockTimeout):
		return utils.Error(c, fiber.StatusServiceUnavailable, "lock_timeout", err.Error())
	default:
		return utils.Error(c, fiber.StatusInternalServerError, "persistence_failure", "failed to process operation")
	}
}
