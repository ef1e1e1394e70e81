package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fathima-sithara/clinic-backend/internal/middleware"
	"github.com/fathima-sithara/clinic-backend/internal/models"
	"github.com/fathima-sithara/clinic-backend/internal/services"
	"github.com/fathima-sithara/clinic-backend/internal/utils"
)

// The authentication endpoints exist once per account family; the thin
// wrappers below bind the shared flow to the right AuthService.

func (h *Handler) login(c *fiber.Ctx, auth *services.AuthService) error {
	var req models.LoginRequest
	if !h.parseAndValidate(c, &req) {
		return nil
	}
	token, holder, err := auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return h.respondErr(c, err)
	}
	h.setTokenCookie(c, token)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "ok",
		"token":  token,
		"data":   holder,
	})
}

func (h *Handler) logout(c *fiber.Ctx, auth *services.AuthService) error {
	token, _ := c.Locals(middleware.LocalsToken).(string)
	if token == "" {
		token = middleware.TokenFromRequest(c)
	}
	if err := auth.Logout(c.Context(), token); err != nil {
		return h.respondErr(c, err)
	}
	h.clearTokenCookie(c)
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"message": "logged out"})
}

func (h *Handler) forgotPassword(c *fiber.Ctx, auth *services.AuthService) error {
	var req models.ForgotPasswordRequest
	if !h.parseAndValidate(c, &req) {
		return nil
	}
	if err := auth.ForgotPassword(c.Context(), req.Email); err != nil {
		return h.respondErr(c, err)
	}
	// Same answer whether or not the email exists.
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{
		"message": "if the email is registered, a reset token has been sent",
	})
}

func (h *Handler) verifyResetCode(c *fiber.Ctx, auth *services.AuthService) error {
	var req models.VerifyResetCodeRequest
	if !h.parseAndValidate(c, &req) {
		return nil
	}
	if err := auth.VerifyResetToken(c.Context(), req.Token); err != nil {
		return h.respondErr(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"message": "reset token is valid"})
}

func (h *Handler) resetPassword(c *fiber.Ctx, auth *services.AuthService) error {
	var req models.ResetPasswordRequest
	if !h.parseAndValidate(c, &req) {
		return nil
	}
	token, err := auth.ResetPassword(c.Context(), c.Params("token"), req.Password)
	if err != nil {
		return h.respondErr(c, err)
	}
	h.setTokenCookie(c, token)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok", "token": token})
}

func (h *Handler) updatePassword(c *fiber.Ctx, auth *services.AuthService) error {
	var req models.UpdatePasswordRequest
	if !h.parseAndValidate(c, &req) {
		return nil
	}
	token, err := auth.UpdatePassword(c.Context(), accountID(c), req.PasswordCurrent, req.Password)
	if err != nil {
		return h.respondErr(c, err)
	}
	h.setTokenCookie(c, token)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok", "token": token})
}
