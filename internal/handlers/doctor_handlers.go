package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fathima-sithara/clinic-backend/internal/models"
	"github.com/fathima-sithara/clinic-backend/internal/utils"
)

// --- public ---

func (h *Handler) DoctorSignup(c *fiber.Ctx) error {
	var req models.DoctorSignupRequest
	if !h.parseAndValidate(c, &req) {
		return nil
	}
	doctor, token, err := h.doctors.Register(c.Context(), req)
	if err != nil {
		return h.respondErr(c, err)
	}
	h.setTokenCookie(c, token)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "ok",
		"token":  token,
		"data":   doctor,
	})
}

func (h *Handler) DoctorLogin(c *fiber.Ctx) error  { return h.login(c, h.doctorAuth) }
func (h *Handler) DoctorLogout(c *fiber.Ctx) error { return h.logout(c, h.doctorAuth) }

func (h *Handler) DoctorForgotPassword(c *fiber.Ctx) error {
	return h.forgotPassword(c, h.doctorAuth)
}

func (h *Handler) DoctorVerifyResetCode(c *fiber.Ctx) error {
	return h.verifyResetCode(c, h.doctorAuth)
}

func (h *Handler) DoctorResetPassword(c *fiber.Ctx) error {
	return h.resetPassword(c, h.doctorAuth)
}

// --- protected ---

func (h *Handler) DoctorMe(c *fiber.Ctx) error {
	doctor, err := h.doctors.Get(c.Context(), accountID(c))
	if err != nil {
		return h.respondErr(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, doctor)
}

func (h *Handler) DoctorUpdateMe(c *fiber.Ctx) error {
	var req models.UpdateDoctorRequest
	if !h.parseAndValidate(c, &req) {
		return nil
	}
	doctor, err := h.doctors.UpdateProfile(c.Context(), accountID(c), req)
	if err != nil {
		return h.respondErr(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, doctor)
}

func (h *Handler) DoctorDeleteMe(c *fiber.Ctx) error {
	if err := h.doctors.Deactivate(c.Context(), accountID(c)); err != nil {
		return h.respondErr(c, err)
	}
	h.clearTokenCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) DoctorUpdatePassword(c *fiber.Ctx) error {
	return h.updatePassword(c, h.doctorAuth)
}

func (h *Handler) DoctorMyPatients(c *fiber.Ctx) error {
	patients, err := h.careTeam.PatientsForDoctor(c.Context(), accountID(c))
	if err != nil {
		return h.respondErr(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, patients)
}

// --- admin ---

func (h *Handler) ListAllDoctors(c *fiber.Ctx) error {
	includeInactive := c.QueryBool("include_inactive")
	doctors, err := h.doctors.ListAll(c.Context(), includeInactive)
	if err != nil {
		return h.respondErr(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, doctors)
}
