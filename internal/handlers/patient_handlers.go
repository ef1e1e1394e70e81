package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fathima-sithara/clinic-backend/internal/models"
	"github.com/fathima-sithara/clinic-backend/internal/utils"
)

// --- public ---

func (h *Handler) PatientSignup(c *fiber.Ctx) error {
	var req models.PatientSignupRequest
	if !h.parseAndValidate(c, &req) {
		return nil
	}
	patient, token, err := h.patients.Register(c.Context(), req)
	if err != nil {
		return h.respondErr(c, err)
	}
	h.setTokenCookie(c, token)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "ok",
		"token":  token,
		"data":   patient,
	})
}

func (h *Handler) PatientLogin(c *fiber.Ctx) error  { return h.login(c, h.patientAuth) }
func (h *Handler) PatientLogout(c *fiber.Ctx) error { return h.logout(c, h.patientAuth) }

func (h *Handler) PatientForgotPassword(c *fiber.Ctx) error {
	return h.forgotPassword(c, h.patientAuth)
}

func (h *Handler) PatientVerifyResetCode(c *fiber.Ctx) error {
	return h.verifyResetCode(c, h.patientAuth)
}

func (h *Handler) PatientResetPassword(c *fiber.Ctx) error {
	return h.resetPassword(c, h.patientAuth)
}

// --- protected ---

func (h *Handler) PatientMe(c *fiber.Ctx) error {
	patient, err := h.patients.Get(c.Context(), accountID(c))
	if err != nil {
		return h.respondErr(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, patient)
}

func (h *Handler) PatientUpdateMe(c *fiber.Ctx) error {
	var req models.UpdatePatientRequest
	if !h.parseAndValidate(c, &req) {
		return nil
	}
	patient, err := h.patients.UpdateProfile(c.Context(), accountID(c), req)
	if err != nil {
		return h.respondErr(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, patient)
}

func (h *Handler) PatientDeleteMe(c *fiber.Ctx) error {
	if err := h.patients.Deactivate(c.Context(), accountID(c)); err != nil {
		return h.respondErr(c, err)
	}
	h.clearTokenCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) PatientUpdatePassword(c *fiber.Ctx) error {
	return h.updatePassword(c, h.patientAuth)
}

// --- care team ---

func (h *Handler) PatientListDoctors(c *fiber.Ctx) error {
	doctors, err := h.careTeam.AllDoctors(c.Context())
	if err != nil {
		return h.respondErr(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, doctors)
}

func (h *Handler) PatientMyDoctors(c *fiber.Ctx) error {
	doctors, err := h.careTeam.DoctorsForPatient(c.Context(), accountID(c))
	if err != nil {
		return h.respondErr(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, doctors)
}

func (h *Handler) PatientAddDoctor(c *fiber.Ctx) error {
	var req models.CareTeamRequest
	if !h.parseAndValidate(c, &req) {
		return nil
	}
	if err := h.careTeam.AddDoctor(c.Context(), accountID(c), req.DoctorID); err != nil {
		return h.respondErr(c, err)
	}
	return h.PatientMyDoctors(c)
}

func (h *Handler) PatientRemoveDoctor(c *fiber.Ctx) error {
	var req models.CareTeamRequest
	if !h.parseAndValidate(c, &req) {
		return nil
	}
	if err := h.careTeam.RemoveDoctor(c.Context(), accountID(c), req.DoctorID); err != nil {
		return h.respondErr(c, err)
	}
	return h.PatientMyDoctors(c)
}

// --- admin ---

func (h *Handler) ListAllPatients(c *fiber.Ctx) error {
	includeInactive := c.QueryBool("include_inactive")
	patients, err := h.patients.ListAll(c.Context(), includeInactive)
	if err != nil {
		return h.respondErr(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, patients)
}
