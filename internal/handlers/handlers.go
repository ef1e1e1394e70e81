package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fathima-sithara/clinic-backend/internal/middleware"
	"github.com/fathima-sithara/clinic-backend/internal/repository"
	"github.com/fathima-sithara/clinic-backend/internal/services"
	"github.com/fathima-sithara/clinic-backend/internal/utils"
)

// Handler bundles the route handlers for both account families.
type Handler struct {
	doctors     *services.DoctorService
	patients    *services.PatientService
	careTeam    *services.CareTeamService
	doctorAuth  *services.AuthService
	patientAuth *services.AuthService
	accessTTL   time.Duration
	log         *zap.SugaredLogger
}

func NewHandler(
	doctors *services.DoctorService,
	patients *services.PatientService,
	careTeam *services.CareTeamService,
	doctorAuth *services.AuthService,
	patientAuth *services.AuthService,
	accessTTL time.Duration,
	log *zap.SugaredLogger,
) *Handler {
	return &Handler{
		doctors:     doctors,
		patients:    patients,
		careTeam:    careTeam,
		doctorAuth:  doctorAuth,
		patientAuth: patientAuth,
		accessTTL:   accessTTL,
		log:         log,
	}
}

// respondErr maps service errors onto the HTTP taxonomy. Anything unknown
// is logged and surfaced as a generic 500.
func (h *Handler) respondErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		return utils.JSONError(c, fiber.StatusUnauthorized, services.ErrInvalidCredentials.Error())
	case errors.Is(err, services.ErrAccountExists):
		return utils.JSONError(c, fiber.StatusConflict, services.ErrAccountExists.Error())
	case errors.Is(err, services.ErrResetTokenInvalid):
		return utils.JSONError(c, fiber.StatusBadRequest, services.ErrResetTokenInvalid.Error())
	case errors.Is(err, repository.ErrNotFound):
		return utils.JSONError(c, fiber.StatusNotFound, "record not found")
	default:
		h.log.Errorw("request failed", "path", c.Path(), "error", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "internal error")
	}
}

// parseAndValidate decodes the JSON body and runs struct validation,
// answering 400 with field-level messages itself. Returns false when the
// request has already been answered.
func (h *Handler) parseAndValidate(c *fiber.Ctx, dst interface{}) bool {
	if err := c.BodyParser(dst); err != nil {
		_ = utils.JSONError(c, fiber.StatusBadRequest, "invalid request body")
		return false
	}
	if verrs := utils.ValidateStruct(dst); verrs != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "validation failed", "errors": verrs,
		})
		return false
	}
	return true
}

// setTokenCookie mirrors the bearer token into an httpOnly cookie for
// browser clients.
func (h *Handler) setTokenCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Expires:  time.Now().Add(h.accessTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *Handler) clearTokenCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func accountID(c *fiber.Ctx) string {
	id, _ := c.Locals(middleware.LocalsAccountID).(string)
	return id
}
