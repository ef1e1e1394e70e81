package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fathima-sithara/clinic-backend/internal/handlers"
	"github.com/fathima-sithara/clinic-backend/internal/middleware"
	"github.com/fathima-sithara/clinic-backend/internal/models"
)

// Setup registers both route families. Public routes come first; everything
// after the Use(protect) call requires a valid bearer token, and the admin
// listings additionally require the admin role.
func Setup(app *fiber.App, h *handlers.Handler, protect, forgotLimit fiber.Handler) {
	api := app.Group("/api/v1")

	patients := api.Group("/patients")
	patients.Post("/signup", h.PatientSignup)
	patients.Post("/login", h.PatientLogin)
	patients.Post("/logout", h.PatientLogout)
	patients.Post("/forgotPassword", forgotLimit, h.PatientForgotPassword)
	patients.Post("/verifyResetCode", h.PatientVerifyResetCode)
	patients.Patch("/resetPassword/:token", h.PatientResetPassword)

	patients.Use(protect)
	asPatient := middleware.RestrictTo(models.RolePatient)
	patients.Get("/me", asPatient, h.PatientMe)
	patients.Patch("/updateMe", asPatient, h.PatientUpdateMe)
	patients.Delete("/deleteMe", asPatient, h.PatientDeleteMe)
	patients.Patch("/updateMyPassword", asPatient, h.PatientUpdatePassword)
	patients.Get("/doctors", asPatient, h.PatientListDoctors)
	patients.Get("/myDoctors", asPatient, h.PatientMyDoctors)
	patients.Post("/addDoctor", asPatient, h.PatientAddDoctor)
	patients.Post("/removeDoctor", asPatient, h.PatientRemoveDoctor)
	patients.Get("/", middleware.RestrictTo(models.RoleAdmin), h.ListAllPatients)

	doctors := api.Group("/doctors")
	doctors.Post("/signup", h.DoctorSignup)
	doctors.Post("/login", h.DoctorLogin)
	doctors.Post("/logout", h.DoctorLogout)
	doctors.Post("/forgotPassword", forgotLimit, h.DoctorForgotPassword)
	doctors.Post("/verifyResetCode", h.DoctorVerifyResetCode)
	doctors.Patch("/resetPassword/:token", h.DoctorResetPassword)

	doctors.Use(protect)
	asDoctor := middleware.RestrictTo(models.RoleDoctor, models.RoleAdmin)
	doctors.Get("/me", asDoctor, h.DoctorMe)
	doctors.Patch("/updateMe", asDoctor, h.DoctorUpdateMe)
	doctors.Delete("/deleteMe", asDoctor, h.DoctorDeleteMe)
	doctors.Patch("/updateMyPassword", asDoctor, h.DoctorUpdatePassword)
	doctors.Get("/myPatients", asDoctor, h.DoctorMyPatients)
	doctors.Get("/", middleware.RestrictTo(models.RoleAdmin), h.ListAllDoctors)
}
