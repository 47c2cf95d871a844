package routers

import (
	"deathcert-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachPatientRoutes(router chi.Router, patientController *controllers.PatientController) {
	router.Get("/", patientController.GetPatients)
	router.Get("/{patientID}/resources", patientController.GetClinicalHistory)
}
