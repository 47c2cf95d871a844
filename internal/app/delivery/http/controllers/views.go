package controllers

import "deathcert-service/internal/app/models"

type clinicalHistoryResponse struct {
	PatientID string `json:"patient_id"`
	*models.ClinicalHistory
	DegradedCategories []string `json:"degraded_categories,omitempty"`
}

type patientsResponse struct {
	ServiceURL string            `json:"service_url"`
	Total      int               `json:"total"`
	Patients   []*models.Patient `json:"patients"`
}

type launchContextResponse struct {
	ServiceURL string                  `json:"service_url"`
	User       *models.Practitioner    `json:"user"`
	Patient    *models.Patient         `json:"patient"`
	History    *models.ClinicalHistory `json:"history"`
	Degraded   []string                `json:"degraded_categories,omitempty"`
}

func newClinicalHistoryResponse(patientID string, history *models.ClinicalHistory) clinicalHistoryResponse {
	return clinicalHistoryResponse{
		PatientID:          patientID,
		ClinicalHistory:    history,
		DegradedCategories: history.DegradedCategories,
	}
}

func newPatientsResponse(serviceURL string, patients []*models.Patient) patientsResponse {
	if patients == nil {
		patients = []*models.Patient{}
	}
	return patientsResponse{
		ServiceURL: serviceURL,
		Total:      len(patients),
		Patients:   patients,
	}
}

func newLaunchContextResponse(result *models.BootstrapResult) launchContextResponse {
	response := launchContextResponse{
		ServiceURL: result.ServiceURL,
		User:       result.User,
		Patient:    result.Patient,
		History:    result.History,
	}
	if result.History != nil {
		response.Degraded = result.History.DegradedCategories
	}
	return response
}
