package utils

import (
	"deathcert-service/internal/pkg/dto/requests"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// BuildGetPatientsRequest reads the patient search query. An empty server
// means the configured default endpoint.
func BuildGetPatientsRequest(r *http.Request) *requests.GetPatients {
	query := r.URL.Query()
	return &requests.GetPatients{
		Server: strings.TrimSpace(query.Get("server")),
		Name:   query.Get("name"),
	}
}

func BuildGetClinicalHistoryRequest(r *http.Request) *requests.GetClinicalHistory {
	return &requests.GetClinicalHistory{
		Server:    strings.TrimSpace(r.URL.Query().Get("server")),
		PatientID: chi.URLParam(r, "patientID"),
	}
}

func BuildSmartLaunchRequest(r *http.Request) *requests.SmartLaunch {
	query := r.URL.Query()
	return &requests.SmartLaunch{
		Issuer: strings.TrimSpace(query.Get("iss")),
		Launch: query.Get("launch"),
	}
}

func BuildSmartCallbackRequest(r *http.Request) *requests.SmartCallback {
	query := r.URL.Query()
	return &requests.SmartCallback{
		Code:  query.Get("code"),
		State: query.Get("state"),
	}
}
