package controllers

import (
	"deathcert-service/internal/app/config"
	"deathcert-service/internal/app/contracts"
	"deathcert-service/internal/pkg/constvars"
	"deathcert-service/internal/pkg/exceptions"
	"deathcert-service/internal/pkg/utils"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type PatientController struct {
	Log             *zap.Logger
	SessionProvider contracts.SessionProvider
	PatientUsecase  contracts.PatientUsecase
	ClinicalUsecase contracts.ClinicalUsecase
	InternalConfig  *config.InternalConfig
}

func NewPatientController(
	logger *zap.Logger,
	sessionProvider contracts.SessionProvider,
	patientUsecase contracts.PatientUsecase,
	clinicalUsecase contracts.ClinicalUsecase,
	internalConfig *config.InternalConfig,
) *PatientController {
	return &PatientController{
		Log:             logger,
		SessionProvider: sessionProvider,
		PatientUsecase:  patientUsecase,
		ClinicalUsecase: clinicalUsecase,
		InternalConfig:  internalConfig,
	}
}

func (ctrl *PatientController) GetPatients(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := utils.GetRequestID(r.Context())

	request := utils.BuildGetPatientsRequest(r)
	if err := utils.ValidateStruct(request); err != nil {
		ctrl.Log.Error("Patient search request validation failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	server, err := ctrl.allowedServer(request.Server)
	if err != nil {
		ctrl.Log.Warn("Rejected FHIR server outside the allowlist",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingServiceURLKey, request.Server),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	session, err := ctrl.SessionProvider.Connect(server)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	patients, err := ctrl.PatientUsecase.LoadPatients(r.Context(), session, request.Name)
	if err != nil {
		ctrl.Log.Error("Failed to load patients",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingServiceURLKey, session.ServiceURL()),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("Patients loaded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingServiceURLKey, session.ServiceURL()),
		zap.Int(constvars.LoggingPatientCountKey, len(patients)),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetPatientsSuccessMessage, newPatientsResponse(session.ServiceURL(), patients))
}

func (ctrl *PatientController) GetClinicalHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := utils.GetRequestID(r.Context())

	request := utils.BuildGetClinicalHistoryRequest(r)
	if err := utils.ValidateStruct(request); err != nil {
		ctrl.Log.Error("Clinical history request validation failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	server, err := ctrl.allowedServer(request.Server)
	if err != nil {
		ctrl.Log.Warn("Rejected FHIR server outside the allowlist",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingServiceURLKey, request.Server),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	session, err := ctrl.SessionProvider.Connect(server)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	history := ctrl.ClinicalUsecase.LoadResources(r.Context(), session, request.PatientID)

	ctrl.Log.Info("Clinical history loaded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
		zap.Strings(constvars.LoggingCategoryKey, history.DegradedCategories),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetClinicalHistorySuccessMessage, newClinicalHistoryResponse(request.PatientID, history))
}

// allowedServer falls back to the configured base URL and refuses servers
// outside FHIR.AllowedServers.
func (ctrl *PatientController) allowedServer(server string) (string, error) {
	if server == "" {
		return ctrl.InternalConfig.FHIR.BaseUrl, nil
	}
	if !utils.IsAllowedEndpoint(server, ctrl.InternalConfig.FHIR.AllowedServers) {
		return "", exceptions.ErrEndpointNotAllowed(server)
	}
	return server, nil
}
