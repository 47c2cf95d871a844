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

type SmartController struct {
	Log             *zap.Logger
	SmartUsecase    contracts.SmartUsecase
	SessionProvider contracts.SessionProvider
	InternalConfig  *config.InternalConfig
	now             func() time.Time
}

func NewSmartController(
	logger *zap.Logger,
	smartUsecase contracts.SmartUsecase,
	sessionProvider contracts.SessionProvider,
	internalConfig *config.InternalConfig,
) *SmartController {
	return &SmartController{
		Log:             logger,
		SmartUsecase:    smartUsecase,
		SessionProvider: sessionProvider,
		InternalConfig:  internalConfig,
		now:             time.Now,
	}
}

// Launch is the EHR launch entry point; the EHR opens it with iss and launch.
func (ctrl *SmartController) Launch(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())

	request := utils.BuildSmartLaunchRequest(r)
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}
	if !utils.IsAllowedEndpoint(request.Issuer, ctrl.InternalConfig.Smart.AllowedIssuers) {
		ctrl.Log.Warn("Rejected SMART launch from an issuer outside the allowlist",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingServiceURLKey, request.Issuer),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrEndpointNotAllowed(request.Issuer))
		return
	}

	authorizeURL, err := ctrl.SmartUsecase.StartLaunch(r.Context(), request.Issuer, request.Launch)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("SMART launch started",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingServiceURLKey, request.Issuer),
	)
	http.Redirect(w, r, authorizeURL, constvars.StatusFound)
}

func (ctrl *SmartController) Callback(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())

	request := utils.BuildSmartCallbackRequest(r)
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	sessionToken, launchContext, err := ctrl.SmartUsecase.CompleteLaunch(r.Context(), request.Code, request.State)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	maxAge := int(launchContext.ExpiresAt.Sub(ctrl.now()).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     constvars.SessionCookieName,
		Value:    sessionToken,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   ctrl.InternalConfig.App.Env == constvars.AppEnvProduction,
		SameSite: http.SameSiteLaxMode,
	})

	ctrl.Log.Info("SMART launch completed",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, launchContext.SessionID),
		zap.String(constvars.LoggingPatientIDKey, launchContext.PatientID),
	)
	http.Redirect(w, r, ctrl.InternalConfig.App.FrontendUrl, constvars.StatusFound)
}

// Context bootstraps the launched session: current user, patient and history.
func (ctrl *SmartController) Context(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := utils.GetRequestID(r.Context())

	sessionToken := utils.ExtractSessionToken(r)
	result, err := ctrl.SessionProvider.Bootstrap(r.Context(), ctrl.SmartUsecase.Handshake(sessionToken))
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("Launch context bootstrapped",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, result.Patient.ID),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetLaunchContextSuccessMessage, newLaunchContextResponse(result))
}

func (ctrl *SmartController) HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.HealthCheckSuccessMessage, nil)
}
