package patients

import (
	"context"
	"deathcert-service/internal/app/contracts"
	"deathcert-service/internal/app/models"
	"deathcert-service/internal/pkg/constvars"
	"deathcert-service/internal/pkg/exceptions"
	"deathcert-service/internal/pkg/utils"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

type patientUsecase struct {
	Log *zap.Logger
}

func NewPatientUsecase(logger *zap.Logger) contracts.PatientUsecase {
	return &patientUsecase{
		Log: logger,
	}
}

// LoadPatients lists the patients visible to the session. A blank filter
// lists them all; otherwise the server narrows the search by name.
func (uc *patientUsecase) LoadPatients(ctx context.Context, session contracts.FhirSession, nameFilter string) ([]*models.Patient, error) {
	requestID := utils.GetRequestID(ctx)
	nameFilter = strings.TrimSpace(nameFilter)
	uc.Log.Info("patientUsecase.LoadPatients called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingServiceURLKey, session.ServiceURL()),
		zap.Bool("has_name_filter", nameFilter != ""),
	)

	filter := url.Values{}
	if nameFilter != "" {
		filter.Set(constvars.FhirSearchParamName, nameFilter)
	}

	raws, err := session.Search(ctx, constvars.ResourcePatient, filter)
	if err != nil {
		uc.Log.Error("patientUsecase.LoadPatients error searching patients",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSearchFailed(err, constvars.ResourcePatient)
	}

	patients := make([]*models.Patient, 0, len(raws))
	for _, raw := range raws {
		if raw.ResourceType != constvars.ResourcePatient {
			continue
		}
		patient, err := models.NewPatient(raw)
		if err != nil {
			uc.Log.Warn("patientUsecase.LoadPatients skipped malformed patient",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingResourceIDKey, raw.ID),
				zap.Error(err),
			)
			continue
		}
		patients = append(patients, patient)
	}

	uc.Log.Info("patientUsecase.LoadPatients succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingPatientCountKey, len(patients)),
	)
	return patients, nil
}
