package contracts

import (
	"context"
	"deathcert-service/internal/app/models"
)

type ClinicalUsecase interface {
	LoadResources(ctx context.Context, session FhirSession, patientID string) *models.ClinicalHistory
}

type PatientUsecase interface {
	LoadPatients(ctx context.Context, session FhirSession, nameFilter string) ([]*models.Patient, error)
}

// FetchReporter receives the partial failures absorbed during aggregation.
type FetchReporter interface {
	Report(ctx context.Context, event models.FetchEvent)
}
