package sessions

import (
	"context"
	"deathcert-service/internal/app/contracts"
	"deathcert-service/internal/app/models"
	"deathcert-service/internal/pkg/constvars"
	"deathcert-service/internal/pkg/exceptions"
	"deathcert-service/internal/pkg/fhir_dto"
	"deathcert-service/internal/pkg/utils"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type sessionProvider struct {
	SessionFactory  contracts.FhirSessionFactory
	ClinicalUsecase contracts.ClinicalUsecase
	Log             *zap.Logger
}

func NewSessionProvider(sessionFactory contracts.FhirSessionFactory, clinicalUsecase contracts.ClinicalUsecase, logger *zap.Logger) contracts.SessionProvider {
	return &sessionProvider{
		SessionFactory:  sessionFactory,
		ClinicalUsecase: clinicalUsecase,
		Log:             logger,
	}
}

// Connect opens an anonymous session against a known endpoint.
func (p *sessionProvider) Connect(endpointURL string) (contracts.FhirSession, error) {
	return p.SessionFactory.NewSession(endpointURL, "")
}

// Bootstrap waits for the delegated login to finish, then resolves the
// current user, the current patient and the patient's clinical history in
// parallel. Identity failures fail the call; the history may be partial.
func (p *sessionProvider) Bootstrap(ctx context.Context, handshake contracts.LaunchHandshake) (*models.BootstrapResult, error) {
	requestID := utils.GetRequestID(ctx)
	p.Log.Info("sessionProvider.Bootstrap called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	launch, err := handshake.Ready(ctx)
	if err != nil {
		if !errors.Is(err, exceptions.KindAuthenticationIncomplete) {
			err = exceptions.ErrAuthenticationIncomplete(err, "handshake failed")
		}
		p.Log.Error("sessionProvider.Bootstrap handshake did not complete",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if launch == nil || launch.ServiceURL == "" || launch.AccessToken == "" || launch.PatientID == "" {
		return nil, exceptions.ErrAuthenticationIncomplete(nil, "launch context lacks endpoint, token or patient")
	}

	session, err := p.SessionFactory.NewSession(launch.ServiceURL, launch.AccessToken)
	if err != nil {
		return nil, err
	}

	result := &models.BootstrapResult{ServiceURL: session.ServiceURL()}
	var group errgroup.Group
	group.Go(func() error {
		user, err := p.CurrentUser(ctx, session, launch)
		result.User = user
		return err
	})
	group.Go(func() error {
		patient, err := p.CurrentPatient(ctx, session, launch)
		result.Patient = patient
		return err
	})
	group.Go(func() error {
		result.History = p.ClinicalUsecase.LoadResources(ctx, session, launch.PatientID)
		return nil
	})

	err = utils.LogOperation(p.Log, "sessionProvider.Bootstrap", requestID, group.Wait)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CurrentUser reads the Practitioner the launch was performed by.
func (p *sessionProvider) CurrentUser(ctx context.Context, session contracts.FhirSession, launch *models.LaunchContext) (*models.Practitioner, error) {
	if launch.UserReference == "" {
		return nil, exceptions.ErrAuthenticationIncomplete(nil, "launch did not identify the current user")
	}

	resourceType, id, ok := fhir_dto.SplitReference(launch.UserReference)
	if !ok || resourceType != constvars.ResourcePractitioner {
		return nil, exceptions.ErrAuthenticationIncomplete(exceptions.ErrInvalidReference(launch.UserReference), "current user is not a practitioner")
	}

	raw, err := session.Read(ctx, constvars.ResourcePractitioner, id)
	if err != nil {
		return nil, err
	}
	return models.NewPractitioner(raw)
}

// CurrentPatient reads the Patient in context of the launch.
func (p *sessionProvider) CurrentPatient(ctx context.Context, session contracts.FhirSession, launch *models.LaunchContext) (*models.Patient, error) {
	raw, err := session.Read(ctx, constvars.ResourcePatient, launch.PatientID)
	if err != nil {
		return nil, err
	}
	return models.NewPatient(raw)
}
