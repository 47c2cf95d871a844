package clinical

import (
	"context"
	"deathcert-service/internal/app/contracts"
	"deathcert-service/internal/app/models"
	"deathcert-service/internal/pkg/constvars"
	"deathcert-service/internal/pkg/exceptions"
	"deathcert-service/internal/pkg/fhir_dto"
	"deathcert-service/internal/pkg/utils"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxMedicationReads bounds the concurrent Medication reads of one history.
const maxMedicationReads = 8

type clinicalUsecase struct {
	FetchReporter contracts.FetchReporter
	Log           *zap.Logger
}

func NewClinicalUsecase(fetchReporter contracts.FetchReporter, logger *zap.Logger) contracts.ClinicalUsecase {
	return &clinicalUsecase{
		FetchReporter: fetchReporter,
		Log:           logger,
	}
}

type categoryResult[T models.ClinicalResource] struct {
	items []T
	err   error
}

// LoadResources gathers the patient's conditions, medication requests,
// procedures and observations. A category whose search fails is returned
// empty and reported; it never fails the whole history.
func (uc *clinicalUsecase) LoadResources(ctx context.Context, session contracts.FhirSession, patientID string) *models.ClinicalHistory {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("clinicalUsecase.LoadResources called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
		zap.String(constvars.LoggingServiceURLKey, session.ServiceURL()),
	)

	history := models.NewClinicalHistory()
	if strings.TrimSpace(patientID) == "" {
		uc.Log.Warn("clinicalUsecase.LoadResources skipped: blank patient id",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return history
	}

	var (
		wg                 sync.WaitGroup
		conditions         categoryResult[*models.Condition]
		medicationRequests categoryResult[*models.MedicationRequest]
		procedures         categoryResult[*models.Procedure]
		observations       categoryResult[*models.Observation]
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		conditions = loadCategory[*models.Condition](ctx, uc.Log, session, patientID, constvars.ResourceCondition)
	}()
	go func() {
		defer wg.Done()
		medicationRequests = loadCategory[*models.MedicationRequest](ctx, uc.Log, session, patientID, constvars.ResourceMedicationRequest)
	}()
	go func() {
		defer wg.Done()
		procedures = loadCategory[*models.Procedure](ctx, uc.Log, session, patientID, constvars.ResourceProcedure)
	}()
	go func() {
		defer wg.Done()
		observations = loadCategory[*models.Observation](ctx, uc.Log, session, patientID, constvars.ResourceObservation)
	}()
	wg.Wait()

	history.Conditions = conditions.items
	history.MedicationRequests = medicationRequests.items
	history.Procedures = procedures.items
	history.Observations = observations.items

	outcomes := []struct {
		category string
		err      error
	}{
		{constvars.ResourceCondition, conditions.err},
		{constvars.ResourceMedicationRequest, medicationRequests.err},
		{constvars.ResourceProcedure, procedures.err},
		{constvars.ResourceObservation, observations.err},
	}
	for _, outcome := range outcomes {
		if outcome.err == nil {
			continue
		}
		history.MarkDegraded(outcome.category)
		uc.report(ctx, session, patientID, constvars.FetchEventCategoryDegraded, outcome.category, "", outcome.err)
	}

	uc.enrichMedicationRequests(ctx, session, patientID, history.PendingMedicationRequests())

	uc.Log.Info("clinicalUsecase.LoadResources succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
		zap.Int("condition_count", len(history.Conditions)),
		zap.Int("medication_request_count", len(history.MedicationRequests)),
		zap.Int("procedure_count", len(history.Procedures)),
		zap.Int("observation_count", len(history.Observations)),
		zap.Strings("degraded_categories", history.DegradedCategories),
	)
	return history
}

func loadCategory[T models.ClinicalResource](ctx context.Context, log *zap.Logger, session contracts.FhirSession, patientID, category string) categoryResult[T] {
	requestID := utils.GetRequestID(ctx)

	raws, err := session.Search(ctx, category, url.Values{constvars.FhirSearchParamPatient: {patientID}})
	if err != nil {
		return categoryResult[T]{items: []T{}, err: err}
	}

	items := make([]T, 0, len(raws))
	for _, raw := range raws {
		resource, err := models.Wrap(raw)
		if err != nil {
			log.Warn("clinicalUsecase.loadCategory skipped record",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingCategoryKey, category),
				zap.String(constvars.LoggingResourceTypeKey, raw.ResourceType),
				zap.String(constvars.LoggingResourceIDKey, raw.ID),
				zap.Error(err),
			)
			continue
		}
		typed, ok := resource.(T)
		if !ok {
			log.Warn("clinicalUsecase.loadCategory skipped record of another category",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingCategoryKey, category),
				zap.String(constvars.LoggingResourceTypeKey, raw.ResourceType),
				zap.String(constvars.LoggingResourceIDKey, raw.ID),
			)
			continue
		}
		items = append(items, typed)
	}

	models.SortByStartDate(items)
	return categoryResult[T]{items: items}
}

func (uc *clinicalUsecase) enrichMedicationRequests(ctx context.Context, session contracts.FhirSession, patientID string, pending []*models.MedicationRequest) {
	if len(pending) == 0 {
		return
	}

	failures := make([]error, len(pending))
	var group errgroup.Group
	group.SetLimit(maxMedicationReads)
	for i, request := range pending {
		group.Go(func() error {
			failures[i] = resolveMedication(ctx, session, request)
			return nil
		})
	}
	group.Wait()

	for i, err := range failures {
		if err == nil {
			continue
		}
		uc.report(ctx, session, patientID, constvars.FetchEventMedicationUnresolved, constvars.ResourceMedicationRequest, pending[i].MedicationReference, err)
	}
}

// resolveMedication attaches the Medication a pending request points to.
// Contained references are answered from the request itself.
func resolveMedication(ctx context.Context, session contracts.FhirSession, request *models.MedicationRequest) error {
	reference := request.MedicationReference

	if _, isContained := fhir_dto.ContainedID(reference); isContained {
		medication, ok := request.ContainedMedication()
		if !ok {
			return exceptions.ErrInvalidReference(reference)
		}
		request.AttachMedication(medication)
		return nil
	}

	resourceType, id, ok := fhir_dto.SplitReference(reference)
	if !ok || resourceType != constvars.ResourceMedication {
		return exceptions.ErrInvalidReference(reference)
	}

	raw, err := session.Read(ctx, constvars.ResourceMedication, id)
	if err != nil {
		return err
	}

	medication, err := models.NewMedication(raw)
	if err != nil {
		return err
	}
	request.AttachMedication(medication)
	return nil
}

func (uc *clinicalUsecase) report(ctx context.Context, session contracts.FhirSession, patientID, kind, category, reference string, err error) {
	uc.FetchReporter.Report(ctx, models.FetchEvent{
		Kind:       kind,
		RequestID:  utils.GetRequestID(ctx),
		ServiceURL: session.ServiceURL(),
		PatientID:  patientID,
		Category:   category,
		Reference:  reference,
		Reason:     fmt.Sprint(err),
		OccurredAt: time.Now().UTC(),
	})
}
