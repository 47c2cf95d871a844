package clinical

import (
	"context"
	"deathcert-service/internal/app/models"
	"deathcert-service/internal/app/services/fhir_spark/session/sessiontest"
	"deathcert-service/internal/pkg/constvars"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingReporter struct {
	mu     sync.Mutex
	events []models.FetchEvent
}

func (r *recordingReporter) Report(ctx context.Context, event models.FetchEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingReporter) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]string, 0, len(r.events))
	for _, event := range r.events {
		kinds = append(kinds, event.Kind+":"+event.Category)
	}
	return kinds
}

func newUsecase() (*clinicalUsecase, *recordingReporter) {
	reporter := &recordingReporter{}
	return &clinicalUsecase{FetchReporter: reporter, Log: zap.NewNop()}, reporter
}

func ids[T models.ClinicalResource](items []T) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.GetID())
	}
	return out
}

func TestLoadResources_SortsConditionsNewestFirst(t *testing.T) {
	session := sessiontest.NewFakeSession("https://ehr.example.org/fhir").
		WithSearchResult(constvars.ResourceCondition,
			`{"resourceType":"Condition","id":"c1","code":{"text":"Diabetes"},"onsetDateTime":"2020-01-01"}`,
			`{"resourceType":"Condition","id":"c2","code":{"text":"Flu"},"onsetDateTime":"2022-01-01"}`,
		)
	uc, reporter := newUsecase()

	history := uc.LoadResources(context.Background(), session, "p1")

	require.Len(t, history.Conditions, 2)
	assert.Equal(t, "c2", history.Conditions[0].ID)
	assert.Equal(t, "Flu", history.Conditions[0].Description)
	assert.Equal(t, 2022, history.Conditions[0].StartDate.Year())
	assert.Equal(t, "c1", history.Conditions[1].ID)
	assert.Equal(t, "Diabetes", history.Conditions[1].Description)
	assert.Empty(t, reporter.kinds())

	for _, call := range session.Searches() {
		assert.Equal(t, "p1", call.Filter.Get(constvars.FhirSearchParamPatient))
	}
	assert.Len(t, session.Searches(), 4)
}

func TestLoadResources_TiesAndMissingDatesKeepFetchOrder(t *testing.T) {
	session := sessiontest.NewFakeSession("https://ehr.example.org/fhir").
		WithSearchResult(constvars.ResourceObservation,
			`{"resourceType":"Observation","id":"o1"}`,
			`{"resourceType":"Observation","id":"o2","effectiveDateTime":"2021-05-01"}`,
			`{"resourceType":"Observation","id":"o3","effectiveDateTime":"not a date"}`,
			`{"resourceType":"Observation","id":"o4","effectiveDateTime":"2021-05-01"}`,
			`{"resourceType":"Observation","id":"o5","effectiveDateTime":"2023-01-01"}`,
		)
	uc, _ := newUsecase()

	history := uc.LoadResources(context.Background(), session, "p1")

	assert.Equal(t, []string{"o5", "o2", "o4", "o1", "o3"}, ids(history.Observations))
}

func TestLoadResources_FailedCategoryIsEmptyAndReported(t *testing.T) {
	session := sessiontest.NewFakeSession("https://ehr.example.org/fhir").
		WithSearchResult(constvars.ResourceCondition,
			`{"resourceType":"Condition","id":"c1","code":{"text":"Sepsis"}}`,
		).
		WithSearchError(constvars.ResourceMedicationRequest, errors.New("connection reset"))
	uc, reporter := newUsecase()

	history := uc.LoadResources(context.Background(), session, "p1")

	assert.Equal(t, []string{"c1"}, ids(history.Conditions))
	assert.NotNil(t, history.MedicationRequests)
	assert.Empty(t, history.MedicationRequests)
	assert.True(t, history.IsDegraded(constvars.ResourceMedicationRequest))
	assert.False(t, history.IsDegraded(constvars.ResourceCondition))
	assert.Equal(t, []string{constvars.FetchEventCategoryDegraded + ":" + constvars.ResourceMedicationRequest}, reporter.kinds())
	assert.Equal(t, "connection reset", reporter.events[0].Reason)
	assert.Equal(t, "p1", reporter.events[0].PatientID)
}

func TestLoadResources_GenuinelyEmptyIsNotDegraded(t *testing.T) {
	session := sessiontest.NewFakeSession("https://ehr.example.org/fhir")
	uc, reporter := newUsecase()

	history := uc.LoadResources(context.Background(), session, "p1")

	assert.Empty(t, history.Conditions)
	assert.Empty(t, history.DegradedCategories)
	assert.Empty(t, reporter.kinds())
}

func TestLoadResources_ResolvesReferencedMedication(t *testing.T) {
	session := sessiontest.NewFakeSession("https://ehr.example.org/fhir").
		WithSearchResult(constvars.ResourceMedicationRequest,
			`{"resourceType":"MedicationRequest","id":"m1","medicationReference":{"reference":"Medication/42"},"authoredOn":"2021-01-01"}`,
			`{"resourceType":"MedicationRequest","id":"m2","medicationCodeableConcept":{"text":"Insulin"},"authoredOn":"2022-01-01"}`,
		).
		WithResource(`{"resourceType":"Medication","id":"42","code":{"text":"Aspirin"}}`)
	uc, reporter := newUsecase()

	history := uc.LoadResources(context.Background(), session, "p1")

	require.Equal(t, []string{"m2", "m1"}, ids(history.MedicationRequests))
	referenced := history.MedicationRequests[1]
	require.NotNil(t, referenced.Medication)
	assert.Equal(t, "Aspirin", referenced.Medication.Description)
	assert.Equal(t, "42", referenced.Medication.ID)
	assert.Equal(t, "Aspirin", referenced.Description)

	assert.Nil(t, history.MedicationRequests[0].Medication)
	assert.Equal(t, []string{"Medication/42"}, session.Reads())
	assert.Empty(t, reporter.kinds())
}

func TestLoadResources_FailedMedicationReadLeavesNil(t *testing.T) {
	session := sessiontest.NewFakeSession("https://ehr.example.org/fhir").
		WithSearchResult(constvars.ResourceMedicationRequest,
			`{"resourceType":"MedicationRequest","id":"m1","medicationReference":{"reference":"Medication/missing"}}`,
			`{"resourceType":"MedicationRequest","id":"m2","medicationReference":{"reference":"https://other.example.org/fhir/Medication/7/_history/2","display":"Heparin"}}`,
		).
		WithResource(`{"resourceType":"Medication","id":"7","code":{"coding":[{"display":"Heparin sodium"}]}}`)
	uc, reporter := newUsecase()

	history := uc.LoadResources(context.Background(), session, "p1")

	require.Len(t, history.MedicationRequests, 2)
	assert.Nil(t, history.MedicationRequests[0].Medication)
	require.NotNil(t, history.MedicationRequests[1].Medication)
	assert.Equal(t, "Heparin sodium", history.MedicationRequests[1].Medication.Description)
	assert.Equal(t, "Heparin", history.MedicationRequests[1].Description)

	assert.Equal(t, []string{constvars.FetchEventMedicationUnresolved + ":" + constvars.ResourceMedicationRequest}, reporter.kinds())
	assert.Equal(t, "Medication/missing", reporter.events[0].Reference)
	assert.False(t, history.IsDegraded(constvars.ResourceMedicationRequest))
}

func TestLoadResources_ContainedMedicationNeedsNoRead(t *testing.T) {
	session := sessiontest.NewFakeSession("https://ehr.example.org/fhir").
		WithSearchResult(constvars.ResourceMedicationRequest,
			`{"resourceType":"MedicationRequest","id":"m1",
			  "contained":[{"resourceType":"Medication","id":"med1","code":{"text":"Morphine"}}],
			  "medicationReference":{"reference":"#med1"}}`,
			`{"resourceType":"MedicationRequest","id":"m2","medicationReference":{"reference":"#absent"}}`,
		)
	uc, reporter := newUsecase()

	history := uc.LoadResources(context.Background(), session, "p1")

	require.Len(t, history.MedicationRequests, 2)
	require.NotNil(t, history.MedicationRequests[0].Medication)
	assert.Equal(t, "Morphine", history.MedicationRequests[0].Medication.Description)
	assert.Nil(t, history.MedicationRequests[1].Medication)
	assert.Empty(t, session.Reads())
	assert.Len(t, reporter.kinds(), 1)
}

func TestLoadResources_SkipsUnwrappableRecords(t *testing.T) {
	session := sessiontest.NewFakeSession("https://ehr.example.org/fhir").
		WithSearchResult(constvars.ResourceProcedure,
			`{"resourceType":"Procedure","id":"pr1","code":{"text":"Intubation"},"performedPeriod":{"start":"2020-02-02"}}`,
			`{"resourceType":"Patient","id":"p1"}`,
			`{"resourceType":"Condition","id":"c9"}`,
		)
	uc, reporter := newUsecase()

	history := uc.LoadResources(context.Background(), session, "p1")

	assert.Equal(t, []string{"pr1"}, ids(history.Procedures))
	assert.Empty(t, history.Conditions)
	assert.Empty(t, reporter.kinds())
}

func TestLoadResources_BlankPatientSkipsSearches(t *testing.T) {
	session := sessiontest.NewFakeSession("https://ehr.example.org/fhir")
	uc, _ := newUsecase()

	history := uc.LoadResources(context.Background(), session, "  ")

	assert.Empty(t, session.Searches())
	assert.NotNil(t, history.Observations)
}
