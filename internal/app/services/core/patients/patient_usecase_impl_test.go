package patients

import (
	"context"
	"deathcert-service/internal/app/services/fhir_spark/session/sessiontest"
	"deathcert-service/internal/pkg/constvars"
	"deathcert-service/internal/pkg/exceptions"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadPatients_BlankFilterListsAll(t *testing.T) {
	session := sessiontest.NewFakeSession("https://ehr.example.org/fhir").
		WithSearchResult(constvars.ResourcePatient,
			`{"resourceType":"Patient","id":"p1","name":[{"given":["Ada"],"family":"Smith"}],"birthDate":"1950-02-03","gender":"female"}`,
			`{"resourceType":"Patient","id":"p2","name":[{"use":"nickname","text":"Bob"},{"use":"official","text":"Robert Jones"}]}`,
			`{"resourceType":"OperationOutcome","id":"oo"}`,
		)

	patients, err := NewPatientUsecase(zap.NewNop()).LoadPatients(context.Background(), session, "   ")
	require.NoError(t, err)

	require.Len(t, patients, 2)
	assert.Equal(t, "p1", patients[0].ID)
	assert.Equal(t, "Ada Smith", patients[0].Name)
	assert.Equal(t, "1950-02-03", patients[0].BirthDate)
	assert.Equal(t, "female", patients[0].Gender)
	assert.Equal(t, "Robert Jones", patients[1].Name)

	searches := session.Searches()
	require.Len(t, searches, 1)
	assert.Empty(t, searches[0].Filter.Get(constvars.FhirSearchParamName))
}

func TestLoadPatients_NameFilterIsSentToServer(t *testing.T) {
	session := sessiontest.NewFakeSession("https://ehr.example.org/fhir").
		WithSearchResult(constvars.ResourcePatient, `{"resourceType":"Patient","id":"p1"}`)

	patients, err := NewPatientUsecase(zap.NewNop()).LoadPatients(context.Background(), session, " Smith ")
	require.NoError(t, err)
	assert.Len(t, patients, 1)

	searches := session.Searches()
	require.Len(t, searches, 1)
	assert.Equal(t, constvars.ResourcePatient, searches[0].ResourceType)
	assert.Equal(t, "Smith", searches[0].Filter.Get(constvars.FhirSearchParamName))
}

func TestLoadPatients_EmptyResultIsNotNil(t *testing.T) {
	session := sessiontest.NewFakeSession("https://ehr.example.org/fhir")

	patients, err := NewPatientUsecase(zap.NewNop()).LoadPatients(context.Background(), session, "")
	require.NoError(t, err)
	assert.NotNil(t, patients)
	assert.Empty(t, patients)
}

func TestLoadPatients_FailurePropagatesAsSearchFailed(t *testing.T) {
	cause := errors.New("server unavailable")
	session := sessiontest.NewFakeSession("https://ehr.example.org/fhir").
		WithSearchError(constvars.ResourcePatient, cause)

	patients, err := NewPatientUsecase(zap.NewNop()).LoadPatients(context.Background(), session, "Smith")
	require.Error(t, err)
	assert.Nil(t, patients)
	assert.True(t, errors.Is(err, exceptions.KindSearchFailed))
	assert.True(t, errors.Is(err, cause))

	var customErr *exceptions.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, constvars.StatusBadGateway, customErr.StatusCode)
}
