package utils

import (
	"deathcert-service/internal/pkg/constvars"
	"deathcert-service/internal/pkg/exceptions"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildSuccessResponse(t *testing.T) {
	rec := httptest.NewRecorder()

	BuildSuccessResponse(rec, constvars.StatusOK, "ok", map[string]int{"total": 2})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, constvars.MIMEApplicationJSON, rec.Header().Get(constvars.HeaderContentType))
	assert.JSONEq(t, `{"success":true,"message":"ok","data":{"total":2}}`, rec.Body.String())
}

func TestBuildErrorResponse(t *testing.T) {
	searchErr := exceptions.ErrSearchFailed(errors.New("connection refused"), constvars.ResourcePatient)

	t.Run("development exposes dev message", func(t *testing.T) {
		t.Setenv("APP_ENV", constvars.AppEnvDevelopment)
		rec := httptest.NewRecorder()

		BuildErrorResponse(zap.NewNop(), rec, searchErr)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, constvars.ErrClientPatientSearchFailed, body["message"])
		assert.NotEmpty(t, body["dev_message"])
	})

	t.Run("production hides dev message", func(t *testing.T) {
		t.Setenv("APP_ENV", constvars.AppEnvProduction)
		rec := httptest.NewRecorder()

		BuildErrorResponse(zap.NewNop(), rec, searchErr)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotContains(t, body, "dev_message")
		assert.NotContains(t, body, "location")
	})

	t.Run("plain error", func(t *testing.T) {
		rec := httptest.NewRecorder()

		BuildErrorResponse(zap.NewNop(), rec, errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), constvars.ErrClientSomethingWrongWithApplication)
	})
}
