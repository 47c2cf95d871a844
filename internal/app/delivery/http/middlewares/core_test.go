package middlewares

import (
	"deathcert-service/internal/pkg/constvars"
	"deathcert-service/internal/pkg/utils"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestIDMiddleware(t *testing.T) {
	m := NewMiddlewares(zap.NewNop(), nil)
	var seen string
	handler := m.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = utils.GetRequestID(r.Context())
	}))

	t.Run("client supplied", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constvars.HeaderXRequestID, "client-id")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "client-id", seen)
		assert.Equal(t, "client-id", rec.Header().Get(constvars.HeaderXRequestID))
	})

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(constvars.HeaderXRequestID))
	})
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewMiddlewares(zap.New(core), nil)
	handler := m.RequestIDMiddleware(m.Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("missing"))
	})))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	completed := logs.FilterMessage("API request completed").All()
	require.Len(t, completed, 1)
	fields := completed[0].ContextMap()
	assert.EqualValues(t, http.StatusNotFound, fields[constvars.LoggingStatusCodeKey])
	assert.EqualValues(t, len("missing"), fields[constvars.LoggingResponseLengthKey])
	assert.Equal(t, false, fields[constvars.LoggingSuccessKey])
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	m := NewMiddlewares(zap.NewNop(), nil)
	handler := m.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, constvars.ErrClientCannotProcessRequest, body["message"])
}
