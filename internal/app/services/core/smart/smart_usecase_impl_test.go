package smart

import (
	"context"
	"crypto/sha256"
	"deathcert-service/internal/app/config"
	"deathcert-service/internal/pkg/exceptions"
	"deathcert-service/internal/pkg/utils"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryRedis struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{data: map[string]string{}}
}

func (m *memoryRedis) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = string(encoded)
	return nil
}

func (m *memoryRedis) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memoryRedis) GetDel(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value := m.data[key]
	delete(m.data, key)
	return value, nil
}

type fakeAuthorizationServer struct {
	*httptest.Server
	mu            sync.Mutex
	challenge     string
	tokenStatus   int
	omitPatient   bool
	lastTokenForm url.Values
	lastBasicUser string
}

func newFakeAuthorizationServer(t *testing.T) *fakeAuthorizationServer {
	t.Helper()
	fake := &fakeAuthorizationServer{tokenStatus: http.StatusOK}
	mux := http.NewServeMux()
	mux.HandleFunc("/fhir/.well-known/smart-configuration", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"authorization_endpoint":"%[1]s/auth/authorize","token_endpoint":"%[1]s/auth/token","code_challenge_methods_supported":["S256"]}`, fake.URL)
	})
	mux.HandleFunc("/auth/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		basicUser, _, _ := r.BasicAuth()
		fake.mu.Lock()
		fake.lastTokenForm = r.PostForm
		fake.lastBasicUser = basicUser
		challenge, status, omitPatient := fake.challenge, fake.tokenStatus, fake.omitPatient
		fake.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			fmt.Fprint(w, `{"error":"invalid_grant"}`)
			return
		}

		sum := sha256.Sum256([]byte(r.PostForm.Get("code_verifier")))
		if base64.RawURLEncoding.EncodeToString(sum[:]) != challenge {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"invalid_grant","error_description":"pkce mismatch"}`)
			return
		}

		idToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"fhirUser": fake.URL + "/fhir/Practitioner/dr1",
		}).SignedString([]byte("authorization-server-key"))
		require.NoError(t, err)

		response := map[string]interface{}{
			"access_token": "access-1",
			"token_type":   "Bearer",
			"expires_in":   3600,
			"id_token":     idToken,
		}
		if !omitPatient {
			response["patient"] = "p1"
		}
		json.NewEncoder(w).Encode(response)
	})
	fake.Server = httptest.NewServer(mux)
	t.Cleanup(fake.Close)
	return fake
}

func testConfig() *config.InternalConfig {
	return &config.InternalConfig{
		App: config.App{SessionExpiredTimeInHours: 8},
		Smart: config.AppSmart{
			ClientID:                   "deathcert",
			RedirectUri:                "http://localhost:8080/api/v1/smart/callback",
			Scope:                      "launch openid fhirUser patient/*.read",
			SessionSecret:              "session-secret",
			LaunchStateExpiredInMinute: 10,
		},
	}
}

func newTestUsecase(redis *memoryRedis) *smartUsecase {
	return &smartUsecase{
		RedisRepository: redis,
		HTTPClient:      http.DefaultClient,
		InternalConfig:  testConfig(),
		Log:             zap.NewNop(),
		now:             time.Now,
	}
}

func startLaunch(t *testing.T, uc *smartUsecase, server *fakeAuthorizationServer) url.Values {
	t.Helper()
	authorizeURL, err := uc.StartLaunch(context.Background(), server.URL+"/fhir/", "launch-123")
	require.NoError(t, err)

	parsed, err := url.Parse(authorizeURL)
	require.NoError(t, err)
	assert.Equal(t, "/auth/authorize", parsed.Path)

	query := parsed.Query()
	server.mu.Lock()
	server.challenge = query.Get("code_challenge")
	server.mu.Unlock()
	return query
}

func TestSmartLaunch_FullFlow(t *testing.T) {
	server := newFakeAuthorizationServer(t)
	redis := newMemoryRedis()
	uc := newTestUsecase(redis)

	query := startLaunch(t, uc, server)
	assert.Equal(t, "code", query.Get("response_type"))
	assert.Equal(t, "deathcert", query.Get("client_id"))
	assert.Equal(t, "launch-123", query.Get("launch"))
	assert.Equal(t, server.URL+"/fhir", query.Get("aud"))
	assert.Equal(t, "S256", query.Get("code_challenge_method"))
	assert.Equal(t, "launch openid fhirUser patient/*.read", query.Get("scope"))
	assert.Equal(t, "http://localhost:8080/api/v1/smart/callback", query.Get("redirect_uri"))
	require.NotEmpty(t, query.Get("state"))

	sessionToken, launchContext, err := uc.CompleteLaunch(context.Background(), "good-code", query.Get("state"))
	require.NoError(t, err)
	assert.NotEmpty(t, sessionToken)
	assert.Equal(t, server.URL+"/fhir", launchContext.ServiceURL)
	assert.Equal(t, "access-1", launchContext.AccessToken)
	assert.Equal(t, "p1", launchContext.PatientID)
	assert.Equal(t, server.URL+"/fhir/Practitioner/dr1", launchContext.UserReference)
	assert.WithinDuration(t, time.Now().Add(time.Hour), launchContext.ExpiresAt, time.Minute)
	server.mu.Lock()
	assert.Equal(t, "good-code", server.lastTokenForm.Get("code"))
	assert.Equal(t, "authorization_code", server.lastTokenForm.Get("grant_type"))
	assert.Equal(t, "deathcert", server.lastTokenForm.Get("client_id"))
	assert.Equal(t, "http://localhost:8080/api/v1/smart/callback", server.lastTokenForm.Get("redirect_uri"))
	assert.NotEmpty(t, server.lastTokenForm.Get("code_verifier"))
	assert.Empty(t, server.lastBasicUser)
	server.mu.Unlock()

	sessionID, err := utils.ParseJWT(sessionToken, "session-secret")
	require.NoError(t, err)
	assert.Equal(t, launchContext.SessionID, sessionID)

	ready, err := uc.Handshake(sessionToken).Ready(context.Background())
	require.NoError(t, err)
	assert.Equal(t, launchContext.PatientID, ready.PatientID)
	assert.Equal(t, launchContext.AccessToken, ready.AccessToken)

	_, _, err = uc.CompleteLaunch(context.Background(), "good-code", query.Get("state"))
	assert.True(t, errors.Is(err, exceptions.KindAuthenticationIncomplete), "state must be single use")
}

func TestSmartLaunch_ConfidentialClientAuthenticatesWithBasicAuth(t *testing.T) {
	server := newFakeAuthorizationServer(t)
	uc := newTestUsecase(newMemoryRedis())
	uc.InternalConfig.Smart.ClientSecret = "client-secret"

	query := startLaunch(t, uc, server)
	_, launchContext, err := uc.CompleteLaunch(context.Background(), "good-code", query.Get("state"))
	require.NoError(t, err)
	assert.Equal(t, "p1", launchContext.PatientID)

	server.mu.Lock()
	defer server.mu.Unlock()
	assert.Equal(t, "deathcert", server.lastBasicUser)
	assert.Empty(t, server.lastTokenForm.Get("client_secret"))
}

func TestSmartLaunch_TokenExchangeUsesServiceClient(t *testing.T) {
	server := newFakeAuthorizationServer(t)
	uc := newTestUsecase(newMemoryRedis())
	var tokenCalls int
	uc.HTTPClient = &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if r.URL.Path == "/auth/token" {
			tokenCalls++
		}
		return http.DefaultTransport.RoundTrip(r)
	})}

	query := startLaunch(t, uc, server)
	_, _, err := uc.CompleteLaunch(context.Background(), "good-code", query.Get("state"))
	require.NoError(t, err)
	assert.Equal(t, 1, tokenCalls)
}

type roundTripperFunc func(r *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestSmartLaunch_UnknownState(t *testing.T) {
	uc := newTestUsecase(newMemoryRedis())

	_, _, err := uc.CompleteLaunch(context.Background(), "code", "never-issued")
	assert.True(t, errors.Is(err, exceptions.KindAuthenticationIncomplete))
}

func TestSmartLaunch_DiscoveryFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()
	redis := newMemoryRedis()

	_, err := newTestUsecase(redis).StartLaunch(context.Background(), server.URL+"/fhir", "launch")
	require.Error(t, err)

	var customErr *exceptions.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Contains(t, customErr.DevMessage, "404")
	assert.Empty(t, redis.data)
}

func TestSmartLaunch_InvalidIssuer(t *testing.T) {
	_, err := newTestUsecase(newMemoryRedis()).StartLaunch(context.Background(), "javascript:alert(1)", "launch")
	assert.True(t, errors.Is(err, exceptions.KindInvalidEndpoint))
}

func TestSmartLaunch_TokenExchangeRejected(t *testing.T) {
	server := newFakeAuthorizationServer(t)
	server.mu.Lock()
	server.tokenStatus = http.StatusBadRequest
	server.mu.Unlock()
	uc := newTestUsecase(newMemoryRedis())

	query := startLaunch(t, uc, server)
	_, _, err := uc.CompleteLaunch(context.Background(), "bad-code", query.Get("state"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_grant")
}

func TestSmartLaunch_NoPatientInContext(t *testing.T) {
	server := newFakeAuthorizationServer(t)
	server.mu.Lock()
	server.omitPatient = true
	server.mu.Unlock()
	uc := newTestUsecase(newMemoryRedis())

	query := startLaunch(t, uc, server)
	_, _, err := uc.CompleteLaunch(context.Background(), "good-code", query.Get("state"))
	assert.True(t, errors.Is(err, exceptions.KindAuthenticationIncomplete))
}

func TestHandshake_Failures(t *testing.T) {
	redis := newMemoryRedis()
	uc := newTestUsecase(redis)

	t.Run("missing token", func(t *testing.T) {
		_, err := uc.Handshake("").Ready(context.Background())
		assert.True(t, errors.Is(err, exceptions.KindAuthenticationIncomplete))
	})

	t.Run("foreign signature", func(t *testing.T) {
		token, err := utils.GenerateSessionJWT("s1", "someone-else", time.Hour)
		require.NoError(t, err)
		_, err = uc.Handshake(token).Ready(context.Background())
		assert.True(t, errors.Is(err, exceptions.KindAuthenticationIncomplete))
	})

	t.Run("context gone", func(t *testing.T) {
		token, err := utils.GenerateSessionJWT("s2", "session-secret", time.Hour)
		require.NoError(t, err)
		_, err = uc.Handshake(token).Ready(context.Background())
		assert.True(t, errors.Is(err, exceptions.KindAuthenticationIncomplete))
	})

	t.Run("context expired", func(t *testing.T) {
		require.NoError(t, redis.Set(context.Background(), "smart:launch-context:s3", map[string]interface{}{
			"session_id":   "s3",
			"service_url":  "https://ehr.example.org/fhir",
			"access_token": "t",
			"patient_id":   "p1",
			"expires_at":   time.Now().Add(-time.Minute),
		}, time.Hour))
		token, err := utils.GenerateSessionJWT("s3", "session-secret", time.Hour)
		require.NoError(t, err)
		_, err = uc.Handshake(token).Ready(context.Background())
		assert.True(t, errors.Is(err, exceptions.KindAuthenticationIncomplete))
	})
}
