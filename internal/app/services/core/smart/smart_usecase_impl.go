package smart

import (
	"context"
	"deathcert-service/internal/app/config"
	"deathcert-service/internal/app/contracts"
	"deathcert-service/internal/app/models"
	"deathcert-service/internal/app/services/fhir_spark/session"
	"deathcert-service/internal/pkg/constvars"
	"deathcert-service/internal/pkg/exceptions"
	"deathcert-service/internal/pkg/utils"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

type smartConfiguration struct {
	AuthorizationEndpoint         string   `json:"authorization_endpoint"`
	TokenEndpoint                 string   `json:"token_endpoint"`
	CodeChallengeMethodsSupported []string `json:"code_challenge_methods_supported,omitempty"`
}


type smartUsecase struct {
	RedisRepository contracts.RedisRepository
	HTTPClient      *http.Client
	InternalConfig  *config.InternalConfig
	Log             *zap.Logger
	now             func() time.Time
}

func NewSmartUsecase(
	redisRepository contracts.RedisRepository,
	httpClient *http.Client,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.SmartUsecase {
	return &smartUsecase{
		RedisRepository: redisRepository,
		HTTPClient:      httpClient,
		InternalConfig:  internalConfig,
		Log:             logger,
		now:             time.Now,
	}
}

// StartLaunch answers an EHR launch: it discovers the issuer's authorization
// server, remembers a PKCE verifier under a fresh state and returns the URL
// the browser must be sent to.
func (uc *smartUsecase) StartLaunch(ctx context.Context, issuer, launch string) (string, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("smartUsecase.StartLaunch called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingServiceURLKey, issuer),
	)

	issuerURL, err := session.ParseServiceURL(issuer)
	if err != nil {
		return "", err
	}
	issuer = issuerURL.String()

	smartConfig, err := uc.discover(ctx, issuer)
	if err != nil {
		uc.Log.Error("smartUsecase.StartLaunch error discovering configuration",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return "", err
	}

	verifier := oauth2.GenerateVerifier()
	launchState := models.LaunchState{
		State:         uuid.NewString(),
		Issuer:        issuer,
		CodeVerifier:  verifier,
		TokenEndpoint: smartConfig.TokenEndpoint,
		CreatedAt:     uc.now().UTC(),
	}
	stateTTL := time.Duration(uc.InternalConfig.Smart.LaunchStateExpiredInMinute) * time.Minute
	err = uc.RedisRepository.Set(ctx, fmt.Sprintf(constvars.RedisKeyLaunchStateFormat, launchState.State), launchState, stateTTL)
	if err != nil {
		return "", err
	}

	authorizeURL := uc.oauthConfig(smartConfig.AuthorizationEndpoint, smartConfig.TokenEndpoint).AuthCodeURL(
		launchState.State,
		oauth2.SetAuthURLParam(constvars.SmartParamAudience, issuer),
		oauth2.SetAuthURLParam(constvars.SmartParamLaunch, launch),
		oauth2.S256ChallengeOption(verifier),
	)

	uc.Log.Info("smartUsecase.StartLaunch succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingServiceURLKey, issuer),
	)
	return authorizeURL, nil
}

// CompleteLaunch redeems the authorization code of a launch started by
// StartLaunch. The state is single use.
func (uc *smartUsecase) CompleteLaunch(ctx context.Context, code, state string) (string, *models.LaunchContext, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("smartUsecase.CompleteLaunch called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	stateData, err := uc.RedisRepository.GetDel(ctx, fmt.Sprintf(constvars.RedisKeyLaunchStateFormat, state))
	if err != nil {
		return "", nil, err
	}
	if stateData == "" {
		return "", nil, exceptions.ErrAuthenticationIncomplete(nil, "unknown or expired launch state")
	}

	var launchState models.LaunchState
	if err := json.Unmarshal([]byte(stateData), &launchState); err != nil {
		return "", nil, exceptions.ErrAuthenticationIncomplete(err, "unreadable launch state")
	}

	token, err := uc.exchangeCode(ctx, launchState, code)
	if err != nil {
		uc.Log.Error("smartUsecase.CompleteLaunch error exchanging code",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return "", nil, err
	}
	patientID := extraString(token, constvars.SmartTokenPatient)
	if patientID == "" {
		return "", nil, exceptions.ErrAuthenticationIncomplete(nil, "token response has no patient in context")
	}

	sessionTTL := time.Duration(uc.InternalConfig.App.SessionExpiredTimeInHours) * time.Hour
	if !token.Expiry.IsZero() {
		if tokenTTL := token.Expiry.Sub(uc.now()); tokenTTL > 0 && tokenTTL < sessionTTL {
			sessionTTL = tokenTTL
		}
	}

	launchContext := &models.LaunchContext{
		SessionID:     uuid.NewString(),
		ServiceURL:    launchState.Issuer,
		AccessToken:   token.AccessToken,
		PatientID:     patientID,
		UserReference: uc.userReference(ctx, token),
		ExpiresAt:     uc.now().UTC().Add(sessionTTL),
	}

	err = uc.RedisRepository.Set(ctx, fmt.Sprintf(constvars.RedisKeyLaunchContextFormat, launchContext.SessionID), launchContext, sessionTTL)
	if err != nil {
		return "", nil, err
	}

	sessionToken, err := utils.GenerateSessionJWT(launchContext.SessionID, uc.InternalConfig.Smart.SessionSecret, sessionTTL)
	if err != nil {
		return "", nil, exceptions.ErrSessionTokenSign(err)
	}

	uc.Log.Info("smartUsecase.CompleteLaunch succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, launchContext.SessionID),
		zap.String(constvars.LoggingPatientIDKey, launchContext.PatientID),
	)
	return sessionToken, launchContext, nil
}

func (uc *smartUsecase) Handshake(sessionToken string) contracts.LaunchHandshake {
	return &launchHandshake{usecase: uc, sessionToken: sessionToken}
}

// userReference prefers the fhirUser claim of the id_token, read without
// signature verification.
func (uc *smartUsecase) userReference(ctx context.Context, token *oauth2.Token) string {
	if idToken := extraString(token, constvars.SmartTokenIDToken); idToken != "" {
		claims, err := utils.ParseUnverifiedClaims(idToken)
		if err != nil {
			uc.Log.Warn("smartUsecase.userReference unreadable id_token",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
				zap.Error(err),
			)
		} else {
			for _, claim := range []string{constvars.SmartClaimFhirUser, constvars.SmartClaimProfile} {
				if value, ok := claims[claim].(string); ok && value != "" {
					return value
				}
			}
		}
	}
	return extraString(token, constvars.SmartClaimFhirUser)
}

func extraString(token *oauth2.Token, key string) string {
	value, _ := token.Extra(key).(string)
	return value
}

func (uc *smartUsecase) oauthConfig(authorizationEndpoint, tokenEndpoint string) *oauth2.Config {
	authStyle := oauth2.AuthStyleInParams
	if uc.InternalConfig.Smart.ClientSecret != "" {
		authStyle = oauth2.AuthStyleInHeader
	}
	return &oauth2.Config{
		ClientID:     uc.InternalConfig.Smart.ClientID,
		ClientSecret: uc.InternalConfig.Smart.ClientSecret,
		RedirectURL:  uc.InternalConfig.Smart.RedirectUri,
		Scopes:       strings.Fields(uc.InternalConfig.Smart.Scope),
		Endpoint: oauth2.Endpoint{
			AuthURL:   authorizationEndpoint,
			TokenURL:  tokenEndpoint,
			AuthStyle: authStyle,
		},
	}
}

func (uc *smartUsecase) discover(ctx context.Context, issuer string) (*smartConfiguration, error) {
	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, issuer+constvars.SmartWellKnownConfigurationPath, nil)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)

	resp, err := uc.HTTPClient.Do(req)
	if err != nil {
		return nil, exceptions.ErrSmartDiscovery(err, issuer)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		return nil, exceptions.ErrSmartDiscovery(fmt.Errorf("unexpected status %d", resp.StatusCode), issuer)
	}

	smartConfig := new(smartConfiguration)
	if err := json.NewDecoder(resp.Body).Decode(smartConfig); err != nil {
		return nil, exceptions.ErrSmartDiscovery(err, issuer)
	}
	if smartConfig.AuthorizationEndpoint == "" || smartConfig.TokenEndpoint == "" {
		return nil, exceptions.ErrSmartDiscovery(fmt.Errorf("authorization or token endpoint missing"), issuer)
	}
	return smartConfig, nil
}

// exchangeCode redeems the code at the token endpoint recorded with the
// launch state, over the service's retrying client.
func (uc *smartUsecase) exchangeCode(ctx context.Context, launchState models.LaunchState, code string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, uc.HTTPClient)

	token, err := uc.oauthConfig("", launchState.TokenEndpoint).Exchange(ctx, code, oauth2.VerifierOption(launchState.CodeVerifier))
	if err != nil {
		return nil, exceptions.ErrSmartTokenExchange(err, launchState.TokenEndpoint)
	}
	return token, nil
}
