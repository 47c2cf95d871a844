package session

import (
	"context"
	"deathcert-service/internal/app/config"
	"deathcert-service/internal/app/contracts"
	"deathcert-service/internal/pkg/constvars"
	"deathcert-service/internal/pkg/exceptions"
	"deathcert-service/internal/pkg/fhir_dto"
	"deathcert-service/internal/pkg/utils"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type fhirSession struct {
	serviceURL  *url.URL
	accessToken string
	client      *http.Client
	limiter     *rate.Limiter
	maxPages    int
	pageSize    int
	log         *zap.Logger
}

type sessionFactory struct {
	client   *http.Client
	limiter  *rate.Limiter
	maxPages int
	pageSize int
	log      *zap.Logger
}

// NewSessionFactory returns a factory whose sessions share one HTTP client and
// one outbound rate limit.
func NewSessionFactory(client *http.Client, logger *zap.Logger, fhirConfig config.AppFHIR) contracts.FhirSessionFactory {
	limit := rate.Inf
	burst := 1
	if fhirConfig.RequestsPerSecond > 0 {
		limit = rate.Limit(fhirConfig.RequestsPerSecond)
		burst = int(fhirConfig.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
	}
	maxPages := fhirConfig.SearchMaxPages
	if maxPages < 1 {
		maxPages = 1
	}

	return &sessionFactory{
		client:   client,
		limiter:  rate.NewLimiter(limit, burst),
		maxPages: maxPages,
		pageSize: fhirConfig.SearchPageSize,
		log:      logger,
	}
}

// NewSession opens a handle on serviceURL. An empty accessToken yields an
// anonymous session.
func (f *sessionFactory) NewSession(serviceURL, accessToken string) (contracts.FhirSession, error) {
	base, err := ParseServiceURL(serviceURL)
	if err != nil {
		return nil, err
	}

	return &fhirSession{
		serviceURL:  base,
		accessToken: accessToken,
		client:      f.client,
		limiter:     f.limiter,
		maxPages:    f.maxPages,
		pageSize:    f.pageSize,
		log:         f.log,
	}, nil
}

// ParseServiceURL accepts absolute http(s) URLs and strips the trailing slash.
func ParseServiceURL(serviceURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(serviceURL)
	if trimmed == "" {
		return nil, exceptions.ErrInvalidEndpoint(nil, serviceURL)
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, exceptions.ErrInvalidEndpoint(err, serviceURL)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, exceptions.ErrInvalidEndpoint(nil, serviceURL)
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/")
	parsed.RawPath = ""
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return parsed, nil
}

func (s *fhirSession) ServiceURL() string {
	return s.serviceURL.String()
}

func (s *fhirSession) Authenticated() bool {
	return s.accessToken != ""
}

func (s *fhirSession) Search(ctx context.Context, resourceType string, filter url.Values) ([]fhir_dto.RawResource, error) {
	requestID := utils.GetRequestID(ctx)
	s.log.Info("fhirSession.Search called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingResourceTypeKey, resourceType),
		zap.String(constvars.LoggingServiceURLKey, s.ServiceURL()),
	)

	query := url.Values{}
	for key, values := range filter {
		query[key] = append([]string(nil), values...)
	}
	if s.pageSize > 0 && query.Get(constvars.FhirSearchParamCount) == "" {
		query.Set(constvars.FhirSearchParamCount, strconv.Itoa(s.pageSize))
	}

	target := s.resourceURL(resourceType)
	target.RawQuery = query.Encode()
	nextURL := target.String()

	resources := make([]fhir_dto.RawResource, 0)
	for page := 1; nextURL != ""; page++ {
		if page > s.maxPages {
			s.log.Warn("fhirSession.Search stopped paging at the configured limit",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingResourceTypeKey, resourceType),
				zap.Int(constvars.LoggingPageKey, s.maxPages),
			)
			break
		}

		var bundle fhir_dto.FHIRBundle
		if err := s.get(ctx, nextURL, resourceType, &bundle); err != nil {
			s.log.Error("fhirSession.Search error fetching page",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingResourceTypeKey, resourceType),
				zap.Int(constvars.LoggingPageKey, page),
				zap.Error(err),
			)
			return nil, err
		}
		if bundle.ResourceType != constvars.ResourceBundle {
			return nil, exceptions.ErrDecodeResponse(fmt.Errorf("expected Bundle, got %q", bundle.ResourceType), resourceType)
		}

		for _, entry := range bundle.Entry {
			if entry.Search != nil && entry.Search.Mode == constvars.FhirSearchModeOutcome {
				continue
			}
			if entry.Resource.ResourceType == "" {
				continue
			}
			resources = append(resources, entry.Resource)
		}

		nextURL = s.resolve(bundle.NextLink(constvars.FhirBundleLinkRelationNext))
		if nextURL != "" && !s.sameOrigin(nextURL) {
			s.log.Warn("fhirSession.Search stopped paging at a next link outside the service URL",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingResourceTypeKey, resourceType),
				zap.String(constvars.LoggingNextLinkKey, nextURL),
			)
			break
		}
	}

	s.log.Info("fhirSession.Search succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingResourceTypeKey, resourceType),
		zap.Int(constvars.LoggingResourceCountKey, len(resources)),
	)
	return resources, nil
}

func (s *fhirSession) Read(ctx context.Context, resourceType, id string) (fhir_dto.RawResource, error) {
	requestID := utils.GetRequestID(ctx)
	s.log.Info("fhirSession.Read called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingResourceTypeKey, resourceType),
		zap.String(constvars.LoggingResourceIDKey, id),
	)

	if strings.TrimSpace(id) == "" {
		return fhir_dto.RawResource{}, exceptions.ErrInvalidReference(resourceType + "/")
	}

	target := s.resourceURL(resourceType, id)

	var resource fhir_dto.RawResource
	if err := s.get(ctx, target.String(), resourceType, &resource); err != nil {
		s.log.Error("fhirSession.Read error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingResourceTypeKey, resourceType),
			zap.String(constvars.LoggingResourceIDKey, id),
			zap.Error(err),
		)
		return fhir_dto.RawResource{}, err
	}
	if resource.ResourceType != resourceType {
		return fhir_dto.RawResource{}, exceptions.ErrDecodeResponse(fmt.Errorf("expected %s, got %q", resourceType, resource.ResourceType), resourceType)
	}

	s.log.Info("fhirSession.Read succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingResourceTypeKey, resourceType),
		zap.String(constvars.LoggingResourceIDKey, id),
	)
	return resource, nil
}

func (s *fhirSession) resourceURL(segments ...string) *url.URL {
	target := *s.serviceURL
	target.Path = s.serviceURL.Path + "/" + strings.Join(segments, "/")
	target.RawPath = ""
	return &target
}

// resolve makes a server supplied link absolute against the service URL.
func (s *fhirSession) resolve(link string) string {
	if link == "" {
		return ""
	}
	parsed, err := url.Parse(link)
	if err != nil {
		return ""
	}
	base := *s.serviceURL
	base.Path += "/"
	return base.ResolveReference(parsed).String()
}

// sameOrigin reports whether target shares the scheme and host of the
// service URL. The access token is only ever sent to that origin.
func (s *fhirSession) sameOrigin(target string) bool {
	parsed, err := url.Parse(target)
	if err != nil {
		return false
	}
	return strings.EqualFold(parsed.Scheme, s.serviceURL.Scheme) &&
		strings.EqualFold(parsed.Host, s.serviceURL.Host)
}

func (s *fhirSession) get(ctx context.Context, target, resourceType string, out interface{}) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return exceptions.ErrSendHTTPRequest(err)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, target, nil)
	if err != nil {
		return exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationFHIRJSON)
	if s.accessToken != "" {
		req.Header.Set(constvars.HeaderAuthorization, constvars.AuthorizationBearerPrefix+s.accessToken)
	}
	if requestID := utils.GetRequestID(ctx); requestID != "" {
		req.Header.Set(constvars.HeaderXRequestID, requestID)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return exceptions.ErrGetFHIRResource(err, resourceType)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return exceptions.ErrGetFHIRResource(outcomeError(resp.StatusCode, bodyBytes), resourceType)
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return exceptions.ErrDecodeResponse(err, resourceType)
	}
	return nil
}

func outcomeError(statusCode int, body []byte) error {
	var outcome fhir_dto.OperationOutcome
	if err := json.Unmarshal(body, &outcome); err == nil && outcome.ResourceType == constvars.ResourceOperationOutcome {
		if message := outcome.Message(); message != "" {
			return fmt.Errorf("status %d: %s", statusCode, message)
		}
	}
	return fmt.Errorf("unexpected status %d", statusCode)
}
