package httpclient

import (
	"deathcert-service/internal/app/config"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// NewRetryableClient builds the outbound client shared by the FHIR sessions
// and the SMART token exchange. Transient failures and 5xx answers are retried
// with backoff. A zero timeout means requests are bounded only by their context.
func NewRetryableClient(internalConfig *config.InternalConfig, logger *zap.Logger) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = internalConfig.FHIR.RetryMax
	retryClient.RetryWaitMin = 200 * time.Millisecond
	retryClient.RetryWaitMax = 2 * time.Second
	retryClient.Logger = zapLeveledLogger{logger: logger.Sugar()}
	retryClient.HTTPClient = &http.Client{
		Timeout: time.Duration(internalConfig.FHIR.HTTPTimeoutInSeconds) * time.Second,
	}
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return retryClient.StandardClient()
}

type zapLeveledLogger struct {
	logger *zap.SugaredLogger
}

func (l zapLeveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, keysAndValues...)
}

func (l zapLeveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warnw(msg, keysAndValues...)
}

func (l zapLeveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l zapLeveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}
