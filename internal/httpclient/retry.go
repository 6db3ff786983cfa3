package httpclient

import (
	nethttp "net/http"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"

	"github.com/shiplift/shiplift/internal/constants"
)

// retryLogger adapts zerolog to the retryablehttp.LeveledLogger interface.
// Info and Debug are dropped; retryablehttp logs every request at those
// levels and the noise drowns out transfer output.
type retryLogger struct{}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	log.Error().Fields(fieldMap(keysAndValues)).Msg(msg)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	log.Warn().Fields(fieldMap(keysAndValues)).Msg(msg)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {}

func fieldMap(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}

// NewRetrying wraps a base client with automatic retries for transient
// failures (connection errors, 429, 5xx). Used for forge API traffic in
// release create and fetch; the deploy path stays single-shot and uses the
// base client directly.
func NewRetrying(base *nethttp.Client) *nethttp.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = base
	retryClient.RetryMax = constants.ForgeRetryMax
	retryClient.RetryWaitMin = constants.ForgeRetryWaitMin
	retryClient.RetryWaitMax = constants.ForgeRetryWaitMax
	retryClient.Logger = &retryLogger{}

	return retryClient.StandardClient()
}
