// Package httpclient builds the retrying HTTP client shared by the archive
// probe, the user-data fetch, the chat poster, the DNS providers and the
// Heroku config var store. Only idempotent requests are retried.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

// DefaultRetryMax is the number of retries after the first attempt.
const DefaultRetryMax = 2

// New returns a retryablehttp client that logs through logger.
func New(logger zerolog.Logger, retryMax int) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = retryMax
	c.RetryWaitMin = 200 * time.Millisecond
	c.RetryWaitMax = 2 * time.Second
	c.HTTPClient.Timeout = 30 * time.Second
	c.Logger = leveled{logger: logger}
	c.CheckRetry = checkRetry
	// Hand the final response back so callers can map its status.
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return c
}

// checkRetry applies the default policy to idempotent requests only. A POST
// that failed may still have posted a chat line or created a record.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if m := requestMethod(resp, err); m != "" && !idempotent(m) {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// requestMethod recovers the method from the response or, on a transport
// error, from the *url.Error the client wraps it in.
func requestMethod(resp *http.Response, err error) string {
	if resp != nil && resp.Request != nil {
		return resp.Request.Method
	}
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return strings.ToUpper(uerr.Op)
	}
	return ""
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// leveled adapts zerolog to retryablehttp.LeveledLogger.
type leveled struct {
	logger zerolog.Logger
}

func (l leveled) Error(msg string, kv ...interface{}) { l.emit(l.logger.Error(), msg, kv) }
func (l leveled) Warn(msg string, kv ...interface{})  { l.emit(l.logger.Warn(), msg, kv) }
func (l leveled) Info(msg string, kv ...interface{})  { l.emit(l.logger.Debug(), msg, kv) }
func (l leveled) Debug(msg string, kv ...interface{}) { l.emit(l.logger.Debug(), msg, kv) }

func (l leveled) emit(e *zerolog.Event, msg string, kv []interface{}) {
	for i := 0; i+1 < len(kv); i += 2 {
		e = e.Interface(fmt.Sprint(kv[i]), kv[i+1])
	}
	e.Msg(msg)
}
