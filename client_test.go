package amocrm_go

import (
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/block/amocrm-go/logger"
	"github.com/block/amocrm-go/rate"
)

var (
	accessToken = "__ACCESS__TOKEN__"
	baseUrl     = "https://example.amocrm.ru"
)

func Test_newClient(t *testing.T) {
	c := NewClient(accessToken)
	assert.NotNil(t, c)
	assert.Equal(t, 10*time.Second, c.httpClient.Timeout)
	assert.NotNil(t, c.httpClient.Transport)
}

func Test_newClient_opts(t *testing.T) {
	tt := &fakeTransport{}
	c := NewClient(
		accessToken,
		WithBaseUrl(baseUrl),
		WithTimeout(1*time.Second),
		WithTransport(tt),
		WithRateLimiter(&rate.NoopLimiter{}),
		WithLogger(logger.Noop{}),
	)
	assert.Equal(t, 1*time.Second, c.httpClient.Timeout)
	assert.Equal(t, tt, c.httpClient.Transport)
}

func Test_newClient_init_all_apis(t *testing.T) {
	c := NewClient(accessToken)
	values := reflect.ValueOf(*c)
	types := reflect.TypeOf(*c)
	for i := range values.NumField() {
		field := values.Field(i)
		fieldName := types.Field(i).Name
		if field.IsNil() {
			assert.Fail(t, fmt.Sprintf("%s is not initialized", fieldName))
		}
	}
}

func Test_config_WithBaseUrl(t *testing.T) {
	c := config{}
	WithBaseUrl(baseUrl)(&c)
	assert.Equal(t, baseUrl, c.baseUrl)
}

func Test_config_WithTransport(t *testing.T) {
	c := config{}
	WithTransport(&fakeTransport{})(&c)
	assert.NotNil(t, c.transport)
}

func Test_config_WithTimeout(t *testing.T) {
	c := config{}
	WithTimeout(2 * time.Second)(&c)
	assert.Equal(t, 2*time.Second, c.timeout)
}

func Test_config_WithRateLimiter(t *testing.T) {
	c := config{}
	WithRateLimiter(&rate.NoopLimiter{})(&c)
	assert.NotNil(t, c.limiter)
}

func Test_config_WithLogger(t *testing.T) {
	c := config{}
	l := logger.NewStdOut()
	WithLogger(l)(&c)
	assert.Equal(t, l, c.logger)
}

type fakeTransport struct {
}

func (f fakeTransport) RoundTrip(_ *http.Request) (*http.Response, error) {
	return nil, nil
}

var _ http.RoundTripper = &fakeTransport{}

// routeTransport answers requests with handler and records every
// request as "METHOD path?query".
type routeTransport struct {
	mu      sync.Mutex
	handler func(req *http.Request) (int, string)
	reqs    []string
}

func (r *routeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r.mu.Lock()
	r.reqs = append(r.reqs, req.Method+" "+req.URL.RequestURI())
	r.mu.Unlock()

	code, body := r.handler(req)
	return &http.Response{
		StatusCode: code,
		Header:     http.Header{"Content-Type": []string{"application/hal+json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}, nil
}

func (r *routeTransport) requests() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.reqs...)
}

var _ http.RoundTripper = &routeTransport{}
