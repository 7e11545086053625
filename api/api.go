package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/block/amocrm-go/errors"
	"github.com/block/amocrm-go/logger"
	"github.com/block/amocrm-go/rate"
	"github.com/block/amocrm-go/types"
)

const (
	apiPrefix = "/api/v4/"
)

type apiClient struct {
	baseUrl     string
	accessToken string
	httpClient  *http.Client
	limiter     rate.Limiter
	logger      logger.Logger
}

// Config carries everything the resource clients share.
type Config struct {
	// BaseUrl is the account address, e.g. https://example.amocrm.ru
	BaseUrl     string
	AccessToken string
	HttpClient  *http.Client
	Limiter     rate.Limiter
	Logger      logger.Logger
}

func newApiClient(cfg Config) *apiClient {
	c := &apiClient{
		baseUrl:     strings.TrimRight(cfg.BaseUrl, "/"),
		accessToken: cfg.AccessToken,
		httpClient:  cfg.HttpClient,
		limiter:     cfg.Limiter,
		logger:      cfg.Logger,
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	if c.limiter == nil {
		c.limiter = rate.NoopLimiter{}
	}
	if c.logger == nil {
		c.logger = logger.Noop{}
	}
	return c
}

// getJson sends a GET request and decodes the response into resData.
// found is false when amoCRM answered 204 No Content or with an empty body,
// which is how it reports an empty collection; resData is left untouched then.
func (c *apiClient) getJson(ctx context.Context, path string, resData any) (bool, *errors.ApiError) {
	body, err := c.get(ctx, path)
	if err != nil {
		if len(err.Body) > 0 {
			problem := types.ProblemDetails{}
			if err2 := json.Unmarshal(err.Body, &problem); err2 == nil {
				err.AmoTitle = problem.Title
				err.AmoDetail = problem.Detail
			}
		}
		return false, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return false, nil
	}
	jsonErr := json.Unmarshal(body, resData)
	if jsonErr != nil {
		return false, &errors.ApiError{
			Stage:          errors.STAGE_AFTER_REQUEST,
			Type:           errors.TYPE_JSON_PARSE,
			SourceErr:      jsonErr,
			Body:           body,
			HttpStatusCode: http.StatusOK,
		}
	}
	return true, nil
}

// get sends a GET request. A nil body with a nil error means 204 No Content.
func (c *apiClient) get(ctx context.Context, path string) ([]byte, *errors.ApiError) {
	endpoint := c.baseUrl + apiPrefix + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &errors.ApiError{
			Stage:     errors.STAGE_BEFORE_REQUEST,
			Type:      errors.TYPE_REQUEST_PREP,
			SourceErr: err,
		}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	if err = c.limiter.Limit(req); err != nil {
		return nil, &errors.ApiError{
			Stage:     errors.STAGE_BEFORE_REQUEST,
			Type:      errors.TYPE_REQUEST_PREP,
			SourceErr: err,
		}
	}

	c.logger.Debugf("amoCRM request: GET %s", endpoint)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &errors.ApiError{
			Stage:     errors.STAGE_REQUEST,
			Type:      errors.TYPE_IO,
			SourceErr: err,
		}
	}
	defer func() {
		if res.Body != nil {
			_ = res.Body.Close()
		}
	}()

	if res.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var body []byte
	if res.Body != nil {
		body, err = io.ReadAll(res.Body)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return body, &errors.ApiError{
			Stage:          errors.STAGE_AFTER_REQUEST,
			Type:           errors.TYPE_HTTP_STATUS,
			Body:           body,
			HttpStatusCode: res.StatusCode,
		}
	}

	if err != nil {
		return body, &errors.ApiError{
			Stage:          errors.STAGE_AFTER_REQUEST,
			Type:           errors.TYPE_IO,
			Body:           body,
			HttpStatusCode: res.StatusCode,
			SourceErr:      err,
		}
	}

	return body, nil
}

// toNilErr converts a *errors.ApiError type to be a true nil interface.
// Internally, a Go interface has a Type and Value.
// An interface value is nil only if the V and T are both unset.
// See: https://go.dev/doc/faq#nil_error
func toNilErr[T any](r T, e *errors.ApiError) (T, error) {
	if e != nil {
		return r, e
	}
	return r, nil
}
