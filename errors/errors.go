package errors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	STAGE_BEFORE_REQUEST = "before-request"
	STAGE_REQUEST        = "request"
	STAGE_AFTER_REQUEST  = "after-request"

	TYPE_JSON_PARSE   = "json"
	TYPE_REQUEST_PREP = "request-prep"
	TYPE_IO           = "io"
	TYPE_HTTP_STATUS  = "not-ok-http-status"

	// problem+json titles
	AMO_Unauthorized = "Unauthorized"
	AMO_RateLimited  = "Too Many Requests"
)

// ApiError describes a failed call to the amoCRM API.
// Stage tells where it broke (before, during or after the HTTP round trip)
// and Type narrows down the cause.
type ApiError struct {
	Stage          string
	Type           string
	SourceErr      error
	Body           []byte
	HttpStatusCode int

	// AmoTitle and AmoDetail are copied from the problem+json
	// body amoCRM returns with 4xx/5xx responses, if any.
	AmoTitle  string
	AmoDetail string
}

var _ error = &ApiError{}

func (e *ApiError) Error() string {
	var err string
	if e.SourceErr != nil {
		err = e.SourceErr.Error()
	} else if e.AmoDetail != "" {
		err = e.AmoTitle + ": " + e.AmoDetail
	} else {
		err = string(e.Body)
	}
	return fmt.Sprintf(
		"http request to amoCRM failed during '%s' stage with error type '%s', httpStatus: '%d'; original err: %v",
		e.Stage, e.Type, e.HttpStatusCode, err,
	)
}

// Is method is required by errors.Is() to properly distinguish between
// different types -vs- same pointer to the same type.
// Without it, errors.Is(err, &ApiError{}) returns false for any
// ApiError other than that exact pointer.
func (e *ApiError) Is(other error) bool {
	var err *ApiError
	return errors.As(other, &err) && err != nil
}

func (e *ApiError) Unwrap() error {
	return e.SourceErr
}

// Retryable reports whether sending the same request again may succeed:
// transport failures, 429 and 5xx responses, and any response whose
// problem title says the account hit its rate limit.
// Anything that failed before the request was sent, or got a 4xx, won't get better.
func (e *ApiError) Retryable() bool {
	switch e.Stage {
	case STAGE_BEFORE_REQUEST:
		return false
	case STAGE_REQUEST:
		return true
	}
	if e.Type == TYPE_IO {
		return true
	}
	if e.Type != TYPE_HTTP_STATUS {
		return false
	}
	if e.AmoTitle == AMO_RateLimited {
		return true
	}
	return e.HttpStatusCode == http.StatusTooManyRequests || e.HttpStatusCode >= 500
}

// IsRetryable unwraps err looking for an ApiError and reports its Retryable value.
func IsRetryable(err error) bool {
	var apiErr *ApiError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Retryable()
}
