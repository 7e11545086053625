package errors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ApiError_Error(t *testing.T) {
	testCases := []struct {
		name   string
		err    *ApiError
		expect string
	}{
		{
			name: "source error wins",
			err: &ApiError{
				Stage:     STAGE_REQUEST,
				Type:      TYPE_IO,
				SourceErr: io.ErrUnexpectedEOF,
				Body:      []byte("ignored"),
			},
			expect: "http request to amoCRM failed during 'request' stage with error type 'io', httpStatus: '0'; original err: unexpected EOF",
		},
		{
			name: "amo problem details",
			err: &ApiError{
				Stage:          STAGE_AFTER_REQUEST,
				Type:           TYPE_HTTP_STATUS,
				HttpStatusCode: 401,
				AmoTitle:       AMO_Unauthorized,
				AmoDetail:      "Token expired",
			},
			expect: "http request to amoCRM failed during 'after-request' stage with error type 'not-ok-http-status', httpStatus: '401'; original err: Unauthorized: Token expired",
		},
		{
			name: "raw body",
			err: &ApiError{
				Stage:          STAGE_AFTER_REQUEST,
				Type:           TYPE_HTTP_STATUS,
				HttpStatusCode: 502,
				Body:           []byte("bad gateway"),
			},
			expect: "http request to amoCRM failed during 'after-request' stage with error type 'not-ok-http-status', httpStatus: '502'; original err: bad gateway",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.err.Error())
		})
	}
}

func Test_ApiError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &ApiError{Stage: STAGE_REQUEST})
	assert.True(t, errors.Is(err, &ApiError{}))
	assert.False(t, errors.Is(io.EOF, &ApiError{}))
}

func Test_ApiError_Unwrap(t *testing.T) {
	err := &ApiError{Stage: STAGE_REQUEST, Type: TYPE_IO, SourceErr: context.Canceled}
	assert.True(t, errors.Is(err, context.Canceled))
}

func Test_ApiError_Retryable(t *testing.T) {
	testCases := []struct {
		name   string
		err    *ApiError
		expect bool
	}{
		{"request prep", &ApiError{Stage: STAGE_BEFORE_REQUEST, Type: TYPE_REQUEST_PREP}, false},
		{"transport", &ApiError{Stage: STAGE_REQUEST, Type: TYPE_IO}, true},
		{"body read", &ApiError{Stage: STAGE_AFTER_REQUEST, Type: TYPE_IO, HttpStatusCode: 200}, true},
		{"bad json", &ApiError{Stage: STAGE_AFTER_REQUEST, Type: TYPE_JSON_PARSE, HttpStatusCode: 200}, false},
		{"400", &ApiError{Stage: STAGE_AFTER_REQUEST, Type: TYPE_HTTP_STATUS, HttpStatusCode: 400}, false},
		{"401", &ApiError{Stage: STAGE_AFTER_REQUEST, Type: TYPE_HTTP_STATUS, HttpStatusCode: 401}, false},
		{"429", &ApiError{Stage: STAGE_AFTER_REQUEST, Type: TYPE_HTTP_STATUS, HttpStatusCode: 429}, true},
		{"500", &ApiError{Stage: STAGE_AFTER_REQUEST, Type: TYPE_HTTP_STATUS, HttpStatusCode: 500}, true},
		{"503", &ApiError{Stage: STAGE_AFTER_REQUEST, Type: TYPE_HTTP_STATUS, HttpStatusCode: 503}, true},
		{"403 rate limit title", &ApiError{Stage: STAGE_AFTER_REQUEST, Type: TYPE_HTTP_STATUS, HttpStatusCode: 403, AmoTitle: AMO_RateLimited}, true},
		{"403 other title", &ApiError{Stage: STAGE_AFTER_REQUEST, Type: TYPE_HTTP_STATUS, HttpStatusCode: 403, AmoTitle: "Forbidden"}, false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.err.Retryable())
			assert.Equal(t, tt.expect, IsRetryable(fmt.Errorf("x: %w", tt.err)))
		})
	}

	assert.False(t, IsRetryable(io.EOF))
	assert.False(t, IsRetryable(nil))
}
