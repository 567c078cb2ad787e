package errors

import (
	"net/http"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestBuilderMarksSentinel(t *testing.T) {
	err := NewError("card rejected").
		WithHint("Card number failed checksum").
		WithReportableDetails(map[string]any{"last4": "4241"}).
		Mark(ErrValidation)

	assert.True(t, IsValidation(err))
	assert.False(t, IsNotFound(err))
	assert.Contains(t, errors.GetAllHints(err), "Card number failed checksum")
	assert.Equal(t, http.StatusBadRequest, HTTPStatusFromErr(err))
}

func TestHTTPStatusFromErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", WithError(errors.New("x")).Mark(ErrNotFound), http.StatusNotFound},
		{"gateway", NewError("timeout").Mark(ErrGatewayUnavailable), http.StatusBadGateway},
		{"in flight", NewError("busy").Mark(ErrInvalidOperation), http.StatusBadRequest},
		{"invariant", NewError("two defaults").Mark(ErrInvariantViolation), http.StatusInternalServerError},
		{"unmarked", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromErr(tt.err))
		})
	}
}

func TestNewErrorResponseCarriesCodeNotCause(t *testing.T) {
	err := WithError(errors.New("pq: connection refused on 10.0.0.3")).
		WithHint("Account not found").
		Mark(ErrNotFound)

	resp := NewErrorResponse(err, "Account not found", map[string]any{"account_id": "acct_1"})

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Account not found", resp.Error.Display)
	assert.Empty(t, resp.Error.InternalError)
	assert.Equal(t, "acct_1", resp.Error.Details["account_id"])
}

func TestCodeFromErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"gateway", NewError("timeout").Mark(ErrGatewayUnavailable), ErrCodeGatewayUnavailable},
		{"in flight", NewError("busy").Mark(ErrInvalidOperation), ErrCodeInvalidOperation},
		{"conflict", NewError("dup").Mark(ErrAlreadyExists), ErrCodeAlreadyExists},
		{"unmarked", errors.New("boom"), ErrCodeSystemError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeFromErr(tt.err))
		})
	}
}
