package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeCardNotFound, CodeOf(New(CodeCardNotFound)))
	assert.Equal(t, Code(""), CodeOf(errors.New("plain")))
	assert.Equal(t, Code(""), CodeOf(nil))

	// Wrapped errors still resolve.
	wrapped := fmt.Errorf("resolve card: %w", New(CodeInsufficientFunds))
	assert.Equal(t, CodeInsufficientFunds, CodeOf(wrapped))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("row scan failed")
	err := Wrap(CodeCardNotFound, cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "card not found")
	assert.Contains(t, err.Error(), "row scan failed")
}

func TestErrorsIsByCode(t *testing.T) {
	assert.ErrorIs(t, Wrap(CodeCardBlocked, errors.New("x")), New(CodeCardBlocked))
	assert.NotErrorIs(t, New(CodeCardBlocked), New(CodeCardExpired))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeUserNotFound, http.StatusNotFound},
		{CodeCardNotFound, http.StatusNotFound},
		{CodeUserAlreadyExists, http.StatusConflict},
		{CodeSameCardTransfer, http.StatusConflict},
		{CodeNotOwner, http.StatusForbidden},
		{CodeCardBlocked, http.StatusForbidden},
		{CodeCardExpired, http.StatusForbidden},
		{CodeInvalidStatus, http.StatusForbidden},
		{CodeInsufficientFunds, http.StatusBadRequest},
		{CodeInvalidAmount, http.StatusBadRequest},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(New(tt.code)), string(tt.code))
	}
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}
