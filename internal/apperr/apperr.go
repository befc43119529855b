// Package apperr defines the typed error kinds of the service. The
// boundary layer translates a kind into an HTTP status; the core only
// ever returns one of these and never swallows an error.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeUserNotFound      Code = "user_not_found"
	CodeUserAlreadyExists Code = "user_already_exists"
	CodeCardNotFound      Code = "card_not_found"
	CodeTxnNotFound       Code = "transaction_not_found"
	CodeCardExpired       Code = "card_expired"
	CodeCardBlocked       Code = "card_blocked"
	CodeInvalidStatus     Code = "invalid_status"
	CodeInsufficientFunds Code = "insufficient_funds"
	CodeSameCardTransfer  Code = "same_card_transfer"
	CodeNotOwner          Code = "not_owner"
	CodeInvalidAmount     Code = "invalid_amount"
)

var messages = map[Code]string{
	CodeUserNotFound:      "user not found",
	CodeUserAlreadyExists: "user with this username or email already exists",
	CodeCardNotFound:      "card not found",
	CodeTxnNotFound:       "transaction not found",
	CodeCardExpired:       "operation impossible: card is expired",
	CodeCardBlocked:       "operation impossible: card is blocked",
	CodeInvalidStatus:     "operation impossible: unknown card status",
	CodeInsufficientFunds: "insufficient funds on card",
	CodeSameCardTransfer:  "transfer to the same card is impossible",
	CodeNotOwner:          "card does not belong to the requesting user",
	CodeInvalidAmount:     "amount must be positive",
}

var statuses = map[Code]int{
	CodeUserNotFound:      http.StatusNotFound,
	CodeUserAlreadyExists: http.StatusConflict,
	CodeCardNotFound:      http.StatusNotFound,
	CodeTxnNotFound:       http.StatusNotFound,
	CodeCardExpired:       http.StatusForbidden,
	CodeCardBlocked:       http.StatusForbidden,
	CodeInvalidStatus:     http.StatusForbidden,
	CodeInsufficientFunds: http.StatusBadRequest,
	CodeSameCardTransfer:  http.StatusConflict,
	CodeNotOwner:          http.StatusForbidden,
	CodeInvalidAmount:     http.StatusBadRequest,
}

type Error struct {
	Code Code
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match two *Errors by code, so callers can compare
// against the sentinel returned by New.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// New returns an error of the given kind with its default message.
func New(code Code) *Error {
	return &Error{Code: code, Msg: messages[code]}
}

// Wrap attaches an underlying cause to an error of the given kind.
func Wrap(code Code, err error) *Error {
	return &Error{Code: code, Msg: messages[code], Err: err}
}

// CodeOf extracts the kind from err, or "" if err is not an apperr.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HTTPStatus maps a kind to its wire status. Unknown kinds (including
// plain errors) map to 500.
func HTTPStatus(err error) int {
	if s, ok := statuses[CodeOf(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}
