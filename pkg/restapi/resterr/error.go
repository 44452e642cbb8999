/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package resterr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrDataNotFound    = errors.New("data not found")
	ErrSessionNotFound = errors.New("session not found")
)

// ErrorCode is a stable discriminator carried by every error the gateway
// returns. Codes are part of the wire contract and must not be renamed.
type ErrorCode string

const (
	// SystemError internal failure with no better classification.
	SystemError ErrorCode = "system_error"
	// BadRequest request body could not be parsed or bound.
	BadRequest ErrorCode = "bad_request"
	// InvalidValue a request field failed validation.
	InvalidValue ErrorCode = "invalid_value"
	// DoesntExist the referenced entity is unknown.
	DoesntExist ErrorCode = "doesnt_exist"
	// Unauthorized missing or unusable credentials.
	Unauthorized ErrorCode = "unauthorized"

	// MissingUserAgent the init request arrived without a user-agent header.
	MissingUserAgent ErrorCode = "missing_user_agent"
	// InvalidResponse local configuration or URL parameters are malformed.
	InvalidResponse ErrorCode = "invalid_response"
	// SessionError the session store failed; the backend transaction, if
	// already issued, stays valid and expires on its own.
	SessionError ErrorCode = "session_error"
	// APIRequestFailed the call to the backend verification API failed.
	APIRequestFailed ErrorCode = "api_request_failed"
	// MissingRequestParameter neither request nor request_uri was supplied
	// to the wallet redirect builder.
	MissingRequestParameter ErrorCode = "missing_request_parameter"
	// MalformedBaseURI the wallet redirect base is not a valid URI.
	MalformedBaseURI ErrorCode = "malformed_base_uri"
)

// Name returns the wire name of the code.
func (c ErrorCode) Name() string {
	return string(c)
}

//nolint:gochecknoglobals
var httpStatusByCode = map[ErrorCode]int{
	SystemError:             http.StatusInternalServerError,
	BadRequest:              http.StatusBadRequest,
	InvalidValue:            http.StatusBadRequest,
	DoesntExist:             http.StatusNotFound,
	Unauthorized:            http.StatusUnauthorized,
	MissingUserAgent:        http.StatusBadRequest,
	InvalidResponse:         http.StatusBadRequest,
	SessionError:            http.StatusInternalServerError,
	APIRequestFailed:        http.StatusBadGateway,
	MissingRequestParameter: http.StatusBadRequest,
	MalformedBaseURI:        http.StatusBadRequest,
}

// CustomError is the single error kind surfaced by the gateway. The code is
// the stable discriminator, the wrapped Err keeps the original cause.
type CustomError struct {
	Code            ErrorCode
	IncorrectValue  string
	FailedOperation string
	ErrorComponent  Component
	Err             error
}

func NewSystemError(component Component, failedOperation string, err error) *CustomError {
	return &CustomError{
		Code:            SystemError,
		FailedOperation: failedOperation,
		ErrorComponent:  component,
		Err:             err,
	}
}

func NewValidationError(code ErrorCode, incorrectValue string, err error) *CustomError {
	return &CustomError{
		Code:           code,
		IncorrectValue: incorrectValue,
		Err:            err,
	}
}

func NewCustomError(code ErrorCode, err error) *CustomError {
	return &CustomError{
		Code: code,
		Err:  err,
	}
}

func NewUnauthorizedError(err error) *CustomError {
	return &CustomError{
		Code: Unauthorized,
		Err:  err,
	}
}

func (e *CustomError) Error() string {
	if e.Code == SystemError {
		return fmt.Sprintf("%s[%s, %s]: %v", e.Code.Name(), e.ErrorComponent, e.FailedOperation, e.Err)
	}

	if e.IncorrectValue != "" {
		return fmt.Sprintf("%s[%s]: %v", e.Code.Name(), e.IncorrectValue, e.Err)
	}

	return fmt.Sprintf("%s: %v", e.Code.Name(), e.Err)
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// HTTPCodeMsg maps the error to an HTTP status and a JSON-able body.
func (e *CustomError) HTTPCodeMsg() (int, interface{}) {
	status, ok := httpStatusByCode[e.Code]
	if !ok {
		status = http.StatusInternalServerError
	}

	body := map[string]interface{}{
		"errorType": e.Code.Name(),
		"message":   e.Err.Error(),
	}

	if e.IncorrectValue != "" {
		body["incorrectValue"] = e.IncorrectValue
	}

	if e.ErrorComponent != "" {
		body["component"] = string(e.ErrorComponent)
	}

	if e.FailedOperation != "" {
		body["operation"] = e.FailedOperation
	}

	return status, body
}
