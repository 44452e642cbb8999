/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package resterr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/credentio/verifier-gateway/internal/logfields"
)

var logger = log.New("rest-err")

func HTTPErrorHandler(err error, c echo.Context) {
	code, message := processError(err)

	logger.Error("http error", log.WithError(err),
		logfields.WithHTTPStatus(code), logfields.WithURL(c.Request().RequestURI))

	sendResponse(c, code, message)
}

func sendResponse(c echo.Context, code int, message interface{}) {
	var err error
	if !c.Response().Committed {
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, message)
		}
		if err != nil {
			logger.Error("write http response", log.WithError(err))
		}
	}
}

func processError(err error) (int, interface{}) {
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		message := echoErr.Message
		if echoErr.Internal != nil {
			message = err.Error()
		}

		if strMsg, ok := message.(string); ok {
			message = map[string]interface{}{
				"message": strMsg,
			}
		}

		return echoErr.Code, message
	}

	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.HTTPCodeMsg()
	}

	return http.StatusInternalServerError, map[string]interface{}{
		"errorType": "generic_error",
		"message":   err.Error(),
	}
}
