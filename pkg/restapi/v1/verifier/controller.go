/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination controller_mocks_test.go -self_package mocks -package verifier -source=controller.go -mock_names oidc4vpService=MockOIDC4VPService,metricsProvider=MockMetricsProvider

package verifier

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/credentio/verifier-gateway/internal/logfields"
	oid4vpdoc "github.com/credentio/verifier-gateway/pkg/doc/oidc4vp"
	noopMetricsProvider "github.com/credentio/verifier-gateway/pkg/observability/metrics/noop"
	"github.com/credentio/verifier-gateway/pkg/restapi/resterr"
	"github.com/credentio/verifier-gateway/pkg/restapi/v1/util"
	"github.com/credentio/verifier-gateway/pkg/service/oidc4vp"
)

var logger = log.New("oidc4vp-controller")

const (
	// SessionIDHeader carries the browser session identifier. The frontend
	// sets it on every call to the interaction endpoints.
	SessionIDHeader = "X-Session-Id"
	// SessionIDCookie is the fallback session identifier source.
	SessionIDCookie = "vp_session"
)

type oidc4vpService interface {
	InitiateTransaction(ctx context.Context,
		req *oidc4vp.InitiateTransactionRequest) (*oidc4vp.InteractionInfo, error)
	HandleWalletResponse(ctx context.Context, sessionID string,
		authResponse oid4vpdoc.AuthorizationResponse) (json.RawMessage, error)
	RetrieveClaims(ctx context.Context, presentationID oid4vpdoc.PresentationID,
		responseCode string) (json.RawMessage, error)
}

type metricsProvider interface {
	CheckAuthorizationResponseTime(value time.Duration)
}

type Config struct {
	OIDC4VPService oidc4vpService
	Metrics        metricsProvider
}

// Controller for the verifier interaction API.
type Controller struct {
	oidc4vpService oidc4vpService
	metrics        metricsProvider
}

// NewController creates a new controller for the verifier interaction API.
func NewController(config *Config) *Controller {
	metrics := config.Metrics

	if metrics == nil {
		metrics = &noopMetricsProvider.NoMetrics{}
	}

	return &Controller{
		oidc4vpService: config.OIDC4VPService,
		metrics:        metrics,
	}
}

// InitiateInteraction opens a presentation transaction and returns the
// wallet redirect URI.
// (POST /verifier/interactions).
func (c *Controller) InitiateInteraction(ctx echo.Context) error {
	logger.Debug("InitiateInteraction begin")

	sessionID, err := sessionIDFromRequest(ctx)
	if err != nil {
		return err
	}

	result, err := c.oidc4vpService.InitiateTransaction(ctx.Request().Context(),
		&oidc4vp.InitiateTransactionRequest{
			SessionID: sessionID,
			UserAgent: ctx.Request().UserAgent(),
		})
	if err != nil {
		return err
	}

	logger.Debug("InitiateInteraction succeed",
		logfields.WithPresentationID(result.PresentationID.String()))

	return util.WriteOutput(ctx)(&InitiateInteractionResponse{
		WalletRedirectURI: result.WalletRedirectURI,
		PresentationID:    result.PresentationID.String(),
	}, nil)
}

// CheckAuthorizationResponse accepts the wallet's authorization response,
// either plaintext direct_post form fields or a JARM JWT under "response".
// (POST /verifier/interactions/response).
func (c *Controller) CheckAuthorizationResponse(ctx echo.Context) error {
	logger.Debug("CheckAuthorizationResponse begin")
	startTime := time.Now()

	defer func() {
		c.metrics.CheckAuthorizationResponseTime(time.Since(startTime))
		logger.Debug("CheckAuthorizationResponse end", log.WithDuration(time.Since(startTime)))
	}()

	sessionID, err := sessionIDFromRequest(ctx)
	if err != nil {
		return err
	}

	req := ctx.Request()

	if err = req.ParseForm(); err != nil {
		return resterr.NewValidationError(resterr.BadRequest, "requestBody", err)
	}

	authResponse, err := oid4vpdoc.ParseAuthorizationResponse(req.PostForm)
	if err != nil {
		return resterr.NewValidationError(resterr.InvalidValue, "authorizationResponse", err)
	}

	result, err := c.oidc4vpService.HandleWalletResponse(req.Context(), sessionID, authResponse)
	if err != nil {
		return err
	}

	logger.Debug("CheckAuthorizationResponse succeed")

	return util.WriteRawOutputWithContentType(ctx)(result, echo.MIMEApplicationJSON, nil)
}

// RetrieveInteractionsClaim returns the verified wallet response held by the
// backend for a finished transaction.
// (GET /verifier/interactions/{presentationID}/claim).
func (c *Controller) RetrieveInteractionsClaim(ctx echo.Context, presentationID string) error {
	logger.Debug("RetrieveInteractionsClaim begin")

	id, err := oid4vpdoc.ParsePresentationID(presentationID)
	if err != nil {
		return resterr.NewValidationError(resterr.InvalidValue, "presentationID", err)
	}

	claims, err := c.oidc4vpService.RetrieveClaims(ctx.Request().Context(), id,
		ctx.QueryParam("response_code"))
	if err != nil {
		return err
	}

	logger.Debug("RetrieveInteractionsClaim succeed")

	return util.WriteRawOutputWithContentType(ctx)(claims, echo.MIMEApplicationJSON, nil)
}

func sessionIDFromRequest(ctx echo.Context) (string, error) {
	if id := ctx.Request().Header.Get(SessionIDHeader); id != "" {
		return id, nil
	}

	if cookie, err := ctx.Cookie(SessionIDCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	return "", resterr.NewValidationError(resterr.BadRequest, SessionIDHeader,
		errors.New("session id is required"))
}
