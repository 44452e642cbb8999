/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination oidc4vp_service_mocks_test.go -self_package mocks -package oidc4vp_test -source=oidc4vp_service.go -mock_names presentationDefinitionSource=MockPresentationDefinitionSource,verifierClient=MockVerifierClient,sessionStore=MockSessionStore,credentialVerifier=MockCredentialVerifier,eventService=MockEventService,metricsProvider=MockMetricsProvider

package oidc4vp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/hyperledger/aries-framework-go/pkg/doc/presexch"
	"github.com/mssola/useragent"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/credentio/verifier-gateway/internal/logfields"
	oid4vpdoc "github.com/credentio/verifier-gateway/pkg/doc/oidc4vp"
	"github.com/credentio/verifier-gateway/pkg/event/spi"
	noopMetricsProvider "github.com/credentio/verifier-gateway/pkg/observability/metrics/noop"
	"github.com/credentio/verifier-gateway/pkg/restapi/resterr"
)

var logger = log.New("oidc4vp-service")

const eventSource = "source://gateway/verifier"

type presentationDefinitionSource interface {
	PresentationDefinition() (*presexch.PresentationDefinition, error)
}

type verifierClient interface {
	InitTransaction(ctx context.Context,
		req *oid4vpdoc.InitTransactionRequest) (*oid4vpdoc.InitTransactionResponse, error)
	GetWalletResponse(ctx context.Context, presentationID oid4vpdoc.PresentationID,
		responseCode string) (json.RawMessage, error)
}

type sessionStore interface {
	Get(ctx context.Context, sessionID, field string) (string, error)
	Put(ctx context.Context, sessionID, field, value string) error
}

type credentialVerifier interface {
	Verify(ctx context.Context, req *VerifyRequest) (json.RawMessage, error)
}

type eventService interface {
	Publish(ctx context.Context, topic string, messages ...*spi.Event) error
}

type metricsProvider interface {
	InitiateTransactionTime(value time.Duration)
}

type Config struct {
	PresentationDefinitionSource presentationDefinitionSource
	VerifierClient               verifierClient
	SessionStore                 sessionStore
	CredentialVerifier           credentialVerifier
	EventSvc                     eventService
	EventTopic                   string
	Metrics                      metricsProvider

	PresentationType           oid4vpdoc.PresentationType
	ResponseMode               oid4vpdoc.ResponseMode
	JarMode                    oid4vpdoc.DeliveryMode
	PresentationDefinitionMode oid4vpdoc.DeliveryMode

	// WalletBaseURL is the wallet authorization endpoint the end user is
	// redirected to.
	WalletBaseURL string
	// PublicURL is the externally reachable base URL of this gateway, used
	// to derive the mobile wallet-response return template.
	PublicURL                           string
	WalletResponseRedirectPath          string
	WalletResponseRedirectQueryTemplate string
}

// Service drives the presentation transaction lifecycle: it opens the
// transaction on the backend verifier API, binds the per-transaction secrets
// to the user session and, on the return leg, correlates the wallet's
// response back to that session.
type Service struct {
	presentationDefinitionSource presentationDefinitionSource
	verifierClient               verifierClient
	sessionStore                 sessionStore
	credentialVerifier           credentialVerifier
	eventSvc                     eventService
	eventTopic                   string

	presentationType           oid4vpdoc.PresentationType
	responseMode               oid4vpdoc.ResponseMode
	jarMode                    oid4vpdoc.DeliveryMode
	presentationDefinitionMode oid4vpdoc.DeliveryMode

	walletBaseURL                       string
	publicURL                           string
	walletResponseRedirectPath          string
	walletResponseRedirectQueryTemplate string

	metrics metricsProvider
}

func NewService(cfg *Config) *Service {
	metrics := cfg.Metrics

	if metrics == nil {
		metrics = &noopMetricsProvider.NoMetrics{}
	}

	return &Service{
		presentationDefinitionSource:        cfg.PresentationDefinitionSource,
		verifierClient:                      cfg.VerifierClient,
		sessionStore:                        cfg.SessionStore,
		credentialVerifier:                  cfg.CredentialVerifier,
		eventSvc:                            cfg.EventSvc,
		eventTopic:                          cfg.EventTopic,
		presentationType:                    cfg.PresentationType,
		responseMode:                        cfg.ResponseMode,
		jarMode:                             cfg.JarMode,
		presentationDefinitionMode:          cfg.PresentationDefinitionMode,
		walletBaseURL:                       cfg.WalletBaseURL,
		publicURL:                           cfg.PublicURL,
		walletResponseRedirectPath:          cfg.WalletResponseRedirectPath,
		walletResponseRedirectQueryTemplate: cfg.WalletResponseRedirectQueryTemplate,
		metrics:                             metrics,
	}
}

// InitiateTransaction opens a presentation transaction. Steps run strictly
// in order: precondition checks, nonce and key generation, the backend init
// call, session binding, redirect construction. There is no rollback; a
// session-binding failure leaves the backend transaction to expire on its
// own.
func (s *Service) InitiateTransaction(
	ctx context.Context, req *InitiateTransactionRequest) (*InteractionInfo, error) {
	logger.Debugc(ctx, "InitiateTransaction begin", logfields.WithSessionID(req.SessionID))

	startTime := time.Now()

	defer func() {
		s.metrics.InitiateTransactionTime(time.Since(startTime))
	}()

	if strings.TrimSpace(req.UserAgent) == "" {
		return nil, resterr.NewCustomError(resterr.MissingUserAgent,
			errors.New("user-agent header is required"))
	}

	isMobile := useragent.New(req.UserAgent).Mobile()

	redirectTemplate, err := s.walletResponseRedirectTemplate()
	if err != nil {
		return nil, err
	}

	if !isMobile {
		// cross-device flows return through the backend, not a deep link
		redirectTemplate = ""
	}

	nonce, err := oid4vpdoc.GenerateNonce()
	if err != nil {
		return nil, resterr.NewSystemError(resterr.VerifierOIDC4vpSvcComponent, "generate-nonce", err)
	}

	privateJWK, publicJWK, err := oid4vpdoc.GenerateEphemeralECDHKey()
	if err != nil {
		return nil, resterr.NewSystemError(resterr.VerifierOIDC4vpSvcComponent, "generate-ephemeral-key", err)
	}

	pd, err := s.presentationDefinitionSource.PresentationDefinition()
	if err != nil {
		return nil, resterr.NewSystemError(resterr.VerifierOIDC4vpSvcComponent,
			"get-presentation-definition", err)
	}

	logger.Debugc(ctx, "InitiateTransaction request built", logfields.WithIsMobile(isMobile),
		logfields.WithResponseMode(string(s.responseMode)), logfields.WithJarMode(string(s.jarMode)))

	resp, err := s.verifierClient.InitTransaction(ctx, &oid4vpdoc.InitTransactionRequest{
		Type:                              s.presentationType,
		PresentationDefinition:            pd,
		EphemeralECDHPublicJWK:            &publicJWK,
		Nonce:                             &nonce,
		ResponseMode:                      s.responseMode,
		JarMode:                           s.jarMode,
		PresentationDefinitionMode:        s.presentationDefinitionMode,
		WalletResponseRedirectURITemplate: redirectTemplate,
	})
	if err != nil {
		e := resterr.NewCustomError(resterr.APIRequestFailed, fmt.Errorf("init transaction: %w", err))

		s.sendFailedEvent(ctx, "", e)

		return nil, e
	}

	logger.Debugc(ctx, "InitiateTransaction tx created",
		logfields.WithPresentationID(resp.PresentationID.String()))

	if errSendEvent := s.sendEvent(ctx, resp.PresentationID.String(),
		spi.VerifierOIDCInteractionInitiated); errSendEvent != nil {
		return nil, errSendEvent
	}

	bindings := []struct {
		field string
		value string
	}{
		{SessionFieldPresentationID, resp.PresentationID.String()},
		{SessionFieldNonce, nonce.String()},
		{SessionFieldEphemeralECDHPrivateJWK, privateJWK.Reveal()},
	}

	for _, binding := range bindings {
		if err = s.sessionStore.Put(ctx, req.SessionID, binding.field, binding.value); err != nil {
			e := resterr.NewCustomError(resterr.SessionError,
				fmt.Errorf("bind %s to session: %w", binding.field, err))

			s.sendFailedEvent(ctx, resp.PresentationID.String(), e)

			return nil, e
		}
	}

	logger.Debugc(ctx, "InitiateTransaction session bound")

	redirectURI, err := WalletRedirectURI(s.walletBaseURL, resp.WalletRedirectParams())
	if err != nil {
		s.sendFailedEvent(ctx, resp.PresentationID.String(), err)

		return nil, err
	}

	logger.Debugc(ctx, "InitiateTransaction succeed",
		logfields.WithPresentationID(resp.PresentationID.String()))

	return &InteractionInfo{
		WalletRedirectURI: redirectURI,
		PresentationID:    resp.PresentationID,
	}, nil
}

// HandleWalletResponse correlates the wallet's authorization response back
// to the stored session and hands the material to the delegated credential
// verifier. Correlation and shape discrimination happen here; cryptographic
// verification does not.
func (s *Service) HandleWalletResponse(ctx context.Context, sessionID string,
	authResponse oid4vpdoc.AuthorizationResponse) (json.RawMessage, error) {
	logger.Debugc(ctx, "HandleWalletResponse begin", logfields.WithSessionID(sessionID))

	presentationID, nonce, privateJWK, err := s.readSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var state string

	switch resp := authResponse.(type) {
	case *oid4vpdoc.DirectPost:
		state = resp.Response.State
	case *oid4vpdoc.DirectPostJWT:
		state = resp.State
	default:
		return nil, resterr.NewSystemError(resterr.VerifierOIDC4vpSvcComponent, "handle-wallet-response",
			fmt.Errorf("unsupported authorization response type %T", authResponse))
	}

	if state != presentationID.String() {
		e := resterr.NewValidationError(resterr.InvalidValue, "state",
			errors.New("state does not match the session transaction"))

		s.sendFailedEvent(ctx, presentationID.String(), e)

		return nil, e
	}

	logger.Debugc(ctx, "HandleWalletResponse correlated",
		logfields.WithPresentationID(presentationID.String()))

	result, err := s.credentialVerifier.Verify(ctx, &VerifyRequest{
		PresentationID:          presentationID,
		Nonce:                   nonce,
		EphemeralECDHPrivateJWK: privateJWK,
		AuthorizationResponse:   authResponse,
	})
	if err != nil {
		e := resterr.NewSystemError(resterr.VerifierOIDC4vpSvcComponent, "verify-wallet-response", err)

		s.sendFailedEvent(ctx, presentationID.String(), e)

		return nil, e
	}

	if errSendEvent := s.sendEvent(ctx, presentationID.String(),
		spi.VerifierOIDCInteractionSucceeded); errSendEvent != nil {
		return nil, errSendEvent
	}

	logger.Debugc(ctx, "HandleWalletResponse succeed")

	return result, nil
}

// RetrieveClaims fetches the verified wallet response held by the backend
// for a finished transaction. The payload passes through unchanged.
func (s *Service) RetrieveClaims(ctx context.Context, presentationID oid4vpdoc.PresentationID,
	responseCode string) (json.RawMessage, error) {
	logger.Debugc(ctx, "RetrieveClaims begin", logfields.WithPresentationID(presentationID.String()))

	claims, err := s.verifierClient.GetWalletResponse(ctx, presentationID, responseCode)
	if err != nil {
		return nil, resterr.NewCustomError(resterr.APIRequestFailed,
			fmt.Errorf("get wallet response: %w", err))
	}

	logger.Debugc(ctx, "RetrieveClaims succeed")

	return claims, nil
}

func (s *Service) readSession(ctx context.Context,
	sessionID string) (oid4vpdoc.PresentationID, oid4vpdoc.Nonce, oid4vpdoc.EphemeralECDHPrivateJWK, error) {
	var (
		presentationID oid4vpdoc.PresentationID
		nonce          oid4vpdoc.Nonce
		privateJWK     oid4vpdoc.EphemeralECDHPrivateJWK
	)

	rawID, err := s.sessionStore.Get(ctx, sessionID, SessionFieldPresentationID)
	if err != nil {
		if errors.Is(err, resterr.ErrDataNotFound) {
			return presentationID, nonce, privateJWK, resterr.NewCustomError(resterr.DoesntExist,
				fmt.Errorf("no active transaction for session: %w", err))
		}

		return presentationID, nonce, privateJWK, resterr.NewCustomError(resterr.SessionError,
			fmt.Errorf("read presentation id: %w", err))
	}

	presentationID, err = oid4vpdoc.ParsePresentationID(rawID)
	if err != nil {
		return presentationID, nonce, privateJWK, resterr.NewCustomError(resterr.SessionError,
			fmt.Errorf("stored presentation id is invalid: %w", err))
	}

	rawNonce, err := s.sessionStore.Get(ctx, sessionID, SessionFieldNonce)
	if err != nil && !errors.Is(err, resterr.ErrDataNotFound) {
		return presentationID, nonce, privateJWK, resterr.NewCustomError(resterr.SessionError,
			fmt.Errorf("read nonce: %w", err))
	}

	// nonce is optional in the session schema
	if rawNonce != "" {
		nonce, err = oid4vpdoc.ParseNonce(rawNonce)
		if err != nil {
			return presentationID, nonce, privateJWK, resterr.NewCustomError(resterr.SessionError,
				fmt.Errorf("stored nonce is invalid: %w", err))
		}
	}

	rawJWK, err := s.sessionStore.Get(ctx, sessionID, SessionFieldEphemeralECDHPrivateJWK)
	if err != nil {
		return presentationID, nonce, privateJWK, resterr.NewCustomError(resterr.SessionError,
			fmt.Errorf("read ephemeral private jwk: %w", err))
	}

	privateJWK, err = oid4vpdoc.ParseEphemeralECDHPrivateJWK(rawJWK)
	if err != nil {
		return presentationID, nonce, privateJWK, resterr.NewCustomError(resterr.SessionError,
			fmt.Errorf("stored ephemeral private jwk is invalid: %w", err))
	}

	return presentationID, nonce, privateJWK, nil
}

// walletResponseRedirectTemplate derives the deep-link return template for
// mobile flows. All three URL-shaped parameters are validated before any
// network call is made.
func (s *Service) walletResponseRedirectTemplate() (string, error) {
	base, err := url.Parse(s.publicURL)
	if err != nil || !base.IsAbs() || base.Host == "" {
		return "", resterr.NewValidationError(resterr.InvalidResponse, "publicURL",
			fmt.Errorf("public URL %q is not a valid absolute URL", s.publicURL))
	}

	if !strings.HasPrefix(s.walletResponseRedirectPath, "/") {
		return "", resterr.NewValidationError(resterr.InvalidResponse, "walletResponseRedirectPath",
			fmt.Errorf("redirect path %q must start with /", s.walletResponseRedirectPath))
	}

	if s.walletResponseRedirectQueryTemplate == "" {
		return "", resterr.NewValidationError(resterr.InvalidResponse, "walletResponseRedirectQueryTemplate",
			errors.New("redirect query template is required"))
	}

	base.Path = strings.TrimSuffix(base.Path, "/") + s.walletResponseRedirectPath

	return base.String() + "?" + s.walletResponseRedirectQueryTemplate, nil
}
