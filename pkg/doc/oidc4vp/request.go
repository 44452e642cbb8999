/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package oidc4vp

import (
	"fmt"

	"github.com/hyperledger/aries-framework-go/pkg/doc/presexch"
)

// PresentationType defines which tokens the verifier requests from the wallet.
type PresentationType string

const (
	IDTokenType      PresentationType = "id_token"
	VPTokenType      PresentationType = "vp_token"
	IDAndVPTokenType PresentationType = "id_token vp_token"
)

// ResponseMode defines how the wallet delivers its authorization response.
type ResponseMode string

const (
	ResponseModeDirectPost    ResponseMode = "direct_post"
	ResponseModeDirectPostJWT ResponseMode = "direct_post.jwt"
)

// DeliveryMode defines whether the JAR or the presentation definition is
// embedded in the request or fetched by reference.
type DeliveryMode string

const (
	DeliveryByValue     DeliveryMode = "by_value"
	DeliveryByReference DeliveryMode = "by_reference"
)

// InitTransactionRequest is the payload posted to the backend verifier API
// to open a presentation transaction. The presentation definition itself is
// produced by a delegated generator and passes through unchanged.
type InitTransactionRequest struct {
	Type                              PresentationType                 `json:"type"`
	PresentationDefinition            *presexch.PresentationDefinition `json:"presentation_definition"`
	EphemeralECDHPublicJWK            *EphemeralECDHPublicJWK          `json:"ephemeral_ecdh_public_jwk,omitempty"`
	Nonce                             *Nonce                           `json:"nonce,omitempty"`
	ResponseMode                      ResponseMode                     `json:"response_mode,omitempty"`
	JarMode                           DeliveryMode                     `json:"jar_mode,omitempty"`
	PresentationDefinitionMode        DeliveryMode                     `json:"presentation_definition_mode,omitempty"`
	WalletResponseRedirectURITemplate string                           `json:"wallet_response_redirect_uri_template,omitempty"`
}

// InitTransactionResponse is the backend's reply. Exactly one of Request and
// RequestURI is populated when JAR delivery is in effect.
type InitTransactionResponse struct {
	PresentationID PresentationID `json:"presentation_id" validate:"required"`
	ClientID       string         `json:"client_id" validate:"required"`
	Request        string         `json:"request,omitempty"`
	RequestURI     string         `json:"request_uri,omitempty"`
}

// Validate enforces the one-of invariant on top of field presence.
func (r *InitTransactionResponse) Validate() error {
	if r.PresentationID.IsZero() {
		return fmt.Errorf("presentation_id is required")
	}

	if r.ClientID == "" {
		return fmt.Errorf("client_id is required")
	}

	if r.Request != "" && r.RequestURI != "" {
		return fmt.Errorf("request and request_uri are mutually exclusive")
	}

	return nil
}

// WalletRedirectParams is the projection of the response handed to the
// wallet. The presentation id is the verifier's internal correlation key and
// is deliberately absent.
type WalletRedirectParams struct {
	ClientID   string
	Request    string
	RequestURI string
}

// WalletRedirectParams derives the wallet-facing query parameter set.
func (r *InitTransactionResponse) WalletRedirectParams() WalletRedirectParams {
	return WalletRedirectParams{
		ClientID:   r.ClientID,
		Request:    r.Request,
		RequestURI: r.RequestURI,
	}
}
