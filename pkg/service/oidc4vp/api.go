/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package oidc4vp

import (
	"context"
	"encoding/json"

	oid4vpdoc "github.com/credentio/verifier-gateway/pkg/doc/oidc4vp"
)

// Session field names. The session store is a typed key-value handle scoped
// to one browser session; these three fields are the whole schema the
// gateway reads and writes.
const (
	SessionFieldPresentationID          = "presentationId"
	SessionFieldNonce                   = "nonce"
	SessionFieldEphemeralECDHPrivateJWK = "ephemeralECDHPrivateJwk"
)

// InitiateTransactionRequest carries the per-request inputs of the init leg.
type InitiateTransactionRequest struct {
	SessionID string
	UserAgent string
}

// InteractionInfo is the outcome of a successful init: where to send the end
// user, and the backend-assigned transaction key.
type InteractionInfo struct {
	WalletRedirectURI string
	PresentationID    oid4vpdoc.PresentationID
}

// VerifyRequest hands the correlated transaction material to the delegated
// credential verifier. The ephemeral private key is read from the session
// exactly once for this purpose.
type VerifyRequest struct {
	PresentationID          oid4vpdoc.PresentationID
	Nonce                   oid4vpdoc.Nonce
	EphemeralECDHPrivateJWK oid4vpdoc.EphemeralECDHPrivateJWK
	AuthorizationResponse   oid4vpdoc.AuthorizationResponse
}

type ServiceInterface interface {
	InitiateTransaction(ctx context.Context, req *InitiateTransactionRequest) (*InteractionInfo, error)
	HandleWalletResponse(ctx context.Context, sessionID string,
		authResponse oid4vpdoc.AuthorizationResponse) (json.RawMessage, error)
	RetrieveClaims(ctx context.Context, presentationID oid4vpdoc.PresentationID,
		responseCode string) (json.RawMessage, error)
}
