/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mdocverifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/credentio/verifier-gateway/pkg/client/verifierapi"
	oid4vpdoc "github.com/credentio/verifier-gateway/pkg/doc/oidc4vp"
	"github.com/credentio/verifier-gateway/pkg/service/oidc4vp"
)

const verifyPath = "/mdoc/verify"

// Client delegates the cryptographic verification of a wallet response to
// the external mdoc verifier service. The verifier's result shape is opaque
// here and passes through unchanged.
type Client struct {
	transport *verifierapi.Transport
	baseURL   string
}

type ClientConfig struct {
	Transport *verifierapi.Transport
	BaseURL   string
}

func NewClient(cfg *ClientConfig) *Client {
	return &Client{
		transport: cfg.Transport,
		baseURL:   cfg.BaseURL,
	}
}

type verifyPayload struct {
	PresentationID          string          `json:"presentation_id"`
	Nonce                   string          `json:"nonce,omitempty"`
	ResponseMode            string          `json:"response_mode"`
	EphemeralECDHPrivateJWK json.RawMessage `json:"ephemeral_ecdh_private_jwk"`
	Response                json.RawMessage `json:"response"`
}

// Verify posts the correlated transaction material to the verifier service.
func (c *Client) Verify(ctx context.Context, req *oidc4vp.VerifyRequest) (json.RawMessage, error) {
	payload := &verifyPayload{
		PresentationID:          req.PresentationID.String(),
		Nonce:                   req.Nonce.String(),
		EphemeralECDHPrivateJWK: json.RawMessage(req.EphemeralECDHPrivateJWK.Reveal()),
	}

	switch resp := req.AuthorizationResponse.(type) {
	case *oid4vpdoc.DirectPost:
		data, err := json.Marshal(&resp.Response)
		if err != nil {
			return nil, fmt.Errorf("marshal direct_post response: %w", err)
		}

		payload.ResponseMode = string(oid4vpdoc.ResponseModeDirectPost)
		payload.Response = data
	case *oid4vpdoc.DirectPostJWT:
		data, err := json.Marshal(resp)
		if err != nil {
			return nil, fmt.Errorf("marshal direct_post.jwt response: %w", err)
		}

		payload.ResponseMode = string(oid4vpdoc.ResponseModeDirectPostJWT)
		payload.Response = data
	default:
		return nil, fmt.Errorf("unsupported authorization response type %T", req.AuthorizationResponse)
	}

	resp, err := verifierapi.Post[json.RawMessage](ctx, c.transport, c.baseURL, verifyPath, payload)
	if err != nil {
		return nil, err
	}

	return resp.Data, nil
}
