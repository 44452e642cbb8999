/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifierapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	oid4vpdoc "github.com/credentio/verifier-gateway/pkg/doc/oidc4vp"
)

const (
	presentationsPath  = "/ui/presentations"
	walletResponsePath = "/ui/presentations/%s/wallet-response"
)

// Client is the typed client for the backend verification API.
type Client struct {
	transport *Transport
	baseURL   string
}

type ClientConfig struct {
	Transport *Transport
	BaseURL   string
}

func NewClient(cfg *ClientConfig) *Client {
	return &Client{
		transport: cfg.Transport,
		baseURL:   cfg.BaseURL,
	}
}

// InitTransaction opens a presentation transaction on the backend.
func (c *Client) InitTransaction(ctx context.Context,
	req *oid4vpdoc.InitTransactionRequest) (*oid4vpdoc.InitTransactionResponse, error) {
	resp, err := Post[oid4vpdoc.InitTransactionResponse](ctx, c.transport, c.baseURL, presentationsPath, req)
	if err != nil {
		return nil, err
	}

	return &resp.Data, nil
}

// GetWalletResponse fetches the wallet's submitted response for a transaction.
// The payload is opaque at this layer and passes through unchanged.
func (c *Client) GetWalletResponse(ctx context.Context, presentationID oid4vpdoc.PresentationID,
	responseCode string) (json.RawMessage, error) {
	query := url.Values{}
	if responseCode != "" {
		query.Set("response_code", responseCode)
	}

	resp, err := Get[json.RawMessage](ctx, c.transport, c.baseURL,
		fmt.Sprintf(walletResponsePath, presentationID.String()), query)
	if err != nil {
		return nil, err
	}

	return resp.Data, nil
}
