/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package oidc4vp

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	oid4vpdoc "github.com/credentio/verifier-gateway/pkg/doc/oidc4vp"
	"github.com/credentio/verifier-gateway/pkg/restapi/resterr"
)

// WalletRedirectURI builds the URI that hands the end user off to the
// wallet. Any query already present on baseRedirectURI is overwritten, not
// merged; scheme, host, port, path and fragment are preserved. The key order
// is fixed: client_id first, then whichever of request/request_uri is set,
// so identical inputs always produce byte-identical output.
func WalletRedirectURI(baseRedirectURI string, params oid4vpdoc.WalletRedirectParams) (string, error) {
	if params.Request == "" && params.RequestURI == "" {
		return "", resterr.NewCustomError(resterr.MissingRequestParameter,
			errors.New("one of request or request_uri is required"))
	}

	if params.Request != "" && params.RequestURI != "" {
		return "", resterr.NewValidationError(resterr.InvalidValue, "request",
			errors.New("request and request_uri are mutually exclusive"))
	}

	base, err := url.Parse(baseRedirectURI)
	if err != nil {
		return "", resterr.NewCustomError(resterr.MalformedBaseURI,
			fmt.Errorf("parse base redirect uri: %w", err))
	}

	if base.Scheme == "" {
		return "", resterr.NewCustomError(resterr.MalformedBaseURI,
			fmt.Errorf("base redirect uri %q has no scheme", baseRedirectURI))
	}

	pairs := []string{encodeQueryParam("client_id", params.ClientID)}

	if params.Request != "" {
		pairs = append(pairs, encodeQueryParam("request", params.Request))
	} else {
		pairs = append(pairs, encodeQueryParam("request_uri", params.RequestURI))
	}

	base.RawQuery = strings.Join(pairs, "&")

	return base.String(), nil
}

func encodeQueryParam(key, value string) string {
	return url.QueryEscape(key) + "=" + url.QueryEscape(value)
}
