/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package oidc4vp

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// AuthorizationResponse is the discriminated union over the two wallet
// response shapes. The only implementations are DirectPost and DirectPostJWT;
// consumers dispatch with an exhaustive type switch.
type AuthorizationResponse interface {
	isAuthorizationResponse()
}

// AuthorizationResponseData carries the plaintext fields of a direct_post
// response.
type AuthorizationResponseData struct {
	State                  string          `json:"state"`
	PresentationSubmission json.RawMessage `json:"presentation_submission,omitempty"`
	VPToken                string          `json:"vp_token,omitempty"`
	Error                  string          `json:"error,omitempty"`
	ErrorDescription       string          `json:"error_description,omitempty"`
}

// DirectPost is the plaintext direct_post variant.
type DirectPost struct {
	Response AuthorizationResponseData
}

func (DirectPost) isAuthorizationResponse() {}

// NewDirectPost wraps an already-validated payload. Constructors do not
// re-validate: ValidateDirectPost gates the wire boundary.
func NewDirectPost(response AuthorizationResponseData) *DirectPost {
	return &DirectPost{Response: response}
}

// DirectPostJWT is the direct_post.jwt variant: the response is a single
// signed and possibly encrypted JWT (JARM).
type DirectPostJWT struct {
	State string
	JARM  string
}

func (DirectPostJWT) isAuthorizationResponse() {}

func NewDirectPostJWT(state, jarm string) *DirectPostJWT {
	return &DirectPostJWT{State: state, JARM: jarm}
}

type directPostJWTJSON struct {
	State    string `json:"state"`
	Response string `json:"response"`
}

func (r *DirectPostJWT) MarshalJSON() ([]byte, error) {
	return json.Marshal(&directPostJWTJSON{State: r.State, Response: r.JARM})
}

// UnmarshalJSON is the exact inverse of MarshalJSON: the round trip is
// lossless for any (state, jarm) pair.
func (r *DirectPostJWT) UnmarshalJSON(b []byte) error {
	var data directPostJWTJSON

	if err := json.Unmarshal(b, &data); err != nil {
		return err
	}

	r.State = data.State
	r.JARM = data.Response

	return nil
}

// ValidateDirectPost gates an inbound direct_post payload.
func ValidateDirectPost(data *AuthorizationResponseData) error {
	if data.State == "" {
		return fmt.Errorf("state is required")
	}

	if len(data.PresentationSubmission) == 0 && data.Error == "" {
		return fmt.Errorf("presentation_submission is required")
	}

	return nil
}

// ValidateDirectPostJWT gates an inbound direct_post.jwt payload.
func ValidateDirectPostJWT(r *DirectPostJWT) error {
	if r.State == "" {
		return fmt.Errorf("state is required")
	}

	if r.JARM == "" {
		return fmt.Errorf("response is required")
	}

	return nil
}

// ParseAuthorizationResponse discriminates the wallet's POST by shape: a
// non-empty "response" field means direct_post.jwt, anything else is treated
// as plaintext direct_post fields.
func ParseAuthorizationResponse(form url.Values) (AuthorizationResponse, error) {
	if jarm := form.Get("response"); jarm != "" {
		resp := NewDirectPostJWT(form.Get("state"), jarm)

		if err := ValidateDirectPostJWT(resp); err != nil {
			return nil, fmt.Errorf("invalid direct_post.jwt response: %w", err)
		}

		return resp, nil
	}

	data := AuthorizationResponseData{
		State:            form.Get("state"),
		VPToken:          form.Get("vp_token"),
		Error:            form.Get("error"),
		ErrorDescription: form.Get("error_description"),
	}

	if submission := form.Get("presentation_submission"); submission != "" {
		data.PresentationSubmission = json.RawMessage(submission)
	}

	if err := ValidateDirectPost(&data); err != nil {
		return nil, fmt.Errorf("invalid direct_post response: %w", err)
	}

	return NewDirectPost(data), nil
}
