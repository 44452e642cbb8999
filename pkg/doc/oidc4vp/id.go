/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package oidc4vp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Nonce is the per-transaction replay-protection value. It can only be
// obtained through GenerateNonce or ParseNonce, so a held Nonce is always
// well-formed.
type Nonce struct {
	value string
}

// GenerateNonce produces a new nonce with UUID-grade entropy. A failure of
// the underlying randomness source propagates unmodified.
func GenerateNonce() (Nonce, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return Nonce{}, err
	}

	return ParseNonce(id.String())
}

// ParseNonce validates raw and wraps it. The check is defensive: generation
// never produces an invalid value at runtime.
func ParseNonce(raw string) (Nonce, error) {
	if strings.TrimSpace(raw) == "" {
		return Nonce{}, fmt.Errorf("nonce must be a non-empty string")
	}

	return Nonce{value: raw}, nil
}

func (n Nonce) String() string {
	return n.value
}

func (n Nonce) IsZero() bool {
	return n.value == ""
}

func (n Nonce) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.value)
}

func (n *Nonce) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	parsed, err := ParseNonce(raw)
	if err != nil {
		return err
	}

	*n = parsed

	return nil
}

// PresentationID identifies one presentation transaction. It is assigned by
// the backend verifier API at transaction-init time and is the primary key
// for session correlation.
type PresentationID struct {
	value string
}

// ParsePresentationID validates raw and wraps it.
func ParsePresentationID(raw string) (PresentationID, error) {
	if strings.TrimSpace(raw) == "" {
		return PresentationID{}, fmt.Errorf("presentation id must be a non-empty string")
	}

	return PresentationID{value: raw}, nil
}

func (id PresentationID) String() string {
	return id.value
}

func (id PresentationID) IsZero() bool {
	return id.value == ""
}

func (id PresentationID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.value)
}

func (id *PresentationID) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	parsed, err := ParsePresentationID(raw)
	if err != nil {
		return err
	}

	*id = parsed

	return nil
}
