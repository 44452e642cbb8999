/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package oidc4vp

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"fmt"

	"github.com/go-jose/go-jose/v3"
	"github.com/xeipuuv/gojsonschema"
)

const (
	privateJWKSchema = `{
		"type": "object",
		"required": ["kty", "crv", "x", "y", "d"],
		"properties": {
			"kty": {"type": "string", "minLength": 1},
			"crv": {"type": "string", "minLength": 1},
			"x":   {"type": "string", "minLength": 1},
			"y":   {"type": "string", "minLength": 1},
			"d":   {"type": "string", "minLength": 1}
		}
	}`

	publicJWKSchema = `{
		"type": "object",
		"required": ["kty", "crv", "x", "y"],
		"properties": {
			"kty": {"type": "string", "minLength": 1},
			"crv": {"type": "string", "minLength": 1},
			"x":   {"type": "string", "minLength": 1},
			"y":   {"type": "string", "minLength": 1}
		}
	}`
)

// EphemeralECDHPrivateJWK wraps the JSON encoding of the ephemeral ECDH
// private key. It is written to the session once at transaction init, read
// once at wallet-response time and must never appear in logs: String()
// deliberately reveals nothing.
type EphemeralECDHPrivateJWK struct {
	raw string
}

// EphemeralECDHPublicJWK wraps the JSON encoding of the ephemeral ECDH
// public key. It is sent once in the outbound init request and not retained.
type EphemeralECDHPublicJWK struct {
	raw string
}

// ParseEphemeralECDHPrivateJWK validates raw against the private JWK schema.
func ParseEphemeralECDHPrivateJWK(raw string) (EphemeralECDHPrivateJWK, error) {
	if err := validateJWK(raw, privateJWKSchema); err != nil {
		return EphemeralECDHPrivateJWK{}, fmt.Errorf("invalid ephemeral ECDH private JWK: %w", err)
	}

	return EphemeralECDHPrivateJWK{raw: raw}, nil
}

// ParseEphemeralECDHPublicJWK validates raw against the public JWK schema.
func ParseEphemeralECDHPublicJWK(raw string) (EphemeralECDHPublicJWK, error) {
	if err := validateJWK(raw, publicJWKSchema); err != nil {
		return EphemeralECDHPublicJWK{}, fmt.Errorf("invalid ephemeral ECDH public JWK: %w", err)
	}

	return EphemeralECDHPublicJWK{raw: raw}, nil
}

// GenerateEphemeralECDHKey creates a P-256 key pair for response encryption
// and returns both halves as validated JWK strings.
func GenerateEphemeralECDHKey() (EphemeralECDHPrivateJWK, EphemeralECDHPublicJWK, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return EphemeralECDHPrivateJWK{}, EphemeralECDHPublicJWK{}, err
	}

	privBytes, err := (&jose.JSONWebKey{Key: key, Use: "enc", Algorithm: string(jose.ECDH_ES)}).MarshalJSON()
	if err != nil {
		return EphemeralECDHPrivateJWK{}, EphemeralECDHPublicJWK{},
			fmt.Errorf("marshal ephemeral private jwk: %w", err)
	}

	pubBytes, err := (&jose.JSONWebKey{Key: key.Public(), Use: "enc", Algorithm: string(jose.ECDH_ES)}).MarshalJSON()
	if err != nil {
		return EphemeralECDHPrivateJWK{}, EphemeralECDHPublicJWK{},
			fmt.Errorf("marshal ephemeral public jwk: %w", err)
	}

	priv, err := ParseEphemeralECDHPrivateJWK(string(privBytes))
	if err != nil {
		return EphemeralECDHPrivateJWK{}, EphemeralECDHPublicJWK{}, err
	}

	pub, err := ParseEphemeralECDHPublicJWK(string(pubBytes))
	if err != nil {
		return EphemeralECDHPrivateJWK{}, EphemeralECDHPublicJWK{}, err
	}

	return priv, pub, nil
}

// Reveal returns the JWK JSON. Callers must not pass the result to a logger.
func (k EphemeralECDHPrivateJWK) Reveal() string {
	return k.raw
}

func (k EphemeralECDHPrivateJWK) IsZero() bool {
	return k.raw == ""
}

// String hides the key material from %v/%s formatting and log fields.
func (k EphemeralECDHPrivateJWK) String() string {
	return "[ephemeral ECDH private JWK]"
}

func (k EphemeralECDHPrivateJWK) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.raw)
}

func (k *EphemeralECDHPrivateJWK) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	parsed, err := ParseEphemeralECDHPrivateJWK(raw)
	if err != nil {
		return err
	}

	*k = parsed

	return nil
}

func (k EphemeralECDHPublicJWK) String() string {
	return k.raw
}

func (k EphemeralECDHPublicJWK) IsZero() bool {
	return k.raw == ""
}

func (k EphemeralECDHPublicJWK) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.raw)
}

func (k *EphemeralECDHPublicJWK) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	parsed, err := ParseEphemeralECDHPublicJWK(raw)
	if err != nil {
		return err
	}

	*k = parsed

	return nil
}

func validateJWK(raw, schema string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewStringLoader(raw))
	if err != nil {
		return fmt.Errorf("jwk is not a JSON object: %w", err)
	}

	if !result.Valid() {
		return fmt.Errorf("jwk schema validation failed: %v", result.Errors())
	}

	return nil
}
