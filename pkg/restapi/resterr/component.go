/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package resterr

type Component string

const (
	VerifierOIDC4vpSvcComponent    Component = "verifier.oidc4vp-service"
	VerifierAPIClientComponent     Component = "verifier.api-client"
	VerifierControllerComponent    Component = "verifier.controller"
	SessionStoreComponent          Component = "session-store"
	WalletRedirectBuilderComponent Component = "wallet-redirect-builder"
)
