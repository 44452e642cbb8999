/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifier

// InitiateInteractionResponse is the init endpoint's reply: where to send
// the end user, and the transaction key for later claim retrieval.
type InitiateInteractionResponse struct {
	WalletRedirectURI string `json:"walletRedirectUri"`
	PresentationID    string `json:"presentationId"`
}
