/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hyperledger/aries-framework-go/pkg/doc/presexch"
)

// filePresentationDefinitionSource serves one presentation definition loaded
// from a JSON file at startup. Every transaction requests the same
// definition until the process is restarted.
type filePresentationDefinitionSource struct {
	pd *presexch.PresentationDefinition
}

func newFilePresentationDefinitionSource(path string) (*filePresentationDefinitionSource, error) {
	b, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read presentation definition file: %w", err)
	}

	var pd presexch.PresentationDefinition

	if err = json.Unmarshal(b, &pd); err != nil {
		return nil, fmt.Errorf("unmarshal presentation definition: %w", err)
	}

	if err = pd.ValidateSchema(); err != nil {
		return nil, fmt.Errorf("validate presentation definition: %w", err)
	}

	return &filePresentationDefinitionSource{pd: &pd}, nil
}

func (s *filePresentationDefinitionSource) PresentationDefinition() (*presexch.PresentationDefinition, error) {
	return s.pd, nil
}
