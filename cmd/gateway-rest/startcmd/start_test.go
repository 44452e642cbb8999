/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/credentio/verifier-gateway/cmd/common"
)

const testPresentationDefinition = `{
  "id": "mdl-presentation",
  "input_descriptors": [
    {
      "id": "mdl",
      "constraints": {
        "fields": [
          {
            "path": ["$.credentialSubject.family_name"]
          }
        ]
      }
    }
  ]
}`

type mockServer struct{}

func (s *mockServer) ListenAndServe(host string, router http.Handler) error {
	return nil
}

func TestStartCmdContents(t *testing.T) {
	startCmd := GetStartCmd(&mockServer{})

	require.Equal(t, "start", startCmd.Use)
	require.Equal(t, "Start gateway-rest", startCmd.Short)
	require.Equal(t, "Start the verifier gateway REST server", startCmd.Long)

	checkFlagPropertiesCorrect(t, startCmd, hostURLFlagName, hostURLFlagShorthand, hostURLFlagUsage)
}

func TestStartCmdWithMissingArg(t *testing.T) {
	startCmd := GetStartCmd(&mockServer{})

	err := startCmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "host-url")
}

func TestStartCmdWithBlankArg(t *testing.T) {
	t.Run("test blank host url arg", func(t *testing.T) {
		startCmd := GetStartCmd(&mockServer{})

		args := []string{"--" + hostURLFlagName, ""}
		startCmd.SetArgs(args)

		err := startCmd.Execute()
		require.Error(t, err)
		require.Contains(t, err.Error(), "host-url value is empty")
	})
}

func TestStartCmdValidArgs(t *testing.T) {
	redisSrv := miniredis.RunT(t)

	startCmd := GetStartCmd(&mockServer{})

	startCmd.SetArgs(requiredArgs(t, redisSrv.Addr()))

	require.NoError(t, startCmd.Execute())
}

func TestStartCmdWithMetricsHost(t *testing.T) {
	redisSrv := miniredis.RunT(t)

	startCmd := GetStartCmd(&mockServer{})

	args := append(requiredArgs(t, redisSrv.Addr()),
		"--"+metricsHostFlagName, "127.0.0.1:0",
		"--"+common.LogLevelFlagName, "debug",
	)
	startCmd.SetArgs(args)

	require.NoError(t, startCmd.Execute())
}

func TestStartCmdInvalidPresentationDefinition(t *testing.T) {
	redisSrv := miniredis.RunT(t)

	t.Run("missing file", func(t *testing.T) {
		startCmd := GetStartCmd(&mockServer{})

		args := requiredArgs(t, redisSrv.Addr())
		args[presentationDefinitionArgIndex(args)] = filepath.Join(t.TempDir(), "nope.json")
		startCmd.SetArgs(args)

		err := startCmd.Execute()
		require.Error(t, err)
		require.Contains(t, err.Error(), "load presentation definition")
	})

	t.Run("invalid json", func(t *testing.T) {
		startCmd := GetStartCmd(&mockServer{})

		args := requiredArgs(t, redisSrv.Addr())
		args[presentationDefinitionArgIndex(args)] = writeTempFile(t, "not json")
		startCmd.SetArgs(args)

		err := startCmd.Execute()
		require.Error(t, err)
		require.Contains(t, err.Error(), "unmarshal presentation definition")
	})
}

func TestStartCmdInvalidModes(t *testing.T) {
	redisSrv := miniredis.RunT(t)

	t.Run("unsupported response mode", func(t *testing.T) {
		startCmd := GetStartCmd(&mockServer{})

		args := append(requiredArgs(t, redisSrv.Addr()), "--"+responseModeFlagName, "fragment")
		startCmd.SetArgs(args)

		err := startCmd.Execute()
		require.Error(t, err)
		require.Contains(t, err.Error(), "unsupported response mode")
	})

	t.Run("unsupported jar mode", func(t *testing.T) {
		startCmd := GetStartCmd(&mockServer{})

		args := append(requiredArgs(t, redisSrv.Addr()), "--"+jarModeFlagName, "inline")
		startCmd.SetArgs(args)

		err := startCmd.Execute()
		require.Error(t, err)
		require.Contains(t, err.Error(), "unsupported delivery mode")
	})

	t.Run("unsupported presentation type", func(t *testing.T) {
		startCmd := GetStartCmd(&mockServer{})

		args := append(requiredArgs(t, redisSrv.Addr()), "--"+presentationTypeFlagName, "sd_jwt")
		startCmd.SetArgs(args)

		err := startCmd.Execute()
		require.Error(t, err)
		require.Contains(t, err.Error(), "unsupported presentation type")
	})
}

func TestStartCmdInvalidSessionTTL(t *testing.T) {
	redisSrv := miniredis.RunT(t)

	startCmd := GetStartCmd(&mockServer{})

	args := append(requiredArgs(t, redisSrv.Addr()), "--"+sessionTTLFlagName, "minus-ten")
	startCmd.SetArgs(args)

	err := startCmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid value")
}

func TestStartCmdInvalidAPITimeout(t *testing.T) {
	redisSrv := miniredis.RunT(t)

	startCmd := GetStartCmd(&mockServer{})

	args := append(requiredArgs(t, redisSrv.Addr()), "--"+apiTimeoutFlagName, "soon")
	startCmd.SetArgs(args)

	err := startCmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid value")
}

func TestStartCmdRedisUnavailable(t *testing.T) {
	startCmd := GetStartCmd(&mockServer{})

	startCmd.SetArgs(requiredArgs(t, "localhost:1"))

	err := startCmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "create redis client")
}

func requiredArgs(t *testing.T, redisAddr string) []string {
	t.Helper()

	return []string{
		"--" + hostURLFlagName, "localhost:8080",
		"--" + verifierAPIURLFlagName, "https://verifier-api.example.com",
		"--" + mdocVerifierURLFlagName, "https://mdoc-verifier.example.com",
		"--" + walletBaseURLFlagName, "https://wallet.example.com/auth",
		"--" + publicURLFlagName, "https://gateway.example.com",
		"--" + presentationDefinitionPathFlagName, writeTempFile(t, testPresentationDefinition),
		"--" + redisURLFlagName, redisAddr,
	}
}

// presentationDefinitionArgIndex finds the value slot of the presentation
// definition path inside an args slice built by requiredArgs.
func presentationDefinitionArgIndex(args []string) int {
	for i, arg := range args {
		if arg == "--"+presentationDefinitionPathFlagName {
			return i + 1
		}
	}

	return -1
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "presentation-definition.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func checkFlagPropertiesCorrect(t *testing.T, cmd *cobra.Command, flagName, flagShorthand, flagUsage string) {
	t.Helper()

	flag := cmd.Flag(flagName)

	require.NotNil(t, flag)
	require.Equal(t, flagName, flag.Name)
	require.Equal(t, flagShorthand, flag.Shorthand)
	require.Equal(t, flagUsage, flag.Usage)

	flagAnnotations := flag.Annotations
	require.Nil(t, flagAnnotations)
}
