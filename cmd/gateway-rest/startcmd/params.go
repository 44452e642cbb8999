/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	cmdutils "github.com/trustbloc/cmdutil-go/pkg/utils/cmd"

	"github.com/credentio/verifier-gateway/cmd/common"
	"github.com/credentio/verifier-gateway/pkg/doc/oidc4vp"
)

const (
	commonEnvVarUsageText = "Alternatively, this can be set with the following environment variable: "

	hostURLFlagName      = "host-url"
	hostURLFlagShorthand = "u"
	hostURLFlagUsage     = "URL to run the gateway-rest instance on. Format: HostName:Port."
	hostURLEnvKey        = "GATEWAY_HOST_URL"

	verifierAPIURLFlagName  = "verifier-api-url"
	verifierAPIURLEnvKey    = "GATEWAY_VERIFIER_API_URL"
	verifierAPIURLFlagUsage = "Base URL of the backend verifier API. Format: http://<HOST>:<PORT> ." +
		" " + commonEnvVarUsageText + verifierAPIURLEnvKey

	mdocVerifierURLFlagName  = "mdoc-verifier-url"
	mdocVerifierURLEnvKey    = "GATEWAY_MDOC_VERIFIER_URL"
	mdocVerifierURLFlagUsage = "Base URL of the mdoc verification service. Format: http://<HOST>:<PORT> ." +
		" " + commonEnvVarUsageText + mdocVerifierURLEnvKey

	walletBaseURLFlagName  = "wallet-base-url"
	walletBaseURLEnvKey    = "GATEWAY_WALLET_BASE_URL"
	walletBaseURLFlagUsage = "Base redirect URI of the wallet authorization endpoint. May use a custom scheme, " +
		"e.g. openid-vc://. " + commonEnvVarUsageText + walletBaseURLEnvKey

	publicURLFlagName  = "public-url"
	publicURLEnvKey    = "GATEWAY_PUBLIC_URL"
	publicURLFlagUsage = "This is the URL for the gateway as seen externally. Format: http://<HOST>:<PORT> ." +
		" " + commonEnvVarUsageText + publicURLEnvKey

	walletRedirectPathFlagName  = "wallet-redirect-path"
	walletRedirectPathEnvKey    = "GATEWAY_WALLET_REDIRECT_PATH"
	walletRedirectPathFlagUsage = "Path appended to the public URL that mobile wallets redirect back to " +
		"(default: /wallet-redirect). " + commonEnvVarUsageText + walletRedirectPathEnvKey

	walletRedirectQueryTemplateFlagName  = "wallet-redirect-query-template"
	walletRedirectQueryTemplateEnvKey    = "GATEWAY_WALLET_REDIRECT_QUERY_TEMPLATE"
	walletRedirectQueryTemplateFlagUsage = "Query template the wallet expands on redirect " +
		"(default: response_code={RESPONSE_CODE}). " + commonEnvVarUsageText + walletRedirectQueryTemplateEnvKey

	presentationTypeFlagName  = "presentation-type"
	presentationTypeEnvKey    = "GATEWAY_PRESENTATION_TYPE"
	presentationTypeFlagUsage = "Presentation type requested from the wallet (default: vp_token). " +
		commonEnvVarUsageText + presentationTypeEnvKey

	responseModeFlagName  = "response-mode"
	responseModeEnvKey    = "GATEWAY_RESPONSE_MODE"
	responseModeFlagUsage = "Authorization response mode requested from the wallet. " +
		"Supported options: direct_post, direct_post.jwt (default: direct_post.jwt). " +
		commonEnvVarUsageText + responseModeEnvKey

	jarModeFlagName  = "jar-mode"
	jarModeEnvKey    = "GATEWAY_JAR_MODE"
	jarModeFlagUsage = "How the authorization request object is passed to the wallet. " +
		"Supported options: by_value, by_reference (default: by_reference). " +
		commonEnvVarUsageText + jarModeEnvKey

	presentationDefinitionModeFlagName  = "presentation-definition-mode"
	presentationDefinitionModeEnvKey    = "GATEWAY_PRESENTATION_DEFINITION_MODE"
	presentationDefinitionModeFlagUsage = "How the presentation definition is passed to the wallet. " +
		"Supported options: by_value, by_reference (default: by_value). " +
		commonEnvVarUsageText + presentationDefinitionModeEnvKey

	presentationDefinitionPathFlagName  = "presentation-definition-path"
	presentationDefinitionPathEnvKey    = "GATEWAY_PRESENTATION_DEFINITION_PATH"
	presentationDefinitionPathFlagUsage = "Path to a JSON file with the presentation definition requested " +
		"from the wallet. " + commonEnvVarUsageText + presentationDefinitionPathEnvKey

	apiTimeoutFlagName  = "api-timeout"
	apiTimeoutEnvKey    = "GATEWAY_API_TIMEOUT"
	apiTimeoutFlagUsage = "Per-request timeout for backend API calls, e.g. 30s (default: 30s). " +
		commonEnvVarUsageText + apiTimeoutEnvKey

	redisURLFlagName  = "redis-url"
	redisURLEnvKey    = "GATEWAY_REDIS_URL"
	redisURLFlagUsage = "Comma-separated list of Redis addresses. Format: HostName:Port. " +
		commonEnvVarUsageText + redisURLEnvKey

	redisPasswordFlagName  = "redis-password" //nolint: gosec
	redisPasswordEnvKey    = "GATEWAY_REDIS_PASSWORD"
	redisPasswordFlagUsage = "Redis password. " + commonEnvVarUsageText + redisPasswordEnvKey

	redisMasterNameFlagName  = "redis-master-name"
	redisMasterNameEnvKey    = "GATEWAY_REDIS_MASTER_NAME"
	redisMasterNameFlagUsage = "Redis sentinel master name. " + commonEnvVarUsageText + redisMasterNameEnvKey

	sessionTTLFlagName  = "session-ttl-sec"
	sessionTTLEnvKey    = "GATEWAY_SESSION_TTL_SEC"
	sessionTTLFlagUsage = "TTL in seconds for per-session transaction state (default: 600). " +
		commonEnvVarUsageText + sessionTTLEnvKey

	tokenFlagName  = "api-token"
	tokenEnvKey    = "GATEWAY_API_TOKEN" //nolint: gosec
	tokenFlagUsage = "Check for an API key in the X-API-Key header (optional). " +
		commonEnvVarUsageText + tokenEnvKey

	metricsHostFlagName  = "metrics-host"
	metricsHostEnvKey    = "GATEWAY_METRICS_HOST"
	metricsHostFlagUsage = "Host to serve Prometheus metrics on. Metrics are disabled if not set. " +
		commonEnvVarUsageText + metricsHostEnvKey
)

const (
	defaultAPITimeout = 30 * time.Second
	defaultSessionTTL = 600
)

type startupParameters struct {
	hostURL                     string
	verifierAPIURL              string
	mdocVerifierURL             string
	walletBaseURL               string
	publicURL                   string
	walletRedirectPath          string
	walletRedirectQueryTemplate string
	presentationType            oidc4vp.PresentationType
	responseMode                oidc4vp.ResponseMode
	jarMode                     oidc4vp.DeliveryMode
	presentationDefinitionMode  oidc4vp.DeliveryMode
	presentationDefinitionPath  string
	apiTimeout                  time.Duration
	redisParameters             *redisParameters
	sessionTTL                  time.Duration
	token                       string
	metricsHost                 string
	logLevel                    string
}

type redisParameters struct {
	addrs      []string
	password   string
	masterName string
}

// nolint: gocyclo,funlen
func getStartupParameters(cmd *cobra.Command) (*startupParameters, error) {
	hostURL, err := cmdutils.GetUserSetVarFromString(cmd, hostURLFlagName, hostURLEnvKey, false)
	if err != nil {
		return nil, err
	}

	verifierAPIURL, err := cmdutils.GetUserSetVarFromString(cmd, verifierAPIURLFlagName, verifierAPIURLEnvKey, false)
	if err != nil {
		return nil, err
	}

	mdocVerifierURL, err := cmdutils.GetUserSetVarFromString(cmd, mdocVerifierURLFlagName, mdocVerifierURLEnvKey, false)
	if err != nil {
		return nil, err
	}

	walletBaseURL, err := cmdutils.GetUserSetVarFromString(cmd, walletBaseURLFlagName, walletBaseURLEnvKey, false)
	if err != nil {
		return nil, err
	}

	publicURL, err := cmdutils.GetUserSetVarFromString(cmd, publicURLFlagName, publicURLEnvKey, false)
	if err != nil {
		return nil, err
	}

	walletRedirectPath := cmdutils.GetUserSetOptionalVarFromString(cmd, walletRedirectPathFlagName,
		walletRedirectPathEnvKey)
	if walletRedirectPath == "" {
		walletRedirectPath = "/wallet-redirect"
	}

	walletRedirectQueryTemplate := cmdutils.GetUserSetOptionalVarFromString(cmd, walletRedirectQueryTemplateFlagName,
		walletRedirectQueryTemplateEnvKey)
	if walletRedirectQueryTemplate == "" {
		walletRedirectQueryTemplate = "response_code={RESPONSE_CODE}"
	}

	presentationType, err := getPresentationType(cmd)
	if err != nil {
		return nil, err
	}

	responseMode, err := getResponseMode(cmd)
	if err != nil {
		return nil, err
	}

	jarMode, err := getJarMode(cmd)
	if err != nil {
		return nil, err
	}

	presentationDefinitionMode, err := getPresentationDefinitionMode(cmd)
	if err != nil {
		return nil, err
	}

	presentationDefinitionPath, err := cmdutils.GetUserSetVarFromString(cmd, presentationDefinitionPathFlagName,
		presentationDefinitionPathEnvKey, false)
	if err != nil {
		return nil, err
	}

	apiTimeout, err := getDuration(cmd, apiTimeoutFlagName, apiTimeoutEnvKey, defaultAPITimeout)
	if err != nil {
		return nil, err
	}

	redisParams, err := getRedisParameters(cmd)
	if err != nil {
		return nil, err
	}

	sessionTTL, err := getSessionTTL(cmd)
	if err != nil {
		return nil, err
	}

	token := cmdutils.GetUserSetOptionalVarFromString(cmd, tokenFlagName, tokenEnvKey)

	metricsHost := cmdutils.GetUserSetOptionalVarFromString(cmd, metricsHostFlagName, metricsHostEnvKey)

	loggingLevel := cmdutils.GetUserSetOptionalVarFromString(cmd, common.LogLevelFlagName, common.LogLevelEnvKey)

	return &startupParameters{
		hostURL:                     hostURL,
		verifierAPIURL:              verifierAPIURL,
		mdocVerifierURL:             mdocVerifierURL,
		walletBaseURL:               walletBaseURL,
		publicURL:                   publicURL,
		walletRedirectPath:          walletRedirectPath,
		walletRedirectQueryTemplate: walletRedirectQueryTemplate,
		presentationType:            presentationType,
		responseMode:                responseMode,
		jarMode:                     jarMode,
		presentationDefinitionMode:  presentationDefinitionMode,
		presentationDefinitionPath:  presentationDefinitionPath,
		apiTimeout:                  apiTimeout,
		redisParameters:             redisParams,
		sessionTTL:                  sessionTTL,
		token:                       token,
		metricsHost:                 metricsHost,
		logLevel:                    loggingLevel,
	}, nil
}

func getPresentationType(cmd *cobra.Command) (oidc4vp.PresentationType, error) {
	presentationType, err := cmdutils.GetUserSetVarFromString(cmd, presentationTypeFlagName,
		presentationTypeEnvKey, true)
	if err != nil {
		return "", err
	}

	switch presentationType {
	case "":
		return oidc4vp.VPTokenType, nil
	case string(oidc4vp.IDTokenType):
		return oidc4vp.IDTokenType, nil
	case string(oidc4vp.VPTokenType):
		return oidc4vp.VPTokenType, nil
	case string(oidc4vp.IDAndVPTokenType):
		return oidc4vp.IDAndVPTokenType, nil
	default:
		return "", fmt.Errorf("unsupported presentation type: %s", presentationType)
	}
}

func getResponseMode(cmd *cobra.Command) (oidc4vp.ResponseMode, error) {
	mode, err := cmdutils.GetUserSetVarFromString(cmd, responseModeFlagName, responseModeEnvKey, true)
	if err != nil {
		return "", err
	}

	switch mode {
	case "":
		return oidc4vp.ResponseModeDirectPostJWT, nil
	case string(oidc4vp.ResponseModeDirectPost):
		return oidc4vp.ResponseModeDirectPost, nil
	case string(oidc4vp.ResponseModeDirectPostJWT):
		return oidc4vp.ResponseModeDirectPostJWT, nil
	default:
		return "", fmt.Errorf("unsupported response mode: %s", mode)
	}
}

func getJarMode(cmd *cobra.Command) (oidc4vp.DeliveryMode, error) {
	return getDeliveryMode(cmd, jarModeFlagName, jarModeEnvKey, oidc4vp.DeliveryByReference)
}

func getPresentationDefinitionMode(cmd *cobra.Command) (oidc4vp.DeliveryMode, error) {
	return getDeliveryMode(cmd, presentationDefinitionModeFlagName, presentationDefinitionModeEnvKey,
		oidc4vp.DeliveryByValue)
}

func getDeliveryMode(cmd *cobra.Command, flagName, envKey string,
	defaultMode oidc4vp.DeliveryMode) (oidc4vp.DeliveryMode, error) {
	mode, err := cmdutils.GetUserSetVarFromString(cmd, flagName, envKey, true)
	if err != nil {
		return "", err
	}

	switch mode {
	case "":
		return defaultMode, nil
	case string(oidc4vp.DeliveryByValue):
		return oidc4vp.DeliveryByValue, nil
	case string(oidc4vp.DeliveryByReference):
		return oidc4vp.DeliveryByReference, nil
	default:
		return "", fmt.Errorf("unsupported delivery mode for %s: %s", flagName, mode)
	}
}

func getRedisParameters(cmd *cobra.Command) (*redisParameters, error) {
	redisURL, err := cmdutils.GetUserSetVarFromString(cmd, redisURLFlagName, redisURLEnvKey, false)
	if err != nil {
		return nil, err
	}

	addrs := lo.Map(strings.Split(redisURL, ","), func(addr string, _ int) string {
		return strings.TrimSpace(addr)
	})

	return &redisParameters{
		addrs:      addrs,
		password:   cmdutils.GetUserSetOptionalVarFromString(cmd, redisPasswordFlagName, redisPasswordEnvKey),
		masterName: cmdutils.GetUserSetOptionalVarFromString(cmd, redisMasterNameFlagName, redisMasterNameEnvKey),
	}, nil
}

func getSessionTTL(cmd *cobra.Command) (time.Duration, error) {
	ttlStr, err := cmdutils.GetUserSetVarFromString(cmd, sessionTTLFlagName, sessionTTLEnvKey, true)
	if err != nil {
		return -1, err
	}

	if ttlStr == "" {
		return defaultSessionTTL * time.Second, nil
	}

	ttl, err := strconv.Atoi(ttlStr)
	if err != nil || ttl <= 0 {
		return -1, fmt.Errorf("invalid value [%s] for %s", ttlStr, sessionTTLFlagName)
	}

	return time.Duration(ttl) * time.Second, nil
}

func getDuration(cmd *cobra.Command, flagName, envKey string,
	defaultDuration time.Duration) (time.Duration, error) {
	timeoutStr, err := cmdutils.GetUserSetVarFromString(cmd, flagName, envKey, true)
	if err != nil {
		return -1, err
	}

	if timeoutStr == "" {
		return defaultDuration, nil
	}

	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return -1, fmt.Errorf("invalid value [%s]: %w", timeoutStr, err)
	}

	return timeout, nil
}

func createFlags(startCmd *cobra.Command) {
	startCmd.Flags().StringP(hostURLFlagName, hostURLFlagShorthand, "", hostURLFlagUsage)
	startCmd.Flags().StringP(verifierAPIURLFlagName, "", "", verifierAPIURLFlagUsage)
	startCmd.Flags().StringP(mdocVerifierURLFlagName, "", "", mdocVerifierURLFlagUsage)
	startCmd.Flags().StringP(walletBaseURLFlagName, "", "", walletBaseURLFlagUsage)
	startCmd.Flags().StringP(publicURLFlagName, "", "", publicURLFlagUsage)
	startCmd.Flags().StringP(walletRedirectPathFlagName, "", "", walletRedirectPathFlagUsage)
	startCmd.Flags().StringP(walletRedirectQueryTemplateFlagName, "", "", walletRedirectQueryTemplateFlagUsage)
	startCmd.Flags().StringP(presentationTypeFlagName, "", "", presentationTypeFlagUsage)
	startCmd.Flags().StringP(responseModeFlagName, "", "", responseModeFlagUsage)
	startCmd.Flags().StringP(jarModeFlagName, "", "", jarModeFlagUsage)
	startCmd.Flags().StringP(presentationDefinitionModeFlagName, "", "", presentationDefinitionModeFlagUsage)
	startCmd.Flags().StringP(presentationDefinitionPathFlagName, "", "", presentationDefinitionPathFlagUsage)
	startCmd.Flags().StringP(apiTimeoutFlagName, "", "", apiTimeoutFlagUsage)
	startCmd.Flags().StringP(redisURLFlagName, "", "", redisURLFlagUsage)
	startCmd.Flags().StringP(redisPasswordFlagName, "", "", redisPasswordFlagUsage)
	startCmd.Flags().StringP(redisMasterNameFlagName, "", "", redisMasterNameFlagUsage)
	startCmd.Flags().StringP(sessionTTLFlagName, "", "", sessionTTLFlagUsage)
	startCmd.Flags().StringP(tokenFlagName, "", "", tokenFlagUsage)
	startCmd.Flags().StringP(metricsHostFlagName, "", "", metricsHostFlagUsage)
	startCmd.Flags().StringP(common.LogLevelFlagName, common.LogLevelFlagShorthand, "", common.LogLevelPrefixFlagUsage)
}
