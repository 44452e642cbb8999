/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexliesenfeld/health"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/credentio/verifier-gateway/cmd/common"
	"github.com/credentio/verifier-gateway/internal/logfields"
	"github.com/credentio/verifier-gateway/pkg/client/mdocverifier"
	"github.com/credentio/verifier-gateway/pkg/client/verifierapi"
	"github.com/credentio/verifier-gateway/pkg/event/redispublisher"
	"github.com/credentio/verifier-gateway/pkg/event/spi"
	"github.com/credentio/verifier-gateway/pkg/observability/health/healthutil"
	redischeck "github.com/credentio/verifier-gateway/pkg/observability/health/redis"
	"github.com/credentio/verifier-gateway/pkg/observability/metrics"
	prometheusprovider "github.com/credentio/verifier-gateway/pkg/observability/metrics/prometheus"
	"github.com/credentio/verifier-gateway/pkg/restapi/resterr"
	"github.com/credentio/verifier-gateway/pkg/restapi/v1/mw"
	"github.com/credentio/verifier-gateway/pkg/restapi/v1/verifier"
	"github.com/credentio/verifier-gateway/pkg/service/oidc4vp"
	"github.com/credentio/verifier-gateway/pkg/storage/redis"
	"github.com/credentio/verifier-gateway/pkg/storage/redis/sessionstore"
)

var logger = log.New("gateway-rest")

const (
	healthCheckTimeout       = 5 * time.Second
	healthCheckCacheDuration = 1 * time.Second
)

type server interface {
	ListenAndServe(host string, router http.Handler) error
}

// HTTPServer represents an actual HTTP server implementation.
type HTTPServer struct{}

// ListenAndServe starts the server using the standard Go HTTP server implementation.
func (s *HTTPServer) ListenAndServe(host string, router http.Handler) error {
	return http.ListenAndServe(host, router) //nolint: gosec
}

// GetStartCmd returns the Cobra start command.
func GetStartCmd(srv server) *cobra.Command {
	startCmd := createStartCmd(srv)

	createFlags(startCmd)

	return startCmd
}

func createStartCmd(srv server) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start gateway-rest",
		Long:  "Start the verifier gateway REST server",
		RunE: func(cmd *cobra.Command, args []string) error {
			parameters, err := getStartupParameters(cmd)
			if err != nil {
				return err
			}

			return startGatewayService(parameters, srv)
		},
	}
}

func startGatewayService(parameters *startupParameters, srv server) error {
	if parameters.logLevel != "" {
		common.SetDefaultLogLevel(logger, parameters.logLevel)
	}

	redisClient, err := newRedisClient(parameters.redisParameters)
	if err != nil {
		return fmt.Errorf("create redis client: %w", err)
	}

	presentationDefinitionSource, err := newFilePresentationDefinitionSource(parameters.presentationDefinitionPath)
	if err != nil {
		return fmt.Errorf("load presentation definition: %w", err)
	}

	transport := verifierapi.NewTransport(&verifierapi.TransportConfig{
		Timeout:       parameters.apiTimeout,
		EnableLogging: log.GetLevel("") == log.DEBUG,
	})

	var serviceMetrics metrics.Metrics

	if parameters.metricsHost != "" {
		provider := prometheusprovider.NewPrometheusProvider(&http.Server{
			Addr:    parameters.metricsHost,
			Handler: prometheusprovider.Handler(),
		})

		serviceMetrics = provider.Metrics()

		go func() {
			if createErr := provider.Create(); createErr != nil && !errors.Is(createErr, http.ErrServerClosed) {
				logger.Error("metrics server exited", log.WithError(createErr))
			}
		}()
	}

	oidc4vpService := oidc4vp.NewService(&oidc4vp.Config{
		PresentationDefinitionSource: presentationDefinitionSource,
		VerifierClient: verifierapi.NewClient(&verifierapi.ClientConfig{
			Transport: transport,
			BaseURL:   parameters.verifierAPIURL,
		}),
		SessionStore: sessionstore.New(redisClient, int32(parameters.sessionTTL.Seconds())),
		CredentialVerifier: mdocverifier.NewClient(&mdocverifier.ClientConfig{
			Transport: transport,
			BaseURL:   parameters.mdocVerifierURL,
		}),
		EventSvc:                            redispublisher.New(redisClient),
		EventTopic:                          spi.VerifierEventTopic,
		Metrics:                             serviceMetrics,
		PresentationType:                    parameters.presentationType,
		ResponseMode:                        parameters.responseMode,
		JarMode:                             parameters.jarMode,
		PresentationDefinitionMode:          parameters.presentationDefinitionMode,
		WalletBaseURL:                       parameters.walletBaseURL,
		PublicURL:                           parameters.publicURL,
		WalletResponseRedirectPath:          parameters.walletRedirectPath,
		WalletResponseRedirectQueryTemplate: parameters.walletRedirectQueryTemplate,
	})

	controller := verifier.NewController(&verifier.Config{
		OIDC4VPService: oidc4vpService,
		Metrics:        serviceMetrics,
	})

	router := echo.New()
	router.HideBanner = true
	router.HTTPErrorHandler = resterr.HTTPErrorHandler

	router.Use(middleware.Recover())

	if parameters.token != "" {
		router.Use(mw.APIKeyAuth(parameters.token))
	}

	router.POST("/verifier/interactions", controller.InitiateInteraction)
	router.POST("/verifier/interactions/response", controller.CheckAuthorizationResponse)
	router.GET("/verifier/interactions/:presentationID/claim", func(c echo.Context) error {
		return controller.RetrieveInteractionsClaim(c, c.Param("presentationID"))
	})

	router.GET("/healthcheck", echo.WrapHandler(newHealthCheckHandler(parameters.redisParameters)))

	logger.Info("Starting gateway-rest server", logfields.WithURL(parameters.hostURL))

	return srv.ListenAndServe(parameters.hostURL, router)
}

func newRedisClient(parameters *redisParameters) (*redis.Client, error) {
	var opts []redis.ClientOpt

	if parameters.masterName != "" {
		opts = append(opts, redis.WithMasterName(parameters.masterName))
	}

	if parameters.password != "" {
		opts = append(opts, redis.WithPassword(parameters.password))
	}

	return redis.New(parameters.addrs, opts...)
}

func newHealthCheckHandler(parameters *redisParameters) http.Handler {
	var opts []redischeck.ClientOpt

	if parameters.masterName != "" {
		opts = append(opts, redischeck.WithMasterName(parameters.masterName))
	}

	if parameters.password != "" {
		opts = append(opts, redischeck.WithPassword(parameters.password))
	}

	responseTimes := map[string]healthutil.ResponseTimeState{}

	checker := health.NewChecker(
		health.WithCacheDuration(healthCheckCacheDuration),
		health.WithTimeout(healthCheckTimeout),
		health.WithCheck(health.Check{
			Name:  "redis",
			Check: redischeck.New(parameters.addrs, opts...),
		}),
		health.WithInterceptors(healthutil.ResponseTimeInterceptor(responseTimes)),
	)

	return health.NewHandler(checker,
		health.WithResultWriter(healthutil.NewJSONResultWriter(responseTimes)))
}
