package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/cyclingprofile/internal/auth"
	"github.com/2beens/cyclingprofile/internal/config"
	"github.com/2beens/cyclingprofile/internal/middleware"
	"github.com/2beens/cyclingprofile/internal/misc"
	"github.com/2beens/cyclingprofile/internal/profile"
	"github.com/2beens/cyclingprofile/internal/strava"
	"github.com/2beens/cyclingprofile/internal/telemetry/metrics"
	"github.com/2beens/cyclingprofile/internal/telemetry/tracing"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const tracingServiceName = "cycling-profile-backend"

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config       *config.Config
	env          *config.Env
	stravaClient *strava.Client

	// nil when rate limiting is disabled
	redisClient *redis.Client

	// telemetry
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config      *config.Config
	Env         *config.Env
	VersionInfo string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	if params.Config == nil || params.Env == nil {
		return nil, errors.New("config and env must be set")
	}

	promRegistry := metrics.SetupPrometheus(tracingServiceName, params.VersionInfo)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	var rdb *redis.Client
	if params.Config.RedisHost != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
			Password: params.Env.RedisPassword,
			DB:       0, // use default DB
		})

		rdbStatus := rdb.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
	} else {
		log.Infoln("redis host not set, auth rate limiting disabled")
	}

	if params.Env.HoneycombEnabled && params.Env.HoneycombAPIKey == "" {
		log.Warnln("honeycomb tracing enabled, but HONEYCOMB_API_KEY not set")
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.Env.HoneycombEnabled, tracingServiceName, rdb)
	if err != nil {
		return nil, fmt.Errorf("honeycomb setup: %w", err)
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	if !params.Env.OAuth.CanAuthorize() {
		log.Warnln("STRAVA_CLIENT_ID / STRAVA_REDIRECT_URI not set, /auth/strava will fail")
	}

	return &Server{
		config:      params.Config,
		env:         params.Env,
		versionInfo: params.VersionInfo,
		stravaClient: strava.NewClient(
			params.Config.StravaOAuthURL,
			params.Config.StravaAPIURL,
			tracedHttpClient,
			metricsManager,
		),

		redisClient: rdb,

		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

// requestRateLimiter returns nil when there is no redis to back the limiter.
func (s *Server) requestRateLimiter() middleware.RequestRateLimiter {
	if s.redisClient == nil {
		return nil
	}
	return redis_rate.NewLimiter(s.redisClient)
}

// routerSetup builds the main handler. CORS, logging and panic recovery wrap
// the router itself so they also cover preflights and unmatched routes.
func (s *Server) routerSetup() http.Handler {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))
	r.Use(middleware.RequestMetrics(s.metricsManager))

	miscHandler := misc.NewHandler(s.versionInfo)
	miscHandler.SetupRoutes(r)

	authHandler := auth.NewHandler(s.stravaClient, &s.env.OAuth, s.metricsManager)
	authHandler.SetupRoutes(r, s.requestRateLimiter(), s.config.AuthRateLimitAllowedPerMin)

	profileHandler := profile.NewHandler(s.stravaClient)
	profileHandler.SetupRoutes(r)

	var handler http.Handler = r
	handler = middleware.DrainAndCloseRequest()(handler)
	handler = middleware.Cors(s.env.OAuth.FrontendURL)(handler)
	handler = middleware.LogRequest()(handler)
	handler = middleware.PanicRecovery(s.metricsManager)(handler)

	return handler
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	if s.config.PrometheusMetricsPort != "" {
		metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
		s.metricsHttpServer = metrics.NewHttpServer(metricsAddr, s.promRegistry)

		go func() {
			log.Debugf(" > metrics listening on: [%s]", metricsAddr)
			err := s.metricsHttpServer.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("metrics service, listen and serve: %s", err)
			}
		}()
	}

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown http server: %s", err)
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown metrics http server: %s", err)
		}
		log.Warnln("metrics server shut down")
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeConnections.Add(1)
	case http.StateClosed, http.StateHijacked:
		s.metricsManager.GaugeConnections.Add(-1)
	default:
		// do nothing
	}
}
