package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/2beens/cyclingprofile/internal/config"
	"github.com/2beens/cyclingprofile/internal/logging"
	"github.com/2beens/cyclingprofile/internal/middleware"
	"github.com/2beens/cyclingprofile/internal/telemetry/metrics"
	"github.com/2beens/cyclingprofile/internal/webui"
	"github.com/2beens/cyclingprofile/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

func main() {
	fmt.Println("starting frontend ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	closeLogs := logging.Setup(logging.LoggerSetupParams{
		ServiceName:   "cycling-profile-frontend",
		LogToStdout:   true,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogFormatJSON,
		Environment:   cfg.Environment,
	})
	defer closeLogs()

	handler, err := webui.NewHandler(cfg.BackendURL)
	if err != nil {
		log.Fatalf("new webui handler: %s", err)
	}

	r := mux.NewRouter()
	if err := handler.SetupRoutes(r); err != nil {
		log.Fatalf("setup webui routes: %s", err)
	}
	versionInfo, err := pkg.LastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
		versionInfo = "unknown"
	}

	r.Use(otelmux.Middleware("frontend-router"))

	// request metrics only when there is a listener to scrape them
	var metricsManager *metrics.Manager
	var metricsHttpServer *http.Server
	if cfg.FrontendMetricsPort != "" {
		promRegistry := metrics.SetupPrometheus("cycling-profile-frontend", versionInfo)
		metricsManager = metrics.NewManager("frontend", "main", promRegistry)
		r.Use(middleware.RequestMetrics(metricsManager))

		metricsAddr := net.JoinHostPort(cfg.PrometheusMetricsHost, cfg.FrontendMetricsPort)
		metricsHttpServer = metrics.NewHttpServer(metricsAddr, promRegistry)
		go func() {
			log.Debugf(" > frontend metrics listening on: [%s]", metricsAddr)
			err := metricsHttpServer.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("frontend metrics, listen and serve: %s", err)
			}
		}()
	}

	var h http.Handler = r
	h = middleware.LogRequest()(h)
	h = middleware.PanicRecovery(metricsManager)(h)

	addr := net.JoinHostPort(cfg.FrontendHost, strconv.Itoa(cfg.FrontendPort))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      time.Minute,
	}

	go func() {
		log.Infof(" > frontend listening on: [%s], backend: [%s]", addr, cfg.BackendURL)
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("frontend, listen and serve: %s", err)
		}
	}()

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)
	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, shutting down ...", receivedSig)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Errorf("failed to gracefully shutdown frontend server: %s", err)
	}
	if metricsHttpServer != nil {
		if err := metricsHttpServer.Shutdown(ctx); err != nil {
			log.Errorf("failed to gracefully shutdown frontend metrics server: %s", err)
		}
	}
}
