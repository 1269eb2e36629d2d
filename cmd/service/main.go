package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/2beens/cyclingprofile/internal"
	"github.com/2beens/cyclingprofile/internal/config"
	"github.com/2beens/cyclingprofile/internal/logging"
	"github.com/2beens/cyclingprofile/pkg"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	dotEnvPath := flag.String("dotenv", ".env", "optional .env file to preload into the environment")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	envCfg, err := config.LoadEnv(ctx, *dotEnvPath)
	if err != nil {
		panic(err)
	}
	if envCfg.Port > 0 {
		cfg.Port = envCfg.Port
	}

	closeLogs := logging.Setup(logging.LoggerSetupParams{
		ServiceName:      "cycling-profile-backend",
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        envCfg.SentryDSN,
		SentryServerName: "cycling-profile-backend",
	})
	defer closeLogs()

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)
	log.Debugf("frontend url: [%s]", envCfg.OAuth.FrontendURL)

	if envCfg.OAuth.ClientID == "" || envCfg.OAuth.ClientSecret == "" {
		log.Errorf("strava client credentials not set. use STRAVA_CLIENT_ID and STRAVA_CLIENT_SECRET")
	}
	if envCfg.OAuth.RedirectURI == "" {
		log.Errorf("strava redirect uri not set. use STRAVA_REDIRECT_URI")
	}
	if cfg.RedisHost != "" && envCfg.RedisPassword == "" {
		log.Warnln("redis password not set. use REDIS_PASSWORD")
	}

	versionInfo, err := pkg.LastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
		versionInfo = "unknown"
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:      cfg,
			Env:         envCfg,
			VersionInfo: versionInfo,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, shutting down ...", receivedSig)
	cancel()

	server.GracefulShutdown()
}
