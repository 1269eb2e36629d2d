package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/2beens/cyclingprofile/internal/dashboard"
	"github.com/2beens/cyclingprofile/internal/logging"
	"github.com/2beens/cyclingprofile/internal/stats"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	os.Exit(run())
}

func run() int {
	backendURL := flag.String("backend", "http://localhost:3001", "cycling profile backend url")
	token := flag.String("token", "", "strava access token (default: STRAVA_ACCESS_TOKEN env var)")
	periodFlag := flag.String("period", "30", "stats period in days [7 | 30 | 60]")
	interactive := flag.Bool("interactive", false, "read period changes from stdin (7, 30, 60; q to quit)")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	closeLogs := logging.Setup(logging.LoggerSetupParams{
		ServiceName: "cyclingstats",
		LogToStdout: true,
		LogLevel:    *logLevel,
	})
	defer closeLogs()

	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file loaded: %s", err)
	}

	accessToken := *token
	if accessToken == "" {
		accessToken = os.Getenv("STRAVA_ACCESS_TOKEN")
	}
	if accessToken == "" {
		fmt.Fprintln(os.Stderr, "access token required: use -token or STRAVA_ACCESS_TOKEN")
		return 2
	}

	period, err := stats.ParsePeriod(*periodFlag)
	if err != nil {
		log.Warnf("%s, using %s", err, period.Label())
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := dashboard.NewClient(*backendURL, &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   30 * time.Second,
	})
	loader := dashboard.NewLoader(client, accessToken)
	loader.OnChange(func(view dashboard.View) {
		if err := dashboard.Render(os.Stdout, view); err != nil {
			log.Errorf("render: %s", err)
		}
	})

	view := loader.SelectPeriod(ctx, period)
	if !*interactive {
		if view.State == dashboard.StateError {
			return 1
		}
		return 0
	}

	runInteractive(ctx, loader, os.Stdin)
	return 0
}

// runInteractive reads period selections line by line until q, EOF or a signal.
// In-flight loads finish before it returns; the stdin reader is released then.
func runInteractive(ctx context.Context, loader *dashboard.Loader, in io.Reader) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var loads sync.WaitGroup
	defer loads.Wait()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Println("\nselect period [7 | 30 | 60], q to quit:")
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			line = strings.TrimSpace(line)
			if line == "q" || line == "quit" {
				return
			}
			period, err := stats.ParsePeriod(line)
			if err != nil {
				fmt.Printf("unknown period [%s], allowed: 7, 30, 60\n", line)
				continue
			}
			// a newer selection supersedes this one while it is in flight
			loads.Add(1)
			go func() {
				defer loads.Done()
				loader.SelectPeriod(ctx, period)
			}()
		}
	}
}
