package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/2beens/cyclingprofile/internal/dashboard"
	"github.com/2beens/cyclingprofile/internal/stats"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestBackend(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	requests := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		period, _ := stats.ParsePeriod(r.URL.Query().Get("period"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"athlete":{"id":7},"stats":{"totalRides":2},"period":%q}`, period.Label())
	}))
	t.Cleanup(server.Close)
	return server, requests
}

func TestRunInteractive_PipedInputFinishesLoad(t *testing.T) {
	server, requests := newTestBackend(t)
	loader := dashboard.NewLoader(dashboard.NewClient(server.URL, server.Client()), "token")

	runInteractive(context.Background(), loader, strings.NewReader("30\n"))

	view := loader.View()
	assert.Equal(t, dashboard.StateSuccess, view.State)
	assert.Equal(t, stats.Period30Days, view.Period)
	assert.Equal(t, int32(1), requests.Load())
}

func TestRunInteractive_QuitIgnoresRest(t *testing.T) {
	server, requests := newTestBackend(t)
	loader := dashboard.NewLoader(dashboard.NewClient(server.URL, server.Client()), "token")

	runInteractive(context.Background(), loader, strings.NewReader("abc\nq\n60\n"))

	assert.Equal(t, int32(0), requests.Load())
	assert.Equal(t, dashboard.StateLoading, loader.View().State)
}

func TestRunInteractive_CancelReleasesReader(t *testing.T) {
	server, _ := newTestBackend(t)
	loader := dashboard.NewLoader(dashboard.NewClient(server.URL, server.Client()), "token")

	pr, pw := io.Pipe()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		runInteractive(ctx, loader, pr)
	}()

	_, err := pw.Write([]byte("7\n"))
	assert.NoError(t, err)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("interactive loop did not stop after cancel")
	}

	// unblocks the pending stdin read
	assert.NoError(t, pw.Close())
}
