package dashboard

import (
	"context"
	"sync"

	"github.com/2beens/cyclingprofile/internal/stats"

	log "github.com/sirupsen/logrus"
)

type State int

const (
	StateLoading State = iota
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// View is a snapshot of what the dashboard shows.
type View struct {
	State   State
	Period  stats.Period
	Profile *ProfileResponse
	Err     error
}

type profileFetcher interface {
	FetchProfile(ctx context.Context, accessToken string, period stats.Period) (*ProfileResponse, error)
}

// Loader drives the dashboard state machine: every mount or period change
// enters loading and issues a fresh fetch. A newer load supersedes an older
// one: the older request is canceled and its result is dropped.
type Loader struct {
	fetcher     profileFetcher
	accessToken string

	mu         sync.Mutex
	seq        uint64
	cancelPrev context.CancelFunc
	view       View
	listeners  []func(View)
}

func NewLoader(fetcher profileFetcher, accessToken string) *Loader {
	return &Loader{
		fetcher:     fetcher,
		accessToken: accessToken,
		view: View{
			State:  StateLoading,
			Period: stats.DefaultPeriod,
		},
	}
}

// OnChange registers a listener called on every state transition.
// Listeners run with the loader locked and must not call back into it.
func (l *Loader) OnChange(listener func(View)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, listener)
}

func (l *Loader) View() View {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.view
}

// Mount performs the initial load for the default period.
func (l *Loader) Mount(ctx context.Context) View {
	return l.load(ctx, stats.DefaultPeriod)
}

func (l *Loader) SelectPeriod(ctx context.Context, period stats.Period) View {
	if !period.Valid() {
		period = stats.DefaultPeriod
	}
	return l.load(ctx, period)
}

// load blocks until the fetch finishes and returns the view it produced; a
// superseded load returns the current view unchanged.
func (l *Loader) load(ctx context.Context, period stats.Period) View {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	if l.cancelPrev != nil {
		l.cancelPrev()
	}
	ctx, cancel := context.WithCancel(ctx)
	l.cancelPrev = cancel
	l.setView(View{State: StateLoading, Period: period})
	l.mu.Unlock()

	profile, err := l.fetcher.FetchProfile(ctx, l.accessToken, period)

	l.mu.Lock()
	defer l.mu.Unlock()
	if seq != l.seq {
		log.Debugf("dropping superseded profile load for period %s", period)
		return l.view
	}
	cancel()
	l.cancelPrev = nil

	if err != nil {
		log.Debugf("profile load failed: %s", err)
		l.setView(View{State: StateError, Period: period, Err: err})
	} else {
		l.setView(View{State: StateSuccess, Period: period, Profile: profile})
	}
	return l.view
}

func (l *Loader) setView(view View) {
	l.view = view
	for _, listener := range l.listeners {
		listener(view)
	}
}
