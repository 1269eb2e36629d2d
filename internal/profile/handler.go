package profile

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/cyclingprofile/internal/stats"
	"github.com/2beens/cyclingprofile/internal/strava"
	"github.com/2beens/cyclingprofile/internal/telemetry/tracing"
	"github.com/2beens/cyclingprofile/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	msgTokenRequired = "Access token required"
	msgFetchFailed   = "Failed to fetch profile data"
)

var ErrMissingToken = errors.New("missing bearer token")

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=profile_test

type stravaClient interface {
	FetchAthlete(ctx context.Context, accessToken string) (*strava.Athlete, error)
	FetchActivities(ctx context.Context, accessToken string, params strava.ActivitiesParams) ([]strava.Activity, error)
}

type Response struct {
	Athlete *strava.Athlete    `json:"athlete"`
	Stats   stats.AthleteStats `json:"stats"`
	Period  string             `json:"period"`
}

type Handler struct {
	stravaClient stravaClient
	nowFunc      func() time.Time
}

func NewHandler(stravaClient stravaClient) *Handler {
	return &Handler{
		stravaClient: stravaClient,
		nowFunc:      time.Now,
	}
}

// WithNowFunc replaces the clock used to anchor the stats window.
func (handler *Handler) WithNowFunc(nowFunc func() time.Time) *Handler {
	handler.nowFunc = nowFunc
	return handler
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	apiRouter := mainRouter.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/profile", handler.HandleGetProfile).Methods("GET").Name("profile")
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found {
		return "", ErrMissingToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

func (handler *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	var err error
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "profileHandler.getProfile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	accessToken, err := BearerToken(r)
	if err != nil {
		pkg.WriteJSONError(w, http.StatusUnauthorized, msgTokenRequired)
		return
	}

	period, periodErr := stats.ParsePeriod(r.URL.Query().Get("period"))
	if periodErr != nil {
		log.Debugf("get profile: %s, using default period", periodErr)
	}
	span.SetAttributes(attribute.Int("period.days", period.Days()))

	resp, err := handler.fetchProfile(ctx, accessToken, period)
	if err != nil {
		log.Errorf("get profile: %s", err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, msgFetchFailed)
		return
	}

	pkg.SendJsonResponse(w, http.StatusOK, resp)
}

// fetchProfile loads athlete and activities concurrently; the first failure
// cancels the sibling call and no partial result is returned.
func (handler *Handler) fetchProfile(ctx context.Context, accessToken string, period stats.Period) (*Response, error) {
	var (
		athlete    *strava.Athlete
		activities []strava.Activity
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		athlete, err = handler.stravaClient.FetchAthlete(gCtx, accessToken)
		if err != nil {
			return fmt.Errorf("fetch athlete: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		activities, err = handler.stravaClient.FetchActivities(gCtx, accessToken, strava.ActivitiesParams{
			PerPage: strava.DefaultPerPage,
		})
		if err != nil {
			return fmt.Errorf("fetch activities: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Response{
		Athlete: athlete,
		Stats:   stats.ForPeriod(activities, period.Days(), handler.nowFunc()),
		Period:  period.Label(),
	}, nil
}
