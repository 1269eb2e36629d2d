package strava

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/cyclingprofile/internal/telemetry/metrics"
	"github.com/2beens/cyclingprofile/internal/telemetry/tracing"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/oauth2"
)

const (
	Scope          = "read,activity:read_all"
	DefaultPerPage = 100

	endpointToken      = "token"
	endpointAthlete    = "athlete"
	endpointActivities = "activities"
)

type Client struct {
	oauthURL       string // https://www.strava.com/oauth
	apiURL         string // https://www.strava.com/api/v3
	httpClient     *http.Client
	metricsManager *metrics.Manager
}

func NewClient(oauthURL, apiURL string, httpClient *http.Client, metricsManager *metrics.Manager) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		oauthURL:       strings.TrimSuffix(oauthURL, "/"),
		apiURL:         strings.TrimSuffix(apiURL, "/"),
		httpClient:     httpClient,
		metricsManager: metricsManager,
	}
}

func (c *Client) oauthConfig(clientID, clientSecret, redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       []string{Scope},
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.oauthURL + "/authorize",
			TokenURL: c.oauthURL + "/token",
			// strava wants the client credentials in the form body
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// AuthCodeURL builds the upstream authorization page URL.
func (c *Client) AuthCodeURL(clientID, redirectURI, state string) string {
	return c.oauthConfig(clientID, "", redirectURI).AuthCodeURL(
		state,
		oauth2.SetAuthURLParam("approval_prompt", "force"),
	)
}

// ExchangeCode trades an authorization code for an access token with a single POST.
func (c *Client) ExchangeCode(ctx context.Context, code, clientID, clientSecret string) (authToken *AuthToken, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "strava.exchangeCode")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	begin := time.Now()
	// the redirect uri is not part of strava's token request
	tok, err := c.oauthConfig(clientID, clientSecret, "").Exchange(
		context.WithValue(ctx, oauth2.HTTPClient, c.httpClient),
		code,
	)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			c.observe(endpointToken, retrieveErr.Response.StatusCode, begin)
			log.Debugf("strava token exchange failed, body: %s", retrieveErr.Body)
			return nil, &UpstreamError{
				Endpoint:   endpointToken,
				StatusCode: retrieveErr.Response.StatusCode,
				Status:     retrieveErr.Response.Status,
			}
		}
		c.observe(endpointToken, 0, begin)
		return nil, fmt.Errorf("strava %s: %w", endpointToken, err)
	}
	c.observe(endpointToken, http.StatusOK, begin)

	authToken = &AuthToken{
		TokenType:    tok.TokenType,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresIn:    tok.ExpiresIn,
	}
	if expiresAt, ok := tok.Extra("expires_at").(float64); ok {
		authToken.ExpiresAt = int64(expiresAt)
	}

	rawAthlete, ok := tok.Extra("athlete").(map[string]any)
	if !ok {
		return nil, schemaMismatch(endpointToken, "athlete missing")
	}
	athleteBytes, err := json.Marshal(rawAthlete)
	if err != nil {
		return nil, schemaMismatch(endpointToken, err.Error())
	}
	var required athleteRequired
	if err := json.Unmarshal(athleteBytes, &required); err != nil || required.ID == nil {
		return nil, schemaMismatch(endpointToken, "athlete.id missing")
	}
	if err := json.Unmarshal(athleteBytes, &authToken.Athlete); err != nil {
		return nil, schemaMismatch(endpointToken, err.Error())
	}

	span.SetAttributes(attribute.Int64("athlete.id", authToken.Athlete.ID))
	return authToken, nil
}

func (c *Client) FetchAthlete(ctx context.Context, accessToken string) (athlete *Athlete, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "strava.fetchAthlete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	respBytes, err := c.get(ctx, endpointAthlete, c.apiURL+"/athlete", accessToken)
	if err != nil {
		return nil, err
	}

	var required athleteRequired
	if err := json.Unmarshal(respBytes, &required); err != nil {
		return nil, schemaMismatch(endpointAthlete, err.Error())
	}
	if required.ID == nil {
		return nil, schemaMismatch(endpointAthlete, "id missing")
	}

	athlete = &Athlete{}
	if err := json.Unmarshal(respBytes, athlete); err != nil {
		return nil, schemaMismatch(endpointAthlete, err.Error())
	}

	return athlete, nil
}

func (c *Client) FetchActivities(ctx context.Context, accessToken string, params ActivitiesParams) (activities []Activity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "strava.fetchActivities")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	perPage := params.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	query := url.Values{}
	query.Set("per_page", strconv.Itoa(perPage))
	if params.After != nil {
		query.Set("after", strconv.FormatInt(params.After.Unix(), 10))
	}
	if params.Before != nil {
		query.Set("before", strconv.FormatInt(params.Before.Unix(), 10))
	}

	respBytes, err := c.get(ctx, endpointActivities, c.apiURL+"/athlete/activities?"+query.Encode(), accessToken)
	if err != nil {
		return nil, err
	}

	var required []activityRequired
	if err := json.Unmarshal(respBytes, &required); err != nil {
		return nil, schemaMismatch(endpointActivities, err.Error())
	}
	for i, a := range required {
		if a.ID == nil || a.Type == nil || a.SportType == nil || a.StartDate == nil {
			return nil, schemaMismatch(endpointActivities, fmt.Sprintf("activity at index %d misses a required field", i))
		}
	}

	activities = make([]Activity, 0, len(required))
	if err := json.Unmarshal(respBytes, &activities); err != nil {
		return nil, schemaMismatch(endpointActivities, err.Error())
	}

	span.SetAttributes(attribute.Int("activities.count", len(activities)))
	return activities, nil
}

func (c *Client) get(ctx context.Context, endpoint, reqURL, accessToken string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("strava %s: new request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	(&oauth2.Token{AccessToken: accessToken}).SetAuthHeader(req)

	begin := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(endpoint, 0, begin)
		return nil, fmt.Errorf("strava %s: http client do: %w", endpoint, err)
	}
	defer resp.Body.Close()
	c.observe(endpoint, resp.StatusCode, begin)

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("strava %s: read response: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Debugf("strava %s returned %d: %s", endpoint, resp.StatusCode, respBytes)
		return nil, &UpstreamError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	return respBytes, nil
}

// observe records one upstream round trip; status 0 means no response.
func (c *Client) observe(endpoint string, status int, begin time.Time) {
	if c.metricsManager == nil {
		return
	}
	statusLabel := "error"
	if status > 0 {
		statusLabel = strconv.Itoa(status)
	}
	c.metricsManager.CounterUpstreamRequests.With(prometheus.Labels{
		"endpoint": endpoint,
		"status":   statusLabel,
	}).Inc()
	c.metricsManager.HistogramUpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(begin).Seconds())
}
