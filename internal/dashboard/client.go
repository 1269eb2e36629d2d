package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/2beens/cyclingprofile/internal/stats"
	"github.com/2beens/cyclingprofile/internal/strava"
	"github.com/2beens/cyclingprofile/internal/telemetry/tracing"
	"github.com/2beens/cyclingprofile/pkg"
)

type ProfileResponse struct {
	Athlete strava.Athlete     `json:"athlete"`
	Stats   stats.AthleteStats `json:"stats"`
	Period  string             `json:"period"`
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	// Message is the backend's {"error": ...} value, when present
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Failed to fetch profile: %s", http.StatusText(e.StatusCode))
}

// Client talks to the cycling profile backend.
type Client struct {
	backendURL string
	httpClient *http.Client
}

func NewClient(backendURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		backendURL: strings.TrimSuffix(backendURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) FetchProfile(ctx context.Context, accessToken string, period stats.Period) (profile *ProfileResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "dashboardClient.fetchProfile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	query := url.Values{}
	query.Set("period", period.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.backendURL+"/api/profile?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", pkg.ContentType.JSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read profile response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp pkg.ErrorResponse
		if json.Unmarshal(respBytes, &errResp) == nil {
			apiErr.Message = errResp.Error
		}
		return nil, apiErr
	}

	profile = &ProfileResponse{}
	if err := json.Unmarshal(respBytes, profile); err != nil {
		return nil, fmt.Errorf("unmarshal profile response: %w", err)
	}

	return profile, nil
}
