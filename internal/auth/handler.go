package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/2beens/cyclingprofile/internal/config"
	"github.com/2beens/cyclingprofile/internal/middleware"
	"github.com/2beens/cyclingprofile/internal/strava"
	"github.com/2beens/cyclingprofile/internal/telemetry/metrics"
	"github.com/2beens/cyclingprofile/internal/telemetry/tracing"
	"github.com/2beens/cyclingprofile/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	// ModeRedirect is carried in the OAuth state when the browser should be
	// redirected to the dashboard instead of rendering the popup page.
	ModeRedirect = "redirect"
	ModePopup    = "popup"

	msgConfigMissing       = "OAuth configuration missing"
	msgAuthorizationFailed = "Authorization failed"
	msgAuthFailed          = "Authentication failed"
	msgMissingCode         = "Missing authorization code"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=auth

type stravaAuthClient interface {
	AuthCodeURL(clientID, redirectURI, state string) string
	ExchangeCode(ctx context.Context, code, clientID, clientSecret string) (*strava.AuthToken, error)
}

type Handler struct {
	stravaClient   stravaAuthClient
	oauthConfig    *config.OAuth
	metricsManager *metrics.Manager
}

func NewHandler(
	stravaClient stravaAuthClient,
	oauthConfig *config.OAuth,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		stravaClient:   stravaClient,
		oauthConfig:    oauthConfig,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	allowedPerMin int,
) {
	authRouter := mainRouter.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/strava", handler.HandleAuthorize).Methods("GET").Name("auth-strava")
	authRouter.HandleFunc("/strava/callback", handler.HandleCallback).Methods("GET").Name("auth-strava-callback")

	// rate limit the oauth endpoints to prevent abuse
	if rateLimiter != nil {
		authRouter.Use(middleware.RateLimit(rateLimiter, handler.metricsManager, "auth", allowedPerMin))
	}
}

// HandleAuthorize redirects to the Strava consent page. The "mode" query
// parameter selects how the callback answers and travels in the OAuth state.
func (handler *Handler) HandleAuthorize(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.authorize")
	defer span.End()

	if !handler.oauthConfig.CanAuthorize() {
		log.Errorln("oauth authorize: client id or redirect uri not configured")
		pkg.WriteJSONError(w, http.StatusInternalServerError, msgConfigMissing)
		return
	}

	state := ModePopup
	if r.URL.Query().Get("mode") == ModeRedirect {
		state = ModeRedirect
	}
	span.SetAttributes(attribute.String("oauth.mode", state))

	authURL := handler.stravaClient.AuthCodeURL(handler.oauthConfig.ClientID, handler.oauthConfig.RedirectURI, state)
	http.Redirect(w, r, authURL, http.StatusFound)
}

func (handler *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	var err error
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.callback")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	query := r.URL.Query()
	code := query.Get("code")
	authErr := query.Get("error")
	redirectMode := query.Get("state") == ModeRedirect
	span.SetAttributes(attribute.Bool("oauth.redirect_mode", redirectMode))

	if authErr != "" || code == "" {
		reason := authErr
		if reason == "" {
			reason = msgMissingCode
		}
		log.Debugf("oauth callback without code: %s", reason)
		handler.countExchange("denied")
		if redirectMode {
			pkg.WriteJSONError(w, http.StatusBadRequest, msgAuthorizationFailed)
			return
		}
		handler.writeErrorPage(w, msgAuthorizationFailed+": "+reason)
		return
	}

	if !handler.oauthConfig.CanExchange() {
		err = errors.New("oauth callback: client id or secret not configured")
		log.Errorln(err)
		handler.countExchange("misconfigured")
		handler.writeAuthFailed(w, redirectMode)
		return
	}

	token, err := handler.stravaClient.ExchangeCode(ctx, code, handler.oauthConfig.ClientID, handler.oauthConfig.ClientSecret)
	if err != nil {
		// the upstream status stays in the logs, the browser only gets a generic message
		var upstreamErr *strava.UpstreamError
		if errors.As(err, &upstreamErr) {
			log.Errorf("oauth token exchange rejected: %d %s", upstreamErr.StatusCode, upstreamErr.Status)
		} else {
			log.Errorf("oauth token exchange: %s", err)
		}
		handler.countExchange("failed")
		handler.writeAuthFailed(w, redirectMode)
		return
	}

	handler.countExchange("success")
	span.SetAttributes(attribute.Int64("athlete.id", token.Athlete.ID))
	log.Debugf("oauth token exchanged for athlete %d", token.Athlete.ID)

	if redirectMode {
		q := url.Values{}
		q.Set("access_token", token.AccessToken)
		q.Set("athlete_id", strconv.FormatInt(token.Athlete.ID, 10))
		http.Redirect(w, r, handler.frontendURL()+"/dashboard?"+q.Encode(), http.StatusFound)
		return
	}

	handler.writePage(w, callbackPage{
		Title:   titleSuccess,
		Message: "Authentication successful. This window will close automatically.",
		Payload: successPayload{
			AccessToken: token.AccessToken,
			AthleteID:   token.Athlete.ID,
		},
		TargetOrigin: handler.frontendURL(),
	})
}

func (handler *Handler) writeAuthFailed(w http.ResponseWriter, redirectMode bool) {
	if redirectMode {
		pkg.WriteJSONError(w, http.StatusInternalServerError, msgAuthFailed)
		return
	}
	handler.writeErrorPage(w, msgAuthFailed)
}

func (handler *Handler) writeErrorPage(w http.ResponseWriter, message string) {
	handler.writePage(w, callbackPage{
		Title:        titleError,
		Message:      message,
		Payload:      errorPayload{Error: message},
		TargetOrigin: handler.frontendURL(),
	})
}

func (handler *Handler) writePage(w http.ResponseWriter, page callbackPage) {
	pageBytes, err := renderCallbackPage(page)
	if err != nil {
		log.Errorf("render oauth callback page: %s", err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	pkg.WriteHTMLResponseOK(w, pageBytes)
}

func (handler *Handler) frontendURL() string {
	frontendURL := strings.TrimSuffix(handler.oauthConfig.FrontendURL, "/")
	if frontendURL == "" {
		return config.DefaultFrontendURL
	}
	return frontendURL
}

func (handler *Handler) countExchange(outcome string) {
	if handler.metricsManager == nil {
		return
	}
	handler.metricsManager.CounterOAuthExchanges.WithLabelValues(outcome).Inc()
}
