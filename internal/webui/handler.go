package webui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/2beens/cyclingprofile/internal/stats"
	"github.com/2beens/cyclingprofile/internal/telemetry/tracing"
	"github.com/2beens/cyclingprofile/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

type periodOption struct {
	Value    string
	Label    string
	Selected bool
}

type pageData struct {
	Title      string
	BackendURL string
	Periods    []periodOption
}

// Handler serves the dashboard web client: the login page, the dashboard
// page and their static assets. All data comes from the backend at backendURL.
type Handler struct {
	backendURL string
	loginPage  []byte
	dashPage   []byte
}

func NewHandler(backendURL string) (*Handler, error) {
	backendURL = strings.TrimSuffix(backendURL, "/")
	if backendURL == "" {
		return nil, fmt.Errorf("backend url not set")
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	periods := make([]periodOption, 0, len(stats.Periods))
	for _, p := range stats.Periods {
		periods = append(periods, periodOption{
			Value:    p.String(),
			Label:    p.Label(),
			Selected: p == stats.DefaultPeriod,
		})
	}

	// pages only depend on startup config, render them once
	loginPage, err := render(tmpl, "login.html", pageData{
		Title:      "Cycling Profile - Login",
		BackendURL: backendURL,
	})
	if err != nil {
		return nil, err
	}
	dashPage, err := render(tmpl, "dashboard.html", pageData{
		Title:      "Cycling Profile - Dashboard",
		BackendURL: backendURL,
		Periods:    periods,
	})
	if err != nil {
		return nil, err
	}

	return &Handler{
		backendURL: backendURL,
		loginPage:  loginPage,
		dashPage:   dashPage,
	}, nil
}

func render(tmpl *template.Template, name string, data pageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func (handler *Handler) SetupRoutes(r *mux.Router) error {
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return fmt.Errorf("static fs: %w", err)
	}

	r.PathPrefix("/static/").
		Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static)))).
		Methods("GET").Name("static")
	r.HandleFunc("/login", handler.handleLogin).Methods("GET").Name("login")
	r.HandleFunc("/dashboard", handler.handleDashboard).Methods("GET").Name("dashboard")

	// "/" and every unknown path land on the login page
	r.NotFoundHandler = http.HandlerFunc(handler.redirectToLogin)
	r.MethodNotAllowedHandler = http.HandlerFunc(handler.redirectToLogin)

	return nil
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "webui.login")
	defer span.End()

	pkg.WriteHTMLResponseOK(w, handler.loginPage)
}

func (handler *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "webui.dashboard")
	defer span.End()

	pkg.WriteHTMLResponseOK(w, handler.dashPage)
}

func (handler *Handler) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	log.Tracef("webui: redirecting [%s] to /login", r.URL.Path)
	http.Redirect(w, r, "/login", http.StatusFound)
}
