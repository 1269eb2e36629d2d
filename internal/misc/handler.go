package misc

import (
	"net/http"

	"github.com/2beens/cyclingprofile/internal/telemetry/tracing"
	"github.com/2beens/cyclingprofile/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const ServiceName = "strava-cycling-profile-backend"

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type Handler struct {
	versionInfo string
}

func NewHandler(versionInfo string) *Handler {
	return &Handler{
		versionInfo: versionInfo,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/health", handler.handleHealth).Methods("GET").Name("health")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")

	mainRouter.NotFoundHandler = http.HandlerFunc(HandleNotFound)
	mainRouter.MethodNotAllowedHandler = http.HandlerFunc(HandleNotFound)
}

func (handler *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.health")
	defer span.End()

	pkg.SendJsonResponse(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: ServiceName,
	})
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}

// HandleNotFound answers both unknown routes and unsupported methods.
func HandleNotFound(w http.ResponseWriter, r *http.Request) {
	log.Tracef("route not found: [%s] %s", r.Method, r.URL.Path)
	pkg.WriteJSONError(w, http.StatusNotFound, "Route not found")
}
