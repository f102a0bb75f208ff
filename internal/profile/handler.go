package profile

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/fittracker/internal/middleware"
	"github.com/2beens/fittracker/internal/telemetry/metrics"
	"github.com/2beens/fittracker/internal/telemetry/tracing"
	"github.com/2beens/fittracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// sessionResetter drops the active workout of a user whose profile changed.
type sessionResetter interface {
	Reset(userID string)
}

type OnboardResponse struct {
	UserID  string  `json:"userId"`
	Profile Profile `json:"profile"`
}

type UpdateResponse struct {
	Profile Profile `json:"profile"`
	Updated bool    `json:"updated"`
}

type Handler struct {
	service  *Service
	sessions sessionResetter
}

func NewHandler(service *Service, sessions sessionResetter) *Handler {
	return &Handler{
		service:  service,
		sessions: sessions,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	metricsManager *metrics.Manager,
	onboardAllowedPerMin int,
) {
	// onboarding creates records, keep it from being flooded
	rateLimit := middleware.RateLimit(rateLimiter, "onboard", onboardAllowedPerMin, metricsManager)
	mainRouter.Handle("/users", rateLimit(http.HandlerFunc(handler.HandleOnboard))).Methods("POST", "OPTIONS").Name("onboard")

	mainRouter.HandleFunc("/users/{id}/profile", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-profile")
	mainRouter.HandleFunc("/users/{id}/profile", handler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-profile")
}

func (handler *Handler) HandleOnboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.onboard")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var p Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		log.Tracef("onboard, unmarshal json params: %s", err)
		http.Error(w, "onboarding failed, invalid profile", http.StatusBadRequest)
		return
	}

	userID, err := handler.service.Onboard(ctx, p)
	if err != nil {
		if errors.Is(err, ErrInvalidProfile) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("onboard [%s]: %s", p.Name, err)
		http.Error(w, "onboarding failed", http.StatusInternalServerError)
		return
	}

	p = p.WithLevel(p.Level())
	pkg.WriteJSONResponse(w, http.StatusCreated, OnboardResponse{
		UserID:  userID,
		Profile: p,
	})
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.get")
	defer span.End()

	userID := mux.Vars(r)["id"]
	p, err := handler.service.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		log.Errorf("get profile %s: %s", userID, err)
		http.Error(w, "failed to get profile", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponse(w, http.StatusOK, p)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.update")
	defer span.End()

	userID := mux.Vars(r)["id"]

	var p Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		log.Tracef("update profile, unmarshal json params: %s", err)
		http.Error(w, "update failed, invalid profile", http.StatusBadRequest)
		return
	}

	current, updated, err := handler.service.Update(ctx, userID, p)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidProfile):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrProfileNotFound):
			http.Error(w, "profile not found", http.StatusNotFound)
		default:
			log.Errorf("update profile %s: %s", userID, err)
			http.Error(w, "failed to update profile", http.StatusInternalServerError)
		}
		return
	}

	if updated {
		handler.sessions.Reset(userID)
	}

	pkg.WriteJSONResponse(w, http.StatusOK, UpdateResponse{
		Profile: *current,
		Updated: updated,
	})
}
