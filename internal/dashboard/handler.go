package dashboard

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/fittracker/internal/profile"
	"github.com/2beens/fittracker/internal/progress"
	"github.com/2beens/fittracker/internal/telemetry/tracing"
	"github.com/2beens/fittracker/internal/workout/plan"
	"github.com/2beens/fittracker/internal/workout/session"
	"github.com/2beens/fittracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type progressReader interface {
	Progress(ctx context.Context, userID string) (*progress.Record, error)
	Now() time.Time
}

type ExerciseView struct {
	plan.Exercise
	VideoURL string `json:"videoUrl"`
}

type PlanResponse struct {
	Level     plan.FitnessLevel `json:"level"`
	Title     string            `json:"title"`
	TotalSets int               `json:"totalSets"`
	Exercises []ExerciseView    `json:"exercises"`
}

type Handler struct {
	dashboards *Manager
	profiles   profilesRepo
	progress   progressReader
}

func NewHandler(dashboards *Manager, profiles profilesRepo, tracker progressReader) *Handler {
	return &Handler{
		dashboards: dashboards,
		profiles:   profiles,
		progress:   tracker,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/plans/{level}", handler.HandleGetPlan).Methods("GET", "OPTIONS").Name("get-plan")

	mainRouter.HandleFunc("/users/{id}/workout", handler.HandleGetWorkout).Methods("GET", "OPTIONS").Name("get-workout")
	mainRouter.HandleFunc("/users/{id}/workout/start", handler.HandleStart).Methods("POST", "OPTIONS").Name("start-workout")
	mainRouter.HandleFunc("/users/{id}/workout/set/complete", handler.HandleCompleteSet).Methods("POST", "OPTIONS").Name("complete-set")
	mainRouter.HandleFunc("/users/{id}/workout/rest/skip", handler.HandleSkipRest).Methods("POST", "OPTIONS").Name("skip-rest")
	mainRouter.HandleFunc("/users/{id}/workout/rest/pause", handler.HandlePauseRest).Methods("POST", "OPTIONS").Name("pause-rest")
	mainRouter.HandleFunc("/users/{id}/workout/rest/resume", handler.HandleResumeRest).Methods("POST", "OPTIONS").Name("resume-rest")
	mainRouter.HandleFunc("/users/{id}/workout/restart", handler.HandleRestart).Methods("POST", "OPTIONS").Name("restart-workout")

	mainRouter.HandleFunc("/users/{id}/progress", handler.HandleGetProgress).Methods("GET", "OPTIONS").Name("get-progress")
	mainRouter.HandleFunc("/users/{id}/certificate", handler.HandleGetCertificate).Methods("GET", "OPTIONS").Name("get-certificate")
	mainRouter.HandleFunc("/users/{id}/notices/certificate/ack", handler.HandleAckCertificate).Methods("POST", "OPTIONS").Name("ack-certificate")
	mainRouter.HandleFunc("/users/{id}/notices/levelup/ack", handler.HandleAckLevelUpgrade).Methods("POST", "OPTIONS").Name("ack-levelup")
}

func (handler *Handler) HandleGetPlan(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.plan.get")
	defer span.End()

	// unknown levels get the basic plan
	level, _ := plan.ParseLevel(mux.Vars(r)["level"])
	exercises := plan.LookupPlan(level)

	views := make([]ExerciseView, 0, len(exercises))
	for _, e := range exercises {
		views = append(views, ExerciseView{Exercise: e, VideoURL: e.VideoEmbedURL()})
	}

	pkg.WriteJSONResponse(w, http.StatusOK, PlanResponse{
		Level:     level,
		Title:     level.Title(),
		TotalSets: plan.TotalSets(exercises),
		Exercises: views,
	})
}

func (handler *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.start")
	defer span.End()

	userID := mux.Vars(r)["id"]
	snap, err := handler.dashboards.Get(userID).Start(ctx)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			handler.dashboards.Reset(userID)
		}
		handler.writeError(w, userID, "start workout", err)
		return
	}
	pkg.WriteJSONResponse(w, http.StatusOK, snap)
}

func (handler *Handler) HandleGetWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.get")
	defer span.End()

	userID := mux.Vars(r)["id"]
	d, ok := handler.dashboards.Lookup(userID)
	if !ok {
		http.Error(w, ErrNoWorkout.Error(), http.StatusNotFound)
		return
	}
	snap, err := d.Snapshot(ctx)
	if err != nil {
		handler.writeError(w, userID, "get workout", err)
		return
	}
	if snap.Workout == nil {
		http.Error(w, ErrNoWorkout.Error(), http.StatusNotFound)
		return
	}
	pkg.WriteJSONResponse(w, http.StatusOK, snap)
}

func (handler *Handler) HandleCompleteSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.completeSet")
	defer span.End()

	userID := mux.Vars(r)["id"]
	d, ok := handler.dashboards.Lookup(userID)
	if !ok {
		handler.writeError(w, userID, "complete set", ErrNoWorkout)
		return
	}
	snap, err := d.CompleteSet(ctx)
	if err != nil {
		handler.writeError(w, userID, "complete set", err)
		return
	}
	pkg.WriteJSONResponse(w, http.StatusOK, snap)
}

func (handler *Handler) HandleSkipRest(w http.ResponseWriter, r *http.Request) {
	handler.handleAction(w, r, "skip rest", (*Dashboard).SkipRest)
}

func (handler *Handler) HandlePauseRest(w http.ResponseWriter, r *http.Request) {
	handler.handleAction(w, r, "pause rest", (*Dashboard).PauseRest)
}

func (handler *Handler) HandleResumeRest(w http.ResponseWriter, r *http.Request) {
	handler.handleAction(w, r, "resume rest", (*Dashboard).ResumeRest)
}

func (handler *Handler) HandleRestart(w http.ResponseWriter, r *http.Request) {
	handler.handleAction(w, r, "restart workout", (*Dashboard).Restart)
}

func (handler *Handler) HandleGetProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.get")
	defer span.End()

	userID := mux.Vars(r)["id"]
	record, err := handler.progress.Progress(ctx, userID)
	if err != nil {
		handler.writeError(w, userID, "get progress", err)
		return
	}
	pkg.WriteJSONResponse(w, http.StatusOK, record)
}

func (handler *Handler) HandleGetCertificate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.certificate.get")
	defer span.End()

	userID := mux.Vars(r)["id"]
	p, err := handler.profiles.GetProfile(ctx, userID)
	if err != nil {
		handler.writeError(w, userID, "get certificate", err)
		return
	}
	record, err := handler.progress.Progress(ctx, userID)
	if err != nil {
		handler.writeError(w, userID, "get certificate", err)
		return
	}
	if record.TotalWorkouts == 0 {
		http.Error(w, "no workouts recorded yet", http.StatusNotFound)
		return
	}

	cert := progress.NewCertificate(*p, *record, handler.progress.Now())
	if r.URL.Query().Get("format") == "text" {
		pkg.WriteTextResponseOK(w, cert.Text())
		return
	}
	pkg.WriteJSONResponse(w, http.StatusOK, cert)
}

func (handler *Handler) HandleAckCertificate(w http.ResponseWriter, r *http.Request) {
	handler.handleAck(w, r, (*Dashboard).AcknowledgeCertificate)
}

func (handler *Handler) HandleAckLevelUpgrade(w http.ResponseWriter, r *http.Request) {
	handler.handleAck(w, r, (*Dashboard).AcknowledgeLevelUpgrade)
}

// handleAck answers with no notices for users without a dashboard.
func (handler *Handler) handleAck(w http.ResponseWriter, r *http.Request, ack func(d *Dashboard) Notices) {
	d, ok := handler.dashboards.Lookup(mux.Vars(r)["id"])
	if !ok {
		pkg.WriteJSONResponse(w, http.StatusOK, Notices{})
		return
	}
	pkg.WriteJSONResponse(w, http.StatusOK, ack(d))
}

func (handler *Handler) handleAction(
	w http.ResponseWriter,
	r *http.Request,
	name string,
	action func(d *Dashboard) (Snapshot, error),
) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.action")
	defer span.End()

	userID := mux.Vars(r)["id"]
	d, ok := handler.dashboards.Lookup(userID)
	if !ok {
		handler.writeError(w, userID, name, ErrNoWorkout)
		return
	}
	snap, err := action(d)
	if err != nil {
		handler.writeError(w, userID, name, err)
		return
	}
	pkg.WriteJSONResponse(w, http.StatusOK, snap)
}

func (handler *Handler) writeError(w http.ResponseWriter, userID, action string, err error) {
	switch {
	case errors.Is(err, profile.ErrProfileNotFound):
		http.Error(w, "profile not found", http.StatusNotFound)
	case errors.Is(err, ErrNoWorkout),
		errors.Is(err, session.ErrNotActive),
		errors.Is(err, session.ErrNotResting),
		errors.Is(err, session.ErrNotComplete),
		errors.Is(err, session.ErrClosed):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Errorf("%s [%s]: %s", action, userID, err)
		http.Error(w, action+" failed", http.StatusInternalServerError)
	}
}
