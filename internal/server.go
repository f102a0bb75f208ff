package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/fittracker/internal/config"
	"github.com/2beens/fittracker/internal/dashboard"
	"github.com/2beens/fittracker/internal/middleware"
	"github.com/2beens/fittracker/internal/profile"
	"github.com/2beens/fittracker/internal/progress"
	"github.com/2beens/fittracker/internal/storage/cache"
	"github.com/2beens/fittracker/internal/storage/kv"
	"github.com/2beens/fittracker/internal/storage/postgres"
	"github.com/2beens/fittracker/internal/telemetry/metrics"
	"github.com/2beens/fittracker/internal/telemetry/tracing"
	"github.com/2beens/fittracker/pkg"
)

const (
	serviceName = "fittracker-backend"
	// profiles are a handful of short strings
	maxRequestBodyBytes = 16 << 10
)

type profileStore interface {
	CreateProfile(ctx context.Context, userID string, p profile.Profile) error
	GetProfile(ctx context.Context, userID string) (*profile.Profile, error)
	UpdateProfile(ctx context.Context, userID string, p profile.Profile) error
}

type recordStore interface {
	GetRecord(ctx context.Context, userID string) (*progress.Record, error)
	SaveRecord(ctx context.Context, userID string, record progress.Record) error
}

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	clientSecret      string // shared with the web client
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	rateLimiter middleware.RequestRateLimiter

	profiles   *cache.ProfilesCache
	tracker    *progress.Tracker
	dashboards *dashboard.Manager

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	ClientSecret            string
	VersionInfo             string
	RedisPassword           string
	PostgresUser            string
	PostgresPassword        string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})
	if params.HoneycombTracingEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	var (
		dbPool          *pgxpool.Pool
		profiles        profileStore
		records         recordStore
		extraCollectors []prometheus.Collector
	)
	switch cfg.StorageBackend {
	case config.StorageBackendPostgres:
		poolParams := postgres.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         params.PostgresUser,
			DBPassword:     params.PostgresPassword,
			TracingEnabled: params.HoneycombTracingEnabled,
		}
		if err := postgres.RunMigrations(poolParams.ConnString()); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}

		var err error
		dbPool, err = postgres.NewDBPool(ctx, poolParams)
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}

		extraCollectors = append(extraCollectors, pgxpoolprometheus.NewCollector(
			dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
		profiles = postgres.NewProfilesRepo(dbPool)
		records = postgres.NewRecordsRepo(dbPool)
	case config.StorageBackendRedis:
		store := kv.NewStore(rdb)
		profiles = store
		records = store
	default:
		return nil, fmt.Errorf("unknown storage backend: [%s]", cfg.StorageBackend)
	}
	log.Debugf("using [%s] storage backend", cfg.StorageBackend)

	promRegistry := metrics.SetupPrometheus(extraCollectors...)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, serviceName)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	s := newServer(cfg, profiles, records, redis_rate.NewLimiter(rdb), loc, metricsManager)
	s.clientSecret = params.ClientSecret
	s.versionInfo = params.VersionInfo
	s.dbPool = dbPool
	s.redisClient = rdb
	s.promRegistry = promRegistry
	s.otelShutdown = otelShutdown

	if err := s.dashboards.StartSweeper(cfg.SessionSweepInterval.Duration); err != nil {
		return nil, fmt.Errorf("start session sweeper: %w", err)
	}

	return s, nil
}

// newServer assembles the domain services on top of the given stores.
func newServer(
	cfg *config.Config,
	profiles profileStore,
	records recordStore,
	rateLimiter middleware.RequestRateLimiter,
	loc *time.Location,
	metricsManager *metrics.Manager,
) *Server {
	profilesCache := cache.NewProfilesCache(profiles, cfg.ProfileCacheSizeBytes)
	tracker := progress.NewTracker(profilesCache, records, loc, metricsManager)
	dashboards := dashboard.NewManager(
		profilesCache,
		tracker,
		cfg.RestTickInterval.Duration,
		cfg.SessionIdleTTL.Duration,
		metricsManager,
	)

	return &Server{
		config:         cfg,
		rateLimiter:    rateLimiter,
		profiles:       profilesCache,
		tracker:        tracker,
		dashboards:     dashboards,
		metricsManager: metricsManager,
		otelShutdown:   func() {},
	}
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	r.HandleFunc("/", s.handleRoot).Methods("GET").Name("root")

	profileHandler := profile.NewHandler(profile.NewService(s.profiles), s.dashboards)
	profileHandler.SetupRoutes(r, s.rateLimiter, s.metricsManager, s.config.OnboardRateLimitPerMin)

	dashboardHandler := dashboard.NewHandler(s.dashboards, s.profiles, s.tracker)
	dashboardHandler.SetupRoutes(r)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.clientSecret)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.BoundedBody(maxRequestBodyBytes))

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	msg := "fittracker"
	if s.versionInfo != "" {
		msg += " " + s.versionInfo
	}
	pkg.WriteTextResponseOK(w, msg)
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      otelhttp.NewHandler(router, "fittracker-http"),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// stop taking requests before the stores go away
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	s.dashboards.Close()
	log.Debugln("workout dashboards closed")

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}
