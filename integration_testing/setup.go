package integration_testing

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/2beens/fittracker/internal"
	"github.com/2beens/fittracker/internal/config"
	"github.com/2beens/fittracker/internal/storage/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

const (
	serverPort   = 9000
	serverHost   = "localhost"
	clientSecret = "integration-secret"
	dbName       = "fittracker"
	dbUser       = "postgres"
	dbPassword   = "postgres"
)

var serverEndpoint = fmt.Sprintf("http://%s:%d", serverHost, serverPort)

// Suite runs the whole service against dockerized redis and postgres.
type Suite struct {
	DB         *pgxpool.Pool
	dockerPool *dockertest.Pool
	server     *internal.Server
	teardown   []func()
}

func newSuite(ctx context.Context) (_ *Suite) {
	var err error
	suite := &Suite{
		teardown: make([]func(), 0),
	}

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	suite.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not create new dockertest pool: %s", err)
	}
	suite.dockerPool.MaxWait = 2 * time.Minute

	// uses pool to try to connect to Docker
	if err = suite.dockerPool.Client.Ping(); err != nil {
		log.Fatalf("could not ping dockertest pool: %s", err)
	}

	redisPort, err := suite.redisSetup()
	if err != nil {
		suite.cleanup()
		log.Fatalf("failed to setup redis: %s", err.Error())
	}

	pgPort, err := suite.postgresSetup(ctx)
	if err != nil {
		suite.cleanup()
		log.Fatalf("failed to setup postgres: %s", err)
	}

	cfg := getTestConfig(redisPort, pgPort)
	suite.server, err = internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			ClientSecret:            clientSecret,
			VersionInfo:             "test-version-info",
			RedisPassword:           "",
			PostgresUser:            dbUser,
			PostgresPassword:        dbPassword,
			HoneycombTracingEnabled: false,
		},
	)
	if err != nil {
		suite.cleanup()
		log.Fatalf("new server: %s", err)
	}

	suite.server.Serve(cfg.Host, cfg.Port)

	if err := suite.waitForServer(); err != nil {
		suite.cleanup()
		log.Fatalf("server not up: %s", err)
	}

	return suite
}

func (s *Suite) cleanup() {
	if s.server != nil {
		s.server.GracefulShutdown()
	}
	if s.DB != nil {
		s.DB.Close()
	}
	for _, teardown := range s.teardown {
		teardown()
	}
}

func getTestConfig(redisPort, postgresPort string) *config.Config {
	return &config.Config{
		Environment:            "test",
		Host:                   serverHost,
		Port:                   serverPort,
		PrometheusMetricsHost:  serverHost,
		PrometheusMetricsPort:  "9002",
		StorageBackend:         config.StorageBackendPostgres,
		RedisHost:              "localhost",
		RedisPort:              redisPort,
		PostgresPort:           postgresPort,
		PostgresHost:           "localhost",
		PostgresDBName:         dbName,
		Timezone:               "UTC",
		OnboardRateLimitPerMin: 100,
		SessionIdleTTL:         config.Duration{Duration: time.Hour},
		SessionSweepInterval:   config.Duration{Duration: time.Minute},
	}
}

func (s *Suite) redisSetup() (string, error) {
	redisResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return "", fmt.Errorf("run redis: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		if err := redisResource.Close(); err != nil {
			log.Printf("close redis resource: %s", err)
		}
	})

	return redisResource.GetPort("6379/tcp"), nil
}

func (s *Suite) postgresSetup(ctx context.Context) (string, error) {
	pgResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=" + dbUser,
			"POSTGRES_PASSWORD=" + dbPassword,
			"POSTGRES_DB=" + dbName,
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return "", fmt.Errorf("dockerpool run postgres: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		if err := pgResource.Close(); err != nil {
			log.Printf("close postgres resource: %s", err)
		}
	})

	pgPort := pgResource.GetPort("5432/tcp")
	poolParams := postgres.NewDBPoolParams{
		DBHost:     "localhost",
		DBPort:     pgPort,
		DBName:     dbName,
		DBUser:     dbUser,
		DBPassword: dbPassword,
	}

	// the container takes a moment before it accepts connections
	if err := s.dockerPool.Retry(func() error {
		db, err := postgres.NewDBPool(ctx, poolParams)
		if err != nil {
			return err
		}
		if err := db.Ping(ctx); err != nil {
			db.Close()
			return err
		}
		s.DB = db
		return nil
	}); err != nil {
		return "", fmt.Errorf("connect to postgres: %s", err)
	}

	return pgPort, nil
}

func (s *Suite) waitForServer() error {
	return s.dockerPool.Retry(func() error {
		resp, err := http.Get(serverEndpoint + "/plans/basic")
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status: %d", resp.StatusCode)
		}
		return nil
	})
}
