// Command signalhub runs one pod of the signaling fabric: the WebSocket
// transport, the REST health/dev-seed surface, and the Hub tying
// together presence, routing, and the cross-pod bus.
package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/oklog/run"
	"go.uber.org/zap"

	"github.com/logistics-id/signalhub/internal/broker/rabbitmq"
	"github.com/logistics-id/signalhub/internal/engine"
	"github.com/logistics-id/signalhub/internal/signaling"
	"github.com/logistics-id/signalhub/internal/store/contacts"
	"github.com/logistics-id/signalhub/internal/store/jwtauth"
	"github.com/logistics-id/signalhub/internal/store/postgres"
	"github.com/logistics-id/signalhub/internal/store/redisconn"
	"github.com/logistics-id/signalhub/internal/transport/rest"
	"github.com/logistics-id/signalhub/internal/transport/ws"
)

func main() {
	isDev := os.Getenv("APP_ENV") != "production"

	host, _ := os.Hostname()
	engine.Start(&engine.Config{
		Name:    "signalhub",
		Version: envOr("SERVICE_VERSION", "dev"),
		Host:    host,
		IsDev:   isDev,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := redisconn.NewPool(redisconn.ConfigFromEnv(), engine.Logger)
	if err != nil {
		engine.Logger.Fatal("failed to connect to redis", zap.Error(err))
	}

	db, err := postgres.NewClient(ctx, &postgres.Config{
		Server:     os.Getenv("POSTGRES_SERVER"),
		Username:   os.Getenv("POSTGRES_AUTH_USERNAME"),
		Password:   os.Getenv("POSTGRES_AUTH_PASSWORD"),
		Database:   envOr("POSTGRES_DATABASE", "signalhub"),
		Datasource: os.Getenv("POSTGRES_DATASOURCE"),
	}, engine.Logger)
	if err != nil {
		engine.Logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	bus, err := newBus(engine.Logger, pool)
	if err != nil {
		engine.Logger.Fatal("failed to connect to bus", zap.Error(err))
	}

	tokens := jwtauth.New(db)
	contactGraph := contacts.New(db)

	hub := signaling.NewHub(ctx, bus, tokens, contactGraph, pool, podID(host), engine.Logger)

	wsServer := ws.New(ws.Config{
		Hub:     hub,
		Logger:  engine.Logger,
		Origins: splitCSV(os.Getenv("ALLOWED_ORIGINS")),
		Limiter: ws.NewRedisRateLimiter(pool, engine.Logger),
	})

	restServer := rest.NewServer(&rest.Config{Server: envOr("HTTP_ADDR", ":8080"), IsDev: isDev}, engine.Logger, func(s *rest.Server) {
		s.Router.Handle("/ws", wsServer).Methods(http.MethodGet)
		if isDev {
			rest.RegisterDevRoutes(s, db)
		}
	})

	engine.DependenciesReady()

	var g run.Group

	g.Add(func() error {
		restServer.Start(ctx)
		<-ctx.Done()
		return nil
	}, func(error) {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		restServer.Shutdown(shutdownCtx)
	})

	g.Add(func() error {
		engine.WaitForShutdownSignal(2 * time.Second)
		return nil
	}, func(error) {
		cancel()
	})

	if err := g.Run(); err != nil {
		engine.Logger.Warn("service stopped", zap.Error(err))
	}
}

func newBus(logger *zap.Logger, pool *redis.Pool) (signaling.Bus, error) {
	if os.Getenv("BUS_BACKEND") == "rabbitmq" {
		return rabbitmq.New(&rabbitmq.Config{
			Datasource: os.Getenv("RABBITMQ_DATASOURCE"),
			Durable:    true,
		}, logger)
	}
	return signaling.NewRedisBus(pool, logger), nil
}

func podID(host string) string {
	if v := os.Getenv("POD_ID"); v != "" {
		return v
	}
	return host
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}
