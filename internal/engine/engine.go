// Package engine provides process-level bootstrap: configuration, the
// shared logger, and shutdown-signal handling. It mirrors the teacher's
// root-level engine package, scoped down to what a single signaling pod
// needs.
package engine

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/logistics-id/signalhub/internal/log"
	"go.uber.org/zap"
)

// Config holds pod-wide identity and mode settings.
type Config struct {
	Name    string
	Version string
	Host    string
	IsDev   bool
}

var (
	Service               *Config
	Logger                *zap.Logger
	dependenciesReadyOnce sync.Once
	dependenciesReady     = make(chan struct{})
)

// Start initializes the service configuration and logger.
func Start(cfg *Config) *Config {
	Service = cfg
	Logger = NewLogger(cfg.Name)
	Logger.Info(fmt.Sprintf("starting service: %s", Service.Name), zap.String("version", cfg.Version))

	return Service
}

// NewLogger creates a named logger using the global config.
func NewLogger(name string) *zap.Logger {
	return log.BuildLogger(Service.IsDev).Named(name).With(zap.String("host", Service.Host))
}

// DependenciesReady should be called once after dependencies (bus,
// store) have finished connecting.
func DependenciesReady() {
	dependenciesReadyOnce.Do(func() {
		close(dependenciesReady)
	})
}

// WaitForDependencies blocks until dependencies are ready.
func WaitForDependencies() {
	<-dependenciesReady
}

// Ready reports whether DependenciesReady has been called, without
// blocking. Used by the /readyz handler.
func Ready() bool {
	select {
	case <-dependenciesReady:
		return true
	default:
		return false
	}
}

// WaitForShutdownSignal blocks until SIGINT/SIGTERM, then gives
// in-flight work a short grace period to drain.
func WaitForShutdownSignal(grace time.Duration) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	Logger.Info(fmt.Sprintf("shutdown service: %s", Service.Name))
	time.Sleep(grace)
}
