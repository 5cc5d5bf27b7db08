// Package server provides process lifecycle management: services run under a
// shared context that is cancelled on SIGINT or SIGTERM.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// DefaultShutdownTimeout bounds how long Run waits for services after Stop.
const DefaultShutdownTimeout = 5 * time.Second

// ErrInterrupted is returned by Run when a termination signal ended the run.
var ErrInterrupted = errors.New("interrupted")

// Service represents a component run by a Lifecycle.
type Service interface {
	// Start runs the service. It blocks until the work is finished, ctx is
	// done or Stop is called.
	Start(ctx context.Context) error
	// Stop asks a running service to return from Start.
	Stop()
}

// FuncService adapts a start/stop function pair into the Service interface.
// A nil StopFn is a no-op.
type FuncService struct {
	StartFn func(ctx context.Context) error
	StopFn  func()
}

// Start calls the underlying start function.
func (f *FuncService) Start(ctx context.Context) error { return f.StartFn(ctx) }

// Stop calls the underlying stop function.
func (f *FuncService) Stop() {
	if f.StopFn != nil {
		f.StopFn()
	}
}

// Lifecycle runs named services and stops them in reverse order.
type Lifecycle struct {
	logger   *zap.Logger
	services []namedService
	mu       sync.Mutex

	// ShutdownTimeout overrides DefaultShutdownTimeout when positive.
	ShutdownTimeout time.Duration

	notify func(chan<- os.Signal)
}

type namedService struct {
	name    string
	service Service
}

type exit struct {
	name string
	err  error
}

// NewLifecycle creates a new Lifecycle manager.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{
		logger: logger,
		notify: func(c chan<- os.Signal) { signal.Notify(c, syscall.SIGINT, syscall.SIGTERM) },
	}
}

// Add registers a named service. Services are started in the order they are added.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, namedService{name: name, service: svc})
}

// Run starts all services and blocks until the first of them returns, a
// termination signal arrives or ctx is done. The shared service context is
// then cancelled, services are stopped in reverse order, and Run waits up to
// the shutdown timeout for the remaining Start calls to return.
//
// Postcondition: Returns the first service error, an error wrapping
// ErrInterrupted after a signal, ctx.Err() after cancellation, or nil when a
// service finished cleanly.
func (l *Lifecycle) Run(ctx context.Context) error {
	start := time.Now()
	l.mu.Lock()
	services := append([]namedService(nil), l.services...)
	l.mu.Unlock()

	svcCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	exits := make(chan exit, len(services))
	for _, ns := range services {
		go func() {
			l.logger.Info("starting service", zap.String("service", ns.name))
			svcStart := time.Now()
			err := ns.service.Start(svcCtx)
			if err != nil {
				l.logger.Error("service failed",
					zap.String("service", ns.name),
					zap.Error(err),
					zap.Duration("uptime", time.Since(svcStart)),
				)
			} else {
				l.logger.Info("service finished",
					zap.String("service", ns.name),
					zap.Duration("uptime", time.Since(svcStart)),
				)
			}
			exits <- exit{name: ns.name, err: err}
		}()
	}
	l.logger.Info("all services started",
		zap.Int("count", len(services)),
		zap.Duration("startup", time.Since(start)),
	)

	sigCh := make(chan os.Signal, 1)
	l.notify(sigCh)
	defer signal.Stop(sigCh)

	var result error
	pending := len(services)
	if pending > 0 {
		select {
		case sig := <-sigCh:
			l.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
			result = fmt.Errorf("%w by %s", ErrInterrupted, sig)
		case e := <-exits:
			pending--
			switch {
			case e.err != nil:
				result = fmt.Errorf("service %s: %w", e.name, e.err)
			case ctx.Err() != nil:
				result = ctx.Err()
			}
		case <-ctx.Done():
			l.logger.Info("context cancelled, shutting down")
			result = ctx.Err()
		}
	}

	cancel()
	l.shutdown(services)
	l.wait(exits, pending)

	l.logger.Info("shutdown complete", zap.Duration("total_uptime", time.Since(start)))
	return result
}

func (l *Lifecycle) shutdown(services []namedService) {
	shutdownStart := time.Now()
	for i := len(services) - 1; i >= 0; i-- {
		ns := services[i]
		svcStart := time.Now()
		l.logger.Info("stopping service", zap.String("service", ns.name))
		ns.service.Stop()
		l.logger.Info("service stopped",
			zap.String("service", ns.name),
			zap.Duration("elapsed", time.Since(svcStart)),
		)
	}
	l.logger.Info("all services stopped", zap.Duration("shutdown_elapsed", time.Since(shutdownStart)))
}

// wait collects the remaining exits until the shutdown timeout.
func (l *Lifecycle) wait(exits <-chan exit, pending int) {
	timeout := l.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for ; pending > 0; pending-- {
		select {
		case <-exits:
		case <-deadline.C:
			l.logger.Warn("services still running after shutdown timeout",
				zap.Int("pending", pending),
				zap.Duration("timeout", timeout),
			)
			return
		}
	}
}
