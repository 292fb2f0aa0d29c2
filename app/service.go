package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kilianp07/mealprep/api/schedule"
	"github.com/kilianp07/mealprep/config"
	coremetrics "github.com/kilianp07/mealprep/core/metrics"
	coremon "github.com/kilianp07/mealprep/core/monitoring"
	"github.com/kilianp07/mealprep/core/planner"
	"github.com/kilianp07/mealprep/infra/logger"
	"github.com/kilianp07/mealprep/infra/metrics"
	"github.com/kilianp07/mealprep/infra/monitoring"
	"github.com/kilianp07/mealprep/infra/mqtt"
	"github.com/kilianp07/mealprep/internal/eventbus"
)

// Service wires the planner to its HTTP API, metrics sinks and MQTT publisher.
type Service struct {
	Planner *planner.Planner

	cfg       *config.Config
	bus       *eventbus.Bus
	sink      coremetrics.MetricsSink
	publisher *mqtt.Publisher
	monitor   coremon.Monitor
	log       logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}
	logg := logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	var pub *mqtt.Publisher
	if cfg.MQTT.Enabled() {
		pub, err = mqtt.NewPublisher(cfg.MQTT, mon)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
	}

	bus := eventbus.New()
	return &Service{
		Planner:   planner.New(cfg.Planner, bus, logger.New("planner")),
		cfg:       cfg,
		bus:       bus,
		sink:      sink,
		publisher: pub,
		monitor:   mon,
		log:       logg,
	}, nil
}

// Start launches the event consumers. They stop when ctx is done.
func (s *Service) Start(ctx context.Context) {
	metrics.StartEventCollector(ctx, s.bus, s.sink)
	if s.publisher != nil {
		s.publisher.Start(ctx, s.bus)
	}
}

// Handler returns the HTTP routes of the service.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	schedule.Register(mux, s.Planner, s.cfg.API.Token, s.cfg.API.MaxTasks)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":         "ok",
			"events_dropped": s.bus.Dropped(),
		})
	})
	if s.cfg.Metrics.PrometheusEnabled() {
		mux.Handle("/metrics", promhttp.Handler())
	}
	return schedule.Recover(s.monitor, s.log, mux)
}

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.API.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve runs the HTTP API on ln until ctx is cancelled, then shuts it down
// gracefully.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	s.Start(ctx)
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.cfg.API.ReadTimeout(),
		ReadTimeout:       s.cfg.API.ReadTimeout(),
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		s.monitor.CaptureException(err, map[string]string{"module": "http"})
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.API.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Infof("server stopped")
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.publisher != nil {
		s.publisher.Disconnect()
	}
	s.monitor.Flush(2 * time.Second)
	return nil
}
