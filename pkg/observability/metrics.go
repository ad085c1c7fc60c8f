// Package observability serves the prometheus metrics endpoint.
package observability

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	mu     sync.Mutex
	server *http.Server
)

// StartMetricsServer serves /metrics on addr until ctx is done or
// StopMetricsServer is called. It blocks while the server runs.
func StartMetricsServer(ctx context.Context, log logrus.FieldLogger, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 15 * time.Second,
	}

	mu.Lock()
	server = srv
	mu.Unlock()

	go func() {
		<-ctx.Done()

		_ = StopMetricsServer(context.Background())
	}()

	log.WithField("addr", addr).Info("Starting metrics server")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// StopMetricsServer shuts the running metrics server down, if any.
func StopMetricsServer(ctx context.Context) error {
	mu.Lock()
	srv := server
	server = nil
	mu.Unlock()

	if srv == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
