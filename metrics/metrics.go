// Package metrics exposes prometheus instrumentation for the VDU command
// stream engine.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for BufferedCommands
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
	OutcomeAborted  = "aborted"
	OutcomeIgnored  = "ignored"
)

var (
	BufferedCommands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vdp_buffered_commands_total",
			Help: "Buffered sub-commands processed, by command and outcome",
		},
		[]string{"command", "outcome"},
	)

	SystemCommands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vdp_system_commands_total",
			Help: "VDU 23,0 system commands dispatched, by name",
		},
		[]string{"command"},
	)

	BuffersStored = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vdp_buffers_stored",
		Help: "Number of buffer ids currently held, summed over every store in the process",
	})

	ReplayDepth = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "vdp_replay_depth",
		Help:    "Nesting depth at which buffer replays start",
		Buckets: []float64{1, 2, 4, 8, 16, 32, 64},
	})

	CapturedBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vdp_captured_bytes_total",
		Help: "Bytes captured into buffers by write commands",
	})
)

func init() {
	prometheus.MustRegister(BufferedCommands, SystemCommands, BuffersStored, ReplayDepth, CapturedBytes)
}

// Serve exposes /metrics on addr until ctx is cancelled
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
