package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kstaniek/go-chippy-chat/internal/metrics"
)

// startMetricsLogger periodically logs a snapshot of the local counters, for
// deployments that don't scrape the Prometheus endpoint.
func startMetricsLogger(ctx context.Context, interval time.Duration, l *slog.Logger, wg *sync.WaitGroup) {
	if interval <= 0 {
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				snap := metrics.Snap()
				l.Info("metrics_snapshot",
					"decoded", snap.Decoded,
					"encoded", snap.Encoded,
					"errors", snap.Errors,
					"hub_drops", snap.Drops,
					"hub_kicks", snap.Kicks,
					"hub_clients", snap.HubClients,
					"hub_fanout", snap.Fanout,
				)
			case <-ctx.Done():
				return
			}
		}
	}()
}
