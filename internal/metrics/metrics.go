// Package metrics exposes the process's Prometheus series and a cheap
// locally-mirrored snapshot for logging, the way the rest of this module's
// ambient stack does it: promauto registration at package init, atomic
// counters mirrored alongside for in-process reads that don't want to pay
// for a scrape.
package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kstaniek/go-chippy-chat/internal/logging"
)

var (
	FramesDecoded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "frames_decoded_total",
		Help: "Total protocol frames decoded, by direction and tag.",
	}, []string{"direction", "tag"})
	FramesEncoded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "frames_encoded_total",
		Help: "Total protocol frames encoded, by direction and tag.",
	}, []string{"direction", "tag"})
	DecodeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "frame_decode_errors_total",
		Help: "Total frame decode failures, by direction and error kind.",
	}, []string{"direction", "kind"})
	HubActiveClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hub_active_clients",
		Help: "Current number of connected chat clients.",
	})
	HubBroadcastFanout = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hub_broadcast_fanout",
		Help: "Number of clients targeted in the most recent broadcast.",
	})
	HubDroppedMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hub_dropped_messages_total",
		Help: "Total messages dropped by the hub due to a slow client under the drop policy.",
	})
	HubKickedClients = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hub_kicked_clients_total",
		Help: "Total clients disconnected due to the kick backpressure policy.",
	})
	PlayersIntroduced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "players_introduced_total",
		Help: "Total successful player introductions.",
	})
	PotValue = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pot_current_value",
		Help: "Current value of the shared pot.",
	})
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "build_info",
		Help: "Build metadata (value is always 1).",
	}, []string{"version", "commit", "date"})

	readinessMu sync.RWMutex
	readinessFn func() bool
)

// Direction label values; kept stable and small to bound series cardinality.
const (
	DirToServer = "to_server"
	DirToClient = "to_client"
)

// StartHTTP serves Prometheus metrics at /metrics and a readiness probe at
// /ready.
func StartHTTP(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if IsReady() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready\n"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready\n"))
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logging.L().Info("metrics_listen", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.L().Error("metrics_http_error", "error", err)
		}
	}()
	return srv
}

// Local mirrored counters, for cheap in-process logging without scraping.
var (
	localDecoded  uint64
	localEncoded  uint64
	localErrors   uint64
	localDrops    uint64
	localKicks    uint64
	localHubSize  uint64
	localFanout   uint64
)

// Snapshot is a cheap copy of the local counters.
type Snapshot struct {
	Decoded    uint64
	Encoded    uint64
	Errors     uint64
	Drops      uint64
	Kicks      uint64
	HubClients uint64
	Fanout     uint64
}

func Snap() Snapshot {
	return Snapshot{
		Decoded:    atomic.LoadUint64(&localDecoded),
		Encoded:    atomic.LoadUint64(&localEncoded),
		Errors:     atomic.LoadUint64(&localErrors),
		Drops:      atomic.LoadUint64(&localDrops),
		Kicks:      atomic.LoadUint64(&localKicks),
		HubClients: atomic.LoadUint64(&localHubSize),
		Fanout:     atomic.LoadUint64(&localFanout),
	}
}

func IncDecoded(direction string, tag byte) {
	FramesDecoded.WithLabelValues(direction, tagLabel(tag)).Inc()
	atomic.AddUint64(&localDecoded, 1)
}

func IncEncoded(direction string, tag byte) {
	FramesEncoded.WithLabelValues(direction, tagLabel(tag)).Inc()
	atomic.AddUint64(&localEncoded, 1)
}

func IncDecodeError(direction, kind string) {
	DecodeErrors.WithLabelValues(direction, kind).Inc()
	atomic.AddUint64(&localErrors, 1)
}

func IncHubDrop() {
	HubDroppedMessages.Inc()
	atomic.AddUint64(&localDrops, 1)
}

func IncHubKick() {
	HubKickedClients.Inc()
	atomic.AddUint64(&localKicks, 1)
}

func SetHubClients(n int) {
	HubActiveClients.Set(float64(n))
	atomic.StoreUint64(&localHubSize, uint64(n))
}

func SetBroadcastFanout(n int) {
	HubBroadcastFanout.Set(float64(n))
	atomic.StoreUint64(&localFanout, uint64(n))
}

func IncPlayerIntroduced() { PlayersIntroduced.Inc() }

func SetPotValue(v uint32) { PotValue.Set(float64(v)) }

// InitBuildInfo sets the build info gauge; call once at startup.
func InitBuildInfo(version, commit, date string) {
	BuildInfo.WithLabelValues(version, commit, date).Set(1)
}

// SetReadinessFunc registers the function /ready and IsReady query.
func SetReadinessFunc(fn func() bool) { readinessMu.Lock(); readinessFn = fn; readinessMu.Unlock() }

func IsReady() bool {
	readinessMu.RLock()
	fn := readinessFn
	readinessMu.RUnlock()
	if fn == nil {
		return true
	}
	return fn()
}

func tagLabel(tag byte) string {
	switch tag {
	case 1:
		return "text"
	case 2:
		return "admin"
	case 3:
		return "introduction"
	case 10:
		return "add_to_pot"
	case 11:
		return "pot"
	case 20:
		return "start_info_or_all_players"
	case 21:
		return "specific_player"
	default:
		return "unknown"
	}
}
