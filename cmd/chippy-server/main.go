// Command chippy-server accepts chat/pot connections over raw TCP and, if
// configured, an HTTP-upgraded binary WebSocket endpoint, and fans traffic
// between them through a shared in-memory room.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/kstaniek/go-chippy-chat/internal/chatserver"
	"github.com/kstaniek/go-chippy-chat/internal/metrics"
)

func main() {
	cfg, showVersion := parseFlags()
	if showVersion {
		fmt.Printf("chippy-server %s (commit %s, built %s)\n", version, commit, date)
		return
	}
	if cfg == nil {
		os.Exit(2)
	}
	l := setupLogger(cfg.logFormat, cfg.logLevel)
	h := initHub(cfg, l)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var wg sync.WaitGroup
	startMetricsLogger(ctx, cfg.logMetricsEvery, l, &wg)

	srv := chatserver.NewServer(
		chatserver.WithListenAddr(cfg.listenAddr),
		chatserver.WithHub(h),
		chatserver.WithRoom(chatserver.NewRoom()),
		chatserver.WithLogger(l),
		chatserver.WithMaxClients(cfg.maxClients),
		chatserver.WithReadDeadline(cfg.clientReadTO),
	)

	go func() {
		if err := srv.Serve(ctx); err != nil {
			l.Error("tcp_server_error", "error", err)
			cancel()
		}
	}()

	var wsHTTP *http.Server
	if cfg.wsAddr != "" {
		mux := http.NewServeMux()
		mux.HandleFunc(cfg.wsPath, srv.ServeWS)
		wsHTTP = &http.Server{Addr: cfg.wsAddr, Handler: mux}
		go func() {
			l.Info("ws_listen", "addr", cfg.wsAddr, "path", cfg.wsPath)
			if err := wsHTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				l.Error("ws_server_error", "error", err)
			}
		}()
	}

	go func() {
		if !cfg.mdnsEnable {
			return
		}
		select {
		case <-srv.Ready():
		case <-ctx.Done():
			return
		}
		port := portOf(srv.Addr())
		cleanupMDNS, err := startMDNS(ctx, cfg, port)
		if err != nil {
			l.Warn("mdns_start_failed", "error", err)
			return
		}
		l.Info("mdns_started", "service", mdnsServiceType, "name", cfg.mdnsName, "port", port)
		go func() { <-ctx.Done(); cleanupMDNS() }()
	}()

	metrics.SetReadinessFunc(func() bool {
		select {
		case <-srv.Ready():
		default:
			return false
		}
		return ctx.Err() == nil
	})
	var metricsHTTP *http.Server
	if cfg.metricsAddr != "" {
		metrics.InitBuildInfo(version, commit, date)
		metricsHTTP = metrics.StartHTTP(cfg.metricsAddr)
	}

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigCh
	l.Info("shutdown_signal", "signal", s.String())
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Warn("shutdown_error", "error", err)
	}
	if wsHTTP != nil {
		_ = wsHTTP.Shutdown(shutdownCtx)
	}
	if metricsHTTP != nil {
		_ = metricsHTTP.Shutdown(shutdownCtx)
	}
	wg.Wait()
}

func portOf(addr string) int {
	if _, p, err := net.SplitHostPort(addr); err == nil {
		if n, err := strconv.Atoi(p); err == nil {
			return n
		}
	}
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		if n, err := strconv.Atoi(addr[i+1:]); err == nil {
			return n
		}
	}
	return 0
}
