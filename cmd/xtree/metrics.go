package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/xlog"
)

// metricsServer exposes the default prometheus registry, the otel
// prometheus exporter registers the tree instruments there.
type metricsServer struct {
	addr   string
	logger xlog.XLogger
	srv    *http.Server
	ln     net.Listener
	wg     sync.WaitGroup
}

func newMetricsServer(addr string, logger xlog.XLogger) *metricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &metricsServer{
		addr:   addr,
		logger: logger.Named("metrics"),
		srv: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

func (m *metricsServer) start(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", m.addr)
	if err != nil {
		return err
	}
	m.ln = ln
	m.logger.Info("serving metrics", zap.String("addr", ln.Addr().String()))

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error(err, "metrics server exited")
		}
	}()
	return nil
}

func (m *metricsServer) stop(ctx context.Context) error {
	err := m.srv.Shutdown(ctx)
	m.wg.Wait()
	return err
}

func registerMetricsServer(lc fx.Lifecycle, m *metricsServer) {
	lc.Append(fx.Hook{
		OnStart: m.start,
		OnStop:  m.stop,
	})
}
