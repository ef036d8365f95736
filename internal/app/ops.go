package app

import (
	"fmt"
	"net/http"

	"github.com/valyala/fasthttp"

	"pirsvc/pkg/httpx"
	"pirsvc/pkg/logger"
)

// startOps starts the optional ops listener: a second, unauthenticated
// port serving only liveness and readiness, so orchestrator probes never
// contend with API traffic or trip the rate limiter. Returns a channel
// carrying any fatal listener error and a stop func.
func (a *App) startOps() (<-chan error, func(), error) {
	errCh := make(chan error, 1)
	addr := a.eff.Config.Server.Ops.Address
	if addr == "" {
		return errCh, func() {}, nil
	}

	handler := func(w httpx.ResponseWriter, r *httpx.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Path {
		case "/healthz":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		case "/readyz":
			if !storeReady(a.driver) {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"not ready"}`))
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"message":"not found"}}`))
		}
	}

	engine := a.eff.Config.Server.Ops.Engine
	switch engine {
	case "", "fasthttp":
		srv := &fasthttp.Server{Handler: httpx.FastHTTP(handler)}
		go func() {
			logger.Info("ops_listener_started", "addr", addr, "engine", "fasthttp")
			if err := srv.ListenAndServe(addr); err != nil {
				errCh <- err
			}
		}()
		return errCh, func() { _ = srv.Shutdown() }, nil
	case "nethttp":
		srv := &http.Server{Addr: addr, Handler: httpx.NetHTTP(handler)}
		go func() {
			logger.Info("ops_listener_started", "addr", addr, "engine", "nethttp")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()
		return errCh, func() { _ = srv.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown ops listener engine %q", engine)
	}
}
