// Package handlers manages the different versions of the API.
package handlers

import (
	"encoding/json"
	"expvar"
	"net/http"
	"net/http/pprof"

	"github.com/ardanlabs/blockseal/foundation/network"
	"github.com/dimfeld/httptreemux/v5"
	"go.uber.org/zap"
)

const version = "v1"

// MuxConfig contains all the mandatory systems required by handlers.
type MuxConfig struct {
	Build string
	Log   *zap.SugaredLogger
	Hub   *network.Hub
}

// APIMux constructs a http.Handler with all application routes defined.
func APIMux(cfg MuxConfig) http.Handler {
	mux := httptreemux.NewContextMux()

	h := relay{
		build: cfg.Build,
		log:   cfg.Log,
		hub:   cfg.Hub,
	}

	mux.Handle(http.MethodGet, "/"+version+"/relay", h.relay)
	mux.Handle(http.MethodGet, "/"+version+"/status", h.status)

	return mux
}

// DebugMux registers all the debug routes from the standard library into a
// new mux bypassing the use of the DefaultServerMux. Using the
// DefaultServerMux would be a security risk since a dependency could inject a
// handler into our service without us knowing it.
func DebugMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/debug/vars", expvar.Handler())

	return mux
}

// =============================================================================

type relay struct {
	build string
	log   *zap.SugaredLogger
	hub   *network.Hub
}

// relay upgrades the connection to a websocket and joins it to the hub.
func (h relay) relay(w http.ResponseWriter, r *http.Request) {
	if err := h.hub.Serve(w, r); err != nil {
		h.log.Errorw("relay", "remote", r.RemoteAddr, "ERROR", err)
	}
}

// status returns the build and the number of connections to the hub.
func (h relay) status(w http.ResponseWriter, r *http.Request) {
	resp := struct {
		Status      string `json:"status"`
		Build       string `json:"build"`
		Connections int    `json:"connections"`
	}{
		Status:      "ok",
		Build:       h.build,
		Connections: h.hub.Len(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.Errorw("status", "ERROR", err)
	}
}
