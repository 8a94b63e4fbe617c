// main.go — netcapture control-plane binary. Wires a Session Controller to
// an HTTP surface for state inspection and Prometheus scraping; the
// NavigationHost itself is the embedding application's responsibility
// (host.go: "production wiring lives outside this repo's scope"), so this
// binary exposes only /metrics, /state and /stop; it has no /start
// endpoint, since starting a session needs a real host.NavigationHost that
// only the embedding host process can construct.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/brennhill/netcapture/internal/config"
	"github.com/brennhill/netcapture/internal/logging"
	"github.com/brennhill/netcapture/internal/metrics"
	"github.com/brennhill/netcapture/internal/session"
	"github.com/brennhill/netcapture/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("netcapture", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML configuration file (spec §6)")
	addr := fs.String("addr", ":9090", "address to serve /state and /metrics on")
	dev := fs.Bool("dev", false, "use zap's development logger instead of production")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := types.Configuration{}
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "netcapture: load config: %v\n", err)
			return 2
		}
		cfg = loaded
	}

	zl, err := newZapLogger(*dev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "netcapture: build logger: %v\n", err)
		return 1
	}
	defer zl.Sync() //nolint:errcheck

	registry := prometheus.NewRegistry()
	ctrl := session.New(cfg,
		session.WithMetrics(metrics.New(registry)),
		session.WithLogger(logging.New(zl)),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/state", stateHandler(ctrl))
	mux.HandleFunc("/stop", stopHandler(ctrl))

	zl.Info("netcapture listening", zap.String("addr", *addr))
	if err := http.ListenAndServe(*addr, mux); err != nil {
		fmt.Fprintf(os.Stderr, "netcapture: serve: %v\n", err)
		return 1
	}
	return 0
}

func newZapLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func stateHandler(ctrl *session.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ctrl.GetState())
	}
}

func stopHandler(ctrl *session.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		res := ctrl.Stop()
		w.Header().Set("Content-Type", "application/json")
		if !res.OK {
			w.WriteHeader(http.StatusConflict)
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}
