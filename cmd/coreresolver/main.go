// Command coreresolver is the process entrypoint: parse the --config
// flag, load config, wire the pipeline, and serve until signalled to
// stop. The CLI surface is deliberately thin, argument-parsing
// engineering is an external concern, not part of the core.
package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/semihalev/log"
	"github.com/spf13/cobra"

	"github.com/dnsresolver/coreresolver/altnaming"
	"github.com/dnsresolver/coreresolver/blocklist"
	"github.com/dnsresolver/coreresolver/cache"
	"github.com/dnsresolver/coreresolver/config"
	"github.com/dnsresolver/coreresolver/resolver"
	"github.com/dnsresolver/coreresolver/server"
	"github.com/dnsresolver/coreresolver/upstream"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "coreresolver",
	Short: "recursive/forwarding DNS resolver core",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(configPath)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "coreresolver.toml", "location of the config file, generated if missing")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Crit("fatal error", "error", err.Error())
		os.Exit(1)
	}
}

func run(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	lvl, err := log.LvlFromString(cfg.LogLevel)
	if err != nil {
		log.Crit("log verbosity level unknown", "level", cfg.LogLevel)
		return err
	}
	log.Root().SetLevel(lvl)
	log.Root().SetHandler(log.LvlFilterHandler(lvl, log.StdoutHandler))

	log.Info("starting coreresolver")

	c := cache.New(cache.Sizes{L1: cfg.CacheSizeL1, L2: cfg.CacheSizeL2, L3: cfg.CacheSizeL3})
	defer c.Stop()

	mode := blocklist.ModeSuffix
	if cfg.BlocklistMode == "exact" {
		mode = blocklist.ModeExact
	}

	var blockStage resolver.Stage
	if cfg.BlocklistFile != "" {
		watcher, err := config.NewBlocklistWatcher(cfg.BlocklistFile, mode)
		if err != nil {
			return err
		}
		defer watcher.Stop()
		blockStage = resolver.NewBlocklistStage(watcher)
	} else {
		blockStage = resolver.NewBlocklistStage(blocklist.New(mode))
	}

	ups := make([]*upstream.Upstream, 0, len(cfg.Upstreams))
	for _, uc := range cfg.Upstreams {
		u := upstream.New(uc.ID, uc.Address, uc.Weight, uc.Capacity)
		if uc.HasLocation {
			u.Location = upstream.GeoPoint{Lat: uc.Lat, Lon: uc.Lon}
			u.HasLocation = true
		}
		for _, qtype := range uc.Specialisation {
			u.Specialisation[qtype] = struct{}{}
		}
		ups = append(ups, u)
	}

	lb := upstream.NewLoadBalancer(ups, upstream.UDPTransport{}, upstream.Strategy(cfg.Strategy), cfg.MaxRetries)
	go lb.Health().Run(ups)
	defer lb.Health().Stop()

	dispatcher := altnaming.DefaultDispatcher()

	pipeline := resolver.New(
		resolver.NewAltNamingStage(dispatcher, c),
		blockStage,
		resolver.NewCacheStage(c),
		resolver.NewUpstreamStage(lb, c),
	)

	if cfg.MetricsBind != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.MetricsBind, mux); err != nil {
				log.Error("metrics server stopped", "error", err.Error())
			}
		}()
		log.Info("serving metrics", "bind", cfg.MetricsBind)
	}

	srv := server.New(cfg.Bind, pipeline)
	stop := make(chan struct{})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(stop)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sig:
		log.Info("stopping coreresolver")
		close(stop)
		return nil
	}
}
