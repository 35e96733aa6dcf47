// ganesha-exporter serves NFS-Ganesha runtime statistics as Prometheus
// metrics over HTTP. It queries a running ganesha daemon over DBus on
// every scrape; nothing is cached between scrapes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marmos91/ganesha-exporter/internal/logger"
	"github.com/marmos91/ganesha-exporter/pkg/collector"
	"github.com/marmos91/ganesha-exporter/pkg/config"
	"github.com/marmos91/ganesha-exporter/pkg/ganesha"
	"github.com/marmos91/ganesha-exporter/pkg/metrics"
)

// goodbye prints a parting message and exits after a short delay. The
// delay gives log shippers a chance to drain before the process vanishes.
func goodbye(exitCode int, msg string) {
	if msg != "" {
		fmt.Fprintln(os.Stderr, msg)
	}
	time.Sleep(1 * time.Second)
	os.Exit(exitCode)
}

func usage(exitCode int) {
	goodbye(exitCode, os.Args[0]+" [--port=PORT] [--config=PATH] [--log-level=LEVEL]")
}

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	var (
		port       int
		configPath string
		logLevel   string
	)
	fs.IntVar(&port, "port", metrics.DefaultPort, "port to serve metrics on")
	fs.IntVar(&port, "p", metrics.DefaultPort, "port to serve metrics on (shorthand)")
	fs.StringVar(&configPath, "config", "", "path to config file")
	fs.StringVar(&logLevel, "log-level", "", "log level (DEBUG, INFO, WARN, ERROR)")

	if err := fs.Parse(os.Args[1:]); err != nil {
		usage(1)
	}
	if fs.NArg() > 0 {
		usage(2)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		goodbye(1, err.Error())
	}

	// Explicit flags win over config file and environment.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port", "p":
			cfg.Server.Port = port
		case "log-level":
			cfg.Logging.Level = logLevel
		}
	})
	logger.SetLevel(cfg.Logging.Level)

	src, err := ganesha.NewDBusSource(ganesha.DBusConfig{
		UseSessionBus: cfg.Ganesha.SessionBus,
		CallTimeout:   cfg.Ganesha.CallTimeout,
	})
	if err != nil {
		goodbye(1, err.Error())
	}
	defer src.Close()

	// One global-stats probe before serving: a daemon that cannot answer
	// now will not answer scrapes either, better to fail at startup.
	probeCtx, cancel := context.WithTimeout(context.Background(), cfg.Ganesha.CallTimeout)
	global, err := src.GlobalStats(probeCtx)
	cancel()
	if err != nil {
		goodbye(1, err.Error())
	}
	if !global.Success {
		goodbye(1, global.Status)
	}
	logger.Info("Connected to NFS-Ganesha (status %q)", global.Status)

	server := metrics.NewServer(metrics.ServerConfig{
		Port:            cfg.Server.Port,
		Path:            cfg.Server.Path,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, collector.NewRegistry(src))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		goodbye(1, err.Error())
	}
}
