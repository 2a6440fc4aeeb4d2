package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mailveil/internal/app"
	"mailveil/internal/server"
)

func main() {
	configFile := flag.String("config", "", "config file (default mailveil.yaml)")
	listen := flag.String("listen", "", "bind address (overrides config)")
	flag.Parse()

	cfg, err := app.LoadConfig(*configFile)
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	// The daemon never prompts; the encrypted backend needs the passphrase
	// from the environment.
	cfg.Passphrase = os.Getenv("MAILVEIL_PASSPHRASE")

	ctx := context.Background()
	a, err := app.New(ctx, cfg)
	if err != nil {
		os.Stderr.WriteString("wire: " + err.Error() + "\n")
		os.Exit(1)
	}

	handler := server.NewHandler(a.Broker, a.Log, prometheus.NewRegistry())
	srv := &http.Server{Addr: cfg.Listen, Handler: handler}

	a.Log.Info("mailveild listening", "addr", cfg.Listen, "backend", cfg.Backend)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.Log.Error("graceful shutdown failed", "err", err)
		os.Exit(1)
	}
}
