package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/boostphysio/clinic-booking/internal/api"
	"github.com/boostphysio/clinic-booking/internal/config"
	"github.com/boostphysio/clinic-booking/internal/textstore"
)

const version = "1.0.0"

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Str("component", "api-server").Logger()
	log.Info().Msg("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}

	log.Info().Str("env", cfg.Env).Str("http_port", cfg.HTTPPort).Str("data_dir", cfg.DataDir).Msg("configured")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := textstore.New(cfg.DataDir, log)
	clinicState, err := store.LoadClinic(cfg.Term)
	if err != nil {
		log.Fatal().Err(err).Msg("data load error")
	}
	log.Info().
		Int("practitioners", len(clinicState.Practitioners())).
		Int("patients", len(clinicState.Patients())).
		Int("appointments", len(clinicState.Appointments())).
		Msg("clinic data loaded")

	router := api.NewRouter(api.RouterConfig{
		Clinic:  clinicState,
		Store:   store,
		Log:     log,
		DataDir: cfg.DataDir,
		Env:     cfg.Env,
		Version: version,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-rootCtx.Done()

	log.Info().Msg("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}

	// Final snapshot so nothing booked in the last window is lost.
	if err := store.SaveAppointments(clinicState.Appointments()); err != nil {
		log.Error().Err(err).Msg("final appointment save failed")
	}
}
