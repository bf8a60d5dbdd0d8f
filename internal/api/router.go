package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/boostphysio/clinic-booking/internal/clinic"
)

// Persister snapshots the mutable collections back to storage after a
// successful mutation. Failed saves are logged and the request still
// succeeds; the in-memory state is authoritative.
type Persister interface {
	SaveAppointments([]*clinic.Appointment) error
	SavePatients([]clinic.Patient) error
}

type RouterConfig struct {
	Clinic  *clinic.Clinic
	Store   Persister
	Log     zerolog.Logger
	DataDir string
	Env     string
	Version string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Log))

	health := NewHealthHandler(cfg.DataDir, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	h := &Handler{clinic: cfg.Clinic, store: cfg.Store, log: cfg.Log}

	r.Post("/appointments", h.BookAppointment)
	r.Post("/appointments/cancel", h.CancelAppointment)
	r.Post("/appointments/status", h.ChangeStatus)
	r.Get("/appointments", h.ListAppointments)
	r.Get("/slots/earliest", h.FindEarliestSlot)
	r.Get("/report", h.Report)
	r.Get("/practitioners", h.SearchPractitioners)
	r.Post("/patients", h.CreatePatient)
	r.Delete("/patients/{id}", h.DeletePatient)

	return r
}
