package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/boostphysio/clinic-booking/internal/clinic"
)

type Handler struct {
	clinic *clinic.Clinic
	store  Persister
	log    zerolog.Logger
}

func (h *Handler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	var req BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	patient, err := h.clinic.PatientByID(req.PatientID)
	if err != nil {
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
		return
	}
	practitioner, err := h.clinic.PractitionerByID(req.PractitionerID)
	if err != nil {
		writeError(w, http.StatusNotFound, "practitioner_not_found", err.Error())
		return
	}
	treatment, ok := practitioner.TreatmentByName(req.Treatment)
	if !ok {
		writeError(w, http.StatusNotFound, "treatment_not_found", "practitioner does not offer "+req.Treatment)
		return
	}

	appt, err := h.clinic.BookAppointment(patient, practitioner, treatment, req.DateTime)
	if err != nil {
		handleBookingError(w, err)
		return
	}
	h.persistAppointments(r)

	writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
}

func (h *Handler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	var req CancelAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	practitioner, err := h.clinic.PractitionerByID(req.PractitionerID)
	if err != nil {
		writeError(w, http.StatusNotFound, "practitioner_not_found", err.Error())
		return
	}
	if err := h.clinic.CancelAppointment(req.DateTime, practitioner); err != nil {
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
		return
	}
	h.persistAppointments(r)

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	status, err := clinic.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_status", err.Error())
		return
	}

	key := clinic.AppointmentKey{DateTime: req.DateTime, PractitionerID: req.PractitionerID}
	if err := h.clinic.ChangeStatus(key, status); err != nil {
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
		return
	}
	h.persistAppointments(r)

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	appointments := h.clinic.Appointments()
	out := make([]AppointmentResponse, 0, len(appointments))
	for _, a := range appointments {
		out = append(out, toAppointmentResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) FindEarliestSlot(w http.ResponseWriter, r *http.Request) {
	practitionerID := r.URL.Query().Get("practitioner_id")
	treatmentName := r.URL.Query().Get("treatment")

	practitioner, err := h.clinic.PractitionerByID(practitionerID)
	if err != nil {
		writeError(w, http.StatusNotFound, "practitioner_not_found", err.Error())
		return
	}
	treatment, ok := practitioner.TreatmentByName(treatmentName)
	if !ok {
		writeError(w, http.StatusNotFound, "treatment_not_found", "practitioner does not offer "+treatmentName)
		return
	}

	dateTime, err := h.clinic.FindEarliestSlot(practitioner, treatment)
	if err != nil {
		writeError(w, http.StatusNotFound, "no_slot_available", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, SlotResponse{
		PractitionerID: practitioner.ID,
		Treatment:      treatment.Name,
		DateTime:       dateTime,
	})
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toReportResponse(h.clinic.GenerateReport()))
}

func (h *Handler) SearchPractitioners(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" {
		p, err := h.clinic.SearchByPractitionerName(name)
		if err != nil {
			writeError(w, http.StatusNotFound, "practitioner_not_found", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, []PractitionerResponse{toPractitionerResponse(p)})
		return
	}

	if tag := r.URL.Query().Get("expertise"); tag != "" {
		matches := h.clinic.SearchByExpertise(tag)
		out := make([]PractitionerResponse, 0, len(matches))
		for _, p := range matches {
			out = append(out, toPractitionerResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
		return
	}

	practitioners := h.clinic.Practitioners()
	out := make([]PractitionerResponse, 0, len(practitioners))
	for _, p := range practitioners {
		out = append(out, toPractitionerResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_patient", "name is required")
		return
	}

	patient := clinic.Patient{
		ID:      uuid.NewString(),
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	}
	h.clinic.AddPatient(patient)
	h.persistPatients(r)

	writeJSON(w, http.StatusCreated, PatientResponse(patient))
}

func (h *Handler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.clinic.PatientByID(id); err != nil {
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
		return
	}
	h.clinic.RemovePatient(id)
	h.persistPatients(r)

	w.WriteHeader(http.StatusNoContent)
}

func handleBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, clinic.ErrBadDateTime):
		writeError(w, http.StatusBadRequest, "invalid_date_time", err.Error())
	case errors.Is(err, clinic.ErrExpertiseMismatch):
		writeError(w, http.StatusConflict, "expertise_mismatch", err.Error())
	case errors.Is(err, clinic.ErrNotAvailable):
		writeError(w, http.StatusConflict, "not_available", err.Error())
	case errors.Is(err, clinic.ErrOverlap):
		writeError(w, http.StatusConflict, "overlap", err.Error())
	case errors.Is(err, clinic.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func (h *Handler) persistAppointments(r *http.Request) {
	if err := h.store.SaveAppointments(h.clinic.Appointments()); err != nil {
		h.log.Error().Err(err).Str("request_id", GetRequestID(r.Context())).Msg("appointment save failed, continuing with in-memory state")
	}
}

func (h *Handler) persistPatients(r *http.Request) {
	if err := h.store.SavePatients(h.clinic.Patients()); err != nil {
		h.log.Error().Err(err).Str("request_id", GetRequestID(r.Context())).Msg("patient save failed, continuing with in-memory state")
	}
}

func toAppointmentResponse(a *clinic.Appointment) AppointmentResponse {
	return AppointmentResponse{
		PatientID:      a.Patient.ID,
		PatientName:    a.Patient.Name,
		PractitionerID: a.Practitioner.ID,
		Practitioner:   a.Practitioner.Name,
		Treatment:      a.Treatment.Name,
		Duration:       a.Treatment.Duration,
		Cost:           a.Treatment.Cost,
		DateTime:       a.DateTime,
		Status:         string(a.Status),
	}
}

func toReportResponse(r clinic.Report) ReportResponse {
	out := ReportResponse{
		Practitioners:      make([]PractitionerReportResponse, 0, len(r.Practitioners)),
		TotalPractitioners: r.TotalPractitioners,
		TotalPatients:      r.TotalPatients,
		TotalAppointments:  r.TotalAppointments,
		TotalAttended:      r.TotalAttended,
		TotalBooked:        r.TotalBooked,
		TotalCancelled:     r.TotalCancelled,
		TotalRevenue:       r.TotalRevenue,
	}
	for _, g := range r.Practitioners {
		out.Practitioners = append(out.Practitioners, PractitionerReportResponse{
			Practitioner: toPractitionerResponse(g.Practitioner),
			Attended:     toAppointmentResponses(g.Attended),
			Booked:       toAppointmentResponses(g.Booked),
			Cancelled:    toAppointmentResponses(g.Cancelled),
			Total:        g.Total,
			Revenue:      g.Revenue,
		})
	}
	return out
}

func toAppointmentResponses(as []*clinic.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(as))
	for _, a := range as {
		out = append(out, toAppointmentResponse(a))
	}
	return out
}

func toPractitionerResponse(p *clinic.Practitioner) PractitionerResponse {
	return PractitionerResponse{
		ID:        p.ID,
		Name:      p.Name,
		Phone:     p.Phone,
		Expertise: p.Expertise,
	}
}
