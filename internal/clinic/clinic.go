package clinic

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Clinic owns the in-memory entity collections and the scheduling
// rules that mutate them. Persistence happens outside: loaders populate
// the collections at startup and a store snapshots them back to disk
// after mutating operations.
//
// A single mutex guards every exported operation so that readers
// (slot search, reporting) observe a consistent snapshot even if a
// front-end ever drives the clinic from more than one goroutine.
type Clinic struct {
	mu sync.Mutex

	term Term

	practitioners  []*Practitioner
	patients       []Patient
	availabilities []Availability
	appointments   []*Appointment
}

func New(term Term) *Clinic {
	return &Clinic{term: term}
}

func (c *Clinic) SetPractitioners(ps []*Practitioner) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.practitioners = ps
}

func (c *Clinic) SetPatients(ps []Patient) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patients = ps
}

func (c *Clinic) SetAvailabilities(as []Availability) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.availabilities = as
}

func (c *Clinic) SetAppointments(as []*Appointment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.appointments = as
}

// Appointments returns a snapshot of the appointment collection in
// insertion order.
func (c *Clinic) Appointments() []*Appointment {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Appointment, len(c.appointments))
	copy(out, c.appointments)
	return out
}

func (c *Clinic) Practitioners() []*Practitioner {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Practitioner, len(c.practitioners))
	copy(out, c.practitioners)
	return out
}

func (c *Clinic) Patients() []Patient {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Patient, len(c.patients))
	copy(out, c.patients)
	return out
}

func (c *Clinic) AddPatient(p Patient) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patients = append(c.patients, p)
}

// RemovePatient drops every patient record carrying the id.
func (c *Clinic) RemovePatient(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.patients[:0]
	for _, p := range c.patients {
		if p.Key() != id {
			kept = append(kept, p)
		}
	}
	c.patients = kept
}

// PatientByID returns the first patient with the id.
func (c *Clinic) PatientByID(id string) (Patient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.patientByID(id)
}

func (c *Clinic) patientByID(id string) (Patient, error) {
	for _, p := range c.patients {
		if p.Key() == id {
			return p, nil
		}
	}
	return Patient{}, fmt.Errorf("%w: patient %s", ErrNotFound, id)
}

// PractitionerByID returns the practitioner with the id.
func (c *Clinic) PractitionerByID(id string) (*Practitioner, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.practitioners {
		if p.Key() == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: practitioner %s", ErrNotFound, id)
}

// SearchByPractitionerName matches names case-insensitively; the first
// match wins when duplicates exist.
func (c *Clinic) SearchByPractitionerName(name string) (*Practitioner, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searchByPractitionerName(name)
}

func (c *Clinic) searchByPractitionerName(name string) (*Practitioner, error) {
	for _, p := range c.practitioners {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: practitioner %q", ErrNotFound, name)
}

// SearchByExpertise returns every practitioner carrying the tag, in
// insertion order.
func (c *Clinic) SearchByExpertise(tag string) []*Practitioner {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searchByExpertise(tag)
}

func (c *Clinic) searchByExpertise(tag string) []*Practitioner {
	var out []*Practitioner
	for _, p := range c.practitioners {
		if p.HasExpertise(tag) {
			out = append(out, p)
		}
	}
	return out
}

// BookAppointment validates and records a booking. Validation is
// fail-fast, first violation wins:
//
//  1. dateTime must parse in the canonical layout
//  2. the practitioner must carry the treatment's expertise
//  3. some availability window on the same date must contain the
//     full treatment interval
//  4. the interval must not overlap any existing appointment of the
//     practitioner, whatever its status
//
// On success the appointment is appended BOOKED; nothing is mutated on
// failure.
func (c *Clinic) BookAppointment(patient Patient, practitioner *Practitioner, treatment Treatment, dateTime string) (*Appointment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bookAppointment(patient, practitioner, treatment, dateTime)
}

func (c *Clinic) bookAppointment(patient Patient, practitioner *Practitioner, treatment Treatment, dateTime string) (*Appointment, error) {
	start, err := time.Parse(DateTimeLayout, dateTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadDateTime, dateTime)
	}
	end := start.Add(time.Duration(treatment.Duration) * time.Minute)

	if !practitioner.HasExpertise(treatment.Expertise) {
		return nil, fmt.Errorf("%w: %s", ErrExpertiseMismatch, treatment.Expertise)
	}

	if !c.withinAvailability(practitioner.ID, start, end) {
		return nil, ErrNotAvailable
	}

	// Cancelled appointments still occupy their slot here; only the
	// slot search ignores them.
	if c.hasConflict(practitioner.ID, start, end, false) {
		return nil, ErrOverlap
	}

	appt := &Appointment{
		Patient:      patient,
		Practitioner: practitioner,
		Treatment:    treatment,
		DateTime:     dateTime,
		Status:       StatusBooked,
	}
	c.appointments = append(c.appointments, appt)
	return appt, nil
}

// withinAvailability reports whether any window of the practitioner on
// start's date contains [start, end) on the time-of-day axis.
func (c *Clinic) withinAvailability(practitionerID string, start, end time.Time) bool {
	for _, a := range c.availabilities {
		if a.PractitionerID != practitionerID {
			continue
		}
		if !sameDate(a.Date, start) {
			continue
		}
		if a.Contains(start, end) {
			return true
		}
	}
	return false
}

// hasConflict reports whether [start, end) overlaps an existing
// appointment of the practitioner under the half-open convention.
// Appointments that fail to parse are skipped rather than treated as
// conflicts.
func (c *Clinic) hasConflict(practitionerID string, start, end time.Time, skipCancelled bool) bool {
	for _, existing := range c.appointments {
		if existing.Practitioner.ID != practitionerID {
			continue
		}
		if skipCancelled && existing.Status == StatusCancelled {
			continue
		}
		exStart, exEnd, err := existing.Interval()
		if err != nil {
			continue
		}
		if start.Before(exEnd) && exStart.Before(end) {
			return true
		}
	}
	return false
}

func sameDate(date, t time.Time) bool {
	y1, m1, d1 := date.Date()
	y2, m2, d2 := t.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// CancelAppointment transitions the appointment identified by
// (dateTime, practitioner) to CANCELLED in place. The record stays in
// the collection.
func (c *Clinic) CancelAppointment(dateTime string, practitioner *Practitioner) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range c.appointments {
		if a.DateTime == dateTime && a.Practitioner.Key() == practitioner.Key() {
			a.Status = StatusCancelled
			return nil
		}
	}
	return fmt.Errorf("%w: appointment at %s", ErrNotFound, dateTime)
}

// ChangeStatus sets the appointment's status unconditionally. Every
// status is reachable from every other; repeating a status is a no-op.
func (c *Clinic) ChangeStatus(key AppointmentKey, status Status) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range c.appointments {
		if a.Key() == key {
			a.Status = status
			return nil
		}
	}
	return fmt.Errorf("%w: appointment at %s", ErrNotFound, key.DateTime)
}

// BookByExpertise books the earliest free slot with the first
// practitioner carrying the tag, using their first treatment for it.
func (c *Clinic) BookByExpertise(tag, patientID string) (*Appointment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	patient, err := c.patientByID(patientID)
	if err != nil {
		return nil, err
	}

	matches := c.searchByExpertise(tag)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no practitioner with expertise %q", ErrNotFound, tag)
	}
	practitioner := matches[0]

	treatment, ok := practitioner.TreatmentFor(tag)
	if !ok {
		return nil, fmt.Errorf("%w: no treatment for expertise %q", ErrNotFound, tag)
	}

	dateTime, err := c.findEarliestSlot(practitioner, treatment)
	if err != nil {
		return nil, err
	}
	return c.bookAppointment(patient, practitioner, treatment, dateTime)
}

// BookByPractitionerName books the earliest free slot with the named
// practitioner, using their first listed treatment.
func (c *Clinic) BookByPractitionerName(name, patientID string) (*Appointment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	patient, err := c.patientByID(patientID)
	if err != nil {
		return nil, err
	}

	practitioner, err := c.searchByPractitionerName(name)
	if err != nil {
		return nil, err
	}
	if len(practitioner.Treatments) == 0 {
		return nil, fmt.Errorf("%w: practitioner %s offers no treatments", ErrNotFound, practitioner.Name)
	}
	treatment := practitioner.Treatments[0]

	dateTime, err := c.findEarliestSlot(practitioner, treatment)
	if err != nil {
		return nil, err
	}
	return c.bookAppointment(patient, practitioner, treatment, dateTime)
}
