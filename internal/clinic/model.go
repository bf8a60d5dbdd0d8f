package clinic

import (
	"fmt"
	"strconv"
	"time"
)

// DateTimeLayout is the canonical form every appointment time is stored
// and compared in. The format is fixed-width and zero-padded, so string
// order equals chronological order.
const DateTimeLayout = "2006-01-02 15:04"

// DateLayout and TimeLayout are the forms used by the timetable records.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Status string

const (
	StatusBooked    Status = "BOOKED"
	StatusAttended  Status = "ATTENDED"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus maps a persisted status field to a Status value.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusBooked, StatusAttended, StatusCancelled:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrBadRecord, s)
}

type Patient struct {
	ID      string
	Name    string
	Address string
	Phone   string
}

// Key identifies a patient. Two records with the same id are the same
// patient even when the other fields differ.
func (p Patient) Key() string { return p.ID }

type Treatment struct {
	Name      string
	Expertise string
	Duration  int // minutes
	Cost      float64
}

type Practitioner struct {
	ID         string
	Name       string
	Address    string
	Phone      string
	Expertise  []string // insertion order, duplicates allowed
	Treatments []Treatment
}

// Key identifies a practitioner by id alone.
func (p *Practitioner) Key() string { return p.ID }

// HasExpertise reports whether the practitioner carries the tag.
// Matching is exact and case-sensitive.
func (p *Practitioner) HasExpertise(tag string) bool {
	for _, e := range p.Expertise {
		if e == tag {
			return true
		}
	}
	return false
}

// TreatmentByName returns the first treatment with the name.
func (p *Practitioner) TreatmentByName(name string) (Treatment, bool) {
	for _, t := range p.Treatments {
		if t.Name == name {
			return t, true
		}
	}
	return Treatment{}, false
}

// TreatmentFor returns the first treatment requiring the tag.
func (p *Practitioner) TreatmentFor(tag string) (Treatment, bool) {
	for _, t := range p.Treatments {
		if t.Expertise == tag {
			return t, true
		}
	}
	return Treatment{}, false
}

// Availability is one contiguous open window for a practitioner on a
// single date. Windows never span midnight; overlapping windows are not
// rejected on entry.
type Availability struct {
	PractitionerID string
	Date           time.Time // date component only
	Start          time.Time // time-of-day component only
	End            time.Time
}

// Contains reports whether [start, start+duration) fits inside the
// window on the time-of-day axis. The caller has already matched the
// date.
func (a Availability) Contains(start, end time.Time) bool {
	return !timeOfDay(start).Before(a.Start) && !timeOfDay(end).After(a.End)
}

func timeOfDay(t time.Time) time.Time {
	return time.Date(0, time.January, 1, t.Hour(), t.Minute(), 0, 0, time.UTC)
}

type Appointment struct {
	Patient      Patient
	Practitioner *Practitioner
	Treatment    Treatment
	DateTime     string // canonical DateTimeLayout form
	Status       Status
}

// AppointmentKey is the identity of an appointment: the pair
// (dateTime, practitioner). Patient and treatment do not participate.
type AppointmentKey struct {
	DateTime       string
	PractitionerID string
}

func (a *Appointment) Key() AppointmentKey {
	return AppointmentKey{DateTime: a.DateTime, PractitionerID: a.Practitioner.ID}
}

// Interval returns the appointment's [start, end) span.
func (a *Appointment) Interval() (start, end time.Time, err error) {
	start, err = time.Parse(DateTimeLayout, a.DateTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrBadDateTime, a.DateTime)
	}
	return start, start.Add(time.Duration(a.Treatment.Duration) * time.Minute), nil
}

// Record renders the 13-field persisted form of the appointment.
// Practitioner address is deliberately absent; the patient address may
// itself contain commas, which loaders tolerate by resolving trailing
// fields from the end of the line.
func (a *Appointment) Record() string {
	return a.Patient.ID + "," + a.Patient.Name + "," + a.Patient.Address + "," + a.Patient.Phone + "," +
		a.Practitioner.ID + "," + a.Practitioner.Name + "," + a.Treatment.Name + "," +
		a.Treatment.Expertise + "," + strconv.Itoa(a.Treatment.Duration) + "," +
		strconv.FormatFloat(a.Treatment.Cost, 'f', 2, 64) + "," +
		a.DateTime + "," + string(a.Status) + "," + a.Practitioner.Phone
}
