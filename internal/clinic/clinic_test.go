package clinic_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boostphysio/clinic-booking/internal/clinic"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(clinic.DateLayout, s)
	require.NoError(t, err)
	return d
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	tm, err := time.Parse(clinic.TimeLayout, s)
	require.NoError(t, err)
	return tm
}

func window(t *testing.T, practitionerID, date, start, end string) clinic.Availability {
	t.Helper()
	return clinic.Availability{
		PractitionerID: practitionerID,
		Date:           mustDate(t, date),
		Start:          mustTime(t, start),
		End:            mustTime(t, end),
	}
}

func physio() *clinic.Practitioner {
	return &clinic.Practitioner{
		ID:        "PR001",
		Name:      "Helen Carter",
		Address:   "12 Harley Street, London",
		Phone:     "020 7946 0001",
		Expertise: []string{"Physiotherapy", "Massage"},
		Treatments: []clinic.Treatment{
			{Name: "Neural Mobilisation", Expertise: "Physiotherapy", Duration: 60, Cost: 90},
			{Name: "Deep Tissue Massage", Expertise: "Massage", Duration: 45, Cost: 70},
		},
	}
}

func alice() clinic.Patient {
	return clinic.Patient{ID: "PT001", Name: "Alice Morgan", Address: "3 Elm Road, Leeds", Phone: "0113 496 0000"}
}

func newClinic(t *testing.T, p *clinic.Practitioner, windows ...clinic.Availability) *clinic.Clinic {
	t.Helper()
	c := clinic.New(clinic.DefaultTerm())
	c.SetPractitioners([]*clinic.Practitioner{p})
	c.SetPatients([]clinic.Patient{alice()})
	c.SetAvailabilities(windows)
	return c
}

func TestBookAppointmentSucceeds(t *testing.T) {
	p := physio()
	c := newClinic(t, p, window(t, p.ID, "2025-04-01", "09:00", "12:00"))

	appt, err := c.BookAppointment(alice(), p, p.Treatments[0], "2025-04-01 09:00")
	require.NoError(t, err)
	assert.Equal(t, clinic.StatusBooked, appt.Status)
	assert.Equal(t, "2025-04-01 09:00", appt.DateTime)
	assert.Len(t, c.Appointments(), 1)
}

func TestBookAppointmentBadDateTime(t *testing.T) {
	p := physio()
	c := newClinic(t, p, window(t, p.ID, "2025-04-01", "09:00", "12:00"))

	_, err := c.BookAppointment(alice(), p, p.Treatments[0], "01/04/2025 9am")
	assert.ErrorIs(t, err, clinic.ErrBadDateTime)
	assert.Empty(t, c.Appointments())
}

func TestBookAppointmentExpertiseMismatch(t *testing.T) {
	p := physio()
	c := newClinic(t, p, window(t, p.ID, "2025-04-01", "09:00", "12:00"))

	acupuncture := clinic.Treatment{Name: "Dry Needling", Expertise: "Acupuncture", Duration: 30, Cost: 55}
	_, err := c.BookAppointment(alice(), p, acupuncture, "2025-04-01 09:00")
	assert.ErrorIs(t, err, clinic.ErrExpertiseMismatch)
	assert.ErrorContains(t, err, "Acupuncture")
}

func TestBookAppointmentOutsideAvailability(t *testing.T) {
	p := physio()
	c := newClinic(t, p, window(t, p.ID, "2025-04-01", "09:00", "12:00"))

	// Starts inside the window but the treatment runs past its end.
	_, err := c.BookAppointment(alice(), p, p.Treatments[0], "2025-04-01 11:30")
	assert.ErrorIs(t, err, clinic.ErrNotAvailable)

	// Wrong date entirely.
	_, err = c.BookAppointment(alice(), p, p.Treatments[0], "2025-04-02 09:00")
	assert.ErrorIs(t, err, clinic.ErrNotAvailable)
}

func TestBookAppointmentOverlap(t *testing.T) {
	p := physio()
	c := newClinic(t, p, window(t, p.ID, "2025-04-01", "09:00", "13:00"))

	_, err := c.BookAppointment(alice(), p, p.Treatments[0], "2025-04-01 10:00")
	require.NoError(t, err)

	// 10:30 overlaps the 10:00-11:00 booking.
	_, err = c.BookAppointment(alice(), p, p.Treatments[0], "2025-04-01 10:30")
	assert.ErrorIs(t, err, clinic.ErrOverlap)
	assert.Len(t, c.Appointments(), 1)
}

func TestBookAppointmentBackToBackDoesNotConflict(t *testing.T) {
	p := physio()
	c := newClinic(t, p, window(t, p.ID, "2025-04-01", "09:00", "13:00"))

	_, err := c.BookAppointment(alice(), p, p.Treatments[0], "2025-04-01 10:00")
	require.NoError(t, err)

	// Half-open intervals: 11:00 starts exactly when 10:00 ends.
	_, err = c.BookAppointment(alice(), p, p.Treatments[0], "2025-04-01 11:00")
	assert.NoError(t, err)
}

func TestBookOverCancelledStillConflicts(t *testing.T) {
	p := physio()
	c := newClinic(t, p, window(t, p.ID, "2025-04-01", "09:00", "13:00"))

	_, err := c.BookAppointment(alice(), p, p.Treatments[0], "2025-04-01 10:00")
	require.NoError(t, err)
	require.NoError(t, c.CancelAppointment("2025-04-01 10:00", p))

	// Cancellation is a status change, not removal: the slot stays
	// blocked for booking.
	_, err = c.BookAppointment(alice(), p, p.Treatments[0], "2025-04-01 10:00")
	assert.ErrorIs(t, err, clinic.ErrOverlap)
}

func TestCancelAppointmentNotFound(t *testing.T) {
	p := physio()
	c := newClinic(t, p)

	err := c.CancelAppointment("2025-04-01 10:00", p)
	assert.ErrorIs(t, err, clinic.ErrNotFound)
}

func TestCancelKeepsAppointmentInCollection(t *testing.T) {
	p := physio()
	c := newClinic(t, p, window(t, p.ID, "2025-04-01", "09:00", "13:00"))

	_, err := c.BookAppointment(alice(), p, p.Treatments[0], "2025-04-01 10:00")
	require.NoError(t, err)
	require.NoError(t, c.CancelAppointment("2025-04-01 10:00", p))

	appointments := c.Appointments()
	require.Len(t, appointments, 1)
	assert.Equal(t, clinic.StatusCancelled, appointments[0].Status)
}

func TestChangeStatusUnguardedAndIdempotent(t *testing.T) {
	p := physio()
	c := newClinic(t, p, window(t, p.ID, "2025-04-01", "09:00", "13:00"))

	appt, err := c.BookAppointment(alice(), p, p.Treatments[0], "2025-04-01 10:00")
	require.NoError(t, err)
	key := appt.Key()

	// Any status is reachable from any other.
	require.NoError(t, c.ChangeStatus(key, clinic.StatusCancelled))
	require.NoError(t, c.ChangeStatus(key, clinic.StatusAttended))
	assert.Equal(t, clinic.StatusAttended, c.Appointments()[0].Status)

	// Repeating the same status is a no-op, not an error.
	require.NoError(t, c.ChangeStatus(key, clinic.StatusAttended))
	assert.Equal(t, clinic.StatusAttended, c.Appointments()[0].Status)
}

func TestChangeStatusNotFound(t *testing.T) {
	p := physio()
	c := newClinic(t, p)

	key := clinic.AppointmentKey{DateTime: "2025-04-01 10:00", PractitionerID: p.ID}
	assert.ErrorIs(t, c.ChangeStatus(key, clinic.StatusAttended), clinic.ErrNotFound)
}

func TestSearchByPractitionerName(t *testing.T) {
	p := physio()
	c := newClinic(t, p)

	found, err := c.SearchByPractitionerName("hELEN cARTER")
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)

	_, err = c.SearchByPractitionerName("Nobody")
	assert.ErrorIs(t, err, clinic.ErrNotFound)
}

func TestSearchByExpertiseKeepsInsertionOrder(t *testing.T) {
	first := physio()
	second := &clinic.Practitioner{ID: "PR002", Name: "Aaron Blake", Expertise: []string{"Massage"}}
	third := &clinic.Practitioner{ID: "PR003", Name: "Zoe Young", Expertise: []string{"Osteopathy"}}

	c := clinic.New(clinic.DefaultTerm())
	c.SetPractitioners([]*clinic.Practitioner{first, second, third})

	matches := c.SearchByExpertise("Massage")
	require.Len(t, matches, 2)
	assert.Equal(t, "PR001", matches[0].ID)
	assert.Equal(t, "PR002", matches[1].ID)

	assert.Empty(t, c.SearchByExpertise("Acupuncture"))
}

func TestAddRemovePatient(t *testing.T) {
	p := physio()
	c := newClinic(t, p)

	c.AddPatient(clinic.Patient{ID: "PT002", Name: "Ben Ode"})
	assert.Len(t, c.Patients(), 2)

	c.RemovePatient("PT001")
	patients := c.Patients()
	require.Len(t, patients, 1)
	assert.Equal(t, "PT002", patients[0].ID)

	_, err := c.PatientByID("PT001")
	assert.ErrorIs(t, err, clinic.ErrNotFound)
}

func TestBookByExpertise(t *testing.T) {
	p := physio()
	c := newClinic(t, p, window(t, p.ID, "2025-04-01", "09:00", "12:00"))

	appt, err := c.BookByExpertise("Physiotherapy", "PT001")
	require.NoError(t, err)
	assert.Equal(t, "Neural Mobilisation", appt.Treatment.Name)
	assert.Equal(t, "2025-04-01 09:00", appt.DateTime)
	assert.Equal(t, clinic.StatusBooked, appt.Status)
}

func TestBookByExpertiseUnknownPatient(t *testing.T) {
	p := physio()
	c := newClinic(t, p, window(t, p.ID, "2025-04-01", "09:00", "12:00"))

	_, err := c.BookByExpertise("Physiotherapy", "PT999")
	assert.ErrorIs(t, err, clinic.ErrNotFound)
}

func TestBookByPractitionerName(t *testing.T) {
	p := physio()
	c := newClinic(t, p, window(t, p.ID, "2025-04-01", "09:00", "12:00"))

	appt, err := c.BookByPractitionerName("Helen Carter", "PT001")
	require.NoError(t, err)
	// First listed treatment wins.
	assert.Equal(t, "Neural Mobilisation", appt.Treatment.Name)
}
