package clinic_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boostphysio/clinic-booking/internal/clinic"
)

func appt(p *clinic.Practitioner, dateTime string, status clinic.Status, cost float64) *clinic.Appointment {
	return &clinic.Appointment{
		Patient:      alice(),
		Practitioner: p,
		Treatment:    clinic.Treatment{Name: "Session", Expertise: "Physiotherapy", Duration: 60, Cost: cost},
		DateTime:     dateTime,
		Status:       status,
	}
}

func TestGenerateReportRevenueCountsAttendedOnly(t *testing.T) {
	p := physio()
	c := newClinic(t, p)
	c.SetAppointments([]*clinic.Appointment{
		appt(p, "2025-04-01 09:00", clinic.StatusAttended, 90),
		appt(p, "2025-04-02 09:00", clinic.StatusCancelled, 120),
	})

	report := c.GenerateReport()
	assert.Equal(t, 2, report.TotalAppointments)
	assert.Equal(t, 1, report.TotalAttended)
	assert.Equal(t, 0, report.TotalBooked)
	assert.Equal(t, 1, report.TotalCancelled)
	assert.InDelta(t, 90.0, report.TotalRevenue, 0.001)

	require.Len(t, report.Practitioners, 1)
	g := report.Practitioners[0]
	assert.Equal(t, 2, g.Total)
	assert.InDelta(t, 90.0, g.Revenue, 0.001)
}

func TestGenerateReportOrdersByAttendedThenName(t *testing.T) {
	busy := &clinic.Practitioner{ID: "PR002", Name: "Aaron Blake"}
	quietA := &clinic.Practitioner{ID: "PR003", Name: "Beth Quinn"}
	quietB := &clinic.Practitioner{ID: "PR004", Name: "Adam Quinn"}

	c := clinic.New(clinic.DefaultTerm())
	c.SetPractitioners([]*clinic.Practitioner{busy, quietA, quietB})
	c.SetAppointments([]*clinic.Appointment{
		appt(quietA, "2025-04-01 09:00", clinic.StatusAttended, 50),
		appt(busy, "2025-04-01 10:00", clinic.StatusAttended, 50),
		appt(busy, "2025-04-02 10:00", clinic.StatusAttended, 50),
		appt(quietB, "2025-04-03 09:00", clinic.StatusAttended, 50),
	})

	report := c.GenerateReport()
	require.Len(t, report.Practitioners, 3)
	// Two attended beats one; the tie between one-attended groups
	// breaks on ascending name.
	assert.Equal(t, "Aaron Blake", report.Practitioners[0].Practitioner.Name)
	assert.Equal(t, "Adam Quinn", report.Practitioners[1].Practitioner.Name)
	assert.Equal(t, "Beth Quinn", report.Practitioners[2].Practitioner.Name)
}

func TestGenerateReportBucketsSortedByDateTime(t *testing.T) {
	p := physio()
	c := newClinic(t, p)
	c.SetAppointments([]*clinic.Appointment{
		appt(p, "2025-04-10 09:00", clinic.StatusBooked, 50),
		appt(p, "2025-04-02 14:00", clinic.StatusBooked, 50),
		appt(p, "2025-04-02 09:00", clinic.StatusBooked, 50),
	})

	report := c.GenerateReport()
	require.Len(t, report.Practitioners, 1)
	booked := report.Practitioners[0].Booked
	require.Len(t, booked, 3)
	assert.Equal(t, "2025-04-02 09:00", booked[0].DateTime)
	assert.Equal(t, "2025-04-02 14:00", booked[1].DateTime)
	assert.Equal(t, "2025-04-10 09:00", booked[2].DateTime)
}

func TestGenerateReportDoesNotMutateAppointments(t *testing.T) {
	p := physio()
	c := newClinic(t, p)
	c.SetAppointments([]*clinic.Appointment{
		appt(p, "2025-04-10 09:00", clinic.StatusBooked, 50),
		appt(p, "2025-04-02 09:00", clinic.StatusAttended, 50),
	})

	_ = c.GenerateReport()

	// Insertion order of the underlying collection is untouched.
	appointments := c.Appointments()
	require.Len(t, appointments, 2)
	assert.Equal(t, "2025-04-10 09:00", appointments[0].DateTime)
	assert.Equal(t, "2025-04-02 09:00", appointments[1].DateTime)
}

func TestReportRender(t *testing.T) {
	p := physio()
	c := newClinic(t, p)
	c.SetAppointments([]*clinic.Appointment{
		appt(p, "2025-04-01 09:00", clinic.StatusAttended, 90),
	})

	var b strings.Builder
	c.GenerateReport().Render(&b)
	out := b.String()

	assert.Contains(t, out, "Helen Carter")
	assert.Contains(t, out, "Session with Alice Morgan at 2025-04-01 09:00 (Cost: $90.00)")
	assert.Contains(t, out, "Total Clinic Revenue: $90.00")
}
