package clinic

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// PractitionerReport is one practitioner's slice of the end-of-term
// report: appointments bucketed by status, each bucket ordered by
// dateTime, plus counts and attended revenue.
type PractitionerReport struct {
	Practitioner *Practitioner
	Attended     []*Appointment
	Booked       []*Appointment
	Cancelled    []*Appointment
	Total        int
	Revenue      float64
}

// Report is a read-only derivation over the appointment collection.
type Report struct {
	Practitioners []PractitionerReport

	TotalPractitioners int
	TotalPatients      int
	TotalAppointments  int
	TotalAttended      int
	TotalBooked        int
	TotalCancelled     int
	TotalRevenue       float64
}

// GenerateReport groups appointments by practitioner, orders groups by
// descending attended count with ties broken by ascending practitioner
// name, and totals counts and revenue. Revenue counts ATTENDED
// appointments only.
func (c *Clinic) GenerateReport() Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	groups := make(map[string]*PractitionerReport)
	var order []string

	for _, a := range c.appointments {
		id := a.Practitioner.ID
		g, ok := groups[id]
		if !ok {
			g = &PractitionerReport{Practitioner: a.Practitioner}
			groups[id] = g
			order = append(order, id)
		}
		g.Total++
		switch a.Status {
		case StatusAttended:
			g.Attended = append(g.Attended, a)
			g.Revenue += a.Treatment.Cost
		case StatusBooked:
			g.Booked = append(g.Booked, a)
		case StatusCancelled:
			g.Cancelled = append(g.Cancelled, a)
		}
	}

	report := Report{
		TotalPractitioners: len(c.practitioners),
		TotalPatients:      len(c.patients),
		TotalAppointments:  len(c.appointments),
	}

	for _, id := range order {
		g := groups[id]
		sortByDateTime(g.Attended)
		sortByDateTime(g.Booked)
		sortByDateTime(g.Cancelled)
		report.TotalAttended += len(g.Attended)
		report.TotalBooked += len(g.Booked)
		report.TotalCancelled += len(g.Cancelled)
		report.TotalRevenue += g.Revenue
		report.Practitioners = append(report.Practitioners, *g)
	}

	sort.SliceStable(report.Practitioners, func(i, j int) bool {
		a, b := report.Practitioners[i], report.Practitioners[j]
		if len(a.Attended) != len(b.Attended) {
			return len(a.Attended) > len(b.Attended)
		}
		return a.Practitioner.Name < b.Practitioner.Name
	})

	return report
}

// Lexicographic order on the canonical layout is chronological order.
func sortByDateTime(as []*Appointment) {
	sort.SliceStable(as, func(i, j int) bool { return as[i].DateTime < as[j].DateTime })
}

const reportRule = "-----------------------------------------------------------------"
const reportBanner = "================================================================="

// Render writes the report as the end-of-term text summary.
func (r Report) Render(w io.Writer) {
	fmt.Fprintf(w, "\n%s\n", reportBanner)
	fmt.Fprintln(w, "          Boost Physio Clinic End of Term Report")
	fmt.Fprintf(w, "%s\n\n", reportBanner)

	for _, g := range r.Practitioners {
		fmt.Fprintln(w, reportRule)
		fmt.Fprintf(w, "Practitioner: %s (phone %s)\n", g.Practitioner.Name, g.Practitioner.Phone)
		fmt.Fprintf(w, "Expertise: %s\n", strings.Join(g.Practitioner.Expertise, ", "))
		fmt.Fprintln(w, reportRule)

		renderBucket(w, "Attended", g.Attended)
		renderBucket(w, "Booked", g.Booked)
		renderBucket(w, "Cancelled", g.Cancelled)

		fmt.Fprintf(w, "Total Appointments: %d (attended %d, booked %d, cancelled %d)\n",
			g.Total, len(g.Attended), len(g.Booked), len(g.Cancelled))
		fmt.Fprintf(w, "Total Revenue: $%.2f\n\n", g.Revenue)
	}

	fmt.Fprintln(w, reportBanner)
	fmt.Fprintln(w, "Overall Clinic Summary")
	fmt.Fprintln(w, reportBanner)
	fmt.Fprintf(w, "Practitioners: %d\n", r.TotalPractitioners)
	fmt.Fprintf(w, "Patients: %d\n", r.TotalPatients)
	fmt.Fprintf(w, "Appointments: %d (attended %d, booked %d, cancelled %d)\n",
		r.TotalAppointments, r.TotalAttended, r.TotalBooked, r.TotalCancelled)
	fmt.Fprintf(w, "Total Clinic Revenue: $%.2f\n", r.TotalRevenue)
}

func renderBucket(w io.Writer, label string, as []*Appointment) {
	fmt.Fprintf(w, "%s Appointments:\n", label)
	if len(as) == 0 {
		fmt.Fprintln(w, " - None")
		return
	}
	for _, a := range as {
		fmt.Fprintf(w, " - %s with %s at %s (Cost: $%.2f)\n",
			a.Treatment.Name, a.Patient.Name, a.DateTime, a.Treatment.Cost)
	}
}
