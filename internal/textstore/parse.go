package textstore

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/boostphysio/clinic-booking/internal/clinic"
)

// joinMiddle reconstructs a field that may itself contain commas by
// rejoining the raw parts between from (inclusive) and to (exclusive).
func joinMiddle(parts []string, from, to int) string {
	return strings.TrimSpace(strings.Join(parts[from:to], ","))
}

func parseMinutes(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: duration %q", clinic.ErrBadRecord, s)
	}
	return n, nil
}

func parseCost(s string) (float64, error) {
	c, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || c < 0 {
		return 0, fmt.Errorf("%w: cost %q", clinic.ErrBadRecord, s)
	}
	return c, nil
}

func parseAvailability(line string) (clinic.Availability, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 4 {
		return clinic.Availability{}, fmt.Errorf("%w: want 4 fields, got %d", clinic.ErrBadRecord, len(parts))
	}
	date, err := time.Parse(clinic.DateLayout, strings.TrimSpace(parts[1]))
	if err != nil {
		return clinic.Availability{}, fmt.Errorf("%w: date %q", clinic.ErrBadRecord, parts[1])
	}
	start, err := time.Parse(clinic.TimeLayout, strings.TrimSpace(parts[2]))
	if err != nil {
		return clinic.Availability{}, fmt.Errorf("%w: start time %q", clinic.ErrBadRecord, parts[2])
	}
	end, err := time.Parse(clinic.TimeLayout, strings.TrimSpace(parts[3]))
	if err != nil {
		return clinic.Availability{}, fmt.Errorf("%w: end time %q", clinic.ErrBadRecord, parts[3])
	}
	return clinic.Availability{
		PractitionerID: strings.TrimSpace(parts[0]),
		Date:           date,
		Start:          start,
		End:            end,
	}, nil
}

// appointmentRecord is the decoded 13-field persisted form.
type appointmentRecord struct {
	PatientID          string
	PatientName        string
	PatientAddress     string
	PatientPhone       string
	PractitionerID     string
	PractitionerName   string
	PractitionerPhone  string
	TreatmentName      string
	TreatmentExpertise string
	Duration           int
	Cost               float64
	DateTime           string
	Status             clinic.Status
}

// parseAppointmentRecord decodes one appointments.txt line. The patient
// address may embed commas, so only the first two fields are positional
// from the left; everything else resolves from the end of the line.
// Fewer than twelve fields is malformed.
func parseAppointmentRecord(line string) (appointmentRecord, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 12 {
		return appointmentRecord{}, fmt.Errorf("%w: want at least 12 fields, got %d", clinic.ErrBadRecord, len(parts))
	}

	n := len(parts)
	var practitionerPhone string
	if n >= 13 {
		practitionerPhone = strings.TrimSpace(parts[n-1])
	}

	status, err := clinic.ParseStatus(strings.TrimSpace(parts[n-2]))
	if err != nil {
		return appointmentRecord{}, err
	}
	dateTime := strings.TrimSpace(parts[n-3])
	if _, err := time.Parse(clinic.DateTimeLayout, dateTime); err != nil {
		return appointmentRecord{}, fmt.Errorf("%w: %q", clinic.ErrBadDateTime, dateTime)
	}
	cost, err := parseCost(parts[n-4])
	if err != nil {
		return appointmentRecord{}, err
	}
	duration, err := parseMinutes(parts[n-5])
	if err != nil {
		return appointmentRecord{}, err
	}

	treatmentExpertise := strings.TrimSpace(parts[n-6])
	treatmentName := strings.TrimSpace(parts[n-7])
	practitionerName := strings.TrimSpace(parts[n-8])
	practitionerID := strings.TrimSpace(parts[n-9])
	patientPhone := strings.TrimSpace(parts[n-10])

	return appointmentRecord{
		PatientID:          strings.TrimSpace(parts[0]),
		PatientName:        strings.TrimSpace(parts[1]),
		PatientAddress:     joinMiddle(parts, 2, n-10),
		PatientPhone:       patientPhone,
		PractitionerID:     practitionerID,
		PractitionerName:   practitionerName,
		PractitionerPhone:  practitionerPhone,
		TreatmentName:      treatmentName,
		TreatmentExpertise: treatmentExpertise,
		Duration:           duration,
		Cost:               cost,
		DateTime:           dateTime,
		Status:             status,
	}, nil
}
