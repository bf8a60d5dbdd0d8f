// Package textstore persists the clinic's entities as delimited text
// files, one record per line. It is the only place that touches disk;
// the clinic core works purely in memory.
package textstore

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/boostphysio/clinic-booking/internal/clinic"
)

const (
	PractitionersFile = "practitioners.txt"
	TreatmentsFile    = "treatments.txt"
	PatientsFile      = "patients.txt"
	TimetableFile     = "timetable.txt"
	AppointmentsFile  = "appointments.txt"
)

// Store reads and writes the clinic data files under a single
// directory. Malformed lines are skipped with a diagnostic rather than
// failing the whole load.
type Store struct {
	dir string
	log zerolog.Logger
}

func New(dir string, log zerolog.Logger) *Store {
	return &Store{dir: dir, log: log}
}

// Dir returns the data directory the store is rooted at.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(name string) string { return filepath.Join(s.dir, name) }

// LoadClinic loads every entity file and assembles a clinic around the
// given term. A missing appointments file is not an error; the clinic
// starts with an empty collection.
func (s *Store) LoadClinic(term clinic.Term) (*clinic.Clinic, error) {
	practitioners, err := s.LoadPractitioners()
	if err != nil {
		return nil, err
	}
	if err := s.LoadTreatments(practitioners); err != nil {
		return nil, err
	}
	patients, err := s.LoadPatients()
	if err != nil {
		return nil, err
	}
	availabilities, err := s.LoadTimetable()
	if err != nil {
		return nil, err
	}
	appointments, err := s.LoadAppointments(practitioners, patients)
	if err != nil {
		return nil, err
	}

	c := clinic.New(term)
	c.SetPractitioners(practitioners)
	c.SetPatients(patients)
	c.SetAvailabilities(availabilities)
	c.SetAppointments(appointments)
	return c, nil
}

func (s *Store) eachLine(name string, fn func(line string)) error {
	f, err := os.Open(s.path(name))
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fn(line)
	}
	return scanner.Err()
}

// LoadPractitioners reads practitioners.txt. Record form:
// id,name,address...,phone,exp1;exp2;... The address may embed commas,
// so phone and expertise resolve from the end of the line.
func (s *Store) LoadPractitioners() ([]*clinic.Practitioner, error) {
	var out []*clinic.Practitioner
	err := s.eachLine(PractitionersFile, func(line string) {
		parts := strings.Split(line, ",")
		if len(parts) < 5 {
			s.log.Warn().Str("file", PractitionersFile).Str("line", line).Msg("skipping malformed record")
			return
		}
		p := &clinic.Practitioner{
			ID:      strings.TrimSpace(parts[0]),
			Name:    strings.TrimSpace(parts[1]),
			Address: joinMiddle(parts, 2, len(parts)-2),
			Phone:   strings.TrimSpace(parts[len(parts)-2]),
		}
		for _, tag := range strings.Split(parts[len(parts)-1], ";") {
			p.Expertise = append(p.Expertise, strings.TrimSpace(tag))
		}
		out = append(out, p)
	})
	if err != nil {
		return nil, fmt.Errorf("load practitioners: %w", err)
	}
	return out, nil
}

// LoadTreatments reads treatments.txt and attaches each treatment to
// its owning practitioner. Record form (exactly five fields):
// practitionerId,name,expertise,durationMinutes,cost
func (s *Store) LoadTreatments(practitioners []*clinic.Practitioner) error {
	byID := make(map[string]*clinic.Practitioner, len(practitioners))
	for _, p := range practitioners {
		byID[p.ID] = p
	}

	err := s.eachLine(TreatmentsFile, func(line string) {
		parts := strings.Split(line, ",")
		if len(parts) != 5 {
			s.log.Warn().Str("file", TreatmentsFile).Str("line", line).Msg("skipping malformed record")
			return
		}
		duration, err := parseMinutes(parts[3])
		if err != nil {
			s.log.Warn().Str("file", TreatmentsFile).Str("line", line).Err(err).Msg("skipping malformed record")
			return
		}
		cost, err := parseCost(parts[4])
		if err != nil {
			s.log.Warn().Str("file", TreatmentsFile).Str("line", line).Err(err).Msg("skipping malformed record")
			return
		}
		p, ok := byID[strings.TrimSpace(parts[0])]
		if !ok {
			s.log.Warn().Str("file", TreatmentsFile).Str("line", line).Msg("skipping treatment for unknown practitioner")
			return
		}
		p.Treatments = append(p.Treatments, clinic.Treatment{
			Name:      strings.TrimSpace(parts[1]),
			Expertise: strings.TrimSpace(parts[2]),
			Duration:  duration,
			Cost:      cost,
		})
	})
	if err != nil {
		return fmt.Errorf("load treatments: %w", err)
	}
	return nil
}

// LoadPatients reads patients.txt. Record form: id,name,address...,phone
// with the phone resolved from the end because the address may embed
// commas.
func (s *Store) LoadPatients() ([]clinic.Patient, error) {
	var out []clinic.Patient
	err := s.eachLine(PatientsFile, func(line string) {
		parts := strings.Split(line, ",")
		if len(parts) < 4 {
			s.log.Warn().Str("file", PatientsFile).Str("line", line).Msg("skipping malformed record")
			return
		}
		out = append(out, clinic.Patient{
			ID:      strings.TrimSpace(parts[0]),
			Name:    strings.TrimSpace(parts[1]),
			Address: joinMiddle(parts, 2, len(parts)-1),
			Phone:   strings.TrimSpace(parts[len(parts)-1]),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}
	return out, nil
}

// LoadTimetable reads timetable.txt. Record form (exactly four fields):
// practitionerId,isoDate,isoStartTime,isoEndTime
func (s *Store) LoadTimetable() ([]clinic.Availability, error) {
	var out []clinic.Availability
	err := s.eachLine(TimetableFile, func(line string) {
		a, err := parseAvailability(line)
		if err != nil {
			s.log.Warn().Str("file", TimetableFile).Str("line", line).Err(err).Msg("skipping malformed record")
			return
		}
		out = append(out, a)
	})
	if err != nil {
		return nil, fmt.Errorf("load timetable: %w", err)
	}
	return out, nil
}

// LoadAppointments reads appointments.txt, resolving patients and
// practitioners against the already loaded collections. A missing file
// yields an empty collection. Lines that are malformed or reference
// unknown ids are skipped with a diagnostic.
func (s *Store) LoadAppointments(practitioners []*clinic.Practitioner, patients []clinic.Patient) ([]*clinic.Appointment, error) {
	practByID := make(map[string]*clinic.Practitioner, len(practitioners))
	for _, p := range practitioners {
		practByID[p.ID] = p
	}
	patientByID := make(map[string]clinic.Patient, len(patients))
	for _, p := range patients {
		if _, ok := patientByID[p.ID]; !ok {
			patientByID[p.ID] = p
		}
	}

	var out []*clinic.Appointment
	err := s.eachLine(AppointmentsFile, func(line string) {
		rec, err := parseAppointmentRecord(line)
		if err != nil {
			s.log.Warn().Str("file", AppointmentsFile).Str("line", line).Err(err).Msg("skipping malformed record")
			return
		}
		patient, ok := patientByID[rec.PatientID]
		if !ok {
			s.log.Warn().Str("file", AppointmentsFile).Str("patient_id", rec.PatientID).Msg("skipping appointment for unknown patient")
			return
		}
		practitioner, ok := practByID[rec.PractitionerID]
		if !ok {
			s.log.Warn().Str("file", AppointmentsFile).Str("practitioner_id", rec.PractitionerID).Msg("skipping appointment for unknown practitioner")
			return
		}
		out = append(out, &clinic.Appointment{
			Patient:      patient,
			Practitioner: practitioner,
			Treatment: clinic.Treatment{
				Name:      rec.TreatmentName,
				Expertise: rec.TreatmentExpertise,
				Duration:  rec.Duration,
				Cost:      rec.Cost,
			},
			DateTime: rec.DateTime,
			Status:   rec.Status,
		})
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Info().Str("file", AppointmentsFile).Msg("no appointments file, starting empty")
			return nil, nil
		}
		return nil, fmt.Errorf("load appointments: %w", err)
	}
	return out, nil
}

// SaveAppointments rewrites the whole appointments file from the
// in-memory collection.
func (s *Store) SaveAppointments(appointments []*clinic.Appointment) error {
	var b strings.Builder
	for _, a := range appointments {
		b.WriteString(a.Record())
		b.WriteByte('\n')
	}
	if err := os.WriteFile(s.path(AppointmentsFile), []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("save appointments: %w", err)
	}
	return nil
}

// SavePatients rewrites the whole patients file.
func (s *Store) SavePatients(patients []clinic.Patient) error {
	var b strings.Builder
	for _, p := range patients {
		b.WriteString(p.ID + "," + p.Name + "," + p.Address + "," + p.Phone)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(s.path(PatientsFile), []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("save patients: %w", err)
	}
	return nil
}
