// Command seed writes a set of plausible clinic data files so the
// server and CLI have something to book against.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog"

	"github.com/boostphysio/clinic-booking/internal/clinic"
	"github.com/boostphysio/clinic-booking/internal/config"
	"github.com/boostphysio/clinic-booking/internal/textstore"
)

var expertiseTags = []string{
	"Physiotherapy",
	"Rehabilitation",
	"Osteopathy",
	"Massage",
	"Acupuncture",
	"Sports Therapy",
}

var treatmentNames = map[string][]string{
	"Physiotherapy":  {"Neural Mobilisation", "Joint Mobilisation"},
	"Rehabilitation": {"Pool Rehabilitation", "Gait Re-education"},
	"Osteopathy":     {"Spinal Manipulation", "Cranial Therapy"},
	"Massage":        {"Deep Tissue Massage", "Sports Massage"},
	"Acupuncture":    {"Acupuncture Session", "Dry Needling"},
	"Sports Therapy": {"Injury Assessment", "Taping and Strapping"},
}

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Str("component", "seed").Logger()
	log.Info().Msg("seed starting")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("create data dir")
	}

	gofakeit.Seed(time.Now().UnixNano())

	practitionerIDs := seedPractitioners(log, cfg.DataDir, 10)
	seedTreatments(log, cfg.DataDir)
	seedPatients(log, cfg.DataDir, 25)
	seedTimetable(log, cfg.DataDir, practitionerIDs, cfg.Term)

	log.Info().Msg("seed complete")
}

func writeLines(log zerolog.Logger, dir, name string, lines []string) {
	path := filepath.Join(dir, name)
	data := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		log.Fatal().Err(err).Str("file", name).Msg("write data file")
	}
	log.Info().Str("file", name).Int("records", len(lines)).Msg("wrote data file")
}

// streetAddress deliberately embeds a comma; the loaders must rejoin it
// from the line ends.
func streetAddress() string {
	return fmt.Sprintf("%s, %s", gofakeit.Street(), gofakeit.City())
}

func seedPractitioners(log zerolog.Logger, dir string, count int) []string {
	ids := make([]string, 0, count)
	lines := make([]string, 0, count)
	for i := 0; i < count; i++ {
		id := fmt.Sprintf("PR%03d", i+1)
		ids = append(ids, id)

		primary := expertiseTags[gofakeit.Number(0, len(expertiseTags)-1)]
		secondary := expertiseTags[gofakeit.Number(0, len(expertiseTags)-1)]
		tags := primary
		if secondary != primary {
			tags += ";" + secondary
		}

		lines = append(lines, fmt.Sprintf("%s,%s,%s,%s,%s",
			id, gofakeit.Name(), streetAddress(), gofakeit.Phone(), tags))
	}
	writeLines(log, dir, textstore.PractitionersFile, lines)
	return ids
}

func seedTreatments(log zerolog.Logger, dir string) {
	// Reload so treatments line up with each practitioner's tags.
	store := textstore.New(dir, zerolog.Nop())
	practitioners, err := store.LoadPractitioners()
	if err != nil {
		log.Fatal().Err(err).Msg("reload practitioners")
	}

	var lines []string
	for _, p := range practitioners {
		for _, tag := range p.Expertise {
			names := treatmentNames[tag]
			if len(names) == 0 {
				continue
			}
			name := names[gofakeit.Number(0, len(names)-1)]
			duration := []int{30, 45, 60}[gofakeit.Number(0, 2)]
			cost := float64(gofakeit.Number(40, 140))
			lines = append(lines, fmt.Sprintf("%s,%s,%s,%d,%.2f", p.ID, name, tag, duration, cost))
		}
	}
	writeLines(log, dir, textstore.TreatmentsFile, lines)
}

func seedPatients(log zerolog.Logger, dir string, count int) {
	lines := make([]string, 0, count)
	for i := 0; i < count; i++ {
		lines = append(lines, fmt.Sprintf("PT%03d,%s,%s,%s",
			i+1, gofakeit.Name(), streetAddress(), gofakeit.Phone()))
	}
	writeLines(log, dir, textstore.PatientsFile, lines)
}

// seedTimetable gives each practitioner a morning or afternoon window
// on roughly half the weekdays of the term.
func seedTimetable(log zerolog.Logger, dir string, practitionerIDs []string, term clinic.Term) {
	var lines []string
	for day := term.Start; day.Before(term.End); day = day.AddDate(0, 0, 1) {
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		for _, id := range practitionerIDs {
			if gofakeit.Bool() {
				continue
			}
			var start, end string
			if gofakeit.Bool() {
				start, end = "09:00", "13:00"
			} else {
				start, end = "13:00", "17:00"
			}
			lines = append(lines, fmt.Sprintf("%s,%s,%s,%s",
				id, day.Format(clinic.DateLayout), start, end))
		}
	}
	writeLines(log, dir, textstore.TimetableFile, lines)
}
