// Command clinic is the operator front-end to the booking system. Each
// subcommand loads the flat data files, performs one clinic operation,
// snapshots the changed collections back to disk, and exits.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/boostphysio/clinic-booking/internal/clinic"
	"github.com/boostphysio/clinic-booking/internal/config"
	"github.com/boostphysio/clinic-booking/internal/textstore"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Str("component", "clinic-cli").Logger()

	root := &cobra.Command{
		Use:           "clinic",
		Short:         "Manage clinic appointment booking",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newBookCmd(log),
		newBookByExpertiseCmd(log),
		newBookByPractitionerCmd(log),
		newCancelCmd(log),
		newStatusCmd(log),
		newFindSlotCmd(log),
		newReportCmd(log),
		newPatientCmd(log),
		newSearchCmd(log),
	)

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// openClinic loads config and every data file into a clinic instance.
func openClinic(log zerolog.Logger) (*clinic.Clinic, *textstore.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	store := textstore.New(cfg.DataDir, log)
	c, err := store.LoadClinic(cfg.Term)
	if err != nil {
		return nil, nil, err
	}
	return c, store, nil
}

// saveAppointments snapshots the appointment collection; a failed save
// is logged but does not fail the command, mirroring the persistence
// policy of the API.
func saveAppointments(log zerolog.Logger, store *textstore.Store, c *clinic.Clinic) {
	if err := store.SaveAppointments(c.Appointments()); err != nil {
		log.Error().Err(err).Msg("appointment save failed, in-memory result was not persisted")
	}
}

func newBookCmd(log zerolog.Logger) *cobra.Command {
	var patientID, practitionerID, treatmentName, dateTime string

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book an appointment at an explicit date-time",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, store, err := openClinic(log)
			if err != nil {
				return err
			}
			patient, err := c.PatientByID(patientID)
			if err != nil {
				return err
			}
			practitioner, err := c.PractitionerByID(practitionerID)
			if err != nil {
				return err
			}
			treatment, ok := practitioner.TreatmentByName(treatmentName)
			if !ok {
				return fmt.Errorf("%s does not offer %q", practitioner.Name, treatmentName)
			}
			appt, err := c.BookAppointment(patient, practitioner, treatment, dateTime)
			if err != nil {
				return err
			}
			saveAppointments(log, store, c)
			fmt.Printf("booked %s with %s at %s\n", appt.Treatment.Name, appt.Practitioner.Name, appt.DateTime)
			return nil
		},
	}

	cmd.Flags().StringVar(&patientID, "patient", "", "patient id")
	cmd.Flags().StringVar(&practitionerID, "practitioner", "", "practitioner id")
	cmd.Flags().StringVar(&treatmentName, "treatment", "", "treatment name")
	cmd.Flags().StringVar(&dateTime, "at", "", "date-time in YYYY-MM-DD HH:mm form")
	_ = cmd.MarkFlagRequired("patient")
	_ = cmd.MarkFlagRequired("practitioner")
	_ = cmd.MarkFlagRequired("treatment")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

func newBookByExpertiseCmd(log zerolog.Logger) *cobra.Command {
	var patientID, expertise string

	cmd := &cobra.Command{
		Use:   "book-expertise",
		Short: "Book the earliest slot with any practitioner carrying an expertise",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, store, err := openClinic(log)
			if err != nil {
				return err
			}
			appt, err := c.BookByExpertise(expertise, patientID)
			if err != nil {
				return err
			}
			saveAppointments(log, store, c)
			fmt.Printf("booked %s with %s at %s\n", appt.Treatment.Name, appt.Practitioner.Name, appt.DateTime)
			return nil
		},
	}

	cmd.Flags().StringVar(&patientID, "patient", "", "patient id")
	cmd.Flags().StringVar(&expertise, "expertise", "", "expertise tag")
	_ = cmd.MarkFlagRequired("patient")
	_ = cmd.MarkFlagRequired("expertise")
	return cmd
}

func newBookByPractitionerCmd(log zerolog.Logger) *cobra.Command {
	var patientID, name string

	cmd := &cobra.Command{
		Use:   "book-practitioner",
		Short: "Book the earliest slot with a named practitioner",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, store, err := openClinic(log)
			if err != nil {
				return err
			}
			appt, err := c.BookByPractitionerName(name, patientID)
			if err != nil {
				return err
			}
			saveAppointments(log, store, c)
			fmt.Printf("booked %s with %s at %s\n", appt.Treatment.Name, appt.Practitioner.Name, appt.DateTime)
			return nil
		},
	}

	cmd.Flags().StringVar(&patientID, "patient", "", "patient id")
	cmd.Flags().StringVar(&name, "name", "", "practitioner name")
	_ = cmd.MarkFlagRequired("patient")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCancelCmd(log zerolog.Logger) *cobra.Command {
	var practitionerID, dateTime string

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel the appointment at a practitioner's date-time",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, store, err := openClinic(log)
			if err != nil {
				return err
			}
			practitioner, err := c.PractitionerByID(practitionerID)
			if err != nil {
				return err
			}
			if err := c.CancelAppointment(dateTime, practitioner); err != nil {
				return err
			}
			saveAppointments(log, store, c)
			fmt.Printf("cancelled appointment with %s at %s\n", practitioner.Name, dateTime)
			return nil
		},
	}

	cmd.Flags().StringVar(&practitionerID, "practitioner", "", "practitioner id")
	cmd.Flags().StringVar(&dateTime, "at", "", "date-time in YYYY-MM-DD HH:mm form")
	_ = cmd.MarkFlagRequired("practitioner")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

func newStatusCmd(log zerolog.Logger) *cobra.Command {
	var practitionerID, dateTime, status string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Set an appointment's status (BOOKED, ATTENDED, CANCELLED)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, store, err := openClinic(log)
			if err != nil {
				return err
			}
			parsed, err := clinic.ParseStatus(status)
			if err != nil {
				return err
			}
			key := clinic.AppointmentKey{DateTime: dateTime, PractitionerID: practitionerID}
			if err := c.ChangeStatus(key, parsed); err != nil {
				return err
			}
			saveAppointments(log, store, c)
			fmt.Printf("appointment at %s is now %s\n", dateTime, parsed)
			return nil
		},
	}

	cmd.Flags().StringVar(&practitionerID, "practitioner", "", "practitioner id")
	cmd.Flags().StringVar(&dateTime, "at", "", "date-time in YYYY-MM-DD HH:mm form")
	cmd.Flags().StringVar(&status, "to", "", "new status")
	_ = cmd.MarkFlagRequired("practitioner")
	_ = cmd.MarkFlagRequired("at")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newFindSlotCmd(log zerolog.Logger) *cobra.Command {
	var practitionerID, treatmentName string

	cmd := &cobra.Command{
		Use:   "find-slot",
		Short: "Find the earliest open slot for a practitioner and treatment",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := openClinic(log)
			if err != nil {
				return err
			}
			practitioner, err := c.PractitionerByID(practitionerID)
			if err != nil {
				return err
			}
			treatment, ok := practitioner.TreatmentByName(treatmentName)
			if !ok {
				return fmt.Errorf("%s does not offer %q", practitioner.Name, treatmentName)
			}
			dateTime, err := c.FindEarliestSlot(practitioner, treatment)
			if err != nil {
				return err
			}
			fmt.Println(dateTime)
			return nil
		},
	}

	cmd.Flags().StringVar(&practitionerID, "practitioner", "", "practitioner id")
	cmd.Flags().StringVar(&treatmentName, "treatment", "", "treatment name")
	_ = cmd.MarkFlagRequired("practitioner")
	_ = cmd.MarkFlagRequired("treatment")
	return cmd
}

func newReportCmd(log zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the end-of-term report",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := openClinic(log)
			if err != nil {
				return err
			}
			c.GenerateReport().Render(cmd.OutOrStdout())
			return nil
		},
	}
}

func newPatientCmd(log zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patient",
		Short: "Add or remove patients",
	}

	var name, address, phone string
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a new patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, store, err := openClinic(log)
			if err != nil {
				return err
			}
			patient := clinic.Patient{
				ID:      uuid.NewString(),
				Name:    name,
				Address: address,
				Phone:   phone,
			}
			c.AddPatient(patient)
			if err := store.SavePatients(c.Patients()); err != nil {
				log.Error().Err(err).Msg("patient save failed")
			}
			fmt.Printf("added patient %s (%s)\n", patient.Name, patient.ID)
			return nil
		},
	}
	add.Flags().StringVar(&name, "name", "", "patient name")
	add.Flags().StringVar(&address, "address", "", "patient address")
	add.Flags().StringVar(&phone, "phone", "", "patient phone")
	_ = add.MarkFlagRequired("name")

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a patient by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, store, err := openClinic(log)
			if err != nil {
				return err
			}
			if _, err := c.PatientByID(args[0]); err != nil {
				return err
			}
			c.RemovePatient(args[0])
			if err := store.SavePatients(c.Patients()); err != nil {
				log.Error().Err(err).Msg("patient save failed")
			}
			fmt.Printf("removed patient %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(add, remove)
	return cmd
}

func newSearchCmd(log zerolog.Logger) *cobra.Command {
	var name, expertise string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Look up practitioners by name or expertise",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := openClinic(log)
			if err != nil {
				return err
			}
			if name != "" {
				p, err := c.SearchByPractitionerName(name)
				if err != nil {
					return err
				}
				printPractitioner(p)
				return nil
			}
			if expertise != "" {
				for _, p := range c.SearchByExpertise(expertise) {
					printPractitioner(p)
				}
				return nil
			}
			return fmt.Errorf("one of --name or --expertise is required")
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "practitioner name (case-insensitive)")
	cmd.Flags().StringVar(&expertise, "expertise", "", "expertise tag")
	return cmd
}

func printPractitioner(p *clinic.Practitioner) {
	fmt.Printf("%s  %s  %s\n", p.ID, p.Name, p.Phone)
	for _, t := range p.Treatments {
		fmt.Printf("  - %s (%s, %d min, $%.2f)\n", t.Name, t.Expertise, t.Duration, t.Cost)
	}
}
