package clinic

import "time"

// Term is the fixed calendar window the clinic takes bookings for.
// Candidate slots fall on whole hours, weekdays only, inside
// [DayStart, DayEnd) o'clock.
type Term struct {
	Start    time.Time
	End      time.Time
	DayStart int
	DayEnd   int
}

// DefaultTerm is the current operating term.
func DefaultTerm() Term {
	return Term{
		Start:    time.Date(2025, time.April, 1, 9, 0, 0, 0, time.UTC),
		End:      time.Date(2025, time.April, 28, 17, 0, 0, 0, time.UTC),
		DayStart: 9,
		DayEnd:   17,
	}
}

func (t Term) isBusinessHour(at time.Time) bool {
	return at.Hour() >= t.DayStart && at.Hour() < t.DayEnd
}

func isWeekday(at time.Time) bool {
	wd := at.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// FindEarliestSlot scans the term hour by hour and returns the first
// candidate time at which the treatment fits an availability window and
// clashes with none of the practitioner's live appointments. Cancelled
// appointments do not block a slot here, unlike at booking time.
// Candidates are generated in strictly increasing order, so the result
// is the unique minimal valid time.
func (c *Clinic) FindEarliestSlot(practitioner *Practitioner, treatment Treatment) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.findEarliestSlot(practitioner, treatment)
}

func (c *Clinic) findEarliestSlot(practitioner *Practitioner, treatment Treatment) (string, error) {
	duration := time.Duration(treatment.Duration) * time.Minute

	for current := c.term.Start; current.Before(c.term.End); {
		if !isWeekday(current) {
			// Jump to the next day's opening hour.
			next := current.AddDate(0, 0, 1)
			current = time.Date(next.Year(), next.Month(), next.Day(), c.term.DayStart, 0, 0, 0, next.Location())
			continue
		}
		if c.term.isBusinessHour(current) {
			end := current.Add(duration)
			if c.withinAvailability(practitioner.ID, current, end) &&
				!c.hasConflict(practitioner.ID, current, end, true) {
				return current.Format(DateTimeLayout), nil
			}
		}
		current = current.Add(time.Hour)
	}
	return "", ErrNoSlot
}
