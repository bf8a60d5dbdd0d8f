package clinic

import "errors"

var (
	// ErrBadDateTime signals a date-time that does not parse in the
	// canonical layout.
	ErrBadDateTime = errors.New("invalid date-time")

	// ErrBadRecord signals a malformed persisted record.
	ErrBadRecord = errors.New("malformed record")

	// ErrExpertiseMismatch signals a practitioner without the expertise
	// a treatment requires.
	ErrExpertiseMismatch = errors.New("practitioner lacks required expertise")

	// ErrNotAvailable signals that no availability window contains the
	// requested interval.
	ErrNotAvailable = errors.New("practitioner is not available at the requested time")

	// ErrOverlap signals a conflict with an existing appointment for
	// the same practitioner.
	ErrOverlap = errors.New("practitioner already has an appointment at the requested time")

	// ErrNotFound signals a missing patient, practitioner, treatment or
	// appointment.
	ErrNotFound = errors.New("not found")

	// ErrNoSlot signals an exhausted slot search window.
	ErrNoSlot = errors.New("no available slot in the booking term")
)
