package booking

import (
	"regexp"

	"github.com/bookmyappointment/booking-api/internal/httperr"
)

// ===============================
// Booking Validator
// ===============================

// Rejection codes, in the order the rules run. The first failing rule wins.
const (
	CodeMissingFields  = "missing_fields"
	CodeInvalidContact = "invalid_contact"
	CodeNotAvailable   = "not_available"
	CodeOutsideHours   = "outside_hours"
	CodeConflict       = "time_conflict"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^[0-9+\-() ]+$`)
)

// Request is a candidate booking as the validator sees it. DurationMin comes
// from the service, never from client input.
type Request struct {
	BusinessID  uint
	ServiceID   uint
	Date        string // YYYY-MM-DD
	Time        string // HH:mm
	DurationMin int

	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}

// ValidateRequest runs the field and contact rules.
func ValidateRequest(req Request) error {
	if req.BusinessID == 0 || req.ServiceID == 0 ||
		req.Date == "" || req.Time == "" ||
		req.CustomerName == "" || req.CustomerEmail == "" || req.CustomerPhone == "" {
		return httperr.ErrBusiness(CodeMissingFields)
	}
	if err := ValidateContact(req.CustomerEmail, req.CustomerPhone); err != nil {
		return err
	}
	return nil
}

// ValidateContact checks the customer email and phone formats.
func ValidateContact(email, phone string) error {
	if !emailRe.MatchString(email) || !phoneRe.MatchString(phone) {
		return httperr.ErrBusiness(CodeInvalidContact)
	}
	return nil
}

// SlotInterval derives the requested [start, start+duration) interval.
func SlotInterval(req Request) (Interval, error) {
	start, err := ParseClock(req.Time)
	if err != nil {
		return Interval{}, err
	}
	if req.DurationMin <= 0 {
		return Interval{}, httperr.ErrBusiness(CodeMissingFields)
	}
	return Interval{Start: start, End: start + req.DurationMin}, nil
}

// ValidateSlot runs the availability, window and conflict rules for a slot
// against a resolution and the booked intervals already held by the same
// staff on the same date.
func ValidateSlot(slot Interval, res Resolution, existing []Interval) error {
	if !res.Open {
		return httperr.ErrBusiness(CodeNotAvailable)
	}
	if !res.Window.Contains(slot) || overlapsAny(res.Breaks, slot) {
		return httperr.ErrBusiness(CodeOutsideHours)
	}
	if overlapsAny(existing, slot) {
		return httperr.ErrBusiness(CodeConflict)
	}
	return nil
}

// Validate runs every rule in order and returns the slot interval on
// acceptance. The conflict rule here is only a fast pre-check; the repository
// re-runs it under a lock immediately before commit.
func Validate(req Request, res Resolution, existing []Interval) (Interval, error) {
	if err := ValidateRequest(req); err != nil {
		return Interval{}, err
	}
	slot, err := SlotInterval(req)
	if err != nil {
		return Interval{}, err
	}
	if err := ValidateSlot(slot, res, existing); err != nil {
		return Interval{}, err
	}
	return slot, nil
}
