package booking

import (
	"time"

	"github.com/bookmyappointment/booking-api/internal/httperr"
	"github.com/bookmyappointment/booking-api/internal/models"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusBooked   Status = "booked"
	StatusCanceled Status = "canceled"
)

func InitialStatus() Status {
	return StatusBooked
}

// CanMutate guards reschedule and edit: only a booked appointment moves.
func CanMutate(current Status) error {
	if current != StatusBooked {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanCancel guards cancellation. Canceling twice is an invalid_state error,
// never a second notification.
func CanCancel(current Status) error {
	if current != StatusBooked {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// ===============================
// Domain Actions
// ===============================

// Cancel flips a booked appointment to canceled, retaining the record.
// Cancellation is terminal.
func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCanceled)
	ap.CanceledAt = &now
	return nil
}
