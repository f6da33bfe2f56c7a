package booking

import (
	"context"

	"github.com/bookmyappointment/booking-api/internal/models"
)

// TimeSlot is a bookable slot as presented to customers.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Repository interface {
	// -------- Business --------
	GetBusinessByID(
		ctx context.Context,
		id uint,
	) (*models.Business, error)

	// GetDayConfig loads a business weekday with its breaks. A missing row
	// resolves as Not Available.
	GetDayConfig(
		ctx context.Context,
		businessID uint,
		weekday string,
	) (DayConfig, error)

	// GetStaffDayConfig loads one team member's weekday. A missing row
	// resolves as Not Available, matching the availability map semantics.
	GetStaffDayConfig(
		ctx context.Context,
		businessID uint,
		staffID uint,
		weekday string,
	) (StaffDayConfig, error)

	// -------- Service / staff --------
	GetService(
		ctx context.Context,
		businessID uint,
		serviceID uint,
	) (*models.Service, error)

	ListTeamMembers(
		ctx context.Context,
		businessID uint,
	) ([]models.User, error)

	// -------- Appointments (read) --------
	GetAppointment(
		ctx context.Context,
		businessID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	GetAppointmentByPublicID(
		ctx context.Context,
		publicID string,
	) (*models.Appointment, error)

	// ListBookedIntervals returns the booked intervals held by any of the
	// given staff on the date, excluding excludeID (0 = exclude nothing).
	ListBookedIntervals(
		ctx context.Context,
		businessID uint,
		staffIDs []uint,
		date string,
		excludeID uint,
	) ([]Interval, error)

	// -------- Appointments (atomic write) --------

	// Reserve commits a new booked appointment. The conflict check and the
	// insert run in one transaction with the slot locked, so two concurrent
	// reservations of the same staff/date/time cannot both succeed.
	Reserve(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// Move re-reserves an existing appointment at a new slot, excluding the
	// appointment itself from the conflict set, under the same locking
	// discipline as Reserve.
	Move(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error
}
