package booking

import (
	"context"
	"fmt"

	"github.com/bookmyappointment/booking-api/internal/audit"
	domain "github.com/bookmyappointment/booking-api/internal/domain/booking"
	"github.com/bookmyappointment/booking-api/internal/httperr"
	"github.com/bookmyappointment/booking-api/internal/models"
	"github.com/bookmyappointment/booking-api/internal/notify"
)

// Notifier delivers customer-facing appointment notifications. Delivery
// failure is reported to the caller but never fails the mutation.
type Notifier interface {
	Notify(ctx context.Context, ev notify.Event) error
}

// AuditSink records mutations off the request path.
type AuditSink interface {
	Dispatch(ev audit.Event)
}

// SlotCache invalidates computed free slots when the schedule changes.
// Implemented by the redis cache; a nil *cache.SlotCache is a no-op.
type SlotCache interface {
	Get(ctx context.Context, businessID uint, staffKey string, serviceID uint, date string) ([]domain.TimeSlot, bool)
	Set(ctx context.Context, businessID uint, staffKey string, serviceID uint, date string, slots []domain.TimeSlot)
	InvalidateDay(ctx context.Context, businessID uint, date string)
}

// durationDisplay keeps the human-readable duration the original records
// alongside the structured minutes.
func durationDisplay(svc *models.Service) string {
	return fmt.Sprintf("%dh %dm", svc.DurationHours, svc.DurationMinutes)
}

// staffNames flattens an appointment's staff fan-out for notifications.
func staffNames(staff []models.AppointmentStaff) []string {
	names := make([]string, 0, len(staff))
	for _, s := range staff {
		names = append(names, s.DisplayName)
	}
	return names
}

// resolveStaffSlot applies the availability and window rules for a slot
// across the staff being recorded. A single-member booking needs that member
// open with the slot inside their window; an all-team booking proceeds when
// at least one member resolves open and fits.
func resolveStaffSlot(
	ctx context.Context,
	repo domain.Repository,
	businessID uint,
	weekday string,
	members []models.User,
	slot domain.Interval,
) error {

	day, err := repo.GetDayConfig(ctx, businessID, weekday)
	if err != nil {
		return err
	}

	sawOpen := false
	for _, m := range members {
		staffCfg, err := repo.GetStaffDayConfig(ctx, businessID, m.ID, weekday)
		if err != nil {
			return err
		}

		res := domain.Resolve(day, &staffCfg)
		if !res.Open {
			continue
		}
		sawOpen = true

		if err := domain.ValidateSlot(slot, res, nil); err == nil {
			return nil
		}
	}

	if !sawOpen {
		return httperr.ErrBusiness(domain.CodeNotAvailable)
	}
	return httperr.ErrBusiness(domain.CodeOutsideHours)
}
