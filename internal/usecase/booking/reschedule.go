package booking

import (
	"context"

	"github.com/bookmyappointment/booking-api/internal/audit"
	domain "github.com/bookmyappointment/booking-api/internal/domain/booking"
	"github.com/bookmyappointment/booking-api/internal/httperr"
	"github.com/bookmyappointment/booking-api/internal/models"
	"github.com/bookmyappointment/booking-api/internal/notify"
)

// ===============================
// Use case: reschedule appointment
// ===============================

type RescheduleAppointmentInput struct {
	BusinessID    uint
	AppointmentID uint

	Date string // YYYY-MM-DD
	Time string // HH:mm

	// Zero keeps the current value.
	StaffID   uint
	ServiceID uint

	ActorID   *uint
	ActorName string
	ActorRole string
}

type RescheduleAppointmentOutput struct {
	Appointment *models.Appointment
	EmailSent   bool
}

type RescheduleAppointmentUseCase struct {
	repo     domain.Repository
	cache    SlotCache
	notifier Notifier
	audit    AuditSink
}

func NewRescheduleAppointmentUseCase(
	repo domain.Repository,
	cache SlotCache,
	notifier Notifier,
	auditSink AuditSink,
) *RescheduleAppointmentUseCase {
	return &RescheduleAppointmentUseCase{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		audit:    auditSink,
	}
}

func (uc *RescheduleAppointmentUseCase) Execute(
	ctx context.Context,
	input RescheduleAppointmentInput,
) (*RescheduleAppointmentOutput, error) {

	if input.Date == "" || input.Time == "" {
		return nil, httperr.ErrBusiness(domain.CodeMissingFields)
	}

	ap, err := uc.repo.GetAppointment(ctx, input.BusinessID, input.AppointmentID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanMutate(domain.Status(ap.Status)); err != nil {
		return nil, err
	}
	if err := authorizeMutation(ap, input.ActorID, input.ActorRole); err != nil {
		return nil, err
	}

	// A new service re-derives the denormalized copy and the duration.
	if input.ServiceID != 0 && input.ServiceID != ap.ServiceID {
		svc, err := uc.repo.GetService(ctx, input.BusinessID, input.ServiceID)
		if err != nil {
			return nil, err
		}
		ap.ServiceID = svc.ID
		ap.ServiceName = svc.Name
		ap.ServiceDescription = svc.Description
		ap.DurationDisplay = durationDisplay(svc)
		ap.DurationMin = svc.DurationMin()
	}

	recorded := ap.Staff
	if input.StaffID != 0 {
		members, err := uc.repo.ListTeamMembers(ctx, input.BusinessID)
		if err != nil {
			return nil, err
		}
		found := false
		for _, m := range members {
			if m.ID == input.StaffID {
				recorded = []models.AppointmentStaff{{StaffID: m.ID, DisplayName: m.DisplayName}}
				found = true
				break
			}
		}
		if !found {
			return nil, httperr.ErrBusiness("not_found")
		}
	}

	start, err := domain.ParseClock(input.Time)
	if err != nil {
		return nil, err
	}
	slot := domain.Interval{Start: start, End: start + ap.DurationMin}

	weekday, err := domain.WeekdayOf(input.Date)
	if err != nil {
		return nil, err
	}

	asUsers := make([]models.User, 0, len(recorded))
	for _, s := range recorded {
		asUsers = append(asUsers, models.User{ID: s.StaffID, DisplayName: s.DisplayName})
	}
	if err := resolveStaffSlot(ctx, uc.repo, input.BusinessID, weekday, asUsers, slot); err != nil {
		return nil, err
	}

	staffIDs := make([]uint, 0, len(recorded))
	for _, s := range recorded {
		staffIDs = append(staffIDs, s.StaffID)
	}
	existing, err := uc.repo.ListBookedIntervals(ctx, input.BusinessID, staffIDs, input.Date, ap.ID)
	if err != nil {
		return nil, err
	}
	for _, iv := range existing {
		if iv.Overlaps(slot) {
			return nil, httperr.ErrBusiness(domain.CodeConflict)
		}
	}

	oldDate := ap.Date

	ap.Date = input.Date
	ap.Time = input.Time
	ap.StartMin = slot.Start
	ap.EndMin = slot.End
	ap.Staff = recorded
	ap.ActorName = input.ActorName
	ap.ActorRole = input.ActorRole

	if err := uc.repo.Move(ctx, ap); err != nil {
		return nil, err
	}

	uc.cache.InvalidateDay(ctx, ap.BusinessID, oldDate)
	if ap.Date != oldDate {
		uc.cache.InvalidateDay(ctx, ap.BusinessID, ap.Date)
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: ap.BusinessID,
		UserID:     input.ActorID,
		Action:     "appointment_rescheduled",
		Entity:     "appointment",
		EntityID:   &ap.ID,
		Metadata: map[string]any{
			"from_date": oldDate,
			"date":      ap.Date,
			"time":      ap.Time,
		},
	})

	emailSent := uc.notifier.Notify(ctx, notify.Event{
		CustomerEmail: ap.CustomerEmail,
		CustomerName:  ap.CustomerName,
		Date:          ap.Date,
		Time:          ap.Time,
		ServiceName:   ap.ServiceName,
		StaffNames:    staffNames(ap.Staff),
		Action:        notify.ActionUpdated,
		Actor:         input.ActorName,
		ActorRole:     input.ActorRole,
	}) == nil

	return &RescheduleAppointmentOutput{Appointment: ap, EmailSent: emailSent}, nil
}

// authorizeMutation lets the admin mutate anything; a team member may only
// mutate appointments they are recorded on.
func authorizeMutation(ap *models.Appointment, actorID *uint, actorRole string) error {
	if actorRole == "admin" {
		return nil
	}
	if actorID != nil {
		for _, s := range ap.Staff {
			if s.StaffID == *actorID {
				return nil
			}
		}
	}
	return httperr.ErrBusiness("forbidden")
}
