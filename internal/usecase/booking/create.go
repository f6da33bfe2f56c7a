package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookmyappointment/booking-api/internal/audit"
	domain "github.com/bookmyappointment/booking-api/internal/domain/booking"
	"github.com/bookmyappointment/booking-api/internal/httperr"
	"github.com/bookmyappointment/booking-api/internal/models"
	"github.com/bookmyappointment/booking-api/internal/notify"
)

// ===============================
// Use case: create appointment
// ===============================

type CreateAppointmentInput struct {
	BusinessID uint
	ServiceID  uint

	// StaffID selects one team member; 0 books the whole team, recording
	// every member on the appointment.
	StaffID uint

	Date string // YYYY-MM-DD
	Time string // HH:mm

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	// Actor of the mutation, carried into notification wording.
	ActorID   *uint
	ActorName string
	ActorRole string
}

type CreateAppointmentOutput struct {
	Appointment *models.Appointment
	EmailSent   bool
}

type CreateAppointmentUseCase struct {
	repo     domain.Repository
	cache    SlotCache
	notifier Notifier
	audit    AuditSink
}

func NewCreateAppointmentUseCase(
	repo domain.Repository,
	cache SlotCache,
	notifier Notifier,
	auditSink AuditSink,
) *CreateAppointmentUseCase {
	return &CreateAppointmentUseCase{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		audit:    auditSink,
	}
}

func (uc *CreateAppointmentUseCase) Execute(
	ctx context.Context,
	input CreateAppointmentInput,
) (*CreateAppointmentOutput, error) {

	req := domain.Request{
		BusinessID:    input.BusinessID,
		ServiceID:     input.ServiceID,
		Date:          input.Date,
		Time:          input.Time,
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		CustomerPhone: input.CustomerPhone,
	}
	if err := domain.ValidateRequest(req); err != nil {
		return nil, err
	}

	biz, err := uc.repo.GetBusinessByID(ctx, input.BusinessID)
	if err != nil {
		return nil, err
	}

	svc, err := uc.repo.GetService(ctx, input.BusinessID, input.ServiceID)
	if err != nil {
		return nil, err
	}
	req.DurationMin = svc.DurationMin()

	slot, err := domain.SlotInterval(req)
	if err != nil {
		return nil, err
	}

	weekday, err := domain.WeekdayOf(input.Date)
	if err != nil {
		return nil, err
	}

	recorded, err := uc.selectStaff(ctx, input.BusinessID, input.StaffID)
	if err != nil {
		return nil, err
	}

	if err := resolveStaffSlot(ctx, uc.repo, input.BusinessID, weekday, recorded, slot); err != nil {
		return nil, err
	}

	// Fast conflict pre-check; the repository re-runs it under the slot lock.
	staffIDs := make([]uint, 0, len(recorded))
	for _, m := range recorded {
		staffIDs = append(staffIDs, m.ID)
	}
	existing, err := uc.repo.ListBookedIntervals(ctx, input.BusinessID, staffIDs, input.Date, 0)
	if err != nil {
		return nil, err
	}
	for _, iv := range existing {
		if iv.Overlaps(slot) {
			return nil, httperr.ErrBusiness(domain.CodeConflict)
		}
	}

	ap := &models.Appointment{
		PublicID:     uuid.NewString(),
		BusinessID:   biz.ID,
		BusinessName: biz.Name,

		ServiceID:          svc.ID,
		ServiceName:        svc.Name,
		ServiceDescription: svc.Description,
		DurationDisplay:    durationDisplay(svc),
		DurationMin:        svc.DurationMin(),

		Date:     input.Date,
		Time:     input.Time,
		StartMin: slot.Start,
		EndMin:   slot.End,

		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		CustomerPhone: input.CustomerPhone,

		Status:    string(domain.InitialStatus()),
		ActorName: input.ActorName,
		ActorRole: input.ActorRole,
	}
	for _, m := range recorded {
		ap.Staff = append(ap.Staff, models.AppointmentStaff{
			StaffID:     m.ID,
			DisplayName: m.DisplayName,
		})
	}

	if err := uc.repo.Reserve(ctx, ap); err != nil {
		return nil, err
	}

	uc.cache.InvalidateDay(ctx, ap.BusinessID, ap.Date)

	uc.audit.Dispatch(audit.Event{
		BusinessID: ap.BusinessID,
		UserID:     input.ActorID,
		Action:     "appointment_created",
		Entity:     "appointment",
		EntityID:   &ap.ID,
		Metadata: map[string]any{
			"date":    ap.Date,
			"time":    ap.Time,
			"service": ap.ServiceName,
		},
	})

	emailSent := uc.notifier.Notify(ctx, notify.Event{
		CustomerEmail: ap.CustomerEmail,
		CustomerName:  ap.CustomerName,
		Date:          ap.Date,
		Time:          ap.Time,
		ServiceName:   ap.ServiceName,
		StaffNames:    staffNames(ap.Staff),
		Action:        notify.ActionConfirmed,
		Actor:         input.ActorName,
		ActorRole:     input.ActorRole,
	}) == nil

	return &CreateAppointmentOutput{Appointment: ap, EmailSent: emailSent}, nil
}

// selectStaff resolves the recorded staff list. StaffID 0 fans out to every
// team member; a non-zero id must belong to the business's team.
func (uc *CreateAppointmentUseCase) selectStaff(
	ctx context.Context,
	businessID uint,
	staffID uint,
) ([]models.User, error) {

	members, err := uc.repo.ListTeamMembers(ctx, businessID)
	if err != nil {
		return nil, err
	}

	if staffID == 0 {
		if len(members) == 0 {
			return nil, httperr.ErrBusiness(domain.CodeNotAvailable)
		}
		return members, nil
	}

	for _, m := range members {
		if m.ID == staffID {
			return []models.User{m}, nil
		}
	}
	return nil, httperr.ErrBusiness("not_found")
}
