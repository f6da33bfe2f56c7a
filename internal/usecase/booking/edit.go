package booking

import (
	"context"

	"github.com/bookmyappointment/booking-api/internal/audit"
	domain "github.com/bookmyappointment/booking-api/internal/domain/booking"
	"github.com/bookmyappointment/booking-api/internal/models"
	"github.com/bookmyappointment/booking-api/internal/notify"
)

// ===============================
// Use case: edit appointment
// ===============================

// EditAppointmentInput carries the customer-facing fields an edit may touch.
// The slot itself never changes here; moving an appointment goes through
// the reschedule path and its conflict check.
type EditAppointmentInput struct {
	BusinessID    uint
	AppointmentID uint

	CustomerName  *string
	CustomerEmail *string
	CustomerPhone *string

	ActorID   *uint
	ActorName string
	ActorRole string
}

type EditAppointmentOutput struct {
	Appointment *models.Appointment
	EmailSent   bool
}

type EditAppointmentUseCase struct {
	repo     domain.Repository
	notifier Notifier
	audit    AuditSink
}

func NewEditAppointmentUseCase(
	repo domain.Repository,
	notifier Notifier,
	auditSink AuditSink,
) *EditAppointmentUseCase {
	return &EditAppointmentUseCase{
		repo:     repo,
		notifier: notifier,
		audit:    auditSink,
	}
}

func (uc *EditAppointmentUseCase) Execute(
	ctx context.Context,
	input EditAppointmentInput,
) (*EditAppointmentOutput, error) {

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

	email := ap.CustomerEmail
	if input.CustomerEmail != nil {
		email = *input.CustomerEmail
	}
	phone := ap.CustomerPhone
	if input.CustomerPhone != nil {
		phone = *input.CustomerPhone
	}
	if err := domain.ValidateContact(email, phone); err != nil {
		return nil, err
	}

	if input.CustomerName != nil && *input.CustomerName != "" {
		ap.CustomerName = *input.CustomerName
	}
	ap.CustomerEmail = email
	ap.CustomerPhone = phone
	ap.ActorName = input.ActorName
	ap.ActorRole = input.ActorRole

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: ap.BusinessID,
		UserID:     input.ActorID,
		Action:     "appointment_edited",
		Entity:     "appointment",
		EntityID:   &ap.ID,
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

	return &EditAppointmentOutput{Appointment: ap, EmailSent: emailSent}, nil
}
