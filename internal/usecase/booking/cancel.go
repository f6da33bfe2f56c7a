package booking

import (
	"context"
	"strings"

	"github.com/bookmyappointment/booking-api/internal/audit"
	domain "github.com/bookmyappointment/booking-api/internal/domain/booking"
	"github.com/bookmyappointment/booking-api/internal/httperr"
	"github.com/bookmyappointment/booking-api/internal/models"
	"github.com/bookmyappointment/booking-api/internal/notify"
	"github.com/bookmyappointment/booking-api/internal/timezone"
)

// ===============================
// Use case: cancel appointment
// ===============================

type CancelAppointmentInput struct {
	BusinessID    uint
	AppointmentID uint

	ActorID   *uint
	ActorName string
	ActorRole string
}

type CancelAppointmentOutput struct {
	Appointment *models.Appointment
	EmailSent   bool
}

type CancelAppointmentUseCase struct {
	repo     domain.Repository
	cache    SlotCache
	notifier Notifier
	audit    AuditSink
}

func NewCancelAppointmentUseCase(
	repo domain.Repository,
	cache SlotCache,
	notifier Notifier,
	auditSink AuditSink,
) *CancelAppointmentUseCase {
	return &CancelAppointmentUseCase{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		audit:    auditSink,
	}
}

// Execute cancels on behalf of the admin or an assigned team member.
func (uc *CancelAppointmentUseCase) Execute(
	ctx context.Context,
	input CancelAppointmentInput,
) (*CancelAppointmentOutput, error) {

	ap, err := uc.repo.GetAppointment(ctx, input.BusinessID, input.AppointmentID)
	if err != nil {
		return nil, err
	}
	if err := authorizeMutation(ap, input.ActorID, input.ActorRole); err != nil {
		return nil, err
	}

	return uc.cancel(ctx, ap, input.ActorID, input.ActorName, input.ActorRole)
}

// ExecuteForCustomer cancels the customer's own appointment, looked up by its
// opaque public id. The email must match the booking.
func (uc *CancelAppointmentUseCase) ExecuteForCustomer(
	ctx context.Context,
	publicID string,
	customerEmail string,
) (*CancelAppointmentOutput, error) {

	ap, err := uc.repo.GetAppointmentByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(ap.CustomerEmail, customerEmail) {
		return nil, httperr.ErrBusiness("forbidden")
	}

	return uc.cancel(ctx, ap, nil, ap.CustomerName, "customer")
}

func (uc *CancelAppointmentUseCase) cancel(
	ctx context.Context,
	ap *models.Appointment,
	actorID *uint,
	actorName string,
	actorRole string,
) (*CancelAppointmentOutput, error) {

	biz, err := uc.repo.GetBusinessByID(ctx, ap.BusinessID)
	if err != nil {
		return nil, err
	}

	// Canceling twice fails with invalid_state before any side effect.
	if err := domain.Cancel(ap, timezone.NowIn(biz.Timezone)); err != nil {
		return nil, err
	}

	ap.ActorName = actorName
	ap.ActorRole = actorRole

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.cache.InvalidateDay(ctx, ap.BusinessID, ap.Date)

	uc.audit.Dispatch(audit.Event{
		BusinessID: ap.BusinessID,
		UserID:     actorID,
		Action:     "appointment_canceled",
		Entity:     "appointment",
		EntityID:   &ap.ID,
		Metadata: map[string]any{
			"date": ap.Date,
			"time": ap.Time,
		},
	})

	emailSent := uc.notifier.Notify(ctx, notify.Event{
		CustomerEmail: ap.CustomerEmail,
		CustomerName:  ap.CustomerName,
		Date:          ap.Date,
		Time:          ap.Time,
		ServiceName:   ap.ServiceName,
		StaffNames:    staffNames(ap.Staff),
		Action:        notify.ActionCanceled,
		Actor:         actorName,
		ActorRole:     actorRole,
	}) == nil

	return &CancelAppointmentOutput{Appointment: ap, EmailSent: emailSent}, nil
}
