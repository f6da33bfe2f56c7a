package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bookmyappointment/booking-api/internal/domain/booking"
	"github.com/bookmyappointment/booking-api/internal/httperr"
	"github.com/bookmyappointment/booking-api/internal/models"
	"github.com/bookmyappointment/booking-api/internal/notify"
)

func newRescheduleUC(repo *stubRepo) (*RescheduleAppointmentUseCase, *stubNotifier, *stubCache) {
	notifier := &stubNotifier{}
	cache := &stubCache{}
	return NewRescheduleAppointmentUseCase(repo, cache, notifier, &stubAudit{}), notifier, cache
}

func mustCreate(t *testing.T, repo *stubRepo, in CreateAppointmentInput) *models.Appointment {
	t.Helper()
	uc, _, _, _ := newCreateUC(repo)
	out, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)
	return out.Appointment
}

func adminActor() (id *uint, name string, role string) {
	adminID := uint(1)
	return &adminID, "Morgan Diaz", "admin"
}

func TestRescheduleMovesSlot(t *testing.T) {
	repo := fixtureRepo()
	ap := mustCreate(t, repo, createInput())

	uc, notifier, cache := newRescheduleUC(repo)
	actorID, actorName, actorRole := adminActor()

	out, err := uc.Execute(context.Background(), RescheduleAppointmentInput{
		BusinessID:    1,
		AppointmentID: ap.ID,
		Date:          "2026-08-24",
		Time:          "14:00",
		ActorID:       actorID,
		ActorName:     actorName,
		ActorRole:     actorRole,
	})
	require.NoError(t, err)

	assert.Equal(t, "14:00", out.Appointment.Time)
	assert.Equal(t, 840, out.Appointment.StartMin)
	assert.Equal(t, 870, out.Appointment.EndMin)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, notify.ActionUpdated, notifier.events[0].Action)
	assert.Equal(t, "admin", notifier.events[0].ActorRole)

	// Same-date move invalidates the day once.
	assert.Equal(t, []string{"2026-08-24"}, cache.invalidated)
}

// Moving an appointment within its own old slot must not conflict with
// itself.
func TestRescheduleExcludesItself(t *testing.T) {
	repo := fixtureRepo()
	ap := mustCreate(t, repo, createInput()) // 10:00-10:30

	uc, _, _ := newRescheduleUC(repo)
	actorID, actorName, actorRole := adminActor()

	out, err := uc.Execute(context.Background(), RescheduleAppointmentInput{
		BusinessID:    1,
		AppointmentID: ap.ID,
		Date:          "2026-08-24",
		Time:          "10:15",
		ActorID:       actorID,
		ActorName:     actorName,
		ActorRole:     actorRole,
	})
	require.NoError(t, err)
	assert.Equal(t, 615, out.Appointment.StartMin)
}

func TestRescheduleConflictsWithOther(t *testing.T) {
	repo := fixtureRepo()
	first := mustCreate(t, repo, createInput()) // 10:00-10:30

	second := createInput()
	second.Time = "11:00"
	other := mustCreate(t, repo, second)

	uc, _, _ := newRescheduleUC(repo)
	actorID, actorName, actorRole := adminActor()

	_, err := uc.Execute(context.Background(), RescheduleAppointmentInput{
		BusinessID:    1,
		AppointmentID: other.ID,
		Date:          "2026-08-24",
		Time:          "10:15",
		ActorID:       actorID,
		ActorName:     actorName,
		ActorRole:     actorRole,
	})
	assert.True(t, httperr.IsBusiness(err, domain.CodeConflict))

	_ = first
}

func TestRescheduleAcrossDatesInvalidatesBoth(t *testing.T) {
	repo := fixtureRepo()
	repo.days["Tuesday"] = repo.days["Monday"]
	repo.staffDays[staffDayKey(10, "Tuesday")] = domain.StaffDayConfig{Status: domain.StatusAvailable}

	ap := mustCreate(t, repo, createInput())

	uc, _, cache := newRescheduleUC(repo)
	actorID, actorName, actorRole := adminActor()

	_, err := uc.Execute(context.Background(), RescheduleAppointmentInput{
		BusinessID:    1,
		AppointmentID: ap.ID,
		Date:          "2026-08-25",
		Time:          "10:00",
		ActorID:       actorID,
		ActorName:     actorName,
		ActorRole:     actorRole,
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"2026-08-24", "2026-08-25"}, cache.invalidated)
}

func TestRescheduleForbiddenForUnassignedTeamMember(t *testing.T) {
	repo := fixtureRepo()
	ap := mustCreate(t, repo, createInput()) // assigned to member 10

	uc, _, _ := newRescheduleUC(repo)
	otherMember := uint(11)

	_, err := uc.Execute(context.Background(), RescheduleAppointmentInput{
		BusinessID:    1,
		AppointmentID: ap.ID,
		Date:          "2026-08-24",
		Time:          "14:00",
		ActorID:       &otherMember,
		ActorName:     "Sam Cruz",
		ActorRole:     "team",
	})
	assert.True(t, httperr.IsBusiness(err, "forbidden"))
}

func TestRescheduleCanceledIsInvalidState(t *testing.T) {
	repo := fixtureRepo()
	ap := mustCreate(t, repo, createInput())

	stored := repo.appointments[ap.ID]
	stored.Status = string(domain.StatusCanceled)

	uc, _, _ := newRescheduleUC(repo)
	actorID, actorName, actorRole := adminActor()

	_, err := uc.Execute(context.Background(), RescheduleAppointmentInput{
		BusinessID:    1,
		AppointmentID: ap.ID,
		Date:          "2026-08-24",
		Time:          "14:00",
		ActorID:       actorID,
		ActorName:     actorName,
		ActorRole:     actorRole,
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
}

func TestRescheduleSwitchesService(t *testing.T) {
	repo := fixtureRepo()
	repo.services[3] = &models.Service{
		ID:              3,
		BusinessID:      1,
		Name:            "Beard Trim",
		DurationHours:   1,
		DurationMinutes: 0,
		Active:          true,
	}

	ap := mustCreate(t, repo, createInput())

	uc, _, _ := newRescheduleUC(repo)
	actorID, actorName, actorRole := adminActor()

	out, err := uc.Execute(context.Background(), RescheduleAppointmentInput{
		BusinessID:    1,
		AppointmentID: ap.ID,
		Date:          "2026-08-24",
		Time:          "14:00",
		ServiceID:     3,
		ActorID:       actorID,
		ActorName:     actorName,
		ActorRole:     actorRole,
	})
	require.NoError(t, err)

	assert.Equal(t, "Beard Trim", out.Appointment.ServiceName)
	assert.Equal(t, 60, out.Appointment.DurationMin)
	assert.Equal(t, 900, out.Appointment.EndMin)
}
