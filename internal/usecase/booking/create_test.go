package booking

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bookmyappointment/booking-api/internal/domain/booking"
	"github.com/bookmyappointment/booking-api/internal/httperr"
	"github.com/bookmyappointment/booking-api/internal/notify"
)

func newCreateUC(repo *stubRepo) (*CreateAppointmentUseCase, *stubNotifier, *stubAudit, *stubCache) {
	notifier := &stubNotifier{}
	auditSink := &stubAudit{}
	cache := &stubCache{}
	return NewCreateAppointmentUseCase(repo, cache, notifier, auditSink), notifier, auditSink, cache
}

func TestCreateAppointment(t *testing.T) {
	repo := fixtureRepo()
	uc, notifier, auditSink, cache := newCreateUC(repo)

	out, err := uc.Execute(context.Background(), createInput())
	require.NoError(t, err)

	ap := out.Appointment
	assert.NotZero(t, ap.ID)
	assert.NotEmpty(t, ap.PublicID)
	assert.Equal(t, "Studio One", ap.BusinessName)
	assert.Equal(t, "Haircut", ap.ServiceName)
	assert.Equal(t, 30, ap.DurationMin)
	assert.Equal(t, "0h 30m", ap.DurationDisplay)
	assert.Equal(t, 600, ap.StartMin)
	assert.Equal(t, 630, ap.EndMin)
	assert.Equal(t, string(domain.StatusBooked), ap.Status)

	require.Len(t, ap.Staff, 1)
	assert.Equal(t, uint(10), ap.Staff[0].StaffID)
	assert.Equal(t, "Alex Kim", ap.Staff[0].DisplayName)

	assert.True(t, out.EmailSent)
	require.Len(t, notifier.events, 1)
	assert.Equal(t, notify.ActionConfirmed, notifier.events[0].Action)

	require.Len(t, auditSink.events, 1)
	assert.Equal(t, "appointment_created", auditSink.events[0].Action)

	assert.Equal(t, []string{"2026-08-24"}, cache.invalidated)
}

func TestCreateAllTeamFanOut(t *testing.T) {
	repo := fixtureRepo()
	uc, _, _, _ := newCreateUC(repo)

	in := createInput()
	in.StaffID = 0

	out, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)

	// Both members get recorded even if only one would have been enough.
	require.Len(t, out.Appointment.Staff, 2)
}

func TestCreateAllTeamNeedsOneOpenMember(t *testing.T) {
	repo := fixtureRepo()
	repo.staffDays[staffDayKey(10, "Monday")] = domain.StaffDayConfig{Status: domain.StatusNotAvailable}
	repo.staffDays[staffDayKey(11, "Monday")] = domain.StaffDayConfig{Status: domain.StatusNotAvailable}

	uc, _, _, _ := newCreateUC(repo)

	in := createInput()
	in.StaffID = 0

	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, domain.CodeNotAvailable))
}

func TestCreateClosedBusinessDay(t *testing.T) {
	repo := fixtureRepo()
	uc, notifier, _, _ := newCreateUC(repo)

	in := createInput()
	in.Date = "2026-08-25" // Tuesday, not configured

	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, domain.CodeNotAvailable))
	assert.Empty(t, notifier.events)
}

func TestCreateOutsideHours(t *testing.T) {
	repo := fixtureRepo()
	uc, _, _, _ := newCreateUC(repo)

	in := createInput()
	in.Time = "17:45" // 30min slot runs past 18:00

	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, domain.CodeOutsideHours))
}

func TestCreateDuringBreak(t *testing.T) {
	repo := fixtureRepo()
	uc, _, _, _ := newCreateUC(repo)

	in := createInput()
	in.Time = "12:15"

	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, domain.CodeOutsideHours))
}

func TestCreateConflict(t *testing.T) {
	repo := fixtureRepo()
	uc, _, _, _ := newCreateUC(repo)

	_, err := uc.Execute(context.Background(), createInput())
	require.NoError(t, err)

	// Same member, overlapping slot.
	in := createInput()
	in.Time = "10:15"
	_, err = uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, domain.CodeConflict))

	// The other member is free at that time.
	in.StaffID = 11
	_, err = uc.Execute(context.Background(), in)
	assert.NoError(t, err)
}

func TestCreateBackToBackAccepted(t *testing.T) {
	repo := fixtureRepo()
	uc, _, _, _ := newCreateUC(repo)

	_, err := uc.Execute(context.Background(), createInput())
	require.NoError(t, err)

	in := createInput()
	in.Time = "10:30"
	_, err = uc.Execute(context.Background(), in)
	assert.NoError(t, err)
}

func TestCreateInvalidContact(t *testing.T) {
	repo := fixtureRepo()
	uc, _, _, _ := newCreateUC(repo)

	in := createInput()
	in.CustomerEmail = "not-an-email"

	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, domain.CodeInvalidContact))
}

func TestCreateUnknownStaff(t *testing.T) {
	repo := fixtureRepo()
	uc, _, _, _ := newCreateUC(repo)

	in := createInput()
	in.StaffID = 99

	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "not_found"))
}

func TestCreateEmailFailureStillBooks(t *testing.T) {
	repo := fixtureRepo()
	uc, notifier, _, _ := newCreateUC(repo)
	notifier.err = assert.AnError

	out, err := uc.Execute(context.Background(), createInput())
	require.NoError(t, err)
	assert.False(t, out.EmailSent)
	assert.NotZero(t, out.Appointment.ID)
}

// Two concurrent requests for the same member and slot: exactly one wins.
func TestCreateConcurrentSameSlot(t *testing.T) {
	repo := fixtureRepo()
	uc, _, _, _ := newCreateUC(repo)

	const attempts = 8

	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), createInput())
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, err := range errs {
		if err == nil {
			accepted++
		} else {
			assert.True(t, httperr.IsBusiness(err, domain.CodeConflict))
		}
	}
	assert.Equal(t, 1, accepted)
}
