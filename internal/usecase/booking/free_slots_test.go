package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bookmyappointment/booking-api/internal/domain/booking"
	"github.com/bookmyappointment/booking-api/internal/httperr"
)

func slotStarts(slots []domain.TimeSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start)
	}
	return out
}

func TestFreeSlotsClosedDay(t *testing.T) {
	repo := fixtureRepo()
	uc := NewFreeSlotsUseCase(repo, &stubCache{})

	slots, err := uc.Execute(context.Background(), FreeSlotsInput{
		BusinessID: 1,
		ServiceID:  2,
		StaffID:    10,
		Date:       "2026-08-25", // Tuesday, closed
	})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestFreeSlotsSkipBreaksAndBookings(t *testing.T) {
	repo := fixtureRepo()

	// Narrow the day to keep the slot list small: 09:00-13:30 with the
	// 12:00-13:00 lunch still in place.
	repo.days["Monday"] = domain.DayConfig{
		Status: domain.StatusAvailable,
		Hours:  domain.Interval{Start: 540, End: 810},
		Breaks: []domain.Interval{{Start: 720, End: 780}},
	}

	mustCreate(t, repo, createInput()) // member 10 booked 10:00-10:30

	uc := NewFreeSlotsUseCase(repo, &stubCache{})

	slots, err := uc.Execute(context.Background(), FreeSlotsInput{
		BusinessID: 1,
		ServiceID:  2,
		StaffID:    10,
		Date:       "2026-08-24",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"09:00", "09:30",
		"10:30", "11:00", "11:30",
		"13:00",
	}, slotStarts(slots))
}

// Team-wide slots stay open while any member is free.
func TestFreeSlotsAllTeam(t *testing.T) {
	repo := fixtureRepo()
	repo.days["Monday"] = domain.DayConfig{
		Status: domain.StatusAvailable,
		Hours:  domain.Interval{Start: 540, End: 660}, // 09:00-11:00
	}

	mustCreate(t, repo, createInput()) // member 10 booked 10:00-10:30

	uc := NewFreeSlotsUseCase(repo, &stubCache{})

	slots, err := uc.Execute(context.Background(), FreeSlotsInput{
		BusinessID: 1,
		ServiceID:  2,
		Date:       "2026-08-24",
	})
	require.NoError(t, err)

	// Member 11 still covers 10:00, so every half hour shows.
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, slotStarts(slots))
}

func TestFreeSlotsNoOpenMembers(t *testing.T) {
	repo := fixtureRepo()
	repo.staffDays[staffDayKey(10, "Monday")] = domain.StaffDayConfig{Status: domain.StatusNotAvailable}
	repo.staffDays[staffDayKey(11, "Monday")] = domain.StaffDayConfig{Status: domain.StatusNotAvailable}

	uc := NewFreeSlotsUseCase(repo, &stubCache{})

	slots, err := uc.Execute(context.Background(), FreeSlotsInput{
		BusinessID: 1,
		ServiceID:  2,
		Date:       "2026-08-24",
	})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

// Override hours before opening still produce slots; the stepping follows
// the member's resolved window, not the business window.
func TestFreeSlotsOverrideBeforeOpening(t *testing.T) {
	repo := fixtureRepo()
	hours := domain.Interval{Start: 480, End: 600} // 08:00-10:00
	repo.staffDays[staffDayKey(10, "Monday")] = domain.StaffDayConfig{
		Status: domain.StatusAvailable,
		Hours:  &hours,
	}

	uc := NewFreeSlotsUseCase(repo, &stubCache{})

	slots, err := uc.Execute(context.Background(), FreeSlotsInput{
		BusinessID: 1,
		ServiceID:  2,
		StaffID:    10,
		Date:       "2026-08-24",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"08:00", "08:30", "09:00", "09:30"}, slotStarts(slots))
}

// Team-wide slots merge every member's window, sorted by start.
func TestFreeSlotsUnionAcrossWindows(t *testing.T) {
	repo := fixtureRepo()
	repo.days["Monday"] = domain.DayConfig{
		Status: domain.StatusAvailable,
		Hours:  domain.Interval{Start: 540, End: 660}, // 09:00-11:00
	}
	hours := domain.Interval{Start: 480, End: 600} // member 10: 08:00-10:00
	repo.staffDays[staffDayKey(10, "Monday")] = domain.StaffDayConfig{
		Status: domain.StatusAvailable,
		Hours:  &hours,
	}

	uc := NewFreeSlotsUseCase(repo, &stubCache{})

	slots, err := uc.Execute(context.Background(), FreeSlotsInput{
		BusinessID: 1,
		ServiceID:  2,
		Date:       "2026-08-24",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"08:00", "08:30",
		"09:00", "09:30",
		"10:00", "10:30",
	}, slotStarts(slots))
}

func TestFreeSlotsUnknownStaff(t *testing.T) {
	repo := fixtureRepo()
	uc := NewFreeSlotsUseCase(repo, &stubCache{})

	_, err := uc.Execute(context.Background(), FreeSlotsInput{
		BusinessID: 1,
		ServiceID:  2,
		StaffID:    99,
		Date:       "2026-08-24",
	})
	assert.True(t, httperr.IsBusiness(err, "not_found"))
}

func TestFreeSlotsStaffOverrideWindow(t *testing.T) {
	repo := fixtureRepo()
	hours := domain.Interval{Start: 600, End: 690} // 10:00-11:30
	repo.staffDays[staffDayKey(10, "Monday")] = domain.StaffDayConfig{
		Status: domain.StatusAvailable,
		Hours:  &hours,
	}

	uc := NewFreeSlotsUseCase(repo, &stubCache{})

	slots, err := uc.Execute(context.Background(), FreeSlotsInput{
		BusinessID: 1,
		ServiceID:  2,
		StaffID:    10,
		Date:       "2026-08-24",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"10:00", "10:30", "11:00"}, slotStarts(slots))
}
