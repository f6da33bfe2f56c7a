package booking

import (
	"context"
	"fmt"
	"sort"

	domain "github.com/bookmyappointment/booking-api/internal/domain/booking"
	"github.com/bookmyappointment/booking-api/internal/httperr"
	"github.com/bookmyappointment/booking-api/internal/models"
)

// ===============================
// Use case: free slots
// ===============================

type FreeSlotsInput struct {
	BusinessID uint
	ServiceID  uint

	// StaffID 0 computes team-wide availability: a slot is free when at
	// least one member can take it.
	StaffID uint

	Date string // YYYY-MM-DD
}

type FreeSlotsUseCase struct {
	repo  domain.Repository
	cache SlotCache
}

func NewFreeSlotsUseCase(repo domain.Repository, cache SlotCache) *FreeSlotsUseCase {
	return &FreeSlotsUseCase{repo: repo, cache: cache}
}

func (uc *FreeSlotsUseCase) Execute(
	ctx context.Context,
	input FreeSlotsInput,
) ([]domain.TimeSlot, error) {

	staffKey := "all"
	if input.StaffID != 0 {
		staffKey = fmt.Sprintf("%d", input.StaffID)
	}
	if slots, ok := uc.cache.Get(ctx, input.BusinessID, staffKey, input.ServiceID, input.Date); ok {
		return slots, nil
	}

	svc, err := uc.repo.GetService(ctx, input.BusinessID, input.ServiceID)
	if err != nil {
		return nil, err
	}
	duration := svc.DurationMin()
	if duration <= 0 {
		return []domain.TimeSlot{}, nil
	}

	weekday, err := domain.WeekdayOf(input.Date)
	if err != nil {
		return nil, err
	}

	members, err := uc.selectMembers(ctx, input.BusinessID, input.StaffID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return []domain.TimeSlot{}, nil
	}

	day, err := uc.repo.GetDayConfig(ctx, input.BusinessID, weekday)
	if err != nil {
		return nil, err
	}
	if !domain.Resolve(day, nil).Open {
		return []domain.TimeSlot{}, nil
	}

	type memberState struct {
		res    domain.Resolution
		booked []domain.Interval
	}
	states := make([]memberState, 0, len(members))
	for _, m := range members {
		cfg, err := uc.repo.GetStaffDayConfig(ctx, input.BusinessID, m.ID, weekday)
		if err != nil {
			return nil, err
		}
		res := domain.Resolve(day, &cfg)
		if !res.Open {
			continue
		}
		booked, err := uc.repo.ListBookedIntervals(ctx, input.BusinessID, []uint{m.ID}, input.Date, 0)
		if err != nil {
			return nil, err
		}
		states = append(states, memberState{res: res, booked: booked})
	}
	if len(states) == 0 {
		return []domain.TimeSlot{}, nil
	}

	// Step candidates through each open member's resolved window; override
	// hours can extend outside the business window, so the business window
	// alone cannot drive the stepping. A start is listed once, when any
	// member fits it without a break or a booking.
	seen := map[int]bool{}
	var free []domain.Interval
	for _, st := range states {
		for start := st.res.Window.Start; start+duration <= st.res.Window.End; start += duration {
			if seen[start] {
				continue
			}
			slot := domain.Interval{Start: start, End: start + duration}
			if err := domain.ValidateSlot(slot, st.res, st.booked); err == nil {
				seen[start] = true
				free = append(free, slot)
			}
		}
	}
	sort.Slice(free, func(a, b int) bool { return free[a].Start < free[b].Start })

	slots := make([]domain.TimeSlot, 0, len(free))
	for _, slot := range free {
		slots = append(slots, domain.TimeSlot{
			Start: domain.FormatClock(slot.Start),
			End:   domain.FormatClock(slot.End),
		})
	}

	uc.cache.Set(ctx, input.BusinessID, staffKey, input.ServiceID, input.Date, slots)
	return slots, nil
}

func (uc *FreeSlotsUseCase) selectMembers(
	ctx context.Context,
	businessID uint,
	staffID uint,
) ([]models.User, error) {

	members, err := uc.repo.ListTeamMembers(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if staffID == 0 {
		return members, nil
	}
	for _, m := range members {
		if m.ID == staffID {
			return []models.User{m}, nil
		}
	}
	return nil, httperr.ErrBusiness("not_found")
}
