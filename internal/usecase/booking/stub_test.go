package booking

import (
	"context"
	"fmt"
	"sync"

	"github.com/bookmyappointment/booking-api/internal/audit"
	domain "github.com/bookmyappointment/booking-api/internal/domain/booking"
	"github.com/bookmyappointment/booking-api/internal/httperr"
	"github.com/bookmyappointment/booking-api/internal/models"
	"github.com/bookmyappointment/booking-api/internal/notify"
)

// stubRepo is an in-memory domain.Repository. Reserve and Move hold a mutex
// across the conflict check and the write, mirroring the transactional
// guarantee of the real repository.
type stubRepo struct {
	mu sync.Mutex

	business  *models.Business
	days      map[string]domain.DayConfig
	staffDays map[string]domain.StaffDayConfig
	services  map[uint]*models.Service
	members   []models.User

	appointments map[uint]*models.Appointment
	nextID       uint
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		business: &models.Business{
			ID:       1,
			Name:     "Studio One",
			Slug:     "studio-one",
			Timezone: "UTC",
		},
		days:         map[string]domain.DayConfig{},
		staffDays:    map[string]domain.StaffDayConfig{},
		services:     map[uint]*models.Service{},
		appointments: map[uint]*models.Appointment{},
		nextID:       1,
	}
}

func staffDayKey(staffID uint, weekday string) string {
	return fmt.Sprintf("%d:%s", staffID, weekday)
}

func (r *stubRepo) GetBusinessByID(ctx context.Context, id uint) (*models.Business, error) {
	if r.business == nil || r.business.ID != id {
		return nil, httperr.ErrBusiness("not_found")
	}
	return r.business, nil
}

func (r *stubRepo) GetDayConfig(ctx context.Context, businessID uint, weekday string) (domain.DayConfig, error) {
	if cfg, ok := r.days[weekday]; ok {
		return cfg, nil
	}
	return domain.DayConfig{Status: domain.StatusNotAvailable}, nil
}

func (r *stubRepo) GetStaffDayConfig(ctx context.Context, businessID, staffID uint, weekday string) (domain.StaffDayConfig, error) {
	if cfg, ok := r.staffDays[staffDayKey(staffID, weekday)]; ok {
		return cfg, nil
	}
	return domain.StaffDayConfig{Status: domain.StatusNotAvailable}, nil
}

func (r *stubRepo) GetService(ctx context.Context, businessID, serviceID uint) (*models.Service, error) {
	if svc, ok := r.services[serviceID]; ok {
		return svc, nil
	}
	return nil, httperr.ErrBusiness("not_found")
}

func (r *stubRepo) ListTeamMembers(ctx context.Context, businessID uint) ([]models.User, error) {
	return r.members, nil
}

func (r *stubRepo) GetAppointment(ctx context.Context, businessID, appointmentID uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ap, ok := r.appointments[appointmentID]
	if !ok || ap.BusinessID != businessID {
		return nil, httperr.ErrBusiness("not_found")
	}
	cp := *ap
	return &cp, nil
}

func (r *stubRepo) GetAppointmentByPublicID(ctx context.Context, publicID string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ap := range r.appointments {
		if ap.PublicID == publicID {
			cp := *ap
			return &cp, nil
		}
	}
	return nil, httperr.ErrBusiness("not_found")
}

func (r *stubRepo) ListBookedIntervals(ctx context.Context, businessID uint, staffIDs []uint, date string, excludeID uint) ([]domain.Interval, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bookedIntervalsLocked(businessID, staffIDs, date, excludeID), nil
}

func (r *stubRepo) bookedIntervalsLocked(businessID uint, staffIDs []uint, date string, excludeID uint) []domain.Interval {
	want := map[uint]bool{}
	for _, id := range staffIDs {
		want[id] = true
	}

	var out []domain.Interval
	for _, ap := range r.appointments {
		if ap.BusinessID != businessID || ap.Date != date ||
			ap.Status != string(domain.StatusBooked) || ap.ID == excludeID {
			continue
		}
		for _, s := range ap.Staff {
			if want[s.StaffID] {
				out = append(out, domain.Interval{Start: ap.StartMin, End: ap.EndMin})
				break
			}
		}
	}
	return out
}

func (r *stubRepo) reserve(ap *models.Appointment, excludeID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	staffIDs := make([]uint, 0, len(ap.Staff))
	for _, s := range ap.Staff {
		staffIDs = append(staffIDs, s.StaffID)
	}

	slot := domain.Interval{Start: ap.StartMin, End: ap.EndMin}
	for _, iv := range r.bookedIntervalsLocked(ap.BusinessID, staffIDs, ap.Date, excludeID) {
		if iv.Overlaps(slot) {
			return httperr.ErrBusiness(domain.CodeConflict)
		}
	}

	if excludeID == 0 {
		ap.ID = r.nextID
		r.nextID++
	}
	cp := *ap
	r.appointments[ap.ID] = &cp
	return nil
}

func (r *stubRepo) Reserve(ctx context.Context, ap *models.Appointment) error {
	return r.reserve(ap, 0)
}

func (r *stubRepo) Move(ctx context.Context, ap *models.Appointment) error {
	return r.reserve(ap, ap.ID)
}

func (r *stubRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *ap
	r.appointments[ap.ID] = &cp
	return nil
}

var _ domain.Repository = (*stubRepo)(nil)

// ------------------------------------------------------
// Collaborator stubs
// ------------------------------------------------------

type stubNotifier struct {
	mu     sync.Mutex
	events []notify.Event
	err    error
}

func (n *stubNotifier) Notify(ctx context.Context, ev notify.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, ev)
	return nil
}

type stubAudit struct {
	mu     sync.Mutex
	events []audit.Event
}

func (a *stubAudit) Dispatch(ev audit.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
}

type stubCache struct {
	mu          sync.Mutex
	invalidated []string
}

func (c *stubCache) Get(ctx context.Context, businessID uint, staffKey string, serviceID uint, date string) ([]domain.TimeSlot, bool) {
	return nil, false
}

func (c *stubCache) Set(ctx context.Context, businessID uint, staffKey string, serviceID uint, date string, slots []domain.TimeSlot) {
}

func (c *stubCache) InvalidateDay(ctx context.Context, businessID uint, date string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, date)
}

// ------------------------------------------------------
// Fixture
// ------------------------------------------------------

// fixtureRepo is a business open Monday 09:00-18:00 with a 12:00-13:00 lunch
// break, two team members available, and a 30-minute service.
func fixtureRepo() *stubRepo {
	repo := newStubRepo()

	repo.days["Monday"] = domain.DayConfig{
		Status: domain.StatusAvailable,
		Hours:  domain.Interval{Start: 540, End: 1080},
		Breaks: []domain.Interval{{Start: 720, End: 780}},
	}

	repo.members = []models.User{
		{ID: 10, BusinessID: 1, DisplayName: "Alex Kim", Role: "team"},
		{ID: 11, BusinessID: 1, DisplayName: "Sam Cruz", Role: "team"},
	}
	repo.staffDays[staffDayKey(10, "Monday")] = domain.StaffDayConfig{Status: domain.StatusAvailable}
	repo.staffDays[staffDayKey(11, "Monday")] = domain.StaffDayConfig{Status: domain.StatusAvailable}

	repo.services[2] = &models.Service{
		ID:              2,
		BusinessID:      1,
		Name:            "Haircut",
		Description:     "Classic cut",
		DurationMinutes: 30,
		Active:          true,
	}

	return repo
}

func createInput() CreateAppointmentInput {
	return CreateAppointmentInput{
		BusinessID:    1,
		ServiceID:     2,
		StaffID:       10,
		Date:          "2026-08-24", // a Monday
		Time:          "10:00",
		CustomerName:  "Pat Lee",
		CustomerEmail: "pat@example.com",
		CustomerPhone: "+1 555 010 2030",
		ActorName:     "Alex Kim",
		ActorRole:     "team",
	}
}
