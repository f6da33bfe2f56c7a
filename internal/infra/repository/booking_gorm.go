package repository

import (
	"context"
	"errors"
	"hash/fnv"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/bookmyappointment/booking-api/internal/domain/booking"
	"github.com/bookmyappointment/booking-api/internal/httperr"
	"github.com/bookmyappointment/booking-api/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Business
// --------------------------------------------------

func (r *BookingGormRepository) GetBusinessByID(
	ctx context.Context,
	id uint,
) (*models.Business, error) {

	var biz models.Business
	if err := r.db.WithContext(ctx).First(&biz, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("not_found")
		}
		return nil, err
	}
	return &biz, nil
}

// --------------------------------------------------
// Availability configuration
// --------------------------------------------------

func (r *BookingGormRepository) GetDayConfig(
	ctx context.Context,
	businessID uint,
	weekday string,
) (domain.DayConfig, error) {

	closed := domain.DayConfig{Status: domain.StatusNotAvailable}

	var day models.BusinessDay
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND weekday = ?", businessID, weekday).
		First(&day).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return closed, nil
		}
		return closed, err
	}

	if day.Status != domain.StatusAvailable {
		return closed, nil
	}

	hours, err := domain.ParseInterval(day.StartTime, day.EndTime)
	if err != nil {
		// Unparseable hours behave as a closed day rather than an error.
		return closed, nil
	}

	var rows []models.BusinessBreak
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND weekday = ?", businessID, weekday).
		Order("start_time ASC").
		Find(&rows).Error; err != nil {
		return closed, err
	}

	breaks := make([]domain.Interval, 0, len(rows))
	for _, row := range rows {
		if iv, err := domain.ParseInterval(row.StartTime, row.EndTime); err == nil {
			breaks = append(breaks, iv)
		}
	}

	return domain.DayConfig{
		Status: domain.StatusAvailable,
		Hours:  hours,
		Breaks: breaks,
	}, nil
}

func (r *BookingGormRepository) GetStaffDayConfig(
	ctx context.Context,
	businessID uint,
	staffID uint,
	weekday string,
) (domain.StaffDayConfig, error) {

	closed := domain.StaffDayConfig{Status: domain.StatusNotAvailable}

	var day models.StaffDay
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND staff_id = ? AND weekday = ?", businessID, staffID, weekday).
		First(&day).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No record means the member never marked the day Available.
			return closed, nil
		}
		return closed, err
	}

	cfg := domain.StaffDayConfig{Status: day.Status}
	if day.Status != domain.StatusAvailable {
		return cfg, nil
	}

	if day.StartTime != "" && day.EndTime != "" {
		hours, err := domain.ParseInterval(day.StartTime, day.EndTime)
		if err == nil {
			cfg.Hours = &hours

			var rows []models.StaffBreak
			if err := r.db.WithContext(ctx).
				Where("business_id = ? AND staff_id = ? AND weekday = ?", businessID, staffID, weekday).
				Order("start_time ASC").
				Find(&rows).Error; err != nil {
				return closed, err
			}
			for _, row := range rows {
				if iv, err := domain.ParseInterval(row.StartTime, row.EndTime); err == nil {
					cfg.Breaks = append(cfg.Breaks, iv)
				}
			}
		}
	}

	return cfg, nil
}

// --------------------------------------------------
// Service / staff
// --------------------------------------------------

func (r *BookingGormRepository) GetService(
	ctx context.Context,
	businessID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Preload("AssignedStaff").
		Where("id = ? AND business_id = ?", serviceID, businessID).
		First(&svc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("not_found")
		}
		return nil, err
	}
	return &svc, nil
}

func (r *BookingGormRepository) ListTeamMembers(
	ctx context.Context,
	businessID uint,
) ([]models.User, error) {

	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND role = ?", businessID, "team").
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// --------------------------------------------------
// Appointments (read)
// --------------------------------------------------

func (r *BookingGormRepository) GetAppointment(
	ctx context.Context,
	businessID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Staff").
		Where("id = ? AND business_id = ?", appointmentID, businessID).
		First(&ap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("not_found")
		}
		return nil, err
	}
	return &ap, nil
}

func (r *BookingGormRepository) GetAppointmentByPublicID(
	ctx context.Context,
	publicID string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Staff").
		Where("public_id = ?", publicID).
		First(&ap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("not_found")
		}
		return nil, err
	}
	return &ap, nil
}

func (r *BookingGormRepository) ListBookedIntervals(
	ctx context.Context,
	businessID uint,
	staffIDs []uint,
	date string,
	excludeID uint,
) ([]domain.Interval, error) {

	return listBookedIntervals(r.db.WithContext(ctx), businessID, staffIDs, date, excludeID)
}

func listBookedIntervals(
	tx *gorm.DB,
	businessID uint,
	staffIDs []uint,
	date string,
	excludeID uint,
) ([]domain.Interval, error) {

	if len(staffIDs) == 0 {
		return nil, nil
	}

	q := tx.Model(&models.Appointment{}).
		Distinct("appointments.id", "appointments.start_min", "appointments.end_min").
		Joins("JOIN appointment_staffs ON appointment_staffs.appointment_id = appointments.id").
		Where(
			"appointments.business_id = ? AND appointments.status = ? AND appointments.date = ? AND appointment_staffs.staff_id IN ?",
			businessID, string(domain.StatusBooked), date, staffIDs,
		)

	if excludeID != 0 {
		q = q.Where("appointments.id <> ?", excludeID)
	}

	var rows []models.Appointment
	if err := q.Order("appointments.start_min ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Interval, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Interval{Start: row.StartMin, End: row.EndMin})
	}
	return out, nil
}

// --------------------------------------------------
// Appointments (atomic write)
// --------------------------------------------------

// slotLockKey derives the advisory-lock key for one (business, staff, date)
// slot. Locking at this granularity serializes competing reservations for
// the same member and day without serializing unrelated bookings.
func slotLockKey(businessID, staffID uint, date string) int64 {
	h := fnv.New64a()
	h.Write([]byte(date))
	v := h.Sum64() ^ (uint64(businessID) << 32) ^ uint64(staffID)
	return int64(v)
}

// conflictScan builds the locked overlap lookup for a candidate slot: any
// booked appointment on the date, held by one of the staff, whose interval
// crosses [StartMin, EndMin). Postgres does not allow FOR UPDATE together
// with DISTINCT, so the join may repeat a conflicting row; an existence
// check does not mind.
func conflictScan(
	tx *gorm.DB,
	ap *models.Appointment,
	staffIDs []uint,
	excludeID uint,
) *gorm.DB {

	q := tx.Model(&models.Appointment{}).
		Select("appointments.id").
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "appointments"}}).
		Joins("JOIN appointment_staffs ON appointment_staffs.appointment_id = appointments.id").
		Where(
			"appointments.business_id = ? AND appointments.status = ? AND appointments.date = ? AND appointments.start_min < ? AND appointments.end_min > ? AND appointment_staffs.staff_id IN ?",
			ap.BusinessID, string(domain.StatusBooked), ap.Date, ap.EndMin, ap.StartMin, staffIDs,
		)
	if excludeID != 0 {
		q = q.Where("appointments.id <> ?", excludeID)
	}
	return q.Limit(1)
}

func (r *BookingGormRepository) reserve(
	ctx context.Context,
	ap *models.Appointment,
	excludeID uint,
) error {

	staffIDs := make([]uint, 0, len(ap.Staff))
	for _, s := range ap.Staff {
		staffIDs = append(staffIDs, s.StaffID)
	}
	// Stable lock order across competing transactions.
	sort.Slice(staffIDs, func(a, b int) bool { return staffIDs[a] < staffIDs[b] })

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		// Advisory locks close the window where two transactions both see
		// an empty conflict set and both insert; row locks alone cannot
		// stop that when no conflicting row exists yet.
		for _, staffID := range staffIDs {
			if err := tx.Exec(
				"SELECT pg_advisory_xact_lock(?)",
				slotLockKey(ap.BusinessID, staffID, ap.Date),
			).Error; err != nil {
				return err
			}
		}

		var conflicts []models.Appointment
		if err := conflictScan(tx, ap, staffIDs, excludeID).Find(&conflicts).Error; err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return httperr.ErrBusiness(domain.CodeConflict)
		}

		if excludeID == 0 {
			return tx.Create(ap).Error
		}

		// Moving: replace the staff fan-out, then persist the new slot.
		if err := tx.
			Where("appointment_id = ?", ap.ID).
			Delete(&models.AppointmentStaff{}).Error; err != nil {
			return err
		}
		for i := range ap.Staff {
			ap.Staff[i].ID = 0
			ap.Staff[i].AppointmentID = ap.ID
		}
		return tx.Save(ap).Error
	})
}

func (r *BookingGormRepository) Reserve(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.reserve(ctx, ap, 0)
}

func (r *BookingGormRepository) Move(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.reserve(ctx, ap, ap.ID)
}

func (r *BookingGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
