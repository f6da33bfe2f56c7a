package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bookmyappointment/booking-api/internal/cache"
	domain "github.com/bookmyappointment/booking-api/internal/domain/booking"
	"github.com/bookmyappointment/booking-api/internal/httperr"
	"github.com/bookmyappointment/booking-api/internal/middleware"
	"github.com/bookmyappointment/booking-api/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

// StaffAvailabilityHandler manages per-member weekday overrides. The admin
// may edit any member; a team member only their own map.
type StaffAvailabilityHandler struct {
	db    *gorm.DB
	cache *cache.SlotCache
}

func NewStaffAvailabilityHandler(db *gorm.DB, slotCache *cache.SlotCache) *StaffAvailabilityHandler {
	return &StaffAvailabilityHandler{db: db, cache: slotCache}
}

type StaffDayResponse struct {
	Weekday   string              `json:"weekday"`
	Status    string              `json:"status"`
	StartTime string              `json:"start_time"`
	EndTime   string              `json:"end_time"`
	Breaks    []models.StaffBreak `json:"breaks"`
}

// ======================================================
// AUTHORIZATION
// ======================================================

// resolveStaff returns the member being edited, enforcing that a non-admin
// caller can only touch themselves.
func (h *StaffAvailabilityHandler) resolveStaff(c *gin.Context) (uint, bool) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.GetString(middleware.ContextUserRole)

	raw := c.Param("staffId")
	staffID64, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_staff_id", "Invalid team member id.")
		return 0, false
	}
	staffID := uint(staffID64)

	if role != "admin" && staffID != userID {
		httperr.Forbidden(c, "forbidden", "You can only edit your own availability.")
		return 0, false
	}

	var count int64
	h.memberScope(businessID, staffID).Count(&count)
	if count == 0 {
		httperr.NotFound(c, "staff_not_found", "Team member not found.")
		return 0, false
	}

	return staffID, true
}

// memberScope narrows to team members: only they hold availability maps and
// take bookings; admins manage the business. An admin who also provides
// services gets a team account of their own.
func (h *StaffAvailabilityHandler) memberScope(businessID, staffID uint) *gorm.DB {
	return h.db.Model(&models.User{}).
		Where("id = ? AND business_id = ? AND role = ?", staffID, businessID, "team")
}

// ======================================================
// READ
// ======================================================

func (h *StaffAvailabilityHandler) Get(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	staffID, ok := h.resolveStaff(c)
	if !ok {
		return
	}

	var days []models.StaffDay
	if err := h.db.
		Where("business_id = ? AND staff_id = ?", businessID, staffID).
		Find(&days).Error; err != nil {
		httperr.Internal(c, "failed_to_get_availability", "Could not load availability.")
		return
	}

	var breaks []models.StaffBreak
	if err := h.db.
		Where("business_id = ? AND staff_id = ?", businessID, staffID).
		Order("start_time ASC").
		Find(&breaks).Error; err != nil {
		httperr.Internal(c, "failed_to_get_breaks", "Could not load breaks.")
		return
	}

	byDay := make(map[string][]models.StaffBreak)
	for _, b := range breaks {
		byDay[b.Weekday] = append(byDay[b.Weekday], b)
	}

	// Days the member never configured resolve as Not Available; the
	// response lists only what exists.
	out := make([]StaffDayResponse, 0, len(days))
	for _, d := range days {
		out = append(out, StaffDayResponse{
			Weekday:   d.Weekday,
			Status:    d.Status,
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
			Breaks:    byDay[d.Weekday],
		})
	}

	c.JSON(http.StatusOK, gin.H{"staff_id": staffID, "days": out})
}

// ======================================================
// UPDATE DAY
// ======================================================

// UpdateDay sets a member's weekday. Empty start/end times keep the member
// on the business window and business breaks; explicit times override both.
func (h *StaffAvailabilityHandler) UpdateDay(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	weekday := c.Param("weekday")

	staffID, ok := h.resolveStaff(c)
	if !ok {
		return
	}
	if !isWeekday(weekday) {
		httperr.BadRequest(c, "invalid_weekday", "Invalid weekday.")
		return
	}

	var req UpdateDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}
	if req.Status != domain.StatusAvailable && req.Status != domain.StatusNotAvailable {
		httperr.BadRequest(c, "invalid_status", "Invalid status.")
		return
	}
	if req.StartTime != "" || req.EndTime != "" {
		if _, err := domain.ParseInterval(req.StartTime, req.EndTime); err != nil {
			httperr.BadRequest(c, "invalid_date_or_time", "Invalid working hours.")
			return
		}
	}

	var day models.StaffDay
	err := h.db.
		Where("business_id = ? AND staff_id = ? AND weekday = ?", businessID, staffID, weekday).
		First(&day).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			httperr.Internal(c, "failed_to_update_day", "Could not update the day.")
			return
		}
		day = models.StaffDay{
			BusinessID: businessID,
			StaffID:    staffID,
			Weekday:    weekday,
		}
	}

	day.Status = req.Status
	day.StartTime = req.StartTime
	day.EndTime = req.EndTime

	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		// Dropping the override (or closing the day) clears its breaks.
		if day.StartTime == "" || day.Status == domain.StatusNotAvailable {
			if err := tx.
				Where("business_id = ? AND staff_id = ? AND weekday = ?", businessID, staffID, weekday).
				Delete(&models.StaffBreak{}).Error; err != nil {
				return err
			}
		}
		return tx.Save(&day).Error
	})
	if txErr != nil {
		httperr.Internal(c, "failed_to_update_day", "Could not update the day.")
		return
	}

	h.cache.InvalidateDay(c.Request.Context(), businessID, "*")
	c.JSON(http.StatusOK, day)
}

// ======================================================
// BREAKS
// ======================================================

func (h *StaffAvailabilityHandler) AddBreak(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	weekday := c.Param("weekday")

	staffID, ok := h.resolveStaff(c)
	if !ok {
		return
	}
	if !isWeekday(weekday) {
		httperr.BadRequest(c, "invalid_weekday", "Invalid weekday.")
		return
	}

	var req BreakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	brk, err := domain.ParseInterval(req.StartTime, req.EndTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid break times.")
		return
	}

	// Staff breaks only make sense against override hours.
	var day models.StaffDay
	if err := h.db.
		Where("business_id = ? AND staff_id = ? AND weekday = ?", businessID, staffID, weekday).
		First(&day).Error; err != nil || day.StartTime == "" {
		httperr.BadRequest(c, "no_override_hours", "Set override hours before adding breaks.")
		return
	}

	var rows []models.StaffBreak
	if err := h.db.
		Where("business_id = ? AND staff_id = ? AND weekday = ?", businessID, staffID, weekday).
		Find(&rows).Error; err != nil {
		httperr.Internal(c, "failed_to_get_breaks", "Could not load breaks.")
		return
	}

	existing := make([]domain.Interval, 0, len(rows))
	for _, r := range rows {
		if iv, err := domain.ParseInterval(r.StartTime, r.EndTime); err == nil {
			existing = append(existing, iv)
		}
	}

	if _, err := domain.AddBreak(existing, brk); err != nil {
		httperr.Conflict(c, "break_overlap", "Break overlaps an existing break.")
		return
	}

	row := models.StaffBreak{
		BusinessID: businessID,
		StaffID:    staffID,
		Weekday:    weekday,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	}
	if err := h.db.Create(&row).Error; err != nil {
		httperr.Internal(c, "failed_to_create_break", "Could not add the break.")
		return
	}

	h.cache.InvalidateDay(c.Request.Context(), businessID, "*")
	c.JSON(http.StatusCreated, row)
}

func (h *StaffAvailabilityHandler) DeleteBreak(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	weekday := c.Param("weekday")
	id := c.Param("id")

	staffID, ok := h.resolveStaff(c)
	if !ok {
		return
	}

	res := h.db.
		Where("id = ? AND business_id = ? AND staff_id = ? AND weekday = ?", id, businessID, staffID, weekday).
		Delete(&models.StaffBreak{})
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_break", "Could not delete the break.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "break_not_found", "Break not found.")
		return
	}

	h.cache.InvalidateDay(c.Request.Context(), businessID, "*")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
