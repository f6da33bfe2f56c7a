package handlers

import (
	"net/http"
	"sort"

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

// AvailabilityHandler manages the business-level weekday map. Staff-level
// overrides live in StaffAvailabilityHandler.
type AvailabilityHandler struct {
	db    *gorm.DB
	cache *cache.SlotCache
}

func NewAvailabilityHandler(db *gorm.DB, slotCache *cache.SlotCache) *AvailabilityHandler {
	return &AvailabilityHandler{db: db, cache: slotCache}
}

// ======================================================
// REQUESTS
// ======================================================

type UpdateDayRequest struct {
	Status    string `json:"status" binding:"required"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type BreakRequest struct {
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type DayResponse struct {
	Weekday   string                 `json:"weekday"`
	Status    string                 `json:"status"`
	StartTime string                 `json:"start_time"`
	EndTime   string                 `json:"end_time"`
	Breaks    []models.BusinessBreak `json:"breaks"`
}

// ======================================================
// READ
// ======================================================

func (h *AvailabilityHandler) Get(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var days []models.BusinessDay
	if err := h.db.
		Where("business_id = ?", businessID).
		Find(&days).Error; err != nil {
		httperr.Internal(c, "failed_to_get_availability", "Could not load availability.")
		return
	}

	var breaks []models.BusinessBreak
	if err := h.db.
		Where("business_id = ?", businessID).
		Order("start_time ASC").
		Find(&breaks).Error; err != nil {
		httperr.Internal(c, "failed_to_get_breaks", "Could not load breaks.")
		return
	}

	byDay := make(map[string][]models.BusinessBreak)
	for _, b := range breaks {
		byDay[b.Weekday] = append(byDay[b.Weekday], b)
	}

	out := make([]DayResponse, 0, len(days))
	for _, d := range orderedDays(days) {
		out = append(out, DayResponse{
			Weekday:   d.Weekday,
			Status:    d.Status,
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
			Breaks:    byDay[d.Weekday],
		})
	}

	c.JSON(http.StatusOK, gin.H{"days": out})
}

// ======================================================
// UPDATE DAY
// ======================================================

// UpdateDay flips a weekday's status or moves its window. Marking a day
// Not Available resets the window to the defaults and deletes its breaks.
func (h *AvailabilityHandler) UpdateDay(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	weekday := c.Param("weekday")

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

	var day models.BusinessDay
	if err := h.db.
		Where("business_id = ? AND weekday = ?", businessID, weekday).
		First(&day).Error; err != nil {
		httperr.NotFound(c, "day_not_found", "Weekday not found.")
		return
	}

	if req.Status == domain.StatusNotAvailable {
		day.Status = domain.StatusNotAvailable
		day.StartTime = "09:00"
		day.EndTime = "18:00"

		err := h.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.
				Where("business_id = ? AND weekday = ?", businessID, weekday).
				Delete(&models.BusinessBreak{}).Error; err != nil {
				return err
			}
			return tx.Save(&day).Error
		})
		if err != nil {
			httperr.Internal(c, "failed_to_update_day", "Could not update the day.")
			return
		}

		h.invalidateWeekday(c, businessID)
		c.JSON(http.StatusOK, day)
		return
	}

	start := req.StartTime
	end := req.EndTime
	if start == "" {
		start = day.StartTime
	}
	if end == "" {
		end = day.EndTime
	}

	if _, err := domain.ParseInterval(start, end); err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid working hours.")
		return
	}

	// Breaks that fall outside the new window lose their effect at resolve
	// time; they are kept so re-widening the window restores them.
	day.Status = domain.StatusAvailable
	day.StartTime = start
	day.EndTime = end

	if err := h.db.Save(&day).Error; err != nil {
		httperr.Internal(c, "failed_to_update_day", "Could not update the day.")
		return
	}

	h.invalidateWeekday(c, businessID)
	c.JSON(http.StatusOK, day)
}

// ======================================================
// BREAKS
// ======================================================

func (h *AvailabilityHandler) AddBreak(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	weekday := c.Param("weekday")

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

	var rows []models.BusinessBreak
	if err := h.db.
		Where("business_id = ? AND weekday = ?", businessID, weekday).
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

	row := models.BusinessBreak{
		BusinessID: businessID,
		Weekday:    weekday,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	}
	if err := h.db.Create(&row).Error; err != nil {
		httperr.Internal(c, "failed_to_create_break", "Could not add the break.")
		return
	}

	h.invalidateWeekday(c, businessID)
	c.JSON(http.StatusCreated, row)
}

func (h *AvailabilityHandler) DeleteBreak(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	weekday := c.Param("weekday")
	id := c.Param("id")

	res := h.db.
		Where("id = ? AND business_id = ? AND weekday = ?", id, businessID, weekday).
		Delete(&models.BusinessBreak{})
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_break", "Could not delete the break.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "break_not_found", "Break not found.")
		return
	}

	h.invalidateWeekday(c, businessID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ======================================================
// HELPERS
// ======================================================

// invalidateWeekday drops cached slot lists for the business. Weekday
// configuration has no single date, so upcoming cached dates simply expire
// by TTL; only an explicit flush of known dates would be cheaper than that.
func (h *AvailabilityHandler) invalidateWeekday(c *gin.Context, businessID uint) {
	h.cache.InvalidateDay(c.Request.Context(), businessID, "*")
}

func isWeekday(name string) bool {
	switch name {
	case "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday":
		return true
	}
	return false
}

var weekdayOrder = map[string]int{
	"Monday": 0, "Tuesday": 1, "Wednesday": 2, "Thursday": 3,
	"Friday": 4, "Saturday": 5, "Sunday": 6,
}

func orderedDays(days []models.BusinessDay) []models.BusinessDay {
	out := make([]models.BusinessDay, len(days))
	copy(out, days)
	sort.Slice(out, func(a, b int) bool {
		return weekdayOrder[out[a].Weekday] < weekdayOrder[out[b].Weekday]
	})
	return out
}
