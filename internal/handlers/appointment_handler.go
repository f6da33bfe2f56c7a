package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bookmyappointment/booking-api/internal/dto"
	"github.com/bookmyappointment/booking-api/internal/httperr"
	"github.com/bookmyappointment/booking-api/internal/middleware"
	"github.com/bookmyappointment/booking-api/internal/models"
	ucBooking "github.com/bookmyappointment/booking-api/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db *gorm.DB

	createUC     *ucBooking.CreateAppointmentUseCase
	rescheduleUC *ucBooking.RescheduleAppointmentUseCase
	editUC       *ucBooking.EditAppointmentUseCase
	cancelUC     *ucBooking.CancelAppointmentUseCase
}

func NewAppointmentHandler(
	db *gorm.DB,
	createUC *ucBooking.CreateAppointmentUseCase,
	rescheduleUC *ucBooking.RescheduleAppointmentUseCase,
	editUC *ucBooking.EditAppointmentUseCase,
	cancelUC *ucBooking.CancelAppointmentUseCase,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:           db,
		createUC:     createUC,
		rescheduleUC: rescheduleUC,
		editUC:       editUC,
		cancelUC:     cancelUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ServiceID uint `json:"service_id" binding:"required"`

	// StaffID 0 books the whole team.
	StaffID uint `json:"staff_id"`

	Date string `json:"date" binding:"required"` // YYYY-MM-DD
	Time string `json:"time" binding:"required"` // HH:mm

	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required"`
}

type RescheduleAppointmentRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`

	StaffID   uint `json:"staff_id"`
	ServiceID uint `json:"service_id"`
}

type EditAppointmentRequest struct {
	CustomerName  *string `json:"customer_name"`
	CustomerEmail *string `json:"customer_email"`
	CustomerPhone *string `json:"customer_phone"`
}

// ======================================================
// HELPERS
// ======================================================

func actorFromContext(c *gin.Context, db *gorm.DB) (id *uint, name string, role string) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role = c.GetString(middleware.ContextUserRole)

	var user models.User
	if err := db.First(&user, userID).Error; err == nil {
		name = user.DisplayName
	}
	return &userID, name, role
}

func parseIDParam(c *gin.Context, param string) (uint, bool) {
	raw := c.Param(param)
	id64, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id64 == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid id.")
		return 0, false
	}
	return uint(id64), true
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	actorID, actorName, actorRole := actorFromContext(c, h.db)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	out, err := h.createUC.Execute(c.Request.Context(), ucBooking.CreateAppointmentInput{
		BusinessID:    businessID,
		ServiceID:     req.ServiceID,
		StaffID:       req.StaffID,
		Date:          req.Date,
		Time:          req.Time,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		ActorID:       actorID,
		ActorName:     actorName,
		ActorRole:     actorRole,
	})
	if err != nil {
		mapBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"appointment": out.Appointment,
		"email_sent":  out.EmailSent,
	})
}

// ======================================================
// LIST
// ======================================================

// ListByDate returns the appointments of one date. The admin sees the whole
// business; a team member only the appointments they are recorded on.
func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.GetString(middleware.ContextUserRole)

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Date is required.")
		return
	}

	q := h.db.
		Preload("Staff").
		Where("appointments.business_id = ? AND appointments.date = ?", businessID, date)

	if role != "admin" {
		q = q.
			Joins("JOIN appointment_staffs ON appointment_staffs.appointment_id = appointments.id").
			Where("appointment_staffs.staff_id = ?", userID).
			Distinct("appointments.*")
	}

	var aps []models.Appointment
	if err := q.Order("appointments.start_min ASC").Find(&aps).Error; err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Could not list appointments.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":         date,
		"appointments": dto.NewAppointmentList(aps),
	})
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.GetString(middleware.ContextUserRole)

	yearStr := c.Query("year")
	monthStr := c.Query("month")
	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Year and month are required.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Invalid year.")
		return
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Invalid month.")
		return
	}

	// Date is stored as YYYY-MM-DD, so a month is a string prefix.
	prefix := fmt.Sprintf("%04d-%02d-", year, month)

	q := h.db.
		Preload("Staff").
		Where("appointments.business_id = ? AND appointments.date LIKE ?", businessID, prefix+"%")

	if role != "admin" {
		q = q.
			Joins("JOIN appointment_staffs ON appointment_staffs.appointment_id = appointments.id").
			Where("appointment_staffs.staff_id = ?", userID).
			Distinct("appointments.*")
	}

	var aps []models.Appointment
	if err := q.Order("appointments.date ASC, appointments.start_min ASC").Find(&aps).Error; err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Could not list appointments.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": dto.NewAppointmentList(aps),
	})
}

// ======================================================
// MUTATIONS
// ======================================================

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	actorID, actorName, actorRole := actorFromContext(c, h.db)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	out, err := h.rescheduleUC.Execute(c.Request.Context(), ucBooking.RescheduleAppointmentInput{
		BusinessID:    businessID,
		AppointmentID: id,
		Date:          req.Date,
		Time:          req.Time,
		StaffID:       req.StaffID,
		ServiceID:     req.ServiceID,
		ActorID:       actorID,
		ActorName:     actorName,
		ActorRole:     actorRole,
	})
	if err != nil {
		mapBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"appointment": out.Appointment,
		"email_sent":  out.EmailSent,
	})
}

func (h *AppointmentHandler) Edit(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	actorID, actorName, actorRole := actorFromContext(c, h.db)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req EditAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	out, err := h.editUC.Execute(c.Request.Context(), ucBooking.EditAppointmentInput{
		BusinessID:    businessID,
		AppointmentID: id,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		ActorID:       actorID,
		ActorName:     actorName,
		ActorRole:     actorRole,
	})
	if err != nil {
		mapBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"appointment": out.Appointment,
		"email_sent":  out.EmailSent,
	})
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	actorID, actorName, actorRole := actorFromContext(c, h.db)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	out, err := h.cancelUC.Execute(c.Request.Context(), ucBooking.CancelAppointmentInput{
		BusinessID:    businessID,
		AppointmentID: id,
		ActorID:       actorID,
		ActorName:     actorName,
		ActorRole:     actorRole,
	})
	if err != nil {
		mapBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"appointment": out.Appointment,
		"email_sent":  out.EmailSent,
	})
}
