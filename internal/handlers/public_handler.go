package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bookmyappointment/booking-api/internal/httperr"
	"github.com/bookmyappointment/booking-api/internal/httpresp"
	"github.com/bookmyappointment/booking-api/internal/models"
	"github.com/bookmyappointment/booking-api/internal/slug"
	ucBooking "github.com/bookmyappointment/booking-api/internal/usecase/booking"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db *gorm.DB

	freeSlotsUC *ucBooking.FreeSlotsUseCase
	createUC    *ucBooking.CreateAppointmentUseCase
}

func NewPublicHandler(
	db *gorm.DB,
	freeSlotsUC *ucBooking.FreeSlotsUseCase,
	createUC *ucBooking.CreateAppointmentUseCase,
) *PublicHandler {
	return &PublicHandler{
		db:          db,
		freeSlotsUC: freeSlotsUC,
		createUC:    createUC,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	ServiceID uint `json:"service_id" binding:"required"`
	StaffID   uint `json:"staff_id"` // 0 books the whole team

	Date string `json:"date" binding:"required"` // YYYY-MM-DD
	Time string `json:"time" binding:"required"` // HH:mm

	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required"`
}

////////////////////////////////////////////////////////
// BUSINESSES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListBusinesses(c *gin.Context) {
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.db.Model(&models.Business{})
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ?", like, like)
	}

	var businesses []models.Business
	if err := q.Order("name ASC").Find(&businesses).Error; err != nil {
		httperr.Internal(c, "failed_to_list_businesses", "Could not list businesses.")
		return
	}

	httpresp.List(c, businesses)
}

////////////////////////////////////////////////////////
// DEEP LINK RESOLUTION
////////////////////////////////////////////////////////

// ResolveBookingLink turns a shareable /book link into concrete ids. The
// business resolves by its stored slug; service and staff resolve by
// re-slugifying their display names. Two entities slugifying identically is
// an ambiguous_match, never a silent pick.
func (h *PublicHandler) ResolveBookingLink(c *gin.Context) {
	businessSlug := c.Query("business")
	serviceSlug := c.Query("service")
	staffSlug := c.Query("teamMember")

	if businessSlug == "" {
		httperr.BadRequest(c, "missing_business", "Business slug is required.")
		return
	}

	var biz models.Business
	if err := h.db.Where("slug = ?", businessSlug).First(&biz).Error; err != nil {
		httperr.NotFound(c, "business_not_found", "Business not found.")
		return
	}

	resp := gin.H{"business": biz}

	if serviceSlug != "" {
		var services []models.Service
		if err := h.db.
			Where("business_id = ? AND active = true", biz.ID).
			Order("id ASC").
			Find(&services).Error; err != nil {
			httperr.Internal(c, "failed_to_list_services", "Could not resolve the service.")
			return
		}

		names := make([]string, len(services))
		for i, s := range services {
			names[i] = s.Name
		}

		idx, ok, ambiguous := slug.MatchOne(names, serviceSlug)
		if ambiguous {
			httperr.Conflict(c, "ambiguous_match", "More than one service matches this link.")
			return
		}
		if !ok {
			httperr.NotFound(c, "service_not_found", "Service not found.")
			return
		}
		resp["service"] = services[idx]
	}

	// "all" means the whole team; clients book it with staff_id 0.
	if staffSlug == "all" {
		resp["staff"] = gin.H{"id": 0, "display_name": "All team members"}
	} else if staffSlug != "" {
		var team []models.User
		if err := h.db.
			Where("business_id = ? AND role = ?", biz.ID, "team").
			Order("id ASC").
			Find(&team).Error; err != nil {
			httperr.Internal(c, "failed_to_list_team", "Could not resolve the team member.")
			return
		}

		names := make([]string, len(team))
		for i, m := range team {
			names[i] = m.DisplayName
		}

		idx, ok, ambiguous := slug.MatchOne(names, staffSlug)
		if ambiguous {
			httperr.Conflict(c, "ambiguous_match", "More than one team member matches this link.")
			return
		}
		if !ok {
			httperr.NotFound(c, "staff_not_found", "Team member not found.")
			return
		}
		resp["staff"] = gin.H{
			"id":           team[idx].ID,
			"display_name": team[idx].DisplayName,
		}
	}

	c.JSON(http.StatusOK, resp)
}

////////////////////////////////////////////////////////
// SERVICES AND TEAM
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	biz, ok := h.businessBySlug(c)
	if !ok {
		return
	}

	category := strings.TrimSpace(strings.ToLower(c.Query("category")))
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.db.
		Where("business_id = ? AND active = true", biz.ID)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Could not list services.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"business": biz,
		"services": services,
	})
}

func (h *PublicHandler) ListTeam(c *gin.Context) {
	biz, ok := h.businessBySlug(c)
	if !ok {
		return
	}

	var team []models.User
	if err := h.db.
		Where("business_id = ? AND role = ?", biz.ID, "team").
		Order("id ASC").
		Find(&team).Error; err != nil {
		httperr.Internal(c, "failed_to_list_team", "Could not list team members.")
		return
	}

	out := make([]gin.H, 0, len(team))
	for _, m := range team {
		out = append(out, gin.H{
			"id":           m.ID,
			"display_name": m.DisplayName,
		})
	}

	c.JSON(http.StatusOK, gin.H{"team": out})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	biz, ok := h.businessBySlug(c)
	if !ok {
		return
	}

	dateStr := c.Query("date")
	serviceIDStr := c.Query("service_id")
	if dateStr == "" || serviceIDStr == "" {
		httperr.BadRequest(c, "missing_params", "Date and service are required.")
		return
	}

	serviceID, err := strconv.ParseUint(serviceIDStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service.")
		return
	}

	var staffID uint64
	if raw := c.Query("staff_id"); raw != "" {
		staffID, err = strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_staff_id", "Invalid team member.")
			return
		}
	}

	slots, err := h.freeSlotsUC.Execute(c.Request.Context(), ucBooking.FreeSlotsInput{
		BusinessID: biz.ID,
		ServiceID:  uint(serviceID),
		StaffID:    uint(staffID),
		Date:       dateStr,
	})
	if err != nil {
		mapBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}

////////////////////////////////////////////////////////
// CREATE APPOINTMENT
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	biz, ok := h.businessBySlug(c)
	if !ok {
		return
	}

	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	out, err := h.createUC.Execute(c.Request.Context(), ucBooking.CreateAppointmentInput{
		BusinessID:    biz.ID,
		ServiceID:     req.ServiceID,
		StaffID:       req.StaffID,
		Date:          req.Date,
		Time:          req.Time,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		ActorName:     "our team",
		ActorRole:     "team",
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

////////////////////////////////////////////////////////
// HELPERS
////////////////////////////////////////////////////////

func (h *PublicHandler) businessBySlug(c *gin.Context) (*models.Business, bool) {
	businessSlug := c.Param("slug")

	var biz models.Business
	if err := h.db.Where("slug = ?", businessSlug).First(&biz).Error; err != nil {
		httperr.NotFound(c, "business_not_found", "Business not found.")
		return nil, false
	}
	return &biz, true
}
