package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bookmyappointment/booking-api/internal/httperr"
	"github.com/bookmyappointment/booking-api/internal/middleware"
	"github.com/bookmyappointment/booking-api/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateServiceRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`

	DurationHours   int `json:"duration_hours"`
	DurationMinutes int `json:"duration_minutes"`

	Price float64 `json:"price"`

	AssignedStaffIDs []uint `json:"assigned_staff_ids"`
}

type UpdateServiceRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`

	DurationHours   *int `json:"duration_hours"`
	DurationMinutes *int `json:"duration_minutes"`

	Price  *float64 `json:"price"`
	Active *bool    `json:"active"`

	AssignedStaffIDs *[]uint `json:"assigned_staff_ids"`
}

// ======================================================
// HANDLERS
// ======================================================

func (h *ServiceHandler) List(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	category := strings.TrimSpace(strings.ToLower(c.Query("category")))
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.db.
		Preload("AssignedStaff").
		Where("business_id = ?", businessID)

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

	c.JSON(http.StatusOK, gin.H{"services": services})
}

func (h *ServiceHandler) Create(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	if req.DurationHours*60+req.DurationMinutes <= 0 {
		httperr.BadRequest(c, "invalid_duration", "Service duration must be positive.")
		return
	}

	staff, ok := h.loadAssignedStaff(c, businessID, req.AssignedStaffIDs)
	if !ok {
		return
	}

	svc := models.Service{
		BusinessID:      businessID,
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		DurationHours:   req.DurationHours,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Active:          true,
		AssignedStaff:   staff,
	}
	if err := h.db.Create(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Could not create the service.")
		return
	}

	c.JSON(http.StatusCreated, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	id := c.Param("id")

	var svc models.Service
	if err := h.db.
		Where("id = ? AND business_id = ?", id, businessID).
		First(&svc).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	if req.Name != nil && *req.Name != "" {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Category != nil {
		svc.Category = *req.Category
	}
	if req.DurationHours != nil {
		svc.DurationHours = *req.DurationHours
	}
	if req.DurationMinutes != nil {
		svc.DurationMinutes = *req.DurationMinutes
	}
	if svc.DurationMin() <= 0 {
		httperr.BadRequest(c, "invalid_duration", "Service duration must be positive.")
		return
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := h.db.Save(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Could not update the service.")
		return
	}

	if req.AssignedStaffIDs != nil {
		staff, ok := h.loadAssignedStaff(c, businessID, *req.AssignedStaffIDs)
		if !ok {
			return
		}
		if err := h.db.Model(&svc).Association("AssignedStaff").Replace(staff); err != nil {
			httperr.Internal(c, "failed_to_update_service", "Could not update assigned staff.")
			return
		}
		svc.AssignedStaff = staff
	}

	c.JSON(http.StatusOK, svc)
}

// Delete deactivates rather than removes: appointments denormalize the
// service anyway, and history stays queryable by service id.
func (h *ServiceHandler) Delete(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	id := c.Param("id")

	res := h.db.Model(&models.Service{}).
		Where("id = ? AND business_id = ?", id, businessID).
		Update("active", false)
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_service", "Could not delete the service.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ======================================================
// HELPERS
// ======================================================

func (h *ServiceHandler) loadAssignedStaff(
	c *gin.Context,
	businessID uint,
	ids []uint,
) ([]models.User, bool) {

	if len(ids) == 0 {
		return nil, true
	}

	var staff []models.User
	if err := h.db.
		Where("id IN ? AND business_id = ? AND role = ?", ids, businessID, "team").
		Find(&staff).Error; err != nil {
		httperr.Internal(c, "failed_to_load_staff", "Could not load assigned staff.")
		return nil, false
	}
	if len(staff) != len(ids) {
		httperr.BadRequest(c, "staff_not_found", "One or more assigned staff were not found.")
		return nil, false
	}

	return staff, true
}
