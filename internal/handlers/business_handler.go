package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bookmyappointment/booking-api/internal/httperr"
	"github.com/bookmyappointment/booking-api/internal/middleware"
	"github.com/bookmyappointment/booking-api/internal/models"
	"github.com/bookmyappointment/booking-api/internal/slug"
	"github.com/bookmyappointment/booking-api/internal/timezone"
)

type BusinessHandler struct {
	db *gorm.DB
}

func NewBusinessHandler(db *gorm.DB) *BusinessHandler {
	return &BusinessHandler{db: db}
}

type UpdateBusinessRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Timezone *string `json:"timezone"`
}

func (h *BusinessHandler) GetMyBusiness(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var biz models.Business
	if err := h.db.First(&biz, businessID).Error; err != nil {
		httperr.NotFound(c, "business_not_found", "Business not found.")
		return
	}

	c.JSON(http.StatusOK, biz)
}

// UpdateMyBusiness renames or retags the business. Renaming re-derives the
// slug, so existing deep links under the old slug stop resolving.
func (h *BusinessHandler) UpdateMyBusiness(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var biz models.Business
	if err := h.db.First(&biz, businessID).Error; err != nil {
		httperr.NotFound(c, "business_not_found", "Business not found.")
		return
	}

	var req UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	if req.Name != nil && *req.Name != "" && *req.Name != biz.Name {
		newSlug := slug.Make(*req.Name)
		if newSlug == "" {
			httperr.BadRequest(c, "invalid_business_name", "Invalid business name.")
			return
		}

		var count int64
		h.db.Model(&models.Business{}).
			Where("slug = ? AND id <> ?", newSlug, biz.ID).
			Count(&count)
		if count > 0 {
			httperr.Conflict(c, "slug_already_exists", "Another business already uses this name.")
			return
		}

		biz.Name = *req.Name
		biz.Slug = newSlug
	}

	if req.Phone != nil {
		biz.Phone = *req.Phone
	}
	if req.Address != nil {
		biz.Address = *req.Address
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Invalid timezone.")
			return
		}
		biz.Timezone = *req.Timezone
	}

	if err := h.db.Save(&biz).Error; err != nil {
		httperr.Internal(c, "failed_to_update_business", "Could not update business.")
		return
	}

	c.JSON(http.StatusOK, biz)
}
