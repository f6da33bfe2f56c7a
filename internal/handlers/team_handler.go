package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/bookmyappointment/booking-api/internal/httperr"
	"github.com/bookmyappointment/booking-api/internal/httpresp"
	"github.com/bookmyappointment/booking-api/internal/middleware"
	"github.com/bookmyappointment/booking-api/internal/models"
	"github.com/bookmyappointment/booking-api/internal/validators"
)

// TeamHandler manages the business's team member accounts (admin only).
type TeamHandler struct {
	db *gorm.DB
}

func NewTeamHandler(db *gorm.DB) *TeamHandler {
	return &TeamHandler{db: db}
}

type CreateTeamMemberRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

func (h *TeamHandler) List(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var members []models.User
	if err := h.db.
		Where("business_id = ? AND role = ?", businessID, "team").
		Order("id ASC").
		Find(&members).Error; err != nil {
		httperr.Internal(c, "failed_to_list_team", "Could not list team members.")
		return
	}

	httpresp.List(c, members)
}

func (h *TeamHandler) Create(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var req CreateTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not look valid.")
		return
	}

	var count int64
	h.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		httperr.Conflict(c, "email_already_exists", "A user with this email already exists.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not create the account.")
		return
	}

	member := models.User{
		BusinessID:   businessID,
		DisplayName:  req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         "team",
	}
	if err := h.db.Create(&member).Error; err != nil {
		httperr.Internal(c, "failed_to_create_member", "Could not create the team member.")
		return
	}

	c.JSON(http.StatusCreated, member)
}

// Delete removes a team member account. Their weekday map and breaks go with
// them; past appointments keep the denormalized display name.
func (h *TeamHandler) Delete(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	id := c.Param("id")

	var member models.User
	if err := h.db.
		Where("id = ? AND business_id = ? AND role = ?", id, businessID, "team").
		First(&member).Error; err != nil {
		httperr.NotFound(c, "staff_not_found", "Team member not found.")
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("business_id = ? AND staff_id = ?", businessID, member.ID).
			Delete(&models.StaffDay{}).Error; err != nil {
			return err
		}
		if err := tx.
			Where("business_id = ? AND staff_id = ?", businessID, member.ID).
			Delete(&models.StaffBreak{}).Error; err != nil {
			return err
		}
		return tx.Delete(&member).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_delete_member", "Could not delete the team member.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
