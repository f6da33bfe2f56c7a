package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bookmyappointment/booking-api/internal/dto"
	"github.com/bookmyappointment/booking-api/internal/httperr"
	"github.com/bookmyappointment/booking-api/internal/middleware"
	"github.com/bookmyappointment/booking-api/internal/models"
	ucBooking "github.com/bookmyappointment/booking-api/internal/usecase/booking"
)

// CustomerHandler serves a logged-in customer's own bookings. Ownership is
// by email: the bookings made with the account's email address.
type CustomerHandler struct {
	db       *gorm.DB
	cancelUC *ucBooking.CancelAppointmentUseCase
}

func NewCustomerHandler(db *gorm.DB, cancelUC *ucBooking.CancelAppointmentUseCase) *CustomerHandler {
	return &CustomerHandler{db: db, cancelUC: cancelUC}
}

func (h *CustomerHandler) ListMyBookings(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		httperr.Internal(c, "user_not_found", "Could not load your account.")
		return
	}

	var aps []models.Appointment
	if err := h.db.
		Preload("Staff").
		Where("LOWER(customer_email) = LOWER(?)", user.Email).
		Order("date DESC, start_min DESC").
		Find(&aps).Error; err != nil {
		httperr.Internal(c, "failed_to_list_bookings", "Could not list your bookings.")
		return
	}

	items := make([]gin.H, 0, len(aps))
	for _, ap := range aps {
		items = append(items, gin.H{
			"booking":       dto.NewAppointmentListItem(ap),
			"business_name": ap.BusinessName,
			"status":        ap.Status,
		})
	}

	c.JSON(http.StatusOK, gin.H{"bookings": items})
}

// CancelMyBooking cancels by the booking's opaque public id. The use case
// re-checks that the booking belongs to this customer's email.
func (h *CustomerHandler) CancelMyBooking(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	publicID := c.Param("publicId")

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		httperr.Internal(c, "user_not_found", "Could not load your account.")
		return
	}

	out, err := h.cancelUC.ExecuteForCustomer(c.Request.Context(), publicID, user.Email)
	if err != nil {
		mapBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"appointment": out.Appointment,
		"email_sent":  out.EmailSent,
	})
}
