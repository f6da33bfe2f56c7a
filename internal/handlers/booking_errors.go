package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/bookmyappointment/booking-api/internal/domain/booking"
	"github.com/bookmyappointment/booking-api/internal/httperr"
)

// mapBookingError translates business rejections from the booking rules into
// HTTP responses. Anything unrecognized is an internal error.
func mapBookingError(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, domain.CodeMissingFields):
		httperr.BadRequest(c, domain.CodeMissingFields, "Required fields are missing.")
	case httperr.IsBusiness(err, domain.CodeInvalidContact):
		httperr.BadRequest(c, domain.CodeInvalidContact, "Invalid email or phone.")
	case httperr.IsBusiness(err, "invalid_date_or_time"):
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
	case httperr.IsBusiness(err, domain.CodeNotAvailable):
		httperr.BadRequest(c, domain.CodeNotAvailable, "The business is not available on this day.")
	case httperr.IsBusiness(err, domain.CodeOutsideHours):
		httperr.BadRequest(c, domain.CodeOutsideHours, "The requested time is outside working hours.")
	case httperr.IsBusiness(err, domain.CodeConflict):
		httperr.Conflict(c, domain.CodeConflict, "The requested time is already booked.")
	case httperr.IsBusiness(err, "invalid_state"):
		httperr.BadRequest(c, "invalid_state", "The appointment cannot be changed in its current state.")
	case httperr.IsBusiness(err, "forbidden"):
		httperr.Forbidden(c, "forbidden", "You are not allowed to change this appointment.")
	case httperr.IsBusiness(err, "not_found"):
		httperr.NotFound(c, "not_found", "Not found.")
	default:
		httperr.Internal(c, "internal_error", "Something went wrong.")
	}
}
