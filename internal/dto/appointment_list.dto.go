package dto

import "github.com/bookmyappointment/booking-api/internal/models"

// AppointmentListItem is the flattened appointment row the listing endpoints
// return. Staff comes back as display names only.
type AppointmentListItem struct {
	ID       uint   `json:"id"`
	PublicID string `json:"public_id"`

	Date   string `json:"date"`
	Time   string `json:"time"`
	Status string `json:"status"`

	ServiceName     string `json:"service_name"`
	DurationDisplay string `json:"duration_display"`
	DurationMin     int    `json:"duration_min"`

	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`

	Staff []string `json:"staff"`
}

func NewAppointmentListItem(ap models.Appointment) AppointmentListItem {
	staff := make([]string, 0, len(ap.Staff))
	for _, s := range ap.Staff {
		staff = append(staff, s.DisplayName)
	}

	return AppointmentListItem{
		ID:              ap.ID,
		PublicID:        ap.PublicID,
		Date:            ap.Date,
		Time:            ap.Time,
		Status:          ap.Status,
		ServiceName:     ap.ServiceName,
		DurationDisplay: ap.DurationDisplay,
		DurationMin:     ap.DurationMin,
		CustomerName:    ap.CustomerName,
		CustomerEmail:   ap.CustomerEmail,
		CustomerPhone:   ap.CustomerPhone,
		Staff:           staff,
	}
}

func NewAppointmentList(aps []models.Appointment) []AppointmentListItem {
	out := make([]AppointmentListItem, 0, len(aps))
	for _, ap := range aps {
		out = append(out, NewAppointmentListItem(ap))
	}
	return out
}
