package models

import "time"

type Appointment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PublicID string `gorm:"size:36;uniqueIndex;not null" json:"public_id"`

	BusinessID   uint     `json:"business_id"`
	Business     Business `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	BusinessName string   `gorm:"size:100" json:"business_name"`

	// Denormalized copy of the service at booking time. Later edits or
	// deletion of the service never change historical appointments.
	ServiceID          uint   `json:"service_id"`
	ServiceName        string `gorm:"size:100" json:"service_name"`
	ServiceDescription string `gorm:"size:255" json:"service_description"`
	DurationDisplay    string `gorm:"size:50" json:"duration_display"`
	DurationMin        int    `json:"duration_min"`

	Date     string `gorm:"size:10;index" json:"date"` // YYYY-MM-DD
	Time     string `gorm:"size:5" json:"time"`        // HH:mm
	StartMin int    `json:"start_min"`
	EndMin   int    `json:"end_min"`

	Staff []AppointmentStaff `gorm:"constraint:OnDelete:CASCADE;" json:"staff"`

	CustomerName  string `gorm:"size:100" json:"customer_name"`
	CustomerEmail string `gorm:"size:100;index" json:"customer_email"`
	CustomerPhone string `gorm:"size:20" json:"customer_phone"`

	Status     string     `gorm:"size:20;default:'booked'" json:"status"`
	CanceledAt *time.Time `json:"canceled_at"`

	// Actor of the last mutation, carried into notification wording.
	ActorName string `gorm:"size:100" json:"actor_name"`
	ActorRole string `gorm:"size:20" json:"actor_role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppointmentStaff is the denormalized staff list of an appointment.
// An "all team members" booking fans out one row per member.
type AppointmentStaff struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	AppointmentID uint   `gorm:"index" json:"appointment_id"`
	StaffID       uint   `gorm:"index" json:"staff_id"`
	DisplayName   string `gorm:"size:100" json:"display_name"`
}
