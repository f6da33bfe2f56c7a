package models

import "time"

type Service struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `json:"business_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Category    string `gorm:"size:50" json:"category"`

	DurationHours   int `json:"duration_hours"`
	DurationMinutes int `json:"duration_minutes"`

	Price  float64 `json:"price"`
	Active bool    `gorm:"default:true" json:"active"`

	AssignedStaff []User `gorm:"many2many:service_staff;" json:"assigned_staff"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DurationMin is the total duration in minutes, the unit every
// containment and overlap check runs in.
func (s *Service) DurationMin() int {
	return s.DurationHours*60 + s.DurationMinutes
}
