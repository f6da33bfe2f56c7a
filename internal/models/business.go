package models

import "time"

type Business struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PublicID string `gorm:"size:36;uniqueIndex;not null" json:"public_id"`

	Name    string `gorm:"size:100;not null" json:"name"`
	Slug    string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone   string `gorm:"size:20" json:"phone"`
	Address string `gorm:"size:255" json:"address"`

	Timezone string `gorm:"size:50;default:'UTC'" json:"timezone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BusinessDay is the availability of a business on one weekday.
// Weekday is stored by name (Monday..Sunday), matching the public API.
type BusinessDay struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	BusinessID uint   `gorm:"index:idx_business_weekday,unique" json:"business_id"`
	Weekday    string `gorm:"size:10;index:idx_business_weekday,unique" json:"weekday"`

	Status    string `gorm:"size:20;default:'Not Available'" json:"status"`
	StartTime string `gorm:"size:5;default:'09:00'" json:"start_time"`
	EndTime   string `gorm:"size:5;default:'18:00'" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BusinessBreak struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	BusinessID uint   `gorm:"index" json:"business_id"`
	Weekday    string `gorm:"size:10" json:"weekday"`

	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StaffDay is a team member's availability on one weekday. StartTime and
// EndTime are optional overrides; when empty the business window and business
// breaks are inherited.
type StaffDay struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	BusinessID uint   `gorm:"index:idx_staff_weekday,unique" json:"business_id"`
	StaffID    uint   `gorm:"index:idx_staff_weekday,unique" json:"staff_id"`
	Weekday    string `gorm:"size:10;index:idx_staff_weekday,unique" json:"weekday"`

	Status    string `gorm:"size:20;default:'Not Available'" json:"status"`
	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StaffBreak only applies when the staff day carries override hours.
type StaffBreak struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	BusinessID uint   `gorm:"index" json:"business_id"`
	StaffID    uint   `gorm:"index" json:"staff_id"`
	Weekday    string `gorm:"size:10" json:"weekday"`

	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
