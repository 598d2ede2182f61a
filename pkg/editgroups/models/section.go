package models

import (
	"time"
)

// Section is an ordered grouping of course modules within a course.
// Read-only to this service.
type Section struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CourseID  uint      `gorm:"not null;index" json:"course_id"`
	Num       int       `gorm:"not null" json:"num"`
	Name      string    `gorm:"not null" json:"name"`
	Visible   bool      `gorm:"default:true" json:"visible"`

	// Relationships
	Modules []CourseModule `gorm:"foreignKey:SectionID" json:"modules,omitempty"`
}
