package models

import (
	"time"
)

// GroupMode values for courses and course modules
const (
	GroupModeNone     = 0
	GroupModeSeparate = 1
	GroupModeVisible  = 2
)

// Course represents a course on the platform.
// Courses are provisioned externally; this service only reads them.
type Course struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Shortname      string    `gorm:"uniqueIndex;not null" json:"shortname"`
	Fullname       string    `gorm:"not null" json:"fullname"`
	GroupMode      int       `gorm:"default:0" json:"group_mode"`
	GroupModeForce bool      `gorm:"default:false" json:"group_mode_force"`

	// Relationships
	Sections  []Section  `gorm:"foreignKey:CourseID" json:"sections,omitempty"`
	Groupings []Grouping `gorm:"foreignKey:CourseID" json:"groupings,omitempty"`
}
