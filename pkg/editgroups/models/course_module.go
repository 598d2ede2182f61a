package models

import (
	"time"
)

// CourseModule is a single activity instance placed in a course section.
// GroupMode, GroupingID and GroupMembersOnly are the only columns this
// service ever updates; everything else belongs to the host platform.
type CourseModule struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	CourseID         uint      `gorm:"not null;index" json:"course_id"`
	SectionID        uint      `gorm:"not null;index" json:"section_id"`
	SortOrder        int       `gorm:"default:0" json:"sort_order"`
	ModName          string    `gorm:"not null;index" json:"mod_name"`
	Name             string    `gorm:"not null" json:"name"`
	Icon             string    `json:"icon"`
	Visible          bool      `gorm:"default:true" json:"visible"`
	GroupMode        int       `gorm:"default:0" json:"group_mode"`
	GroupingID       uint      `gorm:"default:0" json:"grouping_id"`
	GroupMembersOnly bool      `gorm:"default:false" json:"group_members_only"`

	// Relationships
	Course  Course  `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Section Section `gorm:"foreignKey:SectionID" json:"section,omitempty"`
}
