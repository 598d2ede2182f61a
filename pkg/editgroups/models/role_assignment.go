package models

import (
	"time"
)

// Capability names checked by this service
const (
	CapabilityViewReport       = "report/editgroups:view"
	CapabilityManageActivities = "course:manageactivities"
)

// RoleAssignment grants or denies a capability to a user within a scope.
// ModuleID 0 means the assignment applies course-wide; a non-zero ModuleID
// scopes it to a single course module and overrides any course-wide
// assignment for that module. Allowed=false is an explicit prohibition.
type RoleAssignment struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Capability string    `gorm:"not null;index" json:"capability"`
	CourseID   uint      `gorm:"not null;index" json:"course_id"`
	ModuleID   uint      `gorm:"default:0;index" json:"module_id"`
	Allowed    bool      `gorm:"default:true" json:"allowed"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
