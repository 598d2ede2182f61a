package models

import (
	"time"
)

// Event names emitted by this service
const (
	EventReportViewed    = "report_viewed"
	EventSettingsUpdated = "settings_updated"
)

// EventLog is the audit trail for report views and bulk updates.
type EventLog struct {
	ID           string    `gorm:"primarykey;size:36" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	CourseID     uint      `gorm:"index;not null" json:"course_id"`
	Name         string    `gorm:"size:64;index" json:"name"`
	ActivityType string    `gorm:"size:64" json:"activity_type"`
	URL          string    `json:"url"`
	IPAddress    string    `gorm:"size:64" json:"ip_address"`
}
