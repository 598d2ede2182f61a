package models

import (
	"time"
)

// Grouping is a named collection of groups within a course, used to
// restrict an activity to a subset of groups. GroupingID 0 on a course
// module means "no grouping".
type Grouping struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CourseID  uint      `gorm:"not null;index" json:"course_id"`
	Name      string    `gorm:"not null" json:"name"`
}
