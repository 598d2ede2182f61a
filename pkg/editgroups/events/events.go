package events

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusloop/editgroups/pkg/editgroups/models"
)

// Logger writes audit events. Writes are fire-and-forget: a failed audit
// insert is logged but never fails the request that triggered it.
type Logger struct {
	db *gorm.DB
}

// NewLogger creates an event logger
func NewLogger(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

// EventURL reconstructs the report URL an event refers to.
func EventURL(courseID uint, activityType string) string {
	url := fmt.Sprintf("/api/courses/%d/groupsettings", courseID)
	if activityType != "" {
		url += "?activitytype=" + activityType
	}
	return url
}

// Log records an audit event for the current request.
func (l *Logger) Log(c *gin.Context, name string, courseID uint, activityType string) {
	userID, _ := getUserID(c)
	entry := models.EventLog{
		ID:           uuid.NewString(),
		UserID:       userID,
		CourseID:     courseID,
		Name:         name,
		ActivityType: activityType,
		URL:          EventURL(courseID, activityType),
		IPAddress:    c.ClientIP(),
	}
	if err := l.db.Create(&entry).Error; err != nil {
		log.Printf("Warning: failed to write %s event for course %d: %v", name, courseID, err)
	}
}

func getUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
