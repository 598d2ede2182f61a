package capability

import (
	"errors"

	"gorm.io/gorm"

	"github.com/campusloop/editgroups/pkg/editgroups/models"
)

// Checker answers capability questions from role assignments.
// Resolution is most-specific-wins: a module-scoped assignment beats a
// course-wide one, and an assignment with Allowed=false is an explicit
// prohibition. System admins hold every capability.
type Checker struct {
	db *gorm.DB
}

// NewChecker creates a capability checker backed by the given database
func NewChecker(db *gorm.DB) *Checker {
	return &Checker{db: db}
}

func (ch *Checker) isAdmin(userID uint) bool {
	var user models.User
	if err := ch.db.First(&user, userID).Error; err != nil {
		return false
	}
	return user.SystemRole == models.SystemRoleAdmin
}

// HasCourseCapability reports whether the user holds capability at course scope.
func (ch *Checker) HasCourseCapability(userID uint, capability string, courseID uint) bool {
	if ch.isAdmin(userID) {
		return true
	}
	var ra models.RoleAssignment
	err := ch.db.Where("user_id = ? AND capability = ? AND course_id = ? AND module_id = 0",
		userID, capability, courseID).First(&ra).Error
	if err != nil {
		return false
	}
	return ra.Allowed
}

// HasModuleCapability reports whether the user holds capability for a single
// course module. A module-scoped assignment, if present, overrides the
// course-wide answer.
func (ch *Checker) HasModuleCapability(userID uint, capability string, courseID, moduleID uint) bool {
	if ch.isAdmin(userID) {
		return true
	}
	var ra models.RoleAssignment
	err := ch.db.Where("user_id = ? AND capability = ? AND course_id = ? AND module_id = ?",
		userID, capability, courseID, moduleID).First(&ra).Error
	if err == nil {
		return ra.Allowed
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	return ch.HasCourseCapability(userID, capability, courseID)
}

// ModuleEditCheck returns a per-module edit predicate for one user and course,
// suitable for passing into the form builder and the committer.
func (ch *Checker) ModuleEditCheck(userID, courseID uint) func(moduleID uint) bool {
	return func(moduleID uint) bool {
		return ch.HasModuleCapability(userID, models.CapabilityManageActivities, courseID, moduleID)
	}
}
