package report

import (
	"gorm.io/gorm"

	"github.com/campusloop/editgroups/pkg/editgroups/models"
)

// SubmittedSettings are the type-checked field maps from one submission,
// keyed by course-module id. A missing key means "leave unchanged": the
// committer never synthesizes a value for an absent entry, including the
// members-only checkbox (callers that mean "clear" send an explicit false).
type SubmittedSettings struct {
	GroupMode        map[uint]int
	GroupingID       map[uint]uint
	GroupMembersOnly map[uint]bool
}

// Empty reports whether the submission carries no changes at all.
func (s SubmittedSettings) Empty() bool {
	return len(s.GroupMode) == 0 && len(s.GroupingID) == 0 && len(s.GroupMembersOnly) == 0
}

// CommitResult summarizes a successful commit.
type CommitResult struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// CommitSettings applies the submitted settings to every module of the
// course the viewer may edit, inside a single transaction. The loop walks
// every module known in the course rather than only the submitted ids, so
// stale or partial payloads can never touch modules the viewer cannot edit.
// Any write failure rolls back the whole transaction: settings are
// interdependent enough that partial application would leave incoherent
// state.
func CommitSettings(db *gorm.DB, courseID uint, sub SubmittedSettings, canEdit CanEditFunc) (*CommitResult, error) {
	result := &CommitResult{}

	err := db.Transaction(func(tx *gorm.DB) error {
		var mods []models.CourseModule
		if err := tx.Where("course_id = ?", courseID).Order("id ASC").Find(&mods).Error; err != nil {
			return err
		}

		for _, cm := range mods {
			// Not an error: modules the viewer cannot manage are silently
			// left alone.
			if !canEdit(cm.ID) {
				result.Skipped++
				continue
			}

			updates := map[string]interface{}{}
			if groupingID, ok := sub.GroupingID[cm.ID]; ok {
				updates["grouping_id"] = groupingID
			}
			if groupMode, ok := sub.GroupMode[cm.ID]; ok {
				updates["group_mode"] = groupMode
			}
			if membersOnly, ok := sub.GroupMembersOnly[cm.ID]; ok {
				updates["group_members_only"] = membersOnly
			}

			if len(updates) == 0 {
				continue
			}

			if err := tx.Model(&models.CourseModule{}).Where("id = ?", cm.ID).Updates(updates).Error; err != nil {
				return err
			}
			result.Updated++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
