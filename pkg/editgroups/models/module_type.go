package models

import (
	"time"
)

// Feature names a module type can declare support for
const (
	FeatureGroups           = "groups"
	FeatureGroupings        = "groupings"
	FeatureGroupMembersOnly = "groupmembersonly"
)

// ModuleType records the group-related features an activity type supports.
// Rows are seeded at startup from the known activity plugins; the flags are
// fixed per type and never change during a request.
type ModuleType struct {
	ID                       uint      `gorm:"primarykey" json:"id"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
	Name                     string    `gorm:"uniqueIndex;not null" json:"name"`
	DisplayName              string    `gorm:"not null" json:"display_name"`
	SupportsGroups           bool      `gorm:"default:true" json:"supports_groups"`
	SupportsGroupings        bool      `gorm:"default:false" json:"supports_groupings"`
	SupportsGroupMembersOnly bool      `gorm:"default:false" json:"supports_group_members_only"`
}
