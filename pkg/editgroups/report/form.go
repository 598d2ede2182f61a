package report

import (
	"fmt"

	"github.com/campusloop/editgroups/pkg/editgroups/modinfo"
	"github.com/campusloop/editgroups/pkg/editgroups/models"
)

// SupportsFunc reports whether a module type supports a feature,
// falling back to def for unregistered types.
type SupportsFunc func(modName, feature string, def bool) bool

// CanEditFunc reports whether the viewer may edit a module's settings.
type CanEditFunc func(moduleID uint) bool

// Option is one entry in a select field.
type Option struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// DisabledRule makes the grouping field non-interactive depending on the
// value of a sibling field for the same activity.
type DisabledRule struct {
	Field string `json:"field"`          // "groupmode" or "groupmembersonly"
	Op    string `json:"op"`             // "eq" or "notchecked"
	Value int    `json:"value,omitempty"` // compared value for "eq"
}

// SelectField is a single-choice field with a current value.
type SelectField struct {
	Default      int           `json:"default"`
	Options      []Option      `json:"options"`
	ReadOnly     bool          `json:"read_only"`
	DisabledWhen *DisabledRule `json:"disabled_when,omitempty"`
}

// CheckboxField is a boolean field with a current value.
type CheckboxField struct {
	Default  bool `json:"default"`
	ReadOnly bool `json:"read_only"`
}

// ActivityRow is the cluster of fields for one course module. A nil field
// was not emitted for this activity. Name is empty when no label is shown.
type ActivityRow struct {
	ModuleID         uint           `json:"module_id"`
	Name             string         `json:"name,omitempty"`
	ModName          string         `json:"mod_name"`
	Icon             string         `json:"icon,omitempty"`
	GroupMode        *SelectField   `json:"groupmode,omitempty"`
	GroupingID       *SelectField   `json:"groupingid,omitempty"`
	GroupMembersOnly *CheckboxField `json:"groupmembersonly,omitempty"`
}

// SectionBlock is one course section with its eligible activities.
// Sections render default-collapsed.
type SectionBlock struct {
	Num        int           `json:"num"`
	Name       string        `json:"name"`
	Activities []ActivityRow `json:"activities"`
}

// FormSpec is the fully decided form for one render: which sections appear,
// which fields each activity gets, their defaults and read-only state.
type FormSpec struct {
	CourseID     uint           `json:"course_id"`
	ActivityType string         `json:"activity_type,omitempty"`
	Sections     []SectionBlock `json:"sections"`
	ShowSave     bool           `json:"show_save"`
	ContinueURL  string         `json:"continue_url,omitempty"`
}

// BuildInput carries everything the form builder needs. No ambient state:
// course, snapshot, groupings, site flag and the two predicates are all
// supplied by the caller.
type BuildInput struct {
	Course                 *models.Course
	Info                   *modinfo.CourseInfo
	Groupings              []models.Grouping
	ActivityType           string
	EnableGroupMembersOnly bool
	Supports               SupportsFunc
	CanEdit                CanEditFunc
}

var groupModeOptions = []Option{
	{Value: models.GroupModeNone, Label: "No groups"},
	{Value: models.GroupModeSeparate, Label: "Separate groups"},
	{Value: models.GroupModeVisible, Label: "Visible groups"},
}

// eligible reports whether the module should appear in the report at all:
// visible to the viewer and supporting at least one group feature, with
// members-only additionally gated by the site flag.
func eligible(cm *modinfo.ModuleInfo, enableMembersOnly bool, supports SupportsFunc) bool {
	if !cm.Visible {
		return false
	}
	return supports(cm.ModName, models.FeatureGroups, true) ||
		supports(cm.ModName, models.FeatureGroupings, false) ||
		(supports(cm.ModName, models.FeatureGroupMembersOnly, false) && enableMembersOnly)
}

// BuildForm produces the FormSpec for one render. It is deterministic and
// order-preserving: a second call with the same inputs yields the same form.
func BuildForm(in BuildInput) *FormSpec {
	form := &FormSpec{
		CourseID:     in.Course.ID,
		ActivityType: in.ActivityType,
	}

	groupingOptions := make([]Option, 0, len(in.Groupings)+1)
	groupingOptions = append(groupingOptions, Option{Value: 0, Label: "None"})
	for _, g := range in.Groupings {
		groupingOptions = append(groupingOptions, Option{Value: int(g.ID), Label: g.Name})
	}

	forceGroupMode := in.Course.GroupModeForce

	for _, section := range in.Info.Sections {
		block := SectionBlock{Num: section.Num, Name: section.Name}
		fieldsInSection := 0

		for _, moduleID := range section.ModuleIDs {
			cm := in.Info.Modules[moduleID]
			if cm == nil || !cm.Visible {
				continue
			}
			if in.ActivityType != "" && cm.ModName != in.ActivityType {
				continue
			}

			supportsGroups := in.Supports(cm.ModName, models.FeatureGroups, true)
			supportsGroupings := in.Supports(cm.ModName, models.FeatureGroupings, false)
			supportsMembersOnly := in.Supports(cm.ModName, models.FeatureGroupMembersOnly, false)

			// Nothing to edit for this activity: not even a name row.
			if !supportsGroups && !supportsGroupings &&
				!(supportsMembersOnly && in.EnableGroupMembersOnly) {
				continue
			}

			readOnly := !in.CanEdit(cm.ID)
			row := ActivityRow{
				ModuleID: cm.ID,
				ModName:  cm.ModName,
				Icon:     cm.Icon,
			}

			// The name label mirrors "would any field actually appear".
			if in.EnableGroupMembersOnly || supportsGroups {
				row.Name = cm.Name
			}

			if supportsGroups {
				def := cm.GroupMode
				if forceGroupMode {
					def = in.Course.GroupMode
				}
				row.GroupMode = &SelectField{
					Default:  def,
					Options:  groupModeOptions,
					ReadOnly: forceGroupMode || readOnly,
				}
				fieldsInSection++
			}

			// Groupings matter both for normal grouping mode and for
			// restricting access with members-only.
			if supportsGroupings || supportsMembersOnly {
				row.GroupingID = &SelectField{
					Default:  int(cm.GroupingID),
					Options:  groupingOptions,
					ReadOnly: readOnly,
				}
				fieldsInSection++
			}

			if in.EnableGroupMembersOnly && supportsMembersOnly {
				row.GroupMembersOnly = &CheckboxField{
					Default:  cm.GroupMembersOnly,
					ReadOnly: readOnly,
				}
				fieldsInSection++
			}

			// Cross-field policy. An already-assigned grouping is an
			// intentional prior choice, so the rules only apply when the
			// stored grouping is none.
			if cm.GroupingID == 0 && row.GroupingID != nil {
				switch {
				case row.GroupMode != nil && row.GroupMembersOnly == nil && !forceGroupMode:
					// Groupings are meaningless without group mode.
					row.GroupingID.DisabledWhen = &DisabledRule{
						Field: "groupmode",
						Op:    "eq",
						Value: models.GroupModeNone,
					}
				case row.GroupMode == nil && row.GroupMembersOnly != nil:
					row.GroupingID.DisabledWhen = &DisabledRule{
						Field: "groupmembersonly",
						Op:    "notchecked",
					}
				case row.GroupMode == nil && row.GroupMembersOnly == nil:
					// A grouping selector with neither companion field is
					// nonsensical; retract it.
					row.GroupingID = nil
					fieldsInSection--
				}
			}

			block.Activities = append(block.Activities, row)
		}

		// No empty sections: the header only survives if the section
		// actually contributed fields.
		if fieldsInSection > 0 {
			form.Sections = append(form.Sections, block)
			form.ShowSave = true
		}
	}

	if !form.ShowSave {
		form.ContinueURL = fmt.Sprintf("/api/courses/%d", in.Course.ID)
	}

	return form
}
