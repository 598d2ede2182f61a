package report

import (
	"reflect"
	"testing"

	"github.com/campusloop/editgroups/pkg/editgroups/modinfo"
	"github.com/campusloop/editgroups/pkg/editgroups/models"
)

type typeFlags struct {
	groups      bool
	groupings   bool
	membersOnly bool
}

// stubSupports builds a SupportsFunc from a fixed table; unknown types get
// the caller-supplied default, as the real registry does.
func stubSupports(table map[string]typeFlags) SupportsFunc {
	return func(modName, feature string, def bool) bool {
		flags, ok := table[modName]
		if !ok {
			return def
		}
		switch feature {
		case models.FeatureGroups:
			return flags.groups
		case models.FeatureGroupings:
			return flags.groupings
		case models.FeatureGroupMembersOnly:
			return flags.membersOnly
		}
		return def
	}
}

func allowAll(uint) bool { return true }
func denyAll(uint) bool  { return false }

func testCourse() *models.Course {
	return &models.Course{ID: 7, Shortname: "c1", Fullname: "Course One"}
}

func singleSectionInfo(mods ...*modinfo.ModuleInfo) *modinfo.CourseInfo {
	info := &modinfo.CourseInfo{
		CourseID: 7,
		Modules:  map[uint]*modinfo.ModuleInfo{},
	}
	section := modinfo.SectionInfo{Num: 0, Name: "General"}
	for _, m := range mods {
		m.SectionNum = 0
		section.ModuleIDs = append(section.ModuleIDs, m.ID)
		info.Modules[m.ID] = m
	}
	info.Sections = []modinfo.SectionInfo{section}
	return info
}

func mod(id uint, modName, name string) *modinfo.ModuleInfo {
	return &modinfo.ModuleInfo{ID: id, ModName: modName, Name: name, Visible: true}
}

func buildWith(in BuildInput) *FormSpec {
	if in.Course == nil {
		in.Course = testCourse()
	}
	if in.CanEdit == nil {
		in.CanEdit = allowAll
	}
	return BuildForm(in)
}

func TestNoFeatureActivityProducesNothing(t *testing.T) {
	supports := stubSupports(map[string]typeFlags{
		"label": {},
		"forum": {groups: true, groupings: true, membersOnly: true},
	})
	info := singleSectionInfo(
		mod(1, "label", "A label"),
		mod(2, "forum", "A forum"),
	)

	form := buildWith(BuildInput{Info: info, Supports: supports, EnableGroupMembersOnly: true})

	if len(form.Sections) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(form.Sections))
	}
	for _, row := range form.Sections[0].Activities {
		if row.ModuleID == 1 {
			t.Error("Label activity should not appear at all")
		}
	}
	if len(form.Sections[0].Activities) != 1 {
		t.Errorf("Expected 1 activity row, got %d", len(form.Sections[0].Activities))
	}
}

func TestInvisibleActivitySkipped(t *testing.T) {
	supports := stubSupports(map[string]typeFlags{
		"forum": {groups: true},
	})
	hidden := mod(1, "forum", "Hidden forum")
	hidden.Visible = false
	info := singleSectionInfo(hidden)

	form := buildWith(BuildInput{Info: info, Supports: supports})

	if len(form.Sections) != 0 {
		t.Errorf("Expected no sections, got %d", len(form.Sections))
	}
	if form.ShowSave {
		t.Error("Expected no save action for an empty form")
	}
}

func TestEmptySectionDiscarded(t *testing.T) {
	supports := stubSupports(map[string]typeFlags{
		"label": {},
		"forum": {groups: true},
	})
	info := &modinfo.CourseInfo{
		CourseID: 7,
		Sections: []modinfo.SectionInfo{
			{Num: 0, Name: "General", ModuleIDs: []uint{1}},
			{Num: 1, Name: "Topic 1", ModuleIDs: []uint{2}},
		},
		Modules: map[uint]*modinfo.ModuleInfo{
			1: {ID: 1, ModName: "label", Name: "A label", Visible: true},
			2: {ID: 2, ModName: "forum", Name: "A forum", Visible: true, SectionNum: 1},
		},
	}

	form := buildWith(BuildInput{Info: info, Supports: supports})

	if len(form.Sections) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(form.Sections))
	}
	if form.Sections[0].Name != "Topic 1" {
		t.Errorf("Expected section 'Topic 1', got %q", form.Sections[0].Name)
	}
}

func TestActivityTypeFilterDropsSections(t *testing.T) {
	supports := stubSupports(map[string]typeFlags{
		"forum": {groups: true},
		"quiz":  {groups: true},
	})
	info := &modinfo.CourseInfo{
		CourseID: 7,
		Sections: []modinfo.SectionInfo{
			{Num: 0, Name: "General", ModuleIDs: []uint{1}},
			{Num: 1, Name: "Topic 1", ModuleIDs: []uint{2}},
		},
		Modules: map[uint]*modinfo.ModuleInfo{
			1: {ID: 1, ModName: "forum", Name: "A forum", Visible: true},
			2: {ID: 2, ModName: "quiz", Name: "A quiz", Visible: true, SectionNum: 1},
		},
	}

	form := buildWith(BuildInput{Info: info, Supports: supports, ActivityType: "quiz"})

	if len(form.Sections) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(form.Sections))
	}
	if len(form.Sections[0].Activities) != 1 || form.Sections[0].Activities[0].ModName != "quiz" {
		t.Errorf("Expected only the quiz to survive the filter, got %+v", form.Sections[0].Activities)
	}
}

func TestForcedGroupModeOverridesAndFreezes(t *testing.T) {
	supports := stubSupports(map[string]typeFlags{
		"forum": {groups: true},
	})
	forum := mod(1, "forum", "A forum")
	forum.GroupMode = models.GroupModeNone
	info := singleSectionInfo(forum)
	course := testCourse()
	course.GroupMode = models.GroupModeSeparate
	course.GroupModeForce = true

	form := buildWith(BuildInput{Course: course, Info: info, Supports: supports})

	row := form.Sections[0].Activities[0]
	if row.GroupMode == nil {
		t.Fatal("Expected a groupmode field")
	}
	if row.GroupMode.Default != models.GroupModeSeparate {
		t.Errorf("Expected forced default %d, got %d", models.GroupModeSeparate, row.GroupMode.Default)
	}
	if !row.GroupMode.ReadOnly {
		t.Error("Expected groupmode field to be frozen under groupmodeforce")
	}
}

func TestReadOnlyWithoutEditCapability(t *testing.T) {
	supports := stubSupports(map[string]typeFlags{
		"forum": {groups: true, groupings: true, membersOnly: true},
	})
	forum := mod(1, "forum", "A forum")
	forum.GroupMode = models.GroupModeVisible
	forum.GroupingID = 3
	forum.GroupMembersOnly = true
	info := singleSectionInfo(forum)

	form := buildWith(BuildInput{
		Info:                   info,
		Supports:               supports,
		EnableGroupMembersOnly: true,
		CanEdit:                denyAll,
	})

	row := form.Sections[0].Activities[0]
	if row.GroupMode == nil || row.GroupingID == nil || row.GroupMembersOnly == nil {
		t.Fatal("Expected all three fields")
	}
	if !row.GroupMode.ReadOnly || !row.GroupingID.ReadOnly || !row.GroupMembersOnly.ReadOnly {
		t.Error("Expected every field read-only without the edit capability")
	}
	// Read-only fields must still show the stored values.
	if row.GroupMode.Default != models.GroupModeVisible {
		t.Errorf("Expected groupmode default %d, got %d", models.GroupModeVisible, row.GroupMode.Default)
	}
	if row.GroupingID.Default != 3 {
		t.Errorf("Expected grouping default 3, got %d", row.GroupingID.Default)
	}
	if !row.GroupMembersOnly.Default {
		t.Error("Expected members-only default true")
	}
}

func TestNameLabelRules(t *testing.T) {
	supports := stubSupports(map[string]typeFlags{
		"chat": {groupings: true, membersOnly: true},
	})
	chat := mod(1, "chat", "A chat")
	info := singleSectionInfo(chat)

	// Site flag off, no group-mode support: no label, but the grouping
	// field is retracted too, so nothing survives.
	form := buildWith(BuildInput{Info: info, Supports: supports})
	if len(form.Sections) != 0 {
		t.Errorf("Expected nothing without site flag or groups support, got %+v", form.Sections)
	}

	// Site flag on: label appears alongside the fields.
	form = buildWith(BuildInput{Info: info, Supports: supports, EnableGroupMembersOnly: true})
	if len(form.Sections) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(form.Sections))
	}
	if form.Sections[0].Activities[0].Name != "A chat" {
		t.Errorf("Expected name label, got %q", form.Sections[0].Activities[0].Name)
	}
}

func TestDisabledIfGroupModeNone(t *testing.T) {
	supports := stubSupports(map[string]typeFlags{
		"forum": {groups: true, groupings: true},
	})
	forum := mod(1, "forum", "A forum")
	info := singleSectionInfo(forum)

	form := buildWith(BuildInput{Info: info, Supports: supports})

	row := form.Sections[0].Activities[0]
	if row.GroupingID == nil || row.GroupingID.DisabledWhen == nil {
		t.Fatal("Expected a disabled-if rule on the grouping field")
	}
	rule := row.GroupingID.DisabledWhen
	if rule.Field != "groupmode" || rule.Op != "eq" || rule.Value != models.GroupModeNone {
		t.Errorf("Unexpected rule %+v", rule)
	}
}

func TestDisabledIfMembersOnlyUnchecked(t *testing.T) {
	supports := stubSupports(map[string]typeFlags{
		"resource": {membersOnly: true},
	})
	res := mod(1, "resource", "A file")
	info := singleSectionInfo(res)

	form := buildWith(BuildInput{Info: info, Supports: supports, EnableGroupMembersOnly: true})

	row := form.Sections[0].Activities[0]
	if row.GroupMode != nil {
		t.Error("Expected no groupmode field")
	}
	if row.GroupingID == nil || row.GroupingID.DisabledWhen == nil {
		t.Fatal("Expected a disabled-if rule on the grouping field")
	}
	rule := row.GroupingID.DisabledWhen
	if rule.Field != "groupmembersonly" || rule.Op != "notchecked" {
		t.Errorf("Unexpected rule %+v", rule)
	}
}

func TestGroupingFieldRetractedWithoutCompanions(t *testing.T) {
	supports := stubSupports(map[string]typeFlags{
		"chat": {groupings: true},
	})
	chat := mod(1, "chat", "A chat")
	info := singleSectionInfo(chat)

	form := buildWith(BuildInput{Info: info, Supports: supports, EnableGroupMembersOnly: true})

	// The only field was retracted, so the section disappears with it.
	if len(form.Sections) != 0 {
		t.Errorf("Expected no sections after retraction, got %+v", form.Sections)
	}
	if form.ShowSave {
		t.Error("Expected no save action after retraction")
	}
}

func TestDisabledIfSkippedWhenGroupingAssigned(t *testing.T) {
	supports := stubSupports(map[string]typeFlags{
		"forum": {groups: true, groupings: true},
	})
	forum := mod(1, "forum", "A forum")
	forum.GroupingID = 5 // an intentional prior choice
	info := singleSectionInfo(forum)

	form := buildWith(BuildInput{Info: info, Supports: supports})

	row := form.Sections[0].Activities[0]
	if row.GroupingID == nil {
		t.Fatal("Expected a grouping field")
	}
	if row.GroupingID.DisabledWhen != nil {
		t.Errorf("Expected no disabled-if rule when a grouping is already set, got %+v", row.GroupingID.DisabledWhen)
	}
}

func TestDisabledIfSkippedWhenGroupModeForced(t *testing.T) {
	supports := stubSupports(map[string]typeFlags{
		"forum": {groups: true, groupings: true},
	})
	forum := mod(1, "forum", "A forum")
	info := singleSectionInfo(forum)
	course := testCourse()
	course.GroupMode = models.GroupModeVisible
	course.GroupModeForce = true

	form := buildWith(BuildInput{Course: course, Info: info, Supports: supports})

	row := form.Sections[0].Activities[0]
	if row.GroupingID == nil {
		t.Fatal("Expected a grouping field")
	}
	if row.GroupingID.DisabledWhen != nil {
		t.Errorf("Expected no disabled-if rule under forced group mode, got %+v", row.GroupingID.DisabledWhen)
	}
}

func TestGroupingOptionsIncludeNone(t *testing.T) {
	supports := stubSupports(map[string]typeFlags{
		"forum": {groups: true, groupings: true},
	})
	info := singleSectionInfo(mod(1, "forum", "A forum"))
	groupings := []models.Grouping{
		{ID: 4, CourseID: 7, Name: "Tutors"},
		{ID: 9, CourseID: 7, Name: "Students"},
	}

	form := buildWith(BuildInput{Info: info, Supports: supports, Groupings: groupings})

	row := form.Sections[0].Activities[0]
	want := []Option{
		{Value: 0, Label: "None"},
		{Value: 4, Label: "Tutors"},
		{Value: 9, Label: "Students"},
	}
	if !reflect.DeepEqual(row.GroupingID.Options, want) {
		t.Errorf("Unexpected grouping options: %+v", row.GroupingID.Options)
	}
}

func TestContinueLinkWhenNothingEditable(t *testing.T) {
	supports := stubSupports(map[string]typeFlags{
		"label": {},
	})
	info := singleSectionInfo(mod(1, "label", "A label"))

	form := buildWith(BuildInput{Info: info, Supports: supports})

	if form.ShowSave {
		t.Error("Expected no save action")
	}
	if form.ContinueURL != "/api/courses/7" {
		t.Errorf("Expected continue URL back to the course, got %q", form.ContinueURL)
	}
}

func TestBuildFormIdempotent(t *testing.T) {
	supports := stubSupports(map[string]typeFlags{
		"forum": {groups: true, groupings: true, membersOnly: true},
		"quiz":  {groups: true},
	})
	info := singleSectionInfo(
		mod(1, "forum", "A forum"),
		mod(2, "quiz", "A quiz"),
	)
	in := BuildInput{
		Course:                 testCourse(),
		Info:                   info,
		Supports:               supports,
		EnableGroupMembersOnly: true,
		CanEdit:                allowAll,
		Groupings:              []models.Grouping{{ID: 4, CourseID: 7, Name: "Tutors"}},
	}

	first := BuildForm(in)
	second := BuildForm(in)

	if !reflect.DeepEqual(first, second) {
		t.Error("Two renders with the same inputs should produce identical forms")
	}
}
