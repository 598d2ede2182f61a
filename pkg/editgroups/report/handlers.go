package report

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campusloop/editgroups/pkg/editgroups/auth"
	"github.com/campusloop/editgroups/pkg/editgroups/capability"
	"github.com/campusloop/editgroups/pkg/editgroups/events"
	"github.com/campusloop/editgroups/pkg/editgroups/features"
	"github.com/campusloop/editgroups/pkg/editgroups/modinfo"
	"github.com/campusloop/editgroups/pkg/editgroups/models"
)

// FilterThreshold is the number of eligible activities above which the
// report auto-selects an activity-type filter instead of rendering
// everything at once.
const FilterThreshold = 20

// Config carries site-wide settings the report depends on.
type Config struct {
	EnableGroupMembersOnly bool
}

// Handler serves the group-settings report page
type Handler struct {
	db       *gorm.DB
	provider *modinfo.Provider
	registry *features.Registry
	checker  *capability.Checker
	events   *events.Logger
	cfg      Config
}

// NewHandler creates a new report handler
func NewHandler(db *gorm.DB, provider *modinfo.Provider, registry *features.Registry,
	checker *capability.Checker, eventLogger *events.Logger, cfg Config) *Handler {
	return &Handler{
		db:       db,
		provider: provider,
		registry: registry,
		checker:  checker,
		events:   eventLogger,
		cfg:      cfg,
	}
}

// TypeOption is one entry of the activity-type filter menu. An empty value
// means "all types".
type TypeOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ShowResponse is the rendered report: the form plus the filter menu.
type ShowResponse struct {
	CourseID      uint         `json:"course_id"`
	CourseName    string       `json:"course_name"`
	ActivityType  string       `json:"activity_type,omitempty"`
	ActivityTypes []TypeOption `json:"activity_types"`
	Form          *FormSpec    `json:"form"`
}

// CommitRequest is the raw submission body. The three field maps are kept
// as raw JSON so a malformed shape degrades to "no changes of that kind"
// instead of failing the request.
type CommitRequest struct {
	ActivityType     string          `json:"activitytype"`
	Cancel           bool            `json:"cancel"`
	GroupMode        json.RawMessage `json:"groupmode"`
	GroupingID       json.RawMessage `json:"groupingid"`
	GroupMembersOnly json.RawMessage `json:"groupmembersonly"`
}

func (h *Handler) loadCourse(c *gin.Context) (*models.Course, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course ID"})
		return nil, false
	}

	var course models.Course
	if err := h.db.First(&course, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return nil, false
	}
	return &course, true
}

// activityTypes walks the course snapshot once, counting activities the
// report would display and collecting their types, sorted by display name.
// The "all" entry is only offered while the course is small enough to
// render unfiltered.
func (h *Handler) activityTypes(info *modinfo.CourseInfo) (int, []TypeOption) {
	displayed := 0
	seen := map[string]string{}

	for _, section := range info.Sections {
		for _, moduleID := range section.ModuleIDs {
			cm := info.Modules[moduleID]
			if cm == nil || !eligible(cm, h.cfg.EnableGroupMembersOnly, h.registry.Supports) {
				continue
			}
			displayed++
			seen[cm.ModName] = h.registry.DisplayName(cm.ModName)
		}
	}

	types := make([]TypeOption, 0, len(seen)+1)
	for name, label := range seen {
		types = append(types, TypeOption{Value: name, Label: label})
	}
	sort.Slice(types, func(i, j int) bool {
		li, lj := strings.ToLower(types[i].Label), strings.ToLower(types[j].Label)
		if li != lj {
			return li < lj
		}
		return types[i].Value < types[j].Value
	})

	if displayed <= FilterThreshold {
		types = append([]TypeOption{{Value: "", Label: "All"}}, types...)
	}

	return displayed, types
}

// Show renders the group-settings report for a course
// @Summary Render the group-settings report
// @Description Build the per-activity group settings form for a course, optionally filtered by activity type
// @Tags report
// @Produce json
// @Param id path int true "Course ID"
// @Param activitytype query string false "Activity type filter"
// @Success 200 {object} ShowResponse
// @Success 303 "Redirect with auto-selected activity type"
// @Failure 403 {object} map[string]string "Missing report/editgroups:view"
// @Failure 404 {object} map[string]string "Course not found"
// @Security BearerAuth
// @Router /courses/{id}/groupsettings [get]
func (h *Handler) Show(c *gin.Context) {
	course, ok := h.loadCourse(c)
	if !ok {
		return
	}

	userID, _ := auth.GetUserID(c)
	if !h.checker.HasCourseCapability(userID, models.CapabilityViewReport, course.ID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to view this report"})
		return
	}

	info, err := h.provider.Get(c.Request.Context(), course.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load course modules"})
		return
	}

	activityType := c.Query("activitytype")
	displayed, types := h.activityTypes(info)

	// Large unfiltered courses get the first available type preselected.
	if activityType == "" && displayed > FilterThreshold && len(types) > 0 {
		c.Redirect(http.StatusSeeOther, events.EventURL(course.ID, types[0].Value))
		return
	}

	var groupings []models.Grouping
	if err := h.db.Where("course_id = ?", course.ID).Order("name ASC").Find(&groupings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load groupings"})
		return
	}

	form := BuildForm(BuildInput{
		Course:                 course,
		Info:                   info,
		Groupings:              groupings,
		ActivityType:           activityType,
		EnableGroupMembersOnly: h.cfg.EnableGroupMembersOnly,
		Supports:               h.registry.Supports,
		CanEdit:                h.checker.ModuleEditCheck(userID, course.ID),
	})

	h.events.Log(c, models.EventReportViewed, course.ID, activityType)

	c.JSON(http.StatusOK, ShowResponse{
		CourseID:      course.ID,
		CourseName:    course.Fullname,
		ActivityType:  activityType,
		ActivityTypes: types,
		Form:          form,
	})
}

// decodeUintKeyed unmarshals a raw JSON object into a map keyed by module
// id. Anything that is not an object of the expected value type is treated
// as "no changes", never as an error.
func decodeUintKeyed[V any](raw json.RawMessage) map[uint]V {
	if len(raw) == 0 {
		return nil
	}
	var m map[uint]V
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

// Submit commits a group-settings submission for a course
// @Summary Commit group-settings changes
// @Description Apply submitted per-activity group settings in a single transaction, then redirect back to the report
// @Tags report
// @Accept json
// @Param id path int true "Course ID"
// @Param request body CommitRequest true "Submitted field maps keyed by module id"
// @Success 303 "Redirect back to the report (or the course on cancel)"
// @Failure 403 {object} map[string]string "Missing report/editgroups:view"
// @Failure 404 {object} map[string]string "Course not found"
// @Security BearerAuth
// @Router /courses/{id}/groupsettings [post]
func (h *Handler) Submit(c *gin.Context) {
	course, ok := h.loadCourse(c)
	if !ok {
		return
	}

	userID, _ := auth.GetUserID(c)
	if !h.checker.HasCourseCapability(userID, models.CapabilityViewReport, course.ID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to view this report"})
		return
	}

	var req CommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Cancel {
		c.Redirect(http.StatusSeeOther, "/api/courses/"+strconv.FormatUint(uint64(course.ID), 10))
		return
	}

	sub := SubmittedSettings{
		GroupMode:        decodeUintKeyed[int](req.GroupMode),
		GroupingID:       decodeUintKeyed[uint](req.GroupingID),
		GroupMembersOnly: decodeUintKeyed[bool](req.GroupMembersOnly),
	}

	if _, err := CommitSettings(h.db, course.ID, sub, h.checker.ModuleEditCheck(userID, course.ID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update group settings"})
		return
	}

	// The next render must observe the new settings.
	h.provider.Invalidate(c.Request.Context(), course.ID)

	h.events.Log(c, models.EventSettingsUpdated, course.ID, req.ActivityType)

	c.Redirect(http.StatusSeeOther, events.EventURL(course.ID, req.ActivityType))
}

// RegisterRoutes registers report routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/courses/:id/groupsettings", h.Show)
	rg.POST("/courses/:id/groupsettings", h.Submit)
}
