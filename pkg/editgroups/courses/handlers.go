package courses

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campusloop/editgroups/pkg/editgroups/auth"
	"github.com/campusloop/editgroups/pkg/editgroups/capability"
	"github.com/campusloop/editgroups/pkg/editgroups/events"
	"github.com/campusloop/editgroups/pkg/editgroups/models"
)

// Handler handles course-related requests
type Handler struct {
	db      *gorm.DB
	checker *capability.Checker
}

// NewHandler creates a new courses handler
func NewHandler(db *gorm.DB, checker *capability.Checker) *Handler {
	return &Handler{db: db, checker: checker}
}

// CourseResponse represents a course in API responses
type CourseResponse struct {
	ID             uint   `json:"id"`
	Shortname      string `json:"shortname"`
	Fullname       string `json:"fullname"`
	GroupMode      int    `json:"group_mode"`
	GroupModeForce bool   `json:"group_mode_force"`
}

// GroupingResponse represents a grouping in API responses
type GroupingResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// NavEntry is a report link offered in the course navigation.
type NavEntry struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Icon string `json:"icon"`
}

// CourseDetailResponse is the course view: the course, its groupings, and
// the report links the viewer is allowed to open.
type CourseDetailResponse struct {
	CourseResponse
	Groupings []GroupingResponse `json:"groupings"`
	Reports   []NavEntry         `json:"reports"`
}

func courseToResponse(course models.Course) CourseResponse {
	return CourseResponse{
		ID:             course.ID,
		Shortname:      course.Shortname,
		Fullname:       course.Fullname,
		GroupMode:      course.GroupMode,
		GroupModeForce: course.GroupModeForce,
	}
}

// List returns all courses
// @Summary List courses
// @Description Get all courses known to the service
// @Tags courses
// @Produce json
// @Success 200 {array} CourseResponse
// @Security BearerAuth
// @Router /courses [get]
func (h *Handler) List(c *gin.Context) {
	var all []models.Course
	if err := h.db.Order("shortname ASC").Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch courses"})
		return
	}

	responses := make([]CourseResponse, len(all))
	for i, course := range all {
		responses[i] = courseToResponse(course)
	}

	c.JSON(http.StatusOK, responses)
}

// Get returns a single course with its groupings and report navigation
// @Summary Get a course
// @Description Get a course, its groupings, and the report links available to the viewer
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} CourseDetailResponse
// @Failure 404 {object} map[string]string "Course not found"
// @Security BearerAuth
// @Router /courses/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course ID"})
		return
	}

	var course models.Course
	if err := h.db.First(&course, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	var groupings []models.Grouping
	if err := h.db.Where("course_id = ?", course.ID).Order("name ASC").Find(&groupings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch groupings"})
		return
	}

	resp := CourseDetailResponse{
		CourseResponse: courseToResponse(course),
		Groupings:      make([]GroupingResponse, len(groupings)),
		Reports:        []NavEntry{},
	}
	for i, g := range groupings {
		resp.Groupings[i] = GroupingResponse{ID: g.ID, Name: g.Name}
	}

	// The group-settings report only appears in navigation for viewers
	// holding the view capability.
	userID, _ := auth.GetUserID(c)
	if h.checker.HasCourseCapability(userID, models.CapabilityViewReport, course.ID) {
		resp.Reports = append(resp.Reports, NavEntry{
			Name: "Group settings",
			URL:  events.EventURL(course.ID, c.Query("activitytype")),
			Icon: "i/report",
		})
	}

	c.JSON(http.StatusOK, resp)
}

// RegisterRoutes registers course routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/courses", h.List)
	rg.GET("/courses/:id", h.Get)
}
