package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campusloop/editgroups/pkg/editgroups/models"
)

// Handler handles admin requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new admin handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// UserResponse represents user data in admin responses
type UserResponse struct {
	ID         uint   `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	SystemRole string `json:"system_role"`
	CreatedAt  string `json:"created_at"`
	RoleCount  int64  `json:"role_count"`
}

// CreateRoleAssignmentRequest grants or denies a capability in a scope
type CreateRoleAssignmentRequest struct {
	UserID     uint   `json:"user_id" binding:"required"`
	Capability string `json:"capability" binding:"required"`
	CourseID   uint   `json:"course_id" binding:"required"`
	ModuleID   uint   `json:"module_id"`
	Allowed    *bool  `json:"allowed"`
}

// StatsResponse represents system statistics
type StatsResponse struct {
	TotalUsers       int64 `json:"total_users"`
	TotalCourses     int64 `json:"total_courses"`
	TotalModules     int64 `json:"total_modules"`
	TotalGroupings   int64 `json:"total_groupings"`
	ModuleTypes      int64 `json:"module_types"`
	RoleAssignments  int64 `json:"role_assignments"`
	EventsLogged     int64 `json:"events_logged"`
	AdminUsers       int64 `json:"admin_users"`
	GroupModeForced  int64 `json:"group_mode_forced_courses"`
	MembersOnlyInUse int64 `json:"members_only_modules"`
}

// ListUsers returns all users (admin only)
func (h *Handler) ListUsers(c *gin.Context) {
	var users []models.User

	query := h.db.Order("created_at DESC")

	// Optional search by email or name
	if search := c.Query("q"); search != "" {
		query = query.Where("email LIKE ? OR name LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	responses := make([]UserResponse, len(users))
	for i, user := range users {
		var roleCount int64
		h.db.Model(&models.RoleAssignment{}).Where("user_id = ?", user.ID).Count(&roleCount)

		responses[i] = UserResponse{
			ID:         user.ID,
			Email:      user.Email,
			Name:       user.Name,
			SystemRole: string(user.SystemRole),
			CreatedAt:  user.CreatedAt.Format("2006-01-02T15:04:05Z"),
			RoleCount:  roleCount,
		}
	}

	c.JSON(http.StatusOK, responses)
}

// CreateRoleAssignment grants or denies a capability (admin only)
func (h *Handler) CreateRoleAssignment(c *gin.Context) {
	var req CreateRoleAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.db.First(&user, req.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	allowed := true
	if req.Allowed != nil {
		allowed = *req.Allowed
	}

	ra := models.RoleAssignment{
		UserID:     req.UserID,
		Capability: req.Capability,
		CourseID:   req.CourseID,
		ModuleID:   req.ModuleID,
		Allowed:    allowed,
	}
	if err := h.db.Create(&ra).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create role assignment"})
		return
	}

	c.JSON(http.StatusCreated, ra)
}

// DeleteRoleAssignment revokes a capability assignment (admin only)
func (h *Handler) DeleteRoleAssignment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role assignment ID"})
		return
	}

	result := h.db.Delete(&models.RoleAssignment{}, uint(id))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete role assignment"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role assignment not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role assignment deleted"})
}

// GetStats returns system-wide statistics (admin only)
func (h *Handler) GetStats(c *gin.Context) {
	var stats StatsResponse

	h.db.Model(&models.User{}).Count(&stats.TotalUsers)
	h.db.Model(&models.Course{}).Count(&stats.TotalCourses)
	h.db.Model(&models.CourseModule{}).Count(&stats.TotalModules)
	h.db.Model(&models.Grouping{}).Count(&stats.TotalGroupings)
	h.db.Model(&models.ModuleType{}).Count(&stats.ModuleTypes)
	h.db.Model(&models.RoleAssignment{}).Count(&stats.RoleAssignments)
	h.db.Model(&models.EventLog{}).Count(&stats.EventsLogged)

	h.db.Model(&models.User{}).Where("system_role = ?", "admin").Count(&stats.AdminUsers)
	h.db.Model(&models.Course{}).Where("group_mode_force = ?", true).Count(&stats.GroupModeForced)
	h.db.Model(&models.CourseModule{}).Where("group_members_only = ?", true).Count(&stats.MembersOnlyInUse)

	c.JSON(http.StatusOK, stats)
}

// RegisterRoutes registers admin routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.GetStats)
	rg.GET("/users", h.ListUsers)
	rg.POST("/roles", h.CreateRoleAssignment)
	rg.DELETE("/roles/:id", h.DeleteRoleAssignment)
}
