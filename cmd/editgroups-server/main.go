package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/campusloop/editgroups/pkg/editgroups/admin"
	"github.com/campusloop/editgroups/pkg/editgroups/auth"
	"github.com/campusloop/editgroups/pkg/editgroups/cache"
	"github.com/campusloop/editgroups/pkg/editgroups/capability"
	"github.com/campusloop/editgroups/pkg/editgroups/courses"
	"github.com/campusloop/editgroups/pkg/editgroups/database"
	"github.com/campusloop/editgroups/pkg/editgroups/events"
	"github.com/campusloop/editgroups/pkg/editgroups/features"
	"github.com/campusloop/editgroups/pkg/editgroups/modinfo"
	"github.com/campusloop/editgroups/pkg/editgroups/models"
	"github.com/campusloop/editgroups/pkg/editgroups/report"
)

func main() {
	// Get database path from environment or use default
	dbPath := os.Getenv("EDITGROUPS_DB_PATH")
	if dbPath == "" {
		dbPath = "editgroups.db"
	}

	// Connect to database
	if err := database.Connect(dbPath); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := models.AutoMigrate(database.GetDB()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Seed the module-type feature registry
	if err := features.SeedStockTypes(database.GetDB()); err != nil {
		log.Fatalf("Failed to seed module types: %v", err)
	}

	// Create default admin user if no admin exists
	if err := ensureAdminExists(); err != nil {
		log.Fatalf("Failed to ensure admin user exists: %v", err)
	}

	// Course cache (disabled when EDITGROUPS_REDIS_ADDR is unset)
	courseCache := cache.New(os.Getenv("EDITGROUPS_REDIS_ADDR"))

	// Site-wide switch for the "group members only" restriction
	reportCfg := report.Config{
		EnableGroupMembersOnly: os.Getenv("EDITGROUPS_ENABLE_GROUPMEMBERSONLY") != "false",
	}

	db := database.GetDB()
	provider := modinfo.NewProvider(db, courseCache)
	registry := features.NewRegistry(db)
	checker := capability.NewChecker(db)
	eventLogger := events.NewLogger(db)

	// Set up Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"service": "editgroups",
			})
		})

		// Auth routes (public)
		authHandler := auth.NewHandler(db)
		authHandler.RegisterRoutes(api.Group("/auth"))

		// Course routes (protected)
		coursesHandler := courses.NewHandler(db, checker)
		coursesHandler.RegisterRoutes(api.Group("", auth.AuthMiddleware()))

		// Report routes (protected)
		reportHandler := report.NewHandler(db, provider, registry, checker, eventLogger, reportCfg)
		reportHandler.RegisterRoutes(api.Group("", auth.AuthMiddleware()))

		// Admin routes (JWT only, admin role required)
		adminHandler := admin.NewHandler(db)
		adminGroup := api.Group("/admin")
		adminGroup.Use(auth.AuthMiddleware(), auth.RequireAdmin())
		adminHandler.RegisterRoutes(adminGroup)
	}

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting editgroups server on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// ensureAdminExists creates a default admin user if no admin exists in the
// database. Admins hold every capability, so the service is usable before
// any role assignments have been made.
func ensureAdminExists() error {
	db := database.GetDB()

	// Check if any admin user exists
	var count int64
	if err := db.Model(&models.User{}).Where("system_role = ?", models.SystemRoleAdmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil // Admin already exists
	}

	// Create default admin user
	hashedPassword, err := auth.HashPassword("changeme")
	if err != nil {
		return err
	}

	adminUser := models.User{
		Email:        "admin@editgroups.local",
		Name:         "Admin",
		PasswordHash: hashedPassword,
		SystemRole:   models.SystemRoleAdmin,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Printf("Created default admin user: admin@editgroups.local (password: changeme)")
	return nil
}
