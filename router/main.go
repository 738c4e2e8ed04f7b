package router

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/studyabroad-hub/api/config"
	"github.com/studyabroad-hub/api/database"
	"github.com/studyabroad-hub/api/handlers"
	auth_handlers "github.com/studyabroad-hub/api/handlers/auth"
	course_handlers "github.com/studyabroad-hub/api/handlers/course"
	inquiry_handlers "github.com/studyabroad-hub/api/handlers/inquiry"
	scholarship_handlers "github.com/studyabroad-hub/api/handlers/scholarship"
	university_handlers "github.com/studyabroad-hub/api/handlers/university"
	"github.com/studyabroad-hub/api/identity"
	"github.com/studyabroad-hub/api/utils"
	"github.com/studyabroad-hub/api/utils/cache"
	"github.com/studyabroad-hub/api/utils/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires handlers to the route table. The verifier is injected
// by the caller so tests can swap in a static one.
func SetupRoutes(app *fiber.App, store database.Storage, verifier identity.Verifier, env *config.EnvironmentVariable) {
	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Redis-backed lockout for repeated failed logins; optional.
	var bruteForceProtection *middleware.BruteForceProtection
	if env.REDIS_URL != "" {
		redisCache, err := cache.NewRedisCache(env.REDIS_URL)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis: %v. Login lockout will be disabled.", err)
		} else {
			bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
		}
	}

	authMiddleware := middleware.NewAuthMiddleware(verifier)

	authHandler := auth_handlers.NewAuthHandler(db, verifier, bruteForceProtection)
	universityHandler := university_handlers.NewUniversityHandler(db)
	courseHandler := course_handlers.NewCourseHandler(db)
	scholarshipHandler := scholarship_handlers.NewScholarshipHandler(db)
	inquiryHandler := inquiry_handlers.NewInquiryHandler(db)

	allowedOrigins := env.ALLOWED_ORIGINS
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173,http://localhost:3000"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,
		RateLimitWindow:   1 * time.Minute,
	})

	// Health check endpoint (public)
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, store))

	api := app.Group("/api")

	// Auth
	authGroup := api.Group("/auth")
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	// Universities: public reads, token-gated mutations
	universities := api.Group("/universities")
	universities.Get("/", universityHandler.ListUniversities)
	universities.Get("/:id", universityHandler.GetUniversity)
	universities.Post("/", authMiddleware.Required(), universityHandler.CreateUniversity)
	universities.Put("/:id", authMiddleware.Required(), universityHandler.UpdateUniversity)
	universities.Delete("/:id", authMiddleware.Required(), universityHandler.DeleteUniversity)

	// Courses
	courses := api.Group("/courses")
	courses.Get("/", courseHandler.ListCourses)
	courses.Get("/:id", courseHandler.GetCourse)
	courses.Post("/", authMiddleware.Required(), courseHandler.CreateCourse)
	courses.Put("/:id", authMiddleware.Required(), courseHandler.UpdateCourse)
	courses.Delete("/:id", authMiddleware.Required(), courseHandler.DeleteCourse)

	// Scholarships
	scholarships := api.Group("/scholarships")
	scholarships.Get("/", scholarshipHandler.ListScholarships)
	scholarships.Get("/:id", scholarshipHandler.GetScholarship)
	scholarships.Post("/", authMiddleware.Required(), scholarshipHandler.CreateScholarship)
	scholarships.Put("/:id", authMiddleware.Required(), scholarshipHandler.UpdateScholarship)
	scholarships.Delete("/:id", authMiddleware.Required(), scholarshipHandler.DeleteScholarship)

	// Inquiries: public create (marketing forms), staff-only reads
	inquiries := api.Group("/inquiries")
	inquiries.Post("/", inquiryHandler.CreateInquiry)
	inquiries.Get("/", authMiddleware.Required(), inquiryHandler.ListInquiries)
	inquiries.Delete("/:id", authMiddleware.Required(), inquiryHandler.DeleteInquiry)
}
