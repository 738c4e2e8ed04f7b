package course

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/studyabroad-hub/api/model"
	"github.com/studyabroad-hub/api/utils/response"
	"github.com/studyabroad-hub/api/utils/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CourseHandler handles course-related requests
type CourseHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(db *gorm.DB) *CourseHandler {
	return &CourseHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateCourseRequest represents the request body for creating a course.
// The university reference is required but not checked against the
// universities table here; referential integrity is only enforced by the
// batch importer.
type CreateCourseRequest struct {
	ID                    string     `json:"id" validate:"required,max=64"`
	Name                  string     `json:"name" validate:"required,min=2,max=255"`
	Description           string     `json:"description"`
	Field                 string     `json:"field" validate:"omitempty,max=255"`
	Level                 string     `json:"level" validate:"omitempty,max=100"`
	UniversityID          string     `json:"universityId" validate:"required,max=64"`
	Tuition               float64    `json:"tuition" validate:"omitempty,gte=0"`
	Currency              string     `json:"currency" validate:"required,len=3,uppercase"`
	DurationMonths        int        `json:"durationMonths" validate:"omitempty,gte=0"`
	Mode                  string     `json:"mode" validate:"omitempty,max=50"`
	IntakeTerms           []string   `json:"intakeTerms"`
	ApplicationDeadline   *time.Time `json:"applicationDeadline"`
	ScholarshipsAvailable bool       `json:"scholarshipsAvailable"`
	CourseURL             string     `json:"courseUrl" validate:"omitempty,url,max=512"`
	AvgSalary             string     `json:"avgSalary" validate:"omitempty,max=100"`
	ImageURL              string     `json:"imageUrl" validate:"omitempty,url,max=512"`
}

// UpdateCourseRequest represents the request body for updating a course
type UpdateCourseRequest struct {
	Name                  string     `json:"name" validate:"omitempty,min=2,max=255"`
	Description           string     `json:"description"`
	Field                 string     `json:"field" validate:"omitempty,max=255"`
	Level                 string     `json:"level" validate:"omitempty,max=100"`
	UniversityID          string     `json:"universityId" validate:"omitempty,max=64"`
	Tuition               *float64   `json:"tuition" validate:"omitempty,gte=0"`
	Currency              string     `json:"currency" validate:"omitempty,len=3,uppercase"`
	DurationMonths        *int       `json:"durationMonths" validate:"omitempty,gte=0"`
	Mode                  string     `json:"mode" validate:"omitempty,max=50"`
	IntakeTerms           []string   `json:"intakeTerms"`
	ApplicationDeadline   *time.Time `json:"applicationDeadline"`
	ScholarshipsAvailable *bool      `json:"scholarshipsAvailable"`
	CourseURL             string     `json:"courseUrl" validate:"omitempty,url,max=512"`
	AvgSalary             string     `json:"avgSalary" validate:"omitempty,max=100"`
	ImageURL              string     `json:"imageUrl" validate:"omitempty,url,max=512"`
}

// ListCourses handles GET /api/courses
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	var courses []model.Course
	if err := h.db.WithContext(c.UserContext()).Preload("University").Order("name").Find(&courses).Error; err != nil {
		log.Printf("courses: list failed: %v", err)
		return response.InternalServerError(c, "Failed to fetch courses")
	}

	return response.Success(c, courses)
}

// GetCourse handles GET /api/courses/:id. The populated University is null
// when the reference dangles; that is document behavior, not an error.
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	id := c.Params("id")

	var course model.Course
	if err := h.db.WithContext(c.UserContext()).Preload("University").First(&course, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Course not found")
		}
		log.Printf("courses: get %s failed: %v", id, err)
		return response.InternalServerError(c, "Failed to fetch course")
	}

	return response.Success(c, course)
}

// CreateCourse handles POST /api/courses
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	var req CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.ID = validation.SanitizeString(req.ID)
	req.Name = validation.SanitizeString(req.Name)

	var existing model.Course
	if err := h.db.WithContext(c.UserContext()).Select("id").First(&existing, "id = ?", req.ID).Error; err == nil {
		return response.Conflict(c, "Course with this id already exists")
	}

	course := model.Course{
		ID:                    req.ID,
		Name:                  req.Name,
		Description:           req.Description,
		Field:                 req.Field,
		Level:                 req.Level,
		UniversityID:          req.UniversityID,
		Tuition:               req.Tuition,
		Currency:              req.Currency,
		DurationMonths:        req.DurationMonths,
		Mode:                  req.Mode,
		IntakeTerms:           datatypes.NewJSONSlice(req.IntakeTerms),
		ApplicationDeadline:   req.ApplicationDeadline,
		ScholarshipsAvailable: req.ScholarshipsAvailable,
		CourseURL:             req.CourseURL,
		AvgSalary:             req.AvgSalary,
		ImageURL:              req.ImageURL,
	}

	if err := h.db.WithContext(c.UserContext()).Create(&course).Error; err != nil {
		log.Printf("courses: create %s failed: %v", req.ID, err)
		return response.InternalServerError(c, "Failed to create course")
	}

	return response.Created(c, course)
}

// UpdateCourse handles PUT /api/courses/:id
func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var course model.Course
	if err := h.db.WithContext(c.UserContext()).First(&course, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Course not found")
		}
		log.Printf("courses: update %s failed: %v", id, err)
		return response.InternalServerError(c, "Failed to fetch course")
	}

	if req.Name != "" {
		course.Name = validation.SanitizeString(req.Name)
	}
	if req.Description != "" {
		course.Description = req.Description
	}
	if req.Field != "" {
		course.Field = req.Field
	}
	if req.Level != "" {
		course.Level = req.Level
	}
	if req.UniversityID != "" {
		course.UniversityID = req.UniversityID
	}
	if req.Tuition != nil {
		course.Tuition = *req.Tuition
	}
	if req.Currency != "" {
		course.Currency = req.Currency
	}
	if req.DurationMonths != nil {
		course.DurationMonths = *req.DurationMonths
	}
	if req.Mode != "" {
		course.Mode = req.Mode
	}
	if req.IntakeTerms != nil {
		course.IntakeTerms = datatypes.NewJSONSlice(req.IntakeTerms)
	}
	if req.ApplicationDeadline != nil {
		course.ApplicationDeadline = req.ApplicationDeadline
	}
	if req.ScholarshipsAvailable != nil {
		course.ScholarshipsAvailable = *req.ScholarshipsAvailable
	}
	if req.CourseURL != "" {
		course.CourseURL = req.CourseURL
	}
	if req.AvgSalary != "" {
		course.AvgSalary = req.AvgSalary
	}
	if req.ImageURL != "" {
		course.ImageURL = req.ImageURL
	}

	if err := h.db.WithContext(c.UserContext()).Save(&course).Error; err != nil {
		log.Printf("courses: save %s failed: %v", id, err)
		return response.InternalServerError(c, "Failed to update course")
	}

	// Reload to populate the university reference for the response.
	h.db.WithContext(c.UserContext()).Preload("University").First(&course, "id = ?", id)

	return response.SuccessWithMessage(c, "Course updated successfully", course)
}

// DeleteCourse handles DELETE /api/courses/:id
func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	id := c.Params("id")

	var course model.Course
	if err := h.db.WithContext(c.UserContext()).First(&course, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Course not found")
		}
		log.Printf("courses: delete %s failed: %v", id, err)
		return response.InternalServerError(c, "Failed to fetch course")
	}

	if err := h.db.WithContext(c.UserContext()).Delete(&course).Error; err != nil {
		log.Printf("courses: delete %s failed: %v", id, err)
		return response.InternalServerError(c, "Failed to delete course")
	}

	return response.SuccessWithMessage(c, "Course deleted successfully", nil)
}
