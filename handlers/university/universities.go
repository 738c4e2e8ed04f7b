package university

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/studyabroad-hub/api/model"
	"github.com/studyabroad-hub/api/utils/response"
	"github.com/studyabroad-hub/api/utils/validation"
	"gorm.io/gorm"
)

// UniversityHandler handles university-related requests
type UniversityHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewUniversityHandler creates a new university handler
func NewUniversityHandler(db *gorm.DB) *UniversityHandler {
	return &UniversityHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateUniversityRequest represents the request body for creating a university.
// The id comes from the data provider and is required; it never changes.
type CreateUniversityRequest struct {
	ID                    string  `json:"id" validate:"required,max=64"`
	Name                  string  `json:"name" validate:"required,min=2,max=255"`
	Location              string  `json:"location" validate:"omitempty,max=255"`
	Country               string  `json:"country" validate:"omitempty,max=100"`
	Website               string  `json:"website" validate:"omitempty,url,max=255"`
	Description           string  `json:"description"`
	Courses               string  `json:"courses"`
	ImageURL              string  `json:"imageUrl" validate:"omitempty,url,max=512"`
	Ranking               string  `json:"ranking" validate:"omitempty,max=100"`
	Tuition               float64 `json:"tuition" validate:"omitempty,gte=0"`
	ScholarshipsAvailable bool    `json:"scholarshipsAvailable"`
	RequiredExams         string  `json:"requiredExams" validate:"omitempty,max=255"`
}

// UpdateUniversityRequest represents the request body for updating a university
type UpdateUniversityRequest struct {
	Name                  string   `json:"name" validate:"omitempty,min=2,max=255"`
	Location              string   `json:"location" validate:"omitempty,max=255"`
	Country               string   `json:"country" validate:"omitempty,max=100"`
	Website               string   `json:"website" validate:"omitempty,url,max=255"`
	Description           string   `json:"description"`
	Courses               string   `json:"courses"`
	ImageURL              string   `json:"imageUrl" validate:"omitempty,url,max=512"`
	Ranking               string   `json:"ranking" validate:"omitempty,max=100"`
	Tuition               *float64 `json:"tuition" validate:"omitempty,gte=0"`
	ScholarshipsAvailable *bool    `json:"scholarshipsAvailable"`
	RequiredExams         string   `json:"requiredExams" validate:"omitempty,max=255"`
}

// ListUniversities handles GET /api/universities
func (h *UniversityHandler) ListUniversities(c *fiber.Ctx) error {
	var universities []model.University
	if err := h.db.WithContext(c.UserContext()).Order("name").Find(&universities).Error; err != nil {
		log.Printf("universities: list failed: %v", err)
		return response.InternalServerError(c, "Failed to fetch universities")
	}

	return response.Success(c, universities)
}

// GetUniversity handles GET /api/universities/:id
func (h *UniversityHandler) GetUniversity(c *fiber.Ctx) error {
	id := c.Params("id")

	var university model.University
	if err := h.db.WithContext(c.UserContext()).First(&university, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "University not found")
		}
		log.Printf("universities: get %s failed: %v", id, err)
		return response.InternalServerError(c, "Failed to fetch university")
	}

	return response.Success(c, university)
}

// CreateUniversity handles POST /api/universities
func (h *UniversityHandler) CreateUniversity(c *fiber.Ctx) error {
	var req CreateUniversityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.ID = validation.SanitizeString(req.ID)
	req.Name = validation.SanitizeString(req.Name)

	// The id is the sole idempotency key; reject reuse.
	var existing model.University
	if err := h.db.WithContext(c.UserContext()).Select("id").First(&existing, "id = ?", req.ID).Error; err == nil {
		return response.Conflict(c, "University with this id already exists")
	}

	university := model.University{
		ID:                    req.ID,
		Name:                  req.Name,
		Location:              req.Location,
		Country:               req.Country,
		Website:               req.Website,
		Description:           req.Description,
		Courses:               req.Courses,
		ImageURL:              req.ImageURL,
		Ranking:               req.Ranking,
		Tuition:               req.Tuition,
		ScholarshipsAvailable: req.ScholarshipsAvailable,
		RequiredExams:         req.RequiredExams,
	}

	if err := h.db.WithContext(c.UserContext()).Create(&university).Error; err != nil {
		log.Printf("universities: create %s failed: %v", req.ID, err)
		return response.InternalServerError(c, "Failed to create university")
	}

	return response.Created(c, university)
}

// UpdateUniversity handles PUT /api/universities/:id
func (h *UniversityHandler) UpdateUniversity(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateUniversityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var university model.University
	if err := h.db.WithContext(c.UserContext()).First(&university, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "University not found")
		}
		log.Printf("universities: update %s failed: %v", id, err)
		return response.InternalServerError(c, "Failed to fetch university")
	}

	if req.Name != "" {
		university.Name = validation.SanitizeString(req.Name)
	}
	if req.Location != "" {
		university.Location = req.Location
	}
	if req.Country != "" {
		university.Country = req.Country
	}
	if req.Website != "" {
		university.Website = req.Website
	}
	if req.Description != "" {
		university.Description = req.Description
	}
	if req.Courses != "" {
		university.Courses = req.Courses
	}
	if req.ImageURL != "" {
		university.ImageURL = req.ImageURL
	}
	if req.Ranking != "" {
		university.Ranking = req.Ranking
	}
	if req.Tuition != nil {
		university.Tuition = *req.Tuition
	}
	if req.ScholarshipsAvailable != nil {
		university.ScholarshipsAvailable = *req.ScholarshipsAvailable
	}
	if req.RequiredExams != "" {
		university.RequiredExams = req.RequiredExams
	}

	if err := h.db.WithContext(c.UserContext()).Save(&university).Error; err != nil {
		log.Printf("universities: save %s failed: %v", id, err)
		return response.InternalServerError(c, "Failed to update university")
	}

	return response.SuccessWithMessage(c, "University updated successfully", university)
}

// DeleteUniversity handles DELETE /api/universities/:id.
// There is no cascade: courses referencing the university stay in place
// with a dangling reference, which clients must tolerate.
func (h *UniversityHandler) DeleteUniversity(c *fiber.Ctx) error {
	id := c.Params("id")

	var university model.University
	if err := h.db.WithContext(c.UserContext()).First(&university, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "University not found")
		}
		log.Printf("universities: delete %s failed: %v", id, err)
		return response.InternalServerError(c, "Failed to fetch university")
	}

	if err := h.db.WithContext(c.UserContext()).Delete(&university).Error; err != nil {
		log.Printf("universities: delete %s failed: %v", id, err)
		return response.InternalServerError(c, "Failed to delete university")
	}

	return response.SuccessWithMessage(c, "University deleted successfully", nil)
}
