package scholarship

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/studyabroad-hub/api/model"
	"github.com/studyabroad-hub/api/utils/response"
	"github.com/studyabroad-hub/api/utils/validation"
	"gorm.io/gorm"
)

// ScholarshipHandler handles scholarship-related requests
type ScholarshipHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewScholarshipHandler creates a new scholarship handler
func NewScholarshipHandler(db *gorm.DB) *ScholarshipHandler {
	return &ScholarshipHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateScholarshipRequest represents the request body for creating a scholarship
type CreateScholarshipRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Description string `json:"description"`
	Amount      string `json:"amount" validate:"omitempty,max=100"`
	Eligibility string `json:"eligibility" validate:"omitempty,max=255"`
	Link        string `json:"link" validate:"omitempty,url,max=512"`
}

// UpdateScholarshipRequest represents the request body for updating a scholarship
type UpdateScholarshipRequest struct {
	Name        string `json:"name" validate:"omitempty,min=2,max=255"`
	Description string `json:"description"`
	Amount      string `json:"amount" validate:"omitempty,max=100"`
	Eligibility string `json:"eligibility" validate:"omitempty,max=255"`
	Link        string `json:"link" validate:"omitempty,url,max=512"`
}

// ListScholarships handles GET /api/scholarships
func (h *ScholarshipHandler) ListScholarships(c *fiber.Ctx) error {
	var scholarships []model.Scholarship
	if err := h.db.WithContext(c.UserContext()).Order("name").Find(&scholarships).Error; err != nil {
		log.Printf("scholarships: list failed: %v", err)
		return response.InternalServerError(c, "Failed to fetch scholarships")
	}

	return response.Success(c, scholarships)
}

// GetScholarship handles GET /api/scholarships/:id
func (h *ScholarshipHandler) GetScholarship(c *fiber.Ctx) error {
	id := c.Params("id")

	var scholarship model.Scholarship
	if err := h.db.WithContext(c.UserContext()).First(&scholarship, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Scholarship not found")
		}
		log.Printf("scholarships: get %s failed: %v", id, err)
		return response.InternalServerError(c, "Failed to fetch scholarship")
	}

	return response.Success(c, scholarship)
}

// CreateScholarship handles POST /api/scholarships
func (h *ScholarshipHandler) CreateScholarship(c *fiber.Ctx) error {
	var req CreateScholarshipRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	scholarship := model.Scholarship{
		ID:          uuid.NewString(),
		Name:        validation.SanitizeString(req.Name),
		Description: req.Description,
		Amount:      req.Amount,
		Eligibility: req.Eligibility,
		Link:        req.Link,
	}

	if err := h.db.WithContext(c.UserContext()).Create(&scholarship).Error; err != nil {
		log.Printf("scholarships: create failed: %v", err)
		return response.InternalServerError(c, "Failed to create scholarship")
	}

	return response.Created(c, scholarship)
}

// UpdateScholarship handles PUT /api/scholarships/:id
func (h *ScholarshipHandler) UpdateScholarship(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateScholarshipRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var scholarship model.Scholarship
	if err := h.db.WithContext(c.UserContext()).First(&scholarship, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Scholarship not found")
		}
		log.Printf("scholarships: update %s failed: %v", id, err)
		return response.InternalServerError(c, "Failed to fetch scholarship")
	}

	if req.Name != "" {
		scholarship.Name = validation.SanitizeString(req.Name)
	}
	if req.Description != "" {
		scholarship.Description = req.Description
	}
	if req.Amount != "" {
		scholarship.Amount = req.Amount
	}
	if req.Eligibility != "" {
		scholarship.Eligibility = req.Eligibility
	}
	if req.Link != "" {
		scholarship.Link = req.Link
	}

	if err := h.db.WithContext(c.UserContext()).Save(&scholarship).Error; err != nil {
		log.Printf("scholarships: save %s failed: %v", id, err)
		return response.InternalServerError(c, "Failed to update scholarship")
	}

	return response.SuccessWithMessage(c, "Scholarship updated successfully", scholarship)
}

// DeleteScholarship handles DELETE /api/scholarships/:id
func (h *ScholarshipHandler) DeleteScholarship(c *fiber.Ctx) error {
	id := c.Params("id")

	var scholarship model.Scholarship
	if err := h.db.WithContext(c.UserContext()).First(&scholarship, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Scholarship not found")
		}
		log.Printf("scholarships: delete %s failed: %v", id, err)
		return response.InternalServerError(c, "Failed to fetch scholarship")
	}

	if err := h.db.WithContext(c.UserContext()).Delete(&scholarship).Error; err != nil {
		log.Printf("scholarships: delete %s failed: %v", id, err)
		return response.InternalServerError(c, "Failed to delete scholarship")
	}

	return response.SuccessWithMessage(c, "Scholarship deleted successfully", nil)
}
