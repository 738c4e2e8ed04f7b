package inquiry

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/studyabroad-hub/api/model"
	"github.com/studyabroad-hub/api/utils/middleware"
	"github.com/studyabroad-hub/api/utils/response"
	"github.com/studyabroad-hub/api/utils/validation"
	"gorm.io/gorm"
)

// InquiryHandler handles contact-form submissions. Creation is public (the
// forms live on unauthenticated marketing pages); reading and deleting are
// staff operations.
type InquiryHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewInquiryHandler creates a new inquiry handler
func NewInquiryHandler(db *gorm.DB) *InquiryHandler {
	return &InquiryHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateInquiryRequest represents the request body for submitting an inquiry
type CreateInquiryRequest struct {
	Kind         string `json:"kind" validate:"omitempty,oneof=general scholarship"`
	Name         string `json:"name" validate:"required,min=2,max=255"`
	Email        string `json:"email" validate:"required,email,max=254"`
	Phone        string `json:"phone" validate:"omitempty,max=50"`
	Country      string `json:"country" validate:"omitempty,max=100"`
	FieldOfStudy string `json:"fieldOfStudy" validate:"omitempty,max=255"`
	Message      string `json:"message" validate:"omitempty,max=5000"`
}

// CreateInquiry handles POST /api/inquiries
func (h *InquiryHandler) CreateInquiry(c *fiber.Ctx) error {
	var req CreateInquiryRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if req.Kind == "" {
		req.Kind = model.InquiryKindGeneral
	}

	inquiry := model.Inquiry{
		ID:           uuid.NewString(),
		Kind:         req.Kind,
		Name:         validation.SanitizeString(req.Name),
		Email:        validation.SanitizeString(req.Email),
		Phone:        req.Phone,
		Country:      req.Country,
		FieldOfStudy: req.FieldOfStudy,
		Message:      req.Message,
	}

	if err := h.db.WithContext(c.UserContext()).Create(&inquiry).Error; err != nil {
		log.Printf("inquiries: create failed: %v", err)
		return response.InternalServerError(c, "Failed to submit inquiry")
	}

	return response.Created(c, inquiry)
}

// ListInquiries handles GET /api/inquiries
func (h *InquiryHandler) ListInquiries(c *fiber.Ctx) error {
	query := h.db.WithContext(c.UserContext()).Order("created_at DESC")
	if kind := c.Query("kind"); kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var inquiries []model.Inquiry
	if err := query.Find(&inquiries).Error; err != nil {
		log.Printf("inquiries: list failed: %v", err)
		return response.InternalServerError(c, "Failed to fetch inquiries")
	}

	return response.Success(c, inquiries)
}

// DeleteInquiry handles DELETE /api/inquiries/:id
func (h *InquiryHandler) DeleteInquiry(c *fiber.Ctx) error {
	id := c.Params("id")

	var inquiry model.Inquiry
	if err := h.db.WithContext(c.UserContext()).First(&inquiry, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Inquiry not found")
		}
		log.Printf("inquiries: delete %s failed: %v", id, err)
		return response.InternalServerError(c, "Failed to fetch inquiry")
	}

	if err := h.db.WithContext(c.UserContext()).Delete(&inquiry).Error; err != nil {
		log.Printf("inquiries: delete %s failed: %v", id, err)
		return response.InternalServerError(c, "Failed to delete inquiry")
	}

	// Inquiries are user-submitted data, so note which staff member
	// removed them.
	if claims, ok := middleware.GetClaims(c); ok {
		log.Printf("inquiries: %s deleted by %s", id, claims.UID)
	}

	return response.SuccessWithMessage(c, "Inquiry deleted successfully", nil)
}
