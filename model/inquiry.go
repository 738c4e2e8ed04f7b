package model

import "time"

// Inquiry kinds, matching the two public forms on the portal.
const (
	InquiryKindGeneral     = "general"
	InquiryKindScholarship = "scholarship"
)

// Inquiry is a contact-form submission. Created without authentication,
// read only by authenticated staff.
type Inquiry struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Kind         string    `gorm:"type:varchar(20);not null;index" json:"kind"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"not null" json:"email"`
	Phone        string    `gorm:"type:varchar(50)" json:"phone"`
	Country      string    `gorm:"type:varchar(100)" json:"country"`
	FieldOfStudy string    `gorm:"type:varchar(255)" json:"fieldOfStudy"`
	Message      string    `gorm:"type:text" json:"message"`
	CreatedAt    time.Time `json:"createdAt"`
}
