package model

import "time"

// Scholarship is a listed funding opportunity. Amounts and eligibility are
// marketing copy, kept as free text.
type Scholarship struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Amount      string    `gorm:"type:varchar(100)" json:"amount"` // e.g. "$10,000", "Full Tuition Waiver"
	Eligibility string    `gorm:"type:varchar(255)" json:"eligibility"`
	Link        string    `gorm:"type:varchar(512)" json:"link"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
