package model

import "time"

// University represents a partner institution shown on the portal.
// The ID is supplied by the data provider (e.g. "990") and is stable across
// systems; it is never generated locally and never changes after creation.
type University struct {
	ID                    string    `gorm:"primaryKey" json:"id"`
	Name                  string    `gorm:"not null" json:"name"`
	Location              string    `gorm:"type:varchar(255)" json:"location"`
	Country               string    `gorm:"type:varchar(100)" json:"country"`
	Website               string    `gorm:"type:varchar(255)" json:"website"`
	Description           string    `gorm:"type:text" json:"description"`
	Courses               string    `gorm:"type:text" json:"courses"` // comma-separated popular courses
	ImageURL              string    `gorm:"type:varchar(512)" json:"imageUrl"`
	Ranking               string    `gorm:"type:varchar(100)" json:"ranking"` // free text, e.g. "QS World Ranking: #1" or "85"
	Tuition               float64   `json:"tuition"`                          // annual, USD (see DESIGN.md on currency)
	ScholarshipsAvailable bool      `json:"scholarshipsAvailable"`
	RequiredExams         string    `gorm:"type:varchar(255)" json:"requiredExams"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}
