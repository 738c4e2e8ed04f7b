package model

import (
	"time"

	"gorm.io/datatypes"
)

// Course represents a single program offered by one university.
// IDs come from the data provider or are generated client-side for
// admin-created courses; either way they are opaque strings and immutable.
type Course struct {
	ID                    string                      `gorm:"primaryKey" json:"id"`
	Name                  string                      `gorm:"not null" json:"name"`
	Description           string                      `gorm:"type:text" json:"description"`
	Field                 string                      `gorm:"type:varchar(255)" json:"field"`
	Level                 string                      `gorm:"type:varchar(100)" json:"level"`
	UniversityID          string                      `gorm:"not null;index" json:"universityId"`
	Tuition               float64                     `json:"tuition"`
	Currency              string                      `gorm:"type:varchar(3)" json:"currency"`
	DurationMonths        int                         `json:"durationMonths"`
	Mode                  string                      `gorm:"type:varchar(50)" json:"mode"`
	IntakeTerms           datatypes.JSONSlice[string] `json:"intakeTerms"` // "MON YYYY" labels
	ApplicationDeadline   *time.Time                  `json:"applicationDeadline"`
	ScholarshipsAvailable bool                        `json:"scholarshipsAvailable"`
	CourseURL             string                      `gorm:"type:varchar(512)" json:"courseUrl"`
	AvgSalary             string                      `gorm:"type:varchar(100)" json:"avgSalary"`
	ImageURL              string                      `gorm:"type:varchar(512)" json:"imageUrl"`
	CreatedAt             time.Time                   `json:"createdAt"`
	UpdatedAt             time.Time                   `json:"updatedAt"`

	// University is populated on reads when the reference resolves. There is
	// no database-level constraint: deleting a University leaves its courses
	// in place with a dangling id, and this field serializes as null.
	University *University `gorm:"foreignKey:UniversityID;references:ID;constraint:-" json:"university"`
}
