package importer

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/studyabroad-hub/api/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CourseReport tallies the outcome of a course import run.
type CourseReport struct {
	Inserted            int
	SkippedInactive     int
	SkippedLowDetail    int
	SkippedNoUniversity int
	SkippedDuplicate    int
	Failed              int
}

func (r *CourseReport) String() string {
	return fmt.Sprintf(
		"inserted=%d skippedInactive=%d skippedLowDetail=%d skippedNoUniversity=%d skippedDuplicate=%d failed=%d",
		r.Inserted, r.SkippedInactive, r.SkippedLowDetail, r.SkippedNoUniversity, r.SkippedDuplicate, r.Failed,
	)
}

// CourseImporter writes normalized Course documents from provider records.
type CourseImporter struct {
	db *gorm.DB
}

// NewCourseImporter creates a new course importer
func NewCourseImporter(db *gorm.DB) *CourseImporter {
	return &CourseImporter{db: db}
}

// Run processes every record sequentially. A record that fails to
// transform or persist is counted and skipped; only context cancellation
// aborts the run.
func (im *CourseImporter) Run(ctx context.Context, records []SourceCourse) (*CourseReport, error) {
	report := &CourseReport{}
	for i := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		im.importOne(ctx, &records[i], report)
	}
	return report, nil
}

func (im *CourseImporter) importOne(ctx context.Context, c *SourceCourse, report *CourseReport) {
	if !isActive(c) {
		report.SkippedInactive++
		return
	}

	if !hasEnoughDetails(c) {
		report.SkippedLowDetail++
		return
	}

	uniID := string(c.UniversityID)

	// Referential check: only courses of universities we list.
	var uni model.University
	err := im.db.WithContext(ctx).First(&uni, "id = ?", uniID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		report.SkippedNoUniversity++
		return
	}
	if err != nil {
		log.Printf("importer: university lookup %s failed: %v", uniID, err)
		report.Failed++
		return
	}

	courseID := string(c.CourseID)

	// Duplicate check by course id keeps re-runs idempotent.
	var existing model.Course
	err = im.db.WithContext(ctx).Select("id").First(&existing, "id = ?", courseID).Error
	if err == nil {
		report.SkippedDuplicate++
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("importer: course lookup %s failed: %v", courseID, err)
		report.Failed++
		return
	}

	doc := model.Course{
		ID:           courseID,
		Name:         c.CourseName,
		Description:  "",
		Field:        buildField(c),
		Level:        c.DegreeLevel,
		UniversityID: uniID,

		// The provider quotes every fee in GBP.
		Tuition:        *c.TuitionFee.AmountGBP,
		Currency:       "GBP",
		DurationMonths: int(c.DurationMonths),
		Mode:           "Full-time",

		IntakeTerms: datatypes.NewJSONSlice(buildIntakeTerms(c)),

		ScholarshipsAvailable: c.ScholarshipsAvailable,
		CourseURL:             c.CourseURL,

		ImageURL: fallbackImage(c.ImageURL, uni.ImageURL),
	}

	if err := im.db.WithContext(ctx).Create(&doc).Error; err != nil {
		log.Printf("importer: insert course %s (%s) failed: %v", courseID, c.CourseName, err)
		report.Failed++
		return
	}
	report.Inserted++
}

// fallbackImage: course image, else the university's, else empty.
func fallbackImage(courseImage, universityImage string) string {
	if courseImage != "" {
		return courseImage
	}
	return universityImage
}
