package importer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/studyabroad-hub/api/model"
	"gorm.io/gorm"
)

// UniversityReport tallies the outcome of a university import run.
type UniversityReport struct {
	Inserted         int
	SkippedDuplicate int
	Failed           int
}

func (r *UniversityReport) String() string {
	return fmt.Sprintf("inserted=%d skippedDuplicate=%d failed=%d",
		r.Inserted, r.SkippedDuplicate, r.Failed)
}

// UniversityImporter loads provider university records, keyed by the
// provider-supplied id. Duplicate detection is by id, the same idempotency
// key the course importer uses.
type UniversityImporter struct {
	db *gorm.DB
}

// NewUniversityImporter creates a new university importer
func NewUniversityImporter(db *gorm.DB) *UniversityImporter {
	return &UniversityImporter{db: db}
}

// Run processes every record sequentially, counting per-record failures
// instead of aborting.
func (im *UniversityImporter) Run(ctx context.Context, records []SourceUniversity) (*UniversityReport, error) {
	report := &UniversityReport{}
	for i := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		im.importOne(ctx, &records[i], report)
	}
	return report, nil
}

func (im *UniversityImporter) importOne(ctx context.Context, u *SourceUniversity, report *UniversityReport) {
	id := string(u.UniversityID)
	if id == "" || u.UniversityName == "" {
		log.Printf("importer: university record missing id or name (id=%q name=%q)", id, u.UniversityName)
		report.Failed++
		return
	}

	var existing model.University
	err := im.db.WithContext(ctx).Select("id").First(&existing, "id = ?", id).Error
	if err == nil {
		report.SkippedDuplicate++
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("importer: university lookup %s failed: %v", id, err)
		report.Failed++
		return
	}

	doc := model.University{
		ID:       id,
		Name:     u.UniversityName,
		Location: buildLocation(u.City, u.State),
		Country:  u.Country,
		ImageURL: u.ImageURL,
		Ranking:  buildRanking(u.Ranking),
	}

	if err := im.db.WithContext(ctx).Create(&doc).Error; err != nil {
		log.Printf("importer: insert university %s (%s) failed: %v", id, u.UniversityName, err)
		report.Failed++
		return
	}
	report.Inserted++
}

// buildLocation joins the non-empty parts: "City, State", "City", or "".
func buildLocation(city, state string) string {
	parts := make([]string, 0, 2)
	if city != "" {
		parts = append(parts, city)
	}
	if state != "" {
		parts = append(parts, state)
	}
	return strings.Join(parts, ", ")
}

func buildRanking(r *SourceRanking) string {
	if r == nil {
		return ""
	}
	return string(r.QSRank)
}
