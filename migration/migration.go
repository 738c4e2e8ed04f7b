// Package migration replays a document-store export into the portal
// database. Every document is upserted by its id, so replaying the same
// export is idempotent: existing rows are updated in place, missing ones
// inserted. Used when moving data between hosting environments.
package migration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/studyabroad-hub/api/model"
	"gorm.io/gorm"
)

// Document is one exported document: the original id plus its body.
type Document struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

// Export maps collection names to their documents.
type Export map[string][]Document

// Report tallies one collection's sync.
type Report struct {
	Inserted int
	Updated  int
	Failed   int
}

func (r *Report) String() string {
	return fmt.Sprintf("inserted=%d updated=%d failed=%d", r.Inserted, r.Updated, r.Failed)
}

// Run upserts every known collection of the export. Unknown collections are
// skipped with a warning; per-document errors are counted, not fatal.
func Run(ctx context.Context, db *gorm.DB, export Export) (map[string]*Report, error) {
	reports := make(map[string]*Report)

	for collection, docs := range export {
		report := &Report{}
		var err error

		switch collection {
		case "universities":
			err = syncCollection(ctx, db, docs, report, func(id string, data json.RawMessage) (interface{}, string, error) {
				var row model.University
				if err := json.Unmarshal(data, &row); err != nil {
					return nil, "", err
				}
				row.ID = id
				return &row, id, nil
			})
		case "courses":
			err = syncCollection(ctx, db, docs, report, func(id string, data json.RawMessage) (interface{}, string, error) {
				var row model.Course
				if err := json.Unmarshal(data, &row); err != nil {
					return nil, "", err
				}
				row.ID = id
				row.University = nil
				return &row, id, nil
			})
		case "scholarships":
			err = syncCollection(ctx, db, docs, report, func(id string, data json.RawMessage) (interface{}, string, error) {
				var row model.Scholarship
				if err := json.Unmarshal(data, &row); err != nil {
					return nil, "", err
				}
				row.ID = id
				return &row, id, nil
			})
		case "inquiries":
			err = syncCollection(ctx, db, docs, report, func(id string, data json.RawMessage) (interface{}, string, error) {
				var row model.Inquiry
				if err := json.Unmarshal(data, &row); err != nil {
					return nil, "", err
				}
				row.ID = id
				return &row, id, nil
			})
		case "users":
			err = syncUsers(ctx, db, docs, report)
		default:
			log.Printf("migration: unknown collection %q, skipping", collection)
			continue
		}

		if err != nil {
			return reports, err
		}
		reports[collection] = report
	}

	return reports, nil
}

// syncCollection upserts documents whose primary key is the document id.
// decode turns the raw body into a model row and returns the key to match.
func syncCollection(
	ctx context.Context,
	db *gorm.DB,
	docs []Document,
	report *Report,
	decode func(id string, data json.RawMessage) (interface{}, string, error),
) error {
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if doc.ID == "" {
			report.Failed++
			continue
		}

		row, id, err := decode(doc.ID, doc.Data)
		if err != nil {
			log.Printf("migration: decoding document %s failed: %v", doc.ID, err)
			report.Failed++
			continue
		}

		// Select("*") forces zero values through: a replay that clears a
		// flag or empties a string must win over the stored row. Created
		// timestamps are not part of the document and stay untouched.
		res := db.WithContext(ctx).Model(row).Where("id = ?", id).
			Select("*").Omit("created_at").Updates(row)
		if res.Error != nil {
			log.Printf("migration: updating document %s failed: %v", doc.ID, res.Error)
			report.Failed++
			continue
		}
		if res.RowsAffected > 0 {
			report.Updated++
			continue
		}

		if err := db.WithContext(ctx).Create(row).Error; err != nil {
			log.Printf("migration: inserting document %s failed: %v", doc.ID, err)
			report.Failed++
			continue
		}
		report.Inserted++
	}
	return nil
}

// syncUsers upserts user documents by the provider UID the export keys
// them with; the local numeric id is assigned on insert.
func syncUsers(ctx context.Context, db *gorm.DB, docs []Document, report *Report) error {
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if doc.ID == "" {
			report.Failed++
			continue
		}

		var row model.User
		if err := json.Unmarshal(doc.Data, &row); err != nil {
			log.Printf("migration: decoding user %s failed: %v", doc.ID, err)
			report.Failed++
			continue
		}
		row.ProviderUID = doc.ID

		var existing model.User
		err := db.WithContext(ctx).Where("provider_uid = ?", doc.ID).First(&existing).Error
		switch {
		case err == nil:
			row.ID = existing.ID
			if err := db.WithContext(ctx).Model(&existing).
				Select("*").Omit("created_at", "deleted_at").Updates(&row).Error; err != nil {
				log.Printf("migration: updating user %s failed: %v", doc.ID, err)
				report.Failed++
				continue
			}
			report.Updated++
		case errors.Is(err, gorm.ErrRecordNotFound):
			row.ID = 0
			if err := db.WithContext(ctx).Create(&row).Error; err != nil {
				log.Printf("migration: inserting user %s failed: %v", doc.ID, err)
				report.Failed++
				continue
			}
			report.Inserted++
		default:
			log.Printf("migration: looking up user %s failed: %v", doc.ID, err)
			report.Failed++
		}
	}
	return nil
}
