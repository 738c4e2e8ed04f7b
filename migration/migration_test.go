package migration

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/studyabroad-hub/api/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.University{}, &model.Course{}, &model.Scholarship{}, &model.Inquiry{}); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

func TestRunInsertsThenUpdates(t *testing.T) {
	db := newTestDB(t)

	export := Export{
		"universities": []Document{
			{ID: "990", Data: json.RawMessage(`{"name": "University of Testshire", "country": "United Kingdom"}`)},
		},
		"courses": []Document{
			{ID: "c-1", Data: json.RawMessage(`{"name": "MSc Data Science", "universityId": "990", "tuition": 24500, "currency": "GBP"}`)},
		},
	}

	reports, err := Run(context.Background(), db, export)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if r := reports["universities"]; r.Inserted != 1 || r.Updated != 0 {
		t.Errorf("universities report = %s, want 1 inserted", r)
	}
	if r := reports["courses"]; r.Inserted != 1 || r.Updated != 0 {
		t.Errorf("courses report = %s, want 1 inserted", r)
	}

	// Replay with a changed name: rows are updated in place, never duplicated.
	export["universities"][0].Data = json.RawMessage(`{"name": "University of Testshire (merged)", "country": "United Kingdom"}`)

	reports, err = Run(context.Background(), db, export)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if r := reports["universities"]; r.Inserted != 0 || r.Updated != 1 {
		t.Errorf("universities report = %s, want 1 updated", r)
	}
	if r := reports["courses"]; r.Inserted != 0 || r.Updated != 1 {
		t.Errorf("courses report = %s, want 1 updated", r)
	}

	var count int64
	db.Model(&model.University{}).Count(&count)
	if count != 1 {
		t.Fatalf("university count = %d after replay, want 1", count)
	}
	var uni model.University
	if err := db.First(&uni, "id = ?", "990").Error; err != nil {
		t.Fatalf("loading university: %v", err)
	}
	if uni.Name != "University of Testshire (merged)" {
		t.Errorf("Name = %q, want updated value", uni.Name)
	}
}

func TestRunAppliesClearedFieldsOnReplay(t *testing.T) {
	db := newTestDB(t)

	uni := model.University{
		ID:                    "990",
		Name:                  "University of Testshire",
		Description:           "old text",
		ScholarshipsAvailable: true,
	}
	if err := db.Create(&uni).Error; err != nil {
		t.Fatalf("seeding university: %v", err)
	}

	// The export is the source of truth: a document that zeroes a flag or
	// empties a string must overwrite the stored value, not leave it behind.
	export := Export{
		"universities": []Document{
			{ID: "990", Data: json.RawMessage(`{"name": "University of Testshire", "description": "", "scholarshipsAvailable": false}`)},
		},
	}

	reports, err := Run(context.Background(), db, export)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if r := reports["universities"]; r.Inserted != 0 || r.Updated != 1 {
		t.Fatalf("report = %s, want 1 updated", r)
	}

	var got model.University
	if err := db.First(&got, "id = ?", "990").Error; err != nil {
		t.Fatalf("loading university: %v", err)
	}
	if got.ScholarshipsAvailable {
		t.Error("ScholarshipsAvailable = true, want cleared")
	}
	if got.Description != "" {
		t.Errorf("Description = %q, want cleared", got.Description)
	}
	if !got.CreatedAt.Equal(uni.CreatedAt) {
		t.Errorf("CreatedAt changed on replay: %v -> %v", uni.CreatedAt, got.CreatedAt)
	}
}

func TestRunUpsertsUsersByProviderUID(t *testing.T) {
	db := newTestDB(t)

	export := Export{
		"users": []Document{
			{ID: "uid-123", Data: json.RawMessage(`{"email": "pat@example.com", "name": "Pat"}`)},
		},
	}

	reports, err := Run(context.Background(), db, export)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if r := reports["users"]; r.Inserted != 1 {
		t.Errorf("users report = %s, want 1 inserted", r)
	}

	export["users"][0].Data = json.RawMessage(`{"email": "pat@example.com", "name": "Pat Example"}`)

	reports, err = Run(context.Background(), db, export)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if r := reports["users"]; r.Inserted != 0 || r.Updated != 1 {
		t.Errorf("users report = %s, want 1 updated", r)
	}

	var user model.User
	if err := db.Where("provider_uid = ?", "uid-123").First(&user).Error; err != nil {
		t.Fatalf("loading user: %v", err)
	}
	if user.Name != "Pat Example" {
		t.Errorf("Name = %q, want updated value", user.Name)
	}
	var count int64
	db.Model(&model.User{}).Count(&count)
	if count != 1 {
		t.Errorf("user count = %d, want 1", count)
	}
}

func TestRunSkipsUnknownCollectionsAndBadDocuments(t *testing.T) {
	db := newTestDB(t)

	export := Export{
		"inquirys_typo": []Document{
			{ID: "x", Data: json.RawMessage(`{}`)},
		},
		"universities": []Document{
			{ID: "", Data: json.RawMessage(`{"name": "No id"}`)},
			{ID: "990", Data: json.RawMessage(`not json`)},
			{ID: "991", Data: json.RawMessage(`{"name": "Fine"}`)},
		},
	}

	reports, err := Run(context.Background(), db, export)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ok := reports["inquirys_typo"]; ok {
		t.Error("unknown collection produced a report")
	}
	if r := reports["universities"]; r.Inserted != 1 || r.Failed != 2 {
		t.Errorf("universities report = %s, want 1 inserted, 2 failed", r)
	}
}
