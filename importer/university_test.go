package importer

import (
	"context"
	"testing"

	"github.com/studyabroad-hub/api/model"
)

func TestUniversityImporterInsertsRecord(t *testing.T) {
	db := newTestDB(t)

	records := []SourceUniversity{{
		UniversityID:   "990",
		UniversityName: "University of Testshire",
		City:           "Testshire",
		State:          "West Midlands",
		Country:        "United Kingdom",
		ImageURL:       "https://img.example.com/990.jpg",
		Ranking:        &SourceRanking{QSRank: "42"},
	}}

	report, err := NewUniversityImporter(db).Run(context.Background(), records)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Inserted != 1 {
		t.Fatalf("report = %s, want 1 inserted", report)
	}

	var uni model.University
	if err := db.First(&uni, "id = ?", "990").Error; err != nil {
		t.Fatalf("loading inserted university: %v", err)
	}
	if uni.Name != "University of Testshire" {
		t.Errorf("Name = %q", uni.Name)
	}
	if uni.Location != "Testshire, West Midlands" {
		t.Errorf("Location = %q, want city and state joined", uni.Location)
	}
	if uni.Country != "United Kingdom" {
		t.Errorf("Country = %q", uni.Country)
	}
	if uni.Ranking != "42" {
		t.Errorf("Ranking = %q", uni.Ranking)
	}
	if uni.ImageURL != "https://img.example.com/990.jpg" {
		t.Errorf("ImageURL = %q", uni.ImageURL)
	}
}

func TestUniversityImporterIdempotentRerun(t *testing.T) {
	db := newTestDB(t)

	records := []SourceUniversity{
		{UniversityID: "990", UniversityName: "University of Testshire"},
		{UniversityID: "991", UniversityName: "Testshire Metropolitan"},
	}

	first, err := NewUniversityImporter(db).Run(context.Background(), records)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if first.Inserted != 2 {
		t.Fatalf("first report = %s, want 2 inserted", first)
	}

	second, err := NewUniversityImporter(db).Run(context.Background(), records)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if second.Inserted != 0 || second.SkippedDuplicate != 2 {
		t.Errorf("second report = %s, want 0 inserted, 2 skippedDuplicate", second)
	}
}

func TestUniversityImporterDeduplicatesByIDNotName(t *testing.T) {
	db := newTestDB(t)

	// Same display name under two provider ids: distinct campuses the
	// provider lists separately, so both are kept.
	records := []SourceUniversity{
		{UniversityID: "990", UniversityName: "University of Testshire"},
		{UniversityID: "991", UniversityName: "University of Testshire"},
		{UniversityID: "990", UniversityName: "University of Testshire (renamed)"},
	}

	report, err := NewUniversityImporter(db).Run(context.Background(), records)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Inserted != 2 || report.SkippedDuplicate != 1 {
		t.Errorf("report = %s, want 2 inserted, 1 skippedDuplicate", report)
	}

	// The re-seen id did not overwrite the original record.
	var uni model.University
	if err := db.First(&uni, "id = ?", "990").Error; err != nil {
		t.Fatalf("loading university: %v", err)
	}
	if uni.Name != "University of Testshire" {
		t.Errorf("Name = %q, first write should win", uni.Name)
	}
}

func TestUniversityImporterCountsBadRecords(t *testing.T) {
	db := newTestDB(t)

	records := []SourceUniversity{
		{UniversityID: "", UniversityName: "No id"},
		{UniversityID: "992", UniversityName: ""},
		{UniversityID: "993", UniversityName: "Fine"},
	}

	report, err := NewUniversityImporter(db).Run(context.Background(), records)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Failed != 2 || report.Inserted != 1 {
		t.Errorf("report = %s, want 2 failed, 1 inserted", report)
	}
}

func TestBuildLocation(t *testing.T) {
	tests := []struct {
		city, state, want string
	}{
		{"Testshire", "West Midlands", "Testshire, West Midlands"},
		{"Testshire", "", "Testshire"},
		{"", "West Midlands", "West Midlands"},
		{"", "", ""},
	}
	for _, tt := range tests {
		if got := buildLocation(tt.city, tt.state); got != tt.want {
			t.Errorf("buildLocation(%q, %q) = %q, want %q", tt.city, tt.state, got, tt.want)
		}
	}
}
