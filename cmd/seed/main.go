// Command seed performs the one-shot import of the provider's exports into
// the portal database. It takes no flags: it reads universities.json and
// courses.json from the working directory (either may be absent, not both),
// prints a summary of counts, and exits non-zero only on errors that are
// not scoped to a single record.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/studyabroad-hub/api/database"
	"github.com/studyabroad-hub/api/importer"
	"gorm.io/gorm"
)

const (
	universitiesFile = "universities.json"
	coursesFile      = "courses.json"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	store, err := database.StartGORM()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatalf("Failed to initialize database tables: %v", err)
	}

	db := store.GetDB().(*gorm.DB)

	release, err := importer.AcquireRunLock(db)
	if err != nil {
		log.Fatalf("Cannot start import: %v", err)
	}
	defer release()

	ctx := context.Background()

	haveUniversities := fileExists(universitiesFile)
	haveCourses := fileExists(coursesFile)
	if !haveUniversities && !haveCourses {
		log.Fatalf("Nothing to import: neither %s nor %s found in the working directory", universitiesFile, coursesFile)
	}

	// Universities first: the course importer skips records whose
	// university is not in the database yet.
	if haveUniversities {
		var records []importer.SourceUniversity
		if err := readJSON(universitiesFile, &records); err != nil {
			log.Fatalf("Failed to read %s: %v", universitiesFile, err)
		}
		fmt.Printf("Found %d universities in %s.\n", len(records), universitiesFile)

		report, err := importer.NewUniversityImporter(db).Run(ctx, records)
		if err != nil {
			log.Fatalf("University import aborted: %v", err)
		}
		printUniversityReport(report)
	} else {
		fmt.Printf("%s not found, skipping university import.\n", universitiesFile)
	}

	if haveCourses {
		var records []importer.SourceCourse
		if err := readJSON(coursesFile, &records); err != nil {
			log.Fatalf("Failed to read %s: %v", coursesFile, err)
		}
		fmt.Printf("Found %d raw courses in %s.\n", len(records), coursesFile)

		report, err := importer.NewCourseImporter(db).Run(ctx, records)
		if err != nil {
			log.Fatalf("Course import aborted: %v", err)
		}
		printCourseReport(report)
	} else {
		fmt.Printf("%s not found, skipping course import.\n", coursesFile)
	}

	fmt.Println("Import complete.")
}

func fileExists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

func readJSON(name string, v interface{}) error {
	data, err := os.ReadFile(name)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func printUniversityReport(r *importer.UniversityReport) {
	fmt.Println("University import complete.")
	fmt.Printf("   Inserted:           %d\n", r.Inserted)
	fmt.Printf("   Skipped duplicate:  %d\n", r.SkippedDuplicate)
	fmt.Printf("   Failed:             %d\n", r.Failed)
}

func printCourseReport(r *importer.CourseReport) {
	fmt.Println("Course import complete.")
	fmt.Printf("   Inserted:           %d\n", r.Inserted)
	fmt.Printf("   Skipped inactive:   %d\n", r.SkippedInactive)
	fmt.Printf("   Skipped low detail: %d\n", r.SkippedLowDetail)
	fmt.Printf("   Skipped no uni:     %d\n", r.SkippedNoUniversity)
	fmt.Printf("   Skipped duplicate:  %d\n", r.SkippedDuplicate)
	fmt.Printf("   Failed:             %d\n", r.Failed)
}
