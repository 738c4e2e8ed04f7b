// Command migrate replays a document-store export (export.json in the
// working directory) into the portal database, upserting every document by
// id. Exits non-zero on any error that is not scoped to a single document.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/joho/godotenv"
	"github.com/studyabroad-hub/api/database"
	"github.com/studyabroad-hub/api/migration"
	"gorm.io/gorm"
)

const exportFile = "export.json"

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

	data, err := os.ReadFile(exportFile)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", exportFile, err)
	}

	var export migration.Export
	if err := json.Unmarshal(data, &export); err != nil {
		log.Fatalf("Failed to parse %s: %v", exportFile, err)
	}

	db := store.GetDB().(*gorm.DB)

	reports, err := migration.Run(context.Background(), db, export)
	if err != nil {
		log.Fatalf("Migration aborted: %v", err)
	}

	names := make([]string, 0, len(reports))
	for name := range reports {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("%-14s %s\n", name+":", reports[name])
	}
	fmt.Println("Migration complete.")
}
