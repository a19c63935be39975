package main

import (
	"flag"
	"log"
	"os"

	"whatsapp-crm/internal/config"
	"whatsapp-crm/internal/contacts"
	"whatsapp-crm/internal/database"
)

// Imports a contacts CSV from the command line, using the same pipeline as
// the API endpoint. Useful for seeding and for large one-off migrations.
func main() {
	filePath := flag.String("file", "", "path to the contacts CSV")
	orgID := flag.String("org", "default", "organization id")
	mode := flag.String("mode", "skip", "duplicate handling: skip or update")
	tags := flag.String("tags", "", "comma-separated tags applied to every row")
	flag.Parse()

	if *filePath == "" {
		log.Fatal("usage: import_contacts -file contacts.csv [-org ID] [-mode skip|update] [-tags a,b]")
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *filePath, err)
	}

	cfg := config.LoadConfig()
	database.InitDB(cfg)

	importer := contacts.NewImporter(contacts.NewGormStore(database.DB))
	result, err := importer.Import(*orgID, string(data), contacts.DuplicateMode(*mode), contacts.SplitTags(*tags))
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Printf("Import finished: total=%d created=%d updated=%d skipped=%d failed=%d",
		result.Total, result.Created, result.Updated, result.Skipped, result.Failed)
	for _, e := range result.Errors {
		log.Printf("  row %d (%s): %s", e.Row, e.Phone, e.Error)
	}
	if result.Failed > len(result.Errors) {
		log.Printf("  ... and %d more failures not listed", result.Failed-len(result.Errors))
	}
}
