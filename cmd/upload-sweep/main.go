// Removes passport photos left in the upload directory by interrupted requests.
// cmd/upload-sweep/main.go
package main

import (
	"flag"
	"log"
	"time"

	"volunteer-intake-api/config"
	"volunteer-intake-api/utils"
)

func main() {
	olderThan := flag.Duration("older-than", time.Hour, "only remove photos last modified before this age")
	flag.Parse()

	log.Println("🗂  Sweeping stale volunteer uploads...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	removed, err := utils.SweepStaleUploads(cfg.Server.UploadDir, *olderThan, time.Now())
	for _, path := range removed {
		log.Printf("✅ removed %s", path)
	}
	if err != nil {
		log.Fatalf("completed with errors. removed: %d, error: %v", len(removed), err)
	}

	log.Printf("🎉 Removed %d stale upload(s) from %s", len(removed), cfg.Server.UploadDir)
}
