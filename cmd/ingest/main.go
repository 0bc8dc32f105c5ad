// Command ingest loads an exercise CSV dump into the catalog collection.
//
// Usage:
//
//	ingest -file data/exercises.csv
//	ingest -s3 -file exports/exercises.csv
//
// With -s3 the file argument is treated as an object key in the bucket
// configured under the s3 section of the config.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"nutrix/workout-engine/internal/config"
	"nutrix/workout-engine/internal/ingest"
	"nutrix/workout-engine/internal/repository/mongo"
	"nutrix/workout-engine/internal/storage"
)

func main() {
	filePath := flag.String("file", "", "path or object key of the exercise CSV")
	fromS3 := flag.Bool("s3", false, "read the file from the configured S3 bucket")
	configPath := flag.String("config", ".", "directory containing config.yaml")
	flag.Parse()

	if *filePath == "" {
		log.Fatal("FATAL: -file is required")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var source storage.CatalogSource
	if *fromS3 {
		source, err = storage.NewS3Source(cfg.S3)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 source: %v", err)
		}
	} else {
		source = storage.NewLocalSource()
	}

	reader, err := source.Open(ctx, *filePath)
	if err != nil {
		log.Fatalf("FATAL: Could not open %s: %v", *filePath, err)
	}
	defer reader.Close()

	records, err := ingest.ReadRecords(reader, time.Now().UTC())
	if err != nil {
		log.Fatalf("FATAL: Failed to parse CSV: %v", err)
	}
	log.Printf("Parsed %d exercise records from %s", len(records), *filePath)

	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	catalog := mongo.NewMongoExerciseCatalog(appDB)
	upserted, err := catalog.BulkUpsert(ctx, records)
	if err != nil {
		log.Fatalf("FATAL: Bulk upsert failed: %v", err)
	}

	mongo.EnsureExerciseIndexes(ctx, appDB.Collection("exercises"))
	log.Printf("Ingest complete: %d records written", upserted)
}
