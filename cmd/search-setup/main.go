package main

import (
	"context"
	"flag"
	"log"

	"github.com/testsabirweb/slack_archive/internal/config"
	"github.com/testsabirweb/slack_archive/pkg/index"
)

func main() {
	var (
		reset = flag.Bool("reset", false, "Delete the existing index before creating the schema")
	)
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client, err := index.NewWeaviateClient(cfg.Weaviate.Scheme, cfg.Weaviate.Host, cfg.Weaviate.APIKey)
	if err != nil {
		log.Fatalf("Failed to create index client: %v", err)
	}

	ctx := context.Background()

	if err := client.HealthCheck(ctx); err != nil {
		log.Fatalf("Index is not reachable: %v", err)
	}
	log.Println("Index is reachable")

	if *reset {
		if err := client.DeleteIndex(ctx); err != nil {
			log.Printf("Delete failed (class may not exist yet): %v", err)
		} else {
			log.Printf("Deleted class %s", index.ClassName)
		}
	}

	if err := client.Initialize(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	log.Printf("Schema ready: class %s", index.ClassName)
}
