package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/GoSim-25-26J-441/dup-analysis-backend/config"
	adomain "github.com/GoSim-25-26J-441/dup-analysis-backend/internal/analysis/domain"
	"github.com/GoSim-25-26J-441/dup-analysis-backend/internal/bootstrap"
)

// snapshot is the on-disk shape produced by the project provider.
type snapshot struct {
	OwnerID  string                 `json:"owner_id"`
	Projects []adomain.ProjectInput `json:"projects"`
}

func main() {
	input := flag.String("input", "", "path to a project snapshot JSON file")
	flag.Parse()

	if *input == "" {
		log.Fatal("usage: worker -input <snapshot.json>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	analyzer, cleanup, err := bootstrap.BuildAnalyzer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to build analyzer: %v", err)
	}
	defer cleanup()

	data, err := os.ReadFile(*input)
	if err != nil {
		log.Fatalf("Failed to read snapshot: %v", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Fatalf("Failed to parse snapshot: %v", err)
	}

	result, err := analyzer.AnalyzeProjects(ctx, snap.OwnerID, snap.Projects)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	log.Printf("Analysis %s: files=%d patterns=%d duplicate_groups=%d duration_ms=%d",
		result.ID, result.FilesAnalyzed, result.PatternsFound, result.DuplicatesDetected, result.ProcessingTimeMs)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
	os.Stdout.Write(out)
	os.Stdout.Write([]byte("\n"))
}
