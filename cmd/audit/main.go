// Command audit runs the compliance audit pipeline for a single video and
// prints the resulting record as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/vigil-audit/vigil/internal/config"
	"github.com/vigil-audit/vigil/internal/infrastructure"
	"github.com/vigil-audit/vigil/internal/workflow"
)

func main() {
	url := flag.String("url", "", "video URL to audit")
	id := flag.String("id", "", "video identifier (generated when omitted)")
	flag.Parse()

	if *url == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed:", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		log.Fatal("init failed:", err)
	}

	rt := &workflow.Runtime{
		Extraction: infra.Extraction,
		Auditor:    infra.Auditor,
		Logger:     infra.Logger,
	}

	record, err := workflow.Execute(context.Background(), rt, workflow.Request{
		VideoURL: *url,
		VideoID:  *id,
	})
	if err != nil {
		log.Fatal("audit failed:", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(record); err != nil {
		log.Fatal("encode record:", err)
	}
}
