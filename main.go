package main

import (
	"log"
	"os"

	"LocalSketch/internal/config"
	"LocalSketch/internal/ui"
)

func main() {
	path := config.Path(os.Args[1:])
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if path != "" {
		log.Printf("Loaded configuration from %s", path)
	}

	if err := ui.RunApp(cfg); err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
}
