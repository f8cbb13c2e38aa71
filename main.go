package main

import (
	"log"
	"os"

	"LocalCanvas/internal/config"
	"LocalCanvas/internal/surface"
	"LocalCanvas/internal/ui"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var path string
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	s := surface.New(cfg)
	log.Printf("Starting session %s", s.ID())
	ui.RunApp(s)
}
