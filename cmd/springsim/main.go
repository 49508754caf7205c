package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"springsim/internal/game"
	"springsim/internal/physics"
	"springsim/internal/world"
)

type Config struct {
	SceneFile string
	Width     int
	Height    int
	Substeps  int
	FPS       int
	Mute      bool
	Pairing   string
}

func parseFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.SceneFile, "scene", "", "JSON scene file to load (default: the built-in square)")
	flag.IntVar(&cfg.Width, "width", 600, "arena width for the built-in scene")
	flag.IntVar(&cfg.Height, "height", 600, "arena height for the built-in scene")
	flag.IntVar(&cfg.Substeps, "substeps", 4, "physics updates per frame")
	flag.IntVar(&cfg.FPS, "fps", 60, "target frames per second")
	flag.BoolVar(&cfg.Mute, "mute", false, "start with impact sounds muted")
	flag.StringVar(&cfg.Pairing, "pairing", "", "collision pairing: once or reference (default: from the scene)")
	flag.Parse()
	return cfg
}

func load(cfg Config) (*world.World, error) {
	if cfg.SceneFile != "" {
		return world.Load(cfg.SceneFile)
	}
	scene := world.DefaultScene()
	scene.Width = cfg.Width
	scene.Height = cfg.Height
	env, err := scene.Build()
	if err != nil {
		return nil, err
	}
	return world.New(scene.Name, env), nil
}

func main() {
	cfg := parseFlags()

	if cfg.Substeps < 1 {
		fmt.Fprintf(os.Stderr, "invalid -substeps %d: must be at least 1\n", cfg.Substeps)
		os.Exit(2)
	}

	w, err := load(cfg)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}

	if cfg.Pairing != "" {
		p, err := physics.ParsePairing(cfg.Pairing)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -pairing: %v\n", err)
			os.Exit(2)
		}
		w.Env.SetPairing(p)
	}

	g := game.New(w, game.Config{
		FPS:      cfg.FPS,
		Substeps: cfg.Substeps,
		Muted:    cfg.Mute,
	})
	g.Run()
}
