package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"terraingen/config"
	"terraingen/sim"
	"terraingen/terrain"
)

func main() {
	runtime.LockOSThread()

	var (
		configPath = flag.String("config", "settings.json", "Settings file path")
		points     = flag.Int("points", 0, "Number of voronoi sites (0 = settings value)")
		seed       = flag.Uint64("seed", 0, "Generation seed (0 = settings value)")
		erosion    = flag.Int("erosion", -1, "Erosion passes (-1 = settings value)")
		agents     = flag.Int("agents", -1, "Border simulation agents (-1 = settings value)")
		serve      = flag.Bool("serve", false, "Serve the mesh over websocket")
		view       = flag.Bool("view", false, "Open the native viewer")
		outPath    = flag.String("out", "", "Write mesh JSON to a file and exit")
	)
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if *points > 0 {
		settings.Generator.Points = *points
	}
	if *seed > 0 {
		settings.Generator.Seed = *seed
	}
	if *erosion >= 0 {
		settings.Generator.ErosionPasses = *erosion
	}
	if *agents >= 0 {
		settings.Generator.Agents = *agents
	}

	fmt.Println("=== Voronoi Terrain Generator ===")
	fmt.Printf("Points: %d, Seed: %d\n", settings.Generator.Points, settings.Generator.Seed)
	fmt.Printf("Noise: frequency %.2f, %d octaves, falloff %.2f, sea level %.2f\n",
		settings.Generator.Frequency, settings.Generator.Octaves,
		settings.Generator.Falloff, settings.Generator.SeaLevel)
	fmt.Printf("Shaping: %d relaxation passes, %d erosion passes, lakes=%v\n",
		settings.Generator.Relaxation, settings.Generator.ErosionPasses, settings.Generator.Lakes)

	start := time.Now()
	mesh, err := buildMesh(settings.Generator)
	if err != nil {
		log.Fatalf("Mesh generation failed: %v", err)
	}

	land, water := 0, 0
	for _, cell := range mesh.Cells {
		if cell.Elevation < mesh.SeaLevel {
			water++
		} else {
			land++
		}
	}
	fmt.Printf("Mesh built in %.3fs: %d cells (%d land, %d water), %d vertices, %d lakes\n",
		time.Since(start).Seconds(), len(mesh.Cells), land, water, len(mesh.Vertices), len(mesh.Lakes))

	var world *sim.World
	if settings.Generator.Agents > 0 {
		world, err = sim.NewWorld(mesh, settings.Generator.Agents, settings.Generator.Seed)
		if err != nil {
			log.Fatalf("Failed to start border simulation: %v", err)
		}
		fmt.Printf("Border simulation: %d agents\n", settings.Generator.Agents)
	}

	if *outPath != "" {
		data, err := json.MarshalIndent(createMeshData(mesh, world, settings.Generator.Seed), "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode mesh: %v", err)
		}
		if err := os.WriteFile(*outPath, data, 0o644); err != nil {
			log.Fatalf("Failed to write %s: %v", *outPath, err)
		}
		fmt.Printf("Mesh written to %s\n", *outPath)
		return
	}

	switch {
	case *serve:
		startServer(*configPath, settings, mesh, world)
	case *view:
		runViewer(settings.Viewer, mesh, world)
	default:
		fmt.Println("Nothing else to do (use -serve, -view or -out)")
	}
}

func buildMesh(g config.GeneratorSettings) (*terrain.Mesh, error) {
	cfg := terrain.NoiseConfig{
		Frequency: g.Frequency,
		Octaves:   g.Octaves,
		Falloff:   g.Falloff,
		SeaLevel:  g.SeaLevel,
	}
	opts := terrain.GenerateOptions{
		Relaxation:    g.Relaxation,
		ErosionPasses: g.ErosionPasses,
		FillSinks:     g.FillSinks,
		Lakes:         g.Lakes,
	}
	return terrain.Generate(g.Points, g.Seed, cfg, opts)
}
