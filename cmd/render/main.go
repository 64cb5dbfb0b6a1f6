package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"ogre-mesh-renderer/internal/batch"
	"ogre-mesh-renderer/internal/config"
	"ogre-mesh-renderer/internal/texture"
	"ogre-mesh-renderer/internal/viewmatrix"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	testN := flag.Int("test", 0, "Render only first N meshes for testing")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	inputDir := flag.String("input", "", "Directory scanned for .mesh files (default: auto-detect media/models)")
	textureDir := flag.String("textures", "", "Texture directory (default: input directory)")
	skeletonDir := flag.String("skeletons", "", "Skeleton directory (default: input directory)")
	outputDir := flag.String("output", "", "Output directory (default: <input>/renders)")
	size := flag.Int("size", 0, "Output image size in pixels (default: 256)")
	supersample := flag.Int("supersample", 0, "Render at N times the size, then downscale (default: 2)")
	lod := flag.Int("lod", 0, "Generated LOD level to draw")
	yaw := flag.Float64("yaw", 0, "Camera yaw in degrees")
	pitch := flag.Float64("pitch", 0, "Camera pitch in degrees")
	perspective := flag.Bool("perspective", false, "Use a perspective camera")
	fov := flag.Float64("fov", 0, "Perspective field of view in degrees (default: 30)")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()
	config.SetupLogging(nil, *verbose)

	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	flags := config.Flags{
		InputDir:    *inputDir,
		TextureDir:  *textureDir,
		SkeletonDir: *skeletonDir,
		OutputDir:   *outputDir,
		Workers:     *workers,
		Size:        *size,
		Supersample: *supersample,
		LOD:         *lod,
	}
	// Zero angles and false are meaningful, so only flags given on the command
	// line count.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "yaw":
			v := float32(*yaw)
			flags.Yaw = &v
		case "pitch":
			v := float32(*pitch)
			flags.Pitch = &v
		case "fov":
			v := float32(*fov)
			flags.FOV = &v
		case "perspective":
			flags.Perspective = perspective
		}
	})
	cfg.Resolve(flags)

	if cfg.InputDir == "" {
		fmt.Fprintln(os.Stderr, "Error: cannot find media/models. Use -input flag or config.json.")
		os.Exit(1)
	}

	jobs, err := batch.Scan(cfg.InputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *testN > 0 && *testN < len(jobs) {
		jobs = jobs[:*testN]
	}
	if len(jobs) == 0 {
		fmt.Println("No meshes to render.")
		os.Exit(0)
	}

	texIndex := texture.BuildIndex(cfg.TextureDir)
	texCache := texture.NewCache(texIndex)
	fmt.Printf("Textures: %d indexed\n", texIndex.Len())

	mode := ""
	if *testN > 0 {
		mode = fmt.Sprintf(" (TEST: first %d)", *testN)
	}
	fmt.Printf("Mesh renderer → WebP%s\n", mode)
	fmt.Printf("Meshes: %d, Workers: %d\n", len(jobs), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results := batch.Run(batch.Config{
		OutputDir:   cfg.OutputDir,
		SkeletonDir: cfg.SkeletonDir,
		TexResolver: texCache,
		Camera: viewmatrix.Camera{
			Yaw:         cfg.Yaw,
			Pitch:       cfg.Pitch,
			Perspective: cfg.Perspective,
			FOV:         cfg.FOV,
		},
		LOD:         cfg.LOD,
		RenderSize:  cfg.RenderSize,
		Supersample: cfg.Supersample,
		Workers:     cfg.Workers,
		Progress:    2 * time.Second,
	}, jobs)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	var failures []batch.Result
	for _, r := range results {
		if !r.Success {
			failures = append(failures, r)
		}
	}
	fmt.Printf("Rendered: %d/%d\n", len(results)-len(failures), len(jobs))

	if len(failures) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failures))
		for _, f := range failures[:min(len(failures), 20)] {
			fmt.Printf("  %s: %s\n", f.Job.Name, f.Error)
		}
	}

	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		log.Warn().Err(err).Msg("render: output directory")
	}
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		log.Warn().Err(err).Msg("render: manifest write failed")
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if len(failures) > 0 {
		os.Exit(1)
	}
}
