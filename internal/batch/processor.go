package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/HugoSmits86/nativewebp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ogre-mesh-renderer/internal/hwbuf"
	"ogre-mesh-renderer/internal/mesh"
	"ogre-mesh-renderer/internal/postprocess"
	"ogre-mesh-renderer/internal/raster"
	"ogre-mesh-renderer/internal/skeleton"
	"ogre-mesh-renderer/internal/texture"
	"ogre-mesh-renderer/internal/viewmatrix"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir   string
	SkeletonDir string // empty disables skeleton lookup
	TexResolver texture.Resolver
	Buffers     hwbuf.Manager // default manager when nil
	Camera      viewmatrix.Camera
	LOD         int
	RenderSize  int
	Supersample int
	Workers     int
	Logger      *zerolog.Logger // log.Logger when nil
	Progress    time.Duration   // progress report interval, 0 disables
}

// Job is one mesh file to render.
type Job struct {
	Path string // absolute or relative to the working directory
	Name string // path relative to the scanned directory, slash separated
}

// Result holds the outcome of processing one job.
type Result struct {
	Job     Job
	Image   string // output path relative to OutputDir
	Summary Summary
	Success bool
	Error   string
}

// Scan lists the .mesh files under dir in lexical order.
func Scan(dir string) ([]Job, error) {
	var jobs []Job
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".mesh") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		jobs = append(jobs, Job{Path: path, Name: filepath.ToSlash(rel)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch: scan %s: %w", dir, err)
	}
	slices.SortFunc(jobs, func(a, b Job) int { return strings.Compare(a.Name, b.Name) })
	return jobs, nil
}

// Run renders all jobs on a worker pool. Results are in job order.
func Run(cfg Config, jobs []Job) []Result {
	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	if cfg.Buffers == nil {
		cfg.Buffers = hwbuf.NewMemoryManager(hwbuf.WithLogger(logger))
	}

	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64
	start := time.Now()

	done := make(chan struct{})
	if cfg.Progress > 0 {
		go func() {
			ticker := time.NewTicker(cfg.Progress)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						rate := float64(p) / time.Since(start).Seconds()
						fmt.Printf("  [%d/%d] %.1f meshes/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	workers := max(cfg.Workers, 1)
	pool := worker.NewDynamicWorkerPool(workers, workers*2, time.Second)
	defer pool.Stop()

	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID:      i,
			Payload: job,
			Do: func() (any, error) {
				defer wg.Done()
				results[i] = processJob(cfg, job, logger)
				processed.Add(1)
				return nil, nil
			},
		})
	}
	wg.Wait()
	close(done)

	return results
}

func processJob(cfg Config, job Job, logger zerolog.Logger) Result {
	res := Result{Job: job}
	l := logger.With().Str("mesh", job.Name).Logger()

	m, err := mesh.Load(job.Path, mesh.WithLogger(l), mesh.WithBufferManager(cfg.Buffers))
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Summary = Summarize(m)

	if cfg.SkeletonDir != "" && m.SkeletonName != "" {
		path := filepath.Join(cfg.SkeletonDir, filepath.FromSlash(m.SkeletonName))
		s, err := skeleton.Load(path, skeleton.WithLogger(l))
		if err != nil {
			l.Warn().Err(err).Msg("batch: skeleton not loaded")
		} else {
			res.Summary.AddSkeleton(s)
		}
	}

	if res.Summary.Triangles == 0 {
		res.Error = "no triangles to draw"
		return res
	}

	img := raster.RenderMesh(m, raster.Options{
		Camera:      cfg.Camera,
		LOD:         cfg.LOD,
		Textures:    cfg.TexResolver,
		Size:        cfg.RenderSize,
		Supersample: cfg.Supersample,
	})
	img = postprocess.Downsample(img, cfg.Supersample)

	res.Image = strings.TrimSuffix(job.Name, filepath.Ext(job.Name)) + ".webp"
	outPath := filepath.Join(cfg.OutputDir, filepath.FromSlash(res.Image))
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		res.Error = err.Error()
		return res
	}

	f, err := os.Create(outPath)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		res.Error = fmt.Sprintf("WebP encode: %v", err)
		return res
	}

	l.Debug().Str("image", res.Image).Msg("batch: rendered")
	res.Success = true
	return res
}
