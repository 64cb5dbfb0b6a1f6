package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	InputDir    string `json:"input_dir"`
	TextureDir  string `json:"texture_dir"`
	SkeletonDir string `json:"skeleton_dir"`
	OutputDir   string `json:"output_dir"`

	// Render settings
	RenderSize  int `json:"render_size"`
	Supersample int `json:"supersample"`
	Workers     int `json:"workers"`
	LOD         int `json:"lod"`

	// Camera
	Yaw         float32 `json:"yaw"`
	Pitch       float32 `json:"pitch"`
	Perspective bool    `json:"perspective"`
	FOV         float32 `json:"fov"`
}

// Default returns the settings used when neither a file nor a flag sets them.
func Default() Config {
	return Config{
		RenderSize:  256,
		Supersample: 2,
		Yaw:         30,
		Pitch:       20,
	}
}

// Load reads a JSON config file on top of Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings. Zero
// values and nil pointers leave the setting alone.
type Flags struct {
	InputDir    string
	TextureDir  string
	SkeletonDir string
	OutputDir   string
	Workers     int
	Size        int
	Supersample int
	LOD         int
	Yaw         *float32
	Pitch       *float32
	FOV         *float32
	Perspective *bool
}

// Resolve applies flags and fills in any empty fields with defaults.
func (c *Config) Resolve(flags Flags) {
	if flags.InputDir != "" {
		c.InputDir = flags.InputDir
	}
	if flags.TextureDir != "" {
		c.TextureDir = flags.TextureDir
	}
	if flags.SkeletonDir != "" {
		c.SkeletonDir = flags.SkeletonDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Size > 0 {
		c.RenderSize = flags.Size
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.LOD > 0 {
		c.LOD = flags.LOD
	}
	if flags.Yaw != nil {
		c.Yaw = *flags.Yaw
	}
	if flags.Pitch != nil {
		c.Pitch = *flags.Pitch
	}
	if flags.FOV != nil {
		c.FOV = *flags.FOV
	}
	if flags.Perspective != nil {
		c.Perspective = *flags.Perspective
	}

	if c.InputDir == "" {
		c.InputDir = detectInputDir()
	}
	if c.InputDir != "" {
		if c.TextureDir == "" {
			c.TextureDir = c.InputDir
		}
		if c.SkeletonDir == "" {
			c.SkeletonDir = c.InputDir
		}
		if c.OutputDir == "" {
			c.OutputDir = filepath.Join(c.InputDir, "renders")
		}
	}

	if c.RenderSize <= 0 {
		c.RenderSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.LOD < 0 {
		c.LOD = 0
	}
}

// detectInputDir looks for the usual media/models layout next to the
// executable or the working directory.
func detectInputDir() string {
	var roots []string
	if exe, _ := os.Executable(); exe != "" {
		dir := filepath.Dir(exe)
		roots = append(roots, dir, filepath.Dir(dir))
	}
	if cwd, _ := os.Getwd(); cwd != "" {
		roots = append(roots, cwd, filepath.Dir(cwd))
	}
	for _, root := range roots {
		dir := filepath.Join(root, "media", "models")
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}
