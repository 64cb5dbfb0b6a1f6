package texture

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"github.com/rs/zerolog"
)

func writePNG(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestIndexResolvesMaterialNames(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "robot", "Robot.png"), color.NRGBA{A: 255})
	writePNG(t, filepath.Join(dir, "ogrehead.png"), color.NRGBA{A: 255})
	if err := os.WriteFile(filepath.Join(dir, "ogrehead.jpg"), []byte("not used"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	idx := BuildIndex(dir)
	if idx.Len() != 2 {
		t.Fatalf("Len = %d, want 2", idx.Len())
	}

	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"Models/Robot", filepath.Join(dir, "robot", "Robot.png"), true},
		{`Materials\robot.tga`, filepath.Join(dir, "robot", "Robot.png"), true},
		{"OgreHead", filepath.Join(dir, "ogrehead.png"), true},
		{"Missing", "", false},
	}
	for _, tt := range tests {
		got, ok := idx.ResolvePath(tt.name)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ResolvePath(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestBuildIndexMissingDir(t *testing.T) {
	if n := BuildIndex(filepath.Join(t.TempDir(), "nope")).Len(); n != 0 {
		t.Errorf("Len = %d", n)
	}
	if n := BuildIndex("").Len(); n != 0 {
		t.Errorf("Len = %d", n)
	}
}

func TestLoadTextureByExtension(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 30, 120, 240, 255
	}
	encoders := map[string]func(io.Writer, image.Image) error{
		"skin.png":  png.Encode,
		"skin.TGA":  tga.Encode,
		"skin.jpeg": func(w io.Writer, m image.Image) error { return jpeg.Encode(w, m, &jpeg.Options{Quality: 100}) },
	}
	for name, encode := range encoders {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			t.Fatal(err)
		}
		if err := encode(f, img); err != nil {
			t.Fatal(err)
		}
		f.Close()

		got, err := LoadTexture(path)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if got.Bounds() != img.Bounds() {
			t.Errorf("%s: bounds %v", name, got.Bounds())
		}
		if name != "skin.jpeg" && got.NRGBAAt(3, 1) != img.NRGBAAt(3, 1) {
			t.Errorf("%s: pixel %v", name, got.NRGBAAt(3, 1))
		}
	}

	if err := os.WriteFile(filepath.Join(dir, "skin.bmp"), []byte("BM"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTexture(filepath.Join(dir, "skin.bmp")); err == nil {
		t.Error("unsupported extension decoded")
	}
}

func TestCacheLoadsOnce(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "skin.png"), color.NRGBA{R: 200, G: 10, B: 10, A: 255})
	if err := os.WriteFile(filepath.Join(dir, "broken.png"), []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}
	c := NewCache(BuildIndex(dir)).WithLogger(zerolog.Nop())

	var wg sync.WaitGroup
	imgs := make([]*image.NRGBA, 8)
	for i := range imgs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			imgs[i] = c.Resolve("Skin")
		}()
	}
	wg.Wait()
	if imgs[0] == nil {
		t.Fatal("texture not loaded")
	}
	if got := imgs[0].NRGBAAt(1, 1); got != (color.NRGBA{R: 200, G: 10, B: 10, A: 255}) {
		t.Errorf("pixel = %v", got)
	}
	if c.Resolve("broken") != nil {
		t.Error("undecodable texture returned an image")
	}
	if c.Resolve("absent") != nil {
		t.Error("unknown name returned an image")
	}
}
