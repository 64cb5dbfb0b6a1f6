package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"ogre-mesh-renderer/internal/chunk/chunktest"
	"ogre-mesh-renderer/internal/mesh"
	"ogre-mesh-renderer/internal/skeleton"
	"ogre-mesh-renderer/internal/viewmatrix"
)

func quadFile(skeletonName string) []byte {
	return chunktest.New().
		FileHeader(mesh.ChunkHeader, mesh.Version120.String()).
		Chunk(mesh.ChunkMesh, func(b *chunktest.Builder) {
			b.Bool(skeletonName != "")
			b.Chunk(mesh.ChunkGeometry, func(g *chunktest.Builder) {
				g.Uint32(4)
				g.Float32s(-1, -1, 0, 1, -1, 0, 1, 1, 0, -1, 1, 0)
			})
			b.Chunk(mesh.ChunkSubMesh, func(s *chunktest.Builder) {
				s.String("Quad/Plain").Bool(true).Uint32(6).Bool(false)
				s.Uint16s(0, 1, 2, 0, 2, 3)
			})
			if skeletonName != "" {
				b.Chunk(mesh.ChunkMeshSkeletonLink, func(l *chunktest.Builder) { l.String(skeletonName) })
			}
		}).Bytes()
}

func skeletonFile() []byte {
	return chunktest.New().
		FileHeader(skeleton.ChunkHeader, skeleton.Version).
		Chunk(skeleton.ChunkBone, func(c *chunktest.Builder) {
			c.String("root").Uint16(0).Float32s(0, 0, 0).Float32s(0, 0, 0, 1)
		}).
		Chunk(skeleton.ChunkBone, func(c *chunktest.Builder) {
			c.String("tip").Uint16(1).Float32s(0, 1, 0).Float32s(0, 0, 0, 1)
		}).
		Chunk(skeleton.ChunkBoneParent, func(c *chunktest.Builder) { c.Uint16s(1, 0) }).
		Chunk(skeleton.ChunkAnimation, func(c *chunktest.Builder) { c.String("wave").Float32(1) }).
		Bytes()
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.mesh"), nil)
	writeFile(t, filepath.Join(dir, "sub", "a.MESH"), nil)
	writeFile(t, filepath.Join(dir, "a.skeleton"), nil)

	jobs, err := Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"b.mesh", "sub/a.MESH"}
	if len(jobs) != len(want) {
		t.Fatalf("jobs = %+v", jobs)
	}
	for i, j := range jobs {
		if j.Name != want[i] {
			t.Errorf("job %d = %q, want %q", i, j.Name, want[i])
		}
	}

	if _, err := Scan(filepath.Join(dir, "missing")); err == nil {
		t.Error("scan of missing dir succeeded")
	}
}

func TestRun(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(in, "plain.mesh"), quadFile(""))
	writeFile(t, filepath.Join(in, "rigged", "quad.mesh"), quadFile("quad.skeleton"))
	writeFile(t, filepath.Join(in, "quad.skeleton"), skeletonFile())
	writeFile(t, filepath.Join(in, "broken.mesh"), []byte{0x00, 0x10, 'x'})

	jobs, err := Scan(in)
	if err != nil {
		t.Fatal(err)
	}
	nop := zerolog.Nop()
	results := Run(Config{
		OutputDir:   out,
		SkeletonDir: in,
		Camera:      viewmatrix.DefaultCamera(),
		RenderSize:  32,
		Supersample: 2,
		Workers:     2,
		Logger:      &nop,
	}, jobs)

	if len(results) != 3 {
		t.Fatalf("results = %d", len(results))
	}
	byName := make(map[string]Result)
	for i, r := range results {
		if r.Job != jobs[i] {
			t.Errorf("result %d is for %q", i, r.Job.Name)
		}
		byName[r.Job.Name] = r
	}

	if r := byName["broken.mesh"]; r.Success || r.Error == "" {
		t.Errorf("broken mesh: %+v", r)
	}
	plain := byName["plain.mesh"]
	if !plain.Success || plain.Summary.Triangles != 2 || plain.Summary.Vertices != 4 {
		t.Errorf("plain: %+v", plain)
	}
	rigged := byName["rigged/quad.mesh"]
	if !rigged.Success || rigged.Summary.Bones != 2 || len(rigged.Summary.Animations) != 1 {
		t.Errorf("rigged: %+v", rigged)
	}
	for _, img := range []string{"plain.webp", "rigged/quad.webp"} {
		if info, err := os.Stat(filepath.Join(out, img)); err != nil || info.Size() == 0 {
			t.Errorf("%s: %v", img, err)
		}
	}

	manifest := filepath.Join(out, "manifest.json")
	if err := WriteManifest(manifest, results); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatal(err)
	}
	var entries []ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Mesh != "plain.mesh" || entries[1].Skeleton != "quad.skeleton" {
		t.Errorf("manifest = %+v", entries)
	}
}
