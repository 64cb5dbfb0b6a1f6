package batch

import (
	"encoding/json"
	"os"

	"ogre-mesh-renderer/internal/mesh"
	"ogre-mesh-renderer/internal/skeleton"
)

// Summary describes a decoded mesh for the manifest.
type Summary struct {
	Version    string   `json:"version,omitempty"`
	SubMeshes  int      `json:"submeshes"`
	Vertices   int      `json:"vertices"`
	Triangles  int      `json:"triangles"`
	Materials  []string `json:"materials,omitempty"`
	LODLevels  int      `json:"lod_levels"`
	Skeleton   string   `json:"skeleton,omitempty"`
	Bones      int      `json:"bones,omitempty"`
	Animations []string `json:"animations,omitempty"`
}

// Summarize counts the geometry of m.
func Summarize(m *mesh.Mesh) Summary {
	s := Summary{
		Version:   m.Version.String(),
		SubMeshes: len(m.SubMeshes),
		LODLevels: m.NumLODLevels,
		Skeleton:  m.SkeletonName,
	}
	if m.SharedVertexData != nil {
		s.Vertices += m.SharedVertexData.Count
	}
	for _, sm := range m.SubMeshes {
		if sm.VertexData != nil {
			s.Vertices += sm.VertexData.Count
		}
		s.Triangles += len(sm.Triangles())
		if sm.MaterialName != "" {
			s.Materials = append(s.Materials, sm.MaterialName)
		}
	}
	return s
}

// AddSkeleton records the bones and animations of the linked skeleton.
func (s *Summary) AddSkeleton(sk *skeleton.Skeleton) {
	s.Bones = len(sk.Bones)
	for _, a := range sk.Animations {
		s.Animations = append(s.Animations, a.Name)
	}
}

// ManifestEntry represents one rendered mesh in the output manifest.
type ManifestEntry struct {
	Mesh  string `json:"mesh"`
	Image string `json:"image"`
	Summary
}

// WriteManifest writes the successful results to path as JSON.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		entries = append(entries, ManifestEntry{Mesh: r.Job.Name, Image: r.Image, Summary: r.Summary})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
