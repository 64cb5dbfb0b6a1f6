package main

import (
	"flag"
	"fmt"
	"maps"
	"os"
	"slices"

	"ogre-mesh-renderer/internal/config"
	"ogre-mesh-renderer/internal/mesh"
)

func main() {
	verbose := flag.Bool("v", false, "Log every decoded chunk")
	flag.Parse()
	config.SetupLogging(nil, *verbose)

	failed := 0
	for _, arg := range flag.Args() {
		m, err := mesh.Load(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Decode error %s: %v\n", arg, err)
			failed++
			continue
		}
		report(arg, m)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func report(path string, m *mesh.Mesh) {
	fmt.Printf("\n=== %s (%s, submeshes=%d) ===\n", path, m.Version, len(m.SubMeshes))
	if m.SkeletonName != "" {
		fmt.Printf("Skeleton: %s (animated=%v, mesh assignments=%d)\n",
			m.SkeletonName, m.SkeletallyAnimated, len(m.BoneAssignments))
	}
	if m.SharedVertexData != nil {
		fmt.Println("--- Shared geometry ---")
		printVertexData("  ", m.SharedVertexData)
	}

	for i, sm := range m.SubMeshes {
		name := sm.Name
		if name == "" {
			name = "-"
		}
		width := 16
		if sm.IndexData.Is32Bit {
			width = 32
		}
		fmt.Printf("  SubMesh[%d] %s: material=%q op=%s indices=%d (%d-bit) tris=%d shared=%v bones=%d\n",
			i, name, sm.MaterialName, sm.Operation, sm.IndexData.Count, width,
			len(sm.Triangles()), sm.UseSharedVertices, len(sm.BoneAssignments))
		if sm.VertexData != nil {
			printVertexData("    ", sm.VertexData)
		}
		for level, faces := range sm.LODFaces {
			if faces != nil {
				fmt.Printf("    LOD %d: indices=%d tris=%d\n", level+1, faces.Count, len(sm.LODTriangles(level+1)))
			}
		}
	}

	if m.NumLODLevels > 1 {
		kind := "generated"
		if m.IsLODManual {
			kind = "manual"
		}
		fmt.Printf("LOD: %d levels (%s)\n", m.NumLODLevels, kind)
		for i, u := range m.LODUsages {
			fmt.Printf("  level %d from depth^2=%.1f %s\n", i+1, u.FromDepthSquared, u.ManualName)
		}
	}

	b := m.Bounds
	c := b.Center()
	fmt.Printf("Bounds: min=(%.2f,%.2f,%.2f) max=(%.2f,%.2f,%.2f) center=(%.2f,%.2f,%.2f) radius=%.2f\n",
		b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2], c[0], c[1], c[2], m.BoundingRadius)
	if box, radius, ok := mesh.ComputeBounds(m); ok {
		status := "OK"
		if !b.Contains(box, 1e-3) || radius > m.BoundingRadius+1e-3 {
			status = "MISMATCH"
		}
		fmt.Printf("Computed: min=(%.2f,%.2f,%.2f) max=(%.2f,%.2f,%.2f) radius=%.2f [%s]\n",
			box.Min[0], box.Min[1], box.Min[2], box.Max[0], box.Max[1], box.Max[2], radius, status)
	}

	if m.EdgeListsBuilt {
		for lod, ed := range m.EdgeLists {
			edges := 0
			for _, g := range ed.EdgeGroups {
				edges += len(g.Edges)
			}
			fmt.Printf("Edge list LOD %d: triangles=%d groups=%d edges=%d\n",
				lod, len(ed.Triangles), len(ed.EdgeGroups), edges)
		}
	} else if m.AutoBuildEdgeLists {
		fmt.Println("Edge lists: built on load")
	}
}

func printVertexData(indent string, vd *mesh.VertexData) {
	fmt.Printf("%svertices=%d buffers=%d\n", indent, vd.Count, len(vd.Bindings))
	for _, src := range slices.Sorted(maps.Keys(vd.Bindings)) {
		buf := vd.Bindings[src]
		fmt.Printf("%s  buffer %d: stride=%d count=%d usage=%s\n", indent, src, buf.Stride(), buf.Count(), buf.Usage())
	}
	for _, e := range vd.Declaration.Elements {
		fmt.Printf("%s  source=%d offset=%d %s %s[%d]\n", indent, e.Source, e.Offset, e.Type, e.Semantic, e.Index)
	}
}
