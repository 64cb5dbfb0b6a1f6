package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"ogre-mesh-renderer/internal/config"
	"ogre-mesh-renderer/internal/skeleton"
)

func main() {
	verbose := flag.Bool("v", false, "Log every decoded chunk")
	keys := flag.Bool("keys", false, "Print every keyframe")
	flag.Parse()
	config.SetupLogging(nil, *verbose)

	failed := 0
	for _, arg := range flag.Args() {
		s, err := skeleton.Load(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Decode error %s: %v\n", arg, err)
			failed++
			continue
		}
		report(arg, s, *keys)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func report(path string, s *skeleton.Skeleton, keys bool) {
	note := ""
	if s.Truncated {
		note = " [TRUNCATED, bind pose]"
	}
	fmt.Printf("\n=== %s (bones=%d animations=%d)%s ===\n", path, len(s.Bones), len(s.Animations), note)

	index := make(map[*skeleton.Bone]int, len(s.Bones))
	for i, b := range s.Bones {
		index[b] = i
	}
	world := s.BindPositions()
	var walk func(b *skeleton.Bone, depth int)
	walk = func(b *skeleton.Bone, depth int) {
		p := world[index[b]]
		fmt.Printf("  %s%s [%d] local=(%.2f,%.2f,%.2f) world=(%.2f,%.2f,%.2f)\n",
			strings.Repeat("  ", depth), b.Name, b.Handle,
			b.Position[0], b.Position[1], b.Position[2], p[0], p[1], p[2])
		for _, c := range b.Children {
			walk(c, depth+1)
		}
	}
	for _, root := range s.RootBones() {
		walk(root, 0)
	}

	for _, a := range s.Animations {
		frames := 0
		for _, t := range a.Tracks {
			frames += len(t.KeyFrames)
		}
		fmt.Printf("Animation %q: length=%.2fs tracks=%d keyframes=%d\n", a.Name, a.Length, len(a.Tracks), frames)
		if !keys {
			continue
		}
		for _, t := range a.Tracks {
			fmt.Printf("  track %s:\n", t.Bone.Name)
			for _, kf := range t.KeyFrames {
				r := kf.Rotation
				fmt.Printf("    t=%.3f rot=(%.3f,%.3f,%.3f,%.3f) pos=(%.2f,%.2f,%.2f)",
					kf.Time, r.W, r.V[0], r.V[1], r.V[2], kf.Translation[0], kf.Translation[1], kf.Translation[2])
				if kf.HasScale {
					fmt.Printf(" scale=(%.2f,%.2f,%.2f)", kf.Scale[0], kf.Scale[1], kf.Scale[2])
				}
				fmt.Println()
			}
		}
	}
}
