package main

import (
	"flag"
	"fmt"
	"os"

	"drake-renderer/internal/mesh"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: inspect <mesh.obj|cube|axes|grid>...\n")
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	failed := false
	for _, path := range flag.Args() {
		m, ok := mesh.Builtin(path)
		if !ok {
			var err error
			m, err = mesh.Load(path)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				failed = true
				continue
			}
		}

		colored := 0
		for _, e := range m.Edges {
			if e.Color != "" {
				colored++
			}
		}
		dups := m.Clone().Dedup()

		fmt.Printf("%s\n", m.Name)
		fmt.Printf("  Vertices: %d, Edges: %d (duplicate: %d, colored: %d)\n", len(m.Vertices), len(m.Edges), dups, colored)
		lo, hi, ok := m.Bounds()
		if !ok {
			fmt.Printf("  BBox: empty\n")
			continue
		}
		fmt.Printf("  BBox: X[%.2f, %.2f] Y[%.2f, %.2f] Z[%.2f, %.2f]\n", lo[0], hi[0], lo[1], hi[1], lo[2], hi[2])
		size := hi.Sub(lo)
		fmt.Printf("  Size: %.2f x %.2f x %.2f\n", size[0], size[1], size[2])
	}

	if failed {
		os.Exit(1)
	}
}
