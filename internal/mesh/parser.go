package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"drake-renderer/internal/mathutil"
)

// Load reads a line mesh from path.
func Load(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: read %s: %w", path, err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("mesh: parse %s: %w", path, err)
	}
	m.Name = path
	return m, nil
}

// Parse reads the Wavefront subset used for wireframes:
//
//	v x y z      vertex
//	f i j k ...  face, drawn as a closed loop of edges
//	l i j ...    polyline
//	usemtl c     color for the edges that follow; bare usemtl inherits again
//
// Indices are 1-based; negative indices count back from the last vertex
// read so far. Only the position part of "i/t/n" tokens is used. Comments
// and any other record are skipped.
func Parse(r io.Reader) (*Mesh, error) {
	m := &Mesh{}
	sc := bufio.NewScanner(r)
	lineNo := 0
	color := ""

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", lineNo)
			}
			var v mathutil.Vec3
			for i := 0; i < 3; i++ {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: vertex: %w", lineNo, err)
				}
				v[i] = f
			}
			m.Vertices = append(m.Vertices, v)

		case "usemtl":
			color = ""
			if len(fields) > 1 {
				color = fields[1]
			}

		case "f", "l":
			idx, err := parseIndices(fields[1:], len(m.Vertices))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if len(idx) < 2 {
				continue
			}
			for i := 0; i < len(idx)-1; i++ {
				m.Edges = append(m.Edges, Edge{A: idx[i], B: idx[i+1], Color: color})
			}
			if fields[0] == "f" {
				m.Edges = append(m.Edges, Edge{A: idx[len(idx)-1], B: idx[0], Color: color})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseIndices(tokens []string, nverts int) ([]int, error) {
	out := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		if slash := strings.IndexByte(tok, '/'); slash >= 0 {
			tok = tok[:slash]
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("index %q: %w", tok, err)
		}
		switch {
		case n > 0:
			out = append(out, n-1)
		case n < 0:
			out = append(out, nverts+n)
		default:
			return nil, fmt.Errorf("%w: index 0", ErrIndexRange)
		}
	}
	return out, nil
}
