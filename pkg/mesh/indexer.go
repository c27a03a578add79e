package mesh

import (
	"errors"
	"fmt"
	"math"
)

// MaxVertices is the number of vertices a 16-bit index stream can address.
const MaxVertices = 1 << 16

// Indexer errors.
var (
	ErrIndexOverflow = errors.New("unique vertex count exceeds 16-bit index range")
	ErrStreamLength  = errors.New("attribute streams differ in length")
)

// vertexKey is the exact bit pattern of one corner's attributes.
// Comparing bits rather than float values keeps -0 and +0 apart and lets
// identical NaNs match.
type vertexKey struct {
	pos  [3]uint32
	uv   [2]uint32
	norm [3]uint32
}

func keyOf(p [3]float32, uv [2]float32, n [3]float32) vertexKey {
	return vertexKey{
		pos:  [3]uint32{math.Float32bits(p[0]), math.Float32bits(p[1]), math.Float32bits(p[2])},
		uv:   [2]uint32{math.Float32bits(uv[0]), math.Float32bits(uv[1])},
		norm: [3]uint32{math.Float32bits(n[0]), math.Float32bits(n[1]), math.Float32bits(n[2])},
	}
}

// Index deduplicates a flat triangle list into unique vertex tables and an
// index stream. Indices are assigned in first-seen order starting at 0, so
// the same input always yields the same output.
func Index(flat *Flat) (*Indexed, error) {
	n := flat.Len()
	if n < 0 {
		return nil, fmt.Errorf("%w: positions=%d texcoords=%d normals=%d",
			ErrStreamLength, len(flat.Positions), len(flat.TexCoords), len(flat.Normals))
	}

	out := &Indexed{Indices: make([]uint16, 0, n)}
	seen := make(map[vertexKey]uint16, n/2)

	for i := 0; i < n; i++ {
		p, uv, nrm := flat.Positions[i], flat.TexCoords[i], flat.Normals[i]
		key := keyOf(p, uv, nrm)

		if idx, ok := seen[key]; ok {
			out.Indices = append(out.Indices, idx)
			continue
		}

		if len(out.Positions) == MaxVertices {
			return nil, fmt.Errorf("%w: corner %d needs vertex %d", ErrIndexOverflow, i, MaxVertices+1)
		}

		idx := uint16(len(out.Positions))
		out.Positions = append(out.Positions, p)
		out.TexCoords = append(out.TexCoords, uv)
		out.Normals = append(out.Normals, nrm)
		seen[key] = idx
		out.Indices = append(out.Indices, idx)
	}

	return out, nil
}
