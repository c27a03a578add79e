// Package mesh holds the flat and indexed vertex stream representations and
// the indexer that converts between them.
package mesh

// Flat is a non-indexed triangle list: one entry per triangle corner in each
// stream, corners of a triangle consecutive and in winding order.
type Flat struct {
	Positions [][3]float32
	TexCoords [][2]float32
	Normals   [][3]float32
}

// Len returns the corner count, or -1 if the streams disagree.
func (f *Flat) Len() int {
	n := len(f.Positions)
	if len(f.TexCoords) != n || len(f.Normals) != n {
		return -1
	}
	return n
}

// Triangles returns the number of complete triangles.
func (f *Flat) Triangles() int {
	return len(f.Positions) / 3
}

// Indexed is the deduplicated form of a Flat mesh: unique vertex tables and
// a 16-bit index stream referencing them.
type Indexed struct {
	Indices   []uint16
	Positions [][3]float32
	TexCoords [][2]float32
	Normals   [][3]float32
}

// VertexCount returns the number of unique vertices.
func (m *Indexed) VertexCount() int {
	return len(m.Positions)
}

// Expand dereferences the index stream back into a flat triangle list.
func (m *Indexed) Expand() *Flat {
	out := &Flat{
		Positions: make([][3]float32, len(m.Indices)),
		TexCoords: make([][2]float32, len(m.Indices)),
		Normals:   make([][3]float32, len(m.Indices)),
	}
	for i, idx := range m.Indices {
		out.Positions[i] = m.Positions[idx]
		out.TexCoords[i] = m.TexCoords[idx]
		out.Normals[i] = m.Normals[idx]
	}
	return out
}

// Stats summarizes an indexing result.
type Stats struct {
	Corners  int     `yaml:"corners"`
	Vertices int     `yaml:"vertices"`
	Reuse    float64 `yaml:"reuse"` // corners per unique vertex
}

// Stats returns corner and unique vertex counts.
func (m *Indexed) Stats() Stats {
	s := Stats{Corners: len(m.Indices), Vertices: len(m.Positions)}
	if s.Vertices > 0 {
		s.Reuse = float64(s.Corners) / float64(s.Vertices)
	}
	return s
}
