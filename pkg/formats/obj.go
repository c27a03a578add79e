// OBJ (Wavefront) text model parser for pre-triangulated meshes.
package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/pkg/mesh"
)

// OBJ format errors.
var (
	ErrUnreadable          = errors.New("model resource unreadable")
	ErrMalformedIndex      = errors.New("face index out of range")
	ErrUnsupportedTopology = errors.New("face is not a triangle")
	ErrMalformedRecord     = errors.New("malformed OBJ record")
)

// OBJOptions controls OBJ loading.
type OBJOptions struct {
	// InvertV negates the V texture coordinate. Block-compressed textures are
	// stored with an inverted vertical axis relative to OBJ's convention.
	InvertV bool
	// Logger receives progress messages. Nil disables them.
	Logger *zap.Logger
}

// OBJCorner references one attribute of each table by 1-based index.
type OBJCorner struct {
	P, T, N int
}

// OBJFace is a triangle in declared winding order.
type OBJFace [3]OBJCorner

// OBJ holds the independent attribute tables and faces of a parsed file.
type OBJ struct {
	Positions [][3]float32
	TexCoords [][2]float32
	Normals   [][3]float32
	Faces     []OBJFace
	Skipped   int // records with an unrecognized prefix
}

// LoadOBJ reads, parses and expands the OBJ file at path.
func LoadOBJ(path string, opts OBJOptions) (*mesh.Flat, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("loading OBJ", zap.String("path", path))

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadable, path, err)
	}
	defer f.Close()

	obj, err := ParseOBJ(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	flat, err := obj.Expand()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Debug("OBJ loaded",
		zap.Int("positions", len(obj.Positions)),
		zap.Int("texcoords", len(obj.TexCoords)),
		zap.Int("normals", len(obj.Normals)),
		zap.Int("faces", len(obj.Faces)),
		zap.Int("skipped", obj.Skipped),
	)
	return flat, nil
}

// ParseOBJ parses OBJ text into attribute tables and triangle faces.
// Indices are not resolved here; see Expand.
func ParseOBJ(r io.Reader, opts OBJOptions) (*OBJ, error) {
	obj := &OBJ{}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: v: %w", lineNo, err)
			}
			obj.Positions = append(obj.Positions, [3]float32{v[0], v[1], v[2]})

		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: vt: %w", lineNo, err)
			}
			if opts.InvertV {
				v[1] = -v[1]
			}
			obj.TexCoords = append(obj.TexCoords, [2]float32{v[0], v[1]})

		case "vn":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: vn: %w", lineNo, err)
			}
			obj.Normals = append(obj.Normals, [3]float32{v[0], v[1], v[2]})

		case "f":
			if len(fields)-1 != 3 {
				return nil, fmt.Errorf("line %d: %w: %d corners", lineNo, ErrUnsupportedTopology, len(fields)-1)
			}
			var face OBJFace
			for i, ref := range fields[1:] {
				c, err := parseCorner(ref)
				if err != nil {
					return nil, fmt.Errorf("line %d: f: %w", lineNo, err)
				}
				face[i] = c
			}
			obj.Faces = append(obj.Faces, face)

		default:
			obj.Skipped++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	return obj, nil
}

// Expand resolves every face corner into flat per-corner streams, preserving
// face order and winding.
func (o *OBJ) Expand() (*mesh.Flat, error) {
	n := len(o.Faces) * 3
	flat := &mesh.Flat{
		Positions: make([][3]float32, 0, n),
		TexCoords: make([][2]float32, 0, n),
		Normals:   make([][3]float32, 0, n),
	}

	for fi, face := range o.Faces {
		for ci, c := range face {
			if !inRange(c.P, len(o.Positions)) || !inRange(c.T, len(o.TexCoords)) || !inRange(c.N, len(o.Normals)) {
				return nil, fmt.Errorf("%w: face %d corner %d (%d/%d/%d), tables %d/%d/%d",
					ErrMalformedIndex, fi, ci, c.P, c.T, c.N,
					len(o.Positions), len(o.TexCoords), len(o.Normals))
			}
			flat.Positions = append(flat.Positions, o.Positions[c.P-1])
			flat.TexCoords = append(flat.TexCoords, o.TexCoords[c.T-1])
			flat.Normals = append(flat.Normals, o.Normals[c.N-1])
		}
	}

	return flat, nil
}

func inRange(idx, n int) bool {
	return idx >= 1 && idx <= n
}

// parseFloats parses the first want fields. Extra fields (e.g. a w
// component) are ignored.
func parseFloats(fields []string, want int) ([]float32, error) {
	if len(fields) < want {
		return nil, fmt.Errorf("%w: want %d values, got %d", ErrMalformedRecord, want, len(fields))
	}
	out := make([]float32, want)
	for i := 0; i < want; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedRecord, fields[i])
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseCorner parses a "p/t/n" reference.
func parseCorner(ref string) (OBJCorner, error) {
	parts := strings.Split(ref, "/")
	if len(parts) != 3 {
		return OBJCorner{}, fmt.Errorf("%w: corner %q is not p/t/n", ErrMalformedRecord, ref)
	}
	var idx [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return OBJCorner{}, fmt.Errorf("%w: corner %q", ErrMalformedRecord, ref)
		}
		idx[i] = v
	}
	return OBJCorner{P: idx[0], T: idx[1], N: idx[2]}, nil
}
