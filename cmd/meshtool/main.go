// meshtool is a CLI utility for inspecting and converting OBJ meshes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	gomath "math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/meshview/pkg/formats"
	"github.com/Faultbox/meshview/pkg/mesh"
)

// errMismatch is returned by verify when the re-expanded stream differs.
var errMismatch = errors.New("indexed mesh does not reproduce the input")

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(args, os.Stdout)
	case "verify":
		err = cmdVerify(args, os.Stdout)
	case "export":
		err = cmdExport(args, os.Stdout)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshtool - OBJ mesh utility

Usage:
  meshtool <command> [options]

Commands:
  info [-invert-v] <file.obj>              Show table sizes and vertex reuse
  verify [-invert-v] <file.obj>            Index, re-expand and compare
  export [-invert-v] <file.obj> [out.yaml] Write the indexed mesh as YAML

Examples:
  meshtool info suzanne.obj
  meshtool verify -invert-v cube.obj
  meshtool export suzanne.obj suzanne.yaml`)
}

// parseArgs handles the flags shared by every command.
func parseArgs(name string, args []string) (*flag.FlagSet, formats.OBJOptions, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	invertV := fs.Bool("invert-v", false, "Negate V texture coordinates")
	if err := fs.Parse(args); err != nil {
		return nil, formats.OBJOptions{}, err
	}
	if fs.NArg() < 1 {
		return nil, formats.OBJOptions{}, fmt.Errorf("usage: meshtool %s <file.obj>", name)
	}
	return fs, formats.OBJOptions{InvertV: *invertV}, nil
}

func openOBJ(path string, opts formats.OBJOptions) (*formats.OBJ, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", formats.ErrUnreadable, path, err)
	}
	defer f.Close()
	return formats.ParseOBJ(f, opts)
}

func cmdInfo(args []string, w io.Writer) error {
	fs, opts, err := parseArgs("info", args)
	if err != nil {
		return err
	}
	path := fs.Arg(0)

	obj, err := openOBJ(path, opts)
	if err != nil {
		return err
	}
	flat, err := obj.Expand()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "File:       %s\n", path)
	fmt.Fprintf(w, "Positions:  %d\n", len(obj.Positions))
	fmt.Fprintf(w, "TexCoords:  %d\n", len(obj.TexCoords))
	fmt.Fprintf(w, "Normals:    %d\n", len(obj.Normals))
	fmt.Fprintf(w, "Triangles:  %d\n", len(obj.Faces))
	if obj.Skipped > 0 {
		fmt.Fprintf(w, "Skipped:    %d records\n", obj.Skipped)
	}

	indexed, err := mesh.Index(flat)
	if err != nil {
		// Still useful to know the table sizes of an oversized mesh.
		fmt.Fprintf(w, "Indexing:   %v\n", err)
		return nil
	}
	stats := indexed.Stats()
	fmt.Fprintf(w, "Corners:    %d\n", stats.Corners)
	fmt.Fprintf(w, "Vertices:   %d\n", stats.Vertices)
	fmt.Fprintf(w, "Reuse:      %.2f\n", stats.Reuse)
	return nil
}

func cmdVerify(args []string, w io.Writer) error {
	fs, opts, err := parseArgs("verify", args)
	if err != nil {
		return err
	}
	path := fs.Arg(0)

	flat, err := formats.LoadOBJ(path, opts)
	if err != nil {
		return err
	}
	indexed, err := mesh.Index(flat)
	if err != nil {
		return err
	}

	if i := firstMismatch(flat, indexed.Expand()); i >= 0 {
		return fmt.Errorf("%w: corner %d", errMismatch, i)
	}
	fmt.Fprintf(w, "OK: %d corners, %d vertices\n", len(indexed.Indices), indexed.VertexCount())
	return nil
}

// firstMismatch returns the first corner whose bits differ, or -1.
func firstMismatch(a, b *mesh.Flat) int {
	n := a.Len()
	if n != b.Len() {
		return 0
	}
	for i := 0; i < n; i++ {
		if !sameBits(a.Positions[i][:], b.Positions[i][:]) ||
			!sameBits(a.TexCoords[i][:], b.TexCoords[i][:]) ||
			!sameBits(a.Normals[i][:], b.Normals[i][:]) {
			return i
		}
	}
	return -1
}

func sameBits(a, b []float32) bool {
	for i := range a {
		if gomath.Float32bits(a[i]) != gomath.Float32bits(b[i]) {
			return false
		}
	}
	return true
}

// exportDoc is the YAML layout written by export.
type exportDoc struct {
	Source    string       `yaml:"source"`
	Stats     mesh.Stats   `yaml:"stats"`
	Indices   []uint16     `yaml:"indices,flow"`
	Positions [][3]float32 `yaml:"positions"`
	TexCoords [][2]float32 `yaml:"texcoords"`
	Normals   [][3]float32 `yaml:"normals"`
}

func cmdExport(args []string, stdout io.Writer) error {
	fs, opts, err := parseArgs("export", args)
	if err != nil {
		return err
	}
	path := fs.Arg(0)

	flat, err := formats.LoadOBJ(path, opts)
	if err != nil {
		return err
	}
	indexed, err := mesh.Index(flat)
	if err != nil {
		return err
	}

	out := stdout
	if fs.NArg() > 1 {
		f, err := os.Create(fs.Arg(1))
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(exportDoc{
		Source:    path,
		Stats:     indexed.Stats(),
		Indices:   indexed.Indices,
		Positions: indexed.Positions,
		TexCoords: indexed.TexCoords,
		Normals:   indexed.Normals,
	}); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return enc.Close()
}
