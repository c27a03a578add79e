// Package formats provides parsers for the model file formats the viewer loads.
// Only pre-triangulated OBJ with p/t/n face corners is supported.
package formats
