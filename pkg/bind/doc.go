// Package bind derives a builder node tree from an annotated Go struct.
//
// Field behaviour is controlled with the `espalier` struct tag:
//
//	type Server struct {
//		Host    string  `espalier:"prompt=Which host?"`
//		Port    uint16  `espalier:"default=8080"`
//		Debug   bool    `espalier:"hidden,default=false"`
//		Alias   *string `espalier:"rename=nickname"`
//		Tags    []string
//		Ignored string  `espalier:"-"`
//	}
//
// Pointer fields become optionals, slice fields become sequences and
// nested structs recurse. The derived tree extracts maps keyed by the Go
// field names, so a finished build decodes straight back into the source
// struct type.
package bind
