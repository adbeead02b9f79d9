// Package schema loads declarative YAML form definitions and compiles them
// into builder node trees.
//
// A schema describes one root node and nests from there:
//
//	form:
//	  type: record
//	  name: server
//	  fields:
//	    - name: host
//	      type: string
//	      prompt: Which host?
//	    - name: port
//	      type: uint
//	      default: "8080"
//	    - name: tags
//	      type: sequence
//	      element: {type: string}
//
// Schemas are validated before compilation, so a compiled tree never
// violates the structural rules the node constructors enforce.
package schema
