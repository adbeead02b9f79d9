// Package domain contains the shared vocabulary of the builder engine:
// user inputs, option menus, the recoverable error taxonomy and the
// read-only display tree.
//
// These types are deliberately free of behavior beyond basic helpers so
// that adapters (console, HTTP, MCP) can serialize them as-is.
package domain
