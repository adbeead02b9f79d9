package espalier

// Version is the library version, surfaced by the CLI and the MCP adapter.
var Version = "0.1.0"
