// Package cli implements the image-nodes command-line interface.
//
// # Commands
//
//   - serve: run the MCP server on stdio, optionally with a metrics endpoint
//   - run: execute an HCL workflow file
//   - nodes: list the node catalog
//
// # Configuration
//
// --config points at a TOML file (see the config package); IMAGE_NODES_*
// environment variables override it. --verbose forces debug logging and
// --trace prints OpenTelemetry spans to stderr. Logs always go to stderr
// because serve uses stdout for protocol frames.
package cli
